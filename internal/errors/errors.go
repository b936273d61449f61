// Package errors renders the compiler's diagnostics: a single error value
// with four kinds (lex, parse, type, codegen), each carrying a source span
// and a message.
package errors

import (
	"fmt"
	"strings"

	"github.com/ea-lang/ea/internal/lexer"
)

// Kind identifies which compiler stage raised an error.
type Kind int

const (
	Lex Kind = iota
	Parse
	Type
	CodeGen
)

func (k Kind) String() string {
	switch k {
	case Lex:
		return "lex"
	case Parse:
		return "parse"
	case Type:
		return "type"
	case CodeGen:
		return "codegen"
	default:
		return "unknown"
	}
}

// Position and Span are the lexer's; re-exported here so that callers can
// construct a CompileError without importing both packages.
type Position = lexer.Position
type Span = lexer.Span

// CompileError is the single error value used throughout the pipeline.
// CodeGen errors may lack a position (e.g. internal IR-builder failures not
// tied to a specific source location).
type CompileError struct {
	Kind    Kind
	Message string
	Pos     Position
	HasPos  bool
}

func (e *CompileError) Error() string {
	if !e.HasPos {
		return fmt.Sprintf("error[%s]: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("error[%s] %d:%d: %s", e.Kind, e.Pos.Line, e.Pos.Column, e.Message)
}

func LexError(message string, pos Position) *CompileError {
	return &CompileError{Kind: Lex, Message: message, Pos: pos, HasPos: true}
}

func ParseError(message string, pos Position) *CompileError {
	return &CompileError{Kind: Parse, Message: message, Pos: pos, HasPos: true}
}

func TypeError(message string, span Span) *CompileError {
	return &CompileError{Kind: Type, Message: message, Pos: span.Start, HasPos: true}
}

func CodeGenError(message string) *CompileError {
	return &CompileError{Kind: CodeGen, Message: message}
}

func CodeGenErrorAt(message string, pos Position) *CompileError {
	return &CompileError{Kind: CodeGen, Message: message, Pos: pos, HasPos: true}
}

// CompileErrors accumulates errors for multi-error reporting. No stage of
// the pipeline uses it: each stops at its first error and returns a single
// *CompileError.
type CompileErrors struct {
	errors []*CompileError
}

func (c *CompileErrors) Push(e *CompileError) { c.errors = append(c.errors, e) }
func (c *CompileErrors) IsEmpty() bool         { return len(c.errors) == 0 }
func (c *CompileErrors) Len() int              { return len(c.errors) }
func (c *CompileErrors) Errors() []*CompileError {
	return c.errors
}

// IntoResult collapses the collector into the conventional single-error
// result: the first pushed error, or nil.
func (c *CompileErrors) IntoResult() *CompileError {
	if len(c.errors) == 0 {
		return nil
	}
	return c.errors[0]
}

// Format renders a single error with a source-line-and-caret, following
// the exact column arithmetic of the pre-distillation implementation:
// the caret sits under the offending column, indented four spaces past the
// source line's own left margin.
//
//	<file>:<line>:<col>  error[<kind>]: <message>
//	    <source line>
//	        ^
func Format(e *CompileError, filename, source string) string {
	if !e.HasPos {
		return fmt.Sprintf("error[%s]: %s", e.Kind, e.Message)
	}

	header := fmt.Sprintf("%s:%d:%d  error[%s]: %s", filename, e.Pos.Line, e.Pos.Column, e.Kind, e.Message)

	lines := strings.Split(source, "\n")
	if e.Pos.Line <= 0 || e.Pos.Line > len(lines) {
		return header
	}

	sourceLine := lines[e.Pos.Line-1]
	caretCol := e.Pos.Column - 1
	if caretCol < 0 {
		caretCol = 0
	}
	caret := strings.Repeat(" ", caretCol+4) + "^"

	return header + "\n    " + sourceLine + "\n" + caret
}

// FormatAll renders every error in a collector, filename/source common to
// all of them, separated by a blank line and numbered when there is more
// than one.
func FormatAll(errs []*CompileError, filename, source string) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return Format(errs[0], filename, source)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "compilation failed with %d error(s):\n\n", len(errs))
	for i, e := range errs {
		fmt.Fprintf(&sb, "[error %d of %d]\n", i+1, len(errs))
		sb.WriteString(Format(e, filename, source))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// Hint returns a suggested fix appended to a type-error message, following
// the hinting rules of §4.6: a conversion hint between concrete numeric
// types, *mut suggestion on immutable writes, indexing notes, and the mask
// hint for select.
func Hint(kind string) string {
	switch kind {
	case "numeric-conversion":
		return " (use to_f32()/to_f64()/to_i32()/to_i64() to convert explicitly)"
	case "immutable-write":
		return " (pointer must be declared *mut to be written through)"
	case "non-indexable":
		return " (only pointers and vectors support indexing)"
	case "select-mask":
		return " (use a dotted comparison, e.g. a .< b, to produce the mask)"
	case "fma-integer":
		return " (fma requires float vectors; convert operands with to_f32/to_f64 first)"
	default:
		return ""
	}
}
