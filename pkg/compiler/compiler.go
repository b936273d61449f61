// Package compiler is the library entry point of spec §6: it wires
// lexer → parser → desugar → checker → codegen into the six functions a
// host program (or the `ea` CLI in cmd/ea) calls to compile a program.
package compiler

import (
	"fmt"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/checker"
	"github.com/ea-lang/ea/internal/codegen"
	"github.com/ea-lang/ea/internal/desugar"
	"github.com/ea-lang/ea/internal/errors"
	"github.com/ea-lang/ea/internal/lexer"
	"github.com/ea-lang/ea/internal/parser"
	"github.com/ea-lang/ea/internal/target"
)

// Options is the compile-options configuration struct of spec §6.
type Options struct {
	// OptLevel is 0..3; 0 disables the optimization pipeline.
	OptLevel int
	// TargetTriple defaults to the host triple when empty.
	TargetTriple string
	// TargetCPU defaults to the host CPU when empty.
	TargetCPU string
	// ExtraFeatures is a comma-separated list of feature toggles, e.g.
	// "+avx512f".
	ExtraFeatures string
}

func (o Options) targetDescription() target.Description {
	return target.FromTriple(o.TargetTriple, o.ExtraFeatures)
}

// ModeKind selects compile's output artifact.
type ModeKind int

const (
	ObjectFile ModeKind = iota
	ExecutableMode
	SharedLibMode
	LlvmIrMode
)

// Mode pairs a ModeKind with the output path it needs (Executable and
// SharedLib both carry one; ObjectFile and LlvmIr ignore Path).
type Mode struct {
	Kind ModeKind
	Path string
}

// Tokenize is the `tokenize(source) → tokens | error` entry point.
func Tokenize(source string) ([]lexer.Token, *errors.CompileError) {
	toks, lexErrs := lexer.Tokenize(source)
	if len(lexErrs) > 0 {
		first := lexErrs[0]
		return nil, errors.LexError(first.Message, first.Pos)
	}
	return toks, nil
}

// Parse is the `parse(tokens) → ast | error` entry point.
func Parse(tokens []lexer.Token) (*ast.Program, *errors.CompileError) {
	return parser.ParseProgram(tokens)
}

// Desugar is the `desugar(ast) → ast | error` entry point.
func Desugar(prog *ast.Program) (*ast.Program, *errors.CompileError) {
	return desugar.Program(prog)
}

// CheckTypes is the `check_types(ast) → () | error` entry point.
func CheckTypes(prog *ast.Program, opts Options) *errors.CompileError {
	_, err := checker.CheckProgram(prog, opts.targetDescription())
	return err
}

// frontend runs tokenize → parse → desugar → check_types, the pipeline
// shared by Compile and CompileToIR.
func frontend(source string, opts Options) (*ast.Program, *checker.Checker, *errors.CompileError) {
	toks, err := Tokenize(source)
	if err != nil {
		return nil, nil, err
	}
	prog, err := Parse(toks)
	if err != nil {
		return nil, nil, err
	}
	prog, err = Desugar(prog)
	if err != nil {
		return nil, nil, err
	}
	c, err := checker.CheckProgram(prog, opts.targetDescription())
	if err != nil {
		return nil, nil, err
	}
	return prog, c, nil
}

// CompileToIR is the `compile_to_ir(source, options) → string | error`
// entry point: it runs the full front end and returns the textual LLVM
// IR of the lowered module, without invoking any external tool.
func CompileToIR(source string, opts Options) (string, *errors.CompileError) {
	prog, c, err := frontend(source, opts)
	if err != nil {
		return "", err
	}
	m, err := codegen.Module(prog, c)
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

// Compile is the `compile(source, out_path, mode, options) → () | error`
// entry point. It runs the front end, lowers to LLVM IR, and then hands
// off to the backend (internal/linker plus the external `opt`/`clang`
// toolchain invoked from this package) according to mode.Kind.
func Compile(source, outPath string, mode Mode, opts Options) *errors.CompileError {
	irText, err := CompileToIR(source, opts)
	if err != nil {
		return err
	}

	if mode.Kind == LlvmIrMode {
		return writeFile(outPath, []byte(irText))
	}

	objData, err := assemble(irText, opts)
	if err != nil {
		return err
	}

	switch mode.Kind {
	case ObjectFile:
		return writeFile(outPath, objData)
	case ExecutableMode:
		return link(objData, mode.Path, false)
	case SharedLibMode:
		return link(objData, mode.Path, true)
	default:
		return errors.CodeGenError(fmt.Sprintf("unrecognized compile mode %v", mode.Kind))
	}
}
