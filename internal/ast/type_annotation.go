package ast

import (
	"fmt"

	"github.com/ea-lang/ea/internal/lexer"
)

// TypeAnnotation is the syntactic type variant of §3: Named, Pointer, or
// Vector, recursively. It is produced by the parser and resolved to an
// internal types.Type by the checker; unlike the teacher's TypeAnnotation
// (a flat Name string) this is a real recursive sum type, since the
// source language's pointer/vector nesting needs one.
type TypeAnnotation interface {
	Node
	typeAnnotationNode()
	Source() string // verbatim source-syntax rendering, for metadata (§6)
}

type taBase struct {
	Token lexer.Token
}

func (b taBase) TokenLiteral() string   { return b.Token.Literal }
func (b taBase) Pos() lexer.Position    { return b.Token.Pos }
func (b taBase) EndPos() lexer.Position { return b.Token.Pos }
func (taBase) typeAnnotationNode()      {}

// NamedType is a scalar or struct name: i8, u8, ..., f64, bool, or a
// user-defined struct name.
type NamedType struct {
	taBase
	Name string
}

func (t *NamedType) String() string { return t.Name }
func (t *NamedType) Source() string { return t.Name }

// NewNamedType constructs a NamedType; used by the parser, which cannot
// build a taBase literal directly since taBase is unexported.
func NewNamedType(tok lexer.Token, name string) *NamedType {
	return &NamedType{taBase: taBase{Token: tok}, Name: name}
}

// PointerType is *T, *mut T, *restrict T, or *restrict mut T.
type PointerType struct {
	taBase
	Mutable  bool
	Restrict bool
	Elem     TypeAnnotation
}

func (t *PointerType) String() string { return t.Source() }

func (t *PointerType) Source() string {
	s := "*"
	if t.Restrict {
		s += "restrict "
	}
	if t.Mutable {
		s += "mut "
	}
	return s + t.Elem.Source()
}

// NewPointerType constructs a PointerType.
func NewPointerType(tok lexer.Token, restrict, mutable bool, elem TypeAnnotation) *PointerType {
	return &PointerType{taBase: taBase{Token: tok}, Restrict: restrict, Mutable: mutable, Elem: elem}
}

// VectorType is TxW: an element annotation and a literal lane count.
type VectorType struct {
	taBase
	Elem  TypeAnnotation
	Width int
}

func (t *VectorType) String() string { return t.Source() }
func (t *VectorType) Source() string { return fmt.Sprintf("%sx%d", t.Elem.Source(), t.Width) }

// NewVectorType constructs a VectorType.
func NewVectorType(tok lexer.Token, elem TypeAnnotation, width int) *VectorType {
	return &VectorType{taBase: taBase{Token: tok}, Elem: elem, Width: width}
}
