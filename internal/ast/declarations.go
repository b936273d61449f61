package ast

import (
	"strconv"
	"strings"

	"github.com/ea-lang/ea/internal/lexer"
)

// Param is one function/kernel parameter: name, type annotation, and the
// three optional annotations from §4.2 (leading `out`, trailing
// `[cap:...]`/`[count:...]`).
type Param struct {
	Name  string
	Anno  TypeAnnotation
	Out   bool
	Cap   string // identifier named in the annotation, "" if absent
	Count string // identifier named in the annotation, "" if absent
}

// FunctionDecl is `[export] func name(params) -> T { body }`. Kernels
// lower to FunctionDecl during desugaring (§4.3); FromKernel is non-nil
// only on functions the desugarer produced from a kernel.
type FunctionDecl struct {
	base
	Name     string
	Export   bool
	Params   []Param
	RetAnno  TypeAnnotation // nil for a Void-returning function
	Body     *Block
	FromKernel *KernelDecl // set by the desugarer on lowered kernels, else nil
}

func (fd *FunctionDecl) statementNode()   {}
func (fd *FunctionDecl) declarationNode() {}
func (fd *FunctionDecl) EndPos() lexer.Position { return fd.Body.RBrace }
func (fd *FunctionDecl) String() string {
	var sb strings.Builder
	if fd.Export {
		sb.WriteString("export ")
	}
	sb.WriteString("func ")
	sb.WriteString(fd.Name)
	sb.WriteString("(")
	for i, p := range fd.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if p.Out {
			sb.WriteString("out ")
		}
		sb.WriteString(p.Name)
		sb.WriteString(": ")
		sb.WriteString(p.Anno.Source())
	}
	sb.WriteString(")")
	if fd.RetAnno != nil {
		sb.WriteString(" -> ")
		sb.WriteString(fd.RetAnno.Source())
	}
	sb.WriteString(" ")
	sb.WriteString(fd.Body.String())
	return sb.String()
}

// StructDecl is `struct Name { field: T, ... }`.
type StructDecl struct {
	base
	Name   string
	Fields []Param // reuses Param{Name, Anno}; Out/Cap/Count unused
	RBrace lexer.Position
}

func (sd *StructDecl) statementNode()         {}
func (sd *StructDecl) declarationNode()       {}
func (sd *StructDecl) EndPos() lexer.Position { return sd.RBrace }
func (sd *StructDecl) String() string {
	var sb strings.Builder
	sb.WriteString("struct " + sd.Name + " {\n")
	for _, f := range sd.Fields {
		sb.WriteString("  " + f.Name + ": " + f.Anno.Source() + ",\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// ConstDecl is `const name: T = literal`.
type ConstDecl struct {
	base
	Name  string
	Anno  TypeAnnotation
	Value Expression
}

func (cd *ConstDecl) statementNode()         {}
func (cd *ConstDecl) declarationNode()       {}
func (cd *ConstDecl) EndPos() lexer.Position { return cd.Value.EndPos() }
func (cd *ConstDecl) String() string {
	return "const " + cd.Name + ": " + cd.Anno.Source() + " = " + cd.Value.String()
}

// StaticAssertDecl is `static_assert(cond, "msg")`.
type StaticAssertDecl struct {
	base
	Condition Expression
	Message   string
	RParen    lexer.Position
}

func (sa *StaticAssertDecl) statementNode()         {}
func (sa *StaticAssertDecl) declarationNode()       {}
func (sa *StaticAssertDecl) EndPos() lexer.Position { return sa.RParen }
func (sa *StaticAssertDecl) String() string {
	return "static_assert(" + sa.Condition.String() + ", \"" + sa.Message + "\")"
}

// TailStrategy names how a kernel handles the remainder past the largest
// multiple of its step (§4.3, glossary "Tail strategy").
type TailStrategy int

const (
	TailNone TailStrategy = iota
	TailScalar
	TailMask
	TailPad
)

func (t TailStrategy) String() string {
	switch t {
	case TailScalar:
		return "scalar"
	case TailMask:
		return "mask"
	case TailPad:
		return "pad"
	default:
		return "none"
	}
}

// KernelDecl is `kernel name(params) over var in bound step S [tail
// STRATEGY [{ tailBody }]] { body }`, before desugaring lowers it to a
// FunctionDecl (§4.3).
type KernelDecl struct {
	base
	Name        string
	Export      bool
	Params      []Param
	LoopVar     string
	RangeBound  string
	Step        int
	Tail        TailStrategy
	TailBody    *Block // nil for TailPad/TailNone, optional for Scalar/Mask
	Body        *Block
}

func (kd *KernelDecl) statementNode()         {}
func (kd *KernelDecl) declarationNode()       {}
func (kd *KernelDecl) EndPos() lexer.Position { return kd.Body.RBrace }

// Constructors, needed by the parser package since base is unexported.

func NewFunctionDecl(tok lexer.Token, name string, export bool, params []Param, retAnno TypeAnnotation, body *Block) *FunctionDecl {
	return &FunctionDecl{base: base{Token: tok}, Name: name, Export: export, Params: params, RetAnno: retAnno, Body: body}
}

func NewStructDecl(tok lexer.Token, name string, fields []Param, rbrace lexer.Position) *StructDecl {
	return &StructDecl{base: base{Token: tok}, Name: name, Fields: fields, RBrace: rbrace}
}

func NewConstDecl(tok lexer.Token, name string, anno TypeAnnotation, value Expression) *ConstDecl {
	return &ConstDecl{base: base{Token: tok}, Name: name, Anno: anno, Value: value}
}

func NewStaticAssertDecl(tok lexer.Token, cond Expression, message string, rparen lexer.Position) *StaticAssertDecl {
	return &StaticAssertDecl{base: base{Token: tok}, Condition: cond, Message: message, RParen: rparen}
}

func NewKernelDecl(tok lexer.Token, name string, export bool, params []Param, loopVar, rangeBound string, step int, tail TailStrategy, tailBody *Block, body *Block) *KernelDecl {
	return &KernelDecl{
		base: base{Token: tok}, Name: name, Export: export, Params: params,
		LoopVar: loopVar, RangeBound: rangeBound, Step: step, Tail: tail, TailBody: tailBody, Body: body,
	}
}
func (kd *KernelDecl) String() string {
	var sb strings.Builder
	if kd.Export {
		sb.WriteString("export ")
	}
	sb.WriteString("kernel " + kd.Name + "(")
	for i, p := range kd.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Name + ": " + p.Anno.Source())
	}
	sb.WriteString(") over " + kd.LoopVar + " in " + kd.RangeBound + " step " + strconv.Itoa(kd.Step))
	if kd.Tail != TailNone {
		sb.WriteString(" tail " + kd.Tail.String())
	}
	sb.WriteString(" " + kd.Body.String())
	return sb.String()
}
