package ast

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/ea-lang/ea/internal/lexer"
	"github.com/ea-lang/ea/internal/types"
)

type typed struct{ Type types.Type }

func (t *typed) GetType() types.Type   { return t.Type }
func (t *typed) SetType(ty types.Type) { t.Type = ty }

// IntegerLiteral is a decimal, 0x, or 0b integer literal. Value holds the
// parsed magnitude; Negative distinguishes a negative-literal token
// produced by the parser's unary-minus-fusion rule (§4.2) from Negate(lit).
type IntegerLiteral struct {
	base
	typed
	Value    uint64
	Negative bool
}

func (il *IntegerLiteral) expressionNode() {}
func (il *IntegerLiteral) String() string  { return il.Token.Literal }

// FloatLiteral is a floating-point literal.
type FloatLiteral struct {
	base
	typed
	Value    float64
	Negative bool
}

func (fl *FloatLiteral) expressionNode() {}
func (fl *FloatLiteral) String() string  { return fl.Token.Literal }

// BoolLiteral is `true` or `false`.
type BoolLiteral struct {
	base
	typed
	Value bool
}

func (bl *BoolLiteral) expressionNode() {}
func (bl *BoolLiteral) String() string  { return bl.Token.Literal }

// StringLiteral is a double-quoted string; only valid as a println
// argument per the grammar.
type StringLiteral struct {
	base
	typed
	Value string
}

func (sl *StringLiteral) expressionNode() {}
func (sl *StringLiteral) String() string  { return "\"" + sl.Value + "\"" }

// UnaryExpression is `!e` or `-e` (Negate, when not fused into a literal).
type UnaryExpression struct {
	base
	typed
	Operator string
	Right    Expression
}

func (ue *UnaryExpression) expressionNode() {}
func (ue *UnaryExpression) EndPos() lexer.Position { return ue.Right.EndPos() }
func (ue *UnaryExpression) String() string  { return "(" + ue.Operator + ue.Right.String() + ")" }

// BinaryExpression covers every binary operator: arithmetic, bitwise,
// comparison, logical &&/||, and the 13 dotted elementwise forms.
type BinaryExpression struct {
	base
	typed
	Left     Expression
	Operator string
	Right    Expression
}

func (be *BinaryExpression) expressionNode()         {}
func (be *BinaryExpression) EndPos() lexer.Position { return be.Right.EndPos() }
func (be *BinaryExpression) String() string {
	return "(" + be.Left.String() + " " + be.Operator + " " + be.Right.String() + ")"
}

// CallExpression is `callee(args...)` — either an intrinsic (closed
// dispatch table, §4.4) or a user-defined function call.
type CallExpression struct {
	base
	typed
	Callee   string
	Args     []Expression
	RParen   lexer.Position
	HintType types.Type // optional type hint threaded from the enclosing context (§9)
}

func (ce *CallExpression) expressionNode()        {}
func (ce *CallExpression) EndPos() lexer.Position { return ce.RParen }
func (ce *CallExpression) String() string {
	var sb bytes.Buffer
	sb.WriteString(ce.Callee)
	sb.WriteString("(")
	for i, a := range ce.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}
	sb.WriteString(")")
	return sb.String()
}

// IndexExpression is `e[i]`: vector lane access or pointer-offset access.
type IndexExpression struct {
	base
	typed
	Target Expression
	Index  Expression
	RBrack lexer.Position
}

func (ie *IndexExpression) expressionNode()        {}
func (ie *IndexExpression) EndPos() lexer.Position { return ie.RBrack }
func (ie *IndexExpression) String() string {
	return ie.Target.String() + "[" + ie.Index.String() + "]"
}

// FieldAccessExpression is `e.f`: struct field access.
type FieldAccessExpression struct {
	base
	typed
	Target   Expression
	Field    string
	FieldEnd lexer.Position
}

func (fe *FieldAccessExpression) expressionNode()        {}
func (fe *FieldAccessExpression) EndPos() lexer.Position { return fe.FieldEnd }
func (fe *FieldAccessExpression) String() string         { return fe.Target.String() + "." + fe.Field }

// StructLiteral is `Name{field: expr, ...}`.
type StructLiteral struct {
	base
	typed
	Name   string
	Fields []StructLiteralField
	RBrace lexer.Position
}

type StructLiteralField struct {
	Name  string
	Value Expression
}

func (sl *StructLiteral) expressionNode()        {}
func (sl *StructLiteral) EndPos() lexer.Position { return sl.RBrace }
func (sl *StructLiteral) String() string {
	var parts []string
	for _, f := range sl.Fields {
		parts = append(parts, f.Name+": "+f.Value.String())
	}
	return sl.Name + "{" + strings.Join(parts, ", ") + "}"
}

// VectorLiteral is `[e, e, ...]TxW`.
type VectorLiteral struct {
	base
	typed
	Elements []Expression
	Elem     TypeAnnotation
	Width    int
	AnnoEnd  lexer.Position
}

func (vl *VectorLiteral) expressionNode()        {}
func (vl *VectorLiteral) EndPos() lexer.Position { return vl.AnnoEnd }
func (vl *VectorLiteral) String() string {
	var parts []string
	for _, e := range vl.Elements {
		parts = append(parts, e.String())
	}
	return "[" + strings.Join(parts, ", ") + "]" + vl.Elem.Source() + "x" + strconv.Itoa(vl.Width)
}

// ArrayLiteral is a plain bracketed literal with no trailing type
// annotation; only valid as the shuffle-mask argument of `shuffle`.
type ArrayLiteral struct {
	base
	typed
	Elements []Expression
	RBrack   lexer.Position
}

func (al *ArrayLiteral) expressionNode()        {}
func (al *ArrayLiteral) EndPos() lexer.Position { return al.RBrack }
func (al *ArrayLiteral) String() string {
	var parts []string
	for _, e := range al.Elements {
		parts = append(parts, e.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Constructors. These exist because base and typed are unexported, so a
// package outside ast (namely parser) cannot build these node structs with
// a composite literal directly.

func NewIdentifier(tok lexer.Token, value string) *Identifier {
	return &Identifier{base: base{Token: tok}, Value: value}
}

func NewIntegerLiteral(tok lexer.Token, value uint64, negative bool) *IntegerLiteral {
	return &IntegerLiteral{base: base{Token: tok}, Value: value, Negative: negative}
}

func NewFloatLiteral(tok lexer.Token, value float64, negative bool) *FloatLiteral {
	return &FloatLiteral{base: base{Token: tok}, Value: value, Negative: negative}
}

func NewBoolLiteral(tok lexer.Token, value bool) *BoolLiteral {
	return &BoolLiteral{base: base{Token: tok}, Value: value}
}

func NewStringLiteral(tok lexer.Token, value string) *StringLiteral {
	return &StringLiteral{base: base{Token: tok}, Value: value}
}

func NewUnaryExpression(tok lexer.Token, operator string, right Expression) *UnaryExpression {
	return &UnaryExpression{base: base{Token: tok}, Operator: operator, Right: right}
}

func NewBinaryExpression(left Expression, operator string, right Expression) *BinaryExpression {
	return &BinaryExpression{base: base{Token: lexer.Token{Pos: left.Pos()}}, Left: left, Operator: operator, Right: right}
}

func NewCallExpression(tok lexer.Token, callee string, args []Expression, rparen lexer.Position) *CallExpression {
	return &CallExpression{base: base{Token: tok}, Callee: callee, Args: args, RParen: rparen}
}

func NewIndexExpression(target, index Expression, rbrack lexer.Position) *IndexExpression {
	return &IndexExpression{base: base{Token: lexer.Token{Pos: target.Pos()}}, Target: target, Index: index, RBrack: rbrack}
}

func NewFieldAccessExpression(target Expression, field string, fieldEnd lexer.Position) *FieldAccessExpression {
	return &FieldAccessExpression{base: base{Token: lexer.Token{Pos: target.Pos()}}, Target: target, Field: field, FieldEnd: fieldEnd}
}

func NewStructLiteral(tok lexer.Token, name string, fields []StructLiteralField, rbrace lexer.Position) *StructLiteral {
	return &StructLiteral{base: base{Token: tok}, Name: name, Fields: fields, RBrace: rbrace}
}

func NewVectorLiteral(tok lexer.Token, elements []Expression, elem TypeAnnotation, width int, annoEnd lexer.Position) *VectorLiteral {
	return &VectorLiteral{base: base{Token: tok}, Elements: elements, Elem: elem, Width: width, AnnoEnd: annoEnd}
}

func NewArrayLiteral(tok lexer.Token, elements []Expression, rbrack lexer.Position) *ArrayLiteral {
	return &ArrayLiteral{base: base{Token: tok}, Elements: elements, RBrack: rbrack}
}
