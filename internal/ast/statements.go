package ast

import (
	"strconv"
	"strings"

	"github.com/ea-lang/ea/internal/lexer"
	"github.com/ea-lang/ea/internal/types"
)

// Block is a brace-delimited statement sequence. It is not itself a
// Statement; callers embed it in whichever construct owns a body.
type Block struct {
	Statements []Statement
	RBrace     lexer.Position
}

func (b *Block) String() string {
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, s := range b.Statements {
		sb.WriteString(indent(s.String()))
		sb.WriteString("\n")
	}
	sb.WriteString("}")
	return sb.String()
}

// LetStatement is `let [mut] x: T = e`.
type LetStatement struct {
	base
	Name    string
	Mutable bool
	Anno    TypeAnnotation
	Value   Expression
	Type    types.Type // resolved by the checker
}

func (ls *LetStatement) statementNode() {}
func (ls *LetStatement) EndPos() lexer.Position { return ls.Value.EndPos() }
func (ls *LetStatement) String() string {
	kw := "let "
	if ls.Mutable {
		kw += "mut "
	}
	return kw + ls.Name + ": " + ls.Anno.Source() + " = " + ls.Value.String()
}

// AssignStatement is `x = e`.
type AssignStatement struct {
	base
	Name  string
	Value Expression
}

func (as *AssignStatement) statementNode()        {}
func (as *AssignStatement) EndPos() lexer.Position { return as.Value.EndPos() }
func (as *AssignStatement) String() string         { return as.Name + " = " + as.Value.String() }

// IndexAssignStatement is `e[i] = e`.
type IndexAssignStatement struct {
	base
	Target Expression // the IndexExpression's target
	Index  Expression
	Value  Expression
}

func (ia *IndexAssignStatement) statementNode()        {}
func (ia *IndexAssignStatement) EndPos() lexer.Position { return ia.Value.EndPos() }
func (ia *IndexAssignStatement) String() string {
	return ia.Target.String() + "[" + ia.Index.String() + "] = " + ia.Value.String()
}

// FieldAssignStatement is `e.f = e`.
type FieldAssignStatement struct {
	base
	Target Expression
	Field  string
	Value  Expression
}

func (fa *FieldAssignStatement) statementNode()        {}
func (fa *FieldAssignStatement) EndPos() lexer.Position { return fa.Value.EndPos() }
func (fa *FieldAssignStatement) String() string {
	return fa.Target.String() + "." + fa.Field + " = " + fa.Value.String()
}

// ReturnStatement is `return [e]`.
type ReturnStatement struct {
	base
	Value  Expression // nil for bare `return`
	EndAt  lexer.Position
}

func (rs *ReturnStatement) statementNode() {}
func (rs *ReturnStatement) EndPos() lexer.Position {
	if rs.Value != nil {
		return rs.Value.EndPos()
	}
	return rs.EndAt
}
func (rs *ReturnStatement) String() string {
	if rs.Value == nil {
		return "return"
	}
	return "return " + rs.Value.String()
}

// IfStatement is `if cond { then } [else { else }]`. Else may itself be a
// single-statement *IfStatement wrapped in a Block for `else if` chains.
type IfStatement struct {
	base
	Condition Expression
	Then      *Block
	Else      *Block // nil if no else clause
}

func (is *IfStatement) statementNode() {}
func (is *IfStatement) EndPos() lexer.Position {
	if is.Else != nil {
		return is.Else.RBrace
	}
	return is.Then.RBrace
}
func (is *IfStatement) String() string {
	s := "if " + is.Condition.String() + " " + is.Then.String()
	if is.Else != nil {
		s += " else " + is.Else.String()
	}
	return s
}

// WhileStatement is `while cond { body }`.
type WhileStatement struct {
	base
	Condition Expression
	Body      *Block
}

func (ws *WhileStatement) statementNode()        {}
func (ws *WhileStatement) EndPos() lexer.Position { return ws.Body.RBrace }
func (ws *WhileStatement) String() string {
	return "while " + ws.Condition.String() + " " + ws.Body.String()
}

// ForeachStatement is `foreach(v in a..b) { body }`. Per §9 Open Question
// 4, the loop variable is an immutable i32 by default.
type ForeachStatement struct {
	base
	Var   string
	Start Expression
	End   Expression
	Body  *Block
}

func (fs *ForeachStatement) statementNode()        {}
func (fs *ForeachStatement) EndPos() lexer.Position { return fs.Body.RBrace }
func (fs *ForeachStatement) String() string {
	return "foreach(" + fs.Var + " in " + fs.Start.String() + ".." + fs.End.String() + ") " + fs.Body.String()
}

// UnrollStatement is `unroll(N) <loop>`, where the inner loop is a While
// or Foreach statement.
type UnrollStatement struct {
	base
	Factor int
	Loop   Statement
}

func (us *UnrollStatement) statementNode()        {}
func (us *UnrollStatement) EndPos() lexer.Position { return us.Loop.EndPos() }
func (us *UnrollStatement) String() string {
	return "unroll(" + strconv.Itoa(us.Factor) + ") " + us.Loop.String()
}

// ExpressionStatement is a bare call used for its side effect, e.g. a
// println(...) statement.
type ExpressionStatement struct {
	base
	Expr Expression
}

func (es *ExpressionStatement) statementNode()        {}
func (es *ExpressionStatement) EndPos() lexer.Position { return es.Expr.EndPos() }
func (es *ExpressionStatement) String() string         { return es.Expr.String() }

// Constructors, needed by the parser package since base is unexported.

func NewLetStatement(tok lexer.Token, name string, mutable bool, anno TypeAnnotation, value Expression) *LetStatement {
	return &LetStatement{base: base{Token: tok}, Name: name, Mutable: mutable, Anno: anno, Value: value}
}

func NewAssignStatement(tok lexer.Token, name string, value Expression) *AssignStatement {
	return &AssignStatement{base: base{Token: tok}, Name: name, Value: value}
}

func NewIndexAssignStatement(tok lexer.Token, target, index, value Expression) *IndexAssignStatement {
	return &IndexAssignStatement{base: base{Token: tok}, Target: target, Index: index, Value: value}
}

func NewFieldAssignStatement(tok lexer.Token, target Expression, field string, value Expression) *FieldAssignStatement {
	return &FieldAssignStatement{base: base{Token: tok}, Target: target, Field: field, Value: value}
}

func NewReturnStatement(tok lexer.Token, value Expression, endAt lexer.Position) *ReturnStatement {
	return &ReturnStatement{base: base{Token: tok}, Value: value, EndAt: endAt}
}

func NewIfStatement(tok lexer.Token, cond Expression, then, els *Block) *IfStatement {
	return &IfStatement{base: base{Token: tok}, Condition: cond, Then: then, Else: els}
}

func NewWhileStatement(tok lexer.Token, cond Expression, body *Block) *WhileStatement {
	return &WhileStatement{base: base{Token: tok}, Condition: cond, Body: body}
}

func NewForeachStatement(tok lexer.Token, v string, start, end Expression, body *Block) *ForeachStatement {
	return &ForeachStatement{base: base{Token: tok}, Var: v, Start: start, End: end, Body: body}
}

func NewUnrollStatement(tok lexer.Token, factor int, loop Statement) *UnrollStatement {
	return &UnrollStatement{base: base{Token: tok}, Factor: factor, Loop: loop}
}

func NewExpressionStatement(tok lexer.Token, expr Expression) *ExpressionStatement {
	return &ExpressionStatement{base: base{Token: tok}, Expr: expr}
}
