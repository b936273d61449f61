package ast

import (
	"bytes"
	"strings"

	"github.com/ea-lang/ea/internal/lexer"
	"github.com/ea-lang/ea/internal/types"
)

// Node is the base interface for every AST node.
type Node interface {
	TokenLiteral() string
	String() string
	Pos() lexer.Position
	EndPos() lexer.Position
}

// Span returns the (start, end) pair for a node, per §3 "every AST node
// carries a non-empty span".
func Span(n Node) lexer.Span {
	return lexer.Span{Start: n.Pos(), End: n.EndPos()}
}

// Expression is any node that produces a value.
type Expression interface {
	Node
	expressionNode()
	GetType() types.Type
	SetType(types.Type)
}

// Statement is a node that performs an action without producing a value.
type Statement interface {
	Node
	statementNode()
}

// Declaration is a top-level Statement: function, struct, const,
// static_assert, or kernel (before desugaring).
type Declaration interface {
	Statement
	declarationNode()
}

// Program is the root node: an ordered list of top-level declarations.
type Program struct {
	Declarations []Declaration
}

func (p *Program) TokenLiteral() string {
	if len(p.Declarations) > 0 {
		return p.Declarations[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, d := range p.Declarations {
		out.WriteString(d.String())
		out.WriteString("\n")
	}
	return out.String()
}

func (p *Program) Pos() lexer.Position {
	if len(p.Declarations) > 0 {
		return p.Declarations[0].Pos()
	}
	return lexer.Position{Line: 1, Column: 1}
}

func (p *Program) EndPos() lexer.Position {
	if n := len(p.Declarations); n > 0 {
		return p.Declarations[n-1].EndPos()
	}
	return p.Pos()
}

// base embeds the common Token/End-position bookkeeping every node needs.
type base struct {
	Token lexer.Token
	End   lexer.Position
}

func (b base) TokenLiteral() string  { return b.Token.Literal }
func (b base) Pos() lexer.Position   { return b.Token.Pos }
func (b base) EndPos() lexer.Position {
	if b.End.Line == 0 {
		return b.Token.Pos
	}
	return b.End
}

// Identifier is a variable, function, struct, or constant reference.
type Identifier struct {
	base
	Value string
	Type  types.Type
}

func (i *Identifier) expressionNode()       {}
func (i *Identifier) String() string        { return i.Value }
func (i *Identifier) GetType() types.Type   { return i.Type }
func (i *Identifier) SetType(t types.Type)  { i.Type = t }

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}
