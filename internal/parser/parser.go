package parser

import (
	"fmt"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/errors"
	"github.com/ea-lang/ea/internal/lexer"
)

// Precedence levels, lowest to highest (§4.2).
const (
	_ int = iota
	LOWEST
	OR          // ||
	AND         // &&
	EQUALS      // == != .== .!=
	LESSGREATER // < <= > >= .< .<= .> .>=
	SUM         // + - .+ .-
	BITWISE     // & | ^ .& .| .^
	PRODUCT     // * / .* ./
	PREFIX      // -x !x
	CALL        // f(args)
	INDEX       // e[i]
	MEMBER      // e.f
)

var precedences = map[lexer.TokenType]int{
	lexer.OROR:     OR,
	lexer.ANDAND:   AND,
	lexer.EQ:       EQUALS,
	lexer.NE:       EQUALS,
	lexer.DOTEQ:    EQUALS,
	lexer.DOTNE:    EQUALS,
	lexer.LT:       LESSGREATER,
	lexer.LE:       LESSGREATER,
	lexer.GT:       LESSGREATER,
	lexer.GE:       LESSGREATER,
	lexer.DOTLT:    LESSGREATER,
	lexer.DOTLE:    LESSGREATER,
	lexer.DOTGT:    LESSGREATER,
	lexer.DOTGE:    LESSGREATER,
	lexer.PLUS:     SUM,
	lexer.MINUS:    SUM,
	lexer.DOTPLUS:  SUM,
	lexer.DOTMINUS: SUM,
	lexer.AMP:      BITWISE,
	lexer.PIPE:     BITWISE,
	lexer.CARET:    BITWISE,
	lexer.DOTAMP:   BITWISE,
	lexer.DOTPIPE:  BITWISE,
	lexer.DOTCARET: BITWISE,
	lexer.STAR:     PRODUCT,
	lexer.SLASH:    PRODUCT,
	lexer.DOTSTAR:  PRODUCT,
	lexer.DOTSLASH: PRODUCT,
	lexer.LPAREN:   CALL,
	lexer.LBRACKET: INDEX,
	lexer.DOT:      MEMBER,
}

type prefixParseFn func() ast.Expression
type infixParseFn func(ast.Expression) ast.Expression

// Parser walks a flat token slice (produced by lexer.Tokenize) with a
// single-token lookahead, building an AST via Pratt parsing for
// expressions and recursive descent everywhere else. There is no
// backtracking: every parse* method consumes exactly the tokens it
// recognizes or reports an error and returns immediately.
type Parser struct {
	tokens []lexer.Token
	pos    int

	cur  lexer.Token
	peek lexer.Token

	err *errors.CompileError

	// noStructLiteral suppresses struct-literal parsing after a leading
	// identifier, e.g. while parsing an if/while condition, so that `if x {`
	// parses `x` as a condition rather than the start of `x{...}`.
	noStructLiteral bool

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn
}

// New creates a Parser over an already-tokenized source.
func New(tokens []lexer.Token) *Parser {
	p := &Parser{tokens: tokens}

	p.prefixFns = map[lexer.TokenType]prefixParseFn{
		lexer.IDENT:    p.parseIdentifierOrCall,
		lexer.INT:      p.parseIntegerLiteral,
		lexer.HEX:      p.parseIntegerLiteral,
		lexer.BIN:      p.parseIntegerLiteral,
		lexer.FLOAT:    p.parseFloatLiteral,
		lexer.STRING:   p.parseStringLiteral,
		lexer.TRUE:     p.parseBoolLiteral,
		lexer.FALSE:    p.parseBoolLiteral,
		lexer.BANG:     p.parseUnaryExpression,
		lexer.MINUS:    p.parseUnaryExpression,
		lexer.LPAREN:   p.parseGroupedExpression,
		lexer.LBRACKET: p.parseBracketLiteral,
	}

	p.infixFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:     p.parseBinaryExpression,
		lexer.MINUS:    p.parseBinaryExpression,
		lexer.STAR:     p.parseBinaryExpression,
		lexer.SLASH:    p.parseBinaryExpression,
		lexer.AMP:      p.parseBinaryExpression,
		lexer.PIPE:     p.parseBinaryExpression,
		lexer.CARET:    p.parseBinaryExpression,
		lexer.LT:       p.parseBinaryExpression,
		lexer.LE:       p.parseBinaryExpression,
		lexer.GT:       p.parseBinaryExpression,
		lexer.GE:       p.parseBinaryExpression,
		lexer.EQ:       p.parseBinaryExpression,
		lexer.NE:       p.parseBinaryExpression,
		lexer.ANDAND:   p.parseBinaryExpression,
		lexer.OROR:     p.parseBinaryExpression,
		lexer.DOTPLUS:  p.parseBinaryExpression,
		lexer.DOTMINUS: p.parseBinaryExpression,
		lexer.DOTSTAR:  p.parseBinaryExpression,
		lexer.DOTSLASH: p.parseBinaryExpression,
		lexer.DOTLT:    p.parseBinaryExpression,
		lexer.DOTLE:    p.parseBinaryExpression,
		lexer.DOTGT:    p.parseBinaryExpression,
		lexer.DOTGE:    p.parseBinaryExpression,
		lexer.DOTEQ:    p.parseBinaryExpression,
		lexer.DOTNE:    p.parseBinaryExpression,
		lexer.DOTAMP:   p.parseBinaryExpression,
		lexer.DOTPIPE:  p.parseBinaryExpression,
		lexer.DOTCARET: p.parseBinaryExpression,
		lexer.LBRACKET: p.parseIndexExpression,
		lexer.DOT:      p.parseFieldAccess,
	}
	// Calls are recognized only directly after an identifier
	// (parseIdentifierOrCall), not as a general infix operator.

	p.advance()
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.cur = p.peek
	if p.pos < len(p.tokens) {
		p.peek = p.tokens[p.pos]
		p.pos++
	} else {
		p.peek = lexer.Token{Type: lexer.EOF}
	}
	// `kernel` and `out` keep their keyword types only when a name follows
	// them (a kernel declaration, an output parameter); anywhere else they
	// are ordinary identifiers.
	if (p.cur.Type == lexer.KERNEL || p.cur.Type == lexer.OUT) && p.peek.Type != lexer.IDENT {
		p.cur.Type = lexer.IDENT
	}
}

func (p *Parser) curIs(t lexer.TokenType) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t lexer.TokenType) bool { return p.peek.Type == t }

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

// expect checks the current token, advances past it, and records a parse
// error (aborting the parse) if it does not match.
func (p *Parser) expect(t lexer.TokenType, context string) bool {
	if p.err != nil {
		return false
	}
	if !p.curIs(t) {
		p.errorf("expected %s %s, got %s", t, context, p.cur.Type)
		return false
	}
	p.advance()
	return true
}

func (p *Parser) errorf(format string, args ...interface{}) {
	if p.err != nil {
		return
	}
	p.err = errors.ParseError(fmt.Sprintf(format, args...), p.cur.Pos)
}

// Err returns the first parse error encountered, or nil.
func (p *Parser) Err() *errors.CompileError { return p.err }

// ParseProgram parses a whole source file: a sequence of top-level
// declarations (func, kernel, struct, const, static_assert). It returns on
// the first error, per §7.
func ParseProgram(tokens []lexer.Token) (*ast.Program, *errors.CompileError) {
	p := New(tokens)
	prog := p.parseProgram()
	if p.err != nil {
		return nil, p.err
	}
	return prog, nil
}

func (p *Parser) parseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.curIs(lexer.EOF) && p.err == nil {
		decl := p.parseDeclaration()
		if p.err != nil {
			return prog
		}
		prog.Declarations = append(prog.Declarations, decl)
	}
	return prog
}
