package parser

import (
	"strconv"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/lexer"
)

// parseExpression is the Pratt-parser core: parse a prefix expression, then
// keep absorbing infix operators whose precedence exceeds the caller's
// floor.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixFns[p.cur.Type]
	if prefix == nil {
		p.errorf("unexpected token %s in expression", p.cur.Type)
		return nil
	}
	left := prefix()
	if p.err != nil {
		return nil
	}

	for precedence < p.curPrecedence() {
		infix := p.infixFns[p.cur.Type]
		if infix == nil {
			return left
		}
		left = infix(left)
		if p.err != nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.cur
	var v uint64
	var err error
	switch tok.Type {
	case lexer.HEX:
		v, err = strconv.ParseUint(tok.Literal[2:], 16, 64)
	case lexer.BIN:
		v, err = strconv.ParseUint(tok.Literal[2:], 2, 64)
	default:
		v, err = strconv.ParseUint(tok.Literal, 10, 64)
	}
	if err != nil {
		p.errorf("invalid integer literal %q", tok.Literal)
		return nil
	}
	p.advance()
	return ast.NewIntegerLiteral(tok, v, false)
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.cur
	v, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.errorf("invalid float literal %q", tok.Literal)
		return nil
	}
	p.advance()
	return ast.NewFloatLiteral(tok, v, false)
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.cur
	p.advance()
	return ast.NewStringLiteral(tok, tok.Literal)
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	tok := p.cur
	p.advance()
	return ast.NewBoolLiteral(tok, tok.Type == lexer.TRUE)
}

// parseUnaryExpression implements the literal-fusion rule of §4.2: a
// leading `-` directly in front of an integer or float literal is folded
// into the literal itself (Negative=true) rather than wrapped in a
// UnaryExpression, so that e.g. `-128` fits in an i8 the way a positive
// literal plus Negate would not.
func (p *Parser) parseUnaryExpression() ast.Expression {
	opTok := p.cur
	if opTok.Type == lexer.MINUS && (p.peekIs(lexer.INT) || p.peekIs(lexer.HEX) || p.peekIs(lexer.BIN) || p.peekIs(lexer.FLOAT)) {
		p.advance()
		switch p.cur.Type {
		case lexer.FLOAT:
			lit := p.parseFloatLiteral()
			if fl, ok := lit.(*ast.FloatLiteral); ok {
				fl.Negative = true
			}
			return lit
		default:
			lit := p.parseIntegerLiteral()
			if il, ok := lit.(*ast.IntegerLiteral); ok {
				il.Negative = true
			}
			return lit
		}
	}

	p.advance()
	right := p.parseExpression(PREFIX)
	if p.err != nil {
		return nil
	}
	return ast.NewUnaryExpression(opTok, opTok.Literal, right)
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.advance() // consume "("
	saved := p.noStructLiteral
	p.noStructLiteral = false
	expr := p.parseExpression(LOWEST)
	p.noStructLiteral = saved
	if p.err != nil {
		return nil
	}
	if !p.expect(lexer.RPAREN, "to close grouped expression") {
		return nil
	}
	return expr
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	opTok := p.cur
	precedence := p.curPrecedence()
	p.advance()
	right := p.parseExpression(precedence)
	if p.err != nil {
		return nil
	}
	return ast.NewBinaryExpression(left, opTok.Literal, right)
}

func (p *Parser) parseIndexExpression(target ast.Expression) ast.Expression {
	p.advance() // consume "["
	index := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}
	rbrack := p.cur.Pos
	if !p.expect(lexer.RBRACKET, "to close index expression") {
		return nil
	}
	return ast.NewIndexExpression(target, index, rbrack)
}

func (p *Parser) parseFieldAccess(target ast.Expression) ast.Expression {
	p.advance() // consume "."
	if !p.curIs(lexer.IDENT) {
		p.errorf("expected field name after '.', got %s", p.cur.Type)
		return nil
	}
	field := p.cur.Literal
	end := p.cur.Pos
	end.Column += len(field)
	end.Offset += len(field)
	p.advance()
	return ast.NewFieldAccessExpression(target, field, end)
}

// parseIdentifierOrCall handles a leading identifier: a plain variable
// reference, a call `name(args)`, or — unless the parser is inside a
// condition (noStructLiteral) — a struct literal `Name{field: v, ...}`.
func (p *Parser) parseIdentifierOrCall() ast.Expression {
	tok := p.cur
	name := tok.Literal
	p.advance()

	switch {
	case p.curIs(lexer.LPAREN):
		return p.finishCall(tok, name)
	case p.curIs(lexer.LBRACE) && !p.noStructLiteral:
		return p.finishStructLiteral(tok, name)
	default:
		return ast.NewIdentifier(tok, name)
	}
}

func (p *Parser) finishCall(tok lexer.Token, callee string) ast.Expression {
	p.advance() // consume "("
	var args []ast.Expression
	for !p.curIs(lexer.RPAREN) {
		if p.err != nil {
			return nil
		}
		arg := p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}
		args = append(args, arg)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	rparen := p.cur.Pos
	if !p.expect(lexer.RPAREN, "to close call arguments") {
		return nil
	}
	return ast.NewCallExpression(tok, callee, args, rparen)
}

func (p *Parser) finishStructLiteral(tok lexer.Token, name string) ast.Expression {
	p.advance() // consume "{"
	var fields []ast.StructLiteralField
	for !p.curIs(lexer.RBRACE) {
		if p.err != nil {
			return nil
		}
		if !p.curIs(lexer.IDENT) {
			p.errorf("expected field name in struct literal, got %s", p.cur.Type)
			return nil
		}
		fname := p.cur.Literal
		p.advance()
		if !p.expect(lexer.COLON, "after struct literal field name") {
			return nil
		}
		fval := p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}
		fields = append(fields, ast.StructLiteralField{Name: fname, Value: fval})
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	rbrace := p.cur.Pos
	if !p.expect(lexer.RBRACE, "to close struct literal") {
		return nil
	}
	return ast.NewStructLiteral(tok, name, fields, rbrace)
}

// parseBracketLiteral handles `[e, e, ...]` which is either a vector
// literal (when followed by a `TxW` type suffix) or a bare array literal
// (the shuffle-mask argument form).
func (p *Parser) parseBracketLiteral() ast.Expression {
	tok := p.cur
	p.advance() // consume "["
	var elems []ast.Expression
	for !p.curIs(lexer.RBRACKET) {
		if p.err != nil {
			return nil
		}
		e := p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}
		elems = append(elems, e)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	rbrack := p.cur.Pos
	if !p.expect(lexer.RBRACKET, "to close bracket literal") {
		return nil
	}

	if p.curIs(lexer.IDENT) {
		if elemName, width, ok := splitVectorName(p.cur.Literal); ok {
			annoTok := p.cur
			annoEnd := p.cur.Pos
			annoEnd.Column += len(p.cur.Literal)
			annoEnd.Offset += len(p.cur.Literal)
			p.advance()
			elem := ast.NewNamedType(annoTok, elemName)
			return ast.NewVectorLiteral(tok, elems, elem, width, annoEnd)
		}
	}

	return ast.NewArrayLiteral(tok, elems, rbrack)
}
