package parser

import (
	"strconv"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/lexer"
)

// parseCondition parses an expression with struct-literal parsing
// suppressed at the top level (see Parser.noStructLiteral).
func (p *Parser) parseCondition() ast.Expression {
	p.noStructLiteral = true
	expr := p.parseExpression(LOWEST)
	p.noStructLiteral = false
	return expr
}

func (p *Parser) parseBlock() *ast.Block {
	if !p.expect(lexer.LBRACE, "to start block") {
		return nil
	}
	block := &ast.Block{}
	for !p.curIs(lexer.RBRACE) && !p.curIs(lexer.EOF) {
		stmt := p.parseStatement()
		if p.err != nil {
			return nil
		}
		block.Statements = append(block.Statements, stmt)
	}
	block.RBrace = p.cur.Pos
	if !p.expect(lexer.RBRACE, "to close block") {
		return nil
	}
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case lexer.LET:
		return p.parseLetStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.FOREACH:
		return p.parseForeachStatement()
	case lexer.UNROLL:
		return p.parseUnrollStatement()
	case lexer.IDENT:
		return p.parseIdentLedStatement()
	default:
		p.errorf("unexpected token %s at start of statement", p.cur.Type)
		return nil
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	tok := p.cur
	p.advance() // consume "let"
	mutable := false
	if p.curIs(lexer.MUT) {
		mutable = true
		p.advance()
	}
	if !p.curIs(lexer.IDENT) {
		p.errorf("expected identifier after 'let', got %s", p.cur.Type)
		return nil
	}
	name := p.cur.Literal
	p.advance()
	if !p.expect(lexer.COLON, "after let binding name") {
		return nil
	}
	anno := p.parseTypeAnnotation()
	if p.err != nil {
		return nil
	}
	if !p.expect(lexer.ASSIGN, "after let binding type") {
		return nil
	}
	value := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}
	return ast.NewLetStatement(tok, name, mutable, anno, value)
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.cur
	p.advance() // consume "return"
	if p.curIs(lexer.RBRACE) {
		return ast.NewReturnStatement(tok, nil, tok.Pos)
	}
	value := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}
	return ast.NewReturnStatement(tok, value, tok.Pos)
}

func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.cur
	p.advance() // consume "if"
	cond := p.parseCondition()
	if p.err != nil {
		return nil
	}
	then := p.parseBlock()
	if p.err != nil {
		return nil
	}
	var elseBlock *ast.Block
	if p.curIs(lexer.ELSE) {
		p.advance()
		if p.curIs(lexer.IF) {
			inner := p.parseIfStatement()
			if p.err != nil {
				return nil
			}
			elseBlock = &ast.Block{Statements: []ast.Statement{inner}, RBrace: inner.EndPos()}
		} else {
			elseBlock = p.parseBlock()
			if p.err != nil {
				return nil
			}
		}
	}
	return ast.NewIfStatement(tok, cond, then, elseBlock)
}

func (p *Parser) parseWhileStatement() ast.Statement {
	tok := p.cur
	p.advance() // consume "while"
	cond := p.parseCondition()
	if p.err != nil {
		return nil
	}
	body := p.parseBlock()
	if p.err != nil {
		return nil
	}
	return ast.NewWhileStatement(tok, cond, body)
}

func (p *Parser) parseForeachStatement() ast.Statement {
	tok := p.cur
	p.advance() // consume "foreach"
	if !p.expect(lexer.LPAREN, "after 'foreach'") {
		return nil
	}
	if !p.curIs(lexer.IDENT) {
		p.errorf("expected loop variable name, got %s", p.cur.Type)
		return nil
	}
	varName := p.cur.Literal
	p.advance()
	if !p.expect(lexer.IN, "after foreach loop variable") {
		return nil
	}
	start := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}
	if !p.expect(lexer.DOTDOT, "in foreach range") {
		return nil
	}
	end := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}
	if !p.expect(lexer.RPAREN, "to close foreach header") {
		return nil
	}
	body := p.parseBlock()
	if p.err != nil {
		return nil
	}
	return ast.NewForeachStatement(tok, varName, start, end, body)
}

func (p *Parser) parseUnrollStatement() ast.Statement {
	tok := p.cur
	p.advance() // consume "unroll"
	if !p.expect(lexer.LPAREN, "after 'unroll'") {
		return nil
	}
	if !p.curIs(lexer.INT) {
		p.errorf("expected integer unroll factor, got %s", p.cur.Type)
		return nil
	}
	factor, err := strconv.Atoi(p.cur.Literal)
	if err != nil {
		p.errorf("invalid unroll factor %q", p.cur.Literal)
		return nil
	}
	p.advance()
	if !p.expect(lexer.RPAREN, "to close unroll factor") {
		return nil
	}
	var loop ast.Statement
	switch p.cur.Type {
	case lexer.WHILE:
		loop = p.parseWhileStatement()
	case lexer.FOREACH:
		loop = p.parseForeachStatement()
	default:
		p.errorf("unroll must wrap a while or foreach loop, got %s", p.cur.Type)
		return nil
	}
	if p.err != nil {
		return nil
	}
	return ast.NewUnrollStatement(tok, factor, loop)
}

// parseIdentLedStatement disambiguates the four statement forms that begin
// with an identifier: a call used as a statement, a plain assignment, an
// index assignment, and a field assignment.
func (p *Parser) parseIdentLedStatement() ast.Statement {
	tok := p.cur
	name := p.cur.Literal
	p.advance()

	switch p.cur.Type {
	case lexer.LPAREN:
		call := p.finishCall(tok, name)
		if p.err != nil {
			return nil
		}
		return ast.NewExpressionStatement(tok, call)

	case lexer.ASSIGN:
		p.advance()
		value := p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}
		return ast.NewAssignStatement(tok, name, value)

	case lexer.LBRACKET:
		target := ast.Expression(ast.NewIdentifier(tok, name))
		idx := p.parseIndexExpression(target)
		if p.err != nil {
			return nil
		}
		ie := idx.(*ast.IndexExpression)
		if !p.expect(lexer.ASSIGN, "after indexed assignment target") {
			return nil
		}
		value := p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}
		return ast.NewIndexAssignStatement(tok, ie.Target, ie.Index, value)

	case lexer.DOT:
		target := ast.Expression(ast.NewIdentifier(tok, name))
		fa := p.parseFieldAccess(target)
		if p.err != nil {
			return nil
		}
		fe := fa.(*ast.FieldAccessExpression)
		if !p.expect(lexer.ASSIGN, "after field assignment target") {
			return nil
		}
		value := p.parseExpression(LOWEST)
		if p.err != nil {
			return nil
		}
		return ast.NewFieldAssignStatement(tok, fe.Target, fe.Field, value)

	default:
		p.errorf("unexpected token %s after identifier %q in statement", p.cur.Type, name)
		return nil
	}
}
