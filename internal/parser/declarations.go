package parser

import (
	"strconv"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/lexer"
)

// parseDeclaration parses one top-level item: a function, kernel, struct,
// const, or static_assert declaration, each optionally preceded by
// `export`.
func (p *Parser) parseDeclaration() ast.Declaration {
	export := false
	if p.curIs(lexer.EXPORT) {
		export = true
		p.advance()
	}

	switch p.cur.Type {
	case lexer.FUNC:
		return p.parseFunctionDecl(export)
	case lexer.KERNEL:
		return p.parseKernelDecl(export)
	case lexer.STRUCT:
		if export {
			p.errorf("'export' cannot be applied to a struct declaration")
			return nil
		}
		return p.parseStructDecl()
	case lexer.CONST:
		return p.parseConstDecl(export)
	case lexer.STATIC_ASSERT:
		if export {
			p.errorf("'export' cannot be applied to a static_assert declaration")
			return nil
		}
		return p.parseStaticAssertDecl()
	default:
		p.errorf("expected a top-level declaration, got %s", p.cur.Type)
		return nil
	}
}

// parseParamList parses `(name: T, ...)`, including the leading `out` and
// trailing `[cap: name]`/`[count: name]` param annotations of §4.2. The
// annotation value is a single identifier; other expressions are rejected.
func (p *Parser) parseParamList() []ast.Param {
	if !p.expect(lexer.LPAREN, "to start parameter list") {
		return nil
	}
	var params []ast.Param
	for !p.curIs(lexer.RPAREN) {
		if p.err != nil {
			return nil
		}
		out := false
		if p.curIs(lexer.OUT) {
			out = true
			p.advance()
		}
		if !p.curIs(lexer.IDENT) {
			p.errorf("expected parameter name, got %s", p.cur.Type)
			return nil
		}
		name := p.cur.Literal
		p.advance()
		if !p.expect(lexer.COLON, "after parameter name") {
			return nil
		}
		anno := p.parseTypeAnnotation()
		if p.err != nil {
			return nil
		}
		param := ast.Param{Name: name, Anno: anno, Out: out}

		for p.curIs(lexer.LBRACKET) {
			p.advance()
			if !p.curIs(lexer.IDENT) {
				p.errorf("expected 'cap' or 'count' in parameter annotation, got %s", p.cur.Type)
				return nil
			}
			kind := p.cur.Literal
			p.advance()
			if !p.expect(lexer.COLON, "in parameter annotation") {
				return nil
			}
			if !p.curIs(lexer.IDENT) {
				p.errorf("expected identifier in parameter annotation, got %s", p.cur.Type)
				return nil
			}
			ref := p.cur.Literal
			p.advance()
			switch kind {
			case "cap":
				param.Cap = ref
			case "count":
				param.Count = ref
			default:
				p.errorf("unknown parameter annotation %q", kind)
				return nil
			}
			if !p.expect(lexer.RBRACKET, "to close parameter annotation") {
				return nil
			}
		}

		params = append(params, param)
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	if !p.expect(lexer.RPAREN, "to close parameter list") {
		return nil
	}
	return params
}

func (p *Parser) parseFunctionDecl(export bool) ast.Declaration {
	tok := p.cur
	p.advance() // consume "func"
	if !p.curIs(lexer.IDENT) {
		p.errorf("expected function name, got %s", p.cur.Type)
		return nil
	}
	name := p.cur.Literal
	p.advance()

	params := p.parseParamList()
	if p.err != nil {
		return nil
	}

	var retAnno ast.TypeAnnotation
	if p.curIs(lexer.ARROW) {
		p.advance()
		retAnno = p.parseTypeAnnotation()
		if p.err != nil {
			return nil
		}
	}

	body := p.parseBlock()
	if p.err != nil {
		return nil
	}
	return ast.NewFunctionDecl(tok, name, export, params, retAnno, body)
}

func (p *Parser) parseStructDecl() ast.Declaration {
	tok := p.cur
	p.advance() // consume "struct"
	if !p.curIs(lexer.IDENT) {
		p.errorf("expected struct name, got %s", p.cur.Type)
		return nil
	}
	name := p.cur.Literal
	p.advance()
	if !p.expect(lexer.LBRACE, "to start struct body") {
		return nil
	}
	var fields []ast.Param
	for !p.curIs(lexer.RBRACE) {
		if p.err != nil {
			return nil
		}
		if !p.curIs(lexer.IDENT) {
			p.errorf("expected field name, got %s", p.cur.Type)
			return nil
		}
		fname := p.cur.Literal
		p.advance()
		if !p.expect(lexer.COLON, "after struct field name") {
			return nil
		}
		anno := p.parseTypeAnnotation()
		if p.err != nil {
			return nil
		}
		fields = append(fields, ast.Param{Name: fname, Anno: anno})
		if p.curIs(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	rbrace := p.cur.Pos
	if !p.expect(lexer.RBRACE, "to close struct body") {
		return nil
	}
	return ast.NewStructDecl(tok, name, fields, rbrace)
}

func (p *Parser) parseConstDecl(export bool) ast.Declaration {
	tok := p.cur
	p.advance() // consume "const"
	if !p.curIs(lexer.IDENT) {
		p.errorf("expected constant name, got %s", p.cur.Type)
		return nil
	}
	name := p.cur.Literal
	p.advance()
	if !p.expect(lexer.COLON, "after const name") {
		return nil
	}
	anno := p.parseTypeAnnotation()
	if p.err != nil {
		return nil
	}
	if !p.expect(lexer.ASSIGN, "after const type") {
		return nil
	}
	value := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}
	_ = export // const declarations are implicitly visible wherever imported; no separate export flag in the AST
	return ast.NewConstDecl(tok, name, anno, value)
}

func (p *Parser) parseStaticAssertDecl() ast.Declaration {
	tok := p.cur
	p.advance() // consume "static_assert"
	if !p.expect(lexer.LPAREN, "after 'static_assert'") {
		return nil
	}
	cond := p.parseExpression(LOWEST)
	if p.err != nil {
		return nil
	}
	message := ""
	if p.curIs(lexer.COMMA) {
		p.advance()
		if !p.curIs(lexer.STRING) {
			p.errorf("expected string message, got %s", p.cur.Type)
			return nil
		}
		message = p.cur.Literal
		p.advance()
	}
	rparen := p.cur.Pos
	if !p.expect(lexer.RPAREN, "to close static_assert") {
		return nil
	}
	return ast.NewStaticAssertDecl(tok, cond, message, rparen)
}

// parseKernelDecl parses `kernel name(params) over v in bound step S
// [tail STRATEGY [{ tailBody }]] { body }`. "kernel" lexes as the KERNEL
// token; the parser (not the lexer) is where it is context-sensitive
// (§4.2): advance keeps the KERNEL type only when a name follows it.
func (p *Parser) parseKernelDecl(export bool) ast.Declaration {
	tok := p.cur
	p.advance() // consume "kernel"
	if !p.curIs(lexer.IDENT) {
		p.errorf("expected kernel name, got %s", p.cur.Type)
		return nil
	}
	name := p.cur.Literal
	p.advance()

	params := p.parseParamList()
	if p.err != nil {
		return nil
	}
	return p.finishKernelDecl(tok, name, export, params)
}

// finishKernelDecl parses the `over v in bound step S [tail ...] { body }`
// tail of a kernel header. "over" is lexed as a plain identifier (it is
// not in the keyword table), so it is consumed positionally rather than
// via expect().
func (p *Parser) finishKernelDecl(tok lexer.Token, name string, export bool, params []ast.Param) ast.Declaration {
	if !p.curIs(lexer.IDENT) || p.cur.Literal != "over" {
		p.errorf("expected 'over' in kernel header, got %q", p.cur.Literal)
		return nil
	}
	p.advance()

	if !p.curIs(lexer.IDENT) {
		p.errorf("expected loop variable name, got %s", p.cur.Type)
		return nil
	}
	loopVar := p.cur.Literal
	p.advance()

	if !p.expect(lexer.IN, "after kernel loop variable") {
		return nil
	}
	if !p.curIs(lexer.IDENT) && !p.curIs(lexer.INT) {
		p.errorf("expected range bound, got %s", p.cur.Type)
		return nil
	}
	rangeBound := p.cur.Literal
	p.advance()

	if !p.expect(lexer.STEP, "after kernel range bound") {
		return nil
	}
	if !p.curIs(lexer.INT) {
		p.errorf("expected integer step, got %s", p.cur.Type)
		return nil
	}
	step, err := strconv.Atoi(p.cur.Literal)
	if err != nil {
		p.errorf("invalid step value %q", p.cur.Literal)
		return nil
	}
	p.advance()

	tailStrategy := ast.TailNone
	var tailBody *ast.Block
	if p.curIs(lexer.TAIL) {
		p.advance()
		switch p.cur.Type {
		case lexer.SCALAR:
			tailStrategy = ast.TailScalar
		case lexer.MASK:
			tailStrategy = ast.TailMask
		case lexer.PAD:
			tailStrategy = ast.TailPad
		default:
			p.errorf("expected tail strategy (scalar, mask, or pad), got %s", p.cur.Type)
			return nil
		}
		p.advance()
		if p.curIs(lexer.LBRACE) {
			tailBody = p.parseBlock()
			if p.err != nil {
				return nil
			}
		}
	}

	body := p.parseBlock()
	if p.err != nil {
		return nil
	}

	return ast.NewKernelDecl(tok, name, export, params, loopVar, rangeBound, step, tailStrategy, tailBody, body)
}
