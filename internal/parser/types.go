package parser

import (
	"strconv"
	"strings"

	"github.com/ea-lang/ea/internal/ast"
	"github.com/ea-lang/ea/internal/lexer"
)

// scalarNames lists every scalar type keyword's literal spelling, used to
// recognize the `<scalar>x<width>` vector-name pattern below.
var scalarNames = map[string]bool{
	"i8": true, "u8": true, "i16": true, "u16": true,
	"i32": true, "u32": true, "i64": true, "u64": true,
	"f32": true, "f64": true, "bool": true,
}

// splitVectorName recognizes an identifier of the form `<scalar>x<width>`
// (e.g. "f32x4"), since the lexer does not special-case vector type names —
// it reports them as ordinary identifiers and leaves disambiguation to the
// parser. Returns ok=false for a plain scalar or struct name.
func splitVectorName(name string) (elem string, width int, ok bool) {
	idx := strings.LastIndexByte(name, 'x')
	if idx <= 0 || idx == len(name)-1 {
		return "", 0, false
	}
	candidate := name[:idx]
	if !scalarNames[candidate] {
		return "", 0, false
	}
	w, err := strconv.Atoi(name[idx+1:])
	if err != nil || (w != 4 && w != 8 && w != 16 && w != 32) {
		return "", 0, false
	}
	return candidate, w, true
}

// parseTypeAnnotation parses a Named, Pointer, or Vector type, recursively.
// `*`, `*mut`, `*restrict`, and `*restrict mut` all introduce a pointer;
// a scalar name of the form `<scalar>xN` (e.g. f32x4) is a Vector type.
func (p *Parser) parseTypeAnnotation() ast.TypeAnnotation {
	if p.curIs(lexer.STAR) {
		tok := p.cur
		p.advance()
		restrict := false
		mutable := false
		if p.curIs(lexer.RESTRICT) {
			restrict = true
			p.advance()
		}
		if p.curIs(lexer.MUT) {
			mutable = true
			p.advance()
		}
		elem := p.parseTypeAnnotation()
		if p.err != nil {
			return nil
		}
		return ast.NewPointerType(tok, restrict, mutable, elem)
	}

	if !p.curIs(lexer.IDENT) && !p.cur.Type.IsKeyword() {
		p.errorf("expected type name, got %s", p.cur.Type)
		return nil
	}
	tok := p.cur
	name := p.cur.Literal
	p.advance()

	if elemName, width, ok := splitVectorName(name); ok {
		elem := ast.NewNamedType(tok, elemName)
		return ast.NewVectorType(tok, elem, width)
	}

	return ast.NewNamedType(tok, name)
}
