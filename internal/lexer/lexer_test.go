package lexer

import "testing"

func TestNextTokenBasics(t *testing.T) {
	input := `export kernel inc(d:*i32, out:*mut i32) over i in n step 4 tail scalar {
		out[i] = d[i] + 1
	} { out[i]=d[i]+1 }`

	tests := []struct {
		wantType TokenType
		wantLit  string
	}{
		{EXPORT, "export"},
		{KERNEL, "kernel"},
		{IDENT, "inc"},
		{LPAREN, "("},
		{IDENT, "d"},
		{COLON, ":"},
		{STAR, "*"},
		{I32, "i32"},
		{COMMA, ","},
		{OUT, "out"},
		{COLON, ":"},
		{STAR, "*"},
		{MUT, "mut"},
		{I32, "i32"},
		{RPAREN, ")"},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.wantType || tok.Literal != tt.wantLit {
			t.Fatalf("token %d: want %v(%q), got %v(%q)", i, tt.wantType, tt.wantLit, tok.Type, tok.Literal)
		}
	}
}

func TestDottedOperators(t *testing.T) {
	tests := []struct {
		input string
		want  TokenType
	}{
		{".+", DOTPLUS}, {".-", DOTMINUS}, {".*", DOTSTAR}, {"./", DOTSLASH},
		{".<", DOTLT}, {".<=", DOTLE}, {".>", DOTGT}, {".>=", DOTGE},
		{".==", DOTEQ}, {".!=", DOTNE}, {".&", DOTAMP}, {".|", DOTPIPE}, {".^", DOTCARET},
		{"..", DOTDOT}, {".", DOT},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != tt.want {
			t.Errorf("input %q: want %v, got %v", tt.input, tt.want, tok.Type)
		}
		if eof := l.NextToken(); eof.Type != EOF {
			t.Errorf("input %q: expected EOF after operator, got %v %q", tt.input, eof.Type, eof.Literal)
		}
	}
}

func TestNumericLiteralForms(t *testing.T) {
	tests := []struct {
		input    string
		wantType TokenType
	}{
		{"42", INT},
		{"0x2A", HEX},
		{"0b101010", BIN},
		{"3.14159", FLOAT},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != tt.wantType || tok.Literal != tt.input {
			t.Errorf("input %q: want %v(%q), got %v(%q)", tt.input, tt.wantType, tt.input, tok.Type, tok.Literal)
		}
	}
}

func TestStringLiteralEscapes(t *testing.T) {
	l := New(`"hello \"world\"\n"`)
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("want STRING, got %v", tok.Type)
	}
	if want := "hello \"world\"\n"; tok.Literal != want {
		t.Fatalf("want %q, got %q", want, tok.Literal)
	}
}

func TestPositionsMonotonic(t *testing.T) {
	tokens, _ := Tokenize("let x: i32 = 1\nlet y: i32 = 2\n")
	prevOffset := -1
	for _, tok := range tokens {
		if tok.Pos.Offset < prevOffset {
			t.Fatalf("offsets not monotonic: %d after %d", tok.Pos.Offset, prevOffset)
		}
		prevOffset = tok.Pos.Offset
	}
}

func TestLineCommentSkipped(t *testing.T) {
	tokens, errs := Tokenize("let x: i32 = 1 // a comment\nlet y: i32 = 2\n")
	if len(errs) != 0 {
		t.Fatalf("unexpected lexer errors: %v", errs)
	}
	for _, tok := range tokens {
		if tok.Type == ILLEGAL {
			t.Fatalf("unexpected illegal token: %+v", tok)
		}
	}
}

func TestUnknownCharacterProducesLexError(t *testing.T) {
	_, errs := Tokenize("let x = 1 @ 2")
	if len(errs) == 0 {
		t.Fatal("expected a lex error for '@'")
	}
}
