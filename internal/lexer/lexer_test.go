package lexer

import "testing"

func TestLexerBasicTokens(t *testing.T) {
	input := `define add<T: type>(x: T, y: T): T => x + y; run { print(add(3, 4)); }`

	tests := []struct {
		wantType TokenType
		wantLit  string
	}{
		{DEFINE, "define"},
		{IDENT, "add"},
		{LESS, "<"},
		{IDENT, "T"},
		{COLON, ":"},
		{IDENT, "type"},
		{GREATER, ">"},
		{LPAREN, "("},
		{IDENT, "x"},
		{COLON, ":"},
		{IDENT, "T"},
		{COMMA, ","},
		{IDENT, "y"},
		{COLON, ":"},
		{IDENT, "T"},
		{RPAREN, ")"},
		{COLON, ":"},
		{IDENT, "T"},
		{FAT_ARROW, "=>"},
		{IDENT, "x"},
		{PLUS, "+"},
		{IDENT, "y"},
		{SEMICOLON, ";"},
		{RUN, "run"},
		{LBRACE, "{"},
		{IDENT, "print"},
		{LPAREN, "("},
		{IDENT, "add"},
		{LPAREN, "("},
		{INT, "3"},
		{COMMA, ","},
		{INT, "4"},
		{RPAREN, ")"},
		{RPAREN, ")"},
		{SEMICOLON, ";"},
		{RBRACE, "}"},
		{EOF, ""},
	}

	l := New(input, "test.lang")
	for i, tt := range tests {
		tok := l.Next()
		if tok.Type != tt.wantType {
			t.Fatalf("token %d: type = %s, want %s (literal %q)", i, tok.Type, tt.wantType, tok.Literal)
		}
		if tok.Literal != tt.wantLit {
			t.Fatalf("token %d: literal = %q, want %q", i, tok.Literal, tt.wantLit)
		}
	}
}

func TestLexerPeekDoesNotAdvance(t *testing.T) {
	l := New("a b", "t")
	first := l.Peek()
	second := l.Peek()
	if first != second {
		t.Fatalf("Peek() not idempotent: %v != %v", first, second)
	}
	if got := l.Next(); got.Literal != "a" {
		t.Fatalf("Next() = %q, want a", got.Literal)
	}
	if got := l.Next(); got.Literal != "b" {
		t.Fatalf("Next() = %q, want b", got.Literal)
	}
}

func TestLexerNumbers(t *testing.T) {
	tests := []struct {
		input    string
		wantType TokenType
	}{
		{"123", INT},
		{"123.45", FLOAT},
		{"1.5e10", FLOAT},
		{"1e-3", FLOAT},
	}
	for _, tt := range tests {
		l := New(tt.input, "t")
		tok := l.Next()
		if tok.Type != tt.wantType || tok.Literal != tt.input {
			t.Errorf("lex(%q) = %s %q, want %s %q", tt.input, tok.Type, tok.Literal, tt.wantType, tt.input)
		}
	}
}

func TestLexerStringRawBytes(t *testing.T) {
	l := New(`"a\nb"`, "t")
	tok := l.Next()
	if tok.Type != STRING {
		t.Fatalf("type = %s, want STRING", tok.Type)
	}
	if tok.Literal != `a\nb` {
		t.Fatalf("literal = %q, want %q (escape expansion deferred)", tok.Literal, `a\nb`)
	}
}

func TestLexerUnterminatedString(t *testing.T) {
	l := New(`"abc`, "t")
	l.Next()
	if len(l.Errors()) == 0 {
		t.Fatal("expected a lex error for an unterminated string")
	}
}

func TestLexerRangeVsDot(t *testing.T) {
	l := New("a..b a.b a.{x}", "t")
	want := []TokenType{IDENT, DOT_DOT, IDENT, IDENT, DOT, IDENT, IDENT, DOT_LBRACE, IDENT, RBRACE, EOF}
	for i, w := range want {
		if got := l.Next().Type; got != w {
			t.Fatalf("token %d = %s, want %s", i, got, w)
		}
	}
}

func TestLexerIllegalByte(t *testing.T) {
	l := New("a $ b", "t")
	l.Next()
	tok := l.Next()
	if tok.Type != ILLEGAL {
		t.Fatalf("type = %s, want ILLEGAL", tok.Type)
	}
	if len(l.Errors()) != 1 {
		t.Fatalf("errors = %d, want 1", len(l.Errors()))
	}
}
