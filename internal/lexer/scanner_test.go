package lexer

import "testing"

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []TokenType
	}{
		{"empty", "", []TokenType{TokenEOF}},
		{
			"simple call",
			"(+ 1 2)",
			[]TokenType{TokenLParen, TokenSymbol, TokenNumber, TokenNumber, TokenRParen, TokenEOF},
		},
		{
			"comment line",
			"; a comment\n(def x 1)",
			[]TokenType{TokenLParen, TokenSymbol, TokenSymbol, TokenNumber, TokenRParen, TokenEOF},
		},
		{
			"string literal",
			`(print "hello\nworld")`,
			[]TokenType{TokenLParen, TokenSymbol, TokenString, TokenRParen, TokenEOF},
		},
		{
			"keyword symbol",
			"(f :auto-scale t)",
			[]TokenType{TokenLParen, TokenSymbol, TokenSymbol, TokenSymbol, TokenRParen, TokenEOF},
		},
		{
			"negative and float numbers",
			"(list -1 2.5 1e3 -1.5e-2)",
			[]TokenType{TokenLParen, TokenSymbol, TokenNumber, TokenNumber, TokenNumber, TokenNumber, TokenRParen, TokenEOF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScanner(tt.source, "test.lcad")
			toks, errs := s.ScanTokens()
			if len(errs) != 0 {
				t.Fatalf("unexpected lex errors: %v", errs)
			}
			if len(toks) != len(tt.want) {
				t.Fatalf("got %d tokens, want %d: %v", len(toks), len(tt.want), toks)
			}
			for i, tok := range toks {
				if tok.Type != tt.want[i] {
					t.Errorf("token %d: got %s, want %s", i, tok.Type, tt.want[i])
				}
			}
		})
	}
}

func TestUnterminatedString(t *testing.T) {
	s := NewScanner(`(print "oops)`, "test.lcad")
	_, errs := s.ScanTokens()
	if len(errs) == 0 {
		t.Fatal("expected an error for unterminated string")
	}
}
