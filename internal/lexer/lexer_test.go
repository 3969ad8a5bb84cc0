package lexer

import "testing"

func tokenTypes(t *testing.T, src string) []TokenType {
	t.Helper()
	lx := New(src)
	var types []TokenType
	for {
		tok, err := lx.NextToken()
		if err != nil {
			t.Fatalf("NextToken: %v", err)
		}
		if tok.Type == EOF {
			return types
		}
		types = append(types, tok.Type)
	}
}

func TestNextTokenPunctuators(t *testing.T) {
	got := tokenTypes(t, "(+ 1 'x `(,y ,@z))")
	want := []TokenType{
		LParen, Atom, Atom, Quote, Atom, Quasiquote, LParen, Unquote, Atom, UnquoteSplicing, Atom, RParen, RParen,
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens %v, want %d tokens %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNextTokenComment(t *testing.T) {
	got := tokenTypes(t, "1 ; this is a comment\n2")
	if len(got) != 2 || got[0] != Atom || got[1] != Atom {
		t.Fatalf("got %v, want two Atom tokens", got)
	}
}

func TestNextTokenString(t *testing.T) {
	lx := New(`"hello \"world\""`)
	tok, err := lx.NextToken()
	if err != nil {
		t.Fatalf("NextToken: %v", err)
	}
	if tok.Type != String {
		t.Fatalf("got %s, want String", tok.Type)
	}
	if tok.Literal != `hello \"world\"` {
		t.Fatalf("got literal %q", tok.Literal)
	}
}

func TestNextTokenUnterminatedString(t *testing.T) {
	lx := New(`"unterminated`)
	if _, err := lx.NextToken(); err == nil {
		t.Fatal("expected an error for an unterminated string literal")
	}
}

func TestNextTokenUnterminatedStringTrailingBackslash(t *testing.T) {
	lx := New(`"oops\`)
	if _, err := lx.NextToken(); err == nil {
		t.Fatal("expected an error for a string ending mid-escape")
	}
}

func TestPositionTracksLineAndColumn(t *testing.T) {
	lx := New("a\nbb")
	first, _ := lx.NextToken()
	if first.Pos != (Position{Line: 1, Column: 1}) {
		t.Fatalf("got %v", first.Pos)
	}
	second, _ := lx.NextToken()
	if second.Pos != (Position{Line: 2, Column: 1}) {
		t.Fatalf("got %v", second.Pos)
	}
}

func TestNewStripsLeadingBOM(t *testing.T) {
	got := tokenTypes(t, "\uFEFF(a)")
	want := []TokenType{LParen, Atom, RParen}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
}
