package lexer

import (
	"testing"

	"github.com/sqlcore-dev/sqlcore/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	l := New(src)
	var toks []token.Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestBlockCommentIsSkipped(t *testing.T) {
	toks := scanAll(t, "SELECT /* comment */ 1")
	got := kinds(toks)
	want := []token.Kind{token.SELECT, token.IntLiteral, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", got, want)
		}
	}
}

func TestBlockCommentSpanningMultipleLinesAndStars(t *testing.T) {
	src := "SELECT /* line one\n * line two\n */ 1"
	toks := scanAll(t, src)
	got := kinds(toks)
	want := []token.Kind{token.SELECT, token.IntLiteral, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
}

func TestBlockCommentAdjacentToStarOperator(t *testing.T) {
	// A bare '*' right after a closing '*/' must still scan as Star, not
	// get swallowed into the comment.
	toks := scanAll(t, "SELECT /* c */ * FROM foo")
	got := kinds(toks)
	want := []token.Kind{token.SELECT, token.Star, token.FROM, token.Identifier, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", got, want)
		}
	}
}

func TestUnterminatedBlockCommentDiagnoses(t *testing.T) {
	l := New("SELECT 1 /* never closed")
	for {
		tok := l.Next()
		if tok.Kind == token.EOF {
			break
		}
	}
	if len(l.Diagnostics) == 0 {
		t.Fatal("expected a diagnostic for an unterminated block comment")
	}
}

func TestLineCommentStillSkipped(t *testing.T) {
	toks := scanAll(t, "SELECT 1 -- trailing comment\n")
	got := kinds(toks)
	want := []token.Kind{token.SELECT, token.IntLiteral, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
}

func TestStarAndSlashOutsideCommentStillOperators(t *testing.T) {
	toks := scanAll(t, "SELECT a * b / c FROM t")
	got := kinds(toks)
	want := []token.Kind{
		token.SELECT, token.Identifier, token.Star, token.Identifier,
		token.Slash, token.Identifier, token.FROM, token.Identifier, token.EOF,
	}
	if len(got) != len(want) {
		t.Fatalf("kinds = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("kinds = %v, want %v", got, want)
		}
	}
}
