package parser

import (
	"testing"

	"github.com/candycode/micromath/internal/token"
)

// TestTokenizeRoundTripsRenderedOutput re-feeds Render's own output back
// through the tokenizer stage and checks the resulting stream renders
// identically — the idempotency property a host relies on when it caches
// or replays a compiled token stream as text instead of re-parsing the
// original infix expression.
func TestTokenizeRoundTripsRenderedOutput(t *testing.T) {
	cases := []string{
		"2+3*4",
		"atan2(y,x)",
		"sin(x)+cos(y)",
		"cross3(1,0,0,0,1,0)",
		"x=2+3",
	}
	for _, expr := range cases {
		p := New(DefaultOperators(), false, true, false, nil)
		toks, err := p.Parse(expr)
		if err != nil {
			t.Fatalf("Parse(%q): %v", expr, err)
		}
		rendered := token.Render(toks)

		replayed, err := p.tokenize(rendered)
		if err != nil {
			t.Fatalf("tokenize(%q) (rendered from %q): %v", rendered, expr, err)
		}
		if got := token.Render(replayed); got != rendered {
			t.Errorf("Parse(%q) -> Render -> tokenize -> Render = %q, want %q", expr, got, rendered)
		}
	}
}
