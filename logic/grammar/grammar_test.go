package grammar

import (
	"bytes"
	"slices"
	"strings"
	"testing"
)

func TestBuiltinGrammarVerifies(t *testing.T) {
	g, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := Verify(g, ""); err != nil {
		t.Fatalf("verify: %v", err)
	}

	want := []string{
		"And", "Atom", "Expression", "Iff", "Implication", "Negation",
		"Or", "Primary", "Xor", "digit", "identifier", "letter",
	}
	if got := Productions(g); !slices.Equal(got, want) {
		t.Errorf("productions %v, want %v", got, want)
	}
}

func TestSourceIsACopy(t *testing.T) {
	src := Source()
	if !bytes.HasPrefix(src, []byte("Expression")) {
		t.Fatalf("unexpected grammar text %q", src[:20])
	}
	src[0] = 'X'
	if Source()[0] != 'E' {
		t.Error("Source returned the embedded slice")
	}
}

func TestIsLexical(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"identifier", true},
		{"letter", true},
		{"Atom", false},
		{"Expression", false},
	}
	for _, tt := range tests {
		if got := IsLexical(tt.name); got != tt.want {
			t.Errorf("IsLexical(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseAndVerifyErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		start  string
		verify bool
	}{
		{"missing period", `Expression = "a"`, "", false},
		{"undefined production", `Expression = Missing .`, "", true},
		{"unreachable production", "Expression = \"a\" .\nOther = \"b\" .", "", true},
		{"lexical refers to syntactic", "Expression = word .\nword = Expression .", "", true},
		{"unknown start", `Expression = "a" .`, "Start", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Parse("test.ebnf", strings.NewReader(tt.src))
			if !tt.verify {
				if err == nil {
					t.Fatal("expected parse error")
				}
				if !strings.HasPrefix(err.Error(), "parse grammar: ") {
					t.Errorf("error %q is not wrapped", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if err := Verify(g, tt.start); err == nil {
				t.Error("expected verify error")
			}
		})
	}
}
