package parser

import (
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"
)

func parseExpr(t *testing.T, input string, opts ...Option) *Node {
	t.Helper()
	node, err := ParseExpression(strings.NewReader(input), opts...).Finish()
	if err != nil {
		t.Fatalf("parse %q: %v", input, err)
	}
	return node
}

func TestParseAtom(t *testing.T) {
	for _, input := range []string{"a", "A1_b", "true", "false", "_x", "False", "snake_case_9"} {
		t.Run(input, func(t *testing.T) {
			node, err := ParseAtom(strings.NewReader(input)).Finish()
			if err != nil {
				t.Fatalf("parse atom: %v", err)
			}
			if node.Kind != KindAtom {
				t.Errorf("kind %v, want Atom", node.Kind)
			}
			if node.TokenLiteral() != input {
				t.Errorf("literal %q, want %q", node.TokenLiteral(), input)
			}
		})
	}
}

func TestParseAtomRejects(t *testing.T) {
	for _, input := range []string{"", "1a", "a b", "&", "(a)", "!a"} {
		t.Run(input, func(t *testing.T) {
			node, err := ParseAtom(strings.NewReader(input)).Finish()
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("got %v, want *SyntaxError", err)
			}
			if node != nil {
				t.Errorf("got partial tree %v", node)
			}
		})
	}
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		input string
		kind  NodeKind
		atoms []string
	}{
		{"a", KindAtom, []string{"a"}},
		{"(a)", KindGroup, []string{"a"}},
		{"[true]", KindGroup, []string{"true"}},
		{"{False}", KindGroup, []string{"False"}},
		{"!!true", KindNot, []string{"true"}},
		{"a & b & c", KindAnd, []string{"a", "b", "c"}},
		{"a ^ b ^ c", KindXor, []string{"a", "b", "c"}},
		{"a | b | c", KindOr, []string{"a", "b", "c"}},
		{"a -> b -> c", KindImplies, []string{"a", "b", "c"}},
		{"a <-> b <-> c", KindIff, []string{"a", "b", "c"}},
		{"a & b | c", KindOr, []string{"a", "b", "c"}},
		{"a|b&c", KindOr, []string{"a", "b", "c"}},
		{"  a  ->  b  ", KindImplies, []string{"a", "b"}},
		{"!(p -> q) <-> (p & !q)", KindIff, []string{"p", "q", "p", "q"}},
		{"{[(x)]}", KindGroup, []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node := parseExpr(t, tt.input)
			if node.Kind != tt.kind {
				t.Errorf("kind %v, want %v", node.Kind, tt.kind)
			}
			if got := Atoms(node); !slices.Equal(got, tt.atoms) {
				t.Errorf("atoms %v, want %v", got, tt.atoms)
			}
		})
	}
}

// shape renders a tree as Kind(child, child) for structural comparisons.
func shape(n *Node) string {
	if n.Kind == KindAtom {
		return n.TokenLiteral()
	}
	parts := make([]string, len(n.Children))
	for i, child := range n.Children {
		parts[i] = shape(child)
	}
	return n.Kind.String() + "(" + strings.Join(parts, ", ") + ")"
}

func TestParseStructure(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"!!true", "Not(Not(true))"},
		{"a & b & c", "And(a, b, c)"},
		{"a & b | c", "Or(And(a, b), c)"},
		{"a ^ b & c", "Xor(a, And(b, c))"},
		{"a -> b & c | d", "Implies(a, Or(And(b, c), d))"},
		{"a <-> b -> c", "Iff(a, Implies(b, c))"},
		{"!a & b", "And(Not(a), b)"},
		{"!(a & b)", "Not(Group(And(a, b)))"},
		{"(a & b) & c", "And(Group(And(a, b)), c)"},
		{"a & (b & c)", "And(a, Group(And(b, c)))"},
		{"[a | b] ^ {c}", "Xor(Group(Or(a, b)), Group(c))"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := shape(parseExpr(t, tt.input)); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseGroupKeepsDelimiter(t *testing.T) {
	for _, input := range []string{"(a)", "[a]", "{a}"} {
		node := parseExpr(t, input)
		if node.TokenLiteral() != input[:1] {
			t.Errorf("%s: delimiter %q", input, node.TokenLiteral())
		}
		if inner := node.Inner(); inner == nil || inner.TokenLiteral() != "a" {
			t.Errorf("%s: inner %v", input, inner)
		}
	}
}

func TestParseSpans(t *testing.T) {
	node := parseExpr(t, "a & (b)")
	if node.Span.Start.Column != 1 || node.Span.End.Column != 8 {
		t.Errorf("And spans %v-%v", node.Span.Start, node.Span.End)
	}
	group := node.Children[1]
	if group.Span.Start.Column != 5 || group.Span.End.Column != 8 {
		t.Errorf("Group spans %v-%v", group.Span.Start, group.Span.End)
	}

	not := parseExpr(t, "!!x")
	if not.Span.Start.Column != 1 || not.Inner().Span.Start.Column != 2 {
		t.Errorf("Not spans %v, %v", not.Span.Start, not.Inner().Span.Start)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input    string
		column   int
		got      string
		expected string
		message  string
	}{
		{"(a", 3, "", "')'", "unclosed '(' at 1:1"},
		{"(a]", 3, "]", "')'", "got ']'"},
		{"[a)", 3, ")", "']'", "unclosed '[' at 1:1"},
		{"{a", 3, "", "'}'", "got end of input"},
		{"a b", 3, "b", "end of input", "got 'b'"},
		{"a &", 4, "", "atom", "got end of input"},
		{"a && b", 4, "&", "'!'", "got '&'"},
		{"", 1, "", "atom", "expected atom, '!', '(', '[' or '{'"},
		{"a $ b", 3, "$", "'&'", "got '$'"},
		{"1a", 1, "1a", "atom", "got '1a'"},
		{"a)", 2, ")", "'<->'", "got ')'"},
		{"!", 2, "", "'('", "got end of input"},
		{"a <- b", 3, "<", "'->'", "got '<'"},
		{"a\f", 2, "\f", "end of input", `got '\f'`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			node, err := ParseExpression(strings.NewReader(tt.input)).Finish()
			if node != nil {
				t.Errorf("got partial tree %v", node)
			}
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("got %v, want *SyntaxError", err)
			}
			if syntaxErr.Pos.Line != 1 || syntaxErr.Pos.Column != tt.column {
				t.Errorf("position %v, want 1:%d", syntaxErr.Pos, tt.column)
			}
			if syntaxErr.Got != tt.got {
				t.Errorf("got %q, want %q", syntaxErr.Got, tt.got)
			}
			if !slices.Contains(syntaxErr.Expected, tt.expected) {
				t.Errorf("expected %v does not contain %s", syntaxErr.Expected, tt.expected)
			}
			if !strings.Contains(syntaxErr.Error(), tt.message) {
				t.Errorf("message %q does not contain %q", syntaxErr.Error(), tt.message)
			}
		})
	}
}

func TestParseErrorIncludesFile(t *testing.T) {
	_, err := ParseExpression(strings.NewReader("a |"), WithFile("rules.logic")).Finish()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.HasPrefix(err.Error(), "rules.logic:1:4: ") {
		t.Errorf("error %q lacks file position", err)
	}
}

func TestParseMultilineExpression(t *testing.T) {
	node := parseExpr(t, "a &\n  b")
	if got := shape(node); got != "And(a, b)" {
		t.Errorf("got %s", got)
	}
	if b := node.Children[1]; b.Span.Start.Line != 2 || b.Span.Start.Column != 3 {
		t.Errorf("b at %v", b.Span.Start)
	}
}

func TestParseDepthLimit(t *testing.T) {
	tests := []struct {
		input string
		limit int
		fails bool
	}{
		{"(((a)))", 3, false},
		{"((((a))))", 3, true},
		{"!!!a", 3, false},
		{"!!!!a", 3, true},
		{"!(!(a))", 3, true},
		{"(a) & (b) & (c)", 1, false},
		{strings.Repeat("!", 5000) + "a", 0, true},
		{strings.Repeat("(", 5000) + "a" + strings.Repeat(")", 5000), 0, true},
		{strings.Repeat("[", 900) + "a" + strings.Repeat("]", 900), 0, false},
	}

	for _, tt := range tests {
		name := tt.input
		if len(name) > 20 {
			name = name[:20]
		}
		t.Run(name, func(t *testing.T) {
			_, err := ParseExpression(strings.NewReader(tt.input), WithMaxDepth(tt.limit)).Finish()
			if !tt.fails {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrMaxDepth) {
				t.Fatalf("got %v, want ErrMaxDepth", err)
			}
			var depthErr *DepthError
			if !errors.As(err, &depthErr) {
				t.Fatalf("got %T, want *DepthError", err)
			}
			want := tt.limit
			if want == 0 {
				want = DefaultMaxDepth
			}
			if depthErr.Limit != want {
				t.Errorf("limit %d, want %d", depthErr.Limit, want)
			}
		})
	}
}

type failingReader struct{ err error }

func (r failingReader) Read([]byte) (int, error) { return 0, r.err }

func TestParseReadError(t *testing.T) {
	boom := errors.New("disk on fire")
	_, err := ParseFile(failingReader{boom}).Finish()
	if !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped read error", err)
	}
	var syntaxErr *SyntaxError
	if errors.As(err, &syntaxErr) {
		t.Error("read error must not look like a syntax error")
	}
}

func TestParserReset(t *testing.T) {
	p := ParseExpression(strings.NewReader("a & b"))
	first, err := p.Finish()
	if err != nil {
		t.Fatal(err)
	}
	p.Reset(strings.NewReader("c | d"))
	second, err := p.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(Atoms(first), []string{"a", "b"}) || !reflect.DeepEqual(Atoms(second), []string{"c", "d"}) {
		t.Errorf("atoms %v then %v", Atoms(first), Atoms(second))
	}
}
