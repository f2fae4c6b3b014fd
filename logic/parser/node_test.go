package parser

import (
	"slices"
	"testing"
)

func TestNodeKindOperator(t *testing.T) {
	tests := []struct {
		kind   NodeKind
		op     string
		binary bool
	}{
		{KindIff, "<->", true},
		{KindImplies, "->", true},
		{KindOr, "|", true},
		{KindXor, "^", true},
		{KindAnd, "&", true},
		{KindNot, "", false},
		{KindGroup, "", false},
		{KindAtom, "", false},
		{KindFile, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.Operator(); got != tt.op {
				t.Errorf("Operator() = %q, want %q", got, tt.op)
			}
			if got := tt.kind.IsBinary(); got != tt.binary {
				t.Errorf("IsBinary() = %v, want %v", got, tt.binary)
			}
		})
	}

	if got := NodeKind(99).String(); got != "Unknown" {
		t.Errorf("unknown kind renders as %q", got)
	}
}

func TestNodeString(t *testing.T) {
	node := parseExpr(t, "!(a & b)")
	want := `Not
  Group (
    And
      Atom a
      Atom b
`
	if got := node.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}

	withPos := parseExpr(t, "x").StringWithPositions()
	if withPos != "Atom [1:1-1:2] x\n" {
		t.Errorf("got %q", withPos)
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	node := parseExpr(t, "a & !(b | c) & d")
	var visited []string
	Walk(node, func(n *Node) bool {
		if n.Kind == KindAtom {
			visited = append(visited, n.TokenLiteral())
		}
		return n.Kind != KindNot
	})
	if !slices.Equal(visited, []string{"a", "d"}) {
		t.Errorf("visited %v", visited)
	}

	if got := Atoms(nil); got != nil {
		t.Errorf("Atoms(nil) = %v", got)
	}
}
