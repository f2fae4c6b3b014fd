package parser

import "strings"

type NodeKind int

const (
	KindFile NodeKind = iota
	KindAtom
	KindGroup
	KindNot

	// Binary tiers, loosest to tightest binding
	KindIff
	KindImplies
	KindOr
	KindXor
	KindAnd
)

var nodeKindNames = map[NodeKind]string{
	KindFile:    "File",
	KindAtom:    "Atom",
	KindGroup:   "Group",
	KindNot:     "Not",
	KindIff:     "Iff",
	KindImplies: "Implies",
	KindOr:      "Or",
	KindXor:     "Xor",
	KindAnd:     "And",
}

func (k NodeKind) String() string {
	if name, ok := nodeKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// IsBinary reports whether k is one of the five n-ary operator tiers.
func (k NodeKind) IsBinary() bool {
	return k >= KindIff && k <= KindAnd
}

// Operator returns the source text of a binary tier's operator, or "" for
// any other kind.
func (k NodeKind) Operator() string {
	switch k {
	case KindIff:
		return "<->"
	case KindImplies:
		return "->"
	case KindOr:
		return "|"
	case KindXor:
		return "^"
	case KindAnd:
		return "&"
	}
	return ""
}

// Node is one element of a parse tree.
//
// Atom nodes carry their identifier in Token and have no children. Group and
// Not nodes have exactly one child and carry the opening delimiter or the
// '!' in Token. Binary nodes have two or more operands in source order. A
// File node lists the top-level expressions of a file.
type Node struct {
	Kind     NodeKind
	Span     Span
	Children []*Node
	Token    *Token
}

func (n *Node) AddChild(child *Node) {
	if child != nil {
		n.Children = append(n.Children, child)
	}
}

func (n *Node) TokenLiteral() string {
	if n.Token != nil {
		return n.Token.Literal
	}
	return ""
}

// Inner returns the single child of a Group or Not node.
func (n *Node) Inner() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// Atoms returns the atom texts of n in left-to-right order.
func Atoms(n *Node) []string {
	var atoms []string
	Walk(n, func(node *Node) bool {
		if node.Kind == KindAtom {
			atoms = append(atoms, node.TokenLiteral())
		}
		return true
	})
	return atoms
}

// Walk visits n and its descendants depth-first in source order. Children
// of a node are skipped when fn returns false for it.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, child := range n.Children {
		Walk(child, fn)
	}
}

func (n *Node) String() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, false)
	return sb.String()
}

func (n *Node) StringWithPositions() string {
	var sb strings.Builder
	n.writeIndent(&sb, 0, true)
	return sb.String()
}

func (n *Node) writeIndent(sb *strings.Builder, indent int, showPositions bool) {
	sb.WriteString(strings.Repeat("  ", indent))
	sb.WriteString(n.Kind.String())
	if showPositions {
		sb.WriteString(" [" + n.Span.Start.String() + "-" + n.Span.End.String() + "]")
	}
	if n.Kind == KindAtom || n.Kind == KindGroup {
		sb.WriteString(" " + n.TokenLiteral())
	}
	sb.WriteString("\n")

	for _, child := range n.Children {
		child.writeIndent(sb, indent+1, showPositions)
	}
}
