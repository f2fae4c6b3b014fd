package format

import (
	"io"
	"strings"

	"github.com/dhamidi/proplog/logic/parser"
)

// Canonical renders node with every operator application wrapped in its own
// pair of parentheses.
//
// Atoms render verbatim and groups render as their contents, whatever the
// original bracket style. A negation renders as "!" followed by its operand.
// An n-ary operator node folds its operands from the left, one pair of
// parentheses per step, so "a & b & c" becomes "((a & b) & c)". A File node
// renders one line per expression, each terminated by a newline.
func Canonical(node *parser.Node) string {
	var sb strings.Builder
	writeCanonical(&sb, node)
	return sb.String()
}

func writeCanonical(sb *strings.Builder, n *parser.Node) {
	if n == nil {
		return
	}

	switch {
	case n.Kind == parser.KindFile:
		for _, expr := range n.Children {
			writeCanonical(sb, expr)
			sb.WriteByte('\n')
		}

	case n.Kind == parser.KindAtom:
		sb.WriteString(n.TokenLiteral())

	case n.Kind == parser.KindGroup:
		writeCanonical(sb, n.Inner())

	case n.Kind == parser.KindNot:
		sb.WriteByte('!')
		writeCanonical(sb, n.Inner())

	case n.Kind.IsBinary():
		op := " " + n.Kind.Operator() + " "
		sb.WriteString(strings.Repeat("(", len(n.Children)-1))
		for i, operand := range n.Children {
			if i > 0 {
				sb.WriteString(op)
			}
			writeCanonical(sb, operand)
			if i > 0 {
				sb.WriteByte(')')
			}
		}
	}
}

// CanonicalLines returns the canonical form of every expression in node. A
// File node yields one entry per expression; any other node yields one.
func CanonicalLines(node *parser.Node) []string {
	if node == nil {
		return nil
	}
	if node.Kind != parser.KindFile {
		return []string{Canonical(node)}
	}
	lines := make([]string, 0, len(node.Children))
	for _, expr := range node.Children {
		lines = append(lines, Canonical(expr))
	}
	return lines
}

// CanonicalEncoder writes one newline terminated canonical line per
// expression.
type CanonicalEncoder struct {
	w    io.Writer
	node *parser.Node
}

func NewCanonicalEncoder(w io.Writer) *CanonicalEncoder {
	return &CanonicalEncoder{w: w}
}

func (e *CanonicalEncoder) Encode(node *parser.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *CanonicalEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, line := range CanonicalLines(e.node) {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return []byte(sb.String()), nil
}
