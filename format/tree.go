package format

import (
	"io"
	"strings"

	"github.com/dhamidi/proplog/logic/parser"
)

// TreeEncoder prints a parse tree one node per line, indented two spaces
// per level, each line showing the node kind and the source text it covers.
type TreeEncoder struct {
	w      io.Writer
	source []byte
	node   *parser.Node
}

// NewTreeEncoder returns an encoder for trees parsed from source.
func NewTreeEncoder(w io.Writer, source []byte) *TreeEncoder {
	return &TreeEncoder{w: w, source: source}
}

func (e *TreeEncoder) Encode(node *parser.Node) error {
	e.node = node
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	if e.node != nil {
		e.writeNode(&sb, e.node, 0)
	}
	return []byte(sb.String()), nil
}

func (e *TreeEncoder) writeNode(sb *strings.Builder, n *parser.Node, level int) {
	sb.WriteString(strings.Repeat("  ", level))
	sb.WriteString(n.Kind.String())
	if n.Kind != parser.KindFile {
		sb.WriteString(": '")
		sb.WriteString(e.text(n))
		sb.WriteString("'")
	}
	sb.WriteByte('\n')

	for _, child := range n.Children {
		e.writeNode(sb, child, level+1)
	}
}

func (e *TreeEncoder) text(n *parser.Node) string {
	start, end := n.Span.Start.Offset, n.Span.End.Offset
	if start < 0 || end > len(e.source) || start > end {
		return n.TokenLiteral()
	}
	return string(e.source[start:end])
}
