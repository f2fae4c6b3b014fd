// Package format renders parsed logic expressions: the canonical fully
// parenthesized form, a source formatter built on it, and tree dumps for
// inspection.
package format

import (
	"encoding"

	"github.com/dhamidi/proplog/logic/parser"
)

// Encoder writes a parse tree to an underlying writer. MarshalText returns
// the text of the most recently encoded tree.
type Encoder interface {
	encoding.TextMarshaler
	Encode(node *parser.Node) error
}
