// Package grammar holds the EBNF description of the propositional logic
// language and a recognizer driven directly by it.
//
// The grammar follows the golang.org/x/exp/ebnf conventions: productions
// starting with an upper case letter are syntactic and may be separated by
// whitespace, lower case productions are lexical and match characters
// exactly.
package grammar

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"sort"
	"unicode"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"
)

// Start is the production a complete expression is matched against.
const Start = "Expression"

//go:embed logic.ebnf
var source []byte

// Source returns the text of the built-in grammar.
func Source() []byte {
	return bytes.Clone(source)
}

// Load parses the built-in grammar.
func Load() (ebnf.Grammar, error) {
	return Parse("logic.ebnf", bytes.NewReader(source))
}

// Parse reads a grammar in EBNF notation from r.
func Parse(filename string, r io.Reader) (ebnf.Grammar, error) {
	grammar, err := ebnf.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}
	return grammar, nil
}

// Verify checks that every production reachable from start is defined and
// that lexical productions only refer to other lexical productions. An
// empty start falls back to Start.
func Verify(grammar ebnf.Grammar, start string) error {
	if start == "" {
		start = Start
	}
	return ebnf.Verify(grammar, start)
}

// Productions returns the production names of grammar in sorted order.
func Productions(grammar ebnf.Grammar) []string {
	names := make([]string, 0, len(grammar))
	for name := range grammar {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsLexical reports whether name denotes a lexical production.
func IsLexical(name string) bool {
	ch, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(ch)
}
