package grammar

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"golang.org/x/exp/ebnf"

	"github.com/dhamidi/proplog/logic/parser"
)

// MatchError reports input that the grammar does not accept. Pos is the
// furthest position any terminal of the grammar was tried at.
type MatchError struct {
	Pos        parser.Position
	Production string
	Got        string
}

func (e *MatchError) Error() string {
	got := "end of input"
	if e.Got != "" {
		got = fmt.Sprintf("%q", e.Got)
	}
	return fmt.Sprintf("%s: input does not match %s at %s", e.Pos, e.Production, got)
}

// memoKey is used for memoization of match results.
type memoKey struct {
	name   string
	offset int
}

// Matcher recognizes input against the productions of an EBNF grammar.
//
// Alternatives take the longest match and repetitions are greedy. Inside
// syntactic productions whitespace is skipped before every terminal and
// before every reference to a lexical production.
type Matcher struct {
	grammar  ebnf.Grammar
	input    []byte
	file     string
	memo     map[memoKey]int  // end offset of the match, -1 = no match
	visiting map[memoKey]bool // cycle detection
	furthest int
}

// NewMatcher creates a matcher for the given grammar and input.
func NewMatcher(grammar ebnf.Grammar, input []byte, file string) *Matcher {
	return &Matcher{
		grammar: grammar,
		input:   input,
		file:    file,
	}
}

// Match reports whether the whole input derives from start. Trailing
// whitespace is allowed after a syntactic start production.
func (m *Matcher) Match(start string) error {
	prod, ok := m.grammar[start]
	if !ok || prod.Expr == nil {
		return fmt.Errorf("unknown production %q", start)
	}

	m.memo = make(map[memoKey]int)
	m.visiting = make(map[memoKey]bool)
	m.furthest = 0

	lexical := IsLexical(start)
	end := m.matchName(start, 0, lexical)
	if end >= 0 {
		if !lexical {
			end = m.skipSpace(end)
		}
		if end == len(m.input) {
			return nil
		}
		m.reach(end)
	}

	return &MatchError{
		Pos:        m.position(m.furthest),
		Production: start,
		Got:        m.runeAt(m.furthest),
	}
}

var builtin = sync.OnceValues(Load)

// Recognize matches input against the Expression production of the
// built-in grammar.
func Recognize(input []byte, file string) error {
	g, err := builtin()
	if err != nil {
		return err
	}
	return NewMatcher(g, input, file).Match(Start)
}

func (m *Matcher) reach(offset int) {
	if offset > m.furthest {
		m.furthest = offset
	}
}

func (m *Matcher) skipSpace(offset int) int {
	for offset < len(m.input) {
		switch m.input[offset] {
		case ' ', '\t', '\r', '\n':
			offset++
		default:
			return offset
		}
	}
	return offset
}

func (m *Matcher) runeAt(offset int) string {
	if offset >= len(m.input) {
		return ""
	}
	r, _ := utf8.DecodeRune(m.input[offset:])
	return string(r)
}

func (m *Matcher) position(offset int) parser.Position {
	pos := parser.Position{File: m.file, Offset: offset, Line: 1, Column: 1}
	for _, ch := range m.input[:offset] {
		if ch == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}

// match attempts to match expr at offset and returns the offset just past
// the match, or -1 if expr does not match.
func (m *Matcher) match(expr ebnf.Expression, offset int, lexical bool) int {
	switch e := expr.(type) {
	case nil:
		return offset

	case *ebnf.Token:
		if !lexical {
			offset = m.skipSpace(offset)
		}
		return m.matchToken(e.String, offset)

	case *ebnf.Range:
		if !lexical {
			offset = m.skipSpace(offset)
		}
		return m.matchRange(e.Begin.String, e.End.String, offset)

	case ebnf.Sequence:
		pos := offset
		for _, item := range e {
			pos = m.match(item, pos, lexical)
			if pos < 0 {
				return -1
			}
		}
		return pos

	case ebnf.Alternative:
		best := -1
		for _, alt := range e {
			if end := m.match(alt, offset, lexical); end > best {
				best = end
			}
		}
		return best

	case *ebnf.Repetition:
		pos := offset
		for {
			end := m.match(e.Body, pos, lexical)
			if end <= pos {
				return pos
			}
			pos = end
		}

	case *ebnf.Option:
		if end := m.match(e.Body, offset, lexical); end >= 0 {
			return end
		}
		return offset

	case *ebnf.Group:
		return m.match(e.Body, offset, lexical)

	case *ebnf.Name:
		return m.matchName(e.String, offset, lexical)
	}

	return -1
}

// matchName matches a named production with memoization and cycle detection.
func (m *Matcher) matchName(name string, offset int, lexical bool) int {
	nameLexical := IsLexical(name)
	if !lexical && nameLexical {
		offset = m.skipSpace(offset)
	}
	key := memoKey{name: name, offset: offset}

	if end, ok := m.memo[key]; ok {
		return end
	}

	// Left recursion at the same offset can never make progress.
	if m.visiting[key] {
		return -1
	}

	prod, ok := m.grammar[name]
	if !ok {
		m.memo[key] = -1
		return -1
	}

	m.visiting[key] = true
	end := m.match(prod.Expr, offset, lexical || nameLexical)
	delete(m.visiting, key)

	m.memo[key] = end
	return end
}

// matchToken matches a literal string token.
func (m *Matcher) matchToken(token string, offset int) int {
	if offset+len(token) > len(m.input) || string(m.input[offset:offset+len(token)]) != token {
		m.reach(offset)
		return -1
	}
	return offset + len(token)
}

// matchRange matches a single character range such as "a" … "z".
func (m *Matcher) matchRange(begin, end string, offset int) int {
	lo, _ := utf8.DecodeRuneInString(begin)
	hi, _ := utf8.DecodeRuneInString(end)
	if offset >= len(m.input) {
		m.reach(offset)
		return -1
	}
	ch, size := utf8.DecodeRune(m.input[offset:])
	if ch < lo || ch > hi {
		m.reach(offset)
		return -1
	}
	return offset + size
}
