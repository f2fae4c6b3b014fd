package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMaxDepth is matched by errors.Is for every *DepthError.
var ErrMaxDepth = errors.New("maximum nesting depth exceeded")

// SyntaxError reports input that does not match the grammar.
type SyntaxError struct {
	Pos      Position
	Expected []string
	Got      string
	Message  string
}

func (e *SyntaxError) Error() string {
	return e.Pos.String() + ": " + e.Message
}

func newSyntaxError(got Token, gotText string, expected []string, note string) *SyntaxError {
	msg := "expected " + joinExpected(expected) + ", got " + gotText
	if note != "" {
		msg += " (" + note + ")"
	}

	return &SyntaxError{
		Pos:      got.Span.Start,
		Expected: expected,
		Got:      got.Literal,
		Message:  msg,
	}
}

func joinExpected(expected []string) string {
	switch len(expected) {
	case 0:
		return "nothing"
	case 1:
		return expected[0]
	}
	return strings.Join(expected[:len(expected)-1], ", ") + " or " + expected[len(expected)-1]
}

// DepthError reports input nested deeper than the parser's limit.
type DepthError struct {
	Pos   Position
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%s: %v (limit %d)", e.Pos, ErrMaxDepth, e.Limit)
}

func (e *DepthError) Is(target error) bool {
	return target == ErrMaxDepth
}
