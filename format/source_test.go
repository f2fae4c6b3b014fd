package format

import (
	"errors"
	"testing"

	"github.com/dhamidi/proplog/logic/parser"
)

func TestSource(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"single", "a & b | c\n", "((a & b) | c)\n"},
		{"no trailing newline", "a & b", "(a & b)"},
		{"comments kept", "// header\na|b\n  // note\n", "// header\n(a | b)\n  // note\n"},
		{"blank lines emptied", "a\n   \n\t\nb\n", "a\n\n\nb\n"},
		{"crlf", "a & b\r\n// c\r\n\r\n[x]\r\n", "(a & b)\r\n// c\r\n\r\nx\r\n"},
		{"empty", "", ""},
		{"already canonical", "((a & b) & c)\n", "((a & b) & c)\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Source([]byte(tt.input))
			if err != nil {
				t.Fatalf("Source: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSourceError(t *testing.T) {
	out, err := Source([]byte("a\nb &\n"), parser.WithFile("x.logic"))
	if out != nil {
		t.Errorf("got output %q on error", out)
	}
	var syntaxErr *parser.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("got %v, want *SyntaxError", err)
	}
	if syntaxErr.Pos.File != "x.logic" || syntaxErr.Pos.Line != 2 {
		t.Errorf("error at %v", syntaxErr.Pos)
	}
}

func TestSourceControlBytes(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		column int
	}{
		{"form feed after atom", "a\f\n", 1, 2},
		{"vertical tab line", "a\n\v\n", 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Source([]byte(tt.input))
			if out != nil {
				t.Errorf("got output %q on error", out)
			}
			var syntaxErr *parser.SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("got %v, want *SyntaxError", err)
			}
			if syntaxErr.Pos.Line != tt.line || syntaxErr.Pos.Column != tt.column {
				t.Errorf("error at %v, want %d:%d", syntaxErr.Pos, tt.line, tt.column)
			}
		})
	}
}
