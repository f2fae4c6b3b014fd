package format

import (
	"bytes"
	"fmt"

	"github.com/dhamidi/proplog/logic/parser"
)

// Source rewrites a logic file so that every expression line holds its
// canonical form. Comment lines are kept verbatim, blank lines are emptied
// and line endings are preserved. Nothing is returned if any line fails to
// parse.
func Source(src []byte, opts ...parser.Option) ([]byte, error) {
	file, err := parser.ParseFile(bytes.NewReader(src), opts...).Finish()
	if err != nil {
		return nil, err
	}

	exprs := file.Children
	var out bytes.Buffer
	lines := bytes.Split(src, []byte("\n"))
	for i, line := range lines {
		if i > 0 {
			out.WriteByte('\n')
		}
		cr := bytes.HasSuffix(line, []byte("\r"))

		switch {
		case parser.IsBlankLine(line):
			// blank
		case parser.IsSkippedLine(line):
			out.Write(bytes.TrimRight(line, "\r"))
		default:
			if len(exprs) == 0 {
				return nil, fmt.Errorf("line %d: no parsed expression left", i+1)
			}
			out.WriteString(Canonical(exprs[0]))
			exprs = exprs[1:]
		}

		if cr {
			out.WriteByte('\r')
		}
	}

	return out.Bytes(), nil
}
