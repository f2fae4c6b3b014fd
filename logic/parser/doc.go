// Package parser parses propositional logic expressions into a syntax tree.
//
// # Grammar
//
// Operators bind from loosest to tightest in this order:
//
//	expression  → iff
//	iff         → implication { "<->" implication }
//	implication → or { "->" or }
//	or          → xor { "|" xor }
//	xor         → and { "^" and }
//	and         → negation { "&" negation }
//	negation    → { "!" } primary
//	primary     → atom | "(" expression ")" | "[" expression "]" | "{" expression "}"
//	atom        → identifier | "true" | "false"
//
// Identifiers are ASCII letters, digits and underscores and may not start
// with a digit. The literals true and false are ordinary atoms. Whitespace
// between tokens is ignored.
//
// # Tree Shape
//
// A run of one operator at one level becomes a single node with every
// operand as a child, so "a & b & c" is And(a, b, c) rather than a chain of
// two-operand nodes. Brackets produce Group nodes, which keep the opening
// delimiter in Token. Stacked negations nest: "!!a" is Not(Not(a)).
//
// # Files
//
// ParseFile treats every line as one expression. Blank lines and lines
// whose first non-blank characters are "//" are skipped. Positions in the
// resulting tree and in errors are relative to the whole file.
//
// # Errors
//
// Parsing stops at the first problem and never returns a partial tree.
// Grammar violations are reported as *SyntaxError with the position, the
// constructs that would have been accepted and the offending text. Input
// nested deeper than the configured limit yields a *DepthError, which
// matches ErrMaxDepth with errors.Is.
//
// # Example Usage
//
//	p := parser.ParseFile(f, parser.WithFile("rules.logic"))
//	file, err := p.Finish()
//	if err != nil {
//	    return err
//	}
//	for _, expr := range file.Children {
//	    fmt.Println(parser.Atoms(expr))
//	}
//
// A Parser is not safe for concurrent use. Trees are never shared between
// parsers, so separate parsers may run in parallel.
package parser
