package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/proplog/format"
	"github.com/dhamidi/proplog/logic/parser"
)

func newCanonCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "make_parantecies <in> <out>",
		Aliases: []string{"canon"},
		Short:   "Write every expression of a file fully parenthesized",
		Long: `Parse <in> and write one fully parenthesized expression per line to <out>.

Comment and blank lines are dropped. If any line fails to parse, <out> is
left untouched.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inPath, outPath := args[0], args[1]

			data, err := os.ReadFile(inPath)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			tree, err := parser.ParseFile(bytes.NewReader(data),
				parser.WithFile(inPath),
				parser.WithMaxDepth(g.config.Parser.MaxDepth),
			).Finish()
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := format.NewCanonicalEncoder(&buf).Encode(tree); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			if err := os.WriteFile(outPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write file: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d lines to '%s'\n", len(tree.Children), outPath)
			return nil
		},
	}
}
