package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dhamidi/proplog/format"
	"github.com/dhamidi/proplog/logic/parser"
	"github.com/dhamidi/proplog/lsp"
)

func newFmtCmd(g *globals) *cobra.Command {
	var fmtOverwrite bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Canonicalize a .logic file, preserving comments",
		Long: `Rewrite every expression of a .logic file in canonical form and print the
result to stdout. Comment lines are kept, blank lines stay blank.

If a file is provided, it must have a .logic extension.
If no file is provided, reads from stdin.

Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source []byte
			var err error
			var filename string

			if len(args) == 0 {
				if fmtOverwrite {
					return fmt.Errorf("-w requires a file argument")
				}
				source, err = io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
			} else {
				filename = args[0]
				ext := filepath.Ext(filename)
				if ext != lsp.Extension {
					return fmt.Errorf("expected %s file, got %q", lsp.Extension, ext)
				}
				source, err = os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("read file: %w", err)
				}
			}

			opts := []parser.Option{parser.WithMaxDepth(g.config.Parser.MaxDepth)}
			if filename != "" {
				opts = append(opts, parser.WithFile(filename))
			}
			output, err := format.Source(source, opts...)
			if err != nil {
				return err
			}

			if fmtOverwrite {
				if err := os.WriteFile(filename, output, 0o644); err != nil {
					return fmt.Errorf("write file: %w", err)
				}
				return nil
			}
			_, err = cmd.OutOrStdout().Write(output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
