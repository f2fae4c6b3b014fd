package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/proplog/format"
	"github.com/dhamidi/proplog/logic/parser"
)

func newParseCmd(g *globals) *cobra.Command {
	var outputFormat string
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a file of expressions and dump the tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			if !cmd.Flags().Changed("format") {
				outputFormat = g.config.Output.Format
			}
			if !cmd.Flags().Changed("positions") {
				includePositions = g.config.Output.Positions
			}

			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			tree, err := parser.ParseFile(bytes.NewReader(data),
				parser.WithFile(filename),
				parser.WithMaxDepth(g.config.Parser.MaxDepth),
			).Finish()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "tree":
				fmt.Fprintf(out, "Parse tree for '%s':\n", filename)
				if includePositions {
					fmt.Fprint(out, tree.StringWithPositions())
					return nil
				}
				return format.NewTreeEncoder(out, data).Encode(tree)
			case "json":
				if err := format.NewASTJSONEncoder(out).Encode(tree); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
				fmt.Fprintln(out)
			case "yaml":
				if err := format.NewASTYAMLEncoder(out).Encode(tree); err != nil {
					return fmt.Errorf("encode yaml: %w", err)
				}
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json, yaml)")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "annotate the tree with token positions")

	return cmd
}
