package main

import (
	"github.com/spf13/cobra"

	"github.com/dhamidi/proplog/lsp"
)

func newLSPCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			server := lsp.NewServer(version, lsp.Options{
				MaxDepth: g.config.Parser.MaxDepth,
				Watch:    g.config.LSP.Watch,
				Debounce: g.config.LSP.Debounce.Duration,
			})
			return server.RunStdio()
		},
	}
}
