package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCreditsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "credits",
		Short: "Show credits and license info",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "parser_of_logic_expressions - Propositional logic parser")
			fmt.Fprintln(out, "Author: Vlad-Re")
			fmt.Fprintln(out, "License: MIT")
		},
	}
}
