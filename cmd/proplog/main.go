package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/proplog/config"
)

var version = "0.1.0"

// globals carries the persistent flags and the configuration they select
// down to the subcommands.
type globals struct {
	configPath string
	verbose    int
	config     *config.Config
}

func (g *globals) load() error {
	var cfg *config.Config
	var err error
	if g.configPath != "" {
		cfg, err = config.Load(g.configPath)
	} else {
		cfg, err = config.LoadOrDefault(config.DefaultFile)
	}
	if err != nil {
		return err
	}
	g.config = cfg

	verbosity := cfg.Log.Verbosity
	if g.verbose > verbosity {
		verbosity = g.verbose
	}
	commonlog.Configure(verbosity, nil)
	return nil
}

func newRootCmd() *cobra.Command {
	g := &globals{config: config.Default()}

	rootCmd := &cobra.Command{
		Use:          "proplog",
		Short:        "A propositional logic parser and canonicalizer",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "configuration file (default "+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().CountVarP(&g.verbose, "verbose", "v", "increase log verbosity (repeatable)")

	rootCmd.AddCommand(newParseCmd(g))
	rootCmd.AddCommand(newCanonCmd(g))
	rootCmd.AddCommand(newFmtCmd(g))
	rootCmd.AddCommand(newGrammarCmd())
	rootCmd.AddCommand(newLSPCmd(g))
	rootCmd.AddCommand(newUICmd(g))
	rootCmd.AddCommand(newCreditsCmd())

	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
