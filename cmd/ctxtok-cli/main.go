// SPDX-License-Identifier: Apache-2.0
package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

// options shared by every subcommand
type options struct {
	grammarPath string
	rootName    string
	verbosity   int
}

func main() {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "ctxtok",
		Short:         "Tokenize text into a tree of nested contexts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			commonlog.Configure(opts.verbosity, nil)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&opts.grammarPath, "grammar", "g", "", "grammar file (.ctxg); the built-in grammar when empty")
	flags.StringVar(&opts.rootName, "root", "", "context of the grammar to start in; the first declared when empty")
	flags.CountVarP(&opts.verbosity, "verbose", "v", "log more (repeatable)")

	rootCmd.AddCommand(newTreeCmd(opts))
	rootCmd.AddCommand(newTokensCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newFmtCmd())

	if err := rootCmd.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}
