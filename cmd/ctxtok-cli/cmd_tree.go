package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newTreeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tree [file]",
		Short: "Print the context tree of a file",
		Long: `Tokenize a file and print its context tree, one context or
token per line, indented by depth. Reads stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, _, _, err := tokenize(opts, args)
			if err != nil {
				return err
			}

			contextColor := color.New(color.FgCyan).SprintFunc()
			noiseColor := color.New(color.Faint).SprintFunc()

			out := cmd.OutOrStdout()
			for _, line := range strings.Split(strings.TrimSuffix(tree.String(), "\n"), "\n") {
				trimmed := strings.TrimLeft(line, " ")
				switch {
				case strings.Contains(trimmed, " depth="):
					line = line[:len(line)-len(trimmed)] + contextColor(trimmed)
				case strings.HasPrefix(trimmed, "noise "):
					line = line[:len(line)-len(trimmed)] + noiseColor(trimmed)
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}
