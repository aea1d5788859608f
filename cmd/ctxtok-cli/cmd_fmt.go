package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ctxtok/grammar"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool

	cmd := &cobra.Command{
		Use:   "fmt <grammar.ctxg>",
		Short: "Reformat a grammar file",
		Long: `Print a grammar file in canonical layout. The grammar is checked
before printing.

Use -w to overwrite the file in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			source, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			file, err := grammar.ParseString(path, string(source))
			if err != nil {
				return reportSource(path, string(source), err)
			}
			if _, err := grammar.Compile(path, string(source), file); err != nil {
				return reportSource(path, string(source), err)
			}

			output := file.String()
			if fmtOverwrite {
				return os.WriteFile(path, []byte(output), 0644)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")

	return cmd
}
