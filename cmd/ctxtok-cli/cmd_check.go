package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ctxtok/internal/errors"
)

func newCheckCmd(opts *options) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Report errors and skipped content",
		Long: `Tokenize a file and report diagnostics. Text skipped by a sparse
or unbounded context is reported as a warning; with --strict warnings
fail the check.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startTime := time.Now()

			tree, path, source, err := tokenize(opts, args)
			if err != nil {
				color.Red("Check failed after %s", formatDuration(time.Since(startTime)))
				return err
			}

			warnings := errors.Skipped(tree)
			if len(warnings) > 0 {
				fmt.Fprint(os.Stderr, errors.NewErrorReporter(path, source).FormatAll(warnings))
			}

			duration := formatDuration(time.Since(startTime))
			if strict && len(warnings) > 0 {
				color.Red("Check failed with %d warnings after %s", len(warnings), duration)
				return &reportedError{err: fmt.Errorf("%d warnings", len(warnings))}
			}
			color.Green("Successfully processed %s in %s (%d tokens, %d contexts)",
				path, duration, len(tree.Tokens()), len(tree.Contexts()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat skipped content as an error")

	return cmd
}
