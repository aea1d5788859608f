package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ctxtok/internal/tokenizer"
)

func newTokensCmd(opts *options) *cobra.Command {
	var reverse bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "List the tokens of a file in reading order",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, _, _, err := tokenize(opts, args)
			if err != nil {
				return err
			}

			reader := tokenizer.ReaderAt(tree, 0)
			if reverse {
				reader = tokenizer.ReaderAt(tree, tree.Content().Len()).Reverse()
			}

			out := cmd.OutOrStdout()
			for tok := range reader.All() {
				pos := tok.Position()
				fmt.Fprintf(out, "%d:%d\t%s\t%s\t%q\n",
					pos.Line, pos.Column, tok.Context().Name(), tok.Definition().Name(), tok.Text())
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&reverse, "reverse", "r", false, "list from the last token to the first")

	return cmd
}
