// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"

	"ctxtok/internal/errors"
	"ctxtok/internal/tokenizer"
)

const PROMPT = ">> "

// Start tokenizes each line read from in starting in root and writes the
// context tree, or the diagnostic, to out.
func Start(in io.Reader, out io.Writer, root *tokenizer.ContextDefinition) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}

		line := scanner.Text()
		tree, err := tokenizer.Parse(line, root)
		if err != nil {
			if diag, ok := errors.FromError(err); ok {
				fmt.Fprint(out, errors.NewErrorReporter("<repl>", line).FormatError(diag))
			} else {
				fmt.Fprintf(out, "error: %v\n", err)
			}
			continue
		}

		fmt.Fprintf(out, "Tree:\n%s\n", tree.String())
	}
}
