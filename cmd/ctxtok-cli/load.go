package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"

	"ctxtok/grammar"
	"ctxtok/internal/errors"
	"ctxtok/internal/tokenizer"
	"ctxtok/token"
)

// reportedError has already been printed as a diagnostic.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string {
	return e.err.Error()
}

func (e *reportedError) Unwrap() error {
	return e.err
}

func printError(err error) {
	if _, ok := err.(*reportedError); ok {
		return
	}
	fmt.Fprintf(os.Stderr, "%s: %v\n", color.RedString("error"), err)
}

// loadRoot returns the root definition selected by the flags. Grammar
// errors are printed against the grammar source.
func loadRoot(opts *options) (*tokenizer.ContextDefinition, error) {
	if opts.grammarPath == "" {
		if opts.rootName != "" {
			return nil, fmt.Errorf("--root requires --grammar")
		}
		return token.DefaultGrammar(), nil
	}

	g, err := grammar.Load(opts.grammarPath)
	if err != nil {
		return nil, report(opts.grammarPath, err)
	}
	return g.RootNamed(opts.rootName)
}

// readInput reads the named file, or stdin when no argument is given.
func readInput(args []string) (string, string, error) {
	if len(args) == 0 {
		source, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("read stdin: %w", err)
		}
		return "<stdin>", string(source), nil
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		return "", "", fmt.Errorf("read file: %w", err)
	}
	return args[0], string(source), nil
}

// tokenize loads the grammar and input and runs the tokenizer, printing
// diagnostics for any failure.
func tokenize(opts *options, args []string) (*tokenizer.Tree, string, string, error) {
	root, err := loadRoot(opts)
	if err != nil {
		return nil, "", "", err
	}
	path, source, err := readInput(args)
	if err != nil {
		return nil, "", "", err
	}

	tree, err := tokenizer.Parse(source, root)
	if err != nil {
		return nil, path, source, reportSource(path, source, err)
	}
	return tree, path, source, nil
}

// report prints err against the file at path when it is a known
// diagnostic.
func report(path string, err error) error {
	source, readErr := os.ReadFile(path)
	if readErr != nil {
		return err
	}
	return reportSource(path, string(source), err)
}

func reportSource(path, source string, err error) error {
	diag, ok := errors.FromError(err)
	if !ok {
		return err
	}
	fmt.Fprint(os.Stderr, errors.NewErrorReporter(path, source).FormatError(diag))
	return &reportedError{err: err}
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Minute:
		return fmt.Sprintf("%.2fmin", d.Minutes())
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fμs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
