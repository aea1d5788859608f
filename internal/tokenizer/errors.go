package tokenizer

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingKey is returned when a context starter or ender is built
	// without a key.
	ErrMissingKey = errors.New("missing context key")

	// ErrInvalidPattern is returned when a token pattern does not compile.
	ErrInvalidPattern = errors.New("invalid token pattern")

	// ErrUnexpectedEnd is returned when a bounded context reaches the end of
	// the content without its end token.
	ErrUnexpectedEnd = errors.New("unexpected end of content")

	// ErrTokenSyntax is returned when content cannot be placed in the tree.
	ErrTokenSyntax = errors.New("token syntax error")

	// ErrMatchFailure is returned when the pattern engine fails, for example
	// on a match timeout.
	ErrMatchFailure = errors.New("match failure")
)

// DefinitionError reports a token definition that cannot be built.
type DefinitionError struct {
	Name   string
	Reason string
	Err    error
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("token definition %q: %s", e.Name, e.Reason)
}

func (e *DefinitionError) Unwrap() error {
	return e.Err
}

// UnexpectedEndError reports a context that was still open at the end of
// the content.
type UnexpectedEndError struct {
	Context string   // name of the unterminated context definition
	Key     string   // key of the token that opened it
	Start   Position // where the opening token starts
	Length  int      // length of the opening token
}

func (e *UnexpectedEndError) Error() string {
	return fmt.Sprintf("%s: context %q opened at %d:%d is never closed", ErrUnexpectedEnd, e.Context, e.Start.Line, e.Start.Column)
}

func (e *UnexpectedEndError) Unwrap() error {
	return ErrUnexpectedEnd
}

// SyntaxError reports content positioned illegally for its context.
type SyntaxError struct {
	Message  string
	Position Position
	Length   int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Position.Line, e.Position.Column, e.Message)
}

func (e *SyntaxError) Unwrap() error {
	return ErrTokenSyntax
}
