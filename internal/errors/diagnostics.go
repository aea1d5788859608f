package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"

	"ctxtok/grammar"
	"ctxtok/internal/tokenizer"
)

// DiagnosticBuilder provides a fluent interface for creating diagnostics with suggestions
type DiagnosticBuilder struct {
	err CompilerError
}

// NewDiagnostic creates a new error builder
func NewDiagnostic(code, message string, pos tokenizer.Position) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		err: CompilerError{
			Level:    Error,
			Code:     code,
			Message:  message,
			Position: pos,
			Length:   1,
		},
	}
}

// NewWarning creates a new warning builder
func NewWarning(code, message string, pos tokenizer.Position) *DiagnosticBuilder {
	b := NewDiagnostic(code, message, pos)
	b.err.Level = Warning
	return b
}

// WithLength sets the length of the error span
func (b *DiagnosticBuilder) WithLength(length int) *DiagnosticBuilder {
	b.err.Length = length
	return b
}

// WithSuggestion adds a suggestion to the error
func (b *DiagnosticBuilder) WithSuggestion(message string) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{Message: message})
	return b
}

// WithReplacement adds a suggestion with replacement text
func (b *DiagnosticBuilder) WithReplacement(message, replacement string, pos tokenizer.Position, length int) *DiagnosticBuilder {
	b.err.Suggestions = append(b.err.Suggestions, Suggestion{
		Message:     message,
		Replacement: replacement,
		Position:    pos,
		Length:      length,
	})
	return b
}

// WithNote adds a note to the error
func (b *DiagnosticBuilder) WithNote(note string) *DiagnosticBuilder {
	b.err.Notes = append(b.err.Notes, note)
	return b
}

// WithHelp adds help text to the error
func (b *DiagnosticBuilder) WithHelp(help string) *DiagnosticBuilder {
	b.err.HelpText = help
	return b
}

// Build returns the completed diagnostic
func (b *DiagnosticBuilder) Build() CompilerError {
	return b.err
}

// UnexpectedEnd creates an error for a context left open at the end of
// the content. The marker points at the opening token.
func UnexpectedEnd(e *tokenizer.UnexpectedEndError) CompilerError {
	message := fmt.Sprintf("unexpected end of content: %s context is never closed", e.Context)
	return NewDiagnostic(ErrorUnexpectedEnd, message, e.Start).
		WithLength(e.Length).
		WithNote(fmt.Sprintf("context %q was opened here by a %q start token", e.Context, e.Key)).
		WithHelp(fmt.Sprintf("add a token that ends %q before the end of the content", e.Key)).
		Build()
}

// UnrecognizedContent creates an error for text no definition matched
// inside a dense context.
func UnrecognizedContent(e *tokenizer.SyntaxError) CompilerError {
	return NewDiagnostic(ErrorUnrecognizedContent, e.Message, e.Position).
		WithLength(e.Length).
		WithHelp("declare the context sparse to skip unmatched text").
		Build()
}

// SkippedContent creates a warning for one noise span of ctx.
func SkippedContent(tree *tokenizer.Tree, ctx *tokenizer.Context, span tokenizer.Span) CompilerError {
	abs := span.Shift(ctx.AbsoluteOffset())
	text := tree.Content().Slice(abs.Start, abs.End())
	return NewWarning(WarningSkippedContent,
		fmt.Sprintf("skipped %q in %s context", text, ctx.Name()),
		tree.Content().Position(abs.Start)).
		WithLength(abs.Length).
		Build()
}

// Skipped collects a warning for every noise span in the tree, in reading
// order.
func Skipped(tree *tokenizer.Tree) []CompilerError {
	var diags []CompilerError
	tree.Root().Walk(func(ctx *tokenizer.Context) bool {
		for _, span := range ctx.Noise() {
			diags = append(diags, SkippedContent(tree, ctx, span))
		}
		return true
	})
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Position.Offset < diags[j].Position.Offset
	})
	return diags
}

// InvalidDefinition creates an error for a token definition that could
// not be built.
func InvalidDefinition(e *tokenizer.DefinitionError, pos tokenizer.Position) CompilerError {
	b := NewDiagnostic(ErrorInvalidDefinition, e.Error(), pos).WithLength(max(len(e.Name), 1))
	switch {
	case stderrors.Is(e, tokenizer.ErrMissingKey):
		b.WithHelp("starters, enders and delimiters need a non-empty context key")
	case stderrors.Is(e, tokenizer.ErrInvalidPattern):
		b.WithHelp("patterns use .NET regular expression syntax")
	}
	return b.Build()
}

// InvalidGrammar creates an error for a grammar file that could not be
// parsed or compiled.
func InvalidGrammar(e *grammar.Error) CompilerError {
	b := NewDiagnostic(ErrorInvalidGrammar, e.Message, e.Position).WithLength(e.Length)

	var defErr *tokenizer.DefinitionError
	if stderrors.As(e.Err, &defErr) {
		inner := InvalidDefinition(defErr, e.Position)
		b.WithNote(fmt.Sprintf("%s: %s", inner.Code, GetErrorDescription(inner.Code)))
		if inner.HelpText != "" {
			b.WithHelp(inner.HelpText)
		}
	}

	if e.Unknown != "" {
		similar := findSimilarNames(e.Unknown, e.Known)
		for _, name := range similar {
			b.WithSuggestion(fmt.Sprintf("did you mean '%s'?", name))
		}
		if len(similar) == 0 && len(e.Known) > 0 {
			b.WithNote("declared: " + strings.Join(e.Known, ", "))
		}
	}
	return b.Build()
}

// FromError converts an error returned by the tokenizer or the grammar
// loader into a diagnostic. It reports false for any other error.
func FromError(err error) (CompilerError, bool) {
	var endErr *tokenizer.UnexpectedEndError
	var syntaxErr *tokenizer.SyntaxError
	var grammarErr *grammar.Error
	var defErr *tokenizer.DefinitionError

	switch {
	case stderrors.As(err, &endErr):
		return UnexpectedEnd(endErr), true
	case stderrors.As(err, &syntaxErr):
		return UnrecognizedContent(syntaxErr), true
	case stderrors.As(err, &grammarErr):
		return InvalidGrammar(grammarErr), true
	case stderrors.As(err, &defErr):
		return InvalidDefinition(defErr, tokenizer.Position{Line: 1, Column: 1}), true
	case stderrors.Is(err, tokenizer.ErrMatchFailure):
		return FromMatchError(err, tokenizer.Position{Line: 1, Column: 1}), true
	}
	return CompilerError{}, false
}

// FromMatchError wraps a pattern engine failure, which carries no
// position of its own.
func FromMatchError(err error, pos tokenizer.Position) CompilerError {
	return NewDiagnostic(ErrorMatchFailure, err.Error(), pos).Build()
}

func findSimilarNames(target string, candidates []string) []string {
	var similar []string

	for _, candidate := range candidates {
		if levenshteinDistance(target, candidate) <= 2 && len(candidate) > 2 {
			similar = append(similar, candidate)
		}
	}

	return similar
}

// Simple Levenshtein distance over runes
func levenshteinDistance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 0
			if ra[i-1] != rb[j-1] {
				cost = 1
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}
