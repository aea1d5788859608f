package errors

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctxtok/grammar"
	"ctxtok/internal/tokenizer"
	"ctxtok/token"
)

func TestErrorReporter(t *testing.T) {
	source := "say [hello\nworld"

	_, err := tokenizer.Parse(source, token.DefaultGrammar())
	require.Error(t, err)

	diag, ok := FromError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorUnexpectedEnd, diag.Code)
	assert.Equal(t, Error, diag.Level)
	assert.Equal(t, tokenizer.Position{Line: 1, Column: 5, Offset: 4}, diag.Position)

	reporter := NewErrorReporter("test.txt", source)
	formatted := reporter.FormatError(diag)

	// Should contain error level and code
	assert.Contains(t, formatted, "error["+ErrorUnexpectedEnd+"]")
	assert.Contains(t, formatted, "never closed")

	// Should contain location and the neighbouring line
	assert.Contains(t, formatted, "test.txt:1:5")
	assert.Contains(t, formatted, "world")

	assert.Contains(t, formatted, "note:")
	assert.Contains(t, formatted, `"bracket"`)
	assert.Contains(t, formatted, "help:")
}

func TestUnrecognizedContent(t *testing.T) {
	lbrack := tokenizer.Define("lbrack", `\[`).Starts("bracket").MustBuild()
	rbrack := tokenizer.Define("rbrack", `\]`).Ends("bracket").MustBuild()

	_, err := tokenizer.Parse("[ab]", tokenizer.NewContext("nest", lbrack, rbrack))
	require.Error(t, err)

	diag, ok := FromError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorUnrecognizedContent, diag.Code)
	assert.Equal(t, 2, diag.Length)
	assert.Equal(t, 2, diag.Position.Column)

	formatted := NewErrorReporter("test.txt", "[ab]").FormatError(diag)
	assert.Contains(t, formatted, "error[E0101]")
	assert.Contains(t, formatted, " ^^\n")
	assert.Contains(t, formatted, "sparse")
}

func TestMarkerIsClippedAtLineEnd(t *testing.T) {
	source := "abcd\nef"
	reporter := NewErrorReporter("test.txt", source)

	diag := NewDiagnostic(ErrorUnrecognizedContent, "spans lines", tokenizer.Position{Line: 1, Column: 3, Offset: 2}).
		WithLength(5).
		Build()
	formatted := reporter.FormatError(diag)

	assert.Contains(t, formatted, "  ^^...")
	assert.NotContains(t, formatted, "^^^")
}

func TestWarningFormatting(t *testing.T) {
	source := "x [y]"
	tree, err := tokenizer.Parse(source, token.DefaultGrammar())
	require.NoError(t, err)

	warnings := Skipped(tree)
	require.Len(t, warnings, 2)
	assert.Equal(t, Warning, warnings[0].Level)
	assert.Equal(t, WarningSkippedContent, warnings[0].Code)
	assert.Equal(t, `skipped "x" in root context`, warnings[0].Message)
	assert.Equal(t, `skipped "y" in group context`, warnings[1].Message)
	assert.Equal(t, 4, warnings[1].Position.Column)

	formatted := NewErrorReporter("test.txt", source).FormatError(warnings[0])
	assert.Contains(t, formatted, "warning[W0001]")
}

func TestInvalidGrammar(t *testing.T) {
	source := "token quote = `\"` escape bslsh;\ntoken bslash = `\\\\`;\ncontext r { quote }"
	_, err := grammar.LoadString("g.ctxg", source)
	require.Error(t, err)

	diag, ok := FromError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorInvalidGrammar, diag.Code)
	require.Len(t, diag.Suggestions, 1)
	assert.Contains(t, diag.Suggestions[0].Message, "did you mean 'bslash'")

	_, err = grammar.LoadString("g.ctxg", "token a = `(`;\ncontext r { a }")
	require.Error(t, err)
	diag, ok = FromError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorInvalidGrammar, diag.Code)
	require.Len(t, diag.Notes, 1)
	assert.Contains(t, diag.Notes[0], ErrorInvalidDefinition)
	assert.Contains(t, diag.HelpText, "regular expression")
}

func TestInvalidDefinition(t *testing.T) {
	_, err := tokenizer.Define("open", `\(`).Starts("").Build()
	require.Error(t, err)

	diag, ok := FromError(err)
	require.True(t, ok)
	assert.Equal(t, ErrorInvalidDefinition, diag.Code)
	assert.Contains(t, diag.HelpText, "context key")
}

func TestFromErrorIgnoresOtherErrors(t *testing.T) {
	_, ok := FromError(stderrors.New("disk on fire"))
	assert.False(t, ok)
}

func TestErrorMarkerCreation(t *testing.T) {
	reporter := NewErrorReporter("test.txt", `let variable = value;`)

	// Test marker creation
	marker := reporter.createMarker(5, 8, Error) // "variable" is 8 chars at column 5

	// Should have correct spacing and marker length
	spaces := strings.Count(marker, " ")
	assert.Equal(t, 4, spaces) // column 5 means 4 spaces before
	carets := strings.Count(marker, "^")
	assert.Equal(t, 8, carets) // 8 character length
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("hello", "hello"))
	assert.Equal(t, 1, levenshteinDistance("hello", "hallo"))
	assert.Equal(t, 1, levenshteinDistance("hello", "helo"))
	assert.Equal(t, 5, levenshteinDistance("hello", ""))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
	assert.Equal(t, 1, levenshteinDistance("naïve", "naive"))
}

func TestSimilarNameFinding(t *testing.T) {
	candidates := []string{"lbrack", "rbrack", "bslash", "ws"}

	similar := findSimilarNames("lbrak", candidates)
	assert.Contains(t, similar, "lbrack")
	assert.NotContains(t, similar, "ws")

	similar = findSimilarNames("verydifferent", candidates)
	assert.Empty(t, similar)
}

func TestCodes(t *testing.T) {
	assert.True(t, IsWarning(WarningSkippedContent))
	assert.False(t, IsWarning(ErrorUnexpectedEnd))
	assert.False(t, IsWarning(""))
	assert.Equal(t, "Tokenizer", GetErrorCategory(ErrorUnrecognizedContent))
	assert.Equal(t, "Grammar", GetErrorCategory(ErrorInvalidGrammar))
	assert.Equal(t, "Warning", GetErrorCategory(WarningSkippedContent))
	assert.NotEqual(t, "Unknown error code", GetErrorDescription(ErrorMatchFailure))
}

func TestErrorLevels(t *testing.T) {
	reporter := NewErrorReporter("test.txt", `test`)
	pos := tokenizer.Position{Line: 1, Column: 1}

	errorFormatted := reporter.FormatError(CompilerError{Level: Error, Message: "test error", Position: pos})
	warningFormatted := reporter.FormatError(CompilerError{Level: Warning, Message: "test warning", Position: pos})

	assert.Contains(t, errorFormatted, "error:")
	assert.Contains(t, warningFormatted, "warning:")

	all := reporter.FormatAll([]CompilerError{
		{Level: Error, Message: "first", Position: pos},
		{Level: Note, Message: "second", Position: pos},
	})
	assert.Less(t, strings.Index(all, "first"), strings.Index(all, "second"))
}
