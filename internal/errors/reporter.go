package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"ctxtok/internal/tokenizer"
)

// ErrorLevel represents the severity of an error
type ErrorLevel string

const (
	Error   ErrorLevel = "error"
	Warning ErrorLevel = "warning"
	Note    ErrorLevel = "note"
	Help    ErrorLevel = "help"
)

// CompilerError represents a structured diagnostic with suggestions and context
type CompilerError struct {
	Level       ErrorLevel
	Code        string             // Error code like E0100
	Message     string             // Primary error message
	Position    tokenizer.Position // Location in source
	Length      int                // Length of the problematic region, in runes
	Suggestions []Suggestion       // Suggested fixes
	Notes       []string           // Additional context notes
	HelpText    string             // Help text for the error
}

// Suggestion represents a suggested fix
type Suggestion struct {
	Message     string             // Description of the suggestion
	Replacement string             // Suggested replacement text (optional)
	Position    tokenizer.Position // Position to apply the fix (optional)
	Length      int                // Length of text to replace (optional)
}

// ErrorReporter handles consistent error formatting and suggestions
type ErrorReporter struct {
	filename string
	source   string
	lines    []string
}

// NewErrorReporter creates a new error reporter for a file
func NewErrorReporter(filename, source string) *ErrorReporter {
	return &ErrorReporter{
		filename: filename,
		source:   source,
		lines:    strings.Split(source, "\n"),
	}
}

var (
	bold = color.New(color.Bold).SprintFunc()
	dim  = color.New(color.Faint).SprintFunc()
)

// FormatAll formats every diagnostic in order.
func (er *ErrorReporter) FormatAll(errs []CompilerError) string {
	var result strings.Builder
	for _, err := range errs {
		result.WriteString(er.FormatError(err))
	}
	return result.String()
}

// FormatError formats a diagnostic with rustc-like styling: header,
// location, the offending line between its neighbours, a marker under the
// span, then suggestions, notes and help.
func (er *ErrorReporter) FormatError(err CompilerError) string {
	var result strings.Builder

	width := er.getLineNumberWidth(err.Position.Line + 1)
	gutter := strings.Repeat(" ", width)

	er.writeHeader(&result, err)
	result.WriteString(fmt.Sprintf("%s %s %s:%d:%d\n",
		gutter, dim("-->"), er.filename, err.Position.Line, err.Position.Column))
	result.WriteString(fmt.Sprintf("%s %s\n", gutter, dim("│")))

	er.writeSnippet(&result, err, width)
	er.writeSuggestions(&result, err.Suggestions, gutter)

	for _, note := range err.Notes {
		noteColor := color.New(color.FgBlue).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n", gutter, dim("│"), noteColor("note:"), note))
	}
	if err.HelpText != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		result.WriteString(fmt.Sprintf("%s %s %s %s\n", gutter, dim("│"), helpColor("help:"), err.HelpText))
	}

	result.WriteString("\n")
	return result.String()
}

// writeHeader writes "error[E0100]: message".
func (er *ErrorReporter) writeHeader(result *strings.Builder, err CompilerError) {
	levelColor := er.getLevelColor(err.Level)
	if err.Code != "" {
		result.WriteString(fmt.Sprintf("%s[%s]: %s\n", levelColor(string(err.Level)), err.Code, err.Message))
		return
	}
	result.WriteString(fmt.Sprintf("%s: %s\n", levelColor(string(err.Level)), err.Message))
}

func (er *ErrorReporter) writeSnippet(result *strings.Builder, err CompilerError, width int) {
	line := err.Position.Line
	if line <= 0 || line > len(er.lines) {
		return
	}
	gutter := strings.Repeat(" ", width)

	if line > 1 {
		er.writeLine(result, line-1, width, dim)
	}
	er.writeLine(result, line, width, bold)

	// A span running past the end of its line is cut there and flagged.
	content := []rune(er.lines[line-1])
	length := err.Length
	continued := false
	if avail := len(content) - (err.Position.Column - 1); length > avail {
		length = max(avail, 1)
		continued = avail > 0
	}
	marker := er.createMarker(err.Position.Column, length, err.Level)
	if continued {
		marker += dim("...")
	}
	result.WriteString(fmt.Sprintf("%s %s %s\n", gutter, dim("│"), marker))

	if line < len(er.lines) {
		er.writeLine(result, line+1, width, dim)
	}
}

func (er *ErrorReporter) writeLine(result *strings.Builder, line, width int, style func(...interface{}) string) {
	result.WriteString(fmt.Sprintf("%s %s %s\n",
		style(fmt.Sprintf("%*d", width, line)), dim("│"), er.lines[line-1]))
}

func (er *ErrorReporter) writeSuggestions(result *strings.Builder, suggestions []Suggestion, gutter string) {
	if len(suggestions) == 0 {
		return
	}
	suggestionColor := color.New(color.FgCyan).SprintFunc()
	result.WriteString(fmt.Sprintf("%s %s\n", gutter, dim("│")))
	for i, suggestion := range suggestions {
		if i == 0 {
			result.WriteString(fmt.Sprintf("%s %s %s: %s\n",
				gutter, suggestionColor("help"), suggestionColor("try"), suggestion.Message))
		} else {
			result.WriteString(fmt.Sprintf("%s %s %s\n", gutter, suggestionColor("    "), suggestion.Message))
		}
		if suggestion.Replacement != "" {
			result.WriteString(fmt.Sprintf("%s %s %s\n", gutter, suggestionColor("│"), suggestionColor(suggestion.Replacement)))
		}
	}
}

// getLevelColor returns the appropriate color function for an error level
func (er *ErrorReporter) getLevelColor(level ErrorLevel) func(...interface{}) string {
	switch level {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case Help:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// createMarker creates the underline marker for errors
func (er *ErrorReporter) createMarker(column, length int, level ErrorLevel) string {
	if length <= 0 {
		length = 1
	}
	markerColor := er.getLevelColor(level)
	if level != Warning {
		markerColor = er.getLevelColor(Error)
	}
	return strings.Repeat(" ", max(0, column-1)) + markerColor(strings.Repeat("^", length))
}

// getLineNumberWidth calculates the width needed for line numbers
func (er *ErrorReporter) getLineNumberWidth(line int) int {
	return max(len(fmt.Sprintf("%d", line)), 3)
}
