package lsp

import (
	"strings"
	"unicode/utf16"

	protocol "github.com/tliron/glsp/protocol_3_16"

	ctxerrors "ctxtok/internal/errors"
)

// ConvertError transforms a tokenizer error into LSP diagnostics for IDE
// display. Errors the diagnostics package does not know are reported at
// the start of the document.
func ConvertError(err error, lines *lineIndex) []protocol.Diagnostic {
	diag, ok := ctxerrors.FromError(err)
	if !ok {
		return []protocol.Diagnostic{{
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Source:   ptrString("ctxtok"),
			Message:  err.Error(),
		}}
	}
	return []protocol.Diagnostic{ConvertDiagnostic(diag, lines)}
}

// ConvertDiagnostic maps a diagnostic onto LSP coordinates: 0-based lines
// and UTF-16 character offsets. Spans are cut at the end of their first
// line.
func ConvertDiagnostic(d ctxerrors.CompilerError, lines *lineIndex) protocol.Diagnostic {
	line := max(d.Position.Line, 1)
	start := lines.character(line, d.Position.Column)
	end := lines.character(line, d.Position.Column+max(d.Length, 1))

	message := d.Message
	for _, note := range d.Notes {
		message += "\nnote: " + note
	}
	if d.HelpText != "" {
		message += "\nhelp: " + d.HelpText
	}

	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: uint32(line - 1), Character: start},
			End:   protocol.Position{Line: uint32(line - 1), Character: end},
		},
		Severity: ptrSeverity(severity(d.Level)),
		Code:     &protocol.IntegerOrString{Value: d.Code},
		Source:   ptrString("ctxtok"),
		Message:  message,
	}
}

func severity(level ctxerrors.ErrorLevel) protocol.DiagnosticSeverity {
	switch level {
	case ctxerrors.Warning:
		return protocol.DiagnosticSeverityWarning
	case ctxerrors.Note, ctxerrors.Help:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}

// lineIndex translates between rune columns and the UTF-16 offsets LSP
// clients count in.
type lineIndex struct {
	lines []string
}

func newLineIndex(text string) *lineIndex {
	return &lineIndex{lines: strings.Split(text, "\n")}
}

// character converts a 1-based rune column on a 1-based line into a
// 0-based UTF-16 offset, clamped to the line.
func (li *lineIndex) character(line, column int) uint32 {
	if line < 1 || line > len(li.lines) {
		return 0
	}
	runes := []rune(li.lines[line-1])
	n := min(max(column-1, 0), len(runes))
	return uint32(len(utf16.Encode(runes[:n])))
}

// offset converts an LSP position into a byte offset in the text.
func (li *lineIndex) offset(pos protocol.Position) int {
	offset := 0
	line := int(pos.Line)
	for i := 0; i < line && i < len(li.lines); i++ {
		offset += len(li.lines[i]) + 1
	}
	if line >= len(li.lines) {
		return max(offset-1, 0)
	}

	units := uint32(0)
	for i, r := range li.lines[line] {
		if units >= pos.Character {
			return offset + i
		}
		units += uint32(utf16.RuneLen(r))
	}
	return offset + len(li.lines[line])
}

// applyChange replaces the range of text with newText.
func applyChange(text string, rng protocol.Range, newText string) string {
	lines := newLineIndex(text)
	start := min(lines.offset(rng.Start), len(text))
	end := min(max(lines.offset(rng.End), start), len(text))
	return text[:start] + newText + text[end:]
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
