package grammar

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"ctxtok/internal/tokenizer"
)

// ErrInvalidGrammar is wrapped by every error reported for a grammar file.
var ErrInvalidGrammar = errors.New("invalid grammar")

// Error points at the declaration of a grammar file that could not be
// parsed or compiled.
type Error struct {
	Filename string
	Position tokenizer.Position
	Length   int
	Message  string
	Err      error // underlying cause, such as a *tokenizer.DefinitionError

	// Unknown and Known are set for unresolved references: the name that
	// was not found and the names that were declared.
	Unknown string
	Known   []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Position.Line, e.Position.Column, e.Message)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidGrammar}
	}
	return []error{ErrInvalidGrammar, e.Err}
}

// positioner converts participle byte positions into rune based positions.
type positioner struct {
	filename string
	source   string
	content  *tokenizer.Content
}

func newPositioner(filename, source string) *positioner {
	return &positioner{filename: filename, source: source, content: tokenizer.NewContent(source)}
}

func (p *positioner) at(pos lexer.Position) tokenizer.Position {
	offset := min(max(pos.Offset, 0), len(p.source))
	return p.content.Position(utf8.RuneCountInString(p.source[:offset]))
}

func (p *positioner) errorf(pos lexer.Position, length int, cause error, format string, args ...any) *Error {
	return &Error{
		Filename: p.filename,
		Position: p.at(pos),
		Length:   length,
		Message:  fmt.Sprintf(format, args...),
		Err:      cause,
	}
}

func fromParseError(filename, source string, err error) error {
	var pe participle.Error
	if !errors.As(err, &pe) {
		return fmt.Errorf("%w: %w", ErrInvalidGrammar, err)
	}
	return newPositioner(filename, source).errorf(pe.Position(), 1, nil, "%s", pe.Message())
}
