package grammar

import (
	"fmt"
	"os"

	"github.com/alecthomas/participle/v2"
)

var fileParser = participle.MustBuild[File](
	participle.Lexer(GrammarLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(2),
)

// ParseFile reads and parses a grammar description without compiling it.
func ParseFile(path string) (*File, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar: %w", err)
	}
	return ParseString(path, string(source))
}

// ParseString parses a grammar description held in memory.
func ParseString(filename, source string) (*File, error) {
	file, err := fileParser.ParseString(filename, source)
	if err != nil {
		return nil, fromParseError(filename, source, err)
	}
	return file, nil
}

// Load parses and compiles a grammar file.
func Load(path string) (*Grammar, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grammar: %w", err)
	}
	return LoadString(path, string(source))
}

// LoadString parses and compiles a grammar held in memory.
func LoadString(filename, source string) (*Grammar, error) {
	file, err := ParseString(filename, source)
	if err != nil {
		return nil, err
	}
	return Compile(filename, source, file)
}
