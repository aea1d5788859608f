// Package token SPDX-License-Identifier: Apache-2.0
package token

import "ctxtok/internal/tokenizer"

// Context keys shared by starters and enders.
const (
	BracketKey     = "bracket"
	BraceKey       = "brace"
	ParenKey       = "paren"
	DoubleQuoteKey = "double-quote"
	SingleQuoteKey = "single-quote"
)

var (
	HorizontalWhitespace = tokenizer.Define("horizontal-whitespace", `[ \t]+`).MustBuild()
	VerticalWhitespace   = tokenizer.Define("vertical-whitespace", `\r\n|\r|\n`).MustBuild()

	Backslash = tokenizer.Define("backslash", `\\`).MustBuild()
	Slash     = tokenizer.Define("slash", `/`).MustBuild()

	OpenBracket  = tokenizer.Define("open-bracket", `\[`).Starts(BracketKey).MustBuild()
	CloseBracket = tokenizer.Define("close-bracket", `\]`).Ends(BracketKey).MustBuild()
	OpenBrace    = tokenizer.Define("open-brace", `\{`).Starts(BraceKey).MustBuild()
	CloseBrace   = tokenizer.Define("close-brace", `\}`).Ends(BraceKey).MustBuild()
	OpenParen    = tokenizer.Define("open-paren", `\(`).Starts(ParenKey).MustBuild()
	CloseParen   = tokenizer.Define("close-paren", `\)`).Ends(ParenKey).MustBuild()

	// Quotes open and close the same context and ignore escaped occurrences.
	DoubleQuote = tokenizer.Define("double-quote", `"`).
			Delimits(DoubleQuoteKey).
			Validate(tokenizer.NotEscapedBy(Backslash)).
			MustBuild()
	SingleQuote = tokenizer.Define("single-quote", `'`).
			Delimits(SingleQuoteKey).
			Validate(tokenizer.NotEscapedBy(Backslash)).
			MustBuild()
)

var catalogue = map[string]*tokenizer.TokenDefinition{}

func init() {
	for _, def := range All() {
		catalogue[def.Name()] = def
	}
}

// All returns every built-in definition.
func All() []*tokenizer.TokenDefinition {
	return []*tokenizer.TokenDefinition{
		HorizontalWhitespace, VerticalWhitespace,
		Backslash, Slash,
		OpenBracket, CloseBracket,
		OpenBrace, CloseBrace,
		OpenParen, CloseParen,
		DoubleQuote, SingleQuote,
	}
}

// Lookup returns the built-in definition with the given name.
func Lookup(name string) (*tokenizer.TokenDefinition, bool) {
	def, ok := catalogue[name]
	return def, ok
}

// Delimiters returns the bracket, brace and paren pairs.
func Delimiters() []*tokenizer.TokenDefinition {
	return []*tokenizer.TokenDefinition{
		OpenBracket, CloseBracket,
		OpenBrace, CloseBrace,
		OpenParen, CloseParen,
	}
}

// DefaultGrammar returns a fresh root definition: delimiters nest in sparse
// group contexts and double quotes open string contexts with backslash
// escapes. The root itself is unbounded and skips anything else.
func DefaultGrammar() *tokenizer.ContextDefinition {
	str := tokenizer.NewSparseContext("string", DoubleQuote, Backslash)

	group := tokenizer.NewSparseContext("group", append(Delimiters(), DoubleQuote, Backslash)...).
		Nest(DoubleQuoteKey, str)

	root := tokenizer.NewContext("root", append([]*tokenizer.TokenDefinition{
		HorizontalWhitespace, VerticalWhitespace, Backslash, Slash, DoubleQuote,
	}, Delimiters()...)...).Unbounded()

	return root.
		Nest(BracketKey, group).
		Nest(BraceKey, group).
		Nest(ParenKey, group).
		Nest(DoubleQuoteKey, str)
}
