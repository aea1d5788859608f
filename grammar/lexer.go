package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

var GrammarLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		// Comments
		{Name: "Comment", Pattern: `//[^\n]*`, Action: nil},

		// Raw regular expression between backquotes
		{Name: "Pattern", Pattern: "`[^`]*`", Action: nil},

		// Context keys
		{Name: "String", Pattern: `"(\\.|[^"\\\n])*"`, Action: nil},

		// Keywords and identifiers
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_\-]*`, Action: nil},

		{Name: "Punctuation", Pattern: `[{}=;,]`, Action: nil},

		{Name: "Whitespace", Pattern: `[ \t\r\n]+`, Action: nil},
	},
})
