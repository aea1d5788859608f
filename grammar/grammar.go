package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// File is a parsed .ctxg grammar description.
type File struct {
	Pos          lexer.Position
	Declarations []*Declaration `parser:"@@*"`
}

type Declaration struct {
	Token   *TokenDecl   `parser:"  @@"`
	Context *ContextDecl `parser:"| @@"`
}

// TokenDecl declares a named pattern. The pattern keeps its backquotes and
// string keys keep their double quotes; Compile strips them.
type TokenDecl struct {
	Pos       lexer.Position
	Name      string      `parser:"\"token\" @Ident \"=\""`
	Pattern   string      `parser:"@Pattern"`
	Modifiers []*Modifier `parser:"@@* \";\""`
}

type Modifier struct {
	Pos      lexer.Position
	Starts   *string  `parser:"  \"starts\" @String"`
	Ends     *string  `parser:"| \"ends\" @String"`
	Delimits *string  `parser:"| \"delimits\" @String"`
	Escape   *string  `parser:"| \"escape\" @Ident"`
	After    []string `parser:"| \"after\" @Ident { \",\" @Ident }"`
	Before   []string `parser:"| \"before\" @Ident { \",\" @Ident }"`
}

// ContextDecl declares which tokens are valid inside a context and which
// contexts its starters open.
type ContextDecl struct {
	Pos    lexer.Position
	Name   string      `parser:"\"context\" @Ident"`
	Flags  []string    `parser:"@( \"sparse\" | \"unbounded\" )*"`
	Tokens []string    `parser:"\"{\" [ @Ident { \",\" @Ident } ] \"}\""`
	Nests  []*NestDecl `parser:"@@* [ \";\" ]"`
}

type NestDecl struct {
	Pos     lexer.Position
	Key     string `parser:"\"nest\" @String"`
	Context string `parser:"\"as\" @Ident"`
}

func (c *ContextDecl) hasFlag(flag string) bool {
	for _, f := range c.Flags {
		if f == flag {
			return true
		}
	}
	return false
}
