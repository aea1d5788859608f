package lsp

import (
	"strings"

	"ctxtok/internal/tokenizer"
)

// SemanticToken represents a single LSP semantic token entry
// Line and StartChar are 0-based positions
// TokenType is an index into the SemanticTokenTypes array
// TokenModifiers is a bitmask based on SemanticTokenModifiers
type SemanticToken struct {
	Line           uint32
	StartChar      uint32
	Length         uint32
	TokenType      int // index into SemanticTokenTypes
	TokenModifiers int // bitmask
}

// collectSemanticTokens walks the committed tokens in reading order.
// Context starters and enders are operators, tokens nested in a context
// are strings and root tokens are keywords. Whitespace and tokens spanning
// lines are left out.
func collectSemanticTokens(tree *tokenizer.Tree, lines *lineIndex) []SemanticToken {
	var tokens []SemanticToken

	for tok := range tokenizer.ReaderAt(tree, 0).All() {
		text := tok.Text()
		if strings.TrimSpace(text) == "" || strings.ContainsAny(text, "\r\n") {
			continue
		}
		tokens = append(tokens, makeToken(tok, lines, tokenType(tok)))
	}

	return tokens
}

func tokenType(tok *tokenizer.Token) string {
	def := tok.Definition()
	switch {
	case def.IsStarter() || def.IsEnder():
		return "operator"
	case !tok.Context().IsRoot():
		return "string"
	default:
		return "keyword"
	}
}

func makeToken(tok *tokenizer.Token, lines *lineIndex, tokenType string) SemanticToken {
	pos := tok.Position()
	start := lines.character(pos.Line, pos.Column)
	end := lines.character(pos.Line, pos.Column+tok.Length())

	return SemanticToken{
		Line:      uint32(pos.Line - 1), // LSP uses 0-based line numbers
		StartChar: start,
		Length:    end - start,
		TokenType: indexOf(tokenType, SemanticTokenTypes),
	}
}

// indexOf returns the index of a string in a slice, or 0 if not found
func indexOf(target string, list []string) int {
	for i, v := range list {
		if v == target {
			return i
		}
	}
	return 0 // Default to first token type if not found
}
