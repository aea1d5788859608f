package token_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctxtok/internal/tokenizer"
	"ctxtok/token"
)

func TestLookup(t *testing.T) {
	for _, def := range token.All() {
		found, ok := token.Lookup(def.Name())
		require.True(t, ok, def.Name())
		assert.Same(t, def, found)
	}

	_, ok := token.Lookup("word")
	assert.False(t, ok)
}

func TestDelimitersPairUp(t *testing.T) {
	delimiters := token.Delimiters()
	require.Len(t, delimiters, 6)

	for i := 0; i < len(delimiters); i += 2 {
		open, closing := delimiters[i], delimiters[i+1]
		assert.True(t, open.IsStarter(), open.Name())
		assert.False(t, open.IsEnder(), open.Name())
		assert.True(t, closing.IsEnder(), closing.Name())
		assert.Equal(t, open.StartKey(), closing.EndKey())
	}
}

func TestQuotesDelimit(t *testing.T) {
	for _, def := range []*tokenizer.TokenDefinition{token.DoubleQuote, token.SingleQuote} {
		assert.True(t, def.IsStarter(), def.Name())
		assert.True(t, def.IsEnder(), def.Name())
		assert.Equal(t, def.StartKey(), def.EndKey())
	}
}

func TestDefaultGrammarNestsGroupsAndStrings(t *testing.T) {
	input := `f(a, [b {"c\"d"}])`
	tree, err := tokenizer.Parse(input, token.DefaultGrammar())
	require.NoError(t, err)

	var names []string
	var depths []int
	tree.Root().Walk(func(ctx *tokenizer.Context) bool {
		names = append(names, ctx.Name())
		depths = append(depths, ctx.Depth())
		return true
	})
	assert.Equal(t, []string{"root", "group", "group", "group", "string"}, names)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, depths)

	str := tree.Contexts()[4]
	assert.Equal(t, `c\"d`, str.Inner())
	assert.Equal(t, token.DoubleQuoteKey, str.Key())

	// The escaped quote stays inside the string.
	var quotes int
	for tok := range tokenizer.ReaderAt(tree, 0).All() {
		if tok.Definition() == token.DoubleQuote {
			quotes++
		}
	}
	assert.Equal(t, 2, quotes)
}

func TestDefaultGrammarReportsUnclosedGroup(t *testing.T) {
	_, err := tokenizer.Parse("(a", token.DefaultGrammar())
	require.Error(t, err)
	assert.ErrorIs(t, err, tokenizer.ErrUnexpectedEnd)
}

func TestDefaultGrammarIsFresh(t *testing.T) {
	assert.NotSame(t, token.DefaultGrammar(), token.DefaultGrammar())
}
