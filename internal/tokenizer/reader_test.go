package tokenizer_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctxtok/internal/tokenizer"
)

// "[a] b": the bracket context owns "[", "a" and "]", the root owns " " and "b".
func parseBracketed(t *testing.T) *tokenizer.Tree {
	t.Helper()
	tree, err := tokenizer.Parse("[a] b", tokenizer.NewContext("root", lbrack, rbrack, word, ws))
	require.NoError(t, err)
	require.Len(t, tree.Tokens(), 5)
	return tree
}

func texts(seq func(func(*tokenizer.Token) bool)) []string {
	var out []string
	for tok := range seq {
		out = append(out, tok.Text())
	}
	return out
}

func TestReaderCrossesContextBoundaries(t *testing.T) {
	tree := parseBracketed(t)
	closing := tree.Tokens()[2]
	require.Equal(t, "]", closing.Text())

	r := tokenizer.NewReader(closing)
	assert.Same(t, closing, r.Current())
	assert.Equal(t, " ", r.PeekNext().Text())
	assert.True(t, r.PeekNext().Context().IsRoot())
	assert.Equal(t, "a", r.PeekPrevious().Text())
	assert.False(t, r.PeekPrevious().Context().IsRoot())
}

func TestReaderForwardAndReverseAreSymmetric(t *testing.T) {
	tree := parseBracketed(t)

	forward := texts(tokenizer.ReaderAt(tree, 0).All())
	assert.Equal(t, []string{"[", "a", "]", " ", "b"}, forward)

	backward := texts(tokenizer.ReaderAt(tree, 5).Reverse().All())
	slices.Reverse(backward)
	assert.Equal(t, forward, backward)

	r := tokenizer.NewReader(tree.Tokens()[2]).Reverse()
	assert.True(t, r.IsReverse())
	assert.Equal(t, "a", r.PeekNext().Text())
	assert.Equal(t, " ", r.PeekPrevious().Text())
	assert.False(t, r.Reverse().IsReverse())
}

func TestReaderMovesAreValues(t *testing.T) {
	tree := parseBracketed(t)
	start := tokenizer.ReaderAt(tree, 0)

	next, ok := start.Next()
	require.True(t, ok)
	assert.Equal(t, "[", next.Current().Text())
	assert.Nil(t, start.Current())

	_, ok = next.Previous()
	assert.False(t, ok)

	last := tokenizer.NewReader(tree.Tokens()[4])
	_, ok = last.Next()
	assert.False(t, ok)
	assert.Nil(t, last.PeekNext())
}

func TestReaderAtGap(t *testing.T) {
	tree := parseBracketed(t)

	r := tokenizer.ReaderAt(tree, 3)
	assert.Nil(t, r.Current())
	assert.Equal(t, " ", r.PeekNext().Text())
	assert.Equal(t, "]", r.PeekPrevious().Text())

	end := tokenizer.ReaderAt(tree, 100)
	assert.Nil(t, end.PeekNext())
	assert.Equal(t, "b", end.PeekPrevious().Text())
}

func TestReaderSeek(t *testing.T) {
	tree := parseBracketed(t)
	isWord := func(tok *tokenizer.Token) bool { return tok.IsA(word) }

	r, ok := tokenizer.ReaderAt(tree, 0).SeekNext(isWord)
	require.True(t, ok)
	assert.Equal(t, "a", r.Current().Text())

	r, ok = r.SeekNext(isWord)
	require.True(t, ok)
	assert.Equal(t, "b", r.Current().Text())

	_, ok = r.SeekNext(isWord)
	assert.False(t, ok)

	r, ok = r.SeekPrevious(func(tok *tokenizer.Token) bool { return tok.IsA(lbrack) })
	require.True(t, ok)
	assert.Equal(t, 0, r.Current().AbsoluteIndex())
}

func TestReaderWithin(t *testing.T) {
	tree := parseBracketed(t)
	bracket := tree.Root().Children()[0]

	assert.Equal(t, []string{"[", "a", "]"}, texts(tokenizer.ReaderAt(tree, 0).Within(bracket)))
	assert.Equal(t, []string{"[", "a", "]", " ", "b"}, texts(tokenizer.ReaderAt(tree, 0).Within(tree.Root())))
	assert.Empty(t, texts(tokenizer.ReaderAt(tree, 3).Within(bracket)))
}

func TestReaderDoesNotChangeTree(t *testing.T) {
	tree := parseBracketed(t)
	before := tree.String()

	for r, ok := tokenizer.ReaderAt(tree, 0).Next(); ok; r, ok = r.Next() {
		_ = r.Current().Text()
	}
	assert.Equal(t, before, tree.String())
}

func TestReaderOnCandidateSitsInGap(t *testing.T) {
	type seen struct {
		text     string
		current  *tokenizer.Token
		next     *tokenizer.Token
		previous *tokenizer.Token
	}
	var calls []seen

	checked := tokenizer.Define("word", `\w+`).
		Validate(func(candidate *tokenizer.Token, _ tokenizer.Reader) bool {
			r := tokenizer.NewReader(candidate)
			calls = append(calls, seen{
				text:     candidate.Text(),
				current:  r.Current(),
				next:     r.PeekNext(),
				previous: r.PeekPrevious(),
			})
			return true
		}).
		MustBuild()

	_, err := tokenizer.Parse("a b", tokenizer.NewContext("root", checked, ws))
	require.NoError(t, err)
	require.Len(t, calls, 2)

	assert.Equal(t, "a", calls[0].text)
	assert.Nil(t, calls[0].current)
	assert.Nil(t, calls[0].next)
	assert.Nil(t, calls[0].previous)

	assert.Equal(t, "b", calls[1].text)
	assert.Nil(t, calls[1].current)
	assert.Nil(t, calls[1].next)
	require.NotNil(t, calls[1].previous)
	assert.Equal(t, " ", calls[1].previous.Text())
}
