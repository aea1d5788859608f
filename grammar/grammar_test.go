package grammar_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ctxtok/grammar"
	"ctxtok/internal/tokenizer"
)

func TestParseBracketsFile(t *testing.T) {
	file, err := grammar.ParseFile(`testdata/brackets.ctxg`)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	assert.NotNil(t, file)
	assert.Equal(t, 9, len(file.Declarations))

	quote := file.Declarations[4].Token
	require.NotNil(t, quote)
	assert.Equal(t, "quote", quote.Name)
	assert.Equal(t, "`\"`", quote.Pattern)
	require.Len(t, quote.Modifiers, 2)
	assert.Equal(t, `"string"`, *quote.Modifiers[0].Delimits)
	assert.Equal(t, "bslash", *quote.Modifiers[1].Escape)

	word := file.Declarations[5].Token
	require.Len(t, word.Modifiers, 2)
	assert.Equal(t, []string{"ws", "lbrack"}, word.Modifiers[0].After)
	assert.Equal(t, []string{"ws", "rbrack"}, word.Modifiers[1].Before)

	root := file.Declarations[6].Context
	require.NotNil(t, root)
	assert.Equal(t, "root", root.Name)
	assert.Equal(t, []string{"unbounded"}, root.Flags)
	assert.Equal(t, []string{"ws", "lbrack", "rbrack", "quote", "bslash", "word"}, root.Tokens)
	require.Len(t, root.Nests, 2)
	assert.Equal(t, `"bracket"`, root.Nests[0].Key)
	assert.Equal(t, "bracket", root.Nests[0].Context)

	str := file.Declarations[8].Context
	assert.Equal(t, []string{"sparse"}, str.Flags)
	assert.Empty(t, str.Nests)
}

func TestLoadCompilesDefinitions(t *testing.T) {
	g, err := grammar.Load(`testdata/brackets.ctxg`)
	require.NoError(t, err)

	assert.Equal(t, "root", g.Root.Name())
	assert.True(t, g.Root.IsUnbounded())
	assert.Equal(t, []string{"root", "bracket", "str"}, g.ContextNames())
	assert.Len(t, g.Tokens(), 6)

	quote, ok := g.Token("quote")
	require.True(t, ok)
	assert.Equal(t, "string", quote.StartKey())
	assert.Equal(t, "string", quote.EndKey())
	assert.Equal(t, `"`, quote.Pattern())

	bracket, ok := g.Context("bracket")
	require.True(t, ok)
	assert.Equal(t, tokenizer.Sparse, bracket.Kind())

	named, err := g.RootNamed("str")
	require.NoError(t, err)
	assert.Equal(t, "str", named.Name())

	_, err = g.RootNamed("nope")
	assert.True(t, errors.Is(err, grammar.ErrInvalidGrammar))
}

func TestLoadedGrammarTokenizes(t *testing.T) {
	g, err := grammar.Load(`testdata/brackets.ctxg`)
	require.NoError(t, err)

	tree, err := g.Parse(`say [a "x\"y" [b]] ok`)
	require.NoError(t, err)

	root := tree.Root()
	var names []string
	for _, tok := range root.Tokens() {
		names = append(names, tok.Definition().Name())
	}
	assert.Equal(t, []string{"word", "ws", "ws", "word"}, names)

	require.Len(t, root.Children(), 1)
	bracket := root.Children()[0]
	assert.Equal(t, "bracket", bracket.Name())
	require.Len(t, bracket.Children(), 2)
	assert.Equal(t, "str", bracket.Children()[0].Name())
	assert.Equal(t, `x\"y`, bracket.Children()[0].Inner())
	assert.Equal(t, "b", bracket.Children()[1].Inner())

	tree, err = g.Parse("[x]y")
	require.NoError(t, err)
	assert.Equal(t, []tokenizer.Span{{Start: 3, Length: 1}}, tree.Root().Noise())
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		line    int
		column  int
		message string
		cause   error
	}{
		{
			name:    "duplicate token",
			source:  "token a = `a`;\ntoken a = `b`;\ncontext r { a }",
			line:    2,
			column:  1,
			message: `token "a" is declared twice`,
		},
		{
			name:    "unknown token in context",
			source:  "token a = `a`;\ncontext r { a, b }",
			line:    2,
			column:  1,
			message: `unknown token "b"`,
		},
		{
			name:    "unknown escape",
			source:  "token q = `'` escape nope;\ncontext r { q }",
			line:    1,
			column:  15,
			message: `unknown token "nope"`,
		},
		{
			name:    "invalid pattern",
			source:  "token a = `(`;\ncontext r { a }",
			line:    1,
			column:  1,
			message: `token definition "a"`,
			cause:   tokenizer.ErrInvalidPattern,
		},
		{
			name:    "empty key",
			source:  "token a = `a` starts \"\";\ncontext r { a }",
			line:    1,
			column:  1,
			message: "needs a key",
			cause:   tokenizer.ErrMissingKey,
		},
		{
			name:    "no context",
			source:  "token a = `a`;",
			line:    1,
			column:  1,
			message: "no context",
		},
		{
			name:    "unknown nest target",
			source:  "token a = `a` starts \"k\";\ncontext r { a } nest \"k\" as missing;",
			line:    2,
			column:  17,
			message: `unknown context "missing"`,
		},
		{
			name:    "after given twice",
			source:  "token a = `a` after a before a after a;\ncontext r { a }",
			line:    1,
			column:  32,
			message: `token "a": after given twice`,
		},
		{
			name:    "before given twice",
			source:  "token a = `a` before a before a;\ncontext r { a }",
			line:    1,
			column:  24,
			message: "before given twice",
		},
		{
			name:    "duplicate context",
			source:  "token a = `a`;\ncontext r { a }\ncontext r { a }",
			line:    3,
			column:  1,
			message: "declared twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := grammar.LoadString("test.ctxg", tt.source)
			require.Error(t, err)
			assert.True(t, errors.Is(err, grammar.ErrInvalidGrammar))

			var gerr *grammar.Error
			require.True(t, errors.As(err, &gerr))
			assert.Equal(t, "test.ctxg", gerr.Filename)
			assert.Equal(t, tt.line, gerr.Position.Line)
			assert.Equal(t, tt.column, gerr.Position.Column)
			assert.Contains(t, gerr.Message, tt.message)
			if tt.cause != nil {
				assert.True(t, errors.Is(err, tt.cause))
			}
		})
	}
}

func TestSyntaxErrorHasPosition(t *testing.T) {
	_, err := grammar.ParseString("bad.ctxg", "token a = `a`;\ntoken b `b`;")
	require.Error(t, err)
	assert.True(t, errors.Is(err, grammar.ErrInvalidGrammar))

	var gerr *grammar.Error
	require.True(t, errors.As(err, &gerr))
	assert.Equal(t, 2, gerr.Position.Line)
	assert.True(t, strings.HasPrefix(err.Error(), "bad.ctxg:2:"))
}

func TestPrinterIsStable(t *testing.T) {
	file, err := grammar.ParseFile(`testdata/brackets.ctxg`)
	require.NoError(t, err)

	formatted := file.String()
	assert.Contains(t, formatted, "token ws     = `[ \\t]+`;\n")
	assert.Contains(t, formatted, "token quote  = `\"` delimits \"string\" escape bslash;\n")
	assert.Contains(t, formatted, "context str sparse { quote, bslash }\n")

	again, err := grammar.ParseString("formatted.ctxg", formatted)
	require.NoError(t, err)
	assert.Equal(t, formatted, again.String())
}
