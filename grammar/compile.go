package grammar

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/tliron/commonlog"

	"ctxtok/internal/tokenizer"
)

var log = commonlog.GetLogger("ctxtok.grammar")

// Grammar is a compiled grammar file: token and context definitions by
// name plus the root context.
type Grammar struct {
	Filename string
	Root     *tokenizer.ContextDefinition

	tokens       map[string]*tokenizer.TokenDefinition
	tokenOrder   []string
	contexts     map[string]*tokenizer.ContextDefinition
	contextOrder []string
}

// Token returns the token definition declared under name.
func (g *Grammar) Token(name string) (*tokenizer.TokenDefinition, bool) {
	def, ok := g.tokens[name]
	return def, ok
}

// Context returns the context definition declared under name.
func (g *Grammar) Context(name string) (*tokenizer.ContextDefinition, bool) {
	def, ok := g.contexts[name]
	return def, ok
}

// Tokens returns the token definitions in declaration order.
func (g *Grammar) Tokens() []*tokenizer.TokenDefinition {
	defs := make([]*tokenizer.TokenDefinition, len(g.tokenOrder))
	for i, name := range g.tokenOrder {
		defs[i] = g.tokens[name]
	}
	return defs
}

// ContextNames returns the declared context names in order.
func (g *Grammar) ContextNames() []string {
	return append([]string(nil), g.contextOrder...)
}

// RootNamed returns the context called name, or the default root when name
// is empty.
func (g *Grammar) RootNamed(name string) (*tokenizer.ContextDefinition, error) {
	if name == "" {
		return g.Root, nil
	}
	def, ok := g.contexts[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s has no context %q", ErrInvalidGrammar, g.Filename, name)
	}
	return def, nil
}

// Parse tokenizes text starting in the root context.
func (g *Grammar) Parse(text string) (*tokenizer.Tree, error) {
	return tokenizer.Parse(text, g.Root)
}

// tokenRefs is a list of token names resolved once every token is built.
type tokenRefs struct {
	names []string
	defs  []*tokenizer.TokenDefinition
}

type compiler struct {
	*positioner
	grammar *Grammar
	decls   map[string]*TokenDecl
	refs    []*tokenRefs
}

// Compile turns a parsed grammar file into tokenizer definitions. source is
// only used to report positions.
func Compile(filename, source string, file *File) (*Grammar, error) {
	c := &compiler{
		positioner: newPositioner(filename, source),
		grammar: &Grammar{
			Filename: filename,
			tokens:   make(map[string]*tokenizer.TokenDefinition),
			contexts: make(map[string]*tokenizer.ContextDefinition),
		},
		decls: make(map[string]*TokenDecl),
	}

	var tokens []*TokenDecl
	var contexts []*ContextDecl
	for _, d := range file.Declarations {
		switch {
		case d.Token != nil:
			tokens = append(tokens, d.Token)
		case d.Context != nil:
			contexts = append(contexts, d.Context)
		}
	}

	for _, decl := range tokens {
		if _, dup := c.decls[decl.Name]; dup {
			return nil, c.errorf(decl.Pos, len(decl.Name), nil, "token %q is declared twice", decl.Name)
		}
		c.decls[decl.Name] = decl
	}
	for _, decl := range tokens {
		if err := c.compileToken(decl); err != nil {
			return nil, err
		}
	}
	for _, r := range c.refs {
		for _, name := range r.names {
			r.defs = append(r.defs, c.grammar.tokens[name])
		}
	}

	if len(contexts) == 0 {
		return nil, c.errorf(file.Pos, 1, nil, "grammar declares no context")
	}
	for _, decl := range contexts {
		if err := c.compileContext(decl); err != nil {
			return nil, err
		}
	}
	for _, decl := range contexts {
		if err := c.linkContext(decl); err != nil {
			return nil, err
		}
	}
	c.grammar.Root = c.grammar.contexts[contexts[0].Name]

	log.Debugf("compiled %s: %d tokens, %d contexts, root %s",
		filename, len(c.grammar.tokenOrder), len(c.grammar.contextOrder), c.grammar.Root.Name())
	return c.grammar, nil
}

func (c *compiler) compileToken(decl *TokenDecl) error {
	pattern, err := strconv.Unquote(decl.Pattern)
	if err != nil {
		return c.errorf(decl.Pos, len(decl.Name), err, "token %q: malformed pattern %s", decl.Name, decl.Pattern)
	}
	b := tokenizer.Define(decl.Name, pattern)

	var hasAfter, hasBefore bool
	for _, m := range decl.Modifiers {
		switch {
		case len(m.After) > 0 && hasAfter:
			return c.errorf(m.Pos, len("after"), nil, "token %q: after given twice", decl.Name)
		case len(m.Before) > 0 && hasBefore:
			return c.errorf(m.Pos, len("before"), nil, "token %q: before given twice", decl.Name)
		case m.Starts != nil:
			key, err := c.key(m, *m.Starts)
			if err != nil {
				return err
			}
			b.Starts(key)
		case m.Ends != nil:
			key, err := c.key(m, *m.Ends)
			if err != nil {
				return err
			}
			b.Ends(key)
		case m.Delimits != nil:
			key, err := c.key(m, *m.Delimits)
			if err != nil {
				return err
			}
			b.Delimits(key)
		case m.Escape != nil:
			escape, err := c.resolve(m, []string{*m.Escape})
			if err != nil {
				return err
			}
			b.Validate(func(candidate *tokenizer.Token, r tokenizer.Reader) bool {
				return tokenizer.NotEscapedBy(escape.defs[0])(candidate, r)
			})
		case len(m.After) > 0:
			hasAfter = true
			after, err := c.resolve(m, m.After)
			if err != nil {
				return err
			}
			b.After(func(prev *tokenizer.Token) bool {
				return prev == nil || prev.IsA(after.defs...)
			})
		case len(m.Before) > 0:
			hasBefore = true
			before, err := c.resolve(m, m.Before)
			if err != nil {
				return err
			}
			b.Before(func(next *tokenizer.Token) bool {
				return next == nil || next.IsA(before.defs...)
			})
		}
	}

	def, err := b.Build()
	if err != nil {
		return c.errorf(decl.Pos, len(decl.Name), err, "%s", err)
	}
	c.grammar.tokens[decl.Name] = def
	c.grammar.tokenOrder = append(c.grammar.tokenOrder, decl.Name)
	return nil
}

func (c *compiler) key(m *Modifier, quoted string) (string, error) {
	key, err := strconv.Unquote(quoted)
	if err != nil {
		return "", c.errorf(m.Pos, len(quoted), err, "malformed context key %s", quoted)
	}
	return key, nil
}

func (c *compiler) resolve(m *Modifier, names []string) (*tokenRefs, error) {
	for _, name := range names {
		if _, ok := c.decls[name]; !ok {
			return nil, c.unknown(c.errorf(m.Pos, 1, nil, "unknown token %q", name), name, c.tokenNames())
		}
	}
	r := &tokenRefs{names: names}
	c.refs = append(c.refs, r)
	return r, nil
}

func (c *compiler) compileContext(decl *ContextDecl) error {
	if _, dup := c.grammar.contexts[decl.Name]; dup {
		return c.errorf(decl.Pos, len(decl.Name), nil, "context %q is declared twice", decl.Name)
	}

	defs := make([]*tokenizer.TokenDefinition, 0, len(decl.Tokens))
	for _, name := range decl.Tokens {
		def, ok := c.grammar.tokens[name]
		if !ok {
			err := c.errorf(decl.Pos, len("context"), nil, "context %q uses unknown token %q", decl.Name, name)
			return c.unknown(err, name, c.tokenNames())
		}
		defs = append(defs, def)
	}

	var ctx *tokenizer.ContextDefinition
	if decl.hasFlag("sparse") {
		ctx = tokenizer.NewSparseContext(decl.Name, defs...)
	} else {
		ctx = tokenizer.NewContext(decl.Name, defs...)
	}
	if decl.hasFlag("unbounded") {
		ctx.Unbounded()
	}
	c.grammar.contexts[decl.Name] = ctx
	c.grammar.contextOrder = append(c.grammar.contextOrder, decl.Name)
	return nil
}

func (c *compiler) linkContext(decl *ContextDecl) error {
	ctx := c.grammar.contexts[decl.Name]
	for _, n := range decl.Nests {
		key, err := strconv.Unquote(n.Key)
		if err != nil || key == "" {
			return c.errorf(n.Pos, len(n.Key), tokenizer.ErrMissingKey, "nest needs a context key, got %s", n.Key)
		}
		child, ok := c.grammar.contexts[n.Context]
		if !ok {
			return c.unknown(c.errorf(n.Pos, len("nest"), nil, "unknown context %q", n.Context), n.Context, c.grammar.ContextNames())
		}
		ctx.Nest(key, child)
	}
	return nil
}

func (c *compiler) unknown(err *Error, name string, known []string) *Error {
	err.Unknown = name
	err.Known = known
	return err
}

func (c *compiler) tokenNames() []string {
	names := make([]string, 0, len(c.decls))
	for name := range c.decls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
