package tokenizer

// Tree is the arena every token and context of one parse lives in. Parent,
// child, owner and reading order relations are stored as handles into it.
type Tree struct {
	content  *Content
	contexts []*Context
	tokens   []*Token
}

func newTree(content *Content) *Tree {
	return &Tree{content: content}
}

// Root returns the root context.
func (t *Tree) Root() *Context {
	if len(t.contexts) == 0 {
		return nil
	}
	return t.contexts[0]
}

func (t *Tree) Content() *Content {
	return t.content
}

// Token resolves a handle. It returns nil for handles outside the arena.
func (t *Tree) Token(id TokenID) *Token {
	if id < 0 || int(id) >= len(t.tokens) {
		return nil
	}
	return t.tokens[id]
}

// Context resolves a handle. It returns nil for handles outside the arena.
func (t *Tree) Context(id ContextID) *Context {
	if id < 0 || int(id) >= len(t.contexts) {
		return nil
	}
	return t.contexts[id]
}

// Tokens returns every committed token in reading order.
func (t *Tree) Tokens() []*Token {
	return append([]*Token(nil), t.tokens...)
}

// Contexts returns every context in creation order, which is depth first.
func (t *Tree) Contexts() []*Context {
	return append([]*Context(nil), t.contexts...)
}

func (t *Tree) newContext(parent *Context, def *ContextDefinition, absOffset int) *Context {
	ctx := &Context{
		tree:   t,
		id:     ContextID(len(t.contexts)),
		def:    def,
		parent: noContext,
		start:  noToken,
		end:    noToken,
	}
	if parent != nil {
		ctx.parent = parent.id
		ctx.depth = parent.depth + 1
		ctx.localOffset = absOffset - parent.AbsoluteOffset()
		parent.children = append(parent.children, ctx.id)
	}
	t.contexts = append(t.contexts, ctx)
	return ctx
}

// candidate wraps a spooled match as an uncommitted token of ctx.
func (t *Tree) candidate(ctx *Context, def *TokenDefinition, m Match) *Token {
	return &Token{
		tree:   t,
		id:     noToken,
		owner:  ctx.id,
		def:    def,
		start:  m.Start - ctx.AbsoluteOffset(),
		length: m.Length,
	}
}

// commit adds tok to the arena as a token owned by ctx.
func (t *Tree) commit(ctx *Context, tok *Token, absStart int) *Token {
	tok.id = TokenID(len(t.tokens))
	tok.owner = ctx.id
	tok.start = absStart - ctx.AbsoluteOffset()
	t.tokens = append(t.tokens, tok)
	ctx.tokens = append(ctx.tokens, tok.id)
	return tok
}

func (t *Tree) lastToken() *Token {
	return t.Token(TokenID(len(t.tokens) - 1))
}

func (t *Tree) String() string {
	if root := t.Root(); root != nil {
		return root.String()
	}
	return ""
}
