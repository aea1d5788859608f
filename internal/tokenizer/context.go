package tokenizer

import "sort"

// ContextID is a handle into a tree's context arena. The root is 0.
type ContextID int

const noContext ContextID = -1

// Context is one activation of a context definition. Offsets are stored
// relative to the parent; absolute values are computed up the parent
// chain.
type Context struct {
	tree        *Tree
	id          ContextID
	def         *ContextDefinition
	parent      ContextID
	children    []ContextID
	tokens      []TokenID
	start       TokenID
	end         TokenID
	localOffset int
	length      int
	depth       int
	noise       []Span
	closed      bool
}

func (c *Context) ID() ContextID {
	return c.id
}

func (c *Context) Definition() *ContextDefinition {
	return c.def
}

func (c *Context) Name() string {
	return c.def.name
}

func (c *Context) IsRoot() bool {
	return c.parent == noContext
}

// Parent returns the enclosing context, or nil for the root.
func (c *Context) Parent() *Context {
	return c.tree.Context(c.parent)
}

// Children returns the child contexts in order.
func (c *Context) Children() []*Context {
	children := make([]*Context, len(c.children))
	for i, id := range c.children {
		children[i] = c.tree.contexts[id]
	}
	return children
}

// Tokens returns the tokens local to this context in order. Tokens of
// nested contexts are not included.
func (c *Context) Tokens() []*Token {
	tokens := make([]*Token, len(c.tokens))
	for i, id := range c.tokens {
		tokens[i] = c.tree.tokens[id]
	}
	return tokens
}

// StartToken returns the token that opened the context, nil for the root.
func (c *Context) StartToken() *Token {
	return c.tree.Token(c.start)
}

// EndToken returns the token that closed the context, nil when it ended
// with the content.
func (c *Context) EndToken() *Token {
	return c.tree.Token(c.end)
}

// Key returns the start key of the opening token, "" for the root.
func (c *Context) Key() string {
	if tok := c.StartToken(); tok != nil {
		return tok.def.startKey
	}
	return ""
}

func (c *Context) Depth() int {
	return c.depth
}

// Closed reports whether the context has been finalised.
func (c *Context) Closed() bool {
	return c.closed
}

// LocalOffset returns the start relative to the parent context.
func (c *Context) LocalOffset() int {
	return c.localOffset
}

// AbsoluteOffset returns the start in content coordinates.
func (c *Context) AbsoluteOffset() int {
	offset := 0
	for ctx := c; ctx != nil; ctx = ctx.Parent() {
		offset += ctx.localOffset
	}
	return offset
}

// ContextualOffset returns the start in the coordinates of ancestor. It
// reports false when ancestor is not c or one of its parents.
func (c *Context) ContextualOffset(ancestor *Context) (int, bool) {
	offset := 0
	for ctx := c; ctx != nil; ctx = ctx.Parent() {
		if ctx == ancestor {
			return offset, true
		}
		offset += ctx.localOffset
	}
	return 0, false
}

// Length returns the size of the context. A context that is still open
// extends to the end of the content.
func (c *Context) Length() int {
	if c.closed {
		return c.length
	}
	return c.tree.content.Len() - c.AbsoluteOffset()
}

// Span returns the absolute span of the context.
func (c *Context) Span() Span {
	return Span{Start: c.AbsoluteOffset(), Length: c.Length()}
}

// Text returns the literal text the context covers.
func (c *Context) Text() string {
	s := c.Span()
	return c.tree.content.Slice(s.Start, s.End())
}

// Noise returns the local spans of text no valid definition matched.
func (c *Context) Noise() []Span {
	return append([]Span(nil), c.noise...)
}

// Contents returns the text between the end of from and the start of to,
// both in local coordinates. A nil to means the end of the context.
func (c *Context) Contents(from Span, to *Span) string {
	end := c.Length()
	if to != nil {
		end = to.Start
	}
	start := clamp(from.End(), 0, c.Length())
	end = clamp(end, start, c.Length())
	base := c.AbsoluteOffset()
	return c.tree.content.Slice(base+start, base+end)
}

// Inner returns the text between the start and end tokens. Without an end
// token it runs to the end of the context.
func (c *Context) Inner() string {
	var from Span
	if tok := c.StartToken(); tok != nil {
		from = tok.Span()
	}
	if tok := c.EndToken(); tok != nil {
		to := tok.Span()
		return c.Contents(from, &to)
	}
	return c.Contents(from, nil)
}

// ElementKind tells which field of an Element is set.
type ElementKind int

const (
	TokenElement ElementKind = iota
	ChildElement
	NoiseElement
)

// Element is one piece of a context in reading order: a local token, a
// child context or a noise span.
type Element struct {
	Kind  ElementKind
	Span  Span // local to the context
	Token *Token
	Child *Context
}

// Elements returns tokens, children and noise ordered by position.
// Reassembled, their text is the context's text.
func (c *Context) Elements() []Element {
	elements := make([]Element, 0, len(c.tokens)+len(c.children)+len(c.noise))
	for _, tok := range c.Tokens() {
		elements = append(elements, Element{Kind: TokenElement, Span: tok.Span(), Token: tok})
	}
	for _, child := range c.Children() {
		elements = append(elements, Element{
			Kind:  ChildElement,
			Span:  Span{Start: child.localOffset, Length: child.Length()},
			Child: child,
		})
	}
	for _, n := range c.noise {
		elements = append(elements, Element{Kind: NoiseElement, Span: n})
	}
	sort.SliceStable(elements, func(i, j int) bool {
		return elements[i].Span.Start < elements[j].Span.Start
	})
	return elements
}

// Text returns the literal text of the element.
func (e Element) Text(c *Context) string {
	base := c.AbsoluteOffset()
	return c.tree.content.Slice(base+e.Span.Start, base+e.Span.End())
}

// Walk visits c and its descendants depth first. Returning false from fn
// skips the children of that context.
func (c *Context) Walk(fn func(*Context) bool) {
	if !fn(c) {
		return
	}
	for _, child := range c.Children() {
		child.Walk(fn)
	}
}
