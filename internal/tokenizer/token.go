package tokenizer

import "fmt"

// TokenID is a handle into a tree's token arena. Handles follow reading
// order.
type TokenID int

const noToken TokenID = -1

// Token is one committed match. Its start is relative to the context that
// owns it.
type Token struct {
	tree   *Tree
	id     TokenID
	owner  ContextID
	def    *TokenDefinition
	start  int
	length int
}

// ID returns the arena handle, or -1 for an uncommitted candidate.
func (t *Token) ID() TokenID {
	return t.id
}

// Committed reports whether the token is part of the tree.
func (t *Token) Committed() bool {
	return t.id != noToken
}

func (t *Token) Definition() *TokenDefinition {
	return t.def
}

// Context returns the owning context.
func (t *Token) Context() *Context {
	return t.tree.Context(t.owner)
}

// Index returns the start relative to the owning context.
func (t *Token) Index() int {
	return t.start
}

func (t *Token) Length() int {
	return t.length
}

// Span returns the local span of the token.
func (t *Token) Span() Span {
	return Span{Start: t.start, Length: t.length}
}

// AbsoluteIndex returns the start in content coordinates.
func (t *Token) AbsoluteIndex() int {
	return t.Context().AbsoluteOffset() + t.start
}

// ContextualIndex returns the start in the coordinates of ancestor, which
// may be the owning context itself. It reports false when ancestor is not
// on the owner's parent chain.
func (t *Token) ContextualIndex(ancestor *Context) (int, bool) {
	offset, ok := t.Context().ContextualOffset(ancestor)
	if !ok {
		return 0, false
	}
	return offset + t.start, true
}

// Text returns the matched text.
func (t *Token) Text() string {
	abs := t.AbsoluteIndex()
	return t.tree.content.Slice(abs, abs+t.length)
}

// Position returns the line and column the token starts at.
func (t *Token) Position() Position {
	return t.tree.content.Position(t.AbsoluteIndex())
}

// IsA reports whether the token was produced by one of defs.
func (t *Token) IsA(defs ...*TokenDefinition) bool {
	for _, d := range defs {
		if t.def == d {
			return true
		}
	}
	return false
}

func (t *Token) String() string {
	return fmt.Sprintf("%s %q @%d", t.def.name, t.Text(), t.AbsoluteIndex())
}
