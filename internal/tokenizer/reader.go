package tokenizer

import (
	"iter"
	"sort"
)

// Reader is a cursor over the committed tokens of a tree in reading order,
// crossing context boundaries freely. It is a value: moving returns a new
// reader and never changes the tree.
//
// The position is a slot: 2*i+1 sits on token i, 2*i is the gap before it.
type Reader struct {
	tree    *Tree
	slot    int
	reverse bool
}

// NewReader returns a reader sitting on tok. For an uncommitted candidate
// it returns the gap at the candidate's position.
func NewReader(tok *Token) Reader {
	if !tok.Committed() {
		return ReaderAt(tok.tree, tok.AbsoluteIndex())
	}
	return Reader{tree: tok.tree, slot: 2*int(tok.id) + 1}
}

// ReaderAt returns a reader in the gap before the first token starting at
// or after the absolute index.
func ReaderAt(tree *Tree, index int) Reader {
	i := sort.Search(len(tree.tokens), func(i int) bool {
		return tree.tokens[i].AbsoluteIndex() >= index
	})
	return Reader{tree: tree, slot: 2 * i}
}

// readerAtEnd sits after every committed token.
func readerAtEnd(tree *Tree) Reader {
	return Reader{tree: tree, slot: 2 * len(tree.tokens)}
}

func (r Reader) forwardNext() int {
	return (r.slot + 1) / 2
}

func (r Reader) forwardPrevious() int {
	return r.slot/2 - 1
}

func (r Reader) nextIndex() int {
	if r.reverse {
		return r.forwardPrevious()
	}
	return r.forwardNext()
}

func (r Reader) previousIndex() int {
	if r.reverse {
		return r.forwardNext()
	}
	return r.forwardPrevious()
}

// IsReverse reports whether the reader walks towards the start.
func (r Reader) IsReverse() bool {
	return r.reverse
}

// Reverse returns the same position read in the other direction.
func (r Reader) Reverse() Reader {
	r.reverse = !r.reverse
	return r
}

// Current returns the token the reader sits on, nil in a gap.
func (r Reader) Current() *Token {
	if r.slot%2 == 0 {
		return nil
	}
	return r.tree.Token(TokenID(r.slot / 2))
}

// PeekNext returns the adjacent token in the reader's direction.
func (r Reader) PeekNext() *Token {
	return r.tree.Token(TokenID(r.nextIndex()))
}

// PeekPrevious returns the adjacent token against the reader's direction.
func (r Reader) PeekPrevious() *Token {
	return r.tree.Token(TokenID(r.previousIndex()))
}

// Next moves onto the next token. It reports false at the end.
func (r Reader) Next() (Reader, bool) {
	tok := r.PeekNext()
	if tok == nil {
		return r, false
	}
	r.slot = 2*int(tok.id) + 1
	return r, true
}

// Previous moves onto the previous token. It reports false at the start.
func (r Reader) Previous() (Reader, bool) {
	tok := r.PeekPrevious()
	if tok == nil {
		return r, false
	}
	r.slot = 2*int(tok.id) + 1
	return r, true
}

// SeekNext moves onto the next token accepted by pred.
func (r Reader) SeekNext(pred func(*Token) bool) (Reader, bool) {
	for {
		next, ok := r.Next()
		if !ok {
			return r, false
		}
		r = next
		if pred(r.Current()) {
			return r, true
		}
	}
}

// SeekPrevious moves onto the previous token accepted by pred.
func (r Reader) SeekPrevious(pred func(*Token) bool) (Reader, bool) {
	for {
		prev, ok := r.Previous()
		if !ok {
			return r, false
		}
		r = prev
		if pred(r.Current()) {
			return r, true
		}
	}
}

// All yields the tokens ahead of the reader in its direction.
func (r Reader) All() iter.Seq[*Token] {
	return func(yield func(*Token) bool) {
		for {
			next, ok := r.Next()
			if !ok {
				return
			}
			r = next
			if !yield(r.Current()) {
				return
			}
		}
	}
}

// Within yields the tokens ahead of the reader that belong to ctx or one of
// its descendants, stopping at the first token outside it.
func (r Reader) Within(ctx *Context) iter.Seq[*Token] {
	return func(yield func(*Token) bool) {
		for tok := range r.All() {
			if _, ok := tok.Context().ContextualOffset(ctx); !ok {
				return
			}
			if !yield(tok) {
				return
			}
		}
	}
}
