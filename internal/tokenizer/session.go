package tokenizer

import (
	"errors"
	"fmt"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("ctxtok.tokenizer")

var errSessionUsed = errors.New("session already ran")

// Session drives one parse of one content buffer. It owns the context stack,
// the spool and the tree it builds; none of them may be shared with another
// session. Definitions are only read.
type Session struct {
	content *Content
	root    *ContextDefinition
	tree    *Tree
	spool   *Spool
	stack   []*Context
	cursor  int
	ran     bool
}

// NewSession prepares a parse of text starting in root.
func NewSession(text string, root *ContextDefinition) *Session {
	content := NewContent(text)
	return &Session{
		content: content,
		root:    root,
		tree:    newTree(content),
		spool:   newSpool(content),
	}
}

// Parse tokenizes text with root as the outermost context and returns the
// finished tree.
func Parse(text string, root *ContextDefinition) (*Tree, error) {
	return NewSession(text, root).Run()
}

func (s *Session) Content() *Content {
	return s.content
}

// Spool returns the match cache of the session.
func (s *Session) Spool() *Spool {
	return s.spool
}

// Run scans the whole content. A session runs once; on failure no tree is
// returned.
func (s *Session) Run() (*Tree, error) {
	if s.ran {
		return nil, errSessionUsed
	}
	s.ran = true
	if s.root == nil {
		return nil, fmt.Errorf("parse: no root context definition")
	}

	s.push(s.tree.newContext(nil, s.root, 0))
	for len(s.stack) > 0 {
		if err := s.step(); err != nil {
			log.Debugf("parse failed at %d: %s", s.cursor, err)
			return nil, err
		}
	}

	stats := s.spool.Stats()
	log.Debugf("parsed %d runes: %d tokens, %d contexts, %d probes, %d searches",
		s.content.Len(), len(s.tree.tokens), len(s.tree.contexts), stats.Probes, stats.Searches)
	return s.tree, nil
}

func (s *Session) top() *Context {
	return s.stack[len(s.stack)-1]
}

func (s *Session) push(ctx *Context) {
	s.stack = append(s.stack, ctx)
	log.Debugf("push %s depth=%d at %d", ctx.def.name, ctx.depth, s.cursor)
}

func (s *Session) pop(absEnd int) {
	ctx := s.top()
	ctx.closed = true
	ctx.length = absEnd - ctx.AbsoluteOffset()
	s.stack = s.stack[:len(s.stack)-1]
	log.Debugf("pop %s depth=%d at %d", ctx.def.name, ctx.depth, absEnd)
}

func (s *Session) step() error {
	current := s.top()

	tok, err := s.nextToken(current)
	if err != nil {
		return err
	}
	if tok == nil {
		return s.finish(current)
	}

	absStart := current.AbsoluteOffset() + tok.start
	if absStart > s.cursor {
		if err := s.skip(current, s.cursor, absStart); err != nil {
			return err
		}
	}

	// The root has no end token; it only closes at the end of the content.
	switch {
	case !current.IsRoot() && current.def.EndsCurrentContext(tok):
		s.tree.commit(current, tok, absStart)
		current.end = tok.id
		s.cursor = absStart + tok.length
		s.pop(s.cursor)
	case current.def.StartsNewContext(tok):
		child := s.tree.newContext(current, current.def.ChildFor(tok), absStart)
		s.tree.commit(child, tok, absStart)
		child.start = tok.id
		s.cursor = absStart + tok.length
		s.push(child)
	default:
		s.tree.commit(current, tok, absStart)
		s.cursor = absStart + tok.length
	}
	return nil
}

// nextToken picks the leftmost acceptable candidate among the definitions
// valid in ctx, ties going to the earlier declared one. A rejected
// candidate only moves its own definition's search origin.
func (s *Session) nextToken(ctx *Context) (*Token, error) {
	defs := ctx.def.tokens
	origins := make([]int, len(defs))
	for i := range origins {
		origins[i] = s.cursor
	}

	for {
		best := -1
		var bestMatch Match
		for i, def := range defs {
			m, err := s.spool.Probe(def, ctx, origins[i])
			if err != nil {
				return nil, err
			}
			if m.Found && (best == -1 || m.Start < bestMatch.Start) {
				best, bestMatch = i, m
			}
		}
		if best == -1 {
			return nil, nil
		}

		candidate := s.tree.candidate(ctx, defs[best], bestMatch)
		ok, err := s.accepts(ctx, candidate, bestMatch)
		if err != nil {
			return nil, err
		}
		if ok {
			return candidate, nil
		}
		origins[best] = bestMatch.Start + 1
	}
}

func (s *Session) accepts(ctx *Context, candidate *Token, m Match) (bool, error) {
	def := candidate.def
	if !def.CanComeAfter(s.tree.lastToken()) {
		return false, nil
	}
	if def.before != nil {
		next, err := s.lookahead(ctx, m.End())
		if err != nil {
			return false, err
		}
		if !def.CanComeBefore(next) {
			return false, nil
		}
	}
	if !def.IsValidInstance(candidate, readerAtEnd(s.tree)) {
		return false, nil
	}
	return ctx.def.IsValidInContext(candidate), nil
}

// lookahead returns the leftmost raw match at or after origin among the
// definitions valid in ctx. It is never committed.
func (s *Session) lookahead(ctx *Context, origin int) (*Token, error) {
	var next *Token
	for _, def := range ctx.def.tokens {
		tok, ok, err := def.TryFindNext(s, ctx, origin)
		if err != nil {
			return nil, err
		}
		if ok && (next == nil || tok.start < next.start) {
			next = tok
		}
	}
	return next, nil
}

// finish closes ctx when nothing more matches in it.
func (s *Session) finish(ctx *Context) error {
	if !ctx.IsRoot() && !ctx.def.unbounded {
		opener := ctx.StartToken()
		return &UnexpectedEndError{
			Context: ctx.def.name,
			Key:     ctx.Key(),
			Start:   opener.Position(),
			Length:  opener.length,
		}
	}

	end := s.content.Len()
	if s.cursor < end {
		if err := s.skip(ctx, s.cursor, end); err != nil {
			return err
		}
		s.cursor = end
	}
	s.pop(end)
	return nil
}

// skip accounts for unmatched text between two absolute indices.
func (s *Session) skip(ctx *Context, from, to int) error {
	if !ctx.IsRoot() && !ctx.def.unbounded && ctx.def.kind != Sparse {
		return &SyntaxError{
			Message:  fmt.Sprintf("unrecognized content %q in %s context", s.content.Slice(from, to), ctx.def.name),
			Position: s.content.Position(from),
			Length:   to - from,
		}
	}
	ctx.noise = append(ctx.noise, Span{Start: from - ctx.AbsoluteOffset(), Length: to - from})
	return nil
}
