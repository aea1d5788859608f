package tokenizer

import (
	"fmt"
	"sync/atomic"

	"github.com/dlclark/regexp2"
)

var definitionIDs atomic.Int64

// TokenDefinition is a named matcher. Besides its pattern it carries the
// capabilities the engine looks for: an optional context start key, an
// optional context end key and three optional predicates. A definition holds
// no per-parse state and can be shared between sessions.
type TokenDefinition struct {
	id       int64
	name     string
	pattern  *regexp2.Regexp
	startKey string
	endKey   string
	// anchored patterns depend on where the search starts (\G, right to
	// left), so a result from one origin says nothing about another.
	anchored bool

	after    func(prev *Token) bool
	before   func(next *Token) bool
	validate func(candidate *Token, r Reader) bool
}

// ID returns the process-unique identity of the definition.
func (d *TokenDefinition) ID() int64 {
	return d.id
}

func (d *TokenDefinition) Name() string {
	return d.name
}

// Pattern returns the source of the compiled pattern.
func (d *TokenDefinition) Pattern() string {
	return d.pattern.String()
}

// StartKey returns the key of the contexts this definition opens, or "".
func (d *TokenDefinition) StartKey() string {
	return d.startKey
}

// EndKey returns the key of the contexts this definition closes, or "".
func (d *TokenDefinition) EndKey() string {
	return d.endKey
}

func (d *TokenDefinition) IsStarter() bool {
	return d.startKey != ""
}

func (d *TokenDefinition) IsEnder() bool {
	return d.endKey != ""
}

func (d *TokenDefinition) String() string {
	return d.name
}

// CanComeAfter reports whether a token of this definition may follow prev.
// prev is nil at the start of the content.
func (d *TokenDefinition) CanComeAfter(prev *Token) bool {
	if d.after == nil {
		return true
	}
	return d.after(prev)
}

// CanComeBefore reports whether a token of this definition may precede
// next, the nearest match ahead of it. next is nil when nothing follows.
func (d *TokenDefinition) CanComeBefore(next *Token) bool {
	if d.before == nil {
		return true
	}
	return d.before(next)
}

// IsValidInstance is the semantic acceptance check. The reader sits right
// before the candidate and only sees committed tokens.
func (d *TokenDefinition) IsValidInstance(candidate *Token, r Reader) bool {
	if d.validate == nil {
		return true
	}
	return d.validate(candidate, r)
}

// TryFindNext returns the next raw match of the definition at or after the
// absolute origin, as an uncommitted token of ctx. Results come from the
// session's spool.
func (d *TokenDefinition) TryFindNext(s *Session, ctx *Context, origin int) (*Token, bool, error) {
	m, err := s.spool.Probe(d, ctx, origin)
	if err != nil || !m.Found {
		return nil, false, err
	}
	return s.tree.candidate(ctx, d, m), true, nil
}

// find runs the pattern from origin and returns the leftmost non-empty
// match.
func (d *TokenDefinition) find(c *Content, origin int) (Match, error) {
	for at := max(origin, 0); at < c.Len(); {
		m, err := d.pattern.FindRunesMatchStartingAt(c.runes, at)
		if err != nil {
			return noMatch, fmt.Errorf("%w: token %q: %w", ErrMatchFailure, d.name, err)
		}
		if m == nil {
			return noMatch, nil
		}
		if m.Length > 0 {
			return Match{Found: true, Start: m.Index, Length: m.Length}, nil
		}
		at = m.Index + 1
	}
	return noMatch, nil
}

// DefinitionBuilder provides a fluent interface for creating token
// definitions.
type DefinitionBuilder struct {
	def     TokenDefinition
	pattern string
	options regexp2.RegexOptions
	err     error
}

// Define starts a token definition with a name and a regexp2 pattern.
func Define(name, pattern string) *DefinitionBuilder {
	return &DefinitionBuilder{
		def:     TokenDefinition{name: name},
		pattern: pattern,
	}
}

// Starts marks the definition as a context starter for key.
func (b *DefinitionBuilder) Starts(key string) *DefinitionBuilder {
	if key == "" {
		b.fail("context starter needs a key", ErrMissingKey)
	}
	b.def.startKey = key
	return b
}

// Ends marks the definition as a context ender for key.
func (b *DefinitionBuilder) Ends(key string) *DefinitionBuilder {
	if key == "" {
		b.fail("context ender needs a key", ErrMissingKey)
	}
	b.def.endKey = key
	return b
}

// Delimits marks the definition as both starter and ender for key, like a
// quote character.
func (b *DefinitionBuilder) Delimits(key string) *DefinitionBuilder {
	if key == "" {
		b.fail("start-and-end token needs a key", ErrMissingKey)
	}
	b.def.startKey = key
	b.def.endKey = key
	return b
}

// After sets the CanComeAfter predicate.
func (b *DefinitionBuilder) After(fn func(prev *Token) bool) *DefinitionBuilder {
	b.def.after = fn
	return b
}

// Before sets the CanComeBefore predicate.
func (b *DefinitionBuilder) Before(fn func(next *Token) bool) *DefinitionBuilder {
	b.def.before = fn
	return b
}

// Validate sets the IsValidInstance predicate.
func (b *DefinitionBuilder) Validate(fn func(candidate *Token, r Reader) bool) *DefinitionBuilder {
	b.def.validate = fn
	return b
}

// Options sets regexp2 options for the pattern.
func (b *DefinitionBuilder) Options(opts regexp2.RegexOptions) *DefinitionBuilder {
	b.options = opts
	return b
}

// Build compiles the pattern and returns the definition.
func (b *DefinitionBuilder) Build() (*TokenDefinition, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.def.name == "" {
		return nil, &DefinitionError{Reason: "missing name", Err: ErrMissingKey}
	}
	if b.pattern == "" {
		return nil, &DefinitionError{Name: b.def.name, Reason: "empty pattern", Err: ErrInvalidPattern}
	}

	re, err := regexp2.Compile(b.pattern, b.options)
	if err != nil {
		return nil, &DefinitionError{
			Name:   b.def.name,
			Reason: err.Error(),
			Err:    fmt.Errorf("%w: %w", ErrInvalidPattern, err),
		}
	}

	def := b.def
	def.pattern = re
	def.anchored = b.options&regexp2.RightToLeft != 0 || usesStartAnchor(b.pattern)
	def.id = definitionIDs.Add(1)
	return &def, nil
}

// usesStartAnchor reports whether pattern contains an unescaped \G.
func usesStartAnchor(pattern string) bool {
	runes := []rune(pattern)
	for i := 0; i < len(runes)-1; i++ {
		if runes[i] != '\\' {
			continue
		}
		if runes[i+1] == 'G' {
			return true
		}
		i++
	}
	return false
}

// MustBuild is like Build but panics on error. Intended for package level
// catalogues.
func (b *DefinitionBuilder) MustBuild() *TokenDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

func (b *DefinitionBuilder) fail(reason string, err error) {
	if b.err == nil {
		b.err = &DefinitionError{Name: b.def.name, Reason: reason, Err: err}
	}
}

// PrecededBy returns a CanComeAfter predicate accepting the start of the
// content or a previous token of one of defs.
func PrecededBy(defs ...*TokenDefinition) func(prev *Token) bool {
	return func(prev *Token) bool {
		return prev == nil || prev.IsA(defs...)
	}
}

// FollowedBy returns a CanComeBefore predicate accepting the end of the
// content or a next token of one of defs.
func FollowedBy(defs ...*TokenDefinition) func(next *Token) bool {
	return func(next *Token) bool {
		return next == nil || next.IsA(defs...)
	}
}

// NotEscapedBy returns an IsValidInstance predicate that rejects a candidate
// directly preceded by an odd run of adjacent escape tokens.
func NotEscapedBy(escape *TokenDefinition) func(candidate *Token, r Reader) bool {
	return func(candidate *Token, r Reader) bool {
		end := candidate.AbsoluteIndex()
		run := 0
		for tok := range r.Reverse().All() {
			if tok.Definition() != escape || tok.AbsoluteIndex()+tok.Length() != end {
				break
			}
			run++
			end = tok.AbsoluteIndex()
		}
		return run%2 == 0
	}
}
