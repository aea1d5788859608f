package tokenizer

// Kind selects how a context treats text no valid definition matches.
type Kind int

const (
	// Dense contexts reject unrecognised text unless they are the root or
	// unbounded.
	Dense Kind = iota
	// Sparse contexts record unrecognised text as noise.
	Sparse
)

func (k Kind) String() string {
	switch k {
	case Dense:
		return "dense"
	case Sparse:
		return "sparse"
	default:
		return "unknown"
	}
}

// Rules override the context transition predicates for one token
// definition. Nil fields fall back to the defaults.
type Rules struct {
	StartsContext  func(tok *Token) bool
	EndsContext    func(tok *Token) bool
	ValidInContext func(tok *Token) bool
	Child          func(tok *Token) *ContextDefinition
}

// Registration binds Rules to a token definition in a composed context.
type Registration struct {
	Token *TokenDefinition
	Rules Rules
}

// ContextDefinition declares which token definitions are valid inside a
// context and how tokens move the parse between contexts. Definitions are
// set up while building a grammar and are read-only afterwards.
type ContextDefinition struct {
	name      string
	kind      Kind
	unbounded bool
	tokens    []*TokenDefinition
	rules     map[*TokenDefinition]Rules
	nested    map[string]*ContextDefinition
}

// NewContext creates a dense context definition. Tokens are tried in the
// given order when two match at the same index.
func NewContext(name string, tokens ...*TokenDefinition) *ContextDefinition {
	return &ContextDefinition{
		name:   name,
		kind:   Dense,
		tokens: tokens,
		nested: make(map[string]*ContextDefinition),
	}
}

// NewSparseContext creates a context that keeps unrecognised text as noise.
func NewSparseContext(name string, tokens ...*TokenDefinition) *ContextDefinition {
	d := NewContext(name, tokens...)
	d.kind = Sparse
	return d
}

// Compose creates a context definition from per-token registrations. The
// registration order is the declaration order.
func Compose(name string, kind Kind, registrations ...Registration) *ContextDefinition {
	d := NewContext(name)
	d.kind = kind
	d.rules = make(map[*TokenDefinition]Rules, len(registrations))
	for _, reg := range registrations {
		if _, dup := d.rules[reg.Token]; !dup {
			d.tokens = append(d.tokens, reg.Token)
		}
		d.rules[reg.Token] = reg.Rules
	}
	return d
}

// Unbounded lets the context end at the end of the content without an end
// token.
func (d *ContextDefinition) Unbounded() *ContextDefinition {
	d.unbounded = true
	return d
}

// Nest registers the definition used for children opened by starters with
// key. Without a registration children reuse d.
func (d *ContextDefinition) Nest(key string, child *ContextDefinition) *ContextDefinition {
	d.nested[key] = child
	return d
}

func (d *ContextDefinition) Name() string {
	return d.name
}

func (d *ContextDefinition) Kind() Kind {
	return d.kind
}

func (d *ContextDefinition) IsUnbounded() bool {
	return d.unbounded
}

// IsComposed reports whether the definition was built with Compose.
func (d *ContextDefinition) IsComposed() bool {
	return d.rules != nil
}

// Tokens returns the valid token definitions in declaration order.
func (d *ContextDefinition) Tokens() []*TokenDefinition {
	return append([]*TokenDefinition(nil), d.tokens...)
}

// Allows reports whether def is valid in the context.
func (d *ContextDefinition) Allows(def *TokenDefinition) bool {
	for _, t := range d.tokens {
		if t == def {
			return true
		}
	}
	return false
}

// StartsNewContext reports whether tok opens a child context.
func (d *ContextDefinition) StartsNewContext(tok *Token) bool {
	if r, ok := d.rules[tok.def]; ok && r.StartsContext != nil {
		return r.StartsContext(tok)
	}
	return tok.def.IsStarter()
}

// EndsCurrentContext reports whether tok closes the context it was found
// in: its end key has to match the key that opened that context.
func (d *ContextDefinition) EndsCurrentContext(tok *Token) bool {
	if r, ok := d.rules[tok.def]; ok && r.EndsContext != nil {
		return r.EndsContext(tok)
	}
	return tok.def.IsEnder() && tok.def.endKey == tok.Context().Key()
}

// IsValidInContext is the last admission check before a token is committed.
func (d *ContextDefinition) IsValidInContext(tok *Token) bool {
	if r, ok := d.rules[tok.def]; ok && r.ValidInContext != nil {
		return r.ValidInContext(tok)
	}
	return true
}

// ChildFor returns the definition of the context tok opens.
func (d *ContextDefinition) ChildFor(tok *Token) *ContextDefinition {
	if r, ok := d.rules[tok.def]; ok && r.Child != nil {
		if child := r.Child(tok); child != nil {
			return child
		}
	}
	if child, ok := d.nested[tok.def.startKey]; ok {
		return child
	}
	return d
}

func (d *ContextDefinition) String() string {
	return d.name
}
