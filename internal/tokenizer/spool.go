package tokenizer

// Match is one spooled pattern result in absolute coordinates. A miss is
// stored as the sentinel Start == -1, Length == -1.
type Match struct {
	Found  bool
	Start  int
	Length int
}

// End returns the first index past the match.
func (m Match) End() int {
	return m.Start + m.Length
}

var noMatch = Match{Start: -1, Length: -1}

type spoolKey struct {
	context    ContextID
	definition int64
	origin     int
}

type spoolLane struct {
	context    ContextID
	definition int64
}

type spoolProbe struct {
	origin int
	match  Match
}

// SpoolStats counts spool traffic.
type SpoolStats struct {
	Probes   int // calls to Probe
	Hits     int // probes answered without running a pattern
	Searches int // pattern searches actually run
}

// Spool memoizes "next match of definition D at or after origin I within
// context C" for one session. Entries are written once and never changed.
type Spool struct {
	content *Content
	entries map[spoolKey]Match
	latest  map[spoolLane]spoolProbe
	stats   SpoolStats
}

func newSpool(content *Content) *Spool {
	return &Spool{
		content: content,
		entries: make(map[spoolKey]Match),
		latest:  make(map[spoolLane]spoolProbe),
	}
}

// Probe returns the leftmost match of def at or after origin for ctx. A
// search runs at most once per (definition, context, origin).
func (s *Spool) Probe(def *TokenDefinition, ctx *Context, origin int) (Match, error) {
	s.stats.Probes++

	key := spoolKey{context: ctx.id, definition: def.id, origin: origin}
	if m, ok := s.entries[key]; ok {
		s.stats.Hits++
		return m, nil
	}

	// An earlier probe of the same lane answers this one when its match
	// starts at or after origin: nothing matched in between. Anchored
	// patterns always search again.
	lane := spoolLane{context: ctx.id, definition: def.id}
	if prev, ok := s.latest[lane]; ok && !def.anchored && prev.origin <= origin && (!prev.match.Found || prev.match.Start >= origin) {
		s.stats.Hits++
		s.entries[key] = prev.match
		return prev.match, nil
	}

	s.stats.Searches++
	m, err := def.find(s.content, origin)
	if err != nil {
		return noMatch, err
	}
	s.entries[key] = m
	s.latest[lane] = spoolProbe{origin: origin, match: m}
	return m, nil
}

// Stats returns the traffic counters.
func (s *Spool) Stats() SpoolStats {
	return s.stats
}

// Len returns the number of cached entries.
func (s *Spool) Len() int {
	return len(s.entries)
}
