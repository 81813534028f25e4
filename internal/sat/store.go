package sat

// ClauseRef is a non-owning handle into a ClauseStore's arena. The zero
// value, NilClause, never refers to a live clause.
type ClauseRef uint32

// NilClause is the handle returned whenever "no clause" needs to be
// represented (no conflict, no reason, ...).
const NilClause ClauseRef = 0

// AddResult is the outcome of adding a clause to the store.
type AddResult int

const (
	// Added means the clause (or, for unit clauses, the resulting fact)
	// was accepted.
	Added AddResult = iota
	// Tautology means the clause contained a literal and its negation,
	// or was already satisfied at level 0; it was silently dropped.
	Tautology
	// Conflicting means the clause is already falsified (possibly
	// empty), making the formula globally unsatisfiable.
	Conflicting
)

type binEntry struct {
	other Literal
	ref   ClauseRef
}

// DRUPSink receives the two operations a DRUP-style proof trace is built
// from. Clauses are expressed in the same signed-literal form as the public
// API; implementations are responsible for any textual formatting.
type DRUPSink interface {
	Added(literals []Literal)
	Removed(literals []Literal)
}

// nopSink discards every event; used when no proof needs to be recorded.
type nopSink struct{}

func (nopSink) Added([]Literal)   {}
func (nopSink) Removed([]Literal) {}

// ClauseStore owns every clause body. Every other structure (watch lists,
// the binary index, trail reasons, the simplifier's occurrence lists) holds
// only a ClauseRef into it. Binary clauses (size 2) are stored here like any
// other clause, for iteration/deletion/DRUP bookkeeping, but are additionally
// indexed in a dedicated symmetric binary index and are never 2-watched.
type ClauseStore struct {
	arena   []Clause // arena[0] is an unused sentinel so ClauseRef(0) means Nil.
	nextID  uint32
	sink    DRUPSink
	binary  [][]binEntry // indexed by literal
	nAlive  int
	nVars   int
}

// NewClauseStore returns an empty store. sink may be nil, in which case
// events are discarded.
func NewClauseStore(sink DRUPSink) *ClauseStore {
	if sink == nil {
		sink = nopSink{}
	}
	return &ClauseStore{
		arena: make([]Clause, 1), // sentinel at index 0
		sink:  sink,
	}
}

// GrowTo ensures the binary index can address every literal of n variables.
func (cs *ClauseStore) GrowTo(n int) {
	for cs.nVars < n {
		cs.binary = append(cs.binary, nil, nil)
		cs.nVars++
	}
}

// Clause dereferences a handle. The caller must not retain the pointer
// across a Compact call.
func (cs *ClauseStore) Clause(ref ClauseRef) *Clause {
	return &cs.arena[ref]
}

func (cs *ClauseStore) alloc(lits []Literal, learnt bool) ClauseRef {
	ref := ClauseRef(len(cs.arena))
	litsRef := allocLiteralsRef(len(lits))
	*litsRef = append(*litsRef, lits...)
	c := Clause{
		literalsRef: litsRef,
		literals:    *litsRef,
		id:          cs.nextID,
		prevPos:     2,
	}
	cs.nextID++
	if learnt {
		c.flags |= flagLearnt
	}
	cs.arena = append(cs.arena, c)
	cs.nAlive++
	return ref
}

func normalize(lits []Literal, assigned func(Literal) LBool) (out []Literal, tautology bool) {
	seen := map[Literal]bool{}
	out = lits[:0]
	for _, l := range lits {
		if seen[l] {
			continue
		}
		if seen[l.Opposite()] {
			return nil, true
		}
		if assigned != nil {
			switch assigned(l) {
			case True:
				return nil, true
			case False:
				continue
			}
		}
		seen[l] = true
		out = append(out, l)
	}
	return out, false
}

// AddInputClause normalises and inserts an original problem clause: it
// removes duplicate literals, rejects (as a no-op) clauses containing a
// literal and its negation, and drops literals already falsified at level
// 0. It never calls the DRUP sink: only derived clauses are proof-relevant.
func (cs *ClauseStore) AddInputClause(trail *Trail, lits []Literal) (ClauseRef, AddResult) {
	norm, taut := normalize(lits, trail.Value)
	if taut {
		return NilClause, Tautology
	}
	switch len(norm) {
	case 0:
		return NilClause, Conflicting
	case 1:
		if !trail.AssignFact(norm[0]) {
			return NilClause, Conflicting
		}
		return NilClause, Added
	case 2:
		ref := cs.alloc(norm, false)
		cs.addBinary(ref)
		return ref, Added
	default:
		ref := cs.alloc(norm, false)
		return ref, Added
	}
}

// LearnClause adds a clause derived by conflict analysis. lits must already
// be a normalised, non-tautological, non-empty set of distinct literals with
// lits[0] the asserting (1-UIP) literal. The clause is reported to the DRUP
// sink. A unit learned clause is asserted directly on the trail at level 0
// and no clause object is created, matching how original unit clauses are
// handled.
func (cs *ClauseStore) LearnClause(trail *Trail, lits []Literal, lbd int) (ClauseRef, AddResult) {
	cs.sink.Added(lits)
	if len(lits) == 1 {
		if !trail.AssignFact(lits[0]) {
			return NilClause, Conflicting
		}
		return NilClause, Added
	}
	ref := cs.alloc(lits, true)
	cs.arena[ref].lbd = uint32(lbd)
	cs.arena[ref].usage = 2
	if len(lits) == 2 {
		cs.addBinary(ref)
	}
	return ref, Added
}

// CreateDerivedClause adds a non-learnt clause produced by resolution (bounded
// variable elimination) or by strengthening. It is reported to the sink.
func (cs *ClauseStore) CreateDerivedClause(lits []Literal, lbd int) ClauseRef {
	cs.sink.Added(lits)
	ref := cs.alloc(lits, false)
	cs.arena[ref].lbd = uint32(lbd)
	if len(lits) == 2 {
		cs.addBinary(ref)
	}
	return ref
}

func (cs *ClauseStore) addBinary(ref ClauseRef) {
	lits := cs.arena[ref].literals
	l0, l1 := lits[0], lits[1]
	cs.binary[l0.Opposite()] = append(cs.binary[l0.Opposite()], binEntry{l1, ref})
	cs.binary[l1.Opposite()] = append(cs.binary[l1.Opposite()], binEntry{l0, ref})
}

// Binary returns the (lazily-compacted) list of binary clauses containing
// ¬p, as described in §3: for each entry (q, ref), the clause is {¬p, q}.
func (cs *ClauseStore) Binary(p Literal) []binEntry {
	return cs.binary[p]
}

// MarkDeleted flips the deleted flag. Watch/binary-index lists are expected
// to compact lazily by skipping deleted clauses when encountered; Compact
// performs the eager reclaim. Deleting a clause that any trail literal still
// uses as its reason is a caller error (§3 ownership rule) and is not
// checked here for performance, matching the teacher's unchecked Remove.
func (cs *ClauseStore) MarkDeleted(ref ClauseRef) {
	c := &cs.arena[ref]
	if c.IsDeleted() {
		return
	}
	cs.sink.Removed(c.literals)
	c.setDeleted()
	cs.nAlive--
}

// PromoteToPersistent clears the learnt flag so ReduceDB will never target
// this clause again.
func (cs *ClauseStore) PromoteToPersistent(ref ClauseRef) {
	cs.arena[ref].flags &^= flagLearnt
	cs.arena[ref].setPersistent()
}

// StrengthenClause replaces a clause's literal set with a strict subset
// (self-subsuming resolution or unit-propagation-based simplification),
// emitting `removed(old)` followed by `added(new)` so the proof stays
// monotone. It reports conflict=true if strengthening produced the empty
// clause (global UNSAT) or a one-literal clause whose literal is already
// false on the trail; a one-literal result is otherwise asserted as a
// level-0 fact.
func (cs *ClauseStore) StrengthenClause(trail *Trail, ref ClauseRef, remove Literal) (conflict bool) {
	c := &cs.arena[ref]
	old := append([]Literal(nil), c.literals...)
	j := 0
	for _, l := range c.literals {
		if l == remove {
			continue
		}
		c.literals[j] = l
		j++
	}
	c.literals = c.literals[:j]
	*c.literalsRef = c.literals

	cs.sink.Removed(old)
	if len(c.literals) == 0 {
		return true
	}
	cs.sink.Added(c.literals)
	if len(c.literals) == 1 && !trail.AssignFact(c.literals[0]) {
		return true
	}
	return false
}

// NumAlive returns the number of non-deleted clauses in the arena.
func (cs *ClauseStore) NumAlive() int {
	return cs.nAlive
}

// ForEach calls f for every live clause in the arena, in creation order.
func (cs *ClauseStore) ForEach(f func(ref ClauseRef)) {
	for i := 1; i < len(cs.arena); i++ {
		if !cs.arena[i].IsDeleted() {
			f(ClauseRef(i))
		}
	}
}

// Compact rewrites the arena to drop every deleted clause and returns the
// old->new mapping (NilClause for anything removed) so that every other
// structure holding a ClauseRef (trail reasons, watch lists, the binary
// index, simplifier occurrence lists) can remap or drop its own handles.
// Deleted clauses' backing storage is returned to the literal pool.
func (cs *ClauseStore) Compact() []ClauseRef {
	mapping := make([]ClauseRef, len(cs.arena))
	fresh := make([]Clause, 1, cs.nAlive+1)
	for i := 1; i < len(cs.arena); i++ {
		c := &cs.arena[i]
		if c.IsDeleted() {
			freeLiteralsRef(c.literalsRef)
			continue
		}
		mapping[i] = ClauseRef(len(fresh))
		fresh = append(fresh, *c)
	}
	cs.arena = fresh

	// Rebuild the binary index from the compacted arena: easier and just
	// as cheap as rewriting it in place, since Compact is already a full
	// linear pass over every clause.
	for i := range cs.binary {
		cs.binary[i] = cs.binary[i][:0]
	}
	for i := 1; i < len(cs.arena); i++ {
		c := &cs.arena[i]
		if len(c.literals) == 2 {
			cs.addBinary(ClauseRef(i))
		}
	}
	return mapping
}
