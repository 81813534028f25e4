package sat

// Eliminator performs bounded variable elimination (Candy's
// VariableElimination.h): a variable v can be removed from the formula
// entirely by resolving every clause containing v against every clause
// containing ¬v and replacing both sets with the (non-tautological)
// resolvents. This is only applied when it cannot blow up the clause
// database: elimination is rejected outright if the number of resolvents
// would exceed the number of clauses it replaces. Frozen variables
// (assumption candidates, and anything the caller has pinned) are never
// eliminated, since doing so would make them impossible to assume later.
type Eliminator struct {
	frozen     []bool
	eliminated []bool
	order      []Variable
	archive    map[Variable][][]Literal
}

// NewEliminator returns an empty Eliminator.
func NewEliminator() *Eliminator {
	return &Eliminator{archive: map[Variable][][]Literal{}}
}

func (el *Eliminator) GrowTo(n int) {
	for len(el.frozen) < n {
		el.frozen = append(el.frozen, false)
		el.eliminated = append(el.eliminated, false)
	}
}

// SetFrozen pins v so it is never eliminated.
func (el *Eliminator) SetFrozen(v Variable, frozen bool) {
	el.frozen[v] = frozen
}

// IsEliminated reports whether v has been removed from the formula.
func (el *Eliminator) IsEliminated(v Variable) bool {
	return el.eliminated[v]
}

// TryEliminate attempts to eliminate v, returning false only if doing so
// produced an empty resolvent or a unit resolvent whose literal is already
// false at level 0 (the formula is unsatisfiable). A rejection on cost grounds
// is not an error: v simply remains in the formula. clauseLim rejects the
// elimination if any individual resolvent would exceed that many literals;
// 0 means no per-resolvent limit.
func (el *Eliminator) TryEliminate(store *ClauseStore, trail *Trail, brancher Brancher, prop Propagator, v Variable, clauseLim int) bool {
	if el.frozen[v] || el.eliminated[v] || trail.VarValue(v) != Unknown {
		return true
	}

	pos := occurrencesOf(store, PositiveLiteral(v))
	neg := occurrencesOf(store, NegativeLiteral(v))
	if len(pos) == 0 || len(neg) == 0 {
		// Pure literal: no resolution needed, v can simply be fixed.
		el.eliminate(store, pos, neg, v)
		brancher.SetDecision(v, false)
		return true
	}

	var resolvents [][]Literal
	for _, p := range pos {
		for _, n := range neg {
			merged, tautology := resolve(store.Clause(p).Literals(), store.Clause(n).Literals(), v)
			if tautology {
				continue
			}
			resolvents = append(resolvents, merged)
			if len(resolvents) > len(pos)+len(neg) {
				return true // too costly, leave v in place
			}
			if clauseLim > 0 && len(merged) > clauseLim {
				return true // resolvent too large, leave v in place
			}
		}
	}

	el.eliminate(store, pos, neg, v)
	brancher.SetDecision(v, false)

	for _, lits := range resolvents {
		switch len(lits) {
		case 0:
			return false
		case 1:
			if !trail.AssignFact(lits[0]) {
				return false
			}
		default:
			ref := store.CreateDerivedClause(lits, 0)
			if len(lits) > 2 {
				prop.AttachClause(store, ref)
			}
		}
	}
	return true
}

func (el *Eliminator) eliminate(store *ClauseStore, pos, neg []ClauseRef, v Variable) {
	var archived [][]Literal
	for _, ref := range pos {
		archived = append(archived, append([]Literal(nil), store.Clause(ref).Literals()...))
		store.MarkDeleted(ref)
	}
	for _, ref := range neg {
		archived = append(archived, append([]Literal(nil), store.Clause(ref).Literals()...))
		store.MarkDeleted(ref)
	}
	el.archive[v] = archived
	el.eliminated[v] = true
	el.order = append(el.order, v)
}

func occurrencesOf(store *ClauseStore, l Literal) []ClauseRef {
	var out []ClauseRef
	store.ForEach(func(ref ClauseRef) {
		if store.Clause(ref).Contains(l) {
			out = append(out, ref)
		}
	})
	return out
}

// resolve computes the resolvent of two clauses upon variable v, returning
// tautology=true if the result contains a literal and its negation (and so
// is trivially satisfied and can be discarded).
func resolve(a, b []Literal, v Variable) (out []Literal, tautology bool) {
	seen := map[Literal]bool{}
	add := func(l Literal) bool {
		if l.VarID() == v {
			return true
		}
		if seen[l.Opposite()] {
			return false
		}
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
		return true
	}
	for _, l := range a {
		if !add(l) {
			return nil, true
		}
	}
	for _, l := range b {
		if !add(l) {
			return nil, true
		}
	}
	return out, false
}

// ExtendModel assigns every eliminated variable a value consistent with the
// clauses it used to appear in, walking the elimination stack in reverse
// order so that a variable eliminated early (whose archived clauses may
// mention variables eliminated later) is always fixed after those later
// variables already have a value. value reports the current truth of a
// literal under every assignment fixed so far (the trail plus whichever
// eliminated variables have already been extended in this call).
func (el *Eliminator) ExtendModel(value func(l Literal) LBool, assign func(v Variable, val bool)) {
	for i := len(el.order) - 1; i >= 0; i-- {
		v := el.order[i]
		positive := true
		for _, clause := range el.archive[v] {
			if clauseSatisfied(clause, v, value) {
				continue
			}
			positive = clauseWantsPositive(clause, v)
			break
		}
		assign(v, positive)
	}
}

func clauseSatisfied(clause []Literal, v Variable, value func(Literal) LBool) bool {
	for _, l := range clause {
		if l.VarID() != v && value(l) == True {
			return true
		}
	}
	return false
}

func clauseWantsPositive(clause []Literal, v Variable) bool {
	for _, l := range clause {
		if l.VarID() == v {
			return l.IsPositive()
		}
	}
	return true
}
