package sat

// Analyzer performs first-UIP conflict analysis (Candy's Learning1UIP.h):
// walking the implication graph backward from a conflicting clause,
// resolving out every literal assigned at the current decision level except
// the last one reached (the first Unique Implication Point), then
// minimizing the resulting clause by dropping literals already implied by
// others in it. It is reusable across conflicts; all of its buffers are
// scratch space reset on each call to avoid per-conflict allocation.
type Analyzer struct {
	seen       ResetSet
	minSeen    ResetSet
	levelsSeen ResetSet

	outLearnt []Literal
	toClear   []Variable
	stack     []Literal
}

// NewAnalyzer returns an empty Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

func (a *Analyzer) GrowTo(nVars int) {
	a.seen.GrowTo(nVars)
	a.minSeen.GrowTo(nVars)
	a.levelsSeen.GrowTo(nVars + 1)
}

// Result is the outcome of analyzing one conflict.
type Result struct {
	Learnt        []Literal // Learnt[0] is the asserting (1-UIP) literal
	BacktrackTo   int       // decision level to backtrack to before asserting Learnt[0]
	LBD           int
	Involved      []Variable // every non-level-0 variable met in the clauses resolved, for the brancher
}

// Analyze walks back from a conflicting clause to a learned, asserting
// clause. It only reads the trail; in the clause store it bumps the usage
// counter and recomputes the LBD of every learnt clause it resolves with
// (the conflict clause included). The caller is responsible for
// backtracking and installing the learned clause.
func (a *Analyzer) Analyze(store *ClauseStore, trail *Trail, conflict ClauseRef) Result {
	a.seen.Clear()
	a.outLearnt = a.outLearnt[:0]
	a.toClear = a.toClear[:0]
	a.outLearnt = append(a.outLearnt, 0) // placeholder for the UIP literal

	pathCount := 0
	idx := trail.Size() - 1
	p := Literal(-1)
	cur := conflict
	curLits := store.Clause(cur).Literals()

	var involved []Variable

	for {
		if c := store.Clause(cur); c.IsLearnt() {
			c.BumpUsage()
			c.SetLBD(uint32(trail.ComputeLBD(c.Literals(), &a.levelsSeen)))
		}
		for _, q := range curLits {
			if q == p {
				continue
			}
			v := q.VarID()
			if a.seen.Contains(v) || trail.Level(v) == 0 {
				continue
			}
			a.seen.Add(v)
			a.toClear = append(a.toClear, v)
			involved = append(involved, v)
			if trail.Level(v) >= trail.DecisionLevel() {
				pathCount++
			} else {
				a.outLearnt = append(a.outLearnt, q)
			}
		}

		for !a.seen.Contains(trail.At(idx).VarID()) {
			idx--
		}
		p = trail.At(idx)
		pv := p.VarID()
		a.seen.Clear()
		for _, v := range a.toClear {
			if v != pv {
				a.seen.Add(v)
			}
		}
		pathCount--
		if pathCount <= 0 {
			break
		}
		reason := trail.Reason(pv)
		cur, curLits = reasonLiterals(store, p, reason)
		idx--
	}
	a.outLearnt[0] = p.Opposite()

	a.minimize(store, trail)

	lbd := trail.ComputeLBD(a.outLearnt, &a.levelsSeen)
	backLevel := a.reorderForBacktrack(trail)

	return Result{
		Learnt:      append([]Literal(nil), a.outLearnt...),
		BacktrackTo: backLevel,
		LBD:         lbd,
		Involved:    involved,
	}
}

// reasonLiterals returns the literals to resolve upon for a trail literal's
// reason, excluding the literal itself (which is implicitly p). For a
// binary reason the remaining literal is carried directly in Reason.Other
// rather than dereferencing the arena.
func reasonLiterals(store *ClauseStore, p Literal, r Reason) (ClauseRef, []Literal) {
	switch r.Kind {
	case ReasonBinary:
		return r.Clause, []Literal{p, r.Other}
	case ReasonLong:
		return r.Clause, store.Clause(r.Clause).Literals()
	default:
		return NilClause, nil
	}
}

// minimize drops every literal in outLearnt[1:] whose falsity is already
// implied by the reasons of the other literals in the clause (self-subsuming
// resolution), using a depth-first search over the implication graph guarded
// by an abstraction of the decision levels involved in the clause so the
// search can bail out early when it reaches a level the clause cannot
// possibly depend on (Learning1UIP.h's litRedundant/abstractLevel).
func (a *Analyzer) minimize(store *ClauseStore, trail *Trail) {
	levelMask := uint64(0)
	for _, l := range a.outLearnt {
		levelMask |= abstractLevel(trail.Level(l.VarID()))
	}

	j := 1
	for i := 1; i < len(a.outLearnt); i++ {
		l := a.outLearnt[i]
		reason := trail.Reason(l.VarID())
		if reason.IsDecision() || reason.Kind == ReasonUnit || !a.litRedundant(store, trail, l, levelMask) {
			a.outLearnt[j] = l
			j++
		}
	}
	a.outLearnt = a.outLearnt[:j]
}

func abstractLevel(level int) uint64 {
	return 1 << (uint(level) & 63)
}

// litRedundant reports whether l can be removed from the learned clause
// because every literal its reason depends on is itself already in the
// clause (seen) or provably redundant, recursively.
func (a *Analyzer) litRedundant(store *ClauseStore, trail *Trail, l Literal, levelMask uint64) bool {
	a.stack = a.stack[:0]
	a.stack = append(a.stack, l)
	top := len(a.toClear)

	for len(a.stack) > 0 {
		cur := a.stack[len(a.stack)-1]
		a.stack = a.stack[:len(a.stack)-1]

		reason := trail.Reason(cur.VarID())
		_, lits := reasonLiterals(store, cur, reason)
		for _, q := range lits {
			if q == cur {
				continue
			}
			v := q.VarID()
			if a.seen.Contains(v) || trail.Level(v) == 0 {
				continue
			}
			qReason := trail.Reason(v)
			if qReason.IsDecision() || qReason.Kind == ReasonUnit ||
				levelMask&abstractLevel(trail.Level(v)) == 0 {
				a.toClear = a.toClear[:top]
				a.seen.Clear()
				for _, u := range a.toClear {
					a.seen.Add(u)
				}
				return false
			}
			a.seen.Add(v)
			a.toClear = append(a.toClear, v)
			a.stack = append(a.stack, q)
		}
	}
	return true
}

// reorderForBacktrack swaps the second-highest-level literal into position
// 1 (required so the clause can be 2-watched immediately after assertion)
// and returns the level to backtrack to.
func (a *Analyzer) reorderForBacktrack(trail *Trail) int {
	if len(a.outLearnt) == 1 {
		return 0
	}
	maxI := 1
	maxLevel := trail.Level(a.outLearnt[1].VarID())
	for i := 2; i < len(a.outLearnt); i++ {
		lvl := trail.Level(a.outLearnt[i].VarID())
		if lvl > maxLevel {
			maxLevel = lvl
			maxI = i
		}
	}
	a.outLearnt[1], a.outLearnt[maxI] = a.outLearnt[maxI], a.outLearnt[1]
	return maxLevel
}

// AnalyzeFinal computes the subset of assumptions responsible for a
// conflict discovered while propagating the assumptions themselves (i.e.
// before any decision was made), for Solve's UnsatAssumptions result.
func (a *Analyzer) AnalyzeFinal(store *ClauseStore, trail *Trail, p Literal) []Literal {
	a.seen.Clear()
	out := []Literal{p.Opposite()}
	a.seen.Add(p.VarID())

	for i := trail.Size() - 1; i >= 0; i-- {
		l := trail.At(i)
		v := l.VarID()
		if !a.seen.Contains(v) {
			continue
		}
		reason := trail.Reason(v)
		if reason.IsDecision() {
			if l != p {
				out = append(out, l)
			}
			continue
		}
		if reason.Kind == ReasonUnit {
			continue
		}
		_, lits := reasonLiterals(store, l, reason)
		for _, q := range lits {
			if q != l && trail.Level(q.VarID()) > 0 {
				a.seen.Add(q.VarID())
			}
		}
	}
	return out
}
