package sat

// CountingPropagator is the lower-bound counting propagator variant
// described in §4.3: instead of watching two literals per clause and
// rescanning on demand, every clause keeps a live count of its falsified
// literals. A clause with count == size is conflicting; one with
// count == size-1 and not yet satisfied propagates its single remaining
// literal. This trades the watch scheme's sub-linear amortized cost for a
// simpler, fully eager structure that also makes Unassign (needed to keep
// counts correct across backtracking) a direct decrement.
//
// It is offered as an alternative to Watcher for small or dense instances
// where the bookkeeping overhead of swapping watches outweighs the benefit
// of skipping satisfied clauses, and as a simpler reference implementation
// to check the watch scheme's output against.
type CountingPropagator struct {
	occ    [][]ClauseRef // occ[l]: clauses containing literal l
	counts []int32       // counts[ref]: number of falsified literals
	satLit []Literal     // satLit[ref]: a literal currently satisfying the clause, or -1
}

// NewCountingPropagator returns an empty counting propagator.
func NewCountingPropagator() *CountingPropagator {
	return &CountingPropagator{}
}

func (cp *CountingPropagator) GrowTo(n int) {
	for len(cp.occ) < 2*n {
		cp.occ = append(cp.occ, nil)
	}
}

func (cp *CountingPropagator) growCounts(ref ClauseRef) {
	for ClauseRef(len(cp.counts)) <= ref {
		cp.counts = append(cp.counts, 0)
		cp.satLit = append(cp.satLit, -1)
	}
}

func (cp *CountingPropagator) AttachClause(store *ClauseStore, ref ClauseRef) {
	cp.growCounts(ref)
	for _, l := range store.Clause(ref).Literals() {
		cp.occ[l] = append(cp.occ[l], ref)
	}
}

func (cp *CountingPropagator) Rewrite(remap func(old ClauseRef) ClauseRef) {
	for lit := range cp.occ {
		refs := cp.occ[lit]
		j := 0
		for _, ref := range refs {
			if nw := remap(ref); nw != NilClause {
				refs[j] = nw
				j++
			}
		}
		cp.occ[lit] = refs[:j]
	}
	counts := make([]int32, len(cp.counts))
	sat := make([]Literal, len(cp.satLit))
	for old := range cp.counts {
		if nw := remap(ClauseRef(old)); nw != NilClause {
			counts[nw] = cp.counts[old]
			sat[nw] = cp.satLit[old]
		}
	}
	cp.counts = counts
	cp.satLit = sat
}

// Unassign must be called by the search driver, in place of nothing extra
// needed by Watcher, whenever a decision or propagation at v is undone: it
// decrements the falsified-literal count of every clause that contained the
// literal which was true (and therefore whose opposite had been counted
// false) for every clause containing its negation.
func (cp *CountingPropagator) Unassign(trail *Trail, v Variable) {
	var trueLit Literal
	if trail.VarValue(v) == True {
		trueLit = PositiveLiteral(v)
	} else {
		trueLit = NegativeLiteral(v)
	}
	falseLit := trueLit.Opposite()
	for _, ref := range cp.occ[falseLit] {
		cp.counts[ref]--
	}
	for _, ref := range cp.occ[trueLit] {
		if cp.satLit[ref] == trueLit {
			cp.satLit[ref] = -1
		}
	}
}

func (cp *CountingPropagator) Propagate(store *ClauseStore, trail *Trail) ClauseRef {
	for {
		p, ok := trail.Next()
		if !ok {
			return NilClause
		}
		falseLit := p.Opposite()

		for _, be := range store.Binary(p) {
			c := store.Clause(be.ref)
			if c.IsDeleted() {
				continue
			}
			switch trail.Value(be.other) {
			case True:
				continue
			case False:
				return be.ref
			default:
				trail.Propagate(be.other, BinaryReason(be.ref, falseLit))
			}
		}

		for _, ref := range cp.occ[p] {
			cp.satLit[ref] = p
		}

		for _, ref := range cp.occ[falseLit] {
			c := store.Clause(ref)
			if c.IsDeleted() {
				continue
			}
			cp.counts[ref]++
			if cp.satLit[ref] != -1 {
				continue
			}
			lits := c.Literals()
			n := int32(len(lits))
			if cp.counts[ref] < n-1 {
				continue
			}
			if cp.counts[ref] >= n {
				return ref
			}
			// Exactly one literal remains unfalsified: find and propagate it.
			for _, l := range lits {
				if trail.Value(l) != False {
					trail.Propagate(l, LongReason(ref))
					break
				}
			}
		}
	}
}
