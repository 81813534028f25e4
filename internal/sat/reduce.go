package sat

import "sort"

// ReduceDB implements Candy's two-tier learned-clause database reduction
// (ReduceDB.h). Every learned clause carries a usage counter (§4.6),
// initialized to 2 and bumped whenever the clause is resolved upon during
// conflict analysis. Clauses are split by LBD quality first:
//
//   - persistentLBD and below: promoted outright to persistent and never
//     considered for reclaim again, on the premise that a very low LBD is
//     itself strong evidence of long-term usefulness.
//   - above persistentLBD but below volatileLBD: usage counter decremented
//     on every pass, reclaimed once it reaches zero.
//   - volatileLBD and above: also decremented on every pass, but reclaimed
//     as soon as it is one or below.
//
// The threshold of learned clauses that triggers a reduction pass grows by
// incReduceDB each time it fires, so reductions become progressively rarer
// as the run matures and the clause database stabilizes.
type ReduceDB struct {
	persistentLBD int
	volatileLBD   int

	threshold   uint64
	incReduceDB uint64
	curPass     uint64
}

// NewReduceDB returns a ReduceDB with Candy's defaults.
func NewReduceDB() *ReduceDB {
	return &ReduceDB{
		persistentLBD: 2,
		volatileLBD:   6,
		threshold:     4000,
		incReduceDB:   300,
	}
}

// ShouldReduce reports whether the learned clause count warrants a pass.
func (rd *ReduceDB) ShouldReduce(nLearnt int) bool {
	return uint64(nLearnt) >= rd.threshold
}

// locked reports whether ref is currently any trail literal's reason, and
// so may not be deleted no matter its usage counter.
func locked(store *ClauseStore, trail *Trail, ref ClauseRef) bool {
	lits := store.Clause(ref).Literals()
	v := lits[0].VarID()
	return trail.VarValue(v) != Unknown &&
		trail.Reason(v).Clause == ref &&
		!trail.Reason(v).IsDecision()
}

// Reduce ages every reclaimable learned clause (on every pass, for both
// tiers) and deletes those that fall at or under their tier's threshold,
// unless they are currently locked as a trail reason. Clauses at or below
// persistentLBD are promoted out of the reclaimable pool entirely instead of
// being aged; clauses below volatileLBD are deleted once their usage
// counter reaches zero, while clauses at or above it are deleted as soon as
// usage drops to one or below (ReduceDB.h's reduce()).
func (rd *ReduceDB) Reduce(store *ClauseStore, trail *Trail) {
	rd.curPass++

	type candidate struct {
		ref ClauseRef
		lbd int
	}
	var candidates []candidate

	store.ForEach(func(ref ClauseRef) {
		c := store.Clause(ref)
		if !c.IsLearnt() || c.IsPersistent() {
			return
		}
		lbd := int(c.LBD())
		if lbd <= rd.persistentLBD {
			store.PromoteToPersistent(ref)
			return
		}
		if locked(store, trail, ref) {
			return
		}
		usage := c.DecUsage()
		if lbd < rd.volatileLBD {
			if usage == 0 {
				candidates = append(candidates, candidate{ref, lbd})
			}
		} else if usage <= 1 {
			candidates = append(candidates, candidate{ref, lbd})
		}
	})

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].lbd > candidates[j].lbd
	})
	for _, c := range candidates {
		store.MarkDeleted(c.ref)
	}

	rd.threshold += rd.incReduceDB
}
