package sat

// watcher is an entry in a literal's watch list: a long clause currently
// watching that literal, plus a cached blocker literal. If the blocker is
// already true the clause is known satisfied without touching its body at
// all, which is the single biggest win of the scheme (§4.3).
type watcher struct {
	cref    ClauseRef
	blocker Literal
}

// Watcher is the standard two-watched-literal Propagator: every clause of
// size > 2 nominates two of its literals as watches, and only the watch
// lists of a falsified literal are ever scanned. Binary clauses bypass this
// entirely via the store's binary index.
type Watcher struct {
	lists [][]watcher // indexed by literal
}

// NewWatcher returns an empty watch-list propagator.
func NewWatcher() *Watcher {
	return &Watcher{}
}

func (w *Watcher) GrowTo(n int) {
	for len(w.lists) < 2*n {
		w.lists = append(w.lists, nil)
	}
}

func (w *Watcher) AttachClause(store *ClauseStore, ref ClauseRef) {
	lits := store.Clause(ref).Literals()
	w.lists[lits[0]] = append(w.lists[lits[0]], watcher{ref, lits[1]})
	w.lists[lits[1]] = append(w.lists[lits[1]], watcher{ref, lits[0]})
}

// Rewrite drops watchers whose clause vanished and updates the rest to
// their post-compaction handle.
func (w *Watcher) Rewrite(remap func(old ClauseRef) ClauseRef) {
	for lit := range w.lists {
		ws := w.lists[lit]
		j := 0
		for _, wt := range ws {
			if nw := remap(wt.cref); nw != NilClause {
				wt.cref = nw
				ws[j] = wt
				j++
			}
		}
		w.lists[lit] = ws[:j]
	}
}

// Propagate implements the standard MiniSat-style propagation loop: binary
// clauses through the store's flat index first (cheapest check), then long
// clauses through the watch lists, with early exit on a satisfied blocker
// and prevPos-resumed scanning for a replacement watch.
func (w *Watcher) Propagate(store *ClauseStore, trail *Trail) ClauseRef {
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

		ws := w.lists[falseLit]
		keep := 0
		conflict := NilClause
		for i := 0; i < len(ws); i++ {
			wt := ws[i]
			c := store.Clause(wt.cref)
			if c.IsDeleted() {
				continue
			}
			if trail.Value(wt.blocker) == True {
				ws[keep] = wt
				keep++
				continue
			}

			lits := c.Literals()
			if lits[0] == falseLit {
				lits[0], lits[1] = lits[1], lits[0]
			}
			if lits[1] != falseLit {
				// Stale watcher entry left by an earlier swap; drop it.
				continue
			}
			other := lits[0]
			if trail.Value(other) == True {
				ws[keep] = watcher{wt.cref, other}
				keep++
				continue
			}

			found := false
			n := len(lits)
			for off := 0; off < n-2; off++ {
				k := c.prevPos
				if k >= n {
					k = 2
				}
				c.prevPos = k + 1
				if trail.Value(lits[k]) != False {
					lits[1], lits[k] = lits[k], lits[1]
					w.lists[lits[1]] = append(w.lists[lits[1]], watcher{wt.cref, other})
					found = true
					break
				}
			}
			if found {
				continue
			}

			ws[keep] = watcher{wt.cref, other}
			keep++
			if trail.Value(other) == False {
				conflict = wt.cref
				for j := i + 1; j < len(ws); j++ {
					ws[keep] = ws[j]
					keep++
				}
				break
			}
			trail.Propagate(other, LongReason(wt.cref))
		}
		w.lists[falseLit] = ws[:keep]
		if conflict != NilClause {
			return conflict
		}
	}
}
