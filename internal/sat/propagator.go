package sat

// Propagator drives unit propagation to fixpoint from the trail's current
// qhead. Two implementations are provided (§4.3): Watcher, the standard
// two-watched-literal scheme, and CountingPropagator, a lower-bound counter
// variant that trades watch-list compaction for an eagerly maintained
// per-clause "number of falsified literals" counter. Both share the same
// binary-clause fast path through the store's binary index.
type Propagator interface {
	// AttachClause registers a newly created clause (size > 2) for
	// propagation. Binary and unit clauses never go through this path.
	AttachClause(store *ClauseStore, ref ClauseRef)

	// Propagate runs unit propagation until fixpoint or a conflict,
	// consuming literals from the trail via Next. It returns NilClause on
	// a clean fixpoint, or the conflicting clause otherwise. On conflict
	// the trail's qhead is left pointing just past the trail literal whose
	// propagation found it.
	Propagate(store *ClauseStore, trail *Trail) ClauseRef

	// GrowTo ensures internal literal-indexed structures can address n
	// variables.
	GrowTo(n int)

	// Rewrite updates every stored ClauseRef after a ClauseStore.Compact
	// using the given old->new mapping function (NilClause if removed).
	Rewrite(remap func(old ClauseRef) ClauseRef)
}
