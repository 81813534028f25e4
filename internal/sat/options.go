package sat

// BrancherKind selects which Brancher implementation a Solver constructs.
type BrancherKind int

const (
	BrancherVSIDS BrancherKind = iota
	BrancherLRB
)

// PropagatorKind selects which Propagator implementation a Solver uses.
type PropagatorKind int

const (
	PropagatorWatched PropagatorKind = iota
	PropagatorCounting
)

// Options collects every tunable of the solver. DefaultOptions returns
// Candy-derived defaults; callers typically start there and override the
// handful of knobs they care about.
type Options struct {
	Brancher   BrancherKind
	Propagator PropagatorKind

	VSIDSDecay float64

	// Simplify controls whether inprocessing (subsumption/SSR and bounded
	// variable elimination) runs between restarts.
	Simplify bool

	// ClauseLim rejects an elimination if any single resolvent would exceed
	// this many literals. 0 means no per-resolvent limit.
	ClauseLim               int
	SimplifyEveryNConflicts uint64

	// ReduceDB tuning; see ReduceDB for the semantics of each tier.
	PersistentLBD int
	VolatileLBD   int

	// There is no restart-schedule option: Candy-style EMA restarts (see
	// Restart) are always used, never a Luby sequence, as recorded in
	// DESIGN.md's "Open questions resolved".
}

// DefaultOptions returns the solver's out-of-the-box configuration.
func DefaultOptions() Options {
	return Options{
		Brancher:                BrancherVSIDS,
		Propagator:              PropagatorWatched,
		VSIDSDecay:              0.95,
		Simplify:                true,
		ClauseLim:               20,
		SimplifyEveryNConflicts: 20000,
		PersistentLBD:           2,
		VolatileLBD:             6,
	}
}
