package sat

// Brancher selects the next decision literal and reacts to the three events
// that ought to influence that choice (§4.4): a conflict (which variables
// were involved in producing the learned clause), a backtrack (which
// variables became unassigned again, and to what value, for phase saving),
// and a restart. VSIDS and LRB are the two implementations; both are built
// around a github.com/rhartert/yagh decrease-key heap keyed by a floating
// point activity score, exactly as the teacher's VarOrder does for VSIDS.
type Brancher interface {
	GrowTo(n int)

	// PickBranchLiteral returns the next literal to assign by decision, or
	// ok=false once every decidable variable is already assigned.
	PickBranchLiteral(trail *Trail) (lit Literal, ok bool)

	// OnUnassign must be called once per variable undone by a backtrack,
	// most-recently-assigned first, with the value it held.
	OnUnassign(v Variable, val LBool)

	// OnConflict is called once per conflict with every variable that
	// appeared in the clause being analyzed at the moment it was
	// resolved upon (VSIDS: bump; LRB: mark participated).
	OnConflict(involved []Variable)

	// OnAssigned is called once per variable as it is propagated or
	// decided, needed by LRB to record the conflict count at the time of
	// assignment.
	OnAssigned(v Variable)

	// OnRestart notifies the brancher that search is restarting.
	OnRestart()

	// SetDecision controls whether v may ever be picked as a decision
	// (false for variables eliminated by preprocessing).
	SetDecision(v Variable, decidable bool)

	// SetPolarity overrides the saved phase used the next time v is
	// picked as a decision.
	SetPolarity(v Variable, positive bool)
}

// initialPolarities derives a starting phase and activity/weight for every
// variable from the relative occurrence of its positive and negative
// literals across the clause store (Candy's getLiteralRelativeOccurrences):
// each clause contributes 1/|C| to every one of its literals' scores, rather
// than a flat 1, so that a variable's initial score reflects how much of its
// appearances are in small (more constraining) clauses. A variable that
// occurs more often negated starts out assigned false, on the intuition that
// satisfying the more common polarity first produces fewer conflicts;
// score[v] is the sum of both polarities' contributions, the starting
// activity (VSIDS) or weight (LRB) for v.
func initialPolarities(store *ClauseStore, nVars int) (polarity []bool, score []float64) {
	pos := make([]float64, nVars)
	neg := make([]float64, nVars)
	store.ForEach(func(ref ClauseRef) {
		lits := store.Clause(ref).Literals()
		contribution := 1.0 / float64(len(lits))
		for _, l := range lits {
			if l.IsPositive() {
				pos[l.VarID()] += contribution
			} else {
				neg[l.VarID()] += contribution
			}
		}
	})
	polarity = make([]bool, nVars)
	score = make([]float64, nVars)
	for v := 0; v < nVars; v++ {
		polarity[v] = pos[v] >= neg[v]
		score[v] = pos[v] + neg[v]
	}
	return polarity, score
}
