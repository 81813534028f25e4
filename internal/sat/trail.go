package sat

// varData holds the per-variable bookkeeping a Trail needs once a variable
// has been assigned: why it is assigned, and at which decision level.
type varData struct {
	reason Reason
	level  int32
}

// Trail is the single source of truth for the current partial assignment.
// It stores assigned literals in the order they became true, grouped by
// decision level (trailLim holds the starting index of every level beyond
// 0), and a qhead cursor separating literals already handed to the
// propagator from those still awaiting it (§4.3): propagation never needs
// an auxiliary queue, since "not yet propagated" is just "at or past qhead".
type Trail struct {
	assign   []LBool
	data     []varData
	trail    []Literal
	trailLim []int
	qhead    int
}

// NewTrail returns an empty trail with room for no variables.
func NewTrail() *Trail {
	return &Trail{}
}

// GrowTo ensures the trail can track n variables.
func (t *Trail) GrowTo(n int) {
	for len(t.assign) < n {
		t.assign = append(t.assign, Unknown)
		t.data = append(t.data, varData{})
	}
}

// NumVars returns how many variables the trail currently tracks.
func (t *Trail) NumVars() int {
	return len(t.assign)
}

// Value returns the current truth value of a literal.
func (t *Trail) Value(l Literal) LBool {
	return litValue(t.assign[l.VarID()], l)
}

// litValue lifts a variable's truth value through a literal's polarity:
// True/v and a positive literal (or False/v and a negative one) agree on
// True; anything else flips accordingly, and Unknown stays Unknown.
func litValue(v LBool, l Literal) LBool {
	if l.IsPositive() {
		return v
	}
	return v.Opposite()
}

// VarValue returns the current truth value of a variable, independent of
// polarity.
func (t *Trail) VarValue(v Variable) LBool {
	return t.assign[v]
}

// Level returns the decision level at which v was assigned. The result is
// meaningless if v is unassigned.
func (t *Trail) Level(v Variable) int {
	return int(t.data[v].level)
}

// Reason returns why v is assigned. The result is meaningless if v is
// unassigned.
func (t *Trail) Reason(v Variable) Reason {
	return t.data[v].reason
}

// DecisionLevel returns the number of decisions currently in force.
func (t *Trail) DecisionLevel() int {
	return len(t.trailLim)
}

// Size returns the number of assigned literals.
func (t *Trail) Size() int {
	return len(t.trail)
}

// LevelStart returns the trail index at which decision level d began. Level
// 0 always starts at 0.
func (t *Trail) LevelStart(d int) int {
	if d == 0 {
		return 0
	}
	return t.trailLim[d-1]
}

// At returns the literal assigned at trail position i.
func (t *Trail) At(i int) Literal {
	return t.trail[i]
}

func (t *Trail) push(l Literal, r Reason, level int) {
	v := l.VarID()
	t.assign[v] = Lift(l.IsPositive())
	t.data[v] = varData{reason: r, level: int32(level)}
	t.trail = append(t.trail, l)
}

// AssignFact asserts l as a top-level fact at decision level 0. It reports
// false if l is already falsified, meaning the formula is unsatisfiable; a
// fact already implied (l already true at level 0) is a harmless no-op.
func (t *Trail) AssignFact(l Literal) bool {
	switch t.Value(l) {
	case True:
		return true
	case False:
		return false
	}
	t.push(l, UnitReason, 0)
	return true
}

// Decide opens a new decision level and asserts l as its decision literal.
func (t *Trail) Decide(l Literal) {
	t.trailLim = append(t.trailLim, len(t.trail))
	t.push(l, DecisionReason, len(t.trailLim))
}

// NewDecisionLevel opens a new decision level without asserting anything,
// for an assumption literal that is already true on the trail: it still
// needs to occupy a decision level (so a later backtrack target lines up
// with the assumption list), but pushing it again would duplicate its trail
// entry and clobber the level/reason recorded when it was first assigned.
func (t *Trail) NewDecisionLevel() {
	t.trailLim = append(t.trailLim, len(t.trail))
}

// Propagate asserts l, implied by reason at the current decision level.
func (t *Trail) Propagate(l Literal, reason Reason) {
	t.push(l, reason, t.DecisionLevel())
}

// Next returns the next literal awaiting propagation, advancing qhead, or
// ok=false if the trail has caught up with every assignment.
func (t *Trail) Next() (l Literal, ok bool) {
	if t.qhead >= len(t.trail) {
		return 0, false
	}
	l = t.trail[t.qhead]
	t.qhead++
	return l, true
}

// QHead returns the current propagation cursor.
func (t *Trail) QHead() int {
	return t.qhead
}

// Pending reports how many assigned-but-unpropagated literals remain.
func (t *Trail) Pending() bool {
	return t.qhead < len(t.trail)
}

// BacktrackTo undoes every assignment made at a decision level beyond
// target, calling onUnassign for each one (in reverse trail order, most
// recent first) so the brancher can save its phase and reinsert the
// variable into its pick order.
func (t *Trail) BacktrackTo(target int, onUnassign func(v Variable)) {
	if target >= t.DecisionLevel() {
		return
	}
	start := t.trailLim[target]
	for i := len(t.trail) - 1; i >= start; i-- {
		v := t.trail[i].VarID()
		if onUnassign != nil {
			onUnassign(v)
		}
		t.assign[v] = Unknown
	}
	t.trail = t.trail[:start]
	t.trailLim = t.trailLim[:target]
	if t.qhead > len(t.trail) {
		t.qhead = len(t.trail)
	}
}

// ComputeLBD returns the Literal Block Distance of a set of literals: the
// number of distinct decision levels among them (§4.5). scratch is a
// caller-owned ResetSet used to avoid an allocation per call; it is cleared
// on entry.
func (t *Trail) ComputeLBD(lits []Literal, scratch *ResetSet) int {
	scratch.Clear()
	lbd := 0
	for _, l := range lits {
		level := t.Level(l.VarID())
		if level == 0 {
			continue
		}
		if !scratch.Contains(Variable(level)) {
			scratch.Add(Variable(level))
			lbd++
		}
	}
	return lbd
}
