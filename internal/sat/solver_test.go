package sat

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// lit is a small DIMACS-style helper for building test clauses: positive n
// means variable n-1 asserted true, negative n means it asserted false.
func lit(n int) Literal {
	if n < 0 {
		return NegativeLiteral(Variable(-n - 1))
	}
	return PositiveLiteral(Variable(n - 1))
}

func newTestSolver(nVars int, clauses [][]int) *Solver {
	s := NewSolver(DefaultOptions(), nil)
	for i := 0; i < nVars; i++ {
		s.NewVar()
	}
	for _, c := range clauses {
		lits := make([]Literal, len(c))
		for i, n := range c {
			lits[i] = lit(n)
		}
		s.AddClause(lits...)
	}
	s.SeedPolarities()
	return s
}

// TestUnsatUnitConflict covers scenario 1: two opposing unit facts plus a
// clause ruling out their conjunction must be unsatisfiable at level 0,
// without ever making a decision.
func TestUnsatUnitConflict(t *testing.T) {
	s := newTestSolver(2, [][]int{{1}, {2}, {-1, -2}})
	if got := s.Solve(nil); got != Unsatisfiable {
		t.Errorf("Solve() = %v, want Unsatisfiable", got)
	}
}

// TestUnsatXOR covers scenario 2: the four clauses encoding x1 XOR x2 is
// unsatisfiable is a classic small conflict-driven-learning exercise.
func TestUnsatXOR(t *testing.T) {
	s := newTestSolver(2, [][]int{{1, 2}, {-1, 2}, {1, -2}, {-1, -2}})
	if got := s.Solve(nil); got != Unsatisfiable {
		t.Errorf("Solve() = %v, want Unsatisfiable", got)
	}
}

// TestSatWithImpliedVariable covers scenario 3: the formula is satisfiable
// and every model must assign variable 3 to true.
func TestSatWithImpliedVariable(t *testing.T) {
	s := newTestSolver(3, [][]int{{1, 2, 3}, {-1, 2}, {-2, 3}})
	if got := s.Solve(nil); got != Satisfiable {
		t.Fatalf("Solve() = %v, want Satisfiable", got)
	}
	if s.ModelValue(2) != True {
		t.Errorf("model assigns variable 3 = %v, want True", s.ModelValue(2))
	}
}

// TestUnitPropagationAtLevelZero covers scenario 4: {1,2},{-1,2},{1,-2}
// holds in exactly one model, with both variables true. With no unit clause
// there is nothing to propagate at level 0, so Propagate must return
// without a conflict and without deciding; Solve must then find a model
// with variable 2 true.
func TestUnitPropagationAtLevelZero(t *testing.T) {
	s := newTestSolver(2, [][]int{{1, 2}, {-1, 2}, {1, -2}})
	conflict := s.prop.Propagate(s.store, s.trail)
	if conflict != NilClause {
		t.Fatalf("Propagate found a spurious conflict")
	}
	if s.trail.DecisionLevel() != 0 {
		t.Errorf("decision level = %d, want 0 (no decision made)", s.trail.DecisionLevel())
	}

	if got := s.Solve(nil); got != Satisfiable {
		t.Fatalf("Solve() = %v, want Satisfiable", got)
	}
	if got := s.ModelValue(1); got != True {
		t.Errorf("model assigns variable 2 = %v, want True", got)
	}
}

// TestVariableEliminationExtendsModel covers scenario 5: x appears only in
// {x, a}, {x, b}, {¬x, c}; after elimination the resolvents {a, c} and
// {b, c} must remain and a model for a, b, c must extend to a consistent
// value for x.
func TestVariableEliminationExtendsModel(t *testing.T) {
	// Variables: 1=x, 2=a, 3=b, 4=c.
	s := newTestSolver(4, [][]int{{1, 2}, {1, 3}, {-1, 4}})
	x := Variable(0)

	ok := s.eliminator.TryEliminate(s.store, s.trail, s.brancher, s.prop, x, 10)
	if !ok {
		t.Fatalf("TryEliminate reported a conflict")
	}
	if !s.eliminator.IsEliminated(x) {
		t.Fatalf("variable x was not eliminated")
	}

	var resolvents [][]Literal
	s.store.ForEach(func(ref ClauseRef) {
		resolvents = append(resolvents, append([]Literal(nil), s.store.Clause(ref).Literals()...))
	})

	want := [][]Literal{
		{lit(2), lit(4)}, // {a, c}
		{lit(3), lit(4)}, // {b, c}
	}
	less := func(a, b Literal) bool { return a < b }
	opts := cmp.Options{cmp.Transformer("sortLits", func(ls []Literal) []Literal {
		out := append([]Literal(nil), ls...)
		for i := 1; i < len(out); i++ {
			for j := i; j > 0 && less(out[j], out[j-1]); j-- {
				out[j], out[j-1] = out[j-1], out[j]
			}
		}
		return out
	})}
	if !cmp.Equal(resolvents, want, opts) {
		t.Errorf("resolvents after elimination = %v, want %v", resolvents, want)
	}

	// a=true, b=true, c=true satisfies both resolvents and every archived
	// clause {x,a},{x,b},{-x,c} whatever x is; extension must still pick a
	// definite value for x, and with no unsatisfied archived clause it
	// defaults to true.
	s.model = []LBool{Unknown, True, True, True}
	s.eliminator.ExtendModel(
		func(l Literal) LBool {
			if l.IsPositive() {
				return s.model[l.VarID()]
			}
			return s.model[l.VarID()].Opposite()
		},
		func(v Variable, val bool) { s.model[v] = Lift(val) },
	)
	if s.model[x] != True {
		t.Errorf("extended model assigns x = %v, want True", s.model[x])
	}
}

// TestRestartForcedByLBDSpike covers the forcing half of scenario 6: once
// enough conflicts have occurred, a narrow LBD EMA well above the wide one
// must trigger a restart. The trail size is held constant, so the trail
// EMAs never block it here.
func TestRestartForcedByLBDSpike(t *testing.T) {
	r := NewRestart()
	r.minConflicts = 0
	for i := 0; i < 200; i++ {
		r.OnConflict(2, 5) // low, consistent LBD and trail size: no restart due
	}
	if r.ShouldRestart() {
		t.Errorf("ShouldRestart() = true with a stable low-LBD stream, want false")
	}
	for i := 0; i < 50; i++ {
		r.OnConflict(50, 5) // sudden high-LBD conflicts: quality degraded
	}
	if !r.ShouldRestart() {
		t.Errorf("ShouldRestart() = false after a high-LBD spike, want true")
	}
}

// TestSolveAllModels exercises the classic blocking-clause enumeration
// idiom (as the teacher's TestSolveAll does over files) directly against a
// small in-memory formula, checking the exact set of models found.
func TestSolveAllModels(t *testing.T) {
	// (a v b) has exactly 3 models over {a, b}.
	s := newTestSolver(2, [][]int{{1, 2}})

	var got [][]LBool
	for s.Solve(nil) == Satisfiable {
		model := make([]LBool, s.NumVars())
		blocking := make([]Literal, s.NumVars())
		for v := 0; v < s.NumVars(); v++ {
			model[v] = s.ModelValue(Variable(v))
			if model[v] == True {
				blocking[v] = NegativeLiteral(Variable(v))
			} else {
				blocking[v] = PositiveLiteral(Variable(v))
			}
		}
		got = append(got, model)
		s = reopenWithBlockingClause(s, blocking)
	}

	if len(got) != 3 {
		t.Errorf("found %d models, want 3", len(got))
	}
}

// TestAssumptionAlreadyTrueKeepsTrailConsistent covers the case where an
// assumption is already implied true (here, by a level-0 unit fact) before
// Solve ever reaches it: the assumption must still open a decision level so
// the later ones line up, without creating a second trail entry for the
// same variable.
func TestAssumptionAlreadyTrueKeepsTrailConsistent(t *testing.T) {
	s := newTestSolver(2, [][]int{{1}, {1, 2}})
	if got := s.Solve([]Literal{lit(1)}); got != Satisfiable {
		t.Fatalf("Solve() = %v, want Satisfiable", got)
	}
	assertTrailConsistent(t, s)
}

// TestAssumptionImpliedByEarlierAssumption covers the same case one level
// deeper: the second assumption becomes true only as a consequence of
// propagating the first, so it is still unassigned when Solve first
// processes the assumption list and only becomes already-true on a later
// pass through the same decision-level check.
func TestAssumptionImpliedByEarlierAssumption(t *testing.T) {
	s := newTestSolver(2, [][]int{{-1, 2}})
	got := s.Solve([]Literal{lit(1), lit(2)})
	if got != Satisfiable {
		t.Fatalf("Solve() = %v, want Satisfiable", got)
	}
	if s.trail.Value(lit(2)) != True {
		t.Errorf("variable 2 = %v, want True", s.trail.Value(lit(2)))
	}
	assertTrailConsistent(t, s)
}

// TestUnsatCoreFromAssumptions covers assumptions that directly conflict
// with the formula, exercising AnalyzeFinal's core extraction.
func TestUnsatCoreFromAssumptions(t *testing.T) {
	s := newTestSolver(2, [][]int{{-1, -2}})
	got := s.Solve([]Literal{lit(1), lit(2)})
	if got != Unsatisfiable {
		t.Fatalf("Solve() = %v, want Unsatisfiable", got)
	}
	if core := s.UnsatCore(); len(core) == 0 {
		t.Errorf("UnsatCore() returned empty, want a non-empty core")
	}
}

// assertTrailConsistent checks the invariant that every assigned variable
// appears on the trail exactly once and the trail's size matches the number
// of assigned variables, which an assumption re-pushed onto an already
// occupied trail slot would violate.
func assertTrailConsistent(t *testing.T, s *Solver) {
	t.Helper()
	assigned := 0
	for v := 0; v < s.NumVars(); v++ {
		if s.trail.VarValue(Variable(v)) != Unknown {
			assigned++
		}
	}
	if s.trail.Size() != assigned {
		t.Errorf("trail size = %d, want %d (number of assigned variables)", s.trail.Size(), assigned)
	}
	seen := map[Variable]int{}
	for i := 0; i < s.trail.Size(); i++ {
		seen[s.trail.At(i).VarID()]++
	}
	for v, n := range seen {
		if n != 1 {
			t.Errorf("variable %d appears %d times on trail, want 1", v, n)
		}
	}
}

// reopenWithBlockingClause backtracks s to decision level 0, adds a clause
// forbidding the model just found, and returns the same solver.
func reopenWithBlockingClause(s *Solver, blocking []Literal) *Solver {
	s.backtrackTo(0)
	s.AddClause(blocking...)
	return s
}
