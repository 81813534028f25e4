package sat

import (
	"sort"
	"sync/atomic"
)

// Status is the outcome of a Solve call.
type Status int

const (
	// StatusUnknown means Solve ran out of budget or was interrupted before
	// reaching a conclusion.
	StatusUnknown Status = iota
	Satisfiable
	Unsatisfiable
)

// Solver is a CDCL SAT solver: two-watched-literal (or, if configured,
// lower-bound counting) unit propagation, first-UIP conflict analysis with
// self-subsuming minimization, VSIDS or LRB branching, EMA-gated restarts,
// LBD/usage-aged clause database reduction, and optional subsumption/SSR
// and bounded variable elimination inprocessing between restarts.
type Solver struct {
	opts Options

	store      *ClauseStore
	trail      *Trail
	prop       Propagator
	brancher   Brancher
	analyzer   *Analyzer
	restart    *Restart
	reduceDB   *ReduceDB
	simplifier *Simplifier
	eliminator *Eliminator

	nVars int
	model []LBool

	conflicts     uint64
	propagations  uint64
	decisions     uint64
	restarts      uint64

	conflictBudget    int64 // -1: unlimited
	propagationBudget int64

	interrupted int32 // atomic

	assumptions    []Literal
	unsatCore      []Literal
	lastSimplified uint64

	unsat bool // set once AddClause has reported a conflicting clause
}

// NewSolver returns an empty Solver with no variables. sink may be nil.
func NewSolver(opts Options, sink DRUPSink) *Solver {
	var prop Propagator
	if opts.Propagator == PropagatorCounting {
		prop = NewCountingPropagator()
	} else {
		prop = NewWatcher()
	}

	var brancher Brancher
	if opts.Brancher == BrancherLRB {
		brancher = NewLRB()
	} else {
		brancher = NewVSIDS(opts.VSIDSDecay)
	}

	s := &Solver{
		opts:              opts,
		store:             NewClauseStore(sink),
		trail:             NewTrail(),
		prop:              prop,
		brancher:          brancher,
		analyzer:          NewAnalyzer(),
		restart:           NewRestart(),
		reduceDB:          NewReduceDB(),
		simplifier:        NewSimplifier(),
		eliminator:        NewEliminator(),
		conflictBudget:    -1,
		propagationBudget: -1,
	}
	s.reduceDB.persistentLBD = opts.PersistentLBD
	s.reduceDB.volatileLBD = opts.VolatileLBD
	return s
}

// NewVar allocates a fresh variable and returns its id.
func (s *Solver) NewVar() Variable {
	v := Variable(s.nVars)
	s.nVars++
	s.trail.GrowTo(s.nVars)
	s.store.GrowTo(s.nVars)
	s.prop.GrowTo(s.nVars)
	s.brancher.GrowTo(s.nVars)
	s.analyzer.GrowTo(s.nVars)
	s.eliminator.GrowTo(s.nVars)
	s.model = append(s.model, Unknown)
	return v
}

// NumVars returns how many variables have been declared.
func (s *Solver) NumVars() int {
	return s.nVars
}

// SeedPolarities initializes every variable's saved phase from the relative
// occurrence of its literals across whatever clauses have been added so
// far. Intended to be called once, after loading the input formula and
// before the first Solve.
func (s *Solver) SeedPolarities() {
	switch b := s.brancher.(type) {
	case *VSIDS:
		b.SeedActivity(s.store)
	case *LRB:
		b.SeedActivity(s.store)
	}
}

// AddClause adds an input clause. It returns false if the clause makes the
// formula trivially unsatisfiable (an empty clause, or a conflict with an
// existing level-0 fact); the Solver remains usable for inspection but any
// subsequent Solve will return Unsatisfiable.
func (s *Solver) AddClause(lits ...Literal) bool {
	ref, res := s.store.AddInputClause(s.trail, lits)
	if res == Conflicting {
		s.unsat = true
		return false
	}
	if res == Added && ref != NilClause && s.store.Clause(ref).Size() > 2 {
		s.prop.AttachClause(s.store, ref)
	}
	return true
}

// SetFrozen pins v so that inprocessing never eliminates it. Any variable
// that might later be used in an assumption must be frozen first.
func (s *Solver) SetFrozen(v Variable, frozen bool) {
	s.eliminator.SetFrozen(v, frozen)
}

// SetDecision controls whether v may be chosen as a decision literal.
func (s *Solver) SetDecision(v Variable, decidable bool) {
	s.brancher.SetDecision(v, decidable)
}

// SetConflictBudget limits the number of conflicts a single Solve call may
// spend before giving up and returning StatusUnknown. A negative value means
// unlimited.
func (s *Solver) SetConflictBudget(n int64) {
	s.conflictBudget = n
}

// SetPropagationBudget is the propagation-count analogue of
// SetConflictBudget.
func (s *Solver) SetPropagationBudget(n int64) {
	s.propagationBudget = n
}

// Interrupt asks a running Solve to return StatusUnknown as soon as it next
// checks for one, from any goroutine. The flag is cooperative: Solve is
// single-threaded and polls it once per search-loop iteration.
func (s *Solver) Interrupt() {
	atomic.StoreInt32(&s.interrupted, 1)
}

func (s *Solver) clearInterrupt() {
	atomic.StoreInt32(&s.interrupted, 0)
}

func (s *Solver) isInterrupted() bool {
	return atomic.LoadInt32(&s.interrupted) != 0
}

// ModelValue returns the value assigned to v by the most recent Solve call
// that returned Satisfiable. Its result is undefined otherwise.
func (s *Solver) ModelValue(v Variable) LBool {
	return s.model[v]
}

// UnsatCore returns the subset of the most recent Solve's assumptions that
// was sufficient to derive a conflict, valid only after a Solve call that
// returned Unsatisfiable with a non-empty assumption list.
func (s *Solver) UnsatCore() []Literal {
	return s.unsatCore
}

func (s *Solver) backtrackTo(level int) {
	s.trail.BacktrackTo(level, func(v Variable) {
		s.brancher.OnUnassign(v, s.trail.VarValue(v))
		if cp, ok := s.prop.(*CountingPropagator); ok {
			cp.Unassign(s.trail, v)
		}
	})
}

func (s *Solver) assign(l Literal, reason Reason) {
	if reason.IsDecision() {
		s.trail.Decide(l)
	} else {
		s.trail.Propagate(l, reason)
	}
	s.brancher.OnAssigned(l.VarID())
}

// Solve searches for a satisfying assignment consistent with assumptions,
// which are tried as forced decisions (in order, at the bottom of the
// decision stack) before the brancher picks anything freely. Every
// assumption variable should be frozen first if inprocessing is enabled.
func (s *Solver) Solve(assumptions []Literal) Status {
	s.clearInterrupt()
	s.assumptions = assumptions
	s.unsatCore = nil
	if s.unsat {
		return Unsatisfiable
	}

	for {
		qheadBefore := s.trail.QHead()
		sizeBefore := s.trail.Size()
		conflict := s.prop.Propagate(s.store, s.trail)
		s.propagations += uint64(s.trail.QHead() - qheadBefore)
		for i := sizeBefore; i < s.trail.Size(); i++ {
			s.brancher.OnAssigned(s.trail.At(i).VarID())
		}
		if conflict != NilClause {
			if s.trail.DecisionLevel() == 0 {
				return Unsatisfiable
			}
			if !s.resolveConflict(conflict) {
				return Unsatisfiable
			}
			continue
		}

		if s.propagationBudget >= 0 && int64(s.propagations) >= s.propagationBudget {
			return StatusUnknown
		}
		if s.conflictBudget >= 0 && int64(s.conflicts) >= s.conflictBudget {
			return StatusUnknown
		}
		if s.isInterrupted() {
			return StatusUnknown
		}

		if s.trail.DecisionLevel() >= len(assumptions) && s.restart.ShouldRestart() {
			s.backtrackTo(len(assumptions))
			s.restart.OnRestart()
			s.brancher.OnRestart()
			s.restarts++
			continue
		}

		if s.reduceDB.ShouldReduce(s.learntCount()) {
			s.reduceDB.Reduce(s.store, s.trail)
			s.compact()
		}

		if s.opts.Simplify && s.trail.DecisionLevel() == 0 &&
			s.conflicts-s.lastSimplified >= s.opts.SimplifyEveryNConflicts {
			s.lastSimplified = s.conflicts
			if !s.simplifier.Run(s.store, s.trail) {
				return Unsatisfiable
			}
			occurrences := make([]int, s.nVars)
			s.store.ForEach(func(ref ClauseRef) {
				for _, l := range s.store.Clause(ref).Literals() {
					occurrences[l.VarID()]++
				}
			})
			order := make([]Variable, s.nVars)
			for v := range order {
				order[v] = Variable(v)
			}
			sort.SliceStable(order, func(i, j int) bool { return occurrences[order[i]] > occurrences[order[j]] })
			for _, v := range order {
				if !s.eliminator.TryEliminate(s.store, s.trail, s.brancher, s.prop, v, s.opts.ClauseLim) {
					return Unsatisfiable
				}
			}
			s.compact()
			if rconf := s.prop.Propagate(s.store, s.trail); rconf != NilClause {
				return Unsatisfiable
			}
		}

		lvl := s.trail.DecisionLevel()
		if lvl < len(assumptions) {
			a := assumptions[lvl]
			switch s.trail.Value(a) {
			case False:
				s.unsatCore = s.analyzer.AnalyzeFinal(s.store, s.trail, a.Opposite())
				return Unsatisfiable
			case True:
				s.trail.NewDecisionLevel() // keep decision levels aligned with assumptions
				continue
			default:
				s.assign(a, DecisionReason)
				s.decisions++
				continue
			}
		}

		lit, ok := s.brancher.PickBranchLiteral(s.trail)
		if !ok {
			s.extractModel()
			return Satisfiable
		}
		s.assign(lit, DecisionReason)
		s.decisions++
	}
}

// compact reclaims deleted clauses' arena slots and fixes up every other
// structure that holds a ClauseRef into it: the propagator's watch lists or
// occurrence lists, and any trail reason still pointing at a moved clause.
func (s *Solver) compact() {
	mapping := s.store.Compact()
	remap := func(old ClauseRef) ClauseRef { return mapping[old] }
	s.prop.Rewrite(remap)
	for v := 0; v < s.nVars; v++ {
		if s.trail.VarValue(Variable(v)) == Unknown {
			continue
		}
		idx := v
		r := s.trail.data[idx].reason
		if r.Kind == ReasonLong || r.Kind == ReasonBinary {
			r.Clause = remap(r.Clause)
			s.trail.data[idx].reason = r
		}
	}
}

func (s *Solver) learntCount() int {
	n := 0
	s.store.ForEach(func(ref ClauseRef) {
		if s.store.Clause(ref).IsLearnt() {
			n++
		}
	})
	return n
}

// resolveConflict runs conflict analysis, backtracks, and installs the
// learned clause. It returns false if the learned clause is a unit whose
// literal is already false at level 0 (the formula is unsatisfiable).
func (s *Solver) resolveConflict(conflict ClauseRef) bool {
	s.conflicts++
	result := s.analyzer.Analyze(s.store, s.trail, conflict)

	s.brancher.OnConflict(result.Involved)
	s.restart.OnConflict(result.LBD, s.trail.Size())

	s.backtrackTo(result.BacktrackTo)

	ref, res := s.store.LearnClause(s.trail, result.Learnt, result.LBD)
	if res == Conflicting {
		return false
	}
	if len(result.Learnt) == 1 {
		s.brancher.OnAssigned(result.Learnt[0].VarID())
		return true
	}
	if len(result.Learnt) > 2 {
		s.prop.AttachClause(s.store, ref)
	}
	s.trail.Propagate(result.Learnt[0], reasonFor(ref, result.Learnt))
	s.brancher.OnAssigned(result.Learnt[0].VarID())

	if ref != NilClause {
		s.store.Clause(ref).BumpUsage()
	}
	return true
}

func reasonFor(ref ClauseRef, lits []Literal) Reason {
	if len(lits) == 2 {
		return BinaryReason(ref, lits[1])
	}
	return LongReason(ref)
}

func (s *Solver) extractModel() {
	for v := 0; v < s.nVars; v++ {
		s.model[v] = s.trail.VarValue(Variable(v))
	}
	s.eliminator.ExtendModel(
		func(l Literal) LBool {
			if l.IsPositive() {
				return s.model[l.VarID()]
			}
			return s.model[l.VarID()].Opposite()
		},
		func(v Variable, val bool) { s.model[v] = Lift(val) },
	)
}
