package sat

import "github.com/rhartert/yagh"

// LRB is the Learning Rate Branching heuristic (Candy's LRB.h): rather than
// bumping a fixed increment on every conflict, each variable accumulates a
// literal weight estimated as an online learning-rate update — participated
// conflicts over the number of conflicts the variable has been assigned for
// (its "age") — which tracks how useful assigning that variable has recently
// been at producing conflicts, not just how often it appears in one.
type LRB struct {
	order *yagh.IntMap[float64]

	weight      []float64
	participated []uint32
	assignedAt   []uint64 // conflict counter value when the var was last assigned
	decidable    []bool
	phases       []LBool

	stepSize    float64
	minStepSize float64
	conflicts   uint64
}

// NewLRB returns an LRB brancher. stepSize starts at 0.4 and decays toward
// minStepSize (0.06) as search progresses, matching LRB.h's defaults.
func NewLRB() *LRB {
	return &LRB{
		order:       yagh.New[float64](0),
		stepSize:    0.4,
		minStepSize: 0.06,
	}
}

func (lr *LRB) GrowTo(n int) {
	for len(lr.weight) < n {
		v := len(lr.weight)
		lr.weight = append(lr.weight, 0)
		lr.participated = append(lr.participated, 0)
		lr.assignedAt = append(lr.assignedAt, 0)
		lr.decidable = append(lr.decidable, true)
		lr.phases = append(lr.phases, Unknown)
		lr.order.GrowBy(1)
		lr.order.Put(v, 0)
	}
}

func (lr *LRB) SeedActivity(store *ClauseStore) {
	polarity, score := initialPolarities(store, len(lr.weight))
	for v, positive := range polarity {
		lr.phases[v] = Lift(positive)
		lr.weight[v] = score[v]
		if lr.decidable[v] {
			lr.order.Put(v, -score[v])
		}
	}
}

func (lr *LRB) PickBranchLiteral(trail *Trail) (Literal, bool) {
	for {
		next, ok := lr.order.Pop()
		if !ok {
			return 0, false
		}
		v := Variable(next.Elem)
		if trail.VarValue(v) != Unknown {
			continue
		}
		if !lr.decidable[v] {
			continue
		}
		if lr.phases[v] == False {
			return NegativeLiteral(v), true
		}
		return PositiveLiteral(v), true
	}
}

// OnAssigned records the conflict counter at the moment v is assigned, the
// denominator of the learning-rate update computed when v is later undone.
func (lr *LRB) OnAssigned(v Variable) {
	lr.assignedAt[v] = lr.conflicts
	lr.participated[v] = 0
}

// OnConflict marks every variable that appeared in the clause resolved upon
// during analysis as having participated in this conflict, advances the
// conflict counter, and decays stepSize (LRB.h's process_conflict).
func (lr *LRB) OnConflict(involved []Variable) {
	lr.conflicts++
	for _, v := range involved {
		lr.participated[v]++
	}
	if lr.stepSize > lr.minStepSize {
		lr.stepSize -= 1e-5
		if lr.stepSize < lr.minStepSize {
			lr.stepSize = lr.minStepSize
		}
	}
}

// OnUnassign applies the learning-rate update for v and reinserts it: the
// longer a variable stays assigned without participating in a conflict, the
// smaller its weight update, so LRB favors variables that pay off quickly.
func (lr *LRB) OnUnassign(v Variable, val LBool) {
	lr.phases[v] = val
	age := lr.conflicts - lr.assignedAt[v]
	if age > 0 {
		rate := float64(lr.participated[v]) / float64(age)
		lr.weight[v] = (1-lr.stepSize)*lr.weight[v] + lr.stepSize*rate
	}
	if lr.decidable[v] {
		lr.order.Put(int(v), -lr.weight[v])
	}
}

func (lr *LRB) OnRestart() {}

func (lr *LRB) SetDecision(v Variable, decidable bool) {
	if lr.decidable[v] == decidable {
		return
	}
	lr.decidable[v] = decidable
	if decidable {
		lr.order.Put(int(v), -lr.weight[v])
	} else if lr.order.Contains(int(v)) {
		lr.order.Remove(int(v))
	}
}

func (lr *LRB) SetPolarity(v Variable, positive bool) {
	lr.phases[v] = Lift(positive)
}
