package sat

import "github.com/rhartert/yagh"

// VSIDS is the classic variable-state-independent decaying-sum heuristic
// (Candy's VSIDS.h, and the teacher's VarOrder): every variable has an
// activity score, bumped by a geometrically growing increment whenever it
// takes part in a conflict, so that older bumps count for less without ever
// touching every score on every conflict. The heap (github.com/rhartert/yagh)
// always exposes the undecided variable with the highest score in O(log n).
type VSIDS struct {
	order *yagh.IntMap[float64]

	activity []float64
	bumpInc  float64
	decay    float64

	phases     []LBool
	decidable  []bool
}

// NewVSIDS returns a VSIDS brancher. decay is the per-conflict decay factor
// applied to bumpInc, typically ~0.95 (VSIDS.h's var_decay).
func NewVSIDS(decay float64) *VSIDS {
	return &VSIDS{
		order:   yagh.New[float64](0),
		bumpInc: 1,
		decay:   decay,
	}
}

func (vs *VSIDS) GrowTo(n int) {
	for len(vs.activity) < n {
		v := len(vs.activity)
		vs.activity = append(vs.activity, 0)
		vs.phases = append(vs.phases, Unknown)
		vs.decidable = append(vs.decidable, true)
		vs.order.GrowBy(1)
		vs.order.Put(v, 0)
	}
}

// SeedActivity sets the starting score and phase for every variable, meant
// to be called once right after GrowTo with the clause store's relative
// literal occurrence counts.
func (vs *VSIDS) SeedActivity(store *ClauseStore) {
	polarity, score := initialPolarities(store, len(vs.activity))
	for v, positive := range polarity {
		vs.phases[v] = Lift(positive)
		vs.activity[v] = score[v]
		if vs.decidable[v] {
			vs.order.Put(v, -score[v])
		}
	}
}

func (vs *VSIDS) PickBranchLiteral(trail *Trail) (Literal, bool) {
	for {
		next, ok := vs.order.Pop()
		if !ok {
			return 0, false
		}
		v := Variable(next.Elem)
		if trail.VarValue(v) != Unknown {
			continue
		}
		if !vs.decidable[v] {
			continue
		}
		if vs.phases[v] == False {
			return NegativeLiteral(v), true
		}
		return PositiveLiteral(v), true
	}
}

func (vs *VSIDS) OnUnassign(v Variable, val LBool) {
	vs.phases[v] = val
	if vs.decidable[v] {
		vs.order.Put(int(v), -vs.activity[v])
	}
}

func (vs *VSIDS) OnAssigned(Variable) {}

// OnConflict bumps every involved variable, then decays the shared
// increment (equivalent to decaying every score, VSIDS.h's
// varDecayActivity/varBumpActivity pair).
func (vs *VSIDS) OnConflict(involved []Variable) {
	for _, v := range involved {
		vs.bump(v)
	}
	vs.bumpInc /= vs.decay
	if vs.bumpInc > 1e100 {
		vs.rescale()
	}
}

func (vs *VSIDS) bump(v Variable) {
	vs.activity[v] += vs.bumpInc
	if vs.order.Contains(int(v)) {
		vs.order.Put(int(v), -vs.activity[v])
	}
	if vs.activity[v] > 1e100 {
		vs.rescale()
	}
}

func (vs *VSIDS) rescale() {
	vs.bumpInc *= 1e-100
	for v, a := range vs.activity {
		na := a * 1e-100
		vs.activity[v] = na
		if vs.order.Contains(v) {
			vs.order.Put(v, -na)
		}
	}
}

func (vs *VSIDS) OnRestart() {}

func (vs *VSIDS) SetDecision(v Variable, decidable bool) {
	if vs.decidable[v] == decidable {
		return
	}
	vs.decidable[v] = decidable
	if decidable {
		vs.order.Put(int(v), -vs.activity[v])
	} else if vs.order.Contains(int(v)) {
		vs.order.Remove(int(v))
	}
}

func (vs *VSIDS) SetPolarity(v Variable, positive bool) {
	vs.phases[v] = Lift(positive)
}
