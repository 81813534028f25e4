package sat

import "testing"

// TestBacktrackRoundTrip verifies that decide; propagate; backtrack_to(L)
// returns the trail, per-variable values, and qhead to exactly their
// pre-decision state (§8's backtrack round-trip property).
func TestBacktrackRoundTrip(t *testing.T) {
	tr := NewTrail()
	tr.GrowTo(3)

	tr.AssignFact(lit(1))
	if _, ok := tr.Next(); !ok {
		t.Fatalf("expected a pending fact to propagate")
	}

	beforeSize := tr.Size()
	beforeQHead := tr.QHead()
	beforeLevel := tr.DecisionLevel()
	beforeV1 := tr.VarValue(1)
	beforeV2 := tr.VarValue(2)

	tr.Decide(lit(2))
	tr.Propagate(lit(3), LongReason(NilClause))
	tr.Next()
	tr.Next()

	tr.BacktrackTo(beforeLevel, nil)

	if tr.Size() != beforeSize {
		t.Errorf("trail size = %d, want %d", tr.Size(), beforeSize)
	}
	if tr.QHead() != beforeQHead {
		t.Errorf("qhead = %d, want %d", tr.QHead(), beforeQHead)
	}
	if tr.DecisionLevel() != beforeLevel {
		t.Errorf("decision level = %d, want %d", tr.DecisionLevel(), beforeLevel)
	}
	if tr.VarValue(1) != beforeV1 {
		t.Errorf("var 1 = %v, want %v", tr.VarValue(1), beforeV1)
	}
	if tr.VarValue(2) != beforeV2 {
		t.Errorf("var 2 = %v, want %v", tr.VarValue(2), beforeV2)
	}
}

func TestTrailQHeadAdvancesOnNext(t *testing.T) {
	tr := NewTrail()
	tr.GrowTo(2)
	tr.Decide(lit(1))
	tr.Propagate(lit(2), LongReason(NilClause))

	if tr.Pending() != true {
		t.Fatalf("expected pending literals before draining")
	}
	var drained []Literal
	for {
		l, ok := tr.Next()
		if !ok {
			break
		}
		drained = append(drained, l)
	}
	if len(drained) != 2 {
		t.Fatalf("drained %d literals, want 2", len(drained))
	}
	if tr.Pending() {
		t.Errorf("expected no pending literals once qhead caught up")
	}
	if tr.QHead() != tr.Size() {
		t.Errorf("qhead = %d, want %d (== trail size)", tr.QHead(), tr.Size())
	}
}

func TestComputeLBD(t *testing.T) {
	tr := NewTrail()
	tr.GrowTo(4)
	tr.Decide(lit(1))  // level 1
	tr.Decide(lit(2))  // level 2
	tr.Propagate(lit(3), DecisionReason) // level 2 (same as last decide)
	tr.Decide(lit(4))  // level 3

	var scratch ResetSet
	scratch.GrowTo(4)
	lbd := tr.ComputeLBD([]Literal{lit(1), lit(2), lit(3), lit(4)}, &scratch)
	if lbd != 3 {
		t.Errorf("ComputeLBD = %d, want 3 (levels 1,2,3 with 2 appearing twice)", lbd)
	}
}
