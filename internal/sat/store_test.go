package sat

import "testing"

func TestAddInputClauseNormalization(t *testing.T) {
	tr := NewTrail()
	tr.GrowTo(3)
	store := NewClauseStore(nil)
	store.GrowTo(3)

	// Duplicate literals collapse to one.
	ref, res := store.AddInputClause(tr, []Literal{lit(1), lit(2), lit(1)})
	if res != Added {
		t.Fatalf("AddInputClause(dup) = %v, want Added", res)
	}
	if got := store.Clause(ref).Size(); got != 2 {
		t.Errorf("clause size after dedup = %d, want 2", got)
	}

	// A tautological clause is dropped.
	_, res = store.AddInputClause(tr, []Literal{lit(1), lit(-1)})
	if res != Tautology {
		t.Errorf("AddInputClause(tautology) = %v, want Tautology", res)
	}

	// A unit clause asserts a fact instead of allocating a clause.
	_, res = store.AddInputClause(tr, []Literal{lit(3)})
	if res != Added {
		t.Fatalf("AddInputClause(unit) = %v, want Added", res)
	}
	if tr.Value(lit(3)) != True {
		t.Errorf("variable 3 = %v after unit clause, want True", tr.Value(lit(3)))
	}

	// An empty clause is globally conflicting.
	_, res = store.AddInputClause(tr, []Literal{})
	if res != Conflicting {
		t.Errorf("AddInputClause(empty) = %v, want Conflicting", res)
	}
}

func TestMarkDeletedAndCompact(t *testing.T) {
	tr := NewTrail()
	tr.GrowTo(4)
	store := NewClauseStore(nil)
	store.GrowTo(4)

	a, _ := store.AddInputClause(tr, []Literal{lit(1), lit(2), lit(3)})
	b, _ := store.AddInputClause(tr, []Literal{lit(2), lit(3), lit(4)})

	if store.NumAlive() != 2 {
		t.Fatalf("NumAlive() = %d, want 2", store.NumAlive())
	}

	store.MarkDeleted(a)
	if !store.Clause(a).IsDeleted() {
		t.Fatalf("clause a not marked deleted")
	}
	if store.NumAlive() != 1 {
		t.Errorf("NumAlive() after delete = %d, want 1", store.NumAlive())
	}

	mapping := store.Compact()
	if mapping[a] != NilClause {
		t.Errorf("mapping[a] = %v, want NilClause", mapping[a])
	}
	newB := mapping[b]
	if newB == NilClause {
		t.Fatalf("mapping[b] = NilClause, want a live handle")
	}
	if store.Clause(newB).Size() != 3 {
		t.Errorf("clause b survived compaction with wrong size %d", store.Clause(newB).Size())
	}
}

func TestBinaryIndexIsSymmetric(t *testing.T) {
	tr := NewTrail()
	tr.GrowTo(2)
	store := NewClauseStore(nil)
	store.GrowTo(2)

	store.AddInputClause(tr, []Literal{lit(1), lit(2)})

	// The clause {1, 2} means: if 1 is false then 2 must hold, and vice
	// versa, so it must be indexed under both ¬1 and ¬2.
	if len(store.Binary(lit(-1))) != 1 {
		t.Errorf("Binary(¬1) has %d entries, want 1", len(store.Binary(lit(-1))))
	}
	if len(store.Binary(lit(-2))) != 1 {
		t.Errorf("Binary(¬2) has %d entries, want 1", len(store.Binary(lit(-2))))
	}
}
