package sat

import "testing"

func TestLiteralPoolReusesBackingArray(t *testing.T) {
	ref := allocLiteralsRef(3)
	*ref = append(*ref, lit(1), lit(2))
	backing := *ref
	freeLiteralsRef(ref)

	again := allocLiteralsRef(3)
	if cap(*again) < 3 {
		t.Fatalf("pooled slice capacity = %d, want >= 3", cap(*again))
	}
	if len(*again) != 0 {
		t.Errorf("pooled slice length = %d, want 0 (reset on release)", len(*again))
	}
	_ = backing
}

func TestLiteralPoolIDMonotonic(t *testing.T) {
	prev := literalPoolID(2)
	for capa := 3; capa <= 256; capa++ {
		id := literalPoolID(capa)
		if id < prev {
			t.Errorf("literalPoolID(%d) = %d < literalPoolID(%d) = %d, want non-decreasing", capa, id, capa-1, prev)
		}
		prev = id
	}
}
