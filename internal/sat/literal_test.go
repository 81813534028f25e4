package sat

import "testing"

func TestLiteralEncoding(t *testing.T) {
	v := Variable(5)
	pos := PositiveLiteral(v)
	neg := NegativeLiteral(v)

	if pos.VarID() != v || neg.VarID() != v {
		t.Fatalf("VarID() did not round-trip for variable %d", v)
	}
	if !pos.IsPositive() {
		t.Errorf("PositiveLiteral(%d).IsPositive() = false", v)
	}
	if neg.IsPositive() {
		t.Errorf("NegativeLiteral(%d).IsPositive() = true", v)
	}
	if pos.Opposite() != neg || neg.Opposite() != pos {
		t.Errorf("Opposite() is not an involution for variable %d", v)
	}
	if pos.String() != "5" || neg.String() != "-5" {
		t.Errorf("String() = %q/%q, want \"5\"/\"-5\"", pos.String(), neg.String())
	}
}

func TestResetSetClearIsConstantTime(t *testing.T) {
	var rs ResetSet
	rs.GrowTo(4)
	rs.Add(0)
	rs.Add(2)

	if !rs.Contains(0) || !rs.Contains(2) {
		t.Fatalf("expected 0 and 2 to be in the set")
	}
	if rs.Contains(1) || rs.Contains(3) {
		t.Fatalf("expected 1 and 3 to be absent")
	}

	rs.Clear()
	if rs.Contains(0) || rs.Contains(2) {
		t.Errorf("expected the set to be empty after Clear")
	}

	rs.Add(1)
	if !rs.Contains(1) || rs.Contains(0) {
		t.Errorf("set state inconsistent after re-adding post-Clear")
	}
}
