package parsers

import (
	"testing"

	"github.com/arbor-sat/arbor/internal/sat"
)

func TestParseAssumptions(t *testing.T) {
	got, err := ParseAssumptions("1,-5,12")
	if err != nil {
		t.Fatalf("ParseAssumptions returned an error: %s", err)
	}
	want := []sat.Literal{
		sat.PositiveLiteral(0),
		sat.NegativeLiteral(4),
		sat.PositiveLiteral(11),
	}
	if len(got) != len(want) {
		t.Fatalf("got %d literals, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("literal %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParseAssumptionsEmpty(t *testing.T) {
	got, err := ParseAssumptions("")
	if err != nil {
		t.Fatalf("ParseAssumptions(\"\") returned an error: %s", err)
	}
	if got != nil {
		t.Errorf("ParseAssumptions(\"\") = %v, want nil", got)
	}
}

func TestParseAssumptionsRejectsZero(t *testing.T) {
	if _, err := ParseAssumptions("1,0,2"); err == nil {
		t.Errorf("ParseAssumptions with a literal 0 should be rejected")
	}
}
