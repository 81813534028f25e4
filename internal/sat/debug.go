package sat

import "github.com/kr/pretty"

// debugTrailEntry is a flattened, pretty-printable view of one trail
// position, since Trail's real fields are unexported and Literal/LBool
// print as bare integers otherwise.
type debugTrailEntry struct {
	Literal string
	Level   int
	Reason  ReasonKind
}

// DebugState returns a human-readable dump of the solver's current trail
// and decision levels, meant for pasting into a bug report or printing from
// a failing test, not for parsing.
func (s *Solver) DebugState() string {
	entries := make([]debugTrailEntry, 0, s.trail.Size())
	for i := 0; i < s.trail.Size(); i++ {
		l := s.trail.At(i)
		entries = append(entries, debugTrailEntry{
			Literal: l.String(),
			Level:   s.trail.Level(l.VarID()),
			Reason:  s.trail.Reason(l.VarID()).Kind,
		})
	}
	return pretty.Sprint(entries)
}
