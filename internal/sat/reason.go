package sat

// ReasonKind discriminates the three ways a trail literal can come to be
// assigned, per the Design Notes' recommendation to use a tagged union
// instead of overloading a ClauseRef with magic sentinel values.
type ReasonKind uint8

const (
	// ReasonDecision means the literal was chosen by the brancher, not
	// implied by anything.
	ReasonDecision ReasonKind = iota
	// ReasonLong means the literal was propagated by a clause of size
	// greater than 2, identified by Clause.
	ReasonLong
	// ReasonBinary means the literal was propagated by a binary clause;
	// Other is the clause's remaining (falsified) literal. Carrying it
	// directly avoids an arena dereference in the hot explain path, and
	// is required for correctness since binary clauses, unlike 2-watched
	// long clauses, do not keep the propagated literal at a fixed
	// position.
	ReasonBinary
	// ReasonUnit means the literal is a top-level fact, asserted outright
	// by an input or learned unit clause rather than implied by one during
	// search. Facts always live at decision level 0 and are never undone.
	ReasonUnit
)

// Reason records why a trail literal is true.
type Reason struct {
	Kind   ReasonKind
	Clause ClauseRef
	Other  Literal
}

// DecisionReason is the sentinel reason attached to a decision literal.
var DecisionReason = Reason{Kind: ReasonDecision}

// LongReason builds the reason for a literal propagated by a long clause.
func LongReason(ref ClauseRef) Reason {
	return Reason{Kind: ReasonLong, Clause: ref}
}

// BinaryReason builds the reason for a literal propagated by a binary
// clause whose other literal is other.
func BinaryReason(ref ClauseRef, other Literal) Reason {
	return Reason{Kind: ReasonBinary, Clause: ref, Other: other}
}

// IsDecision reports whether r is attached to a decision literal.
func (r Reason) IsDecision() bool {
	return r.Kind == ReasonDecision
}

// UnitReason is the sentinel reason attached to a top-level fact.
var UnitReason = Reason{Kind: ReasonUnit}
