package sat

import "strings"

type clauseFlags uint8

const (
	flagDeleted clauseFlags = 1 << iota
	flagLearnt
	flagPersistent
)

// Clause is a disjunction of distinct literals stored in the arena owned by
// a ClauseStore. Once attached, clauses of size > 2 keep their first two
// literals as the current watches (§3): in a consistent state each of them
// is either True or Undef unless the clause is conflicting. Clauses of size
// 2 are never watched this way; they are propagated only through the
// store's binary index.
type Clause struct {
	literalsRef *[]Literal
	literals    []Literal

	// id is a monotonically increasing creation-order tag, used only to
	// break subsumption duplicate-removal ties deterministically (Candy
	// breaks ties on clause pointer identity, which has no stable
	// equivalent once clauses live in a compacting arena).
	id uint32

	// lbd is the Literal Block Distance, a small integer quality score; for
	// a learnt clause it is recomputed whenever conflict analysis resolves
	// with the clause.
	lbd uint32

	// usage is the aging counter consulted by ReduceDB (§4.6): it is
	// bumped whenever the clause is touched during conflict analysis and
	// decremented on each ReduceDB pass, reclaiming the clause at 0.
	usage uint32

	// prevPos caches the position the propagator last swapped a watch
	// into, so the next scan for a replacement watch resumes from there
	// instead of always restarting at position 2.
	prevPos int

	flags clauseFlags
}

func (c *Clause) Literals() []Literal { return c.literals }
func (c *Clause) Size() int           { return len(c.literals) }
func (c *Clause) LBD() uint32         { return c.lbd }
func (c *Clause) SetLBD(lbd uint32)   { c.lbd = lbd }
func (c *Clause) Usage() uint32       { return c.usage }
func (c *Clause) BumpUsage()          { c.usage++ }

// DecUsage decrements the usage counter, floored at zero, and returns the
// new value.
func (c *Clause) DecUsage() uint32 {
	if c.usage > 0 {
		c.usage--
	}
	return c.usage
}

func (c *Clause) IsDeleted() bool    { return c.flags&flagDeleted != 0 }
func (c *Clause) IsLearnt() bool     { return c.flags&flagLearnt != 0 }
func (c *Clause) IsPersistent() bool { return c.flags&flagPersistent != 0 }

func (c *Clause) setDeleted()      { c.flags |= flagDeleted }
func (c *Clause) setPersistent()   { c.flags |= flagPersistent }
func (c *Clause) clearPersistent() { c.flags &^= flagPersistent }

// Contains reports whether the clause contains the given literal.
func (c *Clause) Contains(l Literal) bool {
	for _, cl := range c.literals {
		if cl == l {
			return true
		}
	}
	return false
}

func (c *Clause) String() string {
	if len(c.literals) == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(c.literals[0].String())
	for _, l := range c.literals[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
