package sat

import "sort"

// Simplifier performs subsumption elimination and self-subsuming resolution
// (SSR) over the whole clause database between search phases (Candy's
// Subsumption.h). A clause c subsumes a clause d when c's literals are a
// subset of d's, making d redundant outright. When c and d differ in
// exactly one literal, and that literal is negated between them, SSR
// strengthens d by dropping its copy of that literal instead (keeping the
// information d carried for every other literal).
//
// Every candidate pair is first screened with a 64-bit clause-signature
// abstraction (one bit per variable-id-mod-64): if c's signature has a bit
// set that d's doesn't, c cannot be a subset of d, and the expensive
// literal-by-literal comparison is skipped entirely.
type Simplifier struct {
	sig map[ClauseRef]uint64
}

// NewSimplifier returns an empty Simplifier.
func NewSimplifier() *Simplifier {
	return &Simplifier{sig: map[ClauseRef]uint64{}}
}

func signature(lits []Literal) uint64 {
	var s uint64
	for _, l := range lits {
		s |= 1 << (uint(l.VarID()) & 63)
	}
	return s
}

// Run performs one subsumption/SSR sweep, returning false if it derives the
// empty clause (the formula is unsatisfiable).
func (sf *Simplifier) Run(store *ClauseStore, trail *Trail) bool {
	clear(sf.sig)

	var refs []ClauseRef
	occ := map[Literal][]ClauseRef{}
	store.ForEach(func(ref ClauseRef) {
		c := store.Clause(ref)
		refs = append(refs, ref)
		sf.sig[ref] = signature(c.Literals())
		for _, l := range c.Literals() {
			occ[l] = append(occ[l], ref)
		}
	})

	// Shorter clauses first; among equal sizes lower LBD, then creation id,
	// so that of two duplicate clauses the lower-LBD (then older) one is
	// processed first and deletes the other.
	sort.Slice(refs, func(i, j int) bool {
		ci, cj := store.Clause(refs[i]), store.Clause(refs[j])
		if ci.Size() != cj.Size() {
			return ci.Size() < cj.Size()
		}
		if ci.LBD() != cj.LBD() {
			return ci.LBD() < cj.LBD()
		}
		return ci.id < cj.id
	})

	for _, c := range refs {
		if store.Clause(c).IsDeleted() {
			continue
		}
		if !sf.tryWith(store, trail, c, occ) {
			return false
		}
	}
	return true
}

// tryWith scans every clause sharing a literal with c for a subsumption or
// SSR opportunity rooted at c, picking the literal of c with the shortest
// occurrence list to minimize the candidates examined.
func (sf *Simplifier) tryWith(store *ClauseStore, trail *Trail, c ClauseRef, occ map[Literal][]ClauseRef) bool {
	cLits := store.Clause(c).Literals()
	best := cLits[0]
	for _, l := range cLits[1:] {
		if len(occ[l]) < len(occ[best]) {
			best = l
		}
	}

	for _, d := range occ[best] {
		if d == c || store.Clause(d).IsDeleted() {
			continue
		}
		if store.Clause(d).Size() < store.Clause(c).Size() {
			continue
		}
		if ok, flip, isSSR := subsumes(sf.sig[c], sf.sig[d], cLits, store.Clause(d).Literals()); ok {
			if !isSSR {
				store.MarkDeleted(d)
				continue
			}
			if store.StrengthenClause(trail, d, flip) {
				return false
			}
		}
	}
	return true
}

// subsumes reports whether cLits, possibly with exactly one literal negated
// (self-subsuming resolution), is a subset of dLits. ok is true if either a
// straight subsumption (isSSR == false) or an SSR opportunity (isSSR == true,
// flip == the literal of d to strengthen away) was found. flip is only
// meaningful when isSSR is true: Literal(0) is a legitimate literal (the
// positive occurrence of variable 0), so it cannot double as a sentinel.
func subsumes(cSig, dSig uint64, cLits, dLits []Literal) (ok bool, flip Literal, isSSR bool) {
	if cSig&^dSig != 0 {
		return false, 0, false
	}
	contains := func(lits []Literal, l Literal) bool {
		for _, x := range lits {
			if x == l {
				return true
			}
		}
		return false
	}

	mismatches := 0
	var mismatchLit Literal
	for _, l := range cLits {
		if contains(dLits, l) {
			continue
		}
		if contains(dLits, l.Opposite()) {
			mismatches++
			mismatchLit = l.Opposite()
			if mismatches > 1 {
				return false, 0, false
			}
			continue
		}
		return false, 0, false
	}
	if mismatches == 0 {
		return true, 0, false
	}
	return true, mismatchLit, true
}
