package sat

import (
	"math/bits"
	"sync"
)

// Number of size-tiered literal slice pools backing the clause arena.
const nLiteralPools = 6

// The minimum capacity served by the last pool.
const lastPoolCapacity = 1 << nLiteralPools

// literalPools holds size-tiered sync.Pool instances so that pool i serves
// slices with a capacity between 2^(i+1) and 2^(i+2)-1 inclusive; the last
// pool serves anything at or above lastPoolCapacity. Clauses are created and
// deleted by the thousands during conflict analysis and ReduceDB, so reusing
// backing arrays avoids putting significant GC pressure on the allocator.
var literalPools [nLiteralPools]sync.Pool

func init() {
	for i := 0; i < nLiteralPools; i++ {
		capa := 1 << (i + 1)
		literalPools[i].New = func() any {
			s := make([]Literal, 0, capa)
			return &s
		}
	}
}

func literalPoolID(capa int) int {
	if capa >= lastPoolCapacity {
		return nLiteralPools - 1
	}
	id := bits.Len(uint(capa)) - 1
	if capa < (1 << id) {
		id--
	}
	if id < 0 {
		id = 0
	}
	return id
}

// allocLiteralsRef returns a pooled *[]Literal with at least the requested
// capacity and length 0. The returned reference must be released with
// freeLiteralsRef once the clause holding it is deleted.
func allocLiteralsRef(capa int) *[]Literal {
	ref := literalPools[literalPoolID(capa)].Get().(*[]Literal)
	if cap(*ref) < capa {
		s := make([]Literal, 0, capa)
		ref = &s
	} else {
		*ref = (*ref)[:0]
	}
	return ref
}

// freeLiteralsRef returns the backing array to its pool so it can be reused
// by a future clause. The caller must not dereference ref after this call.
func freeLiteralsRef(ref *[]Literal) {
	*ref = (*ref)[:0]
	id := nLiteralPools - 1
	if c := cap(*ref); c < lastPoolCapacity {
		id = bits.Len(uint(c)) - 2 // capacity 2^(id+1)..2^(id+2)-1
		if id < 0 {
			id = 0
		}
	}
	literalPools[id].Put(ref)
}
