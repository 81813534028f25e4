package parsers

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/rhartert/dimacs"

	"github.com/arbor-sat/arbor/internal/sat"
)

// SATSolver is the subset of Solver needed to instantiate a CNF formula,
// kept narrow so tests can supply a fake.
type SATSolver interface {
	NewVar() sat.Variable
	AddClause(lits ...sat.Literal) bool
}

func reader(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			return nil, err
		}
	}
	return rc, nil
}

// LoadDIMACS parses a DIMACS CNF file and loads its formula into solver. It
// reports an error if the formula is trivially unsatisfiable (a clause
// conflicts outright with the level-0 facts seen so far) via ok=false
// rather than failing the parse, since that is a property of the formula,
// not of the file.
func LoadDIMACS(filename string, gzipped bool, solver SATSolver) (ok bool, err error) {
	r, err := reader(filename, gzipped)
	if err != nil {
		return false, fmt.Errorf("error reading file %q: %s", filename, err)
	}
	defer r.Close()

	b := &builder{solver: solver, ok: true}
	if err := dimacs.ReadBuilder(r, b); err != nil {
		return false, err
	}
	return b.ok, nil
}

// builder adapts a SATSolver to dimacs.Builder.
type builder struct {
	solver SATSolver
	ok     bool
}

func (b *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("not a CNF problem: %q", problem)
	}
	for i := 0; i < nVars; i++ {
		b.solver.NewVar()
	}
	return nil
}

func (b *builder) Clause(tmpClause []int) error {
	clause := make([]sat.Literal, len(tmpClause))
	for i, l := range tmpClause {
		if l < 0 {
			clause[i] = sat.NegativeLiteral(sat.Variable(-l - 1))
		} else {
			clause[i] = sat.PositiveLiteral(sat.Variable(l - 1))
		}
	}
	if !b.solver.AddClause(clause...) {
		b.ok = false
	}
	return nil
}

func (b *builder) Comment(_ string) error {
	return nil
}

// ParseAssumptions turns a comma-separated list of signed DIMACS literals
// (e.g. "1,-5,12") into solver literals, as accepted by the CLI's -assume
// flag.
func ParseAssumptions(spec string) ([]sat.Literal, error) {
	if spec == "" {
		return nil, nil
	}
	var lits []sat.Literal
	start := 0
	for i := 0; i <= len(spec); i++ {
		if i != len(spec) && spec[i] != ',' {
			continue
		}
		tok := spec[start:i]
		start = i + 1
		if tok == "" {
			continue
		}
		var n int
		if _, err := fmt.Sscanf(tok, "%d", &n); err != nil || n == 0 {
			return nil, fmt.Errorf("invalid assumption literal %q", tok)
		}
		if n < 0 {
			lits = append(lits, sat.NegativeLiteral(sat.Variable(-n-1)))
		} else {
			lits = append(lits, sat.PositiveLiteral(sat.Variable(n-1)))
		}
	}
	return lits, nil
}
