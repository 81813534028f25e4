package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"
	"time"

	"github.com/arbor-sat/arbor/internal/sat"
	"github.com/arbor-sat/arbor/parsers"
)

var flagCPUProfile = flag.Bool(
	"cpuprof",
	false,
	"save pprof CPU profile in cpuprof",
)

var flagMemProfile = flag.Bool(
	"memprof",
	false,
	"save pprof memory profile in memprof",
)

var flagGzipped = flag.Bool(
	"gzip",
	false,
	"treat the instance file as gzip-compressed",
)

var flagAssume = flag.String(
	"assume",
	"",
	"comma-separated signed DIMACS literals to assume before searching, e.g. 1,-5,12",
)

var flagDRUP = flag.String(
	"drup",
	"",
	"write a DRUP proof trace to the given path",
)

var flagConflicts = flag.Int64(
	"conflicts",
	-1,
	"maximum number of conflicts to spend before giving up (-1: unlimited)",
)

var flagTimeout = flag.Duration(
	"timeout",
	0,
	"maximum wall-clock time to spend before giving up (0: unlimited)",
)

var flagBrancher = flag.String(
	"brancher",
	"vsids",
	"branching heuristic to use: vsids or lrb",
)

func parseConfig() (*config, error) {
	flag.Parse()

	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}

	assumptions, err := parsers.ParseAssumptions(*flagAssume)
	if err != nil {
		return nil, err
	}

	return &config{
		instanceFile: flag.Arg(0),
		gzipped:      *flagGzipped,
		memProfile:   *flagMemProfile,
		cpuProfile:   *flagCPUProfile,
		assumptions:  assumptions,
		drupPath:     *flagDRUP,
		conflicts:    *flagConflicts,
		timeout:      *flagTimeout,
		brancher:     *flagBrancher,
	}, nil
}

type config struct {
	instanceFile string
	gzipped      bool
	memProfile   bool
	cpuProfile   bool
	assumptions  []sat.Literal
	drupPath     string
	conflicts    int64
	timeout      time.Duration
	brancher     string
}

// Exit codes follow the SAT competition convention: 10 for SAT, 20 for
// UNSAT, 0 for Unknown. Usage and I/O errors are reported on stderr by
// log.Fatal, which exits with status 1.
const (
	exitSAT     = 10
	exitUNSAT   = 20
	exitUnknown = 0
)

func run(cfg *config) (int, error) {
	opts := sat.DefaultOptions()
	if cfg.brancher == "lrb" {
		opts.Brancher = sat.BrancherLRB
	}

	var sink sat.DRUPSink
	var drup *sat.TextDRUPSink
	if cfg.drupPath != "" {
		f, err := os.Create(cfg.drupPath)
		if err != nil {
			return exitUnknown, fmt.Errorf("could not create proof file: %s", err)
		}
		defer f.Close()
		drup = sat.NewTextDRUPSink(f)
		sink = drup
	}

	solver := sat.NewSolver(opts, sink)

	ok, err := parsers.LoadDIMACS(cfg.instanceFile, cfg.gzipped, solver)
	if err != nil {
		return exitUnknown, fmt.Errorf("could not parse instance: %s", err)
	}
	solver.SeedPolarities()
	for _, a := range cfg.assumptions {
		solver.SetFrozen(a.VarID(), true)
	}

	fmt.Printf("c variables: %d\n", solver.NumVars())

	if cfg.conflicts >= 0 {
		solver.SetConflictBudget(cfg.conflicts)
	}
	if cfg.timeout > 0 {
		timer := time.AfterFunc(cfg.timeout, solver.Interrupt)
		defer timer.Stop()
	}

	t := time.Now()
	status := sat.Unsatisfiable
	if ok {
		status = solver.Solve(cfg.assumptions)
	}
	elapsed := time.Since(t)

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())

	if drup != nil {
		if ferr := drup.Flush(); ferr != nil {
			log.Printf("could not flush proof file: %s", ferr)
		}
	}

	switch status {
	case sat.Satisfiable:
		fmt.Println("s SATISFIABLE")
		printModel(solver)
		return exitSAT, nil
	case sat.Unsatisfiable:
		fmt.Println("s UNSATISFIABLE")
		return exitUNSAT, nil
	default:
		fmt.Println("s UNKNOWN")
		return exitUnknown, nil
	}
}

func printModel(s *sat.Solver) {
	fmt.Print("v")
	for v := 0; v < s.NumVars(); v++ {
		lit := v + 1
		if s.ModelValue(sat.Variable(v)) == sat.False {
			lit = -lit
		}
		fmt.Printf(" %d", lit)
	}
	fmt.Println(" 0")
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}

	if cfg.cpuProfile {
		f, err := os.Create("cpuprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	code, err := run(cfg)
	if err != nil {
		log.Fatal(err)
	}

	if cfg.memProfile {
		f, err := os.Create("memprof")
		if err != nil {
			log.Fatal(err)
		}
		pprof.WriteHeapProfile(f)
		f.Close()
	}

	os.Exit(code)
}
