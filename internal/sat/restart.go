package sat

// EMA is an exponential moving average with the "robust initialization"
// scheme from Candy's mtl/EMA.h: rather than starting from a plain zero (or
// from the first sample, which lets one outlier dominate early decisions),
// it starts at 1 with an effective beta of 1 that halves each time its
// warm-up window runs out, the window doubling each time, until beta settles
// at the configured alpha.
// The teacher's sat/avg.go EMA decays with a single fixed factor from the
// start; this generalizes it for the restart policy's narrow warm-up needs.
type EMA struct {
	alpha float64
	beta  float64
	wait  uint64
	value float64
}

// NewEMA returns a robustly-initialized EMA with decay factor alpha.
func NewEMA(alpha float64) *EMA {
	return &EMA{alpha: alpha, beta: 1, wait: 1, value: 1}
}

// Update folds in a new sample.
func (e *EMA) Update(x float64) {
	e.value += e.beta * (x - e.value)
	if e.beta <= e.alpha {
		return
	}
	e.wait--
	if e.wait == 0 {
		e.beta /= 2
		if e.beta < e.alpha {
			e.beta = e.alpha
		}
		e.wait = uint64(1 / e.beta) // next warm-up window: period doubles each halving
	}
}

// Value returns the current estimate.
func (e *EMA) Value() float64 {
	return e.value
}

// Restart implements the glucose/Candy-style dual-EMA restart policy
// (Restart.h): a fast LBD average and a slow one are compared, and a
// restart fires when recent conflicts are producing learned clauses of
// markedly worse quality (higher LBD) than the long-run trend — i.e. search
// is stuck in an unproductive region. A parallel pair of trail-size EMAs
// implements "blocking": a restart is suppressed if the trail is unusually
// large compared to its own recent history, since backtracking away from a
// deep, still-progressing trail tends to waste the work already done.
type Restart struct {
	lbdFast, lbdSlow     *EMA
	trailFast, trailSlow *EMA

	forceFactor float64 // triggers restart when lbdFast > lbdSlow*forceFactor
	blockFactor float64 // suppresses restart when trailFast > trailSlow*blockFactor

	minConflicts  uint64
	conflictCount uint64
}

// NewRestart returns a Restart policy with Candy's defaults: force=1.25,
// block=1.4, and Restart.h's alpha values for the four EMAs.
func NewRestart() *Restart {
	return &Restart{
		lbdFast:      NewEMA(3e-2),
		lbdSlow:      NewEMA(1e-5),
		trailFast:    NewEMA(1e-2),
		trailSlow:    NewEMA(1e-5),
		forceFactor:  1.25,
		blockFactor:  1.4,
		minConflicts: 1000,
	}
}

// OnConflict records one conflict's LBD and the trail size at the time it
// occurred.
func (r *Restart) OnConflict(lbd int, trailSize int) {
	r.conflictCount++
	r.lbdFast.Update(float64(lbd))
	r.lbdSlow.Update(float64(lbd))
	r.trailFast.Update(float64(trailSize))
	r.trailSlow.Update(float64(trailSize))
}

// ShouldRestart reports whether search should restart now.
func (r *Restart) ShouldRestart() bool {
	if r.conflictCount < r.minConflicts {
		return false
	}
	if r.trailFast.Value() > r.trailSlow.Value()*r.blockFactor {
		return false // blocked: trail is unusually deep, keep going
	}
	return r.lbdFast.Value() > r.lbdSlow.Value()*r.forceFactor
}

// OnRestart resets the conflict counter that gates the minimum number of
// conflicts between two restarts.
func (r *Restart) OnRestart() {
	r.conflictCount = 0
}
