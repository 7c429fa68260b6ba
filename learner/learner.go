// Package learner implements the implication-graph learner (spec.md C6):
// Phase A seeds direct implications from gate semantics, Phase B iterates
// simulation-driven indirect learning to a fixed point, and contradictory
// literals are marked fixed.
//
// Grounded on the teacher's top-level orchestration style (a single
// exported entry point that walks the whole gate array once per phase),
// with Phase A/B timings and per-iteration progress logged through
// zerolog the same way the corpus's simulation runners report timing and
// counters instead of printing them directly.
package learner

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/circuitlogic/implog/circuit"
	"github.com/circuitlogic/implog/implication"
	"github.com/circuitlogic/implog/sim"
	"github.com/circuitlogic/implog/threeval"
)

// Stats reports the counters spec.md §4.6 and the `stats` REPL command
// (spec.md §6) require: simulation count, indirect-implication count,
// fixed-gate count, and wall-clock elapsed milliseconds per phase.
type Stats struct {
	NumSimulations          int
	NumIndirectImplications int
	FixedNodeCounter        int
	PhaseAElapsedMillis     float64
	PhaseBElapsedMillis     float64
}

// Learner owns the implication database it builds and the driver it
// drives to learn indirect implications.
type Learner struct {
	ckt    *circuit.Circuit
	db     *implication.DB
	driver *sim.Driver
	log    zerolog.Logger
	stats  Stats
}

// New creates a learner over ckt, with a fresh implication database and
// simulator driver. Run must be called once before the database is
// queried.
func New(ckt *circuit.Circuit, log zerolog.Logger) *Learner {
	return &Learner{
		ckt:    ckt,
		db:     implication.New(ckt.NumGates()),
		driver: sim.NewDriver(ckt, log),
		log:    log,
	}
}

func (l *Learner) DB() *implication.DB { return l.db }
func (l *Learner) Stats() Stats        { return l.stats }

// Run executes Phase A then Phase B exactly once, per spec.md §4.6. It is
// meant to be called once at circuit construction.
func (l *Learner) Run() {
	start := time.Now()
	l.phaseA()
	l.stats.PhaseAElapsedMillis = msSince(start)
	l.log.Info().
		Float64("elapsed_ms", l.stats.PhaseAElapsedMillis).
		Msg("phase A direct implications complete")

	start = time.Now()
	l.phaseB()
	l.stats.PhaseBElapsedMillis = msSince(start)
	l.log.Info().
		Float64("elapsed_ms", l.stats.PhaseBElapsedMillis).
		Int("num_simulations", l.stats.NumSimulations).
		Int("num_indirect_implications", l.stats.NumIndirectImplications).
		Int("fixed_node_counter", l.stats.FixedNodeCounter).
		Msg("phase B indirect implications complete")
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}

// phaseA seeds structural direct implications and their contrapositives
// for every gate (spec.md §4.6 Phase A). Reflexive edges are already
// present from implication.New.
func (l *Learner) phaseA() {
	for g := 1; g < l.ckt.NumGates(); g++ {
		fanin := l.ckt.Fanin(g)
		switch l.ckt.Kind(g) {
		case circuit.And:
			for _, p := range fanin {
				l.addWithContrapositive(circuit.Lit(g, circuit.One), circuit.Lit(p, circuit.One))
			}
		case circuit.Nand:
			for _, p := range fanin {
				l.addWithContrapositive(circuit.Lit(g, circuit.Zero), circuit.Lit(p, circuit.One))
			}
		case circuit.Or:
			for _, p := range fanin {
				l.addWithContrapositive(circuit.Lit(g, circuit.Zero), circuit.Lit(p, circuit.Zero))
			}
		case circuit.Nor:
			for _, p := range fanin {
				l.addWithContrapositive(circuit.Lit(g, circuit.One), circuit.Lit(p, circuit.Zero))
			}
		case circuit.Buf, circuit.Output:
			if len(fanin) == 1 {
				p := fanin[0]
				l.addWithContrapositive(circuit.Lit(g, circuit.Zero), circuit.Lit(p, circuit.Zero))
				l.addWithContrapositive(circuit.Lit(g, circuit.One), circuit.Lit(p, circuit.One))
			}
		case circuit.Not:
			if len(fanin) == 1 {
				p := fanin[0]
				l.addWithContrapositive(circuit.Lit(g, circuit.Zero), circuit.Lit(p, circuit.One))
				l.addWithContrapositive(circuit.Lit(g, circuit.One), circuit.Lit(p, circuit.Zero))
			}
		}
	}
}

// addWithContrapositive records src -> dst and its logically equivalent
// contrapositive ¬dst -> ¬src (spec.md §4.6 step 3).
func (l *Learner) addWithContrapositive(src, dst circuit.Literal) {
	l.db.Insert(src, dst)
	l.db.Insert(dst.Negate(), src.Negate())
}

// phaseB runs the baseline all-X simulation, then iterates simulation-
// driven indirect learning to a fixed point for every literal (spec.md
// §4.6 Phase B).
func (l *Learner) phaseB() {
	allX := make([]byte, len(l.ckt.PrimaryInputs()))
	for i := range allX {
		allX[i] = 'X'
	}
	if err := l.driver.ApplyVector(string(allX)); err != nil {
		// ApplyVector only rejects a short vector or an illegal symbol;
		// an all-X vector with one symbol per primary input (empty for a
		// circuit with no primary inputs) is always accepted.
		return
	}
	if err := l.driver.GoodSim(false); err != nil {
		l.log.Error().Err(err).Msg("baseline simulation failed")
		return
	}
	l.stats.NumSimulations++

	baseline := l.driver.State().Snapshot()
	baselineMark := l.driver.State().Alloc.Mark()

	for g := 1; g < l.ckt.NumGates(); g++ {
		l.learnLiteral(circuit.Lit(g, circuit.Zero), baseline, baselineMark)
		l.learnLiteral(circuit.Lit(g, circuit.One), baseline, baselineMark)
	}
}

// learnLiteral runs spec.md §4.6 Phase B's per-literal iteration loop to
// a fixed point for src.
func (l *Learner) learnLiteral(src circuit.Literal, baseline []threeval.Value, baselineMark threeval.Value) {
	for {
		l.driver.Reset(baseline, baselineMark)

		closure, contradiction := l.db.Close(src)
		if contradiction {
			l.db.Clear(src)
			l.stats.FixedNodeCounter++
			l.log.Debug().Str("literal", src.String()).Msg("literal fixed: closure contradiction")
			return
		}

		for lit := range closure {
			l.driver.State().Values[lit.Gate] = valueOf(lit.Bit)
			for _, s := range l.ckt.Fanout(lit.Gate) {
				l.driver.Wheel().Insert(s, l.ckt.Level(s))
			}
		}

		if err := l.driver.GoodSim(false); err != nil {
			l.log.Error().Err(err).Str("literal", src.String()).Msg("indirect simulation failed")
			return
		}
		l.stats.NumSimulations++

		direct := l.db.Direct(src)
		var delta []circuit.Literal
		for _, chg := range l.driver.Changes() {
			if _, already := direct[chg]; !already {
				delta = append(delta, chg)
			}
		}
		if len(delta) == 0 {
			return
		}
		for _, d := range delta {
			l.db.Insert(src, d)
		}
		l.stats.NumIndirectImplications += len(delta)
	}
}

func valueOf(b circuit.Bit) threeval.Value {
	if b == circuit.One {
		return threeval.One
	}
	return threeval.Zero
}
