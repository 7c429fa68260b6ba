package sim

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/circuitlogic/implog/circuit"
	"github.com/circuitlogic/implog/threeval"
	"github.com/circuitlogic/implog/wheel"
)

// Driver is the simulator driver (spec.md C4): it owns a circuit's State
// and event Wheel, applies input vectors, drains the wheel through the
// three-valued evaluator, and records the literals that settle to a
// constant so the learner can observe indirect consequences.
type Driver struct {
	ckt   *circuit.Circuit
	state *State
	wheel *wheel.Wheel
	log   zerolog.Logger

	changes   []circuit.Literal
	goodState map[int]threeval.Value
	simCount  int
}

// NewDriver builds a driver over a freshly-initialized State for ckt. log
// is held for verbose good_sim PO-projection reporting; pass
// zerolog.Nop() to disable it entirely.
//
// Grounded on original_source/logic_sim.cpp's setTieEvents(): every tie
// gate's successors are enqueued immediately so the very first GoodSim
// call propagates the netlist's constants, even into fanout cones with
// no primary input of their own.
func NewDriver(ckt *circuit.Circuit, log zerolog.Logger) *Driver {
	d := &Driver{
		ckt:   ckt,
		state: NewState(ckt),
		wheel: wheel.New(ckt.MaxLevel(), ckt.NumGates()),
		log:   log.With().Str("circuit", ckt.ID().String()).Logger(),
	}
	for g := 1; g < ckt.NumGates(); g++ {
		if !ckt.Kind(g).IsTie() {
			continue
		}
		for _, s := range ckt.Fanout(g) {
			d.wheel.Insert(s, ckt.Level(s))
		}
	}
	return d
}

func (d *Driver) State() *State       { return d.state }
func (d *Driver) Wheel() *wheel.Wheel { return d.wheel }
func (d *Driver) SimCount() int       { return d.simCount }

// Changes returns the literals that settled to a constant (0 or 1) since
// the buffer was last cleared by ClearChanges.
func (d *Driver) Changes() []circuit.Literal { return d.changes }

func (d *Driver) ClearChanges() { d.changes = d.changes[:0] }

// GoodState returns the flip-flop next-state values recorded by the most
// recent GoodSim call, keyed by DFF gate id.
func (d *Driver) GoodState() map[int]threeval.Value { return d.goodState }

// SeedInitState forces each flip-flop's held value from seed (keyed by
// DFF gate id, as produced by netlist.ParseInitState) and enqueues its
// successors, so the next GoodSim call propagates the reset state before
// any primary-input vector is applied. Grounded on original_source's
// setTieEvents(), which performs the same "force value, then schedule
// fanout" sequence for a cold .initState reset.
func (d *Driver) SeedInitState(seed map[int]threeval.Value) {
	for ff, v := range seed {
		d.state.Values[ff] = v
		for _, s := range d.ckt.Fanout(ff) {
			d.wheel.Insert(s, d.ckt.Level(s))
		}
	}
}

// Reset restores value[·] to snapshot, rewinds the X-allocator to
// allocMark, clears the event wheel, and clears the changes buffer. The
// learner calls this at the start of every Phase B iteration (spec.md
// §4.6 step 1) to reproduce the same baseline X-tags on every pass.
func (d *Driver) Reset(snapshot []threeval.Value, allocMark threeval.Value) {
	d.state.RestoreFrom(snapshot)
	d.state.Alloc.Restore(allocMark)
	d.wheel.Reset()
	d.changes = nil
	d.goodState = nil
}

// ApplyVector assigns each primary input its value from vector, one
// symbol per PI in PrimaryInputs() order, and enqueues every successor of
// a modified input. vector must already have spaces stripped (the
// interactive `sim` command does that before calling in); the open
// question in spec.md §9 ("reject when the symbol count is less than
// numpri") is resolved here as the length check.
func (d *Driver) ApplyVector(vector string) error {
	pis := d.ckt.PrimaryInputs()
	if len(vector) < len(pis) {
		return errors.Errorf("apply_vector: %d symbols, want at least %d", len(vector), len(pis))
	}
	for i, pi := range pis {
		switch vector[i] {
		case '0':
			d.state.Values[pi] = threeval.Zero
		case '1':
			d.state.Values[pi] = threeval.One
		case 'x', 'X':
			d.state.Values[pi] = d.state.Alloc.Fresh()
		default:
			return errors.Errorf("apply_vector: illegal symbol %q at position %d", vector[i], i)
		}
		for _, s := range d.ckt.Fanout(pi) {
			d.wheel.Insert(s, d.ckt.Level(s))
		}
	}
	return nil
}

// GoodSim rewinds the wheel's cursor to level 0 (every call starts a fresh
// walk, matching original_source's goodsim() resetting currLevel at the
// top), then drains the wheel to exhaustion, evaluating each dequeued gate
// and propagating changed values to its successors exactly like any other
// gate. A DFF that changes value is additionally staged on the wheel's
// post-drain wrap list, re-inserted at level 0 for the *next* GoodSim call
// once this drain finishes (spec.md §4.2, §4.4) — that staging is on top
// of, not instead of, its normal fanout propagation within this drain. If
// verbose, the primary-output projection is logged (see POProjection).
func (d *Driver) GoodSim(verbose bool) error {
	d.simCount++
	d.goodState = make(map[int]threeval.Value)
	d.wheel.RewindCursor()

	for {
		g, ok := d.wheel.Retrieve()
		if !ok {
			break
		}
		kind := d.ckt.Kind(g)
		fanin := d.ckt.Fanin(g)
		inputs := make([]threeval.Value, len(fanin))
		for i, p := range fanin {
			inputs[i] = d.state.Values[p]
		}

		newVal, err := threeval.Eval(kind, inputs, d.state.Alloc)
		if err != nil {
			return errors.Wrapf(err, "good_sim: gate %d (%s)", g, kind)
		}
		if newVal == d.state.Values[g] {
			continue
		}
		d.state.Values[g] = newVal

		if !newVal.IsX() {
			d.changes = append(d.changes, circuit.Lit(g, circuit.Bit(newVal)))
		}
		if kind == circuit.Dff {
			d.wheel.MarkDFF(g)
			d.goodState[g] = newVal
		}
		for _, s := range d.ckt.Fanout(g) {
			d.wheel.Insert(s, d.ckt.Level(s))
		}
	}

	for _, ff := range d.wheel.FlushDFF() {
		d.wheel.Insert(ff, 0)
	}

	if verbose {
		d.logPOProjection()
	}
	return nil
}

// POProjection renders the primary-output values in PrimaryOutputs()
// order (ascending gate id) as a string of '0'/'1'/'X' characters (spec.md §4.4's verbose good_sim report).
func (d *Driver) POProjection() string {
	var sb strings.Builder
	for _, po := range d.ckt.PrimaryOutputs() {
		sb.WriteString(d.state.Values[po].String())
	}
	return sb.String()
}

func (d *Driver) logPOProjection() {
	d.log.Debug().
		Int("sim_count", d.simCount).
		Str("po", d.POProjection()).
		Msg("good_sim po projection")
}
