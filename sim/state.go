// Package sim implements the simulator driver (spec.md C4): applying a
// primary-input vector, draining the event wheel through the three-valued
// evaluator, and recording constant-value changes for the implication
// learner. Grounded on the teacher's classical/simulator-style drivers
// (a mutable State owned by the driver, advanced one gate at a time) and,
// for verbose PO-projection logging, on the corpus's zerolog-wired
// simulation runner (other_examples' kegliz-qplay style: a package-level
// or injected *zerolog.Logger rather than fmt.Println).
package sim

import (
	"github.com/circuitlogic/implog/circuit"
	"github.com/circuitlogic/implog/threeval"
)

// State is the mutable per-gate value vector plus the X-tag allocator that
// produced it. A Circuit holds no simulation state of its own (spec.md
// §3); every owner of a circuit instance owns exactly one State alongside
// it and shares it with no other instance.
type State struct {
	Values []threeval.Value
	Alloc  *threeval.Allocator
}

// NewState allocates a value vector sized for c and initializes it per
// spec.md §4.1: TIE0/TIE1 to their constants, every other gate (including
// TIEX, TIEZ, and ordinary INPUTs, which ApplyVector overwrites before
// first use) to a fresh, independent X-tag.
func NewState(c *circuit.Circuit) *State {
	values := make([]threeval.Value, c.NumGates())
	alloc := threeval.NewAllocator()
	for g := 1; g < c.NumGates(); g++ {
		switch c.Kind(g) {
		case circuit.Tie0:
			values[g] = threeval.Zero
		case circuit.Tie1:
			values[g] = threeval.One
		default:
			values[g] = alloc.Fresh()
		}
	}
	return &State{Values: values, Alloc: alloc}
}

// Snapshot copies the current value vector so it can later be restored
// with RestoreFrom. The learner's Phase B takes exactly one snapshot, of
// the all-X baseline, and restores it at the start of every iteration
// (spec.md §4.6).
func (s *State) Snapshot() []threeval.Value {
	cp := make([]threeval.Value, len(s.Values))
	copy(cp, s.Values)
	return cp
}

// RestoreFrom overwrites the value vector with a previously taken
// Snapshot. snapshot must have been taken from a State of the same
// circuit (same length).
func (s *State) RestoreFrom(snapshot []threeval.Value) {
	copy(s.Values, snapshot)
}
