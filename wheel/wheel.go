// Package wheel implements the level-bucketed event scheduler that drives
// the three-valued simulator: a pending gate-id is always evaluated only
// after every gate at a strictly smaller level that is already scheduled.
//
// Grounded on the teacher's sat/trail.go queue-discipline style (a small
// owned slice of pending work plus a membership flag to keep it idempotent)
// and, for the scheduled-membership flag itself, on the corpus's use of
// github.com/willf/bitset as a dense boolean index over gate ids.
package wheel

import "github.com/willf/bitset"

// Wheel is a level-bucketed pending-evaluation queue. No gate ever appears
// in two buckets at once; Insert is idempotent while a gate is already
// scheduled. It is owned by exactly one sim.Driver/circuit instance and
// shares no mutable state with any other Wheel.
type Wheel struct {
	buckets   [][]int // buckets[level] is a FIFO of pending gate ids at that level
	scheduled *bitset.BitSet
	cursor    int

	// dffWrap collects DFFs reactivated during the current drain so they
	// can be re-enqueued at level 0 after the drain completes, rather than
	// fed back into the bucket the drain is still iterating over (spec.md
	// §4.2: "deferred to a post-drain phase that re-queues them at level 0
	// for the next simulation").
	dffWrap []int
}

// New allocates a wheel sized for a circuit with maxLevel+1 levels
// (0..maxLevel) and numGates gate ids (0..numGates-1, id 0 unused).
func New(maxLevel, numGates int) *Wheel {
	return &Wheel{
		buckets:   make([][]int, maxLevel+1),
		scheduled: bitset.New(uint(numGates)),
	}
}

// Insert schedules g for evaluation at the given level. A gate already
// scheduled is left alone (idempotent), matching spec.md §4.2's insert
// rule exactly.
func (w *Wheel) Insert(g, level int) {
	if w.scheduled.Test(uint(g)) {
		return
	}
	w.scheduled.Set(uint(g))
	w.buckets[level] = append(w.buckets[level], g)
}

// Retrieve pops the next gate to evaluate, advancing the cursor past empty
// buckets. It returns ok=false once every bucket from the current cursor
// to the end has drained.
func (w *Wheel) Retrieve() (g int, ok bool) {
	for w.cursor < len(w.buckets) {
		bucket := w.buckets[w.cursor]
		if len(bucket) == 0 {
			w.cursor++
			continue
		}
		g = bucket[0]
		w.buckets[w.cursor] = bucket[1:]
		w.scheduled.Clear(uint(g))
		return g, true
	}
	return 0, false
}

// Reset clears every bucket and the scheduled bitmap, and rewinds the
// cursor to level 0. The learner calls this between independent Phase B
// simulation runs to also wipe out any still-scheduled gates and restart
// from a clean bitmap, which RewindCursor alone does not do.
func (w *Wheel) Reset() {
	for i := range w.buckets {
		w.buckets[i] = nil
	}
	w.scheduled.ClearAll()
	w.cursor = 0
	w.dffWrap = w.dffWrap[:0]
}

// RewindCursor rewinds the cursor to level 0 without touching the buckets
// or the scheduled bitmap. Grounded on original_source/logic_sim.cpp's
// goodsim(), which resets currLevel = 0 at the top of every call: a drain
// only ever advances the cursor forward, so without this every GoodSim
// call after the first would find the cursor already past every bucket
// and retrieve nothing.
func (w *Wheel) RewindCursor() {
	w.cursor = 0
}

// MarkDFF records that DFF gate g changed state during the current drain
// and must be re-enqueued at level 0 for the *next* simulation pass rather
// than immediately, since level 0 is behind the drain cursor by the time a
// DFF's value settles.
func (w *Wheel) MarkDFF(g int) {
	w.dffWrap = append(w.dffWrap, g)
}

// FlushDFF returns the gate ids marked by MarkDFF since the last FlushDFF
// or Reset, and clears the list. Call this once after a drain completes
// (Retrieve returns ok=false), then Insert each returned id at level 0 for
// the next good_sim call.
func (w *Wheel) FlushDFF() []int {
	out := w.dffWrap
	w.dffWrap = nil
	return out
}
