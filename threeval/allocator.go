package threeval

// Allocator is the per-circuit monotonic X-tag counter. It is a plain
// counter, not a hashed identity table (design note: "do not hash
// X-identities") — fresh tags are simply the next even integer, advancing
// by 2 so that every tag's complement (tag+1) is reserved alongside it
// and never independently handed out.
//
// Scratch state like this must be owned per-instance rather than shared
// globally (design note: the original kept a mutable evalValues scratch
// list as global-ish state; this allocator is instead owned by exactly
// one sim.State per circuit instance).
type Allocator struct {
	next Value
}

// NewAllocator returns an allocator whose first Fresh() call yields the
// lowest X-tag (4).
func NewAllocator() *Allocator {
	return &Allocator{next: firstXTag}
}

// Fresh draws the next even X-tag and advances the counter by 2.
func (a *Allocator) Fresh() Value {
	v := a.next
	a.next += 2
	return v
}

// Mark captures the allocator's current position so it can later be
// restored with Restore. The learner captures this immediately after the
// baseline all-X simulation (spec §5: "the reset point of the allocator
// must be captured after the baseline all-X simulation"), so every
// learner iteration reproduces the exact same baseline X-tags.
func (a *Allocator) Mark() Value { return a.next }

// Restore rewinds the counter to a previously captured Mark, without
// zeroing it — preserving distinct tags already assigned to the baseline
// simulation.
func (a *Allocator) Restore(mark Value) { a.next = mark }
