package circuit

import (
	"sort"

	"github.com/google/uuid"
)

// Circuit is the immutable gate graph built once from a parsed netlist
// and never mutated afterward (spec: "C1 is constructed once and never
// mutated"). It holds no simulation state; the mutable value vector and
// X-tag allocator belong to the sim package.
type Circuit struct {
	id       uuid.UUID
	gates    []Gate // index 0 unused; gate ids live in [1, len(gates))
	inputs   []int
	outputs  []int
	ffs      []int
	maxLevel int
}

// ID returns a stable identity for this circuit instance, letting log
// lines from concurrently-simulated independent circuits be told apart
// (spec §5: "multiple circuit instances may be simulated concurrently
// by independent owners; they share no mutable state").
func (c *Circuit) ID() uuid.UUID { return c.id }

// NumGates returns the gate count including the unused id 0 (so valid
// gate ids are [1, NumGates())).
func (c *Circuit) NumGates() int { return len(c.gates) }

func (c *Circuit) Kind(g int) Kind { return c.gates[g].Kind }

func (c *Circuit) Fanin(g int) []int { return c.gates[g].Fanin }

func (c *Circuit) Fanout(g int) []int { return c.gates[g].Fanout }

func (c *Circuit) Level(g int) int { return c.gates[g].Level }

func (c *Circuit) MaxLevel() int { return c.maxLevel }

// PrimaryInputs returns the gate ids of all INPUT gates, in ascending
// gate-id order.
func (c *Circuit) PrimaryInputs() []int { return c.inputs }

// PrimaryOutputs returns the gate ids of all OUTPUT gates, in ascending
// gate-id order.
func (c *Circuit) PrimaryOutputs() []int { return c.outputs }

// FlipFlops returns the gate ids of all DFF gates, in ascending gate-id
// order.
func (c *Circuit) FlipFlops() []int { return c.ffs }

func (c *Circuit) InRange(g int) bool { return g >= 1 && g < len(c.gates) }

// Summary mirrors the original gate implication simulator's `ckt`
// report: PI/PO/FF/gate/level counts in one bundle (spec.md §6 names the
// command but not its fields; original_source's printCircuitInfo does).
type Summary struct {
	NumGates int
	NumPI    int
	NumPO    int
	NumFF    int
	MaxLevel int
}

func (c *Circuit) Summary() Summary {
	return Summary{
		NumGates: len(c.gates) - 1,
		NumPI:    len(c.inputs),
		NumPO:    len(c.outputs),
		NumFF:    len(c.ffs),
		MaxLevel: c.maxLevel,
	}
}

// Builder assembles a Circuit gate by gate, then validates its structural
// invariants once at Build time. Grounded on the teacher's table-driven
// construction style (classical system builders assembling a structure
// field by field before validating it as a whole).
type Builder struct {
	gates []Gate
}

// NewBuilder allocates a builder for numGates total gates (the `count`
// header field of a .lev file); gate ids 1..numGates-1 are settable.
func NewBuilder(numGates int) *Builder {
	return &Builder{gates: make([]Gate, numGates)}
}

// Set records gate id's kind, fanin and fanout lists, and level. Fanin
// and fanout are both taken from the netlist (which supplies both
// directions) rather than derived, so Build can validate them against
// each other.
func (b *Builder) Set(id int, kind Kind, fanin, fanout []int, level int) {
	b.gates[id] = Gate{Kind: kind, Fanin: fanin, Fanout: fanout, Level: level}
}

// Build validates adjacency symmetry and level ordering (spec §3's C1
// invariants), tallies PI/PO/FF gates, and returns the immutable Circuit.
func (b *Builder) Build() (*Circuit, error) {
	fanoutOf := make(map[int]map[int]bool, len(b.gates))
	faninOf := make(map[int]map[int]bool, len(b.gates))

	for g := 1; g < len(b.gates); g++ {
		gate := b.gates[g]
		faninOf[g] = toSet(gate.Fanin)
		fanoutOf[g] = toSet(gate.Fanout)
	}
	for g := 1; g < len(b.gates); g++ {
		gate := b.gates[g]
		for _, p := range gate.Fanin {
			if p < 1 || p >= len(b.gates) {
				return nil, newInvariantError("Build", "gate %d fanin references out-of-range gate %d", g, p)
			}
			if !fanoutOf[p][g] {
				return nil, newInvariantError("Build", "gate %d lists %d as fanin but %d does not list %d as fanout", g, p, p, g)
			}
			// DFFs are the feedback-breaking point of a sequential netlist:
			// a DFF's level models its Q output as a pseudo primary input for
			// the next simulation pass, so its D fanin may legitimately sit
			// at a higher level than the flip-flop itself.
			if gate.Kind != Dff && b.gates[p].Level >= gate.Level {
				return nil, newInvariantError("Build", "gate %d at level %d has fanin %d at level %d (not strictly smaller)", g, gate.Level, p, b.gates[p].Level)
			}
		}
		for _, s := range gate.Fanout {
			if s < 1 || s >= len(b.gates) {
				return nil, newInvariantError("Build", "gate %d fanout references out-of-range gate %d", g, s)
			}
			if !faninOf[s][g] {
				return nil, newInvariantError("Build", "gate %d lists %d as fanout but %d does not list %d as fanin", g, s, s, g)
			}
		}
	}

	c := &Circuit{id: uuid.New(), gates: b.gates}
	for g := 1; g < len(b.gates); g++ {
		switch b.gates[g].Kind {
		case Input:
			c.inputs = append(c.inputs, g)
		case Output:
			c.outputs = append(c.outputs, g)
		case Dff:
			c.ffs = append(c.ffs, g)
		case 0:
			return nil, newInvariantError("Build", "gate %d has no kind assigned", g)
		}
		if b.gates[g].Level > c.maxLevel {
			c.maxLevel = b.gates[g].Level
		}
	}
	sort.Ints(c.inputs)
	sort.Ints(c.outputs)
	sort.Ints(c.ffs)
	return c, nil
}

func toSet(ids []int) map[int]bool {
	s := make(map[int]bool, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}
