package implogcfg

import (
	"github.com/pkg/errors"

	"github.com/circuitlogic/implog/circuit"
)

// CheckBounds enforces the netlist bound violations of spec.md §7 kind 2
// (fanout > limit, level > limit, FF count > limit, tie count > limit). A
// zero-valued bound in Config means "unbounded" — Default() enforces
// nothing, matching the zero value's role as the out-of-the-box
// configuration.
func (c Config) CheckBounds(ckt *circuit.Circuit) error {
	if c.MaxLevels > 0 && ckt.MaxLevel() > c.MaxLevels {
		return errors.Errorf("netlist bound violation: max level %d exceeds configured limit %d", ckt.MaxLevel(), c.MaxLevels)
	}
	if c.MaxFFs > 0 && len(ckt.FlipFlops()) > c.MaxFFs {
		return errors.Errorf("netlist bound violation: %d flip-flops exceed configured limit %d", len(ckt.FlipFlops()), c.MaxFFs)
	}

	tieCount := 0
	for g := 1; g < ckt.NumGates(); g++ {
		if c.MaxFanout > 0 {
			if n := len(ckt.Fanout(g)); n > c.MaxFanout {
				return errors.Errorf("netlist bound violation: gate %d fanout %d exceeds configured limit %d", g, n, c.MaxFanout)
			}
		}
		if ckt.Kind(g).IsTie() {
			tieCount++
		}
	}
	if c.MaxTies > 0 && tieCount > c.MaxTies {
		return errors.Errorf("netlist bound violation: %d tie gates exceed configured limit %d", tieCount, c.MaxTies)
	}
	return nil
}
