package netlist

import (
	"bufio"
	"io"

	"github.com/pkg/errors"

	"github.com/circuitlogic/implog/threeval"
)

// ParseInitState reads an optional .initState file: one character per
// flip-flop, in FlipFlops() order. '0' seeds the constant 0, '1' seeds
// the constant 1 ("all-ones mask" in spec.md §6 collapses to the single-
// bit constant 1 in this per-gate value model), anything else seeds a
// fresh X-tag. Only consulted when implogcfg enables resetting from a
// known state (disabled by default).
func ParseInitState(r io.Reader, ffs []int, alloc *threeval.Allocator) (map[int]threeval.Value, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	sc.Split(bufio.ScanRunes)

	out := make(map[int]threeval.Value, len(ffs))
	for _, ff := range ffs {
		if !sc.Scan() {
			return nil, errors.Errorf("init-state: fewer characters than flip-flops (need %d)", len(ffs))
		}
		switch sc.Text() {
		case "0":
			out[ff] = threeval.Zero
		case "1":
			out[ff] = threeval.One
		default:
			out[ff] = alloc.Fresh()
		}
	}
	return out, nil
}
