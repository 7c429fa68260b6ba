package threeval

import (
	"fmt"

	"github.com/circuitlogic/implog/circuit"
)

// Eval computes the new value of a gate of the given kind from its
// current fanin values, allocating a fresh X-tag through alloc when the
// result is genuinely unknown. INPUT and the TIE* kinds hold their value
// directly rather than computing it from fanin, so callers never route
// them through Eval; passing one here is a caller error and reports the
// same illegal-gate-kind failure spec.md §4.4 assigns to any other
// unrecognized kind reaching the evaluator.
func Eval(kind circuit.Kind, inputs []Value, alloc *Allocator) (Value, error) {
	switch kind {
	case circuit.And:
		return evalAnd(inputs, alloc), nil
	case circuit.Nand:
		return evalAnd(inputs, alloc).Invert(), nil
	case circuit.Or:
		return evalOr(inputs, alloc), nil
	case circuit.Nor:
		return evalOr(inputs, alloc).Invert(), nil
	case circuit.Xor:
		return evalXor(inputs, alloc), nil
	case circuit.Xnor:
		return evalXor(inputs, alloc).Invert(), nil
	case circuit.Not:
		if len(inputs) != 1 {
			return 0, fmt.Errorf("threeval: NOT gate with %d inputs, want 1", len(inputs))
		}
		return inputs[0].Invert(), nil
	case circuit.Buf, circuit.Output, circuit.Dff:
		if len(inputs) != 1 {
			return 0, fmt.Errorf("threeval: %s gate with %d inputs, want 1", kind, len(inputs))
		}
		return inputs[0], nil
	default:
		return 0, fmt.Errorf("threeval: illegal gate kind %s reached evaluator", kind)
	}
}

// evalAnd implements the AND rule: a controlling 0 on any input wins;
// otherwise identical inputs (same constant or same X-tag) pass through;
// otherwise a complementary X-pair among the inputs forces 0; otherwise
// the result is a fresh, independent unknown. Controlling-value detection
// must run before the all-equal and complementary-pair checks, both for
// correctness (an input of exactly 0 short-circuits regardless of what
// the other inputs are) and to avoid the O(n^2) complementary-pair scan
// whenever a 0 is already present.
func evalAnd(inputs []Value, alloc *Allocator) Value {
	for _, v := range inputs {
		if v == Zero {
			return Zero
		}
	}
	if allEqual(inputs) {
		return inputs[0]
	}
	if hasComplementaryPair(inputs) {
		return Zero
	}
	return alloc.Fresh()
}

// evalOr is AND's dual: a controlling 1 wins, then all-equal inputs pass
// their shared value through (the original implementation's OR fast path
// assigned the gate id of the fanin rather than its value here, a defect
// spec.md's open question calls out; this follows AND's value-based
// approach instead), then a complementary X-pair forces 1 (not 0).
func evalOr(inputs []Value, alloc *Allocator) Value {
	for _, v := range inputs {
		if v == One {
			return One
		}
	}
	if allEqual(inputs) {
		return inputs[0]
	}
	if hasComplementaryPair(inputs) {
		return One
	}
	return alloc.Fresh()
}

// evalXor implements the XOR rule. A single-input XOR degenerates to
// XOR(a, a), which is always 0 under the same-tag-cancels rule below,
// regardless of what a is.
func evalXor(inputs []Value, alloc *Allocator) Value {
	if len(inputs) == 1 {
		return Zero
	}
	acc := inputs[0]
	for _, b := range inputs[1:] {
		acc = xorPair(acc, b, alloc)
	}
	return acc
}

func xorPair(a, b Value, alloc *Allocator) Value {
	if !a.IsX() && !b.IsX() {
		return Value(uint32(a) ^ uint32(b))
	}
	if a.Equal(b) {
		return Zero
	}
	if a.Complementary(b) {
		return One
	}
	return alloc.Fresh()
}

func allEqual(inputs []Value) bool {
	for _, v := range inputs[1:] {
		if v != inputs[0] {
			return false
		}
	}
	return true
}

func hasComplementaryPair(inputs []Value) bool {
	for i, vi := range inputs {
		if !vi.IsX() {
			continue
		}
		for j, vj := range inputs {
			if i == j {
				continue
			}
			if vi.Complementary(vj) {
				return true
			}
		}
	}
	return false
}
