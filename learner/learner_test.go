package learner_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circuitlogic/implog/circuit"
	"github.com/circuitlogic/implog/learner"
	"github.com/circuitlogic/implog/sim"
)

func mustBuild(t *testing.T, b *circuit.Builder) *circuit.Circuit {
	t.Helper()
	c, err := b.Build()
	require.NoError(t, err)
	return c
}

// TestScenarioA_TwoInputAND matches spec.md §8 scenario A.
func TestScenarioA_TwoInputAND(t *testing.T) {
	b := circuit.NewBuilder(5)
	b.Set(1, circuit.Input, nil, []int{3}, 0)
	b.Set(2, circuit.Input, nil, []int{3}, 0)
	b.Set(3, circuit.And, []int{1, 2}, []int{4}, 1)
	b.Set(4, circuit.Output, []int{3}, nil, 2)
	ckt := mustBuild(t, b)

	l := learner.New(ckt, zerolog.Nop())
	l.Run()

	db := l.DB()
	assert.True(t, db.Has(circuit.Lit(3, circuit.One), circuit.Lit(1, circuit.One)))
	assert.True(t, db.Has(circuit.Lit(3, circuit.One), circuit.Lit(2, circuit.One)))
	assert.True(t, db.Has(circuit.Lit(1, circuit.Zero), circuit.Lit(3, circuit.Zero)))
	assert.True(t, db.Has(circuit.Lit(2, circuit.Zero), circuit.Lit(3, circuit.Zero)))

	driver := sim.NewDriver(ckt, zerolog.Nop())
	cases := []struct {
		vector string
		want   string
	}{
		{"11", "1"},
		{"10", "0"},
		{"XX", "X"},
		{"X0", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.vector, func(t *testing.T) {
			require.NoError(t, driver.ApplyVector(tc.vector))
			require.NoError(t, driver.GoodSim(false))
			assert.Equal(t, tc.want, driver.POProjection())
		})
	}
}

// TestScenarioB_InverterChain matches spec.md §8 scenario B.
func TestScenarioB_InverterChain(t *testing.T) {
	b := circuit.NewBuilder(5)
	b.Set(1, circuit.Input, nil, []int{2}, 0)
	b.Set(2, circuit.Not, []int{1}, []int{3}, 1)
	b.Set(3, circuit.Not, []int{2}, []int{4}, 2)
	b.Set(4, circuit.Output, []int{3}, nil, 3)
	ckt := mustBuild(t, b)

	l := learner.New(ckt, zerolog.Nop())
	l.Run()

	closure, contradiction := l.DB().Close(circuit.Lit(1, circuit.Zero))
	require.False(t, contradiction)
	assert.ElementsMatch(t, []circuit.Literal{
		circuit.Lit(1, circuit.Zero),
		circuit.Lit(2, circuit.One),
		circuit.Lit(3, circuit.Zero),
		circuit.Lit(4, circuit.Zero),
	}, keys(closure))

	driver := sim.NewDriver(ckt, zerolog.Nop())
	require.NoError(t, driver.ApplyVector("X"))
	piTag := driver.State().Values[1]
	require.NoError(t, driver.GoodSim(false))
	assert.True(t, driver.State().Values[4].IsX())
	assert.Equal(t, piTag, driver.State().Values[4])
}

// TestScenarioC_XORCancellation matches spec.md §8 scenario C.
func TestScenarioC_XORCancellation(t *testing.T) {
	b := circuit.NewBuilder(4)
	b.Set(1, circuit.Input, nil, []int{2}, 0)
	b.Set(2, circuit.Xor, []int{1, 1}, []int{3}, 1)
	b.Set(3, circuit.Output, []int{2}, nil, 2)
	ckt := mustBuild(t, b)

	driver := sim.NewDriver(ckt, zerolog.Nop())
	require.NoError(t, driver.ApplyVector("X"))
	require.NoError(t, driver.GoodSim(false))
	assert.Equal(t, "0", driver.POProjection())
}

// TestScenarioD_ComplementaryX matches spec.md §8 scenario D, and the
// same reconvergent structure also checks scenario F's implication
// (1,1) => (3,0), which no single Phase A edge records, and scenario E (a
// fixed gate discovered by closure contradiction) on the same small
// netlist.
func TestScenarioD_ComplementaryX(t *testing.T) {
	b := circuit.NewBuilder(5)
	b.Set(1, circuit.Input, nil, []int{2, 3}, 0)
	b.Set(2, circuit.Not, []int{1}, []int{3}, 1)
	b.Set(3, circuit.And, []int{1, 2}, []int{4}, 2)
	b.Set(4, circuit.Output, []int{3}, nil, 3)
	ckt := mustBuild(t, b)

	driver := sim.NewDriver(ckt, zerolog.Nop())
	require.NoError(t, driver.ApplyVector("X"))
	require.NoError(t, driver.GoodSim(false))
	assert.Equal(t, "0", driver.POProjection())

	l := learner.New(ckt, zerolog.Nop())
	l.Run()

	// Scenario F: (1,1) implies (3,0), though Phase A records no direct
	// edge between them. The implication is reached through the closure
	// (1,1) -> (2,0) -> (3,0), built from the contrapositives of NOT 2 and
	// AND 3; because Phase B pre-assigns the whole closure, its simulation
	// sees no change at gate 3 and adds no separate entry for it.
	closure1, contradiction1 := l.DB().Close(circuit.Lit(1, circuit.One))
	require.False(t, contradiction1)
	assert.Contains(t, closure1, circuit.Lit(3, circuit.Zero))

	// Scenario E: (3,1) is structurally unreachable (AND of a value and
	// its own inverse); Phase B's closure contradiction fixes it.
	assert.True(t, l.DB().IsFixed(circuit.Lit(3, circuit.One)))
	assert.GreaterOrEqual(t, l.Stats().FixedNodeCounter, 1)
}

// TestScenarioE_TieDrivenFixedGate is the tie-gate analog of the
// contradiction above: in a TIE1-rooted sub-circuit with no primary
// inputs, AND 3 of the tie and its inverse can never be 1, so the closure
// of (3,1) contradicts and (3,1) is fixed.
func TestScenarioE_TieDrivenFixedGate(t *testing.T) {
	b := circuit.NewBuilder(5)
	b.Set(1, circuit.Tie1, nil, []int{2, 3}, 0)
	b.Set(2, circuit.Not, []int{1}, []int{3}, 1)
	b.Set(3, circuit.And, []int{1, 2}, []int{4}, 2)
	b.Set(4, circuit.Output, []int{3}, nil, 3)
	ckt := mustBuild(t, b)

	l := learner.New(ckt, zerolog.Nop())
	l.Run()

	assert.True(t, l.DB().IsFixed(circuit.Lit(3, circuit.One)))
	assert.Equal(t, 0, len(ckt.PrimaryInputs()))
}

func keys(m map[circuit.Literal]struct{}) []circuit.Literal {
	out := make([]circuit.Literal, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
