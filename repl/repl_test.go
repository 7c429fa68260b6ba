package repl_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circuitlogic/implog/circuit"
	"github.com/circuitlogic/implog/learner"
	"github.com/circuitlogic/implog/repl"
	"github.com/circuitlogic/implog/sim"
)

func buildAND(t *testing.T) *circuit.Circuit {
	t.Helper()
	b := circuit.NewBuilder(5)
	b.Set(1, circuit.Input, nil, []int{3}, 0)
	b.Set(2, circuit.Input, nil, []int{3}, 0)
	b.Set(3, circuit.And, []int{1, 2}, []int{4}, 1)
	b.Set(4, circuit.Output, []int{3}, nil, 2)
	c, err := b.Build()
	require.NoError(t, err)
	return c
}

func newREPL(t *testing.T, input string) (*repl.REPL, *bytes.Buffer) {
	t.Helper()
	ckt := buildAND(t)
	l := learner.New(ckt, zerolog.Nop())
	l.Run()
	driver := sim.NewDriver(ckt, zerolog.Nop())
	var out bytes.Buffer
	return repl.New("and2", ckt, l, driver, strings.NewReader(input), &out), &out
}

func TestREPLSimAndQuit(t *testing.T) {
	r, out := newREPL(t, "sim 11\nquit\n")
	r.Run()
	assert.Contains(t, out.String(), "1\n")
}

func TestREPLGateOutOfRange(t *testing.T) {
	r, out := newREPL(t, "gate 99\nquit\n")
	r.Run()
	assert.Contains(t, out.String(), "Invalid Gate Number 99")
}

func TestREPLImpReachable(t *testing.T) {
	r, out := newREPL(t, "imp 3 0\nquit\n")
	r.Run()
	// imp 3 0 asks for AND(1,2)=0, which is reachable; check the header
	// line is at least printed without error.
	assert.Contains(t, out.String(), "Gate 3 at value 0 implies:")
}

func TestREPLUnknownCommand(t *testing.T) {
	r, out := newREPL(t, "bogus\nquit\n")
	r.Run()
	assert.Contains(t, out.String(), "Unknown command bogus")
}

func TestREPLStats(t *testing.T) {
	r, out := newREPL(t, "stats\nquit\n")
	r.Run()
	assert.Contains(t, out.String(), "implications via logic simulation")
}
