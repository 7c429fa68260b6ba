package netlist_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/circuitlogic/implog/circuit"
	"github.com/circuitlogic/implog/netlist"
	"github.com/circuitlogic/implog/threeval"
)

// levRecord builds one whitespace-separated .lev record: netnum kind
// level fanin_count fanin_ids... fanin_ids_redundant_block fanout_count
// fanout_ids... observability_junk.
func levRecord(netnum, kind, level int, fanin, fanout []int) string {
	var sb strings.Builder
	write := func(n int) { sb.WriteString(" "); sb.WriteString(itoa(n)) }
	write(netnum)
	write(kind)
	write(level)
	write(len(fanin))
	for _, f := range fanin {
		write(f)
	}
	for _, f := range fanin { // redundant block
		write(f)
	}
	write(len(fanout))
	for _, f := range fanout {
		write(f)
	}
	write(0) // observability junk
	return strings.TrimSpace(sb.String())
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func TestParseLevTwoInputAND(t *testing.T) {
	// gate count token, then 4 gate records: PI 1, PI 2, AND 3, OUTPUT 4.
	lev := strings.Join([]string{
		"5",
		levRecord(1, 1, 0, nil, []int{3}),
		levRecord(2, 1, 0, nil, []int{3}),
		levRecord(3, 3, 1, []int{1, 2}, []int{4}),
		levRecord(4, 2, 2, []int{3}, nil),
	}, "\n")

	ckt, err := netlist.ParseLev(strings.NewReader(lev))
	require.NoError(t, err)

	s := ckt.Summary()
	assert.Equal(t, 4, s.NumGates)
	assert.Equal(t, 2, s.NumPI)
	assert.Equal(t, 1, s.NumPO)
	assert.Equal(t, circuit.And, ckt.Kind(3))
	assert.Equal(t, []int{1, 2}, ckt.Fanin(3))
}

func TestParseLevRejectsIllegalKind(t *testing.T) {
	lev := strings.Join([]string{
		"2",
		levRecord(1, 99, 0, nil, nil),
	}, "\n")
	_, err := netlist.ParseLev(strings.NewReader(lev))
	assert.Error(t, err)
}

func TestParseLevRejectsTruncatedRecord(t *testing.T) {
	_, err := netlist.ParseLev(strings.NewReader("3\n1 1 0 0 0 0"))
	assert.Error(t, err)
}

func TestParseInitState(t *testing.T) {
	alloc := threeval.NewAllocator()
	seed, err := netlist.ParseInitState(strings.NewReader("01x"), []int{5, 6, 7}, alloc)
	require.NoError(t, err)
	assert.Equal(t, threeval.Zero, seed[5])
	assert.Equal(t, threeval.One, seed[6])
	assert.True(t, seed[7].IsX())
}

func TestParseInitStateTooShort(t *testing.T) {
	alloc := threeval.NewAllocator()
	_, err := netlist.ParseInitState(strings.NewReader("0"), []int{5, 6}, alloc)
	assert.Error(t, err)
}
