// Package netlist reads the external gate-level netlist and flip-flop
// reset file formats (spec.md §6): `.lev` whitespace-tokenized records
// and the optional `.initState` flip-flop seed file. Both are external
// collaborators to the algorithmic core — they build a circuit.Circuit,
// they don't simulate or learn anything themselves.
//
// Grounded on the teacher's classical/lexer.go (a hand-rolled tokenizer
// feeding a recursive-descent parser) generalized from a boolean-
// expression character stream to a whitespace/numeric token stream, and
// on classical/parser.go's top-level `ParseX(input) (*T, error)` entry
// point shape.
package netlist

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"

	"github.com/circuitlogic/implog/circuit"
)

// kindByCode maps the .lev file's numeric gate-kind enumeration
// (spec.md §3's kind list, in declaration order) to circuit.Kind. Codes
// 1-15 are the supported kinds; anything else is the "illegal gate kind"
// fatal condition of spec.md §7 kind 3.
var kindByCode = map[int]circuit.Kind{
	1:  circuit.Input,
	2:  circuit.Output,
	3:  circuit.And,
	4:  circuit.Nand,
	5:  circuit.Or,
	6:  circuit.Nor,
	7:  circuit.Xor,
	8:  circuit.Xnor,
	9:  circuit.Not,
	10: circuit.Buf,
	11: circuit.Dff,
	12: circuit.Tie0,
	13: circuit.Tie1,
	14: circuit.TieX,
	15: circuit.TieZ,
}

// tokenizer pulls whitespace-delimited tokens from r one at a time,
// mirroring classical/lexer.go's Lexer.nextToken shape but over a plain
// numeric token stream instead of a character-class switch.
type tokenizer struct {
	sc  *bufio.Scanner
	pos int
}

func newTokenizer(r io.Reader) *tokenizer {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)
	return &tokenizer{sc: sc}
}

func (t *tokenizer) next() (string, bool) {
	if !t.sc.Scan() {
		return "", false
	}
	t.pos++
	return t.sc.Text(), true
}

func (t *tokenizer) nextInt() (int, error) {
	tok, ok := t.next()
	if !ok {
		return 0, errors.Errorf("unexpected end of netlist at token %d", t.pos)
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return 0, errors.Wrapf(err, "expected integer at token %d, got %q", t.pos, tok)
	}
	return n, nil
}

func (t *tokenizer) nextInts(count int) ([]int, error) {
	if count < 0 {
		return nil, errors.Errorf("negative count %d at token %d", count, t.pos)
	}
	out := make([]int, count)
	for i := range out {
		n, err := t.nextInt()
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// ParseLev reads a .lev netlist from r and builds a validated Circuit.
// Any malformed record or out-of-range reference is wrapped and returned
// as a fatal error (spec.md §7 kinds 1-2); the caller (cmd/implog) prints
// it to stderr and exits non-zero.
func ParseLev(r io.Reader) (*circuit.Circuit, error) {
	t := newTokenizer(r)

	count, err := t.nextInt()
	if err != nil {
		return nil, errors.Wrap(err, "netlist: reading gate count")
	}
	if count < 1 {
		return nil, errors.Errorf("netlist: gate count %d must be at least 1", count)
	}

	b := circuit.NewBuilder(count)
	for i := 0; i < count-1; i++ {
		if err := parseRecord(t, b, count); err != nil {
			return nil, errors.Wrapf(err, "netlist: gate record %d", i)
		}
	}

	c, err := b.Build()
	if err != nil {
		return nil, errors.Wrap(err, "netlist: invalid circuit")
	}
	return c, nil
}

// parseRecord reads one gate record: netnum kind level fanin_count
// fanin_ids... fanin_ids_redundant_block fanout_count fanout_ids...
// observability_junk. The redundant fanin block and the trailing
// observability field are both read and discarded; they carry no
// information this implementation needs beyond what fanin/fanout/level
// already supply.
func parseRecord(t *tokenizer, b *circuit.Builder, count int) error {
	netnum, err := t.nextInt()
	if err != nil {
		return errors.Wrap(err, "reading netnum")
	}
	if netnum < 1 || netnum >= count {
		return errors.Errorf("gate number %d out of range [1, %d)", netnum, count)
	}
	code, err := t.nextInt()
	if err != nil {
		return errors.Wrap(err, "reading kind")
	}
	kind, ok := kindByCode[code]
	if !ok {
		return errors.Errorf("illegal gate kind %d for gate %d", code, netnum)
	}
	level, err := t.nextInt()
	if err != nil {
		return errors.Wrap(err, "reading level")
	}

	faninCount, err := t.nextInt()
	if err != nil {
		return errors.Wrap(err, "reading fanin count")
	}
	fanin, err := t.nextInts(faninCount)
	if err != nil {
		return errors.Wrap(err, "reading fanin ids")
	}
	if _, err := t.nextInts(faninCount); err != nil {
		return errors.Wrap(err, "reading redundant fanin block")
	}

	fanoutCount, err := t.nextInt()
	if err != nil {
		return errors.Wrap(err, "reading fanout count")
	}
	fanout, err := t.nextInts(fanoutCount)
	if err != nil {
		return errors.Wrap(err, "reading fanout ids")
	}

	if _, err := t.nextInt(); err != nil {
		return errors.Wrap(err, "reading observability field")
	}

	b.Set(netnum, kind, fanin, fanout, level)
	return nil
}
