// Package repl implements the interactive command loop of spec.md §6: a
// line-oriented read-eval-print loop over help/quit/ckt/gate/imp/sim/stats.
//
// Grounded on original_source/circuit_repl.cpp's CircuitREPL: one
// dispatch switch keyed on the first whitespace-delimited token, with
// malformed or out-of-range arguments reported inline and the loop kept
// alive (spec.md §7 kinds 4-5 are local, not fatal). strings.Fields /
// strings.SplitN take the place of the original's std::string::find +
// substr slicing.
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/circuitlogic/implog/circuit"
	"github.com/circuitlogic/implog/implication"
	"github.com/circuitlogic/implog/learner"
	"github.com/circuitlogic/implog/sim"
)

// REPL drives one circuit's command loop against in/out.
type REPL struct {
	path    string
	ckt     *circuit.Circuit
	db      *implication.DB
	learner *learner.Learner
	driver  *sim.Driver

	in  *bufio.Scanner
	out io.Writer
}

// New builds a REPL for an already-learned circuit. path is the circuit
// file stem printed by the `ckt` command.
func New(path string, ckt *circuit.Circuit, l *learner.Learner, driver *sim.Driver, in io.Reader, out io.Writer) *REPL {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 4096), 1<<20)
	return &REPL{path: path, ckt: ckt, db: l.DB(), learner: l, driver: driver, in: sc, out: out}
}

// Run reads commands until `quit` or end of input, printing the welcome
// banner once at the start (original_source's printWelcome).
func (r *REPL) Run() {
	fmt.Fprintln(r.out, "Welcome to the Gate Implication Simulator")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Enter a command, or help to begin")

	for {
		fmt.Fprint(r.out, ">")
		if !r.in.Scan() {
			return
		}
		if !r.dispatch(r.in.Text()) {
			return
		}
	}
}

// dispatch handles one line; it returns false only for `quit`.
func (r *REPL) dispatch(line string) bool {
	fields := strings.SplitN(strings.TrimSpace(line), " ", 2)
	cmd := fields[0]
	var arg string
	if len(fields) == 2 {
		arg = strings.TrimSpace(fields[1])
	}

	switch cmd {
	case "quit":
		return false
	case "":
		return true
	case "help":
		r.printHelp()
	case "ckt":
		r.printCircuitInfo()
	case "gate":
		r.printGate(arg)
	case "imp":
		r.printImplication(arg)
	case "sim":
		r.simVector(arg)
	case "stats":
		r.printStats()
	default:
		fmt.Fprintf(r.out, "Error: Unknown command %s\n", line)
		fmt.Fprintln(r.out, "Enter help for command list")
	}
	return true
}

func (r *REPL) printHelp() {
	fmt.Fprintln(r.out, "Gate Implication Simulator Help")
	fmt.Fprintln(r.out, "Please enter one of the following commands:")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "imp <gate number> <gate value>")
	fmt.Fprintln(r.out, "Prints the list of logical implications for the specified gate")
	fmt.Fprintln(r.out, "Example: >imp 1 0")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "sim <input vector>")
	fmt.Fprintln(r.out, "Prints the circuit POs for the given input vector")
	fmt.Fprintln(r.out, "Example: >sim 1X0")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "gate <gate number>")
	fmt.Fprintln(r.out, "Prints kind, fanin, and fanout for the specified gate")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "ckt")
	fmt.Fprintln(r.out, "Prints circuit path and summary")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "stats")
	fmt.Fprintln(r.out, "Prints implication-learning statistics")
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "quit")
	fmt.Fprintln(r.out, "Quits the simulator")
}

func (r *REPL) printCircuitInfo() {
	fmt.Fprintf(r.out, "Circuit: %s\n", r.path)
	s := r.ckt.Summary()
	fmt.Fprintf(r.out, "Gates: %d  PIs: %d  POs: %d  FFs: %d  Max level: %d\n",
		s.NumGates, s.NumPI, s.NumPO, s.NumFF, s.MaxLevel)
}

func (r *REPL) printGate(arg string) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		fmt.Fprintln(r.out, "ERROR: Invalid command format")
		return
	}
	if !r.ckt.InRange(n) {
		fmt.Fprintf(r.out, "ERROR: Invalid Gate Number %d\n", n)
		return
	}
	fmt.Fprintf(r.out, "Gate %d: kind=%s fanin=%v fanout=%v level=%d\n",
		n, r.ckt.Kind(n), r.ckt.Fanin(n), r.ckt.Fanout(n), r.ckt.Level(n))
}

func (r *REPL) printImplication(arg string) {
	fields := strings.Fields(arg)
	if len(fields) != 2 {
		fmt.Fprintln(r.out, "ERROR: Invalid command format")
		return
	}
	n, err1 := strconv.Atoi(fields[0])
	v, err2 := strconv.Atoi(fields[1])
	if err1 != nil || err2 != nil {
		fmt.Fprintln(r.out, "ERROR: Invalid command format")
		return
	}
	if !r.ckt.InRange(n) {
		fmt.Fprintf(r.out, "ERROR: Invalid Gate Number %d\n", n)
		return
	}
	if v != 0 && v != 1 {
		fmt.Fprintln(r.out, "ERROR: Invalid implication value (must be 0 or 1)")
		return
	}

	lit := circuit.Lit(n, circuit.Bit(v))
	if r.db.IsFixed(lit) {
		fmt.Fprintf(r.out, "Gate %d at value %d is not reachable in this circuit\n", n, v)
		return
	}
	closure, _ := r.db.Close(lit)
	fmt.Fprintf(r.out, "Gate %d at value %d implies:\n", n, v)
	for other := range closure {
		if other == lit {
			continue
		}
		fmt.Fprintf(r.out, "Gate %d at value %s\n", other.Gate, other.Bit)
	}
}

func (r *REPL) simVector(arg string) {
	var filtered strings.Builder
	for _, ch := range arg {
		switch ch {
		case '0', '1', 'x', 'X':
			filtered.WriteRune(ch)
		case ' ':
			// spaces are ignored, not an error
		default:
			fmt.Fprintf(r.out, "ERROR: Bad input value %c\n", ch)
			return
		}
	}
	if err := r.driver.ApplyVector(filtered.String()); err != nil {
		fmt.Fprintln(r.out, "ERROR: Bad input vector, too few values")
		return
	}
	if err := r.driver.GoodSim(true); err != nil {
		fmt.Fprintf(r.out, "ERROR: simulation failed: %v\n", err)
		return
	}
	fmt.Fprintln(r.out, r.driver.POProjection())
}

func (r *REPL) printStats() {
	s := r.learner.Stats()
	fmt.Fprintf(r.out, "Found a total of %d implications via logic simulation\n", s.NumIndirectImplications)
	fmt.Fprintf(r.out, "Found a total of %d fixed gates which can only take a single value\n", s.FixedNodeCounter)
	fmt.Fprintf(r.out, "Circuit was logic simulated %d times\n", s.NumSimulations)
	fmt.Fprintf(r.out, "Calculated all direct implications in %.3f milliseconds\n", s.PhaseAElapsedMillis)
	fmt.Fprintf(r.out, "Calculated all indirect implications in %.3f milliseconds\n", s.PhaseBElapsedMillis)
}
