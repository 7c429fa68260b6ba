// Command implog is the gate implication simulator's CLI entrypoint
// (spec.md §6): it loads a `<stem>.lev` netlist, optionally an
// `<stem>.initState` flip-flop seed, runs the implication learner once,
// and then drops into the interactive REPL.
//
// Grounded on the corpus's flat cmd/<binary>/main.go convention (e.g.
// user-none-eMkIII's root-level package main wiring its ui/ and emu/
// subpackages) applied to this repo's own library packages.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/circuitlogic/implog/circuit"
	"github.com/circuitlogic/implog/implogcfg"
	"github.com/circuitlogic/implog/learner"
	"github.com/circuitlogic/implog/netlist"
	"github.com/circuitlogic/implog/repl"
	"github.com/circuitlogic/implog/sim"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "usage: implog <circuit-file-stem>")
		return 1
	}
	stem := args[0]

	cfg, err := implogcfg.Load("implog.yaml")
	if err != nil {
		log.Error().Err(err).Msg("loading configuration")
		return 1
	}
	if cfg.Verbose {
		log = log.Level(zerolog.DebugLevel)
	} else {
		log = log.Level(zerolog.InfoLevel)
	}

	levPath := stem + ".lev"
	f, err := os.Open(levPath)
	if err != nil {
		log.Error().Err(err).Str("path", levPath).Msg("opening netlist")
		return 1
	}
	defer f.Close()

	ckt, err := netlist.ParseLev(f)
	if err != nil {
		log.Error().Err(err).Str("path", levPath).Msg("parsing netlist")
		return 1
	}
	if err := cfg.CheckBounds(ckt); err != nil {
		log.Error().Err(err).Msg("netlist bound violation")
		return 1
	}

	learn := learner.New(ckt, log)
	learn.Run()

	driver := sim.NewDriver(ckt, log)

	if cfg.ResetFromInitState {
		if err := applyInitState(stem, ckt, driver, &log); err != nil {
			log.Error().Err(err).Msg("reading init state")
			return 1
		}
	}

	r := repl.New(stem, ckt, learn, driver, os.Stdin, os.Stdout)
	r.Run()
	return 0
}

func applyInitState(stem string, ckt *circuit.Circuit, driver *sim.Driver, log *zerolog.Logger) error {
	path := stem + ".initState"
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug().Str("path", path).Msg("no init-state file, skipping reset")
			return nil
		}
		return err
	}
	defer f.Close()

	seed, err := netlist.ParseInitState(f, ckt.FlipFlops(), driver.State().Alloc)
	if err != nil {
		return err
	}
	driver.SeedInitState(seed)
	return nil
}
