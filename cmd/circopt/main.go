//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Command circopt reads a BENCH-format combinational circuit, runs
// the subcircuit-matching simplifier against a precomputed database,
// and writes the simplified circuit back out.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/markkurossi/circopt/bench"
	"github.com/markkurossi/circopt/circuit"
	"github.com/markkurossi/circopt/coloring"
	"github.com/markkurossi/circopt/config"
	"github.com/markkurossi/circopt/db"
	"github.com/markkurossi/circopt/dbreg"
	"github.com/markkurossi/circopt/gate"
	"github.com/markkurossi/circopt/report"
	"github.com/markkurossi/circopt/rewrite"
	"github.com/markkurossi/circopt/xlog"
)

// Exit codes, per the command's documented contract: 0 success, 1 bad
// arguments, 2 missing database, 3 parse error, 4 internal failure.
const (
	exitOK = iota
	exitBadArgs
	exitMissingDatabase
	exitParseError
	exitInternalError
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		dbPath   = flag.String("db", "", "subcircuit database path")
		basisStr = flag.String("basis", "BENCH", "database basis (AIG or BENCH)")
		out      = flag.String("o", "", "output path (default: standard output)")
		minCone  = flag.Int("min-cone", 2, "minimum cone size to consider for replacement")
		noThree  = flag.Bool("no-three-coloring", false, "disable the three-coloring pass")
		verbose  = flag.Bool("v", false, "enable debug logging")
		printRpt = flag.Bool("report", false, "print a before/after simplification report to stderr")
	)
	flag.Parse()

	level := xlog.Info
	if *verbose {
		level = xlog.Debug
	}
	logger := xlog.New("circopt", os.Stderr, level)

	if flag.NArg() != 1 {
		logger.Errorf("usage: circopt [flags] input.bench")
		return exitBadArgs
	}
	basis, err := gate.ParseBasis(*basisStr)
	if err != nil {
		logger.Errorf("%s", err)
		return exitBadArgs
	}

	opts := config.New()
	opts.Basis = basis
	opts.DatabasePath = *dbPath
	opts.EnableThreeColoring = !*noThree
	opts.MinConeSize = *minCone
	if err := opts.Validate(); err != nil {
		logger.Errorf("%s", err)
		return exitBadArgs
	}

	registry := dbreg.NewRegistry()
	if err := registry.Load(opts.Basis, opts.DatabasePath, logger); err != nil {
		logger.Errorf("%s", err)
		return exitMissingDatabase
	}
	cdb, _ := registry.Get(opts.Basis)

	in, err := os.Open(flag.Arg(0))
	if err != nil {
		logger.Errorf("%s", err)
		return exitParseError
	}
	c, err := bench.Parse(in)
	in.Close()
	if err != nil {
		logger.Errorf("%s", err)
		return exitParseError
	}

	before := report.CountByType(c)

	stats, err := simplify(c, cdb, opts, logger)
	if err != nil {
		logger.Errorf("%s", err)
		return exitInternalError
	}

	outWriter := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			logger.Errorf("%s", err)
			return exitInternalError
		}
		defer f.Close()
		outWriter = f
	}
	if err := bench.Write(outWriter, c); err != nil {
		logger.Errorf("%s", err)
		return exitInternalError
	}

	if *printRpt {
		report.New(before, c, stats).Print(os.Stderr)
	}

	return exitOK
}

// simplify repeatedly two- (and, unless disabled, three-) colors c
// and runs a rewrite pass over the result, stopping once a pass makes
// no further replacements. Each iteration re-colors from scratch: a
// replacement changes the circuit's shape, so a stale coloring could
// reference gates the previous pass already marked removable.
func simplify(c *circuit.Circuit, cdb *db.CircuitDB, opts *config.Options, logger *xlog.Logger) (*rewrite.Stats, error) {
	total := &rewrite.Stats{GatesBefore: c.LiveGateCount()}

	for {
		order, err := circuit.Sort(c)
		if err != nil {
			return total, fmt.Errorf("circopt: %w", err)
		}
		two := coloring.Build(c, order)

		var three *coloring.ThreeColoring
		if opts.EnableThreeColoring {
			three, err = coloring.BuildThreeColoring(c, order, two)
			if err != nil {
				return total, fmt.Errorf("circopt: %w", err)
			}
		}

		pass := &rewrite.Pass{
			Circuit:     c,
			DB:          cdb,
			Logger:      logger,
			MinConeSize: opts.MinConeSize,
		}
		roundStats, err := pass.Run(three, two)
		if err != nil {
			return total, fmt.Errorf("circopt: %w", err)
		}
		total.ConesConsidered += roundStats.ConesConsidered
		total.Replacements += roundStats.Replacements

		if roundStats.Replacements == 0 {
			break
		}
	}

	total.GatesAfter = c.LiveGateCount()
	return total, nil
}
