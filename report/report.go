//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Package report renders a before/after simplification summary as a
// Unicode table, the way circuit.Timing.Print renders a profiling
// report: a tabulate.New table with one row per category and a bold
// totals row.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/markkurossi/tabulate"

	"github.com/markkurossi/circopt/circuit"
	"github.com/markkurossi/circopt/gate"
	"github.com/markkurossi/circopt/rewrite"
)

// CountByType tallies c's live (non-removable) gates by type.
func CountByType(c *circuit.Circuit) map[gate.Type]int {
	counts := make(map[gate.Type]int)
	for id := circuit.GateID(0); int(id) < c.GateCount(); id++ {
		if c.Removable(id) {
			continue
		}
		counts[c.Type(id)]++
	}
	return counts
}

// Report is a before/after gate-count snapshot plus the pass
// statistics that produced it.
type Report struct {
	Stats  *rewrite.Stats
	Before map[gate.Type]int
	After  map[gate.Type]int
}

// New builds a Report from a pre-pass gate-type snapshot, the
// post-pass circuit and the pass statistics.
func New(before map[gate.Type]int, after *circuit.Circuit, stats *rewrite.Stats) *Report {
	return &Report{
		Stats:  stats,
		Before: before,
		After:  CountByType(after),
	}
}

func sortedTypes(a, b map[gate.Type]int) []gate.Type {
	seen := make(map[gate.Type]bool)
	var types []gate.Type
	for t := range a {
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	for t := range b {
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// Print renders the report as a Unicode table to out.
func (r *Report) Print(out io.Writer) {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Gate").SetAlign(tabulate.ML)
	tab.Header("Before").SetAlign(tabulate.MR)
	tab.Header("After").SetAlign(tabulate.MR)
	tab.Header("Delta").SetAlign(tabulate.MR)

	var totalBefore, totalAfter int
	for _, t := range sortedTypes(r.Before, r.After) {
		before := r.Before[t]
		after := r.After[t]
		totalBefore += before
		totalAfter += after

		row := tab.Row()
		row.Column(t.String())
		row.Column(fmt.Sprintf("%d", before))
		row.Column(fmt.Sprintf("%d", after))
		row.Column(fmt.Sprintf("%+d", after-before))
	}

	row := tab.Row()
	row.Column("Total").SetFormat(tabulate.FmtBold)
	row.Column(fmt.Sprintf("%d", totalBefore)).SetFormat(tabulate.FmtBold)
	row.Column(fmt.Sprintf("%d", totalAfter)).SetFormat(tabulate.FmtBold)
	row.Column(fmt.Sprintf("%+d", totalAfter-totalBefore)).SetFormat(tabulate.FmtBold)

	if r.Stats != nil {
		row = tab.Row()
		row.Column("├╴Cones considered").SetFormat(tabulate.FmtItalic)
		row.Column(fmt.Sprintf("%d", r.Stats.ConesConsidered)).SetFormat(tabulate.FmtItalic)
		row.Column("").SetFormat(tabulate.FmtItalic)
		row.Column("").SetFormat(tabulate.FmtItalic)

		row = tab.Row()
		row.Column("╰╴Replacements applied").SetFormat(tabulate.FmtItalic)
		row.Column(fmt.Sprintf("%d", r.Stats.Replacements)).SetFormat(tabulate.FmtItalic)
		row.Column("").SetFormat(tabulate.FmtItalic)
		row.Column("").SetFormat(tabulate.FmtItalic)
	}

	tab.Print(out)
}
