//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package report

import (
	"bytes"
	"testing"

	"github.com/markkurossi/circopt/circuit"
	"github.com/markkurossi/circopt/gate"
	"github.com/markkurossi/circopt/rewrite"
)

func TestCountByTypeIgnoresRemovable(t *testing.T) {
	c := circuit.New()
	a, _ := c.AddGate(gate.Input)
	b, _ := c.AddGate(gate.Input)
	g, _ := c.AddGate(gate.And, a, b)
	h, _ := c.AddGate(gate.Or, a, b)
	c.MarkRemovable(h)

	counts := CountByType(c)
	if counts[gate.Input] != 2 {
		t.Fatalf("counts[Input] = %d, want 2", counts[gate.Input])
	}
	if counts[gate.And] != 1 {
		t.Fatalf("counts[And] = %d, want 1", counts[gate.And])
	}
	if counts[gate.Or] != 0 {
		t.Fatalf("counts[Or] = %d, want 0 (marked removable)", counts[gate.Or])
	}
	_ = g
}

func TestPrintProducesNonEmptyOutput(t *testing.T) {
	c := circuit.New()
	a, _ := c.AddGate(gate.Input)
	b, _ := c.AddGate(gate.Input)
	c.AddGate(gate.Xor, a, b)
	c.SetOutputs([]circuit.GateID{2})

	before := map[gate.Type]int{gate.Input: 2, gate.And: 1, gate.Or: 1}
	stats := &rewrite.Stats{ConesConsidered: 2, Replacements: 1, GatesBefore: 5, GatesAfter: 3}
	r := New(before, c, stats)

	var buf bytes.Buffer
	r.Print(&buf)
	if buf.Len() == 0 {
		t.Fatalf("Print wrote no output")
	}
}
