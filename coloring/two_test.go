//
// Copyright (c) 2019 Markku Rossi
//
// All rights reserved.
//

package coloring

import (
	"testing"

	"github.com/markkurossi/circopt/circuit"
	"github.com/markkurossi/circopt/gate"
)

func buildDuplicateAnds(t *testing.T) (*circuit.Circuit, circuit.GateID, circuit.GateID) {
	t.Helper()
	c := circuit.New()
	a, _ := c.AddGate(gate.Input)
	b, _ := c.AddGate(gate.Input)
	g, _ := c.AddGate(gate.And, a, b)
	h, _ := c.AddGate(gate.And, a, b)
	c.SetOutputs([]circuit.GateID{g, h})
	return c, g, h
}

func TestTwoColoringSharesColorForSameParents(t *testing.T) {
	c, g, h := buildDuplicateAnds(t)
	order, err := circuit.Sort(c)
	if err != nil {
		t.Fatalf("Sort: %s", err)
	}
	tc := Build(c, order)

	cg, ok := tc.Color(g)
	if !ok {
		t.Fatalf("gate g has no color")
	}
	ch, ok := tc.Color(h)
	if !ok {
		t.Fatalf("gate h has no color")
	}
	if cg != ch {
		t.Fatalf("g and h share parents (a,b) but got different colors %d != %d", cg, ch)
	}
	if len(tc.Colors[cg].Gates()) != 2 {
		t.Fatalf("color gate list = %v, want 2 entries", tc.Colors[cg].Gates())
	}
}

func TestTwoColoringLeavesInputsUncolored(t *testing.T) {
	c := circuit.New()
	a, _ := c.AddGate(gate.Input)
	n, _ := c.AddGate(gate.Not, a)
	c.SetOutputs([]circuit.GateID{n})

	order, err := circuit.Sort(c)
	if err != nil {
		t.Fatalf("Sort: %s", err)
	}
	tc := Build(c, order)

	if _, ok := tc.Color(a); ok {
		t.Fatalf("input gate should not be colored")
	}
	if _, ok := tc.Color(n); ok {
		t.Fatalf("unary gate should not be colored by two-coloring")
	}
}

func TestTwoColoringCanonicalizesParentOrder(t *testing.T) {
	c := circuit.New()
	a, _ := c.AddGate(gate.Input)
	b, _ := c.AddGate(gate.Input)
	g, _ := c.AddGate(gate.And, a, b)
	h, _ := c.AddGate(gate.Or, b, a) // reversed operand order
	c.SetOutputs([]circuit.GateID{g, h})

	order, err := circuit.Sort(c)
	if err != nil {
		t.Fatalf("Sort: %s", err)
	}
	tc := Build(c, order)

	cg, _ := tc.Color(g)
	ch, _ := tc.Color(h)
	if cg != ch {
		t.Fatalf("colors over (a,b) and (b,a) should canonicalize to the same color")
	}
}
