//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package rewrite

import (
	"testing"

	"github.com/markkurossi/circopt/circuit"
	"github.com/markkurossi/circopt/db"
	"github.com/markkurossi/circopt/gate"
)

func TestApplyReplacesThreeGateConeWithOneGate(t *testing.T) {
	c, a, b, g, h, k := buildXorOfAndOr(t)
	cone := Build(c, []circuit.GateID{a, b}, []circuit.GateID{k})

	tables := TruthTables(c, cone)
	sorted, perm := Canonicalize(tables)

	rec := &db.Record{
		InputsNumber:  2,
		OutputsNumber: 1,
		Outputs:       []int{2},
		Gates:         []db.GateOp{{Type: gate.Xor, Operands: []int{0, 1}}},
	}
	if len(sorted) != 1 || sorted[0] != 6 {
		t.Fatalf("sorted truth table = %v, want [6]", sorted)
	}

	newOutputs, err := Apply(c, cone, rec, perm, nil)
	if err != nil {
		t.Fatalf("Apply: %s", err)
	}
	if len(newOutputs) != 1 {
		t.Fatalf("newOutputs = %v, want 1 entry", newOutputs)
	}
	n := newOutputs[0]
	if n == k {
		t.Fatalf("Apply reused the old apex %d verbatim; it must materialize rec's own gate", k)
	}
	if c.Type(n) != gate.Xor {
		t.Fatalf("new gate type = %s, want XOR", c.Type(n))
	}
	ops := c.Operands(n)
	if len(ops) != 2 || ops[0] != a || ops[1] != b {
		t.Fatalf("new gate operands = %v, want [a b]", ops)
	}

	if len(c.Outputs()) != 1 || c.Outputs()[0] != n {
		t.Fatalf("c.Outputs() = %v, want [%d]", c.Outputs(), n)
	}
	for _, id := range []circuit.GateID{g, h, k} {
		if !c.Removable(id) {
			t.Errorf("gate %d should be marked removable", id)
		}
	}
	if c.Removable(n) {
		t.Fatalf("the newly materialized gate must not be marked removable")
	}
	if got := c.LiveGateCount(); got != 3 {
		t.Fatalf("LiveGateCount() = %d, want 3 (a, b, the new XOR)", got)
	}
}

func TestApplyReusesExistingNegationInsteadOfDuplicating(t *testing.T) {
	c := circuit.New()
	a, _ := c.AddGate(gate.Input)
	b, _ := c.AddGate(gate.Input)
	n0, _ := c.AddGate(gate.Not, a)
	g, _ := c.AddGate(gate.Not, a)
	c.SetOutputs([]circuit.GateID{n0, g})

	negationUsers := make([]circuit.GateID, c.GateCount())
	for i := range negationUsers {
		negationUsers[i] = noGate
	}
	negationUsers[a] = n0

	cone := Build(c, []circuit.GateID{a, b}, []circuit.GateID{g})
	tables := TruthTables(c, cone)
	sorted, perm := Canonicalize(tables)

	rec := &db.Record{
		InputsNumber:  2,
		OutputsNumber: 1,
		Outputs:       []int{2},
		Gates:         []db.GateOp{{Type: gate.Not, Operands: []int{0}}},
	}

	newOutputs, err := Apply(c, cone, rec, perm, negationUsers)
	if err != nil {
		t.Fatalf("Apply: %s", err)
	}
	if len(sorted) != 1 {
		t.Fatalf("sorted = %v, want 1 entry", sorted)
	}
	if newOutputs[0] != n0 {
		t.Fatalf("newOutputs[0] = %d, want the pre-existing NOT(a) gate %d reused", newOutputs[0], n0)
	}
	if !c.Removable(g) {
		t.Fatalf("the superseded gate %d must be marked removable", g)
	}
	if c.Removable(n0) {
		t.Fatalf("the reused gate %d must not be marked removable", n0)
	}
	outs := c.Outputs()
	if len(outs) != 2 || outs[0] != n0 || outs[1] != n0 {
		t.Fatalf("c.Outputs() = %v, want [%d %d]", outs, n0, n0)
	}
}
