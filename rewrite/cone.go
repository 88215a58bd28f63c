//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Package rewrite implements the pattern extractor and replacer: for
// each coloring the coloring package produces, build the cone of
// gates it bounds, fingerprint it against the subcircuit database,
// and splice in a strictly smaller equivalent when one is found.
package rewrite

import (
	"sort"

	"github.com/markkurossi/circopt/circuit"
)

// Cone is the set of gates reachable downward through operands from a
// color's apex gates, bounded by the color's parent set: Inputs are
// the parents (never themselves part of the cone), Gates are every
// internal gate the cone reaches (in ascending, topologically valid
// order), and Outputs are the subset of Gates with at least one user
// outside the cone or that are primary outputs of the circuit -- the
// values that must survive a replacement.
type Cone struct {
	Inputs  []circuit.GateID
	Gates   []circuit.GateID
	Outputs []circuit.GateID
}

// Build constructs the cone bounded by inputs and reachable from
// apexes (a color's painted gate list).
func Build(c *circuit.Circuit, inputs, apexes []circuit.GateID) *Cone {
	bound := make(map[circuit.GateID]bool, len(inputs))
	for _, id := range inputs {
		bound[id] = true
	}

	internal := make(map[circuit.GateID]bool)
	var visit func(id circuit.GateID)
	visit = func(id circuit.GateID) {
		if bound[id] || internal[id] {
			return
		}
		internal[id] = true
		for _, op := range c.Operands(id) {
			visit(op)
		}
	}
	for _, apex := range apexes {
		visit(apex)
	}

	gates := make([]circuit.GateID, 0, len(internal))
	for id := range internal {
		gates = append(gates, id)
	}
	sort.Slice(gates, func(i, j int) bool { return gates[i] < gates[j] })

	primary := make(map[circuit.GateID]bool, len(c.Outputs()))
	for _, id := range c.Outputs() {
		primary[id] = true
	}

	var outputs []circuit.GateID
	for _, id := range gates {
		if primary[id] {
			outputs = append(outputs, id)
			continue
		}
		for _, user := range c.Users(id) {
			if !internal[user] {
				outputs = append(outputs, id)
				break
			}
		}
	}

	ins := append([]circuit.GateID(nil), inputs...)
	return &Cone{Inputs: ins, Gates: gates, Outputs: outputs}
}
