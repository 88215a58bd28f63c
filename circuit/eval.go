//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package circuit

import "github.com/markkurossi/circopt/gate"

// Eval evaluates every gate in topological order order, storing each
// gate's value into vs (indexed by GateID). vs must already hold
// values for every input gate in order; ConstFalse/ConstTrue gates
// are computed in place.
func (c *Circuit) Eval(order []GateID, vs []bool) {
	for _, id := range order {
		g := c.gates[id]
		if g.Type == gate.Input {
			continue
		}
		ops := make([]bool, len(g.Operands))
		for i, op := range g.Operands {
			ops[i] = vs[op]
		}
		vs[id] = g.Type.Eval(ops...)
	}
}

// Eval64 is like Eval but evaluates 64 input assignments in parallel,
// packed as the bits of a uint64, the way logic.C.Eval64 evaluates an
// AIG word-at-a-time. vs must hold assignment words for every input
// gate in order.
func (c *Circuit) Eval64(order []GateID, vs []uint64) {
	for _, id := range order {
		g := c.gates[id]
		if g.Type == gate.Input {
			continue
		}
		ops := make([]uint64, len(g.Operands))
		for i, op := range g.Operands {
			ops[i] = vs[op]
		}
		vs[id] = g.Type.Eval64(ops...)
	}
}
