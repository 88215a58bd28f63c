//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package rewrite

import (
	"fmt"

	"github.com/markkurossi/circopt/circuit"
	"github.com/markkurossi/circopt/db"
)

const noGate circuit.GateID = -1

// replBuilder instantiates one database record's gate list into a
// live circuit, reusing an existing gate wherever its truth value
// already appears among the cone's inputs/gates (including through
// negationUsers, the existing-NOT-of-this-value lookup three-coloring
// maintains) instead of allocating a duplicate.
type replBuilder struct {
	c             *circuit.Circuit
	rec           *db.Record
	mask          uint64
	built         map[int]circuit.GateID
	values        map[int]uint64
	valueToGate   map[uint64]circuit.GateID
	negationUsers []circuit.GateID
	visiting      map[int]bool
	reused        map[circuit.GateID]bool
}

func (b *replBuilder) materialize(localID int) (circuit.GateID, error) {
	if g, ok := b.built[localID]; ok {
		return g, nil
	}
	if b.visiting[localID] {
		return 0, fmt.Errorf("rewrite: database record has a cyclic gate reference at %d", localID)
	}

	gidx := localID - b.rec.InputsNumber
	if gidx < 0 || gidx >= len(b.rec.Gates) {
		return 0, fmt.Errorf("rewrite: database record references undefined gate %d", localID)
	}
	b.visiting[localID] = true
	defer delete(b.visiting, localID)

	gop := b.rec.Gates[gidx]
	operands := make([]circuit.GateID, len(gop.Operands))
	opValues := make([]uint64, len(gop.Operands))
	for i, opLocal := range gop.Operands {
		g, err := b.materialize(opLocal)
		if err != nil {
			return 0, err
		}
		operands[i] = g
		opValues[i] = b.values[opLocal]
	}
	value := gop.Type.Eval64(opValues...) & b.mask

	if existing, ok := b.valueToGate[value]; ok {
		b.built[localID] = existing
		b.values[localID] = value
		b.reused[existing] = true
		return existing, nil
	}
	if b.negationUsers != nil {
		if base, ok := b.valueToGate[(^value)&b.mask]; ok && int(base) < len(b.negationUsers) {
			if user := b.negationUsers[base]; user != noGate {
				b.built[localID] = user
				b.values[localID] = value
				b.valueToGate[value] = user
				b.reused[user] = true
				return user, nil
			}
		}
	}

	id, err := b.c.AddGate(gop.Type, operands...)
	if err != nil {
		return 0, err
	}
	b.built[localID] = id
	b.values[localID] = value
	b.valueToGate[value] = id
	return id, nil
}

// reachable returns every gate transitively reachable from roots by
// following operands, roots included. Iterative with an explicit
// stack for the same reason circuit.Circuit.dependsOn is: a cone's
// dependency chain can run as deep as the circuit.
func reachable(c *circuit.Circuit, roots []circuit.GateID) map[circuit.GateID]bool {
	seen := make(map[circuit.GateID]bool, len(roots))
	stack := append([]circuit.GateID(nil), roots...)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		stack = append(stack, c.Operands(id)...)
	}
	return seen
}

// Apply instantiates rec's gate list into c, reusing cone gates whose
// truth value already matches (including via negationUsers, which may
// be nil to disable that lookup), and returns the new gate id for
// each of cone's original outputs -- result[i] replaces cone.Outputs[i].
// perm is the permutation Canonicalize returned for the cone's output
// truth tables: perm[i] gives the original output index that
// rec.Outputs[i] corresponds to.
func Apply(c *circuit.Circuit, cone *Cone, rec *db.Record, perm []int, negationUsers []circuit.GateID) ([]circuit.GateID, error) {
	k := len(cone.Inputs)
	mask := coneMask(k)
	coneVals := evalCone(c, cone)

	isOutput := make(map[circuit.GateID]bool, len(cone.Outputs))
	for _, id := range cone.Outputs {
		isOutput[id] = true
	}

	valueToGate := make(map[uint64]circuit.GateID, len(cone.Gates)+len(cone.Inputs))
	for i, in := range cone.Inputs {
		valueToGate[inputPattern(i, k)&mask] = in
	}
	// A cone output's own value is, by construction, exactly the value
	// the database match is replacing; seeding it here would let the
	// very first lookup short-circuit back to the gate being replaced
	// instead of materializing rec's smaller realization. Non-output
	// internal gates are still fair game for reuse.
	for _, id := range cone.Gates {
		if isOutput[id] {
			continue
		}
		v := coneVals[id] & mask
		if _, ok := valueToGate[v]; !ok {
			valueToGate[v] = id
		}
	}

	b := &replBuilder{
		c:             c,
		rec:           rec,
		mask:          mask,
		built:         make(map[int]circuit.GateID, rec.InputsNumber+len(rec.Gates)),
		values:        make(map[int]uint64, rec.InputsNumber+len(rec.Gates)),
		valueToGate:   valueToGate,
		negationUsers: negationUsers,
		visiting:      make(map[int]bool),
		reused:        make(map[circuit.GateID]bool),
	}
	for i, in := range cone.Inputs {
		b.built[i] = in
		b.values[i] = inputPattern(i, k) & mask
	}

	newOutputs := make([]circuit.GateID, len(cone.Outputs))
	for sortedIdx, origIdx := range perm {
		localID := rec.Outputs[sortedIdx]
		g, err := b.materialize(localID)
		if err != nil {
			return nil, err
		}
		newOutputs[origIdx] = g
	}

	// A cone gate is only safe to drop if nothing surviving still
	// depends on it. Self-reuse -- materialize returning an existing
	// gate verbatim, e.g. because the cone's own apex already computed
	// the wanted value -- leaves that gate's old operand wiring
	// untouched, so its operand subtree is still load-bearing even
	// though it isn't itself a freshly built gate.
	keep := reachable(c, newOutputs)
	for _, id := range cone.Gates {
		if !keep[id] {
			c.MarkRemovable(id)
		}
	}

	return newOutputs, rewireOutputs(c, cone, newOutputs)
}

// rewireOutputs redirects every external user (and primary-output
// slot) of cone.Outputs[i] to newOutputs[i].
func rewireOutputs(c *circuit.Circuit, cone *Cone, newOutputs []circuit.GateID) error {
	internal := make(map[circuit.GateID]bool, len(cone.Gates))
	for _, id := range cone.Gates {
		internal[id] = true
	}

	for i, oldOut := range cone.Outputs {
		newOut := newOutputs[i]
		if newOut == oldOut {
			continue
		}
		for _, user := range append([]circuit.GateID(nil), c.Users(oldOut)...) {
			if internal[user] {
				continue
			}
			ops := append([]circuit.GateID(nil), c.Operands(user)...)
			changed := false
			for j, op := range ops {
				if op == oldOut {
					ops[j] = newOut
					changed = true
				}
			}
			if changed {
				if err := c.Rewire(user, ops...); err != nil {
					return fmt.Errorf("rewrite: rewiring user %d of cone output %d: %w", user, oldOut, err)
				}
			}
		}

		outputs := c.Outputs()
		for j, id := range outputs {
			if id == oldOut {
				outputs[j] = newOut
			}
		}
	}
	return nil
}
