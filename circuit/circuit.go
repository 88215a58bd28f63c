//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Package circuit implements the owning store of gates and their
// operands that every simplification pass borrows from.
package circuit

import (
	"fmt"

	"github.com/markkurossi/circopt/gate"
)

// GateID identifies a gate within one circuit. Ids are dense,
// contiguous from 0 and stable for the circuit's lifetime. AddGate
// only ever accepts operands that already exist, so insertion order
// is a valid topological order at construction time; Rewire can later
// point an older gate at a newer one (the rewrite pass splices
// replacement gates in after the users they feed), so id order alone
// no longer implies topological order once a circuit has been
// rewritten -- use Sort when an up-to-date order is needed.
type GateID int

// Gate is a tuple of id, type and ordered operand ids. Inputs have an
// empty Operands slice.
type Gate struct {
	ID       GateID
	Type     gate.Type
	Operands []GateID
}

func (g Gate) String() string {
	return fmt.Sprintf("%d = %s%v", g.ID, g.Type, g.Operands)
}

// Circuit is the mapping from GateID to Gate, plus the ordered list
// of primary outputs. It is the sole owner of gate data; colorings
// and the rewrite pass all borrow GateIDs and operand slices from it.
type Circuit struct {
	gates     []Gate
	outputs   []GateID
	users     [][]GateID // lazily built inverse index, kept incremental once built
	removable []bool
}

// New creates an empty circuit.
func New() *Circuit {
	return &Circuit{}
}

// NewCap creates an empty circuit with room for capHint gates.
func NewCap(capHint int) *Circuit {
	return &Circuit{
		gates: make([]Gate, 0, capHint),
	}
}

// GateCount returns the number of gates in the circuit.
func (c *Circuit) GateCount() int {
	return len(c.gates)
}

// Type returns the type of gate id.
func (c *Circuit) Type(id GateID) gate.Type {
	return c.gates[id].Type
}

// Operands returns the ordered operand ids of gate id. The returned
// slice is a stable reference into the store; callers must not
// mutate it directly -- use Rewire.
func (c *Circuit) Operands(id GateID) []GateID {
	return c.gates[id].Operands
}

// Gate returns the full gate record for id.
func (c *Circuit) Gate(id GateID) Gate {
	return c.gates[id]
}

// Outputs returns the ordered list of primary-output gate ids.
func (c *Circuit) Outputs() []GateID {
	return c.outputs
}

// SetOutputs replaces the circuit's primary-output list.
func (c *Circuit) SetOutputs(outputs []GateID) {
	c.outputs = outputs
}

// Users returns the gates that use id as an operand, one entry per
// operand slot, so a gate using id twice appears twice. The
// index is built lazily on first use and kept consistent afterwards
// by AddGate/Rewire, per the design note on incremental user
// tracking: rewire is the only mutator, so invalidation is cheap.
func (c *Circuit) Users(id GateID) []GateID {
	c.ensureUsers()
	return c.users[id]
}

func (c *Circuit) ensureUsers() {
	if c.users != nil {
		return
	}
	c.users = make([][]GateID, len(c.gates))
	for _, g := range c.gates {
		for _, op := range g.Operands {
			c.users[op] = append(c.users[op], g.ID)
		}
	}
}

// AddGate appends a new gate of type t with the given operands,
// returning its id. The operands must already exist in the store
// (ids < the new gate's id); this preserves the "operand precedes
// user" invariant without a cycle search.
func (c *Circuit) AddGate(t gate.Type, operands ...GateID) (GateID, error) {
	id := GateID(len(c.gates))
	for _, op := range operands {
		if op < 0 || op >= id {
			return 0, fmt.Errorf("circuit: AddGate %s: operand %d is not a prior gate", t, op)
		}
	}
	ops := append([]GateID(nil), operands...)
	c.gates = append(c.gates, Gate{ID: id, Type: t, Operands: ops})
	c.removable = append(c.removable, false)
	if c.users != nil {
		c.users = append(c.users, nil)
		for _, op := range ops {
			c.users[op] = append(c.users[op], id)
		}
	}
	return id, nil
}

// Rewire replaces the operand list of an existing gate. It fails if
// any new operand does not exist, or if any new operand already
// depends -- transitively, through its own operands -- on id, which
// would close a cycle. Unlike AddGate, Rewire cannot lean on id
// ordering alone: the rewrite pass splices in freshly appended
// replacement gates (necessarily higher ids than the users they feed)
// as operands of older gates, so a real reachability check is needed.
func (c *Circuit) Rewire(id GateID, operands ...GateID) error {
	if id < 0 || int(id) >= len(c.gates) {
		return fmt.Errorf("circuit: Rewire: unknown gate %d", id)
	}
	for _, op := range operands {
		if op < 0 || int(op) >= len(c.gates) {
			return fmt.Errorf("circuit: Rewire %d: operand %d does not exist", id, op)
		}
		if op == id || c.dependsOn(op, id) {
			return &CycleError{GateID: id}
		}
	}

	old := c.gates[id].Operands
	if c.users != nil {
		for _, op := range old {
			c.users[op] = removeGateID(c.users[op], id)
		}
	}

	ops := append([]GateID(nil), operands...)
	c.gates[id].Operands = ops

	if c.users != nil {
		for _, op := range ops {
			c.users[op] = append(c.users[op], id)
		}
	}
	return nil
}

// dependsOn reports whether from transitively depends on target,
// i.e. target is reachable by repeatedly following from's operands.
// Iterative with an explicit stack, matching Sort's stack-safety
// concern: a dependency chain can be as deep as the circuit.
func (c *Circuit) dependsOn(from, target GateID) bool {
	stack := []GateID{from}
	visited := make(map[GateID]bool)
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id == target {
			return true
		}
		if visited[id] {
			continue
		}
		visited[id] = true
		stack = append(stack, c.gates[id].Operands...)
	}
	return false
}

func removeGateID(s []GateID, id GateID) []GateID {
	for i, v := range s {
		if v == id {
			return append(s[:i], s[i+1:]...)
		}
	}
	return s
}

// MarkRemovable flags id as superseded by a replacement; a later
// compaction pass (outside this core) is expected to drop it.
func (c *Circuit) MarkRemovable(id GateID) {
	c.removable[id] = true
}

// Removable reports whether id has been marked removable.
func (c *Circuit) Removable(id GateID) bool {
	return c.removable[id]
}

// LiveGateCount returns the number of gates not marked removable.
func (c *Circuit) LiveGateCount() int {
	n := 0
	for _, r := range c.removable {
		if !r {
			n++
		}
	}
	return n
}
