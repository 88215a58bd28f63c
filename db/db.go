//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

// Package db implements the subcircuit database: the precomputed
// table of small optimal circuits the rewrite pass matches cones
// against, loaded from the text format
// original_source/src/simplification/utils/circuits_db.hpp reads.
package db

import (
	"github.com/markkurossi/circopt/gate"
)

// maxPatternArity bounds the number of truth-table outputs a single
// record may carry. circopt only ever builds cones from 2- or
// 3-parent colors, so no record needs more than a handful of output
// patterns; fixing the bound lets Key stay a plain comparable value
// instead of a slice, keeping CircuitDB.Lookup allocation-free on its
// hot per-cone path.
const maxPatternArity = 4

// GateOp is one gate of a database record: an operator and its
// operand ids, relative to the record's own numbering (inputs are
// 0..InputsNumber-1, gates follow starting at InputsNumber).
type GateOp struct {
	Type     gate.Type
	Operands []int
}

// Record is one parsed subcircuit: its arity, the truth-table pattern
// of each output, which gate ids are outputs, and the gate list that
// realizes them.
type Record struct {
	InputsNumber  int
	OutputsNumber int
	Outputs       []int
	Gates         []GateOp
}

// Key is the canonical sorted-output-pattern lookup key for one
// record.
type Key struct {
	Patterns [maxPatternArity]int64
	Count    int
}

// NewKey builds a Key from a slice of sorted truth-table patterns. It
// reports false if patterns is larger than maxPatternArity.
func NewKey(patterns []int64) (Key, bool) {
	var k Key
	if len(patterns) > maxPatternArity {
		return k, false
	}
	k.Count = len(patterns)
	copy(k.Patterns[:], patterns)
	return k, true
}

// CircuitDB is a loaded subcircuit database: a dense list of Records
// plus the pattern -> index lookup table.
type CircuitDB struct {
	Basis   gate.Basis
	Records []Record
	index   map[Key]int
}

// Lookup returns the record index whose sorted output pattern
// matches patterns, and whether one was found.
func (d *CircuitDB) Lookup(patterns []int64) (int, bool) {
	key, ok := NewKey(patterns)
	if !ok {
		return 0, false
	}
	idx, ok := d.index[key]
	return idx, ok
}

// Len returns the number of records in the database.
func (d *CircuitDB) Len() int {
	return len(d.Records)
}
