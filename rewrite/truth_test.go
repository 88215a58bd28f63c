//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package rewrite

import (
	"testing"

	"github.com/markkurossi/circopt/circuit"
)

func TestInputPatternAndConeMask(t *testing.T) {
	// Over 4 rows (k=2), input 0 toggles every row, input 1 every 2 rows.
	if got := inputPattern(0, 2); got != 0b1010 {
		t.Fatalf("inputPattern(0,2) = %b, want 1010", got)
	}
	if got := inputPattern(1, 2); got != 0b1100 {
		t.Fatalf("inputPattern(1,2) = %b, want 1100", got)
	}
	if got := coneMask(2); got != 0b1111 {
		t.Fatalf("coneMask(2) = %b, want 1111", got)
	}
}

func TestTruthTablesTwoColorCone(t *testing.T) {
	c, a, b, g, h, _ := buildXorOfAndOr(t)
	cone := Build(c, []circuit.GateID{a, b}, []circuit.GateID{g, h})

	tables := TruthTables(c, cone)
	if len(tables) != 2 || tables[0] != 8 || tables[1] != 14 {
		t.Fatalf("TruthTables(g,h) = %v, want [8 14] (AND, OR over a,b)", tables)
	}
}

func TestTruthTablesThreeParentCollapsesToXor(t *testing.T) {
	c, a, b, _, _, k := buildXorOfAndOr(t)
	cone := Build(c, []circuit.GateID{a, b}, []circuit.GateID{k})

	tables := TruthTables(c, cone)
	if len(tables) != 1 || tables[0] != 6 {
		t.Fatalf("TruthTables(k) = %v, want [6] (a XOR b)", tables)
	}
}

func TestCanonicalizeSortsAndTracksPermutation(t *testing.T) {
	sorted, perm := Canonicalize([]int64{14, 8})
	if len(sorted) != 2 || sorted[0] != 8 || sorted[1] != 14 {
		t.Fatalf("sorted = %v, want [8 14]", sorted)
	}
	if len(perm) != 2 || perm[0] != 1 || perm[1] != 0 {
		t.Fatalf("perm = %v, want [1 0]", perm)
	}
}

func TestCanonicalizeAlreadySortedIsIdentityPermutation(t *testing.T) {
	sorted, perm := Canonicalize([]int64{8, 14})
	if sorted[0] != 8 || sorted[1] != 14 {
		t.Fatalf("sorted = %v, want [8 14]", sorted)
	}
	if perm[0] != 0 || perm[1] != 1 {
		t.Fatalf("perm = %v, want [0 1]", perm)
	}
}
