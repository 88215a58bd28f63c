//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package coloring

import (
	"fmt"

	"github.com/markkurossi/circopt/circuit"
	"github.com/markkurossi/circopt/gate"
)

// ThreeColor is an unordered triple of parent gate ids (stored sorted
// ascending) plus the gates painted with it.
type ThreeColor struct {
	FirstParent  circuit.GateID
	SecondParent circuit.GateID
	ThirdParent  circuit.GateID
	gates        []circuit.GateID
}

// Gates returns the gates painted with this color.
func (c *ThreeColor) Gates() []circuit.GateID {
	return c.gates
}

// HasParent reports whether id is one of the color's three parents.
func (c *ThreeColor) HasParent(id circuit.GateID) bool {
	return c.FirstParent == id || c.SecondParent == id || c.ThirdParent == id
}

func sortedTriple(a, b, g circuit.GateID) [3]circuit.GateID {
	t := [3]circuit.GateID{a, b, g}
	// three elements: a fixed in-place insertion sort is cheaper and
	// allocation-free compared to sort.Slice for a hot path.
	if t[0] > t[1] {
		t[0], t[1] = t[1], t[0]
	}
	if t[1] > t[2] {
		t[1], t[2] = t[2], t[1]
	}
	if t[0] > t[1] {
		t[0], t[1] = t[1], t[0]
	}
	return t
}

// ThreeColoring is the result of the three-coloring pass: the list of
// ThreeColor records, a per-gate list of up to 2 ColorIds, the
// sorted-parent-triple -> ColorID map, and the NegationUsers side
// table (gate id of the NOT that negates a given gate, if any).
type ThreeColoring struct {
	Colors         []ThreeColor
	GateColors     [][]ColorID
	NegationUsers  []circuit.GateID
	parentsToColor map[[3]circuit.GateID]ColorID
}

const noGate circuit.GateID = -1

func (tc *ThreeColoring) addColor(parents [3]circuit.GateID) ColorID {
	id := ColorID(len(tc.Colors))
	tc.Colors = append(tc.Colors, ThreeColor{
		FirstParent:  parents[0],
		SecondParent: parents[1],
		ThirdParent:  parents[2],
	})
	tc.parentsToColor[parents] = id
	return id
}

func (tc *ThreeColoring) findOrInsert(a, b, c circuit.GateID) ColorID {
	parents := sortedTriple(a, b, c)
	if id, ok := tc.parentsToColor[parents]; ok {
		return id
	}
	return tc.addColor(parents)
}

func (tc *ThreeColoring) paint(gateID circuit.GateID, color ColorID) {
	tc.Colors[color].gates = append(tc.Colors[color].gates, gateID)
	tc.GateColors[gateID] = append(tc.GateColors[gateID], color)
}

// Validate checks that no gate carries more than 2 ThreeColors and
// that parentsToColor is a bijection onto the index set of Colors --
// the invariants spec.md §8 #5 requires after every build.
func (tc *ThreeColoring) Validate() error {
	for id, colors := range tc.GateColors {
		if len(colors) > 2 {
			return fmt.Errorf("coloring: gate %d carries %d ThreeColors, want <= 2", id, len(colors))
		}
	}
	if len(tc.parentsToColor) != len(tc.Colors) {
		return fmt.Errorf("coloring: parentsToColor has %d entries for %d colors",
			len(tc.parentsToColor), len(tc.Colors))
	}
	return nil
}

// BuildThreeColoring runs the three-coloring pass over c, given its
// forward topological order and a precomputed TwoColoring. It walks
// gates in reverse topological order, the way
// original_source/src/simplification/utils/three_coloring.hpp's
// ThreeColoring constructor does, and applies the same case analysis
// (common / 3-1 / 1-3 / 3-2 / 2-3 / 2-2 / fallback) one-for-one.
func BuildThreeColoring(c *circuit.Circuit, order []circuit.GateID, two *TwoColoring) (*ThreeColoring, error) {
	n := c.GateCount()
	tc := &ThreeColoring{
		GateColors:     make([][]ColorID, n),
		NegationUsers:  make([]circuit.GateID, n),
		parentsToColor: make(map[[3]circuit.GateID]ColorID),
	}
	for i := range tc.NegationUsers {
		tc.NegationUsers[i] = noGate
	}

	for i := len(order) - 1; i >= 0; i-- {
		gateID := order[i]
		ops := c.Operands(gateID)

		if len(ops) == 0 {
			continue
		}
		if len(ops) == 1 {
			for _, color := range tc.GateColors[ops[0]] {
				tc.paint(gateID, color)
			}
			if c.Type(gateID) == gate.Not {
				tc.NegationUsers[ops[0]] = gateID
			}
			continue
		}
		if len(ops) > 2 {
			return nil, &circuit.NonBinaryGateError{GateID: gateID, Arity: len(ops)}
		}

		twoColorID, ok := two.Color(gateID)
		if !ok {
			continue
		}
		child1 := two.Colors[twoColorID].FirstParent
		child2 := two.Colors[twoColorID].SecondParent

		child1Two, child1HasTwo := two.Color(child1)
		child2Two, child2HasTwo := two.Color(child2)
		if !child1HasTwo && !child2HasTwo {
			continue
		}

		var commonColors []ColorID
		colorType13 := noColor
		colorType31 := noColor

		for _, c1 := range tc.GateColors[child1] {
			for _, c2 := range tc.GateColors[child2] {
				if c1 == c2 {
					commonColors = append(commonColors, c1)
				} else if tc.Colors[c2].HasParent(child1) {
					colorType13 = c2
				}
			}
			if tc.Colors[c1].HasParent(child2) {
				colorType31 = c1
			}
		}

		if len(commonColors) == 2 {
			tc.paint(gateID, commonColors[0])
			tc.paint(gateID, commonColors[1])
			continue
		}
		if len(commonColors) == 1 {
			tc.paint(gateID, commonColors[0])
			if colorType13 != noColor {
				tc.paint(gateID, colorType13)
			} else if colorType31 != noColor {
				tc.paint(gateID, colorType31)
			}
			continue
		}

		if colorType13 != noColor {
			tc.paint(gateID, colorType13)
			if child1HasTwo {
				p1 := two.Colors[child1Two].FirstParent
				p2 := two.Colors[child1Two].SecondParent
				colorType23 := noColor
				for _, c2 := range tc.GateColors[child2] {
					if tc.Colors[c2].HasParent(p1) && tc.Colors[c2].HasParent(p2) {
						colorType23 = c2
						break
					}
				}
				if colorType23 != noColor {
					tc.paint(gateID, colorType23)
				} else {
					tc.paint(gateID, tc.findOrInsert(p1, p2, child2))
				}
			}
			continue
		}

		if colorType31 != noColor {
			tc.paint(gateID, colorType31)
			if child2HasTwo {
				p1 := two.Colors[child2Two].FirstParent
				p2 := two.Colors[child2Two].SecondParent
				colorType32 := noColor
				for _, c1 := range tc.GateColors[child1] {
					if tc.Colors[c1].HasParent(p1) && tc.Colors[c1].HasParent(p2) {
						colorType32 = c1
						break
					}
				}
				if colorType32 != noColor {
					tc.paint(gateID, colorType32)
				} else {
					tc.paint(gateID, tc.findOrInsert(p1, p2, child1))
				}
			}
			continue
		}

		// Single pattern: child_2 has a TwoColor (p1, p2) and some
		// ThreeColor of child_1 already covers both.
		if child2HasTwo {
			p1 := two.Colors[child2Two].FirstParent
			p2 := two.Colors[child2Two].SecondParent
			colorType32 := noColor
			for _, c1 := range tc.GateColors[child1] {
				if tc.Colors[c1].HasParent(p1) && tc.Colors[c1].HasParent(p2) {
					colorType32 = c1
					break
				}
			}
			if colorType32 != noColor {
				tc.paint(gateID, colorType32)
				continue
			}
		}

		// Symmetric single 2-3 pattern.
		if child1HasTwo {
			p1 := two.Colors[child1Two].FirstParent
			p2 := two.Colors[child1Two].SecondParent
			colorType23 := noColor
			for _, c2 := range tc.GateColors[child2] {
				if tc.Colors[c2].HasParent(p1) && tc.Colors[c2].HasParent(p2) {
					colorType23 = c2
					break
				}
			}
			if colorType23 != noColor {
				tc.paint(gateID, colorType23)
				continue
			}
		}

		// 2-2 pattern: both children have a TwoColor.
		if child1HasTwo && child2HasTwo {
			p1 := two.Colors[child1Two].FirstParent
			p2 := two.Colors[child1Two].SecondParent
			p3 := two.Colors[child2Two].FirstParent
			p4 := two.Colors[child2Two].SecondParent

			switch {
			case two.Colors[child2Two].HasParent(p1):
				tc.paint(gateID, tc.findOrInsert(p2, p3, p4))
			case two.Colors[child2Two].HasParent(p2):
				tc.paint(gateID, tc.findOrInsert(p1, p3, p4))
			default:
				tc.paint(gateID, tc.findOrInsert(p1, p2, child2))
				tc.paint(gateID, tc.findOrInsert(p3, p4, child1))
			}
			continue
		}

		// Fallback: only one child has a TwoColor -- synthesize a
		// triple from that pair and the other, uncolored child.
		var parents [3]circuit.GateID
		if child1HasTwo {
			p1 := two.Colors[child1Two].FirstParent
			p2 := two.Colors[child1Two].SecondParent
			parents = sortedTriple(p1, p2, child2)
		} else {
			p1 := two.Colors[child2Two].FirstParent
			p2 := two.Colors[child2Two].SecondParent
			parents = sortedTriple(p1, p2, child1)
		}
		if id, ok := tc.parentsToColor[parents]; ok {
			tc.paint(gateID, id)
		} else {
			tc.paint(gateID, tc.addColor(parents))
		}
	}

	if err := tc.Validate(); err != nil {
		return nil, err
	}
	return tc, nil
}
