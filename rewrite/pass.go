//
// Copyright (c) 2019-2021 Markku Rossi
//
// All rights reserved.
//

package rewrite

import (
	"sort"
	"sync"

	"github.com/markkurossi/circopt/circuit"
	"github.com/markkurossi/circopt/coloring"
	"github.com/markkurossi/circopt/db"
	"github.com/markkurossi/circopt/gate"
	"github.com/markkurossi/circopt/xlog"
)

// Stats summarizes one Pass.Run.
type Stats struct {
	ConesConsidered int
	Replacements    int
	GatesBefore     int
	GatesAfter      int
}

// Pass runs the subcircuit-matching rewrite over a circuit's
// colorings, using db to look up replacements.
type Pass struct {
	Circuit     *circuit.Circuit
	DB          *db.CircuitDB
	Logger      *xlog.Logger
	MinConeSize int
}

type job struct {
	inputs        []circuit.GateID
	apexes        []circuit.GateID
	negationUsers []circuit.GateID
	apexMax       circuit.GateID
}

func maxGateID(ids []circuit.GateID) circuit.GateID {
	m := ids[0]
	for _, id := range ids[1:] {
		if id > m {
			m = id
		}
	}
	return m
}

// dedupeParents drops repeated ids from a color's parent list. A
// ThreeColor's synthesized triple can legitimately carry a repeated
// parent (the "2-2" case over two identical TwoColors collapses to a
// 2-variable function represented as a degenerate 3-tuple); the cone
// the rewrite pass builds and matches against the database has only
// as many genuinely independent inputs as distinct parent ids.
func dedupeParents(ids []circuit.GateID) []circuit.GateID {
	out := make([]circuit.GateID, 0, len(ids))
	for _, id := range ids {
		seen := false
		for _, o := range out {
			if o == id {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, id)
		}
	}
	return out
}

func collectJobs(three *coloring.ThreeColoring, two *coloring.TwoColoring) []job {
	var jobs []job
	if three != nil {
		for _, col := range three.Colors {
			apexes := col.Gates()
			if len(apexes) == 0 {
				continue
			}
			inputs := dedupeParents([]circuit.GateID{col.FirstParent, col.SecondParent, col.ThirdParent})
			jobs = append(jobs, job{
				inputs:        inputs,
				apexes:        apexes,
				negationUsers: three.NegationUsers,
				apexMax:       maxGateID(apexes),
			})
		}
	}
	if two != nil {
		for _, col := range two.Colors {
			apexes := col.Gates()
			if len(apexes) == 0 {
				continue
			}
			jobs = append(jobs, job{
				inputs:  []circuit.GateID{col.FirstParent, col.SecondParent},
				apexes:  apexes,
				apexMax: maxGateID(apexes),
			})
		}
	}
	return jobs
}

func toGateSet(ids []circuit.GateID) map[circuit.GateID]bool {
	s := make(map[circuit.GateID]bool, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

// independent reports whether cones a and b can be evaluated and
// applied in either order without one affecting the other: their
// gate sets must be disjoint, and neither's outputs may be consumed
// by a gate inside the other's gate set (which rewireOutputs would
// otherwise mutate out from under the other cone).
func independent(c *circuit.Circuit, a, b *Cone) bool {
	bGates := toGateSet(b.Gates)
	for _, id := range a.Gates {
		if bGates[id] {
			return false
		}
	}
	aGates := toGateSet(a.Gates)
	for _, out := range a.Outputs {
		for _, user := range c.Users(out) {
			if bGates[user] {
				return false
			}
		}
	}
	for _, out := range b.Outputs {
		for _, user := range c.Users(out) {
			if aGates[user] {
				return false
			}
		}
	}
	return true
}

type roundItem struct {
	job  job
	cone *Cone
}

// selectRound greedily picks a maximal subset of pending whose cones
// are pairwise independent, leaving the rest for a later round once
// the chosen subset has been applied. A job whose cone, rebuilt on the
// current circuit, reaches an input gate outside its parent set (an
// earlier round rewired one of its gates) is dropped.
func (p *Pass) selectRound(pending []job) (round []roundItem, deferred []job) {
	var cones []*Cone
	for _, j := range pending {
		cone := Build(p.Circuit, j.inputs, j.apexes)
		unbounded := false
		for _, id := range cone.Gates {
			if p.Circuit.Type(id) == gate.Input {
				unbounded = true
				break
			}
		}
		if unbounded {
			continue
		}
		ok := true
		for _, other := range cones {
			if !independent(p.Circuit, cone, other) {
				ok = false
				break
			}
		}
		if ok {
			round = append(round, roundItem{job: j, cone: cone})
			cones = append(cones, cone)
		} else {
			deferred = append(deferred, j)
		}
	}
	return round, deferred
}

// Run processes every color from three (may be nil) and two (may be
// nil) in descending order of each cone's highest apex gate id,
// replacing any whose database match strictly reduces gate count.
// Within one round of mutually independent cones, truth-table
// evaluation runs concurrently (one goroutine per cone); the apply
// step that follows is always single-threaded, so the resulting
// circuit is the same regardless of how goroutines were scheduled.
func (p *Pass) Run(three *coloring.ThreeColoring, two *coloring.TwoColoring) (*Stats, error) {
	stats := &Stats{GatesBefore: p.Circuit.LiveGateCount()}

	pending := collectJobs(three, two)
	sort.Slice(pending, func(i, j int) bool { return pending[i].apexMax > pending[j].apexMax })

	for len(pending) > 0 {
		round, deferred := p.selectRound(pending)
		if len(round) == 0 {
			break
		}

		type evaluation struct {
			tables []int64
			perm   []int
		}
		evals := make([]evaluation, len(round))
		var wg sync.WaitGroup
		for i, item := range round {
			wg.Add(1)
			go func(i int, cone *Cone) {
				defer wg.Done()
				tables := TruthTables(p.Circuit, cone)
				sorted, perm := Canonicalize(tables)
				evals[i] = evaluation{tables: sorted, perm: perm}
			}(i, item.cone)
		}
		wg.Wait()

		for i, item := range round {
			if len(item.cone.Gates) < p.MinConeSize {
				continue
			}
			stats.ConesConsidered++

			idx, ok := p.DB.Lookup(evals[i].tables)
			if !ok {
				continue
			}
			rec := &p.DB.Records[idx]
			if len(rec.Gates) >= len(item.cone.Gates) {
				continue
			}
			if _, err := Apply(p.Circuit, item.cone, rec, evals[i].perm, item.job.negationUsers); err != nil {
				return stats, err
			}
			stats.Replacements++
			if p.Logger != nil {
				p.Logger.Debugf("replaced a %d-gate cone with a %d-gate equivalent",
					len(item.cone.Gates), len(rec.Gates))
			}
		}

		pending = deferred
	}

	stats.GatesAfter = p.Circuit.LiveGateCount()
	return stats, nil
}
