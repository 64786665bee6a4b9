// Package stats computes per-person load and imbalance over stored
// assignments. Loads are always recomputed from the assignments themselves,
// never hand-maintained, so the numbers cannot drift. Analysis never mutates
// the rotation queue; applying recommendations is a separate, explicit
// operation.
package stats

import (
	"fmt"
	"sort"

	"github.com/dutyroster/rotation-engine/pkg/core/model"
)

// Tolerance is the balanced band around the average load: counts within
// ±20% inclusive are balanced, outside the band is under- or overloaded.
const Tolerance = 0.2

// Result is the outcome of analyzing a scope over a period.
type Result struct {
	TotalAssignments int
	PerPersonLoad    map[string]int
	Average          float64
	Underloaded      []string
	Overloaded       []string
	Recommendations  []string
	Balanced         bool

	// LastGeneratedAt is the most recent generation stamp among the
	// analyzed assignments, for staleness detection. Empty when every
	// assignment was created manually.
	LastGeneratedAt string
}

// Analyze computes the load distribution of the assignments across the
// eligible people. personnelPerAssignment is the scope's configured
// minimum-personnel target, used to derive the expected average.
func Analyze(assignments []model.Assignment, eligible []model.Person, personnelPerAssignment int) (*Result, error) {
	if len(eligible) == 0 {
		return nil, model.ErrInvalidScope
	}
	if personnelPerAssignment <= 0 {
		return nil, fmt.Errorf("personnel per assignment must be positive, got %d", personnelPerAssignment)
	}

	load := make(map[string]int, len(eligible))
	for _, p := range eligible {
		load[p.ID] = 0
	}

	lastGeneratedAt := ""
	for _, a := range assignments {
		for _, id := range a.PersonIDs {
			// People who have since left eligibility still appear in
			// historical assignments; they are not part of the balance.
			if _, ok := load[id]; ok {
				load[id]++
			}
		}
		if a.GeneratedAt > lastGeneratedAt {
			lastGeneratedAt = a.GeneratedAt
		}
	}

	average := float64(len(assignments)*personnelPerAssignment) / float64(len(eligible))

	var underloaded, overloaded []string
	for _, p := range eligible {
		count := float64(load[p.ID])
		switch {
		case count < average*(1-Tolerance):
			underloaded = append(underloaded, p.ID)
		case count > average*(1+Tolerance):
			overloaded = append(overloaded, p.ID)
		}
	}
	sortByLoad(underloaded, load, true)
	sortByLoad(overloaded, load, false)

	result := &Result{
		TotalAssignments: len(assignments),
		PerPersonLoad:    load,
		Average:          average,
		Underloaded:      underloaded,
		Overloaded:       overloaded,
		Balanced:         len(underloaded) == 0 && len(overloaded) == 0,
		LastGeneratedAt:  lastGeneratedAt,
	}
	result.Recommendations = buildRecommendations(result, eligible)
	return result, nil
}

// buildRecommendations pairs underloaded with overloaded people and suggests
// swaps. An empty pairing means the rotation is balanced.
func buildRecommendations(r *Result, eligible []model.Person) []string {
	if r.Balanced {
		return []string{"rotation is balanced: every eligible person is within 20% of the average load"}
	}

	names := make(map[string]string, len(eligible))
	for _, p := range eligible {
		names[p.ID] = p.FullName()
	}

	var recs []string
	pairs := min(len(r.Underloaded), len(r.Overloaded))
	for i := 0; i < pairs; i++ {
		under, over := r.Underloaded[i], r.Overloaded[i]
		recs = append(recs, fmt.Sprintf(
			"swap an assignment from %s (%d) to %s (%d) to move both toward the average of %.1f",
			names[over], r.PerPersonLoad[over], names[under], r.PerPersonLoad[under], r.Average))
	}
	for _, under := range r.Underloaded[pairs:] {
		recs = append(recs, fmt.Sprintf(
			"%s (%d) is below the balanced band; move them toward the front of the queue",
			names[under], r.PerPersonLoad[under]))
	}
	for _, over := range r.Overloaded[pairs:] {
		recs = append(recs, fmt.Sprintf(
			"%s (%d) is above the balanced band; move them toward the back of the queue",
			names[over], r.PerPersonLoad[over]))
	}
	return recs
}

// BuildOptimizedOrder derives the queue order that applies the analysis:
// underloaded people first (lowest load leading), balanced people in their
// current relative order, overloaded people last (highest load trailing).
// The result is a permutation of currentOrder, suitable for Reorder.
func BuildOptimizedOrder(r *Result, currentOrder []string) []string {
	class := make(map[string]int, len(currentOrder))
	for _, id := range r.Underloaded {
		class[id] = -1
	}
	for _, id := range r.Overloaded {
		class[id] = 1
	}

	optimized := append([]string(nil), currentOrder...)
	sort.SliceStable(optimized, func(i, j int) bool {
		ci, cj := class[optimized[i]], class[optimized[j]]
		if ci != cj {
			return ci < cj
		}
		if ci != 0 {
			// Within the unbalanced bands, order by load so the most
			// underloaded leads and the most overloaded trails.
			return r.PerPersonLoad[optimized[i]] < r.PerPersonLoad[optimized[j]]
		}
		return false
	})
	return optimized
}

func sortByLoad(ids []string, load map[string]int, ascending bool) {
	sort.SliceStable(ids, func(i, j int) bool {
		if ascending {
			return load[ids[i]] < load[ids[j]]
		}
		return load[ids[i]] > load[ids[j]]
	})
}
