package verdict

import (
	"fmt"
	"sort"

	"github.com/robertschaub/factharbor/internal/model"
)

// Resolver excludes claims whose prerequisite claims failed. It runs
// exactly once, before aggregation, and is the only component allowed to
// set the dependency-failed flag on a verdict.
type Resolver struct {
	threshold float64 // dependency fails below this truth percentage
}

// NewResolver creates a resolver. The threshold is the LEANING-FALSE /
// UNVERIFIED boundary (Bands.MixedLow, default 43).
func NewResolver(bands model.BandConfig) *Resolver {
	return &Resolver{threshold: bands.MixedLow}
}

// Resolve marks every verdict whose claim has a failed prerequisite.
// A prerequisite counts as failed when its verdict truth percentage is
// below the threshold, when it has no verdict at all, or when it failed
// its own dependencies. Claims on a dependency cycle are treated as
// mutually unresolved: each cycle member is marked failed with the other
// members recorded as its failed dependencies.
//
// A dependency on a claim that does not exist is a structural violation
// and returns an error.
func (r *Resolver) Resolve(claims []model.AtomicClaim, verdicts []model.ClaimVerdict) error {
	byID := make(map[string]*model.AtomicClaim, len(claims))
	for i := range claims {
		byID[claims[i].ID] = &claims[i]
	}

	verdictFor := make(map[string]*model.ClaimVerdict, len(verdicts))
	for i := range verdicts {
		verdictFor[verdicts[i].ClaimID] = &verdicts[i]
	}

	for _, c := range claims {
		for _, dep := range c.DependsOn {
			if _, ok := byID[dep]; !ok {
				return fmt.Errorf("claim %q depends on nonexistent claim %q", c.ID, dep)
			}
		}
	}

	cycles := findCycleMembers(claims)
	for id := range cycles {
		v := verdictFor[id]
		if v == nil {
			continue
		}
		v.DependencyFailed = true
		v.FailedDependencies = cyclicDeps(byID[id].DependsOn, cycles)
	}

	// Walk each claim's dependency chain. Cycle members are already
	// settled, so the recursion terminates.
	resolved := make(map[string]bool, len(claims))
	var visit func(id string)
	visit = func(id string) {
		if resolved[id] || cycles[id] {
			return
		}
		resolved[id] = true

		c := byID[id]
		var failed []string
		for _, dep := range c.DependsOn {
			visit(dep)
			if dependencyFailed(dep, verdictFor, r.threshold) {
				failed = append(failed, dep)
			}
		}

		if len(failed) > 0 {
			if v := verdictFor[id]; v != nil {
				v.DependencyFailed = true
				v.FailedDependencies = failed
			}
		}
	}
	for _, c := range claims {
		visit(c.ID)
	}

	return nil
}

func dependencyFailed(dep string, verdictFor map[string]*model.ClaimVerdict, threshold float64) bool {
	v, ok := verdictFor[dep]
	if !ok {
		// Prerequisite was never scored: it cannot be established.
		return true
	}
	return v.DependencyFailed || v.TruthPercentage < threshold
}

// findCycleMembers returns the set of claim IDs that sit on a dependency
// cycle (including self-dependencies), via a coloring DFS.
func findCycleMembers(claims []model.AtomicClaim) map[string]bool {
	deps := make(map[string][]string, len(claims))
	for _, c := range claims {
		deps[c.ID] = c.DependsOn
	}

	const (
		white = 0 // unvisited
		gray  = 1 // on the current path
		black = 2 // done
	)
	color := make(map[string]int, len(claims))
	onPath := make([]string, 0, len(claims))
	members := make(map[string]bool)

	var visit func(id string)
	visit = func(id string) {
		color[id] = gray
		onPath = append(onPath, id)

		for _, dep := range deps[id] {
			switch color[dep] {
			case white:
				visit(dep)
			case gray:
				// Everything from dep to the top of the path is a cycle.
				for i := len(onPath) - 1; i >= 0; i-- {
					members[onPath[i]] = true
					if onPath[i] == dep {
						break
					}
				}
			}
		}

		onPath = onPath[:len(onPath)-1]
		color[id] = black
	}

	for _, c := range claims {
		if color[c.ID] == white {
			visit(c.ID)
		}
	}

	return members
}

func cyclicDeps(deps []string, cycles map[string]bool) []string {
	var failed []string
	for _, dep := range deps {
		if cycles[dep] {
			failed = append(failed, dep)
		}
	}
	sort.Strings(failed)
	return failed
}
