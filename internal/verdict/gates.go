package verdict

import (
	"github.com/robertschaub/factharbor/internal/model"
)

// Gate names recorded in AggregateResult.GatesApplied
const (
	GateClaimSurvival   = "gate1_claim_survival"
	GateConfidenceFloor = "gate4_confidence_floor"
)

// ApplySurvivalGate is the claim-survival safety net (Gate 1). Upstream
// filtering removes claims that fail fidelity/specificity/opinion checks;
// if that leaves nothing from a non-empty original set, exactly one claim
// is rescued so the pipeline never aggregates over an empty set. The rescue
// prefers the highest-centrality claim that passed the fidelity check; if
// none passed fidelity, the first original claim is taken.
//
// A claim with no filter outcome is treated as having passed.
func ApplySurvivalGate(claims []model.AtomicClaim, filters map[string]model.FilterOutcome) (survivors []model.AtomicClaim, rescued bool) {
	for _, c := range claims {
		outcome, ok := filters[c.ID]
		if !ok || outcome.Passed() {
			survivors = append(survivors, c)
		}
	}

	if len(survivors) > 0 || len(claims) == 0 {
		return survivors, false
	}

	best := -1
	for i, c := range claims {
		if !filters[c.ID].PassedFidelity {
			continue
		}
		if best == -1 || centralityRank(c.Centrality) > centralityRank(claims[best].Centrality) {
			best = i
		}
	}
	if best == -1 {
		best = 0
	}

	return []model.AtomicClaim{claims[best]}, true
}

func centralityRank(c model.Centrality) int {
	switch c {
	case model.CentralityHigh:
		return 3
	case model.CentralityMedium:
		return 2
	case model.CentralityLow:
		return 1
	default:
		return 0
	}
}

// ApplyConfidenceFloor is the high-harm confidence floor (Gate 4). Any
// verdict for a critical/high-harm claim with confidence below the floor
// has its label downgraded to UNVERIFIED; truth percentage and confidence
// stay untouched, and unaffected verdicts pass through unchanged. Returns
// the IDs of the downgraded claims.
func ApplyConfidenceFloor(claims []model.AtomicClaim, verdicts []model.ClaimVerdict, gates model.GateConfig) []string {
	harmFor := make(map[string]model.HarmPotential, len(claims))
	for _, c := range claims {
		harmFor[c.ID] = c.Harm
	}

	var downgraded []string
	for i := range verdicts {
		v := &verdicts[i]
		harm := harmFor[v.ClaimID]
		if harm != model.HarmCritical && harm != model.HarmHigh {
			continue
		}
		if v.Confidence >= gates.HighHarmMinConfidence {
			continue
		}
		if v.Label != model.VerdictUnverified {
			v.Label = model.VerdictUnverified
			downgraded = append(downgraded, v.ClaimID)
		}
	}

	return downgraded
}
