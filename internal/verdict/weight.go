package verdict

import (
	"github.com/robertschaub/factharbor/internal/model"
)

// ClaimWeight computes the per-claim scalar weight from centrality, harm,
// thesis relevance and contestation status.
//
// Tangential/irrelevant claims weigh exactly 0 — they never influence the
// aggregate but stay visible to callers for reporting. Contestation only
// reduces weight when the opposition is evidence-backed: an "opinion" or
// "unknown" basis means the claim was merely doubted, not contested, and
// keeps full weight. Malformed or missing attributes resolve to the neutral
// multiplier 1.0, never an error.
func ClaimWeight(claim model.AtomicClaim, v model.ClaimVerdict, cfg model.WeightConfig) float64 {
	if v.ThesisRelevance != "" && v.ThesisRelevance != model.RelevanceDirect {
		return 0
	}

	weight := centralityMultiplier(claim.Centrality, cfg) * harmMultiplier(claim.Harm, cfg)

	if v.IsContested {
		weight *= contestationMultiplier(v.FactualBasis, cfg)
	}

	return weight
}

func centralityMultiplier(c model.Centrality, cfg model.WeightConfig) float64 {
	if m, ok := cfg.Centrality[c]; ok {
		return m
	}
	return 1.0
}

func harmMultiplier(h model.HarmPotential, cfg model.WeightConfig) float64 {
	if m, ok := cfg.Harm[h]; ok {
		return m
	}
	return 1.0
}

func contestationMultiplier(b model.FactualBasis, cfg model.WeightConfig) float64 {
	if b == "" {
		b = model.BasisUnknown
	}
	if m, ok := cfg.Contestation[b]; ok {
		return m
	}
	return 1.0
}
