package reliability

import (
	"math"

	"github.com/robertschaub/factharbor/internal/model"
)

// EffectiveWeight converts a credibility record into the multiplier that
// pulls a truth value toward neutral 50 in proportion to source trust:
//
//	0.5 + (score - 0.5) * confidence, clamped to [0, 1]
//
// A nil record is an unknown source and uses the configured defaults
// (0.5/0.5 by default, which lands on exactly 0.5): unknown evidence is
// neither trusted nor discounted.
func EffectiveWeight(rec *model.SourceCredibilityRecord, cfg model.ReliabilityConfig) float64 {
	score := cfg.DefaultUnknownScore
	confidence := cfg.DefaultUnknownConfidence
	if rec != nil {
		score = rec.Score
		confidence = rec.Confidence
	}

	w := 0.5 + (score-0.5)*confidence
	if w < 0 {
		w = 0
	}
	if w > 1 {
		w = 1
	}
	return w
}

// AverageEffectiveWeight averages the effective weights of a claim's
// sources. The claim's evidence may span several domains; each contributes
// equally. An empty list returns 1.0 — no attributable evidence means no
// adjustment, so the claim contributes through its debate-assigned
// confidence only, never through fabricated certainty.
func AverageEffectiveWeight(records []*model.SourceCredibilityRecord, cfg model.ReliabilityConfig) float64 {
	if len(records) == 0 {
		return 1.0
	}

	var sum float64
	for _, rec := range records {
		sum += EffectiveWeight(rec, cfg)
	}
	return sum / float64(len(records))
}

// AdjustTruth pulls a truth percentage toward neutral 50 by the averaged
// effective weight of its sources. A full weight of exactly 1.0 (no
// attributable evidence, or uniformly trusted sources) is the identity:
// fractional inputs pass through without rounding.
func AdjustTruth(truth, avgWeight float64) float64 {
	if avgWeight == 1.0 {
		return truth
	}
	return math.Round(50 + (truth-50)*avgWeight)
}

// AdjustConfidence damps a confidence by the averaged effective weight.
// Full weight is the identity, as in AdjustTruth.
func AdjustConfidence(confidence, avgWeight float64) float64 {
	if avgWeight == 1.0 {
		return confidence
	}
	return math.Round(confidence * (0.5 + avgWeight/2))
}
