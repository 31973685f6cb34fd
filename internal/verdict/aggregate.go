package verdict

import (
	"github.com/robertschaub/factharbor/internal/model"
	"github.com/robertschaub/factharbor/internal/reliability"
)

// SourceLookup resolves a URL to its domain's credibility record, or nil
// when the domain is unknown. Implementations must never block: the
// aggregation path is pure CPU work.
type SourceLookup interface {
	Lookup(url string) *model.SourceCredibilityRecord
}

// ClaimInput bundles everything the aggregator needs for one claim
type ClaimInput struct {
	Claim   model.AtomicClaim
	Verdict *model.ClaimVerdict

	// Tally is the claim's boundary tally from evidence-scope clustering;
	// nil means no boundary data (scored as weak triangulation).
	Tally *model.BoundaryTally

	// SourceURLs are the evidence URLs backing the claim. May be empty.
	SourceURLs []string

	// DerivativeShare is the proportion [0,1] of derivative (non-primary)
	// evidence backing the claim.
	DerivativeShare float64
}

// Aggregator combines per-claim verdicts into one weighted overall
// truth/confidence pair and verdict label. It consumes the weight
// calculator, triangulation scorer and reliability lookup as leaves and
// never mutates the stored verdicts: effective values are derived.
type Aggregator struct {
	cfg     *model.Config
	sources SourceLookup
}

// NewAggregator creates an aggregator. sources may be nil, in which case
// every source resolves as unknown-free (no adjustment is applied).
func NewAggregator(cfg *model.Config, sources SourceLookup) *Aggregator {
	return &Aggregator{cfg: cfg, sources: sources}
}

// Aggregate computes the weighted average over all eligible claims.
// Dependency-failed and non-thesis-relevant claims contribute zero weight
// but stay visible in the result. If every claim ends up with zero weight
// the result is the exact neutral midpoint (50/50) — the engine never
// divides by zero and never silently drops an article.
func (a *Aggregator) Aggregate(inputs []ClaimInput) model.AggregateResult {
	result := model.AggregateResult{
		PerClaimWeights:     make(map[string]float64, len(inputs)),
		TriangulationScores: make(map[string]model.TriangulationScore, len(inputs)),
		Contributions:       make([]model.ClaimContribution, 0, len(inputs)),
	}

	var sumTruth, sumConfidence, totalWeight float64

	for _, in := range inputs {
		v := in.Verdict

		tri := ScoreTriangulation(tallyOrZero(in.Tally), a.cfg.Triangulation)
		result.TriangulationScores[in.Claim.ID] = tri

		contribution := model.ClaimContribution{
			ClaimID:      in.Claim.ID,
			SourceWeight: 1.0,
		}

		if v.DependencyFailed {
			contribution.Excluded = true
			contribution.ExcludeReason = "dependency_failed"
			result.PerClaimWeights[in.Claim.ID] = 0
			result.Contributions = append(result.Contributions, contribution)
			continue
		}

		base := ClaimWeight(in.Claim, *v, a.cfg.Weights)
		contribution.BaseWeight = base
		if base == 0 {
			contribution.Excluded = true
			contribution.ExcludeReason = "not_thesis_relevant"
			result.PerClaimWeights[in.Claim.ID] = 0
			result.Contributions = append(result.Contributions, contribution)
			continue
		}

		avgWeight := a.sourceWeight(in.SourceURLs)
		adjTruth := reliability.AdjustTruth(v.TruthPercentage, avgWeight)
		adjConfidence := reliability.AdjustConfidence(v.Confidence, avgWeight)
		contribution.SourceWeight = avgWeight
		contribution.AdjustedTruth = adjTruth
		contribution.AdjustedConfidence = adjConfidence

		// Counter-claims are inverted before averaging: a counter-claim
		// scoring 85% true contributes 15% toward the thesis.
		effectiveTruth := adjTruth
		if v.IsCounterClaim {
			effectiveTruth = 100 - adjTruth
		}
		contribution.EffectiveTruth = effectiveTruth

		final := base * (adjConfidence / 100) * (1 + tri.Factor) * derivativeFactor(in.DerivativeShare)
		contribution.FinalWeight = final

		sumTruth += effectiveTruth * final
		sumConfidence += adjConfidence * final
		totalWeight += final

		result.PerClaimWeights[in.Claim.ID] = final
		result.Contributions = append(result.Contributions, contribution)
	}

	if totalWeight > 0 {
		result.WeightedTruthPercentage = sumTruth / totalWeight
		result.WeightedConfidence = sumConfidence / totalWeight
	} else {
		result.WeightedTruthPercentage = 50
		result.WeightedConfidence = 50
	}

	result.VerdictLabel = Classify(result.WeightedTruthPercentage, result.WeightedConfidence, a.cfg.Bands)

	return result
}

// sourceWeight averages the effective weights of the claim's sources.
// Empty evidence lists adjust nothing: the claim contributes through its
// debate-assigned confidence only.
func (a *Aggregator) sourceWeight(urls []string) float64 {
	if len(urls) == 0 || a.sources == nil {
		return 1.0
	}

	records := make([]*model.SourceCredibilityRecord, len(urls))
	for i, u := range urls {
		records[i] = a.sources.Lookup(u)
	}
	return reliability.AverageEffectiveWeight(records, a.cfg.Reliability)
}

// derivativeFactor maps a derivative-evidence share onto [0.5, 1.0]:
// all-primary evidence keeps full weight, all-derivative halves it.
func derivativeFactor(share float64) float64 {
	if share < 0 {
		share = 0
	}
	if share > 1 {
		share = 1
	}
	return 1 - 0.5*share
}

func tallyOrZero(t *model.BoundaryTally) model.BoundaryTally {
	if t == nil {
		return model.BoundaryTally{}
	}
	return *t
}
