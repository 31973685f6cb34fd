package verdict

import (
	"github.com/robertschaub/factharbor/internal/model"
)

// ScoreTriangulation measures cross-boundary agreement for one claim and
// emits the multiplicative adjustment factor. Rules are evaluated in order;
// the first match wins:
//
//  1. 0 or 1 boundaries           -> weak
//  2. 3+ supporting               -> strong
//  3. 2+ supporting, <=1 against  -> moderate
//  4. supporting == contradicting -> conflicted
//  5. supporting > contradicting  -> moderate
//  6. otherwise                   -> weak
//
// With the default factors the feed-forward multiplier (1 + factor) stays
// within [0.90, 1.15].
func ScoreTriangulation(tally model.BoundaryTally, cfg model.TriangulationConfig) model.TriangulationScore {
	score := model.TriangulationScore{
		BoundaryCount: tally.Supporting + tally.Contradicting,
		Supporting:    tally.Supporting,
		Contradicting: tally.Contradicting,
	}

	switch {
	case score.BoundaryCount <= 1:
		score.Level, score.Factor = model.TriangulationWeak, cfg.Weak
	case tally.Supporting >= 3:
		score.Level, score.Factor = model.TriangulationStrong, cfg.Strong
	case tally.Supporting >= 2 && tally.Contradicting <= 1:
		score.Level, score.Factor = model.TriangulationModerate, cfg.Moderate
	case tally.Supporting == tally.Contradicting:
		score.Level, score.Factor = model.TriangulationConflicted, cfg.Conflicted
	case tally.Supporting > tally.Contradicting:
		score.Level, score.Factor = model.TriangulationModerate, cfg.Moderate
	default:
		score.Level, score.Factor = model.TriangulationWeak, cfg.Weak
	}

	return score
}
