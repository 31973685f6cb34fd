package verdict

import (
	"testing"

	"github.com/robertschaub/factharbor/internal/model"
)

func TestScoreTriangulation_Rules(t *testing.T) {
	cfg := model.DefaultConfig().Triangulation

	tests := []struct {
		name       string
		supporting int
		against    int
		wantLevel  model.TriangulationLevel
		wantFactor float64
	}{
		{"no boundaries", 0, 0, model.TriangulationWeak, -0.10},
		{"single boundary", 1, 0, model.TriangulationWeak, -0.10},
		{"three supporting", 3, 0, model.TriangulationStrong, 0.15},
		{"strong even when outvoted", 3, 5, model.TriangulationStrong, 0.15}, // rule 2 precedes the comparisons
		{"two supporting one against", 2, 1, model.TriangulationModerate, 0.05},
		{"even split", 2, 2, model.TriangulationConflicted, 0.0},
		{"majority without quorum", 2, 3, model.TriangulationWeak, -0.10},
		{"one against two", 1, 2, model.TriangulationWeak, -0.10},
		{"one supporting one against", 1, 1, model.TriangulationConflicted, 0.0},
	}

	for _, tt := range tests {
		tally := model.BoundaryTally{Supporting: tt.supporting, Contradicting: tt.against}
		score := ScoreTriangulation(tally, cfg)

		if score.Level != tt.wantLevel {
			t.Errorf("%s: level = %s, want %s", tt.name, score.Level, tt.wantLevel)
		}
		if score.Factor != tt.wantFactor {
			t.Errorf("%s: factor = %v, want %v", tt.name, score.Factor, tt.wantFactor)
		}
		if score.BoundaryCount != tt.supporting+tt.against {
			t.Errorf("%s: boundaryCount = %d, want %d", tt.name, score.BoundaryCount, tt.supporting+tt.against)
		}
	}
}

func TestScoreTriangulation_FeedForwardRange(t *testing.T) {
	cfg := model.DefaultConfig().Triangulation

	// The multiplicative use (1 + factor) must stay within [0.90, 1.15]
	// for every reachable tally.
	for supporting := 0; supporting <= 6; supporting++ {
		for against := 0; against <= 6; against++ {
			score := ScoreTriangulation(model.BoundaryTally{Supporting: supporting, Contradicting: against}, cfg)
			mult := 1 + score.Factor
			if mult < 0.90 || mult > 1.15 {
				t.Errorf("tally %d/%d: multiplier %v outside [0.90, 1.15]", supporting, against, mult)
			}
		}
	}
}
