package verdict

import (
	"testing"

	"github.com/robertschaub/factharbor/internal/model"
)

func TestClassify_Bands(t *testing.T) {
	bands := model.DefaultConfig().Bands

	tests := []struct {
		truth      float64
		confidence float64
		want       model.VerdictLabel
	}{
		{100, 90, model.VerdictTrue},
		{86, 90, model.VerdictTrue},
		{85.9, 90, model.VerdictMostlyTrue},
		{72, 90, model.VerdictMostlyTrue},
		{71, 90, model.VerdictLeaningTrue},
		{58, 90, model.VerdictLeaningTrue},
		{57, 90, model.VerdictMixed},
		{50, 41, model.VerdictMixed},
		{50, 40, model.VerdictMixed},
		{50, 39, model.VerdictUnverified},
		{43, 90, model.VerdictMixed},
		{42.9, 90, model.VerdictLeaningFalse},
		{29, 90, model.VerdictLeaningFalse},
		{28, 90, model.VerdictMostlyFalse},
		{15, 90, model.VerdictMostlyFalse},
		{14, 90, model.VerdictFalse},
		{0, 90, model.VerdictFalse},
	}

	for _, tt := range tests {
		got := Classify(tt.truth, tt.confidence, bands)
		if got != tt.want {
			t.Errorf("Classify(%.1f, %.1f) = %s, want %s", tt.truth, tt.confidence, got, tt.want)
		}
	}
}

func TestClassify_ClampsOutOfRange(t *testing.T) {
	bands := model.DefaultConfig().Bands

	if got := Classify(150, 90, bands); got != model.VerdictTrue {
		t.Errorf("Classify(150) = %s, want TRUE", got)
	}
	if got := Classify(-10, 90, bands); got != model.VerdictFalse {
		t.Errorf("Classify(-10) = %s, want FALSE", got)
	}
}

func TestClassify_AbsentConfidenceYieldsUnverified(t *testing.T) {
	bands := model.DefaultConfig().Bands

	// Confidence defaults to 0 when absent: within the mixed band this
	// must always read as insufficient evidence, not an error.
	if got := Classify(50, 0, bands); got != model.VerdictUnverified {
		t.Errorf("Classify(50, 0) = %s, want UNVERIFIED", got)
	}
}

func TestClassify_MonotonicInTruth(t *testing.T) {
	bands := model.DefaultConfig().Bands

	rank := map[model.VerdictLabel]int{
		model.VerdictTrue:         7,
		model.VerdictMostlyTrue:   6,
		model.VerdictLeaningTrue:  5,
		model.VerdictMixed:        4,
		model.VerdictUnverified:   4, // shares the mixed band
		model.VerdictLeaningFalse: 3,
		model.VerdictMostlyFalse:  2,
		model.VerdictFalse:        1,
	}

	prev := rank[Classify(100, 90, bands)]
	for truth := 99.0; truth >= 0; truth-- {
		curr := rank[Classify(truth, 90, bands)]
		if curr > prev {
			t.Fatalf("favorability increased as truth dropped to %.0f", truth)
		}
		prev = curr
	}
}
