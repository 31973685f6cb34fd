package verdict

import (
	"github.com/robertschaub/factharbor/internal/model"
)

// Classify maps a truth percentage (0-100, clamped) and a confidence
// (0-100) to one of the 7 verdict bands. Within the mixed band the
// confidence decides between MIXED and UNVERIFIED; a caller with no
// confidence value passes 0, which always yields UNVERIFIED — the
// deliberate insufficient-evidence default.
func Classify(truth, confidence float64, bands model.BandConfig) model.VerdictLabel {
	if truth < 0 {
		truth = 0
	}
	if truth > 100 {
		truth = 100
	}

	switch {
	case truth >= bands.True:
		return model.VerdictTrue
	case truth >= bands.MostlyTrue:
		return model.VerdictMostlyTrue
	case truth >= bands.LeaningTrue:
		return model.VerdictLeaningTrue
	case truth >= bands.MixedLow:
		if confidence >= bands.MixedConfidence {
			return model.VerdictMixed
		}
		return model.VerdictUnverified
	case truth >= bands.LeaningFalse:
		return model.VerdictLeaningFalse
	case truth >= bands.MostlyFalse:
		return model.VerdictMostlyFalse
	default:
		return model.VerdictFalse
	}
}
