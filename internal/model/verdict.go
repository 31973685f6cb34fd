package model

import "time"

// VerdictLabel is one of the 7 verdict bands (plus UNVERIFIED, which shares
// the mixed band and doubles as the insufficient-evidence downgrade target)
type VerdictLabel string

const (
	VerdictTrue         VerdictLabel = "TRUE"
	VerdictMostlyTrue   VerdictLabel = "MOSTLY-TRUE"
	VerdictLeaningTrue  VerdictLabel = "LEANING-TRUE"
	VerdictMixed        VerdictLabel = "MIXED"
	VerdictUnverified   VerdictLabel = "UNVERIFIED"
	VerdictLeaningFalse VerdictLabel = "LEANING-FALSE"
	VerdictMostlyFalse  VerdictLabel = "MOSTLY-FALSE"
	VerdictFalse        VerdictLabel = "FALSE"
)

// ClaimVerdict is the debate process's scored verdict for one AtomicClaim.
// It is produced once, mutated at most once by the dependency resolver
// (failure flag) and once by the quality gates (label downgrade). The
// aggregator never writes it.
type ClaimVerdict struct {
	ClaimID            string             `json:"claim_id"`
	TruthPercentage    float64            `json:"truth_percentage"` // 0-100
	Label              VerdictLabel       `json:"label"`
	Confidence         float64            `json:"confidence"` // 0-100
	IsContested        bool               `json:"is_contested"`
	IsCounterClaim     bool               `json:"is_counter_claim"`
	FactualBasis       FactualBasis       `json:"factual_basis,omitempty"`
	ThesisRelevance    ThesisRelevance    `json:"thesis_relevance,omitempty"`
	DependencyFailed   bool               `json:"dependency_failed,omitempty"`
	FailedDependencies []string           `json:"failed_dependencies,omitempty"`
	Triangulation      *TriangulationScore `json:"triangulation,omitempty"`
}

// TriangulationLevel labels cross-boundary agreement on a claim
type TriangulationLevel string

const (
	TriangulationWeak       TriangulationLevel = "weak"
	TriangulationModerate   TriangulationLevel = "moderate"
	TriangulationStrong     TriangulationLevel = "strong"
	TriangulationConflicted TriangulationLevel = "conflicted"
)

// TriangulationScore measures cross-boundary agreement for one claim.
// Computed fresh per aggregation run; never persisted.
type TriangulationScore struct {
	BoundaryCount int                `json:"boundary_count"`
	Supporting    int                `json:"supporting"`
	Contradicting int                `json:"contradicting"`
	Level         TriangulationLevel `json:"level"`
	Factor        float64            `json:"factor"` // fed forward as (1 + factor)
}

// ClaimContribution is the transparent per-claim breakdown of how a claim
// entered (or was excluded from) the weighted average
type ClaimContribution struct {
	ClaimID            string  `json:"claim_id"`
	BaseWeight         float64 `json:"base_weight"`
	FinalWeight        float64 `json:"final_weight"`
	EffectiveTruth     float64 `json:"effective_truth"`
	AdjustedTruth      float64 `json:"adjusted_truth"`
	AdjustedConfidence float64 `json:"adjusted_confidence"`
	SourceWeight       float64 `json:"source_weight"` // avg effective source weight; 1.0 when no attributable evidence
	Excluded           bool    `json:"excluded"`
	ExcludeReason      string  `json:"exclude_reason,omitempty"`
}

// AggregateResult is the engine's output for one article
type AggregateResult struct {
	WeightedTruthPercentage float64                       `json:"weighted_truth_percentage"`
	WeightedConfidence      float64                       `json:"weighted_confidence"`
	VerdictLabel            VerdictLabel                  `json:"verdict_label"`
	PerClaimWeights         map[string]float64            `json:"per_claim_weights"`
	TriangulationScores     map[string]TriangulationScore `json:"triangulation_scores"`
	GatesApplied            []string                      `json:"gates_applied,omitempty"`
	Contributions           []ClaimContribution           `json:"contributions"`
}

// AssessmentReport is the complete output document for one dossier
type AssessmentReport struct {
	ArticleID  string          `json:"article_id"`
	Thesis     string          `json:"thesis,omitempty"`
	AssessedAt time.Time       `json:"assessed_at"`
	Claims     []AtomicClaim   `json:"claims"`
	Verdicts   []ClaimVerdict  `json:"verdicts"`
	Aggregate  AggregateResult `json:"aggregate"`
}
