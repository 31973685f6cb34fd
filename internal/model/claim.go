package model

// AtomicClaim is the smallest independently verifiable assertion extracted
// from an article. Claims are created once by upstream extraction and are
// immutable thereafter.
type AtomicClaim struct {
	ID          string         `json:"id"`
	Statement   string         `json:"statement"`
	Category    string         `json:"category,omitempty"`
	Centrality  Centrality     `json:"centrality"`
	Harm        HarmPotential  `json:"harm_potential"`
	Direction   ClaimDirection `json:"direction,omitempty"`
	Specificity float64        `json:"specificity"`          // 0.0-1.0
	DependsOn   []string       `json:"depends_on,omitempty"` // IDs of prerequisite claims
}

// Centrality describes how central a claim is to the article's thesis
type Centrality string

const (
	CentralityHigh   Centrality = "high"
	CentralityMedium Centrality = "medium"
	CentralityLow    Centrality = "low"
)

// HarmPotential describes the real-world stakes of the claim being wrong
type HarmPotential string

const (
	HarmCritical HarmPotential = "critical"
	HarmHigh     HarmPotential = "high"
	HarmMedium   HarmPotential = "medium"
	HarmLow      HarmPotential = "low"
)

// ClaimDirection describes how the claim relates to the article's thesis
type ClaimDirection string

const (
	DirectionSupports    ClaimDirection = "supports_thesis"
	DirectionContradicts ClaimDirection = "contradicts_thesis"
	DirectionContextual  ClaimDirection = "contextual"
)

// ThesisRelevance is assigned by the debate process, not extraction.
// Anything other than "direct" carries zero aggregation weight.
type ThesisRelevance string

const (
	RelevanceDirect     ThesisRelevance = "direct"
	RelevanceTangential ThesisRelevance = "tangential"
	RelevanceIrrelevant ThesisRelevance = "irrelevant"
)

// FactualBasis classifies what backs a contestation of a claim.
// "established"/"disputed" mean documented counter-evidence exists;
// "opinion"/"unknown" mean the opposition is rhetorical only. The
// distinction decides whether contestation reduces weight at all.
type FactualBasis string

const (
	BasisEstablished FactualBasis = "established"
	BasisDisputed    FactualBasis = "disputed"
	BasisOpinion     FactualBasis = "opinion"
	BasisUnknown     FactualBasis = "unknown"
)
