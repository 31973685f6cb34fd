package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the full set of tunable constants for one analysis run. It is
// built once with every default resolved up front and passed explicitly
// into each component — nothing reads defaults ad hoc deep in a call path.
type Config struct {
	Bands         BandConfig          `yaml:"bands" json:"bands"`
	Weights       WeightConfig        `yaml:"weights" json:"weights"`
	Triangulation TriangulationConfig `yaml:"triangulation" json:"triangulation"`
	Gates         GateConfig          `yaml:"gates" json:"gates"`
	Reliability   ReliabilityConfig   `yaml:"reliability" json:"reliability"`
	Evaluator     EvaluatorConfig     `yaml:"evaluator" json:"evaluator"`
	Cache         CacheConfig         `yaml:"cache" json:"cache"`
	Concurrency   ConcurrencyConfig   `yaml:"concurrency" json:"concurrency"`
	Output        OutputConfig        `yaml:"output" json:"output"`
}

// BandConfig holds the verdict band thresholds (descending) and the
// confidence threshold that splits the mixed band into MIXED/UNVERIFIED.
//
// MixedConfidence defaults to 40. The source documentation is internally
// inconsistent here (a comment elsewhere claims 60); 40 is the stated
// authoritative value, pending product confirmation.
type BandConfig struct {
	True            float64 `yaml:"true" json:"true"`
	MostlyTrue      float64 `yaml:"mostly_true" json:"mostly_true"`
	LeaningTrue     float64 `yaml:"leaning_true" json:"leaning_true"`
	MixedLow        float64 `yaml:"mixed_low" json:"mixed_low"` // also the dependency-failure boundary
	LeaningFalse    float64 `yaml:"leaning_false" json:"leaning_false"`
	MostlyFalse     float64 `yaml:"mostly_false" json:"mostly_false"`
	MixedConfidence float64 `yaml:"mixed_confidence" json:"mixed_confidence"`
}

// WeightConfig holds the per-claim weight multiplier tables. Unknown or
// missing keys resolve to the neutral multiplier 1.0, never an error.
type WeightConfig struct {
	Centrality   map[Centrality]float64    `yaml:"centrality" json:"centrality"`
	Harm         map[HarmPotential]float64 `yaml:"harm" json:"harm"`
	Contestation map[FactualBasis]float64  `yaml:"contestation" json:"contestation"`
}

// TriangulationConfig holds the multiplicative adjustment factors per
// agreement level. Fed forward as (1 + factor).
type TriangulationConfig struct {
	Strong     float64 `yaml:"strong" json:"strong"`
	Moderate   float64 `yaml:"moderate" json:"moderate"`
	Conflicted float64 `yaml:"conflicted" json:"conflicted"`
	Weak       float64 `yaml:"weak" json:"weak"`
}

// GateConfig holds quality-gate thresholds
type GateConfig struct {
	// HighHarmMinConfidence is the confidence floor below which a
	// critical/high-harm verdict label is downgraded to UNVERIFIED.
	HighHarmMinConfidence float64 `yaml:"high_harm_min_confidence" json:"high_harm_min_confidence"`
}

// ReliabilityConfig holds the source-credibility evaluation and
// effective-weight constants
type ReliabilityConfig struct {
	DefaultUnknownScore      float64  `yaml:"default_unknown_score" json:"default_unknown_score"`
	DefaultUnknownConfidence float64  `yaml:"default_unknown_confidence" json:"default_unknown_confidence"`
	MinEvalConfidence        float64  `yaml:"min_eval_confidence" json:"min_eval_confidence"`
	RequireConsensus         bool     `yaml:"require_consensus" json:"require_consensus"`
	ConsensusDelta           float64  `yaml:"consensus_delta" json:"consensus_delta"`
	TTLDays                  int      `yaml:"ttl_days" json:"ttl_days"`
	LowValuePlatforms        []string `yaml:"low_value_platforms" json:"low_value_platforms"`
	ThrowawayTLDs            []string `yaml:"throwaway_tlds" json:"throwaway_tlds"`
}

// EvaluatorConfig configures the external credibility evaluators. The
// secondary, when set, is the second consensus voice; otherwise the primary
// evaluator is asked twice.
type EvaluatorConfig struct {
	Provider  string `yaml:"provider" json:"provider"` // openai, anthropic, ollama, "" (disabled)
	Model     string `yaml:"model" json:"model"`
	APIKey    string `yaml:"-" json:"-"` // from env, never serialized
	BaseURL   string `yaml:"base_url" json:"base_url"`
	Timeout   int    `yaml:"timeout_seconds" json:"timeout_seconds"`
	MaxTokens int    `yaml:"max_tokens" json:"max_tokens"`

	SecondaryProvider string `yaml:"secondary_provider" json:"secondary_provider"`
	SecondaryModel    string `yaml:"secondary_model" json:"secondary_model"`
	SecondaryAPIKey   string `yaml:"-" json:"-"`
}

// CacheConfig configures the durable credibility cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" json:"enabled"`
	Dir       string        `yaml:"dir" json:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" json:"memory_ttl"`
}

// ConcurrencyConfig bounds the prefetch and batch phases
type ConcurrencyConfig struct {
	PrefetchWorkers      int           `yaml:"prefetch_workers" json:"prefetch_workers"`
	BatchWorkers         int           `yaml:"batch_workers" json:"batch_workers"`
	EvaluationsPerMinute int           `yaml:"evaluations_per_minute" json:"evaluations_per_minute"`
	DomainCooldown       time.Duration `yaml:"domain_cooldown" json:"domain_cooldown"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" json:"verbose"`
	IncludeFooter bool `yaml:"include_footer" json:"include_footer"`
}

// DefaultConfig returns the fully-resolved default configuration
func DefaultConfig() *Config {
	return &Config{
		Bands: BandConfig{
			True:            86,
			MostlyTrue:      72,
			LeaningTrue:     58,
			MixedLow:        43,
			LeaningFalse:    29,
			MostlyFalse:     15,
			MixedConfidence: 40,
		},
		Weights: WeightConfig{
			Centrality: map[Centrality]float64{
				CentralityHigh:   3.0,
				CentralityMedium: 2.0,
				CentralityLow:    1.0,
			},
			Harm: map[HarmPotential]float64{
				HarmCritical: 1.5,
				HarmHigh:     1.5,
				HarmMedium:   1.0,
				HarmLow:      1.0,
			},
			Contestation: map[FactualBasis]float64{
				BasisEstablished: 0.5,
				BasisDisputed:    0.7,
				BasisOpinion:     1.0,
				BasisUnknown:     1.0,
			},
		},
		Triangulation: TriangulationConfig{
			Strong:     0.15,
			Moderate:   0.05,
			Conflicted: 0.0,
			Weak:       -0.10,
		},
		Gates: GateConfig{
			HighHarmMinConfidence: 50,
		},
		Reliability: ReliabilityConfig{
			DefaultUnknownScore:      0.5,
			DefaultUnknownConfidence: 0.5,
			MinEvalConfidence:        0.65,
			RequireConsensus:         true,
			ConsensusDelta:           0.15,
			TTLDays:                  90,
			LowValuePlatforms: []string{
				"facebook.com", "twitter.com", "x.com", "instagram.com",
				"tiktok.com", "youtube.com", "reddit.com", "pinterest.com",
				"blogspot.com", "wordpress.com", "medium.com", "tumblr.com",
			},
			ThrowawayTLDs: []string{
				"tk", "ml", "ga", "cf", "gq", "top", "buzz", "click", "xyz",
			},
		},
		Evaluator: EvaluatorConfig{
			Provider:  "",
			Model:     "",
			Timeout:   30,
			MaxTokens: 200,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       defaultCacheDir(),
			MemoryTTL: 1 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			PrefetchWorkers:      3,
			BatchWorkers:         4,
			EvaluationsPerMinute: 10,
			DomainCooldown:       60 * time.Second,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".factharbor-cache"
	}
	return filepath.Join(home, ".factharbor", "cache")
}
