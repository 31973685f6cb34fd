package evaluate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Evaluator rates the credibility of a source domain. It is an injected
// capability: the cache's prefetch phase is the only caller, and tests
// substitute deterministic fakes — unit tests never touch a live provider.
type Evaluator interface {
	// Name returns the provider name
	Name() string

	// Evaluate rates one domain. Failures and malformed responses surface
	// as errors; the caller records the domain as unknown, never as a
	// negative signal.
	Evaluate(ctx context.Context, domain string) (*Result, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// Result is a single evaluator's rating of a domain
type Result struct {
	Score      float64 `json:"score"`      // 0.0-1.0
	Confidence float64 `json:"confidence"` // 0.0-1.0
}

// Config holds evaluator provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens for the response
	MaxTokens int
}

// DefaultConfig returns sensible defaults (provider disabled)
func DefaultConfig() Config {
	return Config{
		Provider:  "",
		Model:     "",
		Timeout:   30,
		MaxTokens: 200,
	}
}

// BuildPrompt constructs the credibility-rating prompt for a domain. The
// response contract is a bare JSON object so the reply parses without any
// natural-language handling.
func BuildPrompt(domain string) string {
	return fmt.Sprintf(`Rate the credibility of the web domain %q as a source of factual claims.

Consider: editorial standards, track record of corrections, independence, and whether the domain primarily publishes original reporting or recycled/user-generated content.

Respond with ONLY a JSON object, no other text:
{"score": <0.0-1.0, credibility>, "confidence": <0.0-1.0, how certain you are>}

A score of 0.5 means "no signal either way". Use low confidence for domains you do not recognize.`, domain)
}

// ParseResult extracts the JSON rating from an evaluator reply. Providers
// occasionally wrap the object in prose or code fences; the first balanced
// object is taken.
func ParseResult(reply string) (*Result, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in evaluator reply")
	}

	var result Result
	if err := json.Unmarshal([]byte(reply[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("parse evaluator reply: %w", err)
	}

	if result.Score < 0 || result.Score > 1 {
		return nil, fmt.Errorf("evaluator score %.3f out of range", result.Score)
	}
	if result.Confidence < 0 || result.Confidence > 1 {
		return nil, fmt.Errorf("evaluator confidence %.3f out of range", result.Confidence)
	}

	return &result, nil
}
