package evaluate

import (
	"fmt"
	"strings"

	"github.com/robertschaub/factharbor/internal/model"
)

// NewEvaluator creates an evaluator from configuration. An empty provider
// disables evaluation: every cache miss then stays unknown, which the
// downstream arithmetic treats as neutral.
func NewEvaluator(config Config) (Evaluator, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIEvaluator(config)

	case "anthropic", "claude":
		return NewAnthropicEvaluator(config)

	case "ollama":
		return NewOllamaEvaluator(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown evaluator provider: %s (supported: openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.EvaluatorConfig to evaluate.Config
func ConfigFromModel(modelConfig model.EvaluatorConfig) Config {
	return Config{
		Provider:  modelConfig.Provider,
		Model:     modelConfig.Model,
		APIKey:    modelConfig.APIKey,
		BaseURL:   modelConfig.BaseURL,
		Timeout:   modelConfig.Timeout,
		MaxTokens: modelConfig.MaxTokens,
	}
}
