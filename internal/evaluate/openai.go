package evaluate

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// OpenAIEvaluator rates domain credibility via OpenAI's Chat Completions API
type OpenAIEvaluator struct {
	client *openai.Client
	config Config
}

// NewOpenAIEvaluator creates a new OpenAI evaluator
func NewOpenAIEvaluator(config Config) (*OpenAIEvaluator, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIEvaluator{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (e *OpenAIEvaluator) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (e *OpenAIEvaluator) IsAvailable(ctx context.Context) bool {
	_, err := e.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// Evaluate rates one domain
func (e *OpenAIEvaluator) Evaluate(ctx context.Context, domain string) (*Result, error) {
	model := e.config.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	maxTokens := e.config.MaxTokens
	if maxTokens == 0 {
		maxTokens = 200
	}

	timeout := time.Duration(e.config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You rate web domains for credibility as factual sources. You respond with a single JSON object and nothing else.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(domain),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0, // Deterministic rating, not prose
	}

	resp, err := e.client.CreateChatCompletion(ctxWithTimeout, req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return ParseResult(strings.TrimSpace(resp.Choices[0].Message.Content))
}
