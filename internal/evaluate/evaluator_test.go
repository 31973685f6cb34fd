package evaluate

import (
	"strings"
	"testing"
)

func TestParseResult(t *testing.T) {
	tests := []struct {
		name           string
		reply          string
		wantScore      float64
		wantConfidence float64
	}{
		{
			"bare object",
			`{"score": 0.8, "confidence": 0.9}`,
			0.8, 0.9,
		},
		{
			"prose wrapper",
			`Here is my rating: {"score": 0.65, "confidence": 0.7} — let me know if you need more.`,
			0.65, 0.7,
		},
		{
			"code fence",
			"```json\n{\"score\": 0.5, \"confidence\": 0.4}\n```",
			0.5, 0.4,
		},
	}

	for _, tt := range tests {
		result, err := ParseResult(tt.reply)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if result.Score != tt.wantScore || result.Confidence != tt.wantConfidence {
			t.Errorf("%s: got %v/%v, want %v/%v",
				tt.name, result.Score, result.Confidence, tt.wantScore, tt.wantConfidence)
		}
	}
}

func TestParseResult_Rejects(t *testing.T) {
	replies := []string{
		"I cannot rate this domain.",
		`{"score": 1.5, "confidence": 0.9}`,
		`{"score": 0.5, "confidence": -0.1}`,
		`{"score": "high", "confidence": 0.9}`,
		"",
	}

	for _, reply := range replies {
		if _, err := ParseResult(reply); err == nil {
			t.Errorf("ParseResult(%q): expected error", reply)
		}
	}
}

func TestBuildPrompt_MentionsDomainAndContract(t *testing.T) {
	prompt := BuildPrompt("example.org")

	if !strings.Contains(prompt, `"example.org"`) {
		t.Error("prompt should quote the domain")
	}
	if !strings.Contains(prompt, "JSON") {
		t.Error("prompt should state the JSON-only response contract")
	}
}
