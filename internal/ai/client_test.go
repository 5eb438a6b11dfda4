package ai

import (
	"testing"
	"time"

	"polyoracle/internal/config"
)

func TestNewAnalystDefaults(t *testing.T) {
	a := NewAnalyst(config.AnthropicConfig{
		APIKey:  "test-key",
		Model:   "claude-sonnet-4-20250514",
		Timeout: 30 * time.Second,
	}, nil)
	if a.model != "claude-sonnet-4-20250514" {
		t.Fatalf("model=%s", a.model)
	}
	if a.maxTokens != 2048 {
		t.Fatalf("maxTokens=%d want default 2048", a.maxTokens)
	}

	a = NewAnalyst(config.AnthropicConfig{APIKey: "test-key", MaxTokens: 1024}, nil)
	if a.maxTokens != 1024 {
		t.Fatalf("maxTokens=%d want=1024", a.maxTokens)
	}
}
