package ai

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"

	"polyoracle/internal/client/gamma"
	"polyoracle/internal/client/newsapi"
	"polyoracle/internal/client/reddit"
	"polyoracle/internal/config"
	"polyoracle/internal/models"
)

// Analyst sends one market's enrichment bundle to the Anthropic Messages API
// and returns a validated verdict.
type Analyst struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	logger    *zap.Logger
}

func NewAnalyst(cfg config.AnthropicConfig, logger *zap.Logger) *Analyst {
	maxTokens := int64(cfg.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &Analyst{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: maxTokens,
		logger:    logger,
	}
}

func (a *Analyst) Analyze(ctx context.Context, market gamma.Market, trades []models.WhaleTrade, articles []newsapi.Article, posts []reddit.Post) (*Analysis, error) {
	prompt := BuildPrompt(market, trades, articles, posts)

	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		System: []anthropic.TextBlockParam{
			{Text: SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, &AnalysisError{Stage: "request", Err: err}
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := b.String()
	if strings.TrimSpace(text) == "" {
		return nil, &AnalysisError{Stage: "request", Err: errors.New("response contained no text content")}
	}

	analysis, err := ParseAnalysis(text)
	if err != nil {
		if a.logger != nil {
			a.logger.Debug("unparsable analysis response", zap.String("market_id", market.Identifier()), zap.String("text", text))
		}
		return nil, err
	}

	if a.logger != nil {
		a.logger.Info("analysis complete",
			zap.String("market_id", market.Identifier()),
			zap.Float64("score", analysis.Score),
			zap.String("action", analysis.Action),
		)
	}
	return analysis, nil
}
