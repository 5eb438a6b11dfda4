package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"polyoracle/internal/ai"
	"polyoracle/internal/client/gamma"
	"polyoracle/internal/client/newsapi"
	"polyoracle/internal/client/reddit"
	"polyoracle/internal/config"
	"polyoracle/internal/models"
	"polyoracle/internal/repository"
)

// Collaborator contracts, satisfied by the real clients and by test stubs.
type MarketSource interface {
	ActiveMarkets(ctx context.Context, limit int) ([]gamma.Market, error)
}

type NewsSource interface {
	RelatedNews(ctx context.Context, query string, window time.Duration) ([]newsapi.Article, error)
}

type DiscussionSource interface {
	MarketDiscussions(ctx context.Context, query string) ([]reddit.Post, error)
}

type Analyst interface {
	Analyze(ctx context.Context, market gamma.Market, trades []models.WhaleTrade, articles []newsapi.Article, posts []reddit.Post) (*ai.Analysis, error)
}

type WhaleEstimator interface {
	Estimate(market gamma.Market) []models.WhaleTrade
}

// Notifier receives signals after they are stored. Delivery is best-effort
// and must not affect the batch outcome.
type Notifier interface {
	SignalStored(signal models.Signal, question string)
}

// SignalGenerator runs the per-invocation pipeline: select markets, enrich
// each one, score it, and persist qualifying signals. Markets are processed
// strictly sequentially; the reasoning API is rate- and cost-sensitive, so
// serialization is a deliberate throttle.
type SignalGenerator struct {
	Repo     repository.Repository
	Markets  MarketSource
	Whales   WhaleEstimator
	News     NewsSource
	Reddit   DiscussionSource
	Analyst  Analyst
	Notifier Notifier
	Logger   *zap.Logger
	Config   config.EngineConfig

	NewsWindow time.Duration
}

type GenerateOptions struct {
	MarketLimit int
	MinVolume   float64
}

type GenerateResult struct {
	Success          bool            `json:"success"`
	SignalsGenerated int             `json:"signals_generated"`
	Errors           []string        `json:"errors"`
	Signals          []models.Signal `json:"signals"`
}

// Run executes one full generation pass. A single market's failure is
// recorded and skipped, never fatal to the batch; only an unreachable market
// source aborts the whole run.
func (g *SignalGenerator) Run(ctx context.Context, opts GenerateOptions) *GenerateResult {
	result := &GenerateResult{
		Success: true,
		Errors:  []string{},
		Signals: []models.Signal{},
	}

	limit := opts.MarketLimit
	if limit <= 0 {
		limit = g.Config.MarketLimit
	}
	minVolume := opts.MinVolume
	if minVolume <= 0 {
		minVolume = g.Config.MinVolume
	}

	markets, err := g.Markets.ActiveMarkets(ctx, limit)
	if err != nil {
		g.logWarn("market fetch failed", err)
		result.Success = false
		result.Errors = append(result.Errors, fmt.Sprintf("fetching markets: %v", err))
		return result
	}
	if len(markets) == 0 {
		g.logInfo("no active markets found")
		return result
	}

	floor := decimal.NewFromFloat(minVolume)
	eligible := markets[:0:0]
	for _, m := range markets {
		if gamma.SanitizeAmount(m.Volume).GreaterThanOrEqual(floor) {
			eligible = append(eligible, m)
		}
	}
	g.logInfo("markets selected",
		zap.Int("fetched", len(markets)),
		zap.Int("eligible", len(eligible)),
		zap.Float64("min_volume", minVolume),
	)

	for _, market := range eligible {
		signal, err := g.processMarket(ctx, market)
		if err != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("analyzing market %q: %v", market.Question, err))
			g.logWarn("market skipped", err, zap.String("market_id", market.Identifier()))
			continue
		}
		if signal != nil {
			result.Signals = append(result.Signals, *signal)
			result.SignalsGenerated++
		}
	}

	g.logInfo("generation pass complete",
		zap.Int("signals_generated", result.SignalsGenerated),
		zap.Int("errors", len(result.Errors)),
	)
	return result
}

// processMarket runs the per-market sequence. A nil signal with nil error
// means the score fell below the storage threshold and enrichment data was
// discarded.
func (g *SignalGenerator) processMarket(ctx context.Context, market gamma.Market) (*models.Signal, error) {
	marketID := market.Identifier()

	if err := g.Repo.UpsertMarket(ctx, snapshotMarket(market)); err != nil {
		return nil, fmt.Errorf("upserting market snapshot: %w", err)
	}

	trades := g.Whales.Estimate(market)

	query := DeriveKeywords(market.Question)
	articles, err := g.News.RelatedNews(ctx, query, g.newsWindow())
	if err != nil {
		return nil, fmt.Errorf("fetching news: %w", err)
	}

	posts, err := g.Reddit.MarketDiscussions(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("fetching discussions: %w", err)
	}

	g.logInfo("enrichment gathered",
		zap.String("market_id", marketID),
		zap.Int("whale_trades", len(trades)),
		zap.Int("news", len(articles)),
		zap.Int("reddit_posts", len(posts)),
		zap.Int("sentiment", reddit.SentimentScore(posts)),
	)

	analysis, err := g.Analyst.Analyze(ctx, market, trades, articles, posts)
	if err != nil {
		return nil, err
	}

	threshold := g.Config.StoreThreshold
	if threshold <= 0 {
		threshold = 70
	}
	// The raw score gates storage; rounding happens only for the stored row.
	if analysis.Score < float64(threshold) {
		g.logInfo("score below storage threshold",
			zap.String("market_id", marketID),
			zap.Float64("score", analysis.Score),
			zap.Int("threshold", threshold),
		)
		return nil, nil
	}
	score := int(math.Round(analysis.Score))

	signal, err := g.persist(ctx, marketID, market, analysis, score, trades, articles, posts)
	if err != nil {
		return nil, err
	}

	if g.Notifier != nil {
		g.Notifier.SignalStored(*signal, market.Question)
	}
	return signal, nil
}

// persist writes the signal and its enrichment rows in one transaction so
// the unit commits or rolls back together for this market.
func (g *SignalGenerator) persist(ctx context.Context, marketID string, market gamma.Market, analysis *ai.Analysis, score int, trades []models.WhaleTrade, articles []newsapi.Article, posts []reddit.Post) (*models.Signal, error) {
	reasoning, err := json.Marshal(analysis.Reasoning)
	if err != nil {
		return nil, fmt.Errorf("encoding reasoning: %w", err)
	}

	signal := &models.Signal{
		MarketID:    marketID,
		Score:       score,
		Action:      analysis.Action,
		Confidence:  analysis.Confidence,
		Urgency:     analysis.Urgency,
		EntryPrice:  decimalPtr(analysis.EntryPrice),
		TargetPrice: decimalPtr(analysis.TargetPrice),
		Reasoning:   datatypes.JSON(reasoning),
		WhaleCount:  len(trades),
		NewsCount:   len(articles),
		RedditCount: len(posts),
	}

	rows := make([]models.RedditPost, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, models.RedditPost{
			MarketID:    marketID,
			PostID:      p.ID,
			Title:       p.Title,
			Body:        p.Selftext,
			Author:      p.Author,
			Subreddit:   p.Subreddit,
			Score:       p.Score,
			UpvoteRatio: p.UpvoteRatio,
			NumComments: p.NumComments,
			Permalink:   p.Permalink,
			PostedAt:    p.CreatedAt,
		})
	}

	err = g.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if err := g.Repo.BulkInsertWhaleTradesTx(ctx, tx, trades); err != nil {
			return fmt.Errorf("storing whale trades: %w", err)
		}
		if err := g.Repo.BulkUpsertRedditPostsTx(ctx, tx, rows); err != nil {
			return fmt.Errorf("storing reddit posts: %w", err)
		}
		if err := g.Repo.InsertSignalTx(ctx, tx, signal); err != nil {
			return fmt.Errorf("storing signal: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	g.logInfo("signal stored",
		zap.Uint64("signal_id", signal.ID),
		zap.String("market_id", marketID),
		zap.Int("score", score),
		zap.String("action", signal.Action),
	)
	return signal, nil
}

func snapshotMarket(market gamma.Market) *models.Market {
	snapshot := &models.Market{
		ID:          market.Identifier(),
		Question:    market.Question,
		Description: market.Description,
		Volume:      gamma.SanitizeAmount(market.Volume),
		Liquidity:   gamma.SanitizeAmount(market.Liquidity),
		Active:      market.Active,
	}
	if end, ok := market.EndDateTime(); ok {
		snapshot.EndDate = &end
	}
	if price, ok := market.YesPrice(); ok {
		snapshot.CurrentPrice = &price
	}
	return snapshot
}

func (g *SignalGenerator) newsWindow() time.Duration {
	if g.NewsWindow > 0 {
		return g.NewsWindow
	}
	return 48 * time.Hour
}

func decimalPtr(v *float64) *decimal.Decimal {
	if v == nil {
		return nil
	}
	d := decimal.NewFromFloat(*v)
	return &d
}

func (g *SignalGenerator) logInfo(msg string, fields ...zap.Field) {
	if g.Logger != nil {
		g.Logger.Info(msg, fields...)
	}
}

func (g *SignalGenerator) logWarn(msg string, err error, fields ...zap.Field) {
	if g.Logger != nil {
		g.Logger.Warn(msg, append(fields, zap.Error(err))...)
	}
}
