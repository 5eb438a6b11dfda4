package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"polyoracle/internal/models"
)

// Repository is the persistence gateway for the signal pipeline. Tx variants
// participate in a caller-managed transaction so one market's signal and its
// enrichment rows commit as a unit.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	UpsertMarket(ctx context.Context, item *models.Market) error
	GetMarketByID(ctx context.Context, id string) (*models.Market, error)
	ListMarkets(ctx context.Context, params ListMarketsParams) ([]models.Market, error)

	InsertSignalTx(ctx context.Context, tx *gorm.DB, item *models.Signal) error
	GetSignalByID(ctx context.Context, id uint64) (*models.Signal, error)
	ListSignals(ctx context.Context, params ListSignalsParams) ([]models.Signal, error)

	BulkInsertWhaleTradesTx(ctx context.Context, tx *gorm.DB, items []models.WhaleTrade) error
	ListWhaleTradesByMarketID(ctx context.Context, marketID string) ([]models.WhaleTrade, error)

	BulkUpsertRedditPostsTx(ctx context.Context, tx *gorm.DB, items []models.RedditPost) error
	ListRedditPostsByMarketID(ctx context.Context, marketID string) ([]models.RedditPost, error)
}

type ListMarketsParams struct {
	Limit   int
	Offset  int
	Active  *bool
	OrderBy string
	Asc     *bool
}

type ListSignalsParams struct {
	Limit    int
	Offset   int
	MarketID *string
	MinScore *int
	Since    *time.Time
	OrderBy  string
	Asc      *bool
}
