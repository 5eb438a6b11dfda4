package gormrepository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"polyoracle/internal/models"
	"polyoracle/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// conn picks the transaction handle when one is supplied.
func (s *Store) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

// --- markets ----------------------------------------------------------------

func (s *Store) UpsertMarket(ctx context.Context, item *models.Market) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	if strings.TrimSpace(item.ID) == "" {
		return errors.New("market id is required")
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"question",
			"description",
			"end_date",
			"volume",
			"liquidity",
			"current_price",
			"active",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetMarketByID(ctx context.Context, id string) (*models.Market, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Market
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListMarkets(ctx context.Context, params repository.ListMarketsParams) ([]models.Market, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Market{})
	if params.Active != nil {
		query = query.Where("active = ?", *params.Active)
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "updated_at")
	var items []models.Market
	if err := query.Limit(normalizeLimit(params.Limit, 200)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- signals ----------------------------------------------------------------

func (s *Store) InsertSignalTx(ctx context.Context, tx *gorm.DB, item *models.Signal) error {
	if s == nil || item == nil {
		return nil
	}
	return s.conn(tx).WithContext(ctx).Create(item).Error
}

func (s *Store) GetSignalByID(ctx context.Context, id uint64) (*models.Signal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Signal
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSignals(ctx context.Context, params repository.ListSignalsParams) ([]models.Signal, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.Signal{})
	if params.MarketID != nil && strings.TrimSpace(*params.MarketID) != "" {
		query = query.Where("market_id = ?", strings.TrimSpace(*params.MarketID))
	}
	if params.MinScore != nil {
		query = query.Where("score >= ?", *params.MinScore)
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("created_at >= ?", *params.Since)
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	var items []models.Signal
	if err := query.Limit(normalizeLimit(params.Limit, 200)).Offset(normalizeOffset(params.Offset)).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- whale trades -----------------------------------------------------------

func (s *Store) BulkInsertWhaleTradesTx(ctx context.Context, tx *gorm.DB, items []models.WhaleTrade) error {
	if s == nil || len(items) == 0 {
		return nil
	}
	return s.conn(tx).WithContext(ctx).CreateInBatches(items, 200).Error
}

func (s *Store) ListWhaleTradesByMarketID(ctx context.Context, marketID string) ([]models.WhaleTrade, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.WhaleTrade
	if err := s.db.WithContext(ctx).
		Where("market_id = ?", marketID).
		Order("traded_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- reddit posts -----------------------------------------------------------

func (s *Store) BulkUpsertRedditPostsTx(ctx context.Context, tx *gorm.DB, items []models.RedditPost) error {
	if s == nil || len(items) == 0 {
		return nil
	}
	return s.conn(tx).WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "market_id"}, {Name: "post_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title",
			"body",
			"author",
			"subreddit",
			"score",
			"upvote_ratio",
			"num_comments",
			"permalink",
			"posted_at",
		}),
	}).CreateInBatches(items, 200).Error
}

func (s *Store) ListRedditPostsByMarketID(ctx context.Context, marketID string) ([]models.RedditPost, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.RedditPost
	if err := s.db.WithContext(ctx).
		Where("market_id = ?", marketID).
		Order("score desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- helpers ----------------------------------------------------------------

func normalizeLimit(limit, def int) int {
	if limit <= 0 || limit > 1000 {
		return def
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

var orderableColumns = map[string]struct{}{
	"created_at": {},
	"updated_at": {},
	"score":      {},
	"volume":     {},
	"traded_at":  {},
}

func applyOrder(query *gorm.DB, orderBy string, asc *bool, def string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if _, ok := orderableColumns[column]; !ok {
		column = def
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}
