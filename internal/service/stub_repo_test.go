package service

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"polyoracle/internal/models"
	"polyoracle/internal/repository"
)

// stubRepo is an in-memory Repository. Tx methods ignore the tx handle but
// respect the failure switches so transactional error paths stay testable.
type stubRepo struct {
	mu sync.Mutex

	markets     map[string]*models.Market
	signals     []models.Signal
	whaleTrades []models.WhaleTrade
	redditPosts []models.RedditPost

	failUpsertMarket bool
	failInsertSignal bool

	nextSignalID uint64
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		markets:      map[string]*models.Market{},
		nextSignalID: 1,
	}
}

var errStub = errors.New("stub failure")

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.mu.Lock()
	savedSignals := len(s.signals)
	savedTrades := len(s.whaleTrades)
	savedPosts := len(s.redditPosts)
	s.mu.Unlock()

	if err := fn(nil); err != nil {
		s.mu.Lock()
		s.signals = s.signals[:savedSignals]
		s.whaleTrades = s.whaleTrades[:savedTrades]
		s.redditPosts = s.redditPosts[:savedPosts]
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *stubRepo) UpsertMarket(ctx context.Context, item *models.Market) error {
	if s.failUpsertMarket {
		return errStub
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markets[item.ID] = item
	return nil
}

func (s *stubRepo) GetMarketByID(ctx context.Context, id string) (*models.Market, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.markets[id]
	if !ok {
		return nil, nil
	}
	return m, nil
}

func (s *stubRepo) ListMarkets(ctx context.Context, params repository.ListMarketsParams) ([]models.Market, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Market, 0, len(s.markets))
	for _, m := range s.markets {
		out = append(out, *m)
	}
	return out, nil
}

func (s *stubRepo) InsertSignalTx(ctx context.Context, tx *gorm.DB, item *models.Signal) error {
	if s.failInsertSignal {
		return errStub
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = s.nextSignalID
	s.nextSignalID++
	s.signals = append(s.signals, *item)
	return nil
}

func (s *stubRepo) GetSignalByID(ctx context.Context, id uint64) (*models.Signal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.signals {
		if s.signals[i].ID == id {
			return &s.signals[i], nil
		}
	}
	return nil, nil
}

func (s *stubRepo) ListSignals(ctx context.Context, params repository.ListSignalsParams) ([]models.Signal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Signal(nil), s.signals...), nil
}

func (s *stubRepo) BulkInsertWhaleTradesTx(ctx context.Context, tx *gorm.DB, items []models.WhaleTrade) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.whaleTrades = append(s.whaleTrades, items...)
	return nil
}

func (s *stubRepo) ListWhaleTradesByMarketID(ctx context.Context, marketID string) ([]models.WhaleTrade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.WhaleTrade
	for _, t := range s.whaleTrades {
		if t.MarketID == marketID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *stubRepo) BulkUpsertRedditPostsTx(ctx context.Context, tx *gorm.DB, items []models.RedditPost) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redditPosts = append(s.redditPosts, items...)
	return nil
}

func (s *stubRepo) ListRedditPostsByMarketID(ctx context.Context, marketID string) ([]models.RedditPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.RedditPost
	for _, p := range s.redditPosts {
		if p.MarketID == marketID {
			out = append(out, p)
		}
	}
	return out, nil
}

var _ repository.Repository = (*stubRepo)(nil)
