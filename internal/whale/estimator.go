package whale

import (
	"time"

	"github.com/shopspring/decimal"

	"polyoracle/internal/client/gamma"
	"polyoracle/internal/models"
)

// Volume tiers map deterministically to (count, average notional) pairs.
// Tiers are checked highest first; below the lowest tier no trades are
// synthesized.
type tier struct {
	minVolume   int64
	count       int
	avgNotional int64
}

var tiers = []tier{
	{5_000_000, 4, 50_000},
	{1_000_000, 3, 30_000},
	{500_000, 2, 20_000},
	{100_000, 1, 15_000},
}

var defaultPrice = decimal.NewFromFloat(0.5)

// Estimator synthesizes whale-sized positions from a market's aggregate
// volume. The output carries an "estimated" provenance marker and is a
// volume proxy only; it must never be conflated with observed fills.
type Estimator struct {
	Enabled bool
	Now     func() time.Time
}

// Estimate returns 0-4 synthetic trades for the market, alternating
// BUY/SELL starting with BUY. Pure function of market state; a disabled
// estimator always returns nil.
func (e *Estimator) Estimate(market gamma.Market) []models.WhaleTrade {
	if e == nil || !e.Enabled {
		return nil
	}

	volume := gamma.SanitizeAmount(market.Volume)
	var matched *tier
	for i := range tiers {
		if volume.GreaterThanOrEqual(decimal.NewFromInt(tiers[i].minVolume)) {
			matched = &tiers[i]
			break
		}
	}
	if matched == nil {
		return nil
	}

	price, ok := market.YesPrice()
	if !ok || price.IsZero() {
		price = defaultPrice
	}

	now := time.Now().UTC()
	if e.Now != nil {
		now = e.Now()
	}

	notional := decimal.NewFromInt(matched.avgNotional)
	marketID := market.Identifier()
	trades := make([]models.WhaleTrade, 0, matched.count)
	for i := 0; i < matched.count; i++ {
		side := models.SideBuy
		if i%2 == 1 {
			side = models.SideSell
		}
		trades = append(trades, models.WhaleTrade{
			MarketID: marketID,
			Side:     side,
			Size:     notional.Div(price),
			Price:    price,
			SizeUSD:  notional,
			Source:   models.WhaleTradeSourceEstimated,
			TradedAt: now,
		})
	}
	return trades
}
