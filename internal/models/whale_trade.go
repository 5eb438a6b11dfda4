package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Trade side enumeration.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// WhaleTradeSourceEstimated marks trades synthesized from volume tiers rather
// than observed on a trade feed. Estimated rows are a volume proxy only and
// must never be read as ground-truth fills.
const WhaleTradeSourceEstimated = "estimated"

// WhaleTrade is a large-notional position attributed to a market. Rows are
// insert-only and written only alongside a stored signal.
type WhaleTrade struct {
	ID       uint64          `gorm:"primaryKey;autoIncrement" json:"id"`
	MarketID string          `gorm:"type:text;not null;index" json:"market_id"`
	Side     string          `gorm:"type:varchar(4);not null" json:"side"`
	Size     decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"size"`
	Price    decimal.Decimal `gorm:"type:numeric(20,10);not null" json:"price"`
	SizeUSD  decimal.Decimal `gorm:"type:numeric(30,10);not null" json:"size_usd"`
	Source   string          `gorm:"type:varchar(20);not null" json:"source"`
	TradedAt time.Time       `gorm:"type:timestamptz;not null" json:"traded_at"`
}

func (WhaleTrade) TableName() string {
	return "whale_trades"
}
