package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Signal action enumeration.
const (
	ActionBuy   = "BUY"
	ActionSell  = "SELL"
	ActionHold  = "HOLD"
	ActionWatch = "WATCH"
)

// Signal confidence enumeration.
const (
	ConfidenceLow    = "LOW"
	ConfidenceMedium = "MEDIUM"
	ConfidenceHigh   = "HIGH"
)

// Signal urgency enumeration.
const (
	UrgencyLow      = "LOW"
	UrgencyMedium   = "MEDIUM"
	UrgencyHigh     = "HIGH"
	UrgencyCritical = "CRITICAL"
)

// Signal is a stored, scored recommendation for a market. Rows are
// append-only: each qualifying generation pass inserts a new signal and
// existing rows are never mutated.
type Signal struct {
	ID          uint64           `gorm:"primaryKey;autoIncrement" json:"id"`
	MarketID    string           `gorm:"type:text;not null;index" json:"market_id"`
	Score       int              `gorm:"not null" json:"score"`
	Action      string           `gorm:"type:varchar(10);not null" json:"action"`
	Confidence  string           `gorm:"type:varchar(10);not null" json:"confidence"`
	Urgency     string           `gorm:"type:varchar(10)" json:"urgency"`
	EntryPrice  *decimal.Decimal `gorm:"type:numeric(20,10)" json:"entry_price,omitempty"`
	TargetPrice *decimal.Decimal `gorm:"type:numeric(20,10)" json:"target_price,omitempty"`
	Reasoning   datatypes.JSON   `gorm:"type:jsonb" json:"reasoning"`
	WhaleCount  int              `gorm:"not null;default:0" json:"whale_count"`
	NewsCount   int              `gorm:"not null;default:0" json:"news_count"`
	RedditCount int              `gorm:"not null;default:0" json:"reddit_count"`
	CreatedAt   time.Time        `gorm:"type:timestamptz;autoCreateTime;index" json:"created_at"`
}

func (Signal) TableName() string {
	return "signals"
}
