package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Market is a point-in-time snapshot of a Polymarket market, keyed by the
// exchange-assigned condition id. Rows are upserted on every generation pass
// and never deleted by the pipeline.
type Market struct {
	ID           string           `gorm:"primaryKey;type:text" json:"id"`
	Question     string           `gorm:"type:text;not null" json:"question"`
	Description  string           `gorm:"type:text" json:"description"`
	EndDate      *time.Time       `gorm:"type:timestamptz" json:"end_date,omitempty"`
	Volume       decimal.Decimal  `gorm:"type:numeric(30,10);not null" json:"volume"`
	Liquidity    decimal.Decimal  `gorm:"type:numeric(30,10);not null" json:"liquidity"`
	CurrentPrice *decimal.Decimal `gorm:"type:numeric(20,10)" json:"current_price,omitempty"`
	Active       bool             `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time        `gorm:"type:timestamptz;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"type:timestamptz;autoUpdateTime" json:"updated_at"`
}

func (Market) TableName() string {
	return "markets"
}
