package gamma

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Market is a Polymarket market as returned by the Gamma /markets endpoint.
// Numeric fields arrive as strings and outcomePrices is a JSON array encoded
// as a string, so everything stays raw here and is parsed on demand.
type Market struct {
	ID            string `json:"id"`
	ConditionID   string `json:"conditionId"`
	Slug          string `json:"slug"`
	Question      string `json:"question"`
	Description   string `json:"description"`
	EndDate       string `json:"endDate"`
	Volume        string `json:"volume"`
	Liquidity     string `json:"liquidity"`
	OutcomePrices string `json:"outcomePrices"`
	Active        bool   `json:"active"`
	Closed        bool   `json:"closed"`
	Archived      bool   `json:"archived"`
}

// Identifier resolves the stable market key: the condition id when present,
// falling back to the Gamma row id, then the slug.
func (m Market) Identifier() string {
	if strings.TrimSpace(m.ConditionID) != "" {
		return m.ConditionID
	}
	if strings.TrimSpace(m.ID) != "" {
		return m.ID
	}
	return m.Slug
}

// YesPrice returns the first outcome price if one can be parsed.
func (m Market) YesPrice() (decimal.Decimal, bool) {
	raw := strings.TrimSpace(m.OutcomePrices)
	if raw == "" {
		return decimal.Decimal{}, false
	}
	var prices []string
	if err := json.Unmarshal([]byte(raw), &prices); err != nil || len(prices) == 0 {
		return decimal.Decimal{}, false
	}
	p, err := decimal.NewFromString(strings.TrimSpace(prices[0]))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return p, true
}

// EndDateTime parses the market end date if present.
func (m Market) EndDateTime() (time.Time, bool) {
	raw := strings.TrimSpace(m.EndDate)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SanitizeAmount converts a Gamma amount string to a decimal by stripping
// everything that is not a digit or a decimal point. Empty or unparsable
// input yields zero.
func SanitizeAmount(raw string) decimal.Decimal {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// ActiveMarkets fetches up to limit active, non-archived markets ordered by
// volume descending.
func (c *Client) ActiveMarkets(ctx context.Context, limit int) ([]Market, error) {
	if limit <= 0 {
		limit = 50
	}
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("active", "true")
	query.Set("closed", "false")
	query.Set("archived", "false")
	query.Set("order", "volume")
	query.Set("ascending", "false")

	body, err := c.doRequest(ctx, "/markets", query)
	if err != nil {
		return nil, err
	}
	var markets []Market
	if err := json.Unmarshal(body, &markets); err != nil {
		return nil, fmt.Errorf("failed to decode markets: %w", err)
	}
	return markets, nil
}
