package whale

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"polyoracle/internal/client/gamma"
	"polyoracle/internal/models"
)

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func testMarket(volume, prices string) gamma.Market {
	return gamma.Market{
		ConditionID:   "0xabc",
		Question:      "Will it happen?",
		Volume:        volume,
		OutcomePrices: prices,
	}
}

func TestEstimateDisabled(t *testing.T) {
	e := &Estimator{Enabled: false}
	if got := e.Estimate(testMarket("6000000", `["0.5","0.5"]`)); got != nil {
		t.Fatalf("disabled estimator returned %d trades, want nil", len(got))
	}
}

func TestEstimateNilReceiver(t *testing.T) {
	var e *Estimator
	if got := e.Estimate(testMarket("6000000", "")); got != nil {
		t.Fatalf("nil estimator returned %d trades, want nil", len(got))
	}
}

func TestEstimateBelowLowestTier(t *testing.T) {
	e := &Estimator{Enabled: true, Now: fixedNow}
	if got := e.Estimate(testMarket("99999.99", "")); len(got) != 0 {
		t.Fatalf("volume below 100k produced %d trades, want 0", len(got))
	}
}

func TestEstimateTierBoundaries(t *testing.T) {
	cases := []struct {
		volume    string
		count     int
		sizeUSD   int64
	}{
		{"100000", 1, 15000},
		{"499999", 1, 15000},
		{"500000", 2, 20000},
		{"999999", 2, 20000},
		{"1000000", 3, 30000},
		{"4999999", 3, 30000},
		{"5000000", 4, 50000},
		{"125000000", 4, 50000},
	}
	e := &Estimator{Enabled: true, Now: fixedNow}
	for _, tc := range cases {
		trades := e.Estimate(testMarket(tc.volume, ""))
		if len(trades) != tc.count {
			t.Fatalf("volume=%s got %d trades, want %d", tc.volume, len(trades), tc.count)
		}
		for _, tr := range trades {
			if !tr.SizeUSD.Equal(decimal.NewFromInt(tc.sizeUSD)) {
				t.Fatalf("volume=%s size_usd=%s want=%d", tc.volume, tr.SizeUSD, tc.sizeUSD)
			}
		}
	}
}

func TestEstimateAlternatesSides(t *testing.T) {
	e := &Estimator{Enabled: true, Now: fixedNow}
	trades := e.Estimate(testMarket("5000000", `["0.5","0.5"]`))
	if len(trades) != 4 {
		t.Fatalf("got %d trades, want 4", len(trades))
	}
	wantSides := []string{models.SideBuy, models.SideSell, models.SideBuy, models.SideSell}
	for i, tr := range trades {
		if tr.Side != wantSides[i] {
			t.Fatalf("trade %d side=%s want=%s", i, tr.Side, wantSides[i])
		}
	}
}

func TestEstimateSizeFromPrice(t *testing.T) {
	e := &Estimator{Enabled: true, Now: fixedNow}
	trades := e.Estimate(testMarket("5000000", `["0.25","0.75"]`))
	if len(trades) != 4 {
		t.Fatalf("got %d trades, want 4", len(trades))
	}
	wantSize := decimal.NewFromInt(200000) // 50000 / 0.25
	for _, tr := range trades {
		if !tr.Size.Equal(wantSize) {
			t.Fatalf("size=%s want=%s", tr.Size, wantSize)
		}
		if !tr.Price.Equal(decimal.NewFromFloat(0.25)) {
			t.Fatalf("price=%s want=0.25", tr.Price)
		}
	}
}

func TestEstimateDefaultPrice(t *testing.T) {
	e := &Estimator{Enabled: true, Now: fixedNow}
	for _, prices := range []string{"", "not json", `["0"]`} {
		trades := e.Estimate(testMarket("100000", prices))
		if len(trades) != 1 {
			t.Fatalf("prices=%q got %d trades, want 1", prices, len(trades))
		}
		// 15000 / 0.5
		if !trades[0].Size.Equal(decimal.NewFromInt(30000)) {
			t.Fatalf("prices=%q size=%s want=30000", prices, trades[0].Size)
		}
	}
}

func TestEstimateProvenance(t *testing.T) {
	e := &Estimator{Enabled: true, Now: fixedNow}
	trades := e.Estimate(testMarket("100000", ""))
	if len(trades) != 1 {
		t.Fatalf("got %d trades, want 1", len(trades))
	}
	tr := trades[0]
	if tr.Source != models.WhaleTradeSourceEstimated {
		t.Fatalf("source=%s want=%s", tr.Source, models.WhaleTradeSourceEstimated)
	}
	if tr.MarketID != "0xabc" {
		t.Fatalf("market_id=%s want=0xabc", tr.MarketID)
	}
	if !tr.TradedAt.Equal(fixedNow()) {
		t.Fatalf("traded_at=%s want=%s", tr.TradedAt, fixedNow())
	}
}
