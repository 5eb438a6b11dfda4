package gamma

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func TestSanitizeAmount(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"1234567.89", "1234567.89"},
		{"$1,234,567.89", "1234567.89"},
		{" 50000 ", "50000"},
		{"", "0"},
		{"abc", "0"},
		{"1.2.3", "0"},
	}
	for _, tc := range cases {
		want, err := decimal.NewFromString(tc.want)
		if err != nil {
			t.Fatalf("bad case %q: %v", tc.want, err)
		}
		if got := SanitizeAmount(tc.raw); !got.Equal(want) {
			t.Fatalf("SanitizeAmount(%q)=%s want=%s", tc.raw, got, want)
		}
	}
}

func TestMarketIdentifier(t *testing.T) {
	m := Market{ConditionID: "0xcond", ID: "123", Slug: "some-market"}
	if got := m.Identifier(); got != "0xcond" {
		t.Fatalf("identifier=%s want=0xcond", got)
	}
	m.ConditionID = " "
	if got := m.Identifier(); got != "123" {
		t.Fatalf("identifier=%s want=123", got)
	}
	m.ID = ""
	if got := m.Identifier(); got != "some-market" {
		t.Fatalf("identifier=%s want=some-market", got)
	}
}

func TestMarketYesPrice(t *testing.T) {
	m := Market{OutcomePrices: `["0.65", "0.35"]`}
	p, ok := m.YesPrice()
	if !ok {
		t.Fatal("expected a parsed price")
	}
	if !p.Equal(decimal.NewFromFloat(0.65)) {
		t.Fatalf("price=%s want=0.65", p)
	}

	for _, raw := range []string{"", "[]", "not json", `["abc"]`} {
		m := Market{OutcomePrices: raw}
		if _, ok := m.YesPrice(); ok {
			t.Fatalf("OutcomePrices=%q parsed, want failure", raw)
		}
	}
}

func TestMarketEndDateTime(t *testing.T) {
	m := Market{EndDate: "2025-12-31T23:59:59Z"}
	ts, ok := m.EndDateTime()
	if !ok {
		t.Fatal("expected a parsed end date")
	}
	if ts.Year() != 2025 || ts.Month() != 12 {
		t.Fatalf("unexpected end date %s", ts)
	}
	if _, ok := (Market{EndDate: "soon"}).EndDateTime(); ok {
		t.Fatal("garbage end date parsed, want failure")
	}
}

func TestActiveMarkets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markets" {
			t.Fatalf("path=%s want=/markets", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("active") != "true" || q.Get("closed") != "false" || q.Get("archived") != "false" {
			t.Fatalf("unexpected filters: %s", r.URL.RawQuery)
		}
		if q.Get("limit") != "2" || q.Get("order") != "volume" || q.Get("ascending") != "false" {
			t.Fatalf("unexpected ordering: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"1","conditionId":"0x1","question":"A?","volume":"1500000","outcomePrices":"[\"0.6\",\"0.4\"]","active":true},
			{"id":"2","conditionId":"0x2","question":"B?","volume":"80000","active":true}
		]`))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	markets, err := c.ActiveMarkets(context.Background(), 2)
	if err != nil {
		t.Fatalf("ActiveMarkets: %v", err)
	}
	if len(markets) != 2 {
		t.Fatalf("got %d markets, want 2", len(markets))
	}
	if markets[0].Identifier() != "0x1" {
		t.Fatalf("identifier=%s want=0x1", markets[0].Identifier())
	}
	if !SanitizeAmount(markets[0].Volume).Equal(decimal.NewFromInt(1500000)) {
		t.Fatalf("volume=%s want=1500000", markets[0].Volume)
	}
}

func TestActiveMarketsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	_, err := c.ActiveMarkets(context.Background(), 5)
	if err == nil {
		t.Fatal("expected error on 502")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type=%T want=*APIError", err)
	}
	if apiErr.Status != http.StatusBadGateway {
		t.Fatalf("status=%d want=502", apiErr.Status)
	}
}
