package reddit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestTokenCacheReusesFreshToken(t *testing.T) {
	tc := NewTokenCache(50 * time.Minute)
	fetches := 0
	fetch := func(ctx context.Context) (string, error) {
		fetches++
		return fmt.Sprintf("token-%d", fetches), nil
	}

	for i := 0; i < 3; i++ {
		tok, err := tc.Get(context.Background(), fetch)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if tok != "token-1" {
			t.Fatalf("token=%s want=token-1", tok)
		}
	}
	if fetches != 1 {
		t.Fatalf("fetches=%d want=1", fetches)
	}
}

func TestTokenCacheRefreshesAfterTTL(t *testing.T) {
	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tc := NewTokenCache(50 * time.Minute)
	tc.now = func() time.Time { return current }

	fetches := 0
	fetch := func(ctx context.Context) (string, error) {
		fetches++
		return fmt.Sprintf("token-%d", fetches), nil
	}

	tok, _ := tc.Get(context.Background(), fetch)
	if tok != "token-1" {
		t.Fatalf("token=%s want=token-1", tok)
	}

	current = current.Add(49 * time.Minute)
	tok, _ = tc.Get(context.Background(), fetch)
	if tok != "token-1" {
		t.Fatalf("token before expiry=%s want=token-1", tok)
	}

	current = current.Add(2 * time.Minute)
	tok, _ = tc.Get(context.Background(), fetch)
	if tok != "token-2" {
		t.Fatalf("token after expiry=%s want=token-2", tok)
	}
	if fetches != 2 {
		t.Fatalf("fetches=%d want=2", fetches)
	}
}

func TestTokenCacheFetchFailureNotCached(t *testing.T) {
	tc := NewTokenCache(time.Minute)
	boom := errors.New("auth down")
	if _, err := tc.Get(context.Background(), func(ctx context.Context) (string, error) {
		return "", boom
	}); !errors.Is(err, boom) {
		t.Fatalf("err=%v want=%v", err, boom)
	}

	// A later successful fetch populates the cache normally.
	tok, err := tc.Get(context.Background(), func(ctx context.Context) (string, error) {
		return "recovered", nil
	})
	if err != nil || tok != "recovered" {
		t.Fatalf("tok=%s err=%v", tok, err)
	}
}
