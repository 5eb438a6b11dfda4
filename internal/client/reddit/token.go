package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// TokenCache holds an application-only OAuth token and refreshes it lazily
// once the configured TTL elapses. Reads are safe across goroutines; a
// refresh is serialized under the mutex.
type TokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time

	ttl time.Duration
	now func() time.Time
}

func NewTokenCache(ttl time.Duration) *TokenCache {
	if ttl <= 0 {
		ttl = 50 * time.Minute
	}
	return &TokenCache{ttl: ttl, now: time.Now}
}

// Get returns the cached token, fetching a fresh one via fetch when the
// cache is empty or expired.
func (tc *TokenCache) Get(ctx context.Context, fetch func(context.Context) (string, error)) (string, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	if tc.token != "" && tc.now().Before(tc.expiresAt) {
		return tc.token, nil
	}
	token, err := fetch(ctx)
	if err != nil {
		return "", err
	}
	tc.token = token
	tc.expiresAt = tc.now().Add(tc.ttl)
	return token, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func (c *Client) fetchToken(ctx context.Context) (string, error) {
	body := strings.NewReader("grant_type=client_credentials")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, body)
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", &APIError{Status: resp.StatusCode, Body: string(raw)}
	}
	var decoded tokenResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if decoded.AccessToken == "" {
		return "", fmt.Errorf("token response contained no access_token")
	}
	return decoded.AccessToken, nil
}
