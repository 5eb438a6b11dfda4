package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Post is a Reddit submission surfaced while searching market discussions.
type Post struct {
	ID          string
	Title       string
	Selftext    string
	Author      string
	Subreddit   string
	Score       int
	UpvoteRatio float64
	NumComments int
	Permalink   string
	CreatedAt   time.Time
}

type Client struct {
	authURL      string
	apiURL       string
	clientID     string
	clientSecret string
	userAgent    string
	subreddits   []string
	searchLimit  int
	httpClient   *http.Client
	tokens       *TokenCache
}

type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("reddit API error (%d): %s", e.Status, e.Body)
}

type Options struct {
	AuthURL      string
	APIURL       string
	ClientID     string
	ClientSecret string
	UserAgent    string
	Subreddits   []string
	SearchLimit  int
	Tokens       *TokenCache
}

func NewClient(httpClient *http.Client, opts Options) *Client {
	if opts.AuthURL == "" {
		opts.AuthURL = "https://www.reddit.com/api/v1/access_token"
	}
	if opts.APIURL == "" {
		opts.APIURL = "https://oauth.reddit.com"
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "PolyOracle/1.0"
	}
	if len(opts.Subreddits) == 0 {
		opts.Subreddits = []string{"Polymarket", "PredictionMarkets"}
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = 3
	}
	if opts.Tokens == nil {
		opts.Tokens = NewTokenCache(0)
	}
	return &Client{
		authURL:      opts.AuthURL,
		apiURL:       strings.TrimRight(opts.APIURL, "/"),
		clientID:     opts.ClientID,
		clientSecret: opts.ClientSecret,
		userAgent:    opts.UserAgent,
		subreddits:   opts.Subreddits,
		searchLimit:  opts.SearchLimit,
		httpClient:   httpClient,
		tokens:       opts.Tokens,
	}
}

type listingResponse struct {
	Data struct {
		Children []struct {
			Data struct {
				ID          string  `json:"id"`
				Title       string  `json:"title"`
				Selftext    string  `json:"selftext"`
				Author      string  `json:"author"`
				Subreddit   string  `json:"subreddit"`
				Score       int     `json:"score"`
				UpvoteRatio float64 `json:"upvote_ratio"`
				NumComments int     `json:"num_comments"`
				Permalink   string  `json:"permalink"`
				CreatedUTC  float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// MarketDiscussions searches the configured prediction-market subreddits for
// posts matching the query, sorted by hot.
func (c *Client) MarketDiscussions(ctx context.Context, query string) ([]Post, error) {
	token, err := c.tokens.Get(ctx, c.fetchToken)
	if err != nil {
		return nil, fmt.Errorf("reddit auth failed: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("sort", "hot")
	params.Set("limit", strconv.Itoa(c.searchLimit))
	params.Set("restrict_sr", "true")

	fullURL := c.apiURL + "/r/" + strings.Join(c.subreddits, "+") + "/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{Status: resp.StatusCode, Body: string(raw)}
	}

	var decoded listingResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	posts := make([]Post, 0, len(decoded.Data.Children))
	for _, child := range decoded.Data.Children {
		d := child.Data
		posts = append(posts, Post{
			ID:          d.ID,
			Title:       d.Title,
			Selftext:    d.Selftext,
			Author:      d.Author,
			Subreddit:   d.Subreddit,
			Score:       d.Score,
			UpvoteRatio: d.UpvoteRatio,
			NumComments: d.NumComments,
			Permalink:   d.Permalink,
			CreatedAt:   time.Unix(int64(d.CreatedUTC), 0).UTC(),
		})
	}
	return posts, nil
}
