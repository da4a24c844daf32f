// Package tavily implements the WebSearcher port against the Tavily search
// API.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/futuretree/advisor/pkg/ports"
)

const defaultEndpoint = "https://api.tavily.com/search"

// Searcher calls the Tavily search API.
type Searcher struct {
	apiKey   string
	endpoint string
	depth    string
	client   *http.Client
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithEndpoint overrides the API endpoint (used in tests).
func WithEndpoint(url string) Option {
	return func(s *Searcher) {
		s.endpoint = url
	}
}

// WithDepth sets Tavily's depth parameter (basic or advanced).
func WithDepth(depth string) Option {
	return func(s *Searcher) {
		if depth != "" {
			s.depth = depth
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Searcher) {
		s.client = client
	}
}

// New constructs a Searcher.
func New(apiKey string, opts ...Option) *Searcher {
	s := &Searcher{
		apiKey:   apiKey,
		endpoint: defaultEndpoint,
		depth:    "basic",
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ ports.WebSearcher = (*Searcher)(nil)

// Search posts a query to Tavily. Rate limiting is retried with a doubling
// backoff capped at 30s; any other failure is returned to the caller, which
// treats it as a degraded run rather than an abort.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]ports.WebResult, error) {
	if strings.TrimSpace(s.apiKey) == "" {
		return nil, errors.New("tavily: API key is missing")
	}

	payload, err := json.Marshal(map[string]any{
		"query":   query,
		"api_key": s.apiKey,
		"depth":   s.depth,
	})
	if err != nil {
		return nil, err
	}

	var resp *http.Response
	delay := time.Second
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err = s.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tavily http %d", resp.StatusCode)
	}

	var parsed struct {
		Results []struct {
			Title   string `json:"title"`
			URL     string `json:"url"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("tavily: decode response: %w", err)
	}

	results := make([]ports.WebResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, ports.WebResult{Title: r.Title, URL: r.URL, Content: r.Content})
		if limit > 0 && len(results) >= limit {
			break
		}
	}
	return results, nil
}
