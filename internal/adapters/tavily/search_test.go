package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultsBody(n int) string {
	results := make([]map[string]string, n)
	for i := range results {
		results[i] = map[string]string{
			"title":   "Result",
			"url":     "https://example.com",
			"content": "body",
		}
	}
	body, _ := json.Marshal(map[string]any{"results": results})
	return string(body)
}

func TestSearch_SendsQueryAndKey(t *testing.T) {
	var sent map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		w.Write([]byte(resultsBody(2)))
	}))
	defer srv.Close()

	s := New("tv-key", WithEndpoint(srv.URL), WithDepth("advanced"))
	results, err := s.Search(context.Background(), "startup funding stages", 3)
	require.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "startup funding stages", sent["query"])
	assert.Equal(t, "tv-key", sent["api_key"])
	assert.Equal(t, "advanced", sent["depth"])
}

func TestSearch_TruncatesToLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(resultsBody(7)))
	}))
	defer srv.Close()

	s := New("tv-key", WithEndpoint(srv.URL))
	results, err := s.Search(context.Background(), "q", 3)
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestSearch_RetriesRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(resultsBody(1)))
	}))
	defer srv.Close()

	s := New("tv-key", WithEndpoint(srv.URL))
	results, err := s.Search(context.Background(), "q", 0)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	assert.EqualValues(t, 2, calls.Load())
}

func TestSearch_RateLimitHonorsCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := New("tv-key", WithEndpoint(srv.URL))
	_, err := s.Search(ctx, "q", 0)
	require.ErrorIs(t, err, context.Canceled)
}

func TestSearch_ServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := New("tv-key", WithEndpoint(srv.URL))
	_, err := s.Search(context.Background(), "q", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSearch_MissingAPIKey(t *testing.T) {
	s := New("")
	_, err := s.Search(context.Background(), "q", 0)
	require.Error(t, err)
}
