package voyage

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

func embeddingBody(n int) string {
	data := make([]map[string]any, n)
	for i := range data {
		data[i] = map[string]any{"embedding": []float32{0.1, 0.2, 0.3}}
	}
	body, _ := json.Marshal(map[string]any{"data": data})
	return string(body)
}

func TestEmbed_SendsModelAndInputType(t *testing.T) {
	var sent embedRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		w.Write([]byte(embeddingBody(2)))
	}))
	defer srv.Close()

	e := New("vo-key", WithBaseURL(srv.URL))
	vecs, err := e.Embed(context.Background(), []string{"alpha", "beta"}, InputDocument)
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vecs[0])
	assert.Equal(t, defaultModel, sent.Model)
	assert.Equal(t, "document", sent.InputType)
	assert.Equal(t, []string{"alpha", "beta"}, sent.Input)
	assert.Equal(t, "Bearer vo-key", auth)
}

func TestEmbedQuery_UsesQueryInputType(t *testing.T) {
	var sent embedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		w.Write([]byte(embeddingBody(1)))
	}))
	defer srv.Close()

	e := New("vo-key", WithBaseURL(srv.URL))
	vec, err := e.EmbedQuery(context.Background(), "pricing strategy")
	require.NoError(t, err)
	assert.Len(t, vec, 3)
	assert.Equal(t, "query", sent.InputType)
}

func TestEmbed_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(embeddingBody(1)))
	}))
	defer srv.Close()

	e := New("vo-key", WithBaseURL(srv.URL))
	vecs, err := e.Embed(context.Background(), []string{"alpha"}, InputQuery)
	require.NoError(t, err)
	assert.Len(t, vecs, 1)
	assert.EqualValues(t, 3, calls.Load())
}

func TestEmbed_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	e := New("vo-key", WithBaseURL(srv.URL))
	_, err := e.Embed(context.Background(), []string{"alpha"}, InputQuery)
	require.Error(t, err)
	assert.EqualValues(t, maxAttempts, calls.Load())
}

func TestEmbed_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(embeddingBody(1)))
	}))
	defer srv.Close()

	e := New("vo-key", WithBaseURL(srv.URL))
	_, err := e.Embed(context.Background(), []string{"alpha", "beta"}, InputDocument)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 2 embeddings")
}

func TestEmbed_InputValidation(t *testing.T) {
	e := New("vo-key")
	_, err := e.Embed(context.Background(), nil, InputDocument)
	require.Error(t, err)

	e = New("")
	_, err = e.Embed(context.Background(), []string{"alpha"}, InputDocument)
	require.Error(t, err)
}
