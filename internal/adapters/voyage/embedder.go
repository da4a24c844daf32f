// Package voyage provides a Voyage AI embedding client used by the pgvector
// retriever.
package voyage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.voyageai.com"
	defaultModel   = "voyage-3-large"

	// Dimensions of the voyage-3 family output vectors.
	Dimensions = 1024

	maxAttempts = 3
)

// InputType distinguishes document embeddings from query embeddings; Voyage
// optimizes the two differently for retrieval.
type InputType string

const (
	InputDocument InputType = "document"
	InputQuery    InputType = "query"
)

// Embedder calls the Voyage embeddings endpoint.
type Embedder struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithBaseURL overrides the API endpoint (used in tests).
func WithBaseURL(url string) Option {
	return func(e *Embedder) {
		e.baseURL = strings.TrimRight(url, "/")
	}
}

// WithModel overrides the embedding model name.
func WithModel(model string) Option {
	return func(e *Embedder) {
		if model != "" {
			e.model = model
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(e *Embedder) {
		e.client = client
	}
}

// New constructs an Embedder.
func New(apiKey string, opts ...Option) *Embedder {
	e := &Embedder{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type embedRequest struct {
	Input     []string `json:"input"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

// EmbedQuery embeds a single retrieval query.
func (e *Embedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vecs, err := e.Embed(ctx, []string{query}, InputQuery)
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// Embed embeds a batch of texts. Transient failures are retried with
// exponential backoff up to three attempts.
func (e *Embedder) Embed(ctx context.Context, texts []string, inputType InputType) ([][]float32, error) {
	if strings.TrimSpace(e.apiKey) == "" {
		return nil, errors.New("voyage: API key is missing")
	}
	if len(texts) == 0 {
		return nil, errors.New("voyage: no texts to embed")
	}

	payload, err := json.Marshal(embedRequest{
		Input:     texts,
		Model:     e.model,
		InputType: string(inputType),
	})
	if err != nil {
		return nil, err
	}

	var lastErr error
	delay := time.Second
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		vecs, err := e.post(ctx, payload)
		if err == nil {
			if len(vecs) != len(texts) {
				return nil, fmt.Errorf("voyage: expected %d embeddings, got %d", len(texts), len(vecs))
			}
			return vecs, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("voyage: embedding failed after %d attempts: %w", maxAttempts, lastErr)
}

func (e *Embedder) post(ctx context.Context, payload []byte) ([][]float32, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/v1/embeddings", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voyage http %d", resp.StatusCode)
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("voyage: decode response: %w", err)
	}

	vecs := make([][]float32, len(parsed.Data))
	for i, d := range parsed.Data {
		vecs[i] = d.Embedding
	}
	return vecs, nil
}
