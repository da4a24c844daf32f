// Package cli wires configuration into a ready-to-use Advisor for the
// command-line entry points.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/futuretree/advisor"
	"github.com/futuretree/advisor/internal/adapters/anthropic"
	"github.com/futuretree/advisor/internal/adapters/pgvector"
	redisCache "github.com/futuretree/advisor/internal/adapters/redis"
	"github.com/futuretree/advisor/internal/adapters/tavily"
	"github.com/futuretree/advisor/internal/adapters/voyage"
	"github.com/futuretree/advisor/internal/config"
	"github.com/futuretree/advisor/internal/metrics"
	"github.com/futuretree/advisor/internal/runtime"
)

// Services bundles everything the commands need.
type Services struct {
	Advisor  *advisor.Advisor
	Store    *pgvector.Store
	Embedder *voyage.Embedder
	Cache    *redisCache.Cache
	Metrics  *metrics.Workflow
	Registry *prometheus.Registry
	Config   config.Config
}

// Build constructs the production service graph from configuration.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Services, error) {
	if cfg.Models.AnthropicAPIKey == "" {
		return nil, fmt.Errorf("ANTHROPIC_API_KEY is required")
	}
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	model := anthropic.New(cfg.Models.AnthropicAPIKey,
		anthropic.WithModels(cfg.Models.ChatModel, cfg.Models.JSONModel),
		anthropic.WithLogger(logger),
	)

	embedder := voyage.New(cfg.Models.VoyageAPIKey, voyage.WithModel(cfg.Models.EmbeddingModel))

	store, err := pgvector.Connect(ctx, cfg.Database.URL, embedder)
	if err != nil {
		return nil, err
	}

	searcher := tavily.New(cfg.Models.TavilyAPIKey)

	registry := prometheus.NewRegistry()
	workflowMetrics := metrics.NewWorkflow(registry)

	opts := []advisor.Option{
		advisor.WithLogger(logger),
		advisor.WithMetrics(workflowMetrics),
		advisor.WithParams(runtime.Params{
			RetrievalK:          cfg.Retrieval.K,
			SimilarityThreshold: cfg.Retrieval.SimilarityThreshold,
			WebResultLimit:      cfg.Retrieval.WebResultLimit,
			DefaultMaxRetries:   cfg.Retrieval.MaxRetries,
		}),
	}

	var cache *redisCache.Cache
	if cfg.Redis.Addr != "" {
		ttl := 24 * time.Hour
		if cfg.Redis.TTLHours > 0 {
			ttl = time.Duration(cfg.Redis.TTLHours) * time.Hour
		}
		cache = redisCache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redisCache.WithTTL(ttl))
		opts = append(opts, advisor.WithCache(cache))
	}

	return &Services{
		Advisor:  advisor.New(model, store, searcher, model, opts...),
		Store:    store,
		Embedder: embedder,
		Cache:    cache,
		Metrics:  workflowMetrics,
		Registry: registry,
		Config:   cfg,
	}, nil
}

// Close releases held connections.
func (s *Services) Close() {
	if s.Store != nil {
		s.Store.Close()
	}
	if s.Cache != nil {
		_ = s.Cache.Close()
	}
}
