package advisor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/futuretree/advisor/internal/logging"
	"github.com/futuretree/advisor/internal/metrics"
	"github.com/futuretree/advisor/internal/runtime"
	"github.com/futuretree/advisor/pkg/domain"
	"github.com/futuretree/advisor/pkg/ports"
)

// Version of the advisor module.
const Version = "0.1.0"

// Advisor is the high-level entry point for the answer-generation workflow.
// It wraps the internal runtime engine and layers optional answer caching on
// top. One Advisor serves many concurrent questions; each Ask runs on the
// caller's goroutine with its own execution state.
type Advisor struct {
	engine  *runtime.Engine
	cache   ports.AnswerCache
	metrics *metrics.Workflow
	logger  *slog.Logger

	classifier ports.Classifier
	retriever  ports.Retriever
	searcher   ports.WebSearcher
	generator  ports.Generator
	params     runtime.Params
}

// Option defines a functional option for configuring the Advisor.
type Option func(*Advisor)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Advisor) {
		a.logger = logger
	}
}

// WithCache enables answer caching. Only grounded answers that needed no
// regeneration are cached.
func WithCache(cache ports.AnswerCache) Option {
	return func(a *Advisor) {
		a.cache = cache
	}
}

// WithMetrics registers workflow metrics collection.
func WithMetrics(m *metrics.Workflow) Option {
	return func(a *Advisor) {
		a.metrics = m
	}
}

// WithParams overrides the workflow knobs (retrieval k, similarity
// threshold, retry budget and friends).
func WithParams(p runtime.Params) Option {
	return func(a *Advisor) {
		a.params = p
	}
}

// New initializes an Advisor with its four collaborator ports.
func New(classifier ports.Classifier, retriever ports.Retriever, searcher ports.WebSearcher, generator ports.Generator, opts ...Option) *Advisor {
	a := &Advisor{
		classifier: classifier,
		retriever:  retriever,
		searcher:   searcher,
		generator:  generator,
		params:     runtime.DefaultParams(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = logging.NewNop()
	}

	engineOpts := []runtime.EngineOption{
		runtime.WithLogger(a.logger),
		runtime.WithParams(a.params),
	}
	if a.metrics != nil {
		engineOpts = append(engineOpts, runtime.WithMetrics(a.metrics))
	}
	a.engine = runtime.NewEngine(classifier, retriever, searcher, generator, engineOpts...)
	return a
}

// Ask runs one question through the workflow, consulting the configured
// cache first when one is present. A negative maxRetries selects the
// configured default budget.
func (a *Advisor) Ask(ctx context.Context, question string, userContext map[string]string, maxRetries int) (domain.Result, error) {
	var key string
	if a.cache != nil {
		key = domain.CacheKey(question, userContext)
		cached, err := a.cache.Get(ctx, key)
		if err == nil {
			if a.metrics != nil {
				a.metrics.CacheHit()
			}
			a.logger.Debug("answer served from cache")
			return cached, nil
		}
		if !errors.Is(err, ports.ErrCacheMiss) {
			// Best effort: any cache failure degrades to a miss.
			a.logger.Warn("answer cache get failed", "err", err)
		}
		if a.metrics != nil {
			a.metrics.CacheMiss()
		}
	}

	result, err := a.engine.Run(ctx, question, userContext, maxRetries)
	if err != nil {
		return domain.Result{}, err
	}

	if key != "" && cacheable(result) {
		if err := a.cache.Set(ctx, key, result); err != nil {
			a.logger.Warn("answer cache set failed", "err", err)
		}
	}
	return result, nil
}

// cacheable reports whether a result is stable enough to reuse: answers that
// needed regeneration or came from live web search go stale or were never
// grounded to begin with.
func cacheable(result domain.Result) bool {
	if result.Retries > 0 {
		return false
	}
	return result.Route == domain.RouteVectorstore || result.Route == domain.RouteDirect
}
