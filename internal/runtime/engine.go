package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/futuretree/advisor/internal/logging"
	"github.com/futuretree/advisor/internal/metrics"
	"github.com/futuretree/advisor/pkg/domain"
	"github.com/futuretree/advisor/pkg/ports"
)

// NoAnswerMarker is the degraded answer surfaced when a fault interrupts the
// run after an answer-producing node has already executed.
const NoAnswerMarker = "No answer available."

// Params holds the tunable knobs of the workflow. Zero values are replaced
// by DefaultParams.
type Params struct {
	// RetrievalK bounds vector search results.
	RetrievalK int

	// SimilarityThreshold is the minimum cosine similarity for retrieval.
	SimilarityThreshold float64

	// WebResultLimit bounds web-fallback results.
	WebResultLimit int

	// GradePrefixLen bounds the document prefix sent to the relevance grader.
	GradePrefixLen int

	// GroundingExcerptLen bounds the combined evidence excerpt sent to the
	// grounding check.
	GroundingExcerptLen int

	// DefaultMaxRetries is used when the caller passes a negative budget.
	DefaultMaxRetries int
}

// DefaultParams mirrors the service's standard RAG configuration.
func DefaultParams() Params {
	return Params{
		RetrievalK:          5,
		SimilarityThreshold: 0.7,
		WebResultLimit:      3,
		GradePrefixLen:      1000,
		GroundingExcerptLen: 3000,
		DefaultMaxRetries:   3,
	}
}

func (p Params) withDefaults() Params {
	def := DefaultParams()
	if p.RetrievalK <= 0 {
		p.RetrievalK = def.RetrievalK
	}
	if p.SimilarityThreshold <= 0 {
		p.SimilarityThreshold = def.SimilarityThreshold
	}
	if p.WebResultLimit <= 0 {
		p.WebResultLimit = def.WebResultLimit
	}
	if p.GradePrefixLen <= 0 {
		p.GradePrefixLen = def.GradePrefixLen
	}
	if p.GroundingExcerptLen <= 0 {
		p.GroundingExcerptLen = def.GroundingExcerptLen
	}
	if p.DefaultMaxRetries <= 0 {
		p.DefaultMaxRetries = def.DefaultMaxRetries
	}
	return p
}

// nodeFunc mutates the state and returns the edge label selecting the next
// transition.
type nodeFunc func(ctx context.Context, s *domain.State) (edge, error)

// Engine drives one question through the workflow graph: route the question,
// gather and grade evidence, fall back to web search, generate, verify
// grounding, retry within budget.
//
// The engine holds no per-run state; each Run owns an independent
// domain.State, so one Engine serves many concurrent questions.
type Engine struct {
	classifier ports.Classifier
	retriever  ports.Retriever
	searcher   ports.WebSearcher
	generator  ports.Generator

	params  Params
	logger  *slog.Logger
	metrics *metrics.Workflow

	graph map[nodeID]map[edge]nodeID
	nodes map[nodeID]nodeFunc
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithParams overrides the workflow knobs.
func WithParams(p Params) EngineOption {
	return func(e *Engine) {
		e.params = p
	}
}

// WithMetrics registers workflow metrics collection.
func WithMetrics(m *metrics.Workflow) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates an engine with its four collaborator ports.
func NewEngine(classifier ports.Classifier, retriever ports.Retriever, searcher ports.WebSearcher, generator ports.Generator, opts ...EngineOption) *Engine {
	e := &Engine{
		classifier: classifier,
		retriever:  retriever,
		searcher:   searcher,
		generator:  generator,
		params:     DefaultParams(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.params = e.params.withDefaults()
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	e.graph = transitions()
	e.nodes = map[nodeID]nodeFunc{
		nodeRoute:    e.routeNode,
		nodeRetrieve: e.retrieveNode,
		nodeGrade:    e.gradeNode,
		nodeWeb:      e.webFallbackNode,
		nodeGenerate: e.generateNode,
		nodeVerify:   e.verifyNode,
		nodeDirect:   e.directAnswerNode,
	}
	return e
}

// Run executes the workflow for one question and returns the terminal result.
// A negative maxRetries selects the configured default budget.
//
// The run always terminates with a non-empty answer unless a fault occurs
// before any answer-producing node has run, in which case the error is
// returned as-is.
func (e *Engine) Run(ctx context.Context, question string, userContext map[string]string, maxRetries int) (domain.Result, error) {
	if strings.TrimSpace(question) == "" {
		return domain.Result{}, domain.ErrEmptyQuestion
	}
	if maxRetries < 0 {
		maxRetries = e.params.DefaultMaxRetries
	}

	runID := uuid.NewString()
	logger := e.logger.With("run_id", runID)
	state := domain.NewState(question, userContext, maxRetries)

	// lastAnswer retains the most recent successful generation so the run
	// can terminate with it after a failed grounding check exhausts the
	// budget, or after a late fault.
	var lastAnswer string

	current := nodeRoute
	for current != nodeEnd {
		// Check cancellation at node boundaries so abandoned requests stop
		// consuming model and search quota.
		if err := ctx.Err(); err != nil {
			return domain.Result{}, err
		}

		start := time.Now()
		label, err := e.nodes[current](ctx, state)
		if e.metrics != nil {
			e.metrics.ObserveNode(string(current), time.Since(start))
		}
		if err != nil {
			if lastAnswer == "" && state.Answer == "" {
				// Fault before any answer was produced: fail loudly.
				return domain.Result{}, fmt.Errorf("node %s: %w", current, err)
			}
			logger.Warn("workflow fault after answer, returning best effort",
				"node", current, "err", err)
			break
		}
		if state.Answer != "" {
			lastAnswer = state.Answer
		}

		next, ok := e.graph[current][label]
		if !ok {
			return domain.Result{}, fmt.Errorf("node %s returned unknown edge %q", current, label)
		}
		// Absolute retry ceiling, regardless of what verify requested.
		if current == nodeVerify && next == nodeGenerate && state.RetryCount >= state.MaxRetries {
			next = nodeEnd
		}
		logger.Debug("workflow transition", "from", current, "edge", label, "to", next)
		current = next
	}

	if state.Answer == "" {
		// Budget exhausted while ungrounded, or late fault: accept the last
		// generated answer rather than terminating empty.
		if lastAnswer != "" {
			state.Answer = lastAnswer
		} else {
			state.Answer = NoAnswerMarker
		}
	}

	result := state.Result()
	if e.metrics != nil {
		e.metrics.RunCompleted(string(state.Route), state.RetryCount)
	}
	logger.Info("workflow complete",
		"route", state.Route, "retries", state.RetryCount, "evidence", len(state.Evidence))
	return result, nil
}
