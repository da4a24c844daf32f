// Package http exposes the Advisor workflow over a JSON HTTP API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	advisor "github.com/futuretree/advisor"
	"github.com/futuretree/advisor/pkg/domain"
)

// Asker is the workflow surface the server depends on.
type Asker interface {
	Ask(ctx context.Context, question string, userContext map[string]string, maxRetries int) (domain.Result, error)
}

// Server handles the JSON API.
type Server struct {
	asker  Asker
	logger *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets a structured logger for request handling.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewHandler builds the chi router for the service.
func NewHandler(asker Asker, corsOrigins []string, gatherer prometheus.Gatherer, opts ...Option) http.Handler {
	server := &Server{asker: asker, logger: slog.Default()}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestID)
	r.Use(enableCORS(corsOrigins))

	r.Get("/", server.handleRoot)
	r.Get("/health", server.handleHealth)
	r.Post("/api/chat", server.handleChat)
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

type chatRequest struct {
	Message    string            `json:"message"`
	Context    map[string]string `json:"context,omitempty"`
	MaxRetries *int              `json:"max_retries,omitempty"`
}

type chatResponse struct {
	Answer  string                 `json:"answer"`
	Sources []domain.SourceSummary `json:"sources"`
	Route   domain.Route           `json:"route"`
	Retries int                    `json:"retries"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "FutureTree Advisor",
		"version": advisor.Version,
		"status":  "operational",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON body"})
		return
	}

	maxRetries := -1
	if req.MaxRetries != nil && *req.MaxRetries >= 0 {
		maxRetries = *req.MaxRetries
	}

	result, err := s.asker.Ask(r.Context(), req.Message, req.Context, maxRetries)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyQuestion):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			// Client went away; nothing useful to write.
			s.logger.Debug("chat request abandoned", "err", err)
		default:
			s.logger.Error("chat request failed", "err", err)
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "no answer could be produced"})
		}
		return
	}

	sources := result.Sources
	if sources == nil {
		sources = []domain.SourceSummary{}
	}
	writeJSON(w, http.StatusOK, chatResponse{
		Answer:  result.Answer,
		Sources: sources,
		Route:   result.Route,
		Retries: result.Retries,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// requestID tags every request with a correlation id header.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r)
	})
}

func enableCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin != "" && (allowed[origin] || allowed["*"]) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
