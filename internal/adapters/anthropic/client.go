// Package anthropic implements the Classifier and Generator ports on top of
// the Anthropic Messages API.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/futuretree/advisor/internal/logging"
	"github.com/futuretree/advisor/pkg/domain"
	"github.com/futuretree/advisor/pkg/ports"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultChatModel = "claude-sonnet-4-20250514"
	defaultJSONModel = "claude-3-5-haiku-20241022"
	apiVersion       = "2023-06-01"

	chatMaxTokens = 4096
	jsonMaxTokens = 1024
)

// Client calls the Anthropic Messages API. It uses a larger chat model for
// answer generation and a small deterministic model for structured
// classification.
type Client struct {
	apiKey    string
	baseURL   string
	chatModel string
	jsonModel string
	client    *http.Client
	logger    *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used in tests).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithModels overrides the chat and classification model names.
func WithModels(chat, classification string) Option {
	return func(c *Client) {
		if chat != "" {
			c.chatModel = chat
		}
		if classification != "" {
			c.jsonModel = classification
		}
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New constructs a Client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:    apiKey,
		baseURL:   defaultBaseURL,
		chatModel: defaultChatModel,
		jsonModel: defaultJSONModel,
		client:    &http.Client{Timeout: 60 * time.Second},
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var (
	_ ports.Classifier = (*Client)(nil)
	_ ports.Generator  = (*Client)(nil)
)

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
	// Temperature zero keeps classification deterministic.
	Temperature float64 `json:"temperature"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// complete posts one request to the messages endpoint and returns the
// concatenated text blocks.
func (c *Client) complete(ctx context.Context, req messagesRequest) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", errors.New("anthropic: API key is missing")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("anthropic: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("anthropic: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("anthropic api error %s: %s", parsed.Error.Type, parsed.Error.Message)
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return text.String(), nil
}

// classify sends a classification prompt and decodes the JSON reply into
// out. A reply that cannot be parsed leaves out untouched and returns false,
// letting each call site apply its documented default.
func (c *Client) classify(ctx context.Context, system, payload string, out any) (bool, error) {
	text, err := c.complete(ctx, messagesRequest{
		Model:     c.jsonModel,
		System:    system,
		Messages:  []message{{Role: "user", Content: payload}},
		MaxTokens: jsonMaxTokens,
	})
	if err != nil {
		return false, err
	}

	raw, ok := extractJSON(text)
	if !ok {
		c.logger.Debug("classifier reply carried no JSON object", "reply", truncateForLog(text))
		return false, nil
	}

	var loose map[string]any
	if err := json.Unmarshal([]byte(raw), &loose); err != nil {
		c.logger.Debug("classifier reply JSON malformed", "err", err)
		return false, nil
	}
	if err := mapstructure.Decode(loose, out); err != nil {
		c.logger.Debug("classifier reply shape mismatch", "err", err)
		return false, nil
	}
	return true, nil
}

// ClassifyRoute picks the evidence strategy. Malformed output defaults to
// the vectorstore route, the safer evidence-seeking path.
func (c *Client) ClassifyRoute(ctx context.Context, question string) (domain.Route, error) {
	var decision struct {
		Route string `mapstructure:"route"`
	}
	ok, err := c.classify(ctx, routerSystemPrompt, "Question: "+question, &decision)
	if err != nil {
		return "", err
	}
	if !ok {
		return domain.RouteVectorstore, nil
	}

	route := domain.Route(strings.ToLower(strings.TrimSpace(decision.Route)))
	if !route.Valid() {
		return domain.RouteVectorstore, nil
	}
	return route, nil
}

// GradeRelevance judges one document. Malformed output fails open: the
// document is kept.
func (c *Client) GradeRelevance(ctx context.Context, question, document string) (bool, error) {
	var verdict struct {
		Relevant string `mapstructure:"relevant"`
	}
	payload := fmt.Sprintf("Document: %s\n\nQuestion: %s", document, question)
	ok, err := c.classify(ctx, graderSystemPrompt, payload, &verdict)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	// Only an explicit "no" drops the document.
	return !strings.EqualFold(strings.TrimSpace(verdict.Relevant), "no"), nil
}

// CheckGrounding judges whether the answer is supported by the evidence.
// Malformed output is treated as grounded so verification stays a no-op
// rather than burning the retry budget on parser noise.
func (c *Client) CheckGrounding(ctx context.Context, evidence, answer string) (ports.Grounding, error) {
	var verdict struct {
		Grounded    string `mapstructure:"grounded"`
		Explanation string `mapstructure:"explanation"`
	}
	payload := fmt.Sprintf("FACTS:\n%s\n\nANSWER:\n%s", evidence, answer)
	ok, err := c.classify(ctx, groundingSystemPrompt, payload, &verdict)
	if err != nil {
		return ports.Grounding{}, err
	}
	if !ok {
		return ports.Grounding{Grounded: true}, nil
	}
	return ports.Grounding{
		Grounded:    !strings.EqualFold(strings.TrimSpace(verdict.Grounded), "no"),
		Explanation: verdict.Explanation,
	}, nil
}

// Generate produces a grounded answer from the assembled evidence.
func (c *Client) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	system := fmt.Sprintf(advisorSystemPrompt, req.EvidenceBlock, req.ContextSummary)
	return c.complete(ctx, messagesRequest{
		Model:       c.chatModel,
		System:      system,
		Messages:    []message{{Role: "user", Content: req.Question}},
		MaxTokens:   chatMaxTokens,
		Temperature: 0.7,
	})
}

// GenerateDirect answers without evidence.
func (c *Client) GenerateDirect(ctx context.Context, question string) (string, error) {
	return c.complete(ctx, messagesRequest{
		Model:       c.chatModel,
		System:      directSystemPrompt,
		Messages:    []message{{Role: "user", Content: question}},
		MaxTokens:   chatMaxTokens,
		Temperature: 0.7,
	})
}

// extractJSON pulls the outermost JSON object out of a model reply, which may
// wrap it in prose or a code fence.
func extractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

func truncateForLog(text string) string {
	if len(text) <= 120 {
		return text
	}
	return text[:120] + "..."
}
