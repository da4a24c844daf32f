// Package mcp exposes the Advisor workflow as an MCP server so agent hosts
// can call it as a tool.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/futuretree/advisor/pkg/domain"
)

// Asker is the workflow surface the MCP server depends on.
type Asker interface {
	Ask(ctx context.Context, question string, userContext map[string]string, maxRetries int) (domain.Result, error)
}

// ChatResponse is the structured result of the chat tool.
type ChatResponse struct {
	Answer  string                 `json:"answer" jsonschema_description:"The generated answer"`
	Sources []domain.SourceSummary `json:"sources" jsonschema_description:"Evidence previews backing the answer"`
	Route   domain.Route           `json:"route" jsonschema_description:"Which evidence strategy was used"`
	Retries int                    `json:"retries" jsonschema_description:"Regeneration attempts after failed grounding checks"`
}

// Server wraps the Advisor and exposes it over MCP.
type Server struct {
	asker     Asker
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance.
func NewServer(asker Asker, version string) *Server {
	s := &Server{
		asker:     asker,
		mcpServer: server.NewMCPServer("futuretree-advisor", version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) registerTools() {
	chatTool := mcp.NewTool("chat",
		mcp.WithDescription("Answer a business-strategy question using retrieval-augmented generation over real case studies, with web-search fallback and grounding verification."),
		mcp.WithString("question", mcp.Required(), mcp.Description("The question to answer")),
		mcp.WithString("context", mcp.Description("JSON object with optional user context fields: industry, companySize, currentStage, primaryGoal")),
		mcp.WithNumber("max_retries", mcp.Description("Regeneration budget after failed grounding checks (default 3)")),
		mcp.WithOutputSchema[ChatResponse](),
	)
	s.mcpServer.AddTool(chatTool, mcp.NewStructuredToolHandler(s.handleChat))
}

func (s *Server) handleChat(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ChatResponse, error) {
	question, _ := args["question"].(string)

	var userContext map[string]string
	if ctxStr, ok := args["context"].(string); ok && ctxStr != "" {
		if err := json.Unmarshal([]byte(ctxStr), &userContext); err != nil {
			return ChatResponse{}, fmt.Errorf("context must be a JSON object of strings: %w", err)
		}
	}

	maxRetries := -1
	if n, ok := args["max_retries"].(float64); ok && n >= 0 {
		maxRetries = int(n)
	}

	result, err := s.asker.Ask(ctx, question, userContext, maxRetries)
	if err != nil {
		return ChatResponse{}, fmt.Errorf("chat failed: %w", err)
	}

	sources := result.Sources
	if sources == nil {
		sources = []domain.SourceSummary{}
	}
	return ChatResponse{
		Answer:  result.Answer,
		Sources: sources,
		Route:   result.Route,
		Retries: result.Retries,
	}, nil
}
