package runtime

import (
	"context"
	"fmt"

	"github.com/futuretree/advisor/pkg/domain"
)

// routeNode decides the evidence strategy for the question. The classifier
// defaults malformed output to the vectorstore route, so only transport
// failures surface here.
func (e *Engine) routeNode(ctx context.Context, s *domain.State) (edge, error) {
	route, err := e.classifier.ClassifyRoute(ctx, s.Question)
	if err != nil {
		return "", fmt.Errorf("classify route: %w", err)
	}
	if !route.Valid() {
		route = domain.RouteVectorstore
	}
	s.Route = route

	switch route {
	case domain.RouteDirect:
		return edgeDirect, nil
	case domain.RouteWebSearch:
		s.NeedsWebFallback = true
		return edgeWebSearch, nil
	default:
		return edgeVectorstore, nil
	}
}
