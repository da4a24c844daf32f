package ports

import (
	"context"
	"errors"

	"github.com/futuretree/advisor/pkg/domain"
)

// ErrCacheMiss is returned by AnswerCache.Get when no entry exists.
var ErrCacheMiss = errors.New("answer cache miss")

// AnswerCache stores terminal results keyed by question + context hash.
// Implementations are best-effort: callers treat any Get error as a miss and
// ignore Set errors beyond logging.
type AnswerCache interface {
	Get(ctx context.Context, key string) (domain.Result, error)
	Set(ctx context.Context, key string, result domain.Result) error
}
