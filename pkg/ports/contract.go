package ports

import (
	"context"
	"testing"
	"time"

	"github.com/futuretree/advisor/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunAnswerCacheContract runs a suite of tests verifying that an AnswerCache
// implementation adheres to the interface contract.
func RunAnswerCacheContract(t *testing.T, cache AnswerCache) {
	ctx := context.Background()
	key := "contract-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		stored := domain.Result{
			Answer: "Hire before you are ready.",
			Route:  domain.RouteVectorstore,
			Sources: []domain.SourceSummary{
				{Content: "Acme grew from 2 to 12 people...", Origin: domain.OriginRetrieval},
			},
		}

		err := cache.Set(ctx, key, stored)
		require.NoError(t, err, "Set should not return error")

		loaded, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, stored.Answer, loaded.Answer)
		assert.Equal(t, stored.Route, loaded.Route)
		require.Len(t, loaded.Sources, 1)
		assert.Equal(t, domain.OriginRetrieval, loaded.Sources[0].Origin)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, ErrCacheMiss)
	})
}
