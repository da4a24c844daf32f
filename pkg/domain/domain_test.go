package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futuretree/advisor/pkg/domain"
)

func TestRoute_Valid(t *testing.T) {
	assert.True(t, domain.RouteVectorstore.Valid())
	assert.True(t, domain.RouteWebSearch.Valid())
	assert.True(t, domain.RouteDirect.Valid())
	assert.False(t, domain.Route("").Valid())
	assert.False(t, domain.Route("oracle").Valid())
}

func TestNewState_ClampsNegativeBudget(t *testing.T) {
	s := domain.NewState("q", nil, -5)
	assert.Zero(t, s.MaxRetries)
}

func TestState_ContextField(t *testing.T) {
	s := domain.NewState("q", map[string]string{"industry": "saas"}, 3)
	assert.Equal(t, "saas", s.ContextField("industry"))
	assert.Empty(t, s.ContextField("companySize"))

	bare := domain.NewState("q", nil, 3)
	assert.Empty(t, bare.ContextField("industry"))
}

func TestEvidenceDocument_Preview(t *testing.T) {
	short := domain.EvidenceDocument{Content: "short"}
	assert.Equal(t, "short", short.Preview())

	long := domain.EvidenceDocument{Content: strings.Repeat("a", 500)}
	preview := long.Preview()
	assert.Len(t, preview, 203)
	assert.True(t, strings.HasSuffix(preview, "..."))
}

func TestState_Result(t *testing.T) {
	s := domain.NewState("q", nil, 3)
	s.Route = domain.RouteVectorstore
	s.Answer = "grounded answer"
	s.RetryCount = 1
	s.Evidence = []domain.EvidenceDocument{
		{
			Content:  strings.Repeat("x", 300),
			Metadata: map[string]any{domain.MetaCompany: "Acme"},
			Origin:   domain.OriginRetrieval,
		},
		{Content: "web snippet", Origin: domain.OriginWeb},
	}

	result := s.Result()
	assert.Equal(t, "grounded answer", result.Answer)
	assert.Equal(t, domain.RouteVectorstore, result.Route)
	assert.Equal(t, 1, result.Retries)
	require.Len(t, result.Sources, 2)
	assert.Len(t, result.Sources[0].Content, 203)
	assert.Equal(t, "Acme", result.Sources[0].Metadata[domain.MetaCompany])
	assert.Equal(t, domain.OriginWeb, result.Sources[1].Origin)
}

func TestCacheKey(t *testing.T) {
	base := domain.CacheKey("How do I price?", map[string]string{"industry": "saas"})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		assert.Equal(t, base, domain.CacheKey("  how do I PRICE?  ", map[string]string{"industry": "saas"}))
	})

	t.Run("context order does not matter", func(t *testing.T) {
		a := domain.CacheKey("q", map[string]string{"a": "1", "b": "2"})
		b := domain.CacheKey("q", map[string]string{"b": "2", "a": "1"})
		assert.Equal(t, a, b)
	})

	t.Run("context changes the key", func(t *testing.T) {
		assert.NotEqual(t, base, domain.CacheKey("How do I price?", map[string]string{"industry": "fintech"}))
		assert.NotEqual(t, base, domain.CacheKey("How do I price?", nil))
	})

	t.Run("different questions differ", func(t *testing.T) {
		assert.NotEqual(t, base, domain.CacheKey("How do I hire?", map[string]string{"industry": "saas"}))
	})
}
