// Package pgvector implements the Retriever port over Postgres with the
// pgvector extension.
package pgvector

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	pgv "github.com/pgvector/pgvector-go"

	"github.com/futuretree/advisor/pkg/domain"
	"github.com/futuretree/advisor/pkg/ports"
)

// Embedder turns query text into a vector. Implemented by the voyage client.
type Embedder interface {
	EmbedQuery(ctx context.Context, query string) ([]float32, error)
}

// filterColumns whitelists the context fields that may appear in a WHERE
// clause; filter keys are interpolated into SQL, values are bound.
var filterColumns = map[string]string{
	"industry":      "industry",
	"strategy_type": "strategy_type",
}

// Store searches the case_studies table by cosine similarity.
type Store struct {
	pool     *pgxpool.Pool
	embedder Embedder
}

// New creates a Store over an existing connection pool.
func New(pool *pgxpool.Pool, embedder Embedder) *Store {
	return &Store{pool: pool, embedder: embedder}
}

// Connect opens a pool from a Postgres URL and wraps it in a Store.
func Connect(ctx context.Context, url string, embedder Embedder) (*Store, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return New(pool, embedder), nil
}

var _ ports.Retriever = (*Store)(nil)

// caseStudy is one row of the case_studies table.
type caseStudy struct {
	ID             string
	CompanyName    string
	Industry       string
	Summary        string
	StrategyType   string
	Timeline       string
	KeyActions     string
	Outcomes       string
	LessonsLearned string
	Similarity     float64
}

// Search embeds the query and returns the top-k case studies above the
// similarity threshold, ranked ascending by vector distance.
func (s *Store) Search(ctx context.Context, q ports.RetrievalQuery) ([]domain.EvidenceDocument, error) {
	embedding, err := s.embedder.EmbedQuery(ctx, q.Text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	where, args := buildFilters(q.Filters, 3)
	sql := fmt.Sprintf(`
		SELECT id, company_name, industry, summary, strategy_type,
		       timeline, key_actions, outcomes, lessons_learned,
		       1 - (embedding <=> $1) AS similarity
		FROM case_studies
		WHERE 1 - (embedding <=> $1) > $2
		%s
		ORDER BY embedding <=> $1
		LIMIT $%d`, where, len(args)+3)

	bound := append([]any{pgv.NewVector(embedding), q.Threshold}, args...)
	bound = append(bound, q.K)

	rows, err := s.pool.Query(ctx, sql, bound...)
	if err != nil {
		return nil, fmt.Errorf("similarity search: %w", err)
	}
	defer rows.Close()

	var docs []domain.EvidenceDocument
	for rows.Next() {
		var cs caseStudy
		if err := rows.Scan(&cs.ID, &cs.CompanyName, &cs.Industry, &cs.Summary,
			&cs.StrategyType, &cs.Timeline, &cs.KeyActions, &cs.Outcomes,
			&cs.LessonsLearned, &cs.Similarity); err != nil {
			return nil, fmt.Errorf("scan case study: %w", err)
		}
		docs = append(docs, domain.EvidenceDocument{
			Content: formatCaseStudy(cs),
			Metadata: map[string]any{
				domain.MetaID:         cs.ID,
				domain.MetaCompany:    cs.CompanyName,
				domain.MetaIndustry:   cs.Industry,
				domain.MetaSimilarity: cs.Similarity,
			},
			Origin: domain.OriginRetrieval,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("similarity search rows: %w", err)
	}
	return docs, nil
}

// StoreEmbedding writes a vector back onto an existing case-study row.
func (s *Store) StoreEmbedding(ctx context.Context, id string, embedding []float32) error {
	_, err := s.pool.Exec(ctx,
		"UPDATE case_studies SET embedding = $1 WHERE id = $2",
		pgv.NewVector(embedding), id)
	if err != nil {
		return fmt.Errorf("store embedding %s: %w", id, err)
	}
	return nil
}

// MissingEmbeddings lists case studies whose embedding column is NULL,
// returning id and the summary text to embed.
func (s *Store) MissingEmbeddings(ctx context.Context, limit int) (ids, summaries []string, err error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, summary FROM case_studies WHERE embedding IS NULL LIMIT $1", limit)
	if err != nil {
		return nil, nil, fmt.Errorf("list missing embeddings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, summary string
		if err := rows.Scan(&id, &summary); err != nil {
			return nil, nil, err
		}
		ids = append(ids, id)
		summaries = append(summaries, summary)
	}
	return ids, summaries, rows.Err()
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

// buildFilters renders whitelisted equality filters as ANDed clauses with
// placeholders starting at firstArg. Unknown keys are ignored.
func buildFilters(filters map[string]string, firstArg int) (string, []any) {
	if len(filters) == 0 {
		return "", nil
	}
	var clauses []string
	var args []any
	for key, value := range filters {
		column, ok := filterColumns[key]
		if !ok {
			continue
		}
		clauses = append(clauses, fmt.Sprintf("AND %s = $%d", column, firstArg+len(args)))
		args = append(args, value)
	}
	return strings.Join(clauses, " "), args
}

// formatCaseStudy renders a row into the evidence text handed to the model.
func formatCaseStudy(cs caseStudy) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (%s)\n\n", orUnknown(cs.CompanyName, "Unknown Company"), orUnknown(cs.Industry, "Unknown Industry"))
	fmt.Fprintf(&b, "Summary: %s\n\n", orUnknown(cs.Summary, "No summary available"))
	fmt.Fprintf(&b, "Strategy: %s\n\n", orUnknown(cs.StrategyType, "Unknown"))
	fmt.Fprintf(&b, "Timeline: %s\n\n", orUnknown(cs.Timeline, "Unknown"))
	fmt.Fprintf(&b, "Key Actions: %s\n\n", cs.KeyActions)
	fmt.Fprintf(&b, "Outcomes: %s\n\n", cs.Outcomes)
	fmt.Fprintf(&b, "Lessons Learned: %s\n", orUnknown(cs.LessonsLearned, "None recorded"))
	return b.String()
}

func orUnknown(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
