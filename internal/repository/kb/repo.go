// Package kb is the knowledge-base repository over the FT.SEARCH store.
package kb

import (
	"context"
	"fmt"
	"time"

	dbredis "github.com/lunavoice/luna/internal/db/redis"
	domkb "github.com/lunavoice/luna/internal/domain/kb"
	"github.com/lunavoice/luna/internal/domain/searchfilter"
	"github.com/lunavoice/luna/internal/metrics"
)

// keyField is the TAG field holding the citation key of each passage.
const keyField = "key"

var returnFields = []string{"key", "title", "body"}

// store is the consumer interface for search operations.
type store interface {
	SearchKNN(ctx context.Context, q *dbredis.KNNQuery) ([]dbredis.Hit, error)
	SearchBM25(ctx context.Context, q *dbredis.TextQuery) ([]dbredis.Hit, error)
	SearchKeys(ctx context.Context, index, field string, keys, returnFields []string) ([]dbredis.Hit, error)
}

// Repo maps store hits to knowledge-base passages. The filter expression it
// receives is the opaque string synthesized upstream; translation into the
// store's query syntax happens here, behind the collaborator boundary.
type Repo struct {
	store store
	index string
}

// New creates a knowledge-base repository over the given index.
func New(s store, index string) *Repo {
	return &Repo{store: s, index: index}
}

// KNN runs a vector similarity search restricted by the filter expression.
func (r *Repo) KNN(ctx context.Context, vector []float32, filterExpr string, k int) ([]domkb.Passage, error) {
	clauses, err := searchfilter.Parse(filterExpr)
	if err != nil {
		return nil, fmt.Errorf("parse filter: %w", err)
	}

	start := time.Now()
	hits, err := r.store.SearchKNN(ctx, &dbredis.KNNQuery{
		Index:        r.index,
		Vector:       vector,
		K:            k,
		Filter:       clauses,
		ReturnFields: returnFields,
	})
	metrics.SearchDuration.WithLabelValues("knn").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}
	return toPassages(hits), nil
}

// BM25 runs a keyword search over title and body restricted by the filter
// expression.
func (r *Repo) BM25(ctx context.Context, query, filterExpr string, topK int) ([]domkb.Passage, error) {
	clauses, err := searchfilter.Parse(filterExpr)
	if err != nil {
		return nil, fmt.Errorf("parse filter: %w", err)
	}

	start := time.Now()
	hits, err := r.store.SearchBM25(ctx, &dbredis.TextQuery{
		Index:        r.index,
		Query:        query,
		TextFields:   []string{"title", "body"},
		Filter:       clauses,
		TopK:         topK,
		ReturnFields: returnFields,
	})
	metrics.SearchDuration.WithLabelValues("bm25").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("bm25 search: %w", err)
	}
	return toPassages(hits), nil
}

// ByKeys fetches the authoritative passages for the given citation keys by
// exact tag match. Keys are validated upstream; unknown keys simply produce
// no hit.
func (r *Repo) ByKeys(ctx context.Context, keys []string) ([]domkb.Passage, error) {
	start := time.Now()
	hits, err := r.store.SearchKeys(ctx, r.index, keyField, keys, returnFields)
	metrics.SearchDuration.WithLabelValues("keys").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("key search: %w", err)
	}
	return toPassages(hits), nil
}

func toPassages(hits []dbredis.Hit) []domkb.Passage {
	passages := make([]domkb.Passage, 0, len(hits))
	for _, h := range hits {
		key := h.Fields[keyField]
		if key == "" {
			key = h.ID
		}
		passages = append(passages, domkb.Passage{
			Key:   key,
			Title: h.Fields["title"],
			Body:  h.Fields["body"],
			Score: h.Score,
		})
	}
	return passages
}
