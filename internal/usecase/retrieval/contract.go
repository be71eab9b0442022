package retrieval

import (
	"context"

	"github.com/lunavoice/luna/internal/domain"
	domkb "github.com/lunavoice/luna/internal/domain/kb"
)

// KnowledgeBase defines the search contract for passage retrieval. The
// filter expression is opaque here; the repository translates it.
type KnowledgeBase interface {
	KNN(ctx context.Context, vector []float32, filterExpr string, k int) ([]domkb.Passage, error)
	BM25(ctx context.Context, query, filterExpr string, topK int) ([]domkb.Passage, error)
}

// Embedder vectorizes query text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
