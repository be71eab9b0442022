// Package retrieval executes hybrid knowledge-base queries and assembles the
// passages behind every answer.
package retrieval

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	domkb "github.com/lunavoice/luna/internal/domain/kb"
)

// DefaultQuery is the fallback free-text signal; the knowledge base is in
// Portuguese and the hybrid query must never run with empty text.
const DefaultQuery = "destino de viagem"

// Service runs the hybrid retrieval: KNN over the query embedding plus BM25
// over the raw text, fused with RRF, bounded by top-k.
type Service struct {
	kb           KnowledgeBase
	embed        Embedder
	knnNeighbors int
	logger       *zap.Logger
}

// New creates a retrieval service. knnNeighbors is the KNN oversampling
// bound fed into the vector side of the hybrid query.
func New(kb KnowledgeBase, embed Embedder, knnNeighbors int, logger *zap.Logger) *Service {
	if knnNeighbors <= 0 {
		knnNeighbors = 50
	}
	return &Service{kb: kb, embed: embed, knnNeighbors: knnNeighbors, logger: logger}
}

// Search retrieves up to topK passages for the free-text signal restricted by
// the filter expression, in fused relevance order. Collaborator failures are
// terminal for the invocation; no partial answer is synthesized.
func (s *Service) Search(ctx context.Context, freeText, filterExpr string, topK int) ([]domkb.Passage, error) {
	query := freeText
	if query == "" {
		query = DefaultQuery
	}

	emb, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	knnHits, err := s.kb.KNN(ctx, emb.Embedding, filterExpr, s.knnNeighbors)
	if err != nil {
		return nil, fmt.Errorf("knn search: %w", err)
	}

	bm25Hits, err := s.kb.BM25(ctx, query, filterExpr, topK)
	if err != nil {
		return nil, fmt.Errorf("bm25 search: %w", err)
	}

	fused := fuseRRF(knnHits, bm25Hits, topK)

	s.logger.Info("knowledge base searched",
		zap.String("query", query),
		zap.String("filter", filterExpr),
		zap.Int("hits", len(fused)),
	)

	return fused, nil
}
