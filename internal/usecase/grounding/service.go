// Package grounding verifies model citations by re-resolving their keys
// against the knowledge base.
package grounding

import (
	"context"

	"go.uber.org/zap"

	domgr "github.com/lunavoice/luna/internal/domain/grounding"
	domkb "github.com/lunavoice/luna/internal/domain/kb"
)

// KnowledgeBase resolves citation keys to their authoritative passages.
type KnowledgeBase interface {
	ByKeys(ctx context.Context, keys []string) ([]domkb.Passage, error)
}

// Service filters claimed citation keys through the allow-list and fetches
// the passages that actually exist.
type Service struct {
	kb     KnowledgeBase
	logger *zap.Logger
}

// New creates a grounding verification service.
func New(kb KnowledgeBase, logger *zap.Logger) *Service {
	return &Service{kb: kb, logger: logger}
}

// Verify re-resolves the claimed citation keys. Keys outside the allow-list
// are dropped before the store is touched; an all-invalid or empty claim
// yields no passages and no query. Unknown but well-formed keys produce no
// hit, which is an answer, not an error.
func (s *Service) Verify(ctx context.Context, claimed []string) ([]domkb.Passage, error) {
	valid := domgr.ValidKeys(claimed)
	if len(valid) == 0 {
		s.logger.Info("no valid citation keys", zap.Int("claimed", len(claimed)))
		return nil, nil
	}

	passages, err := s.kb.ByKeys(ctx, valid)
	if err != nil {
		return nil, err
	}

	s.logger.Info("citations verified",
		zap.Int("claimed", len(claimed)),
		zap.Int("valid", len(valid)),
		zap.Int("resolved", len(passages)),
	)
	return passages, nil
}
