package retrieval

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/lunavoice/luna/internal/domain"
	domkb "github.com/lunavoice/luna/internal/domain/kb"
)

type mockKB struct {
	knnFn  func(ctx context.Context, vector []float32, filterExpr string, k int) ([]domkb.Passage, error)
	bm25Fn func(ctx context.Context, query, filterExpr string, topK int) ([]domkb.Passage, error)
}

func (m *mockKB) KNN(ctx context.Context, vector []float32, filterExpr string, k int) ([]domkb.Passage, error) {
	return m.knnFn(ctx, vector, filterExpr, k)
}

func (m *mockKB) BM25(ctx context.Context, query, filterExpr string, topK int) ([]domkb.Passage, error) {
	return m.bm25Fn(ctx, query, filterExpr, topK)
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	return m.embedFn(ctx, text)
}

func passages(keys ...string) []domkb.Passage {
	out := make([]domkb.Passage, len(keys))
	for i, k := range keys {
		out[i] = domkb.Passage{Key: k, Title: "t-" + k, Body: "b-" + k}
	}
	return out
}

func TestSearch_EmptyQueryFallsBackToDefault(t *testing.T) {
	var embedded string
	var bm25Query string

	svc := New(
		&mockKB{
			knnFn: func(_ context.Context, _ []float32, _ string, _ int) ([]domkb.Passage, error) {
				return nil, nil
			},
			bm25Fn: func(_ context.Context, query, _ string, _ int) ([]domkb.Passage, error) {
				bm25Query = query
				return nil, nil
			},
		},
		&mockEmbedder{
			embedFn: func(_ context.Context, text string) (domain.EmbeddingResult, error) {
				embedded = text
				return domain.EmbeddingResult{Embedding: []float32{0.1}}, nil
			},
		},
		50,
		zap.NewNop(),
	)

	if _, err := svc.Search(context.Background(), "", "", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embedded != DefaultQuery {
		t.Errorf("expected default query embedded, got %q", embedded)
	}
	if bm25Query != DefaultQuery {
		t.Errorf("expected default query in bm25, got %q", bm25Query)
	}
}

func TestSearch_PassesFilterAndBounds(t *testing.T) {
	var knnFilter, bm25Filter string
	var knnK, bm25TopK int

	svc := New(
		&mockKB{
			knnFn: func(_ context.Context, _ []float32, filterExpr string, k int) ([]domkb.Passage, error) {
				knnFilter = filterExpr
				knnK = k
				return passages("A", "B"), nil
			},
			bm25Fn: func(_ context.Context, _, filterExpr string, topK int) ([]domkb.Passage, error) {
				bm25Filter = filterExpr
				bm25TopK = topK
				return passages("B", "C"), nil
			},
		},
		&mockEmbedder{
			embedFn: func(_ context.Context, _ string) (domain.EmbeddingResult, error) {
				return domain.EmbeddingResult{Embedding: []float32{0.1}}, nil
			},
		},
		40,
		zap.NewNop(),
	)

	got, err := svc.Search(context.Background(), "praias", "(code == 'MAD')", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if knnFilter != "(code == 'MAD')" || bm25Filter != "(code == 'MAD')" {
		t.Errorf("filter not propagated: knn=%q bm25=%q", knnFilter, bm25Filter)
	}
	if knnK != 40 {
		t.Errorf("expected knn k 40, got %d", knnK)
	}
	if bm25TopK != 5 {
		t.Errorf("expected bm25 topK 5, got %d", bm25TopK)
	}
	// B appears in both rankings, so it must fuse to the top.
	if len(got) != 3 || got[0].Key != "B" {
		t.Errorf("unexpected fusion result: %+v", got)
	}
}

func TestSearch_EmbedderErrorIsTerminal(t *testing.T) {
	boom := errors.New("boom")
	kbCalled := false

	svc := New(
		&mockKB{
			knnFn: func(_ context.Context, _ []float32, _ string, _ int) ([]domkb.Passage, error) {
				kbCalled = true
				return nil, nil
			},
			bm25Fn: func(_ context.Context, _, _ string, _ int) ([]domkb.Passage, error) {
				kbCalled = true
				return nil, nil
			},
		},
		&mockEmbedder{
			embedFn: func(_ context.Context, _ string) (domain.EmbeddingResult, error) {
				return domain.EmbeddingResult{}, boom
			},
		},
		50,
		zap.NewNop(),
	)

	if _, err := svc.Search(context.Background(), "q", "", 5); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped embedder error, got %v", err)
	}
	if kbCalled {
		t.Error("knowledge base must not be queried after embed failure")
	}
}

func TestSearch_SearchErrorIsTerminal(t *testing.T) {
	boom := errors.New("index down")

	svc := New(
		&mockKB{
			knnFn: func(_ context.Context, _ []float32, _ string, _ int) ([]domkb.Passage, error) {
				return nil, boom
			},
			bm25Fn: func(_ context.Context, _, _ string, _ int) ([]domkb.Passage, error) {
				return nil, nil
			},
		},
		&mockEmbedder{
			embedFn: func(_ context.Context, _ string) (domain.EmbeddingResult, error) {
				return domain.EmbeddingResult{Embedding: []float32{0.1}}, nil
			},
		},
		50,
		zap.NewNop(),
	)

	if _, err := svc.Search(context.Background(), "q", "", 5); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped search error, got %v", err)
	}
}

func TestFuseRRF_SharedKeyRanksFirst(t *testing.T) {
	knn := passages("A", "B", "C")
	bm25 := passages("C", "D")

	got := fuseRRF(knn, bm25, 10)
	if len(got) != 4 {
		t.Fatalf("expected 4 fused passages, got %d", len(got))
	}
	if got[0].Key != "C" {
		t.Errorf("expected C first (present in both), got %q", got[0].Key)
	}
}

func TestFuseRRF_TruncatesToTopK(t *testing.T) {
	got := fuseRRF(passages("A", "B", "C", "D"), nil, 2)
	if len(got) != 2 {
		t.Fatalf("expected 2 passages, got %d", len(got))
	}
	if got[0].Key != "A" || got[1].Key != "B" {
		t.Errorf("expected rank order preserved, got %+v", got)
	}
}

func TestFuseRRF_Empty(t *testing.T) {
	if got := fuseRRF(nil, nil, 5); len(got) != 0 {
		t.Errorf("expected empty fusion, got %+v", got)
	}
}
