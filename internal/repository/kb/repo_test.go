package kb

import (
	"context"
	"errors"
	"testing"

	dbredis "github.com/lunavoice/luna/internal/db/redis"
)

type mockStore struct {
	knnFn  func(ctx context.Context, q *dbredis.KNNQuery) ([]dbredis.Hit, error)
	bm25Fn func(ctx context.Context, q *dbredis.TextQuery) ([]dbredis.Hit, error)
	keysFn func(ctx context.Context, index, field string, keys, returnFields []string) ([]dbredis.Hit, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *dbredis.KNNQuery) ([]dbredis.Hit, error) {
	if m.knnFn != nil {
		return m.knnFn(ctx, q)
	}
	return nil, nil
}

func (m *mockStore) SearchBM25(ctx context.Context, q *dbredis.TextQuery) ([]dbredis.Hit, error) {
	if m.bm25Fn != nil {
		return m.bm25Fn(ctx, q)
	}
	return nil, nil
}

func (m *mockStore) SearchKeys(ctx context.Context, index, field string, keys, returnFields []string) ([]dbredis.Hit, error) {
	if m.keysFn != nil {
		return m.keysFn(ctx, index, field, keys, returnFields)
	}
	return nil, nil
}

func TestKNN_TranslatesFilterAndMapsHits(t *testing.T) {
	ms := &mockStore{
		knnFn: func(_ context.Context, q *dbredis.KNNQuery) ([]dbredis.Hit, error) {
			if q.Index != "luna-kb" {
				t.Errorf("unexpected index %q", q.Index)
			}
			if len(q.Filter.Codes) != 1 || q.Filter.Codes[0] != "MAD" {
				t.Errorf("filter not translated: %+v", q.Filter)
			}
			return []dbredis.Hit{
				{ID: "luna-kb:1", Score: 0.9, Fields: map[string]string{
					"key": "madrid-01", "title": "Madrid", "body": "capital de Espanha",
				}},
			}, nil
		},
	}
	repo := New(ms, "luna-kb")

	passages, err := repo.KNN(context.Background(), []float32{0.1}, "(code == 'MAD')", 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(passages) != 1 {
		t.Fatalf("expected 1 passage, got %d", len(passages))
	}
	p := passages[0]
	if p.Key != "madrid-01" || p.Title != "Madrid" || p.Body != "capital de Espanha" {
		t.Errorf("unexpected passage: %+v", p)
	}
}

func TestKNN_RejectsMalformedFilter(t *testing.T) {
	repo := New(&mockStore{}, "luna-kb")
	if _, err := repo.KNN(context.Background(), []float32{0.1}, "(code == MAD", 5); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestBM25_PassesQueryAndTopK(t *testing.T) {
	var got *dbredis.TextQuery
	ms := &mockStore{
		bm25Fn: func(_ context.Context, q *dbredis.TextQuery) ([]dbredis.Hit, error) {
			got = q
			return nil, nil
		},
	}
	repo := New(ms, "luna-kb")

	if _, err := repo.BM25(context.Background(), "praias", "", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Query != "praias" || got.TopK != 3 {
		t.Errorf("unexpected query: %+v", got)
	}
}

func TestByKeys_FallsBackToHitID(t *testing.T) {
	ms := &mockStore{
		keysFn: func(_ context.Context, _, field string, keys, _ []string) ([]dbredis.Hit, error) {
			if field != "key" {
				t.Errorf("unexpected key field %q", field)
			}
			if len(keys) != 2 {
				t.Errorf("unexpected keys %v", keys)
			}
			return []dbredis.Hit{{ID: "doc-7", Fields: map[string]string{"title": "t", "body": "b"}}}, nil
		},
	}
	repo := New(ms, "luna-kb")

	passages, err := repo.ByKeys(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(passages) != 1 || passages[0].Key != "doc-7" {
		t.Errorf("unexpected passages: %+v", passages)
	}
}

func TestKNN_PropagatesStoreError(t *testing.T) {
	wantErr := errors.New("connection refused")
	ms := &mockStore{
		knnFn: func(_ context.Context, _ *dbredis.KNNQuery) ([]dbredis.Hit, error) {
			return nil, wantErr
		},
	}
	repo := New(ms, "luna-kb")

	_, err := repo.KNN(context.Background(), []float32{0.1}, "", 5)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
