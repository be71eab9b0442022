package retrieval

import (
	"sort"

	domkb "github.com/lunavoice/luna/internal/domain/kb"
)

// rrfK is the Reciprocal Rank Fusion constant (standard value from Cormack et al. 2009).
const rrfK = 60

// fuseRRF merges KNN and BM25 results via Reciprocal Rank Fusion.
// score(d) = sum of 1/(k + rank_i(d)) for each ranking where d appears.
func fuseRRF(knn, bm25 []domkb.Passage, topK int) []domkb.Passage {
	type scored struct {
		passage domkb.Passage
		score   float64
		order   int
	}

	merged := make(map[string]*scored, len(knn)+len(bm25))
	order := 0

	for rank, p := range knn {
		merged[p.Key] = &scored{passage: p, score: 1.0 / float64(rrfK+rank+1), order: order}
		order++
	}

	for rank, p := range bm25 {
		s := 1.0 / float64(rrfK+rank+1)
		if existing, ok := merged[p.Key]; ok {
			existing.score += s
		} else {
			merged[p.Key] = &scored{passage: p, score: s, order: order}
			order++
		}
	}

	fused := make([]*scored, 0, len(merged))
	for _, s := range merged {
		s.passage.Score = s.score
		fused = append(fused, s)
	}

	// Sort by fused score, first-seen order as a deterministic tiebreak.
	sort.Slice(fused, func(i, j int) bool {
		if fused[i].score != fused[j].score {
			return fused[i].score > fused[j].score
		}
		return fused[i].order < fused[j].order
	})

	if len(fused) > topK {
		fused = fused[:topK]
	}

	out := make([]domkb.Passage, len(fused))
	for i, s := range fused {
		out[i] = s.passage
	}
	return out
}
