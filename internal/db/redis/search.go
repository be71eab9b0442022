package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/lunavoice/luna/internal/domain/searchfilter"
)

// vectorField is the embedding field of the knowledge-base index; the query
// engine reports KNN distance under the derived score field.
const (
	vectorField = "embedding"
	scoreField  = "__embedding_score"
)

// Hit is a raw FT.SEARCH hit: document id, relevance score and the returned
// fields.
type Hit struct {
	ID     string
	Score  float64
	Fields map[string]string
}

// KNNQuery is a vector similarity query with an optional pre-filter.
type KNNQuery struct {
	Index        string
	Vector       []float32
	K            int
	Filter       searchfilter.Clauses
	ReturnFields []string
}

// TextQuery is a BM25 text query over the given text fields with an optional
// pre-filter.
type TextQuery struct {
	Index        string
	Query        string
	TextFields   []string
	Filter       searchfilter.Clauses
	TopK         int
	ReturnFields []string
}

// SearchKNN runs a KNN vector similarity search via FT.SEARCH.
func (s *Store) SearchKNN(ctx context.Context, q *KNNQuery) ([]Hit, error) {
	if q.Index == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	cmd := s.client.B().Arbitrary("FT.SEARCH").Args(knnArgs(q)...).Build()
	raw, err := s.client.Do(ctx, cmd).ToArray()
	if err != nil {
		return nil, fmt.Errorf("knn search %s: %w", q.Index, err)
	}

	hits, err := parseResult(raw, false)
	if err != nil {
		return nil, err
	}
	for i := range hits {
		hits[i].Score = knnScore(hits[i].Fields)
	}
	return hits, nil
}

// SearchBM25 runs a BM25 text search via FT.SEARCH.
func (s *Store) SearchBM25(ctx context.Context, q *TextQuery) ([]Hit, error) {
	if q.Index == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Query == "" {
		return nil, fmt.Errorf("query is required")
	}
	if q.TopK <= 0 {
		return nil, fmt.Errorf("topK must be positive")
	}

	queryStr := buildTextQuery(q.Filter, q.TextFields, q.Query)

	args := []string{q.Index, queryStr}
	if len(q.ReturnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.ReturnFields)))
		args = append(args, q.ReturnFields...)
	}
	args = append(args,
		"WITHSCORES",
		"LIMIT", "0", strconv.Itoa(q.TopK),
		"DIALECT", "2",
	)

	cmd := s.client.B().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.client.Do(ctx, cmd).ToArray()
	if err != nil {
		return nil, fmt.Errorf("text search %s: %w", q.Index, err)
	}

	return parseResult(raw, true)
}

// SearchKeys fetches documents whose tag field matches one of the given
// values, via a TAG-union query. Used for exact citation-key resolution.
func (s *Store) SearchKeys(ctx context.Context, index, field string, keys, returnFields []string) ([]Hit, error) {
	if index == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if len(keys) == 0 {
		return []Hit{}, nil
	}

	escaped := make([]string, len(keys))
	for i, k := range keys {
		escaped[i] = escapeTag(k)
	}
	queryStr := fmt.Sprintf("@%s:{%s}", field, strings.Join(escaped, "|"))

	args := []string{index, queryStr}
	if len(returnFields) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(returnFields)))
		args = append(args, returnFields...)
	}
	args = append(args, "LIMIT", "0", strconv.Itoa(len(keys)), "DIALECT", "2")

	cmd := s.client.B().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.client.Do(ctx, cmd).ToArray()
	if err != nil {
		return nil, fmt.Errorf("key search %s: %w", index, err)
	}

	return parseResult(raw, false)
}

// --- Query building ---

// knnArgs assembles the FT.SEARCH argument list for a KNN query. The result
// window must be widened explicitly: without LIMIT the server caps replies at
// its default page size regardless of the K inside the KNN clause.
func knnArgs(q *KNNQuery) []string {
	args := []string{q.Index, buildKNNQuery(q.Filter, q.K)}
	if len(q.ReturnFields) > 0 {
		ret := append([]string{}, q.ReturnFields...)
		ret = append(ret, scoreField)
		args = append(args, "RETURN", strconv.Itoa(len(ret)))
		args = append(args, ret...)
	}
	args = append(args, "LIMIT", "0", strconv.Itoa(q.K))
	args = append(args, "PARAMS", "2", "BLOB", vectorToBytes(q.Vector), "DIALECT", "2")
	return args
}

func buildKNNQuery(clauses searchfilter.Clauses, k int) string {
	knnPart := fmt.Sprintf("[KNN %d @%s $BLOB]", k, vectorField)
	filterStr := buildFilter(clauses)
	if filterStr == "" {
		return "*=>" + knnPart
	}
	return fmt.Sprintf("(%s)=>%s", filterStr, knnPart)
}

func buildTextQuery(clauses searchfilter.Clauses, textFields []string, query string) string {
	fields := strings.Join(textFields, "|")
	textPart := fmt.Sprintf("@%s:(%s)", fields, escapeQuery(query))
	filterStr := buildFilter(clauses)
	if filterStr == "" {
		return textPart
	}
	return filterStr + " " + textPart
}

// buildFilter translates parsed filter clauses into FT.SEARCH syntax: the
// destination-code disjunction becomes a single TAG union, each category a
// separate TAG clause (juxtaposition is conjunction).
func buildFilter(clauses searchfilter.Clauses) string {
	if clauses.IsEmpty() {
		return ""
	}

	var parts []string
	if len(clauses.Codes) > 0 {
		escaped := make([]string, len(clauses.Codes))
		for i, c := range clauses.Codes {
			escaped[i] = escapeTag(c)
		}
		parts = append(parts, fmt.Sprintf("@%s:{%s}", searchfilter.CodeField, strings.Join(escaped, "|")))
	}
	for _, cat := range clauses.Categories {
		parts = append(parts, fmt.Sprintf("@%s:{%s}", searchfilter.CategoryField, escapeTag(cat)))
	}
	return strings.Join(parts, " ")
}

// --- Result parsing ---

// parseResult decodes a RESP2 FT.SEARCH reply. Without scores the reply is
// [total, id1, fields1, ...]; WITHSCORES inserts a score between id and
// fields.
func parseResult(raw []rueidis.RedisMessage, withScores bool) ([]Hit, error) {
	if len(raw) == 0 {
		return []Hit{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return []Hit{}, nil
	}

	stride := 2
	if withScores {
		stride = 3
	}

	hits := make([]Hit, 0, total)
	for i := 1; i+stride-1 < len(raw); i += stride {
		id, err := raw[i].ToString()
		if err != nil {
			continue
		}

		hit := Hit{ID: id}
		next := i + 1

		if withScores {
			if scoreStr, err := raw[next].ToString(); err == nil {
				hit.Score, _ = strconv.ParseFloat(scoreStr, 64)
			}
			next++
		}

		fieldsArr, err := raw[next].ToArray()
		if err != nil {
			continue
		}
		hit.Fields = make(map[string]string, len(fieldsArr)/2)
		for j := 0; j+1 < len(fieldsArr); j += 2 {
			name, err := fieldsArr[j].ToString()
			if err != nil {
				continue
			}
			value, err := fieldsArr[j+1].ToString()
			if err != nil {
				continue
			}
			hit.Fields[name] = value
		}

		hits = append(hits, hit)
	}

	return hits, nil
}

// knnScore converts the reported cosine distance into a similarity score.
func knnScore(fields map[string]string) float64 {
	distStr, ok := fields[scoreField]
	if !ok {
		return 0
	}
	dist, err := strconv.ParseFloat(distStr, 64)
	if err != nil {
		return 0
	}
	return 1 - dist
}

// --- Escaping ---

var tagEscaper = strings.NewReplacer(
	`\`, `\\`,
	` `, `\ `,
	`,`, `\,`,
	`.`, `\.`,
	`<`, `\<`,
	`>`, `\>`,
	`{`, `\{`,
	`}`, `\}`,
	`[`, `\[`,
	`]`, `\]`,
	`"`, `\"`,
	`'`, `\'`,
	`:`, `\:`,
	`;`, `\;`,
	`!`, `\!`,
	`@`, `\@`,
	`#`, `\#`,
	`$`, `\$`,
	`%`, `\%`,
	`^`, `\^`,
	`&`, `\&`,
	`*`, `\*`,
	`(`, `\(`,
	`)`, `\)`,
	`-`, `\-`,
	`+`, `\+`,
	`=`, `\=`,
	`~`, `\~`,
	`|`, `\|`,
)

func escapeTag(s string) string {
	return tagEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
)

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
