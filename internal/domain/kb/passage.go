// Package kb holds the knowledge-base passage type and the wire formatting
// of retrieved passages.
package kb

import "strings"

// Passage is a single knowledge-base hit: a citation key, the document title,
// and the passage text, with the fused relevance score.
type Passage struct {
	Key   string
	Title string
	Body  string
	Score float64
}

// separator closes each formatted passage. The model is instructed to treat
// it as the end-of-result marker, so passage bodies must never reproduce it.
const separator = "\n-----\n"

// FormatPassages renders passages into the block format consumed by the
// model: "[key]: body" followed by a separator line, concatenated in the
// order given (relevance order — never re-sorted here). Citation keys are
// allow-listed at ingestion and verification, so brackets cannot occur inside
// a key.
func FormatPassages(passages []Passage) string {
	var b strings.Builder
	for _, p := range passages {
		b.WriteString("[")
		b.WriteString(p.Key)
		b.WriteString("]: ")
		b.WriteString(sanitizeBody(p.Body))
		b.WriteString(separator)
	}
	return b.String()
}

// sanitizeBody keeps the separator unambiguous: a body line consisting of the
// separator dashes is softened so it cannot terminate the passage early.
func sanitizeBody(body string) string {
	if !strings.Contains(body, "-----") {
		return body
	}
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "-----" {
			lines[i] = strings.Replace(line, "-----", "- - -", 1)
		}
	}
	return strings.Join(lines, "\n")
}
