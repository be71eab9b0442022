// Package searchfilter synthesizes and parses the boolean filter expression
// handed to the knowledge-base search index.
//
// The grammar is a wire contract: a disjunction of equality predicates over
// destination codes, a conjunction of membership predicates over categories,
// joined with AND and parenthesized so precedence cannot leak across the two
// groups:
//
//	((code == 'BCN') OR (code == 'MAD')) AND (category CONTAINS 'Praia')
package searchfilter

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// CodeField is the destination-code field of the search index.
	CodeField = "code"
	// CategoryField is the category tag field of the search index.
	CategoryField = "category"
)

// safeValue is the character class allowed inside a quoted predicate value.
// Values are interpolated into the expression string, so anything that could
// terminate a quote or unbalance a group is rejected up front.
var safeValue = regexp.MustCompile(`^[\p{L}\p{N} _\-]+$`)

// Synthesize builds a filter expression from the eligible destination codes
// and the requested categories. An empty codes slice means the destination
// clause is omitted outright (no code-level restriction), never emitted as an
// always-false clause; likewise for categories. Both empty yields the empty
// expression (no restriction).
func Synthesize(codes, categories []string) (string, error) {
	codeGroup, err := group(CodeField, "==", "OR", codes)
	if err != nil {
		return "", err
	}
	catGroup, err := group(CategoryField, "CONTAINS", "AND", categories)
	if err != nil {
		return "", err
	}

	switch {
	case codeGroup == "":
		return catGroup, nil
	case catGroup == "":
		return codeGroup, nil
	default:
		return codeGroup + " AND " + catGroup, nil
	}
}

// group renders one parenthesized clause group. Multi-member groups get their
// own outer parentheses so they stay valid when joined with the other group.
func group(field, op, connector string, values []string) (string, error) {
	if len(values) == 0 {
		return "", nil
	}
	parts := make([]string, len(values))
	for i, v := range values {
		if !safeValue.MatchString(v) {
			return "", fmt.Errorf("unsafe %s value %q in filter", field, v)
		}
		parts[i] = fmt.Sprintf("(%s %s '%s')", field, op, v)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, " "+connector+" ") + ")", nil
}

// Clauses is the parsed form of a filter expression: the destination codes of
// the OR-group and the categories of the AND-group.
type Clauses struct {
	Codes      []string
	Categories []string
}

// IsEmpty reports whether the expression carried no restriction.
func (c Clauses) IsEmpty() bool {
	return len(c.Codes) == 0 && len(c.Categories) == 0
}

// Parse decodes a filter expression back into its clause lists. The search
// store uses it to translate the opaque expression into its native query
// syntax. The empty string parses to empty Clauses.
func Parse(expr string) (Clauses, error) {
	p := &parser{toks: tokenize(expr)}
	var out Clauses
	if len(p.toks) == 0 {
		return out, nil
	}
	if err := p.expression(&out); err != nil {
		return Clauses{}, err
	}
	if p.pos != len(p.toks) {
		return Clauses{}, fmt.Errorf("unexpected token %q in filter", p.toks[p.pos])
	}
	return out, nil
}

type parser struct {
	toks []string
	pos  int
}

// expression := term { ("AND" | "OR") term }
func (p *parser) expression(out *Clauses) error {
	if err := p.term(out); err != nil {
		return err
	}
	for p.pos < len(p.toks) {
		switch p.toks[p.pos] {
		case "AND", "OR":
			p.pos++
			if err := p.term(out); err != nil {
				return err
			}
		default:
			return nil
		}
	}
	return nil
}

// term := "(" expression ")" | predicate
func (p *parser) term(out *Clauses) error {
	if p.pos >= len(p.toks) {
		return fmt.Errorf("unexpected end of filter expression")
	}
	if p.toks[p.pos] == "(" {
		// Lookahead: a parenthesized predicate starts with a field name.
		if p.pos+1 < len(p.toks) && (p.toks[p.pos+1] == CodeField || p.toks[p.pos+1] == CategoryField) {
			return p.predicate(out)
		}
		p.pos++ // consume "("
		if err := p.expression(out); err != nil {
			return err
		}
		return p.expect(")")
	}
	return p.predicate(out)
}

// predicate := "(" field op value ")"
func (p *parser) predicate(out *Clauses) error {
	if err := p.expect("("); err != nil {
		return err
	}
	if p.pos >= len(p.toks) {
		return fmt.Errorf("unexpected end of filter expression")
	}
	field := p.toks[p.pos]
	p.pos++

	switch field {
	case CodeField:
		if err := p.expect("=="); err != nil {
			return err
		}
		v, err := p.value()
		if err != nil {
			return err
		}
		out.Codes = append(out.Codes, v)
	case CategoryField:
		if err := p.expect("CONTAINS"); err != nil {
			return err
		}
		v, err := p.value()
		if err != nil {
			return err
		}
		out.Categories = append(out.Categories, v)
	default:
		return fmt.Errorf("unknown filter field %q", field)
	}
	return p.expect(")")
}

func (p *parser) value() (string, error) {
	if p.pos >= len(p.toks) {
		return "", fmt.Errorf("unexpected end of filter expression")
	}
	tok := p.toks[p.pos]
	if len(tok) < 2 || tok[0] != '\'' || tok[len(tok)-1] != '\'' {
		return "", fmt.Errorf("expected quoted value, got %q", tok)
	}
	p.pos++
	v := tok[1 : len(tok)-1]
	if !safeValue.MatchString(v) {
		return "", fmt.Errorf("unsafe value %q in filter", v)
	}
	return v, nil
}

func (p *parser) expect(tok string) error {
	if p.pos >= len(p.toks) || p.toks[p.pos] != tok {
		got := "end of expression"
		if p.pos < len(p.toks) {
			got = fmt.Sprintf("%q", p.toks[p.pos])
		}
		return fmt.Errorf("expected %q, got %s in filter", tok, got)
	}
	p.pos++
	return nil
}

// tokenize splits an expression into parens, operators, identifiers and
// quoted values. Quotes do not nest and carry no escapes; unsafe characters
// are rejected later by the value check.
func tokenize(expr string) []string {
	var toks []string
	runes := []rune(expr)
	for i := 0; i < len(runes); {
		switch r := runes[i]; {
		case r == ' ' || r == '\t':
			i++
		case r == '(' || r == ')':
			toks = append(toks, string(r))
			i++
		case r == '\'':
			j := i + 1
			for j < len(runes) && runes[j] != '\'' {
				j++
			}
			if j < len(runes) {
				j++ // include closing quote
			}
			toks = append(toks, string(runes[i:j]))
			i = j
		default:
			j := i
			for j < len(runes) && runes[j] != ' ' && runes[j] != '\t' &&
				runes[j] != '(' && runes[j] != ')' && runes[j] != '\'' {
				j++
			}
			toks = append(toks, string(runes[i:j]))
			i = j
		}
	}
	return toks
}
