// Package criteria models a destination search request and the eligibility
// set derived from its numeric flight constraints.
package criteria

import (
	"fmt"
	"sort"

	"github.com/lunavoice/luna/internal/domain"
)

// Criteria is a validated destination search request. Origin is mandatory;
// every other constraint is optional and absent when its pointer is nil.
type Criteria struct {
	origin      string
	maxDuration *float64 // hours
	maxPrice    *float64 // EUR
	categories  []string
	freeText    string
}

// New validates and creates search criteria. Origin must be an IATA-style
// three-letter code; validation happens here, before any collaborator call.
func New(origin string, maxDuration, maxPrice *float64, categories []string, freeText string) (Criteria, error) {
	if origin == "" {
		return Criteria{}, domain.ErrMissingOrigin
	}
	if !isIATACode(origin) {
		return Criteria{}, fmt.Errorf("%w: origin %q is not a three-letter IATA code", domain.ErrInvalidArguments, origin)
	}
	if maxDuration != nil && *maxDuration <= 0 {
		return Criteria{}, fmt.Errorf("%w: max flight duration must be positive", domain.ErrInvalidArguments)
	}
	if maxPrice != nil && *maxPrice <= 0 {
		return Criteria{}, fmt.Errorf("%w: max price must be positive", domain.ErrInvalidArguments)
	}
	return Criteria{
		origin:      origin,
		maxDuration: maxDuration,
		maxPrice:    maxPrice,
		categories:  categories,
		freeText:    freeText,
	}, nil
}

// Origin returns the IATA code of the traveler's current location.
func (c Criteria) Origin() string { return c.origin }

// MaxDuration returns the maximum flight duration in hours, nil when absent.
func (c Criteria) MaxDuration() *float64 { return c.maxDuration }

// MaxPrice returns the maximum flight price, nil when absent.
func (c Criteria) MaxPrice() *float64 { return c.maxPrice }

// Categories returns the requested destination categories.
func (c Criteria) Categories() []string { return c.categories }

// FreeText returns the free-form content to search for.
func (c Criteria) FreeText() string { return c.freeText }

func isIATACode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

// Set is a set of destination codes. Codes are compared case-sensitively,
// exactly as stored.
type Set map[string]struct{}

// NewSet creates a set from the given codes.
func NewSet(codes ...string) Set {
	s := make(Set, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether code is a member.
func (s Set) Has(code string) bool {
	_, ok := s[code]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int { return len(s) }

// Codes returns the members in sorted order for deterministic output.
func (s Set) Codes() []string {
	codes := make([]string, 0, len(s))
	for c := range s {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}

// Intersect returns the members present in both sets.
func (s Set) Intersect(other Set) Set {
	out := make(Set)
	for c := range s {
		if other.Has(c) {
			out[c] = struct{}{}
		}
	}
	return out
}

// Combine intersects the per-constraint destination sets into one eligibility
// set. A nil set means the constraint was never supplied and imposes no
// restriction; a non-nil empty set means the constraint matched nothing and
// must propagate through the intersection. The second return value reports
// whether any constraint restricted the result at all — callers must not read
// an unconstrained empty set as "match nothing".
func Combine(duration, price *Set) (Set, bool) {
	switch {
	case duration != nil && price != nil:
		return duration.Intersect(*price), true
	case duration != nil:
		return *duration, true
	case price != nil:
		return *price, true
	default:
		return Set{}, false
	}
}
