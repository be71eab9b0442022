// Package destination finds travel destinations matching flight constraints
// and content preferences.
package destination

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lunavoice/luna/internal/domain/criteria"
	domkb "github.com/lunavoice/luna/internal/domain/kb"
	"github.com/lunavoice/luna/internal/domain/searchfilter"
)

// topK bounds the number of passages returned for one destination search.
const topK = 5

// NoMatchAnswer is returned when the flight constraints ruled out every
// destination; the knowledge base is not queried in that case.
const NoMatchAnswer = "No destinations match the requested flight constraints."

// Service resolves flight-constraint eligibility and retrieves matching
// destination passages.
type Service struct {
	flights FlightStore
	search  Retriever
	logger  *zap.Logger
}

// New creates a destination search service.
func New(flights FlightStore, search Retriever, logger *zap.Logger) *Service {
	return &Service{flights: flights, search: search, logger: logger}
}

// Find resolves the criteria into an eligibility set, synthesizes the search
// filter, and retrieves matching passages as a single formatted answer.
//
// Both flight queries run concurrently; the filter is synthesized only after
// both complete. A constraint that was supplied but matched nothing empties
// the eligibility set and short-circuits the search entirely, because the
// filter grammar omits empty clause groups rather than render a false literal.
func (s *Service) Find(ctx context.Context, c criteria.Criteria) (string, error) {
	s.logger.Info("destination search",
		zap.String("origin", c.Origin()),
		zap.Float64p("max_duration_hours", c.MaxDuration()),
		zap.Float64p("max_price", c.MaxPrice()),
		zap.Strings("categories", c.Categories()),
	)

	var byDuration, byPrice *criteria.Set

	g, gctx := errgroup.WithContext(ctx)
	if d := c.MaxDuration(); d != nil {
		g.Go(func() error {
			set, err := s.flights.DestinationsWithinDuration(gctx, c.Origin(), *d)
			if err != nil {
				return err
			}
			byDuration = &set
			return nil
		})
	}
	if p := c.MaxPrice(); p != nil {
		g.Go(func() error {
			set, err := s.flights.DestinationsWithinPrice(gctx, c.Origin(), *p)
			if err != nil {
				return err
			}
			byPrice = &set
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("resolve eligible destinations: %w", err)
	}

	eligible, constrained := criteria.Combine(byDuration, byPrice)
	if constrained && eligible.Len() == 0 {
		s.logger.Info("no eligible destinations", zap.String("origin", c.Origin()))
		return NoMatchAnswer, nil
	}

	var codes []string
	if constrained {
		codes = eligible.Codes()
	}
	filterExpr, err := searchfilter.Synthesize(codes, c.Categories())
	if err != nil {
		return "", fmt.Errorf("synthesize search filter: %w", err)
	}

	passages, err := s.search.Search(ctx, c.FreeText(), filterExpr, topK)
	if err != nil {
		return "", err
	}

	return domkb.FormatPassages(passages), nil
}
