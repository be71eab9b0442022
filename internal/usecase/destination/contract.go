package destination

import (
	"context"

	"github.com/lunavoice/luna/internal/domain/criteria"
	domkb "github.com/lunavoice/luna/internal/domain/kb"
)

// FlightStore answers eligibility queries against the flight tables.
type FlightStore interface {
	DestinationsWithinDuration(ctx context.Context, origin string, maxHours float64) (criteria.Set, error)
	DestinationsWithinPrice(ctx context.Context, origin string, maxPrice float64) (criteria.Set, error)
}

// Retriever runs the hybrid knowledge-base search.
type Retriever interface {
	Search(ctx context.Context, freeText, filterExpr string, topK int) ([]domkb.Passage, error)
}
