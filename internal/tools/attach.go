package tools

import (
	"context"
	"encoding/json"

	"github.com/lunavoice/luna/internal/domain/criteria"
	domkb "github.com/lunavoice/luna/internal/domain/kb"
	"github.com/lunavoice/luna/internal/usecase/flightinfo"
)

// Per-tool hit bounds for the knowledge-base queries.
const (
	destinationInfoTopK = 3
	searchTopK          = 5
)

// DestinationFinder runs the criteria-driven destination search.
type DestinationFinder interface {
	Find(ctx context.Context, c criteria.Criteria) (string, error)
}

// Searcher runs the generic hybrid knowledge-base search.
type Searcher interface {
	Search(ctx context.Context, freeText, filterExpr string, topK int) ([]domkb.Passage, error)
}

// FlightLookup answers point flight queries.
type FlightLookup interface {
	Lookup(ctx context.Context, source, destination, tripDate string) (flightinfo.Info, error)
}

// Verifier re-resolves claimed citation keys.
type Verifier interface {
	Verify(ctx context.Context, claimed []string) ([]domkb.Passage, error)
}

// Source is one verified citation in the grounding report sent to the client.
type Source struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// GroundingReport is the ToClient payload of report_grounding.
type GroundingReport struct {
	Sources []Source `json:"sources"`
}

// Attach registers the five assistant tools on the builder.
func Attach(b *Builder, finder DestinationFinder, searcher Searcher, flights FlightLookup, verifier Verifier) error {
	register := []Tool{
		{
			Schema: findDestinationSchema(),
			Handle: func(ctx context.Context, raw json.RawMessage) (Result, error) {
				var args FindDestinationArgs
				if err := decodeArgs(raw, &args); err != nil {
					return Result{}, err
				}
				c, err := criteria.New(args.CurrentLocation, args.MaxFlightDuration, args.MaxPrice, args.Categories, args.Content)
				if err != nil {
					return Result{}, err
				}
				answer, err := finder.Find(ctx, c)
				if err != nil {
					return Result{}, err
				}
				return Result{Direction: ToServer, Text: answer}, nil
			},
		},
		{
			Schema: destinationInfoSchema(),
			Handle: func(ctx context.Context, raw json.RawMessage) (Result, error) {
				var args DestinationInfoArgs
				if err := decodeArgs(raw, &args); err != nil {
					return Result{}, err
				}
				passages, err := searcher.Search(ctx, args.Query, "", destinationInfoTopK)
				if err != nil {
					return Result{}, err
				}
				return Result{Direction: ToServer, Text: domkb.FormatPassages(passages)}, nil
			},
		},
		{
			Schema: flightInfoSchema(),
			Handle: func(ctx context.Context, raw json.RawMessage) (Result, error) {
				var args FlightInfoArgs
				if err := decodeArgs(raw, &args); err != nil {
					return Result{}, err
				}
				info, err := flights.Lookup(ctx, args.CurrentLocation, args.Destination, args.TripDate)
				if err != nil {
					return Result{}, err
				}
				return Result{Direction: ToServer, Payload: info}, nil
			},
		},
		{
			Schema: searchSchema(),
			Handle: func(ctx context.Context, raw json.RawMessage) (Result, error) {
				var args SearchArgs
				if err := decodeArgs(raw, &args); err != nil {
					return Result{}, err
				}
				passages, err := searcher.Search(ctx, args.Query, "", searchTopK)
				if err != nil {
					return Result{}, err
				}
				return Result{Direction: ToServer, Text: domkb.FormatPassages(passages)}, nil
			},
		},
		{
			Schema: groundingSchema(),
			Handle: func(ctx context.Context, raw json.RawMessage) (Result, error) {
				var args GroundingArgs
				if err := decodeArgs(raw, &args); err != nil {
					return Result{}, err
				}
				passages, err := verifier.Verify(ctx, args.Sources)
				if err != nil {
					return Result{}, err
				}
				report := GroundingReport{Sources: make([]Source, len(passages))}
				for i, p := range passages {
					report.Sources[i] = Source{Key: p.Key, Title: p.Title, Body: p.Body}
				}
				return Result{Direction: ToClient, Payload: report}, nil
			},
		},
	}

	for _, t := range register {
		if err := b.Register(t); err != nil {
			return err
		}
	}
	return nil
}
