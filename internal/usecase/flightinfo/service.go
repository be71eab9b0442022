// Package flightinfo answers point lookups for a specific flight.
package flightinfo

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/lunavoice/luna/internal/domain"
)

// tripDateLayout is the wire format of trip dates in tool arguments.
const tripDateLayout = "2006-01-02"

// FlightStore answers point lookups against the flight tables.
type FlightStore interface {
	Duration(ctx context.Context, source, destination string) (float64, error)
	Price(ctx context.Context, source, destination string, tripDate time.Time) (float64, error)
}

// Info is the flight lookup answer. Zero values mean no route or no fare
// covering the date; that is an answer, not an error.
type Info struct {
	Source      string  `json:"source"`
	Destination string  `json:"destination"`
	Price       float64 `json:"price"`
	Duration    float64 `json:"duration"`
	TripDate    string  `json:"trip_date"`
}

// Service resolves flight duration and price for a concrete route and date.
type Service struct {
	flights FlightStore
	logger  *zap.Logger
}

// New creates a flight info service.
func New(flights FlightStore, logger *zap.Logger) *Service {
	return &Service{flights: flights, logger: logger}
}

// Lookup returns duration and price for the route on the given trip date.
func (s *Service) Lookup(ctx context.Context, source, destination, tripDate string) (Info, error) {
	date, err := time.Parse(tripDateLayout, tripDate)
	if err != nil {
		return Info{}, fmt.Errorf("%w: trip date %q must be YYYY-MM-DD", domain.ErrInvalidArguments, tripDate)
	}

	duration, err := s.flights.Duration(ctx, source, destination)
	if err != nil {
		return Info{}, err
	}
	price, err := s.flights.Price(ctx, source, destination, date)
	if err != nil {
		return Info{}, err
	}

	s.logger.Info("flight lookup",
		zap.String("source", source),
		zap.String("destination", destination),
		zap.String("trip_date", tripDate),
		zap.Float64("duration_hours", duration),
		zap.Float64("price", price),
	)

	return Info{
		Source:      source,
		Destination: destination,
		Price:       price,
		Duration:    duration,
		TripDate:    tripDate,
	}, nil
}
