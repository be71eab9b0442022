// Package flights is the repository over the relational flight database.
package flights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/lunavoice/luna/internal/domain/criteria"
	"github.com/lunavoice/luna/internal/metrics"
)

// Open connects to the flight database. Connection pooling is owned by the
// driver; every query below scopes itself to the caller's context so a
// canceled invocation releases its resources on all paths.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect flight database: %w", err)
	}
	return db, nil
}

// Repo answers point and range lookups against the flight tables. All
// parameters are bound, never interpolated.
type Repo struct {
	db *gorm.DB
}

// New creates a flight repository.
func New(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// Ping verifies database connectivity.
func (r *Repo) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("flight database handle: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping flight database: %w", err)
	}
	return nil
}

// Duration returns the flight duration in hours between two cities, or zero
// when no row exists (unknown routes are not an error).
func (r *Repo) Duration(ctx context.Context, source, destination string) (float64, error) {
	start := time.Now()
	defer observe("duration", start)

	var row FlightDuration
	err := r.db.WithContext(ctx).
		Where("source = ? AND destination = ?", source, destination).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query flight duration %s-%s: %w", source, destination, err)
	}
	return row.Duration, nil
}

// Price returns the fare between two cities for a trip date inside the fare
// window, or zero when no fare covers the date.
func (r *Repo) Price(ctx context.Context, source, destination string, tripDate time.Time) (float64, error) {
	start := time.Now()
	defer observe("price", start)

	var row FlightPrice
	err := r.db.WithContext(ctx).
		Where("source = ? AND destination = ? AND start_date <= ? AND end_date >= ?",
			source, destination, tripDate, tripDate).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query flight price %s-%s: %w", source, destination, err)
	}
	return row.Price, nil
}

// DestinationsWithinDuration returns every destination reachable from origin
// within maxHours. Zero rows yields the empty set, never an error.
func (r *Repo) DestinationsWithinDuration(ctx context.Context, origin string, maxHours float64) (criteria.Set, error) {
	start := time.Now()
	defer observe("durations_within", start)

	var codes []string
	err := r.db.WithContext(ctx).
		Model(&FlightDuration{}).
		Where("source = ? AND duration <= ?", origin, maxHours).
		Distinct().
		Pluck("destination", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("query destinations within %v hours of %s: %w", maxHours, origin, err)
	}
	return criteria.NewSet(codes...), nil
}

// DestinationsWithinPrice returns every destination reachable from origin for
// at most maxPrice on some fare. Zero rows yields the empty set, never an
// error.
func (r *Repo) DestinationsWithinPrice(ctx context.Context, origin string, maxPrice float64) (criteria.Set, error) {
	start := time.Now()
	defer observe("prices_within", start)

	var codes []string
	err := r.db.WithContext(ctx).
		Model(&FlightPrice{}).
		Where("source = ? AND price <= ?", origin, maxPrice).
		Distinct().
		Pluck("destination", &codes).Error
	if err != nil {
		return nil, fmt.Errorf("query destinations within %v of %s: %w", maxPrice, origin, err)
	}
	return criteria.NewSet(codes...), nil
}

func observe(query string, start time.Time) {
	metrics.FlightQueryDuration.WithLabelValues(query).Observe(time.Since(start).Seconds())
}
