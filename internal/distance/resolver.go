package distance

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/keystonenotary/dispatch-backend/pkg/logger"
	"github.com/keystonenotary/dispatch-backend/pkg/maps"
	"github.com/keystonenotary/dispatch-backend/pkg/metrics"
)

const defaultTimeout = 5 * time.Second

// RouteClient is the slice of pkg/maps the resolver needs.
type RouteClient interface {
	DrivingDistance(ctx context.Context, origin, destination string) (*maps.Route, error)
}

// Result is the outcome of a distance lookup. Miles is the one-way driving
// distance; nil means the lookup failed and FailureReason says why. A failed
// lookup is an ordinary outcome, not an error: callers degrade to a
// provisional price instead of blocking the quote.
type Result struct {
	Miles         *float64 `json:"miles,omitempty"`
	FailureReason string   `json:"failure_reason,omitempty"`
}

// RoundTripMiles doubles the one-way distance, or returns nil when the
// lookup failed.
func (r Result) RoundTripMiles() *float64 {
	if r.Miles == nil {
		return nil
	}
	roundTrip := *r.Miles * 2
	return &roundTrip
}

// Resolver computes driving distance from the configured office origin to a
// destination address.
type Resolver struct {
	client  RouteClient
	origin  string
	timeout time.Duration
	metrics *metrics.DispatchMetrics
	logg    *logger.Logger
}

// NewResolver builds a resolver. A zero timeout falls back to 5s.
func NewResolver(client RouteClient, origin string, timeout time.Duration, m *metrics.DispatchMetrics, logg *logger.Logger) (*Resolver, error) {
	if client == nil {
		return nil, errors.New("distance: route client is required")
	}
	if strings.TrimSpace(origin) == "" {
		return nil, errors.New("distance: origin address is required")
	}
	if logg == nil {
		return nil, errors.New("distance: logger is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Resolver{
		client:  client,
		origin:  origin,
		timeout: timeout,
		metrics: m,
		logg:    logg,
	}, nil
}

// Resolve looks up the one-way driving distance to the destination. The call
// is bounded by the configured timeout and holds no locks while waiting.
func (r *Resolver) Resolve(ctx context.Context, destination string) Result {
	if strings.TrimSpace(destination) == "" {
		return Result{FailureReason: "destination address is required"}
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	route, err := r.client.DrivingDistance(ctx, r.origin, destination)
	r.metrics.ObserveDistanceLookup(time.Since(start))

	if err != nil {
		r.metrics.IncDistanceFailure()
		r.logg.Warn(r.logg.WithField(ctx, "destination", destination), "distance lookup failed: "+err.Error())
		return Result{FailureReason: err.Error()}
	}

	miles := route.OneWayMiles
	return Result{Miles: &miles}
}
