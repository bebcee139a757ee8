package controllers

import (
	"net/http"

	"github.com/keystonenotary/dispatch-backend/api/responses"
	"github.com/keystonenotary/dispatch-backend/api/validators"
	"github.com/keystonenotary/dispatch-backend/internal/distance"
	"github.com/keystonenotary/dispatch-backend/internal/pricing"
	"github.com/keystonenotary/dispatch-backend/pkg/enums"
	pkgerrors "github.com/keystonenotary/dispatch-backend/pkg/errors"
	"github.com/keystonenotary/dispatch-backend/pkg/logger"
)

type quoteRequest struct {
	ServiceKind    string   `json:"service_kind" validate:"required"`
	ServiceVariant string   `json:"service_variant,omitempty"`
	DocumentCount  int      `json:"document_count" validate:"omitempty,min=1"`
	SigningAddress string   `json:"signing_address,omitempty"`
	RoundTripMiles *float64 `json:"round_trip_miles,omitempty" validate:"omitempty,min=0"`
}

type quoteResponse struct {
	Lines          []pricing.LineItem `json:"lines"`
	TotalCents     int64              `json:"total_cents"`
	FormattedTotal string             `json:"formatted_total"`
	Provisional    bool               `json:"provisional"`
	RoundTripMiles *float64           `json:"round_trip_miles,omitempty"`
}

// Quote prices a service request. When a signing address is supplied the
// distance is resolved first; a failed lookup still prices, marked provisional.
func Quote(engine *pricing.Engine, resolver *distance.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if engine == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing engine unavailable"))
			return
		}

		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseServiceKind(payload.ServiceKind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInvalidServiceKind, err, "unknown service kind"))
			return
		}
		variant, err := enums.ParseServiceVariant(payload.ServiceVariant)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInvalidServiceKind, err, "unknown service variant"))
			return
		}

		miles := payload.RoundTripMiles
		if miles == nil && payload.SigningAddress != "" && resolver != nil {
			result := resolver.Resolve(r.Context(), payload.SigningAddress)
			miles = result.RoundTripMiles()
		}

		breakdown, err := engine.Price(pricing.Request{
			Kind:           kind,
			Variant:        variant,
			DocumentCount:  payload.DocumentCount,
			RoundTripMiles: miles,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quoteResponse{
			Lines:          breakdown.Lines,
			TotalCents:     breakdown.TotalCents,
			FormattedTotal: breakdown.FormattedTotal(),
			Provisional:    breakdown.Provisional,
			RoundTripMiles: miles,
		})
	}
}

type distanceRequest struct {
	Address string `json:"address" validate:"required"`
}

type distanceResponse struct {
	OneWayMiles    *float64 `json:"one_way_miles"`
	RoundTripMiles *float64 `json:"round_trip_miles"`
	FailureReason  string   `json:"failure_reason,omitempty"`
}

// Distance resolves driving miles from the office to an address.
func Distance(resolver *distance.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "distance resolver unavailable"))
			return
		}

		var payload distanceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result := resolver.Resolve(r.Context(), payload.Address)
		responses.WriteSuccess(w, distanceResponse{
			OneWayMiles:    result.Miles,
			RoundTripMiles: result.RoundTripMiles(),
			FailureReason:  result.FailureReason,
		})
	}
}
