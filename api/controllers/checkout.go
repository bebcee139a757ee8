package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/keystonenotary/dispatch-backend/api/responses"
	"github.com/keystonenotary/dispatch-backend/api/validators"
	checkoutsvc "github.com/keystonenotary/dispatch-backend/internal/checkout"
	pkgerrors "github.com/keystonenotary/dispatch-backend/pkg/errors"
	"github.com/keystonenotary/dispatch-backend/pkg/logger"
)

type checkoutRequest struct {
	OrderID     uuid.UUID `json:"order_id" validate:"required"`
	TotalCents  int64     `json:"total_cents" validate:"required,min=1"`
	Provisional bool      `json:"provisional"`
}

type checkoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

// Checkout creates a hosted payment session from a priced, non-provisional total.
func Checkout(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		url, err := svc.CreateSession(r.Context(), checkoutsvc.CreateInput{
			OrderID:     payload.OrderID,
			TotalCents:  payload.TotalCents,
			Provisional: payload.Provisional,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{CheckoutURL: url})
	}
}
