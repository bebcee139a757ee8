package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/keystonenotary/dispatch-backend/api/responses"
	"github.com/keystonenotary/dispatch-backend/api/validators"
	"github.com/keystonenotary/dispatch-backend/internal/dispatch"
	"github.com/keystonenotary/dispatch-backend/pkg/enums"
	pkgerrors "github.com/keystonenotary/dispatch-backend/pkg/errors"
	"github.com/keystonenotary/dispatch-backend/pkg/logger"
)

type assignRequest struct {
	VendorID *uuid.UUID `json:"vendor_id,omitempty"`
	Actor    string     `json:"actor,omitempty"`
}

type assignResponse struct {
	Order          *orderResponse   `json:"order,omitempty"`
	AssignedVendor *vendorResponse  `json:"assigned_vendor,omitempty"`
	Candidates     []vendorResponse `json:"candidates,omitempty"`
	AutoAssigned   bool             `json:"auto_assigned"`
}

// AssignOrder dispatches a pending order, either to an explicit vendor or
// through tier-based auto-assignment.
func AssignOrder(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assignRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Assign(r.Context(), dispatch.AssignInput{
			OrderID:  orderID,
			VendorID: payload.VendorID,
			Actor:    payload.Actor,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := assignResponse{AutoAssigned: result.AutoAssigned}
		if result.Order != nil {
			order := newOrderResponse(result.Order)
			resp.Order = &order
		}
		if result.AssignedVendor != nil {
			vendor := newVendorResponse(result.AssignedVendor)
			resp.AssignedVendor = &vendor
		}
		for i := range result.Candidates {
			resp.Candidates = append(resp.Candidates, newVendorResponse(&result.Candidates[i]))
		}

		responses.WriteSuccess(w, resp)
	}
}

// OrderCandidates returns the ranked eligible vendors without touching the order.
func OrderCandidates(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		candidates, err := svc.Candidates(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		resp := make([]vendorResponse, 0, len(candidates))
		for i := range candidates {
			resp = append(resp, newVendorResponse(&candidates[i]))
		}
		responses.WriteSuccess(w, map[string]any{"candidates": resp})
	}
}

type orderEventRequest struct {
	Event string `json:"event" validate:"required"`
	Actor string `json:"actor,omitempty"`
}

// RecordOrderEvent applies an external lifecycle signal to an order.
func RecordOrderEvent(svc dispatch.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "dispatch service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload orderEventRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		kind, err := enums.ParseDispatchEvent(payload.Event)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnknownEvent, err, "unknown dispatch event"))
			return
		}

		order, err := svc.RecordEvent(r.Context(), orderID, kind, payload.Actor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}
