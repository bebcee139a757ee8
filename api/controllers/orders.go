package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/keystonenotary/dispatch-backend/api/responses"
	"github.com/keystonenotary/dispatch-backend/api/validators"
	internalorders "github.com/keystonenotary/dispatch-backend/internal/orders"
	"github.com/keystonenotary/dispatch-backend/pkg/db/models"
	"github.com/keystonenotary/dispatch-backend/pkg/enums"
	pkgerrors "github.com/keystonenotary/dispatch-backend/pkg/errors"
	"github.com/keystonenotary/dispatch-backend/pkg/logger"
	"github.com/keystonenotary/dispatch-backend/pkg/pagination"
)

type createOrderRequest struct {
	SigningType string `json:"signing_type" validate:"required"`
	ServiceTier string `json:"service_tier" validate:"required"`

	SignerName  string `json:"signer_name" validate:"required"`
	SignerPhone string `json:"signer_phone" validate:"required"`
	SignerEmail string `json:"signer_email,omitempty" validate:"omitempty,email"`

	PropertyAddress string `json:"property_address" validate:"required"`
	PropertyCity    string `json:"property_city" validate:"required"`
	PropertyState   string `json:"property_state" validate:"required,len=2"`
	PropertyZip     string `json:"property_zip" validate:"required"`

	LoanType            *string    `json:"loan_type,omitempty"`
	AppointmentAt       *time.Time `json:"appointment_at,omitempty"`
	SpecialInstructions *string    `json:"special_instructions,omitempty"`
}

type orderResponse struct {
	ID          uuid.UUID `json:"id"`
	OrderNumber string    `json:"order_number"`
	Status      string    `json:"status"`

	SigningType string `json:"signing_type"`
	ServiceTier string `json:"service_tier"`

	SignerName  string `json:"signer_name"`
	SignerPhone string `json:"signer_phone"`
	SignerEmail string `json:"signer_email,omitempty"`

	PropertyAddress string `json:"property_address"`
	PropertyCity    string `json:"property_city"`
	PropertyState   string `json:"property_state"`
	PropertyZip     string `json:"property_zip"`

	LoanType            *enums.LoanType `json:"loan_type,omitempty"`
	AppointmentAt       *time.Time      `json:"appointment_at,omitempty"`
	SpecialInstructions *string         `json:"special_instructions,omitempty"`

	AssignedVendorID        *uuid.UUID `json:"assigned_vendor_id,omitempty"`
	QARejections            int        `json:"qa_rejections"`
	FirstPassFunded         bool       `json:"first_pass_funded"`
	ManualAssignmentFlagged bool       `json:"manual_assignment_flagged"`

	AssignedAt         *time.Time `json:"assigned_at,omitempty"`
	SigningCompletedAt *time.Time `json:"signing_completed_at,omitempty"`
	FundedAt           *time.Time `json:"funded_at,omitempty"`

	Events []orderEventResponse `json:"events,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type orderEventResponse struct {
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Event      string    `json:"event,omitempty"`
	Actor      string    `json:"actor,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type orderPageResponse struct {
	Orders     []orderResponse `json:"orders"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

func newOrderResponse(order *models.SigningOrder) orderResponse {
	resp := orderResponse{
		ID:                      order.ID,
		OrderNumber:             order.OrderNumber,
		Status:                  string(order.Status),
		SigningType:             string(order.SigningType),
		ServiceTier:             string(order.ServiceTier),
		SignerName:              order.SignerName,
		SignerPhone:             order.SignerPhone,
		SignerEmail:             order.SignerEmail,
		PropertyAddress:         order.PropertyAddress,
		PropertyCity:            order.PropertyCity,
		PropertyState:           order.PropertyState,
		PropertyZip:             order.PropertyZip,
		LoanType:                order.LoanType,
		AppointmentAt:           order.AppointmentAt,
		SpecialInstructions:     order.SpecialInstructions,
		AssignedVendorID:        order.AssignedVendorID,
		QARejections:            order.QARejections,
		FirstPassFunded:         order.FirstPassFunded,
		ManualAssignmentFlagged: order.ManualAssignmentFlagged,
		AssignedAt:              order.AssignedAt,
		SigningCompletedAt:      order.SigningCompletedAt,
		FundedAt:                order.FundedAt,
		CreatedAt:               order.CreatedAt,
		UpdatedAt:               order.UpdatedAt,
	}
	for _, ev := range order.Events {
		item := orderEventResponse{
			FromStatus: string(ev.FromStatus),
			ToStatus:   string(ev.ToStatus),
			Actor:      ev.Actor,
			CreatedAt:  ev.CreatedAt,
		}
		if ev.Event != nil {
			item.Event = string(*ev.Event)
		}
		resp.Events = append(resp.Events, item)
	}
	return resp
}

// CreateOrder handles intake. New orders always start in pending_assignment.
func CreateOrder(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		signingType, err := enums.ParseSigningType(payload.SigningType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown signing type"))
			return
		}
		tier, err := enums.ParseServiceTier(payload.ServiceTier)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown service tier"))
			return
		}

		input := internalorders.CreateInput{
			SigningType:         signingType,
			ServiceTier:         tier,
			SignerName:          payload.SignerName,
			SignerPhone:         payload.SignerPhone,
			SignerEmail:         payload.SignerEmail,
			PropertyAddress:     payload.PropertyAddress,
			PropertyCity:        payload.PropertyCity,
			PropertyState:       payload.PropertyState,
			PropertyZip:         payload.PropertyZip,
			AppointmentAt:       payload.AppointmentAt,
			SpecialInstructions: payload.SpecialInstructions,
		}
		if payload.LoanType != nil {
			loanType, err := enums.ParseLoanType(*payload.LoanType)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown loan type"))
				return
			}
			input.LoanType = &loanType
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if logg != nil {
			ctx := logg.WithOrderNumber(r.Context(), order.OrderNumber)
			logg.Info(ctx, "order.created")
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderResponse(order))
	}
}

// ListOrders returns dispatch-board pages, newest first.
func ListOrders(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := internalorders.ListInput{
			Page: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		}
		if raw := validators.ParseQueryString(r, "status"); raw != "" {
			status, parseErr := enums.ParseOrderStatus(raw)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "unknown order status"))
				return
			}
			input.Status = &status
		}

		rows, nextCursor, err := svc.List(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page := orderPageResponse{
			Orders:     make([]orderResponse, 0, len(rows)),
			NextCursor: nextCursor,
		}
		for i := range rows {
			page.Orders = append(page.Orders, newOrderResponse(&rows[i]))
		}
		responses.WriteSuccess(w, page)
	}
}

// OrderDetail returns one order with its full audit trail.
func OrderDetail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(order))
	}
}
