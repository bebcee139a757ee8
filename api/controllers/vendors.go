package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/keystonenotary/dispatch-backend/api/responses"
	"github.com/keystonenotary/dispatch-backend/api/validators"
	"github.com/keystonenotary/dispatch-backend/internal/vendors"
	"github.com/keystonenotary/dispatch-backend/pkg/db/models"
	"github.com/keystonenotary/dispatch-backend/pkg/enums"
	pkgerrors "github.com/keystonenotary/dispatch-backend/pkg/errors"
	"github.com/keystonenotary/dispatch-backend/pkg/logger"
)

type vendorResponse struct {
	ID                     uuid.UUID `json:"id"`
	Name                   string    `json:"name"`
	Phone                  string    `json:"phone,omitempty"`
	Email                  string    `json:"email,omitempty"`
	PrimaryCommissionState string    `json:"primary_commission_state"`
	Status                 string    `json:"status"`
	EliteScore             int       `json:"elite_score"`
	Tier                   string    `json:"tier"`
	FirstPassFundingRate   float64   `json:"first_pass_funding_rate"`
	TotalSignings          int       `json:"total_signings"`
	CreatedAt              time.Time `json:"created_at"`
}

func newVendorResponse(vendor *models.Vendor) vendorResponse {
	return vendorResponse{
		ID:                     vendor.ID,
		Name:                   vendor.Name,
		Phone:                  vendor.Phone,
		Email:                  vendor.Email,
		PrimaryCommissionState: vendor.PrimaryCommissionState,
		Status:                 string(vendor.Status),
		EliteScore:             vendor.EliteScore,
		Tier:                   string(vendor.Tier),
		FirstPassFundingRate:   vendor.FirstPassFundingRate,
		TotalSignings:          vendor.TotalSignings,
		CreatedAt:              vendor.CreatedAt,
	}
}

// ListVendors returns the roster, optionally filtered by status.
func ListVendors(repo vendors.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "vendors repository unavailable"))
			return
		}

		var status *enums.VendorStatus
		if raw := validators.ParseQueryString(r, "status"); raw != "" {
			parsed, err := enums.ParseVendorStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown vendor status"))
				return
			}
			status = &parsed
		}

		rows, err := repo.List(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendors"))
			return
		}

		resp := make([]vendorResponse, 0, len(rows))
		for i := range rows {
			resp = append(resp, newVendorResponse(&rows[i]))
		}
		responses.WriteSuccess(w, map[string]any{"vendors": resp})
	}
}
