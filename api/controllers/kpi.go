package controllers

import (
	"net/http"

	"github.com/keystonenotary/dispatch-backend/api/responses"
	"github.com/keystonenotary/dispatch-backend/internal/kpi"
	pkgerrors "github.com/keystonenotary/dispatch-backend/pkg/errors"
	"github.com/keystonenotary/dispatch-backend/pkg/logger"
)

// KPISnapshot computes the operational snapshot over all orders and vendors.
func KPISnapshot(svc *kpi.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "kpi service unavailable"))
			return
		}

		snapshot, err := svc.Current(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, snapshot)
	}
}
