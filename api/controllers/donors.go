package controllers

import (
	"net/http"

	"github.com/angelmondragon/foodbridge-backend/api/responses"
	"github.com/angelmondragon/foodbridge-backend/internal/donors"
	pkgerrors "github.com/angelmondragon/foodbridge-backend/pkg/errors"
	"github.com/angelmondragon/foodbridge-backend/pkg/logger"
)

// DonorDashboard returns the acting donor's profile, tier progress and recent activity.
func DonorDashboard(svc donors.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "donor service unavailable"))
			return
		}
		donorID, err := donorFromContext(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		dashboard, err := svc.Dashboard(ctx, donorID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}
