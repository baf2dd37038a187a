package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/foodbridge-backend/api/middleware"
	"github.com/angelmondragon/foodbridge-backend/api/responses"
	"github.com/angelmondragon/foodbridge-backend/api/validators"
	"github.com/angelmondragon/foodbridge-backend/internal/donations"
	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodbridge-backend/pkg/errors"
	"github.com/angelmondragon/foodbridge-backend/pkg/logger"
)

type submitDonationRequest struct {
	FoodType         string          `json:"food_type" validate:"required,max=120"`
	Category         string          `json:"category" validate:"required,oneof=cooked raw"`
	QuantityKg       decimal.Decimal `json:"quantity_kg"`
	CookingTime      *time.Time      `json:"cooking_time" validate:"required_if=Category cooked,excluded_if=Category raw"`
	ExpiryDate       *time.Time      `json:"expiry_date" validate:"required_if=Category raw,excluded_if=Category cooked"`
	StorageCondition string          `json:"storage_condition" validate:"required,oneof=Hot Refrigerated RoomTemperature"`
}

func (req submitDonationRequest) toInput() donations.SubmitInput {
	return donations.SubmitInput{
		FoodType:         validators.SanitizeString(req.FoodType, 120),
		Category:         enums.FoodCategory(req.Category),
		QuantityKg:       req.QuantityKg,
		CookingTime:      req.CookingTime,
		ExpiryDate:       req.ExpiryDate,
		StorageCondition: enums.StorageCondition(req.StorageCondition),
	}
}

// SubmitDonation screens and records a donation for the acting donor. A
// rejected donation answers 422 with the rejection reason.
func SubmitDonation(svc donations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "donation service unavailable"))
			return
		}

		donorID, err := donorFromContext(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var req submitDonationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.Submit(ctx, donorID, req.toInput())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if !result.Accepted {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRejected, result.Reason))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result.ToResponseDTO())
	}
}

func donorFromContext(r *http.Request) (uuid.UUID, error) {
	raw := strings.TrimSpace(middleware.DonorIDFromContext(r.Context()))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "donor context missing")
	}
	return validators.ParseUUIDParam(raw, "donor id")
}
