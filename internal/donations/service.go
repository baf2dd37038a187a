package donations

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/foodbridge-backend/internal/donors"
	"github.com/angelmondragon/foodbridge-backend/internal/safety"
	"github.com/angelmondragon/foodbridge-backend/internal/urgency"
	"github.com/angelmondragon/foodbridge-backend/internal/zones"
	"github.com/angelmondragon/foodbridge-backend/pkg/db"
	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodbridge-backend/pkg/errors"
	"github.com/angelmondragon/foodbridge-backend/pkg/logger"
	"github.com/angelmondragon/foodbridge-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service runs the donation intake flow.
type Service interface {
	Submit(ctx context.Context, donorID uuid.UUID, input SubmitInput) (*SubmitResult, error)
}

// ServiceParams groups the intake dependencies.
type ServiceParams struct {
	Store    donationStore
	Donors   DonorCreditor
	Zones    zoneLister
	Pickups  PickupCreator
	Strategy zones.SelectionStrategy
	Distance DistanceProvider
	Metrics  *metrics.IntakeMetrics
	Logger   *logger.Logger
	Clock    func() time.Time
}

type service struct {
	donations donationStore
	donors    DonorCreditor
	zones     zoneLister
	pickups   PickupCreator
	strategy  zones.SelectionStrategy
	distance  DistanceProvider
	metrics   *metrics.IntakeMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the intake service. Strategy defaults to the priority strategy.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("donation store required")
	}
	if params.Donors == nil {
		return nil, fmt.Errorf("donor creditor required")
	}
	if params.Zones == nil {
		return nil, fmt.Errorf("zone lister required")
	}
	if params.Pickups == nil {
		return nil, fmt.Errorf("pickup creator required")
	}
	if params.Distance == nil {
		return nil, fmt.Errorf("distance provider required")
	}
	strategy := params.Strategy
	if strategy == nil {
		strategy = zones.NewPriorityStrategy()
	}
	clock := params.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		donations: params.Store,
		donors:    params.Donors,
		zones:     params.Zones,
		pickups:   params.Pickups,
		strategy:  strategy,
		distance:  params.Distance,
		metrics:   params.Metrics,
		logg:      params.Logger,
		now:       clock,
	}, nil
}

// Submit screens a donation and, when safe, persists it, credits the donor and
// routes a pickup request to the neediest zone. Each step commits on its own;
// a later failure leaves earlier writes in place.
func (s *service) Submit(ctx context.Context, donorID uuid.UUID, input SubmitInput) (*SubmitResult, error) {
	if donorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donor id is required")
	}
	input.FoodType = strings.TrimSpace(input.FoodType)
	if err := validateInput(input); err != nil {
		s.metrics.IncDonation(metrics.OutcomeInvalid, string(input.Category))
		return nil, err
	}

	now := s.now()
	if s.logg != nil {
		ctx = s.logg.WithDonorID(ctx, donorID.String())
	}

	decision := safety.Validate(safety.Input{
		Category:         input.Category,
		CookingTime:      input.CookingTime,
		ExpiryDate:       input.ExpiryDate,
		StorageCondition: input.StorageCondition,
	}, now)
	if !decision.Accepted {
		s.metrics.IncDonation(metrics.OutcomeRejected, string(input.Category))
		if s.logg != nil {
			s.logg.Info(s.logg.WithField(ctx, "reason", decision.Reason), "donation.rejected")
		}
		return &SubmitResult{Reason: decision.Reason}, nil
	}

	donation := &models.Donation{
		DonorID:          donorID,
		FoodType:         input.FoodType,
		Category:         input.Category,
		QuantityKg:       input.QuantityKg,
		CookingTime:      utcPtr(input.CookingTime),
		ExpiryDate:       utcPtr(input.ExpiryDate),
		StorageCondition: input.StorageCondition,
		Status:           enums.DonationStatusValid,
	}
	if err := s.donations.Create(ctx, donation); err != nil {
		if db.IsForeignKeyViolation(err) {
			return nil, s.fail(ctx, input, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "donor not found"))
		}
		if db.IsCheckViolation(err) {
			return nil, s.fail(ctx, input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "donation violates storage constraints"))
		}
		return nil, s.fail(ctx, input, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist donation"))
	}

	donor, err := s.donors.Credit(ctx, donorID, input.QuantityKg)
	if err != nil {
		return nil, s.fail(ctx, input, err)
	}

	result := &SubmitResult{
		Accepted: true,
		Donation: donation,
		Donor:    donor,
		Tier:     donors.ComputeTier(donor.TotalMeals),
	}

	all, err := s.zones.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, input, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list hunger zones"))
	}
	zone, ok := s.strategy.Select(all)
	if !ok {
		s.metrics.IncDonation(metrics.OutcomeAccepted, string(input.Category))
		s.metrics.AddKilograms(input.QuantityKg.InexactFloat64())
		s.metrics.IncUnrouted()
		if s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "donation_id", donation.ID.String()), "donation.unrouted")
		}
		return result, nil
	}

	distance, err := s.distance.DistanceKm(ctx, *donation, *zone)
	if err != nil {
		return nil, s.fail(ctx, input, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "estimate distance"))
	}

	pickup := &models.PickupRequest{
		DonationID:   donation.ID,
		ZoneID:       zone.ID,
		UrgencyScore: urgency.ScoreDonation(*zone, *donation, now),
		DistanceKm:   distance,
		Status:       enums.PickupStatusPending,
	}
	if err := s.pickups.Create(ctx, pickup); err != nil {
		return nil, s.fail(ctx, input, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist pickup request"))
	}
	result.Zone = zone
	result.Pickup = pickup

	s.metrics.IncDonation(metrics.OutcomeAccepted, string(input.Category))
	s.metrics.AddKilograms(input.QuantityKg.InexactFloat64())
	s.metrics.ObserveUrgency(pickup.UrgencyScore)
	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"donation_id":   donation.ID.String(),
			"pickup_id":     pickup.ID.String(),
			"zone":          zone.AreaName,
			"urgency_score": pickup.UrgencyScore,
		}), "donation.accepted")
	}
	return result, nil
}

func (s *service) fail(ctx context.Context, input SubmitInput, err error) error {
	s.metrics.IncDonation(metrics.OutcomeFailed, string(input.Category))
	if s.logg != nil {
		s.logg.Error(ctx, "donation.intake_failed", err)
	}
	return err
}

// MaxQuantityKg is the largest quantity the donations.quantity_kg column
// (NUMERIC(12,3)) can hold. It also keeps the donor counter math inside int64.
var MaxQuantityKg = decimal.RequireFromString("999999999.999")

func validateInput(input SubmitInput) error {
	if input.FoodType == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "food_type is required")
	}
	if !input.QuantityKg.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be greater than zero")
	}
	if input.QuantityKg.GreaterThan(MaxQuantityKg) {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "quantity must be at most %s kg", MaxQuantityKg.String()).
			WithDetails(map[string]any{"field": "quantity_kg", "max": MaxQuantityKg.String()})
	}
	if !input.Category.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid category %q", input.Category)
	}
	if !input.StorageCondition.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "invalid storage condition %q", input.StorageCondition)
	}
	switch input.Category {
	case enums.FoodCategoryCooked:
		if input.CookingTime == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "cooking_time is required for cooked food")
		}
		if input.ExpiryDate != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "expiry_date is not allowed for cooked food")
		}
	case enums.FoodCategoryRaw:
		if input.ExpiryDate == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "expiry_date is required for raw food")
		}
		if input.CookingTime != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "cooking_time is not allowed for raw food")
		}
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
