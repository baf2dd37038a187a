package donors

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/foodbridge-backend/pkg/errors"
	"github.com/angelmondragon/foodbridge-backend/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const resyncBatchSize = 200

// ActivityReader lists a donor's most recent donations.
type ActivityReader interface {
	ListRecentByDonor(ctx context.Context, donorID uuid.UUID, limit int) ([]models.Donation, error)
}

// ServiceParams groups dependencies for the donor service.
type ServiceParams struct {
	Repo     *Repository
	Activity ActivityReader
	Logger   *logger.Logger
	Clock    func() time.Time
}

// Service exposes donor gamification and dashboard reads.
type Service interface {
	Credit(ctx context.Context, donorID uuid.UUID, quantityKg decimal.Decimal) (*models.DonorProfile, error)
	Dashboard(ctx context.Context, donorID uuid.UUID) (*DashboardDTO, error)
	ResolveByEmail(ctx context.Context, email string) (*models.DonorProfile, error)
	ResyncTiers(ctx context.Context) (int, error)
}

type service struct {
	repo     *Repository
	activity ActivityReader
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds a donor service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donor repo is required")
	}
	if params.Activity == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "activity reader is required")
	}
	clock := params.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		repo:     params.Repo,
		activity: params.Activity,
		logg:     params.Logger,
		now:      clock,
	}, nil
}

// Credit applies a donation to the donor's counters and refreshes the cached tier.
func (s *service) Credit(ctx context.Context, donorID uuid.UUID, quantityKg decimal.Decimal) (*models.DonorProfile, error) {
	if donorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donor id is required")
	}
	profile, err := s.repo.Credit(ctx, donorID, ContributionFor(quantityKg))
	if err != nil {
		return nil, mapLoadError(err, "credit donor")
	}
	if err := s.syncTier(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Dashboard returns the donor profile, tier progress and recent activity.
func (s *service) Dashboard(ctx context.Context, donorID uuid.UUID) (*DashboardDTO, error) {
	if donorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donor id is required")
	}

	var (
		profile *models.DonorProfile
		recent  []models.Donation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.repo.FindByID(gctx, donorID)
		if err != nil {
			return mapLoadError(err, "load donor")
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		rows, err := s.activity.ListRecentByDonor(gctx, donorID, RecentActivityLimit)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load recent donations")
		}
		recent = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.syncTier(ctx, profile); err != nil {
		return nil, err
	}

	now := s.now()
	activity := make([]ActivityDTO, 0, len(recent))
	for _, d := range recent {
		activity = append(activity, toActivityDTO(d, now))
	}

	return &DashboardDTO{
		Profile:        toProfileDTO(*profile),
		Tier:           ComputeTier(profile.TotalMeals),
		RecentActivity: activity,
	}, nil
}

// ResolveByEmail loads a donor by email.
func (s *service) ResolveByEmail(ctx context.Context, email string) (*models.DonorProfile, error) {
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donor email is required")
	}
	profile, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, mapLoadError(err, "load donor by email")
	}
	return profile, nil
}

// ResyncTiers walks every profile and rewrites stale cached tier labels.
func (s *service) ResyncTiers(ctx context.Context) (int, error) {
	updated := 0
	after := uuid.Nil
	for {
		batch, err := s.repo.ListAll(ctx, after, resyncBatchSize)
		if err != nil {
			return updated, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list donors")
		}
		for i := range batch {
			tier := ComputeTier(batch[i].TotalMeals).Tier
			if tier == batch[i].Tier {
				continue
			}
			ok, err := s.repo.SyncTier(ctx, batch[i].ID, batch[i].TotalMeals, tier)
			if err != nil {
				return updated, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync donor tier")
			}
			if ok {
				updated++
			}
		}
		if len(batch) < resyncBatchSize {
			return updated, nil
		}
		after = batch[len(batch)-1].ID
	}
}

// syncTier writes through the cached label when it no longer matches totalMeals.
func (s *service) syncTier(ctx context.Context, profile *models.DonorProfile) error {
	tier := ComputeTier(profile.TotalMeals).Tier
	if tier == profile.Tier {
		return nil
	}
	if _, err := s.repo.SyncTier(ctx, profile.ID, profile.TotalMeals, tier); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sync donor tier")
	}
	if s.logg != nil {
		ctx = s.logg.WithFields(ctx, map[string]any{
			"donor_id": profile.ID.String(),
			"from":     profile.Tier,
			"to":       tier,
		})
		s.logg.Info(ctx, "donor.tier_changed")
	}
	profile.Tier = tier
	return nil
}

func mapLoadError(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "donor not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
