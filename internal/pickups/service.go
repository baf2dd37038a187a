package pickups

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/foodbridge-backend/internal/donations"
	"github.com/angelmondragon/foodbridge-backend/internal/impact"
	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodbridge-backend/pkg/errors"
	"github.com/angelmondragon/foodbridge-backend/pkg/logger"
	"github.com/angelmondragon/foodbridge-backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes the NGO pickup queue.
type Service interface {
	ListPending(ctx context.Context, limit int) ([]QueueEntryDTO, error)
	Accept(ctx context.Context, id uuid.UUID, ngo *string) (*PickupDTO, error)
	Complete(ctx context.Context, id uuid.UUID) (*PickupDTO, error)
}

// ServiceParams groups the queue dependencies.
type ServiceParams struct {
	Tx             txRunner
	Repo           *Repository
	Donations      *donations.Repository
	Impact         *impact.Repository
	ImpactSettings impact.Settings
	Metrics        *metrics.IntakeMetrics
	Logger         *logger.Logger
	Clock          func() time.Time
}

type service struct {
	tx        txRunner
	repo      *Repository
	donations *donations.Repository
	impact    *impact.Repository
	settings  impact.Settings
	metrics   *metrics.IntakeMetrics
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the pickup queue service.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("pickup repository required")
	}
	if params.Donations == nil {
		return nil, fmt.Errorf("donation repository required")
	}
	if params.Impact == nil {
		return nil, fmt.Errorf("impact repository required")
	}
	clock := params.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &service{
		tx:        params.Tx,
		repo:      params.Repo,
		donations: params.Donations,
		impact:    params.Impact,
		settings:  params.ImpactSettings,
		metrics:   params.Metrics,
		logg:      params.Logger,
		now:       clock,
	}, nil
}

// ListPending returns up to limit pending requests ordered by urgency.
// A non-positive limit falls back to DefaultQueueLimit.
func (s *service) ListPending(ctx context.Context, limit int) ([]QueueEntryDTO, error) {
	if limit <= 0 {
		limit = DefaultQueueLimit
	}
	rows, err := s.repo.ListPending(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending pickups")
	}
	out := make([]QueueEntryDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, toQueueEntry(row))
	}
	return out, nil
}

// Accept claims a pending pickup, marks its donation as picked up and credits the
// impact counters, all in one transaction.
func (s *service) Accept(ctx context.Context, id uuid.UUID, ngo *string) (*PickupDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pickup id is required")
	}
	ngo = normalizeNGO(ngo)
	now := s.now()

	var dto PickupDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ok, err := repo.MarkAccepted(ctx, id, ngo, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept pickup")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeNotFound, "pickup request not found or not pending")
		}

		pickup, err := repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload pickup")
		}

		moved, err := s.donations.WithTx(tx).TransitionStatus(ctx, pickup.DonationID, enums.DonationStatusValid, enums.DonationStatusPickedUp)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark donation picked up")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "donation is not awaiting pickup")
		}

		if err := impact.RecordPickup(ctx, s.impact.WithTx(tx), s.settings); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record impact")
		}

		dto = ToPickupDTO(*pickup)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(string(enums.PickupStatusAccepted))
	if s.logg != nil {
		logCtx := s.logg.WithPickupID(ctx, id.String())
		if ngo != nil {
			logCtx = s.logg.WithField(logCtx, "ngo", *ngo)
		}
		s.logg.Info(logCtx, "pickup.accepted")
	}
	return &dto, nil
}

// Complete marks an accepted pickup as delivered.
func (s *service) Complete(ctx context.Context, id uuid.UUID) (*PickupDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "pickup id is required")
	}
	now := s.now()

	var dto PickupDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		ok, err := repo.MarkCompleted(ctx, id, now)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete pickup")
		}
		pickup, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "pickup request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload pickup")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "pickup request is not accepted").
				WithDetails(map[string]any{"status": pickup.Status})
		}

		moved, err := s.donations.WithTx(tx).TransitionStatus(ctx, pickup.DonationID, enums.DonationStatusPickedUp, enums.DonationStatusDelivered)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark donation delivered")
		}
		if !moved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "donation is not picked up")
		}

		dto = ToPickupDTO(*pickup)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition(string(enums.PickupStatusCompleted))
	if s.logg != nil {
		s.logg.Info(s.logg.WithPickupID(ctx, id.String()), "pickup.completed")
	}
	return &dto, nil
}

func normalizeNGO(ngo *string) *string {
	if ngo == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*ngo)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
