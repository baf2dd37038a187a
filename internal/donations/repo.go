package donations

import (
	"context"

	"github.com/angelmondragon/foodbridge-backend/internal/repo"
	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository persists screened donations.
type Repository struct {
	repo.Base
}

// NewRepository constructs a donation repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Create inserts a donation, assigning an id when missing.
func (r *Repository) Create(ctx context.Context, donation *models.Donation) error {
	if donation.ID == uuid.Nil {
		donation.ID = uuid.New()
	}
	return r.DB(ctx).Create(donation).Error
}

// FindByID loads a donation.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	var donation models.Donation
	if err := r.DB(ctx).Where("id = ?", id).First(&donation).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

// ListRecentByDonor returns the donor's newest donations first.
func (r *Repository) ListRecentByDonor(ctx context.Context, donorID uuid.UUID, limit int) ([]models.Donation, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []models.Donation
	if err := r.DB(ctx).
		Where("donor_id = ?", donorID).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// TransitionStatus moves a donation from one status to the next. It reports
// false when the row is missing or no longer in the expected status.
func (r *Repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.DonationStatus) (bool, error) {
	return r.Transition(ctx, &models.Donation{}, map[string]any{"status": to}, "id = ? AND status = ?", id, from)
}
