package donors

import (
	"context"

	"github.com/angelmondragon/foodbridge-backend/internal/repo"
	"github.com/angelmondragon/foodbridge-backend/pkg/db"
	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/foodbridge-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository encapsulates donor profile persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a donor repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// Create inserts a new profile, assigning an id when missing.
func (r *Repository) Create(ctx context.Context, profile *models.DonorProfile) error {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	if profile.Tier == "" {
		profile.Tier = ComputeTier(profile.TotalMeals).Tier
	}
	if err := r.DB(ctx).Create(profile).Error; err != nil {
		if db.IsUniqueViolation(err, "donor_profiles_email_key") || db.IsUniqueViolation(err, "donor_profiles.email") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "donor email already registered").
				WithDetails(map[string]any{"email": profile.Email})
		}
		return err
	}
	return nil
}

// FindByID loads a donor profile.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DonorProfile, error) {
	var profile models.DonorProfile
	if err := r.DB(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByEmail loads a donor profile by its unique email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.DonorProfile, error) {
	var profile models.DonorProfile
	if err := r.DB(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Credit adds a contribution with column-relative increments so concurrent
// donations for the same donor never lose updates. Returns the fresh row.
func (r *Repository) Credit(ctx context.Context, id uuid.UUID, c Contribution) (*models.DonorProfile, error) {
	rows, err := r.Increment(ctx, &models.DonorProfile{}, map[string]any{
		"kilos_donated": c.Kilos,
		"total_meals":   c.Meals,
		"co2_saved":     c.CO2,
		"points":        c.Points,
	}, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

// SyncTier overwrites the cached tier label computed from totalMeals. The write
// only lands while the row still holds that meal count, so a stale writer cannot
// clobber a label derived from newer counters.
func (r *Repository) SyncTier(ctx context.Context, id uuid.UUID, totalMeals int64, tier string) (bool, error) {
	res := r.DB(ctx).
		Model(&models.DonorProfile{}).
		Where("id = ? AND total_meals = ? AND tier <> ?", id, totalMeals, tier).
		Update("tier", tier)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListAll pages through profiles in id order using afterID as a keyset cursor.
func (r *Repository) ListAll(ctx context.Context, afterID uuid.UUID, limit int) ([]models.DonorProfile, error) {
	var profiles []models.DonorProfile
	q := r.DB(ctx).Order("id ASC").Limit(limit)
	if afterID != uuid.Nil {
		q = q.Where("id > ?", afterID)
	}
	if err := q.Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
