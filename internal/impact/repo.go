package impact

import (
	"context"
	"time"

	"github.com/angelmondragon/foodbridge-backend/internal/repo"
	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository persists the impact singleton.
type Repository struct {
	repo.Base
}

// NewRepository constructs an impact repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return NewRepository(tx)
}

// Get loads the singleton row.
func (r *Repository) Get(ctx context.Context) (*models.ImpactStats, error) {
	var stats models.ImpactStats
	if err := r.DB(ctx).Where("id = ?", models.ImpactStatsID).First(&stats).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}

// Ensure inserts the singleton with the seed counters unless it already exists.
func (r *Repository) Ensure(ctx context.Context, seed models.ImpactStats) error {
	seed.ID = models.ImpactStatsID
	seed.UpdatedAt = time.Now().UTC()
	return r.DB(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&seed).Error
}

// Increment adds to the served-meals and hunger-reduction counters.
func (r *Repository) Increment(ctx context.Context, meals, hunger int64) (bool, error) {
	rows, err := r.Base.Increment(ctx, &models.ImpactStats{}, map[string]any{
		"total_meals_served":     meals,
		"hunger_reduction_score": hunger,
	}, "id = ?", models.ImpactStatsID)
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

// SetActiveZones overwrites the assisted-zone counter.
func (r *Repository) SetActiveZones(ctx context.Context, count int64) error {
	return r.DB(ctx).
		Model(&models.ImpactStats{}).
		Where("id = ?", models.ImpactStatsID).
		Updates(map[string]any{
			"active_zones_assisted": count,
			"updated_at":            time.Now().UTC(),
		}).Error
}

// CountAssistedZones counts distinct zones with at least one accepted or completed pickup.
func (r *Repository) CountAssistedZones(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.PickupRequest{}).
		Where("status IN ?", []enums.PickupStatus{enums.PickupStatusAccepted, enums.PickupStatusCompleted}).
		Distinct("zone_id").
		Count(&count).Error
	return count, err
}
