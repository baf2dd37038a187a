package zones

import (
	"context"

	"github.com/angelmondragon/foodbridge-backend/internal/repo"
	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads hunger zone reference data.
type Repository struct {
	repo.Base
}

// NewRepository constructs a zone repository bound to the provided gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// List returns every zone, neediest first.
func (r *Repository) List(ctx context.Context) ([]models.HungerZone, error) {
	var zones []models.HungerZone
	if err := r.DB(ctx).
		Order("hunger_score DESC").
		Order("id ASC").
		Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}
