package impact

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/foodbridge-backend/pkg/config"
	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/foodbridge-backend/pkg/errors"
	"gorm.io/gorm"
)

// Settings holds the seed counters and per-pickup increments.
type Settings struct {
	Seed            models.ImpactStats
	MealsPerPickup  int64
	HungerPerPickup int64
}

// SettingsFromConfig maps the impact config section.
func SettingsFromConfig(cfg config.ImpactConfig) Settings {
	return Settings{
		Seed: models.ImpactStats{
			TotalMealsServed:     int64(cfg.SeedMealsServed),
			HungerReductionScore: int64(cfg.SeedHungerReduction),
			ActiveZonesAssisted:  int64(cfg.SeedZonesAssisted),
		},
		MealsPerPickup:  int64(cfg.MealsPerPickup),
		HungerPerPickup: int64(cfg.HungerPerPickup),
	}
}

// DefaultSettings carries the default per-pickup increments with a zero seed.
// Production builds its settings with SettingsFromConfig.
func DefaultSettings() Settings {
	return Settings{MealsPerPickup: 50, HungerPerPickup: 2}
}

// RecordPickup credits one accepted pickup, creating the singleton first when absent.
// Callers run it inside the accepting transaction.
func RecordPickup(ctx context.Context, repo *Repository, settings Settings) error {
	ok, err := repo.Increment(ctx, settings.MealsPerPickup, settings.HungerPerPickup)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if err := repo.Ensure(ctx, settings.Seed); err != nil {
		return err
	}
	_, err = repo.Increment(ctx, settings.MealsPerPickup, settings.HungerPerPickup)
	return err
}

// StatsDTO is the public view of the impact counters.
type StatsDTO struct {
	TotalMealsServed     int64     `json:"total_meals_served"`
	HungerReductionScore int64     `json:"hunger_reduction_score"`
	ActiveZonesAssisted  int64     `json:"active_zones_assisted"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// Service exposes the system-wide impact counters.
type Service interface {
	Get(ctx context.Context) (*StatsDTO, error)
	Reconcile(ctx context.Context) (int64, error)
}

type service struct {
	repo     *Repository
	settings Settings
}

// NewService builds an impact service.
func NewService(repo *Repository, settings Settings) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "impact repo is required")
	}
	return &service{repo: repo, settings: settings}, nil
}

// Get returns the counters, creating the row from the seed on first read.
func (s *service) Get(ctx context.Context) (*StatsDTO, error) {
	stats, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return &StatsDTO{
		TotalMealsServed:     stats.TotalMealsServed,
		HungerReductionScore: stats.HungerReductionScore,
		ActiveZonesAssisted:  stats.ActiveZonesAssisted,
		UpdatedAt:            stats.UpdatedAt,
	}, nil
}

// Reconcile recomputes the number of zones that received at least one pickup.
func (s *service) Reconcile(ctx context.Context) (int64, error) {
	if _, err := s.load(ctx); err != nil {
		return 0, err
	}
	count, err := s.repo.CountAssistedZones(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count assisted zones")
	}
	if err := s.repo.SetActiveZones(ctx, count); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update active zones")
	}
	return count, nil
}

func (s *service) load(ctx context.Context) (*models.ImpactStats, error) {
	stats, err := s.repo.Get(ctx)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load impact stats")
	}
	if err := s.repo.Ensure(ctx, s.settings.Seed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed impact stats")
	}
	stats, err = s.repo.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load impact stats")
	}
	return stats, nil
}
