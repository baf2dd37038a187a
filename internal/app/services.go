// Package app assembles the domain services shared by the binaries.
package app

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/foodbridge-backend/internal/donations"
	"github.com/angelmondragon/foodbridge-backend/internal/donors"
	"github.com/angelmondragon/foodbridge-backend/internal/impact"
	"github.com/angelmondragon/foodbridge-backend/internal/pickups"
	"github.com/angelmondragon/foodbridge-backend/internal/zones"
	"github.com/angelmondragon/foodbridge-backend/pkg/config"
	"github.com/angelmondragon/foodbridge-backend/pkg/db"
	"github.com/angelmondragon/foodbridge-backend/pkg/logger"
	"github.com/angelmondragon/foodbridge-backend/pkg/metrics"
)

// Services holds every domain service built over one database client.
type Services struct {
	Donations donations.Service
	Donors    donors.Service
	Zones     zones.Service
	Pickups   pickups.Service
	Impact    impact.Service

	IntakeMetrics *metrics.IntakeMetrics
}

// BuildServices wires repositories and services. A nil registerer disables
// intake metrics.
func BuildServices(cfg *config.Config, logg *logger.Logger, client *db.Client, reg prometheus.Registerer) (*Services, error) {
	if cfg == nil || client == nil {
		return nil, fmt.Errorf("config and db client required")
	}
	conn := client.DB()

	donationRepo := donations.NewRepository(conn)
	donorRepo := donors.NewRepository(conn)
	zoneRepo := zones.NewRepository(conn)
	pickupRepo := pickups.NewRepository(conn)
	impactRepo := impact.NewRepository(conn)
	settings := impact.SettingsFromConfig(cfg.Impact)

	var intakeMetrics *metrics.IntakeMetrics
	if reg != nil {
		intakeMetrics = metrics.NewIntakeMetrics(reg)
	}

	donorSvc, err := donors.NewService(donors.ServiceParams{
		Repo:     donorRepo,
		Activity: donationRepo,
		Logger:   logg,
	})
	if err != nil {
		return nil, fmt.Errorf("donor service: %w", err)
	}

	distance, err := donations.NewRandomDistance(cfg.Intake.MinDistanceKm, cfg.Intake.MaxDistanceKm, cfg.Intake.DistanceSeed)
	if err != nil {
		return nil, fmt.Errorf("distance provider: %w", err)
	}

	donationSvc, err := donations.NewService(donations.ServiceParams{
		Store:    donationRepo,
		Donors:   donorSvc,
		Zones:    zoneRepo,
		Pickups:  pickupRepo,
		Strategy: zones.NewPriorityStrategy(),
		Distance: distance,
		Metrics:  intakeMetrics,
		Logger:   logg,
	})
	if err != nil {
		return nil, fmt.Errorf("donation service: %w", err)
	}

	zoneSvc, err := zones.NewService(zoneRepo)
	if err != nil {
		return nil, fmt.Errorf("zone service: %w", err)
	}

	pickupSvc, err := pickups.NewService(pickups.ServiceParams{
		Tx:             client,
		Repo:           pickupRepo,
		Donations:      donationRepo,
		Impact:         impactRepo,
		ImpactSettings: settings,
		Metrics:        intakeMetrics,
		Logger:         logg,
	})
	if err != nil {
		return nil, fmt.Errorf("pickup service: %w", err)
	}

	impactSvc, err := impact.NewService(impactRepo, settings)
	if err != nil {
		return nil, fmt.Errorf("impact service: %w", err)
	}

	return &Services{
		Donations:     donationSvc,
		Donors:        donorSvc,
		Zones:         zoneSvc,
		Pickups:       pickupSvc,
		Impact:        impactSvc,
		IntakeMetrics: intakeMetrics,
	}, nil
}
