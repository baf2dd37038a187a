package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/foodbridge-backend/pkg/logger"
)

type tierResyncer interface {
	ResyncTiers(ctx context.Context) (int, error)
}

// DonorTierResyncJobParams configure the donor tier resync job.
type DonorTierResyncJobParams struct {
	Logger *logger.Logger
	Donors tierResyncer
}

// NewDonorTierResyncJob builds the job that rewrites stale cached tier labels.
func NewDonorTierResyncJob(params DonorTierResyncJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Donors == nil {
		return nil, fmt.Errorf("donor service required")
	}
	return &donorTierResyncJob{logg: params.Logger, donors: params.Donors}, nil
}

type donorTierResyncJob struct {
	logg   *logger.Logger
	donors tierResyncer
}

func (j *donorTierResyncJob) Name() string { return "donor_tier_resync" }

func (j *donorTierResyncJob) Run(ctx context.Context) error {
	updated, err := j.donors.ResyncTiers(ctx)
	if err != nil {
		return fmt.Errorf("resync donor tiers (updated %d before failure): %w", updated, err)
	}
	j.logg.Info(j.logg.WithField(ctx, "profiles_updated", updated), "donor tier resync complete")
	return nil
}
