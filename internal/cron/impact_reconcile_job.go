package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/foodbridge-backend/pkg/logger"
)

type impactReconciler interface {
	Reconcile(ctx context.Context) (int64, error)
}

// ImpactReconcileJobParams configure the impact reconciliation job.
type ImpactReconcileJobParams struct {
	Logger *logger.Logger
	Impact impactReconciler
}

// NewImpactReconcileJob builds the job that recomputes the assisted-zone counter.
func NewImpactReconcileJob(params ImpactReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Impact == nil {
		return nil, fmt.Errorf("impact service required")
	}
	return &impactReconcileJob{logg: params.Logger, impact: params.Impact}, nil
}

type impactReconcileJob struct {
	logg   *logger.Logger
	impact impactReconciler
}

func (j *impactReconcileJob) Name() string { return "impact_reconcile" }

func (j *impactReconcileJob) Run(ctx context.Context) error {
	zones, err := j.impact.Reconcile(ctx)
	if err != nil {
		return fmt.Errorf("reconcile impact: %w", err)
	}
	j.logg.Info(j.logg.WithField(ctx, "active_zones_assisted", zones), "impact reconcile complete")
	return nil
}
