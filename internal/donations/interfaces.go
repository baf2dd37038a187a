package donations

import (
	"context"

	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type donationStore interface {
	Create(ctx context.Context, donation *models.Donation) error
}

type zoneLister interface {
	List(ctx context.Context) ([]models.HungerZone, error)
}

// DonorCreditor applies an accepted donation to the donor's counters.
type DonorCreditor interface {
	Credit(ctx context.Context, donorID uuid.UUID, quantityKg decimal.Decimal) (*models.DonorProfile, error)
}

// PickupCreator persists a new pickup request.
type PickupCreator interface {
	Create(ctx context.Context, pickup *models.PickupRequest) error
}
