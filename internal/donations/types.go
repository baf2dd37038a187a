package donations

import (
	"time"

	"github.com/angelmondragon/foodbridge-backend/internal/donors"
	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubmitInput carries one donation submission.
type SubmitInput struct {
	FoodType         string
	Category         enums.FoodCategory
	QuantityKg       decimal.Decimal
	CookingTime      *time.Time
	ExpiryDate       *time.Time
	StorageCondition enums.StorageCondition
}

// SubmitResult is the outcome of an intake attempt. A rejected donation is a
// normal result, not an error; nothing is persisted for it.
type SubmitResult struct {
	Accepted bool
	Reason   string

	Donation *models.Donation
	Donor    *models.DonorProfile
	Tier     donors.TierProgress
	Zone     *models.HungerZone
	Pickup   *models.PickupRequest
}

// DonationDTO is the public view of a donation.
type DonationDTO struct {
	ID               uuid.UUID              `json:"id"`
	DonorID          uuid.UUID              `json:"donor_id"`
	FoodType         string                 `json:"food_type"`
	Category         enums.FoodCategory     `json:"category"`
	QuantityKg       decimal.Decimal        `json:"quantity_kg"`
	CookingTime      *time.Time             `json:"cooking_time,omitempty"`
	ExpiryDate       *time.Time             `json:"expiry_date,omitempty"`
	StorageCondition enums.StorageCondition `json:"storage_condition"`
	Status           enums.DonationStatus   `json:"status"`
	CreatedAt        time.Time              `json:"created_at"`
}

// PickupSummaryDTO describes the pickup request created for a donation.
type PickupSummaryDTO struct {
	ID           uuid.UUID          `json:"id"`
	ZoneID       uuid.UUID          `json:"zone_id"`
	ZoneName     string             `json:"zone_name"`
	UrgencyScore float64            `json:"urgency_score"`
	DistanceKm   int                `json:"distance_km"`
	Status       enums.PickupStatus `json:"status"`
}

// SubmitResponseDTO is returned for an accepted donation.
type SubmitResponseDTO struct {
	Donation DonationDTO         `json:"donation"`
	Pickup   *PickupSummaryDTO   `json:"pickup"`
	Tier     donors.TierProgress `json:"donor_tier"`
}

// ToDonationDTO maps a donation model.
func ToDonationDTO(d models.Donation) DonationDTO {
	return DonationDTO{
		ID:               d.ID,
		DonorID:          d.DonorID,
		FoodType:         d.FoodType,
		Category:         d.Category,
		QuantityKg:       d.QuantityKg,
		CookingTime:      d.CookingTime,
		ExpiryDate:       d.ExpiryDate,
		StorageCondition: d.StorageCondition,
		Status:           d.Status,
		CreatedAt:        d.CreatedAt,
	}
}

// ToResponseDTO maps an accepted result. It returns nil for a rejection.
func (r SubmitResult) ToResponseDTO() *SubmitResponseDTO {
	if !r.Accepted || r.Donation == nil {
		return nil
	}
	out := &SubmitResponseDTO{
		Donation: ToDonationDTO(*r.Donation),
		Tier:     r.Tier,
	}
	if r.Pickup != nil {
		summary := &PickupSummaryDTO{
			ID:           r.Pickup.ID,
			ZoneID:       r.Pickup.ZoneID,
			UrgencyScore: r.Pickup.UrgencyScore,
			DistanceKm:   r.Pickup.DistanceKm,
			Status:       r.Pickup.Status,
		}
		if r.Zone != nil {
			summary.ZoneName = r.Zone.AreaName
		}
		out.Pickup = summary
	}
	return out
}
