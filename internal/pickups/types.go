package pickups

import (
	"time"

	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultQueueLimit bounds the pending queue listing.
const DefaultQueueLimit = 100

// PickupDTO is the public view of a pickup request.
type PickupDTO struct {
	ID           uuid.UUID          `json:"id"`
	DonationID   uuid.UUID          `json:"donation_id"`
	ZoneID       uuid.UUID          `json:"zone_id"`
	UrgencyScore float64            `json:"urgency_score"`
	DistanceKm   int                `json:"distance_km"`
	Status       enums.PickupStatus `json:"status"`
	AssignedNGO  *string            `json:"assigned_ngo,omitempty"`
	AcceptedAt   *time.Time         `json:"accepted_at,omitempty"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// QueueDonationDTO summarizes the donation behind a queued pickup.
type QueueDonationDTO struct {
	ID               uuid.UUID              `json:"id"`
	FoodType         string                 `json:"food_type"`
	Category         enums.FoodCategory     `json:"category"`
	QuantityKg       decimal.Decimal        `json:"quantity_kg"`
	CookingTime      *time.Time             `json:"cooking_time,omitempty"`
	ExpiryDate       *time.Time             `json:"expiry_date,omitempty"`
	StorageCondition enums.StorageCondition `json:"storage_condition"`
}

// QueueZoneDTO summarizes the destination zone of a queued pickup.
type QueueZoneDTO struct {
	ID            uuid.UUID           `json:"id"`
	AreaName      string              `json:"area_name"`
	HungerScore   int                 `json:"hunger_score"`
	PriorityLevel enums.PriorityLevel `json:"priority_level"`
	Lat           float64             `json:"lat"`
	Lng           float64             `json:"lng"`
}

// QueueEntryDTO is one pending pickup as shown to NGOs.
type QueueEntryDTO struct {
	ID           uuid.UUID          `json:"id"`
	UrgencyScore float64            `json:"urgency_score"`
	DistanceKm   int                `json:"distance_km"`
	Status       enums.PickupStatus `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	Donation     QueueDonationDTO   `json:"donation"`
	Zone         QueueZoneDTO       `json:"zone"`
}

// ToPickupDTO maps a pickup model.
func ToPickupDTO(p models.PickupRequest) PickupDTO {
	return PickupDTO{
		ID:           p.ID,
		DonationID:   p.DonationID,
		ZoneID:       p.ZoneID,
		UrgencyScore: p.UrgencyScore,
		DistanceKm:   p.DistanceKm,
		Status:       p.Status,
		AssignedNGO:  p.AssignedNGO,
		AcceptedAt:   p.AcceptedAt,
		CompletedAt:  p.CompletedAt,
		CreatedAt:    p.CreatedAt,
	}
}

func toQueueEntry(row QueueRow) QueueEntryDTO {
	return QueueEntryDTO{
		ID:           row.ID,
		UrgencyScore: row.UrgencyScore,
		DistanceKm:   row.DistanceKm,
		Status:       row.Status,
		CreatedAt:    row.CreatedAt,
		Donation: QueueDonationDTO{
			ID:               row.DonationID,
			FoodType:         row.FoodType,
			Category:         row.Category,
			QuantityKg:       row.QuantityKg,
			CookingTime:      row.CookingTime,
			ExpiryDate:       row.ExpiryDate,
			StorageCondition: row.StorageCondition,
		},
		Zone: QueueZoneDTO{
			ID:            row.ZoneID,
			AreaName:      row.AreaName,
			HungerScore:   row.HungerScore,
			PriorityLevel: row.PriorityLevel,
			Lat:           row.Lat,
			Lng:           row.Lng,
		},
	}
}
