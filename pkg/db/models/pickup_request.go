package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
)

// PickupRequest routes one accepted donation to a hunger zone.
type PickupRequest struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	DonationID   uuid.UUID          `gorm:"column:donation_id;type:uuid;not null;uniqueIndex:pickup_requests_donation_key"`
	ZoneID       uuid.UUID          `gorm:"column:zone_id;type:uuid;not null"`
	UrgencyScore float64            `gorm:"column:urgency_score;not null"`
	DistanceKm   int                `gorm:"column:distance_km;not null"`
	Status       enums.PickupStatus `gorm:"column:status;not null;index:pickup_requests_status_urgency_idx"`
	AssignedNGO  *string            `gorm:"column:assigned_ngo"`
	AcceptedAt   *time.Time         `gorm:"column:accepted_at"`
	CompletedAt  *time.Time         `gorm:"column:completed_at"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
