package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DonorProfile carries a donor's cumulative impact counters.
// Tier is a cached label derived from TotalMeals.
type DonorProfile struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Name         string          `gorm:"column:name;not null"`
	Email        string          `gorm:"column:email;not null;uniqueIndex:donor_profiles_email_key"`
	KilosDonated decimal.Decimal `gorm:"column:kilos_donated;type:numeric(14,3);not null"`
	TotalMeals   int64           `gorm:"column:total_meals;not null"`
	CO2Saved     int64           `gorm:"column:co2_saved;not null"`
	Points       int64           `gorm:"column:points;not null"`
	Tier         string          `gorm:"column:tier;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
