package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
)

// Donation is a screened surplus-food submission.
type Donation struct {
	ID               uuid.UUID              `gorm:"column:id;type:uuid;primaryKey"`
	DonorID          uuid.UUID              `gorm:"column:donor_id;type:uuid;not null;index:donations_donor_created_idx"`
	FoodType         string                 `gorm:"column:food_type;not null"`
	Category         enums.FoodCategory     `gorm:"column:category;not null"`
	QuantityKg       decimal.Decimal        `gorm:"column:quantity_kg;type:numeric(12,3);not null"`
	CookingTime      *time.Time             `gorm:"column:cooking_time"`
	ExpiryDate       *time.Time             `gorm:"column:expiry_date"`
	StorageCondition enums.StorageCondition `gorm:"column:storage_condition;not null"`
	Status           enums.DonationStatus   `gorm:"column:status;not null"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime;index:donations_donor_created_idx"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
