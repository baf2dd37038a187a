package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
)

// HungerZone is seeded reference data describing an area in need.
type HungerZone struct {
	ID                uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	AreaName          string              `gorm:"column:area_name;not null"`
	Lat               float64             `gorm:"column:lat;not null"`
	Lng               float64             `gorm:"column:lng;not null"`
	HungerScore       int                 `gorm:"column:hunger_score;not null"`
	PriorityLevel     enums.PriorityLevel `gorm:"column:priority_level;not null"`
	Color             string              `gorm:"column:color;not null"`
	ChildrenPercent   float64             `gorm:"column:children_pct;not null"`
	ElderlyPercent    float64             `gorm:"column:elderly_pct;not null"`
	AvgHoursSinceMeal float64             `gorm:"column:avg_hours_since_meal;not null"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
}
