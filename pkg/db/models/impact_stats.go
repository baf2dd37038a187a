package models

import "time"

// ImpactStatsID is the primary key of the singleton impact row.
const ImpactStatsID = 1

// ImpactStats aggregates system-wide outcomes.
type ImpactStats struct {
	ID                   int       `gorm:"column:id;primaryKey"`
	TotalMealsServed     int64     `gorm:"column:total_meals_served;not null"`
	HungerReductionScore int64     `gorm:"column:hunger_reduction_score;not null"`
	ActiveZonesAssisted  int64     `gorm:"column:active_zones_assisted;not null"`
	UpdatedAt            time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ImpactStats) TableName() string {
	return "impact_stats"
}
