package zones

import (
	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
	"github.com/google/uuid"
)

// ZoneDTO is the public shape of a hunger zone.
type ZoneDTO struct {
	ID            uuid.UUID           `json:"id"`
	AreaName      string              `json:"area_name"`
	Coordinates   CoordinatesDTO      `json:"coordinates"`
	HungerScore   int                 `json:"hunger_score"`
	PriorityLevel enums.PriorityLevel `json:"priority_level"`
	Color         string              `json:"color"`
	Details       DemographicsDTO     `json:"details"`
}

type CoordinatesDTO struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type DemographicsDTO struct {
	ChildrenPercent   float64 `json:"children_pct"`
	ElderlyPercent    float64 `json:"elderly_pct"`
	AvgHoursSinceMeal float64 `json:"avg_hours_since_meal"`
}

// ToDTO maps a zone model to its public representation.
func ToDTO(zone models.HungerZone) ZoneDTO {
	return ZoneDTO{
		ID:       zone.ID,
		AreaName: zone.AreaName,
		Coordinates: CoordinatesDTO{
			Lat: zone.Lat,
			Lng: zone.Lng,
		},
		HungerScore:   zone.HungerScore,
		PriorityLevel: zone.PriorityLevel,
		Color:         zone.Color,
		Details: DemographicsDTO{
			ChildrenPercent:   zone.ChildrenPercent,
			ElderlyPercent:    zone.ElderlyPercent,
			AvgHoursSinceMeal: zone.AvgHoursSinceMeal,
		},
	}
}
