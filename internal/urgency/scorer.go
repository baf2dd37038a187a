// Package urgency orders pending pickups by combining zone need with spoilage risk.
package urgency

import (
	"time"

	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
)

const (
	// CookedHourWeight is the urgency added per hour since cooking.
	CookedHourWeight = 2.0
	// RawBaseline is the flat time factor for food without a cooking time.
	RawBaseline = 5.0
)

// Score returns hungerScore plus a time factor. The result has no upper bound:
// old cooked food keeps climbing the queue as its spoilage risk grows.
// A cooking time in the future counts as zero elapsed hours.
func Score(hungerScore int, cookingTime *time.Time, now time.Time) float64 {
	return float64(hungerScore) + timeFactor(cookingTime, now)
}

func timeFactor(cookingTime *time.Time, now time.Time) float64 {
	if cookingTime == nil {
		return RawBaseline
	}
	hours := now.Sub(*cookingTime).Hours()
	if hours < 0 {
		hours = 0
	}
	return hours * CookedHourWeight
}

// ScoreDonation scores a donation routed to zone.
func ScoreDonation(zone models.HungerZone, donation models.Donation, now time.Time) float64 {
	return Score(zone.HungerScore, donation.CookingTime, now)
}
