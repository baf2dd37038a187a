package donors

import (
	"fmt"
	"time"

	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecentActivityLimit caps the donations listed on the dashboard.
const RecentActivityLimit = 10

// ProfileDTO is the public view of a donor profile.
type ProfileDTO struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	KilosDonated decimal.Decimal `json:"kilos_donated"`
	TotalMeals   int64           `json:"total_meals"`
	CO2Saved     int64           `json:"co2_saved"`
	Points       int64           `json:"points"`
	Tier         string          `json:"tier"`
}

// ActivityDTO is one recent donation with a humanized timestamp.
type ActivityDTO struct {
	DonationID uuid.UUID            `json:"donation_id"`
	Type       string               `json:"type"`
	Summary    string               `json:"summary"`
	FoodType   string               `json:"food_type"`
	Category   enums.FoodCategory   `json:"category"`
	QuantityKg decimal.Decimal      `json:"quantity_kg"`
	Status     enums.DonationStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
	TimeAgo    string               `json:"time_ago"`
}

// DashboardDTO bundles everything the donor dashboard renders.
type DashboardDTO struct {
	Profile        ProfileDTO    `json:"profile"`
	Tier           TierProgress  `json:"tier"`
	RecentActivity []ActivityDTO `json:"recent_activity"`
}

func toProfileDTO(p models.DonorProfile) ProfileDTO {
	return ProfileDTO{
		ID:           p.ID,
		Name:         p.Name,
		Email:        p.Email,
		KilosDonated: p.KilosDonated.Round(3),
		TotalMeals:   p.TotalMeals,
		CO2Saved:     p.CO2Saved,
		Points:       p.Points,
		Tier:         p.Tier,
	}
}

func toActivityDTO(d models.Donation, now time.Time) ActivityDTO {
	return ActivityDTO{
		DonationID: d.ID,
		Type:       activityType(d.Category),
		Summary:    fmt.Sprintf("%skg (%s)", d.QuantityKg.String(), d.FoodType),
		FoodType:   d.FoodType,
		Category:   d.Category,
		QuantityKg: d.QuantityKg,
		Status:     d.Status,
		CreatedAt:  d.CreatedAt,
		TimeAgo:    TimeAgo(d.CreatedAt, now),
	}
}

func activityType(category enums.FoodCategory) string {
	if category == enums.FoodCategoryCooked {
		return "Cooked Meal"
	}
	return "Raw Ingredients"
}
