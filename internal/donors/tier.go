package donors

import (
	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

const (
	TierBronze   = "Bronze Donor"
	TierSilver   = "Silver Donor"
	TierGold     = "Gold Donor"
	TierPlatinum = "Platinum Donor"
	TierMax      = "Max Level"
)

var (
	mealsPerKg  = decimal.NewFromInt(4)
	co2PerKg    = decimal.NewFromFloat(2.5)
	pointsPerKg = decimal.NewFromInt(10)
)

// tierBands are ordered from the highest floor down.
var tierBands = []struct {
	floor     int64
	name      string
	next      string
	threshold int64
}{
	{floor: 1000, name: TierPlatinum, next: TierMax, threshold: 1000},
	{floor: 500, name: TierGold, next: TierPlatinum, threshold: 1000},
	{floor: 100, name: TierSilver, next: TierGold, threshold: 500},
	{floor: 0, name: TierBronze, next: TierSilver, threshold: 100},
}

// TierProgress is the meals-based tier standing of a donor.
type TierProgress struct {
	Tier        string `json:"tier"`
	NextTier    string `json:"next_tier"`
	Threshold   int64  `json:"threshold"`
	Progress    int    `json:"progress"`
	MealsToNext int64  `json:"meals_to_next"`
}

// ComputeTier derives the tier from total meals. It is the only tier function;
// the label stored on a profile is a cache of its Tier field.
func ComputeTier(totalMeals int64) TierProgress {
	if totalMeals < 0 {
		totalMeals = 0
	}
	band := tierBands[len(tierBands)-1]
	for _, candidate := range tierBands {
		if totalMeals >= candidate.floor {
			band = candidate
			break
		}
	}

	progress := totalMeals * 100 / band.threshold
	if progress > 100 {
		progress = 100
	}
	mealsToNext := band.threshold - totalMeals
	if mealsToNext < 0 {
		mealsToNext = 0
	}

	return TierProgress{
		Tier:        band.name,
		NextTier:    band.next,
		Threshold:   band.threshold,
		Progress:    int(progress),
		MealsToNext: mealsToNext,
	}
}

// Contribution is what one donation adds to a donor's counters.
type Contribution struct {
	Kilos  decimal.Decimal
	Meals  int64
	CO2    int64
	Points int64
}

// ContributionFor converts a donated quantity in kilograms into counter increments.
// 250g is roughly one meal; 2.5kg CO2e is avoided per kg of food rescued.
func ContributionFor(quantityKg decimal.Decimal) Contribution {
	return Contribution{
		Kilos:  quantityKg,
		Meals:  quantityKg.Mul(mealsPerKg).Floor().IntPart(),
		CO2:    quantityKg.Mul(co2PerKg).Floor().IntPart(),
		Points: quantityKg.Mul(pointsPerKg).Floor().IntPart(),
	}
}

// ApplyDonation returns profile with the donation's contribution added and the
// cached tier label recomputed. It is the in-memory form of Service.Credit, which
// applies the same ContributionFor deltas as atomic column increments and then
// resyncs the tier; the two must agree.
func ApplyDonation(profile models.DonorProfile, quantityKg decimal.Decimal) models.DonorProfile {
	c := ContributionFor(quantityKg)
	profile.KilosDonated = profile.KilosDonated.Add(c.Kilos)
	profile.TotalMeals += c.Meals
	profile.CO2Saved += c.CO2
	profile.Points += c.Points
	profile.Tier = ComputeTier(profile.TotalMeals).Tier
	return profile
}
