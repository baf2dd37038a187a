package donors

import (
	"testing"

	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

func TestComputeTierBands(t *testing.T) {
	cases := []struct {
		meals       int64
		tier        string
		next        string
		progress    int
		mealsToNext int64
	}{
		{meals: 0, tier: TierBronze, next: TierSilver, progress: 0, mealsToNext: 100},
		{meals: 20, tier: TierBronze, next: TierSilver, progress: 20, mealsToNext: 80},
		{meals: 99, tier: TierBronze, next: TierSilver, progress: 99, mealsToNext: 1},
		{meals: 100, tier: TierSilver, next: TierGold, progress: 20, mealsToNext: 400},
		{meals: 499, tier: TierSilver, next: TierGold, progress: 99, mealsToNext: 1},
		{meals: 500, tier: TierGold, next: TierPlatinum, progress: 50, mealsToNext: 500},
		{meals: 999, tier: TierGold, next: TierPlatinum, progress: 99, mealsToNext: 1},
		{meals: 1000, tier: TierPlatinum, next: TierMax, progress: 100, mealsToNext: 0},
		{meals: 25000, tier: TierPlatinum, next: TierMax, progress: 100, mealsToNext: 0},
	}
	for _, tc := range cases {
		got := ComputeTier(tc.meals)
		if got.Tier != tc.tier || got.NextTier != tc.next || got.Progress != tc.progress || got.MealsToNext != tc.mealsToNext {
			t.Fatalf("meals=%d: unexpected %+v", tc.meals, got)
		}
	}
}

func TestComputeTierProperties(t *testing.T) {
	rank := map[string]int{TierBronze: 0, TierSilver: 1, TierGold: 2, TierPlatinum: 3}
	prevRank := -1
	for meals := int64(0); meals <= 3000; meals++ {
		got := ComputeTier(meals)
		if r := rank[got.Tier]; r < prevRank {
			t.Fatalf("tier decreased at %d meals", meals)
		} else {
			prevRank = r
		}
		if got.Progress < 0 || got.Progress > 100 {
			t.Fatalf("progress out of range at %d: %d", meals, got.Progress)
		}
		if got.MealsToNext < 0 {
			t.Fatalf("negative mealsToNext at %d", meals)
		}
		if (got.MealsToNext == 0) != (meals >= got.Threshold) {
			t.Fatalf("mealsToNext=0 must coincide with reaching the threshold at %d: %+v", meals, got)
		}
	}
}

func TestContributionForFiveKilos(t *testing.T) {
	c := ContributionFor(decimal.NewFromInt(5))
	if c.Meals != 20 || c.CO2 != 12 || c.Points != 50 {
		t.Fatalf("unexpected contribution %+v", c)
	}
}

func TestContributionForFloorsFractions(t *testing.T) {
	c := ContributionFor(decimal.RequireFromString("0.3"))
	if c.Meals != 1 || c.CO2 != 0 || c.Points != 3 {
		t.Fatalf("unexpected contribution %+v", c)
	}
}

func TestApplyDonationAccumulatesAndResyncsTier(t *testing.T) {
	profile := models.DonorProfile{
		KilosDonated: decimal.NewFromInt(20),
		TotalMeals:   90,
		CO2Saved:     50,
		Points:       200,
		Tier:         TierBronze,
	}
	got := ApplyDonation(profile, decimal.NewFromInt(5))

	if !got.KilosDonated.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("unexpected kilos %s", got.KilosDonated)
	}
	if got.TotalMeals != 110 || got.CO2Saved != 62 || got.Points != 250 {
		t.Fatalf("unexpected counters %+v", got)
	}
	if got.Tier != TierSilver {
		t.Fatalf("expected tier to move to silver, got %q", got.Tier)
	}
	if profile.TotalMeals != 90 {
		t.Fatal("input profile must not be mutated")
	}
}
