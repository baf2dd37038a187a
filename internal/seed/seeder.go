// Package seed fills a database with plausible demo donors and donations.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jaswdr/faker"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/foodbridge-backend/internal/donations"
	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodbridge-backend/pkg/errors"
	"github.com/angelmondragon/foodbridge-backend/pkg/logger"
)

var cookedDishes = []string{"Veg Biryani", "Dal Tadka", "Chole Rice", "Idli Sambar", "Pav Bhaji", "Khichdi", "Rajma Chawal"}

var rawIngredients = []string{"Rice", "Wheat Flour", "Lentils", "Potatoes", "Onions", "Bananas", "Milk"}

type donorStore interface {
	Create(ctx context.Context, profile *models.DonorProfile) error
}

type intake interface {
	Submit(ctx context.Context, donorID uuid.UUID, input donations.SubmitInput) (*donations.SubmitResult, error)
}

// Params configure a Seeder.
type Params struct {
	Donors    donorStore
	Donations intake
	Logger    *logger.Logger
	Seed      int64
	Clock     func() time.Time
}

// Summary reports what a run produced.
type Summary struct {
	Donors   int
	Accepted int
	Rejected int
	Routed   int
}

// Seeder generates demo data. Donations go through the real intake flow so
// counters, tiers and pickups stay consistent.
type Seeder struct {
	donors    donorStore
	donations intake
	logg      *logger.Logger
	fake      faker.Faker
	rnd       *rand.Rand
	now       func() time.Time
}

// New builds a seeder. A zero seed uses the clock.
func New(params Params) (*Seeder, error) {
	if params.Donors == nil {
		return nil, fmt.Errorf("donor store required")
	}
	if params.Donations == nil {
		return nil, fmt.Errorf("donation intake required")
	}
	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	clock := params.Clock
	if clock == nil {
		clock = func() time.Time { return time.Now().UTC() }
	}
	return &Seeder{
		donors:    params.Donors,
		donations: params.Donations,
		logg:      params.Logger,
		fake:      faker.NewWithSeed(rand.NewSource(seed)),
		rnd:       rand.New(rand.NewSource(seed)),
		now:       clock,
	}, nil
}

// Run creates donorCount donors and perDonor donations for each of them.
func (s *Seeder) Run(ctx context.Context, donorCount, perDonor int) (Summary, error) {
	var summary Summary
	for i := 0; i < donorCount; i++ {
		profile, err := s.createDonor(ctx)
		if err != nil {
			return summary, err
		}
		summary.Donors++

		for j := 0; j < perDonor; j++ {
			result, err := s.donations.Submit(ctx, profile.ID, s.randomDonation())
			if err != nil {
				return summary, fmt.Errorf("submit donation for %s: %w", profile.Email, err)
			}
			switch {
			case !result.Accepted:
				summary.Rejected++
			case result.Pickup != nil:
				summary.Accepted++
				summary.Routed++
			default:
				summary.Accepted++
			}
		}
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithFields(ctx, map[string]any{
			"donors":   summary.Donors,
			"accepted": summary.Accepted,
			"rejected": summary.Rejected,
			"routed":   summary.Routed,
		}), "seed.completed")
	}
	return summary, nil
}

const maxDonorAttempts = 3

func (s *Seeder) createDonor(ctx context.Context) (*models.DonorProfile, error) {
	name := s.fake.Person().Name()
	var lastErr error
	for attempt := 0; attempt < maxDonorAttempts; attempt++ {
		profile := &models.DonorProfile{
			Name:         name,
			Email:        uniqueEmail(name, s.fake.UUID().V4()),
			KilosDonated: decimal.Zero,
		}
		err := s.donors.Create(ctx, profile)
		if err == nil {
			return profile, nil
		}
		if !pkgerrors.HasCode(err, pkgerrors.CodeConflict) {
			return nil, fmt.Errorf("create donor %s: %w", profile.Email, err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("create donor %s: %w", name, lastErr)
}

// randomDonation mixes cooked and raw food; roughly one in five is unsafe so
// the rejection path is exercised too.
func (s *Seeder) randomDonation() donations.SubmitInput {
	now := s.now()
	qty := decimal.NewFromFloat(0.5 + s.rnd.Float64()*24.5).Round(1)
	unsafe := s.rnd.Intn(5) == 0

	if s.rnd.Intn(2) == 0 {
		hours := 1 + s.rnd.Intn(5)
		storage := []enums.StorageCondition{enums.StorageConditionHot, enums.StorageConditionRoomTemperature, enums.StorageConditionRefrigerated}[s.rnd.Intn(3)]
		if unsafe {
			hours = 7 + s.rnd.Intn(6)
			storage = enums.StorageConditionRoomTemperature
		}
		cooked := now.Add(-time.Duration(hours) * time.Hour)
		return donations.SubmitInput{
			FoodType:         cookedDishes[s.rnd.Intn(len(cookedDishes))],
			Category:         enums.FoodCategoryCooked,
			QuantityKg:       qty,
			CookingTime:      &cooked,
			StorageCondition: storage,
		}
	}

	days := 1 + s.rnd.Intn(30)
	if unsafe {
		days = -days
	}
	expiry := now.AddDate(0, 0, days)
	return donations.SubmitInput{
		FoodType:         rawIngredients[s.rnd.Intn(len(rawIngredients))],
		Category:         enums.FoodCategoryRaw,
		QuantityKg:       qty,
		ExpiryDate:       &expiry,
		StorageCondition: enums.StorageConditionRoomTemperature,
	}
}

func uniqueEmail(name, token string) string {
	local := strings.ToLower(strings.Join(strings.Fields(name), "."))
	local = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, local)
	if local == "" {
		local = "donor"
	}
	if len(token) > 8 {
		token = token[:8]
	}
	return fmt.Sprintf("%s.%s@donors.foodbridge.org", local, token)
}
