package seed

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/foodbridge-backend/internal/donations"
	"github.com/angelmondragon/foodbridge-backend/internal/donors"
	"github.com/angelmondragon/foodbridge-backend/internal/pickups"
	"github.com/angelmondragon/foodbridge-backend/internal/testdb"
	"github.com/angelmondragon/foodbridge-backend/internal/zones"
	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/foodbridge-backend/pkg/errors"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestSeederRunPersistsThroughIntake(t *testing.T) {
	ctx := context.Background()
	conn := testdb.New(t)
	donationRepo := donations.NewRepository(conn)
	donorRepo := donors.NewRepository(conn)
	donorSvc, err := donors.NewService(donors.ServiceParams{Repo: donorRepo, Activity: donationRepo})
	require.NoError(t, err)
	intake, err := donations.NewService(donations.ServiceParams{
		Store:    donationRepo,
		Donors:   donorSvc,
		Zones:    zones.NewRepository(conn),
		Pickups:  pickups.NewRepository(conn),
		Distance: donations.FixedDistance(3),
		Clock:    func() time.Time { return fixedNow },
	})
	require.NoError(t, err)

	seeder, err := New(Params{Donors: donorRepo, Donations: intake, Seed: 42, Clock: func() time.Time { return fixedNow }})
	require.NoError(t, err)

	summary, err := seeder.Run(ctx, 3, 4)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Donors)
	assert.Equal(t, 12, summary.Accepted+summary.Rejected)
	assert.Equal(t, summary.Accepted, summary.Routed)

	var donationCount, pickupCount int64
	require.NoError(t, conn.Model(&models.Donation{}).Count(&donationCount).Error)
	require.NoError(t, conn.Model(&models.PickupRequest{}).Count(&pickupCount).Error)
	assert.Equal(t, int64(summary.Accepted), donationCount)
	assert.Equal(t, int64(summary.Routed), pickupCount)
}

func TestRandomDonationIsWellFormed(t *testing.T) {
	seeder, err := New(Params{Donors: stubDonors{}, Donations: stubIntake{}, Seed: 7, Clock: func() time.Time { return fixedNow }})
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		in := seeder.randomDonation()
		assert.True(t, in.QuantityKg.IsPositive())
		switch in.Category {
		case enums.FoodCategoryCooked:
			require.NotNil(t, in.CookingTime)
			assert.Nil(t, in.ExpiryDate)
		case enums.FoodCategoryRaw:
			require.NotNil(t, in.ExpiryDate)
			assert.Nil(t, in.CookingTime)
		default:
			t.Fatalf("unexpected category %q", in.Category)
		}
		assert.True(t, in.StorageCondition.IsValid())
	}
}

func TestSeederIsDeterministicForSeed(t *testing.T) {
	a, err := New(Params{Donors: stubDonors{}, Donations: stubIntake{}, Seed: 99, Clock: func() time.Time { return fixedNow }})
	require.NoError(t, err)
	b, err := New(Params{Donors: stubDonors{}, Donations: stubIntake{}, Seed: 99, Clock: func() time.Time { return fixedNow }})
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		x, y := a.randomDonation(), b.randomDonation()
		assert.Equal(t, x.FoodType, y.FoodType)
		assert.True(t, x.QuantityKg.Equal(y.QuantityKg))
	}
}

func TestUniqueEmail(t *testing.T) {
	got := uniqueEmail("Ms. Asha O'Neil", "1234abcd-ffff")
	assert.Equal(t, "ms.asha.oneil.1234abcd@donors.foodbridge.org", got)
	assert.True(t, strings.HasPrefix(uniqueEmail("", "x"), "donor.x@"))
}

func TestNewRequiresDependencies(t *testing.T) {
	_, err := New(Params{Donations: stubIntake{}})
	assert.Error(t, err)
	_, err = New(Params{Donors: stubDonors{}})
	assert.Error(t, err)
}

type stubDonors struct{}

func (stubDonors) Create(context.Context, *models.DonorProfile) error { return nil }

type conflictingDonors struct {
	calls    int
	failures int
}

func (c *conflictingDonors) Create(_ context.Context, p *models.DonorProfile) error {
	c.calls++
	if c.calls <= c.failures {
		return pkgerrors.New(pkgerrors.CodeConflict, "donor email already registered")
	}
	return nil
}

func TestCreateDonorRetriesEmailConflicts(t *testing.T) {
	store := &conflictingDonors{failures: 2}
	seeder, err := New(Params{Donors: store, Donations: stubIntake{}, Seed: 3})
	require.NoError(t, err)

	profile, err := seeder.createDonor(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, profile.Email)
	assert.Equal(t, 3, store.calls)

	store = &conflictingDonors{failures: maxDonorAttempts}
	seeder, err = New(Params{Donors: store, Donations: stubIntake{}, Seed: 3})
	require.NoError(t, err)
	_, err = seeder.createDonor(context.Background())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeConflict))
}

type stubIntake struct{}

func (stubIntake) Submit(context.Context, uuid.UUID, donations.SubmitInput) (*donations.SubmitResult, error) {
	return &donations.SubmitResult{}, nil
}
