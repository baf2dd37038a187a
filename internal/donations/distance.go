package donations

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
)

// DistanceProvider estimates the travel distance between a donation and a zone.
type DistanceProvider interface {
	DistanceKm(ctx context.Context, donation models.Donation, zone models.HungerZone) (int, error)
}

// RandomDistance draws a distance uniformly from [min, max] kilometres. It stands in
// for a routing service until donations carry a pickup location.
type RandomDistance struct {
	min, max int

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewRandomDistance builds a provider over [minKm, maxKm]. A zero seed uses the clock.
func NewRandomDistance(minKm, maxKm int, seed int64) (*RandomDistance, error) {
	if minKm <= 0 || maxKm < minKm {
		return nil, fmt.Errorf("invalid distance bounds [%d, %d]", minKm, maxKm)
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &RandomDistance{
		min: minKm,
		max: maxKm,
		rnd: rand.New(rand.NewSource(seed)),
	}, nil
}

// DistanceKm implements DistanceProvider.
func (d *RandomDistance) DistanceKm(ctx context.Context, _ models.Donation, _ models.HungerZone) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.min + d.rnd.Intn(d.max-d.min+1), nil
}

// FixedDistance always answers the same distance.
type FixedDistance int

// DistanceKm implements DistanceProvider.
func (f FixedDistance) DistanceKm(context.Context, models.Donation, models.HungerZone) (int, error) {
	return int(f), nil
}
