package zones

import (
	"sort"

	"github.com/angelmondragon/foodbridge-backend/pkg/db/models"
	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
)

// SelectionStrategy picks the zone a new donation is routed to.
type SelectionStrategy interface {
	Select(zones []models.HungerZone) (*models.HungerZone, bool)
}

// PriorityStrategy prefers High priority zones and falls back to every zone.
// Within a candidate set the highest hunger score wins; ties go to the lowest id.
type PriorityStrategy struct{}

// NewPriorityStrategy returns the default routing strategy.
func NewPriorityStrategy() PriorityStrategy {
	return PriorityStrategy{}
}

// Select implements SelectionStrategy.
func (PriorityStrategy) Select(zones []models.HungerZone) (*models.HungerZone, bool) {
	if len(zones) == 0 {
		return nil, false
	}

	candidates := make([]models.HungerZone, 0, len(zones))
	for _, zone := range zones {
		if zone.PriorityLevel == enums.PriorityLevelHigh {
			candidates = append(candidates, zone)
		}
	}
	if len(candidates) == 0 {
		candidates = append(candidates, zones...)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].HungerScore != candidates[j].HungerScore {
			return candidates[i].HungerScore > candidates[j].HungerScore
		}
		return candidates[i].ID.String() < candidates[j].ID.String()
	})

	chosen := candidates[0]
	return &chosen, true
}
