// Package safety screens donated food against freshness rules before it is accepted.
package safety

import (
	"time"

	"github.com/angelmondragon/foodbridge-backend/pkg/enums"
)

const (
	// MaxUnrefrigeratedCookedAge is how long cooked food may sit outside a fridge.
	MaxUnrefrigeratedCookedAge = 6 * time.Hour

	ReasonTooOld  = "Too old for non-refrigerated storage"
	ReasonExpired = "Expired items cannot be donated"
)

// Input carries the attributes the freshness rules look at.
type Input struct {
	Category         enums.FoodCategory
	CookingTime      *time.Time
	ExpiryDate       *time.Time
	StorageCondition enums.StorageCondition
}

// Decision is the validator outcome. Reason is empty when Accepted.
type Decision struct {
	Accepted bool
	Reason   string
}

func accept() Decision {
	return Decision{Accepted: true}
}

func reject(reason string) Decision {
	return Decision{Reason: reason}
}

// Validate applies the rules in order; the first matching rule wins.
// A missing timing field skips its rule.
func Validate(in Input, now time.Time) Decision {
	if in.Category == enums.FoodCategoryCooked && in.CookingTime != nil {
		if now.Sub(*in.CookingTime) > MaxUnrefrigeratedCookedAge && in.StorageCondition != enums.StorageConditionRefrigerated {
			return reject(ReasonTooOld)
		}
	}
	if in.Category == enums.FoodCategoryRaw && in.ExpiryDate != nil {
		if in.ExpiryDate.Before(now) {
			return reject(ReasonExpired)
		}
	}
	return accept()
}
