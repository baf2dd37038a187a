package enums

import "fmt"

// FoodCategory distinguishes prepared food from raw ingredients.
type FoodCategory string

const (
	FoodCategoryCooked FoodCategory = "cooked"
	FoodCategoryRaw    FoodCategory = "raw"
)

var validFoodCategories = []FoodCategory{
	FoodCategoryCooked,
	FoodCategoryRaw,
}

// String implements fmt.Stringer.
func (c FoodCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known FoodCategory.
func (c FoodCategory) IsValid() bool {
	for _, candidate := range validFoodCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseFoodCategory converts raw input into a FoodCategory.
func ParseFoodCategory(value string) (FoodCategory, error) {
	for _, candidate := range validFoodCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid food category %q", value)
}
