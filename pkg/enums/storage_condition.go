package enums

import "fmt"

// StorageCondition describes how the donated food is currently kept.
type StorageCondition string

const (
	StorageConditionHot             StorageCondition = "Hot"
	StorageConditionRefrigerated    StorageCondition = "Refrigerated"
	StorageConditionRoomTemperature StorageCondition = "RoomTemperature"
)

var validStorageConditions = []StorageCondition{
	StorageConditionHot,
	StorageConditionRefrigerated,
	StorageConditionRoomTemperature,
}

// String implements fmt.Stringer.
func (s StorageCondition) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StorageCondition.
func (s StorageCondition) IsValid() bool {
	for _, candidate := range validStorageConditions {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStorageCondition converts raw input into a StorageCondition.
func ParseStorageCondition(value string) (StorageCondition, error) {
	for _, candidate := range validStorageConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid storage condition %q", value)
}
