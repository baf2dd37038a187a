package enums

import "fmt"

// PickupStatus tracks an NGO pickup request.
type PickupStatus string

const (
	PickupStatusPending   PickupStatus = "Pending"
	PickupStatusAccepted  PickupStatus = "Accepted"
	PickupStatusCompleted PickupStatus = "Completed"
)

var validPickupStatuses = []PickupStatus{
	PickupStatusPending,
	PickupStatusAccepted,
	PickupStatusCompleted,
}

// String implements fmt.Stringer.
func (s PickupStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known PickupStatus.
func (s PickupStatus) IsValid() bool {
	for _, candidate := range validPickupStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePickupStatus converts raw input into a PickupStatus.
func ParsePickupStatus(value string) (PickupStatus, error) {
	for _, candidate := range validPickupStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pickup status %q", value)
}
