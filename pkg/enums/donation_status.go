package enums

import "fmt"

// DonationStatus tracks a donation through pickup and delivery.
type DonationStatus string

const (
	DonationStatusValid     DonationStatus = "Valid"
	DonationStatusRejected  DonationStatus = "Rejected"
	DonationStatusPickedUp  DonationStatus = "PickedUp"
	DonationStatusDelivered DonationStatus = "Delivered"
)

var validDonationStatuses = []DonationStatus{
	DonationStatusValid,
	DonationStatusRejected,
	DonationStatusPickedUp,
	DonationStatusDelivered,
}

// donationTransitions lists the statuses each status may advance to.
var donationTransitions = map[DonationStatus][]DonationStatus{
	DonationStatusValid:    {DonationStatusPickedUp},
	DonationStatusPickedUp: {DonationStatusDelivered},
}

// String implements fmt.Stringer.
func (s DonationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known DonationStatus.
func (s DonationStatus) IsValid() bool {
	for _, candidate := range validDonationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether moving from s to next keeps the status monotonic.
func (s DonationStatus) CanTransitionTo(next DonationStatus) bool {
	for _, candidate := range donationTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseDonationStatus converts raw input into a DonationStatus.
func ParseDonationStatus(value string) (DonationStatus, error) {
	for _, candidate := range validDonationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid donation status %q", value)
}
