package enums

import "fmt"

// TourType distinguishes in-person from virtual tour bookings.
type TourType string

const (
	TourTypeInPerson TourType = "in_person"
	TourTypeVirtual  TourType = "virtual"
)

var validTourTypes = []TourType{
	TourTypeInPerson,
	TourTypeVirtual,
}

// String implements fmt.Stringer.
func (t TourType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TourType.
func (t TourType) IsValid() bool {
	for _, candidate := range validTourTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTourType converts raw input into a TourType.
func ParseTourType(value string) (TourType, error) {
	for _, candidate := range validTourTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tour type %q", value)
}

// TourStatus tracks a tour booking's lifecycle.
type TourStatus string

const (
	TourStatusIncoming  TourStatus = "incoming"
	TourStatusCompleted TourStatus = "completed"
	TourStatusCancelled TourStatus = "cancelled"
)

var validTourStatuses = []TourStatus{
	TourStatusIncoming,
	TourStatusCompleted,
	TourStatusCancelled,
}

// String implements fmt.Stringer.
func (t TourStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TourStatus.
func (t TourStatus) IsValid() bool {
	for _, candidate := range validTourStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTourStatus converts raw input into a TourStatus.
func ParseTourStatus(value string) (TourStatus, error) {
	for _, candidate := range validTourStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tour status %q", value)
}
