package enums

import "fmt"

// EventType classifies calendar events.
type EventType string

const (
	EventTypeInspection         EventType = "inspection"
	EventTypeMeeting            EventType = "meeting"
	EventTypeOther              EventType = "other"
	EventTypeBirthday           EventType = "birthday"
	EventTypeHoliday            EventType = "holiday"
	EventTypeMaintenanceRequest EventType = "maintenance_request"
)

var validEventTypes = []EventType{
	EventTypeInspection,
	EventTypeMeeting,
	EventTypeOther,
	EventTypeBirthday,
	EventTypeHoliday,
	EventTypeMaintenanceRequest,
}

// String implements fmt.Stringer.
func (e EventType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EventType.
func (e EventType) IsValid() bool {
	for _, candidate := range validEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEventType converts raw input into an EventType.
func ParseEventType(value string) (EventType, error) {
	for _, candidate := range validEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}

// CalendarStatus tracks calendar event completion.
type CalendarStatus string

const (
	CalendarStatusPending   CalendarStatus = "pending"
	CalendarStatusCompleted CalendarStatus = "completed"
	CalendarStatusCancelled CalendarStatus = "cancelled"
)

var validCalendarStatuses = []CalendarStatus{
	CalendarStatusPending,
	CalendarStatusCompleted,
	CalendarStatusCancelled,
}

// String implements fmt.Stringer.
func (c CalendarStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CalendarStatus.
func (c CalendarStatus) IsValid() bool {
	for _, candidate := range validCalendarStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCalendarStatus converts raw input into a CalendarStatus.
func ParseCalendarStatus(value string) (CalendarStatus, error) {
	for _, candidate := range validCalendarStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid calendar status %q", value)
}
