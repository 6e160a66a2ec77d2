package enums

import "fmt"

// EntityType tags polymorphic junction rows with the kind of the owning row.
type EntityType string

const (
	EntityTypeUser              EntityType = "User"
	EntityTypeProperty          EntityType = "Property"
	EntityTypeUnits             EntityType = "Units"
	EntityTypeContract          EntityType = "Contract"
	EntityTypeInvoice           EntityType = "Invoice"
	EntityTypeMaintenance       EntityType = "MaintenanceRequest"
	EntityTypePastRentalHistory EntityType = "PastRentalHistory"
	EntityTypeEntityAmenities   EntityType = "EntityAmenities"
	EntityTypeAmenities         EntityType = "Amenities"
	EntityTypeTour              EntityType = "Tour"
)

var validEntityTypes = []EntityType{
	EntityTypeUser,
	EntityTypeProperty,
	EntityTypeUnits,
	EntityTypeContract,
	EntityTypeInvoice,
	EntityTypeMaintenance,
	EntityTypePastRentalHistory,
	EntityTypeEntityAmenities,
	EntityTypeAmenities,
	EntityTypeTour,
}

// String implements fmt.Stringer.
func (e EntityType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EntityType.
func (e EntityType) IsValid() bool {
	for _, candidate := range validEntityTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEntityType converts raw input into an EntityType.
func ParseEntityType(value string) (EntityType, error) {
	for _, candidate := range validEntityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid entity type %q", value)
}

// BillableType identifies the billed resource on an entity-billable row.
// Utilities is the only billable kind today.
type BillableType string

const (
	BillableTypeUtilities BillableType = "Utilities"
)

// String implements fmt.Stringer.
func (b BillableType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BillableType.
func (b BillableType) IsValid() bool {
	return b == BillableTypeUtilities
}
