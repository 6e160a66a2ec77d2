package aspects

import (
	"context"

	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/internal/orchestrator"
	"github.com/oakline/oakline-backend/internal/repo"
	"github.com/oakline/oakline-backend/pkg/db/models"
	"github.com/oakline/oakline-backend/pkg/enums"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
)

// AmenityPayload is one amenity aspect element. Nested media attach to the
// junction row rather than the shared amenity.
type AmenityPayload struct {
	AmenityName      string         `json:"amenity_name" validate:"required"`
	AmenityShortName string         `json:"amenity_short_name"`
	AmenityValueType string         `json:"amenity_value_type"`
	Description      string         `json:"description"`
	Media            []MediaPayload `json:"media,omitempty"`
}

// HandleAmenity gets or creates the amenity by its full attribute set and
// links it to the parent through the entity-amenity junction.
func (r *Resolver) HandleAmenity(ctx context.Context, tx *gorm.DB, parent orchestrator.Parent, value any) error {
	var payload AmenityPayload
	if err := orchestrator.Decode(value, &payload); err != nil {
		return err
	}

	amenities := repo.New[models.Amenity](tx, "amenity_id")
	attrs := map[string]any{
		"amenity_name":       payload.AmenityName,
		"amenity_short_name": payload.AmenityShortName,
		"amenity_value_type": payload.AmenityValueType,
		"description":        payload.Description,
	}
	amenity, _, err := amenities.QueryOnCreate(ctx, attrs, func() *models.Amenity {
		return &models.Amenity{
			AmenityName:      payload.AmenityName,
			AmenityShortName: payload.AmenityShortName,
			AmenityValueType: payload.AmenityValueType,
			Description:      payload.Description,
		}
	})
	if err != nil {
		return err
	}

	junctions := repo.New[models.EntityAmenity](tx, "entity_amenity_id")
	tuple := map[string]any{
		"entity_type":     parent.Kind,
		"entity_assoc_id": parent.ID,
		"amenity_id":      amenity.AmenityID,
	}
	link, _, err := junctions.QueryOnCreate(ctx, tuple, func() *models.EntityAmenity {
		return &models.EntityAmenity{
			EntityType:    parent.Kind,
			EntityAssocID: parent.ID,
			AmenityID:     amenity.AmenityID,
		}
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeAssociation, err, "linking amenity")
	}

	junctionParent := orchestrator.Parent{Kind: enums.EntityTypeEntityAmenities, ID: link.EntityAmenityID}
	for _, media := range payload.Media {
		if err := r.HandleMedia(ctx, tx, junctionParent, media); err != nil {
			return err
		}
	}
	return nil
}
