package aspects

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/internal/orchestrator"
	"github.com/oakline/oakline-backend/internal/repo"
	"github.com/oakline/oakline-backend/pkg/db/models"
	"github.com/oakline/oakline-backend/pkg/enums"
)

// RentalHistoryPayload is one past-rental-history aspect element. The
// address hash doubles as the entity id for the history's own address link.
type RentalHistoryPayload struct {
	RentalHistoryID    *uuid.UUID      `json:"rental_history_id,omitempty"`
	AddressHash        *uuid.UUID      `json:"address_hash,omitempty"`
	StartDate          string          `json:"start_date"`
	EndDate            string          `json:"end_date"`
	PropertyOwnerName  string          `json:"property_owner_name" validate:"required"`
	PropertyOwnerEmail string          `json:"property_owner_email" validate:"omitempty,email"`
	PropertyOwnerPhone string          `json:"property_owner_mobile"`
	Address            *AddressPayload `json:"address,omitempty"`
}

// HandleRentalHistory upserts the history row for the parent user, minting
// an address hash when absent, and recursively attaches its address using
// that hash as the entity id.
func (r *Resolver) HandleRentalHistory(ctx context.Context, tx *gorm.DB, parent orchestrator.Parent, value any) error {
	var payload RentalHistoryPayload
	if err := orchestrator.Decode(value, &payload); err != nil {
		return err
	}

	startDate, err := orchestrator.ParseDate(payload.StartDate)
	if err != nil {
		return err
	}
	endDate, err := orchestrator.ParseDate(payload.EndDate)
	if err != nil {
		return err
	}

	addressHash := uuid.New()
	if payload.AddressHash != nil {
		addressHash = *payload.AddressHash
	}

	histories := repo.New[models.PastRentalHistory](tx, "rental_history_id")
	fields := map[string]any{
		"address_hash":          addressHash,
		"user_id":               parent.ID,
		"start_date":            startDate,
		"end_date":              endDate,
		"property_owner_name":   payload.PropertyOwnerName,
		"property_owner_email":  payload.PropertyOwnerEmail,
		"property_owner_mobile": payload.PropertyOwnerPhone,
	}

	if payload.RentalHistoryID != nil {
		existing, err := histories.Get(ctx, *payload.RentalHistoryID)
		if err != nil {
			return err
		}
		if existing.AddressHash != uuid.Nil {
			addressHash = existing.AddressHash
			fields["address_hash"] = addressHash
		}
		if _, err := histories.Update(ctx, existing, fields); err != nil {
			return err
		}
	} else {
		_, err := histories.Create(ctx, &models.PastRentalHistory{
			AddressHash:        addressHash,
			UserID:             parent.ID,
			StartDate:          startDate,
			EndDate:            endDate,
			PropertyOwnerName:  payload.PropertyOwnerName,
			PropertyOwnerEmail: payload.PropertyOwnerEmail,
			PropertyOwnerPhone: payload.PropertyOwnerPhone,
		})
		if err != nil {
			return err
		}
	}

	if payload.Address != nil {
		historyParent := orchestrator.Parent{Kind: enums.EntityTypePastRentalHistory, ID: addressHash}
		if err := r.HandleAddress(ctx, tx, historyParent, *payload.Address); err != nil {
			return err
		}
	}
	return nil
}
