package aspects

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/internal/orchestrator"
	"github.com/oakline/oakline-backend/internal/repo"
	"github.com/oakline/oakline-backend/pkg/db/models"
	"github.com/oakline/oakline-backend/pkg/enums"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
)

// BillablePayload is one utility billing aspect element. The utility must
// already exist; the payment type is resolved by name.
type BillablePayload struct {
	UtilityID      uuid.UUID       `json:"utility" validate:"required"`
	PaymentType    string          `json:"payment_type" validate:"required"`
	BillableAmount decimal.Decimal `json:"billable_amount"`
	ApplyToUnits   bool            `json:"apply_to_units"`
}

// HandleBillable upserts the entity-billable junction keyed by the full
// 4-tuple.
func (r *Resolver) HandleBillable(ctx context.Context, tx *gorm.DB, parent orchestrator.Parent, value any) error {
	var payload BillablePayload
	if err := orchestrator.Decode(value, &payload); err != nil {
		return err
	}

	utilities := repo.New[models.Utility](tx, "utility_id")
	if _, err := utilities.Get(ctx, payload.UtilityID); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "utility %s does not exist", payload.UtilityID)
		}
		return err
	}

	paymentTypes := repo.New[models.PaymentType](tx, "payment_type_id")
	paymentType, err := paymentTypes.QueryOne(ctx, map[string]any{"payment_type_name": payload.PaymentType})
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "payment type %q does not exist", payload.PaymentType)
		}
		return err
	}

	billables := repo.New[models.EntityBillable](tx, "entity_billable_id")
	tuple := map[string]any{
		"entity_type":       parent.Kind,
		"entity_assoc_id":   parent.ID,
		"billable_type":     enums.BillableTypeUtilities,
		"billable_assoc_id": payload.UtilityID,
	}
	existing, created, err := billables.QueryOnCreate(ctx, tuple, func() *models.EntityBillable {
		return &models.EntityBillable{
			EntityType:      parent.Kind,
			EntityAssocID:   parent.ID,
			BillableType:    enums.BillableTypeUtilities,
			BillableAssocID: payload.UtilityID,
			PaymentTypeID:   paymentType.PaymentTypeID,
			BillableAmount:  payload.BillableAmount,
			ApplyToUnits:    payload.ApplyToUnits,
		}
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeAssociation, err, "linking billable")
	}
	if !created {
		_, err = billables.Update(ctx, existing, map[string]any{
			"payment_type_id": paymentType.PaymentTypeID,
			"billable_amount": payload.BillableAmount,
			"apply_to_units":  payload.ApplyToUnits,
		})
		return err
	}
	return nil
}
