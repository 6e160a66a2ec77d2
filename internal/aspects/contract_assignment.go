package aspects

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/internal/orchestrator"
	"github.com/oakline/oakline-backend/internal/repo"
	"github.com/oakline/oakline-backend/pkg/db/models"
	"github.com/oakline/oakline-backend/pkg/enums"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
)

// ContractAssignmentPayload is one contract_info aspect element binding a
// client and an employee to a property-unit association under the parent
// contract.
type ContractAssignmentPayload struct {
	UnderContractID     *uuid.UUID `json:"under_contract_id,omitempty"`
	PropertyUnitAssocID uuid.UUID  `json:"property_unit_assoc" validate:"required"`
	ClientID            uuid.UUID  `json:"client_id" validate:"required"`
	EmployeeID          uuid.UUID  `json:"employee_id" validate:"required"`
	ContractStatus      string     `json:"contract_status"`
	StartDate           string     `json:"start_date"`
	EndDate             string     `json:"end_date"`
	NextPaymentDue      string     `json:"next_payment_due"`
}

// HandleContractAssignment validates that the client, employee and
// property-unit association all exist, then upserts the under-contract row.
func (r *Resolver) HandleContractAssignment(ctx context.Context, tx *gorm.DB, parent orchestrator.Parent, value any) error {
	var payload ContractAssignmentPayload
	if err := orchestrator.Decode(value, &payload); err != nil {
		return err
	}

	status := enums.ContractStatusPending
	if payload.ContractStatus != "" {
		parsed, err := enums.ParseContractStatus(payload.ContractStatus)
		if err != nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "Contract status does not exist")
		}
		status = parsed
	}

	startDate, err := orchestrator.ParseDate(payload.StartDate)
	if err != nil {
		return err
	}
	endDate, err := orchestrator.ParseDate(payload.EndDate)
	if err != nil {
		return err
	}
	nextPaymentDue, err := orchestrator.ParseDate(payload.NextPaymentDue)
	if err != nil {
		return err
	}

	users := repo.New[models.User](tx, "user_id")
	if _, err := users.Get(ctx, payload.ClientID); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "client %s does not exist", payload.ClientID)
		}
		return err
	}
	if _, err := users.Get(ctx, payload.EmployeeID); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "employee %s does not exist", payload.EmployeeID)
		}
		return err
	}

	assocs := repo.New[models.PropertyUnitAssoc](tx, "property_unit_assoc_id")
	if _, err := assocs.Get(ctx, payload.PropertyUnitAssocID); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return pkgerrors.Newf(pkgerrors.CodeNotFound, "property unit association %s does not exist", payload.PropertyUnitAssocID)
		}
		return err
	}

	underContracts := repo.New[models.UnderContract](tx, "under_contract_id")
	fields := map[string]any{
		"contract_id":            parent.ID,
		"property_unit_assoc_id": payload.PropertyUnitAssocID,
		"client_id":              payload.ClientID,
		"employee_id":            payload.EmployeeID,
		"contract_status":        status,
		"start_date":             startDate,
		"end_date":               endDate,
		"next_payment_due":       nextPaymentDue,
	}

	if payload.UnderContractID != nil {
		existing, err := underContracts.Get(ctx, *payload.UnderContractID)
		if err != nil {
			return err
		}
		_, err = underContracts.Update(ctx, existing, fields)
		return err
	}

	_, err = underContracts.Create(ctx, &models.UnderContract{
		ContractID:          parent.ID,
		PropertyUnitAssocID: payload.PropertyUnitAssocID,
		ClientID:            payload.ClientID,
		EmployeeID:          payload.EmployeeID,
		ContractStatus:      status,
		StartDate:           startDate,
		EndDate:             endDate,
		NextPaymentDue:      nextPaymentDue,
	})
	return err
}
