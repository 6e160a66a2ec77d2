package aspects

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/internal/orchestrator"
	"github.com/oakline/oakline-backend/internal/repo"
	"github.com/oakline/oakline-backend/pkg/db/models"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
)

// InvoiceItemPayload is one invoice_items aspect element. Items without an
// id are added; items carrying invoice_item_id replace that row's fields.
type InvoiceItemPayload struct {
	InvoiceItemID *uuid.UUID      `json:"invoice_item_id,omitempty"`
	Description   string          `json:"description"`
	Quantity      int             `json:"quantity" validate:"omitempty,min=1"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	ReferenceID   *uuid.UUID      `json:"reference_id,omitempty"`
}

// HandleInvoiceItem upserts one item against the parent invoice. The
// invoice total is re-derived by the profile's finalize step after every
// item has landed.
func (r *Resolver) HandleInvoiceItem(ctx context.Context, tx *gorm.DB, parent orchestrator.Parent, value any) error {
	var payload InvoiceItemPayload
	if err := orchestrator.Decode(value, &payload); err != nil {
		return err
	}

	invoices := repo.New[models.Invoice](tx, "invoice_id")
	invoice, err := invoices.Get(ctx, parent.ID)
	if err != nil {
		return err
	}

	quantity := payload.Quantity
	if quantity == 0 {
		quantity = 1
	}
	totalPrice := payload.TotalPrice
	if totalPrice.IsZero() && !payload.UnitPrice.IsZero() {
		totalPrice = payload.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	}

	items := repo.New[models.InvoiceItem](tx, "invoice_item_id")
	if payload.InvoiceItemID != nil {
		existing, err := items.Get(ctx, *payload.InvoiceItemID)
		if err != nil {
			return err
		}
		if existing.InvoiceNumber != invoice.InvoiceNumber {
			return pkgerrors.Newf(pkgerrors.CodeAssociation, "invoice item %s belongs to another invoice", *payload.InvoiceItemID)
		}
		_, err = items.Update(ctx, existing, map[string]any{
			"description":  payload.Description,
			"quantity":     quantity,
			"unit_price":   payload.UnitPrice,
			"total_price":  totalPrice,
			"reference_id": payload.ReferenceID,
		})
		return err
	}

	_, err = items.Create(ctx, &models.InvoiceItem{
		InvoiceNumber: invoice.InvoiceNumber,
		Description:   payload.Description,
		Quantity:      quantity,
		UnitPrice:     payload.UnitPrice,
		TotalPrice:    totalPrice,
		ReferenceID:   payload.ReferenceID,
	})
	return err
}

// DeriveInvoiceAmount recomputes and persists the invoice total as the sum
// of its items.
func DeriveInvoiceAmount(ctx context.Context, tx *gorm.DB, invoiceID uuid.UUID) error {
	invoices := repo.New[models.Invoice](tx, "invoice_id")
	invoice, err := invoices.Get(ctx, invoiceID)
	if err != nil {
		return err
	}

	items := repo.New[models.InvoiceItem](tx, "invoice_item_id")
	rows, err := items.Query(ctx, map[string]any{"invoice_number": invoice.InvoiceNumber})
	if err != nil {
		return err
	}

	total := decimal.Zero
	for _, row := range rows {
		total = total.Add(row.TotalPrice)
	}

	_, err = invoices.Update(ctx, invoice, map[string]any{"invoice_amount": total})
	return err
}
