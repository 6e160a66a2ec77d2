package aspects

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/oakline/oakline-backend/internal/orchestrator"
	"github.com/oakline/oakline-backend/internal/repo"
	"github.com/oakline/oakline-backend/pkg/db"
	"github.com/oakline/oakline-backend/pkg/db/models"
	"github.com/oakline/oakline-backend/pkg/enums"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
)

func createTestInvoice(t *testing.T, client *db.Client, number string) *models.Invoice {
	t.Helper()
	invoices := repo.New[models.Invoice](client.DB(), "invoice_id")
	invoice, err := invoices.Create(context.Background(), &models.Invoice{
		InvoiceNumber: number,
		Status:        enums.PaymentStatusPending,
	})
	if err != nil {
		t.Fatalf("create invoice failed: %v", err)
	}
	return invoice
}

func TestHandleInvoiceItemDerivesTotalFromUnitPrice(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	resolver := newTestResolver(t)
	invoice := createTestInvoice(t, client, "INV-1001")
	parent := orchestrator.Parent{Kind: enums.EntityTypeInvoice, ID: invoice.InvoiceID}

	value := map[string]any{
		"description": "Monthly rent",
		"quantity":    2,
		"unit_price":  "450.00",
	}
	if err := resolver.HandleInvoiceItem(ctx, client.DB(), parent, value); err != nil {
		t.Fatalf("handle item failed: %v", err)
	}

	items := repo.New[models.InvoiceItem](client.DB(), "invoice_item_id")
	item, err := items.QueryOne(ctx, map[string]any{"invoice_number": "INV-1001"})
	if err != nil {
		t.Fatalf("item lookup failed: %v", err)
	}
	if item.Quantity != 2 {
		t.Fatalf("unexpected quantity %d", item.Quantity)
	}
	if !item.TotalPrice.Equal(decimal.RequireFromString("900.00")) {
		t.Fatalf("expected derived total 900.00, got %s", item.TotalPrice)
	}
}

func TestHandleInvoiceItemDefaultsQuantityToOne(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	resolver := newTestResolver(t)
	invoice := createTestInvoice(t, client, "INV-1002")
	parent := orchestrator.Parent{Kind: enums.EntityTypeInvoice, ID: invoice.InvoiceID}

	value := map[string]any{"description": "Cleaning fee", "unit_price": "75.50"}
	if err := resolver.HandleInvoiceItem(ctx, client.DB(), parent, value); err != nil {
		t.Fatalf("handle item failed: %v", err)
	}

	items := repo.New[models.InvoiceItem](client.DB(), "invoice_item_id")
	item, err := items.QueryOne(ctx, map[string]any{"invoice_number": "INV-1002"})
	if err != nil {
		t.Fatalf("item lookup failed: %v", err)
	}
	if item.Quantity != 1 {
		t.Fatalf("expected default quantity 1, got %d", item.Quantity)
	}
	if !item.TotalPrice.Equal(decimal.RequireFromString("75.50")) {
		t.Fatalf("unexpected total %s", item.TotalPrice)
	}
}

func TestHandleInvoiceItemUpdatesByID(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	resolver := newTestResolver(t)
	invoice := createTestInvoice(t, client, "INV-1003")
	parent := orchestrator.Parent{Kind: enums.EntityTypeInvoice, ID: invoice.InvoiceID}

	if err := resolver.HandleInvoiceItem(ctx, client.DB(), parent, map[string]any{"description": "Deposit", "unit_price": "100"}); err != nil {
		t.Fatalf("create item failed: %v", err)
	}

	items := repo.New[models.InvoiceItem](client.DB(), "invoice_item_id")
	existing, err := items.QueryOne(ctx, map[string]any{"invoice_number": "INV-1003"})
	if err != nil {
		t.Fatalf("item lookup failed: %v", err)
	}

	value := map[string]any{
		"invoice_item_id": existing.InvoiceItemID.String(),
		"description":     "Security deposit",
		"quantity":        3,
		"unit_price":      "120",
	}
	if err := resolver.HandleInvoiceItem(ctx, client.DB(), parent, value); err != nil {
		t.Fatalf("update item failed: %v", err)
	}

	updated, err := items.Get(ctx, existing.InvoiceItemID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if updated.Description != "Security deposit" || updated.Quantity != 3 {
		t.Fatalf("unexpected merged item %+v", updated)
	}
	count, err := items.QueryCount(ctx, map[string]any{"invoice_number": "INV-1003"})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("merge by id must not mint rows, got %d", count)
	}
}

func TestHandleInvoiceItemRejectsForeignItem(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	resolver := newTestResolver(t)
	first := createTestInvoice(t, client, "INV-2001")
	second := createTestInvoice(t, client, "INV-2002")

	firstParent := orchestrator.Parent{Kind: enums.EntityTypeInvoice, ID: first.InvoiceID}
	if err := resolver.HandleInvoiceItem(ctx, client.DB(), firstParent, map[string]any{"description": "Rent", "unit_price": "500"}); err != nil {
		t.Fatalf("create item failed: %v", err)
	}

	items := repo.New[models.InvoiceItem](client.DB(), "invoice_item_id")
	item, err := items.QueryOne(ctx, map[string]any{"invoice_number": "INV-2001"})
	if err != nil {
		t.Fatalf("item lookup failed: %v", err)
	}

	secondParent := orchestrator.Parent{Kind: enums.EntityTypeInvoice, ID: second.InvoiceID}
	value := map[string]any{"invoice_item_id": item.InvoiceItemID.String(), "description": "Hijack"}
	err = resolver.HandleInvoiceItem(ctx, client.DB(), secondParent, value)
	if !pkgerrors.IsCode(err, pkgerrors.CodeAssociation) {
		t.Fatalf("expected association error, got %v", err)
	}
}

func TestDeriveInvoiceAmountSumsItems(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	resolver := newTestResolver(t)
	invoice := createTestInvoice(t, client, "INV-3001")
	parent := orchestrator.Parent{Kind: enums.EntityTypeInvoice, ID: invoice.InvoiceID}

	for _, value := range []map[string]any{
		{"description": "Rent", "unit_price": "800"},
		{"description": "Parking", "quantity": 2, "unit_price": "25.25"},
	} {
		if err := resolver.HandleInvoiceItem(ctx, client.DB(), parent, value); err != nil {
			t.Fatalf("handle item failed: %v", err)
		}
	}

	if err := DeriveInvoiceAmount(ctx, client.DB(), invoice.InvoiceID); err != nil {
		t.Fatalf("derive failed: %v", err)
	}

	invoices := repo.New[models.Invoice](client.DB(), "invoice_id")
	reloaded, err := invoices.Get(ctx, invoice.InvoiceID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reloaded.InvoiceAmount.Equal(decimal.RequireFromString("850.50")) {
		t.Fatalf("expected derived amount 850.50, got %s", reloaded.InvoiceAmount)
	}
}
