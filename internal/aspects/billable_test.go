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

	"github.com/google/uuid"
)

func seedBillableRefs(t *testing.T, client *db.Client) (*models.Utility, *models.PaymentType) {
	t.Helper()
	ctx := context.Background()

	utilities := repo.New[models.Utility](client.DB(), "utility_id")
	utility, err := utilities.Create(ctx, &models.Utility{Name: "Water"})
	if err != nil {
		t.Fatalf("create utility failed: %v", err)
	}

	paymentTypes := repo.New[models.PaymentType](client.DB(), "payment_type_id")
	paymentType, err := paymentTypes.Create(ctx, &models.PaymentType{PaymentTypeName: "monthly"})
	if err != nil {
		t.Fatalf("create payment type failed: %v", err)
	}
	return utility, paymentType
}

func TestHandleBillableLinksUtility(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	resolver := newTestResolver(t)
	utility, paymentType := seedBillableRefs(t, client)
	parent := orchestrator.Parent{Kind: enums.EntityTypeContract, ID: uuid.New()}

	value := map[string]any{
		"utility":         utility.UtilityID.String(),
		"payment_type":    "monthly",
		"billable_amount": "35.00",
		"apply_to_units":  true,
	}
	if err := resolver.HandleBillable(ctx, client.DB(), parent, value); err != nil {
		t.Fatalf("handle billable failed: %v", err)
	}

	billables := repo.New[models.EntityBillable](client.DB(), "entity_billable_id")
	link, err := billables.QueryOne(ctx, map[string]any{"entity_assoc_id": parent.ID})
	if err != nil {
		t.Fatalf("link lookup failed: %v", err)
	}
	if link.BillableAssocID != utility.UtilityID {
		t.Fatal("link must reference the utility")
	}
	if link.PaymentTypeID != paymentType.PaymentTypeID {
		t.Fatal("link must reference the resolved payment type")
	}
	if !link.ApplyToUnits {
		t.Fatal("apply_to_units flag must persist")
	}
	if !link.BillableAmount.Equal(decimal.RequireFromString("35.00")) {
		t.Fatalf("unexpected amount %s", link.BillableAmount)
	}
}

func TestHandleBillableUpsertsByTuple(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	resolver := newTestResolver(t)
	utility, _ := seedBillableRefs(t, client)
	parent := orchestrator.Parent{Kind: enums.EntityTypeContract, ID: uuid.New()}

	base := map[string]any{
		"utility":         utility.UtilityID.String(),
		"payment_type":    "monthly",
		"billable_amount": "35.00",
	}
	if err := resolver.HandleBillable(ctx, client.DB(), parent, base); err != nil {
		t.Fatalf("first handle failed: %v", err)
	}

	base["billable_amount"] = "42.00"
	if err := resolver.HandleBillable(ctx, client.DB(), parent, base); err != nil {
		t.Fatalf("second handle failed: %v", err)
	}

	billables := repo.New[models.EntityBillable](client.DB(), "entity_billable_id")
	count, err := billables.QueryCount(ctx, nil)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("re-applying the same tuple must not mint rows, got %d", count)
	}

	link, err := billables.QueryOne(ctx, map[string]any{"entity_assoc_id": parent.ID})
	if err != nil {
		t.Fatalf("link lookup failed: %v", err)
	}
	if !link.BillableAmount.Equal(decimal.RequireFromString("42.00")) {
		t.Fatalf("expected refreshed amount 42.00, got %s", link.BillableAmount)
	}
}

func TestHandleBillableRequiresExistingUtility(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	resolver := newTestResolver(t)
	seedBillableRefs(t, client)
	parent := orchestrator.Parent{Kind: enums.EntityTypeContract, ID: uuid.New()}

	value := map[string]any{
		"utility":      uuid.NewString(),
		"payment_type": "monthly",
	}
	err := resolver.HandleBillable(ctx, client.DB(), parent, value)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for unknown utility, got %v", err)
	}
}

func TestHandleBillableRequiresKnownPaymentType(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	resolver := newTestResolver(t)
	utility, _ := seedBillableRefs(t, client)
	parent := orchestrator.Parent{Kind: enums.EntityTypeContract, ID: uuid.New()}

	value := map[string]any{
		"utility":      utility.UtilityID.String(),
		"payment_type": "yearly",
	}
	err := resolver.HandleBillable(ctx, client.DB(), parent, value)
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for unknown payment type, got %v", err)
	}
}
