package invoices

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"

	"github.com/oakline/oakline-backend/internal/aspects"
	"github.com/oakline/oakline-backend/internal/orchestrator"
	"github.com/oakline/oakline-backend/internal/repo"
	"github.com/oakline/oakline-backend/pkg/config"
	"github.com/oakline/oakline-backend/pkg/db"
	"github.com/oakline/oakline-backend/pkg/db/models"
	"github.com/oakline/oakline-backend/pkg/enums"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
	"github.com/oakline/oakline-backend/pkg/logger"
	"github.com/oakline/oakline-backend/pkg/pagination"
)

func newTestService(t *testing.T) (Service, *db.Client) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	client, err := db.New(context.Background(), config.DBConfig{DSN: dsn}, true, nil)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	err = client.DB().AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.User{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.PaymentType{},
		&models.ContractType{},
		&models.Contract{},
		&models.UnderContract{},
		&models.ContractInvoice{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	resolver, err := aspects.NewResolver(nil, config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}, logg)
	if err != nil {
		t.Fatalf("resolver boot failed: %v", err)
	}

	registry := orchestrator.NewRegistry()
	if err := registry.Register(Profile(resolver)); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	orch, err := orchestrator.New(client, registry, logg)
	if err != nil {
		t.Fatalf("orchestrator boot failed: %v", err)
	}

	svc, err := NewService(client, orch, logg)
	if err != nil {
		t.Fatalf("service boot failed: %v", err)
	}
	return svc, client
}

func TestCreateDerivesAmountFromItems(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	result, err := svc.Create(ctx, orchestrator.Document{
		"invoice_details": "March rent",
		"invoice_type":    "rent",
		"invoice_items": []any{
			map[string]any{"description": "Base rent", "quantity": 1, "unit_price": "800.00"},
			map[string]any{"description": "Parking", "quantity": 2, "unit_price": "25.25"},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	invoice, ok := result.(*models.Invoice)
	if !ok {
		t.Fatalf("unexpected projection type %T", result)
	}

	if invoice.InvoiceNumber == "" {
		t.Fatal("invoice must receive a generated number")
	}
	if invoice.Status != enums.PaymentStatusPending {
		t.Fatalf("new invoices default to pending, got %q", invoice.Status)
	}
	if got := invoice.InvoiceAmount.StringFixed(2); got != "850.50" {
		t.Fatalf("expected derived amount 850.50, got %s", got)
	}
	if len(invoice.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(invoice.Items))
	}
}

func TestUpdateRederivesAmount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	result, err := svc.Create(ctx, orchestrator.Document{
		"invoice_type": "rent",
		"invoice_items": []any{
			map[string]any{"description": "Base rent", "quantity": 1, "unit_price": "800.00"},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	invoice := result.(*models.Invoice)

	updated, err := svc.Update(ctx, invoice.InvoiceID, orchestrator.Document{
		"invoice_items": []any{
			map[string]any{
				"invoice_item_id": invoice.Items[0].InvoiceItemID.String(),
				"unit_price":      "900.00",
			},
		},
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	reloaded := updated.(*models.Invoice)
	if got := reloaded.InvoiceAmount.StringFixed(2); got != "900.00" {
		t.Fatalf("expected re-derived amount 900.00, got %s", got)
	}
	if len(reloaded.Items) != 1 {
		t.Fatalf("item update must merge in place, got %d items", len(reloaded.Items))
	}
}

func TestCreateRejectsBadStatus(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Create(context.Background(), orchestrator.Document{
		"invoice_type": "rent",
		"status":       "maybe",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateBadItemRollsBackInvoice(t *testing.T) {
	ctx := context.Background()
	svc, client := newTestService(t)

	_, err := svc.Create(ctx, orchestrator.Document{
		"invoice_type": "rent",
		"invoice_items": []any{
			map[string]any{"description": "Base rent", "quantity": "three"},
		},
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	invoices := repo.New[models.Invoice](client.DB(), "invoice_id")
	count, countErr := invoices.QueryCount(ctx, nil)
	if countErr != nil {
		t.Fatalf("count failed: %v", countErr)
	}
	if count != 0 {
		t.Fatalf("bad item must roll back the invoice, found %d", count)
	}
}

func TestCreateLinksInvoiceToContract(t *testing.T) {
	ctx := context.Background()
	svc, client := newTestService(t)

	contractTypes := repo.New[models.ContractType](client.DB(), "contract_type_id")
	lease, err := contractTypes.Create(ctx, &models.ContractType{ContractTypeName: "lease"})
	if err != nil {
		t.Fatalf("seed contract type failed: %v", err)
	}
	paymentTypes := repo.New[models.PaymentType](client.DB(), "payment_type_id")
	monthly, err := paymentTypes.Create(ctx, &models.PaymentType{PaymentTypeName: "monthly"})
	if err != nil {
		t.Fatalf("seed payment type failed: %v", err)
	}
	contracts := repo.New[models.Contract](client.DB(), "contract_id")
	contract, err := contracts.Create(ctx, &models.Contract{
		ContractNumber: "CTR-2001",
		ContractTypeID: lease.ContractTypeID,
		PaymentTypeID:  monthly.PaymentTypeID,
		ContractStatus: enums.ContractStatusActive,
	})
	if err != nil {
		t.Fatalf("seed contract failed: %v", err)
	}

	result, err := svc.Create(ctx, orchestrator.Document{
		"invoice_type": "rent",
		"contract_id":  contract.ContractID.String(),
		"invoice_items": []any{
			map[string]any{"description": "Base rent", "quantity": 1, "unit_price": "800.00"},
		},
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	invoice := result.(*models.Invoice)

	links := repo.New[models.ContractInvoice](client.DB(), "contract_invoice_id")
	count, err := links.QueryCount(ctx, map[string]any{
		"contract_id":    contract.ContractID,
		"invoice_number": invoice.InvoiceNumber,
	})
	if err != nil {
		t.Fatalf("link count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one contract link, got %d", count)
	}

	// Updating with the same contract keeps a single link.
	if _, err := svc.Update(ctx, invoice.InvoiceID, orchestrator.Document{
		"contract_id": contract.ContractID.String(),
	}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	count, err = links.QueryCount(ctx, nil)
	if err != nil {
		t.Fatalf("link count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("re-linking must merge, got %d rows", count)
	}
}

func TestCreateUnknownContractRollsBackInvoice(t *testing.T) {
	ctx := context.Background()
	svc, client := newTestService(t)

	_, err := svc.Create(ctx, orchestrator.Document{
		"invoice_type": "rent",
		"contract_id":  uuid.NewString(),
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	invoices := repo.New[models.Invoice](client.DB(), "invoice_id")
	count, countErr := invoices.QueryCount(ctx, nil)
	if countErr != nil {
		t.Fatalf("count failed: %v", countErr)
	}
	if count != 0 {
		t.Fatalf("unknown contract must roll back the invoice, found %d", count)
	}
}

func TestLeasesDue(t *testing.T) {
	ctx := context.Background()
	svc, client := newTestService(t)

	contractTypes := repo.New[models.ContractType](client.DB(), "contract_type_id")
	lease, err := contractTypes.Create(ctx, &models.ContractType{ContractTypeName: "lease"})
	if err != nil {
		t.Fatalf("seed contract type failed: %v", err)
	}
	sale, err := contractTypes.Create(ctx, &models.ContractType{ContractTypeName: "sale"})
	if err != nil {
		t.Fatalf("seed contract type failed: %v", err)
	}
	paymentTypes := repo.New[models.PaymentType](client.DB(), "payment_type_id")
	monthly, err := paymentTypes.Create(ctx, &models.PaymentType{PaymentTypeName: "monthly"})
	if err != nil {
		t.Fatalf("seed payment type failed: %v", err)
	}

	users := repo.New[models.User](client.DB(), "user_id")
	tenant, err := users.Create(ctx, &models.User{FirstName: "Ana", LastName: "Reyes", Email: "ana@example.com"})
	if err != nil {
		t.Fatalf("seed user failed: %v", err)
	}
	employee, err := users.Create(ctx, &models.User{FirstName: "Ben", LastName: "Soto", Email: "ben@example.com"})
	if err != nil {
		t.Fatalf("seed user failed: %v", err)
	}

	contracts := repo.New[models.Contract](client.DB(), "contract_id")
	underContracts := repo.New[models.UnderContract](client.DB(), "under_contract_id")

	seedContract := func(number string, typeID uuid.UUID, status enums.ContractStatus) *models.Contract {
		contract, err := contracts.Create(ctx, &models.Contract{
			ContractNumber: number,
			ContractTypeID: typeID,
			PaymentTypeID:  monthly.PaymentTypeID,
			ContractStatus: status,
		})
		if err != nil {
			t.Fatalf("seed contract failed: %v", err)
		}
		if _, err := underContracts.Create(ctx, &models.UnderContract{
			ContractID:          contract.ContractID,
			PropertyUnitAssocID: uuid.New(),
			ClientID:            tenant.UserID,
			EmployeeID:          employee.UserID,
			ContractStatus:      status,
		}); err != nil {
			t.Fatalf("seed under contract failed: %v", err)
		}
		return contract
	}

	active := seedContract("CTR-1001", lease.ContractTypeID, enums.ContractStatusActive)
	seedContract("CTR-1002", lease.ContractTypeID, enums.ContractStatusExpired)
	seedContract("CTR-1003", sale.ContractTypeID, enums.ContractStatusActive)

	rows, total, err := svc.LeasesDue(ctx, nil, pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("leases due failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("expected only the active lease, got total=%d len=%d", total, len(rows))
	}
	if rows[0].ContractID != active.ContractID {
		t.Fatalf("unexpected contract %s", rows[0].ContractNumber)
	}

	// Filtering by an unrelated client returns nothing.
	stranger := uuid.New()
	_, total, err = svc.LeasesDue(ctx, &stranger, pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("leases due by client failed: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected no leases for a stranger, got %d", total)
	}

	_, total, err = svc.LeasesDue(ctx, &tenant.UserID, pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("leases due by tenant failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected the tenant's lease, got %d", total)
	}
}
