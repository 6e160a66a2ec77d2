package resources

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/oakline/oakline-backend/pkg/config"
	"github.com/oakline/oakline-backend/pkg/db"
	"github.com/oakline/oakline-backend/pkg/db/models"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
	"github.com/oakline/oakline-backend/pkg/pagination"
)

func newTestClient(t *testing.T) *db.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	client, err := db.New(context.Background(), config.DBConfig{DSN: dsn}, true, nil)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	err = client.DB().AutoMigrate(
		&models.Utility{},
		&models.TransactionType{},
		&models.Transaction{},
		&models.MaintenanceRequest{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestResourceCRUD(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	svc, err := NewService[models.Utility](client, "utility_id")
	if err != nil {
		t.Fatalf("service boot failed: %v", err)
	}

	created, err := svc.Create(ctx, &models.Utility{Name: "Water"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.UtilityID == uuid.Nil {
		t.Fatal("utility must receive a generated id")
	}

	fetched, err := svc.Get(ctx, created.UtilityID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if fetched.Name != "Water" {
		t.Fatalf("unexpected name %q", fetched.Name)
	}

	updated, err := svc.Update(ctx, created.UtilityID, map[string]any{"description": "potable supply"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Description != "potable supply" {
		t.Fatalf("unexpected description %q", updated.Description)
	}

	if _, err := svc.Create(ctx, &models.Utility{Name: "Gas"}); err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	rows, total, err := svc.List(ctx, pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(rows) != 2 {
		t.Fatalf("expected two utilities, got total=%d len=%d", total, len(rows))
	}

	if err := svc.Delete(ctx, created.UtilityID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, created.UtilityID); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestResourceAssignsHumanNumbers(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)

	transactions, err := NewService[models.Transaction](client, "transaction_id")
	if err != nil {
		t.Fatalf("service boot failed: %v", err)
	}
	transaction, err := transactions.Create(ctx, &models.Transaction{
		Amount: decimal.RequireFromString("120.00"),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.HasPrefix(transaction.TransactionNumber, models.PrefixTransaction) {
		t.Fatalf("expected a TRX number, got %q", transaction.TransactionNumber)
	}

	maintenance, err := NewService[models.MaintenanceRequest](client, "task_id")
	if err != nil {
		t.Fatalf("service boot failed: %v", err)
	}
	request, err := maintenance.Create(ctx, &models.MaintenanceRequest{Title: "Leaking faucet"})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.HasPrefix(request.TaskNumber, models.PrefixTask) {
		t.Fatalf("expected a TSK number, got %q", request.TaskNumber)
	}
}

func TestResourceRejectsBadConstruction(t *testing.T) {
	client := newTestClient(t)
	if _, err := NewService[models.Utility](nil, "utility_id"); err == nil {
		t.Fatal("nil client must be rejected")
	}
	if _, err := NewService[models.Utility](client, ""); err == nil {
		t.Fatal("empty pk column must be rejected")
	}
}
