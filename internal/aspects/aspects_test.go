package aspects

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"

	"github.com/oakline/oakline-backend/internal/repo"
	"github.com/oakline/oakline-backend/pkg/config"
	"github.com/oakline/oakline-backend/pkg/db"
	"github.com/oakline/oakline-backend/pkg/db/models"
	"github.com/oakline/oakline-backend/pkg/logger"
)

func newTestClient(t *testing.T) *db.Client {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	client, err := db.New(context.Background(), config.DBConfig{DSN: dsn}, true, nil)
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := client.DB().AutoMigrate(
		&models.Role{},
		&models.Permission{},
		&models.User{},
		&models.Country{},
		&models.Region{},
		&models.City{},
		&models.Address{},
		&models.EntityAddress{},
		&models.PastRentalHistory{},
		&models.Utility{},
		&models.PaymentType{},
		&models.EntityBillable{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.Company{},
		&models.UserCompany{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	pwCfg := config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     8,
		ArgonKeyLen:      16,
	}
	resolver, err := NewResolver(nil, pwCfg, logg)
	if err != nil {
		t.Fatalf("resolver boot failed: %v", err)
	}
	return resolver
}

func createTestUser(t *testing.T, client *db.Client, email string) *models.User {
	t.Helper()
	users := repo.New[models.User](client.DB(), "user_id")
	user, err := users.Create(context.Background(), &models.User{
		FirstName: "Ana",
		LastName:  "Reyes",
		Email:     email,
	})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func addressValue() map[string]any {
	return map[string]any{
		"address_type":       "billing",
		"primary_address":    true,
		"address_1":          "12 Harbor Lane",
		"address_postalcode": "73106",
		"city":               "Oklahoma City",
		"region":             "Oklahoma",
		"country":            "United States",
	}
}
