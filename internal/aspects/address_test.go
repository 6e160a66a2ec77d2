package aspects

import (
	"context"
	"testing"

	"github.com/oakline/oakline-backend/internal/orchestrator"
	"github.com/oakline/oakline-backend/internal/repo"
	"github.com/oakline/oakline-backend/pkg/db/models"
	"github.com/oakline/oakline-backend/pkg/enums"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
)

func TestHandleAddressResolvesGeoChain(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	resolver := newTestResolver(t)
	user := createTestUser(t, client, "ana@example.com")
	parent := orchestrator.Parent{Kind: enums.EntityTypeUser, ID: user.UserID}

	if err := resolver.HandleAddress(ctx, client.DB(), parent, addressValue()); err != nil {
		t.Fatalf("handle address failed: %v", err)
	}

	countries := repo.New[models.Country](client.DB(), "country_id")
	country, err := countries.QueryOne(ctx, map[string]any{"country_name": "United States"})
	if err != nil {
		t.Fatalf("country not resolved: %v", err)
	}

	regions := repo.New[models.Region](client.DB(), "region_id")
	region, err := regions.QueryOne(ctx, map[string]any{"region_name": "Oklahoma"})
	if err != nil {
		t.Fatalf("region not resolved: %v", err)
	}
	if region.CountryID != country.CountryID {
		t.Fatal("region must hang off the resolved country")
	}

	cities := repo.New[models.City](client.DB(), "city_id")
	city, err := cities.QueryOne(ctx, map[string]any{"city_name": "Oklahoma City"})
	if err != nil {
		t.Fatalf("city not resolved: %v", err)
	}
	if city.RegionID != region.RegionID {
		t.Fatal("city must hang off the resolved region")
	}

	addresses := repo.New[models.Address](client.DB(), "address_id")
	address, err := addresses.QueryOne(ctx, map[string]any{"address_1": "12 Harbor Lane"})
	if err != nil {
		t.Fatalf("address not created: %v", err)
	}
	if address.CityID != city.CityID {
		t.Fatal("address must reference the resolved city")
	}

	junctions := repo.New[models.EntityAddress](client.DB(), "entity_address_id")
	count, err := junctions.QueryCount(ctx, map[string]any{
		"entity_type": enums.EntityTypeUser,
		"entity_id":   user.UserID,
		"address_id":  address.AddressID,
	})
	if err != nil {
		t.Fatalf("junction count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one junction row, got %d", count)
	}
}

func TestHandleAddressIsIdempotent(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	resolver := newTestResolver(t)
	user := createTestUser(t, client, "ana@example.com")
	parent := orchestrator.Parent{Kind: enums.EntityTypeUser, ID: user.UserID}

	for i := 0; i < 3; i++ {
		if err := resolver.HandleAddress(ctx, client.DB(), parent, addressValue()); err != nil {
			t.Fatalf("handle address round %d failed: %v", i, err)
		}
	}

	addresses := repo.New[models.Address](client.DB(), "address_id")
	addressCount, err := addresses.QueryCount(ctx, nil)
	if err != nil {
		t.Fatalf("address count failed: %v", err)
	}
	if addressCount != 1 {
		t.Fatalf("expected one address row, got %d", addressCount)
	}

	junctions := repo.New[models.EntityAddress](client.DB(), "entity_address_id")
	junctionCount, err := junctions.QueryCount(ctx, nil)
	if err != nil {
		t.Fatalf("junctions count failed: %v", err)
	}
	if junctionCount != 1 {
		t.Fatalf("expected one junction row, got %d", junctionCount)
	}
}

func TestHandleAddressSharedAcrossParents(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	resolver := newTestResolver(t)
	first := createTestUser(t, client, "first@example.com")
	second := createTestUser(t, client, "second@example.com")

	for _, user := range []*models.User{first, second} {
		parent := orchestrator.Parent{Kind: enums.EntityTypeUser, ID: user.UserID}
		if err := resolver.HandleAddress(ctx, client.DB(), parent, addressValue()); err != nil {
			t.Fatalf("handle address failed: %v", err)
		}
	}

	addresses := repo.New[models.Address](client.DB(), "address_id")
	addressCount, err := addresses.QueryCount(ctx, nil)
	if err != nil {
		t.Fatalf("address count failed: %v", err)
	}
	if addressCount != 1 {
		t.Fatalf("identical addresses must share one row, got %d", addressCount)
	}

	junctions := repo.New[models.EntityAddress](client.DB(), "entity_address_id")
	junctionCount, err := junctions.QueryCount(ctx, nil)
	if err != nil {
		t.Fatalf("junction count failed: %v", err)
	}
	if junctionCount != 2 {
		t.Fatalf("expected a junction per parent, got %d", junctionCount)
	}
}

func TestHandleAddressRejectsUnknownType(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	resolver := newTestResolver(t)
	user := createTestUser(t, client, "ana@example.com")
	parent := orchestrator.Parent{Kind: enums.EntityTypeUser, ID: user.UserID}

	value := addressValue()
	value["address_type"] = "shipping"
	err := resolver.HandleAddress(ctx, client.DB(), parent, value)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestHandleAddressUpdateByID(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	resolver := newTestResolver(t)
	user := createTestUser(t, client, "ana@example.com")
	parent := orchestrator.Parent{Kind: enums.EntityTypeUser, ID: user.UserID}

	if err := resolver.HandleAddress(ctx, client.DB(), parent, addressValue()); err != nil {
		t.Fatalf("initial handle failed: %v", err)
	}

	addresses := repo.New[models.Address](client.DB(), "address_id")
	existing, err := addresses.QueryOne(ctx, map[string]any{"address_1": "12 Harbor Lane"})
	if err != nil {
		t.Fatalf("address lookup failed: %v", err)
	}

	value := addressValue()
	value["address_id"] = existing.AddressID.String()
	value["address_1"] = "99 Renamed Way"
	if err := resolver.HandleAddress(ctx, client.DB(), parent, value); err != nil {
		t.Fatalf("update handle failed: %v", err)
	}

	updated, err := addresses.Get(ctx, existing.AddressID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if updated.Address1 != "99 Renamed Way" {
		t.Fatalf("expected in-place update, got %q", updated.Address1)
	}

	count, err := addresses.QueryCount(ctx, nil)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("update must not mint a second row, got %d", count)
	}
}
