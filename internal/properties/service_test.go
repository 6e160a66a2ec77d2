package properties

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
		&models.PropertyUnitAssoc{},
		&models.Property{},
		&models.Units{},
		&models.Country{},
		&models.Region{},
		&models.City{},
		&models.Address{},
		&models.EntityAddress{},
		&models.Media{},
		&models.EntityMedia{},
		&models.Amenity{},
		&models.EntityAmenity{},
		&models.Utility{},
		&models.PaymentType{},
		&models.EntityBillable{},
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
	if err := registry.Register(UnitProfile(resolver)); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	orch, err := orchestrator.New(client, registry, logg)
	if err != nil {
		t.Fatalf("orchestrator boot failed: %v", err)
	}
	svc, err := NewService(client, orch, resolver, logg)
	if err != nil {
		t.Fatalf("service boot failed: %v", err)
	}
	return svc, client
}

func propertyDocument() orchestrator.Document {
	return orchestrator.Document{
		"name":            "Harbor View Apartments",
		"property_type":   "residential",
		"property_status": "available",
		"amount":          "1800.00",
		"num_units":       12,
		"features":        []any{"gym", "pool"},
		"address": []any{
			map[string]any{
				"address_type": "billing",
				"address_1":    "12 Harbor Lane",
				"city":         "Oklahoma City",
				"region":       "Oklahoma",
				"country":      "United States",
			},
		},
		"media": []any{
			map[string]any{
				"media_name":  "front",
				"media_type":  "image",
				"content_url": "https://cdn.example.com/front.jpg",
			},
		},
		"amenities": []any{
			map[string]any{"amenity_name": "Pool", "amenity_short_name": "pool"},
		},
	}
}

func TestCreatePropertyMintsAssocAndAspects(t *testing.T) {
	ctx := context.Background()
	svc, client := newTestService(t)

	result, err := svc.Create(ctx, propertyDocument())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	property, ok := result.(*models.Property)
	if !ok {
		t.Fatalf("unexpected projection type %T", result)
	}

	assocs := repo.New[models.PropertyUnitAssoc](client.DB(), "property_unit_assoc_id")
	assoc, err := assocs.Get(ctx, property.PropertyUnitAssocID)
	if err != nil {
		t.Fatalf("assoc lookup failed: %v", err)
	}
	if assoc.PropertyUnitType != enums.AssocTypeProperty {
		t.Fatalf("unexpected assoc kind %q", assoc.PropertyUnitType)
	}

	if len(property.Features) != 2 {
		t.Fatalf("expected features to round-trip, got %v", property.Features)
	}

	junctions := repo.New[models.EntityAddress](client.DB(), "entity_address_id")
	addressCount, err := junctions.QueryCount(ctx, map[string]any{"entity_id": property.PropertyUnitAssocID})
	if err != nil {
		t.Fatalf("address count failed: %v", err)
	}
	if addressCount != 1 {
		t.Fatalf("expected one address junction, got %d", addressCount)
	}

	mediaLinks := repo.New[models.EntityMedia](client.DB(), "entity_media_id")
	mediaCount, err := mediaLinks.QueryCount(ctx, map[string]any{"entity_id": property.PropertyUnitAssocID})
	if err != nil {
		t.Fatalf("media count failed: %v", err)
	}
	if mediaCount != 1 {
		t.Fatalf("expected one media junction, got %d", mediaCount)
	}

	amenityLinks := repo.New[models.EntityAmenity](client.DB(), "entity_amenity_id")
	amenityCount, err := amenityLinks.QueryCount(ctx, map[string]any{"entity_id": property.PropertyUnitAssocID})
	if err != nil {
		t.Fatalf("amenity count failed: %v", err)
	}
	if amenityCount != 1 {
		t.Fatalf("expected one amenity junction, got %d", amenityCount)
	}
}

func TestCreatePropertyRejectsBadType(t *testing.T) {
	svc, _ := newTestService(t)
	doc := propertyDocument()
	doc["property_type"] = "castle"
	_, err := svc.Create(context.Background(), doc)
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdatePropertyKeepsAssocID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	result, err := svc.Create(ctx, propertyDocument())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	created := result.(*models.Property)

	updated, err := svc.Update(ctx, created.PropertyUnitAssocID, orchestrator.Document{
		"name":            "Harbor View Apartments",
		"property_status": "unavailable",
	})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	property := updated.(*models.Property)
	if property.PropertyUnitAssocID != created.PropertyUnitAssocID {
		t.Fatal("updates must not mint a new association")
	}
	if property.PropertyStatus != enums.PropertyStatusUnavailable {
		t.Fatalf("unexpected status %q", property.PropertyStatus)
	}
}

func TestCreateUnitUnderProperty(t *testing.T) {
	ctx := context.Background()
	svc, client := newTestService(t)

	result, err := svc.Create(ctx, propertyDocument())
	if err != nil {
		t.Fatalf("create property failed: %v", err)
	}
	property := result.(*models.Property)

	unitResult, err := svc.CreateUnit(ctx, orchestrator.Document{
		"property_id":          property.PropertyUnitAssocID.String(),
		"property_unit_code":   "A-101",
		"property_status":      "available",
		"property_unit_amount": "950.00",
	})
	if err != nil {
		t.Fatalf("create unit failed: %v", err)
	}
	unit, ok := unitResult.(*models.Units)
	if !ok {
		t.Fatalf("unexpected projection type %T", unitResult)
	}
	if unit.PropertyID != property.PropertyUnitAssocID {
		t.Fatal("unit must reference its property")
	}

	assocs := repo.New[models.PropertyUnitAssoc](client.DB(), "property_unit_assoc_id")
	assoc, err := assocs.Get(ctx, unit.PropertyUnitAssocID)
	if err != nil {
		t.Fatalf("assoc lookup failed: %v", err)
	}
	if assoc.PropertyUnitType != enums.AssocTypeUnits {
		t.Fatalf("unexpected assoc kind %q", assoc.PropertyUnitType)
	}

	// The property reload picks the unit up.
	reloaded, err := svc.Get(ctx, property.PropertyUnitAssocID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if len(reloaded.Units) != 1 {
		t.Fatalf("expected one unit on reload, got %d", len(reloaded.Units))
	}
}

func TestCreateUnitUnknownProperty(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateUnit(context.Background(), orchestrator.Document{
		"property_id":     uuid.NewString(),
		"property_status": "available",
	})
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLinkMediaAndAmenity(t *testing.T) {
	ctx := context.Background()
	svc, client := newTestService(t)

	doc := propertyDocument()
	delete(doc, "media")
	delete(doc, "amenities")
	result, err := svc.Create(ctx, doc)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	property := result.(*models.Property)

	err = svc.LinkMedia(ctx, property.PropertyUnitAssocID, []aspects.MediaPayload{
		{MediaName: "lobby", MediaType: "image", ContentURL: "https://cdn.example.com/lobby.jpg"},
	})
	if err != nil {
		t.Fatalf("link media failed: %v", err)
	}
	err = svc.LinkAmenity(ctx, property.PropertyUnitAssocID, aspects.AmenityPayload{AmenityName: "Gym"})
	if err != nil {
		t.Fatalf("link amenity failed: %v", err)
	}

	mediaLinks := repo.New[models.EntityMedia](client.DB(), "entity_media_id")
	mediaCount, err := mediaLinks.QueryCount(ctx, map[string]any{"entity_id": property.PropertyUnitAssocID})
	if err != nil {
		t.Fatalf("media count failed: %v", err)
	}
	if mediaCount != 1 {
		t.Fatalf("expected one media junction, got %d", mediaCount)
	}

	// Re-linking the same media is idempotent.
	err = svc.LinkMedia(ctx, property.PropertyUnitAssocID, []aspects.MediaPayload{
		{MediaName: "lobby", MediaType: "image", ContentURL: "https://cdn.example.com/lobby.jpg"},
	})
	if err != nil {
		t.Fatalf("re-link media failed: %v", err)
	}
	mediaCount, err = mediaLinks.QueryCount(ctx, map[string]any{"entity_id": property.PropertyUnitAssocID})
	if err != nil {
		t.Fatalf("media count failed: %v", err)
	}
	if mediaCount != 1 {
		t.Fatalf("re-linking must not duplicate the junction, got %d", mediaCount)
	}

	if err := svc.LinkMedia(ctx, uuid.New(), nil); !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found for unknown property, got %v", err)
	}

	rows, total, err := svc.List(ctx, pagination.Params{Limit: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("expected one property, got total=%d len=%d", total, len(rows))
	}
}
