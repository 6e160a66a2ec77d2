package properties

import (
	"context"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/internal/aspects"
	"github.com/oakline/oakline-backend/internal/orchestrator"
	"github.com/oakline/oakline-backend/internal/repo"
	"github.com/oakline/oakline-backend/pkg/db"
	"github.com/oakline/oakline-backend/pkg/db/models"
	"github.com/oakline/oakline-backend/pkg/enums"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
	"github.com/oakline/oakline-backend/pkg/logger"
	"github.com/oakline/oakline-backend/pkg/pagination"
)

// Service exposes property and unit CRUD through the orchestrator plus the
// association link endpoints.
type Service interface {
	List(ctx context.Context, p pagination.Params) ([]models.Property, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Property, error)
	Create(ctx context.Context, doc orchestrator.Document) (any, error)
	Update(ctx context.Context, id uuid.UUID, doc orchestrator.Document) (any, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListUnits(ctx context.Context, p pagination.Params) ([]models.Units, int64, error)
	GetUnit(ctx context.Context, id uuid.UUID) (*models.Units, error)
	CreateUnit(ctx context.Context, doc orchestrator.Document) (any, error)
	UpdateUnit(ctx context.Context, id uuid.UUID, doc orchestrator.Document) (any, error)
	DeleteUnit(ctx context.Context, id uuid.UUID) error

	LinkMedia(ctx context.Context, propertyID uuid.UUID, media []aspects.MediaPayload) error
	LinkAmenity(ctx context.Context, propertyID uuid.UUID, amenity aspects.AmenityPayload) error
}

type service struct {
	client   *db.Client
	orch     *orchestrator.Orchestrator
	resolver *aspects.Resolver
	logg     *logger.Logger
}

func NewService(client *db.Client, orch *orchestrator.Orchestrator, resolver *aspects.Resolver, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "db client is required")
	}
	if orch == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orchestrator is required")
	}
	if resolver == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "aspect resolver is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{client: client, orch: orch, resolver: resolver, logg: logg}, nil
}

// Profile declares the property orchestration: the shared property-unit
// association row is written first so aspects and contracts can reference
// it.
func Profile(resolver *aspects.Resolver) orchestrator.Profile {
	return orchestrator.Profile{
		Kind:    enums.EntityTypeProperty,
		Persist: persistProperty,
		Reload:  reloadProperty,
		Bindings: []orchestrator.Binding{
			{Key: "address", List: true, Handler: resolver.HandleAddress},
			{Key: "media", List: true, Handler: resolver.HandleMedia},
			{Key: "amenities", List: true, Handler: resolver.HandleAmenity},
			{Key: "utilities", List: true, Handler: resolver.HandleBillable},
		},
	}
}

// UnitProfile mirrors the property profile for units.
func UnitProfile(resolver *aspects.Resolver) orchestrator.Profile {
	return orchestrator.Profile{
		Kind:    enums.EntityTypeUnits,
		Persist: persistUnit,
		Reload:  reloadUnit,
		Bindings: []orchestrator.Binding{
			{Key: "media", List: true, Handler: resolver.HandleMedia},
			{Key: "amenities", List: true, Handler: resolver.HandleAmenity},
			{Key: "utilities", List: true, Handler: resolver.HandleBillable},
		},
	}
}

type propertyFields struct {
	Name            string          `json:"name" validate:"required"`
	PropertyType    string          `json:"property_type" validate:"required"`
	PropertyStatus  string          `json:"property_status" validate:"required"`
	Amount          decimal.Decimal `json:"amount"`
	SecurityDeposit decimal.Decimal `json:"security_deposit"`
	Commission      decimal.Decimal `json:"commission"`
	FloorSpace      int             `json:"floor_space"`
	NumUnits        int             `json:"num_units"`
	NumBathrooms    int             `json:"num_bathrooms"`
	NumGarages      int             `json:"num_garages"`
	HasBalconies    bool            `json:"has_balconies"`
	HasParkingSpace bool            `json:"has_parking_space"`
	PetsAllowed     bool            `json:"pets_allowed"`
	Description     string          `json:"description"`
	Features        []string        `json:"features"`
}

var propertySchema = []string{
	"name", "property_type", "property_status", "amount", "security_deposit", "commission",
	"floor_space", "num_units", "num_bathrooms", "num_garages", "has_balconies",
	"has_parking_space", "pets_allowed", "description", "features",
}

func persistProperty(ctx context.Context, tx *gorm.DB, op orchestrator.Operation, doc orchestrator.Document, existingID *uuid.UUID) (uuid.UUID, error) {
	properties := repo.New[models.Property](tx, "property_unit_assoc_id")

	var fields propertyFields
	if op == orchestrator.OpUpdate {
		existing, err := properties.Get(ctx, *existingID)
		if err != nil {
			return uuid.Nil, err
		}
		fields.Name = existing.Name
		fields.PropertyType = existing.PropertyType.String()
		fields.PropertyStatus = existing.PropertyStatus.String()
	}

	if err := orchestrator.Decode(doc.Project(propertySchema), &fields); err != nil {
		return uuid.Nil, err
	}

	propertyType, err := enums.ParsePropertyType(fields.PropertyType)
	if err != nil {
		return uuid.Nil, pkgerrors.Newf(pkgerrors.CodeValidation, "property_type validation is incorrect: %v", err)
	}
	propertyStatus, err := enums.ParsePropertyStatus(fields.PropertyStatus)
	if err != nil {
		return uuid.Nil, pkgerrors.Newf(pkgerrors.CodeValidation, "property_status validation is incorrect: %v", err)
	}

	if op == orchestrator.OpUpdate {
		existing, err := properties.Get(ctx, *existingID)
		if err != nil {
			return uuid.Nil, err
		}
		_, err = properties.Update(ctx, existing, map[string]any{
			"name":              fields.Name,
			"property_type":     propertyType,
			"property_status":   propertyStatus,
			"amount":            fields.Amount,
			"security_deposit":  fields.SecurityDeposit,
			"commission":        fields.Commission,
			"floor_space":       fields.FloorSpace,
			"num_units":         fields.NumUnits,
			"num_bathrooms":     fields.NumBathrooms,
			"num_garages":       fields.NumGarages,
			"has_balconies":     fields.HasBalconies,
			"has_parking_space": fields.HasParkingSpace,
			"pets_allowed":      fields.PetsAllowed,
			"description":       fields.Description,
			"features":          pq.StringArray(fields.Features),
		})
		if err != nil {
			return uuid.Nil, err
		}
		return existing.PropertyUnitAssocID, nil
	}

	assocs := repo.New[models.PropertyUnitAssoc](tx, "property_unit_assoc_id")
	assoc, err := assocs.Create(ctx, &models.PropertyUnitAssoc{PropertyUnitType: enums.AssocTypeProperty})
	if err != nil {
		return uuid.Nil, err
	}

	_, err = properties.Create(ctx, &models.Property{
		PropertyUnitAssocID: assoc.PropertyUnitAssocID,
		Name:                fields.Name,
		PropertyType:        propertyType,
		PropertyStatus:      propertyStatus,
		Amount:              fields.Amount,
		SecurityDeposit:     fields.SecurityDeposit,
		Commission:          fields.Commission,
		FloorSpace:          fields.FloorSpace,
		NumUnits:            fields.NumUnits,
		NumBathrooms:        fields.NumBathrooms,
		NumGarages:          fields.NumGarages,
		HasBalconies:        fields.HasBalconies,
		HasParkingSpace:     fields.HasParkingSpace,
		PetsAllowed:         fields.PetsAllowed,
		Description:         fields.Description,
		Features:            pq.StringArray(fields.Features),
	})
	if err != nil {
		return uuid.Nil, err
	}
	return assoc.PropertyUnitAssocID, nil
}

type unitFields struct {
	PropertyID                  uuid.UUID       `json:"property_id" validate:"required"`
	PropertyUnitCode            string          `json:"property_unit_code"`
	PropertyUnitFloorSpace      int             `json:"property_unit_floor_space"`
	PropertyUnitAmount          decimal.Decimal `json:"property_unit_amount"`
	PropertyUnitSecurityDeposit decimal.Decimal `json:"property_unit_security_deposit"`
	PropertyUnitCommission      decimal.Decimal `json:"property_unit_commission"`
	PropertyFloorID             int             `json:"property_floor_id"`
	PropertyStatus              string          `json:"property_status" validate:"required"`
	HasBalcony                  bool            `json:"has_balcony"`
	HasParkingSpace             bool            `json:"has_parking_space"`
	PetsAllowed                 bool            `json:"pets_allowed"`
	Description                 string          `json:"description"`
}

var unitSchema = []string{
	"property_id", "property_unit_code", "property_unit_floor_space", "property_unit_amount",
	"property_unit_security_deposit", "property_unit_commission", "property_floor_id",
	"property_status", "has_balcony", "has_parking_space", "pets_allowed", "description",
}

func persistUnit(ctx context.Context, tx *gorm.DB, op orchestrator.Operation, doc orchestrator.Document, existingID *uuid.UUID) (uuid.UUID, error) {
	units := repo.New[models.Units](tx, "property_unit_assoc_id")

	var fields unitFields
	if op == orchestrator.OpUpdate {
		existing, err := units.Get(ctx, *existingID)
		if err != nil {
			return uuid.Nil, err
		}
		fields.PropertyID = existing.PropertyID
		fields.PropertyStatus = existing.PropertyStatus.String()
	}

	if err := orchestrator.Decode(doc.Project(unitSchema), &fields); err != nil {
		return uuid.Nil, err
	}

	propertyStatus, err := enums.ParsePropertyStatus(fields.PropertyStatus)
	if err != nil {
		return uuid.Nil, pkgerrors.Newf(pkgerrors.CodeValidation, "property_status validation is incorrect: %v", err)
	}

	properties := repo.New[models.Property](tx, "property_unit_assoc_id")
	if _, err := properties.Get(ctx, fields.PropertyID); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return uuid.Nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "property %s does not exist", fields.PropertyID)
		}
		return uuid.Nil, err
	}

	if op == orchestrator.OpUpdate {
		existing, err := units.Get(ctx, *existingID)
		if err != nil {
			return uuid.Nil, err
		}
		_, err = units.Update(ctx, existing, map[string]any{
			"property_unit_code":             fields.PropertyUnitCode,
			"property_unit_floor_space":      fields.PropertyUnitFloorSpace,
			"property_unit_amount":           fields.PropertyUnitAmount,
			"property_unit_security_deposit": fields.PropertyUnitSecurityDeposit,
			"property_unit_commission":       fields.PropertyUnitCommission,
			"property_floor_id":              fields.PropertyFloorID,
			"property_status":                propertyStatus,
			"has_balcony":                    fields.HasBalcony,
			"has_parking_space":              fields.HasParkingSpace,
			"pets_allowed":                   fields.PetsAllowed,
			"description":                    fields.Description,
		})
		if err != nil {
			return uuid.Nil, err
		}
		return existing.PropertyUnitAssocID, nil
	}

	assocs := repo.New[models.PropertyUnitAssoc](tx, "property_unit_assoc_id")
	assoc, err := assocs.Create(ctx, &models.PropertyUnitAssoc{PropertyUnitType: enums.AssocTypeUnits})
	if err != nil {
		return uuid.Nil, err
	}

	_, err = units.Create(ctx, &models.Units{
		PropertyUnitAssocID:         assoc.PropertyUnitAssocID,
		PropertyID:                  fields.PropertyID,
		PropertyUnitCode:            fields.PropertyUnitCode,
		PropertyUnitFloorSpace:      fields.PropertyUnitFloorSpace,
		PropertyUnitAmount:          fields.PropertyUnitAmount,
		PropertyUnitSecurityDeposit: fields.PropertyUnitSecurityDeposit,
		PropertyUnitCommission:      fields.PropertyUnitCommission,
		PropertyFloorID:             fields.PropertyFloorID,
		PropertyStatus:              propertyStatus,
		HasBalcony:                  fields.HasBalcony,
		HasParkingSpace:             fields.HasParkingSpace,
		PetsAllowed:                 fields.PetsAllowed,
		Description:                 fields.Description,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return assoc.PropertyUnitAssocID, nil
}

func reloadProperty(ctx context.Context, tx *gorm.DB, id uuid.UUID) (any, error) {
	properties := repo.New[models.Property](tx, "property_unit_assoc_id")
	return properties.Get(ctx, id, "Units")
}

func reloadUnit(ctx context.Context, tx *gorm.DB, id uuid.UUID) (any, error) {
	units := repo.New[models.Units](tx, "property_unit_assoc_id")
	return units.Get(ctx, id)
}

func (s *service) List(ctx context.Context, p pagination.Params) ([]models.Property, int64, error) {
	properties := repo.New[models.Property](s.client.DB(), "property_unit_assoc_id")
	return properties.GetAll(ctx, p, "Units")
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	properties := repo.New[models.Property](s.client.DB(), "property_unit_assoc_id")
	return properties.Get(ctx, id, "Units")
}

func (s *service) Create(ctx context.Context, doc orchestrator.Document) (any, error) {
	return s.orch.Persist(ctx, enums.EntityTypeProperty, orchestrator.OpCreate, doc, nil)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, doc orchestrator.Document) (any, error) {
	return s.orch.Persist(ctx, enums.EntityTypeProperty, orchestrator.OpUpdate, doc, &id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	properties := repo.New[models.Property](s.client.DB(), "property_unit_assoc_id")
	return properties.Delete(ctx, id)
}

func (s *service) ListUnits(ctx context.Context, p pagination.Params) ([]models.Units, int64, error) {
	units := repo.New[models.Units](s.client.DB(), "property_unit_assoc_id")
	return units.GetAll(ctx, p)
}

func (s *service) GetUnit(ctx context.Context, id uuid.UUID) (*models.Units, error) {
	units := repo.New[models.Units](s.client.DB(), "property_unit_assoc_id")
	return units.Get(ctx, id)
}

func (s *service) CreateUnit(ctx context.Context, doc orchestrator.Document) (any, error) {
	return s.orch.Persist(ctx, enums.EntityTypeUnits, orchestrator.OpCreate, doc, nil)
}

func (s *service) UpdateUnit(ctx context.Context, id uuid.UUID, doc orchestrator.Document) (any, error) {
	return s.orch.Persist(ctx, enums.EntityTypeUnits, orchestrator.OpUpdate, doc, &id)
}

func (s *service) DeleteUnit(ctx context.Context, id uuid.UUID) error {
	units := repo.New[models.Units](s.client.DB(), "property_unit_assoc_id")
	return units.Delete(ctx, id)
}

// LinkMedia attaches media to an existing property outside the orchestrated
// create/update path.
func (s *service) LinkMedia(ctx context.Context, propertyID uuid.UUID, media []aspects.MediaPayload) error {
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		properties := repo.New[models.Property](tx, "property_unit_assoc_id")
		if _, err := properties.Get(ctx, propertyID); err != nil {
			return err
		}
		parent := orchestrator.Parent{Kind: enums.EntityTypeProperty, ID: propertyID}
		for _, item := range media {
			if err := s.resolver.HandleMedia(ctx, tx, parent, item); err != nil {
				return err
			}
		}
		return nil
	})
}

// LinkAmenity attaches an amenity to an existing property.
func (s *service) LinkAmenity(ctx context.Context, propertyID uuid.UUID, amenity aspects.AmenityPayload) error {
	return s.client.WithTx(ctx, func(tx *gorm.DB) error {
		properties := repo.New[models.Property](tx, "property_unit_assoc_id")
		if _, err := properties.Get(ctx, propertyID); err != nil {
			return err
		}
		parent := orchestrator.Parent{Kind: enums.EntityTypeProperty, ID: propertyID}
		return s.resolver.HandleAmenity(ctx, tx, parent, amenity)
	})
}
