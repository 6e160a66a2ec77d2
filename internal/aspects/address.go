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

// AddressPayload is one address aspect element.
type AddressPayload struct {
	AddressID            *uuid.UUID `json:"address_id,omitempty"`
	AddressType          string     `json:"address_type" validate:"required,oneof=billing mailing"`
	PrimaryAddress       bool       `json:"primary_address"`
	Address1             string     `json:"address_1" validate:"required"`
	Address2             string     `json:"address_2"`
	AddressPostalCode    string     `json:"address_postalcode"`
	City                 string     `json:"city" validate:"required"`
	Region               string     `json:"region" validate:"required"`
	Country              string     `json:"country" validate:"required"`
	EmergencyAddress     bool       `json:"emergency_address"`
	EmergencyAddressHash string     `json:"emergency_address_hash"`
}

// HandleAddress resolves the country, region and city by name top-down,
// upserts the address row and writes the polymorphic junction for the
// parent. Prior junctions are left in place.
func (r *Resolver) HandleAddress(ctx context.Context, tx *gorm.DB, parent orchestrator.Parent, value any) error {
	var payload AddressPayload
	if err := orchestrator.Decode(value, &payload); err != nil {
		return err
	}

	address, err := r.upsertAddress(ctx, tx, payload)
	if err != nil {
		return err
	}

	return r.linkAddress(ctx, tx, parent, address.AddressID, payload)
}

func (r *Resolver) upsertAddress(ctx context.Context, tx *gorm.DB, payload AddressPayload) (*models.Address, error) {
	countries := repo.New[models.Country](tx, "country_id")
	regions := repo.New[models.Region](tx, "region_id")
	cities := repo.New[models.City](tx, "city_id")
	addresses := repo.New[models.Address](tx, "address_id")

	country, _, err := countries.QueryOnCreate(ctx, map[string]any{"country_name": payload.Country}, func() *models.Country {
		return &models.Country{CountryName: payload.Country}
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeAssociation, err, "resolving country")
	}

	region, _, err := regions.QueryOnCreate(ctx, map[string]any{"country_id": country.CountryID, "region_name": payload.Region}, func() *models.Region {
		return &models.Region{CountryID: country.CountryID, RegionName: payload.Region}
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeAssociation, err, "resolving region")
	}

	city, _, err := cities.QueryOnCreate(ctx, map[string]any{"region_id": region.RegionID, "city_name": payload.City}, func() *models.City {
		return &models.City{RegionID: region.RegionID, CityName: payload.City}
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeAssociation, err, "resolving city")
	}

	if payload.AddressID != nil {
		existing, err := addresses.Get(ctx, *payload.AddressID)
		if err != nil {
			return nil, err
		}
		return addresses.Update(ctx, existing, map[string]any{
			"address_type":       payload.AddressType,
			"primary_address":    payload.PrimaryAddress,
			"address_1":          payload.Address1,
			"address_2":          payload.Address2,
			"address_postalcode": payload.AddressPostalCode,
			"city_id":            city.CityID,
			"region_id":          region.RegionID,
			"country_id":         country.CountryID,
		})
	}

	naturalKey := map[string]any{
		"address_type":       payload.AddressType,
		"address_1":          payload.Address1,
		"address_2":          payload.Address2,
		"address_postalcode": payload.AddressPostalCode,
		"city_id":            city.CityID,
	}
	address, _, err := addresses.QueryOnCreate(ctx, naturalKey, func() *models.Address {
		return &models.Address{
			AddressType:       enums.AddressType(payload.AddressType),
			PrimaryAddress:    payload.PrimaryAddress,
			Address1:          payload.Address1,
			Address2:          payload.Address2,
			AddressPostalCode: payload.AddressPostalCode,
			CityID:            city.CityID,
			RegionID:          region.RegionID,
			CountryID:         country.CountryID,
		}
	})
	if err != nil {
		return nil, err
	}
	return address, nil
}

func (r *Resolver) linkAddress(ctx context.Context, tx *gorm.DB, parent orchestrator.Parent, addressID uuid.UUID, payload AddressPayload) error {
	junctions := repo.New[models.EntityAddress](tx, "entity_address_id")
	tuple := map[string]any{
		"entity_type": parent.Kind,
		"entity_id":   parent.ID,
		"address_id":  addressID,
	}
	link, created, err := junctions.QueryOnCreate(ctx, tuple, func() *models.EntityAddress {
		return &models.EntityAddress{
			EntityType:           parent.Kind,
			EntityID:             parent.ID,
			AddressID:            addressID,
			EmergencyAddress:     payload.EmergencyAddress,
			EmergencyAddressHash: payload.EmergencyAddressHash,
		}
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeAssociation, err, "linking address")
	}
	if !created && (payload.EmergencyAddress || payload.EmergencyAddressHash != "") {
		_, err = junctions.Update(ctx, link, map[string]any{
			"emergency_address":      payload.EmergencyAddress,
			"emergency_address_hash": payload.EmergencyAddressHash,
		})
		return err
	}
	return nil
}
