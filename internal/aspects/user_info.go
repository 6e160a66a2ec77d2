package aspects

import (
	"context"

	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/internal/orchestrator"
	"github.com/oakline/oakline-backend/internal/repo"
	"github.com/oakline/oakline-backend/pkg/db/models"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
	"github.com/oakline/oakline-backend/pkg/security"

	"github.com/google/uuid"
)

// UserAuthPayload carries the credentials aspect for a user document.
type UserAuthPayload struct {
	Password string `json:"password" validate:"required,min=6"`
}

// HandleUserAuth hashes the password before write and mints verification
// and subscription tokens when the user does not have them yet.
func (r *Resolver) HandleUserAuth(ctx context.Context, tx *gorm.DB, parent orchestrator.Parent, value any) error {
	var payload UserAuthPayload
	if err := orchestrator.Decode(value, &payload); err != nil {
		return err
	}

	users := repo.New[models.User](tx, "user_id")
	user, err := users.Get(ctx, parent.ID)
	if err != nil {
		return err
	}

	hash, err := security.HashPassword(payload.Password, r.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	fields := map[string]any{"password_hash": hash}
	if user.VerificationToken == "" {
		token, err := security.GenerateOpaqueToken()
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting verification token")
		}
		fields["verification_token"] = token
	}
	if user.SubscriptionToken == "" {
		token, err := security.GenerateOpaqueToken()
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting subscription token")
		}
		fields["subscription_token"] = token
	}

	_, err = users.Update(ctx, user, fields)
	return err
}

// UserEmployerPayload carries employment details written straight onto the
// user row.
type UserEmployerPayload struct {
	EmployerName       string `json:"employer_name"`
	OccupationStatus   string `json:"occupation_status"`
	OccupationLocation string `json:"occupation_location"`
}

func (r *Resolver) HandleUserEmployer(ctx context.Context, tx *gorm.DB, parent orchestrator.Parent, value any) error {
	var payload UserEmployerPayload
	if err := orchestrator.Decode(value, &payload); err != nil {
		return err
	}

	users := repo.New[models.User](tx, "user_id")
	user, err := users.Get(ctx, parent.ID)
	if err != nil {
		return err
	}

	if _, err := users.Update(ctx, user, map[string]any{
		"employer_name":       payload.EmployerName,
		"occupation_status":   payload.OccupationStatus,
		"occupation_location": payload.OccupationLocation,
	}); err != nil {
		return err
	}
	return linkEmployerCompany(ctx, tx, user.UserID, payload.EmployerName)
}

// linkEmployerCompany records company membership for the employer. The
// company row is resolved by name, created on first sight, and the junction
// merges on the user and company pair.
func linkEmployerCompany(ctx context.Context, tx *gorm.DB, userID uuid.UUID, employerName string) error {
	if employerName == "" {
		return nil
	}

	companies := repo.New[models.Company](tx, "company_id")
	company, _, err := companies.QueryOnCreate(ctx,
		map[string]any{"company_name": employerName},
		func() *models.Company { return &models.Company{CompanyName: employerName} },
	)
	if err != nil {
		return err
	}

	memberships := repo.New[models.UserCompany](tx, "user_company_id")
	_, _, err = memberships.QueryOnCreate(ctx,
		map[string]any{"user_id": userID, "company_id": company.CompanyID},
		func() *models.UserCompany {
			return &models.UserCompany{UserID: userID, CompanyID: company.CompanyID}
		},
	)
	return err
}

// UserEmergencyPayload carries emergency contact details plus an optional
// emergency address, which is linked through the address handler with the
// minted hash.
type UserEmergencyPayload struct {
	EmergencyContactName     string          `json:"emergency_contact_name"`
	EmergencyContactEmail    string          `json:"emergency_contact_email" validate:"omitempty,email"`
	EmergencyContactRelation string          `json:"emergency_contact_relation"`
	EmergencyContactNumber   string          `json:"emergency_contact_number"`
	Address                  *AddressPayload `json:"address,omitempty"`
}

func (r *Resolver) HandleUserEmergency(ctx context.Context, tx *gorm.DB, parent orchestrator.Parent, value any) error {
	var payload UserEmergencyPayload
	if err := orchestrator.Decode(value, &payload); err != nil {
		return err
	}

	users := repo.New[models.User](tx, "user_id")
	user, err := users.Get(ctx, parent.ID)
	if err != nil {
		return err
	}

	fields := map[string]any{
		"emergency_contact_name":     payload.EmergencyContactName,
		"emergency_contact_email":    payload.EmergencyContactEmail,
		"emergency_contact_relation": payload.EmergencyContactRelation,
		"emergency_contact_number":   payload.EmergencyContactNumber,
	}

	addressHash := user.EmergencyAddressHash
	if payload.Address != nil && addressHash == nil {
		minted := uuid.New()
		addressHash = &minted
		fields["emergency_address_hash"] = minted
	}

	if _, err := users.Update(ctx, user, fields); err != nil {
		return err
	}

	if payload.Address != nil {
		address := *payload.Address
		address.EmergencyAddress = true
		address.EmergencyAddressHash = addressHash.String()
		if err := r.HandleAddress(ctx, tx, parent, address); err != nil {
			return err
		}
	}
	return nil
}
