package users

import (
	"context"
	"time"

	"github.com/google/uuid"
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
	"github.com/oakline/oakline-backend/pkg/security"
)

// Service exposes user CRUD through the orchestrator plus role management.
type Service interface {
	List(ctx context.Context, p pagination.Params) ([]models.User, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, doc orchestrator.Document) (any, error)
	Update(ctx context.Context, id uuid.UUID, doc orchestrator.Document) (any, error)
	Delete(ctx context.Context, id uuid.UUID) error
	AddRole(ctx context.Context, userID uuid.UUID, roleAlias string) (*models.User, error)
	RemoveRole(ctx context.Context, userID uuid.UUID, roleAlias string) (*models.User, error)
}

type service struct {
	client *db.Client
	orch   *orchestrator.Orchestrator
	logg   *logger.Logger
}

func NewService(client *db.Client, orch *orchestrator.Orchestrator, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "db client is required")
	}
	if orch == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orchestrator is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{client: client, orch: orch, logg: logg}, nil
}

// Profile declares how user documents are orchestrated: parent row first,
// then credentials, employment, emergency info, addresses and rental
// history on the same transaction.
func Profile(resolver *aspects.Resolver) orchestrator.Profile {
	return orchestrator.Profile{
		Kind:    enums.EntityTypeUser,
		Persist: persistUser,
		Reload:  reloadUser,
		Bindings: []orchestrator.Binding{
			{Key: "user_auth_info", Handler: resolver.HandleUserAuth},
			{Key: "user_employer_info", Handler: resolver.HandleUserEmployer},
			{Key: "user_emergency_info", Handler: resolver.HandleUserEmergency},
			{Key: "address", List: true, Handler: resolver.HandleAddress},
			{Key: "media", List: true, Handler: resolver.HandleMedia},
			{Key: "rental_history", List: true, Handler: resolver.HandleRentalHistory},
		},
	}
}

type userFields struct {
	FirstName            string     `json:"first_name" validate:"required"`
	LastName             string     `json:"last_name" validate:"required"`
	Email                string     `json:"email" validate:"required,email"`
	PhoneNumber          string     `json:"phone_number"`
	IdentificationNumber string     `json:"identification_number"`
	Gender               string     `json:"gender"`
	DateOfBirth          string     `json:"date_of_birth"`
	UserID               *uuid.UUID `json:"user_id,omitempty"`
}

var userSchema = []string{"first_name", "last_name", "email", "phone_number", "identification_number", "gender", "date_of_birth", "user_id"}

func persistUser(ctx context.Context, tx *gorm.DB, op orchestrator.Operation, doc orchestrator.Document, existingID *uuid.UUID) (uuid.UUID, error) {
	users := repo.New[models.User](tx, "user_id")

	if op == orchestrator.OpUpdate {
		existing, err := users.Get(ctx, *existingID)
		if err != nil {
			return uuid.Nil, err
		}

		var fields userFields
		fields.FirstName = existing.FirstName
		fields.LastName = existing.LastName
		fields.Email = existing.Email
		if err := orchestrator.Decode(doc.Project(userSchema), &fields); err != nil {
			return uuid.Nil, err
		}
		updates, err := userUpdates(fields)
		if err != nil {
			return uuid.Nil, err
		}
		if _, err := users.Update(ctx, existing, updates); err != nil {
			return uuid.Nil, err
		}
		return existing.UserID, nil
	}

	var fields userFields
	if err := orchestrator.Decode(doc.Project(userSchema), &fields); err != nil {
		return uuid.Nil, err
	}

	// A document carrying the id of a row that already exists merges into
	// that row instead of colliding on the email constraint.
	if fields.UserID != nil {
		existing, err := users.Get(ctx, *fields.UserID)
		if err == nil {
			updates, uerr := userUpdates(fields)
			if uerr != nil {
				return uuid.Nil, uerr
			}
			if _, uerr := users.Update(ctx, existing, updates); uerr != nil {
				return uuid.Nil, uerr
			}
			return existing.UserID, nil
		}
		if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return uuid.Nil, err
		}
	}

	gender, err := parseGender(fields.Gender)
	if err != nil {
		return uuid.Nil, err
	}
	dateOfBirth, err := orchestrator.ParseDate(fields.DateOfBirth)
	if err != nil {
		return uuid.Nil, err
	}

	verification, err := security.GenerateOpaqueToken()
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting verification token")
	}
	subscription, err := security.GenerateOpaqueToken()
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting subscription token")
	}

	user := &models.User{
		FirstName:            fields.FirstName,
		LastName:             fields.LastName,
		Email:                fields.Email,
		PhoneNumber:          fields.PhoneNumber,
		IdentificationNumber: fields.IdentificationNumber,
		Gender:               gender,
		DateOfBirth:          dateOfBirth,
		VerificationToken:    verification,
		SubscriptionToken:    subscription,
	}
	if fields.UserID != nil {
		user.UserID = *fields.UserID
	}

	created, err := users.Create(ctx, user)
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeDuplicate) {
			return uuid.Nil, pkgerrors.Newf(pkgerrors.CodeDuplicate, "email %q is already taken", fields.Email)
		}
		return uuid.Nil, err
	}
	return created.UserID, nil
}

func userUpdates(fields userFields) (map[string]any, error) {
	updates := map[string]any{
		"first_name":            fields.FirstName,
		"last_name":             fields.LastName,
		"email":                 fields.Email,
		"phone_number":          fields.PhoneNumber,
		"identification_number": fields.IdentificationNumber,
	}
	if fields.Gender != "" {
		gender, err := parseGender(fields.Gender)
		if err != nil {
			return nil, err
		}
		updates["gender"] = gender
	}
	if fields.DateOfBirth != "" {
		dateOfBirth, err := orchestrator.ParseDate(fields.DateOfBirth)
		if err != nil {
			return nil, err
		}
		updates["date_of_birth"] = dateOfBirth
	}
	return updates, nil
}

func parseGender(value string) (enums.Gender, error) {
	if value == "" {
		return "", nil
	}
	gender, err := enums.ParseGender(value)
	if err != nil {
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "gender validation is incorrect: %v", err)
	}
	return gender, nil
}

func reloadUser(ctx context.Context, tx *gorm.DB, id uuid.UUID) (any, error) {
	users := repo.New[models.User](tx, "user_id")
	return users.Get(ctx, id, "Roles")
}

func (s *service) List(ctx context.Context, p pagination.Params) ([]models.User, int64, error) {
	users := repo.New[models.User](s.client.DB(), "user_id")
	return users.GetAll(ctx, p, "Roles")
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	users := repo.New[models.User](s.client.DB(), "user_id")
	return users.Get(ctx, id, "Roles")
}

func (s *service) Create(ctx context.Context, doc orchestrator.Document) (any, error) {
	return s.orch.Persist(ctx, enums.EntityTypeUser, orchestrator.OpCreate, doc, nil)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, doc orchestrator.Document) (any, error) {
	return s.orch.Persist(ctx, enums.EntityTypeUser, orchestrator.OpUpdate, doc, &id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	users := repo.New[models.User](s.client.DB(), "user_id")
	return users.Delete(ctx, id)
}

// AddRole links the role alias to the user; linking an already-linked role
// is a no-op.
func (s *service) AddRole(ctx context.Context, userID uuid.UUID, roleAlias string) (*models.User, error) {
	var reloaded *models.User
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		users := repo.New[models.User](tx, "user_id")
		user, err := users.Get(ctx, userID)
		if err != nil {
			return err
		}
		role, err := roleByAlias(ctx, tx, roleAlias)
		if err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Model(user).Association("Roles").Append(role); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeAssociation, err, "linking role")
		}
		reloaded, err = users.Get(ctx, userID, "Roles")
		return err
	})
	if err != nil {
		return nil, err
	}
	return reloaded, nil
}

func (s *service) RemoveRole(ctx context.Context, userID uuid.UUID, roleAlias string) (*models.User, error) {
	var reloaded *models.User
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		users := repo.New[models.User](tx, "user_id")
		user, err := users.Get(ctx, userID)
		if err != nil {
			return err
		}
		role, err := roleByAlias(ctx, tx, roleAlias)
		if err != nil {
			return err
		}
		if err := tx.WithContext(ctx).Model(user).Association("Roles").Delete(role); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeAssociation, err, "unlinking role")
		}
		reloaded, err = users.Get(ctx, userID, "Roles")
		return err
	})
	if err != nil {
		return nil, err
	}
	return reloaded, nil
}

func roleByAlias(ctx context.Context, tx *gorm.DB, alias string) (*models.Role, error) {
	roles := repo.New[models.Role](tx, "role_id")
	role, err := roles.QueryOne(ctx, map[string]any{"alias": alias})
	if err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "role %q does not exist", alias)
		}
		return nil, err
	}
	return role, nil
}

// TouchLastLogin stamps the login time outside the orchestrated path.
func TouchLastLogin(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) error {
	users := repo.New[models.User](tx, "user_id")
	user, err := users.Get(ctx, userID)
	if err != nil {
		return err
	}
	_, err = users.Update(ctx, user, map[string]any{"last_login_at": now})
	return err
}
