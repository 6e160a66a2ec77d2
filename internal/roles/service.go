package roles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/internal/repo"
	"github.com/oakline/oakline-backend/pkg/db"
	"github.com/oakline/oakline-backend/pkg/db/models"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
	"github.com/oakline/oakline-backend/pkg/logger"
	"github.com/oakline/oakline-backend/pkg/pagination"
)

// Service manages roles, permissions and their linkage.
type Service interface {
	ListRoles(ctx context.Context, p pagination.Params) ([]models.Role, int64, error)
	GetRole(ctx context.Context, id uuid.UUID) (*models.Role, error)
	CreateRole(ctx context.Context, role *models.Role) (*models.Role, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role *models.Role) (*models.Role, error)
	DeleteRole(ctx context.Context, id uuid.UUID) error

	ListPermissions(ctx context.Context, p pagination.Params) ([]models.Permission, int64, error)
	GetPermission(ctx context.Context, id uuid.UUID) (*models.Permission, error)
	CreatePermission(ctx context.Context, permission *models.Permission) (*models.Permission, error)
	UpdatePermission(ctx context.Context, id uuid.UUID, permission *models.Permission) (*models.Permission, error)
	DeletePermission(ctx context.Context, id uuid.UUID) error

	AddPermission(ctx context.Context, roleAlias, permissionAlias string) (*models.Role, error)
}

type service struct {
	client *db.Client
	logg   *logger.Logger
}

func NewService(client *db.Client, logg *logger.Logger) (Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "db client is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &service{client: client, logg: logg}, nil
}

func (s *service) ListRoles(ctx context.Context, p pagination.Params) ([]models.Role, int64, error) {
	roles := repo.New[models.Role](s.client.DB(), "role_id")
	return roles.GetAll(ctx, p, "Permissions")
}

func (s *service) GetRole(ctx context.Context, id uuid.UUID) (*models.Role, error) {
	roles := repo.New[models.Role](s.client.DB(), "role_id")
	return roles.Get(ctx, id, "Permissions")
}

func (s *service) CreateRole(ctx context.Context, role *models.Role) (*models.Role, error) {
	if role.Name == "" || role.Alias == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name validation is incorrect: name and alias are required")
	}
	roles := repo.New[models.Role](s.client.DB(), "role_id")
	return roles.Create(ctx, role)
}

func (s *service) UpdateRole(ctx context.Context, id uuid.UUID, role *models.Role) (*models.Role, error) {
	roles := repo.New[models.Role](s.client.DB(), "role_id")
	existing, err := roles.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return roles.Update(ctx, existing, map[string]any{
		"name":        role.Name,
		"alias":       role.Alias,
		"description": role.Description,
	})
}

func (s *service) DeleteRole(ctx context.Context, id uuid.UUID) error {
	roles := repo.New[models.Role](s.client.DB(), "role_id")
	return roles.Delete(ctx, id)
}

func (s *service) ListPermissions(ctx context.Context, p pagination.Params) ([]models.Permission, int64, error) {
	permissions := repo.New[models.Permission](s.client.DB(), "permission_id")
	return permissions.GetAll(ctx, p)
}

func (s *service) GetPermission(ctx context.Context, id uuid.UUID) (*models.Permission, error) {
	permissions := repo.New[models.Permission](s.client.DB(), "permission_id")
	return permissions.Get(ctx, id)
}

func (s *service) CreatePermission(ctx context.Context, permission *models.Permission) (*models.Permission, error) {
	if permission.Name == "" || permission.Alias == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name validation is incorrect: name and alias are required")
	}
	permissions := repo.New[models.Permission](s.client.DB(), "permission_id")
	return permissions.Create(ctx, permission)
}

func (s *service) UpdatePermission(ctx context.Context, id uuid.UUID, permission *models.Permission) (*models.Permission, error) {
	permissions := repo.New[models.Permission](s.client.DB(), "permission_id")
	existing, err := permissions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return permissions.Update(ctx, existing, map[string]any{
		"name":        permission.Name,
		"alias":       permission.Alias,
		"description": permission.Description,
	})
}

func (s *service) DeletePermission(ctx context.Context, id uuid.UUID) error {
	permissions := repo.New[models.Permission](s.client.DB(), "permission_id")
	return permissions.Delete(ctx, id)
}

// AddPermission links the permission alias to the role alias.
func (s *service) AddPermission(ctx context.Context, roleAlias, permissionAlias string) (*models.Role, error) {
	var reloaded *models.Role
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		roles := repo.New[models.Role](tx, "role_id")
		permissions := repo.New[models.Permission](tx, "permission_id")

		role, err := roles.QueryOne(ctx, map[string]any{"alias": roleAlias})
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return pkgerrors.Newf(pkgerrors.CodeNotFound, "role %q does not exist", roleAlias)
			}
			return err
		}
		permission, err := permissions.QueryOne(ctx, map[string]any{"alias": permissionAlias})
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return pkgerrors.Newf(pkgerrors.CodeNotFound, "permission %q does not exist", permissionAlias)
			}
			return err
		}

		if err := tx.WithContext(ctx).Model(role).Association("Permissions").Append(permission); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeAssociation, err, "linking permission")
		}
		reloaded, err = roles.Get(ctx, role.RoleID, "Permissions")
		return err
	})
	if err != nil {
		return nil, err
	}
	return reloaded, nil
}
