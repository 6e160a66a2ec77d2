package resources

import (
	"context"

	"github.com/google/uuid"

	"github.com/oakline/oakline-backend/internal/repo"
	"github.com/oakline/oakline-backend/pkg/db"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
	"github.com/oakline/oakline-backend/pkg/pagination"
)

// Service is plain CRUD for collections that carry no side aspects, such as
// lookup tables and standalone records. Human-readable numbers are still
// assigned on create for models that declare one.
type Service[T any] interface {
	List(ctx context.Context, p pagination.Params) ([]T, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*T, error)
	Create(ctx context.Context, entity *T) (*T, error)
	Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*T, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service[T any] struct {
	client   *db.Client
	pkColumn string
	eager    []string
}

// NewService binds a CRUD service to a model's table. eager associations are
// preloaded on reads.
func NewService[T any](client *db.Client, pkColumn string, eager ...string) (Service[T], error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "db client is required")
	}
	if pkColumn == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "primary key column is required")
	}
	return &service[T]{client: client, pkColumn: pkColumn, eager: eager}, nil
}

func (s *service[T]) repo() *repo.Repo[T] {
	return repo.New[T](s.client.DB(), s.pkColumn)
}

func (s *service[T]) List(ctx context.Context, p pagination.Params) ([]T, int64, error) {
	return s.repo().GetAll(ctx, p, s.eager...)
}

func (s *service[T]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	return s.repo().Get(ctx, id, s.eager...)
}

func (s *service[T]) Create(ctx context.Context, entity *T) (*T, error) {
	return s.repo().Create(ctx, entity)
}

func (s *service[T]) Update(ctx context.Context, id uuid.UUID, fields map[string]any) (*T, error) {
	existing, err := s.repo().Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo().Update(ctx, existing, fields); err != nil {
		return nil, err
	}
	return s.repo().Get(ctx, id, s.eager...)
}

func (s *service[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo().Delete(ctx, id)
}
