package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/pkg/db"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
	"github.com/oakline/oakline-backend/pkg/pagination"
)

// Numbered is implemented by models that carry a human-readable identifier
// alongside their uuid. The number is assigned before the insert so the row
// is written exactly once.
type Numbered interface {
	EnsureNumber(now time.Time)
}

// Repo provides typed CRUD and query primitives shared by every domain
// service. Filters are column/value pairs combined with AND; eager names
// gorm associations to preload.
type Repo[T any] struct {
	db       *gorm.DB
	pkColumn string
}

// New binds a repository to a connection. pkColumn is the primary key column
// used by Get and Delete.
func New[T any](conn *gorm.DB, pkColumn string) *Repo[T] {
	return &Repo[T]{db: conn, pkColumn: pkColumn}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repo[T]) WithTx(tx *gorm.DB) *Repo[T] {
	return &Repo[T]{db: tx, pkColumn: r.pkColumn}
}

func (r *Repo[T]) conn(ctx context.Context) *gorm.DB {
	if ctx == nil {
		return r.db
	}
	return r.db.WithContext(ctx)
}

func (r *Repo[T]) scoped(ctx context.Context, filters map[string]any, eager []string) *gorm.DB {
	q := r.conn(ctx)
	if len(filters) > 0 {
		q = q.Where(filters)
	}
	for _, assoc := range eager {
		q = q.Preload(assoc)
	}
	return q
}

// Create inserts the entity, assigning its human-readable number first when
// the model carries one.
func (r *Repo[T]) Create(ctx context.Context, entity *T) (*T, error) {
	if numbered, ok := any(entity).(Numbered); ok {
		numbered.EnsureNumber(time.Now())
	}
	if err := r.conn(ctx).Create(entity).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicate, err, "record already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating record")
	}
	return entity, nil
}

// Get loads a single row by primary key.
func (r *Repo[T]) Get(ctx context.Context, id uuid.UUID, eager ...string) (*T, error) {
	var entity T
	q := r.scoped(ctx, nil, eager)
	if err := q.First(&entity, r.pkColumn+" = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading record")
	}
	return &entity, nil
}

// GetAll pages through the collection and returns the total row count for
// pagination metadata.
func (r *Repo[T]) GetAll(ctx context.Context, p pagination.Params, eager ...string) ([]T, int64, error) {
	return r.QueryPage(ctx, nil, p, eager...)
}

// Query returns every row matching the filters.
func (r *Repo[T]) Query(ctx context.Context, filters map[string]any, eager ...string) ([]T, error) {
	var entities []T
	if err := r.scoped(ctx, filters, eager).Find(&entities).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "querying records")
	}
	return entities, nil
}

// QueryPage returns a page of rows matching the filters plus the total count.
func (r *Repo[T]) QueryPage(ctx context.Context, filters map[string]any, p pagination.Params, eager ...string) ([]T, int64, error) {
	p = pagination.Normalize(p)

	total, err := r.QueryCount(ctx, filters)
	if err != nil {
		return nil, 0, err
	}

	var entities []T
	q := r.scoped(ctx, filters, eager).Offset(p.Offset).Limit(p.Limit)
	if err := q.Find(&entities).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "querying records")
	}
	return entities, total, nil
}

// QueryOne returns the single row matching the filters, or NotFound.
func (r *Repo[T]) QueryOne(ctx context.Context, filters map[string]any, eager ...string) (*T, error) {
	var entity T
	if err := r.scoped(ctx, filters, eager).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading record")
	}
	return &entity, nil
}

// QueryCount counts rows matching the filters.
func (r *Repo[T]) QueryCount(ctx context.Context, filters map[string]any) (int64, error) {
	var entity T
	var total int64
	q := r.conn(ctx).Model(&entity)
	if len(filters) > 0 {
		q = q.Where(filters)
	}
	if err := q.Count(&total).Error; err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting records")
	}
	return total, nil
}

// QueryOnJoins pages through rows matching filters that may reference joined
// tables. joins are gorm Joins clauses applied in order.
func (r *Repo[T]) QueryOnJoins(ctx context.Context, filters map[string]any, joins []string, p pagination.Params, eager ...string) ([]T, int64, error) {
	p = pagination.Normalize(p)

	var entity T
	counter := r.conn(ctx).Model(&entity)
	for _, join := range joins {
		counter = counter.Joins(join)
	}
	if len(filters) > 0 {
		counter = counter.Where(filters)
	}
	var total int64
	if err := counter.Count(&total).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "counting records")
	}

	q := r.conn(ctx).Model(&entity)
	for _, join := range joins {
		q = q.Joins(join)
	}
	if len(filters) > 0 {
		q = q.Where(filters)
	}
	for _, assoc := range eager {
		q = q.Preload(assoc)
	}

	var entities []T
	if err := q.Offset(p.Offset).Limit(p.Limit).Find(&entities).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "querying records")
	}
	return entities, total, nil
}

// QueryOnCreate looks the row up by the filters and inserts it when absent.
// A unique-violation race on insert is resolved by re-reading, so concurrent
// callers converge on a single row.
func (r *Repo[T]) QueryOnCreate(ctx context.Context, filters map[string]any, build func() *T) (*T, bool, error) {
	existing, err := r.QueryOne(ctx, filters)
	if err == nil {
		return existing, false, nil
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return nil, false, err
	}

	entity := build()
	if numbered, ok := any(entity).(Numbered); ok {
		numbered.EnsureNumber(time.Now())
	}
	if createErr := r.conn(ctx).Create(entity).Error; createErr != nil {
		if db.IsUniqueViolation(createErr, "") {
			won, readErr := r.QueryOne(ctx, filters)
			if readErr != nil {
				return nil, false, readErr
			}
			return won, false, nil
		}
		return nil, false, pkgerrors.Wrap(pkgerrors.CodeInternal, createErr, "creating record")
	}
	return entity, true, nil
}

// Update applies the given column/value pairs to the existing entity and
// returns the refreshed struct.
func (r *Repo[T]) Update(ctx context.Context, entity *T, fields map[string]any) (*T, error) {
	if len(fields) == 0 {
		return entity, nil
	}
	if err := r.conn(ctx).Model(entity).Updates(fields).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicate, err, "record already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating record")
	}
	return entity, nil
}

// Save persists the whole struct.
func (r *Repo[T]) Save(ctx context.Context, entity *T) (*T, error) {
	if err := r.conn(ctx).Save(entity).Error; err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicate, err, "record already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "saving record")
	}
	return entity, nil
}

// Delete removes the row by primary key. Deleting an absent row returns
// NotFound.
func (r *Repo[T]) Delete(ctx context.Context, id uuid.UUID) error {
	var entity T
	result := r.conn(ctx).Where(r.pkColumn+" = ?", id).Delete(&entity)
	if result.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, result.Error, "deleting record")
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "record not found")
	}
	return nil
}
