package orchestrator

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/pkg/enums"
)

// Operation selects create or update semantics for a persist call.
type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
)

// Parent identifies the entity the aspect handlers attach to.
type Parent struct {
	Kind enums.EntityType
	ID   uuid.UUID
}

// Handler materializes one aspect element against the shared transaction.
// Handlers never open their own transaction.
type Handler func(ctx context.Context, tx *gorm.DB, parent Parent, value any) error

// Binding declares one aspect key of a parent profile. List aspects are
// invoked once per element in input order.
type Binding struct {
	Key     string
	List    bool
	Handler Handler
}

// PersistFunc writes the parent row inside the transaction and returns its
// identity. On update the existing id is supplied.
type PersistFunc func(ctx context.Context, tx *gorm.DB, op Operation, doc Document, existingID *uuid.UUID) (uuid.UUID, error)

// ReloadFunc re-reads the parent with its eager relations for the response
// projection.
type ReloadFunc func(ctx context.Context, tx *gorm.DB, id uuid.UUID) (any, error)

// FinalizeFunc runs after all aspect handlers succeed, before reload. Used
// for derived columns such as invoice totals.
type FinalizeFunc func(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

// Profile describes how one parent kind is orchestrated.
type Profile struct {
	Kind     enums.EntityType
	Persist  PersistFunc
	Reload   ReloadFunc
	Finalize FinalizeFunc
	Bindings []Binding
}

// Registry maps parent kinds to their orchestration profiles.
type Registry struct {
	profiles map[enums.EntityType]Profile
}

func NewRegistry() *Registry {
	return &Registry{profiles: map[enums.EntityType]Profile{}}
}

// Register installs a profile. Registering the same kind twice is a
// programming error.
func (r *Registry) Register(profile Profile) error {
	if profile.Persist == nil {
		return fmt.Errorf("profile %s requires a persist func", profile.Kind)
	}
	if _, exists := r.profiles[profile.Kind]; exists {
		return fmt.Errorf("profile %s already registered", profile.Kind)
	}
	r.profiles[profile.Kind] = profile
	return nil
}

func (r *Registry) profile(kind enums.EntityType) (Profile, error) {
	profile, ok := r.profiles[kind]
	if !ok {
		return Profile{}, fmt.Errorf("no profile registered for %s", kind)
	}
	return profile, nil
}
