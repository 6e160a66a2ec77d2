package orchestrator

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/pkg/db"
	"github.com/oakline/oakline-backend/pkg/enums"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
	"github.com/oakline/oakline-backend/pkg/logger"
)

// Orchestrator drives the aspect-resolving persist pipeline. The parent row
// and every declared aspect commit together or not at all.
type Orchestrator struct {
	client   *db.Client
	logg     *logger.Logger
	registry *Registry
}

func New(client *db.Client, registry *Registry, logg *logger.Logger) (*Orchestrator, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "db client is required")
	}
	if registry == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "registry is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &Orchestrator{client: client, logg: logg, registry: registry}, nil
}

// Persist runs the full pipeline for one parent document and returns the
// reloaded projection. existingID is required for update and forbidden for
// create.
func (o *Orchestrator) Persist(ctx context.Context, kind enums.EntityType, op Operation, doc Document, existingID *uuid.UUID) (any, error) {
	profile, err := o.registry.profile(kind)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving orchestration profile")
	}

	if op == OpUpdate && existingID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "update requires an existing id")
	}
	if op == OpCreate && existingID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "create must not carry an existing id")
	}
	if op == OpCreate && len(doc) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "input document is empty")
	}

	var projected any
	txErr := o.client.WithTx(ctx, func(tx *gorm.DB) error {
		parentID, err := profile.Persist(ctx, tx, op, doc, existingID)
		if err != nil {
			return err
		}

		parent := Parent{Kind: kind, ID: parentID}
		ctx := o.logg.WithEntity(ctx, kind.String(), parentID.String())

		for _, binding := range profile.Bindings {
			value, present := doc.Aspect(binding.Key)
			if !present {
				continue
			}
			if binding.List {
				for _, element := range AsList(value) {
					if err := binding.Handler(ctx, tx, parent, element); err != nil {
						return err
					}
				}
				continue
			}
			if err := binding.Handler(ctx, tx, parent, value); err != nil {
				return err
			}
		}

		if profile.Finalize != nil {
			if err := profile.Finalize(ctx, tx, parentID); err != nil {
				return err
			}
		}

		if profile.Reload != nil {
			reloaded, err := profile.Reload(ctx, tx, parentID)
			if err != nil {
				return err
			}
			projected = reloaded
		}
		return nil
	})
	if txErr != nil {
		if pkgerrors.As(txErr) == nil {
			o.logg.Error(ctx, "orchestrated persist failed", txErr)
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, txErr, "persisting entity")
		}
		return nil, txErr
	}
	return projected, nil
}
