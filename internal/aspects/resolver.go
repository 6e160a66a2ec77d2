// Package aspects implements the side-relation handlers invoked by the
// orchestrator: each handler upserts its child rows by natural key and
// associates them to the parent through polymorphic junction rows, all on
// the caller's transaction.
package aspects

import (
	"github.com/oakline/oakline-backend/pkg/config"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
	"github.com/oakline/oakline-backend/pkg/logger"
	"github.com/oakline/oakline-backend/pkg/storage/gcs"
)

// Resolver carries the process-wide collaborators the handlers need. The
// uploader may be nil, in which case media content uploads are rejected.
type Resolver struct {
	uploader gcs.Uploader
	pwCfg    config.PasswordConfig
	logg     *logger.Logger
}

func NewResolver(uploader gcs.Uploader, pwCfg config.PasswordConfig, logg *logger.Logger) (*Resolver, error) {
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger is required")
	}
	return &Resolver{uploader: uploader, pwCfg: pwCfg, logg: logg}, nil
}
