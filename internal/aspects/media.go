package aspects

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/internal/orchestrator"
	"github.com/oakline/oakline-backend/internal/repo"
	"github.com/oakline/oakline-backend/pkg/db/models"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
)

// MediaPayload is one media aspect element. content_url may be an external
// URL or an inline data URI; data URIs are pushed to the media store first.
type MediaPayload struct {
	MediaID     *uuid.UUID `json:"media_id,omitempty"`
	MediaName   string     `json:"media_name" validate:"required"`
	MediaType   string     `json:"media_type"`
	ContentURL  string     `json:"content_url" validate:"required"`
	Caption     string     `json:"caption"`
	IsThumbnail bool       `json:"is_thumbnail"`
}

// HandleMedia upserts the media row and its polymorphic junction. Match
// order is media_id, then exact natural attributes, then insert.
func (r *Resolver) HandleMedia(ctx context.Context, tx *gorm.DB, parent orchestrator.Parent, value any) error {
	var payload MediaPayload
	if err := orchestrator.Decode(value, &payload); err != nil {
		return err
	}

	media, err := r.upsertMedia(ctx, tx, payload)
	if err != nil {
		return err
	}

	junctions := repo.New[models.EntityMedia](tx, "entity_media_id")
	tuple := map[string]any{
		"entity_type":    parent.Kind,
		"media_assoc_id": parent.ID,
		"media_id":       media.MediaID,
	}
	_, _, err = junctions.QueryOnCreate(ctx, tuple, func() *models.EntityMedia {
		return &models.EntityMedia{
			EntityType:   parent.Kind,
			MediaAssocID: parent.ID,
			MediaID:      media.MediaID,
		}
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeAssociation, err, "linking media")
	}
	return nil
}

func (r *Resolver) upsertMedia(ctx context.Context, tx *gorm.DB, payload MediaPayload) (*models.Media, error) {
	mediaRepo := repo.New[models.Media](tx, "media_id")

	if payload.MediaID != nil {
		existing, err := mediaRepo.Get(ctx, *payload.MediaID)
		if err != nil {
			return nil, err
		}
		fields := map[string]any{
			"media_name":   payload.MediaName,
			"media_type":   payload.MediaType,
			"caption":      payload.Caption,
			"is_thumbnail": payload.IsThumbnail,
		}
		if !isDataURI(payload.ContentURL) {
			fields["content_url"] = payload.ContentURL
		}
		return mediaRepo.Update(ctx, existing, fields)
	}

	if !isDataURI(payload.ContentURL) {
		match, err := mediaRepo.QueryOne(ctx, map[string]any{
			"media_name":  payload.MediaName,
			"media_type":  payload.MediaType,
			"content_url": payload.ContentURL,
		})
		if err == nil {
			return match, nil
		}
		if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, err
		}
	}

	contentURL := payload.ContentURL
	if isDataURI(contentURL) {
		uploaded, err := r.uploadContent(ctx, payload)
		if err != nil {
			return nil, err
		}
		contentURL = uploaded
	}

	return mediaRepo.Create(ctx, &models.Media{
		MediaName:   payload.MediaName,
		MediaType:   payload.MediaType,
		ContentURL:  contentURL,
		Caption:     payload.Caption,
		IsThumbnail: payload.IsThumbnail,
	})
}

func (r *Resolver) uploadContent(ctx context.Context, payload MediaPayload) (string, error) {
	if r.uploader == nil {
		return "", pkgerrors.New(pkgerrors.CodeExternal, "media store is not configured")
	}

	contentType, data, err := decodeDataURI(payload.ContentURL)
	if err != nil {
		return "", err
	}

	object := fmt.Sprintf("media/%s/%s", payload.MediaType, uuid.NewString())
	uploaded, err := r.uploader.Upload(ctx, object, contentType, data)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeExternal, err, "uploading media content")
	}
	return uploaded, nil
}

func isDataURI(value string) bool {
	return strings.HasPrefix(value, "data:")
}

func decodeDataURI(value string) (string, []byte, error) {
	rest := strings.TrimPrefix(value, "data:")
	meta, encoded, found := strings.Cut(rest, ",")
	if !found {
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "content_url validation is incorrect: malformed data uri")
	}
	contentType := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "content_url validation is incorrect: invalid base64 payload")
	}
	return contentType, data, nil
}
