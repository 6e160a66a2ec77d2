package messages

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/oakline/oakline-backend/internal/repo"
	"github.com/oakline/oakline-backend/pkg/db"
	"github.com/oakline/oakline-backend/pkg/db/models"
	"github.com/oakline/oakline-backend/pkg/enums"
	pkgerrors "github.com/oakline/oakline-backend/pkg/errors"
	"github.com/oakline/oakline-backend/pkg/logger"
	"github.com/oakline/oakline-backend/pkg/pagination"
)

// ComposeRequest is the payload for sending or drafting a message.
type ComposeRequest struct {
	Subject      string      `json:"subject"`
	MessageBody  string      `json:"message_body" validate:"required"`
	SenderID     uuid.UUID   `json:"sender_id" validate:"required"`
	RecipientIDs []uuid.UUID `json:"recipient_ids" validate:"required,min=1"`
	IsDraft      bool        `json:"is_draft"`
	IsScheduled  bool        `json:"is_scheduled"`
	ScheduledAt  *time.Time  `json:"scheduled_at,omitempty"`
}

// ReplyRequest continues an existing thread.
type ReplyRequest struct {
	ParentMessageID uuid.UUID `json:"parent_message_id" validate:"required"`
	MessageBody     string    `json:"message_body" validate:"required"`
	SenderID        uuid.UUID `json:"sender_id" validate:"required"`
}

// Service implements threaded messaging with per-user folders.
type Service interface {
	List(ctx context.Context, p pagination.Params) ([]models.Message, int64, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Message, error)
	Compose(ctx context.Context, req ComposeRequest) (*models.Message, error)
	Reply(ctx context.Context, req ReplyRequest) (*models.Message, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Folder(ctx context.Context, userID uuid.UUID, folder enums.MessageFolder, p pagination.Params) ([]models.Message, int64, error)
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

func (s *service) List(ctx context.Context, p pagination.Params) ([]models.Message, int64, error) {
	messages := repo.New[models.Message](s.client.DB(), "message_id")
	return messages.GetAll(ctx, p, "Recipients")
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Message, error) {
	messages := repo.New[models.Message](s.client.DB(), "message_id")
	return messages.Get(ctx, id, "Recipients", "Sender")
}

// Compose writes the message and one recipient row per recipient in a
// single transaction.
func (s *service) Compose(ctx context.Context, req ComposeRequest) (*models.Message, error) {
	var composed *models.Message
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		users := repo.New[models.User](tx, "user_id")
		if _, err := users.Get(ctx, req.SenderID); err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return pkgerrors.Newf(pkgerrors.CodeNotFound, "sender %s does not exist", req.SenderID)
			}
			return err
		}

		messages := repo.New[models.Message](tx, "message_id")
		message, err := messages.Create(ctx, &models.Message{
			Subject:     req.Subject,
			MessageBody: req.MessageBody,
			SenderID:    req.SenderID,
			IsDraft:     req.IsDraft,
			IsScheduled: req.IsScheduled,
			ScheduledAt: req.ScheduledAt,
		})
		if err != nil {
			return err
		}
		if _, err := messages.Update(ctx, message, map[string]any{"thread_id": message.MessageID}); err != nil {
			return err
		}

		recipients := repo.New[models.MessageRecipient](tx, "message_recipient_id")
		for _, recipientID := range req.RecipientIDs {
			if _, err := users.Get(ctx, recipientID); err != nil {
				if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
					return pkgerrors.Newf(pkgerrors.CodeNotFound, "recipient %s does not exist", recipientID)
				}
				return err
			}
			if _, err := recipients.Create(ctx, &models.MessageRecipient{
				MessageID:   message.MessageID,
				RecipientID: recipientID,
			}); err != nil {
				return err
			}
		}

		composed, err = messages.Get(ctx, message.MessageID, "Recipients")
		return err
	})
	if err != nil {
		return nil, err
	}
	return composed, nil
}

// Reply inherits the parent's thread, subject and recipients. The original
// sender joins the recipient set; the replier leaves it.
func (s *service) Reply(ctx context.Context, req ReplyRequest) (*models.Message, error) {
	var reply *models.Message
	err := s.client.WithTx(ctx, func(tx *gorm.DB) error {
		messages := repo.New[models.Message](tx, "message_id")
		parent, err := messages.Get(ctx, req.ParentMessageID, "Recipients")
		if err != nil {
			if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
				return pkgerrors.Newf(pkgerrors.CodeNotFound, "message %s does not exist", req.ParentMessageID)
			}
			return err
		}

		threadID := parent.ThreadID
		if threadID == nil {
			threadID = &parent.MessageID
		}

		created, err := messages.Create(ctx, &models.Message{
			Subject:         parent.Subject,
			MessageBody:     req.MessageBody,
			SenderID:        req.SenderID,
			ParentMessageID: &parent.MessageID,
			ThreadID:        threadID,
		})
		if err != nil {
			return err
		}

		seen := map[uuid.UUID]bool{req.SenderID: true}
		targets := []uuid.UUID{parent.SenderID}
		for _, recipient := range parent.Recipients {
			targets = append(targets, recipient.RecipientID)
		}

		recipients := repo.New[models.MessageRecipient](tx, "message_recipient_id")
		for _, target := range targets {
			if seen[target] {
				continue
			}
			seen[target] = true
			if _, err := recipients.Create(ctx, &models.MessageRecipient{
				MessageID:   created.MessageID,
				RecipientID: target,
			}); err != nil {
				return err
			}
		}

		reply, err = messages.Get(ctx, created.MessageID, "Recipients")
		return err
	})
	if err != nil {
		return nil, err
	}
	return reply, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	messages := repo.New[models.Message](s.client.DB(), "message_id")
	return messages.Delete(ctx, id)
}

// Folder lists a user's view of their mail: inbox is everything addressed
// to them; outbox, drafts and scheduled are slices of what they sent.
func (s *service) Folder(ctx context.Context, userID uuid.UUID, folder enums.MessageFolder, p pagination.Params) ([]models.Message, int64, error) {
	messages := repo.New[models.Message](s.client.DB(), "message_id")

	switch folder {
	case enums.MessageFolderInbox:
		filters := map[string]any{
			"message_recipients.recipient_id": userID,
			"messages.is_draft":               false,
		}
		joins := []string{"JOIN message_recipients ON message_recipients.message_id = messages.message_id"}
		return messages.QueryOnJoins(ctx, filters, joins, p, "Recipients")
	case enums.MessageFolderOutbox:
		return messages.QueryPage(ctx, map[string]any{"sender_id": userID, "is_draft": false, "is_scheduled": false}, p, "Recipients")
	case enums.MessageFolderDrafts:
		return messages.QueryPage(ctx, map[string]any{"sender_id": userID, "is_draft": true}, p, "Recipients")
	case enums.MessageFolderScheduled:
		return messages.QueryPage(ctx, map[string]any{"sender_id": userID, "is_scheduled": true}, p, "Recipients")
	default:
		return nil, 0, pkgerrors.Newf(pkgerrors.CodeValidation, "folder validation is incorrect: unknown folder %q", folder)
	}
}
