package mailbox

import (
	"context"
	"strings"

	"github.com/beworking/beworking-backend/pkg/db/models"
	pkgerrors "github.com/beworking/beworking-backend/pkg/errors"
	"github.com/google/uuid"
)

// Service defines the behavior needed by the mailbox controller.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req CreateItemRequest) (*ItemDTO, error)
	List(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) error
}

type mailboxRepository interface {
	Create(ctx context.Context, item *models.MailboxItem) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.MailboxItem, error)
	Delete(ctx context.Context, id, userID uuid.UUID) (int64, error)
}

type service struct {
	repo mailboxRepository
}

// ServiceParams bundles the dependencies for the mailbox flow.
type ServiceParams struct {
	Repo mailboxRepository
}

// NewService constructs a mailbox service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "mailbox repository required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, req CreateItemRequest) (*ItemDTO, error) {
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "subject is required")
	}

	item := &models.MailboxItem{
		UserID:  userID,
		Subject: subject,
		Message: req.Message,
		PDFURL:  req.PDFURL,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create mailbox item")
	}
	return FromModel(item), nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]ItemDTO, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list mailbox items")
	}
	return FromModels(rows), nil
}

func (s *service) Delete(ctx context.Context, userID, itemID uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, itemID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete mailbox item")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "mailbox item not found")
	}
	return nil
}
