package mailbox

import (
	"context"

	"github.com/beworking/beworking-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes mailbox persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a mailbox repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a mailbox item.
func (r *Repository) Create(ctx context.Context, item *models.MailboxItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// ListByUser returns the user's mailbox items, newest first.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.MailboxItem, error) {
	var rows []models.MailboxItem
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Delete removes a mailbox item owned by the user.
func (r *Repository) Delete(ctx context.Context, id, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.MailboxItem{})
	return res.RowsAffected, res.Error
}
