package repository

import (
	"context"

	"workforce/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

type MessageRepositoryInterface interface {
	Create(ctx context.Context, message *model.Message) error
	ListPrivate(ctx context.Context, a, b uuid.UUID) ([]model.Message, error)
	ListGroup(ctx context.Context) ([]model.Message, error)
}

var _ MessageRepositoryInterface = (*MessageRepository)(nil)

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, message *model.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// ListPrivate returns the conversation between two accounts in both
// directions, oldest first.
func (r *MessageRepository) ListPrivate(ctx context.Context, a, b uuid.UUID) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.WithContext(ctx).
		Where("is_group = false AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))", a, b, b, a).
		Order("timestamp").
		Find(&messages).Error
	return messages, err
}

func (r *MessageRepository) ListGroup(ctx context.Context) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.WithContext(ctx).
		Where("is_group = true").
		Order("timestamp").
		Find(&messages).Error
	return messages, err
}
