package repository

import (
	"context"
	"time"

	"github.com/campuspool/campuspool/internal/models"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ChatRepository interface {
	Create(ctx context.Context, message *models.ChatMessage) error
	ListByRequest(ctx context.Context, requestID string) ([]*models.ChatMessageDetail, error)
}

type chatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, message *models.ChatMessage) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	query := `
		INSERT INTO chat_messages (id, ride_request_id, sender_id, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.ExecContext(ctx, query,
		message.ID, message.RideRequestID, message.SenderID, message.Message, message.CreatedAt)
	return err
}

func (r *chatRepository) ListByRequest(ctx context.Context, requestID string) ([]*models.ChatMessageDetail, error) {
	var messages []*models.ChatMessageDetail
	query := `
		SELECT cm.*, u.name AS sender_name
		FROM chat_messages cm
		JOIN users u ON u.id = cm.sender_id
		WHERE cm.ride_request_id = $1
		ORDER BY cm.created_at ASC
	`
	err := r.db.SelectContext(ctx, &messages, query, requestID)
	return messages, err
}
