package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/curagenie/health-api/internal/model"
	"github.com/curagenie/health-api/internal/repository"
)

type chatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) repository.ChatRepository {
	return &chatRepository{db: db}
}

func (r *chatRepository) Create(ctx context.Context, message *model.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (id, user_id, role, content, session_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	message.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		message.ID,
		message.UserID,
		message.Role,
		message.Content,
		message.SessionID,
		message.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create chat message: %w", err)
	}
	return nil
}

func (r *chatRepository) ListByUser(ctx context.Context, userID uuid.UUID, sessionID string, limit int) ([]*model.ChatMessage, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT * FROM chat_messages WHERE user_id = $1`
	args := []interface{}{userID}

	if sessionID != "" {
		args = append(args, sessionID)
		query += fmt.Sprintf(" AND session_id = $%d", len(args))
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at ASC LIMIT $%d", len(args))

	var messages []*model.ChatMessage
	if err := r.db.SelectContext(ctx, &messages, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return messages, nil
}
