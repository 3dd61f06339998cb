package repository

import (
	"context"
	"fmt"

	"legalmind-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatRepository handles database operations for chat threads and messages
type ChatRepository struct {
	db *pgxpool.Pool
}

// NewChatRepository creates a new chat repository
func NewChatRepository(db *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: db}
}

// CreateThread creates a new chat thread
func (r *ChatRepository) CreateThread(ctx context.Context, thread *models.ChatThread) error {
	query := `
		INSERT INTO chat_threads (user_id, title, jurisdiction)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		thread.UserID,
		thread.Title,
		thread.Jurisdiction,
	).Scan(&thread.ID, &thread.CreatedAt)

	return err
}

// AddMessage appends a message to a thread
func (r *ChatRepository) AddMessage(ctx context.Context, message *models.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (thread_id, role, content)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		message.ThreadID,
		message.Role,
		message.Content,
	).Scan(&message.ID, &message.CreatedAt)

	return err
}

// GetThread retrieves a thread with its messages ordered by creation time
func (r *ChatRepository) GetThread(ctx context.Context, id uuid.UUID) (*models.ChatThread, error) {
	thread := &models.ChatThread{}
	query := `
		SELECT id, user_id, title, jurisdiction, created_at
		FROM chat_threads
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&thread.ID,
		&thread.UserID,
		&thread.Title,
		&thread.Jurisdiction,
		&thread.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	messagesQuery := `
		SELECT id, thread_id, role, content, created_at
		FROM chat_messages
		WHERE thread_id = $1
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.Query(ctx, messagesQuery, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query thread messages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		message := &models.ChatMessage{}
		err := rows.Scan(
			&message.ID,
			&message.ThreadID,
			&message.Role,
			&message.Content,
			&message.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		thread.Messages = append(thread.Messages, message)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return thread, nil
}

// ListThreadsByUserID retrieves a user's most recent threads, newest first
func (r *ChatRepository) ListThreadsByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ChatThread, error) {
	query := `
		SELECT id, user_id, title, jurisdiction, created_at
		FROM chat_threads
		WHERE user_id = $1
		ORDER BY created_at DESC`

	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []*models.ChatThread
	for rows.Next() {
		thread := &models.ChatThread{}
		err := rows.Scan(
			&thread.ID,
			&thread.UserID,
			&thread.Title,
			&thread.Jurisdiction,
			&thread.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		threads = append(threads, thread)
	}

	return threads, rows.Err()
}
