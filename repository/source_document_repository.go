package repository

import (
	"context"

	"legalmind-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SourceDocumentRepository handles database operations for archived source documents
type SourceDocumentRepository struct {
	db *pgxpool.Pool
}

// NewSourceDocumentRepository creates a new source document repository
func NewSourceDocumentRepository(db *pgxpool.Pool) *SourceDocumentRepository {
	return &SourceDocumentRepository{db: db}
}

// Create creates a new source document record
func (r *SourceDocumentRepository) Create(ctx context.Context, doc *models.SourceDocument) error {
	query := `
		INSERT INTO source_documents (source_id, filename, mime_type, size, storage_path)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRow(
		ctx, query,
		doc.SourceID,
		doc.Filename,
		doc.MimeType,
		doc.Size,
		doc.StoragePath,
	).Scan(&doc.ID, &doc.CreatedAt)

	return err
}

// GetBySourceID retrieves the most recent document snapshot for a source
func (r *SourceDocumentRepository) GetBySourceID(ctx context.Context, sourceID uuid.UUID) (*models.SourceDocument, error) {
	doc := &models.SourceDocument{}
	query := `
		SELECT id, source_id, filename, mime_type, size, storage_path, created_at
		FROM source_documents
		WHERE source_id = $1
		ORDER BY created_at DESC
		LIMIT 1`

	err := r.db.QueryRow(ctx, query, sourceID).Scan(
		&doc.ID,
		&doc.SourceID,
		&doc.Filename,
		&doc.MimeType,
		&doc.Size,
		&doc.StoragePath,
		&doc.CreatedAt,
	)

	if err != nil {
		return nil, err
	}

	return doc, nil
}

// Delete deletes a source document record
func (r *SourceDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM source_documents WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}
