package repository

import (
	"context"
	"fmt"

	"legalmind-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LegalSourceRepository handles database operations for legal sources
type LegalSourceRepository struct {
	db *pgxpool.Pool
}

// NewLegalSourceRepository creates a new legal source repository
func NewLegalSourceRepository(db *pgxpool.Pool) *LegalSourceRepository {
	return &LegalSourceRepository{db: db}
}

// TopSources retrieves up to limit Verified sources for a jurisdiction,
// most recently updated first. Ties on last_updated break on id ascending
// so repeated calls against unchanged data return the same ordering.
// An empty result is a nil slice, not an error.
func (r *LegalSourceRepository) TopSources(ctx context.Context, jurisdiction string, limit int) ([]models.LegalSource, error) {
	query := `
		SELECT id, title, jurisdiction, source_type, citation, url,
			last_updated, status, created_at, updated_at
		FROM legal_sources
		WHERE jurisdiction = $1 AND status = $2
		ORDER BY last_updated DESC, id ASC
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, jurisdiction, models.SourceStatusVerified, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query legal sources: %w", err)
	}
	defer rows.Close()

	var sources []models.LegalSource
	for rows.Next() {
		var source models.LegalSource
		err := rows.Scan(
			&source.ID,
			&source.Title,
			&source.Jurisdiction,
			&source.SourceType,
			&source.Citation,
			&source.URL,
			&source.LastUpdated,
			&source.Status,
			&source.CreatedAt,
			&source.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan legal source: %w", err)
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating legal sources: %w", err)
	}

	return sources, nil
}

// Create creates a new legal source record (curation workflow)
func (r *LegalSourceRepository) Create(ctx context.Context, source *models.LegalSource) error {
	query := `
		INSERT INTO legal_sources (
			title, jurisdiction, source_type, citation, url, last_updated, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		source.Title,
		source.Jurisdiction,
		source.SourceType,
		source.Citation,
		source.URL,
		source.LastUpdated,
		source.Status,
	).Scan(&source.ID, &source.CreatedAt, &source.UpdatedAt)

	return err
}

// GetByID retrieves a legal source by ID
func (r *LegalSourceRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.LegalSource, error) {
	source := &models.LegalSource{}
	query := `
		SELECT id, title, jurisdiction, source_type, citation, url,
			last_updated, status, created_at, updated_at
		FROM legal_sources
		WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(
		&source.ID,
		&source.Title,
		&source.Jurisdiction,
		&source.SourceType,
		&source.Citation,
		&source.URL,
		&source.LastUpdated,
		&source.Status,
		&source.CreatedAt,
		&source.UpdatedAt,
	)

	if err != nil {
		return nil, err
	}

	return source, nil
}

// UpdateStatus moves a source through its curation lifecycle
func (r *LegalSourceRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SourceStatus) error {
	query := `
		UPDATE legal_sources SET
			status = $2,
			updated_at = NOW()
		WHERE id = $1`

	_, err := r.db.Exec(ctx, query, id, status)
	return err
}

// List retrieves legal sources, optionally filtered by jurisdiction and status
func (r *LegalSourceRepository) List(ctx context.Context, jurisdiction string, status *models.SourceStatus, limit, offset int) ([]models.LegalSource, error) {
	query := `
		SELECT id, title, jurisdiction, source_type, citation, url,
			last_updated, status, created_at, updated_at
		FROM legal_sources
		WHERE 1=1`

	args := []interface{}{}
	argIndex := 1

	if jurisdiction != "" {
		query += fmt.Sprintf(" AND jurisdiction = $%d", argIndex)
		args = append(args, jurisdiction)
		argIndex++
	}

	if status != nil {
		query += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *status)
		argIndex++
	}

	query += " ORDER BY last_updated DESC, id ASC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, limit)
		argIndex++
		if offset > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []models.LegalSource
	for rows.Next() {
		var source models.LegalSource
		err := rows.Scan(
			&source.ID,
			&source.Title,
			&source.Jurisdiction,
			&source.SourceType,
			&source.Citation,
			&source.URL,
			&source.LastUpdated,
			&source.Status,
			&source.CreatedAt,
			&source.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}
