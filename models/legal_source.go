package models

import (
	"time"

	"github.com/google/uuid"
)

// SourceType represents the kind of legal authority a source is
type SourceType string

const (
	SourceTypeStatute    SourceType = "Statute"
	SourceTypeRegulation SourceType = "Regulation"
	SourceTypeCaseLaw    SourceType = "CaseLaw"
	SourceTypeGuidance   SourceType = "Guidance"
)

// SourceStatus represents the curation lifecycle of a legal source
type SourceStatus string

const (
	SourceStatusDraft      SourceStatus = "Draft"
	SourceStatusVerified   SourceStatus = "Verified"
	SourceStatusDeprecated SourceStatus = "Deprecated"
)

// LegalSource represents an authoritative legal document reference.
// Only Verified sources are eligible for retrieval; Draft and Deprecated
// sources are invisible to the answer pipeline.
type LegalSource struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	Jurisdiction string       `json:"jurisdiction"` // e.g., "PH", "US-CA"
	SourceType   SourceType   `json:"source_type"`
	Citation     *string      `json:"citation,omitempty"` // e.g., "RA 11232, Sec. 5"
	URL          *string      `json:"url,omitempty"`
	LastUpdated  time.Time    `json:"last_updated"`
	Status       SourceStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// SourceDocument represents an archived snapshot of the document backing a
// legal source (the statute text, decision PDF, etc.)
type SourceDocument struct {
	ID          uuid.UUID `json:"id"`
	SourceID    uuid.UUID `json:"source_id"`
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	StoragePath string    `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}
