package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"legalmind-backend/models"
	"legalmind-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SourceStore is the persistence contract for legal source records
type SourceStore interface {
	Create(ctx context.Context, source *models.LegalSource) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.LegalSource, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.SourceStatus) error
	List(ctx context.Context, jurisdiction string, status *models.SourceStatus, limit, offset int) ([]models.LegalSource, error)
}

// DocumentStore is the persistence contract for archived snapshot records
type DocumentStore interface {
	Create(ctx context.Context, doc *models.SourceDocument) error
	GetBySourceID(ctx context.Context, sourceID uuid.UUID) (*models.SourceDocument, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SourceHandler handles HTTP requests for the source curation workflow
type SourceHandler struct {
	sourceRepo   SourceStore
	documentRepo DocumentStore
	storage      storage.Storage
	maxFileSize  int64
}

// NewSourceHandler creates a new source handler
func NewSourceHandler(sourceRepo SourceStore, documentRepo DocumentStore, store storage.Storage) *SourceHandler {
	return &SourceHandler{
		sourceRepo:   sourceRepo,
		documentRepo: documentRepo,
		storage:      store,
		maxFileSize:  10 * 1024 * 1024, // 10MB
	}
}

// CreateSourceRequest represents the request body for creating a legal source
type CreateSourceRequest struct {
	Title        string  `json:"title" binding:"required"`
	Jurisdiction string  `json:"jurisdiction" binding:"required"`
	SourceType   string  `json:"source_type" binding:"required"`
	Citation     *string `json:"citation"`
	URL          *string `json:"url"`
	LastUpdated  string  `json:"last_updated"`
	Status       string  `json:"status"`
}

// CreateSource handles POST /api/sources
func (h *SourceHandler) CreateSource(c *gin.Context) {
	var req CreateSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	sourceType := models.SourceType(req.SourceType)
	switch sourceType {
	case models.SourceTypeStatute, models.SourceTypeRegulation, models.SourceTypeCaseLaw, models.SourceTypeGuidance:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_SOURCE_TYPE",
				"message": fmt.Sprintf("Unknown source type: %s", req.SourceType),
			},
		})
		return
	}

	status := models.SourceStatusDraft
	if req.Status != "" {
		status = models.SourceStatus(req.Status)
		switch status {
		case models.SourceStatusDraft, models.SourceStatusVerified, models.SourceStatusDeprecated:
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_STATUS",
					"message": fmt.Sprintf("Unknown status: %s", req.Status),
				},
			})
			return
		}
	}

	lastUpdated := time.Now().UTC()
	if req.LastUpdated != "" {
		parsed, err := time.Parse(time.RFC3339, req.LastUpdated)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_TIMESTAMP",
					"message": "last_updated must be RFC 3339",
				},
			})
			return
		}
		lastUpdated = parsed
	}

	source := &models.LegalSource{
		Title:        req.Title,
		Jurisdiction: strings.TrimSpace(req.Jurisdiction),
		SourceType:   sourceType,
		Citation:     req.Citation,
		URL:          req.URL,
		LastUpdated:  lastUpdated,
		Status:       status,
	}

	if err := h.sourceRepo.Create(c.Request.Context(), source); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    source,
	})
}

// ListSources handles GET /api/sources
func (h *SourceHandler) ListSources(c *gin.Context) {
	jurisdiction := c.Query("jurisdiction")

	var status *models.SourceStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := models.SourceStatus(statusStr)
		status = &s
	}

	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	sources, err := h.sourceRepo.List(c.Request.Context(), jurisdiction, status, limit, 0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sources,
	})
}

// UpdateStatusRequest represents the request body for a lifecycle change
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateSourceStatus handles PUT /api/sources/:id/status
func (h *SourceHandler) UpdateSourceStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid source ID format",
			},
		})
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	status := models.SourceStatus(req.Status)
	switch status {
	case models.SourceStatusDraft, models.SourceStatusVerified, models.SourceStatusDeprecated:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS",
				"message": fmt.Sprintf("Unknown status: %s", req.Status),
			},
		})
		return
	}

	if _, err := h.sourceRepo.GetByID(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Source not found",
			},
		})
		return
	}

	if err := h.sourceRepo.UpdateStatus(c.Request.Context(), id, status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":     id,
			"status": status,
		},
	})
}

// UploadDocument handles POST /api/sources/:id/document
// Stores an archived snapshot of the authoritative document behind a source.
func (h *SourceHandler) UploadDocument(c *gin.Context) {
	sourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid source ID format",
			},
		})
		return
	}

	if _, err := h.sourceRepo.GetByID(c.Request.Context(), sourceID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Source not found",
			},
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "File is required",
			},
		})
		return
	}

	if fileHeader.Size > h.maxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_TOO_LARGE",
				"message": fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize),
			},
		})
		return
	}

	snapshotMime, ok := storage.SnapshotContentType(fileHeader.Filename)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNSUPPORTED_DOCUMENT_TYPE",
				"message": "Only PDF, text, HTML, RTF and Word documents can be archived",
			},
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FILE_OPEN_ERROR",
				"message": err.Error(),
			},
		})
		return
	}
	defer file.Close()

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = snapshotMime
	}

	// A source keeps a single archived snapshot; an upload replaces any
	// earlier one.
	prior, priorErr := h.documentRepo.GetBySourceID(c.Request.Context(), sourceID)

	documentID := uuid.New()
	storagePath, err := h.storage.Upload(c.Request.Context(), documentID, fileHeader.Filename, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	doc := &models.SourceDocument{
		SourceID:    sourceID,
		Filename:    fileHeader.Filename,
		MimeType:    mimeType,
		Size:        fileHeader.Size,
		StoragePath: storagePath,
	}
	if err := h.documentRepo.Create(c.Request.Context(), doc); err != nil {
		// Best effort cleanup of the orphaned object
		_ = h.storage.Delete(c.Request.Context(), storagePath)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	if priorErr == nil && prior != nil {
		if err := h.documentRepo.Delete(c.Request.Context(), prior.ID); err == nil {
			_ = h.storage.Delete(c.Request.Context(), prior.StoragePath)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    doc,
	})
}

// DownloadDocument handles GET /api/sources/:id/document
func (h *SourceHandler) DownloadDocument(c *gin.Context) {
	sourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid source ID format",
			},
		})
		return
	}

	doc, err := h.documentRepo.GetBySourceID(c.Request.Context(), sourceID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "No document archived for this source",
			},
		})
		return
	}

	reader, err := h.storage.Download(c.Request.Context(), doc.StoragePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DOWNLOAD_FAILED",
				"message": err.Error(),
			},
		})
		return
	}
	defer reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	c.Header("Content-Type", doc.MimeType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, reader); err != nil {
		// Response already started; nothing sensible to send
		return
	}
}
