package handlers

import (
	"context"
	"errors"
	"net/http"

	"legalmind-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AskHandler handles HTTP requests for asking questions and reading threads
type AskHandler struct {
	threadService *service.ThreadService
}

// NewAskHandler creates a new ask handler
func NewAskHandler(threadService *service.ThreadService) *AskHandler {
	return &AskHandler{threadService: threadService}
}

// AskRequest represents the request body for asking a question
type AskRequest struct {
	UserID       string `json:"user_id" binding:"required"`
	Jurisdiction string `json:"jurisdiction"`
	Question     string `json:"question"`
}

// Ask handles POST /api/ask
func (h *AskHandler) Ask(c *gin.Context) {
	var req AskRequest
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

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user_id format",
			},
		})
		return
	}

	result, err := h.threadService.Ask(c.Request.Context(), service.AskRequest{
		UserID:       userID,
		Jurisdiction: req.Jurisdiction,
		Question:     req.Question,
	})
	if err != nil {
		// The client gave up; nothing to send
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			c.Status(499)
			return
		}

		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "USER_NOT_FOUND",
					"message": "User not found",
				},
			})
			return
		}

		// Pipeline faults degrade to a generic message; internals stay in logs
		if errors.Is(err, service.ErrRetrievalFailed) || errors.Is(err, service.ErrGenerationFailed) {
			c.JSON(http.StatusBadGateway, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ANSWER_UNAVAILABLE",
					"message": "Something went wrong while preparing your answer. Please try again.",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ASK_FAILED",
				"message": "Something went wrong. Please try again.",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"thread": result.Thread,
			"answer": result.Answer,
		},
	})
}

// GetThread handles GET /api/threads/:id
func (h *AskHandler) GetThread(c *gin.Context) {
	threadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid thread ID format",
			},
		})
		return
	}

	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user_id format",
			},
		})
		return
	}

	result, err := h.threadService.GetThread(c.Request.Context(), service.GetThreadRequest{
		ThreadID: threadID,
		UserID:   userID,
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Thread not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Thread,
	})
}

// ListThreads handles GET /api/users/:id/threads
func (h *AskHandler) ListThreads(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user ID format",
			},
		})
		return
	}

	result, err := h.threadService.ListRecentThreads(c.Request.Context(), service.ListRecentThreadsRequest{
		UserID: userID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": "Failed to list threads",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Threads,
	})
}
