package service

import (
	"context"
	"errors"
	"fmt"

	"legalmind-backend/models"

	"github.com/google/uuid"
)

// Answerer is the inbound contract of the answer pipeline
type Answerer interface {
	Answer(ctx context.Context, req AnswerRequest) (*AnswerResult, error)
}

// ThreadStore is the persistence contract for conversations
type ThreadStore interface {
	CreateThread(ctx context.Context, thread *models.ChatThread) error
	AddMessage(ctx context.Context, message *models.ChatMessage) error
	GetThread(ctx context.Context, id uuid.UUID) (*models.ChatThread, error)
	ListThreadsByUserID(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ChatThread, error)
}

// UserGetter looks up account records for request validation
type UserGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

const (
	maxTitleLength     = 60
	recentThreadsLimit = 12
)

// ThreadService wraps the answer pipeline with conversation persistence.
// The pipeline itself stores nothing; this layer owns the thread and
// message records.
type ThreadService struct {
	chatRepo ThreadStore
	answerer Answerer
	users    UserGetter
}

// ThreadServiceOption is a functional option for ThreadService
type ThreadServiceOption func(*ThreadService)

// ThreadWithChatRepository sets the chat repository
func ThreadWithChatRepository(repo ThreadStore) ThreadServiceOption {
	return func(s *ThreadService) {
		s.chatRepo = repo
	}
}

// ThreadWithAnswerer sets the answer pipeline
func ThreadWithAnswerer(a Answerer) ThreadServiceOption {
	return func(s *ThreadService) {
		s.answerer = a
	}
}

// ThreadWithUserStore sets the user store used to validate thread owners.
// When unset, Ask trusts the caller's user ID.
func ThreadWithUserStore(users UserGetter) ThreadServiceOption {
	return func(s *ThreadService) {
		s.users = users
	}
}

// NewThreadService creates a new thread service
func NewThreadService(opts ...ThreadServiceOption) *ThreadService {
	s := &ThreadService{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AskRequest represents a request to ask a question in a new thread
type AskRequest struct {
	UserID       uuid.UUID
	Jurisdiction string
	Question     string
}

// AskResult represents the result of asking a question
type AskResult struct {
	Thread *models.ChatThread
	Answer *models.LegalAnswer
}

// Ask runs the answer pipeline and persists the exchange as a new thread
// with a user message and an assistant message. Nothing is persisted when
// the pipeline fails.
func (s *ThreadService) Ask(ctx context.Context, req AskRequest) (*AskResult, error) {
	if s.chatRepo == nil {
		return nil, errors.New("chat repository not set")
	}
	if s.answerer == nil {
		return nil, errors.New("answer service not set")
	}

	if s.users != nil {
		if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
			return nil, ErrUserNotFound
		}
	}

	result, err := s.answerer.Answer(ctx, AnswerRequest{
		Jurisdiction: req.Jurisdiction,
		Question:     req.Question,
	})
	if err != nil {
		return nil, err
	}

	thread := &models.ChatThread{
		UserID:       req.UserID,
		Jurisdiction: result.Jurisdiction,
		Title:        threadTitle(req.Question),
	}
	if err := s.chatRepo.CreateThread(ctx, thread); err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}

	userMessage := &models.ChatMessage{
		ThreadID: thread.ID,
		Role:     models.RoleUser,
		Content:  req.Question,
	}
	if err := s.chatRepo.AddMessage(ctx, userMessage); err != nil {
		return nil, fmt.Errorf("failed to store user message: %w", err)
	}

	assistantMessage := &models.ChatMessage{
		ThreadID: thread.ID,
		Role:     models.RoleAssistant,
		Content:  FormatAnswerMessage(result.Answer),
	}
	if err := s.chatRepo.AddMessage(ctx, assistantMessage); err != nil {
		return nil, fmt.Errorf("failed to store assistant message: %w", err)
	}

	thread.Messages = []*models.ChatMessage{userMessage, assistantMessage}

	return &AskResult{
		Thread: thread,
		Answer: result.Answer,
	}, nil
}

// GetThreadRequest represents a request to fetch a thread
type GetThreadRequest struct {
	ThreadID uuid.UUID
	UserID   uuid.UUID
}

// GetThreadResult represents the result of fetching a thread
type GetThreadResult struct {
	Thread *models.ChatThread
}

// ErrThreadNotFound is returned when a thread does not exist or belongs to
// another user
var ErrThreadNotFound = errors.New("thread not found")

// ErrUserNotFound is returned when the asking user has no account record
var ErrUserNotFound = errors.New("user not found")

// GetThread retrieves a thread with its messages, scoped to the owning user
func (s *ThreadService) GetThread(ctx context.Context, req GetThreadRequest) (*GetThreadResult, error) {
	if s.chatRepo == nil {
		return nil, errors.New("chat repository not set")
	}

	thread, err := s.chatRepo.GetThread(ctx, req.ThreadID)
	if err != nil {
		return nil, ErrThreadNotFound
	}
	if thread.UserID != req.UserID {
		return nil, ErrThreadNotFound
	}

	return &GetThreadResult{Thread: thread}, nil
}

// ListRecentThreadsRequest represents a request for a user's recent threads
type ListRecentThreadsRequest struct {
	UserID uuid.UUID
	Limit  int
}

// ListRecentThreadsResult represents the result of listing recent threads
type ListRecentThreadsResult struct {
	Threads []*models.ChatThread
}

// ListRecentThreads lists a user's most recent threads, newest first
func (s *ThreadService) ListRecentThreads(ctx context.Context, req ListRecentThreadsRequest) (*ListRecentThreadsResult, error) {
	if s.chatRepo == nil {
		return nil, errors.New("chat repository not set")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = recentThreadsLimit
	}

	threads, err := s.chatRepo.ListThreadsByUserID(ctx, req.UserID, limit)
	if err != nil {
		return nil, err
	}

	return &ListRecentThreadsResult{Threads: threads}, nil
}

// threadTitle derives a thread title from the question, truncated for
// listing views. Truncation counts runes, not bytes, so multi-byte
// questions never produce a title cut mid-character.
func threadTitle(question string) string {
	runes := []rune(question)
	if len(runes) > maxTitleLength {
		return string(runes[:maxTitleLength]) + "..."
	}
	return question
}

// FormatAnswerMessage renders a LegalAnswer as the assistant's chat message
func FormatAnswerMessage(answer *models.LegalAnswer) string {
	return fmt.Sprintf("%s\n\n%s\n\nConfidence: %s\nRisk: %s\n\n%s",
		answer.Summary, answer.Guidance, answer.Confidence, answer.Risk, answer.Disclaimer)
}
