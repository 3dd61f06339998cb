package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"legalmind-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type mockThreadStore struct {
	threads  map[uuid.UUID]*models.ChatThread
	messages []*models.ChatMessage
	err      error
}

func newMockThreadStore() *mockThreadStore {
	return &mockThreadStore{threads: make(map[uuid.UUID]*models.ChatThread)}
}

func (m *mockThreadStore) CreateThread(_ context.Context, thread *models.ChatThread) error {
	if m.err != nil {
		return m.err
	}
	thread.ID = uuid.New()
	thread.CreatedAt = time.Now().UTC()
	m.threads[thread.ID] = thread
	return nil
}

func (m *mockThreadStore) AddMessage(_ context.Context, message *models.ChatMessage) error {
	if m.err != nil {
		return m.err
	}
	message.ID = uuid.New()
	message.CreatedAt = time.Now().UTC()
	m.messages = append(m.messages, message)
	return nil
}

func (m *mockThreadStore) GetThread(_ context.Context, id uuid.UUID) (*models.ChatThread, error) {
	thread, ok := m.threads[id]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	return thread, nil
}

func (m *mockThreadStore) ListThreadsByUserID(_ context.Context, userID uuid.UUID, limit int) ([]*models.ChatThread, error) {
	var threads []*models.ChatThread
	for _, t := range m.threads {
		if t.UserID == userID {
			threads = append(threads, t)
		}
	}
	return threads, nil
}

type mockUserStore struct {
	users map[uuid.UUID]*models.User
}

func (m *mockUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, errors.New("no rows in result set")
	}
	return user, nil
}

type mockAnswerer struct {
	result *AnswerResult
	err    error
	calls  int
}

func (m *mockAnswerer) Answer(_ context.Context, req AnswerRequest) (*AnswerResult, error) {
	m.calls++
	return m.result, m.err
}

func stubAnswer() *models.LegalAnswer {
	return &models.LegalAnswer{
		Summary:    "General guidance (stub)",
		Guidance:   "Some guidance.",
		Confidence: models.ConfidenceLow,
		Risk:       models.RiskModerate,
		Citations:  []models.CitedSource{},
		NextSteps:  []string{},
		Disclaimer: models.Disclaimer,
	}
}

// --- Tests ---

func TestAsk_PersistsThreadAndBothMessages(t *testing.T) {
	store := newMockThreadStore()
	answerer := &mockAnswerer{result: &AnswerResult{Jurisdiction: "PH", Answer: stubAnswer()}}
	svc := NewThreadService(
		ThreadWithChatRepository(store),
		ThreadWithAnswerer(answerer),
	)

	userID := uuid.New()
	result, err := svc.Ask(context.Background(), AskRequest{
		UserID:       userID,
		Jurisdiction: "",
		Question:     "Can my employer terminate me without notice?",
	})
	require.NoError(t, err)

	// The thread records the normalized jurisdiction from the pipeline
	assert.Equal(t, "PH", result.Thread.Jurisdiction)
	assert.Equal(t, userID, result.Thread.UserID)

	require.Len(t, store.messages, 2)
	assert.Equal(t, models.RoleUser, store.messages[0].Role)
	assert.Equal(t, "Can my employer terminate me without notice?", store.messages[0].Content)
	assert.Equal(t, models.RoleAssistant, store.messages[1].Role)
	assert.Contains(t, store.messages[1].Content, "General guidance (stub)")
	assert.Contains(t, store.messages[1].Content, models.Disclaimer)
}

func TestAsk_TruncatesLongTitles(t *testing.T) {
	store := newMockThreadStore()
	answerer := &mockAnswerer{result: &AnswerResult{Jurisdiction: "PH", Answer: stubAnswer()}}
	svc := NewThreadService(
		ThreadWithChatRepository(store),
		ThreadWithAnswerer(answerer),
	)

	question := strings.Repeat("a", 100)
	result, err := svc.Ask(context.Background(), AskRequest{
		UserID:   uuid.New(),
		Question: question,
	})
	require.NoError(t, err)

	assert.Equal(t, strings.Repeat("a", 60)+"...", result.Thread.Title)
}

func TestAsk_TitleTruncationKeepsValidUTF8(t *testing.T) {
	store := newMockThreadStore()
	answerer := &mockAnswerer{result: &AnswerResult{Jurisdiction: "PH", Answer: stubAnswer()}}
	svc := NewThreadService(
		ThreadWithChatRepository(store),
		ThreadWithAnswerer(answerer),
	)

	// A multi-byte rune straddles the 60th position; truncation must not
	// cut it mid-encoding.
	question := strings.Repeat("x", 59) + "ñ" + strings.Repeat("y", 20)
	result, err := svc.Ask(context.Background(), AskRequest{
		UserID:   uuid.New(),
		Question: question,
	})
	require.NoError(t, err)

	assert.True(t, utf8.ValidString(result.Thread.Title))
	assert.Equal(t, strings.Repeat("x", 59)+"ñ"+"...", result.Thread.Title)
	assert.Equal(t, 63, utf8.RuneCountInString(result.Thread.Title))
}

func TestAsk_UnknownUserIsRejected(t *testing.T) {
	store := newMockThreadStore()
	answerer := &mockAnswerer{result: &AnswerResult{Jurisdiction: "PH", Answer: stubAnswer()}}
	svc := NewThreadService(
		ThreadWithChatRepository(store),
		ThreadWithAnswerer(answerer),
		ThreadWithUserStore(&mockUserStore{}),
	)

	result, err := svc.Ask(context.Background(), AskRequest{
		UserID:   uuid.New(),
		Question: "anything",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Nil(t, result)
	assert.Equal(t, 0, answerer.calls)
	assert.Empty(t, store.threads)
}

func TestAsk_KnownUserPassesValidation(t *testing.T) {
	store := newMockThreadStore()
	answerer := &mockAnswerer{result: &AnswerResult{Jurisdiction: "PH", Answer: stubAnswer()}}

	userID := uuid.New()
	users := &mockUserStore{users: map[uuid.UUID]*models.User{
		userID: {ID: userID, Email: "test@example.com"},
	}}
	svc := NewThreadService(
		ThreadWithChatRepository(store),
		ThreadWithAnswerer(answerer),
		ThreadWithUserStore(users),
	)

	result, err := svc.Ask(context.Background(), AskRequest{
		UserID:   userID,
		Question: "Short question?",
	})
	require.NoError(t, err)
	assert.Equal(t, userID, result.Thread.UserID)
}

func TestAsk_ShortQuestionKeepsFullTitle(t *testing.T) {
	store := newMockThreadStore()
	answerer := &mockAnswerer{result: &AnswerResult{Jurisdiction: "PH", Answer: stubAnswer()}}
	svc := NewThreadService(
		ThreadWithChatRepository(store),
		ThreadWithAnswerer(answerer),
	)

	result, err := svc.Ask(context.Background(), AskRequest{
		UserID:   uuid.New(),
		Question: "Short question?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Short question?", result.Thread.Title)
}

func TestAsk_NothingPersistedOnPipelineFailure(t *testing.T) {
	store := newMockThreadStore()
	answerer := &mockAnswerer{err: ErrGenerationFailed}
	svc := NewThreadService(
		ThreadWithChatRepository(store),
		ThreadWithAnswerer(answerer),
	)

	result, err := svc.Ask(context.Background(), AskRequest{
		UserID:   uuid.New(),
		Question: "anything",
	})
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Nil(t, result)
	assert.Empty(t, store.threads)
	assert.Empty(t, store.messages)
}

func TestFormatAnswerMessage(t *testing.T) {
	answer := &models.LegalAnswer{
		Summary:    "Headline",
		Guidance:   "Body text.",
		Confidence: models.ConfidenceMedium,
		Risk:       models.RiskHigh,
		Disclaimer: models.Disclaimer,
	}

	content := FormatAnswerMessage(answer)
	expected := "Headline\n\nBody text.\n\nConfidence: Medium\nRisk: High\n\n" + models.Disclaimer
	assert.Equal(t, expected, content)
}

func TestGetThread_ScopedToOwner(t *testing.T) {
	store := newMockThreadStore()
	owner := uuid.New()
	thread := &models.ChatThread{UserID: owner, Title: "t", Jurisdiction: "PH"}
	require.NoError(t, store.CreateThread(context.Background(), thread))

	svc := NewThreadService(ThreadWithChatRepository(store))

	// Owner sees it
	result, err := svc.GetThread(context.Background(), GetThreadRequest{
		ThreadID: thread.ID,
		UserID:   owner,
	})
	require.NoError(t, err)
	assert.Equal(t, thread.ID, result.Thread.ID)

	// Anyone else gets not-found, not forbidden
	_, err = svc.GetThread(context.Background(), GetThreadRequest{
		ThreadID: thread.ID,
		UserID:   uuid.New(),
	})
	assert.ErrorIs(t, err, ErrThreadNotFound)
}

func TestListRecentThreads_DefaultsLimit(t *testing.T) {
	store := newMockThreadStore()
	svc := NewThreadService(ThreadWithChatRepository(store))

	result, err := svc.ListRecentThreads(context.Background(), ListRecentThreadsRequest{
		UserID: uuid.New(),
	})
	require.NoError(t, err)
	assert.Empty(t, result.Threads)
}
