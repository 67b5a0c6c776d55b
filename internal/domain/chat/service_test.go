package chat_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"verse-server/services/chat-api/internal/domain/chat"
	"verse-server/services/chat-api/internal/domain/llm"
	"verse-server/services/chat-api/internal/domain/thread"
	"verse-server/services/chat-api/internal/utils/platformerrors"
)

// MockThreadService is a func-field mock of thread.Service.
type MockThreadService struct {
	CreateFunc    func(ctx context.Context, userID string, title *string) (*thread.Thread, error)
	GetFunc       func(ctx context.Context, userID, publicID string) (*thread.Thread, error)
	ListFunc      func(ctx context.Context, userID string) ([]*thread.Thread, error)
	DeleteFunc    func(ctx context.Context, userID, publicID string) error
	MessagesFunc  func(ctx context.Context, userID, publicID string) ([]*thread.Message, error)
	AuthorizeFunc func(ctx context.Context, userID, publicID string) (*thread.Thread, error)
}

func (m *MockThreadService) Create(ctx context.Context, userID string, title *string) (*thread.Thread, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, title)
	}
	return nil, nil
}

func (m *MockThreadService) Get(ctx context.Context, userID, publicID string) (*thread.Thread, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID, publicID)
	}
	return nil, nil
}

func (m *MockThreadService) List(ctx context.Context, userID string) ([]*thread.Thread, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockThreadService) Delete(ctx context.Context, userID, publicID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID, publicID)
	}
	return nil
}

func (m *MockThreadService) Messages(ctx context.Context, userID, publicID string) ([]*thread.Message, error) {
	if m.MessagesFunc != nil {
		return m.MessagesFunc(ctx, userID, publicID)
	}
	return nil, nil
}

func (m *MockThreadService) Authorize(ctx context.Context, userID, publicID string) (*thread.Thread, error) {
	if m.AuthorizeFunc != nil {
		return m.AuthorizeFunc(ctx, userID, publicID)
	}
	return nil, nil
}

// MockRepository is a func-field mock of thread.Repository.
type MockRepository struct {
	CreateFunc             func(ctx context.Context, t *thread.Thread) error
	FindByPublicIDFunc     func(ctx context.Context, publicID string) (*thread.Thread, error)
	ListByUserFunc         func(ctx context.Context, userID string) ([]*thread.Thread, error)
	DeleteFunc             func(ctx context.Context, id uint) error
	AppendMessageFunc      func(ctx context.Context, threadID uint, role llm.Role, content string) (*thread.Message, error)
	ListRecentMessagesFunc func(ctx context.Context, threadID uint, limit int) ([]*thread.Message, error)
	ListMessagesFunc       func(ctx context.Context, threadID uint) ([]*thread.Message, error)
	TouchFunc              func(ctx context.Context, id uint) error
}

func (m *MockRepository) Create(ctx context.Context, t *thread.Thread) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, t)
	}
	return nil
}

func (m *MockRepository) FindByPublicID(ctx context.Context, publicID string) (*thread.Thread, error) {
	if m.FindByPublicIDFunc != nil {
		return m.FindByPublicIDFunc(ctx, publicID)
	}
	return nil, nil
}

func (m *MockRepository) ListByUser(ctx context.Context, userID string) ([]*thread.Thread, error) {
	if m.ListByUserFunc != nil {
		return m.ListByUserFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockRepository) Delete(ctx context.Context, id uint) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *MockRepository) AppendMessage(ctx context.Context, threadID uint, role llm.Role, content string) (*thread.Message, error) {
	if m.AppendMessageFunc != nil {
		return m.AppendMessageFunc(ctx, threadID, role, content)
	}
	return &thread.Message{ThreadID: threadID, Role: role, Content: content}, nil
}

func (m *MockRepository) ListRecentMessages(ctx context.Context, threadID uint, limit int) ([]*thread.Message, error) {
	if m.ListRecentMessagesFunc != nil {
		return m.ListRecentMessagesFunc(ctx, threadID, limit)
	}
	return nil, nil
}

func (m *MockRepository) ListMessages(ctx context.Context, threadID uint) ([]*thread.Message, error) {
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx, threadID)
	}
	return nil, nil
}

func (m *MockRepository) Touch(ctx context.Context, id uint) error {
	if m.TouchFunc != nil {
		return m.TouchFunc(ctx, id)
	}
	return nil
}

// MockProvider is a func-field mock of llm.Provider.
type MockProvider struct {
	GenerateFunc    func(ctx context.Context, turn llm.Turn, cfg llm.Config) (*llm.GenerateResponse, error)
	HealthCheckFunc func(ctx context.Context, cfg llm.Config) llm.Health
	Calls           int
}

func (m *MockProvider) Generate(ctx context.Context, turn llm.Turn, cfg llm.Config) (*llm.GenerateResponse, error) {
	m.Calls++
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, turn, cfg)
	}
	return nil, nil
}

func (m *MockProvider) HealthCheck(ctx context.Context, cfg llm.Config) llm.Health {
	if m.HealthCheckFunc != nil {
		return m.HealthCheckFunc(ctx, cfg)
	}
	return llm.Health{Status: llm.HealthOnline}
}

func testConfigStore(t *testing.T) *llm.ConfigStore {
	t.Helper()
	store, err := llm.NewConfigStore(llm.Config{
		ModelID:         "gemini-2.0-flash",
		Temperature:     0.7,
		TopK:            40,
		TopP:            0.95,
		MaxOutputTokens: 2048,
		Timeout:         30 * time.Second,
		MaxRetries:      2,
		RetryBaseDelay:  500 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("seed config store: %v", err)
	}
	return store
}

func textResponse(text string) *llm.GenerateResponse {
	return &llm.GenerateResponse{
		Candidates: []llm.Candidate{{
			Content:      llm.Content{Role: "model", Parts: []llm.Part{{Text: text}}},
			FinishReason: "STOP",
		}},
		UsageMetadata: &llm.UsageMetadata{
			PromptTokenCount:     10,
			CandidatesTokenCount: 5,
			TotalTokenCount:      15,
		},
	}
}

func TestHandleExistingThread(t *testing.T) {
	owned := &thread.Thread{ID: 7, PublicID: "thread_abc123", UserID: "alice"}

	history := make([]*thread.Message, 0, 12)
	for i := 0; i < 12; i++ {
		role := llm.RoleUser
		if i%2 == 1 {
			role = llm.RoleAssistant
		}
		history = append(history, &thread.Message{ThreadID: 7, Role: role, Content: "old"})
	}

	var appended []llm.Role
	touched := false
	repo := &MockRepository{
		ListRecentMessagesFunc: func(ctx context.Context, threadID uint, limit int) ([]*thread.Message, error) {
			if threadID != 7 {
				t.Errorf("unexpected thread id %d", threadID)
			}
			if limit != llm.MaxContextMessages {
				t.Errorf("unexpected limit %d", limit)
			}
			if len(history) > limit {
				return history[len(history)-limit:], nil
			}
			return history, nil
		},
		AppendMessageFunc: func(ctx context.Context, threadID uint, role llm.Role, content string) (*thread.Message, error) {
			appended = append(appended, role)
			return &thread.Message{PublicID: "msg_" + string(role), ThreadID: threadID, Role: role, Content: content}, nil
		},
		TouchFunc: func(ctx context.Context, id uint) error {
			touched = true
			return nil
		},
	}
	threads := &MockThreadService{
		AuthorizeFunc: func(ctx context.Context, userID, publicID string) (*thread.Thread, error) {
			return owned, nil
		},
	}
	provider := &MockProvider{
		GenerateFunc: func(ctx context.Context, turn llm.Turn, cfg llm.Config) (*llm.GenerateResponse, error) {
			if len(turn.Context) != llm.MaxContextMessages {
				t.Errorf("expected %d context messages, got %d", llm.MaxContextMessages, len(turn.Context))
			}
			if turn.Prompt != "How are you?" {
				t.Errorf("unexpected prompt %q", turn.Prompt)
			}
			return textResponse("  I'm   well!\n\n\nThanks.  "), nil
		},
	}

	svc := chat.NewService(threads, repo, provider, testConfigStore(t), zerolog.Nop())
	result, err := svc.Handle(context.Background(), "alice", "thread_abc123", " How are you? ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.AssistantMessage.Content != "I'm well!\nThanks." {
		t.Errorf("answer not cleaned: %q", result.AssistantMessage.Content)
	}
	if result.UserMessage.Content != "How are you?" {
		t.Errorf("user message not trimmed: %q", result.UserMessage.Content)
	}
	if len(appended) != 2 || appended[0] != llm.RoleUser || appended[1] != llm.RoleAssistant {
		t.Errorf("unexpected append order: %v", appended)
	}
	if !touched {
		t.Error("thread timestamp was not bumped")
	}
	if result.Usage.TotalTokens != 15 {
		t.Errorf("unexpected usage: %+v", result.Usage)
	}
	if provider.Calls != 1 {
		t.Errorf("expected one provider call, got %d", provider.Calls)
	}
}

func TestHandleFirstMessageCreatesThread(t *testing.T) {
	var createdTitle *string
	threads := &MockThreadService{
		AuthorizeFunc: func(ctx context.Context, userID, publicID string) (*thread.Thread, error) {
			t.Error("authorize must not run without a thread id")
			return nil, nil
		},
		CreateFunc: func(ctx context.Context, userID string, title *string) (*thread.Thread, error) {
			createdTitle = title
			return &thread.Thread{ID: 3, PublicID: "thread_new00001", UserID: userID, Title: title}, nil
		},
	}
	repo := &MockRepository{
		ListRecentMessagesFunc: func(ctx context.Context, threadID uint, limit int) ([]*thread.Message, error) {
			t.Error("history must not be loaded for a new thread")
			return nil, nil
		},
	}
	provider := &MockProvider{
		GenerateFunc: func(ctx context.Context, turn llm.Turn, cfg llm.Config) (*llm.GenerateResponse, error) {
			if len(turn.Context) != 0 {
				t.Errorf("expected empty context, got %d", len(turn.Context))
			}
			return textResponse("Hello!"), nil
		},
	}

	svc := chat.NewService(threads, repo, provider, testConfigStore(t), zerolog.Nop())
	result, err := svc.Handle(context.Background(), "alice", "", "Tell me about the weather in Paris this coming weekend please")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Thread.PublicID != "thread_new00001" {
		t.Errorf("unexpected thread: %+v", result.Thread)
	}
	if createdTitle == nil {
		t.Fatal("expected a generated title")
	}
	// First eight words, capped at 64 characters.
	if *createdTitle != "Tell me about the weather in Paris this" {
		t.Errorf("unexpected title: %q", *createdTitle)
	}
}

func TestHandleForeignThreadSkipsProvider(t *testing.T) {
	threads := &MockThreadService{
		AuthorizeFunc: func(ctx context.Context, userID, publicID string) (*thread.Thread, error) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerDomain,
				platformerrors.ErrorTypeNotFound,
				"thread not found: "+publicID,
				nil,
				"00000000-0000-0000-0000-000000000002",
			)
		},
	}
	repo := &MockRepository{
		ListRecentMessagesFunc: func(ctx context.Context, threadID uint, limit int) ([]*thread.Message, error) {
			t.Error("history must not be loaded for an unauthorized thread")
			return nil, nil
		},
		AppendMessageFunc: func(ctx context.Context, threadID uint, role llm.Role, content string) (*thread.Message, error) {
			t.Error("nothing may be persisted for an unauthorized thread")
			return nil, nil
		},
	}
	provider := &MockProvider{}

	svc := chat.NewService(threads, repo, provider, testConfigStore(t), zerolog.Nop())
	_, err := svc.Handle(context.Background(), "mallory", "thread_abc123", "hi")
	if err == nil {
		t.Fatal("expected error")
	}
	if !platformerrors.IsType(err, platformerrors.ErrorTypeNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if provider.Calls != 0 {
		t.Errorf("provider must not be invoked, got %d calls", provider.Calls)
	}
}

func TestHandleProviderFailureNothingPersisted(t *testing.T) {
	repo := &MockRepository{
		AppendMessageFunc: func(ctx context.Context, threadID uint, role llm.Role, content string) (*thread.Message, error) {
			t.Error("nothing may be persisted when generation fails")
			return nil, nil
		},
	}
	threads := &MockThreadService{
		CreateFunc: func(ctx context.Context, userID string, title *string) (*thread.Thread, error) {
			t.Error("no thread may be created when generation fails")
			return nil, nil
		},
	}
	provider := &MockProvider{
		GenerateFunc: func(ctx context.Context, turn llm.Turn, cfg llm.Config) (*llm.GenerateResponse, error) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerInfrastructure,
				platformerrors.ErrorTypeRateLimited,
				"provider rate limit persisted across 3 attempts",
				nil,
				"00000000-0000-0000-0000-000000000003",
			)
		},
	}

	svc := chat.NewService(threads, repo, provider, testConfigStore(t), zerolog.Nop())
	_, err := svc.Handle(context.Background(), "alice", "", "hi")
	if err == nil {
		t.Fatal("expected error")
	}
	if !platformerrors.IsType(err, platformerrors.ErrorTypeRateLimited) {
		t.Errorf("expected rate limited, got %v", err)
	}
}

func TestHandleUnusableResponseWrapped(t *testing.T) {
	provider := &MockProvider{
		GenerateFunc: func(ctx context.Context, turn llm.Turn, cfg llm.Config) (*llm.GenerateResponse, error) {
			// HTTP 200 with no candidates: a normalization failure, not a retry.
			return &llm.GenerateResponse{}, nil
		},
	}
	repo := &MockRepository{
		AppendMessageFunc: func(ctx context.Context, threadID uint, role llm.Role, content string) (*thread.Message, error) {
			t.Error("nothing may be persisted for an unusable response")
			return nil, nil
		},
	}

	svc := chat.NewService(&MockThreadService{}, repo, provider, testConfigStore(t), zerolog.Nop())
	_, err := svc.Handle(context.Background(), "alice", "", "hi")
	if err == nil {
		t.Fatal("expected error")
	}
	if !platformerrors.IsType(err, platformerrors.ErrorTypeUpstreamResponse) {
		t.Errorf("expected upstream response error, got %v", err)
	}
	if provider.Calls != 1 {
		t.Errorf("expected exactly one provider call, got %d", provider.Calls)
	}
}

func TestHandleAssistantWriteFailureKeepsUserMessage(t *testing.T) {
	var appended []llm.Role
	repo := &MockRepository{
		AppendMessageFunc: func(ctx context.Context, threadID uint, role llm.Role, content string) (*thread.Message, error) {
			appended = append(appended, role)
			if role == llm.RoleAssistant {
				return nil, errors.New("connection reset")
			}
			return &thread.Message{PublicID: "msg_user0001", ThreadID: threadID, Role: role, Content: content}, nil
		},
	}
	threads := &MockThreadService{
		AuthorizeFunc: func(ctx context.Context, userID, publicID string) (*thread.Thread, error) {
			return &thread.Thread{ID: 7, PublicID: publicID, UserID: userID}, nil
		},
	}
	provider := &MockProvider{
		GenerateFunc: func(ctx context.Context, turn llm.Turn, cfg llm.Config) (*llm.GenerateResponse, error) {
			return textResponse("answer"), nil
		},
	}

	svc := chat.NewService(threads, repo, provider, testConfigStore(t), zerolog.Nop())
	_, err := svc.Handle(context.Background(), "alice", "thread_abc123", "hi")
	if err == nil {
		t.Fatal("expected error")
	}
	if !platformerrors.IsType(err, platformerrors.ErrorTypePersistence) {
		t.Errorf("expected persistence error, got %v", err)
	}
	// The user message write happened first and is not rolled back.
	if len(appended) != 2 || appended[0] != llm.RoleUser {
		t.Errorf("unexpected append sequence: %v", appended)
	}
}

func TestHealthDelegatesToProvider(t *testing.T) {
	provider := &MockProvider{
		HealthCheckFunc: func(ctx context.Context, cfg llm.Config) llm.Health {
			return llm.Health{Status: llm.HealthOffline, Model: cfg.ModelID, Error: "provider unavailable after 1 attempts"}
		},
	}

	svc := chat.NewService(&MockThreadService{}, &MockRepository{}, provider, testConfigStore(t), zerolog.Nop())
	health := svc.Health(context.Background())
	if health.Status != llm.HealthOffline {
		t.Errorf("unexpected status: %s", health.Status)
	}
	if health.Model != "gemini-2.0-flash" {
		t.Errorf("unexpected model: %s", health.Model)
	}
}
