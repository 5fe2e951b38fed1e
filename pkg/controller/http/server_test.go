package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	httpctrl "github.com/edopt/chatbot/pkg/controller/http"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/edopt/chatbot/pkg/repository/memory"
	"github.com/edopt/chatbot/pkg/usecase"
	"github.com/m-mizutani/gt"
)

type mockChat struct {
	mu        sync.Mutex
	processFn func(ctx context.Context, input usecase.ChatInput) (*usecase.ChatOutput, error)
	inputs    []usecase.ChatInput
}

func (m *mockChat) Process(ctx context.Context, input usecase.ChatInput) (*usecase.ChatOutput, error) {
	m.mu.Lock()
	m.inputs = append(m.inputs, input)
	m.mu.Unlock()

	if m.processFn != nil {
		return m.processFn(ctx, input)
	}
	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = "generated"
	}
	return &usecase.ChatOutput{Answer: "echo: " + input.Message, SessionID: sessionID, Persisted: true}, nil
}

func (m *mockChat) Greet() *usecase.ChatOutput {
	return &usecase.ChatOutput{Answer: usecase.Greeting, SessionID: model.NewSessionID()}
}

type mockIndex struct {
	mu    sync.Mutex
	calls [][]types.ContentType
	done  chan struct{}
}

func (m *mockIndex) Rebuild(_ context.Context, contentTypes ...types.ContentType) (map[types.ContentType]int, error) {
	m.mu.Lock()
	m.calls = append(m.calls, contentTypes)
	m.mu.Unlock()
	close(m.done)
	return map[types.ContentType]int{}, nil
}

func newServer(chat httpctrl.ChatUseCase, opts ...httpctrl.Options) *httpctrl.Server {
	return httpctrl.New(chat, usecase.NewConversationUseCase(memory.New()), opts...)
}

func do(t *testing.T, h http.Handler, method, path, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v)).Required()
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, newServer(&mockChat{}), http.MethodGet, "/health", "")
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	body := decode[map[string]string](t, rec)
	gt.Value(t, body["status"]).Equal("ok")
	gt.Value(t, body["service"]).Equal("edopt-chatbot")
}

func TestGreet(t *testing.T) {
	rec := do(t, newServer(&mockChat{}), http.MethodGet, "/greet", "")
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	body := decode[map[string]string](t, rec)
	gt.Value(t, body["answer"]).Equal(usecase.Greeting)
	gt.Value(t, body["session_id"]).NotEqual("")
}

func TestChat(t *testing.T) {
	t.Run("answers and echoes the session", func(t *testing.T) {
		chat := &mockChat{}
		rec := do(t, newServer(chat), http.MethodPost, "/chat", `{"message":"hello","session_id":"abc"}`)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		body := decode[map[string]string](t, rec)
		gt.Value(t, body["answer"]).Equal("echo: hello")
		gt.Value(t, body["session_id"]).Equal("abc")

		gt.Array(t, chat.inputs).Length(1).Required()
		gt.Value(t, chat.inputs[0].ClientAddress).Equal("192.0.2.1")
	})

	t.Run("new session when none given", func(t *testing.T) {
		chat := &mockChat{}
		rec := do(t, newServer(chat), http.MethodPost, "/chat", `{"message":"hello"}`)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, chat.inputs[0].SessionID).Equal(model.SessionID(""))
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := do(t, newServer(&mockChat{}), http.MethodPost, "/chat", `{"message":`)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("empty message", func(t *testing.T) {
		chat := &mockChat{processFn: func(context.Context, usecase.ChatInput) (*usecase.ChatOutput, error) {
			return nil, usecase.ErrEmptyMessage
		}}
		rec := do(t, newServer(chat), http.MethodPost, "/chat", `{"message":""}`)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("unexpected failure hides details", func(t *testing.T) {
		chat := &mockChat{processFn: func(context.Context, usecase.ChatInput) (*usecase.ChatOutput, error) {
			return nil, errors.New("database is locked")
		}}
		rec := do(t, newServer(chat), http.MethodPost, "/chat", `{"message":"hi"}`)
		gt.Value(t, rec.Code).Equal(http.StatusInternalServerError)

		body := decode[map[string]string](t, rec)
		gt.Value(t, body["detail"]).Equal("Something went wrong. Please try again.")
		gt.Bool(t, strings.Contains(rec.Body.String(), "locked")).False()
	})
}

func TestChatRateLimit(t *testing.T) {
	srv := newServer(&mockChat{}, httpctrl.WithRateLimit(3))

	for range 3 {
		rec := do(t, srv, http.MethodPost, "/chat", `{"message":"hi"}`)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
	}

	rec := do(t, srv, http.MethodPost, "/chat", `{"message":"hi"}`)
	gt.Value(t, rec.Code).Equal(http.StatusTooManyRequests)
	gt.String(t, rec.Body.String()).Contains("3 per 1 minute")

	// Other endpoints are not limited
	gt.Value(t, do(t, srv, http.MethodGet, "/health", "").Code).Equal(http.StatusOK)
}

func TestCORS(t *testing.T) {
	srv := newServer(&mockChat{}, httpctrl.WithAllowedOrigins([]string{"https://edopt.org"}))

	t.Run("preflight from an allowed origin", func(t *testing.T) {
		rec := do(t, srv, http.MethodOptions, "/chat", "",
			"Origin", "https://edopt.org",
			"Access-Control-Request-Method", "POST",
			"Access-Control-Request-Headers", "content-type",
		)
		gt.Value(t, rec.Code).Equal(http.StatusNoContent)
		gt.Value(t, rec.Header().Get("Access-Control-Allow-Origin")).Equal("https://edopt.org")
		gt.String(t, rec.Header().Get("Access-Control-Allow-Methods")).Contains("POST")
	})

	t.Run("local development origin", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/health", "", "Origin", "http://localhost:5012")
		gt.Value(t, rec.Header().Get("Access-Control-Allow-Origin")).Equal("http://localhost:5012")
	})

	t.Run("unknown origin", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/health", "", "Origin", "https://evil.example")
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Value(t, rec.Header().Get("Access-Control-Allow-Origin")).Equal("")

		rec = do(t, srv, http.MethodOptions, "/chat", "",
			"Origin", "https://evil.example",
			"Access-Control-Request-Method", "POST",
		)
		gt.Value(t, rec.Code).Equal(http.StatusForbidden)
	})
}

func TestConversations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	sessionID := model.NewSessionID()
	_, err := repo.Chat().GetOrCreate(ctx, sessionID, "203.0.113.7")
	gt.NoError(t, err).Required()
	gt.NoError(t, repo.Chat().AppendMessage(ctx, &model.ChatMessage{
		SessionID: sessionID, Role: types.RoleUser, Content: "hi",
	})).Required()
	gt.NoError(t, repo.Chat().AppendMessage(ctx, &model.ChatMessage{
		SessionID: sessionID, Role: types.RoleAssistant, Content: "hello",
		ToolCalls: []model.ToolCallRecord{model.NewToolCallRecord("search_content", map[string]any{"query": "efa"}, "found")},
	})).Required()

	srv := httpctrl.New(&mockChat{}, usecase.NewConversationUseCase(repo))
	rec := do(t, srv, http.MethodGet, "/api/conversations", "")
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	type message struct {
		Role      string                 `json:"role"`
		Content   string                 `json:"content"`
		CreatedAt *string                `json:"created_at"`
		ToolCalls []model.ToolCallRecord `json:"tool_calls"`
	}
	type session struct {
		ID        string    `json:"id"`
		IPAddress string    `json:"ip_address"`
		Messages  []message `json:"messages"`
	}
	body := decode[struct {
		TotalSessions int       `json:"total_sessions"`
		TotalMessages int       `json:"total_messages"`
		Sessions      []session `json:"sessions"`
	}](t, rec)

	gt.Value(t, body.TotalSessions).Equal(1)
	gt.Value(t, body.TotalMessages).Equal(2)
	gt.Array(t, body.Sessions).Length(1).Required()
	gt.Value(t, body.Sessions[0].ID).Equal(sessionID.String())
	gt.Value(t, body.Sessions[0].IPAddress).Equal("203.0.113.7")
	gt.Array(t, body.Sessions[0].Messages).Length(2).Required()
	gt.Value(t, body.Sessions[0].Messages[0].Role).Equal("user")
	gt.Value(t, body.Sessions[0].Messages[0].CreatedAt).NotNil()
	gt.Value(t, body.Sessions[0].Messages[0].ToolCalls).Equal(nil)
	gt.Array(t, body.Sessions[0].Messages[1].ToolCalls).Length(1).Required()
	gt.Value(t, body.Sessions[0].Messages[1].ToolCalls[0].Tool).Equal("search_content")

	t.Run("invalid limit", func(t *testing.T) {
		rec := do(t, srv, http.MethodGet, "/api/conversations?limit=abc", "")
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestAdminEndpoints(t *testing.T) {
	index := &mockIndex{done: make(chan struct{})}
	srv := newServer(&mockChat{}, httpctrl.WithAdminToken("s3cret"), httpctrl.WithIndex(index))

	t.Run("token required", func(t *testing.T) {
		gt.Value(t, do(t, srv, http.MethodGet, "/api/conversations", "").Code).Equal(http.StatusUnauthorized)
		gt.Value(t, do(t, srv, http.MethodPost, "/api/reindex", "",
			"Authorization", "Bearer wrong").Code).Equal(http.StatusUnauthorized)
		gt.Value(t, do(t, srv, http.MethodGet, "/api/conversations", "",
			"Authorization", "Bearer s3cret").Code).Equal(http.StatusOK)
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/api/reindex?type=tweet", "", "Authorization", "Bearer s3cret")
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("reindex runs in background", func(t *testing.T) {
		rec := do(t, srv, http.MethodPost, "/api/reindex?type=rsa&type=legislation", "", "Authorization", "Bearer s3cret")
		gt.Value(t, rec.Code).Equal(http.StatusAccepted)

		select {
		case <-index.done:
		case <-time.After(time.Second):
			t.Fatal("rebuild was not started")
		}

		index.mu.Lock()
		defer index.mu.Unlock()
		gt.Array(t, index.calls).Length(1).Required()
		gt.Value(t, index.calls[0]).Equal([]types.ContentType{types.ContentTypeRSA, types.ContentTypeLegislation})
	})
}

func TestReindexNeedsToken(t *testing.T) {
	srv := newServer(&mockChat{}, httpctrl.WithIndex(&mockIndex{done: make(chan struct{})}))
	rec := do(t, srv, http.MethodPost, "/api/reindex", "")
	gt.Value(t, rec.Code).Equal(http.StatusNotFound)
}

func TestMetrics(t *testing.T) {
	srv := newServer(&mockChat{}, httpctrl.WithMetrics(true))
	rec := do(t, srv, http.MethodGet, "/metrics", "")
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.String(t, rec.Body.String()).Contains("edopt_")
}
