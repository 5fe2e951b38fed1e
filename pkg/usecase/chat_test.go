package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/edopt/chatbot/pkg/agent/tool"
	"github.com/edopt/chatbot/pkg/agent/tool/core"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/edopt/chatbot/pkg/repository/memory"
	"github.com/edopt/chatbot/pkg/usecase"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gt"
)

type mockChatModel struct {
	mu         sync.Mutex
	generateFn func(ctx context.Context, call int, req *model.ChatRequest) (*model.ChatResponse, error)
	requests   []*model.ChatRequest
}

func (m *mockChatModel) Generate(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	m.mu.Lock()
	captured := *req
	captured.Messages = slices.Clone(req.Messages)
	m.requests = append(m.requests, &captured)
	call := len(m.requests)
	m.mu.Unlock()

	return m.generateFn(ctx, call, req)
}

type mockDispatcher struct {
	mu    sync.Mutex
	calls [][]model.ToolCall
}

func (d *mockDispatcher) Specs() []gollem.ToolSpec {
	return []gollem.ToolSpec{{Name: tool.NameLookupRSA.String(), Description: "Look up a statute"}}
}

func (d *mockDispatcher) DispatchAll(_ context.Context, calls []model.ToolCall) []model.ToolResult {
	d.mu.Lock()
	d.calls = append(d.calls, calls)
	d.mu.Unlock()

	results := make([]model.ToolResult, len(calls))
	for i, c := range calls {
		results[i] = model.ToolResult{CallID: c.ID, Content: "result of " + c.Name}
	}
	return results
}

func textResponse(text string) *model.ChatResponse {
	return &model.ChatResponse{StopReason: model.StopReasonEndTurn, Texts: []string{text}}
}

func toolResponse(id string, args map[string]any) *model.ChatResponse {
	return &model.ChatResponse{
		StopReason: model.StopReasonToolUse,
		ToolCalls:  []model.ToolCall{{ID: id, Name: tool.NameLookupRSA.String(), Arguments: args}},
	}
}

func newChat(t *testing.T, repo *memory.Repository, chatModel *mockChatModel, tools usecase.ToolDispatcher, opts ...usecase.ChatOption) *usecase.ChatUseCase {
	t.Helper()
	uc, err := usecase.NewChatUseCase(repo, chatModel, tools, opts...)
	gt.NoError(t, err).Required()
	return uc
}

func TestChatProcessToolRound(t *testing.T) {
	repo := memory.New()
	chatModel := &mockChatModel{
		generateFn: func(_ context.Context, call int, _ *model.ChatRequest) (*model.ChatResponse, error) {
			if call == 1 {
				return toolResponse("toolu_1", map[string]any{"chapter": "193-A", "section": "1"}), nil
			}
			return textResponse("RSA 193-A:1 defines home education."), nil
		},
	}
	dispatcher := &mockDispatcher{}
	uc := newChat(t, repo, chatModel, dispatcher)

	ctx := context.Background()
	out, err := uc.Process(ctx, usecase.ChatInput{Message: "What is RSA 193-A:1?"})
	gt.NoError(t, err).Required()

	gt.Value(t, out.Answer).Equal("RSA 193-A:1 defines home education.")
	gt.Bool(t, out.Persisted).True()
	gt.Value(t, out.SessionID).NotEqual(model.SessionID(""))

	gt.Array(t, dispatcher.calls).Length(1).Required()
	gt.Array(t, dispatcher.calls[0]).Length(1).Required()
	gt.Value(t, dispatcher.calls[0][0].ID).Equal("toolu_1")

	gt.Array(t, chatModel.requests).Length(2).Required()
	first, second := chatModel.requests[0], chatModel.requests[1]
	gt.Array(t, first.Messages).Length(1)
	gt.Array(t, second.Messages).Length(3).Required()

	assistant := second.Messages[1]
	gt.Value(t, assistant.Role).Equal(types.RoleAssistant)
	gt.Array(t, assistant.ToolCalls).Length(1)

	results := second.Messages[2]
	gt.Value(t, results.Role).Equal(types.RoleUser)
	gt.Array(t, results.ToolResults).Length(1).Required()
	gt.Value(t, results.ToolResults[0].CallID).Equal("toolu_1")

	gt.Array(t, out.ToolCalls).Length(1).Required()
	gt.Value(t, out.ToolCalls[0].Tool).Equal(tool.NameLookupRSA.String())
	gt.Value(t, out.ToolCalls[0].ResultPreview).Equal("result of lookup_rsa")

	messages, err := repo.Chat().ListMessages(ctx, out.SessionID)
	gt.NoError(t, err).Required()
	gt.Array(t, messages).Length(2).Required()
	gt.Value(t, messages[0].Role).Equal(types.RoleUser)
	gt.Value(t, messages[0].Content).Equal("What is RSA 193-A:1?")
	gt.Value(t, messages[1].Role).Equal(types.RoleAssistant)
	gt.Array(t, messages[1].ToolCalls).Length(1)
}

func TestChatProcessWithRegistry(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	gt.NoError(t, repo.Statute().Put(ctx, &model.Statute{
		ID:          1,
		TitleName:   "EDUCATION",
		ChapterNo:   "193-A",
		ChapterName: "HOME EDUCATION",
		SectionNo:   "1",
		SectionName: "Definitions",
		Text:        "\"Home education\" means an educational program ...",
	})).Required()

	registry, err := tool.NewRegistry(core.New(repo, nil))
	gt.NoError(t, err).Required()

	chatModel := &mockChatModel{
		generateFn: func(_ context.Context, call int, req *model.ChatRequest) (*model.ChatResponse, error) {
			if call == 1 {
				return toolResponse("toolu_1", map[string]any{"chapter": "193-A", "section": "1"}), nil
			}
			last := req.Messages[len(req.Messages)-1]
			return textResponse(last.ToolResults[0].Content), nil
		},
	}

	var updates []string
	uc := newChat(t, repo, chatModel, registry, usecase.WithToolUpdate(func(_ context.Context, msg string) {
		updates = append(updates, msg)
	}))

	out, err := uc.Process(ctx, usecase.ChatInput{Message: "Define home education"})
	gt.NoError(t, err).Required()
	gt.String(t, out.Answer).Contains("**RSA 193-A:1 - Definitions**")
	gt.String(t, out.Answer).Contains("HOME EDUCATION")
	gt.Array(t, updates).Length(1).Required()
	gt.String(t, updates[0]).Contains("193-A:1")

	gt.Array(t, chatModel.requests[0].Tools).Length(4)
}

func TestChatProcessIterationCap(t *testing.T) {
	repo := memory.New()
	chatModel := &mockChatModel{
		generateFn: func(_ context.Context, call int, _ *model.ChatRequest) (*model.ChatResponse, error) {
			resp := toolResponse(fmt.Sprintf("toolu_%d", call), map[string]any{"search_text": "efa"})
			resp.Texts = []string{"Still looking."}
			return resp, nil
		},
	}
	dispatcher := &mockDispatcher{}
	uc := newChat(t, repo, chatModel, dispatcher)

	out, err := uc.Process(context.Background(), usecase.ChatInput{Message: "Tell me about EFAs"})
	gt.NoError(t, err).Required()

	gt.Array(t, chatModel.requests).Length(usecase.MaxToolIterations + 1)
	gt.Array(t, dispatcher.calls).Length(usecase.MaxToolIterations)
	gt.Array(t, out.ToolCalls).Length(usecase.MaxToolIterations)
	gt.Value(t, out.Answer).Equal("Still looking.")
	gt.Bool(t, out.Persisted).True()
}

func TestChatProcessIterationCapWithoutText(t *testing.T) {
	repo := memory.New()
	chatModel := &mockChatModel{
		generateFn: func(_ context.Context, call int, _ *model.ChatRequest) (*model.ChatResponse, error) {
			return toolResponse(fmt.Sprintf("toolu_%d", call), map[string]any{"search_text": "efa"}), nil
		},
	}
	dispatcher := &mockDispatcher{}
	uc := newChat(t, repo, chatModel, dispatcher)

	out, err := uc.Process(context.Background(), usecase.ChatInput{Message: "Tell me about EFAs"})
	gt.NoError(t, err).Required()

	gt.Array(t, chatModel.requests).Length(usecase.MaxToolIterations + 1)
	gt.Array(t, dispatcher.calls).Length(usecase.MaxToolIterations)
	gt.Value(t, out.Answer).Equal(usecase.FallbackAnswer)
	gt.Bool(t, out.Persisted).True()
}

func TestChatProcessFallbackAnswer(t *testing.T) {
	repo := memory.New()
	chatModel := &mockChatModel{
		generateFn: func(context.Context, int, *model.ChatRequest) (*model.ChatResponse, error) {
			return &model.ChatResponse{StopReason: model.StopReasonEndTurn}, nil
		},
	}
	uc := newChat(t, repo, chatModel, &mockDispatcher{})

	out, err := uc.Process(context.Background(), usecase.ChatInput{Message: "hello"})
	gt.NoError(t, err).Required()
	gt.Value(t, out.Answer).Equal(usecase.FallbackAnswer)
	gt.Bool(t, out.Persisted).True()
}

func TestChatProcessModelFailure(t *testing.T) {
	errModel := errors.New("overloaded")

	testCases := []struct {
		name       string
		failOnCall int
		wantAnswer string
		wantTools  int
	}{
		{name: "first call", failOnCall: 1, wantAnswer: usecase.ConnectionApology, wantTools: 0},
		{name: "inside tool loop", failOnCall: 2, wantAnswer: usecase.ToolLoopErrorApology, wantTools: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			repo := memory.New()
			chatModel := &mockChatModel{
				generateFn: func(_ context.Context, call int, _ *model.ChatRequest) (*model.ChatResponse, error) {
					if call == tc.failOnCall {
						return nil, errModel
					}
					return toolResponse("toolu_1", map[string]any{"chapter": "194-F"}), nil
				},
			}
			dispatcher := &mockDispatcher{}
			uc := newChat(t, repo, chatModel, dispatcher)

			ctx := context.Background()
			out, err := uc.Process(ctx, usecase.ChatInput{Message: "What is an EFA?"})
			gt.NoError(t, err).Required()
			gt.Value(t, out.Answer).Equal(tc.wantAnswer)
			gt.Bool(t, out.Persisted).False()
			gt.Array(t, dispatcher.calls).Length(tc.wantTools)

			messages, err := repo.Chat().ListMessages(ctx, out.SessionID)
			gt.NoError(t, err).Required()
			gt.Array(t, messages).Length(0)
		})
	}
}

func TestChatProcessModelTimeout(t *testing.T) {
	repo := memory.New()
	chatModel := &mockChatModel{
		generateFn: func(ctx context.Context, _ int, _ *model.ChatRequest) (*model.ChatResponse, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}
	uc := newChat(t, repo, chatModel, &mockDispatcher{}, usecase.WithModelTimeout(10*time.Millisecond))

	out, err := uc.Process(context.Background(), usecase.ChatInput{Message: "hi"})
	gt.NoError(t, err).Required()
	gt.Value(t, out.Answer).Equal(usecase.ConnectionApology)
}

func TestChatProcessHistoryWindow(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	sessionID := model.NewSessionID()
	_, err := repo.Chat().GetOrCreate(ctx, sessionID, "127.0.0.1")
	gt.NoError(t, err).Required()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i := range 11 {
		at := base.Add(time.Duration(i) * time.Minute)
		gt.NoError(t, repo.Chat().AppendMessage(ctx, &model.ChatMessage{
			SessionID: sessionID, Role: types.RoleUser, Content: fmt.Sprintf("question %d", i), CreatedAt: at,
		})).Required()
		gt.NoError(t, repo.Chat().AppendMessage(ctx, &model.ChatMessage{
			SessionID: sessionID, Role: types.RoleAssistant, Content: fmt.Sprintf("answer %d", i), CreatedAt: at,
		})).Required()
	}

	chatModel := &mockChatModel{
		generateFn: func(context.Context, int, *model.ChatRequest) (*model.ChatResponse, error) {
			return textResponse("ok"), nil
		},
	}
	uc := newChat(t, repo, chatModel, &mockDispatcher{},
		usecase.WithClock(func() time.Time { return base.Add(time.Hour) }))

	out, err := uc.Process(ctx, usecase.ChatInput{SessionID: sessionID, Message: "question 11"})
	gt.NoError(t, err).Required()
	gt.Value(t, out.SessionID).Equal(sessionID)

	gt.Array(t, chatModel.requests).Length(1).Required()
	sent := chatModel.requests[0].Messages
	gt.Array(t, sent).Length(2*usecase.DefaultMaxHistoryTurns + 1).Required()
	gt.Value(t, sent[0].Text).Equal("question 1")
	gt.Value(t, sent[len(sent)-2].Text).Equal("answer 10")
	gt.Value(t, sent[len(sent)-1].Text).Equal("question 11")

	messages, err := repo.Chat().ListMessages(ctx, sessionID)
	gt.NoError(t, err).Required()
	gt.Array(t, messages).Length(24)
}

func TestChatProcessEmptyMessage(t *testing.T) {
	uc := newChat(t, memory.New(), &mockChatModel{}, &mockDispatcher{})

	_, err := uc.Process(context.Background(), usecase.ChatInput{Message: "   "})
	gt.Error(t, err).Is(usecase.ErrEmptyMessage)
}

func TestChatSystemPrompt(t *testing.T) {
	t.Run("renders the session year", func(t *testing.T) {
		uc := newChat(t, memory.New(), &mockChatModel{}, &mockDispatcher{}, usecase.WithPromptSessionYear(2027))
		gt.String(t, uc.SystemPrompt()).Contains("The current legislative session is 2027.")
		gt.Bool(t, strings.Contains(uc.SystemPrompt(), "{{")).False()
	})

	t.Run("rejects a broken template", func(t *testing.T) {
		_, err := usecase.NewChatUseCase(memory.New(), &mockChatModel{}, &mockDispatcher{},
			usecase.WithSystemPrompt("Session {{ .SessionYear"))
		gt.Value(t, err).NotNil()
	})
}

func TestChatGreet(t *testing.T) {
	repo := memory.New()
	uc := newChat(t, repo, &mockChatModel{}, &mockDispatcher{})

	a := uc.Greet()
	b := uc.Greet()
	gt.Value(t, a.Answer).Equal(usecase.Greeting)
	gt.Value(t, a.SessionID).NotEqual(b.SessionID)
	gt.Bool(t, a.Persisted).False()

	sessions, err := repo.Chat().ListSessions(context.Background(), 10)
	gt.NoError(t, err).Required()
	gt.Array(t, sessions).Length(0)
}

func TestChatTransitions(t *testing.T) {
	testCases := []struct {
		name  string
		from  usecase.ChatState
		event usecase.ChatEvent
		want  usecase.ChatState
	}{
		{"answer ends the run", usecase.ChatStateAwaitingModelResponse, usecase.EventModelAnswered, usecase.ChatStateDone},
		{"tool request runs tools", usecase.ChatStateAwaitingModelResponse, usecase.EventModelRequestedTools, usecase.ChatStateExecutingTools},
		{"model failure fails the run", usecase.ChatStateAwaitingModelResponse, usecase.EventModelFailed, usecase.ChatStateFailed},
		{"cap ends the run", usecase.ChatStateAwaitingModelResponse, usecase.EventIterationCapReached, usecase.ChatStateDone},
		{"tool results go back to the model", usecase.ChatStateExecutingTools, usecase.EventToolsExecuted, usecase.ChatStateAwaitingModelResponse},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := usecase.Transition(tc.from, tc.event)
			gt.NoError(t, err).Required()
			gt.Value(t, got).Equal(tc.want)
		})
	}

	t.Run("terminal states accept no events", func(t *testing.T) {
		_, err := usecase.Transition(usecase.ChatStateDone, usecase.EventModelAnswered)
		gt.Error(t, err).Is(usecase.ErrInvalidTransition)

		_, err = usecase.Transition(usecase.ChatStateExecutingTools, usecase.EventModelFailed)
		gt.Error(t, err).Is(usecase.ErrInvalidTransition)
	})

	gt.Value(t, usecase.ChatStateExecutingTools.String()).Equal("ExecutingTools")
}
