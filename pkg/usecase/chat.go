package usecase

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"
	"time"

	"github.com/edopt/chatbot/pkg/agent/tool"
	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/edopt/chatbot/pkg/utils/logging"
	"github.com/edopt/chatbot/pkg/utils/metrics"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

//go:embed prompt/system.md
var systemPromptTmpl string

const (
	// MaxToolIterations caps the tool-use rounds of one chat request
	MaxToolIterations = 5

	DefaultMaxHistoryTurns = 10
	DefaultModelTimeout    = 60 * time.Second
	DefaultSessionYear     = 2026
)

// Answers returned instead of a model answer
const (
	FallbackAnswer       = "I'm sorry, I wasn't able to generate a response. Could you try rephrasing your question?"
	ConnectionApology    = "I'm sorry, I'm having trouble connecting right now. Please try again in a moment."
	ToolLoopErrorApology = "I'm sorry, I encountered an error while looking up that information. Please try again."
)

// ToolDispatcher declares the available tools and executes the calls of one model turn
type ToolDispatcher interface {
	Specs() []gollem.ToolSpec
	DispatchAll(ctx context.Context, calls []model.ToolCall) []model.ToolResult
}

// ChatInput is one user turn
type ChatInput struct {
	SessionID     model.SessionID // empty starts a new session
	Message       string
	ClientAddress string
}

// ChatOutput is the answer to one user turn
type ChatOutput struct {
	Answer    string
	SessionID model.SessionID
	ToolCalls []model.ToolCallRecord

	// Persisted is false when the model failed and the exchange was not stored
	Persisted bool
}

// ChatUseCase runs the conversation loop between the user, the chat model and the tools
type ChatUseCase struct {
	repo            interfaces.Repository
	chatModel       interfaces.ChatModel
	tools           ToolDispatcher
	systemPrompt    string
	maxHistoryTurns int
	modelTimeout    time.Duration
	onUpdate        tool.UpdateFunc
	now             func() time.Time
}

type chatConfig struct {
	systemPrompt    string
	sessionYear     int
	maxHistoryTurns int
	modelTimeout    time.Duration
	onUpdate        tool.UpdateFunc
	now             func() time.Time
}

// ChatOption configures a ChatUseCase
type ChatOption func(*chatConfig)

// WithSystemPrompt replaces the built-in system prompt template. The template
// may reference {{ .SessionYear }}.
func WithSystemPrompt(tmpl string) ChatOption {
	return func(c *chatConfig) {
		c.systemPrompt = tmpl
	}
}

// WithPromptSessionYear sets the legislative session year rendered into the system prompt
func WithPromptSessionYear(year int) ChatOption {
	return func(c *chatConfig) {
		c.sessionYear = year
	}
}

// WithMaxHistoryTurns sets how many user/assistant pairs of history are sent to the model
func WithMaxHistoryTurns(n int) ChatOption {
	return func(c *chatConfig) {
		c.maxHistoryTurns = n
	}
}

// WithModelTimeout bounds each model call. Zero disables the timeout.
func WithModelTimeout(d time.Duration) ChatOption {
	return func(c *chatConfig) {
		c.modelTimeout = d
	}
}

// WithToolUpdate receives progress messages from tools while they run
func WithToolUpdate(fn tool.UpdateFunc) ChatOption {
	return func(c *chatConfig) {
		c.onUpdate = fn
	}
}

// WithClock replaces the clock used for message timestamps
func WithClock(now func() time.Time) ChatOption {
	return func(c *chatConfig) {
		c.now = now
	}
}

// NewChatUseCase creates a ChatUseCase. The system prompt template is rendered once here.
func NewChatUseCase(repo interfaces.Repository, chatModel interfaces.ChatModel, tools ToolDispatcher, opts ...ChatOption) (*ChatUseCase, error) {
	cfg := &chatConfig{
		systemPrompt:    systemPromptTmpl,
		sessionYear:     DefaultSessionYear,
		maxHistoryTurns: DefaultMaxHistoryTurns,
		modelTimeout:    DefaultModelTimeout,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	prompt, err := renderSystemPrompt(cfg.systemPrompt, cfg.sessionYear)
	if err != nil {
		return nil, err
	}

	return &ChatUseCase{
		repo:            repo,
		chatModel:       chatModel,
		tools:           tools,
		systemPrompt:    prompt,
		maxHistoryTurns: cfg.maxHistoryTurns,
		modelTimeout:    cfg.modelTimeout,
		onUpdate:        cfg.onUpdate,
		now:             cfg.now,
	}, nil
}

func renderSystemPrompt(tmpl string, sessionYear int) (string, error) {
	t, err := template.New("system").Parse(tmpl)
	if err != nil {
		return "", goerr.Wrap(err, "failed to parse system prompt template")
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, struct{ SessionYear int }{SessionYear: sessionYear}); err != nil {
		return "", goerr.Wrap(err, "failed to render system prompt")
	}
	return buf.String(), nil
}

// SystemPrompt returns the rendered system prompt
func (uc *ChatUseCase) SystemPrompt() string {
	return uc.systemPrompt
}

// Process answers one user message. Model failures are not errors: the caller
// receives an apology and nothing is persisted. Storage failures are returned as errors.
func (uc *ChatUseCase) Process(ctx context.Context, input ChatInput) (*ChatOutput, error) {
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return nil, goerr.Wrap(ErrEmptyMessage, "chat message is empty")
	}

	sessionID := input.SessionID
	if sessionID == "" {
		sessionID = model.NewSessionID()
	}

	logger := logging.From(ctx).With("session_id", sessionID)
	ctx = logging.With(ctx, logger)
	if uc.onUpdate != nil {
		ctx = tool.WithUpdate(ctx, uc.onUpdate)
	}

	if _, err := uc.repo.Chat().GetOrCreate(ctx, sessionID, input.ClientAddress); err != nil {
		metrics.ChatRequest(metrics.OutcomeError)
		return nil, goerr.Wrap(err, "failed to get or create chat session", goerr.V(SessionIDKey, sessionID))
	}

	history, err := uc.repo.Chat().RecentHistory(ctx, sessionID, uc.maxHistoryTurns)
	if err != nil {
		metrics.ChatRequest(metrics.OutcomeError)
		return nil, goerr.Wrap(err, "failed to load chat history", goerr.V(SessionIDKey, sessionID))
	}

	run := newChatRun(history, message)
	if err := uc.drive(ctx, run); err != nil {
		metrics.ChatRequest(metrics.OutcomeError)
		return nil, err
	}
	metrics.ToolRounds(run.iterations)

	if run.state == ChatStateFailed {
		metrics.ChatRequest(metrics.OutcomeError)
		return &ChatOutput{
			Answer:    run.apology(),
			SessionID: sessionID,
			ToolCalls: run.records,
		}, nil
	}

	answer := run.answer()
	if err := uc.persist(ctx, sessionID, message, answer, run.records); err != nil {
		metrics.ChatRequest(metrics.OutcomeError)
		return nil, err
	}

	metrics.ChatRequest(metrics.OutcomeSuccess)
	return &ChatOutput{
		Answer:    answer,
		SessionID: sessionID,
		ToolCalls: run.records,
		Persisted: true,
	}, nil
}

// drive advances the run through the state machine until it reaches Done or Failed
func (uc *ChatUseCase) drive(ctx context.Context, run *chatRun) error {
	for !run.state.terminal() {
		var ev chatEvent
		switch run.state {
		case ChatStateAwaitingModelResponse:
			ev = uc.awaitModel(ctx, run)
		case ChatStateExecutingTools:
			ev = uc.executeTools(ctx, run)
		}

		next, err := transition(run.state, ev)
		if err != nil {
			return err
		}
		logging.From(ctx).Debug("chat state transition",
			"from", run.state, "event", ev, "to", next, "iterations", run.iterations)
		run.state = next
	}
	return nil
}

func (uc *ChatUseCase) awaitModel(ctx context.Context, run *chatRun) chatEvent {
	callCtx := ctx
	if uc.modelTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, uc.modelTimeout)
		defer cancel()
	}

	resp, err := uc.chatModel.Generate(callCtx, &model.ChatRequest{
		SystemPrompt: uc.systemPrompt,
		Tools:        uc.tools.Specs(),
		Messages:     run.messages,
	})
	if err != nil {
		metrics.ModelCall(metrics.OutcomeError)
		logging.From(ctx).Error("chat model call failed",
			"error", err,
			"model_calls", run.modelCalls,
			"iterations", run.iterations,
		)
		run.modelErr = err
		return eventModelFailed
	}

	metrics.ModelCall(metrics.OutcomeSuccess)
	run.modelCalls++
	run.response = resp

	if !resp.RequestsTools() {
		return eventModelAnswered
	}
	if run.iterations >= MaxToolIterations {
		logging.From(ctx).Warn("tool iteration cap reached",
			"max_iterations", MaxToolIterations,
			"pending_calls", len(resp.ToolCalls),
		)
		return eventIterationCapReached
	}
	return eventModelRequestedTools
}

func (uc *ChatUseCase) executeTools(ctx context.Context, run *chatRun) chatEvent {
	run.iterations++
	calls := run.response.ToolCalls

	logger := logging.From(ctx)
	for _, call := range calls {
		logger.Info("tool call", "tool", call.Name, "input", call.Arguments, "iteration", run.iterations)
	}

	results := uc.tools.DispatchAll(ctx, calls)
	for i, call := range calls {
		run.records = append(run.records, model.NewToolCallRecord(call.Name, call.Arguments, results[i].Content))
	}

	run.messages = append(run.messages,
		model.Message{Role: types.RoleAssistant, Text: run.response.Text(), ToolCalls: calls},
		model.Message{Role: types.RoleUser, ToolResults: results},
	)
	return eventToolsExecuted
}

func (uc *ChatUseCase) persist(ctx context.Context, sessionID model.SessionID, question, answer string, records []model.ToolCallRecord) error {
	now := uc.now()

	if err := uc.repo.Chat().AppendMessage(ctx, &model.ChatMessage{
		SessionID: sessionID,
		Role:      types.RoleUser,
		Content:   question,
		CreatedAt: now,
	}); err != nil {
		return goerr.Wrap(err, "failed to save user message", goerr.V(SessionIDKey, sessionID))
	}

	if err := uc.repo.Chat().AppendMessage(ctx, &model.ChatMessage{
		SessionID: sessionID,
		Role:      types.RoleAssistant,
		Content:   answer,
		ToolCalls: records,
		CreatedAt: now,
	}); err != nil {
		return goerr.Wrap(err, "failed to save assistant message", goerr.V(SessionIDKey, sessionID))
	}

	return nil
}

// chatRun is the working state of one Process call
type chatRun struct {
	state      ChatState
	messages   []model.Message
	response   *model.ChatResponse
	records    []model.ToolCallRecord
	iterations int
	modelCalls int
	modelErr   error
}

func newChatRun(history []*model.ChatMessage, message string) *chatRun {
	messages := make([]model.Message, 0, len(history)+1)
	for _, m := range history {
		messages = append(messages, model.Message{Role: m.Role, Text: m.Content})
	}
	messages = append(messages, model.Message{Role: types.RoleUser, Text: message})

	return &chatRun{
		state:    ChatStateAwaitingModelResponse,
		messages: messages,
	}
}

func (r *chatRun) answer() string {
	if text := r.response.Text(); text != "" {
		return text
	}
	return FallbackAnswer
}

// apology tells a failure of the first model call apart from one inside the tool loop
func (r *chatRun) apology() string {
	if r.modelCalls == 0 {
		return ConnectionApology
	}
	return ToolLoopErrorApology
}
