package llm

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/edopt/chatbot/pkg/domain/interfaces"
	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/domain/types"
	"github.com/edopt/chatbot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

const (
	DefaultModel     = "claude-sonnet-4-5-20250929"
	DefaultMaxTokens = 1024
)

var ErrEmptyAPIKey = goerr.New("anthropic API key is required")

// Claude is a ChatModel backed by the Anthropic Messages API
type Claude struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

var _ interfaces.ChatModel = &Claude{}

type claudeConfig struct {
	model      string
	maxTokens  int64
	baseURL    string
	maxRetries int
	timeout    time.Duration
}

// Option configures Claude
type Option func(*claudeConfig)

// WithModel sets the model name
func WithModel(name string) Option {
	return func(c *claudeConfig) {
		c.model = name
	}
}

// WithMaxTokens sets the output token limit of a single call
func WithMaxTokens(n int64) Option {
	return func(c *claudeConfig) {
		c.maxTokens = n
	}
}

// WithBaseURL points the client at a different API endpoint
func WithBaseURL(url string) Option {
	return func(c *claudeConfig) {
		c.baseURL = url
	}
}

// WithMaxRetries sets how many times a failed request is retried by the SDK
func WithMaxRetries(n int) Option {
	return func(c *claudeConfig) {
		c.maxRetries = n
	}
}

// WithRequestTimeout bounds each HTTP attempt made by the SDK
func WithRequestTimeout(d time.Duration) Option {
	return func(c *claudeConfig) {
		c.timeout = d
	}
}

// NewClaude creates a ChatModel for the Anthropic API
func NewClaude(apiKey string, opts ...Option) (*Claude, error) {
	if apiKey == "" {
		return nil, ErrEmptyAPIKey
	}

	cfg := &claudeConfig{
		model:      DefaultModel,
		maxTokens:  DefaultMaxTokens,
		maxRetries: 2,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	clientOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(cfg.maxRetries),
	}
	if cfg.baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.baseURL))
	}
	if cfg.timeout > 0 {
		clientOpts = append(clientOpts, option.WithRequestTimeout(cfg.timeout))
	}

	return &Claude{
		client:    anthropic.NewClient(clientOpts...),
		model:     cfg.model,
		maxTokens: cfg.maxTokens,
	}, nil
}

// Generate runs one model invocation
func (c *Claude) Generate(ctx context.Context, req *model.ChatRequest) (*model.ChatResponse, error) {
	params, err := BuildParams(c.model, c.maxTokens, req)
	if err != nil {
		return nil, err
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to call anthropic messages API",
			goerr.V("model", c.model),
			goerr.V("messages", len(req.Messages)),
		)
	}

	logging.From(ctx).Debug("model responded",
		"model", c.model,
		"stop_reason", msg.StopReason,
		"input_tokens", msg.Usage.InputTokens,
		"output_tokens", msg.Usage.OutputTokens,
	)

	return ConvertMessage(msg)
}

// BuildParams converts a ChatRequest into Messages API parameters
func BuildParams(modelName string, maxTokens int64, req *model.ChatRequest) (anthropic.MessageNewParams, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(modelName),
		MaxTokens: maxTokens,
	}

	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}

	for _, spec := range req.Tools {
		params.Tools = append(params.Tools, anthropic.ToolUnionParam{OfTool: toolParam(spec)})
	}

	for i, m := range req.Messages {
		msg, err := messageParam(m)
		if err != nil {
			return anthropic.MessageNewParams{}, goerr.Wrap(err, "failed to convert message", goerr.V("index", i))
		}
		params.Messages = append(params.Messages, msg)
	}

	return params, nil
}

func messageParam(m model.Message) (anthropic.MessageParam, error) {
	switch m.Role {
	case types.RoleUser:
		if len(m.ToolResults) > 0 {
			blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.ToolResults))
			for _, r := range m.ToolResults {
				blocks = append(blocks, anthropic.NewToolResultBlock(r.CallID, r.Content, r.IsError))
			}
			return anthropic.NewUserMessage(blocks...), nil
		}
		return anthropic.NewUserMessage(anthropic.NewTextBlock(m.Text)), nil

	case types.RoleAssistant:
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(m.ToolCalls)+1)
		if m.Text != "" {
			blocks = append(blocks, anthropic.NewTextBlock(m.Text))
		}
		for _, call := range m.ToolCalls {
			input := call.Arguments
			if input == nil {
				input = map[string]any{}
			}
			blocks = append(blocks, anthropic.NewToolUseBlock(call.ID, input, call.Name))
		}
		return anthropic.NewAssistantMessage(blocks...), nil
	}

	return anthropic.MessageParam{}, goerr.New("unsupported message role", goerr.V("role", m.Role))
}

func toolParam(spec gollem.ToolSpec) *anthropic.ToolParam {
	properties := make(map[string]any, len(spec.Parameters))
	var required []string
	for name, p := range spec.Parameters {
		properties[name] = parameterSchema(p)
		if p.Required {
			required = append(required, name)
		}
	}
	sort.Strings(required)

	return &anthropic.ToolParam{
		Name:        spec.Name,
		Description: anthropic.String(spec.Description),
		InputSchema: anthropic.ToolInputSchemaParam{
			Properties: properties,
			Required:   required,
		},
	}
}

// parameterSchema renders a gollem parameter as a JSON schema fragment
func parameterSchema(p *gollem.Parameter) map[string]any {
	schema := map[string]any{"type": string(p.Type)}
	if p.Description != "" {
		schema["description"] = p.Description
	}
	if len(p.Enum) > 0 {
		schema["enum"] = p.Enum
	}
	if p.Items != nil {
		schema["items"] = parameterSchema(p.Items)
	}
	if len(p.Properties) > 0 {
		props := make(map[string]any, len(p.Properties))
		var required []string
		for name, child := range p.Properties {
			props[name] = parameterSchema(child)
			if child.Required {
				required = append(required, name)
			}
		}
		schema["properties"] = props
		if len(required) > 0 {
			sort.Strings(required)
			schema["required"] = required
		}
	}
	return schema
}

// ConvertMessage converts a Messages API response into a ChatResponse
func ConvertMessage(msg *anthropic.Message) (*model.ChatResponse, error) {
	resp := &model.ChatResponse{StopReason: model.StopReason(msg.StopReason)}

	for _, block := range msg.Content {
		switch block.Type {
		case "text":
			resp.Texts = append(resp.Texts, block.Text)
		case "tool_use":
			args := map[string]any{}
			if len(block.Input) > 0 {
				if err := json.Unmarshal(block.Input, &args); err != nil {
					return nil, goerr.Wrap(err, "failed to decode tool input",
						goerr.V("tool", block.Name), goerr.V("id", block.ID))
				}
			}
			resp.ToolCalls = append(resp.ToolCalls, model.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: args,
			})
		}
	}

	return resp, nil
}
