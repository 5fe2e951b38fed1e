package tool

import (
	"context"
	"fmt"
	"time"

	"github.com/edopt/chatbot/pkg/domain/model"
	"github.com/edopt/chatbot/pkg/utils/logging"
	"github.com/edopt/chatbot/pkg/utils/metrics"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds a single handler execution
const DefaultTimeout = 20 * time.Second

// Handler executes one tool. Execute receives arguments already validated against Spec.
type Handler interface {
	Spec() gollem.ToolSpec
	Execute(ctx context.Context, args Args) (string, error)
}

// Registry routes model-issued tool calls to handlers
type Registry struct {
	handlers    map[Name]Handler
	order       []Name
	timeout     time.Duration
	concurrency int
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithTimeout sets the per-call handler timeout. Zero disables it.
func WithTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		r.timeout = d
	}
}

// WithConcurrency bounds how many calls of one model turn run at once
func WithConcurrency(n int) RegistryOption {
	return func(r *Registry) {
		r.concurrency = n
	}
}

// NewRegistry builds a registry. Every handler must declare a distinct name of the tool set.
func NewRegistry(handlers []Handler, opts ...RegistryOption) (*Registry, error) {
	r := &Registry{
		handlers:    make(map[Name]Handler, len(handlers)),
		timeout:     DefaultTimeout,
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(r)
	}

	for _, h := range handlers {
		name, err := ParseName(h.Spec().Name)
		if err != nil {
			return nil, err
		}
		if _, exists := r.handlers[name]; exists {
			return nil, goerr.Wrap(ErrDuplicateTool, "tool registered twice", goerr.V("name", name))
		}
		r.handlers[name] = h
		r.order = append(r.order, name)
	}

	return r, nil
}

// Specs returns the tool declarations in registration order
func (r *Registry) Specs() []gollem.ToolSpec {
	specs := make([]gollem.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.handlers[name].Spec())
	}
	return specs
}

// Dispatch runs one tool call. It never returns an error: unknown tools, invalid
// arguments, handler failures, timeouts and panics all become error text for the model.
func (r *Registry) Dispatch(ctx context.Context, call model.ToolCall) model.ToolResult {
	logger := logging.From(ctx).With("tool", call.Name, "call_id", call.ID)

	name := Name(call.Name)
	h, ok := r.handlers[name]
	if !ok {
		logger.Warn("model requested unknown tool")
		metrics.ToolDispatch(call.Name, metrics.OutcomeUnknown)
		return model.ToolResult{
			CallID:  call.ID,
			Content: fmt.Sprintf("Unknown tool: %s", call.Name),
			IsError: true,
		}
	}

	args, err := NewArgs(h.Spec(), call.Arguments)
	if err != nil {
		logger.Warn("invalid tool arguments", "input", call.Arguments, "error", err)
		metrics.ToolDispatch(call.Name, metrics.OutcomeInvalid)
		return errorResult(call, err)
	}

	logger.Info("executing tool", "input", call.Arguments)
	text, err := r.execute(ctx, h, args)
	if err != nil {
		logger.Error("tool execution failed", "error", err)
		metrics.ToolDispatch(call.Name, metrics.OutcomeError)
		return errorResult(call, err)
	}

	metrics.ToolDispatch(call.Name, metrics.OutcomeSuccess)
	return model.ToolResult{CallID: call.ID, Content: text}
}

func errorResult(call model.ToolCall, err error) model.ToolResult {
	return model.ToolResult{
		CallID:  call.ID,
		Content: fmt.Sprintf("Error executing %s: %s", call.Name, err.Error()),
		IsError: true,
	}
}

type outcome struct {
	text string
	err  error
}

// execute runs the handler on its own goroutine so that a handler ignoring ctx
// still yields control back to the loop once the timeout passes
func (r *Registry) execute(ctx context.Context, h Handler, args Args) (string, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if v := recover(); v != nil {
				done <- outcome{err: goerr.Wrap(ErrPanic, fmt.Sprintf("%v", v))}
			}
		}()
		text, err := h.Execute(ctx, args)
		done <- outcome{text: text, err: err}
	}()

	select {
	case out := <-done:
		return out.text, out.err
	case <-ctx.Done():
		return "", goerr.Wrap(ErrTimeout, ctx.Err().Error(), goerr.V("timeout", r.timeout))
	}
}

// DispatchAll runs the calls of one model turn concurrently. Results keep the order of calls.
func (r *Registry) DispatchAll(ctx context.Context, calls []model.ToolCall) []model.ToolResult {
	results := make([]model.ToolResult, len(calls))

	var eg errgroup.Group
	if r.concurrency > 0 {
		eg.SetLimit(r.concurrency)
	}
	for i, call := range calls {
		eg.Go(func() error {
			results[i] = r.Dispatch(ctx, call)
			return nil
		})
	}
	_ = eg.Wait()

	return results
}
