package async

import (
	"context"

	"github.com/edopt/chatbot/pkg/utils/errutil"
	"github.com/m-mizutani/goerr/v2"
)

// Dispatch runs handler in a new goroutine. The handler context keeps the values
// of ctx (logger, Sentry hub) but is not cancelled with it, so work started by a
// request outlives the request. Errors and panics are logged and reported.
// The returned channel is closed when the handler finishes.
func Dispatch(ctx context.Context, name string, handler func(ctx context.Context) error) <-chan struct{} {
	bgCtx := context.WithoutCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				_ = errutil.Handle(bgCtx, goerr.New("panic in async handler",
					goerr.V("handler", name),
					goerr.V("panic", r),
				), "async handler panicked")
			}
		}()

		if err := handler(bgCtx); err != nil {
			_ = errutil.Handle(bgCtx, goerr.Wrap(err, "async handler failed", goerr.V("handler", name)), "async handler failed")
		}
	}()

	return done
}
