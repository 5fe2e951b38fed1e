package async_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edopt/chatbot/pkg/utils/async"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestDispatchOutlivesCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var ran atomic.Bool

	done := async.Dispatch(ctx, "test", func(ctx context.Context) error {
		cancel()
		time.Sleep(10 * time.Millisecond)
		gt.NoError(t, ctx.Err())
		ran.Store(true)
		return nil
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not finish")
	}
	gt.Bool(t, ran.Load()).True()
}

func TestDispatchRecoversPanicAndError(t *testing.T) {
	done := async.Dispatch(context.Background(), "panics", func(ctx context.Context) error {
		panic("unexpected")
	})
	<-done

	done = async.Dispatch(context.Background(), "fails", func(ctx context.Context) error {
		return goerr.New("failed")
	})
	<-done
}
