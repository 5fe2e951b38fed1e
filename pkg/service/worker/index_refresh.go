package worker

import (
	"context"
	"sync"
	"time"

	"github.com/edopt/chatbot/pkg/utils/errutil"
	"github.com/edopt/chatbot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// DefaultRefreshInterval is how often the in-memory index is reloaded from storage
const DefaultRefreshInterval = 10 * time.Minute

// Refresher reloads a derived in-memory view from durable storage
type Refresher interface {
	Refresh(ctx context.Context) error
}

// IndexRefreshWorker periodically reloads the vector index from the embedding
// store, so a rebuild run by another process reaches this server.
//
// The first load is done by the caller before Start; the worker only picks up
// later changes.
type IndexRefreshWorker struct {
	refresher Refresher
	interval  time.Duration
	stopCh    chan struct{}
	doneCh    chan struct{}
	stopOnce  sync.Once

	mu          sync.Mutex
	lastSuccess time.Time
	lastErr     error
}

// NewIndexRefreshWorker creates a worker. A non-positive interval falls back to DefaultRefreshInterval.
func NewIndexRefreshWorker(refresher Refresher, interval time.Duration) *IndexRefreshWorker {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &IndexRefreshWorker{
		refresher: refresher,
		interval:  interval,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// Start begins the refresh loop in a background goroutine
func (w *IndexRefreshWorker) Start(ctx context.Context) error {
	if w.refresher == nil {
		return goerr.New("index refresh worker has no refresher")
	}

	logging.Default().Info("Index refresh worker starting", "interval", w.interval.String())
	go w.run(ctx)
	return nil
}

// Stop signals the worker to stop and waits for the loop to exit. It is safe to call more than once.
func (w *IndexRefreshWorker) Stop() {
	w.stopOnce.Do(func() {
		logging.Default().Info("Index refresh worker stopping")
		close(w.stopCh)
	})
	<-w.doneCh
}

// Status returns the time of the last successful refresh and the error of the last attempt
func (w *IndexRefreshWorker) Status() (time.Time, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSuccess, w.lastErr
}

func (w *IndexRefreshWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.refresh(ctx); err != nil {
				_ = errutil.Handle(ctx, err, "index refresh failed (will retry next interval)")
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Index refresh worker context cancelled")
			return
		}
	}
}

func (w *IndexRefreshWorker) refresh(ctx context.Context) error {
	startTime := time.Now()
	err := w.refresher.Refresh(ctx)

	w.mu.Lock()
	w.lastErr = err
	if err == nil {
		w.lastSuccess = startTime
	}
	w.mu.Unlock()

	if err != nil {
		return goerr.Wrap(err, "failed to refresh index")
	}

	logging.Default().Debug("Index refreshed", "duration", time.Since(startTime).String())
	return nil
}
