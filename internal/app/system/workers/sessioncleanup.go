// internal/app/system/workers/sessioncleanup.go
package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// InactiveCloser closes activity sessions idle past a threshold.
// *sessions.Store satisfies it.
type InactiveCloser interface {
	CloseInactive(ctx context.Context, threshold time.Duration) (int64, error)
}

// Sweeper drops stale in-memory entries. *ratelimit.Limiter satisfies it.
type Sweeper interface {
	Sweep() int
}

// SessionCleanup is a background worker that closes inactive dashboard
// sessions and sweeps the login limiter.
type SessionCleanup struct {
	sessions          InactiveCloser
	sweepers          []Sweeper
	log               *zap.Logger
	interval          time.Duration
	inactiveThreshold time.Duration
	stopCh            chan struct{}
	stopOnce          sync.Once
	wg                sync.WaitGroup
}

// NewSessionCleanup creates a new session cleanup worker.
//
// Parameters:
//   - closer: the sessions store
//   - logger: zap logger for logging
//   - interval: how often to run cleanup (e.g., 1 minute)
//   - inactiveThreshold: idle time before a session is closed (e.g., 30 minutes)
//   - sweepers: limiters to sweep on the same tick
func NewSessionCleanup(closer InactiveCloser, logger *zap.Logger, interval, inactiveThreshold time.Duration, sweepers ...Sweeper) *SessionCleanup {
	return &SessionCleanup{
		sessions:          closer,
		sweepers:          sweepers,
		log:               logger,
		interval:          interval,
		inactiveThreshold: inactiveThreshold,
		stopCh:            make(chan struct{}),
	}
}

// Start begins the background cleanup loop.
func (w *SessionCleanup) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("session cleanup worker started",
		zap.Duration("interval", w.interval),
		zap.Duration("inactive_threshold", w.inactiveThreshold))
}

// Stop signals the worker to stop and waits for it to finish. Safe to call twice.
func (w *SessionCleanup) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.wg.Wait()
	w.log.Info("session cleanup worker stopped")
}

func (w *SessionCleanup) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.cleanup()
		}
	}
}

func (w *SessionCleanup) cleanup() {
	for _, s := range w.sweepers {
		if n := s.Sweep(); n > 0 {
			w.log.Debug("swept idle limiter keys", zap.Int("count", n))
		}
	}

	if w.sessions == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := w.sessions.CloseInactive(ctx, w.inactiveThreshold)
	if err != nil {
		w.log.Error("failed to close inactive sessions", zap.Error(err))
		return
	}
	if count > 0 {
		w.log.Info("closed inactive sessions", zap.Int64("count", count))
	}
}
