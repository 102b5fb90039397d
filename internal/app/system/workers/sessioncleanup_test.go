package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeCloser struct {
	calls     atomic.Int32
	threshold atomic.Int64
	err       error
}

func (f *fakeCloser) CloseInactive(_ context.Context, d time.Duration) (int64, error) {
	f.calls.Add(1)
	f.threshold.Store(int64(d))
	return 2, f.err
}

type fakeSweeper struct{ calls atomic.Int32 }

func (f *fakeSweeper) Sweep() int { f.calls.Add(1); return 0 }

func TestSessionCleanup_RunsOnTick(t *testing.T) {
	closer := &fakeCloser{}
	sweeper := &fakeSweeper{}
	w := NewSessionCleanup(closer, zap.NewNop(), 5*time.Millisecond, 30*time.Minute, sweeper)

	w.Start()
	assert.Eventually(t, func() bool { return closer.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	w.Stop()
	w.Stop()

	assert.Equal(t, int64(30*time.Minute), closer.threshold.Load())
	assert.GreaterOrEqual(t, sweeper.calls.Load(), int32(2))
}

func TestSessionCleanup_LogsErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	w := NewSessionCleanup(&fakeCloser{err: errors.New("mongo down")}, zap.New(core), time.Minute, time.Minute)

	w.cleanup()

	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "failed to close inactive sessions", logs.All()[0].Message)
}

func TestSessionCleanup_NilStore(t *testing.T) {
	sweeper := &fakeSweeper{}
	w := NewSessionCleanup(nil, zap.NewNop(), time.Minute, time.Minute, sweeper)

	w.cleanup()

	assert.Equal(t, int32(1), sweeper.calls.Load())
}
