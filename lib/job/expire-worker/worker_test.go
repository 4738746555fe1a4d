package jobexpireworker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type expirerMock struct {
	mu    sync.Mutex
	calls []time.Time
	err   error
}

func (m *expirerMock) ExpirePublished(now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, now)
	return len(m.calls), m.err
}

func (m *expirerMock) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func TestHandlePassesCurrentTime(t *testing.T) {
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	mock := &expirerMock{}
	worker := newWorker(mock, 0, time.Hour)
	worker.now = func() time.Time { return now }

	worker.handle(context.Background())
	require.Equal(t, []time.Time{now}, mock.calls)

	mock.err = errors.New("db down")
	require.NotPanics(t, func() { worker.handle(context.Background()) })
}

func TestRunStopsOnCancel(t *testing.T) {
	mock := &expirerMock{}
	worker := newWorker(mock, time.Millisecond, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Run(ctx, worker.handle)
		close(done)
	}()
	require.Eventually(t, func() bool { return mock.count() >= 2 }, time.Second, time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
