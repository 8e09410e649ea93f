package ltime

import (
	"context"
	"sync"
	"time"
)

// Sleeper suspends the caller. Implementations return early with the context
// error when ctx is done before the duration elapses.
type Sleeper interface {
	Sleep(ctx context.Context, duration time.Duration) error
}

type WallSleeper struct{}

func (WallSleeper) Sleep(ctx context.Context, duration time.Duration) error {
	timer := time.NewTimer(duration)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Sleeper = WallSleeper{}

func NewWallSleeper() WallSleeper {
	return WallSleeper{}
}

// TestingSleeper never blocks, it only records the requested durations.
type TestingSleeper struct {
	Slept []time.Duration
	lock  sync.Mutex
}

func (s *TestingSleeper) Sleep(ctx context.Context, duration time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	s.Slept = append(s.Slept, duration)
	return nil
}

var _ Sleeper = &TestingSleeper{}

func NewTestingSleeper() *TestingSleeper {
	return &TestingSleeper{}
}

// Durations returns a copy of the recorded sleeps.
func (s *TestingSleeper) Durations() []time.Duration {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]time.Duration(nil), s.Slept...)
}
