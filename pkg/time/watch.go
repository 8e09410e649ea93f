package ltime

import (
	"sync"
	"time"
)

type Watch interface {
	Now() time.Time
}

type WallWatch struct{}

func (WallWatch) Now() time.Time {
	return time.Now().UTC()
}

func NewWallWatch() WallWatch { return WallWatch{} }

var _ Watch = WallWatch{}

// TestingWatch returns Current and then moves it forward by Step, so that
// consecutive reads observe increasing instants.
type TestingWatch struct {
	Current time.Time
	Step    time.Duration
	lock    sync.Mutex
}

func (f *TestingWatch) Now() time.Time {
	f.lock.Lock()
	defer f.lock.Unlock()
	now := f.Current
	f.Current = f.Current.Add(f.Step)
	return now
}

var _ Watch = &TestingWatch{}
