package ltime

import "time"

type Ticker interface {
	Channel() <-chan time.Time
	Close()
}

type WallTicker struct {
	ticker *time.Ticker
}

func (w *WallTicker) Channel() <-chan time.Time {
	return w.ticker.C
}

func (w *WallTicker) Close() {
	w.ticker.Stop()
}

func NewWallTicker(duration time.Duration) *WallTicker {
	return &WallTicker{time.NewTicker(duration)}
}

var _ Ticker = &WallTicker{}

// ManualTicker only fires when Tick is called.
type ManualTicker struct {
	c chan time.Time
}

func NewManualTicker() *ManualTicker {
	return &ManualTicker{c: make(chan time.Time)}
}

func (t *ManualTicker) Tick() {
	t.c <- time.Now()
}

func (t *ManualTicker) Channel() <-chan time.Time {
	return t.c
}

func (t *ManualTicker) Close() {}

var _ Ticker = &ManualTicker{}
