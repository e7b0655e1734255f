package player

import (
	"context"
	"sync"
	"time"
)

// Ticker is the part of time.Ticker the controller needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// Clock creates tickers. Production code uses SystemClock; tests drive a
// ManualClock by hand.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// SystemClock returns a Clock backed by time.NewTicker.
func SystemClock() Clock { return systemClock{} }

type systemClock struct{}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return &systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct{ t *time.Ticker }

func (s *systemTicker) C() <-chan time.Time { return s.t.C }
func (s *systemTicker) Stop()               { s.t.Stop() }

// ManualClock hands out tickers that only fire when Fire is called.
type ManualClock struct {
	mu      sync.Mutex
	created int
	tickers []*manualTicker
}

// NewManualClock returns a clock with no tickers.
func NewManualClock() *ManualClock {
	return &ManualClock{}
}

// NewTicker implements Clock.
func (m *ManualClock) NewTicker(time.Duration) Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &manualTicker{c: make(chan time.Time)}
	m.tickers = append(m.tickers, t)
	m.created++
	return t
}

// Created returns how many tickers were ever created.
func (m *ManualClock) Created() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.created
}

// Active returns how many tickers are created but not stopped.
func (m *ManualClock) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tickers {
		if !t.isStopped() {
			n++
		}
	}
	return n
}

// Fire delivers one tick on the most recent running ticker and blocks
// until the receiver takes it. It returns false if no ticker is running
// or ctx ends first.
func (m *ManualClock) Fire(ctx context.Context) bool {
	m.mu.Lock()
	var live *manualTicker
	for i := len(m.tickers) - 1; i >= 0; i-- {
		if !m.tickers[i].isStopped() {
			live = m.tickers[i]
			break
		}
	}
	m.mu.Unlock()
	if live == nil {
		return false
	}
	select {
	case live.c <- time.Now():
		return true
	case <-ctx.Done():
		return false
	}
}

type manualTicker struct {
	mu      sync.Mutex
	c       chan time.Time
	stopped bool
}

func (t *manualTicker) C() <-chan time.Time { return t.c }

func (t *manualTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *manualTicker) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}
