// Package timer implements the rest countdown. Remaining time is always
// computed from an absolute deadline and the current clock, never by
// decrementing a counter, so the countdown stays correct when ticks are
// delayed or skipped.
package timer

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"
)

const tickInterval = 500 * time.Millisecond

// Alerter receives the expiry side effect. It fires exactly once per
// countdown, and never on cancel.
type Alerter interface {
	RestFinished()
}

// Manager is the two-state rest timer: idle or running toward a
// deadline. Safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	deadline time.Time
	running  bool

	alert Alerter
	log   *slog.Logger
	now   func() time.Time
}

// New creates an idle Manager.
func New(alert Alerter, log *slog.Logger) *Manager {
	return &Manager{alert: alert, log: log, now: time.Now}
}

// Run drives the periodic tick until ctx is cancelled. Call it from a
// goroutine; cancelling ctx releases the ticker.
func (m *Manager) Run(ctx context.Context) {
	t := time.NewTicker(tickInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.tick()
		}
	}
}

// Start begins (or restarts) a countdown of the given duration. A
// running countdown is replaced, not stacked.
func (m *Manager) Start(seconds int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deadline = m.now().Add(time.Duration(seconds) * time.Second)
	m.running = true
	m.log.Info("rest timer started", "seconds", seconds)
}

// Cancel stops a running countdown without firing the expiry alert.
func (m *Manager) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		m.running = false
		m.log.Info("rest timer cancelled")
	}
}

// Running reports whether a countdown is active.
func (m *Manager) Running() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Remaining returns the whole seconds left, 0 when idle.
func (m *Manager) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return 0
	}
	return remainingSeconds(m.deadline, m.now())
}

func remainingSeconds(deadline, now time.Time) int {
	rem := int(math.Ceil(deadline.Sub(now).Seconds()))
	if rem < 0 {
		return 0
	}
	return rem
}

// tick checks the deadline and fires the expiry alert when it passes.
// The running flag flips before the alert, so the alert fires at most
// once even with concurrent ticks.
func (m *Manager) tick() {
	m.mu.Lock()
	if !m.running || remainingSeconds(m.deadline, m.now()) > 0 {
		m.mu.Unlock()
		return
	}
	m.running = false
	m.mu.Unlock()

	m.log.Info("rest timer expired")
	if m.alert != nil {
		m.alert.RestFinished()
	}
}
