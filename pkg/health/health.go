// Package health tracks the reachability of the services a client depends
// on. Each registered check runs in its own background goroutine at a
// configurable interval. Checks use failure/success thresholds to avoid
// flapping: a check must fail consecutively failureThreshold times before
// being marked unhealthy, and succeed successThreshold times before being
// marked healthy again.
package health

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc is a reachability check. It should return nil if the checked
// dependency is reachable, or an error describing the problem.
type CheckFunc func(ctx context.Context) error

// checkState holds the configuration and runtime state for a single check.
//
// Concurrency model: run() is called from exactly one goroutine (the
// ticker). The counters are only accessed by run(), so they need no
// synchronization. The healthy flag and lastErr are read from arbitrary
// goroutines, so they use atomic operations.
type checkState struct {
	name             string
	timeout          time.Duration
	check            CheckFunc
	failureThreshold int
	successThreshold int

	healthy atomic.Bool
	lastErr atomic.Pointer[error]

	consecutiveFails int
	consecutiveOK    int
}

func (c *checkState) isHealthy() bool {
	return c.healthy.Load()
}

func (c *checkState) getLastError() error {
	if p := c.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// run executes the check once and updates thresholds accordingly.
// Must be called from a single goroutine.
func (c *checkState) run(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.check(checkCtx)
	c.lastErr.Store(&err)

	if err != nil {
		c.consecutiveOK = 0
		c.consecutiveFails++
		if c.consecutiveFails >= c.failureThreshold {
			c.healthy.Store(false)
		}
	} else {
		c.consecutiveFails = 0
		c.consecutiveOK++
		if c.consecutiveOK >= c.successThreshold {
			c.healthy.Store(true)
		}
	}
}

// Status is the reported state of a single check.
type Status struct {
	Healthy bool
	Error   string
}

// Monitor manages dependency reachability checks.
type Monitor struct {
	// mu protects checks and cancel. Only held during registration (before
	// Start) and in Start/Stop; readers snapshot the slice then release.
	mu     sync.RWMutex
	checks []*checkState
	cancel context.CancelFunc
}

// NewMonitor creates an empty Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// AddCheck registers a named check with a per-run timeout.
func (m *Monitor) AddCheck(name string, timeout time.Duration, check CheckFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := &checkState{
		name:             name,
		timeout:          timeout,
		check:            check,
		failureThreshold: 3,
		successThreshold: 1,
	}
	c.healthy.Store(true) // assume reachable until proven otherwise
	m.checks = append(m.checks, c)
}

// Start begins running all registered checks in background goroutines at
// the given interval. Typically called once after registration.
func (m *Monitor) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	m.mu.Lock()
	m.cancel = cancel
	checks := make([]*checkState, len(m.checks))
	copy(checks, m.checks)
	m.mu.Unlock()

	for _, c := range checks {
		go runCheck(ctx, c, interval)
	}
}

// runCheck periodically executes a single check until the context is
// cancelled.
func runCheck(ctx context.Context, c *checkState, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start.
	c.run(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.run(ctx)
		}
	}
}

// RunOnce executes every registered check a single time, synchronously.
// Useful for one-shot status commands that have no background loop.
func (m *Monitor) RunOnce(ctx context.Context) {
	m.mu.RLock()
	checks := make([]*checkState, len(m.checks))
	copy(checks, m.checks)
	m.mu.RUnlock()

	for _, c := range checks {
		c.run(ctx)
	}
}

// Healthy reports whether every registered check is currently passing.
func (m *Monitor) Healthy() bool {
	m.mu.RLock()
	checks := m.checks
	m.mu.RUnlock()

	for _, c := range checks {
		if !c.isHealthy() {
			return false
		}
	}
	return true
}

// Snapshot returns the current state of every check by name.
func (m *Monitor) Snapshot() map[string]Status {
	m.mu.RLock()
	checks := make([]*checkState, len(m.checks))
	copy(checks, m.checks)
	m.mu.RUnlock()

	out := make(map[string]Status, len(checks))
	for _, c := range checks {
		s := Status{Healthy: c.isHealthy()}
		if err := c.getLastError(); err != nil {
			s.Error = err.Error()
		}
		out[c.name] = s
	}
	return out
}

// Stop cancels all background check goroutines. Safe to call multiple times.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}
