// Package health provides liveness and readiness checks with HTTP endpoints.
//
// Every registered check runs in its own goroutine. A check flips to
// unhealthy after failureThreshold consecutive failures and back to healthy
// after successThreshold consecutive successes.
package health

import (
	"context"
	"net/http"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-faster/jx"
)

const (
	failureThreshold = 3
	successThreshold = 1
)

// CheckFunc reports nil when the checked component is healthy.
type CheckFunc func(ctx context.Context) error

type kind int

const (
	liveness kind = iota
	readiness
)

// checkConfig holds the configuration and runtime state of one registered check.
//
// Concurrency model: run is called from exactly one goroutine, the check's
// ticker loop started by Health.Start. The fails and oks counters are only
// touched by run, so they need no synchronization. healthy and lastErr are
// read by the HTTP endpoints from arbitrary goroutines and use atomics.
type checkConfig struct {
	name    string
	kind    kind
	timeout time.Duration
	check   CheckFunc

	// healthy is written by run (atomic store) and read by the endpoints
	// (atomic load). It starts true so a fresh check does not fail /livez.
	healthy atomic.Bool
	// lastErr holds the most recent result of check, nil on success.
	// Written by run, read by failure.
	lastErr atomic.Pointer[error]

	// fails and oks count consecutive results. Only run accesses them.
	fails int
	oks   int
}

// run executes the check once and applies the thresholds.
// Must be called from a single goroutine.
func (c *checkConfig) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.check(ctx)
	c.lastErr.Store(&err)

	if err != nil {
		c.oks = 0
		c.fails++
		if c.fails >= failureThreshold {
			c.healthy.Store(false)
		}
		return
	}
	c.fails = 0
	c.oks++
	if c.oks >= successThreshold {
		c.healthy.Store(true)
	}
}

// failure returns the last error message when the check is unhealthy.
func (c *checkConfig) failure() (string, bool) {
	if c.healthy.Load() {
		return "", false
	}
	if e := c.lastErr.Load(); e != nil && *e != nil {
		return (*e).Error(), true
	}
	return "check is unhealthy", true
}

// Health tracks liveness and readiness of a service.
type Health struct {
	ready atomic.Bool

	// mu protects checks and cancel. It is held for writing only during
	// registration and in Start/Stop. The endpoints take the read lock while
	// collecting failures and never touch check state under the write lock.
	mu     sync.RWMutex
	checks []*checkConfig
	cancel context.CancelFunc
}

// New returns a Health that is not ready until SetReady(true).
func New() *Health {
	return &Health{}
}

// AddLivenessCheck registers a check that decides whether the process should be restarted.
func (h *Health) AddLivenessCheck(name string, timeout time.Duration, check CheckFunc) {
	h.add(name, liveness, timeout, check)
}

// AddReadinessCheck registers a check that decides whether the service accepts traffic.
func (h *Health) AddReadinessCheck(name string, timeout time.Duration, check CheckFunc) {
	h.add(name, readiness, timeout, check)
}

func (h *Health) add(name string, k kind, timeout time.Duration, check CheckFunc) {
	c := &checkConfig{name: name, kind: k, timeout: timeout, check: check}
	c.healthy.Store(true)

	h.mu.Lock()
	h.checks = append(h.checks, c)
	h.mu.Unlock()
}

// Start runs every registered check immediately and then every interval
// until Stop is called or ctx is done.
func (h *Health) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	h.mu.Lock()
	h.cancel = cancel
	checks := append([]*checkConfig(nil), h.checks...)
	h.mu.Unlock()

	for _, c := range checks {
		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			c.run(ctx)
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					c.run(ctx)
				}
			}
		}()
	}
}

// Stop cancels the check goroutines. It is safe to call more than once.
func (h *Health) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// SetReady sets the manual readiness flag, e.g. false during shutdown.
func (h *Health) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports whether the service is marked ready and every readiness
// check passes.
func (h *Health) IsReady() bool {
	return h.ready.Load() && len(h.failures(readiness)) == 0
}

func (h *Health) failures(k kind) map[string]string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make(map[string]string)
	for _, c := range h.checks {
		if c.kind != k {
			continue
		}
		if msg, failed := c.failure(); failed {
			out[c.name] = msg
		}
	}
	return out
}

// LiveEndpoint serves /livez: 200 when all liveness checks pass, 503 otherwise.
func (h *Health) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, h.failures(liveness))
}

// ReadyEndpoint serves /readyz: 200 when the service is marked ready and all
// readiness checks pass, 503 otherwise.
func (h *Health) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	failures := h.failures(readiness)
	if !h.ready.Load() {
		failures["_readiness"] = "service is not ready"
	}
	writeStatus(w, failures)
}

// writeStatus writes {"status":"ok"} or {"status":"unhealthy","checks":{...}}.
func writeStatus(w http.ResponseWriter, failures map[string]string) {
	var e jx.Encoder
	status := http.StatusOK

	e.ObjStart()
	e.FieldStart("status")
	if len(failures) == 0 {
		e.Str("ok")
	} else {
		status = http.StatusServiceUnavailable
		e.Str("unhealthy")

		names := make([]string, 0, len(failures))
		for name := range failures {
			names = append(names, name)
		}
		sort.Strings(names)

		e.FieldStart("checks")
		e.ObjStart()
		for _, name := range names {
			e.FieldStart(name)
			e.Str(failures[name])
		}
		e.ObjEnd()
	}
	e.ObjEnd()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}
