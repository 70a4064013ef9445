package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func passingCheck() CheckFunc {
	return func(context.Context) error { return nil }
}

func failingCheck(msg string) CheckFunc {
	return func(context.Context) error { return errors.New(msg) }
}

func get(t *testing.T, endpoint http.HandlerFunc) (int, statusResponse) {
	t.Helper()

	w := httptest.NewRecorder()
	endpoint(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body statusResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return w.Code, body
}

func runN(h *Health, n int) {
	for range n {
		for _, c := range h.checks {
			c.run(context.Background())
		}
	}
}

func TestLiveEndpoint_AllPassing(t *testing.T) {
	h := New()
	h.AddLivenessCheck("check1", time.Second, passingCheck())
	h.AddLivenessCheck("check2", time.Second, passingCheck())

	code, body := get(t, h.LiveEndpoint)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body.Status)
	assert.Empty(t, body.Checks)
}

func TestLiveEndpoint_FailingCheck(t *testing.T) {
	h := New()
	h.AddLivenessCheck("db", time.Second, failingCheck("connection refused"))
	runN(h, failureThreshold)

	code, body := get(t, h.LiveEndpoint)

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "unhealthy", body.Status)
	assert.Equal(t, "connection refused", body.Checks["db"])
}

func TestLiveEndpoint_FailureBelowThreshold(t *testing.T) {
	h := New()
	h.AddLivenessCheck("flaky", time.Second, failingCheck("temporary"))
	runN(h, failureThreshold-1)

	code, _ := get(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code)
}

func TestLiveEndpoint_IgnoresReadinessChecks(t *testing.T) {
	h := New()
	h.AddReadinessCheck("cache", time.Second, failingCheck("cold"))
	runN(h, failureThreshold)

	code, _ := get(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusOK, code)
}

func TestReadyEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		ready      bool
		check      CheckFunc
		wantStatus int
		wantChecks []string
	}{
		{
			name:       "ready and passing",
			ready:      true,
			check:      passingCheck(),
			wantStatus: http.StatusOK,
		},
		{
			name:       "not marked ready",
			check:      passingCheck(),
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: []string{"_readiness"},
		},
		{
			name:       "ready but check failing",
			ready:      true,
			check:      failingCheck("down"),
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: []string{"cache"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			h.AddReadinessCheck("cache", time.Second, tt.check)
			h.SetReady(tt.ready)
			runN(h, failureThreshold)

			code, body := get(t, h.ReadyEndpoint)

			assert.Equal(t, tt.wantStatus, code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, h.IsReady())
			for _, name := range tt.wantChecks {
				assert.Contains(t, body.Checks, name)
			}
		})
	}
}

func TestCheck_Recovers(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)

	h := New()
	h.AddReadinessCheck("svc", time.Second, func(context.Context) error {
		if failing.Load() {
			return errors.New("down")
		}
		return nil
	})
	h.SetReady(true)

	runN(h, failureThreshold)
	assert.False(t, h.IsReady())

	failing.Store(false)
	runN(h, successThreshold)
	assert.True(t, h.IsReady())
}

func TestCheck_Timeout(t *testing.T) {
	h := New()
	h.AddLivenessCheck("slow", 10*time.Millisecond, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	runN(h, failureThreshold)

	code, body := get(t, h.LiveEndpoint)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Contains(t, body.Checks["slow"], "deadline exceeded")
}

func TestStartStop(t *testing.T) {
	var calls atomic.Int32
	h := New()
	h.AddLivenessCheck("count", time.Second, func(context.Context) error {
		calls.Add(1)
		return nil
	})

	h.Start(context.Background(), time.Hour)
	require.Eventually(t, func() bool { return calls.Load() >= 1 }, time.Second, 5*time.Millisecond)

	h.Stop()
	h.Stop()
}

func TestGoroutineCountCheck(t *testing.T) {
	require.NoError(t, GoroutineCountCheck(1_000_000)(context.Background()))
	require.Error(t, GoroutineCountCheck(0)(context.Background()))
}
