package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/xenking/order-pricing/internal/domain/order"
	"github.com/xenking/order-pricing/pkg/health"
)

func testConfig() *Config {
	return &Config{
		Addr:      defaultAddr,
		RateLimit: RateLimitConfig{Max: 100, Window: time.Minute},
		CORS:      CORSConfig{Origins: []string{"*"}},
		Graceful:  GracefulConfig{ShutdownTimeout: time.Second},
	}
}

func newTestServer(t *testing.T, cfg *Config) (*httptest.Server, *health.Health) {
	t.Helper()
	return newTestServerWithLogger(t, cfg, zaptest.NewLogger(t))
}

func newTestServerWithLogger(t *testing.T, cfg *Config, lg *zap.Logger) (*httptest.Server, *health.Health) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	tp := tracenoop.NewTracerProvider()
	mp := metricnoop.NewMeterProvider()
	quotes, err := order.NewService(tp, mp)
	require.NoError(t, err)

	healthSvc := health.New()
	srv := httptest.NewServer(newHandler(ctx, lg, cfg, quotes, healthSvc, tp, mp))
	t.Cleanup(srv.Close)
	return srv, healthSvc
}

func TestServer_Quote(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	scenarios := []struct {
		body string
		want float64
	}{
		{body: `{"quantity":10,"itemPrice":10}`, want: 95},
		{body: `{"quantity":100,"itemPrice":10}`, want: 950},
		{body: `{"quantity":101,"itemPrice":10}`, want: 909},
	}

	for _, s := range scenarios {
		resp, err := http.Post(srv.URL+"/api/quote", "application/json", strings.NewReader(s.body))
		require.NoError(t, err)

		var body struct {
			FinalPrice float64 `json:"finalPrice"`
		}
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		require.NoError(t, resp.Body.Close())

		assert.InDelta(t, s.want, body.FinalPrice, 1e-9, s.body)
		assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		assert.Equal(t, "100", resp.Header.Get("X-RateLimit-Limit"))
	}
}

func TestServer_Health(t *testing.T) {
	srv, healthSvc := newTestServer(t, testConfig())

	resp, err := http.Get(srv.URL + "/livez")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	healthSvc.SetReady(true)
	resp, err = http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServer_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	resp, err := http.Get(srv.URL + "/api/unknown")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_CORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, testConfig())

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/quote", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestServer_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Max = 1
	srv, _ := newTestServer(t, cfg)

	resp, err := http.Get(srv.URL + "/api/tiers")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/tiers")
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}

func TestServer_LogsRejectedRequests(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Max = 1
	core, logs := observer.New(zap.InfoLevel)
	srv, _ := newTestServerWithLogger(t, cfg, zap.New(core))

	for range 2 {
		resp, err := http.Get(srv.URL + "/api/tiers")
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
	}

	entries := logs.FilterMessage("Request").All()
	require.Len(t, entries, 2)

	statuses := make([]int64, 0, len(entries))
	for _, e := range entries {
		fields := e.ContextMap()
		statuses = append(statuses, fields["status"].(int64))
		assert.Equal(t, "/api/tiers", fields["route"])
		assert.NotEmpty(t, fields["request_id"])
	}
	assert.Equal(t, []int64{http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestConfig_Validate(t *testing.T) {
	cfg := testConfig()
	require.NoError(t, cfg.validate())

	cfg.RateLimit.Max = 0
	require.Error(t, cfg.validate())

	cfg = testConfig()
	cfg.RateLimit.Window = 0
	require.Error(t, cfg.validate())
}

func TestConfig_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg := testConfig()
	cfg.applyPlatformDefaults()
	assert.Equal(t, "0.0.0.0:9090", cfg.Addr)

	cfg.Addr = "127.0.0.1:1234"
	cfg.applyPlatformDefaults()
	assert.Equal(t, "127.0.0.1:1234", cfg.Addr)
}
