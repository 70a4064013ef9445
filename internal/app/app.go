package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/order-pricing/internal/domain/order"
	"github.com/xenking/order-pricing/internal/handler"
	"github.com/xenking/order-pricing/pkg/health"
	"github.com/xenking/order-pricing/pkg/httpmiddleware"
)

const serviceName = "pricing-api"

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	quotes, err := order.NewService(m.TracerProvider(), m.MeterProvider())
	if err != nil {
		return errors.Wrap(err, "create quote service")
	}

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	defer healthSvc.Stop()

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, lg, cfg, quotes, healthSvc, m.TracerProvider(), m.MeterProvider()),
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		healthSvc.SetReady(false)
		if ctx.Err() != nil {
			// Give load balancers time to observe readiness=false.
			lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
			time.Sleep(cfg.Graceful.ReadinessDelay)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown")
		}
		return nil
	})

	healthSvc.SetReady(true)
	return g.Wait()
}

// newHandler builds the router with health endpoints, API routes and the
// middleware chain.
func newHandler(
	ctx context.Context,
	lg *zap.Logger,
	cfg *Config,
	quotes handler.Quoter,
	healthSvc *health.Health,
	tp trace.TracerProvider,
	mp metric.MeterProvider,
) http.Handler {
	r := chi.NewRouter()
	r.Get("/livez", healthSvc.LiveEndpoint)
	r.Get("/readyz", healthSvc.ReadyEndpoint)
	r.Route("/api", handler.NewHandler(quotes).Routes)

	routeFinder := httpmiddleware.MakeRouteFinder(r)
	return httpmiddleware.Wrap(r,
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.RequestID(),
		httpmiddleware.LogRequests(routeFinder),
		httpmiddleware.Recovery(),
		cors.Handler(cors.Options{
			AllowedOrigins:   cfg.CORS.Origins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RateLimitWithCleanup(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
		httpmiddleware.Instrument(serviceName, routeFinder, tp, mp),
		httpmiddleware.Labeler(routeFinder),
	)
}
