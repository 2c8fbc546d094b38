package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"diamondprep/internal/config"
	apierrors "diamondprep/internal/errors"
	"diamondprep/internal/files"
	"diamondprep/internal/infrastructure"
	custommw "diamondprep/internal/middleware"
	"diamondprep/internal/services"
	handlers "diamondprep/internal/transport/http"
)

// Application represents the main application container
type Application struct {
	Config         *config.Config
	Paths          *config.Paths
	Router         *chi.Mux
	Server         *http.Server
	DatasetService *services.DatasetService
	HealthService  *services.HealthService
	Metrics        *infrastructure.ServiceMetrics
	OTelProviders  *infrastructure.OTelProviders
	Logger         *slog.Logger
}

// NewApplication wires services, router and server from cfg. The caller
// owns logger initialization.
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion))

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		return nil, fmt.Errorf("failed to get paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}
	paths.LogPathResolution(logger)

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	metrics, err := infrastructure.CreateServiceMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create service metrics: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Paths:         paths,
		Metrics:       metrics,
		OTelProviders: providers,
		Logger:        logger,
	}

	loader := NewSourceLoader(cfg.Dataset, paths, metrics, logger)
	a.DatasetService = services.NewDatasetService(loader, metrics, logger)
	a.HealthService = services.NewHealthService(config.AppVersion, cfg.Dataset.Source, paths, logger)

	a.setupRouter()
	a.createServer()

	return a, nil
}

// NewSourceLoader builds the loader for the configured dataset source.
// Downloads are cached under the cache directory.
func NewSourceLoader(cfg config.DatasetConfig, paths *config.Paths, metrics *infrastructure.ServiceMetrics, logger *slog.Logger) *files.Loader {
	remote := files.IsRemote(cfg.Source)

	opts := files.Options{
		Timeout:   cfg.FetchTimeout,
		Retries:   cfg.FetchRetries,
		RetryRate: cfg.RetryRate,
		Logger:    logger,
		OnBytes: func(ctx context.Context, n int64) {
			metrics.RecordSourceBytes(ctx, remote, n)
		},
	}
	if paths != nil {
		opts.CacheDir = paths.CacheDir
	}
	return files.NewLoader(cfg.Source, opts)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()
	errorHandler := apierrors.NewErrorHandler(a.Logger, false)

	// RequestID → RealIP → telemetry → logger → recoverer
	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)
	r.Use(custommw.NewTelemetry(a.OTelProviders.Tracer, a.Metrics, a.Logger).Handler)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(errorHandler))
	r.Use(custommw.SecurityHeaders)
	r.Use(custommw.CORS(custommw.CORSConfig{
		AllowedOrigins: a.Config.Server.AllowedOrigins,
		Logger:         a.Logger,
	}))

	r.NotFound(errorHandler.NotFound)
	r.MethodNotAllowed(errorHandler.MethodNotAllowed)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.Route("/api", func(r chi.Router) {
		if rl := a.Config.Server.RateLimit; rl.Enabled {
			r.Use(custommw.NewRateLimiter(rl.RPS, rl.Burst, errorHandler, a.Logger).Handler)
		}

		r.Group(func(r chi.Router) {
			r.Use(render.SetContentType(render.ContentTypeJSON))

			healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
			r.Get("/health", healthHandler.HealthCheck)
			r.Get("/health/ready", healthHandler.ReadinessCheck)
			r.Get("/health/live", healthHandler.LivenessCheck)
			r.Get("/version", healthHandler.Version)
		})

		datasetHandler := handlers.NewDatasetHandler(a.DatasetService, errorHandler, a.Config.Server.AllowedOrigins, a.Logger)
		r.With(custommw.MaxBodySize(a.Config.Server.MaxUploadBytes)).Mount("/v1", datasetHandler.Routes())
	})

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:      a.Router,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
		IdleTimeout:  a.Config.Server.IdleTimeout,
	}
}

// Run serves until ctx is canceled or the server fails, then shuts down
// gracefully.
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.Logger.InfoContext(gctx, "HTTP server listening",
			slog.String("address", ln.Addr().String()),
			slog.String("mode", a.Config.Dataset.Mode),
			slog.String("source", a.Config.Dataset.Source))

		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.Background())
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}
	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("telemetry shutdown error: %w", err))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	return errors.Join(errs...)
}
