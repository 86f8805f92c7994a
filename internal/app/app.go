package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/config"
	"github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/infrastructure"
	custommw "github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/middleware"
	"github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/services"
	"github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/sheets"
	transporthttp "github.com/sanskarladkat/Sport-Dashboard-2025-26/internal/transport/http"
)

// Application holds all wired components of the dashboard server.
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Router chi.Router
	Server *http.Server

	DashboardService *services.DashboardService
	HealthService    *services.HealthService
}

// NewApplication creates a fully wired application from configuration.
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return NewApplicationWithConfig(cfg)
}

// NewApplicationWithConfig wires an application around an existing
// configuration, which lets tests inject their own.
func NewApplicationWithConfig(cfg *config.Config) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	source, err := buildSource(cfg.Sheets, logger)
	if err != nil {
		return nil, err
	}

	dashboardService := services.NewDashboardService(source, cfg.Sheets, cfg.Cache, logger)
	healthService := services.NewHealthService(dashboardService)

	app := &Application{
		Config:           cfg,
		Logger:           logger,
		DashboardService: dashboardService,
		HealthService:    healthService,
	}
	app.Router = app.setupRouter()
	app.Server = app.createServer()
	return app, nil
}

// buildSource selects the sheet backend: a local workbook when a path is
// configured, the Google Sheets API otherwise.
func buildSource(cfg config.SheetsConfig, logger *slog.Logger) (sheets.Source, error) {
	if cfg.WorkbookPath != "" {
		logger.Info("using workbook source", slog.String("path", cfg.WorkbookPath))
		return sheets.NewWorkbookSource(cfg.WorkbookPath, logger), nil
	}

	source, err := sheets.NewGoogleSource(context.Background(), cfg.CredentialsJSON, cfg.CredentialsFile, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create google sheets source: %w", err)
	}
	logger.Info("using google sheets source", slog.String("spreadsheet_id", cfg.DashboardID))
	return source, nil
}

// setupRouter builds the chi router with the full middleware chain and API
// routes.
func (app *Application) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(custommw.StructuredLogger(app.Logger))
	r.Use(custommw.Recoverer(app.Logger))
	r.Use(custommw.SecurityHeaders)

	if app.Config.Security.EnableCORS {
		corsCfg := custommw.DefaultCORSConfig()
		corsCfg.AllowedOrigins = app.Config.Security.AllowedOrigins
		r.Use(custommw.CORS(corsCfg))
	}
	if app.Config.Security.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(
			int(app.Config.Security.RateLimit.RPS*60),
			app.Config.Security.RateLimit.Burst,
		)
		r.Use(limiter.Handler)
	}
	r.Use(custommw.Timeout(app.Config.Server.WriteTimeout))

	dashboardHandler := transporthttp.NewDashboardHandler(app.DashboardService, app.Logger)
	healthHandler := transporthttp.NewHealthHandler(app.HealthService, app.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Mount("/", dashboardHandler.Routes())
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)
	})

	return r
}

// createServer builds the HTTP server with the configured timeouts.
func (app *Application) createServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", app.Config.Server.Port),
		Handler:      app.Router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}
}

// Start begins serving and warms the response cache in the background.
func (app *Application) Start() error {
	go app.DashboardService.WarmCache(context.Background())

	app.Logger.Info("server starting",
		slog.Int("port", app.Config.Server.Port),
		slog.String("version", services.Version),
	)
	if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop gracefully shuts down the server and releases resources.
func (app *Application) Stop(ctx context.Context) error {
	app.Logger.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, app.Config.Server.ShutdownTimeout)
	defer cancel()

	err := app.Server.Shutdown(shutdownCtx)
	app.DashboardService.Close()
	if closeErr := infrastructure.CloseLogFile(); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}

// Run starts the application and blocks until an interrupt or termination
// signal arrives, then shuts down gracefully.
func (app *Application) Run() error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		app.Logger.Info("signal received", slog.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return app.Stop(ctx)
	}
}
