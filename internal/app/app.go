package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"salescli/internal/config"
	apierrors "salescli/internal/errors"
	"salescli/internal/infrastructure"
	"salescli/internal/services"
	transport "salescli/internal/transport/http"
)

// VERSION is the report server version
const VERSION = "1.0.0"

// Application holds the report server and its dependencies
type Application struct {
	Config *config.Config
	Logger *slog.Logger
	Paths  *config.Paths
	Server *http.Server

	ReportService *services.ReportService
	HealthService *services.HealthService
}

// NewApplication creates a fully wired application
func NewApplication() (*Application, error) {
	paths, err := config.GetPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Logging.FilePath = paths.GetLogPath("server.log")

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	reportService := services.NewReportService(logger, paths, cfg.Pipeline)
	healthService := services.NewHealthService(VERSION, paths)

	errorHandler := apierrors.NewErrorHandler(logger)
	reportHandler := transport.NewReportHandler(reportService, logger, errorHandler)
	healthHandler := transport.NewHealthHandler(healthService, logger)
	router := transport.NewRouter(cfg, logger, reportHandler, healthHandler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &Application{
		Config:        cfg,
		Logger:        logger,
		Paths:         paths,
		Server:        server,
		ReportService: reportService,
		HealthService: healthService,
	}, nil
}

// Run starts the server and blocks until an interrupt or server error.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.Logger.InfoContext(ctx, "starting report server",
		slog.String("version", VERSION),
		slog.Int("port", a.Config.Server.Port),
		slog.String("input_csv", a.Paths.InputCSV),
		slog.String("reports_dir", a.Paths.ReportsDir))

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		a.Logger.Info("shutting down report server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
		defer cancel()

		if err := a.Server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil
	})

	err := group.Wait()
	a.Logger.Info("report server stopped")
	infrastructure.CloseLogFile()
	return err
}
