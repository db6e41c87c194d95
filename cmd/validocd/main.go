package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"validoc/internal/config"
	"validoc/internal/database"
	"validoc/internal/database/migration"
	handlers "validoc/internal/http/handler"
	"validoc/internal/http/middleware"
	"validoc/internal/logging"
	"validoc/internal/otel"
	"validoc/internal/repository"
	"validoc/internal/repository/badgerdb"
	"validoc/internal/repository/postgres"
	"validoc/internal/service"
	"validoc/internal/storage"
)

// @title validoc document API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := config.Location(cfg.Timezone)
	logger := logging.New(os.Stdout, cfg.LogLevel, loc)

	if err := run(cfg, loc, logger); err != nil {
		logger.Error("server_exit", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, loc *time.Location, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, "validocd", logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Error("tracing_shutdown_failed", "error", err)
		}
	}()

	docRepo, closeRepo, err := openRepository(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		return fmt.Errorf("initialize object storage: %w", err)
	}

	docSvc := service.NewDocumentService(objStore, docRepo, logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:      "validocd",
		BodyLimit:    cfg.UploadMaxBytes,
		ErrorHandler: handlers.ErrorHandler(),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	// RequestID first so every later middleware and handler sees it
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(loc))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, docRepo, docSvc, reg)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", handlers.Swagger(cfg.AppHost))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_start", "addr", ":"+cfg.Port, "db_driver", cfg.Database.Driver)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	logger.Info("server_shutdown")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(sctx)
}

// openRepository builds the metadata store selected by DB_DRIVER.
func openRepository(ctx context.Context, c config.DatabaseConfig, logger *slog.Logger) (repository.DocumentRepository, func(), error) {
	switch c.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgres(ctx, c)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, logger, c.Host); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate database: %w", err)
		}
		return postgres.NewDocumentPostgres(db), func() { db.Close() }, nil
	case config.DriverBadger:
		db, err := database.OpenBadger(c)
		if err != nil {
			return nil, nil, err
		}
		return badgerdb.NewDocumentBadger(db), func() { db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported DB_DRIVER %q", c.Driver)
	}
}
