package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"validoc/internal/cli"
	"validoc/internal/config"
	"validoc/internal/logging"
	"validoc/internal/otel"
)

func main() {
	os.Exit(run())
}

func run() (exitCode int) {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.LoadClient()

	// Diagnostics go to stderr so command output stays clean
	logger := logging.New(os.Stderr, cfg.LogLevel, config.Location(cfg.Timezone))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Spans from the HTTP transport are only exported when an OTLP endpoint is set
	if otel.Configured() {
		shutdown, err := otel.Init(ctx, "validoc", logger)
		if err != nil {
			logger.Warn("tracing_init_failed", "error", err)
		} else {
			defer shutdown(context.Background())
		}
	}

	root := cli.NewRootCommand(cfg, cli.WithLogger(logger))
	if err := root.ExecuteContext(ctx); err != nil {
		exitCode = 1
	}
	return exitCode
}
