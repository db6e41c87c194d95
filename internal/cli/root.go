package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"validoc/internal/client"
	"validoc/internal/config"
	"validoc/internal/model"
)

// Version is reported by --version.
const Version = "1.0"

// Service is the set of operations the subcommands dispatch to.
type Service interface {
	Upload(ctx context.Context, path string) (*model.Document, error)
	Hash(path string) (string, error)
	Verify(ctx context.Context, path string) (bool, error)
}

// ServiceFactory builds a Service for the base URL chosen on the command line.
type ServiceFactory func(apiURL string) Service

type app struct {
	cfg        *config.ClientConfig
	log        *slog.Logger
	newService ServiceFactory

	apiURL  string
	noColor bool
}

// Option customizes the command tree.
type Option func(*app)

// WithServiceFactory replaces the HTTP-backed client, mainly for tests.
func WithServiceFactory(f ServiceFactory) Option {
	return func(a *app) {
		a.newService = f
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *app) {
		a.log = l
	}
}

// NewRootCommand builds the validoc command tree.
func NewRootCommand(cfg *config.ClientConfig, opts ...Option) *cobra.Command {
	a := &app{
		cfg: cfg,
		log: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.newService == nil {
		a.newService = a.httpService
	}

	root := &cobra.Command{
		Use:     "validoc",
		Short:   "Document verification client",
		Long:    "validoc hashes local files and uploads or verifies them against a document service.",
		Version: Version,
	}

	root.PersistentFlags().StringVar(&a.apiURL, "api-url", cfg.APIURL, "The URL of the API server")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable coloured output")

	root.AddCommand(
		a.uploadCommand(),
		a.hashCommand(),
		a.verifyCommand(),
	)

	return root
}

func (a *app) httpService(apiURL string) Service {
	return client.New(apiURL,
		client.WithHTTPClient(client.NewHTTPClient(a.cfg.HTTPTimeout)),
		client.WithLogger(a.log),
	)
}

func (a *app) success(w io.Writer, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if a.colored(w) {
		msg = color.Green.Sprint(msg)
	}
	_, _ = fmt.Fprintln(w, msg)
}

func (a *app) failure(w io.Writer, prefix string, err error) {
	var msg string
	if kind, ok := client.KindOf(err); ok && kind == client.KindVerification {
		msg = "File verification failed."
	} else {
		msg = fmt.Sprintf("%s: %v", prefix, err)
	}
	if a.colored(w) {
		msg = color.Red.Sprint(msg)
	}
	_, _ = fmt.Fprintln(w, msg)
}

func (a *app) colored(w io.Writer) bool {
	if a.noColor || !color.SupportColor() {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (f == os.Stdout || f == os.Stderr)
}

func (a *app) logFailure(ctx context.Context, op, path string, err error) {
	kind, _ := client.KindOf(err)
	a.log.DebugContext(ctx, "operation_failed",
		"op", op,
		"file", path,
		"kind", kind.String(),
		"error", err.Error(),
	)
}
