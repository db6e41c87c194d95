package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"validoc/internal/digest"
	"validoc/internal/model"
)

const (
	// FilenameHeader carries the local base name of an uploaded file. Servers may ignore it.
	FilenameHeader = "X-Filename"

	uploadPath = "/upload"
	verifyPath = "/verify"

	opUpload = "upload"
	opHash   = "hash"
	opVerify = "verify"
)

// Doer sends a single HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client performs validoc operations against one document service.
type Client struct {
	baseURL string
	http    Doer
	log     *slog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default traced *http.Client.
func WithHTTPClient(d Doer) Option {
	return func(c *Client) {
		c.http = d
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		c.log = l
	}
}

// NewHTTPClient returns an *http.Client instrumented with OpenTelemetry.
// A zero timeout leaves requests unbounded.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   timeout,
	}
}

// New creates a Client for the service rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    NewHTTPClient(0),
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload posts the raw bytes of the file at path to {base}/upload and returns the
// Document the service filed it under.
func (c *Client) Upload(ctx context.Context, path string) (*model.Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, ioError(opUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, bytes.NewReader(data))
	if err != nil {
		return nil, transportError(opUpload, err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set(FilenameHeader, filepath.Base(path))

	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, transportError(opUpload, err)
	}
	defer closeBody(resp.Body)

	if !isSuccess(resp.StatusCode) {
		return nil, statusError(opUpload, statusText(resp), resp.StatusCode)
	}

	doc, err := model.DecodeDocument(resp.Body)
	if err != nil {
		return nil, decodeError(opUpload, err)
	}
	return doc, nil
}

// Hash returns the SHA-256 hex digest of the file at path. No request is made.
func (c *Client) Hash(path string) (string, error) {
	sum, err := digest.File(path)
	if err != nil {
		return "", ioError(opHash, err)
	}
	return sum, nil
}

// Verify posts the digest of the file at path to {base}/verify. It reports true
// for any 2xx status and false for every other status; the service decides what
// the digest is compared against.
func (c *Client) Verify(ctx context.Context, path string) (bool, error) {
	sum, err := digest.File(path)
	if err != nil {
		return false, ioError(opVerify, err)
	}

	// Encoding a plain string cannot fail.
	body, _ := json.Marshal(sum)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+verifyPath, bytes.NewReader(body))
	if err != nil {
		return false, transportError(opVerify, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.send(ctx, req)
	if err != nil {
		return false, transportError(opVerify, err)
	}
	defer closeBody(resp.Body)

	return isSuccess(resp.StatusCode), nil
}

func (c *Client) send(ctx context.Context, req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.DebugContext(ctx, "request failed",
			"method", req.Method,
			"url", req.URL.String(),
			"error", err.Error(),
		)
		return nil, err
	}
	c.log.DebugContext(ctx, "request completed",
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

func isSuccess(code int) bool {
	return code >= 200 && code < 300
}

func statusText(resp *http.Response) string {
	if resp.Status != "" {
		return resp.Status
	}
	return fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

// maxDrain bounds how much of an unread body is discarded to keep the
// connection reusable; larger bodies just cost the connection.
const maxDrain = 4 << 10

func closeBody(rc io.ReadCloser) {
	_, _ = io.CopyN(io.Discard, rc, maxDrain)
	_ = rc.Close()
}
