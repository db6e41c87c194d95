// Package handler exposes the validocd HTTP routes.
//
// POST /verify matches a digest against every stored record. That is this
// server's own rule; the validoc client only reads the status class and does
// not depend on it.
package handler

import (
	"bytes"
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"validoc/internal/service"
)

// FilenameHeader carries the client-side base name of an uploaded file.
const FilenameHeader = "X-Filename"

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Handlers only translate between HTTP and the service; no business logic here.
func RegisterRoutes(app *fiber.App, store Pinger, docSvc service.DocumentService, gatherer prometheus.Gatherer) {
	app.Get("/health", HealthCheck(store))
	app.Get("/healthz", LivenessProbe())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	app.Post("/upload", UploadDocument(docSvc))
	app.Post("/verify", VerifyDocument(docSvc))
	app.Get("/documents", ListDocuments(docSvc))
}

// HealthCheck checks the metadata store only.
//
// @Summary  Readiness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Failure  503  {object}  errorPayload
// @Router   /health [get]
func HealthCheck(store Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 while the process is up.
//
// @Summary  Liveness probe
// @Tags     health
// @Success  200
// @Router   /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// UploadDocument stores the raw request body and answers with the name it was
// filed under and its SHA-256 digest.
//
// @Summary  Upload a document
// @Tags     documents
// @Accept   octet-stream
// @Produce  json
// @Param    X-Filename  header  string  false  "client-side file name"
// @Param    file        body    string  true   "raw file bytes"
// @Success  201  {object}  model.Document
// @Failure  400  {object}  errorPayload
// @Failure  413  {object}  errorPayload
// @Failure  500  {object}  errorPayload
// @Router   /upload [post]
func UploadDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()
		if len(body) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
		}

		rec, err := docSvc.Upload(c.UserContext(), bytes.NewReader(body), c.Get(FilenameHeader))
		if err != nil {
			if errors.Is(err, service.ErrEmptyContent) || errors.Is(err, service.ErrReaderNil) {
				return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(rec.Document())
	}
}

// VerifyDocument checks a digest against every uploaded document.
//
// @Summary  Verify a digest
// @Tags     documents
// @Accept   json
// @Produce  json
// @Param    hash  body  string  true  "64 lowercase hex characters"
// @Success  200  {object}  map[string]string
// @Failure  400  {object}  errorPayload
// @Failure  404  {object}  errorPayload
// @Failure  500  {object}  errorPayload
// @Router   /verify [post]
func VerifyDocument(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var hash string
		if err := json.Unmarshal(c.Body(), &hash); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DIGEST", "body must be a JSON string digest")
		}

		ok, err := docSvc.Verify(c.UserContext(), hash)
		if err != nil {
			if errors.Is(err, service.ErrInvalidDigest) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_DIGEST", "invalid digest")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		if !ok {
			return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "no document with this digest")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "verified"})
	}
}

// ListDocuments pages through stored records, newest first.
//
// @Summary  List documents
// @Tags     documents
// @Produce  json
// @Param    limit   query  int  false  "page size"  default(10)
// @Param    offset  query  int  false  "offset"     default(0)
// @Success  200  {object}  service.DocumentListResult
// @Failure  400  {object}  errorPayload
// @Failure  500  {object}  errorPayload
// @Router   /documents [get]
func ListDocuments(docSvc service.DocumentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := docSvc.List(c.UserContext(), limit, offset)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}
