package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"validoc/internal/digest"
	"validoc/internal/model"
	"validoc/internal/repository"
	"validoc/internal/storage"
)

var (
	ErrReaderNil     = errors.New("reader is nil")
	ErrEmptyContent  = errors.New("content is empty")
	ErrInvalidDigest = errors.New("invalid digest")
)

// DocumentListResult is the service-level DTO for paginated records.
type DocumentListResult struct {
	Items []model.Record `json:"data"`
	Total int            `json:"total"`
}

// DocumentService defines the use cases behind the validoc wire contract.
type DocumentService interface {
	// Upload hashes the content, stores it in object storage and saves its record.
	// Storage is rolled back if the record cannot be saved.
	// originalFilename only contributes its extension to the stored name.
	Upload(ctx context.Context, r io.Reader, originalFilename string) (*model.Record, error)

	// Verify reports whether any stored document has the given digest.
	Verify(ctx context.Context, hash string) (bool, error)

	// List returns records using limit/offset and a total count.
	List(ctx context.Context, limit, offset int) (*DocumentListResult, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	store storage.Storage
	repo  repository.DocumentRepository
	log   *slog.Logger
	now   func() time.Time
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(store storage.Storage, repo repository.DocumentRepository, log *slog.Logger) DocumentService {
	return &documentService{
		store: store,
		repo:  repo,
		log:   log,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, originalFilename string) (*model.Record, error) {
	if r == nil {
		return nil, ErrReaderNil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrEmptyContent
	}

	hash := digest.Sum(data)
	mt := mimetype.Detect(data)

	// Stored name is UUID + extension; fall back to the detected type's extension
	ext := filepath.Ext(originalFilename)
	if ext == "" {
		ext = mt.Extension()
	}
	genName := uuid.NewString() + ext
	key := path.Join("documents", genName)

	objInfo, err := s.store.Put(ctx, key, bytes.NewReader(data), storage.PutObjectOptions{
		Size:        int64(len(data)),
		ContentType: mt.String(),
		Metadata: map[string]string{
			"original-filename": originalFilename,
			"sha256":            hash,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	rec := &model.Record{
		ID:               uuid.NewString(),
		Filename:         genName,
		OriginalFilename: originalFilename,
		Hash:             hash,
		StoragePath:      objInfo.Key,
		Size:             int64(len(data)),
		ContentType:      mt.String(),
		CreatedAt:        s.now(),
	}
	stored, err := s.repo.Create(ctx, rec)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.log.InfoContext(ctx, "document_uploaded",
		"id", stored.ID,
		"filename", stored.Filename,
		"hash", stored.Hash,
		"size", stored.Size,
		"content_type", stored.ContentType,
	)
	return stored, nil
}

func (s *documentService) Verify(ctx context.Context, hash string) (bool, error) {
	if err := digest.Validate(hash); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidDigest, err)
	}

	rec, err := s.repo.FindByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.log.InfoContext(ctx, "document_verification", "hash", hash, "verified", false)
			return false, nil
		}
		return false, err
	}

	s.log.InfoContext(ctx, "document_verification", "hash", hash, "verified", true, "id", rec.ID)
	return true, nil
}

// List returns paginated records without exposing repository types.
func (s *documentService) List(ctx context.Context, limit, offset int) (*DocumentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	res, err := s.repo.List(ctx, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}
