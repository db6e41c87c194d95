// Package repository contains the data access abstractions for document records.
// Implementations live in subpackages (postgres, badgerdb).
package repository

import (
	"context"
	"errors"

	"validoc/internal/model"
)

// ErrNotFound is returned by every implementation when no record matches.
var ErrNotFound = errors.New("record not found")

// DocumentRepository defines data access for document records.
// Persistence only; no business rules.
type DocumentRepository interface {
	// Create inserts a new record. The caller provides ID and CreatedAt.
	// Returns the stored record (may include values set by the store).
	Create(ctx context.Context, rec *model.Record) (*model.Record, error)

	// FindByHash returns the most recent record whose content has the given digest.
	FindByHash(ctx context.Context, hash string) (*model.Record, error)

	// List returns a page of records, newest first, and the total row count.
	List(ctx context.Context, pq PageQuery) (*PageResult[model.Record], error)

	// Ping reports whether the underlying store is reachable.
	Ping(ctx context.Context) error
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}
