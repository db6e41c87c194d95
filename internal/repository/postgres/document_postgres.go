package postgres

import (
	"context"
	"database/sql"
	"errors"

	"validoc/internal/model"
	"validoc/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const recordColumns = `id, filename, original_filename, hash, storage_path, size, content_type, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*model.Record, error) {
	var r model.Record
	if err := s.Scan(
		&r.ID,
		&r.Filename,
		&r.OriginalFilename,
		&r.Hash,
		&r.StoragePath,
		&r.Size,
		&r.ContentType,
		&r.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, rec *model.Record) (*model.Record, error) {
	const q = `
		INSERT INTO documents (` + recordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + recordColumns
	row := r.db.QueryRowContext(ctx, q,
		rec.ID,
		rec.Filename,
		rec.OriginalFilename,
		rec.Hash,
		rec.StoragePath,
		rec.Size,
		rec.ContentType,
		rec.CreatedAt,
	)
	return scanRecord(row)
}

// FindByHash fetches the newest record with the given content digest.
func (r *DocumentPostgres) FindByHash(ctx context.Context, hash string) (*model.Record, error) {
	const q = `
		SELECT ` + recordColumns + `
		FROM documents
		WHERE hash = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, q, hash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return rec, nil
}

// List returns records using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, pq repository.PageQuery) (*repository.PageResult[model.Record], error) {
	// Count total rows
	const qCount = `SELECT COUNT(*) FROM documents`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount).Scan(&total); err != nil {
		return nil, err
	}

	// Fetch page
	const qList = `
		SELECT ` + recordColumns + `
		FROM documents
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, qList, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Record]{
		Items: items,
		Total: total,
	}, nil
}

// Ping checks database connectivity.
func (r *DocumentPostgres) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
