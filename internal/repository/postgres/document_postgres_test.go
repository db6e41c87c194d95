package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"validoc/internal/model"
	"validoc/internal/repository"
)

var columns = []string{"id", "filename", "original_filename", "hash", "storage_path", "size", "content_type", "created_at"}

const sampleHash = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	rec := &model.Record{
		ID:               "test-uuid",
		Filename:         "test-uuid.txt",
		OriginalFilename: "test.txt",
		Hash:             sampleHash,
		StoragePath:      "documents/test-uuid.txt",
		Size:             5,
		ContentType:      "text/plain; charset=utf-8",
		CreatedAt:        now,
	}

	rows := sqlmock.NewRows(columns).
		AddRow(rec.ID, rec.Filename, rec.OriginalFilename, rec.Hash, rec.StoragePath, rec.Size, rec.ContentType, rec.CreatedAt)

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(rec.ID, rec.Filename, rec.OriginalFilename, rec.Hash, rec.StoragePath, rec.Size, rec.ContentType, rec.CreatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, rec)

	assert.NoError(t, err)
	assert.Equal(t, rec, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByHash(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(columns).
			AddRow("id-1", "id-1.txt", "a.txt", sampleHash, "documents/id-1.txt", 5, "text/plain", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM documents WHERE hash = (.+) ORDER BY created_at DESC LIMIT 1").
			WithArgs(sampleHash).
			WillReturnRows(rows)

		rec, err := repo.FindByHash(ctx, sampleHash)

		require.NoError(t, err)
		assert.Equal(t, "id-1", rec.ID)
		assert.Equal(t, sampleHash, rec.Hash)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE hash").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		rec, err := repo.FindByHash(ctx, "missing")

		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.Nil(t, rec)
	})

	t.Run("query error", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents WHERE hash").
			WithArgs("boom").
			WillReturnError(errors.New("conn reset"))

		rec, err := repo.FindByHash(ctx, "boom")

		assert.EqualError(t, err, "conn reset")
		assert.Nil(t, rec)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		rows := sqlmock.NewRows(columns).
			AddRow("test-id", "test-id.txt", "file.txt", sampleHash, "documents/test-id.txt", 100, "text/plain", time.Now())

		mock.ExpectQuery("SELECT (.+) FROM documents ORDER BY").
			WithArgs(10, 0).
			WillReturnRows(rows)

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10, Offset: 0})

		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
		assert.Equal(t, "file.txt", res.Items[0].OriginalFilename)
	})

	t.Run("count error", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents").
			WillReturnError(errors.New("db down"))

		res, err := repo.List(ctx, repository.PageQuery{Limit: 10})

		assert.Error(t, err)
		assert.Nil(t, res)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Ping(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPing()

	assert.NoError(t, NewDocumentPostgres(db).Ping(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
