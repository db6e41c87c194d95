// Package badgerdb stores document records in an embedded Badger database, so the
// reference server can run without PostgreSQL.
//
// Layout:
//
//	doc/<id>          -> JSON encoded model.Record
//	hash/<hash>/<id>  -> empty, secondary index on the content digest
package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"validoc/internal/model"
	"validoc/internal/repository"
)

const (
	docPrefix  = "doc/"
	hashPrefix = "hash/"
)

// ErrClosed is returned by Ping once the database has been closed.
var ErrClosed = errors.New("badger database closed")

// DocumentBadger implements repository.DocumentRepository on top of Badger.
// It is safe for concurrent use by multiple goroutines.
type DocumentBadger struct {
	db *badger.DB
}

// NewDocumentBadger wraps an open Badger database.
func NewDocumentBadger(db *badger.DB) *DocumentBadger {
	return &DocumentBadger{db: db}
}

var _ repository.DocumentRepository = (*DocumentBadger)(nil)

func docKey(id string) []byte {
	return []byte(docPrefix + id)
}

func hashKey(hash, id string) []byte {
	return []byte(hashPrefix + hash + "/" + id)
}

// Create stores rec and its hash index entry in one transaction.
func (r *DocumentBadger) Create(_ context.Context, rec *model.Record) (*model.Record, error) {
	val, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(docKey(rec.ID)); err == nil {
			return fmt.Errorf("record %s already exists", rec.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(docKey(rec.ID), val); err != nil {
			return err
		}
		return txn.Set(hashKey(rec.Hash, rec.ID), nil)
	})
	if err != nil {
		return nil, err
	}

	out := *rec
	return &out, nil
}

// FindByHash returns the newest record indexed under hash.
func (r *DocumentBadger) FindByHash(_ context.Context, hash string) (*model.Record, error) {
	var found *model.Record

	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(hashPrefix + hash + "/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			id := string(it.Item().Key()[len(prefix):])
			rec, err := getRecord(txn, id)
			if err != nil {
				return err
			}
			if found == nil || rec.CreatedAt.After(found.CreatedAt) {
				found = rec
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, repository.ErrNotFound
	}
	return found, nil
}

// List returns records newest first. Badger keeps no secondary order on
// created_at, so the page is cut after sorting every record.
func (r *DocumentBadger) List(_ context.Context, pq repository.PageQuery) (*repository.PageResult[model.Record], error) {
	all := make([]model.Record, 0)

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(docPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec model.Record
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return fmt.Errorf("decode record: %w", err)
			}
			all = append(all, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	start := min(max(pq.Offset, 0), total)
	end := total
	if pq.Limit > 0 {
		end = min(start+pq.Limit, total)
	}

	return &repository.PageResult[model.Record]{
		Items: all[start:end],
		Total: total,
	}, nil
}

// Ping reports ErrClosed once the database has been closed.
func (r *DocumentBadger) Ping(_ context.Context) error {
	if r.db.IsClosed() {
		return ErrClosed
	}
	return nil
}

func getRecord(txn *badger.Txn, id string) (*model.Record, error) {
	item, err := txn.Get(docKey(id))
	if err != nil {
		return nil, err
	}
	var rec model.Record
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &rec)
	}); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}
