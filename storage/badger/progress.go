package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/quarterlane/docbase/core"
	"github.com/quarterlane/docbase/storage"
)

// ProgressRepository implements storage.ProgressRepository for BadgerDB.
type ProgressRepository struct {
	backend *Backend
}

var _ storage.ProgressRepository = (*ProgressRepository)(nil)

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(backend *Backend) (*ProgressRepository, error) {
	return &ProgressRepository{backend: backend}, nil
}

// Close releases repository resources. The backend is closed separately.
func (r *ProgressRepository) Close() error {
	return nil
}

// SaveRecords persists progress records, replacing any existing record
// for the same path.
func (r *ProgressRepository) SaveRecords(ctx context.Context, records ...*core.ProgressRecord) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			record.LastUpdated = time.Now().UTC()
			value, err := storage.MarshalProgressRecord(record)
			if err != nil {
				return err
			}
			if err := tx.Set(makeProgressKey(record.Path), value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// LoadRecords retrieves all persisted progress records keyed by path.
func (r *ProgressRepository) LoadRecords(ctx context.Context) (map[string]*core.ProgressRecord, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	records := make(map[string]*core.ProgressRecord)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(progressPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.ProgressRecord
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalProgressRecord(val)
				return err
			}); err != nil {
				return err
			}
			if record != nil {
				records[record.Path] = record
			}
		}
		return nil
	}, false)

	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteRecords removes the records for the given paths.
func (r *ProgressRepository) DeleteRecords(ctx context.Context, paths ...string) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, path := range paths {
			if err := tx.Delete(makeProgressKey(path)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// Reset discards all persisted progress records.
func (r *ProgressRepository) Reset(ctx context.Context) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		var keys [][]byte

		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(progressPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			keys = append(keys, iter.Item().KeyCopy(nil))
		}
		iter.Close()

		for _, key := range keys {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
