// Package bdgr implements a storage.Store on top of an embedded badger database.
package bdgr

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"github.com/jonathangreen/tuque-sub001/pkg/storage"
)

var _ storage.Store = &Store{}

// Store is a badger backed storage model
type Store struct {
	dir   string
	db    *badger.DB
	close sync.Once
}

// New opens (or creates) a badger database in a directory.
//
// An empty directory opens an in-memory database.
func New(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{dir: dir, db: db}, nil
}

// Close the underlying database
func (s *Store) Close() error {
	var err error
	s.close.Do(func() {
		err = s.db.Close()
	})
	return err
}

func badgerRewriteError(key string, err error) error {
	switch err {
	case nil:
		return nil
	case badger.ErrKeyNotFound:
		return status.ErrNotFound.WrapMessage(key)
	case badger.ErrEmptyKey:
		return status.ErrInvalidIdentifier.Wrap(err)
	default:
		return err
	}
}

// Has tells if a key is present
func (s *Store) Has(_ context.Context, key string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	return err == nil, badgerRewriteError(key, err)
}

// Get yields the value of a key
func (s *Store) Get(_ context.Context, key string) (io.ReadCloser, error) {
	var value []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, badgerRewriteError(key, err)
	}
	return io.NopCloser(bytes.NewReader(value)), nil
}

// Put stores a value. The value is fully read before the transaction starts.
func (s *Store) Put(_ context.Context, key string, source io.Reader, exclusive storage.NewKey) error {
	value, err := io.ReadAll(source)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if exclusive {
			_, err := txn.Get([]byte(key))
			if err == nil {
				return status.ErrExists.WrapMessage(key)
			}
			if err != badger.ErrKeyNotFound {
				return err
			}
		}
		return badgerRewriteError(key, txn.Set([]byte(key), value))
	})
}

// Delete removes a key. Missing keys are ignored.
func (s *Store) Delete(_ context.Context, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return badgerRewriteError(key, txn.Delete([]byte(key)))
	})
}

// Keys lists all keys
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	return s.KeysPrefix(ctx, "")
}

// KeysPrefix lists the keys with a prefix, in lexicographic order
func (s *Store) KeysPrefix(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	return keys, err
}

// Clear drops all keys
func (s *Store) Clear(_ context.Context) error {
	return s.db.DropAll()
}

func (s *Store) String() string {
	if s.dir == "" {
		return "badger@memory"
	}
	return "badger@" + s.dir
}
