package storage

import (
	"context"
	"io"
)

// NewKey tells if a Put may overwrite an existing key
type NewKey bool

const (
	// OverWrite replaces any existing value
	OverWrite NewKey = false
	// NoOverWrite fails with status.ErrExists when the key exists
	NoOverWrite NewKey = true
)

// Store implementations know how to write entries to a K/V model.
//
// Keys are slash-separated paths. Implementations of this interface are assumed to be fairly simple.
// Get returns status.ErrNotFound for missing keys.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(context.Context, string, io.Reader, NewKey) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
	KeysPrefix(context.Context, string) ([]string, error)
	Clear(context.Context) error
}

// ReadAll fetches the complete value of a key
func ReadAll(ctx context.Context, store Store, key string) ([]byte, error) {
	rdr, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()
	return io.ReadAll(rdr)
}
