package bdgr

import (
	"context"
	"strings"
	"testing"

	"github.com/jonathangreen/tuque-sub001/pkg/errors"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"github.com/jonathangreen/tuque-sub001/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	for _, key := range []string{"objects/test:1/object.yaml", "objects/test:2/object.yaml", "uploads/abc"} {
		require.NoError(t, s.Put(ctx, key, strings.NewReader("value of "+key), storage.OverWrite))
	}
	return s
}

func TestStore(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	has, err := s.Has(ctx, "uploads/abc")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = s.Has(ctx, "uploads/def")
	require.NoError(t, err)
	assert.False(t, has)

	b, err := storage.ReadAll(ctx, s, "uploads/abc")
	require.NoError(t, err)
	assert.Equal(t, "value of uploads/abc", string(b))

	_, err = s.Get(ctx, "uploads/def")
	assert.True(t, errors.Is(err, status.ErrNotFound))

	err = s.Put(ctx, "uploads/abc", strings.NewReader("x"), storage.NoOverWrite)
	assert.True(t, errors.Is(err, status.ErrExists))

	keys, err := s.KeysPrefix(ctx, "objects/")
	require.NoError(t, err)
	assert.Equal(t, []string{"objects/test:1/object.yaml", "objects/test:2/object.yaml"}, keys)

	require.NoError(t, s.Delete(ctx, "uploads/abc"))
	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Len(t, keys, 2)

	require.NoError(t, s.Clear(ctx))
	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.Contains(t, s.String(), "badger@")
}

func TestInMemory(t *testing.T) {
	s, err := New("")
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()

	require.NoError(t, s.Put(context.Background(), "k", strings.NewReader("v"), storage.NoOverWrite))
	b, err := storage.ReadAll(context.Background(), s, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(b))
	assert.Equal(t, "badger@memory", s.String())
}
