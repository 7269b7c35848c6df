package localfs

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/jonathangreen/tuque-sub001/pkg/errors"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"github.com/jonathangreen/tuque-sub001/pkg/storage"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHas(t *testing.T) {
	bs, cleanup := setupStore(t)
	defer cleanup()

	has, err := bs.Has(context.Background(), "sixteentons")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(context.Background(), "objects/test:1/object.yaml")
	require.NoError(t, err)
	require.True(t, has)

	has, err = bs.Has(context.Background(), "fifteentons")
	require.NoError(t, err)
	require.False(t, has)

	has, err = bs.Has(context.Background(), "objects")
	require.NoError(t, err)
	require.False(t, has, "directories are not keys")
}

func TestGet(t *testing.T) {
	bs, cleanup := setupStore(t)
	defer cleanup()

	rdr, err := bs.Get(context.Background(), "sixteentons")
	require.NoError(t, err)
	b, err := io.ReadAll(rdr)
	require.NoError(t, err)
	require.NoError(t, rdr.Close())
	assert.Equal(t, "this is the text", string(b))

	b, err = storage.ReadAll(context.Background(), bs, "objects/test:1/object.yaml")
	require.NoError(t, err)
	assert.Equal(t, "pid: test:1", string(b))

	_, err = bs.Get(context.Background(), "fifteentons")
	assert.True(t, errors.Is(err, status.ErrNotFound))
}

func TestKeys(t *testing.T) {
	bs, cleanup := setupStore(t)
	defer cleanup()

	keys, err := bs.Keys(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"objects/test:1/object.yaml", "objects/test:2/object.yaml", "sixteentons"}, keys)

	keys, err = bs.KeysPrefix(context.Background(), "objects/test:1/")
	require.NoError(t, err)
	assert.Equal(t, []string{"objects/test:1/object.yaml"}, keys)
}

func TestDelete(t *testing.T) {
	bs, cleanup := setupStore(t)
	defer cleanup()

	require.NoError(t, bs.Delete(context.Background(), "sixteentons"))
	require.NoError(t, bs.Delete(context.Background(), "sixteentons"), "deleting a missing key is not an error")
	k, _ := bs.Keys(context.Background())
	assert.Len(t, k, 2)
}

func TestClear(t *testing.T) {
	bs, cleanup := setupStore(t)
	defer cleanup()

	require.NoError(t, bs.Clear(context.Background()))
	k, _ := bs.Keys(context.Background())
	require.Empty(t, k)
}

func TestPut(t *testing.T) {
	bs, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	err := bs.Put(ctx, "uploads/abc", bytes.NewBufferString("here we go once again"), storage.NoOverWrite)
	require.NoError(t, err)

	b, err := storage.ReadAll(ctx, bs, "uploads/abc")
	require.NoError(t, err)
	assert.Equal(t, "here we go once again", string(b))

	err = bs.Put(ctx, "uploads/abc", bytes.NewBufferString("again"), storage.NoOverWrite)
	assert.True(t, errors.Is(err, status.ErrExists))

	require.NoError(t, bs.Put(ctx, "uploads/abc", bytes.NewBufferString("short"), storage.OverWrite))
	b, err = storage.ReadAll(ctx, bs, "uploads/abc")
	require.NoError(t, err)
	assert.Equal(t, "short", string(b), "overwrite truncates the previous value")

	k, _ := bs.Keys(ctx)
	assert.Len(t, k, 4)
}

func TestString(t *testing.T) {
	assert.Equal(t, "localfs", New(afero.NewMemMapFs()).String())
	assert.Contains(t, New(afero.NewBasePathFs(afero.NewMemMapFs(), "/base")).String(), "localfs@")
}

func setupStore(t testing.TB) (storage.Store, func()) {
	t.Helper()

	fs := afero.NewMemMapFs()
	fakeFile(t, fs, "sixteentons", "this is the text")
	require.NoError(t, fs.MkdirAll("objects/test:1", 0700))
	require.NoError(t, fs.MkdirAll("objects/test:2", 0700))
	fakeFile(t, fs, "objects/test:1/object.yaml", "pid: test:1")
	fakeFile(t, fs, "objects/test:2/object.yaml", "pid: test:2")

	return New(fs), func() {}
}

func fakeFile(t testing.TB, fs afero.Fs, file, content string) {
	f, err := fs.Create(file)
	require.NoError(t, err)
	_, err = f.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}
