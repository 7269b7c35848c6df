package repository

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/jonathangreen/tuque-sub001/pkg/errors"
	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"github.com/jonathangreen/tuque-sub001/pkg/transport/mocktransport"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// versionedMock serves one datastream and keeps its history in memory
func versionedMock() *mocktransport.TransportMock {
	mock := listingMock()
	history := []model.DatastreamInfo{{
		ID: "OBJ", VersionID: "OBJ.0", ControlGroup: model.ControlGroupManaged, State: model.StateActive,
		Label: "Original", MimeType: "image/tiff", Versionable: true, CreatedDate: modified,
	}}
	contents := map[string]string{"OBJ.0": "first"}

	mock.FetchDatastreamInfoFunc = func(context.Context, string, string) (model.DatastreamInfo, error) {
		return history[0], nil
	}
	mock.FetchDatastreamHistoryFunc = func(context.Context, string, string) ([]model.DatastreamInfo, error) {
		return append([]model.DatastreamInfo{}, history...), nil
	}
	mock.FetchDatastreamContentFunc = func(_ context.Context, _ string, _ string, asOf time.Time) (io.ReadCloser, error) {
		for _, v := range history {
			if asOf.IsZero() || !v.CreatedDate.After(asOf) {
				return io.NopCloser(bytes.NewReader([]byte(contents[v.VersionID]))), nil
			}
		}
		return nil, status.ErrNotFound
	}
	mock.ModifyDatastreamFunc = func(_ context.Context, _ string, _ string, source *model.ContentSource, params model.DatastreamParams, expected time.Time) (model.DatastreamInfo, error) {
		current := history[0]
		if !expected.IsZero() && !expected.Equal(current.CreatedDate) {
			return model.DatastreamInfo{}, status.ErrConcurrentModification
		}
		next := current
		params.Apply(&next)
		next.CreatedDate = current.CreatedDate.Add(time.Hour)
		next.VersionID = "OBJ." + next.CreatedDate.Format("15")
		content := contents[current.VersionID]
		if source != nil && source.Body != nil {
			b, _ := io.ReadAll(source.Body)
			content = string(b)
		}
		contents[next.VersionID] = content
		history = append([]model.DatastreamInfo{next}, history...)
		return next, nil
	}
	return mock
}

func persistedFixture(t *testing.T, mock *mocktransport.TransportMock) (*PersistedObject, *PersistedDatastream) {
	obj, err := New(mock).GetObject(context.Background(), "test:1")
	require.NoError(t, err)
	ds, err := obj.Datastream(context.Background(), "OBJ")
	require.NoError(t, err)
	return obj, ds.(*PersistedDatastream)
}

func TestPersistedDatastreamModify(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	mock := versionedMock()
	obj, ds := persistedFixture(t, mock)

	require.NoError(t, ds.SetLabel(ctx, "Master"))
	assert.Equal(t, "Master", ds.Label())
	require.NoError(t, ds.SetContent(ctx, []byte("second")))

	calls := mock.ModifyDatastreamCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, modified, calls[0].Expected)
	assert.Nil(t, calls[0].Source)
	assert.Equal(t, modified.Add(time.Hour), calls[1].Expected)
	assert.Equal(t, modified.Add(2*time.Hour), obj.LastModifiedDate(), "datastream changes modify the object")

	var buf bytes.Buffer
	require.NoError(t, ds.Content(ctx, &buf))
	assert.Equal(t, "second", buf.String())
}

func TestPersistedDatastreamStaleModify(t *testing.T) {
	ctx := context.Background()
	mock := versionedMock()
	_, ds := persistedFixture(t, mock)
	_, other := persistedFixture(t, mock)
	_, err := ds.Info(ctx)
	require.NoError(t, err)

	require.NoError(t, other.SetMimeType(ctx, "image/jp2"))

	err = ds.SetMimeType(ctx, "image/png")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrConcurrentModification))
	info, err := ds.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "image/tiff", info.MimeType, "a rejected change leaves the datastream untouched")

	ds.ForceUpdate(true)
	require.NoError(t, ds.SetMimeType(ctx, "image/png"))
	assert.Equal(t, "image/png", ds.MimeType())
}

func TestPersistedDatastreamHistory(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	mock := versionedMock()
	_, ds := persistedFixture(t, mock)
	require.NoError(t, ds.SetContent(ctx, []byte("second")))

	for i := 0; i < 3; i++ {
		history, err := ds.History(ctx)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, modified, history[1].Info().CreatedDate)
	}
	assert.Len(t, mock.FetchDatastreamHistoryCalls(), 1, "history is fetched once")

	var buf bytes.Buffer
	require.NoError(t, ds.ContentAt(ctx, 1, &buf))
	assert.Equal(t, "first", buf.String())
	buf.Reset()
	require.NoError(t, ds.ContentAt(ctx, 0, &buf))
	assert.Equal(t, "second", buf.String())

	err := ds.ContentAt(ctx, 2, &buf)
	assert.True(t, errors.Is(err, status.ErrNotFound))

	history, _ := ds.History(ctx)
	v, err := history[1].Get(ctx, AttrVersionID)
	require.NoError(t, err)
	assert.Equal(t, "OBJ.0", v)
	err = history[1].Set(ctx, AttrLabel, "x")
	assert.True(t, errors.Is(err, status.ErrAttributeReadOnly))

	// a change drops the history
	require.NoError(t, ds.SetLabel(ctx, "Master"))
	history, err = ds.History(ctx)
	require.NoError(t, err)
	assert.Len(t, history, 3)
	assert.Len(t, mock.FetchDatastreamHistoryCalls(), 2)
}

func TestDatastreamReadOnlyAttributes(t *testing.T) {
	ctx := context.Background()
	_, persisted := persistedFixture(t, versionedMock())
	unsaved := newDatastream(nil, "TN", model.ControlGroupManaged)

	for _, toPin := range []struct {
		name string
		ds   Datastream
	}{
		{name: "persisted", ds: persisted},
		{name: "unsaved", ds: unsaved},
	} {
		fixture := toPin
		t.Run(fixture.name, func(t *testing.T) {
			before, err := fixture.ds.Info(ctx)
			require.NoError(t, err)
			for _, name := range []string{AttrID, AttrControlGroup, AttrCreatedDate, AttrSize} {
				err := fixture.ds.Set(ctx, name, "x")
				require.Error(t, err)
				assert.True(t, errors.Is(err, status.ErrAttributeReadOnly), name)
				assert.True(t, errors.Is(fixture.ds.Clear(ctx, name), status.ErrAttributeReadOnly), name)
			}
			after, err := fixture.ds.Info(ctx)
			require.NoError(t, err)
			assert.Equal(t, before, after)

			cg, err := fixture.ds.Get(ctx, AttrControlGroup)
			require.NoError(t, err)
			assert.Equal(t, model.ControlGroupManaged, cg)
		})
	}
}

func TestNewDatastream(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		ds := newDatastream(nil, "DC", model.ControlGroupInline)
		info, err := ds.Info(ctx)
		require.NoError(t, err)
		assert.Equal(t, "text/xml", info.MimeType)
		assert.Equal(t, model.StateActive, info.State)
		assert.True(t, info.Versionable)
		assert.False(t, ds.IsPersisted())
	})

	t.Run("attributes", func(t *testing.T) {
		ds := newDatastream(nil, "OBJ", "")
		require.NoError(t, ds.Set(ctx, AttrLabel, "Original"))
		require.NoError(t, ds.Set(ctx, AttrState, model.StateInactive))
		require.NoError(t, ds.Set(ctx, AttrVersionable, false))
		require.NoError(t, ds.Set(ctx, AttrContent, "abc"))
		assert.True(t, errors.Is(ds.Set(ctx, AttrVersionable, "no"), status.ErrInvalidAttributeValue))

		info, err := ds.Info(ctx)
		require.NoError(t, err)
		assert.Equal(t, model.ControlGroupManaged, info.ControlGroup)
		assert.Equal(t, "Original", info.Label)
		assert.Equal(t, model.StateInactive, info.State)
		assert.False(t, info.Versionable)
		assert.EqualValues(t, 3, info.Size)

		content, err := ds.Get(ctx, AttrContent)
		require.NoError(t, err)
		assert.Equal(t, []byte("abc"), content)
	})

	t.Run("reference content", func(t *testing.T) {
		ds := newDatastream(nil, "LINK", model.ControlGroupExternal)
		err := ds.SetContent(ctx, []byte("abc"))
		assert.True(t, errors.Is(err, status.ErrInvalidAttributeValue))
		require.NoError(t, ds.SetLocation(ctx, "http://example.com/a"))

		var buf bytes.Buffer
		err = ds.Content(ctx, &buf)
		assert.True(t, errors.Is(err, status.ErrNotSupported))
		location, err := ds.Get(ctx, AttrLocation)
		require.NoError(t, err)
		assert.Equal(t, "http://example.com/a", location)
	})

	t.Run("files", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		require.NoError(t, afero.WriteFile(fs, "/in/page.txt", []byte("page one"), 0o644))

		ds := newDatastream(nil, "OCR", model.ControlGroupManaged)
		require.NoError(t, ds.SetContentFromFile(ctx, fs, "/in/page.txt"))
		require.NoError(t, ds.ContentFile(ctx, fs, "/out.txt"))
		b, err := afero.ReadFile(fs, "/out.txt")
		require.NoError(t, err)
		assert.Equal(t, "page one", string(b))

		assert.Error(t, ds.SetContentFromFile(ctx, fs, "/in/missing.txt"))
	})
}

func TestPersistedDatastreamReference(t *testing.T) {
	ctx := context.Background()
	mock := listingMock()
	mock.FetchDatastreamInfoFunc = func(_ context.Context, _ string, dsID string) (model.DatastreamInfo, error) {
		return model.DatastreamInfo{ID: dsID, ControlGroup: model.ControlGroupRedirect, Location: "http://example.com/a", CreatedDate: created}, nil
	}
	_, ds := persistedFixture(t, mock)

	var buf bytes.Buffer
	err := ds.Content(ctx, &buf)
	assert.True(t, errors.Is(err, status.ErrNotSupported))
	assert.Empty(t, mock.FetchDatastreamContentCalls())

	err = ds.SetContent(ctx, []byte("abc"))
	assert.True(t, errors.Is(err, status.ErrInvalidAttributeValue))
	assert.Empty(t, mock.ModifyDatastreamCalls())
}
