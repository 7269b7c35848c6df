package repository

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/jonathangreen/tuque-sub001/pkg/errors"
	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"github.com/jonathangreen/tuque-sub001/pkg/storage/localfs"
	"github.com/jonathangreen/tuque-sub001/pkg/transport"
	"github.com/jonathangreen/tuque-sub001/pkg/transport/embedded"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func embeddedTransport() transport.Transport {
	now := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	return embedded.New(localfs.New(afero.NewMemMapFs()),
		embedded.WithNamespace("test"),
		embedded.WithClock(func() time.Time { return now }))
}

func ingestFixture(t *testing.T, repo *Repository) *PersistedObject {
	ctx := context.Background()
	obj, err := repo.ConstructObject(ctx, "")
	require.NoError(t, err)
	require.NoError(t, obj.SetLabel(ctx, "a book"))
	require.NoError(t, obj.SetModels(ctx, []string{"islandora:bookCModel"}))

	dc := obj.ConstructDatastream(model.DCDatastream, model.ControlGroupInline)
	require.NoError(t, dc.SetContent(ctx, []byte("<oai_dc:dc/>")))
	ocr := obj.ConstructDatastream("OCR", model.ControlGroupManaged)
	require.NoError(t, ocr.SetMimeType(ctx, "text/plain"))
	require.NoError(t, ocr.SetContent(ctx, []byte("first")))
	for _, ds := range []Datastream{dc, ocr} {
		ok, err := obj.IngestDatastream(ctx, ds)
		require.NoError(t, err)
		require.True(t, ok)
	}

	persisted, err := repo.IngestObject(ctx, obj)
	require.NoError(t, err)
	return persisted
}

func TestEmbeddedLifecycle(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	repo := New(embeddedTransport())
	obj := ingestFixture(t, repo)

	assert.Equal(t, "test:1", obj.ID())
	assert.Equal(t, "a book", obj.Label())
	models, err := obj.Models(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"islandora:bookCModel"}, models)
	assert.Equal(t, []string{"islandora:bookCModel"}, obj.Profile().Models)

	all, err := obj.Datastreams(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, ds := range all {
		ids = append(ids, ds.ID())
	}
	assert.ElementsMatch(t, []string{model.RelsExtDatastream, model.DCDatastream, "OCR"}, ids)

	fetched, err := repo.GetObject(ctx, obj.ID())
	require.NoError(t, err)
	assert.Same(t, obj, fetched)

	ds, err := obj.Datastream(ctx, "OCR")
	require.NoError(t, err)
	require.NoError(t, ds.SetContent(ctx, []byte("second")))
	history, err := ds.(*PersistedDatastream).History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 2)
	var buf bytes.Buffer
	require.NoError(t, history[1].Content(ctx, &buf))
	assert.Equal(t, "first", buf.String())
	buf.Reset()
	require.NoError(t, ds.Content(ctx, &buf))
	assert.Equal(t, "second", buf.String())

	// object changes after datastream changes are accepted
	require.NoError(t, obj.SetLabel(ctx, "a better book"))
	require.NoError(t, obj.Delete(ctx))

	ok, err := obj.PurgeDatastream(ctx, "OCR")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, obj.SetState(ctx, model.StateActive))

	ok, err = repo.PurgeObject(ctx, obj.ID())
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = repo.GetObject(ctx, obj.ID())
	assert.True(t, errors.Is(err, status.ErrNotFound))
}

func TestEmbeddedConcurrentClients(t *testing.T) {
	ctx := context.Background()
	tpt := embeddedTransport()
	first := New(tpt)
	obj := ingestFixture(t, first)

	// a second client has its own cache, hence its own instance
	second := New(tpt)
	other, err := second.GetObject(ctx, obj.ID())
	require.NoError(t, err)
	require.NoError(t, other.SetLabel(ctx, "changed elsewhere"))

	err = obj.SetLabel(ctx, "changed here")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrConcurrentModification))
	assert.Equal(t, "a book", obj.Label())

	require.NoError(t, obj.Reload(ctx))
	assert.Equal(t, "changed elsewhere", obj.Label())
	require.NoError(t, obj.SetLabel(ctx, "changed here"))

	ds, err := obj.Datastream(ctx, "OCR")
	require.NoError(t, err)
	_, err = ds.Info(ctx)
	require.NoError(t, err)
	otherDS, err := other.Datastream(ctx, "OCR")
	require.NoError(t, err)
	require.NoError(t, otherDS.SetLabel(ctx, "text"))

	err = ds.SetLabel(ctx, "recognized text")
	assert.True(t, errors.Is(err, status.ErrConcurrentModification))
}

func TestEmbeddedRelationships(t *testing.T) {
	ctx := context.Background()
	repo := New(embeddedTransport())
	obj := ingestFixture(t, repo)

	rels := obj.Relationships()
	require.NoError(t, rels.Add(ctx, model.RelsExtNamespace, model.PredicateIsMemberOfCollection, "islandora:root"))
	parents, err := rels.Parents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"islandora:root"}, parents)

	ds, err := obj.Datastream(ctx, "OCR")
	require.NoError(t, err)
	require.NoError(t, ds.Relationships().Add(ctx, model.IslandoraRelsIntNamespace, "isPageOf", "test:book"))
	has, err := obj.HasDatastream(ctx, model.RelsIntDatastream)
	require.NoError(t, err)
	assert.True(t, has)

	// a fresh client reads what was stored
	fresh, err := New(repo.Transport()).GetObject(ctx, obj.ID())
	require.NoError(t, err)
	parents, err = fresh.Relationships().Parents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"islandora:root"}, parents)
	freshDS, err := fresh.Datastream(ctx, "OCR")
	require.NoError(t, err)
	triples, err := freshDS.Relationships().Get(ctx, model.IslandoraRelsIntNamespace, "isPageOf")
	require.NoError(t, err)
	require.Len(t, triples, 1)
	assert.Equal(t, "info:fedora/test:book", triples[0].Value)

	removed, err := fresh.Relationships().Remove(ctx, "", "", "")
	assert.True(t, errors.Is(err, status.ErrUnconstrainedRemove))
	assert.Zero(t, removed)
}
