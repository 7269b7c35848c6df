package repository

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jonathangreen/tuque-sub001/pkg/cache"
	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/query"
	"github.com/jonathangreen/tuque-sub001/pkg/transport"
	"github.com/jonathangreen/tuque-sub001/pkg/uuid"
	"go.uber.org/zap"
)

// Repository builds, retrieves and stores objects through a transport.
//
// Persisted objects are cached by identifier: the same instance is shared by all callers.
type Repository struct {
	transport transport.Transport
	cache     *cache.Cache[*PersistedObject]
	cacheOpts []cache.Option
	queries   *query.Executor
	namespace string
	uuids     *uuid.Generator
	l         *zap.Logger
}

// New repository using a transport
func New(t transport.Transport, opts ...Option) *Repository {
	r := &Repository{
		transport: t,
		l:         zap.NewNop(),
	}
	for _, apply := range opts {
		apply(r)
	}
	r.cache = cache.New[*PersistedObject](r.cacheOpts...)
	r.queries = query.NewExecutor(t, query.WithLogger(r.l))
	return r
}

// Transport yields the transport used by the repository
func (r *Repository) Transport() transport.Transport {
	return r.transport
}

// Cache yields the object cache
func (r *Repository) Cache() *cache.Cache[*PersistedObject] {
	return r.cache
}

// ConstructObject builds an unsaved object.
//
// An empty identifier is minted, locally when UUIDIdentifiers is enabled,
// or by the repository otherwise.
func (r *Repository) ConstructObject(ctx context.Context, pid string) (*NewObject, error) {
	if pid == "" {
		ids, err := r.NextIdentifiers(ctx, r.namespace, 1)
		if err != nil {
			return nil, err
		}
		pid = ids[0]
	}
	if err := model.ValidateIdentifier(pid); err != nil {
		return nil, err
	}
	return newObject(r, pid), nil
}

// NextIdentifiers mints identifiers in a namespace. An empty namespace uses the repository default.
func (r *Repository) NextIdentifiers(ctx context.Context, namespace string, count int) ([]string, error) {
	if r.uuids == nil {
		return r.transport.NextIdentifier(ctx, namespace, count)
	}
	if namespace == "" {
		namespace = r.namespace
	}
	if err := model.ValidateNamespace(namespace); err != nil {
		return nil, err
	}
	if count < 1 {
		count = 1
	}
	ids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		u, err := r.uuids.New()
		if err != nil {
			return nil, err
		}
		ids = append(ids, namespace+":"+u)
	}
	return ids, nil
}

// IngestObject stores an unsaved object and yields its persisted counterpart.
//
// Managed datastreams with local content are uploaded first, then the object document is submitted.
// The persisted object is cached.
func (r *Repository) IngestObject(ctx context.Context, obj *NewObject) (*PersistedObject, error) {
	obj.mu.Lock()
	defer obj.mu.Unlock()

	lg := r.l.With(zap.String("pid", obj.id))
	doc := model.ObjectDocument{
		PID:         obj.id,
		Label:       obj.label,
		OwnerID:     obj.ownerID,
		State:       obj.state,
		Datastreams: make([]model.DocumentDatastream, 0, len(obj.datastreams)),
	}
	for _, ds := range obj.datastreams {
		entry, err := r.documentDatastream(ctx, ds)
		if err != nil {
			return nil, err
		}
		doc.Datastreams = append(doc.Datastreams, entry)
	}

	pid, err := r.transport.IngestDocument(ctx, doc, obj.logMessage)
	if err != nil {
		lg.Debug("ingest failed", zap.Error(err))
		return nil, err
	}
	persisted, err := r.fetchObject(ctx, pid)
	if err != nil {
		return nil, err
	}
	r.cache.Set(pid, persisted)
	lg.Info("object ingested", zap.Int("datastreams", len(doc.Datastreams)))
	return persisted, nil
}

// documentDatastream describes a buffered datastream for ingest, uploading local managed content
func (r *Repository) documentDatastream(ctx context.Context, ds *NewDatastream) (model.DocumentDatastream, error) {
	ds.mu.Lock()
	defer ds.mu.Unlock()

	entry := model.DocumentDatastream{Info: ds.info, Location: ds.location}
	if !ds.hasContent {
		return entry, nil
	}
	switch ds.info.ControlGroup {
	case model.ControlGroupInline:
		entry.Content = append([]byte{}, ds.content...)
	case model.ControlGroupManaged:
		ref, err := r.transport.Upload(ctx, bytes.NewReader(ds.content))
		if err != nil {
			return model.DocumentDatastream{}, fmt.Errorf("uploading content of datastream %s: %w", ds.info.ID, err)
		}
		r.l.Debug("content uploaded", zap.String("dsid", ds.info.ID), zap.String("reference", ref))
		entry.Location = ref
	}
	return entry, nil
}

// GetObject yields a persisted object, from the cache or else from the repository.
//
// It fails with status.ErrNotFound when the object does not exist.
func (r *Repository) GetObject(ctx context.Context, pid string) (*PersistedObject, error) {
	if obj, ok := r.cache.Get(pid); ok {
		return obj, nil
	}
	obj, err := r.fetchObject(ctx, pid)
	if err != nil {
		return nil, err
	}
	if !r.cache.Add(pid, obj) {
		// another caller won the race: share its instance
		if cached, ok := r.cache.Get(pid); ok {
			return cached, nil
		}
	}
	return obj, nil
}

func (r *Repository) fetchObject(ctx context.Context, pid string) (*PersistedObject, error) {
	profile, err := r.transport.FetchProfile(ctx, pid)
	if err != nil {
		return nil, err
	}
	return newPersistedObject(r, profile), nil
}

// PurgeObject physically removes an object from the repository and from the cache
func (r *Repository) PurgeObject(ctx context.Context, pid string) (bool, error) {
	ok, err := r.transport.PurgeObject(ctx, pid)
	if err != nil {
		return false, err
	}
	r.cache.Delete(pid)
	if ok {
		r.l.Info("object purged", zap.String("pid", pid))
	}
	return ok, nil
}

// Query runs a graph query and yields the result rows
func (r *Repository) Query(ctx context.Context, text, language string, limit int) ([]model.Binding, error) {
	return r.queries.Query(ctx, text, language, limit)
}

// StreamQuery runs a graph query and calls fn for each result row
func (r *Repository) StreamQuery(ctx context.Context, text, language string, limit int, fn func(model.Binding) error) error {
	return r.queries.Stream(ctx, text, language, limit, fn)
}

// CountQuery yields the number of rows a graph query would return
func (r *Repository) CountQuery(ctx context.Context, text, language string) (int, error) {
	return r.queries.Count(ctx, text, language)
}
