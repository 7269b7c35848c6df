package repository

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/rels"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"go.uber.org/zap"
)

var persistedObjectAttributes = objectTable[*PersistedObject]("object")

// PersistedObject is an object stored in the repository.
//
// Changes are written through immediately. Unless ForceUpdate is enabled, every change carries
// the last modification date known locally, and fails with status.ErrConcurrentModification
// if the object was modified since. A failed change leaves the local state untouched.
type PersistedObject struct {
	mu            sync.Mutex
	repo          *Repository
	profile       model.ObjectProfile
	force         atomic.Bool
	index         []*PersistedDatastream
	indexLoaded   bool
	relationships *rels.Relationships
	fields        map[string]interface{}
	l             *zap.Logger
}

func newPersistedObject(r *Repository, profile model.ObjectProfile) *PersistedObject {
	return &PersistedObject{
		repo:    r,
		profile: profile,
		fields:  make(map[string]interface{}),
		l:       r.l.With(zap.String("pid", profile.PID)),
	}
}

// Fields holds attributes without a dedicated handler
func (o *PersistedObject) Fields() map[string]interface{} { return o.fields }

// ID of the object
func (o *PersistedObject) ID() string { return o.profile.PID }

// IsPersisted is true
func (o *PersistedObject) IsPersisted() bool { return true }

// Profile yields a copy of the object metadata
func (o *PersistedObject) Profile() model.ObjectProfile {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.profile
}

// Label of the object
func (o *PersistedObject) Label() string { return o.Profile().Label }

// OwnerID of the object
func (o *PersistedObject) OwnerID() string { return o.Profile().OwnerID }

// State of the object
func (o *PersistedObject) State() model.State { return o.Profile().State }

// CreatedDate of the object
func (o *PersistedObject) CreatedDate() time.Time { return o.Profile().CreatedDate }

// LastModifiedDate of the object, as last known locally
func (o *PersistedObject) LastModifiedDate() time.Time { return o.Profile().LastModifiedDate }

// ForceUpdate disables the concurrent modification check on changes
func (o *PersistedObject) ForceUpdate(enabled bool) {
	o.force.Store(enabled)
}

// expected yields the date a change is checked against, zero when forced
func (o *PersistedObject) expected() time.Time {
	if o.force.Load() {
		return time.Time{}
	}
	return o.profile.LastModifiedDate
}

// touched records a modification date reported by the repository
func (o *PersistedObject) touched(ts time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if ts.After(o.profile.LastModifiedDate) {
		o.profile.LastModifiedDate = ts
	}
}

func (o *PersistedObject) mutate(ctx context.Context, fields model.ObjectFields, apply func(*model.ObjectProfile)) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	ts, err := o.repo.transport.MutateObject(ctx, o.profile.PID, fields, o.expected())
	if err != nil {
		o.l.Debug("object change rejected", zap.Error(err))
		return err
	}
	apply(&o.profile)
	o.profile.LastModifiedDate = ts
	return nil
}

// SetLabel changes the label
func (o *PersistedObject) SetLabel(ctx context.Context, label string) error {
	return o.mutate(ctx, model.ObjectFields{Label: &label}, func(p *model.ObjectProfile) {
		p.Label = label
	})
}

// SetOwnerID changes the owner
func (o *PersistedObject) SetOwnerID(ctx context.Context, owner string) error {
	return o.mutate(ctx, model.ObjectFields{OwnerID: &owner}, func(p *model.ObjectProfile) {
		p.OwnerID = owner
	})
}

// SetState changes the state
func (o *PersistedObject) SetState(ctx context.Context, state model.State) error {
	if !state.Valid() {
		return status.ErrInvalidAttributeValue.WrapMessage(fmt.Sprintf("invalid state %q", state))
	}
	return o.mutate(ctx, model.ObjectFields{State: &state}, func(p *model.ObjectProfile) {
		p.State = state
	})
}

// SetLogMessage records a log message in the object audit trail
func (o *PersistedObject) SetLogMessage(ctx context.Context, msg string) error {
	return o.mutate(ctx, model.ObjectFields{LogMessage: msg}, func(*model.ObjectProfile) {})
}

// Delete flags the object as deleted. Use Repository.PurgeObject to remove it.
func (o *PersistedObject) Delete(ctx context.Context) error {
	return o.SetState(ctx, model.StateDeleted)
}

// Reload fetches the object metadata again
func (o *PersistedObject) Reload(ctx context.Context) error {
	profile, err := o.repo.transport.FetchProfile(ctx, o.ID())
	if err != nil {
		return err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.profile = profile
	return nil
}

// Refresh drops the datastream index and the relationships, which are fetched again on next use
//
// The relationships lock is taken after releasing the object lock: relationship changes reach the
// datastream index while holding it.
func (o *PersistedObject) Refresh() {
	o.mu.Lock()
	o.index = nil
	o.indexLoaded = false
	rel := o.relationships
	o.mu.Unlock()

	if rel != nil {
		rel.Refresh()
	}
}

// Relationships of the object, stored in its RELS-EXT datastream
func (o *PersistedObject) Relationships() *rels.Relationships {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.relationships == nil {
		o.relationships = rels.New(model.IdentifierToURI(o.profile.PID), relsBackend{obj: o, dsID: model.RelsExtDatastream}, rels.WithLogger(o.l))
	}
	return o.relationships
}

// Models yields the content models of the object
func (o *PersistedObject) Models(ctx context.Context) ([]string, error) {
	return o.Relationships().Models(ctx)
}

// SetModels replaces the content models of the object
func (o *PersistedObject) SetModels(ctx context.Context, models []string) error {
	return o.Relationships().SetModels(ctx, models)
}

// Get an attribute
func (o *PersistedObject) Get(ctx context.Context, name string) (interface{}, error) {
	return persistedObjectAttributes.Get(ctx, o, name)
}

// Set an attribute
func (o *PersistedObject) Set(ctx context.Context, name string, value interface{}) error {
	return persistedObjectAttributes.Set(ctx, o, name, value)
}

// Has tells if an attribute is set
func (o *PersistedObject) Has(ctx context.Context, name string) bool {
	return persistedObjectAttributes.Has(ctx, o, name)
}

// Clear an attribute
func (o *PersistedObject) Clear(ctx context.Context, name string) error {
	return persistedObjectAttributes.Clear(ctx, o, name)
}

// loadIndex lists the datastreams of the object once
func (o *PersistedObject) loadIndex(ctx context.Context) error {
	if o.indexLoaded {
		return nil
	}
	entries, err := o.repo.transport.ListDatastreams(ctx, o.profile.PID)
	if err != nil {
		return err
	}
	o.index = make([]*PersistedDatastream, 0, len(entries))
	for _, entry := range entries {
		o.index = append(o.index, newPersistedDatastream(o, entry))
	}
	o.indexLoaded = true
	o.l.Debug("datastream index loaded", zap.Int("datastreams", len(o.index)))
	return nil
}

func (o *PersistedObject) lookup(id string) (*PersistedDatastream, int) {
	for i, ds := range o.index {
		if ds.ID() == id {
			return ds, i
		}
	}
	return nil, -1
}

// ConstructDatastream builds an unsaved datastream for this object
func (o *PersistedObject) ConstructDatastream(id string, controlGroup model.ControlGroup) *NewDatastream {
	return newDatastream(o, id, controlGroup)
}

// IngestDatastream adds a datastream to the repository, then to the local index.
//
// A datastream buffered by an unsaved object is removed from its buffer. A datastream of another
// persisted object is copied.
func (o *PersistedObject) IngestDatastream(ctx context.Context, ds Datastream) (bool, error) {
	if ds == nil {
		return false, status.ErrInvalidAttributeValue.WrapMessage("nil datastream")
	}
	if has, err := o.HasDatastream(ctx, ds.ID()); err != nil || has {
		return false, err
	}

	source, params, err := datastreamSource(ctx, ds)
	if err != nil {
		return false, err
	}

	o.mu.Lock()
	if existing, _ := o.lookup(ds.ID()); existing != nil {
		o.mu.Unlock()
		return false, nil
	}
	info, err := o.repo.transport.AddDatastream(ctx, o.profile.PID, ds.ID(), source, params)
	if err != nil {
		o.mu.Unlock()
		return false, err
	}
	added := newPersistedDatastream(o, info.Entry())
	added.setInfo(info)
	o.index = append(o.index, added)
	if info.CreatedDate.After(o.profile.LastModifiedDate) {
		o.profile.LastModifiedDate = info.CreatedDate
	}
	o.mu.Unlock()

	if d, ok := ds.(*NewDatastream); ok {
		if owner := d.bufferedBy(); owner != nil {
			owner.detach(d)
		}
	}
	o.l.Debug("datastream added", zap.String("dsid", info.ID), zap.String("version", info.VersionID))
	return true, nil
}

// datastreamSource describes the content and properties of a datastream for AddDatastream
func datastreamSource(ctx context.Context, ds Datastream) (model.ContentSource, model.DatastreamParams, error) {
	info, err := ds.Info(ctx)
	if err != nil {
		return model.ContentSource{}, model.DatastreamParams{}, err
	}
	params := info.Params()
	if info.Checksum != "" && !ds.IsPersisted() {
		checksum := info.Checksum
		params.Checksum = &checksum
	}

	if info.ControlGroup.IsReference() {
		return model.ContentSource{Location: info.Location}, params, nil
	}
	if d, ok := ds.(*NewDatastream); ok {
		if content, has := d.localContent(); has {
			return model.ContentSource{Body: bytes.NewReader(content)}, params, nil
		}
		return model.ContentSource{Location: info.Location}, params, nil
	}
	var buf bytes.Buffer
	if err := ds.Content(ctx, &buf); err != nil {
		return model.ContentSource{}, model.DatastreamParams{}, err
	}
	return model.ContentSource{Body: &buf}, params, nil
}

// Datastream yields a datastream of the object
func (o *PersistedObject) Datastream(ctx context.Context, id string) (Datastream, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.loadIndex(ctx); err != nil {
		return nil, err
	}
	ds, _ := o.lookup(id)
	if ds == nil {
		return nil, status.ErrNotFound.WrapMessage(fmt.Sprintf("datastream %s of %s", id, o.profile.PID))
	}
	return ds, nil
}

// Datastreams yields the datastreams of the object, in repository order
func (o *PersistedObject) Datastreams(ctx context.Context) ([]Datastream, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.loadIndex(ctx); err != nil {
		return nil, err
	}
	res := make([]Datastream, 0, len(o.index))
	for _, ds := range o.index {
		res = append(res, ds)
	}
	return res, nil
}

// HasDatastream tells if the object has a datastream
func (o *PersistedObject) HasDatastream(ctx context.Context, id string) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.loadIndex(ctx); err != nil {
		return false, err
	}
	ds, _ := o.lookup(id)
	return ds != nil, nil
}

// CountDatastreams yields the number of datastreams of the object
func (o *PersistedObject) CountDatastreams(ctx context.Context) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.loadIndex(ctx); err != nil {
		return 0, err
	}
	return len(o.index), nil
}

// PurgeDatastream removes a datastream from the repository, then from the local index
func (o *PersistedObject) PurgeDatastream(ctx context.Context, id string) (bool, error) {
	o.mu.Lock()
	if err := o.loadIndex(ctx); err != nil {
		o.mu.Unlock()
		return false, err
	}
	if ds, _ := o.lookup(id); ds == nil {
		o.mu.Unlock()
		return false, nil
	}
	ok, err := o.repo.transport.PurgeDatastream(ctx, o.profile.PID, id)
	if err != nil {
		o.mu.Unlock()
		return false, err
	}
	if _, i := o.lookup(id); i >= 0 {
		o.index = append(o.index[:i], o.index[i+1:]...)
	}
	o.mu.Unlock()

	if id == model.RelsExtDatastream {
		o.Relationships().Refresh()
	}
	// purging a datastream modifies the object
	profile, err := o.repo.transport.FetchProfile(ctx, o.ID())
	if err != nil {
		return ok, err
	}
	o.touched(profile.LastModifiedDate)
	o.l.Debug("datastream purged", zap.String("dsid", id))
	return ok, nil
}
