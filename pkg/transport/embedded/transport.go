package embedded

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jonathangreen/tuque-sub001/pkg/errors"
	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"github.com/jonathangreen/tuque-sub001/pkg/storage"
	"github.com/jonathangreen/tuque-sub001/pkg/transport"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// DefaultNamespace is used to mint identifiers when none is specified
const DefaultNamespace = "changeme"

var _ transport.Transport = &Transport{}

// Option for the embedded transport
type Option func(*Transport)

// WithLogger sets a logger
func WithLogger(l *zap.Logger) Option {
	return func(t *Transport) {
		if l != nil {
			t.l = l
		}
	}
}

// WithNamespace sets the default namespace of minted identifiers
func WithNamespace(ns string) Option {
	return func(t *Transport) {
		if ns != "" {
			t.namespace = ns
		}
	}
}

// WithClock sets the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(t *Transport) {
		if now != nil {
			t.now = now
		}
	}
}

// Transport stores objects in a storage.Store.
//
// Writes are serialized by a mutex: a Transport must be the only writer of its store.
type Transport struct {
	mu        sync.Mutex
	store     storage.Store
	namespace string
	now       func() time.Time
	l         *zap.Logger
}

// New embedded transport over a store
func New(store storage.Store, opts ...Option) *Transport {
	t := &Transport{
		store:     store,
		namespace: DefaultNamespace,
		now:       time.Now,
		l:         zap.NewNop(),
	}
	for _, apply := range opts {
		apply(t)
	}
	t.l = t.l.With(zap.String("store", store.String()))
	return t
}

// objectRecord is persisted at model.GetPathToObject
type objectRecord struct {
	Profile     model.ObjectProfile `yaml:"profile"`
	Datastreams []string            `yaml:"datastreams,omitempty"`
}

func (r *objectRecord) hasDatastream(dsID string) bool {
	for _, id := range r.Datastreams {
		if id == dsID {
			return true
		}
	}
	return false
}

// versionsRecord is persisted at model.GetPathToDatastreamVersions, newest version first
type versionsRecord struct {
	Versions []model.DatastreamInfo `yaml:"versions"`
	Serial   int                    `yaml:"serial"`
}

// counterRecord is persisted at model.GetPathToIdentifierCounter
type counterRecord struct {
	Namespace string `yaml:"namespace"`
	Last      int    `yaml:"last"`
}

func (t *Transport) getRecord(ctx context.Context, key string, target interface{}) error {
	buffer, err := storage.ReadAll(ctx, t.store, key)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(buffer, target); err != nil {
		return fmt.Errorf("decoding record %s: %w", key, err)
	}
	return nil
}

func (t *Transport) putRecord(ctx context.Context, key string, record interface{}) error {
	buffer, err := yaml.Marshal(record)
	if err != nil {
		return err
	}
	return t.store.Put(ctx, key, bytes.NewReader(buffer), storage.OverWrite)
}

func (t *Transport) getObject(ctx context.Context, pid string) (*objectRecord, error) {
	if err := model.ValidateIdentifier(pid); err != nil {
		return nil, err
	}
	var rec objectRecord
	if err := t.getRecord(ctx, model.GetPathToObject(pid), &rec); err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return nil, status.ErrNotFound.WrapMessage(fmt.Sprintf("object %s", pid))
		}
		return nil, err
	}
	return &rec, nil
}

func (t *Transport) getVersions(ctx context.Context, pid, dsID string) (*versionsRecord, error) {
	var rec versionsRecord
	if err := t.getRecord(ctx, model.GetPathToDatastreamVersions(pid, dsID), &rec); err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return nil, status.ErrNotFound.WrapMessage(fmt.Sprintf("datastream %s of %s", dsID, pid))
		}
		return nil, err
	}
	if len(rec.Versions) == 0 {
		return nil, status.ErrNotFound.WrapMessage(fmt.Sprintf("datastream %s of %s has no version", dsID, pid))
	}
	return &rec, nil
}

// touch yields a timestamp strictly later than the last modification of the object
func (t *Transport) touch(profile *model.ObjectProfile) time.Time {
	ts := t.now().UTC()
	if !ts.After(profile.LastModifiedDate) {
		ts = profile.LastModifiedDate.Add(time.Millisecond)
	}
	profile.LastModifiedDate = ts
	return ts
}

func checkExpected(what string, expected, actual time.Time) error {
	if expected.IsZero() || expected.Equal(actual) {
		return nil
	}
	return status.ErrConcurrentModification.WrapMessage(
		fmt.Sprintf("%s was modified at %s, after %s", what, actual.Format(time.RFC3339Nano), expected.Format(time.RFC3339Nano)))
}

// FetchProfile yields the profile of an object. Content models are read from RELS-EXT.
func (t *Transport) FetchProfile(ctx context.Context, pid string) (model.ObjectProfile, error) {
	rec, err := t.getObject(ctx, pid)
	if err != nil {
		return model.ObjectProfile{}, err
	}
	profile := rec.Profile
	if rec.hasDatastream(model.RelsExtDatastream) {
		models, err := t.models(ctx, pid)
		if err != nil {
			return model.ObjectProfile{}, err
		}
		profile.Models = models
	}
	return profile, nil
}

// MutateObject changes the label, owner or state of an object
func (t *Transport) MutateObject(ctx context.Context, pid string, fields model.ObjectFields, expected time.Time) (time.Time, error) {
	if fields.State != nil && !fields.State.Valid() {
		return time.Time{}, status.ErrInvalidAttributeValue.WrapMessage(fmt.Sprintf("invalid state %q", *fields.State))
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	rec, err := t.getObject(ctx, pid)
	if err != nil {
		return time.Time{}, err
	}
	if err := checkExpected("object "+pid, expected, rec.Profile.LastModifiedDate); err != nil {
		return time.Time{}, err
	}
	if fields.Label != nil {
		rec.Profile.Label = *fields.Label
	}
	if fields.OwnerID != nil {
		rec.Profile.OwnerID = *fields.OwnerID
	}
	if fields.State != nil {
		rec.Profile.State = *fields.State
	}
	ts := t.touch(&rec.Profile)
	if err := t.putRecord(ctx, model.GetPathToObject(pid), rec); err != nil {
		return time.Time{}, err
	}
	t.l.Debug("object modified", zap.String("pid", pid), zap.String("log", fields.LogMessage))
	return ts, nil
}

// IngestDocument creates an object with its datastreams. An empty identifier gets a minted one.
func (t *Transport) IngestDocument(ctx context.Context, doc model.ObjectDocument, logMessage string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	pid := doc.PID
	if pid == "" {
		ids, err := t.nextIdentifiers(ctx, t.namespace, 1)
		if err != nil {
			return "", err
		}
		pid = ids[0]
	}
	if err := model.ValidateIdentifier(pid); err != nil {
		return "", err
	}
	exists, err := t.store.Has(ctx, model.GetPathToObject(pid))
	if err != nil {
		return "", err
	}
	if exists {
		return "", status.ErrExists.WrapMessage(fmt.Sprintf("object %s", pid))
	}

	state := doc.State
	if state == "" {
		state = model.StateActive
	}
	if !state.Valid() {
		return "", status.ErrInvalidAttributeValue.WrapMessage(fmt.Sprintf("invalid state %q", state))
	}
	now := t.now().UTC()
	rec := &objectRecord{
		Profile: model.ObjectProfile{
			PID:              pid,
			Label:            doc.Label,
			OwnerID:          doc.OwnerID,
			State:            state,
			CreatedDate:      now,
			LastModifiedDate: now,
		},
	}

	for _, ds := range doc.Datastreams {
		if rec.hasDatastream(ds.Info.ID) {
			return "", status.ErrDuplicateDatastream.WrapMessage(ds.Info.ID)
		}
		source := model.ContentSource{Location: ds.Location}
		if ds.Content != nil {
			source = model.ContentSource{Body: bytes.NewReader(ds.Content)}
		}
		params := ds.Info.Params()
		if ds.Info.Checksum != "" {
			checksum := ds.Info.Checksum
			params.Checksum = &checksum
		}
		if _, err := t.createDatastream(ctx, rec, ds.Info.ID, source, params, now); err != nil {
			_ = t.purgeKeys(ctx, model.GetPathPrefixToObject(pid))
			return "", err
		}
	}

	if err := t.putRecord(ctx, model.GetPathToObject(pid), rec); err != nil {
		return "", err
	}
	t.l.Info("object ingested", zap.String("pid", pid), zap.Int("datastreams", len(rec.Datastreams)), zap.String("log", logMessage))
	return pid, nil
}

// PurgeObject removes an object and all its datastreams. It yields false when the object does not exist.
func (t *Transport) PurgeObject(ctx context.Context, pid string) (bool, error) {
	if err := model.ValidateIdentifier(pid); err != nil {
		return false, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	exists, err := t.store.Has(ctx, model.GetPathToObject(pid))
	if err != nil || !exists {
		return false, err
	}
	if err := t.purgeKeys(ctx, model.GetPathPrefixToObject(pid)); err != nil {
		return false, err
	}
	t.l.Info("object purged", zap.String("pid", pid))
	return true, nil
}

func (t *Transport) purgeKeys(ctx context.Context, prefix string) error {
	keys, err := t.store.KeysPrefix(ctx, prefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := t.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// RunGraphQuery is not supported: there is no relationship index
func (t *Transport) RunGraphQuery(_ context.Context, _, language string, _ int, _ string) (io.ReadCloser, error) {
	return nil, status.ErrNotSupported.WrapMessage(fmt.Sprintf("%s queries require a relationship index", language))
}
