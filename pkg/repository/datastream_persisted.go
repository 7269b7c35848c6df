package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonathangreen/tuque-sub001/pkg/attr"
	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/rels"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var persistedDatastreamAttributes = datastreamTable[*PersistedDatastream]("datastream").
	OnGet(AttrLabel, func(_ context.Context, d *PersistedDatastream) (interface{}, error) { return d.Label(), nil }).
	OnHas(AttrLabel, func(_ context.Context, d *PersistedDatastream) bool { return d.Label() != "" }).
	OnGet(AttrMimeType, func(_ context.Context, d *PersistedDatastream) (interface{}, error) { return d.MimeType(), nil }).
	OnHas(AttrMimeType, func(_ context.Context, d *PersistedDatastream) bool { return d.MimeType() != "" })

// PersistedDatastream is a datastream of a persisted object.
//
// The listing provides the id, label and mimetype. Other properties are fetched on first access,
// the version history on first use. Changes are written through with the created date of the
// current version, unless ForceUpdate is enabled on the datastream or its object.
type PersistedDatastream struct {
	mu            sync.Mutex
	fields        map[string]interface{}
	parent        *PersistedObject
	entry         model.DatastreamEntry
	info          model.DatastreamInfo
	infoLoaded    bool
	history       []*DatastreamVersion
	historyLoaded bool
	force         atomic.Bool
	relationships *rels.Relationships
}

func newPersistedDatastream(parent *PersistedObject, entry model.DatastreamEntry) *PersistedDatastream {
	return &PersistedDatastream{
		fields: make(map[string]interface{}),
		parent: parent,
		entry:  entry,
	}
}

// setInfo records properties returned by the repository
func (d *PersistedDatastream) setInfo(info model.DatastreamInfo) {
	d.info = info
	d.entry = info.Entry()
	d.infoLoaded = true
	d.history = nil
	d.historyLoaded = false
}

// Fields holds attributes without a dedicated handler
func (d *PersistedDatastream) Fields() map[string]interface{} { return d.fields }

// ID of the datastream
func (d *PersistedDatastream) ID() string { return d.entry.ID }

// IsPersisted is true
func (d *PersistedDatastream) IsPersisted() bool { return true }

// Parent yields the object of the datastream
func (d *PersistedDatastream) Parent() Object { return d.parent }

// Label of the datastream, as listed
func (d *PersistedDatastream) Label() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.entry.Label
}

// MimeType of the datastream, as listed
func (d *PersistedDatastream) MimeType() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.entry.MimeType
}

// ForceUpdate disables the concurrent modification check on changes
func (d *PersistedDatastream) ForceUpdate(enabled bool) {
	d.force.Store(enabled)
}

// Refresh drops the fetched properties and history
func (d *PersistedDatastream) Refresh() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.infoLoaded = false
	d.history = nil
	d.historyLoaded = false
}

func (d *PersistedDatastream) loadInfo(ctx context.Context) error {
	if d.infoLoaded {
		return nil
	}
	info, err := d.parent.repo.transport.FetchDatastreamInfo(ctx, d.parent.ID(), d.entry.ID)
	if err != nil {
		return err
	}
	d.info = info
	d.entry = info.Entry()
	d.infoLoaded = true
	return nil
}

// Info yields the properties of the current version
func (d *PersistedDatastream) Info(ctx context.Context) (model.DatastreamInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.loadInfo(ctx); err != nil {
		return model.DatastreamInfo{}, err
	}
	return d.info, nil
}

// History yields the versions of the datastream, newest first
func (d *PersistedDatastream) History(ctx context.Context) ([]*DatastreamVersion, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.historyLoaded {
		return d.history, nil
	}
	infos, err := d.parent.repo.transport.FetchDatastreamHistory(ctx, d.parent.ID(), d.entry.ID)
	if err != nil {
		return nil, err
	}
	d.history = make([]*DatastreamVersion, 0, len(infos))
	for _, info := range infos {
		d.history = append(d.history, &DatastreamVersion{parent: d, info: info, fields: make(map[string]interface{})})
	}
	d.historyLoaded = true
	return d.history, nil
}

func (d *PersistedDatastream) modify(ctx context.Context, source *model.ContentSource, params model.DatastreamParams) error {
	d.mu.Lock()
	if err := d.loadInfo(ctx); err != nil {
		d.mu.Unlock()
		return err
	}
	var expected time.Time
	if !d.force.Load() && !d.parent.force.Load() {
		expected = d.info.CreatedDate
	}
	info, err := d.parent.repo.transport.ModifyDatastream(ctx, d.parent.ID(), d.entry.ID, source, params, expected)
	if err != nil {
		d.mu.Unlock()
		d.parent.l.Debug("datastream change rejected", zap.String("dsid", d.entry.ID), zap.Error(err))
		return err
	}
	d.setInfo(info)
	d.mu.Unlock()

	d.parent.touched(info.CreatedDate)
	return nil
}

// SetLabel changes the label
func (d *PersistedDatastream) SetLabel(ctx context.Context, label string) error {
	return d.modify(ctx, nil, model.DatastreamParams{Label: &label})
}

// SetMimeType changes the mimetype
func (d *PersistedDatastream) SetMimeType(ctx context.Context, mimeType string) error {
	return d.modify(ctx, nil, model.DatastreamParams{MimeType: &mimeType})
}

// SetState changes the state
func (d *PersistedDatastream) SetState(ctx context.Context, state model.State) error {
	if !state.Valid() {
		return status.ErrInvalidAttributeValue.WrapMessage(fmt.Sprintf("invalid state %q", state))
	}
	return d.modify(ctx, nil, model.DatastreamParams{State: &state})
}

// SetVersionable changes the versionable flag
func (d *PersistedDatastream) SetVersionable(ctx context.Context, versionable bool) error {
	return d.modify(ctx, nil, model.DatastreamParams{Versionable: &versionable})
}

// SetFormatURI changes the format URI
func (d *PersistedDatastream) SetFormatURI(ctx context.Context, format string) error {
	return d.modify(ctx, nil, model.DatastreamParams{FormatURI: &format})
}

// SetChecksumType changes the checksum algorithm
func (d *PersistedDatastream) SetChecksumType(ctx context.Context, checksumType string) error {
	return d.modify(ctx, nil, model.DatastreamParams{ChecksumType: &checksumType})
}

// SetChecksum sets the checksum the current content is verified against
func (d *PersistedDatastream) SetChecksum(ctx context.Context, checksum string) error {
	return d.modify(ctx, nil, model.DatastreamParams{Checksum: &checksum})
}

func (d *PersistedDatastream) isReference(ctx context.Context) (bool, error) {
	info, err := d.Info(ctx)
	if err != nil {
		return false, err
	}
	return info.ControlGroup.IsReference(), nil
}

// SetContent replaces the content of a managed or inline datastream
func (d *PersistedDatastream) SetContent(ctx context.Context, content []byte) error {
	ref, err := d.isReference(ctx)
	if err != nil {
		return err
	}
	if ref {
		return status.ErrInvalidAttributeValue.WrapMessage(
			fmt.Sprintf("datastream %s takes a location, not content", d.ID()))
	}
	return d.modify(ctx, &model.ContentSource{Body: bytes.NewReader(content)}, model.DatastreamParams{})
}

// SetContentFromFile replaces the content of a managed or inline datastream with a file
func (d *PersistedDatastream) SetContentFromFile(ctx context.Context, fs afero.Fs, path string) error {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return err
	}
	return d.SetContent(ctx, content)
}

// SetLocation changes the URL of the content
func (d *PersistedDatastream) SetLocation(ctx context.Context, location string) error {
	return d.modify(ctx, &model.ContentSource{Location: location}, model.DatastreamParams{})
}

// Content writes the bytes of the current version
func (d *PersistedDatastream) Content(ctx context.Context, w io.Writer) error {
	info, err := d.Info(ctx)
	if err != nil {
		return err
	}
	return d.contentAsOf(ctx, info, time.Time{}, w)
}

func (d *PersistedDatastream) contentAsOf(ctx context.Context, info model.DatastreamInfo, asOf time.Time, w io.Writer) error {
	if info.ControlGroup.IsReference() {
		return status.ErrNotSupported.WrapMessage(
			fmt.Sprintf("content of datastream %s is at %s", info.ID, info.Location))
	}
	rc, err := d.parent.repo.transport.FetchDatastreamContent(ctx, d.parent.ID(), d.ID(), asOf)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	_, err = io.Copy(w, rc)
	return err
}

// ContentAt writes the bytes of a version, 0 being the current one
func (d *PersistedDatastream) ContentAt(ctx context.Context, version int, w io.Writer) error {
	history, err := d.History(ctx)
	if err != nil {
		return err
	}
	if version < 0 || version >= len(history) {
		return status.ErrNotFound.WrapMessage(
			fmt.Sprintf("version %d of datastream %s (%d versions)", version, d.ID(), len(history)))
	}
	return history[version].Content(ctx, w)
}

// ContentFile writes the content of the current version to a file
func (d *PersistedDatastream) ContentFile(ctx context.Context, fs afero.Fs, path string) error {
	return writeContentFile(ctx, d, fs, path)
}

// Relationships of the datastream, stored in the RELS-INT datastream of its object
func (d *PersistedDatastream) Relationships() *rels.Relationships {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.relationships == nil {
		d.relationships = rels.New(model.DatastreamURI(d.parent.ID(), d.entry.ID),
			relsBackend{obj: d.parent, dsID: model.RelsIntDatastream}, rels.WithLogger(d.parent.l))
	}
	return d.relationships
}

// Get an attribute
func (d *PersistedDatastream) Get(ctx context.Context, name string) (interface{}, error) {
	return persistedDatastreamAttributes.Get(ctx, d, name)
}

// Set an attribute
func (d *PersistedDatastream) Set(ctx context.Context, name string, value interface{}) error {
	return persistedDatastreamAttributes.Set(ctx, d, name, value)
}

// Has tells if an attribute is set
func (d *PersistedDatastream) Has(ctx context.Context, name string) bool {
	return persistedDatastreamAttributes.Has(ctx, d, name)
}

// Clear an attribute
func (d *PersistedDatastream) Clear(ctx context.Context, name string) error {
	return persistedDatastreamAttributes.Clear(ctx, d, name)
}

var versionAttributes = versionTable()

func versionTable() *attr.Table[*DatastreamVersion] {
	t := attr.NewTable[*DatastreamVersion]("datastream version")
	read := map[string]func(model.DatastreamInfo) interface{}{
		AttrID:           func(i model.DatastreamInfo) interface{} { return i.ID },
		AttrVersionID:    func(i model.DatastreamInfo) interface{} { return i.VersionID },
		AttrLabel:        func(i model.DatastreamInfo) interface{} { return i.Label },
		AttrControlGroup: func(i model.DatastreamInfo) interface{} { return i.ControlGroup },
		AttrState:        func(i model.DatastreamInfo) interface{} { return i.State },
		AttrMimeType:     func(i model.DatastreamInfo) interface{} { return i.MimeType },
		AttrFormat:       func(i model.DatastreamInfo) interface{} { return i.FormatURI },
		AttrVersionable:  func(i model.DatastreamInfo) interface{} { return i.Versionable },
		AttrChecksum:     func(i model.DatastreamInfo) interface{} { return i.Checksum },
		AttrChecksumType: func(i model.DatastreamInfo) interface{} { return i.ChecksumType },
		AttrSize:         func(i model.DatastreamInfo) interface{} { return i.Size },
		AttrLocation:     func(i model.DatastreamInfo) interface{} { return i.Location },
		AttrCreatedDate:  func(i model.DatastreamInfo) interface{} { return i.CreatedDate },
	}
	for name, fn := range read {
		fn := fn
		t.Attribute(name, attr.Accessor[*DatastreamVersion]{
			Get: func(_ context.Context, v *DatastreamVersion) (interface{}, error) { return fn(v.info), nil },
			Has: func(context.Context, *DatastreamVersion) bool { return true },
		})
		t.ReadOnly(name)
	}
	return t
}

// DatastreamVersion is a read-only version of a persisted datastream
type DatastreamVersion struct {
	parent *PersistedDatastream
	info   model.DatastreamInfo
	fields map[string]interface{}
}

// Fields holds attributes without a dedicated handler
func (v *DatastreamVersion) Fields() map[string]interface{} { return v.fields }

// Info yields the properties of the version
func (v *DatastreamVersion) Info() model.DatastreamInfo { return v.info }

// Content writes the bytes of the version
func (v *DatastreamVersion) Content(ctx context.Context, w io.Writer) error {
	return v.parent.contentAsOf(ctx, v.info, v.info.CreatedDate, w)
}

// Get an attribute
func (v *DatastreamVersion) Get(ctx context.Context, name string) (interface{}, error) {
	return versionAttributes.Get(ctx, v, name)
}

// Set fails: versions are read-only
func (v *DatastreamVersion) Set(_ context.Context, name string, _ interface{}) error {
	return status.ErrAttributeReadOnly.WrapMessage(fmt.Sprintf("datastream version.%s", name))
}

// Has tells if an attribute is set
func (v *DatastreamVersion) Has(ctx context.Context, name string) bool {
	return versionAttributes.Has(ctx, v, name)
}
