package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/rels"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"github.com/spf13/afero"
)

var newDatastreamAttributes = datastreamTable[*NewDatastream]("datastream")

const defaultMimeType = "application/octet-stream"

// NewDatastream is a datastream which has not been added to a persisted object yet.
//
// All properties are kept in memory until the datastream is ingested.
type NewDatastream struct {
	mu            sync.Mutex
	fields        map[string]interface{}
	parent        Object
	owner         *NewObject
	info          model.DatastreamInfo
	content       []byte
	hasContent    bool
	location      string
	relationships *rels.Relationships
}

func newDatastream(parent Object, id string, controlGroup model.ControlGroup) *NewDatastream {
	if controlGroup == "" {
		controlGroup = model.ControlGroupManaged
	}
	mimeType := defaultMimeType
	if controlGroup == model.ControlGroupInline {
		mimeType = "text/xml"
	}
	return &NewDatastream{
		fields: make(map[string]interface{}),
		parent: parent,
		info: model.DatastreamInfo{
			ID:           id,
			ControlGroup: controlGroup,
			State:        model.StateActive,
			MimeType:     mimeType,
			Versionable:  true,
		},
	}
}

// Fields holds attributes without a dedicated handler
func (d *NewDatastream) Fields() map[string]interface{} { return d.fields }

// ID of the datastream
func (d *NewDatastream) ID() string { return d.info.ID }

// IsPersisted is false for unsaved datastreams
func (d *NewDatastream) IsPersisted() bool { return false }

// Parent yields the object which buffers the datastream, or the object which built it
func (d *NewDatastream) Parent() Object {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.owner != nil {
		return d.owner
	}
	return d.parent
}

// bufferedBy yields the unsaved object holding the datastream, if any
func (d *NewDatastream) bufferedBy() *NewObject {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.owner
}

// attach records the unsaved object holding the datastream. It is called with the object lock held.
func (d *NewDatastream) attach(owner *NewObject) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.owner = owner
	if owner != nil && d.parent != Object(owner) {
		d.parent = owner
		d.relationships = nil
	}
}

// clone copies the datastream for another object
func (d *NewDatastream) clone(target Object) *NewDatastream {
	d.mu.Lock()
	defer d.mu.Unlock()
	cp := &NewDatastream{
		fields:     make(map[string]interface{}, len(d.fields)),
		parent:     target,
		info:       d.info,
		hasContent: d.hasContent,
		location:   d.location,
	}
	for k, v := range d.fields {
		cp.fields[k] = v
	}
	if d.hasContent {
		cp.content = append([]byte{}, d.content...)
	}
	return cp
}

// localContent yields the content held in memory
func (d *NewDatastream) localContent() ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.content, d.hasContent
}

// Info yields the properties of the datastream. The size is the size of the local content.
func (d *NewDatastream) Info(context.Context) (model.DatastreamInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	info := d.info
	info.Size = int64(len(d.content))
	if d.location != "" {
		info.Location = d.location
	}
	return info, nil
}

func (d *NewDatastream) update(fn func(*model.DatastreamInfo)) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	fn(&d.info)
	return nil
}

// SetLabel sets the label
func (d *NewDatastream) SetLabel(_ context.Context, label string) error {
	return d.update(func(i *model.DatastreamInfo) { i.Label = label })
}

// SetMimeType sets the mimetype
func (d *NewDatastream) SetMimeType(_ context.Context, mimeType string) error {
	return d.update(func(i *model.DatastreamInfo) { i.MimeType = mimeType })
}

// SetState sets the state
func (d *NewDatastream) SetState(_ context.Context, state model.State) error {
	if !state.Valid() {
		return status.ErrInvalidAttributeValue.WrapMessage(fmt.Sprintf("invalid state %q", state))
	}
	return d.update(func(i *model.DatastreamInfo) { i.State = state })
}

// SetVersionable sets the versionable flag
func (d *NewDatastream) SetVersionable(_ context.Context, versionable bool) error {
	return d.update(func(i *model.DatastreamInfo) { i.Versionable = versionable })
}

// SetFormatURI sets the format URI
func (d *NewDatastream) SetFormatURI(_ context.Context, format string) error {
	return d.update(func(i *model.DatastreamInfo) { i.FormatURI = format })
}

// SetChecksumType sets the checksum algorithm computed by the repository
func (d *NewDatastream) SetChecksumType(_ context.Context, checksumType string) error {
	return d.update(func(i *model.DatastreamInfo) { i.ChecksumType = checksumType })
}

// SetChecksum sets the checksum the content is verified against at ingest
func (d *NewDatastream) SetChecksum(_ context.Context, checksum string) error {
	return d.update(func(i *model.DatastreamInfo) { i.Checksum = checksum })
}

// SetContent sets the content of a managed or inline datastream
func (d *NewDatastream) SetContent(_ context.Context, content []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.info.ControlGroup.IsReference() {
		return status.ErrInvalidAttributeValue.WrapMessage(
			fmt.Sprintf("datastream %s with control group %s takes a location, not content", d.info.ID, d.info.ControlGroup))
	}
	d.content = append([]byte{}, content...)
	d.hasContent = true
	d.location = ""
	return nil
}

// SetContentFromFile sets the content of a managed or inline datastream from a file
func (d *NewDatastream) SetContentFromFile(ctx context.Context, fs afero.Fs, path string) error {
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return err
	}
	return d.SetContent(ctx, content)
}

// SetLocation sets the URL of the content. For managed datastreams, it may be an upload reference.
func (d *NewDatastream) SetLocation(_ context.Context, location string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.location = location
	d.content = nil
	d.hasContent = false
	return nil
}

// Content writes the local content
func (d *NewDatastream) Content(_ context.Context, w io.Writer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.info.ControlGroup.IsReference() || !d.hasContent && d.location != "" {
		return status.ErrNotSupported.WrapMessage(
			fmt.Sprintf("content of datastream %s is at %s", d.info.ID, d.location))
	}
	_, err := io.Copy(w, bytes.NewReader(d.content))
	return err
}

// ContentFile writes the local content to a file
func (d *NewDatastream) ContentFile(ctx context.Context, fs afero.Fs, path string) error {
	return writeContentFile(ctx, d, fs, path)
}

// Relationships of the datastream, stored in the RELS-INT datastream of its object
func (d *NewDatastream) Relationships() *rels.Relationships {
	parent := d.Parent()
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.relationships == nil {
		d.relationships = rels.New(model.DatastreamURI(parent.ID(), d.info.ID), relsBackend{obj: parent, dsID: model.RelsIntDatastream})
	}
	return d.relationships
}

// Get an attribute
func (d *NewDatastream) Get(ctx context.Context, name string) (interface{}, error) {
	return newDatastreamAttributes.Get(ctx, d, name)
}

// Set an attribute
func (d *NewDatastream) Set(ctx context.Context, name string, value interface{}) error {
	return newDatastreamAttributes.Set(ctx, d, name, value)
}

// Has tells if an attribute is set
func (d *NewDatastream) Has(ctx context.Context, name string) bool {
	return newDatastreamAttributes.Has(ctx, d, name)
}

// Clear an attribute
func (d *NewDatastream) Clear(ctx context.Context, name string) error {
	return newDatastreamAttributes.Clear(ctx, d, name)
}
