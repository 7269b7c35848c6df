package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/rels"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"go.uber.org/zap"
)

var newObjectAttributes = objectTable[*NewObject]("object")

// NewObject is an object which has not been ingested yet.
//
// Changes are kept in memory, datastreams are buffered in insertion order.
type NewObject struct {
	mu            sync.Mutex
	repo          *Repository
	id            string
	label         string
	ownerID       string
	state         model.State
	logMessage    string
	datastreams   []*NewDatastream
	relationships *rels.Relationships
	fields        map[string]interface{}
	l             *zap.Logger
}

func newObject(r *Repository, pid string) *NewObject {
	return &NewObject{
		repo:   r,
		id:     pid,
		state:  model.StateActive,
		fields: make(map[string]interface{}),
		l:      r.l.With(zap.String("pid", pid)),
	}
}

// Fields holds attributes without a dedicated handler
func (o *NewObject) Fields() map[string]interface{} { return o.fields }

// ID of the object
func (o *NewObject) ID() string { return o.id }

// IsPersisted is false for unsaved objects
func (o *NewObject) IsPersisted() bool { return false }

// Label of the object
func (o *NewObject) Label() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.label
}

// OwnerID of the object
func (o *NewObject) OwnerID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ownerID
}

// State of the object
func (o *NewObject) State() model.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// CreatedDate is zero until the object is ingested
func (o *NewObject) CreatedDate() time.Time { return time.Time{} }

// LastModifiedDate is zero until the object is ingested
func (o *NewObject) LastModifiedDate() time.Time { return time.Time{} }

// SetLabel sets the label
func (o *NewObject) SetLabel(_ context.Context, label string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.label = label
	return nil
}

// SetOwnerID sets the owner
func (o *NewObject) SetOwnerID(_ context.Context, owner string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ownerID = owner
	return nil
}

// SetState sets the state
func (o *NewObject) SetState(_ context.Context, state model.State) error {
	if !state.Valid() {
		return status.ErrInvalidAttributeValue.WrapMessage(fmt.Sprintf("invalid state %q", state))
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.state = state
	return nil
}

// SetLogMessage sets the message recorded at ingest
func (o *NewObject) SetLogMessage(_ context.Context, msg string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.logMessage = msg
	return nil
}

// Delete flags the object as deleted
func (o *NewObject) Delete(ctx context.Context) error {
	return o.SetState(ctx, model.StateDeleted)
}

// Relationships of the object, buffered in its RELS-EXT datastream
func (o *NewObject) Relationships() *rels.Relationships {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.relationships == nil {
		o.relationships = rels.New(model.IdentifierToURI(o.id), relsBackend{obj: o, dsID: model.RelsExtDatastream}, rels.WithLogger(o.l))
	}
	return o.relationships
}

// Models yields the content models of the object
func (o *NewObject) Models(ctx context.Context) ([]string, error) {
	return o.Relationships().Models(ctx)
}

// SetModels replaces the content models of the object
func (o *NewObject) SetModels(ctx context.Context, models []string) error {
	return o.Relationships().SetModels(ctx, models)
}

// Get an attribute
func (o *NewObject) Get(ctx context.Context, name string) (interface{}, error) {
	return newObjectAttributes.Get(ctx, o, name)
}

// Set an attribute
func (o *NewObject) Set(ctx context.Context, name string, value interface{}) error {
	return newObjectAttributes.Set(ctx, o, name, value)
}

// Has tells if an attribute is set
func (o *NewObject) Has(ctx context.Context, name string) bool {
	return newObjectAttributes.Has(ctx, o, name)
}

// Clear an attribute
func (o *NewObject) Clear(ctx context.Context, name string) error {
	return newObjectAttributes.Clear(ctx, o, name)
}

// ConstructDatastream builds an unsaved datastream for this object
func (o *NewObject) ConstructDatastream(id string, controlGroup model.ControlGroup) *NewDatastream {
	return newDatastream(o, id, controlGroup)
}

// IngestDatastream adds a datastream to the buffer.
//
// A datastream buffered by another unsaved object is moved here as a copy, a persisted
// datastream is copied with its content.
func (o *NewObject) IngestDatastream(ctx context.Context, ds Datastream) (bool, error) {
	if ds == nil {
		return false, status.ErrInvalidAttributeValue.WrapMessage("nil datastream")
	}
	if has, _ := o.HasDatastream(ctx, ds.ID()); has {
		return false, nil
	}

	var (
		incoming *NewDatastream
		previous *NewObject
	)
	switch d := ds.(type) {
	case *NewDatastream:
		incoming = d
		if owner := d.bufferedBy(); owner != nil {
			incoming = d.clone(o)
			previous = owner
		}
	default:
		copied, err := copyDatastream(ctx, o, ds)
		if err != nil {
			return false, err
		}
		incoming = copied
	}

	o.mu.Lock()
	for _, buffered := range o.datastreams {
		if buffered.ID() == incoming.ID() {
			o.mu.Unlock()
			return false, nil
		}
	}
	incoming.attach(o)
	o.datastreams = append(o.datastreams, incoming)
	o.mu.Unlock()

	if previous != nil {
		previous.detach(ds.(*NewDatastream))
	}
	o.l.Debug("datastream buffered", zap.String("dsid", incoming.ID()))
	return true, nil
}

// detach removes a datastream from the buffer
func (o *NewObject) detach(ds *NewDatastream) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, buffered := range o.datastreams {
		if buffered == ds {
			o.datastreams = append(o.datastreams[:i], o.datastreams[i+1:]...)
			ds.attach(nil)
			return true
		}
	}
	return false
}

// Datastream yields a buffered datastream
func (o *NewObject) Datastream(_ context.Context, id string) (Datastream, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, ds := range o.datastreams {
		if ds.ID() == id {
			return ds, nil
		}
	}
	return nil, status.ErrNotFound.WrapMessage(fmt.Sprintf("datastream %s of %s", id, o.id))
}

// Datastreams yields the buffered datastreams, in insertion order
func (o *NewObject) Datastreams(context.Context) ([]Datastream, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	res := make([]Datastream, 0, len(o.datastreams))
	for _, ds := range o.datastreams {
		res = append(res, ds)
	}
	return res, nil
}

// HasDatastream tells if a datastream is buffered
func (o *NewObject) HasDatastream(ctx context.Context, id string) (bool, error) {
	_, err := o.Datastream(ctx, id)
	return err == nil, nil
}

// CountDatastreams yields the number of buffered datastreams
func (o *NewObject) CountDatastreams(context.Context) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.datastreams), nil
}

// PurgeDatastream removes a datastream from the buffer
func (o *NewObject) PurgeDatastream(ctx context.Context, id string) (bool, error) {
	ds, err := o.Datastream(ctx, id)
	if err != nil {
		return false, nil
	}
	return o.detach(ds.(*NewDatastream)), nil
}
