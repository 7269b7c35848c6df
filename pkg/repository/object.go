package repository

import (
	"bytes"
	"context"
	"time"

	"github.com/jonathangreen/tuque-sub001/pkg/attr"
	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/rels"
)

// Object attribute names
const (
	AttrID               = "id"
	AttrLabel            = "label"
	AttrOwner            = "owner"
	AttrState            = "state"
	AttrLogMessage       = "logMessage"
	AttrCreatedDate      = "createdDate"
	AttrLastModifiedDate = "lastModifiedDate"
	AttrModels           = "models"
)

// Object is a repository object, either unsaved (NewObject) or persisted (PersistedObject)
type Object interface {
	attr.Holder

	ID() string
	IsPersisted() bool
	Label() string
	OwnerID() string
	State() model.State
	CreatedDate() time.Time
	LastModifiedDate() time.Time

	SetLabel(context.Context, string) error
	SetOwnerID(context.Context, string) error
	SetState(context.Context, model.State) error
	// SetLogMessage annotates the next change
	SetLogMessage(context.Context, string) error
	// Delete flags the object as deleted. It is not removed from the repository.
	Delete(context.Context) error

	// Relationships of the object, stored in its RELS-EXT datastream
	Relationships() *rels.Relationships
	Models(context.Context) ([]string, error)
	SetModels(context.Context, []string) error

	Get(ctx context.Context, name string) (interface{}, error)
	Set(ctx context.Context, name string, value interface{}) error
	Has(ctx context.Context, name string) bool
	Clear(ctx context.Context, name string) error

	// ConstructDatastream builds an unsaved datastream, to be added with IngestDatastream
	ConstructDatastream(id string, controlGroup model.ControlGroup) *NewDatastream
	// IngestDatastream adds a datastream. It returns false if the object already has a datastream with this id.
	//
	// A datastream owned by another object is copied.
	IngestDatastream(context.Context, Datastream) (bool, error)
	Datastream(ctx context.Context, id string) (Datastream, error)
	Datastreams(context.Context) ([]Datastream, error)
	HasDatastream(ctx context.Context, id string) (bool, error)
	CountDatastreams(context.Context) (int, error)
	PurgeDatastream(ctx context.Context, id string) (bool, error)
}

var (
	_ Object = &NewObject{}
	_ Object = &PersistedObject{}
)

func objectTable[T Object](typeName string) *attr.Table[T] {
	return attr.NewTable[T](typeName).
		Attribute(AttrID, attr.Accessor[T]{
			Get: func(_ context.Context, o T) (interface{}, error) { return o.ID(), nil },
			Has: func(_ context.Context, o T) bool { return o.ID() != "" },
		}).
		Attribute(AttrLabel, attr.Accessor[T]{
			Get: func(_ context.Context, o T) (interface{}, error) { return o.Label(), nil },
			Set: setString(AttrLabel, func(ctx context.Context, o T, v string) error { return o.SetLabel(ctx, v) }),
			Has: func(_ context.Context, o T) bool { return o.Label() != "" },
			Clear: func(ctx context.Context, o T) error {
				return o.SetLabel(ctx, "")
			},
		}).
		Attribute(AttrOwner, attr.Accessor[T]{
			Get: func(_ context.Context, o T) (interface{}, error) { return o.OwnerID(), nil },
			Set: setString(AttrOwner, func(ctx context.Context, o T, v string) error { return o.SetOwnerID(ctx, v) }),
			Has: func(_ context.Context, o T) bool { return o.OwnerID() != "" },
			Clear: func(ctx context.Context, o T) error {
				return o.SetOwnerID(ctx, "")
			},
		}).
		Attribute(AttrState, attr.Accessor[T]{
			Get: func(_ context.Context, o T) (interface{}, error) { return o.State(), nil },
			Set: setState[T](func(ctx context.Context, o T, s model.State) error { return o.SetState(ctx, s) }),
			Has: func(context.Context, T) bool { return true },
		}).
		OnSet(AttrLogMessage, setString(AttrLogMessage, func(ctx context.Context, o T, v string) error { return o.SetLogMessage(ctx, v) })).
		Attribute(AttrCreatedDate, attr.Accessor[T]{
			Get: func(_ context.Context, o T) (interface{}, error) { return o.CreatedDate(), nil },
			Has: func(_ context.Context, o T) bool { return !o.CreatedDate().IsZero() },
		}).
		Attribute(AttrLastModifiedDate, attr.Accessor[T]{
			Get: func(_ context.Context, o T) (interface{}, error) { return o.LastModifiedDate(), nil },
			Has: func(_ context.Context, o T) bool { return !o.LastModifiedDate().IsZero() },
		}).
		Attribute(AttrModels, attr.Accessor[T]{
			Get: func(ctx context.Context, o T) (interface{}, error) { return o.Models(ctx) },
			Set: func(ctx context.Context, o T, v interface{}) error {
				models, err := attr.Value[[]string](AttrModels, v)
				if err != nil {
					return err
				}
				return o.SetModels(ctx, models)
			},
			Has: func(ctx context.Context, o T) bool {
				models, err := o.Models(ctx)
				return err == nil && len(models) > 0
			},
			Clear: func(ctx context.Context, o T) error { return o.SetModels(ctx, nil) },
		}).
		ReadOnly(AttrID, AttrCreatedDate, AttrLastModifiedDate)
}

func setString[T any](name string, set func(context.Context, T, string) error) attr.Setter[T] {
	return func(ctx context.Context, obj T, value interface{}) error {
		s, err := attr.Value[string](name, value)
		if err != nil {
			return err
		}
		return set(ctx, obj, s)
	}
}

func setBool[T any](name string, set func(context.Context, T, bool) error) attr.Setter[T] {
	return func(ctx context.Context, obj T, value interface{}) error {
		b, err := attr.Value[bool](name, value)
		if err != nil {
			return err
		}
		return set(ctx, obj, b)
	}
}

// setState accepts a model.State or its string representation
func setState[T any](set func(context.Context, T, model.State) error) attr.Setter[T] {
	return func(ctx context.Context, obj T, value interface{}) error {
		switch v := value.(type) {
		case model.State:
			return set(ctx, obj, v)
		case string:
			s, err := model.ParseState(v)
			if err != nil {
				return errInvalidValue(err)
			}
			return set(ctx, obj, s)
		default:
			_, err := attr.Value[model.State](AttrState, value)
			return err
		}
	}
}

// relsBackend stores relationships in a datastream (RELS-EXT or RELS-INT) of an object
type relsBackend struct {
	obj  Object
	dsID string
}

func (b relsBackend) Load(ctx context.Context) ([]byte, error) {
	ds, err := b.obj.Datastream(ctx, b.dsID)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var buf bytes.Buffer
	if err := ds.Content(ctx, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (b relsBackend) Save(ctx context.Context, data []byte) error {
	ds, err := b.obj.Datastream(ctx, b.dsID)
	switch {
	case err == nil:
		return ds.SetContent(ctx, data)
	case !isNotFound(err):
		return err
	}
	ds = b.obj.ConstructDatastream(b.dsID, model.ControlGroupInline)
	if err := ds.SetMimeType(ctx, relsMimeType); err != nil {
		return err
	}
	if err := ds.SetLabel(ctx, relsLabel(b.dsID)); err != nil {
		return err
	}
	if err := ds.SetContent(ctx, data); err != nil {
		return err
	}
	_, err = b.obj.IngestDatastream(ctx, ds)
	return err
}

const relsMimeType = "application/rdf+xml"

func relsLabel(dsID string) string {
	if dsID == model.RelsIntDatastream {
		return "Fedora datastream relationship metadata"
	}
	return "Fedora object-to-object relationship metadata"
}
