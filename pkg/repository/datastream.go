package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jonathangreen/tuque-sub001/pkg/attr"
	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/rels"
	"github.com/spf13/afero"
)

// Datastream attribute names
const (
	AttrControlGroup = "controlGroup"
	AttrMimeType     = "mimetype"
	AttrFormat       = "format"
	AttrVersionable  = "versionable"
	AttrChecksum     = "checksum"
	AttrChecksumType = "checksumType"
	AttrSize         = "size"
	AttrLocation     = "location"
	AttrContent      = "content"
	AttrVersionID    = "versionId"
)

// Datastream is a named content of an object, either unsaved (NewDatastream) or persisted (PersistedDatastream)
type Datastream interface {
	attr.Holder

	ID() string
	IsPersisted() bool
	// Parent yields the object the datastream was built for
	Parent() Object
	// Info yields the properties of the current version
	Info(context.Context) (model.DatastreamInfo, error)

	SetLabel(context.Context, string) error
	SetMimeType(context.Context, string) error
	SetState(context.Context, model.State) error
	SetVersionable(context.Context, bool) error
	SetFormatURI(context.Context, string) error
	SetChecksumType(context.Context, string) error
	SetChecksum(context.Context, string) error
	// SetContent replaces the content of a managed or inline datastream
	SetContent(context.Context, []byte) error
	// SetContentFromFile replaces the content of a managed or inline datastream with a file
	SetContentFromFile(ctx context.Context, fs afero.Fs, path string) error
	// SetLocation sets the URL of the content
	SetLocation(context.Context, string) error

	// Content writes the bytes of a managed or inline datastream.
	// Redirect and external datastreams fail with status.ErrNotSupported: callers read their location.
	Content(context.Context, io.Writer) error
	// ContentFile writes the content to a file
	ContentFile(ctx context.Context, fs afero.Fs, path string) error

	// Relationships of the datastream, stored in the RELS-INT datastream of its object
	Relationships() *rels.Relationships

	Get(ctx context.Context, name string) (interface{}, error)
	Set(ctx context.Context, name string, value interface{}) error
	Has(ctx context.Context, name string) bool
	Clear(ctx context.Context, name string) error
}

var (
	_ Datastream = &NewDatastream{}
	_ Datastream = &PersistedDatastream{}
)

func infoGetter[T Datastream](read func(model.DatastreamInfo) interface{}) attr.Getter[T] {
	return func(ctx context.Context, d T) (interface{}, error) {
		info, err := d.Info(ctx)
		if err != nil {
			return nil, err
		}
		return read(info), nil
	}
}

func infoTester[T Datastream](test func(model.DatastreamInfo) bool) attr.Tester[T] {
	return func(ctx context.Context, d T) bool {
		info, err := d.Info(ctx)
		return err == nil && test(info)
	}
}

func datastreamTable[T Datastream](typeName string) *attr.Table[T] {
	return attr.NewTable[T](typeName).
		Attribute(AttrID, attr.Accessor[T]{
			Get: func(_ context.Context, d T) (interface{}, error) { return d.ID(), nil },
			Has: func(context.Context, T) bool { return true },
		}).
		Attribute(AttrControlGroup, attr.Accessor[T]{
			Get: infoGetter[T](func(i model.DatastreamInfo) interface{} { return i.ControlGroup }),
			Has: func(context.Context, T) bool { return true },
		}).
		Attribute(AttrLabel, attr.Accessor[T]{
			Get:   infoGetter[T](func(i model.DatastreamInfo) interface{} { return i.Label }),
			Set:   setString(AttrLabel, func(ctx context.Context, d T, v string) error { return d.SetLabel(ctx, v) }),
			Has:   infoTester[T](func(i model.DatastreamInfo) bool { return i.Label != "" }),
			Clear: func(ctx context.Context, d T) error { return d.SetLabel(ctx, "") },
		}).
		Attribute(AttrMimeType, attr.Accessor[T]{
			Get: infoGetter[T](func(i model.DatastreamInfo) interface{} { return i.MimeType }),
			Set: setString(AttrMimeType, func(ctx context.Context, d T, v string) error { return d.SetMimeType(ctx, v) }),
			Has: infoTester[T](func(i model.DatastreamInfo) bool { return i.MimeType != "" }),
		}).
		Attribute(AttrState, attr.Accessor[T]{
			Get: infoGetter[T](func(i model.DatastreamInfo) interface{} { return i.State }),
			Set: setState[T](func(ctx context.Context, d T, s model.State) error { return d.SetState(ctx, s) }),
			Has: func(context.Context, T) bool { return true },
		}).
		Attribute(AttrVersionable, attr.Accessor[T]{
			Get: infoGetter[T](func(i model.DatastreamInfo) interface{} { return i.Versionable }),
			Set: setBool(AttrVersionable, func(ctx context.Context, d T, v bool) error { return d.SetVersionable(ctx, v) }),
			Has: func(context.Context, T) bool { return true },
		}).
		Attribute(AttrFormat, attr.Accessor[T]{
			Get:   infoGetter[T](func(i model.DatastreamInfo) interface{} { return i.FormatURI }),
			Set:   setString(AttrFormat, func(ctx context.Context, d T, v string) error { return d.SetFormatURI(ctx, v) }),
			Has:   infoTester[T](func(i model.DatastreamInfo) bool { return i.FormatURI != "" }),
			Clear: func(ctx context.Context, d T) error { return d.SetFormatURI(ctx, "") },
		}).
		Attribute(AttrChecksumType, attr.Accessor[T]{
			Get: infoGetter[T](func(i model.DatastreamInfo) interface{} { return i.ChecksumType }),
			Set: setString(AttrChecksumType, func(ctx context.Context, d T, v string) error { return d.SetChecksumType(ctx, v) }),
			Has: infoTester[T](func(i model.DatastreamInfo) bool { return i.ChecksumType != "" }),
		}).
		Attribute(AttrChecksum, attr.Accessor[T]{
			Get: infoGetter[T](func(i model.DatastreamInfo) interface{} { return i.Checksum }),
			Set: setString(AttrChecksum, func(ctx context.Context, d T, v string) error { return d.SetChecksum(ctx, v) }),
			Has: infoTester[T](func(i model.DatastreamInfo) bool { return i.Checksum != "" && i.Checksum != "none" }),
		}).
		Attribute(AttrSize, attr.Accessor[T]{
			Get: infoGetter[T](func(i model.DatastreamInfo) interface{} { return i.Size }),
			Has: func(context.Context, T) bool { return true },
		}).
		Attribute(AttrLocation, attr.Accessor[T]{
			Get: infoGetter[T](func(i model.DatastreamInfo) interface{} { return i.Location }),
			Set: setString(AttrLocation, func(ctx context.Context, d T, v string) error { return d.SetLocation(ctx, v) }),
			Has: infoTester[T](func(i model.DatastreamInfo) bool { return i.Location != "" }),
		}).
		Attribute(AttrCreatedDate, attr.Accessor[T]{
			Get: infoGetter[T](func(i model.DatastreamInfo) interface{} { return i.CreatedDate }),
			Has: infoTester[T](func(i model.DatastreamInfo) bool { return !i.CreatedDate.IsZero() }),
		}).
		Attribute(AttrContent, attr.Accessor[T]{
			Get: func(ctx context.Context, d T) (interface{}, error) {
				var buf bytes.Buffer
				if err := d.Content(ctx, &buf); err != nil {
					return nil, err
				}
				return buf.Bytes(), nil
			},
			Set: func(ctx context.Context, d T, v interface{}) error {
				switch content := v.(type) {
				case []byte:
					return d.SetContent(ctx, content)
				case string:
					return d.SetContent(ctx, []byte(content))
				default:
					_, err := attr.Value[[]byte](AttrContent, v)
					return err
				}
			},
		}).
		ReadOnly(AttrID, AttrControlGroup, AttrSize, AttrCreatedDate)
}

// copyDatastream builds an unsaved copy of a datastream for another object, with its content
func copyDatastream(ctx context.Context, target Object, ds Datastream) (*NewDatastream, error) {
	info, err := ds.Info(ctx)
	if err != nil {
		return nil, err
	}
	cp := newDatastream(target, ds.ID(), info.ControlGroup)
	cp.info = info
	cp.info.VersionID = ""
	cp.info.CreatedDate = time.Time{}
	if info.ControlGroup.IsReference() {
		cp.location = info.Location
		return cp, nil
	}
	var buf bytes.Buffer
	if err := ds.Content(ctx, &buf); err != nil {
		return nil, fmt.Errorf("copying content of datastream %s: %w", ds.ID(), err)
	}
	cp.info.Location = ""
	cp.content = buf.Bytes()
	cp.hasContent = true
	return cp, nil
}

// writeContentFile writes the content of a datastream to a file
func writeContentFile(ctx context.Context, ds Datastream, fs afero.Fs, path string) error {
	file, err := fs.Create(path)
	if err != nil {
		return err
	}
	if err := ds.Content(ctx, file); err != nil {
		_ = file.Close()
		_ = fs.Remove(path)
		return err
	}
	return file.Close()
}
