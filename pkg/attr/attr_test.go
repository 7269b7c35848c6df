package attr

import (
	"context"
	"testing"

	"github.com/jonathangreen/tuque-sub001/pkg/errors"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHolder struct {
	label   string
	created string
	cleared int
	fields  map[string]interface{}
}

func (f *fakeHolder) Fields() map[string]interface{} {
	return f.fields
}

func newFake() *fakeHolder {
	return &fakeHolder{label: "a label", created: "2012-01-01", fields: map[string]interface{}{}}
}

func fakeTable() *Table[*fakeHolder] {
	return NewTable[*fakeHolder]("fake").
		Attribute("label", Accessor[*fakeHolder]{
			Get: func(_ context.Context, f *fakeHolder) (interface{}, error) { return f.label, nil },
			Set: func(_ context.Context, f *fakeHolder, v interface{}) error {
				s, err := Value[string]("label", v)
				if err != nil {
					return err
				}
				f.label = s
				return nil
			},
			Has:   func(_ context.Context, f *fakeHolder) bool { return f.label != "" },
			Clear: func(_ context.Context, f *fakeHolder) error { f.label = ""; return nil },
		}).
		OnGet("label", func(_ context.Context, f *fakeHolder) (interface{}, error) { return "specific:" + f.label, nil }).
		OnGet("created", func(_ context.Context, f *fakeHolder) (interface{}, error) { return f.created, nil }).
		OnClear("created", func(_ context.Context, f *fakeHolder) error { f.cleared++; return nil }).
		ReadOnly("created")
}

func TestResolution(t *testing.T) {
	ctx := context.Background()
	tbl := fakeTable()
	f := newFake()

	v, err := tbl.Get(ctx, f, "label")
	require.NoError(t, err)
	assert.Equal(t, "specific:a label", v, "(name, op) handler wins over the name-wide accessor")

	require.NoError(t, tbl.Set(ctx, f, "label", "new"))
	assert.Equal(t, "new", f.label, "name-wide setter is used when no specific one exists")
	assert.True(t, tbl.Has(ctx, f, "label"))

	require.NoError(t, tbl.Clear(ctx, f, "label"))
	assert.False(t, tbl.Has(ctx, f, "label"))

	err = tbl.Set(ctx, f, "label", 42)
	assert.True(t, errors.Is(err, status.ErrInvalidAttributeValue))

	assert.Equal(t, []string{"created", "label"}, tbl.Names())
}

func TestDefaultPolicy(t *testing.T) {
	ctx := context.Background()
	tbl := fakeTable()
	f := newFake()

	_, err := tbl.Get(ctx, f, "color")
	assert.True(t, errors.Is(err, status.ErrUnknownAttribute))

	require.NoError(t, tbl.Set(ctx, f, "color", "blue"))
	v, err := tbl.Get(ctx, f, "color")
	require.NoError(t, err)
	assert.Equal(t, "blue", v)

	assert.False(t, tbl.Has(ctx, f, "color"), "has defaults to false")
	require.NoError(t, tbl.Clear(ctx, f, "color"), "clear defaults to a no-op")
	assert.Equal(t, "blue", f.fields["color"])
}

func TestReadOnly(t *testing.T) {
	ctx := context.Background()
	tbl := fakeTable()
	f := newFake()

	require.True(t, tbl.IsReadOnly("created"))
	err := tbl.Set(ctx, f, "created", "2020-01-01")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrAttributeReadOnly))
	assert.Equal(t, "2012-01-01", f.created)

	err = tbl.Clear(ctx, f, "created")
	assert.True(t, errors.Is(err, status.ErrAttributeReadOnly))
	assert.Zero(t, f.cleared, "read-only clear handler must not run")

	v, err := tbl.Get(ctx, f, "created")
	require.NoError(t, err)
	assert.Equal(t, "2012-01-01", v)
}
