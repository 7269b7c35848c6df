package attr

import (
	"context"
	"fmt"
	"sort"

	"github.com/jonathangreen/tuque-sub001/pkg/status"
)

// Holder exposes the plain field bag used by the default policy
type Holder interface {
	Fields() map[string]interface{}
}

// Getter reads an attribute
type Getter[T any] func(ctx context.Context, obj T) (interface{}, error)

// Setter writes an attribute
type Setter[T any] func(ctx context.Context, obj T, value interface{}) error

// Tester tells if an attribute is set
type Tester[T any] func(ctx context.Context, obj T) bool

// Clearer unsets an attribute
type Clearer[T any] func(ctx context.Context, obj T) error

// Accessor groups the handlers for one attribute. Nil slots fall back to the default policy.
type Accessor[T any] struct {
	Get   Getter[T]
	Set   Setter[T]
	Has   Tester[T]
	Clear Clearer[T]
}

// Table is the attribute dispatch table of a concrete type.
//
// Tables are built once at package initialization and are read-only afterwards.
type Table[T Holder] struct {
	typeName string
	specific map[string]*Accessor[T]
	wide     map[string]Accessor[T]
	readOnly map[string]struct{}
}

// NewTable builds an empty dispatch table
func NewTable[T Holder](typeName string) *Table[T] {
	return &Table[T]{
		typeName: typeName,
		specific: make(map[string]*Accessor[T]),
		wide:     make(map[string]Accessor[T]),
		readOnly: make(map[string]struct{}),
	}
}

// Attribute registers the name-wide accessor for an attribute
func (t *Table[T]) Attribute(name string, a Accessor[T]) *Table[T] {
	t.wide[name] = a
	return t
}

func (t *Table[T]) slot(name string) *Accessor[T] {
	a, ok := t.specific[name]
	if !ok {
		a = &Accessor[T]{}
		t.specific[name] = a
	}
	return a
}

// OnGet registers the getter for an attribute, taking precedence over the name-wide accessor
func (t *Table[T]) OnGet(name string, fn Getter[T]) *Table[T] {
	t.slot(name).Get = fn
	return t
}

// OnSet registers the setter for an attribute
func (t *Table[T]) OnSet(name string, fn Setter[T]) *Table[T] {
	t.slot(name).Set = fn
	return t
}

// OnHas registers the tester for an attribute
func (t *Table[T]) OnHas(name string, fn Tester[T]) *Table[T] {
	t.slot(name).Has = fn
	return t
}

// OnClear registers the clearer for an attribute
func (t *Table[T]) OnClear(name string, fn Clearer[T]) *Table[T] {
	t.slot(name).Clear = fn
	return t
}

// ReadOnly marks attributes which cannot be set nor cleared
func (t *Table[T]) ReadOnly(names ...string) *Table[T] {
	for _, name := range names {
		t.readOnly[name] = struct{}{}
	}
	return t
}

// IsReadOnly tells if an attribute is read-only
func (t *Table[T]) IsReadOnly(name string) bool {
	_, ok := t.readOnly[name]
	return ok
}

// Names lists the registered attributes, sorted
func (t *Table[T]) Names() []string {
	seen := make(map[string]struct{}, len(t.wide)+len(t.specific))
	for name := range t.wide {
		seen[name] = struct{}{}
	}
	for name := range t.specific {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (t *Table[T]) getter(name string) Getter[T] {
	if a, ok := t.specific[name]; ok && a.Get != nil {
		return a.Get
	}
	return t.wide[name].Get
}

func (t *Table[T]) setter(name string) Setter[T] {
	if a, ok := t.specific[name]; ok && a.Set != nil {
		return a.Set
	}
	return t.wide[name].Set
}

func (t *Table[T]) tester(name string) Tester[T] {
	if a, ok := t.specific[name]; ok && a.Has != nil {
		return a.Has
	}
	return t.wide[name].Has
}

func (t *Table[T]) clearer(name string) Clearer[T] {
	if a, ok := t.specific[name]; ok && a.Clear != nil {
		return a.Clear
	}
	return t.wide[name].Clear
}

// Get reads an attribute
func (t *Table[T]) Get(ctx context.Context, obj T, name string) (interface{}, error) {
	if fn := t.getter(name); fn != nil {
		return fn(ctx, obj)
	}
	v, ok := obj.Fields()[name]
	if !ok {
		return nil, status.ErrUnknownAttribute.WrapMessage(fmt.Sprintf("%s has no attribute %q", t.typeName, name))
	}
	return v, nil
}

// Set writes an attribute
func (t *Table[T]) Set(ctx context.Context, obj T, name string, value interface{}) error {
	if t.IsReadOnly(name) {
		return t.readOnlyErr(name)
	}
	if fn := t.setter(name); fn != nil {
		return fn(ctx, obj, value)
	}
	obj.Fields()[name] = value
	return nil
}

// Has tells if an attribute is set
func (t *Table[T]) Has(ctx context.Context, obj T, name string) bool {
	if fn := t.tester(name); fn != nil {
		return fn(ctx, obj)
	}
	return false
}

// Clear unsets an attribute
func (t *Table[T]) Clear(ctx context.Context, obj T, name string) error {
	if t.IsReadOnly(name) {
		return t.readOnlyErr(name)
	}
	if fn := t.clearer(name); fn != nil {
		return fn(ctx, obj)
	}
	return nil
}

func (t *Table[T]) readOnlyErr(name string) error {
	return status.ErrAttributeReadOnly.WrapMessage(fmt.Sprintf("%s.%s", t.typeName, name))
}

// Value converts an attribute value to the type expected by a setter
func Value[V any](name string, value interface{}) (V, error) {
	v, ok := value.(V)
	if !ok {
		var zero V
		return zero, status.ErrInvalidAttributeValue.WrapMessage(
			fmt.Sprintf("attribute %q expects a %T, got %T", name, zero, value))
	}
	return v, nil
}
