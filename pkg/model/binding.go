package model

// ValueType tells how a bound query variable must be understood
type ValueType string

const (
	// ValueLiteral is a plain or typed literal
	ValueLiteral ValueType = "literal"
	// ValueURI is a resource
	ValueURI ValueType = "uri"
)

// Value is a query variable bound in a result row.
//
// For resources, URI holds the raw URI and Identifier the bare object identifier
// when the URI is repository-internal (e.g. info:fedora/test:1 yields test:1).
type Value struct {
	Type       ValueType `json:"type" yaml:"type"`
	Literal    string    `json:"literal,omitempty" yaml:"literal,omitempty"`
	URI        string    `json:"uri,omitempty" yaml:"uri,omitempty"`
	Identifier string    `json:"identifier,omitempty" yaml:"identifier,omitempty"`
}

// String yields the most useful representation of the value:
// the bare identifier, else the URI, else the literal.
func (v Value) String() string {
	switch {
	case v.Identifier != "":
		return v.Identifier
	case v.Type == ValueURI:
		return v.URI
	default:
		return v.Literal
	}
}

// Binding is a result row: variable names mapped to values, in document order
type Binding struct {
	names  []string
	values map[string]Value
}

// NewBinding builds an empty row
func NewBinding() Binding {
	return Binding{values: make(map[string]Value)}
}

// Set binds a variable. Rebinding a variable keeps its original position.
func (b *Binding) Set(name string, v Value) {
	if b.values == nil {
		b.values = make(map[string]Value)
	}
	if _, ok := b.values[name]; !ok {
		b.names = append(b.names, name)
	}
	b.values[name] = v
}

// Get yields the value bound to a variable
func (b Binding) Get(name string) (Value, bool) {
	v, ok := b.values[name]
	return v, ok
}

// Names yields the bound variables in document order
func (b Binding) Names() []string {
	return append([]string(nil), b.names...)
}

// Len yields the number of bound variables
func (b Binding) Len() int {
	return len(b.names)
}
