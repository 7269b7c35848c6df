package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBindingOrder(t *testing.T) {
	b := NewBinding()
	b.Set("title", Value{Type: ValueLiteral, Literal: "a title"})
	b.Set("pid", Value{Type: ValueURI, URI: "info:fedora/test:1", Identifier: "test:1"})
	b.Set("title", Value{Type: ValueLiteral, Literal: "another"})

	assert.Equal(t, []string{"title", "pid"}, b.Names())
	assert.Equal(t, 2, b.Len())

	v, ok := b.Get("title")
	assert.True(t, ok)
	assert.Equal(t, "another", v.String())

	v, _ = b.Get("pid")
	assert.Equal(t, "test:1", v.String())

	_, ok = b.Get("missing")
	assert.False(t, ok)

	var zero Binding
	zero.Set("x", Value{Type: ValueURI, URI: "http://example.org/x"})
	v, _ = zero.Get("x")
	assert.Equal(t, "http://example.org/x", v.String())
}

func TestTripleMatches(t *testing.T) {
	tr := Triple{Namespace: RelsExtNamespace, Predicate: PredicateIsMemberOf, Value: "info:fedora/test:parent"}

	assert.True(t, tr.Matches("", "", ""))
	assert.True(t, tr.Matches(RelsExtNamespace, "", ""))
	assert.True(t, tr.Matches("", PredicateIsMemberOf, "info:fedora/test:parent"))
	assert.True(t, tr.Matches("", "", "test:parent"))
	assert.False(t, tr.Matches(ModelNamespace, "", ""))
	assert.False(t, tr.Matches("", "", "x"))
	assert.Equal(t, RelsExtNamespace+PredicateIsMemberOf, tr.PredicateURI())

	pid, ok := tr.ObjectIdentifier()
	assert.True(t, ok)
	assert.Equal(t, "test:parent", pid)

	tr.Literal = true
	_, ok = tr.ObjectIdentifier()
	assert.False(t, ok)
}

func TestParseEnums(t *testing.T) {
	s, err := ParseState("inactive")
	assert.NoError(t, err)
	assert.Equal(t, StateInactive, s)
	assert.Equal(t, "Inactive", s.String())
	_, err = ParseState("X")
	assert.Error(t, err)

	cg, err := ParseControlGroup("R")
	assert.NoError(t, err)
	assert.True(t, cg.IsReference())
	_, err = ParseControlGroup("Z")
	assert.Error(t, err)
}
