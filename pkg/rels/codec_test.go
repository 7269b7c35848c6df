package rels

import (
	"bytes"
	"strings"
	"testing"

	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	g := NewGraph()
	g.SetTriples("info:fedora/test:1", []model.Triple{
		{Namespace: model.ModelNamespace, Predicate: model.PredicateHasModel, Value: "info:fedora/islandora:collectionCModel"},
		{Namespace: "http://example.org/x#", Predicate: "title", Value: `a "quoted" <title> & more`, Literal: true},
		{Namespace: "http://example.org/y#", Predicate: "when", Value: "2020-01-01T00:00:00Z", Literal: true, Datatype: model.XSDDateTime},
	})
	g.SetTriples("info:fedora/test:1/DS", nil)
	g.SetTriples("info:fedora/test:2", []model.Triple{
		{Namespace: model.RelsExtNamespace, Predicate: model.PredicateIsMemberOf, Value: "info:fedora/test:1"},
	})

	data, err := Encode(g)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `<rdf:RDF xmlns:rdf="`+model.RDFNamespace+`"`))
	assert.Contains(t, string(data), `xmlns:ns0="http://example.org/x#"`)
	assert.Contains(t, string(data), `<fedora-model:hasModel rdf:resource="info:fedora/islandora:collectionCModel"/>`)

	decoded, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, []string{"info:fedora/test:1", "info:fedora/test:2"}, decoded.Subjects())
	assert.Equal(t, g.Triples("info:fedora/test:1"), decoded.Triples("info:fedora/test:1"))
	assert.Equal(t, g.Triples("info:fedora/test:2"), decoded.Triples("info:fedora/test:2"))
}

func TestDecode(t *testing.T) {
	for _, toPin := range []struct {
		name    string
		doc     string
		wantErr bool
		count   int
	}{
		{name: "empty", doc: ""},
		{name: "blank", doc: "  \n"},
		{name: "no descriptions", doc: `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"/>`},
		{
			name:  "one triple",
			doc:   `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#" xmlns:x="urn:x#"><rdf:Description rdf:about="info:fedora/a:1"><x:p>v</x:p></rdf:Description></rdf:RDF>`,
			count: 1,
		},
		{name: "wrong root", doc: `<foo/>`, wantErr: true},
		{name: "truncated", doc: `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"><rdf:Description`, wantErr: true},
		{
			name:    "no subject",
			doc:     `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"><rdf:Description/></rdf:RDF>`,
			wantErr: true,
		},
	} {
		fixture := toPin
		t.Run(fixture.name, func(t *testing.T) {
			g, err := Decode(strings.NewReader(fixture.doc))
			if fixture.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, g.Triples("info:fedora/a:1"), fixture.count)
		})
	}
}
