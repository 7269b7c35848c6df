package rels

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"sort"

	"github.com/jonathangreen/tuque-sub001/pkg/model"
)

// Graph holds the triples of a relationship document, grouped by subject in document order
type Graph struct {
	subjects []string
	triples  map[string][]model.Triple
}

// NewGraph builds an empty graph
func NewGraph() *Graph {
	return &Graph{triples: make(map[string][]model.Triple)}
}

// Subjects yields the subjects of the graph, in document order
func (g *Graph) Subjects() []string {
	return append([]string(nil), g.subjects...)
}

// Triples yields a copy of the triples of a subject
func (g *Graph) Triples(subject string) []model.Triple {
	return append([]model.Triple(nil), g.triples[subject]...)
}

// SetTriples replaces the triples of a subject
func (g *Graph) SetTriples(subject string, triples []model.Triple) {
	if _, ok := g.triples[subject]; !ok {
		g.subjects = append(g.subjects, subject)
	}
	g.triples[subject] = append([]model.Triple(nil), triples...)
}

func (g *Graph) append(subject string, t model.Triple) {
	if _, ok := g.triples[subject]; !ok {
		g.subjects = append(g.subjects, subject)
	}
	g.triples[subject] = append(g.triples[subject], t)
}

// property is a predicate element of a description
type property struct {
	XMLName  xml.Name
	Resource string `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# resource,attr"`
	Datatype string `xml:"http://www.w3.org/1999/02/22-rdf-syntax-ns# datatype,attr"`
	Text     string `xml:",chardata"`
}

// Decode parses a RDF/XML relationship document.
//
// An empty document yields an empty graph.
func Decode(r io.Reader) (*Graph, error) {
	g := NewGraph()
	d := xml.NewDecoder(r)

	root, err := nextStart(d)
	if err == io.EOF {
		return g, nil
	}
	if err != nil {
		return nil, fmt.Errorf("decoding relationships: %w", err)
	}
	if root.Name.Space != model.RDFNamespace || root.Name.Local != "RDF" {
		return nil, fmt.Errorf("decoding relationships: unexpected root element %s:%s", root.Name.Space, root.Name.Local)
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return nil, fmt.Errorf("decoding relationships: %w", err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if err := decodeDescription(d, el, g); err != nil {
				return nil, err
			}
		case xml.EndElement:
			// end of rdf:RDF
			return g, nil
		}
	}
}

func nextStart(d *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := d.Token()
		if err != nil {
			return xml.StartElement{}, err
		}
		if el, ok := tok.(xml.StartElement); ok {
			return el, nil
		}
	}
}

func decodeDescription(d *xml.Decoder, start xml.StartElement, g *Graph) error {
	var subject string
	for _, a := range start.Attr {
		if a.Name.Space == model.RDFNamespace && a.Name.Local == "about" {
			subject = a.Value
		}
	}
	if subject == "" {
		return fmt.Errorf("decoding relationships: description %s without rdf:about", start.Name.Local)
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return fmt.Errorf("decoding relationships of %s: %w", subject, err)
		}
		switch el := tok.(type) {
		case xml.StartElement:
			var p property
			if err := d.DecodeElement(&p, &el); err != nil {
				return fmt.Errorf("decoding relationships of %s: %w", subject, err)
			}
			t := model.Triple{
				Namespace: p.XMLName.Space,
				Predicate: p.XMLName.Local,
			}
			if p.Resource != "" {
				t.Value = p.Resource
			} else {
				t.Value = p.Text
				t.Literal = true
				t.Datatype = p.Datatype
			}
			g.append(subject, t)
		case xml.EndElement:
			if _, ok := g.triples[subject]; !ok {
				g.SetTriples(subject, nil)
			}
			return nil
		}
	}
}

// Encode serializes a graph as RDF/XML. Subjects without triples are omitted.
func Encode(g *Graph) ([]byte, error) {
	prefixes, order := assignPrefixes(g)

	var buf bytes.Buffer
	buf.WriteString(`<rdf:RDF`)
	for _, ns := range order {
		fmt.Fprintf(&buf, ` xmlns:%s="`, prefixes[ns])
		if err := xml.EscapeText(&buf, []byte(ns)); err != nil {
			return nil, err
		}
		buf.WriteString(`"`)
	}
	buf.WriteString(">\n")

	for _, subject := range g.subjects {
		triples := g.triples[subject]
		if len(triples) == 0 {
			continue
		}
		buf.WriteString(`  <rdf:Description rdf:about="`)
		if err := xml.EscapeText(&buf, []byte(subject)); err != nil {
			return nil, err
		}
		buf.WriteString("\">\n")
		for _, t := range triples {
			if t.Namespace == "" || t.Predicate == "" {
				return nil, fmt.Errorf("encoding relationships of %s: incomplete predicate %q", subject, t.PredicateURI())
			}
			name := prefixes[t.Namespace] + ":" + t.Predicate
			buf.WriteString("    <" + name)
			switch {
			case !t.Literal:
				buf.WriteString(` rdf:resource="`)
				if err := xml.EscapeText(&buf, []byte(t.Value)); err != nil {
					return nil, err
				}
				buf.WriteString("\"/>\n")
				continue
			case t.Datatype != "":
				buf.WriteString(` rdf:datatype="`)
				if err := xml.EscapeText(&buf, []byte(t.Datatype)); err != nil {
					return nil, err
				}
				buf.WriteString(`"`)
			}
			buf.WriteString(">")
			if err := xml.EscapeText(&buf, []byte(t.Value)); err != nil {
				return nil, err
			}
			buf.WriteString("</" + name + ">\n")
		}
		buf.WriteString("  </rdf:Description>\n")
	}
	buf.WriteString("</rdf:RDF>\n")
	return buf.Bytes(), nil
}

// assignPrefixes yields a prefix for every namespace in use, rdf first then sorted by prefix
func assignPrefixes(g *Graph) (map[string]string, []string) {
	prefixes := map[string]string{model.RDFNamespace: model.DefaultPrefixes[model.RDFNamespace]}
	taken := map[string]bool{prefixes[model.RDFNamespace]: true}
	var unknown []string
	for _, subject := range g.subjects {
		for _, t := range g.triples[subject] {
			if _, ok := prefixes[t.Namespace]; ok {
				continue
			}
			if p, ok := model.DefaultPrefixes[t.Namespace]; ok {
				prefixes[t.Namespace] = p
				taken[p] = true
				continue
			}
			prefixes[t.Namespace] = ""
			unknown = append(unknown, t.Namespace)
		}
	}
	n := 0
	for _, ns := range unknown {
		for {
			p := fmt.Sprintf("ns%d", n)
			n++
			if !taken[p] {
				prefixes[ns] = p
				taken[p] = true
				break
			}
		}
	}

	order := make([]string, 0, len(prefixes))
	for ns := range prefixes {
		if ns != model.RDFNamespace {
			order = append(order, ns)
		}
	}
	sort.Slice(order, func(i, j int) bool { return prefixes[order[i]] < prefixes[order[j]] })
	return prefixes, append([]string{model.RDFNamespace}, order...)
}
