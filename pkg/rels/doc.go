// Package rels manages RDF relationships stored in the RELS-EXT and RELS-INT datastreams.
//
// A relationship datastream is a small RDF/XML document: one rdf:Description per subject,
// one child element per triple. Relationships is scoped to a single subject, and preserves
// the triples of other subjects found in the same document.
package rels
