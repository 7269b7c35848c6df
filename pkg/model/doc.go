// Package model describes the base objects manipulated by the repository client.
//
// The object model is composed of:
//
//  Objects:
//    A repository object is identified by a "namespace:local-id" identifier. It carries
//    metadata (label, owner, state, timestamps) and is composed of datastreams.
//
//  Datastreams:
//    A datastream is a named unit of content attached to an object. Its control group
//    tells where the content lives. Each modification adds a version.
//
//  Triples:
//    Relationships from an object (or a datastream) to other objects or literals,
//    persisted in the RELS-EXT (resp. RELS-INT) datastream and indexed for graph queries.
//
//  Bindings:
//    Rows returned by a graph query.
package model
