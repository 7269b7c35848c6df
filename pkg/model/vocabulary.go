package model

// Namespace IRIs of the vocabularies used in relationship datastreams.
const (
	RDFNamespace              = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RelsExtNamespace          = "info:fedora/fedora-system:def/relations-external#"
	ModelNamespace            = "info:fedora/fedora-system:def/model#"
	ViewNamespace             = "info:fedora/fedora-system:def/view#"
	IslandoraRelsExtNamespace = "http://islandora.ca/ontology/relsext#"
	IslandoraRelsIntNamespace = "http://islandora.ca/ontology/relsint#"
	XSDNamespace              = "http://www.w3.org/2001/XMLSchema#"
)

// Well known predicates.
const (
	// PredicateIsMemberOfCollection links an object to a collection (RelsExtNamespace)
	PredicateIsMemberOfCollection = "isMemberOfCollection"
	// PredicateIsMemberOf links an object to a parent object (RelsExtNamespace)
	PredicateIsMemberOf = "isMemberOf"
	// PredicateHasModel links an object to its content models (ModelNamespace)
	PredicateHasModel = "hasModel"
)

// XSD datatypes for typed literals.
const (
	XSDString   = XSDNamespace + "string"
	XSDInt      = XSDNamespace + "int"
	XSDDateTime = XSDNamespace + "dateTime"
)

// Reserved datastream identifiers.
const (
	RelsExtDatastream = "RELS-EXT"
	RelsIntDatastream = "RELS-INT"
	DCDatastream      = "DC"
)

// DefaultPrefixes maps well known namespaces to the prefix used when serializing RDF
var DefaultPrefixes = map[string]string{
	RDFNamespace:              "rdf",
	RelsExtNamespace:          "fedora",
	ModelNamespace:            "fedora-model",
	ViewNamespace:             "fedora-view",
	IslandoraRelsExtNamespace: "islandora",
	IslandoraRelsIntNamespace: "islandora-relsint",
}
