package model

// Triple is a relationship from a subject to an object value.
//
// The subject is implied by the relationship set holding the triple.
type Triple struct {
	Namespace string `json:"namespace" yaml:"namespace"`
	Predicate string `json:"predicate" yaml:"predicate"`
	Value     string `json:"value" yaml:"value"`
	Literal   bool   `json:"literal,omitempty" yaml:"literal,omitempty"`
	Datatype  string `json:"datatype,omitempty" yaml:"datatype,omitempty"`
}

// PredicateURI yields the full predicate URI
func (t Triple) PredicateURI() string {
	return t.Namespace + t.Predicate
}

// Matches tells if the triple satisfies a filter. Empty filter values match anything.
//
// A bare identifier matches the resource it designates.
func (t Triple) Matches(namespace, predicate, value string) bool {
	if namespace != "" && t.Namespace != namespace {
		return false
	}
	if predicate != "" && t.Predicate != predicate {
		return false
	}
	if value != "" && t.Value != value && (t.Literal || t.Value != ResourceURI(value)) {
		return false
	}
	return true
}

// ObjectIdentifier yields the identifier referenced by a resource triple
func (t Triple) ObjectIdentifier() (string, bool) {
	if t.Literal {
		return "", false
	}
	return URIToIdentifier(t.Value)
}
