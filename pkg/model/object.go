package model

import (
	"fmt"
	"time"
)

// State is the lifecycle state of an object or a datastream
type State string

const (
	// StateActive is the default state
	StateActive State = "A"
	// StateInactive flags a hidden resource
	StateInactive State = "I"
	// StateDeleted flags a logically deleted resource
	StateDeleted State = "D"
)

// ParseState accepts single letter codes as well as full state names
func ParseState(s string) (State, error) {
	switch s {
	case "A", "a", "Active", "active":
		return StateActive, nil
	case "I", "i", "Inactive", "inactive":
		return StateInactive, nil
	case "D", "d", "Deleted", "deleted":
		return StateDeleted, nil
	default:
		return "", fmt.Errorf("invalid state %q: expected one of A, I, D", s)
	}
}

// Valid tells if the state is one of the known states
func (s State) Valid() bool {
	return s == StateActive || s == StateInactive || s == StateDeleted
}

// String yields the full state name
func (s State) String() string {
	switch s {
	case StateActive:
		return "Active"
	case StateInactive:
		return "Inactive"
	case StateDeleted:
		return "Deleted"
	default:
		return string(s)
	}
}

// ObjectProfile describes the metadata of a persisted object
type ObjectProfile struct {
	PID              string    `json:"pid" yaml:"pid"`
	Label            string    `json:"label,omitempty" yaml:"label,omitempty"`
	OwnerID          string    `json:"ownerId,omitempty" yaml:"ownerId,omitempty"`
	State            State     `json:"state" yaml:"state"`
	CreatedDate      time.Time `json:"createdDate" yaml:"createdDate"`
	LastModifiedDate time.Time `json:"lastModifiedDate" yaml:"lastModifiedDate"`
	Models           []string  `json:"models,omitempty" yaml:"models,omitempty"`
	_                struct{}
}

// ObjectFields describes a mutation of the object metadata. Nil fields are left unchanged.
type ObjectFields struct {
	Label      *string
	OwnerID    *string
	State      *State
	LogMessage string
}

// Empty tells if the mutation changes nothing
func (f ObjectFields) Empty() bool {
	return f.Label == nil && f.OwnerID == nil && f.State == nil
}

// ObjectDocument is the complete description of an object submitted at ingest time.
//
// Serializing it to a wire format is the responsibility of the transport.
type ObjectDocument struct {
	PID         string               `json:"pid" yaml:"pid"`
	Label       string               `json:"label,omitempty" yaml:"label,omitempty"`
	OwnerID     string               `json:"ownerId,omitempty" yaml:"ownerId,omitempty"`
	State       State                `json:"state" yaml:"state"`
	Datastreams []DocumentDatastream `json:"datastreams,omitempty" yaml:"datastreams,omitempty"`
	_           struct{}
}

// DocumentDatastream is a datastream embedded in an ObjectDocument.
//
// Managed content is referenced by Location (usually an upload reference),
// inline XML content is carried by Content.
type DocumentDatastream struct {
	Info     DatastreamInfo `json:"info" yaml:"info"`
	Location string         `json:"location,omitempty" yaml:"location,omitempty"`
	Content  []byte         `json:"content,omitempty" yaml:"content,omitempty"`
	_        struct{}
}
