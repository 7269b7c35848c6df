// Package status exports the sentinel errors produced by the transport
// collaborators and the repository packages.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/repository and the
// implementations of pkg/transport.
package status

import (
	"fmt"

	"github.com/jonathangreen/tuque-sub001/pkg/errors"
)

var (
	// ErrNotFound indicates that an identifier does not resolve to an object or datastream
	ErrNotFound = errors.New("not found")

	// ErrConcurrentModification indicates a mutation carried a stale last-modified timestamp
	ErrConcurrentModification = errors.New("concurrent modification")

	// ErrAttributeReadOnly indicates a write or clear was attempted on a read-only attribute
	ErrAttributeReadOnly = errors.New("attribute is read-only")

	// ErrUnknownAttribute indicates that an attribute name has no handler and no plain field
	ErrUnknownAttribute = errors.New("unknown attribute")

	// ErrInvalidAttributeValue indicates that a value of the wrong type was assigned to an attribute
	ErrInvalidAttributeValue = errors.New("invalid attribute value")

	// ErrDuplicateDatastream indicates that a datastream id already exists in its object.
	//
	// The repository reports this condition as a boolean result, this sentinel is used by callers
	// which need an error value.
	ErrDuplicateDatastream = errors.New("datastream already exists")

	// ErrMalformedQueryResult indicates a graph query response could not be parsed
	ErrMalformedQueryResult = errors.New("malformed query result")

	// ErrTransportFailure is matched by every TransportError
	ErrTransportFailure = errors.New("transport failure")

	// ErrNotSupported indicates that a collaborator does not support this call
	ErrNotSupported = errors.New("not supported")

	// ErrInvalidIdentifier indicates an object or datastream identifier is malformed
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrUnconstrainedRemove indicates a relationship removal was attempted without any filter
	ErrUnconstrainedRemove = errors.New("relationship removal requires at least one constraint")

	// ErrExists indicates that the resource already exists and cannot be overridden
	ErrExists = errors.New("exists already")
)

// TransportError is an opaque failure reported by a transport collaborator.
//
// It carries the original status code and matches ErrTransportFailure.
type TransportError struct {
	Op   string
	Code int
	Err  error
}

// NewTransportError builds a transport failure for an operation
func NewTransportError(op string, code int, err error) *TransportError {
	return &TransportError{Op: op, Code: code, Err: err}
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s (code %d)", e.Op, ErrTransportFailure, e.Code)
	}
	return fmt.Sprintf("%s: %s (code %d): %v", e.Op, ErrTransportFailure, e.Code, e.Err)
}

// Unwrap yields the original cause
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is matches ErrTransportFailure
func (e *TransportError) Is(target error) bool {
	return target == ErrTransportFailure
}
