// Package transport defines the contract between the repository client and the
// service actually holding objects.
//
// Implementations deal with the wire protocol, authentication and retries. They must
// report failures with the sentinel errors of pkg/status: status.ErrNotFound for unknown
// identifiers, status.ErrConcurrentModification for stale timestamps, and a
// *status.TransportError for anything else.
package transport

import (
	"context"
	"io"
	"time"

	"github.com/jonathangreen/tuque-sub001/pkg/model"
)

// Query result formats understood by RunGraphQuery
const (
	FormatSparql = "Sparql"
	FormatCount  = "count"
)

// Query languages understood by RunGraphQuery
const (
	LanguageSparql = "sparql"
	LanguageItql   = "itql"
)

// Transport is the collaborator performing repository calls.
//
// A zero expected timestamp disables the optimistic concurrency check of a mutation.
type Transport interface {
	// FetchProfile retrieves the metadata of an object
	FetchProfile(ctx context.Context, pid string) (model.ObjectProfile, error)

	// ListDatastreams lists the datastreams of an object, in repository order
	ListDatastreams(ctx context.Context, pid string) ([]model.DatastreamEntry, error)

	// FetchDatastreamInfo retrieves the current version of a datastream
	FetchDatastreamInfo(ctx context.Context, pid, dsID string) (model.DatastreamInfo, error)

	// FetchDatastreamHistory retrieves all versions of a datastream, newest first
	FetchDatastreamHistory(ctx context.Context, pid, dsID string) ([]model.DatastreamInfo, error)

	// FetchDatastreamContent streams the content of a datastream as of some date.
	// A zero date yields the current version.
	FetchDatastreamContent(ctx context.Context, pid, dsID string, asOf time.Time) (io.ReadCloser, error)

	// MutateObject changes the metadata of an object and returns its new last-modified date
	MutateObject(ctx context.Context, pid string, fields model.ObjectFields, expected time.Time) (time.Time, error)

	// AddDatastream creates a datastream
	AddDatastream(ctx context.Context, pid, dsID string, source model.ContentSource, params model.DatastreamParams) (model.DatastreamInfo, error)

	// ModifyDatastream changes a datastream, and its content when source is not nil.
	// The expected date is the creation date of the current version.
	ModifyDatastream(ctx context.Context, pid, dsID string, source *model.ContentSource, params model.DatastreamParams, expected time.Time) (model.DatastreamInfo, error)

	// PurgeDatastream removes a datastream with all its versions
	PurgeDatastream(ctx context.Context, pid, dsID string) (bool, error)

	// IngestDocument creates an object and returns its identifier
	IngestDocument(ctx context.Context, doc model.ObjectDocument, logMessage string) (string, error)

	// PurgeObject physically removes an object
	PurgeObject(ctx context.Context, pid string) (bool, error)

	// Upload stages content and returns a reference usable as a content location
	Upload(ctx context.Context, content io.Reader) (string, error)

	// RunGraphQuery runs a query against the relationship index and streams the raw response
	RunGraphQuery(ctx context.Context, query, language string, limit int, format string) (io.ReadCloser, error)

	// NextIdentifier mints new object identifiers. An empty namespace uses the repository default.
	NextIdentifier(ctx context.Context, namespace string, count int) ([]string, error)
}
