package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jonathangreen/tuque-sub001/pkg/status"
)

const (
	// FedoraURIPrefix is the URI scheme prefix of repository-internal resources
	FedoraURIPrefix = "info:fedora/"

	// MaxIdentifierLength is the maximum length of an object identifier
	MaxIdentifierLength = 64
)

var (
	pidRe       = regexp.MustCompile(`^([A-Za-z0-9]|-|\.)+:(([A-Za-z0-9])|-|\.|~|_|(%[0-9A-F]{2}))+$`)
	namespaceRe = regexp.MustCompile(`^([A-Za-z0-9]|-|\.)+$`)
	dsIDRe      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)
)

// ValidateIdentifier checks the syntax of an object identifier
func ValidateIdentifier(pid string) error {
	if len(pid) > MaxIdentifierLength {
		return status.ErrInvalidIdentifier.WrapMessage(fmt.Sprintf("identifier %q is longer than %d characters", pid, MaxIdentifierLength))
	}
	if !pidRe.MatchString(pid) {
		return status.ErrInvalidIdentifier.WrapMessage(fmt.Sprintf("identifier %q is not of the form namespace:id", pid))
	}
	return nil
}

// ValidateNamespace checks the syntax of an identifier namespace
func ValidateNamespace(namespace string) error {
	if !namespaceRe.MatchString(namespace) {
		return status.ErrInvalidIdentifier.WrapMessage(fmt.Sprintf("invalid namespace %q", namespace))
	}
	return nil
}

// ValidateDatastreamID checks the syntax of a datastream identifier
func ValidateDatastreamID(dsID string) error {
	if len(dsID) > MaxIdentifierLength || !dsIDRe.MatchString(dsID) {
		return status.ErrInvalidIdentifier.WrapMessage(fmt.Sprintf("invalid datastream identifier %q", dsID))
	}
	return nil
}

// SplitIdentifier yields the namespace and local parts of an identifier
func SplitIdentifier(pid string) (string, string) {
	parts := strings.SplitN(pid, ":", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// IdentifierToURI yields the repository-internal URI of an object
func IdentifierToURI(pid string) string {
	return FedoraURIPrefix + pid
}

// DatastreamURI yields the repository-internal URI of a datastream
func DatastreamURI(pid, dsID string) string {
	return FedoraURIPrefix + pid + "/" + dsID
}

// URIToIdentifier strips the repository-internal prefix from a URI.
//
// It returns false when the URI does not use this prefix.
func URIToIdentifier(uri string) (string, bool) {
	if !strings.HasPrefix(uri, FedoraURIPrefix) {
		return "", false
	}
	return strings.TrimPrefix(uri, FedoraURIPrefix), true
}

// ResourceURI yields the URI of a relationship object: bare identifiers get the
// repository-internal prefix, URIs are kept as is.
func ResourceURI(value string) string {
	if strings.HasPrefix(value, "info:") || strings.HasPrefix(value, "urn:") || strings.Contains(value, "://") {
		return value
	}
	return IdentifierToURI(value)
}
