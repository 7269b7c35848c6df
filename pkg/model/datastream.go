package model

import (
	"fmt"
	"io"
	"time"
)

// ControlGroup tells how the content of a datastream is physically stored
type ControlGroup string

const (
	// ControlGroupManaged content is stored by the repository
	ControlGroupManaged ControlGroup = "M"
	// ControlGroupRedirect content lives at an URL the client is redirected to
	ControlGroupRedirect ControlGroup = "R"
	// ControlGroupExternal content lives at an URL fetched by the repository
	ControlGroupExternal ControlGroup = "E"
	// ControlGroupInline content is XML embedded in the object document
	ControlGroupInline ControlGroup = "X"
)

// ParseControlGroup validates a control group code
func ParseControlGroup(s string) (ControlGroup, error) {
	cg := ControlGroup(s)
	if !cg.Valid() {
		return "", fmt.Errorf("invalid control group %q: expected one of M, R, E, X", s)
	}
	return cg, nil
}

// Valid tells if the control group is known
func (c ControlGroup) Valid() bool {
	switch c {
	case ControlGroupManaged, ControlGroupRedirect, ControlGroupExternal, ControlGroupInline:
		return true
	default:
		return false
	}
}

// IsReference tells if content lives outside of the repository and is accessed by URL
func (c ControlGroup) IsReference() bool {
	return c == ControlGroupRedirect || c == ControlGroupExternal
}

// DatastreamEntry is the summary returned when listing datastreams
type DatastreamEntry struct {
	ID       string `json:"id" yaml:"id"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty"`
	MimeType string `json:"mimeType,omitempty" yaml:"mimeType,omitempty"`
}

// DatastreamInfo describes one version of a datastream
type DatastreamInfo struct {
	ID           string       `json:"id" yaml:"id"`
	VersionID    string       `json:"versionId,omitempty" yaml:"versionId,omitempty"`
	Label        string       `json:"label,omitempty" yaml:"label,omitempty"`
	ControlGroup ControlGroup `json:"controlGroup" yaml:"controlGroup"`
	State        State        `json:"state" yaml:"state"`
	MimeType     string       `json:"mimeType,omitempty" yaml:"mimeType,omitempty"`
	FormatURI    string       `json:"formatUri,omitempty" yaml:"formatUri,omitempty"`
	Versionable  bool         `json:"versionable" yaml:"versionable"`
	Checksum     string       `json:"checksum,omitempty" yaml:"checksum,omitempty"`
	ChecksumType string       `json:"checksumType,omitempty" yaml:"checksumType,omitempty"`
	Size         int64        `json:"size" yaml:"size"`
	Location     string       `json:"location,omitempty" yaml:"location,omitempty"`
	CreatedDate  time.Time    `json:"createdDate" yaml:"createdDate"`
	_            struct{}
}

// Entry yields the listing summary of a datastream
func (d DatastreamInfo) Entry() DatastreamEntry {
	return DatastreamEntry{ID: d.ID, Label: d.Label, MimeType: d.MimeType}
}

// DatastreamParams carries the settable properties of a datastream for add and modify calls.
// Nil fields are left to their current (or default) value.
type DatastreamParams struct {
	ControlGroup ControlGroup
	Label        *string
	State        *State
	MimeType     *string
	FormatURI    *string
	Versionable  *bool
	ChecksumType *string
	Checksum     *string
	LogMessage   string
}

// Params yields the add parameters reproducing a datastream description
func (d DatastreamInfo) Params() DatastreamParams {
	label, state, mime, format, versionable, checksumType := d.Label, d.State, d.MimeType, d.FormatURI, d.Versionable, d.ChecksumType
	return DatastreamParams{
		ControlGroup: d.ControlGroup,
		Label:        &label,
		State:        &state,
		MimeType:     &mime,
		FormatURI:    &format,
		Versionable:  &versionable,
		ChecksumType: &checksumType,
	}
}

// Apply updates a datastream description with parameters
func (p DatastreamParams) Apply(d *DatastreamInfo) {
	if p.Label != nil {
		d.Label = *p.Label
	}
	if p.State != nil {
		d.State = *p.State
	}
	if p.MimeType != nil {
		d.MimeType = *p.MimeType
	}
	if p.FormatURI != nil {
		d.FormatURI = *p.FormatURI
	}
	if p.Versionable != nil {
		d.Versionable = *p.Versionable
	}
	if p.ChecksumType != nil {
		d.ChecksumType = *p.ChecksumType
	}
	if p.Checksum != nil {
		d.Checksum = *p.Checksum
	}
}

// ContentSource tells where the content of a datastream comes from.
//
// Exactly one of Location (an URL or an upload reference) and Body should be set.
type ContentSource struct {
	Location string
	Body     io.Reader
}

// IsZero tells if no content is provided
func (c ContentSource) IsZero() bool {
	return c.Location == "" && c.Body == nil
}
