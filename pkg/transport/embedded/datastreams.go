package embedded

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/jonathangreen/tuque-sub001/pkg/model"
	"github.com/jonathangreen/tuque-sub001/pkg/rels"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"go.uber.org/zap"
)

const (
	defaultMimeType    = "application/octet-stream"
	defaultXMLMimeType = "text/xml"
)

// ListDatastreams lists the datastreams of an object in creation order
func (t *Transport) ListDatastreams(ctx context.Context, pid string) ([]model.DatastreamEntry, error) {
	rec, err := t.getObject(ctx, pid)
	if err != nil {
		return nil, err
	}
	entries := make([]model.DatastreamEntry, 0, len(rec.Datastreams))
	for _, dsID := range rec.Datastreams {
		versions, err := t.getVersions(ctx, pid, dsID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, versions.Versions[0].Entry())
	}
	return entries, nil
}

// FetchDatastreamInfo yields the current version of a datastream
func (t *Transport) FetchDatastreamInfo(ctx context.Context, pid, dsID string) (model.DatastreamInfo, error) {
	history, err := t.FetchDatastreamHistory(ctx, pid, dsID)
	if err != nil {
		return model.DatastreamInfo{}, err
	}
	return history[0], nil
}

// FetchDatastreamHistory yields all the versions of a datastream, newest first
func (t *Transport) FetchDatastreamHistory(ctx context.Context, pid, dsID string) ([]model.DatastreamInfo, error) {
	rec, err := t.getObject(ctx, pid)
	if err != nil {
		return nil, err
	}
	if !rec.hasDatastream(dsID) {
		return nil, status.ErrNotFound.WrapMessage(fmt.Sprintf("datastream %s of %s", dsID, pid))
	}
	versions, err := t.getVersions(ctx, pid, dsID)
	if err != nil {
		return nil, err
	}
	return versions.Versions, nil
}

// FetchDatastreamContent streams the content of the version current at some date.
//
// Redirect and external datastreams have no content in the repository: callers use their location.
func (t *Transport) FetchDatastreamContent(ctx context.Context, pid, dsID string, asOf time.Time) (io.ReadCloser, error) {
	history, err := t.FetchDatastreamHistory(ctx, pid, dsID)
	if err != nil {
		return nil, err
	}
	version, ok := versionAt(history, asOf)
	if !ok {
		return nil, status.ErrNotFound.WrapMessage(fmt.Sprintf("datastream %s of %s did not exist at %s", dsID, pid, asOf.Format(time.RFC3339Nano)))
	}
	if version.ControlGroup.IsReference() {
		return nil, status.ErrNotSupported.WrapMessage(fmt.Sprintf("datastream %s of %s is a reference to %s", dsID, pid, version.Location))
	}
	return t.store.Get(ctx, model.GetPathToDatastreamContent(pid, dsID, version.VersionID))
}

func versionAt(history []model.DatastreamInfo, asOf time.Time) (model.DatastreamInfo, bool) {
	if asOf.IsZero() {
		return history[0], true
	}
	for _, v := range history {
		if !v.CreatedDate.After(asOf) {
			return v, true
		}
	}
	return model.DatastreamInfo{}, false
}

// AddDatastream creates a datastream with its first version
func (t *Transport) AddDatastream(ctx context.Context, pid, dsID string, source model.ContentSource, params model.DatastreamParams) (model.DatastreamInfo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, err := t.getObject(ctx, pid)
	if err != nil {
		return model.DatastreamInfo{}, err
	}
	if rec.hasDatastream(dsID) {
		return model.DatastreamInfo{}, status.ErrDuplicateDatastream.WrapMessage(fmt.Sprintf("datastream %s of %s", dsID, pid))
	}
	ts := t.touch(&rec.Profile)
	info, err := t.createDatastream(ctx, rec, dsID, source, params, ts)
	if err != nil {
		return model.DatastreamInfo{}, err
	}
	if err := t.putRecord(ctx, model.GetPathToObject(pid), rec); err != nil {
		return model.DatastreamInfo{}, err
	}
	t.l.Debug("datastream added", zap.String("pid", pid), zap.String("dsid", dsID), zap.String("log", params.LogMessage))
	return info, nil
}

// createDatastream stores the first version of a datastream and registers it in the object record.
// The caller saves the object record.
func (t *Transport) createDatastream(ctx context.Context, rec *objectRecord, dsID string, source model.ContentSource, params model.DatastreamParams, ts time.Time) (model.DatastreamInfo, error) {
	if err := model.ValidateDatastreamID(dsID); err != nil {
		return model.DatastreamInfo{}, err
	}
	cg := params.ControlGroup
	if cg == "" {
		cg = model.ControlGroupManaged
	}
	if !cg.Valid() {
		return model.DatastreamInfo{}, status.ErrInvalidAttributeValue.WrapMessage(fmt.Sprintf("invalid control group %q", cg))
	}

	pid := rec.Profile.PID
	info := model.DatastreamInfo{
		ID:           dsID,
		VersionID:    versionID(dsID, 0),
		ControlGroup: cg,
		State:        model.StateActive,
		MimeType:     defaultMimeType,
		Versionable:  true,
		CreatedDate:  ts,
	}
	if cg == model.ControlGroupInline {
		info.MimeType = defaultXMLMimeType
	}
	params.Apply(&info)
	info.Checksum = ""
	if !info.State.Valid() {
		return model.DatastreamInfo{}, status.ErrInvalidAttributeValue.WrapMessage(fmt.Sprintf("invalid state %q", info.State))
	}
	if err := t.writeContent(ctx, pid, &info, source, params.Checksum); err != nil {
		return model.DatastreamInfo{}, err
	}
	if err := t.putRecord(ctx, model.GetPathToDatastreamVersions(pid, dsID), versionsRecord{
		Versions: []model.DatastreamInfo{info},
		Serial:   1,
	}); err != nil {
		return model.DatastreamInfo{}, err
	}
	rec.Datastreams = append(rec.Datastreams, dsID)
	return info, nil
}

func versionID(dsID string, serial int) string {
	return fmt.Sprintf("%s.%d", dsID, serial)
}

// ModifyDatastream changes the properties of a datastream, and its content when a source is given.
//
// Versionable datastreams get a new version, others have their current version replaced.
func (t *Transport) ModifyDatastream(ctx context.Context, pid, dsID string, source *model.ContentSource, params model.DatastreamParams, expected time.Time) (model.DatastreamInfo, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, err := t.getObject(ctx, pid)
	if err != nil {
		return model.DatastreamInfo{}, err
	}
	if !rec.hasDatastream(dsID) {
		return model.DatastreamInfo{}, status.ErrNotFound.WrapMessage(fmt.Sprintf("datastream %s of %s", dsID, pid))
	}
	versions, err := t.getVersions(ctx, pid, dsID)
	if err != nil {
		return model.DatastreamInfo{}, err
	}
	current := versions.Versions[0]
	if err := checkExpected(fmt.Sprintf("datastream %s of %s", dsID, pid), expected, current.CreatedDate); err != nil {
		return model.DatastreamInfo{}, err
	}
	if params.ControlGroup != "" && params.ControlGroup != current.ControlGroup {
		return model.DatastreamInfo{}, status.ErrAttributeReadOnly.WrapMessage("controlGroup")
	}

	next := current
	params.Apply(&next)
	if !next.State.Valid() {
		return model.DatastreamInfo{}, status.ErrInvalidAttributeValue.WrapMessage(fmt.Sprintf("invalid state %q", next.State))
	}
	if current.Versionable {
		next.VersionID = versionID(dsID, versions.Serial)
		versions.Serial++
	}
	next.CreatedDate = t.touch(&rec.Profile)

	switch {
	case source != nil:
		next.Checksum = ""
		err = t.writeContent(ctx, pid, &next, *source, params.Checksum)
	case next.ControlGroup.IsReference():
	default:
		err = t.rewriteContent(ctx, pid, current, &next, params.ChecksumType != nil)
	}
	if err != nil {
		return model.DatastreamInfo{}, err
	}

	if current.Versionable {
		versions.Versions = append([]model.DatastreamInfo{next}, versions.Versions...)
	} else {
		versions.Versions[0] = next
	}
	if err := t.putRecord(ctx, model.GetPathToDatastreamVersions(pid, dsID), versions); err != nil {
		return model.DatastreamInfo{}, err
	}
	if err := t.putRecord(ctx, model.GetPathToObject(pid), rec); err != nil {
		return model.DatastreamInfo{}, err
	}
	t.l.Debug("datastream modified",
		zap.String("pid", pid), zap.String("dsid", dsID), zap.String("version", next.VersionID), zap.String("log", params.LogMessage))
	return next, nil
}

// PurgeDatastream removes a datastream with all its versions. It yields false when the datastream does not exist.
func (t *Transport) PurgeDatastream(ctx context.Context, pid, dsID string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	rec, err := t.getObject(ctx, pid)
	if err != nil {
		return false, err
	}
	if !rec.hasDatastream(dsID) {
		return false, nil
	}
	if err := t.purgeKeys(ctx, model.GetPathPrefixToDatastream(pid, dsID)); err != nil {
		return false, err
	}
	kept := rec.Datastreams[:0]
	for _, id := range rec.Datastreams {
		if id != dsID {
			kept = append(kept, id)
		}
	}
	rec.Datastreams = kept
	t.touch(&rec.Profile)
	if err := t.putRecord(ctx, model.GetPathToObject(pid), rec); err != nil {
		return false, err
	}
	t.l.Debug("datastream purged", zap.String("pid", pid), zap.String("dsid", dsID))
	return true, nil
}

// models reads the content models declared in the RELS-EXT datastream of an object
func (t *Transport) models(ctx context.Context, pid string) ([]string, error) {
	rdr, err := t.FetchDatastreamContent(ctx, pid, model.RelsExtDatastream, time.Time{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rdr.Close()
	}()
	g, err := rels.Decode(rdr)
	if err != nil {
		return nil, err
	}
	var models []string
	for _, tr := range g.Triples(model.IdentifierToURI(pid)) {
		if !tr.Matches(model.ModelNamespace, model.PredicateHasModel, "") {
			continue
		}
		if m, ok := tr.ObjectIdentifier(); ok {
			models = append(models, m)
		}
	}
	return models, nil
}
