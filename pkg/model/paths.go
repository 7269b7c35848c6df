package model

import (
	"fmt"
	"strings"
)

// Storage layout used by repositories persisting objects in a key/value store:
//
//	objects/{pid}/object.yaml
//	objects/{pid}/datastreams/{dsid}/versions.yaml
//	objects/{pid}/datastreams/{dsid}/content/{version-id}
//	uploads/{upload-id}
//	identifiers/{namespace}.yaml
const (
	objectDescriptorFile   = "object.yaml"
	versionsDescriptorFile = "versions.yaml"
	identifierFileSuffix   = ".yaml"

	objectsPrefix     = "objects/"
	uploadsPrefix     = "uploads/"
	identifiersPrefix = "identifiers/"
	datastreamsDir    = "datastreams"
	contentDir        = "content"

	// UploadScheme prefixes the reference returned for uploaded content
	UploadScheme = "uploaded:///"
)

// PathComponents defines the parts of a parsed storage key
type PathComponents struct {
	PID          string
	DatastreamID string
	VersionID    string
	UploadID     string
	Namespace    string
	FileName     string
}

// GetPathPrefixToObjects yields the prefix of all object keys
func GetPathPrefixToObjects() string {
	return objectsPrefix
}

// GetPathPrefixToObject yields the prefix of all keys related to an object
func GetPathPrefixToObject(pid string) string {
	return fmt.Sprint(objectsPrefix, pid, "/")
}

// GetPathToObject yields the key of an object record
func GetPathToObject(pid string) string {
	return fmt.Sprint(GetPathPrefixToObject(pid), objectDescriptorFile)
}

// GetPathPrefixToDatastream yields the prefix of all keys related to a datastream
func GetPathPrefixToDatastream(pid, dsID string) string {
	return fmt.Sprint(GetPathPrefixToObject(pid), datastreamsDir, "/", dsID, "/")
}

// GetPathToDatastreamVersions yields the key of the version history of a datastream
func GetPathToDatastreamVersions(pid, dsID string) string {
	return fmt.Sprint(GetPathPrefixToDatastream(pid, dsID), versionsDescriptorFile)
}

// GetPathToDatastreamContent yields the key of the content of one datastream version
func GetPathToDatastreamContent(pid, dsID, versionID string) string {
	return fmt.Sprint(GetPathPrefixToDatastream(pid, dsID), contentDir, "/", versionID)
}

// GetPathToUpload yields the key of uploaded content
func GetPathToUpload(uploadID string) string {
	return fmt.Sprint(uploadsPrefix, uploadID)
}

// GetPathToIdentifierCounter yields the key of the identifier counter of a namespace
func GetPathToIdentifierCounter(namespace string) string {
	return fmt.Sprint(identifiersPrefix, namespace, identifierFileSuffix)
}

// UploadReference yields the reference returned to clients for an upload
func UploadReference(uploadID string) string {
	return UploadScheme + uploadID
}

// UploadIDFromReference extracts the upload id from an upload reference
func UploadIDFromReference(ref string) (string, bool) {
	if !strings.HasPrefix(ref, UploadScheme) {
		return "", false
	}
	id := strings.TrimPrefix(ref, UploadScheme)
	return id, id != ""
}

// GetPathComponents yields all components from a parsed storage key.
func GetPathComponents(key string) (PathComponents, error) {
	const (
		maxPos     = 6
		objectPos  = 2 // as in: objects/{pid}/object.yaml
		dsPos      = 4 // as in: objects/{pid}/datastreams/{dsid}/versions.yaml
		versionPos = 5 // as in: objects/{pid}/datastreams/{dsid}/content/{version-id}
	)
	cs := strings.SplitN(key, "/", maxPos+1)
	switch cs[0] {
	case "objects":
		if len(cs) < objectPos+1 {
			return PathComponents{}, fmt.Errorf("path is invalid: expect path to object to have %d parts: %s", objectPos+1, key)
		}
		pid := cs[objectPos-1]
		if cs[objectPos] == objectDescriptorFile && len(cs) == objectPos+1 {
			return PathComponents{PID: pid, FileName: cs[objectPos]}, nil
		}
		if cs[objectPos] != datastreamsDir || len(cs) < dsPos+1 {
			return PathComponents{}, fmt.Errorf("path is invalid, expected %q or a datastream path. components: %v, path: %s",
				objectDescriptorFile, cs, key)
		}
		dsID := cs[dsPos-1]
		switch {
		case cs[dsPos] == versionsDescriptorFile && len(cs) == dsPos+1:
			return PathComponents{PID: pid, DatastreamID: dsID, FileName: cs[dsPos]}, nil
		case cs[dsPos] == contentDir && len(cs) == versionPos+1 && cs[versionPos] != "":
			return PathComponents{PID: pid, DatastreamID: dsID, VersionID: cs[versionPos], FileName: cs[versionPos]}, nil
		default:
			return PathComponents{}, fmt.Errorf("path is invalid, expected %q or content version. components: %v, path: %s",
				versionsDescriptorFile, cs, key)
		}

	case "uploads":
		if len(cs) != 2 || cs[1] == "" {
			return PathComponents{}, fmt.Errorf("path is invalid: expect path to upload to have 2 parts: %s", key)
		}
		return PathComponents{UploadID: cs[1], FileName: cs[1]}, nil

	case "identifiers":
		if len(cs) != 2 || !strings.HasSuffix(cs[1], identifierFileSuffix) {
			return PathComponents{}, fmt.Errorf("path is invalid: expect identifiers/{namespace}%s: %s", identifierFileSuffix, key)
		}
		return PathComponents{Namespace: strings.TrimSuffix(cs[1], identifierFileSuffix), FileName: cs[1]}, nil

	default:
		return PathComponents{}, fmt.Errorf("path is invalid: %v, path: %s", cs, key)
	}
}
