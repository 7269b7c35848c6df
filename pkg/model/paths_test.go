package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pathFixture struct {
	name       string
	path       string
	wantsError bool
	expected   PathComponents
}

func pathTestCases() []pathFixture {
	return []pathFixture{
		{
			name:     "object record",
			path:     GetPathToObject("test:1"),
			expected: PathComponents{PID: "test:1", FileName: "object.yaml"},
		},
		{
			name:     "datastream versions",
			path:     GetPathToDatastreamVersions("test:1", "DC"),
			expected: PathComponents{PID: "test:1", DatastreamID: "DC", FileName: "versions.yaml"},
		},
		{
			name:     "datastream content",
			path:     GetPathToDatastreamContent("test:1", "OBJ", "OBJ.2"),
			expected: PathComponents{PID: "test:1", DatastreamID: "OBJ", VersionID: "OBJ.2", FileName: "OBJ.2"},
		},
		{
			name:     "upload",
			path:     GetPathToUpload("abc"),
			expected: PathComponents{UploadID: "abc", FileName: "abc"},
		},
		{
			name:     "identifier counter",
			path:     GetPathToIdentifierCounter("islandora"),
			expected: PathComponents{Namespace: "islandora", FileName: "islandora.yaml"},
		},
		{name: "unknown root", path: "bundles/x/y", wantsError: true},
		{name: "truncated object", path: "objects/test:1", wantsError: true},
		{name: "unknown object file", path: "objects/test:1/other.yaml", wantsError: true},
		{name: "unknown datastream file", path: "objects/test:1/datastreams/DC/other.yaml", wantsError: true},
		{name: "empty upload", path: "uploads/", wantsError: true},
		{name: "identifier without suffix", path: "identifiers/test", wantsError: true},
	}
}

func TestGetPathComponents(t *testing.T) {
	for _, toPin := range pathTestCases() {
		testcase := toPin
		t.Run(testcase.name, func(t *testing.T) {
			t.Parallel()
			res, err := GetPathComponents(testcase.path)
			if testcase.wantsError {
				require.Errorf(t, err, "expected %q to be invalid", testcase.path)
				return
			}
			require.NoError(t, err)
			assert.EqualValues(t, testcase.expected, res)
		})
	}
}

func TestUploadReference(t *testing.T) {
	ref := UploadReference("abc")
	assert.Equal(t, "uploaded:///abc", ref)
	id, ok := UploadIDFromReference(ref)
	assert.True(t, ok)
	assert.Equal(t, "abc", id)
	_, ok = UploadIDFromReference("http://example.org/abc")
	assert.False(t, ok)
	_, ok = UploadIDFromReference(UploadScheme)
	assert.False(t, ok)
}
