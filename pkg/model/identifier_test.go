package model

import (
	"strings"
	"testing"

	"github.com/jonathangreen/tuque-sub001/pkg/errors"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
	"github.com/stretchr/testify/assert"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		pid     string
		wantErr bool
	}{
		{name: "simple", pid: "test:1"},
		{name: "uuid", pid: "islandora:0d6b8b5e-9a54-4c36-8c9e-6ba5cbcc7e0c"},
		{name: "escaped", pid: "test:a%2Fb"},
		{name: "no namespace", pid: "test", wantErr: true},
		{name: "empty local", pid: "test:", wantErr: true},
		{name: "bad chars", pid: "te st:1", wantErr: true},
		{name: "too long", pid: "test:" + strings.Repeat("a", MaxIdentifierLength), wantErr: true},
	}
	for _, tts := range tests {
		tt := tts
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := ValidateIdentifier(tt.pid)
			if tt.wantErr {
				assert.True(t, errors.Is(err, status.ErrInvalidIdentifier))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestIdentifierURIs(t *testing.T) {
	assert.Equal(t, "info:fedora/test:1", IdentifierToURI("test:1"))
	assert.Equal(t, "info:fedora/test:1/DC", DatastreamURI("test:1", "DC"))

	pid, ok := URIToIdentifier("info:fedora/test:1")
	assert.True(t, ok)
	assert.Equal(t, "test:1", pid)

	_, ok = URIToIdentifier("http://example.org/test:1")
	assert.False(t, ok)

	ns, local := SplitIdentifier("test:1")
	assert.Equal(t, "test", ns)
	assert.Equal(t, "1", local)

	assert.NoError(t, ValidateNamespace("islandora"))
	assert.Error(t, ValidateNamespace("bad:ns"))
	assert.NoError(t, ValidateDatastreamID("RELS-EXT"))
	assert.Error(t, ValidateDatastreamID("1DS"))

	assert.Equal(t, "info:fedora/test:1", ResourceURI("test:1"))
	assert.Equal(t, "info:fedora/test:1", ResourceURI("info:fedora/test:1"))
	assert.Equal(t, "http://example.org/x", ResourceURI("http://example.org/x"))
}
