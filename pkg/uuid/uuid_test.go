package uuid

import (
	"bytes"
	"regexp"
	"testing"

	guuid "github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var canonical = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)

func TestNewIsRandomV4(t *testing.T) {
	const count = 1000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		u, err := New()
		require.NoError(t, err)
		require.Len(t, u, 36)
		require.Truef(t, canonical.MatchString(u), "not a v4 uuid: %s", u)

		parsed, err := guuid.Parse(u)
		require.NoError(t, err)
		assert.Equal(t, guuid.Version(4), parsed.Version())
		assert.Equal(t, guuid.RFC4122, parsed.Variant())

		_, dup := seen[u]
		require.Falsef(t, dup, "duplicate uuid %s", u)
		seen[u] = struct{}{}
	}
}

func TestFromBytes(t *testing.T) {
	var ones [16]byte
	for i := range ones {
		ones[i] = 0xff
	}
	assert.Equal(t, "ffffffff-ffff-4fff-bfff-ffffffffffff", FromBytes(ones).String())
	assert.Equal(t, "00000000-0000-4000-8000-000000000000", FromBytes([16]byte{}).String())
}

func TestGeneratorSource(t *testing.T) {
	g := NewGenerator(Source(bytes.NewReader(make([]byte, 16))))
	u, err := g.New()
	require.NoError(t, err)
	assert.Equal(t, "00000000-0000-4000-8000-000000000000", u)

	_, err = g.New()
	assert.Error(t, err, "exhausted source must fail")
	assert.Panics(t, func() { g.MustNew() })
}
