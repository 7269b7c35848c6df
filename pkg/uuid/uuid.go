// Package uuid builds random (version 4) UUIDs, used to mint object identifiers.
package uuid

import (
	"crypto/rand"
	"fmt"
	"io"

	guuid "github.com/google/uuid"
)

// Generator builds version 4, variant 1 UUIDs from a random source.
type Generator struct {
	rand io.Reader
}

// Option is a functor to configure a Generator
type Option func(*Generator)

// Source sets the random source. It defaults to crypto/rand.
func Source(r io.Reader) Option {
	return func(g *Generator) {
		if r != nil {
			g.rand = r
		}
	}
}

// NewGenerator builds a UUID generator
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{rand: rand.Reader}
	for _, apply := range opts {
		apply(g)
	}
	return g
}

// New returns a UUID in its canonical 8-4-4-4-12 form
func (g *Generator) New() (string, error) {
	var b [16]byte
	if _, err := io.ReadFull(g.rand, b[:]); err != nil {
		return "", fmt.Errorf("reading random bytes for uuid: %w", err)
	}
	return FromBytes(b).String(), nil
}

// MustNew returns a UUID or panics
func (g *Generator) MustNew() string {
	u, err := g.New()
	if err != nil {
		panic(err)
	}
	return u
}

// FromBytes stamps the version (0100) and variant (10) bits onto 16 random bytes.
func FromBytes(b [16]byte) guuid.UUID {
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return guuid.UUID(b)
}

var defaultGenerator = NewGenerator()

// New returns a UUID built from crypto/rand
func New() (string, error) {
	return defaultGenerator.New()
}
