package status

import (
	"context"
	"testing"

	"github.com/jonathangreen/tuque-sub001/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestTransportError(t *testing.T) {
	err := NewTransportError("fetchProfile", 503, context.DeadlineExceeded)

	assert.True(t, errors.Is(err, ErrTransportFailure))
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "code 503")

	var te *TransportError
	assert.True(t, errors.As(ErrNotFound.Wrap(err), &te))
	assert.Equal(t, 503, te.Code)
}
