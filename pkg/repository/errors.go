package repository

import (
	"github.com/jonathangreen/tuque-sub001/pkg/errors"
	"github.com/jonathangreen/tuque-sub001/pkg/status"
)

func isNotFound(err error) bool {
	return errors.Is(err, status.ErrNotFound)
}

func errInvalidValue(err error) error {
	return status.ErrInvalidAttributeValue.Wrap(err)
}
