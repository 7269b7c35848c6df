// Package storage provides interface to handle backend storage objects.
//
// This package supports the following backends:
//   - local file system, or any afero.Fs (package localfs)
//   - badger embedded key/value database (package bdgr)
package storage
