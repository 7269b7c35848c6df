// Package embedded implements a repository transport over a key/value store.
//
// Objects, datastream versions and uploads are kept as YAML records and raw content
// in a storage.Store (see model.GetPathToObject and friends for the layout). It enforces
// the same optimistic concurrency checks as a remote repository, and serves tests and
// the command line tool. It has no relationship index: graph queries are not supported.
package embedded
