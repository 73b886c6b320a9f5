// internal/storage/storage.go
// Package storage provides the object storage abstraction backing
// uploaded files.
package storage

import "io"

// Datasource is the object store the application writes uploads to.
// FullSize reports the total occupied bytes from the backend's own
// accounting, which may legitimately diverge from the sum of row
// metadata in the relational store.
type Datasource interface {
	// Save streams the object under the given key and returns the
	// number of bytes written.
	Save(key string, data io.Reader) (int64, error)
	// Open returns a reader for the object.
	Open(key string) (io.ReadCloser, error)
	// Delete removes the object. Deleting a missing object is an error.
	Delete(key string) error
	// FullSize returns the total occupied bytes across all objects.
	FullSize() (int64, error)
}
