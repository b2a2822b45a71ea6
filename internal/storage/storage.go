// Package storage abstracts the object store holding uploaded document
// bytes. The pipeline only ever passes the opaque reference from URIFor to
// the extraction provider.
package storage

import "context"

type ObjectStore interface {
	// Put writes the bytes under a new unique key and returns the key.
	Put(ctx context.Context, data []byte, filename, contentType string) (string, error)

	// URIFor returns an opaque reference for a stored key, suitable for
	// handing to the text extraction provider.
	URIFor(key string) string

	// Download reads back the stored bytes for a key.
	Download(ctx context.Context, key string) ([]byte, error)
}
