// Package storage writes serialized events to a durable object store.
package storage

import "context"

// ContentTypeJSON is the content type of every event blob
const ContentTypeJSON = "application/json"

// BlobStore writes one object per call. Implementations return a
// STORAGE_WRITE error on failure and never retry.
type BlobStore interface {
	Put(ctx context.Context, container, key string, body []byte, contentType string) error
}
