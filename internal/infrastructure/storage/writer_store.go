package storage

import (
	"context"
	"io"
	"sync"

	pipelineerrors "chainy-backend/internal/errors"
)

// WriterStore appends every blob body to an io.Writer, ignoring container and
// key. The local runner uses it for dry runs.
type WriterStore struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterStore creates a WriterStore
func NewWriterStore(w io.Writer) *WriterStore {
	return &WriterStore{w: w}
}

// Put writes body to the underlying writer
func (s *WriterStore) Put(ctx context.Context, container, key string, body []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.Write(body); err != nil {
		return pipelineerrors.NewStorageWriteError(container, key, err)
	}
	return nil
}
