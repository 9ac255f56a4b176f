package events

import (
	"context"
	"sync"
	"time"

	"chainy-backend/internal/infrastructure/params"

	"github.com/stretchr/testify/mock"
)

// MockSaltSource is a testify mock of SaltSource
type MockSaltSource struct {
	mock.Mock
}

func (m *MockSaltSource) Resolve(ctx context.Context) (params.Salts, error) {
	args := m.Called(ctx)
	return args.Get(0).(params.Salts), args.Error(1)
}

// MockBlobStore is a testify mock of storage.BlobStore that also keeps every
// body it was given
type MockBlobStore struct {
	mock.Mock

	mu     sync.Mutex
	bodies [][]byte
}

func (m *MockBlobStore) Put(ctx context.Context, container, key string, body []byte, contentType string) error {
	m.mu.Lock()
	m.bodies = append(m.bodies, append([]byte(nil), body...))
	m.mu.Unlock()

	args := m.Called(ctx, container, key, body, contentType)
	return args.Error(0)
}

func (m *MockBlobStore) Bodies() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bodies
}

// MockEventEmitter is a testify mock of EventEmitter
type MockEventEmitter struct {
	mock.Mock
}

func (m *MockEventEmitter) Emit(ctx context.Context, eventType, code string, detail map[string]any) error {
	args := m.Called(ctx, eventType, code, detail)
	return args.Error(0)
}

var fixedTime = time.Date(2024, 9, 30, 13, 45, 12, 0, time.UTC)

func fixedClock() time.Time {
	return fixedTime
}
