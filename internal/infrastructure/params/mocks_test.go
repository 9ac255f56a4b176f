package params

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetParameter(ctx context.Context, name string, decrypt bool) (string, error) {
	args := m.Called(ctx, name, decrypt)
	return args.String(0), args.Error(1)
}

// MockParameterGetter is a testify mock of ParameterGetter
type MockParameterGetter struct {
	mock.Mock
}

func (m *MockParameterGetter) GetParameter(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

// fakeClock is a manually advanced Clock
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 9, 30, 13, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
