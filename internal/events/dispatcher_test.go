package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	pipelineerrors "chainy-backend/internal/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type ctxKey struct{}

func receive(t *testing.T, results <-chan Result) Result {
	t.Helper()
	select {
	case result, ok := <-results:
		require.True(t, ok, "result channel closed without a result")
		_, open := <-results
		assert.False(t, open, "result channel must be closed after one result")
		return result
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for dispatch result")
		return Result{}
	}
}

func TestDispatcher_Success(t *testing.T) {
	emitter := new(MockEventEmitter)
	detail := map[string]any{"owner": "alice"}
	emitter.On("Emit", mock.Anything, EventLinkCreate, "abc123", detail).Return(nil).Once()

	d := NewDispatcher(emitter, 2, zap.NewNop())
	result := receive(t, d.Dispatch(context.Background(), RawEventRequest{
		EventType: EventLinkCreate,
		Code:      "abc123",
		Detail:    detail,
	}))

	assert.NoError(t, result.Err)
	assert.NotEqual(t, uuid.Nil, result.ID)
	assert.Equal(t, EventLinkCreate, result.EventType)
	assert.Equal(t, "abc123", result.Code)
	emitter.AssertExpectations(t)
}

func TestDispatcher_FailureIsReported(t *testing.T) {
	emitter := new(MockEventEmitter)
	failure := pipelineerrors.NewStorageWriteError("bucket", "key", errors.New("denied"))
	emitter.On("Emit", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(failure)

	d := NewDispatcher(emitter, 0, nil)
	result := receive(t, d.Dispatch(context.Background(), RawEventRequest{EventType: EventLinkClick, Code: "abc"}))

	assert.True(t, pipelineerrors.IsStorageWrite(result.Err))
}

func TestDispatcher_DetachedFromCancellation(t *testing.T) {
	emitter := new(MockEventEmitter)
	emitter.On("Emit", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil && ctx.Value(ctxKey{}) == "request-1"
	}), EventLinkClick, "abc", mock.Anything).Return(nil).Once()

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "request-1"))
	cancel()

	d := NewDispatcher(emitter, 1, nil)
	result := receive(t, d.Dispatch(ctx, RawEventRequest{EventType: EventLinkClick, Code: "abc"}))

	assert.NoError(t, result.Err)
	emitter.AssertExpectations(t)
}

// blockingEmitter blocks every Emit until release is closed
type blockingEmitter struct {
	release  chan struct{}
	inFlight atomic.Int32
	peak     atomic.Int32
	calls    atomic.Int32
}

func (b *blockingEmitter) Emit(ctx context.Context, eventType, code string, detail map[string]any) error {
	n := b.inFlight.Add(1)
	defer b.inFlight.Add(-1)
	for {
		peak := b.peak.Load()
		if n <= peak || b.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	<-b.release
	b.calls.Add(1)
	return nil
}

func TestDispatcher_WaitAndLimit(t *testing.T) {
	emitter := &blockingEmitter{release: make(chan struct{})}
	d := NewDispatcher(emitter, 2, nil)

	ids := make(map[uuid.UUID]bool)
	var channels []<-chan Result
	for i := 0; i < 6; i++ {
		channels = append(channels, d.Dispatch(context.Background(), RawEventRequest{EventType: EventLinkClick, Code: "abc"}))
	}

	done := make(chan struct{})
	go func() {
		d.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned while emissions were blocked")
	case <-time.After(50 * time.Millisecond):
	}

	close(emitter.release)
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return")
	}

	for _, ch := range channels {
		ids[receive(t, ch).ID] = true
	}
	assert.Len(t, ids, 6)
	assert.Equal(t, int32(6), emitter.calls.Load())
	assert.LessOrEqual(t, emitter.peak.Load(), int32(2))
}

func TestRawEventRequest_Validate(t *testing.T) {
	assert.NoError(t, RawEventRequest{EventType: EventLinkClick, Code: "abc"}.Validate())
	assert.True(t, pipelineerrors.IsValidation(RawEventRequest{Code: "abc"}.Validate()))
	assert.True(t, pipelineerrors.IsValidation(RawEventRequest{EventType: EventLinkClick}.Validate()))
}
