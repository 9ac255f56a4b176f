package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventEmitter is satisfied by Emitter
type EventEmitter interface {
	Emit(ctx context.Context, eventType, code string, detail map[string]any) error
}

// Result is the outcome of one dispatched emission
type Result struct {
	ID        uuid.UUID
	EventType string
	Code      string
	Err       error
	Duration  time.Duration
}

// Dispatcher runs emissions off the caller's path. The caller's request
// succeeds whether or not the emission does; failures are logged by the
// Emitter and reported on the result channel only.
type Dispatcher struct {
	emitter EventEmitter
	logger  *zap.Logger

	slots chan struct{}
	wg    sync.WaitGroup
}

// NewDispatcher creates a Dispatcher allowing at most maxInFlight concurrent
// emissions. Values below one mean no limit.
func NewDispatcher(emitter EventEmitter, maxInFlight int, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{emitter: emitter, logger: logger}
	if maxInFlight > 0 {
		d.slots = make(chan struct{}, maxInFlight)
	}
	return d
}

// Dispatch starts an emission and returns immediately. The emission keeps
// ctx's values but not its cancellation, so it outlives the request that
// triggered it. The returned channel receives exactly one Result and is then
// closed.
func (d *Dispatcher) Dispatch(ctx context.Context, req RawEventRequest) <-chan Result {
	results := make(chan Result, 1)
	id := uuid.New()
	detached := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(results)

		d.acquire()
		defer d.release()

		start := time.Now()
		err := d.emitter.Emit(detached, req.EventType, req.Code, req.Detail)
		result := Result{
			ID:        id,
			EventType: req.EventType,
			Code:      req.Code,
			Err:       err,
			Duration:  time.Since(start),
		}
		d.logger.Debug("Dispatched emission finished",
			zap.String("dispatch_id", id.String()),
			zap.String("event_type", req.EventType),
			zap.String("code", req.Code),
			zap.Duration("duration", result.Duration),
			zap.Error(err),
		)
		results <- result
	}()

	return results
}

// Wait blocks until every dispatched emission has finished
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) acquire() {
	if d.slots != nil {
		d.slots <- struct{}{}
	}
}

func (d *Dispatcher) release() {
	if d.slots != nil {
		<-d.slots
	}
}
