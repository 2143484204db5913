package backend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single operation.
const DefaultTimeout = 2 * time.Minute

// StatusUpdate reports the outcome of a submitted operation.
type StatusUpdate struct {
	Op      Operation
	Err     error
	Elapsed time.Duration
}

// Executor runs operations against a backend in the background.
type Executor struct {
	backend Backend
	log     *zap.Logger
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	Updates chan StatusUpdate // Channel to report completion/error
}

// NewExecutor creates an executor for b.
func NewExecutor(b Backend, log *zap.Logger) *Executor {
	if log == nil {
		log = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Executor{
		backend: b,
		log:     log,
		timeout: DefaultTimeout,
		ctx:     ctx,
		cancel:  cancel,
		Updates: make(chan StatusUpdate, 100), // Buffered to prevent blocking
	}
}

// SetTimeout changes the per-operation timeout.
func (x *Executor) SetTimeout(d time.Duration) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.timeout = d
}

// Submit starts op and returns it with its ID assigned. It does not wait for the result.
func (x *Executor) Submit(op Operation) Operation {
	if op.ID == "" {
		op.ID = uuid.NewString()
	}

	x.mu.Lock()
	if x.closed {
		x.mu.Unlock()
		x.log.Warn("operation submitted after close", zap.String("op_id", op.ID))
		return op
	}
	timeout := x.timeout
	x.wg.Add(1)
	x.mu.Unlock()

	x.log.Info("operation started",
		zap.String("op_id", op.ID),
		zap.String("kind", op.Kind.String()),
		zap.String("path", op.Path),
	)

	go func() {
		defer x.wg.Done()

		ctx, cancel := context.WithTimeout(x.ctx, timeout)
		defer cancel()

		start := time.Now()
		err := x.run(ctx, op)
		update := StatusUpdate{Op: op, Err: err, Elapsed: time.Since(start)}

		if err != nil {
			x.log.Error("operation failed", zap.String("op_id", op.ID), zap.Error(err))
		} else {
			x.log.Info("operation finished", zap.String("op_id", op.ID), zap.Duration("elapsed", update.Elapsed))
		}

		select {
		case x.Updates <- update:
		case <-x.ctx.Done():
		}
	}()

	return op
}

func (x *Executor) run(ctx context.Context, op Operation) error {
	switch op.Kind {
	case OpDelete:
		return x.backend.Delete(ctx, op.Path)
	case OpCreateDirectory:
		return x.backend.CreateDirectory(ctx, op.Path)
	case OpUpload:
		return x.backend.Upload(ctx, op.Path, op.Source)
	default:
		return fmt.Errorf("unsupported operation %s", op.Kind)
	}
}

// Close cancels in-flight operations and waits for them to return.
func (x *Executor) Close() {
	x.mu.Lock()
	if x.closed {
		x.mu.Unlock()
		return
	}
	x.closed = true
	x.mu.Unlock()

	x.cancel()
	x.wg.Wait()
}
