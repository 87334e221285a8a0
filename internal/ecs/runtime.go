package ecs

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Logger defines the logging interface used by the Runtime.
// This allows different logging implementations to be used.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Tx is the view of runtime state handed to a unit of work. It is valid
// only for the duration of the unit and must not escape it: Storage, Index,
// and Lane all alias state owned by the gateway goroutine.
type Tx struct {
	storage *Storage
	index   *DeviceIndex
	lane    *Lane
}

// Storage returns the entity table.
func (tx *Tx) Storage() *Storage { return tx.storage }

// Index returns the device index.
func (tx *Tx) Index() *DeviceIndex { return tx.index }

// Lane returns the fast lane for sibling access.
func (tx *Tx) Lane() *Lane { return tx.lane }

// Runtime is the top-level owner of Storage and the Device Index. All
// access to either goes through the gateway; the Runtime handle itself is
// safe for concurrent use from any goroutine.
type Runtime struct {
	gw      *gateway
	tx      *Tx
	logger  Logger
	emitter Emitter
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the runtime logger.
func WithLogger(logger Logger) Option {
	return func(rt *Runtime) { rt.logger = logger }
}

// WithEmitter sets the sink for runtime lifecycle events.
func WithEmitter(e Emitter) Option {
	return func(rt *Runtime) { rt.emitter = e }
}

// WithQueueSize sets the gateway job queue capacity.
func WithQueueSize(n int) Option {
	return func(rt *Runtime) { rt.gw = newGateway(n) }
}

// New creates a Runtime and starts its gateway goroutine. Callers own the
// returned handle and should pass it explicitly through call chains; Close
// must be called to stop the gateway.
func New(opts ...Option) *Runtime {
	rt := &Runtime{
		gw:      newGateway(0),
		logger:  noopLogger{},
		emitter: noopEmitter{},
	}
	for _, opt := range opts {
		opt(rt)
	}
	storage := newStorage()
	rt.tx = &Tx{
		storage: storage,
		index:   newDeviceIndex(),
		lane:    newLane(storage),
	}
	rt.gw.start(rt.tx)
	rt.logger.Info("ecs runtime started", "queue_size", cap(rt.gw.jobs))
	return rt
}

// Close stops the gateway after draining accepted work. Submissions after
// Close fail with ErrRuntimeClosed. Close is idempotent.
func (rt *Runtime) Close() {
	rt.gw.close()
	rt.logger.Info("ecs runtime stopped",
		"units_processed", rt.gw.processed.Load(),
		"units_faulted", rt.gw.faulted.Load(),
	)
}

// Stats returns a snapshot of gateway activity.
func (rt *Runtime) Stats() Stats {
	return rt.gw.stats()
}

// submit queues a unit of work, records faults, and reports the result.
func (rt *Runtime) submit(ctx context.Context, run func(*Tx) error) error {
	err := rt.gw.submit(ctx, run)
	if errors.Is(err, ErrGatewayFault) {
		rt.logger.Error("unit of work faulted", "error", err)
		rt.emitter.Emit(Event{
			Type:  EventUnitFaulted,
			Error: err.Error(),
			Time:  time.Now(),
		})
	}
	return err
}

// Submit runs a unit of work against the whole runtime state and returns
// its result. The work function must not block on I/O and must not submit
// further work to the same runtime.
//
// The context is honoured only while waiting: once accepted, the unit runs
// to completion regardless of cancellation.
func Submit[R any](ctx context.Context, rt *Runtime, work func(*Tx) (R, error)) (R, error) {
	var out R
	err := rt.submit(ctx, func(tx *Tx) error {
		v, err := work(tx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero R
		return zero, err
	}
	return out, nil
}

// SubmitDevice resolves a device address and runs a unit of work against
// the resolved entity, with a Lane for sibling access. This is the primary
// entry point for external callers.
func SubmitDevice[R any](ctx context.Context, rt *Runtime, addr string, work func(*Entity, *Lane) (R, error)) (R, error) {
	return Submit(ctx, rt, func(tx *Tx) (R, error) {
		var zero R
		entityID, err := tx.index.Resolve(addr)
		if err != nil {
			return zero, err
		}
		e, err := tx.storage.Entity(entityID)
		if err != nil {
			return zero, err
		}
		return work(e, tx.lane)
	})
}

// Process-wide singleton. The design favours explicit handles; Init/Default
// exist for the process entry point, which initialises exactly once and
// passes the handle down.
var (
	defaultMu sync.Mutex
	defaultRT *Runtime
)

// Init creates the process-wide runtime. It must be called exactly once,
// before any submission; a second call fails with ErrAlreadyInitialized.
func Init(opts ...Option) (*Runtime, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRT != nil {
		return nil, ErrAlreadyInitialized
	}
	defaultRT = New(opts...)
	return defaultRT, nil
}

// Default returns the process-wide runtime created by Init.
// Returns ErrNotInitialized if Init has not been called.
func Default() (*Runtime, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultRT == nil {
		return nil, ErrNotInitialized
	}
	return defaultRT, nil
}
