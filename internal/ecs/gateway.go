package ecs

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// defaultQueueSize is the gateway job queue capacity when not configured.
const defaultQueueSize = 256

// job is one unit of work queued for the gateway goroutine.
type job struct {
	run  func(*Tx) error
	done chan error // buffered; receives the unit's result exactly once
}

// gateway owns the serialized execution context. A single goroutine drains
// the FIFO job queue; at most one unit of work is ever active, so units
// never interleave their effects on Storage.
type gateway struct {
	jobs   chan job
	closed chan struct{}
	once   sync.Once
	wg     sync.WaitGroup

	// shutMu guards the shut flag; submitters that pass the gate register
	// in inflight so close can wait for their enqueue to land before the
	// loop drains and exits. Without the gate a submission racing close
	// could enqueue into an exited loop and never be answered.
	shutMu   sync.RWMutex
	shut     bool
	inflight sync.WaitGroup

	processed atomic.Uint64
	faulted   atomic.Uint64
	busyNanos atomic.Int64
}

func newGateway(queueSize int) *gateway {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	return &gateway{
		jobs:   make(chan job, queueSize),
		closed: make(chan struct{}),
	}
}

// start launches the gateway goroutine. The Tx is the single long-lived
// view of runtime state; it never leaves this goroutine.
func (g *gateway) start(tx *Tx) {
	g.wg.Add(1)
	go g.loop(tx)
}

func (g *gateway) loop(tx *Tx) {
	defer g.wg.Done()
	for {
		select {
		case j := <-g.jobs:
			g.execute(tx, j)
		case <-g.closed:
			// Drain work accepted before close, then exit.
			for {
				select {
				case j := <-g.jobs:
					g.execute(tx, j)
				default:
					return
				}
			}
		}
	}
}

// execute runs one unit of work with fault isolation. A panic is recovered
// and converted into ErrGatewayFault so the caller sees a typed failure and
// later units run against intact state.
func (g *gateway) execute(tx *Tx, j job) {
	start := time.Now()
	err := g.dispatch(tx, j)
	g.busyNanos.Add(int64(time.Since(start)))
	g.processed.Add(1)
	j.done <- err
}

func (g *gateway) dispatch(tx *Tx, j job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			g.faulted.Add(1)
			err = fmt.Errorf("%w: panic: %v", ErrGatewayFault, r)
		}
	}()
	return j.run(tx)
}

// submit queues a unit of work and waits for its result. The context is
// honoured only while waiting: an accepted unit always runs to completion,
// preserving Storage consistency, even if the caller stops waiting.
// Once close has flipped the shut flag every submit returns
// ErrRuntimeClosed without touching the queue.
func (g *gateway) submit(ctx context.Context, run func(*Tx) error) error {
	g.shutMu.RLock()
	if g.shut {
		g.shutMu.RUnlock()
		return ErrRuntimeClosed
	}
	g.inflight.Add(1)
	g.shutMu.RUnlock()
	defer g.inflight.Done()

	j := job{run: run, done: make(chan error, 1)}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case g.jobs <- j:
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// close stops accepting new work, waits for accepted work to drain, and
// returns once the gateway goroutine has exited.
func (g *gateway) close() {
	g.shutMu.Lock()
	g.shut = true
	g.shutMu.Unlock()

	// Submitters that passed the gate before the flag flipped may still be
	// enqueueing; wait so the drain below sees every accepted job.
	g.inflight.Wait()
	g.once.Do(func() {
		close(g.closed)
	})
	g.wg.Wait()
}

// Stats is a point-in-time snapshot of gateway activity.
type Stats struct {
	QueueDepth     int           `json:"queue_depth"`
	UnitsProcessed uint64        `json:"units_processed"`
	UnitsFaulted   uint64        `json:"units_faulted"`
	BusyTime       time.Duration `json:"busy_ns"`
}

func (g *gateway) stats() Stats {
	return Stats{
		QueueDepth:     len(g.jobs),
		UnitsProcessed: g.processed.Load(),
		UnitsFaulted:   g.faulted.Load(),
		BusyTime:       time.Duration(g.busyNanos.Load()),
	}
}
