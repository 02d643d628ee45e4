// Package dispatcher implements the accept loop and fixed worker pool that
// turn a listening socket into a stream of serviced connections: one
// accept goroutine enqueues incoming connections onto a shared FIFO queue,
// and a fixed number of worker goroutines dequeue and run the protocol
// state machine to completion, one connection at a time, never sharing a
// connection between workers.
package dispatcher

import (
	"context"
	"fmt"
	"net"
	"runtime/debug"
	"sync"

	"github.com/VestaKK/rpcbridge/internal/logger"
	"github.com/VestaKK/rpcbridge/internal/protocol"
	"github.com/VestaKK/rpcbridge/internal/registry"
	"github.com/google/uuid"
)

// DefaultWorkers is the fixed worker pool size used when Config.Workers is
// left at zero.
const DefaultWorkers = 10

// Metrics is the set of observable dispatcher-level events. A nil Metrics
// is always safe to pass.
type Metrics interface {
	ConnectionAccepted()
	QueueDepth(depth int)
	ActiveWorkers(n int)
}

// Config controls pool sizing. The zero value selects DefaultWorkers.
type Config struct {
	Workers int
}

// Dispatcher owns the listener, the pending-connection queue, and the
// worker pool draining it. The queue is a plain slice guarded by a mutex
// and condition variable, signalled on enqueue — there is no buffered
// channel involved, so queue depth is always exactly observable for
// metrics.
type Dispatcher struct {
	listener net.Listener
	registry *registry.Registry
	workers  int

	metrics      Metrics
	protoMetrics protocol.Metrics
	tracer       protocol.Tracer

	mu     sync.Mutex
	cond   *sync.Cond
	queue  []net.Conn
	closed bool

	wg sync.WaitGroup
}

// New builds a Dispatcher over an already-bound listener. reg must have all
// handlers registered before Serve is called; registration is not
// synchronized with the worker pool.
func New(ln net.Listener, reg *registry.Registry, cfg Config, m Metrics, pm protocol.Metrics, tr protocol.Tracer) *Dispatcher {
	workers := cfg.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	d := &Dispatcher{
		listener:     ln,
		registry:     reg,
		workers:      workers,
		metrics:      m,
		protoMetrics: pm,
		tracer:       tr,
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// Serve starts the worker pool and runs the accept loop until the listener
// is closed (via Stop or ctx cancellation) or an unrecoverable accept error
// occurs. It returns nil on a clean shutdown.
func (d *Dispatcher) Serve(ctx context.Context) error {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker(ctx, i)
	}
	if d.metrics != nil {
		d.metrics.ActiveWorkers(d.workers)
	}

	stopOnCancel := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			d.Stop()
		case <-stopOnCancel:
		}
	}()
	defer close(stopOnCancel)

	err := d.acceptLoop()
	d.wg.Wait()
	return err
}

func (d *Dispatcher) acceptLoop() error {
	for {
		conn, err := d.listener.Accept()
		if err != nil {
			d.mu.Lock()
			closed := d.closed
			d.mu.Unlock()
			if closed {
				return nil
			}
			return err
		}
		d.enqueue(conn)
	}
}

func (d *Dispatcher) enqueue(conn net.Conn) {
	d.mu.Lock()
	d.queue = append(d.queue, conn)
	depth := len(d.queue)
	d.mu.Unlock()
	d.cond.Signal()

	if d.metrics != nil {
		d.metrics.ConnectionAccepted()
		d.metrics.QueueDepth(depth)
	}
}

func (d *Dispatcher) dequeue() (net.Conn, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for len(d.queue) == 0 && !d.closed {
		d.cond.Wait()
	}
	if len(d.queue) == 0 {
		return nil, false
	}

	conn := d.queue[0]
	d.queue = d.queue[1:]
	if d.metrics != nil {
		d.metrics.QueueDepth(len(d.queue))
	}
	return conn, true
}

func (d *Dispatcher) worker(ctx context.Context, id int) {
	defer d.wg.Done()
	for {
		conn, ok := d.dequeue()
		if !ok {
			return
		}
		d.handle(ctx, conn, id)
	}
}

func (d *Dispatcher) handle(ctx context.Context, conn net.Conn, workerID int) {
	connID := uuid.NewString()
	remote := conn.RemoteAddr().String()
	lc := logger.NewLogContext(connID, remote)
	connCtx := logger.WithContext(ctx, lc)

	logger.InfoCtx(connCtx, "connection accepted", logger.WorkerID(workerID))
	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCtx(connCtx, "panic in connection handler",
				logger.Reason(fmt.Sprint(r)), "stack", string(debug.Stack()))
		}
		_ = conn.Close()
		logger.InfoCtx(connCtx, "connection closed", logger.DurationMs(lc.DurationMs()))
	}()

	protocol.HandleConnection(connCtx, conn, d.registry, d.protoMetrics, d.tracer)
}

// Stop closes the listener and wakes every idle worker so the pool can
// drain and Serve can return. Safe to call more than once and safe to call
// concurrently with Serve.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	_ = d.listener.Close()
	d.cond.Broadcast()
}
