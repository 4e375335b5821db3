// Package dispatch routes framed, decrypted inbound packets to opcode
// handlers, respecting the session's current lifecycle state and running
// each session's handlers strictly in arrival order while different
// sessions run concurrently.
package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/wydcore/gameserver/internal/session"
)

// Result is a handler's verdict on what should happen to the connection
// after it runs.
type Result int

const (
	// Ok means the packet was handled; the session stays open.
	Ok Result = iota
	// CloseConnection means the handler decided the connection must close
	// (e.g. AuthFailed, DuplicateLogin).
	CloseConnection
	// Deferred means the handler scheduled asynchronous work and the
	// session's state will change out-of-band (e.g. character load).
	Deferred
)

// Handler processes one decoded packet body for a session already known to
// be in an allowed state for this opcode.
type Handler func(ctx context.Context, s *session.Session, payload []byte) (Result, error)

// entry pairs a handler with the lifecycle states it may run in.
type entry struct {
	handler       Handler
	allowedStates map[session.State]bool
}

// Table is the opcode -> handler registration, keyed by (opcode, allowed
// states). Registration happens once at startup; lookups are read-only and
// need no locking after that.
type Table struct {
	mu      sync.RWMutex
	entries map[uint16]entry
}

// NewTable creates an empty opcode dispatch table.
func NewTable() *Table {
	return &Table{entries: make(map[uint16]entry)}
}

// Register binds a handler to an opcode, restricted to the given lifecycle
// states. An empty states list means the handler accepts any state.
func (t *Table) Register(opcode uint16, h Handler, states ...session.State) {
	allowed := make(map[session.State]bool, len(states))
	for _, s := range states {
		allowed[s] = true
	}
	t.mu.Lock()
	t.entries[opcode] = entry{handler: h, allowedStates: allowed}
	t.mu.Unlock()
}

// Lookup returns the handler registered for opcode, and whether `state` is
// permitted to invoke it. (found=false, allowed=false) means
// ErrUnknownOpcode; (found=true, allowed=false) means ErrWrongState.
func (t *Table) Lookup(opcode uint16, state session.State) (h Handler, found, allowed bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[opcode]
	if !ok {
		return nil, false, false
	}
	if len(e.allowedStates) == 0 || e.allowedStates[state] {
		return e.handler, true, true
	}
	return e.handler, true, false
}

// worker is a single session's serial execution queue: packets for one
// session always run in the order they arrived, never concurrently with
// each other, while independent sessions' workers run in parallel.
type worker struct {
	queue chan func()
	once  sync.Once
}

func newWorker(depth int) *worker {
	w := &worker{queue: make(chan func(), depth)}
	go w.run()
	return w
}

func (w *worker) run() {
	for fn := range w.queue {
		fn()
	}
}

func (w *worker) stop() {
	w.once.Do(func() { close(w.queue) })
}

// Dispatcher owns one ordered worker per session and routes inbound
// packets through Table.
type Dispatcher struct {
	table      *Table
	queueDepth int

	mu      sync.Mutex
	workers map[uint16]*worker
}

// NewDispatcher creates a dispatcher over table, giving each session's
// worker a queue of queueDepth pending packets before Dispatch blocks.
func NewDispatcher(table *Table, queueDepth int) *Dispatcher {
	if queueDepth <= 0 {
		queueDepth = 64
	}
	return &Dispatcher{
		table:      table,
		queueDepth: queueDepth,
		workers:    make(map[uint16]*worker),
	}
}

func (d *Dispatcher) workerFor(sessionID uint16) *worker {
	d.mu.Lock()
	defer d.mu.Unlock()
	w, ok := d.workers[sessionID]
	if !ok {
		w = newWorker(d.queueDepth)
		d.workers[sessionID] = w
	}
	return w
}

// Dispatch enqueues one packet for sequential handling on s's worker,
// calling onResult with the handler's verdict once it runs. Returns
// ErrUnknownOpcode / ErrWrongState synchronously without touching the
// worker queue, since those never need the session's serial ordering.
func (d *Dispatcher) Dispatch(ctx context.Context, s *session.Session, opcode uint16, payload []byte, onResult func(Result, error)) error {
	handler, found, allowed := d.table.Lookup(opcode, s.State())
	if !found {
		return fmt.Errorf("dispatch: opcode %#x: %w", opcode, ErrUnknownOpcode)
	}
	if !allowed {
		return fmt.Errorf("dispatch: opcode %#x in state %s: %w", opcode, s.State(), ErrWrongState)
	}

	w := d.workerFor(s.ID())
	w.queue <- func() {
		result, err := handler(ctx, s, payload)
		if onResult != nil {
			onResult(result, err)
		}
	}
	return nil
}

// CloseSession stops and discards the worker for sessionID. Call when a
// session is removed from the registry.
func (d *Dispatcher) CloseSession(sessionID uint16) {
	d.mu.Lock()
	w, ok := d.workers[sessionID]
	delete(d.workers, sessionID)
	d.mu.Unlock()
	if ok {
		w.stop()
	}
}
