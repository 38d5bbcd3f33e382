package state

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/weftnet/weft/logging"
	"github.com/weftnet/weft/storage"
)

// Engine serializes action dispatch through a single reducer goroutine and
// publishes immutable snapshots. Dispatch never blocks on reduction;
// observers read the latest snapshot with State and learn about new ones
// through Watch.
type Engine struct {
	actions chan ActionWrapper
	current atomic.Pointer[State]

	mu      sync.Mutex
	changed chan struct{}

	closeOnce sync.Once
	done      chan struct{}
	stopped   chan struct{}

	log *slog.Logger
}

// NewEngine starts the reducer goroutine over a fresh state tree backed by
// chain. A nil log discards.
func NewEngine(chain storage.ContentAddressableStorage, log *slog.Logger) *Engine {
	if log == nil {
		log = logging.Discard()
	}
	e := &Engine{
		actions: make(chan ActionWrapper, 128),
		changed: make(chan struct{}),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		log:     log,
	}
	e.current.Store(NewState(chain))
	go e.run()
	return e
}

// Dispatch enqueues an action and returns its wrapper ID. Actions reduce in
// dispatch order. Dispatch after Close is a no-op; the returned ID will
// never settle.
func (e *Engine) Dispatch(a Action) ActionID {
	aw := NewActionWrapper(a)
	// Checked first: with buffer capacity free, a two-way select could
	// still enqueue after Close even though nothing will reduce it.
	select {
	case <-e.done:
		e.log.Warn("action dropped, engine closed", "action_id", aw.ID)
		return aw.ID
	default:
	}
	select {
	case e.actions <- aw:
	case <-e.done:
		e.log.Warn("action dropped, engine closed", "action_id", aw.ID)
	}
	return aw.ID
}

// State returns the latest published snapshot.
func (e *Engine) State() *State { return e.current.Load() }

// Watch returns a channel closed when the next snapshot is published.
// Callers re-acquire a channel on every wake; a wake carries no payload,
// only the hint to re-read State.
func (e *Engine) Watch() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.changed
}

// Close stops the reducer goroutine, closes the network connection bound to
// the final snapshot, and wakes all watchers. Idempotent.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		close(e.done)
		<-e.stopped

		if conn := e.current.Load().Network().Conn(); conn != nil {
			if err := conn.Close(); err != nil {
				e.log.Warn("network connection close", "err", err)
			}
		}

		e.mu.Lock()
		close(e.changed)
		e.changed = make(chan struct{})
		e.mu.Unlock()
	})
	return nil
}

func (e *Engine) run() {
	defer close(e.stopped)
	for {
		select {
		case aw := <-e.actions:
			e.reduceOne(aw)
		case <-e.done:
			// Drain what was enqueued before Close.
			for {
				select {
				case aw := <-e.actions:
					e.reduceOne(aw)
				default:
					return
				}
			}
		}
	}
}

func (e *Engine) reduceOne(aw ActionWrapper) {
	next := e.current.Load().Reduce(aw)
	e.current.Store(next)

	e.mu.Lock()
	close(e.changed)
	e.changed = make(chan struct{})
	e.mu.Unlock()
}
