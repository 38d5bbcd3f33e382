// Package actor wraps a ContentAddressableStorage backend behind a
// message-passing actor so that Add/Contains/Fetch calls from any number of
// concurrent callers are linearized against that backend without external
// locking.
//
// One goroutine owns the backend; every operation is an ask-and-wait
// round-trip over the actor's mailbox. Two distinct Store instances are
// fully independent and may be operated on concurrently.
//
// Never call into a Store from code running on a state reducer when the
// reducer's completion is what would unblock the actor; that is an
// unresolvable reentrancy deadlock.
package actor

import (
	"errors"
	"log/slog"

	"github.com/weftnet/weft/content"
	"github.com/weftnet/weft/logging"
	"github.com/weftnet/weft/storage"
)

// ErrClosed is returned for operations issued after Close.
var ErrClosed = errors.New("actor: store closed")

type opKind uint8

const (
	opAdd opKind = iota
	opContains
	opFetch
)

type request struct {
	kind    opKind
	content content.Addressable
	addr    content.Address
	reply   chan response
}

type response struct {
	bytes    []byte
	contains bool
	err      error
}

// Store is the actor handle. It satisfies storage.ContentAddressableStorage.
type Store struct {
	mailbox chan request
	done    chan struct{}
	log     *slog.Logger
}

var _ storage.ContentAddressableStorage = (*Store)(nil)

// New starts an actor owning backend. Pass a nil logger to disable logging.
func New(backend storage.ContentAddressableStorage, log *slog.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	s := &Store{
		mailbox: make(chan request),
		done:    make(chan struct{}),
		log:     log,
	}
	go s.serve(backend)
	return s
}

// Close stops the actor. In-flight operations complete; later operations
// return ErrClosed. Close is idempotent.
func (s *Store) Close() {
	select {
	case <-s.done:
	default:
		close(s.done)
	}
}

func (s *Store) Add(c content.Addressable) error {
	resp, err := s.ask(request{kind: opAdd, content: c})
	if err != nil {
		return err
	}
	return resp.err
}

func (s *Store) Contains(addr content.Address) bool {
	resp, err := s.ask(request{kind: opContains, addr: addr})
	if err != nil {
		return false
	}
	return resp.contains
}

func (s *Store) Fetch(addr content.Address) ([]byte, error) {
	resp, err := s.ask(request{kind: opFetch, addr: addr})
	if err != nil {
		return nil, err
	}
	return resp.bytes, resp.err
}

func (s *Store) ask(req request) (response, error) {
	req.reply = make(chan response, 1)
	select {
	case s.mailbox <- req:
	case <-s.done:
		return response{}, ErrClosed
	}
	select {
	case resp := <-req.reply:
		return resp, nil
	case <-s.done:
		return response{}, ErrClosed
	}
}

func (s *Store) serve(backend storage.ContentAddressableStorage) {
	for {
		select {
		case req := <-s.mailbox:
			req.reply <- s.handle(backend, req)
		case <-s.done:
			return
		}
	}
}

func (s *Store) handle(backend storage.ContentAddressableStorage, req request) response {
	switch req.kind {
	case opAdd:
		err := backend.Add(req.content)
		if err != nil {
			s.log.Error("cas add failed", "address", req.content.Address(), "error", err)
		}
		return response{err: err}
	case opContains:
		return response{contains: backend.Contains(req.addr)}
	case opFetch:
		b, err := backend.Fetch(req.addr)
		if err != nil && !storage.IsNotFound(err) {
			s.log.Error("cas fetch failed", "address", req.addr, "error", err)
		}
		return response{bytes: b, err: err}
	default:
		return response{err: errors.New("actor: unknown operation")}
	}
}
