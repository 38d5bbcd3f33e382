package p2p

import (
	"errors"
	"sync"
)

// Connection is the outbound half of the transport collaborator: it accepts
// decoded protocol messages for transmission. Send failures are reported to
// the caller and never panic.
type Connection interface {
	Send(m Message) error
	Close() error
}

// Handler is the inbound half: the transport invokes it once per decoded
// peer message.
type Handler func(m Message)

// ErrConnectionClosed is returned by Send after Close.
var ErrConnectionClosed = errors.New("p2p: connection closed")

// Loopback is an in-process Connection that records sent messages and can
// replay inbound ones, standing in for a live network backend in tests.
type Loopback struct {
	mu      sync.Mutex
	sent    []Message
	closed  bool
	handler Handler

	// SendErr, when set, is returned by every subsequent Send.
	SendErr error
}

func NewLoopback() *Loopback { return &Loopback{} }

// OnReceive registers the handler Deliver forwards to.
func (l *Loopback) OnReceive(h Handler) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.handler = h
}

func (l *Loopback) Send(m Message) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrConnectionClosed
	}
	if l.SendErr != nil {
		return l.SendErr
	}
	l.sent = append(l.sent, m)
	return nil
}

func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// Sent returns a snapshot of all messages accepted so far.
func (l *Loopback) Sent() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.sent))
	copy(out, l.sent)
	return out
}

// Deliver simulates an inbound peer message.
func (l *Loopback) Deliver(m Message) {
	l.mu.Lock()
	h := l.handler
	l.mu.Unlock()
	if h != nil {
		h(m)
	}
}
