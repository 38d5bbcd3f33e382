// Package memcas provides an in-memory content-addressable store.
//
// It is the reference backend for tests and for runtimes that do not need
// persistence. Two instances are fully independent.
package memcas

import (
	"sync"

	"github.com/weftnet/weft/content"
	"github.com/weftnet/weft/storage"
)

type CAS struct {
	mu      sync.RWMutex
	objects map[content.Address][]byte
}

func New() *CAS {
	return &CAS{objects: make(map[content.Address][]byte)}
}

func (c *CAS) Add(ac content.Addressable) error {
	b, err := ac.Content()
	if err != nil {
		return err
	}
	addr := ac.Address()
	if !addr.Defined() {
		return storage.ErrInvalidAddress
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.objects[addr]; ok {
		return nil
	}
	stored := make([]byte, len(b))
	copy(stored, b)
	c.objects[addr] = stored
	return nil
}

func (c *CAS) Contains(addr content.Address) bool {
	if !addr.Defined() {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.objects[addr]
	return ok
}

func (c *CAS) Fetch(addr content.Address) ([]byte, error) {
	if !addr.Defined() {
		return nil, storage.ErrInvalidAddress
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	b, ok := c.objects[addr]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, nil
}
