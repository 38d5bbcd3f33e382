// Package badgercas provides a BadgerDB-backed content-addressable store.
//
// Badger gives the runtime a durable embedded backend with low-latency
// reads, without the one-file-per-object layout of fscas. Keys are the
// string form of the content address; values are the canonical bytes.
package badgercas

import (
	"errors"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/weftnet/weft/content"
	"github.com/weftnet/weft/storage"
)

type Config struct {
	// Path is the directory for the Badger database. Ignored when InMemory.
	Path string

	// InMemory disables disk persistence; useful for tests.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool
}

type CAS struct {
	db *badger.DB
}

func Open(cfg Config) (*CAS, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badgercas: path is required for a persistent store")
	}
	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithSyncWrites(cfg.SyncWrites).
		WithLogger(nil)
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("")
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &CAS{db: db}, nil
}

func (c *CAS) Close() error { return c.db.Close() }

func (c *CAS) Add(ac content.Addressable) error {
	b, err := ac.Content()
	if err != nil {
		return err
	}
	addr := ac.Address()
	if !addr.Defined() {
		return storage.ErrInvalidAddress
	}
	return c.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get([]byte(addr)); err == nil {
			return nil
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return txn.Set([]byte(addr), b)
	})
}

func (c *CAS) Contains(addr content.Address) bool {
	if !addr.Defined() {
		return false
	}
	err := c.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(addr))
		return err
	})
	return err == nil
}

func (c *CAS) Fetch(addr content.Address) ([]byte, error) {
	if !addr.Defined() {
		return nil, storage.ErrInvalidAddress
	}
	var out []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(addr))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}
