// Package fscas provides a filesystem-backed content-addressable store.
//
// Layout: one file per content address at <root>/<address>.json, containing
// the canonical serialized content. The root directory is created on first
// write if absent.
package fscas

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/weftnet/weft/content"
	"github.com/weftnet/weft/storage"
)

type CAS struct {
	root string
}

// New constructs a filesystem CAS rooted at root. The directory itself is
// created lazily on the first Add.
func New(root string) (*CAS, error) {
	if root == "" {
		return nil, errors.New("fscas: root directory is required")
	}
	return &CAS{root: root}, nil
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

	if err := os.MkdirAll(c.root, 0o755); err != nil {
		return err
	}

	path := c.pathFor(addr)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if os.IsExist(err) {
			// Idempotent re-add: accept only if the stored bytes still
			// derive the same address.
			existing, rerr := c.Fetch(addr)
			if rerr != nil {
				return storage.ErrImmutable
			}
			if string(existing) != string(b) {
				return storage.ErrImmutable
			}
			return nil
		}
		return err
	}

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return err
	}
	return nil
}

func (c *CAS) Contains(addr content.Address) bool {
	if !addr.Defined() {
		return false
	}
	info, err := os.Stat(c.pathFor(addr))
	return err == nil && info.Mode().IsRegular()
}

func (c *CAS) Fetch(addr content.Address) ([]byte, error) {
	if !addr.Defined() {
		return nil, storage.ErrInvalidAddress
	}
	b, err := os.ReadFile(c.pathFor(addr))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storage.ErrNotFound
		}
		return nil, err
	}
	got, err := content.AddressOf(b)
	if err != nil {
		return nil, err
	}
	if got != addr {
		return nil, storage.ErrMismatch
	}
	return b, nil
}

func (c *CAS) pathFor(addr content.Address) string {
	return filepath.Join(c.root, addr.String()+".json")
}
