package storage

import (
	"errors"

	"github.com/weftnet/weft/content"
)

// MultiCAS provides deterministic, ordered fallback across multiple stores.
//
// Fetch and Contains consult stores in slice order; callers MUST supply a
// fixed order so the retrieval strategy stays explicit. Add writes only to
// the first store.
type MultiCAS struct {
	Stores []ContentAddressableStorage
}

func (m MultiCAS) Add(c content.Addressable) error {
	if len(m.Stores) == 0 {
		return errors.New("storage: MultiCAS has no stores")
	}
	return m.Stores[0].Add(c)
}

func (m MultiCAS) Contains(addr content.Address) bool {
	for _, s := range m.Stores {
		if s.Contains(addr) {
			return true
		}
	}
	return false
}

func (m MultiCAS) Fetch(addr content.Address) ([]byte, error) {
	for _, s := range m.Stores {
		b, err := s.Fetch(addr)
		if err == nil {
			return b, nil
		}
		if !IsNotFound(err) {
			return nil, err
		}
	}
	return nil, ErrNotFound
}
