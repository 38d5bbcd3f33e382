package storage

import "github.com/weftnet/weft/content"

// ContentAddressableStorage is an address-keyed store of immutable content.
//
// Contract:
// - Add MUST be idempotent: adding content already present leaves the store
//   unchanged and returns nil.
// - Stored content MUST be immutable and keyed strictly by its Address.
// - Contains is a pure existence predicate with no side effects.
// - Fetch MUST return ErrNotFound for absent addresses; I/O failures are
//   distinct errors.
//
// Implementations need not be safe for concurrent use. Callers that share
// one instance across goroutines wrap it with storage/actor, which
// linearizes all operations against the backend.
type ContentAddressableStorage interface {
	Add(c content.Addressable) error
	Contains(addr content.Address) bool
	Fetch(addr content.Address) ([]byte, error)
}
