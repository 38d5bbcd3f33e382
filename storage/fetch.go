package storage

import (
	"fmt"

	"github.com/weftnet/weft/content"
)

// FetchAs fetches the content at addr and reconstructs a typed value via the
// content round-trip.
//
// It returns (nil, nil) when the address is absent: "not found" is a valid
// outcome, not an error. Deserialization failure (stored bytes do not match
// the requested type's shape) and backend I/O failures are errors.
func FetchAs[T any, PT interface {
	*T
	content.Decodable
}](s ContentAddressableStorage, addr content.Address) (*T, error) {
	b, err := s.Fetch(addr)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	v := PT(new(T))
	if err := v.DecodeContent(b); err != nil {
		return nil, fmt.Errorf("storage: decode content at %s: %w", addr, err)
	}
	return (*T)(v), nil
}
