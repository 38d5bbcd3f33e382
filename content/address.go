package content

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// Address is the content-derived identifier of a byte blob: the string form
// of a CIDv1 using the "raw" multicodec and a sha2-256 multihash.
//
// Contract:
// - Identical canonical bytes always derive an identical Address.
// - Addresses are immutable and comparable (usable as map keys).
// - The zero value is undefined and never matches stored content.
type Address string

// AddressOf derives the Address of data.
func AddressOf(data []byte) (Address, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return "", err
	}
	return Address(cid.NewCidV1(cid.Raw, sum).String()), nil
}

// Defined reports whether a carries a value.
func (a Address) Defined() bool { return a != "" }

func (a Address) String() string { return string(a) }

// addressOf is the internal no-error variant used by content types whose
// canonical encoding cannot fail. A marshal failure yields the undefined
// Address, which no store will ever match.
func addressOf(data []byte, err error) Address {
	if err != nil {
		return ""
	}
	a, err := AddressOf(data)
	if err != nil {
		return ""
	}
	return a
}
