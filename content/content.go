package content

// Addressable is any value with a canonical byte serialization and a
// content-derived Address computed from those bytes.
//
// Contract: for any Addressable x, decoding Content(x) into a fresh value of
// the same type yields a value whose Address equals x.Address().
type Addressable interface {
	// Content returns the canonical serialized bytes.
	Content() ([]byte, error)

	// Address returns the content-derived identifier. Implementations derive
	// it from Content(); an undefined Address signals a value that cannot be
	// canonically serialized.
	Address() Address
}

// Decodable is the reconstruction side of Addressable, implemented on
// pointer receivers so storage can rebuild typed values from stored bytes.
type Decodable interface {
	DecodeContent([]byte) error
}

// Raw is a pre-serialized blob. It lets transports and storage adapters
// handle content whose concrete type is unknown at that layer.
type Raw []byte

func (r Raw) Content() ([]byte, error) { return []byte(r), nil }

func (r Raw) Address() Address { return addressOf([]byte(r), nil) }

func (r *Raw) DecodeContent(b []byte) error {
	*r = append((*r)[:0], b...)
	return nil
}
