package content

import "encoding/json"

// Entry is an application-defined piece of content: a type tag plus an
// opaque, already-canonical JSON value.
type Entry struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

func NewEntry(entryType string, value json.RawMessage) Entry {
	return Entry{Type: entryType, Value: value}
}

func (e Entry) Content() ([]byte, error) { return json.Marshal(e) }

func (e Entry) Address() Address { return addressOf(e.Content()) }

func (e *Entry) DecodeContent(b []byte) error { return json.Unmarshal(b, e) }

// ChainHeader links an entry into an agent's source chain. Headers are
// themselves addressable content and are stored next to their entries.
type ChainHeader struct {
	EntryType    string  `json:"entry_type"`
	EntryAddress Address `json:"entry_address"`

	// PrevHeader is the address of the previous header in the chain, or
	// undefined for the genesis commit.
	PrevHeader Address `json:"prev_header,omitempty"`

	// PrevSameType is the address of the most recent previous header with
	// the same entry type, or undefined if there is none.
	PrevSameType Address `json:"prev_same_type,omitempty"`

	// Timestamp is an RFC 3339 instant assigned at commit time.
	Timestamp string `json:"timestamp"`
}

func (h ChainHeader) Content() ([]byte, error) { return json.Marshal(h) }

func (h ChainHeader) Address() Address { return addressOf(h.Content()) }

func (h *ChainHeader) DecodeContent(b []byte) error { return json.Unmarshal(b, h) }
