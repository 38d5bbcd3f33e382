package content

import "encoding/json"

// CrudStatus is the lifecycle status a DHT node reports for an entry.
type CrudStatus string

const (
	StatusLive     CrudStatus = "live"
	StatusModified CrudStatus = "modified"
	StatusDeleted  CrudStatus = "deleted"
)

// EntryWithMeta pairs an entry with the status metadata held by the
// responding node.
type EntryWithMeta struct {
	Entry  Entry      `json:"entry"`
	Status CrudStatus `json:"crud_status"`
}

// EntryWithMetaAndHeader is the full get-entry response payload: the entry,
// its metadata, and the chain header under which it was committed.
type EntryWithMetaAndHeader struct {
	EntryWithMeta `json:"entry_with_meta"`
	Header        ChainHeader `json:"header"`
}

func (e EntryWithMetaAndHeader) Content() ([]byte, error) { return json.Marshal(e) }

func (e EntryWithMetaAndHeader) Address() Address { return addressOf(e.Content()) }

func (e *EntryWithMetaAndHeader) DecodeContent(b []byte) error { return json.Unmarshal(b, e) }

// ValidationPackage carries the chain material a validator needs to judge a
// committed entry. The header is always present; chain slices are included
// only when the entry type's validation demands them.
type ValidationPackage struct {
	Header             ChainHeader   `json:"chain_header"`
	SourceChainEntries []Entry       `json:"source_chain_entries,omitempty"`
	SourceChainHeaders []ChainHeader `json:"source_chain_headers,omitempty"`
}

func (p ValidationPackage) Content() ([]byte, error) { return json.Marshal(p) }

func (p ValidationPackage) Address() Address { return addressOf(p.Content()) }

func (p *ValidationPackage) DecodeContent(b []byte) error { return json.Unmarshal(b, p) }
