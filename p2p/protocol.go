// Package p2p defines the decoded peer protocol exchanged with the network
// backend.
//
// Wire encoding is out of scope: the transport collaborator decodes frames
// into these message values before invoking the runtime's handler, and
// accepts them back through a Connection for transmission. The DHT's
// routing and replication behavior behind that transport is a black box.
package p2p

import (
	"encoding/json"

	"github.com/weftnet/weft/content"
)

// Message is one decoded protocol message. The set of variants is closed;
// receivers must silently ignore variants they do not handle.
type Message interface{ isMessage() }

// TrackApp announces the local identity pair to the network backend when a
// connection is established.
type TrackApp struct {
	AppHash content.Address `json:"app_hash"`
	AgentID string          `json:"agent_id"`
}

// PublishEntry asks the network to store an entry (with its header) in the DHT.
type PublishEntry struct {
	AppHash      content.Address `json:"app_hash"`
	AgentID      string          `json:"agent_id"`
	EntryAddress content.Address `json:"entry_address"`
	Content      json.RawMessage `json:"content"`
}

// FetchEntry requests an entry from the DHT.
type FetchEntry struct {
	RequestID    string          `json:"request_id"`
	AppHash      content.Address `json:"app_hash"`
	AgentID      string          `json:"agent_id"`
	EntryAddress content.Address `json:"entry_address"`
}

// FetchEntryResult carries a peer's answer to FetchEntry. Content is the
// serialized entry-with-meta-and-header, or empty when the entry is unknown.
type FetchEntryResult struct {
	RequestID    string          `json:"request_id"`
	AgentID      string          `json:"agent_id"`
	EntryAddress content.Address `json:"entry_address"`
	Content      json.RawMessage `json:"content,omitempty"`
}

// FetchMeta requests metadata (e.g. links) attached to a base entry.
// Attribute names the metadata class, e.g. "link__friend".
type FetchMeta struct {
	RequestID    string          `json:"request_id"`
	AppHash      content.Address `json:"app_hash"`
	AgentID      string          `json:"agent_id"`
	EntryAddress content.Address `json:"entry_address"`
	Attribute    string          `json:"attribute"`
}

// FetchMetaResult carries a peer's answer to FetchMeta. The protocol settled
// on a single-element ContentList holding one serialized address vector;
// receivers treat any other element count as a defective response.
type FetchMetaResult struct {
	RequestID    string            `json:"request_id"`
	AgentID      string            `json:"agent_id"`
	EntryAddress content.Address   `json:"entry_address"`
	Attribute    string            `json:"attribute"`
	ContentList  []json.RawMessage `json:"content_list"`
}

// StoreEntry instructs this node to hold a published entry for the DHT.
type StoreEntry struct {
	AppHash      content.Address `json:"app_hash"`
	AgentID      string          `json:"agent_id"`
	EntryAddress content.Address `json:"entry_address"`
	Content      json.RawMessage `json:"content"`
}

// StoreMeta instructs this node to hold metadata attached to a base entry.
type StoreMeta struct {
	AppHash      content.Address   `json:"app_hash"`
	AgentID      string            `json:"agent_id"`
	EntryAddress content.Address   `json:"entry_address"`
	Attribute    string            `json:"attribute"`
	ContentList  []json.RawMessage `json:"content_list"`
}

// HandleSend delivers a node-to-node message, e.g. a validation package
// request addressed to the entry's author.
type HandleSend struct {
	RequestID    string          `json:"request_id"`
	FromAgentID  string          `json:"from_agent_id"`
	ToAgentID    string          `json:"to_agent_id"`
	EntryAddress content.Address `json:"entry_address"`
	Content      json.RawMessage `json:"content"`
}

// HandleSendResult carries the reply to an earlier HandleSend. For
// validation package requests the content is the serialized package, or
// empty when the queried agent has none.
type HandleSendResult struct {
	RequestID    string          `json:"request_id"`
	FromAgentID  string          `json:"from_agent_id"`
	EntryAddress content.Address `json:"entry_address"`
	Content      json.RawMessage `json:"content,omitempty"`
}

func (TrackApp) isMessage()         {}
func (PublishEntry) isMessage()     {}
func (FetchEntry) isMessage()       {}
func (FetchEntryResult) isMessage() {}
func (FetchMeta) isMessage()        {}
func (FetchMetaResult) isMessage()  {}
func (StoreEntry) isMessage()       {}
func (StoreMeta) isMessage()        {}
func (HandleSend) isMessage()       {}
func (HandleSendResult) isMessage() {}
