package state

import (
	"github.com/weftnet/weft/content"
	"github.com/weftnet/weft/p2p"
)

// NetworkState is the network slice of the state tree: at most one live
// outbound connection, the local identity bindings (set once by InitNetwork,
// immutable for the connection's lifetime), and the correlation tables that
// bridge asynchronous peer responses to waiting workflows.
//
// Each table maps a request key to its result. A key present with a nil
// value is pending; a non-nil value is settled. Keys only transition
// pending to settled, exactly once; consumption removes the key via a Clear
// action.
type NetworkState struct {
	conn    p2p.Connection
	appHash content.Address
	agentID string

	getEntryResults          map[GetEntryKey]*GetEntryResult
	getLinksResults          map[GetLinksKey]*GetLinksResult
	validationPackageResults map[content.Address]*ValidationPackageResult
	publishResults           map[ActionID]*PublishResult
}

// GetEntryResult is the settled outcome of one get-entry request. A nil
// Entry with a nil Err means the entry does not exist anywhere we asked.
type GetEntryResult struct {
	Entry *content.EntryWithMetaAndHeader
	Err   error
}

// GetLinksResult is the settled outcome of one get-links request.
type GetLinksResult struct {
	Addresses []content.Address
	Err       error
}

// ValidationPackageResult is the settled outcome of one validation package
// request. A nil Package with a nil Err means the queried agent had none.
type ValidationPackageResult struct {
	Package *content.ValidationPackage
	Err     error
}

// PublishResult is the terminal outcome of one Publish action.
type PublishResult struct {
	Address content.Address
	Err     error
}

func newNetworkState() *NetworkState {
	return &NetworkState{
		getEntryResults:          make(map[GetEntryKey]*GetEntryResult),
		getLinksResults:          make(map[GetLinksKey]*GetLinksResult),
		validationPackageResults: make(map[content.Address]*ValidationPackageResult),
		publishResults:           make(map[ActionID]*PublishResult),
	}
}

// Initialized reports whether InitNetwork has bound a connection and
// identity.
func (s *NetworkState) Initialized() bool {
	return s.conn != nil && s.appHash.Defined() && s.agentID != ""
}

// Conn returns the live connection handle, or nil before initialization.
func (s *NetworkState) Conn() p2p.Connection { return s.conn }

func (s *NetworkState) AppHash() content.Address { return s.appHash }

func (s *NetworkState) AgentID() string { return s.agentID }

// GetEntryResult reports the correlation entry for key: ok is false when no
// request is tracked, and the result is nil while the request is pending.
func (s *NetworkState) GetEntryResult(key GetEntryKey) (*GetEntryResult, bool) {
	r, ok := s.getEntryResults[key]
	return r, ok
}

// GetLinksResult reports the correlation entry for key.
func (s *NetworkState) GetLinksResult(key GetLinksKey) (*GetLinksResult, bool) {
	r, ok := s.getLinksResults[key]
	return r, ok
}

// ValidationPackageResult reports the correlation entry for addr.
func (s *NetworkState) ValidationPackageResult(addr content.Address) (*ValidationPackageResult, bool) {
	r, ok := s.validationPackageResults[addr]
	return r, ok
}

// PublishResult reports the outcome of the Publish dispatched under id.
func (s *NetworkState) PublishResult(id ActionID) (*PublishResult, bool) {
	r, ok := s.publishResults[id]
	return r, ok
}

func (s *NetworkState) clone() *NetworkState {
	c := &NetworkState{
		conn:                     s.conn,
		appHash:                  s.appHash,
		agentID:                  s.agentID,
		getEntryResults:          make(map[GetEntryKey]*GetEntryResult, len(s.getEntryResults)),
		getLinksResults:          make(map[GetLinksKey]*GetLinksResult, len(s.getLinksResults)),
		validationPackageResults: make(map[content.Address]*ValidationPackageResult, len(s.validationPackageResults)),
		publishResults:           make(map[ActionID]*PublishResult, len(s.publishResults)),
	}
	for k, v := range s.getEntryResults {
		c.getEntryResults[k] = v
	}
	for k, v := range s.getLinksResults {
		c.getLinksResults[k] = v
	}
	for k, v := range s.validationPackageResults {
		c.validationPackageResults[k] = v
	}
	for k, v := range s.publishResults {
		c.publishResults[k] = v
	}
	return c
}
