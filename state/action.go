package state

import (
	"encoding/json"

	"github.com/weftnet/weft/content"
	"github.com/weftnet/weft/p2p"
)

// Action describes one intended or observed state transition. Actions are
// immutable once constructed and carry all data needed for reduction; they
// never reference live handles (the one exception is InitNetwork, whose
// settings hand the freshly opened connection to the network reducer).
//
// The variant set is closed. Reducers switch exhaustively and default to
// leaving their sub-state unchanged.
type Action interface{ isAction() }

// GetEntryKey scopes one get-entry request. The request ID keeps concurrent
// requests for the same address independent.
type GetEntryKey struct {
	Address content.Address
	ID      string
}

// GetLinksKey scopes one get-links request.
type GetLinksKey struct {
	Base content.Address
	Tag  string
	ID   string
}

// NetworkSettings carries everything the network-init reducer needs to bind
// the runtime to a transport connection.
type NetworkSettings struct {
	Conn    p2p.Connection
	AppHash content.Address
	AgentID string
}

// Commit appends an entry to the agent's source chain.
type Commit struct{ Entry content.Entry }

// InitApplication records the running application's identity in the nucleus.
type InitApplication struct{ AppHash content.Address }

// InitNetwork binds the network sub-state to a live connection and identity.
type InitNetwork struct{ Settings NetworkSettings }

// Publish asks the network to store a committed entry in the DHT.
type Publish struct{ Address content.Address }

// GetEntry issues a DHT entry lookup.
type GetEntry struct{ Key GetEntryKey }

// GetLinks issues a DHT link lookup.
type GetLinks struct{ Key GetLinksKey }

// GetValidationPackage requests an entry's validation package from its
// author. Single-flight per address.
type GetValidationPackage struct{ Address content.Address }

// HandleFetchResult records an asynchronous peer response to GetEntry.
type HandleFetchResult struct{ Result p2p.FetchEntryResult }

// HandleGetLinksResult records an asynchronous peer response to GetLinks.
type HandleGetLinksResult struct {
	Result p2p.FetchMetaResult
	Tag    string
}

// HandleGetValidationPackage records an asynchronous peer response to
// GetValidationPackage. Content is the raw payload; the reducer decodes it.
type HandleGetValidationPackage struct {
	Address content.Address
	Content json.RawMessage
}

// GetEntryTimeout settles a still-pending get-entry request with ErrTimeout.
type GetEntryTimeout struct{ Key GetEntryKey }

// GetLinksTimeout settles a still-pending get-links request with ErrTimeout.
type GetLinksTimeout struct{ Key GetLinksKey }

// GetValidationPackageTimeout settles a still-pending validation package
// request with ErrTimeout.
type GetValidationPackageTimeout struct{ Address content.Address }

// ClearGetEntryResult removes a consumed correlation entry. Removal is an
// action so the reducer goroutine stays the only writer of the tables.
type ClearGetEntryResult struct{ Key GetEntryKey }

// ClearGetLinksResult removes a consumed correlation entry.
type ClearGetLinksResult struct{ Key GetLinksKey }

// ClearValidationPackageResult removes a consumed correlation entry.
type ClearValidationPackageResult struct{ Address content.Address }

// ClearPublishResult removes a consumed publish outcome.
type ClearPublishResult struct{ ID ActionID }

// ClearCommitResponse removes a consumed commit outcome.
type ClearCommitResponse struct{ ID ActionID }

func (Commit) isAction()                       {}
func (InitApplication) isAction()              {}
func (InitNetwork) isAction()                  {}
func (Publish) isAction()                      {}
func (GetEntry) isAction()                     {}
func (GetLinks) isAction()                     {}
func (GetValidationPackage) isAction()         {}
func (HandleFetchResult) isAction()            {}
func (HandleGetLinksResult) isAction()         {}
func (HandleGetValidationPackage) isAction()   {}
func (GetEntryTimeout) isAction()              {}
func (GetLinksTimeout) isAction()              {}
func (GetValidationPackageTimeout) isAction()  {}
func (ClearGetEntryResult) isAction()          {}
func (ClearGetLinksResult) isAction()          {}
func (ClearValidationPackageResult) isAction() {}
func (ClearPublishResult) isAction()           {}
func (ClearCommitResponse) isAction()          {}
