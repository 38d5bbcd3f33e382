package state

import (
	"time"

	"github.com/weftnet/weft/content"
	"github.com/weftnet/weft/storage"
)

// AgentState is the agent's slice of the state tree: the source chain and
// the outcomes of commit actions, keyed by wrapper identity so observers can
// retrieve their own result.
//
// The chain store handle is shared across snapshots; chain content is
// append-only, so older snapshots stay valid.
type AgentState struct {
	chain     storage.ContentAddressableStorage
	topHeader *content.ChainHeader

	// typeHeads tracks the latest header address per entry type, feeding
	// each new header's prev-same-type link.
	typeHeads map[string]content.Address

	// headerIndex maps entry address to the header it was committed under.
	headerIndex map[content.Address]content.Address

	responses map[ActionID]*CommitResponse
}

// CommitResponse is the terminal outcome of one Commit action.
type CommitResponse struct {
	Address content.Address
	Err     error
}

func newAgentState(chain storage.ContentAddressableStorage) *AgentState {
	return &AgentState{
		chain:       chain,
		typeHeads:   make(map[string]content.Address),
		headerIndex: make(map[content.Address]content.Address),
		responses:   make(map[ActionID]*CommitResponse),
	}
}

// Chain returns the source chain's backing store.
func (s *AgentState) Chain() storage.ContentAddressableStorage { return s.chain }

// TopHeader returns the most recent chain header, or nil for an empty chain.
func (s *AgentState) TopHeader() *content.ChainHeader {
	if s.topHeader == nil {
		return nil
	}
	h := *s.topHeader
	return &h
}

// HeaderAddressFor returns the address of the header an entry was committed
// under.
func (s *AgentState) HeaderAddressFor(entry content.Address) (content.Address, bool) {
	addr, ok := s.headerIndex[entry]
	return addr, ok
}

// CommitResponse returns the outcome of the Commit dispatched under id, if
// it has been reduced.
func (s *AgentState) CommitResponse(id ActionID) (*CommitResponse, bool) {
	r, ok := s.responses[id]
	return r, ok
}

func (s *AgentState) clone() *AgentState {
	c := &AgentState{
		chain:       s.chain,
		topHeader:   s.topHeader,
		typeHeads:   make(map[string]content.Address, len(s.typeHeads)),
		headerIndex: make(map[content.Address]content.Address, len(s.headerIndex)),
		responses:   make(map[ActionID]*CommitResponse, len(s.responses)),
	}
	for k, v := range s.typeHeads {
		c.typeHeads[k] = v
	}
	for k, v := range s.headerIndex {
		c.headerIndex[k] = v
	}
	for k, v := range s.responses {
		c.responses[k] = v
	}
	return c
}

func newChainHeader(entry content.Entry, s *AgentState, at time.Time) content.ChainHeader {
	h := content.ChainHeader{
		EntryType:    entry.Type,
		EntryAddress: entry.Address(),
		Timestamp:    at.Format(time.RFC3339Nano),
	}
	if s.topHeader != nil {
		h.PrevHeader = s.topHeader.Address()
	}
	if prev, ok := s.typeHeads[entry.Type]; ok {
		h.PrevSameType = prev
	}
	return h
}

func reduceAgent(old *AgentState, aw ActionWrapper) *AgentState {
	switch a := aw.Action.(type) {
	case Commit:
		return reduceCommit(old, a, aw)
	case ClearCommitResponse:
		if _, ok := old.responses[a.ID]; !ok {
			return old
		}
		s := old.clone()
		delete(s.responses, a.ID)
		return s
	default:
		return old
	}
}

func reduceCommit(old *AgentState, a Commit, aw ActionWrapper) *AgentState {
	s := old.clone()
	header := newChainHeader(a.Entry, old, aw.Time)

	err := func() error {
		if err := s.chain.Add(a.Entry); err != nil {
			return err
		}
		return s.chain.Add(header)
	}()
	if err != nil {
		s.responses[aw.ID] = &CommitResponse{Err: err}
		return s
	}

	s.topHeader = &header
	s.typeHeads[a.Entry.Type] = header.Address()
	s.headerIndex[a.Entry.Address()] = header.Address()
	s.responses[aw.ID] = &CommitResponse{Address: a.Entry.Address()}
	return s
}
