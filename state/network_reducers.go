package state

import (
	"encoding/json"
	"fmt"

	"github.com/weftnet/weft/content"
	"github.com/weftnet/weft/p2p"
	"github.com/weftnet/weft/storage"
)

// reduceNetwork applies one action to the network sub-state. root is the
// pre-reduction state tree; the publish reducer reads the source chain
// through it.
func reduceNetwork(old *NetworkState, root *State, aw ActionWrapper) *NetworkState {
	switch a := aw.Action.(type) {
	case InitNetwork:
		return reduceInitNetwork(old, a)
	case Publish:
		return reducePublish(old, root, a, aw)
	case GetEntry:
		return reduceGetEntry(old, a)
	case GetLinks:
		return reduceGetLinks(old, a)
	case GetValidationPackage:
		return reduceGetValidationPackage(old, a)
	case HandleFetchResult:
		return reduceHandleFetchResult(old, a)
	case HandleGetLinksResult:
		return reduceHandleGetLinksResult(old, a)
	case HandleGetValidationPackage:
		return reduceHandleGetValidationPackage(old, a)
	case GetEntryTimeout:
		return reduceGetEntryTimeout(old, a)
	case GetLinksTimeout:
		return reduceGetLinksTimeout(old, a)
	case GetValidationPackageTimeout:
		return reduceGetValidationPackageTimeout(old, a)
	case ClearGetEntryResult:
		return clearKey(old, func(s *NetworkState) { delete(s.getEntryResults, a.Key) })
	case ClearGetLinksResult:
		return clearKey(old, func(s *NetworkState) { delete(s.getLinksResults, a.Key) })
	case ClearValidationPackageResult:
		return clearKey(old, func(s *NetworkState) { delete(s.validationPackageResults, a.Address) })
	case ClearPublishResult:
		return clearKey(old, func(s *NetworkState) { delete(s.publishResults, a.ID) })
	default:
		return old
	}
}

func clearKey(old *NetworkState, del func(*NetworkState)) *NetworkState {
	s := old.clone()
	del(s)
	return s
}

// reduceInitNetwork binds the connection and identity. The TrackApp
// announcement is sent first; if the transport rejects it the sub-state
// stays uninitialized and callers observe that through Initialized().
func reduceInitNetwork(old *NetworkState, a InitNetwork) *NetworkState {
	set := a.Settings
	if set.Conn == nil || !set.AppHash.Defined() || set.AgentID == "" {
		return old
	}
	err := set.Conn.Send(p2p.TrackApp{AppHash: set.AppHash, AgentID: set.AgentID})
	if err != nil {
		return old
	}
	s := old.clone()
	s.conn = set.Conn
	s.appHash = set.AppHash
	s.agentID = set.AgentID
	return s
}

// reducePublish reads the committed entry and its header from the source
// chain and hands them to the network. The outcome is recorded under the
// wrapper's ID so the publishing workflow receives a terminal value even on
// failure.
func reducePublish(old *NetworkState, root *State, a Publish, aw ActionWrapper) *NetworkState {
	if !old.Initialized() {
		return old
	}

	s := old.clone()
	payload, err := publishPayload(root.Agent(), a.Address)
	if err != nil {
		s.publishResults[aw.ID] = &PublishResult{Err: err}
		return s
	}

	err = s.conn.Send(p2p.PublishEntry{
		AppHash:      s.appHash,
		AgentID:      s.agentID,
		EntryAddress: a.Address,
		Content:      payload,
	})
	if err != nil {
		s.publishResults[aw.ID] = &PublishResult{Err: fmt.Errorf("state: publish send: %w", err)}
		return s
	}
	s.publishResults[aw.ID] = &PublishResult{Address: a.Address}
	return s
}

func publishPayload(agent *AgentState, addr content.Address) (json.RawMessage, error) {
	entry, err := storage.FetchAs[content.Entry](agent.Chain(), addr)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotInChain
	}
	headerAddr, ok := agent.HeaderAddressFor(addr)
	if !ok {
		return nil, ErrNotInChain
	}
	header, err := storage.FetchAs[content.ChainHeader](agent.Chain(), headerAddr)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, ErrNotInChain
	}

	full := content.EntryWithMetaAndHeader{
		EntryWithMeta: content.EntryWithMeta{Entry: *entry, Status: content.StatusLive},
		Header:        *header,
	}
	return full.Content()
}

func reduceGetEntry(old *NetworkState, a GetEntry) *NetworkState {
	if !old.Initialized() {
		return old
	}
	s := old.clone()
	s.getEntryResults[a.Key] = nil
	err := s.conn.Send(p2p.FetchEntry{
		RequestID:    a.Key.ID,
		AppHash:      s.appHash,
		AgentID:      s.agentID,
		EntryAddress: a.Key.Address,
	})
	if err != nil {
		s.getEntryResults[a.Key] = &GetEntryResult{Err: fmt.Errorf("state: get entry send: %w", err)}
	}
	return s
}

func reduceGetLinks(old *NetworkState, a GetLinks) *NetworkState {
	if !old.Initialized() {
		return old
	}
	s := old.clone()
	s.getLinksResults[a.Key] = nil
	err := s.conn.Send(p2p.FetchMeta{
		RequestID:    a.Key.ID,
		AppHash:      s.appHash,
		AgentID:      s.agentID,
		EntryAddress: a.Key.Base,
		Attribute:    linkAttribute(a.Key.Tag),
	})
	if err != nil {
		s.getLinksResults[a.Key] = &GetLinksResult{Err: fmt.Errorf("state: get links send: %w", err)}
	}
	return s
}

// reduceGetValidationPackage opens one request per address. A repeat dispatch
// while the address is already tracked (pending or settled-but-unconsumed) is
// a no-op: callers share the in-flight correlation entry, and a settled value
// must never return to pending.
func reduceGetValidationPackage(old *NetworkState, a GetValidationPackage) *NetworkState {
	if !old.Initialized() {
		return old
	}
	if _, ok := old.validationPackageResults[a.Address]; ok {
		return old
	}
	s := old.clone()
	s.validationPackageResults[a.Address] = nil
	err := s.conn.Send(p2p.HandleSend{
		RequestID:    a.Address.String(),
		FromAgentID:  s.agentID,
		EntryAddress: a.Address,
		Content:      json.RawMessage(`{"type":"validation_package_request"}`),
	})
	if err != nil {
		s.validationPackageResults[a.Address] = &ValidationPackageResult{
			Err: fmt.Errorf("state: validation package send: %w", err),
		}
	}
	return s
}

// reduceHandleFetchResult settles the matching get-entry request. Responses
// for unknown or already-settled keys are ignored: an abandoned request's
// late answer must not disturb other requests, and a settled key never
// changes value.
func reduceHandleFetchResult(old *NetworkState, a HandleFetchResult) *NetworkState {
	if !old.Initialized() {
		return old
	}
	key := GetEntryKey{Address: a.Result.EntryAddress, ID: a.Result.RequestID}
	if r, ok := old.getEntryResults[key]; !ok || r != nil {
		return old
	}

	s := old.clone()
	s.getEntryResults[key] = decodeFetchResult(a.Result)
	return s
}

func decodeFetchResult(res p2p.FetchEntryResult) *GetEntryResult {
	if len(res.Content) == 0 {
		return &GetEntryResult{}
	}
	var full content.EntryWithMetaAndHeader
	if err := full.DecodeContent(res.Content); err != nil {
		return &GetEntryResult{Err: &ResponseError{Op: "get entry", Cause: err}}
	}
	return &GetEntryResult{Entry: &full}
}

// reduceHandleGetLinksResult settles the matching get-links request. The
// protocol contract is a single-element content list holding one serialized
// address vector; any other count is a defect in the peer response and
// settles as an error.
func reduceHandleGetLinksResult(old *NetworkState, a HandleGetLinksResult) *NetworkState {
	if !old.Initialized() {
		return old
	}
	key := GetLinksKey{Base: a.Result.EntryAddress, Tag: a.Tag, ID: a.Result.RequestID}
	if r, ok := old.getLinksResults[key]; !ok || r != nil {
		return old
	}

	s := old.clone()
	s.getLinksResults[key] = decodeLinksResult(a.Result)
	return s
}

func decodeLinksResult(res p2p.FetchMetaResult) *GetLinksResult {
	if len(res.ContentList) != 1 {
		return &GetLinksResult{Err: &ResponseError{
			Op:    "get links",
			Cause: fmt.Errorf("expected 1 content list element, got %d", len(res.ContentList)),
		}}
	}
	var addresses []content.Address
	if err := json.Unmarshal(res.ContentList[0], &addresses); err != nil {
		return &GetLinksResult{Err: &ResponseError{Op: "get links", Cause: err}}
	}
	return &GetLinksResult{Addresses: addresses}
}

func reduceHandleGetValidationPackage(old *NetworkState, a HandleGetValidationPackage) *NetworkState {
	if !old.Initialized() {
		return old
	}
	if r, ok := old.validationPackageResults[a.Address]; !ok || r != nil {
		return old
	}

	s := old.clone()
	s.validationPackageResults[a.Address] = decodeValidationPackage(a.Content)
	return s
}

func decodeValidationPackage(raw json.RawMessage) *ValidationPackageResult {
	if len(raw) == 0 {
		return &ValidationPackageResult{}
	}
	var pkg content.ValidationPackage
	if err := pkg.DecodeContent(raw); err != nil {
		return &ValidationPackageResult{Err: &ResponseError{Op: "get validation package", Cause: err}}
	}
	return &ValidationPackageResult{Package: &pkg}
}

func reduceGetEntryTimeout(old *NetworkState, a GetEntryTimeout) *NetworkState {
	if r, ok := old.getEntryResults[a.Key]; !ok || r != nil {
		return old
	}
	s := old.clone()
	s.getEntryResults[a.Key] = &GetEntryResult{Err: ErrTimeout}
	return s
}

func reduceGetLinksTimeout(old *NetworkState, a GetLinksTimeout) *NetworkState {
	if r, ok := old.getLinksResults[a.Key]; !ok || r != nil {
		return old
	}
	s := old.clone()
	s.getLinksResults[a.Key] = &GetLinksResult{Err: ErrTimeout}
	return s
}

func reduceGetValidationPackageTimeout(old *NetworkState, a GetValidationPackageTimeout) *NetworkState {
	if r, ok := old.validationPackageResults[a.Address]; !ok || r != nil {
		return old
	}
	s := old.clone()
	s.validationPackageResults[a.Address] = &ValidationPackageResult{Err: ErrTimeout}
	return s
}

func linkAttribute(tag string) string { return linkAttributePrefix + tag }
