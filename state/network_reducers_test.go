package state

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weftnet/weft/content"
	"github.com/weftnet/weft/p2p"
	"github.com/weftnet/weft/storage/memcas"
)

func testAppHash(t *testing.T) content.Address {
	t.Helper()
	addr, err := content.AddressOf([]byte("app"))
	require.NoError(t, err)
	return addr
}

func initializedState(t *testing.T, conn p2p.Connection) *State {
	t.Helper()
	s := NewState(memcas.New())
	aw := NewActionWrapper(InitNetwork{Settings: NetworkSettings{
		Conn:    conn,
		AppHash: testAppHash(t),
		AgentID: "agent-1",
	}})
	s = s.Reduce(aw)
	require.True(t, s.Network().Initialized())
	return s
}

func TestInitNetworkSendFailureLeavesUninitialized(t *testing.T) {
	conn := p2p.NewLoopback()
	conn.SendErr = errors.New("refused")

	s := NewState(memcas.New())
	s = s.Reduce(NewActionWrapper(InitNetwork{Settings: NetworkSettings{
		Conn:    conn,
		AppHash: testAppHash(t),
		AgentID: "agent-1",
	}}))

	require.False(t, s.Network().Initialized())
}

func TestInitNetworkSendsTrackApp(t *testing.T) {
	conn := p2p.NewLoopback()
	s := initializedState(t, conn)

	sent := conn.Sent()
	require.Len(t, sent, 1)
	track, ok := sent[0].(p2p.TrackApp)
	require.True(t, ok)
	require.Equal(t, "agent-1", track.AgentID)
	require.Equal(t, s.Network().AppHash(), track.AppHash)
}

func TestGetEntryInsertsPendingAndSendsFetch(t *testing.T) {
	conn := p2p.NewLoopback()
	s := initializedState(t, conn)

	addr, err := content.AddressOf([]byte("wanted"))
	require.NoError(t, err)
	key := GetEntryKey{Address: addr, ID: NewRequestID()}
	s = s.Reduce(NewActionWrapper(GetEntry{Key: key}))

	r, ok := s.Network().GetEntryResult(key)
	require.True(t, ok)
	require.Nil(t, r, "fresh request must be pending")

	sent := conn.Sent()
	require.Len(t, sent, 2)
	fetch, ok := sent[1].(p2p.FetchEntry)
	require.True(t, ok)
	require.Equal(t, key.ID, fetch.RequestID)
	require.Equal(t, addr, fetch.EntryAddress)
}

func TestGetEntrySendFailureSettlesImmediately(t *testing.T) {
	conn := p2p.NewLoopback()
	s := initializedState(t, conn)
	conn.SendErr = errors.New("link down")

	addr, err := content.AddressOf([]byte("wanted"))
	require.NoError(t, err)
	key := GetEntryKey{Address: addr, ID: NewRequestID()}
	s = s.Reduce(NewActionWrapper(GetEntry{Key: key}))

	r, ok := s.Network().GetEntryResult(key)
	require.True(t, ok)
	require.NotNil(t, r)
	require.Error(t, r.Err)
}

func TestNetworkActionsNoOpBeforeInit(t *testing.T) {
	s := NewState(memcas.New())
	addr, err := content.AddressOf([]byte("x"))
	require.NoError(t, err)

	key := GetEntryKey{Address: addr, ID: NewRequestID()}
	for _, a := range []Action{
		Publish{Address: addr},
		GetEntry{Key: key},
		GetLinks{Key: GetLinksKey{Base: addr, Tag: "t", ID: NewRequestID()}},
		GetValidationPackage{Address: addr},
		HandleFetchResult{Result: p2p.FetchEntryResult{RequestID: key.ID, EntryAddress: addr}},
	} {
		s = s.Reduce(NewActionWrapper(a))
	}

	_, ok := s.Network().GetEntryResult(key)
	require.False(t, ok, "uninitialized network must not track requests")
}

func TestHandleFetchResultSettlesPendingOnce(t *testing.T) {
	conn := p2p.NewLoopback()
	s := initializedState(t, conn)

	entry := content.NewEntry("post", json.RawMessage(`{"title":"hello"}`))
	full := content.EntryWithMetaAndHeader{
		EntryWithMeta: content.EntryWithMeta{Entry: entry, Status: content.StatusLive},
	}
	payload, err := full.Content()
	require.NoError(t, err)

	key := GetEntryKey{Address: entry.Address(), ID: NewRequestID()}
	s = s.Reduce(NewActionWrapper(GetEntry{Key: key}))
	s = s.Reduce(NewActionWrapper(HandleFetchResult{Result: p2p.FetchEntryResult{
		RequestID:    key.ID,
		EntryAddress: entry.Address(),
		Content:      payload,
	}}))

	r, ok := s.Network().GetEntryResult(key)
	require.True(t, ok)
	require.NotNil(t, r)
	require.NoError(t, r.Err)
	require.NotNil(t, r.Entry)
	require.Equal(t, entry.Type, r.Entry.Entry.Type)

	// A second response for the same key must not overwrite the settled
	// value.
	s = s.Reduce(NewActionWrapper(HandleFetchResult{Result: p2p.FetchEntryResult{
		RequestID:    key.ID,
		EntryAddress: entry.Address(),
		Content:      nil,
	}}))
	r2, _ := s.Network().GetEntryResult(key)
	require.NotNil(t, r2.Entry, "settled result must be immutable")
}

func TestHandleFetchResultEmptyContentIsNotFound(t *testing.T) {
	conn := p2p.NewLoopback()
	s := initializedState(t, conn)

	addr, err := content.AddressOf([]byte("absent"))
	require.NoError(t, err)
	key := GetEntryKey{Address: addr, ID: NewRequestID()}
	s = s.Reduce(NewActionWrapper(GetEntry{Key: key}))
	s = s.Reduce(NewActionWrapper(HandleFetchResult{Result: p2p.FetchEntryResult{
		RequestID:    key.ID,
		EntryAddress: addr,
	}}))

	r, ok := s.Network().GetEntryResult(key)
	require.True(t, ok)
	require.NotNil(t, r)
	require.NoError(t, r.Err)
	require.Nil(t, r.Entry)
}

func TestHandleFetchResultUnknownKeyIgnored(t *testing.T) {
	conn := p2p.NewLoopback()
	s := initializedState(t, conn)

	addr, err := content.AddressOf([]byte("never asked"))
	require.NoError(t, err)
	s = s.Reduce(NewActionWrapper(HandleFetchResult{Result: p2p.FetchEntryResult{
		RequestID:    NewRequestID(),
		EntryAddress: addr,
	}}))

	_, ok := s.Network().GetEntryResult(GetEntryKey{Address: addr})
	require.False(t, ok)
}

func TestConcurrentRequestsSameAddressIndependent(t *testing.T) {
	conn := p2p.NewLoopback()
	s := initializedState(t, conn)

	addr, err := content.AddressOf([]byte("shared"))
	require.NoError(t, err)
	k1 := GetEntryKey{Address: addr, ID: NewRequestID()}
	k2 := GetEntryKey{Address: addr, ID: NewRequestID()}
	s = s.Reduce(NewActionWrapper(GetEntry{Key: k1}))
	s = s.Reduce(NewActionWrapper(GetEntry{Key: k2}))

	// Settling the first must leave the second pending.
	s = s.Reduce(NewActionWrapper(HandleFetchResult{Result: p2p.FetchEntryResult{
		RequestID:    k1.ID,
		EntryAddress: addr,
	}}))

	r1, ok := s.Network().GetEntryResult(k1)
	require.True(t, ok)
	require.NotNil(t, r1)

	r2, ok := s.Network().GetEntryResult(k2)
	require.True(t, ok)
	require.Nil(t, r2)
}

func TestGetLinksRoundTrip(t *testing.T) {
	conn := p2p.NewLoopback()
	s := initializedState(t, conn)

	base, err := content.AddressOf([]byte("base"))
	require.NoError(t, err)
	target, err := content.AddressOf([]byte("target"))
	require.NoError(t, err)

	key := GetLinksKey{Base: base, Tag: "friend", ID: NewRequestID()}
	s = s.Reduce(NewActionWrapper(GetLinks{Key: key}))

	sent := conn.Sent()
	fetch, ok := sent[len(sent)-1].(p2p.FetchMeta)
	require.True(t, ok)
	require.Equal(t, "link__friend", fetch.Attribute)

	vec, err := json.Marshal([]content.Address{target})
	require.NoError(t, err)
	s = s.Reduce(NewActionWrapper(HandleGetLinksResult{
		Result: p2p.FetchMetaResult{
			RequestID:    key.ID,
			EntryAddress: base,
			Attribute:    "link__friend",
			ContentList:  []json.RawMessage{vec},
		},
		Tag: "friend",
	}))

	r, ok := s.Network().GetLinksResult(key)
	require.True(t, ok)
	require.NotNil(t, r)
	require.NoError(t, r.Err)
	require.Equal(t, []content.Address{target}, r.Addresses)
}

func TestGetLinksMultiElementListSettlesError(t *testing.T) {
	conn := p2p.NewLoopback()
	s := initializedState(t, conn)

	base, err := content.AddressOf([]byte("base"))
	require.NoError(t, err)
	key := GetLinksKey{Base: base, Tag: "friend", ID: NewRequestID()}
	s = s.Reduce(NewActionWrapper(GetLinks{Key: key}))

	s = s.Reduce(NewActionWrapper(HandleGetLinksResult{
		Result: p2p.FetchMetaResult{
			RequestID:    key.ID,
			EntryAddress: base,
			Attribute:    "link__friend",
			ContentList:  []json.RawMessage{json.RawMessage(`[]`), json.RawMessage(`[]`)},
		},
		Tag: "friend",
	}))

	r, ok := s.Network().GetLinksResult(key)
	require.True(t, ok)
	require.NotNil(t, r)
	var respErr *ResponseError
	require.ErrorAs(t, r.Err, &respErr)
}

func TestPublishSendsCommittedEntryWithHeader(t *testing.T) {
	conn := p2p.NewLoopback()
	s := initializedState(t, conn)

	entry := content.NewEntry("post", json.RawMessage(`{"title":"hello"}`))
	s = s.Reduce(NewActionWrapper(Commit{Entry: entry}))

	aw := NewActionWrapper(Publish{Address: entry.Address()})
	s = s.Reduce(aw)

	r, ok := s.Network().PublishResult(aw.ID)
	require.True(t, ok)
	require.NotNil(t, r)
	require.NoError(t, r.Err)
	require.Equal(t, entry.Address(), r.Address)

	sent := conn.Sent()
	pub, ok := sent[len(sent)-1].(p2p.PublishEntry)
	require.True(t, ok)
	require.Equal(t, entry.Address(), pub.EntryAddress)

	var full content.EntryWithMetaAndHeader
	require.NoError(t, full.DecodeContent(pub.Content))
	require.Equal(t, entry.Type, full.Entry.Type)
	require.Equal(t, entry.Address(), full.Header.EntryAddress)
}

func TestPublishUnknownAddressRecordsNotInChain(t *testing.T) {
	conn := p2p.NewLoopback()
	s := initializedState(t, conn)

	addr, err := content.AddressOf([]byte("never committed"))
	require.NoError(t, err)
	aw := NewActionWrapper(Publish{Address: addr})
	s = s.Reduce(aw)

	r, ok := s.Network().PublishResult(aw.ID)
	require.True(t, ok)
	require.NotNil(t, r)
	require.ErrorIs(t, r.Err, ErrNotInChain)
}

func TestValidationPackageRoundTrip(t *testing.T) {
	conn := p2p.NewLoopback()
	s := initializedState(t, conn)

	addr, err := content.AddressOf([]byte("entry"))
	require.NoError(t, err)
	s = s.Reduce(NewActionWrapper(GetValidationPackage{Address: addr}))

	r, ok := s.Network().ValidationPackageResult(addr)
	require.True(t, ok)
	require.Nil(t, r)

	pkg := content.ValidationPackage{}
	payload, err := pkg.Content()
	require.NoError(t, err)
	s = s.Reduce(NewActionWrapper(HandleGetValidationPackage{Address: addr, Content: payload}))

	r, ok = s.Network().ValidationPackageResult(addr)
	require.True(t, ok)
	require.NotNil(t, r)
	require.NoError(t, r.Err)
	require.NotNil(t, r.Package)
}

func TestValidationPackageRepeatRequestKeepsSettledValue(t *testing.T) {
	conn := p2p.NewLoopback()
	s := initializedState(t, conn)

	addr, err := content.AddressOf([]byte("entry"))
	require.NoError(t, err)
	s = s.Reduce(NewActionWrapper(GetValidationPackage{Address: addr}))

	pkg := content.ValidationPackage{}
	payload, err := pkg.Content()
	require.NoError(t, err)
	s = s.Reduce(NewActionWrapper(HandleGetValidationPackage{Address: addr, Content: payload}))

	sentBefore := len(conn.Sent())

	// A second request for the same address must not reset the settled
	// entry to pending, and must not reach the network.
	s = s.Reduce(NewActionWrapper(GetValidationPackage{Address: addr}))

	r, ok := s.Network().ValidationPackageResult(addr)
	require.True(t, ok)
	require.NotNil(t, r, "settled entry must never return to pending")
	require.NotNil(t, r.Package)
	require.Len(t, conn.Sent(), sentBefore)
}

func TestValidationPackageRepeatRequestWhilePendingSharesEntry(t *testing.T) {
	conn := p2p.NewLoopback()
	s := initializedState(t, conn)

	addr, err := content.AddressOf([]byte("entry"))
	require.NoError(t, err)
	s = s.Reduce(NewActionWrapper(GetValidationPackage{Address: addr}))
	sentBefore := len(conn.Sent())

	s = s.Reduce(NewActionWrapper(GetValidationPackage{Address: addr}))

	r, ok := s.Network().ValidationPackageResult(addr)
	require.True(t, ok)
	require.Nil(t, r)
	require.Len(t, conn.Sent(), sentBefore, "repeat request must not send again")
}

func TestTimeoutSettlesOnlyPending(t *testing.T) {
	conn := p2p.NewLoopback()
	s := initializedState(t, conn)

	addr, err := content.AddressOf([]byte("slow"))
	require.NoError(t, err)
	key := GetEntryKey{Address: addr, ID: NewRequestID()}
	s = s.Reduce(NewActionWrapper(GetEntry{Key: key}))
	s = s.Reduce(NewActionWrapper(GetEntryTimeout{Key: key}))

	r, ok := s.Network().GetEntryResult(key)
	require.True(t, ok)
	require.NotNil(t, r)
	require.ErrorIs(t, r.Err, ErrTimeout)

	// A late response after the timeout settled must be ignored.
	s = s.Reduce(NewActionWrapper(HandleFetchResult{Result: p2p.FetchEntryResult{
		RequestID:    key.ID,
		EntryAddress: addr,
	}}))
	r2, _ := s.Network().GetEntryResult(key)
	require.ErrorIs(t, r2.Err, ErrTimeout)

	// Timeout of an untracked key is a no-op.
	other := GetEntryKey{Address: addr, ID: NewRequestID()}
	s2 := s.Reduce(NewActionWrapper(GetEntryTimeout{Key: other}))
	_, ok = s2.Network().GetEntryResult(other)
	require.False(t, ok)
}

func TestClearRemovesCorrelationEntry(t *testing.T) {
	conn := p2p.NewLoopback()
	s := initializedState(t, conn)

	addr, err := content.AddressOf([]byte("done"))
	require.NoError(t, err)
	key := GetEntryKey{Address: addr, ID: NewRequestID()}
	s = s.Reduce(NewActionWrapper(GetEntry{Key: key}))
	s = s.Reduce(NewActionWrapper(HandleFetchResult{Result: p2p.FetchEntryResult{
		RequestID:    key.ID,
		EntryAddress: addr,
	}}))
	s = s.Reduce(NewActionWrapper(ClearGetEntryResult{Key: key}))

	_, ok := s.Network().GetEntryResult(key)
	require.False(t, ok)
}

func TestReduceDoesNotMutatePriorSnapshot(t *testing.T) {
	conn := p2p.NewLoopback()
	before := initializedState(t, conn)

	addr, err := content.AddressOf([]byte("snap"))
	require.NoError(t, err)
	key := GetEntryKey{Address: addr, ID: NewRequestID()}
	after := before.Reduce(NewActionWrapper(GetEntry{Key: key}))

	_, ok := before.Network().GetEntryResult(key)
	require.False(t, ok, "older snapshot must not see later reductions")
	_, ok = after.Network().GetEntryResult(key)
	require.True(t, ok)
}
