package state

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/weftnet/weft/content"
	"github.com/weftnet/weft/storage"
	"github.com/weftnet/weft/storage/memcas"
)

func TestCommitAppendsEntryAndHeader(t *testing.T) {
	chain := memcas.New()
	s := NewState(chain)

	entry := content.NewEntry("post", json.RawMessage(`{"title":"first"}`))
	aw := NewActionWrapper(Commit{Entry: entry})
	s = s.Reduce(aw)

	r, ok := s.Agent().CommitResponse(aw.ID)
	require.True(t, ok)
	require.NoError(t, r.Err)
	require.Equal(t, entry.Address(), r.Address)

	require.True(t, chain.Contains(entry.Address()))

	top := s.Agent().TopHeader()
	require.NotNil(t, top)
	require.Equal(t, entry.Address(), top.EntryAddress)
	require.Equal(t, "post", top.EntryType)
	require.False(t, top.PrevHeader.Defined(), "first header has no predecessor")
	require.True(t, chain.Contains(top.Address()))
}

func TestCommitLinksHeadersByTypeAndOrder(t *testing.T) {
	s := NewState(memcas.New())

	post1 := content.NewEntry("post", json.RawMessage(`{"n":1}`))
	note := content.NewEntry("note", json.RawMessage(`{"n":2}`))
	post2 := content.NewEntry("post", json.RawMessage(`{"n":3}`))

	s = s.Reduce(NewActionWrapper(Commit{Entry: post1}))
	firstTop := s.Agent().TopHeader()
	s = s.Reduce(NewActionWrapper(Commit{Entry: note}))
	secondTop := s.Agent().TopHeader()
	s = s.Reduce(NewActionWrapper(Commit{Entry: post2}))
	top := s.Agent().TopHeader()

	require.Equal(t, secondTop.Address(), top.PrevHeader)
	require.Equal(t, firstTop.Address(), top.PrevSameType,
		"prev-same-type must skip the intervening note")
	require.False(t, secondTop.PrevSameType.Defined())
}

func TestCommitFailureLeavesChainUntouched(t *testing.T) {
	chain := &failingCAS{}
	s := NewState(chain)

	entry := content.NewEntry("post", json.RawMessage(`{}`))
	aw := NewActionWrapper(Commit{Entry: entry})
	s = s.Reduce(aw)

	r, ok := s.Agent().CommitResponse(aw.ID)
	require.True(t, ok)
	require.Error(t, r.Err)
	require.Nil(t, s.Agent().TopHeader(), "failed commit must not advance the chain")
}

func TestClearCommitResponse(t *testing.T) {
	s := NewState(memcas.New())
	entry := content.NewEntry("post", json.RawMessage(`{}`))
	aw := NewActionWrapper(Commit{Entry: entry})
	s = s.Reduce(aw)
	s = s.Reduce(NewActionWrapper(ClearCommitResponse{ID: aw.ID}))

	_, ok := s.Agent().CommitResponse(aw.ID)
	require.False(t, ok)
}

type failingCAS struct{}

func (failingCAS) Add(content.Addressable) error { return storage.ErrImmutable }

func (failingCAS) Contains(content.Address) bool { return false }

func (failingCAS) Fetch(content.Address) ([]byte, error) { return nil, storage.ErrNotFound }
