// Package workflow implements the blocking request/response surface over
// the state engine. Each workflow dispatches an action, suspends until the
// correlated result settles in a published snapshot, consumes it with a
// Clear dispatch, and returns.
//
// Suspension is cooperative: a workflow holds no locks while waiting and
// re-reads the latest snapshot on every wake. Ten workflows awaiting ten
// requests cost ten parked goroutines, nothing more.
package workflow

import (
	"context"
	"errors"

	"github.com/weftnet/weft/content"
	"github.com/weftnet/weft/state"
)

// Engine is the state-engine surface workflows run against.
type Engine interface {
	Dispatch(a state.Action) state.ActionID
	State() *state.State
	Watch() <-chan struct{}
}

// await suspends until lookup reports a settled value in some published
// snapshot, or ctx ends. Deadline expiry returns ErrTimeout; plain
// cancellation returns ctx.Err(). Either way onTimeout, when non-nil, is
// dispatched first so the still-pending correlation entry settles and late
// responses stay ignored; cleanup consumes the entry in every exit.
func await[T any](ctx context.Context, e Engine, lookup func(*state.State) (*T, bool), onTimeout, cleanup state.Action) (*T, error) {
	for {
		ch := e.Watch()
		if r, ok := lookup(e.State()); ok && r != nil {
			e.Dispatch(cleanup)
			return r, nil
		}
		select {
		case <-ch:
		case <-ctx.Done():
			if onTimeout != nil {
				e.Dispatch(onTimeout)
			}
			e.Dispatch(cleanup)
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil, ctx.Err()
			}
			return nil, state.ErrTimeout
		}
	}
}

// CommitEntry appends entry to the agent's source chain and returns its
// address.
func CommitEntry(ctx context.Context, e Engine, entry content.Entry) (content.Address, error) {
	id := e.Dispatch(state.Commit{Entry: entry})
	r, err := await(ctx, e,
		func(s *state.State) (*state.CommitResponse, bool) { return s.Agent().CommitResponse(id) },
		nil,
		state.ClearCommitResponse{ID: id},
	)
	if err != nil {
		return "", err
	}
	if r.Err != nil {
		return "", r.Err
	}
	return r.Address, nil
}

// Publish hands a committed entry to the network for DHT storage and
// returns its address. The entry must already be in the source chain.
func Publish(ctx context.Context, e Engine, addr content.Address) (content.Address, error) {
	if !e.State().Network().Initialized() {
		return "", state.ErrNotInitialized
	}
	id := e.Dispatch(state.Publish{Address: addr})
	r, err := await(ctx, e,
		func(s *state.State) (*state.PublishResult, bool) { return s.Network().PublishResult(id) },
		nil,
		state.ClearPublishResult{ID: id},
	)
	if err != nil {
		return "", err
	}
	if r.Err != nil {
		return "", r.Err
	}
	return r.Address, nil
}

// GetEntry looks up an entry in the DHT. A nil result with a nil error
// means no peer holds the entry.
func GetEntry(ctx context.Context, e Engine, addr content.Address) (*content.EntryWithMetaAndHeader, error) {
	if !e.State().Network().Initialized() {
		return nil, state.ErrNotInitialized
	}
	key := state.GetEntryKey{Address: addr, ID: state.NewRequestID()}
	e.Dispatch(state.GetEntry{Key: key})
	r, err := await(ctx, e,
		func(s *state.State) (*state.GetEntryResult, bool) { return s.Network().GetEntryResult(key) },
		state.GetEntryTimeout{Key: key},
		state.ClearGetEntryResult{Key: key},
	)
	if err != nil {
		return nil, err
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Entry, nil
}

// GetLinks looks up the addresses linked from base under tag.
func GetLinks(ctx context.Context, e Engine, base content.Address, tag string) ([]content.Address, error) {
	if !e.State().Network().Initialized() {
		return nil, state.ErrNotInitialized
	}
	key := state.GetLinksKey{Base: base, Tag: tag, ID: state.NewRequestID()}
	e.Dispatch(state.GetLinks{Key: key})
	r, err := await(ctx, e,
		func(s *state.State) (*state.GetLinksResult, bool) { return s.Network().GetLinksResult(key) },
		state.GetLinksTimeout{Key: key},
		state.ClearGetLinksResult{Key: key},
	)
	if err != nil {
		return nil, err
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Addresses, nil
}

// GetValidationPackage asks an entry's author for its validation package.
// A nil result with a nil error means the author has none for this entry.
// Single-flight per address: a second concurrent call for the same address
// observes and consumes the same correlation entry.
func GetValidationPackage(ctx context.Context, e Engine, addr content.Address) (*content.ValidationPackage, error) {
	if !e.State().Network().Initialized() {
		return nil, state.ErrNotInitialized
	}
	e.Dispatch(state.GetValidationPackage{Address: addr})
	r, err := await(ctx, e,
		func(s *state.State) (*state.ValidationPackageResult, bool) {
			return s.Network().ValidationPackageResult(addr)
		},
		state.GetValidationPackageTimeout{Address: addr},
		state.ClearValidationPackageResult{Address: addr},
	)
	if err != nil {
		return nil, err
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Package, nil
}
