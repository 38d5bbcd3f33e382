// Package state implements the runtime's state tree and its serialized
// action dispatch.
//
// The tree is an immutable composite of three sub-states (agent, network,
// nucleus). It is mutated only by the Engine's single reducer goroutine:
// each dispatched action produces a fresh State value that atomically
// replaces the current snapshot. Readers hold snapshots and never observe
// in-place mutation.
//
// Reducers are pure and total: an action a reducer does not recognize
// leaves its sub-state unchanged, never errors. The network reducers own
// the only permitted side effects (sending protocol messages) and perform
// them before the new snapshot is published.
package state
