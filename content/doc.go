// Package content defines the addressable content model shared by storage,
// state and workflow layers.
//
// Every value stored or exchanged by the runtime is canonically serialized to
// JSON and keyed by a deterministic, content-derived Address. Identical
// canonical bytes always produce an identical Address.
package content
