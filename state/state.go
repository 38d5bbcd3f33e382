package state

import "github.com/weftnet/weft/storage"

// State is one immutable snapshot of the full state tree. Reduction never
// mutates a snapshot in place; unchanged sub-states are shared between
// consecutive snapshots.
type State struct {
	agent   *AgentState
	network *NetworkState
	nucleus *NucleusState
}

// NewState returns the initial snapshot. chain backs the agent's source
// chain.
func NewState(chain storage.ContentAddressableStorage) *State {
	return &State{
		agent:   newAgentState(chain),
		network: newNetworkState(),
		nucleus: newNucleusState(),
	}
}

func (s *State) Agent() *AgentState     { return s.agent }
func (s *State) Network() *NetworkState { return s.network }
func (s *State) Nucleus() *NucleusState { return s.nucleus }

// Reduce applies one wrapped action and returns the resulting snapshot.
// Every sub-reducer is total: unrecognized actions leave the sub-state
// untouched, and each receives the pre-reduction root so cross-slice reads
// (publish reading the source chain) see a consistent tree.
func (s *State) Reduce(aw ActionWrapper) *State {
	return &State{
		agent:   reduceAgent(s.agent, aw),
		network: reduceNetwork(s.network, s, aw),
		nucleus: reduceNucleus(s.nucleus, aw),
	}
}
