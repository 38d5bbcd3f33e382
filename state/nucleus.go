package state

import "github.com/weftnet/weft/content"

// NucleusState is the nucleus slice of the state tree: the identity of the
// running application. Application logic execution itself is an external
// collaborator; the nucleus only records what is running.
type NucleusState struct {
	appHash content.Address
}

func newNucleusState() *NucleusState { return &NucleusState{} }

// AppHash returns the running application's identity, or the undefined
// address before InitApplication.
func (s *NucleusState) AppHash() content.Address { return s.appHash }

// Running reports whether an application has been initialized.
func (s *NucleusState) Running() bool { return s.appHash.Defined() }

func reduceNucleus(old *NucleusState, aw ActionWrapper) *NucleusState {
	switch a := aw.Action.(type) {
	case InitApplication:
		if !a.AppHash.Defined() {
			return old
		}
		return &NucleusState{appHash: a.AppHash}
	default:
		return old
	}
}
