package infer

import (
	"strata/internal/symbols"
	"strata/internal/types"
)

// flowState maps each symbol to its inferred type at one program point.
// A missing key means the binding has not been touched on any path yet,
// which joins as the empty type.
type flowState map[symbols.SymbolID]types.TypeInfo

func (s flowState) clone() flowState {
	out := make(flowState, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// joinStates merges two program-point states key-wise with the lattice
// join. nil states are identity.
func joinStates(in *types.Interner, a, b flowState) flowState {
	if a == nil {
		return b.clone()
	}
	if b == nil {
		return a.clone()
	}
	out := a.clone()
	for k, bv := range b {
		if av, ok := out[k]; ok {
			out[k] = in.Join(av, bv)
		} else {
			out[k] = bv
		}
	}
	return out
}

func statesEqual(a, b flowState) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || av != bv {
			return false
		}
	}
	return true
}
