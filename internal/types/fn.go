package types

import (
	"fmt"

	"fortio.org/safecast"
)

// FnInfo stores a function signature. Params are the declared parameter
// types in order; when Variadic is set the last parameter covers any number
// of trailing arguments. This is the declared receiver type (zero when the
// function is receiver-free); Templates lists @template variables the
// signature is generic over.
type FnInfo struct {
	Params    []TypeInfo
	Variadic  bool
	This      TypeInfo
	Return    TypeInfo
	Templates []string
}

// FixedParamCount returns the number of non-variadic parameters.
func (f *FnInfo) FixedParamCount() int {
	if f.Variadic {
		return len(f.Params) - 1
	}
	return len(f.Params)
}

// ParamAt returns the declared type covering the i-th argument, extending
// the variadic tail past the end of Params.
func (f *FnInfo) ParamAt(i int) (TypeInfo, bool) {
	if i < len(f.Params) && (!f.Variadic || i < len(f.Params)-1) {
		return f.Params[i], true
	}
	if f.Variadic && len(f.Params) > 0 && i >= len(f.Params)-1 {
		return f.Params[len(f.Params)-1], true
	}
	return TypeInfo{}, false
}

// RegisterFn allocates a function type. Signatures are identity-based: two
// declarations with equal shapes stay distinct, which keeps declaration
// spans unambiguous in diagnostics.
func (in *Interner) RegisterFn(info FnInfo) TypeID {
	slot, err := safecast.Conv[uint32](len(in.fns))
	if err != nil {
		panic(fmt.Errorf("fn arena overflow: %w", err))
	}
	in.fns = append(in.fns, FnInfo{
		Params:    append([]TypeInfo(nil), info.Params...),
		Variadic:  info.Variadic,
		This:      info.This,
		Return:    info.Return,
		Templates: append([]string(nil), info.Templates...),
	})
	return in.appendRaw(Type{Kind: KindFn, Payload: slot})
}

// Fn retrieves function metadata by TypeID.
func (in *Interner) Fn(id TypeID) (*FnInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindFn || int(tt.Payload) >= len(in.fns) {
		return nil, false
	}
	return &in.fns[tt.Payload], true
}
