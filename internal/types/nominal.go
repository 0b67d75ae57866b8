package types

import (
	"fmt"
	"sort"

	"fortio.org/safecast"

	"strata/internal/source"
)

// Prop is one declared property of a nominal type.
type Prop struct {
	Name string
	Type TypeInfo
	Decl source.Span
}

// NominalOpts configure a nominal type at registration time.
type NominalOpts struct {
	Decl source.Span
	// Sealed restricts property access to declared properties (@struct).
	Sealed bool
	// Unrestricted permits arbitrary property assignment (@dict and the
	// default Object behavior).
	Unrestricted bool
	Interface bool
	Primitive bool
}

// NominalInfo stores metadata for a named class/prototype type. Parent is the
// single inheritance edge; NoTypeID at the root.
type NominalInfo struct {
	Name         string
	Decl         source.Span
	Parent       TypeID
	Props        map[string]Prop
	Sealed       bool
	Unrestricted bool
	Interface    bool
	Primitive    bool
}

// RegisterNominal allocates a nominal type. Registering a name twice returns
// the existing TypeID so forward references resolve to one identity.
func (in *Interner) RegisterNominal(name string, opts NominalOpts) TypeID {
	if id, ok := in.nominalByName[name]; ok {
		return id
	}
	slot, err := safecast.Conv[uint32](len(in.nominals))
	if err != nil {
		panic(fmt.Errorf("nominal arena overflow: %w", err))
	}
	in.nominals = append(in.nominals, NominalInfo{
		Name:         name,
		Decl:         opts.Decl,
		Props:        make(map[string]Prop),
		Sealed:       opts.Sealed,
		Unrestricted: opts.Unrestricted,
		Interface:    opts.Interface,
		Primitive:    opts.Primitive,
	})
	id := in.appendRaw(Type{Kind: KindNominal, Payload: slot})
	in.nominalByName[name] = id
	return id
}

// NominalByName resolves a registered nominal type by name.
func (in *Interner) NominalByName(name string) (TypeID, bool) {
	id, ok := in.nominalByName[name]
	return id, ok
}

// Nominal returns metadata for a nominal TypeID.
func (in *Interner) Nominal(id TypeID) (*NominalInfo, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindNominal || int(tt.Payload) >= len(in.nominals) {
		return nil, false
	}
	return &in.nominals[tt.Payload], true
}

// SetParent records the single inheritance edge. The caller (the registry)
// is responsible for keeping the graph acyclic; a cycle here is a defect in
// an earlier pass, so walking one panics rather than diagnosing.
func (in *Interner) SetParent(child, parent TypeID) {
	info, ok := in.Nominal(child)
	if !ok {
		panic(fmt.Errorf("SetParent on non-nominal type %d", child))
	}
	info.Parent = parent
}

// SetProp records a declared property on a nominal type.
func (in *Interner) SetProp(id TypeID, p Prop) {
	info, ok := in.Nominal(id)
	if !ok {
		panic(fmt.Errorf("SetProp on non-nominal type %d", id))
	}
	info.Props[p.Name] = p
}

// PropNames returns the declared property names of a nominal type in sorted
// order, own properties only.
func (in *Interner) PropNames(id TypeID) []string {
	info, ok := in.Nominal(id)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(info.Props))
	for name := range info.Props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupProp finds a declared property on the nominal type or any ancestor.
// The second result is the TypeID of the type that declares it.
func (in *Interner) LookupProp(id TypeID, name string) (Prop, TypeID, bool) {
	const maxDepth = 1 << 10
	cur := id
	for depth := 0; cur != NoTypeID; depth++ {
		if depth > maxDepth {
			panic(fmt.Errorf("nominal parent chain for type %d exceeds %d links; inheritance cycle", id, maxDepth))
		}
		info, ok := in.Nominal(cur)
		if !ok {
			return Prop{}, NoTypeID, false
		}
		if p, ok := info.Props[name]; ok {
			return p, cur, true
		}
		cur = info.Parent
	}
	return Prop{}, NoTypeID, false
}

// IsAncestor reports whether anc appears on sub's parent chain (a type is
// not its own ancestor).
func (in *Interner) IsAncestor(anc, sub TypeID) bool {
	const maxDepth = 1 << 10
	info, ok := in.Nominal(sub)
	if !ok {
		return false
	}
	cur := info.Parent
	for depth := 0; cur != NoTypeID; depth++ {
		if depth > maxDepth {
			panic(fmt.Errorf("nominal parent chain for type %d exceeds %d links; inheritance cycle", sub, maxDepth))
		}
		if cur == anc {
			return true
		}
		next, ok := in.Nominal(cur)
		if !ok {
			return false
		}
		cur = next.Parent
	}
	return false
}

// InstanceInfo parameterizes a nominal base with type arguments.
type InstanceInfo struct {
	Base TypeID
	Args []TypeInfo
}

// Instance interns a parameterized nominal such as Array<string>.
func (in *Interner) Instance(base TypeID, args []TypeInfo) TypeID {
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindInstance {
			continue
		}
		info := in.instances[tt.Payload]
		if info.Base != base || len(info.Args) != len(args) {
			continue
		}
		match := true
		for i := range args {
			if info.Args[i] != args[i] {
				match = false
				break
			}
		}
		if match {
			return id
		}
	}
	slot, err := safecast.Conv[uint32](len(in.instances))
	if err != nil {
		panic(fmt.Errorf("instance arena overflow: %w", err))
	}
	in.instances = append(in.instances, InstanceInfo{Base: base, Args: append([]TypeInfo(nil), args...)})
	return in.appendRaw(Type{Kind: KindInstance, Payload: slot})
}

// InstanceOf returns the parameterization of an instance type, or nil.
func (in *Interner) InstanceOf(id TypeID) *InstanceInfo {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindInstance || int(tt.Payload) >= len(in.instances) {
		return nil
	}
	return &in.instances[tt.Payload]
}
