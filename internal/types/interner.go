package types

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Builtins stores TypeIDs for the pre-registered types every compilation
// gets: the lattice extremes and the primitive nominals.
type Builtins struct {
	Top     TypeID
	Bottom  TypeID
	Number  TypeID
	String  TypeID
	Boolean TypeID
	Object  TypeID
	Array   TypeID
	RegExp  TypeID
}

// Interner owns every type created during one compilation and guarantees a
// stable TypeID per structural descriptor. It is not safe for concurrent
// mutation; after the registry and inference passes finish it is only read.
type Interner struct {
	types    []Type
	index    map[Type]TypeID
	builtins Builtins

	nominals  []NominalInfo
	fns       []FnInfo
	unions    [][]TypeID
	instances []InstanceInfo
	templates []string

	nominalByName map[string]TypeID
	templateIndex map[string]TypeID
}

// NewInterner constructs an interner seeded with the lattice extremes and
// primitive nominals.
func NewInterner() *Interner {
	in := &Interner{
		index:         make(map[Type]TypeID, 64),
		nominalByName: make(map[string]TypeID),
		templateIndex: make(map[string]TypeID),
	}
	// Reserve payload slot 0 of every arena as an invalid sentinel.
	in.types = append(in.types, Type{Kind: KindInvalid})
	in.nominals = append(in.nominals, NominalInfo{})
	in.fns = append(in.fns, FnInfo{})
	in.unions = append(in.unions, nil)
	in.instances = append(in.instances, InstanceInfo{})
	in.templates = append(in.templates, "")

	in.builtins.Top = in.intern(Type{Kind: KindTop})
	in.builtins.Bottom = in.intern(Type{Kind: KindBottom})
	in.builtins.Number = in.RegisterNominal("number", NominalOpts{Primitive: true})
	in.builtins.String = in.RegisterNominal("string", NominalOpts{Primitive: true})
	in.builtins.Boolean = in.RegisterNominal("boolean", NominalOpts{Primitive: true})
	in.builtins.Object = in.RegisterNominal("Object", NominalOpts{Unrestricted: true})
	in.builtins.Array = in.RegisterNominal("Array", NominalOpts{Unrestricted: true})
	in.builtins.RegExp = in.RegisterNominal("RegExp", NominalOpts{})
	return in
}

// Builtins returns the pre-registered TypeIDs.
func (in *Interner) Builtins() Builtins {
	return in.builtins
}

// Top and Bottom are the lattice extremes as TypeInfo elements.
func (in *Interner) Top() TypeInfo    { return TypeInfo{ID: in.builtins.Top} }
func (in *Interner) Bottom() TypeInfo { return TypeInfo{ID: in.builtins.Bottom} }

// NullType is the type of the null and undefined literals: no value, but
// nullable, so joining it into T yields a nullable T.
func (in *Interner) NullType() TypeInfo {
	return TypeInfo{ID: in.builtins.Bottom, Nullable: true}
}

// Lookup returns the descriptor for id.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if id == NoTypeID || int(id) >= len(in.types) {
		return Type{}, false
	}
	return in.types[id], true
}

func (in *Interner) intern(t Type) TypeID {
	if id, ok := in.index[t]; ok {
		return id
	}
	slot, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("type arena overflow: %w", err))
	}
	id := TypeID(slot)
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// appendRaw adds a descriptor without interning (nominals are identity-based:
// two classes with the same shape are still distinct types).
func (in *Interner) appendRaw(t Type) TypeID {
	slot, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("type arena overflow: %w", err))
	}
	id := TypeID(slot)
	in.types = append(in.types, t)
	return id
}

// Template returns the TypeID of the template variable with the given name,
// creating it on first use.
func (in *Interner) Template(name string) TypeID {
	if id, ok := in.templateIndex[name]; ok {
		return id
	}
	slot, err := safecast.Conv[uint32](len(in.templates))
	if err != nil {
		panic(fmt.Errorf("template arena overflow: %w", err))
	}
	in.templates = append(in.templates, name)
	id := in.appendRaw(Type{Kind: KindTemplate, Payload: slot})
	in.templateIndex[name] = id
	return id
}

// TemplateName returns the name of a template variable type.
func (in *Interner) TemplateName(id TypeID) (string, bool) {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindTemplate || int(tt.Payload) >= len(in.templates) {
		return "", false
	}
	return in.templates[tt.Payload], true
}

// Union returns the canonical union of members. Unions flatten, dedupe and
// sort their member IDs, so equal member sets share one TypeID. Degenerate
// inputs collapse: zero members is Bottom, one member is that member, any Top
// member absorbs the whole union.
func (in *Interner) Union(members ...TypeID) TypeID {
	set := make(map[TypeID]struct{})
	var add func(id TypeID)
	top := false
	add = func(id TypeID) {
		tt, ok := in.Lookup(id)
		if !ok {
			return
		}
		switch tt.Kind {
		case KindTop:
			top = true
		case KindBottom:
			// identity element
		case KindUnion:
			for _, m := range in.unions[tt.Payload] {
				add(m)
			}
		default:
			set[id] = struct{}{}
		}
	}
	for _, m := range members {
		add(m)
	}
	if top {
		return in.builtins.Top
	}
	if len(set) == 0 {
		return in.builtins.Bottom
	}
	if len(set) == 1 {
		for id := range set {
			return id
		}
	}
	ordered := make([]TypeID, 0, len(set))
	for id := range set {
		ordered = append(ordered, id)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i] < ordered[j] })

	// Reuse an existing union with the same member set.
	for id := TypeID(1); int(id) < len(in.types); id++ {
		tt := in.types[id]
		if tt.Kind != KindUnion {
			continue
		}
		if equalIDs(in.unions[tt.Payload], ordered) {
			return id
		}
	}
	slot, err := safecast.Conv[uint32](len(in.unions))
	if err != nil {
		panic(fmt.Errorf("union arena overflow: %w", err))
	}
	in.unions = append(in.unions, ordered)
	return in.appendRaw(Type{Kind: KindUnion, Payload: slot})
}

// UnionMembers returns the member IDs of a union type, or nil.
func (in *Interner) UnionMembers(id TypeID) []TypeID {
	tt, ok := in.Lookup(id)
	if !ok || tt.Kind != KindUnion || int(tt.Payload) >= len(in.unions) {
		return nil
	}
	return in.unions[tt.Payload]
}

func equalIDs(a, b []TypeID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
