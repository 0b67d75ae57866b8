package types

import "fmt"

// TypeID uniquely identifies a type inside the interner.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// Kind enumerates the supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	// KindTop is the unknown type: every value is possible, every join
	// absorbs into it.
	KindTop
	// KindBottom is the unreachable/empty type: the join identity.
	KindBottom
	// KindNominal is a named class/prototype type with at most one parent.
	KindNominal
	// KindUnion is a canonical set of non-union member types.
	KindUnion
	// KindFn is a function signature.
	KindFn
	// KindTemplate is an unbound template variable from an @template clause.
	KindTemplate
	// KindInstance is a parameterized nominal, e.g. Array<string>.
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindTop:
		return "top"
	case KindBottom:
		return "bottom"
	case KindNominal:
		return "nominal"
	case KindUnion:
		return "union"
	case KindFn:
		return "fn"
	case KindTemplate:
		return "template"
	case KindInstance:
		return "instance"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Type is a compact descriptor; Payload indexes the per-kind arena.
type Type struct {
	Kind    Kind
	Payload uint32
}

// TypeInfo is one lattice element: an interned type plus an independent
// nullability bit. The null and undefined values themselves are
// TypeInfo{ID: bottom, Nullable: true}, which makes "join with null" come out
// as "same type, now nullable" for free.
type TypeInfo struct {
	ID       TypeID
	Nullable bool
}

// WithNullable returns a copy with the nullability bit set.
func (ti TypeInfo) WithNullable(nullable bool) TypeInfo {
	ti.Nullable = nullable
	return ti
}

// Valid reports whether the element refers to an interned type.
func (ti TypeInfo) Valid() bool {
	return ti.ID != NoTypeID
}
