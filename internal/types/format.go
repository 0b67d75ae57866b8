package types

import (
	"fmt"
	"strings"
)

// Describe renders a lattice element for diagnostics: "Foo", "?Foo" when
// nullable, "(Foo|Bar)" for unions, "*" for the unknown type, "None" for the
// empty type ("null" when nullable).
func (in *Interner) Describe(t TypeInfo) string {
	if !t.Valid() {
		return "*"
	}
	body := in.describeID(t.ID)
	if t.Nullable {
		if body == "None" {
			return "null"
		}
		return "?" + body
	}
	return body
}

func (in *Interner) describeID(id TypeID) string {
	tt, ok := in.Lookup(id)
	if !ok {
		return "*"
	}
	switch tt.Kind {
	case KindTop:
		return "*"
	case KindBottom:
		return "None"
	case KindNominal:
		info, _ := in.Nominal(id)
		return info.Name
	case KindTemplate:
		name, _ := in.TemplateName(id)
		return name
	case KindUnion:
		members := in.UnionMembers(id)
		parts := make([]string, len(members))
		for i, m := range members {
			parts[i] = in.describeID(m)
		}
		return "(" + strings.Join(parts, "|") + ")"
	case KindInstance:
		info := in.InstanceOf(id)
		parts := make([]string, len(info.Args))
		for i, a := range info.Args {
			parts[i] = in.Describe(a)
		}
		return in.describeID(info.Base) + "<" + strings.Join(parts, ",") + ">"
	case KindFn:
		fn, _ := in.Fn(id)
		parts := make([]string, 0, len(fn.Params)+1)
		if fn.This.Valid() {
			parts = append(parts, "this:"+in.Describe(fn.This))
		}
		for i, p := range fn.Params {
			s := in.Describe(p)
			if fn.Variadic && i == len(fn.Params)-1 {
				s = "..." + s
			}
			parts = append(parts, s)
		}
		out := "function(" + strings.Join(parts, ", ") + ")"
		if fn.Return.Valid() {
			out += ": " + in.Describe(fn.Return)
		}
		return out
	}
	return fmt.Sprintf("type#%d", id)
}
