package types

// Bindings map template variable names to the types bound at a call site.
type Bindings map[string]TypeInfo

// BindTemplates unifies a declared (possibly generic) type with the actual
// argument type, recording template bindings. Repeated bindings join, so
// f(x, y) with T in both positions binds T to join(typeof x, typeof y).
func (in *Interner) BindTemplates(decl, actual TypeInfo, out Bindings) {
	if out == nil || !decl.Valid() {
		return
	}
	td, ok := in.Lookup(decl.ID)
	if !ok {
		return
	}
	switch td.Kind {
	case KindTemplate:
		name, _ := in.TemplateName(decl.ID)
		if prev, ok := out[name]; ok {
			out[name] = in.Join(prev, actual)
		} else {
			out[name] = actual.WithNullable(false)
		}
	case KindUnion:
		for _, m := range in.UnionMembers(decl.ID) {
			in.BindTemplates(TypeInfo{ID: m}, actual, out)
		}
	case KindInstance:
		dInfo := in.InstanceOf(decl.ID)
		aInfo := in.InstanceOf(actual.ID)
		if dInfo == nil || aInfo == nil || len(dInfo.Args) != len(aInfo.Args) {
			return
		}
		for i := range dInfo.Args {
			in.BindTemplates(dInfo.Args[i], aInfo.Args[i], out)
		}
	case KindFn:
		dFn, _ := in.Fn(decl.ID)
		aFn, okA := in.Fn(actual.ID)
		if dFn == nil || !okA {
			return
		}
		for i := range dFn.Params {
			if i < len(aFn.Params) {
				in.BindTemplates(dFn.Params[i], aFn.Params[i], out)
			}
		}
		in.BindTemplates(dFn.Return, aFn.Return, out)
	}
}

// Substitute instantiates template variables in t against the bindings.
// Unbound variables widen to Top so an uninferable generic never produces a
// spurious mismatch.
func (in *Interner) Substitute(t TypeInfo, b Bindings) TypeInfo {
	if !t.Valid() || len(b) == 0 {
		return in.widenUnbound(t)
	}
	tt, ok := in.Lookup(t.ID)
	if !ok {
		return t
	}
	switch tt.Kind {
	case KindTemplate:
		name, _ := in.TemplateName(t.ID)
		if bound, ok := b[name]; ok {
			return bound.WithNullable(bound.Nullable || t.Nullable)
		}
		return TypeInfo{ID: in.builtins.Top, Nullable: t.Nullable}
	case KindUnion:
		out := in.Bottom()
		for _, m := range in.UnionMembers(t.ID) {
			out = in.Join(out, in.Substitute(TypeInfo{ID: m}, b))
		}
		return out.WithNullable(out.Nullable || t.Nullable)
	case KindInstance:
		info := in.InstanceOf(t.ID)
		args := make([]TypeInfo, len(info.Args))
		changed := false
		for i, a := range info.Args {
			args[i] = in.Substitute(a, b)
			if args[i] != a {
				changed = true
			}
		}
		if !changed {
			return t
		}
		return TypeInfo{ID: in.Instance(info.Base, args), Nullable: t.Nullable}
	case KindFn:
		fn, _ := in.Fn(t.ID)
		params := make([]TypeInfo, len(fn.Params))
		for i, p := range fn.Params {
			params[i] = in.Substitute(p, b)
		}
		return TypeInfo{
			ID: in.RegisterFn(FnInfo{
				Params:   params,
				Variadic: fn.Variadic,
				This:     in.Substitute(fn.This, b),
				Return:   in.Substitute(fn.Return, b),
			}),
			Nullable: t.Nullable,
		}
	}
	return t
}

// widenUnbound maps bare template variables to Top when no bindings exist.
func (in *Interner) widenUnbound(t TypeInfo) TypeInfo {
	if !t.Valid() {
		return t
	}
	if tt, ok := in.Lookup(t.ID); ok && tt.Kind == KindTemplate {
		return TypeInfo{ID: in.builtins.Top, Nullable: t.Nullable}
	}
	return t
}
