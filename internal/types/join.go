package types

// Join computes the least upper bound of two lattice elements. It is
// commutative, associative and idempotent; Bottom is the identity and Top
// absorbs. The nullability bits are ORed independently of the type part.
func (in *Interner) Join(a, b TypeInfo) TypeInfo {
	nullable := a.Nullable || b.Nullable
	if !a.Valid() {
		return b.WithNullable(nullable)
	}
	if !b.Valid() {
		return a.WithNullable(nullable)
	}
	ta, okA := in.Lookup(a.ID)
	tb, okB := in.Lookup(b.ID)
	if !okA || !okB {
		panic("types: join over unregistered type")
	}
	switch {
	case ta.Kind == KindBottom:
		return TypeInfo{ID: b.ID, Nullable: nullable}
	case tb.Kind == KindBottom:
		return TypeInfo{ID: a.ID, Nullable: nullable}
	case ta.Kind == KindTop || tb.Kind == KindTop:
		return TypeInfo{ID: in.builtins.Top, Nullable: nullable}
	case a.ID == b.ID:
		return TypeInfo{ID: a.ID, Nullable: nullable}
	}
	return TypeInfo{ID: in.Union(a.ID, b.ID), Nullable: nullable}
}

// JoinAll folds Join over a list, starting from Bottom.
func (in *Interner) JoinAll(infos ...TypeInfo) TypeInfo {
	out := in.Bottom()
	for _, ti := range infos {
		out = in.Join(out, ti)
	}
	return out
}

// Assignable reports whether a value of type src may be assigned to a
// binding declared as dst. The relation is reflexive and transitive; Top is
// compatible in both directions (unknown types never produce errors), Bottom
// is assignable everywhere, and a nullable source never satisfies a
// non-nullable destination.
func (in *Interner) Assignable(src, dst TypeInfo) bool {
	if !src.Valid() || !dst.Valid() {
		return true
	}
	ts, okS := in.Lookup(src.ID)
	td, okD := in.Lookup(dst.ID)
	if !okS || !okD {
		panic("types: assignability over unregistered type")
	}
	if td.Kind == KindTop || ts.Kind == KindTop {
		return true
	}
	if src.Nullable && !dst.Nullable {
		return false
	}
	return in.idAssignable(src.ID, dst.ID)
}

// idAssignable checks the type part only; nullability is handled by the
// caller.
func (in *Interner) idAssignable(src, dst TypeID) bool {
	if src == dst {
		return true
	}
	ts, _ := in.Lookup(src)
	td, _ := in.Lookup(dst)

	switch {
	case ts.Kind == KindBottom:
		return true
	case td.Kind == KindBottom:
		return false
	case ts.Kind == KindTop || td.Kind == KindTop:
		return true
	case ts.Kind == KindTemplate || td.Kind == KindTemplate:
		// Unbound template variables stay compatible; binding happens at
		// call sites before checking.
		return true
	case ts.Kind == KindUnion:
		for _, m := range in.UnionMembers(src) {
			if !in.idAssignable(m, dst) {
				return false
			}
		}
		return true
	case td.Kind == KindUnion:
		for _, m := range in.UnionMembers(dst) {
			if in.idAssignable(src, m) {
				return true
			}
		}
		return false
	case ts.Kind == KindInstance || td.Kind == KindInstance:
		return in.instanceAssignable(src, dst)
	case ts.Kind == KindNominal && td.Kind == KindNominal:
		return in.IsAncestor(dst, src)
	case ts.Kind == KindFn && td.Kind == KindFn:
		fs, _ := in.Fn(src)
		fd, _ := in.Fn(dst)
		return in.FnAssignable(fs, fd)
	}
	return false
}

// instanceAssignable compares possibly-parameterized nominals. When either
// side carries no type arguments the bases alone decide: an empty container
// literal typed as a bare Array must satisfy any Array<T> declaration.
func (in *Interner) instanceAssignable(src, dst TypeID) bool {
	sBase, sArgs := in.baseAndArgs(src)
	dBase, dArgs := in.baseAndArgs(dst)
	if sBase == NoTypeID || dBase == NoTypeID {
		return false
	}
	if sBase != dBase && !in.IsAncestor(dBase, sBase) {
		return false
	}
	if len(sArgs) == 0 || len(dArgs) == 0 || len(sArgs) != len(dArgs) {
		return true
	}
	for i := range sArgs {
		if !in.Assignable(sArgs[i], dArgs[i]) {
			return false
		}
	}
	return true
}

func (in *Interner) baseAndArgs(id TypeID) (TypeID, []TypeInfo) {
	if info := in.InstanceOf(id); info != nil {
		return info.Base, info.Args
	}
	if _, ok := in.Nominal(id); ok {
		return id, nil
	}
	return NoTypeID, nil
}

// FnAssignable reports whether a function of signature src may stand in for
// a declared signature dst: parameters are contravariant, the return type
// and receiver follow the usual variance (return covariant, this
// contravariant), and a variadic tail on dst covers any surplus src
// parameters.
func (in *Interner) FnAssignable(src, dst *FnInfo) bool {
	if src == nil || dst == nil {
		return true
	}
	if !dst.Variadic && !src.Variadic && len(src.Params) != len(dst.Params) {
		return false
	}
	n := len(dst.Params)
	if len(src.Params) > n {
		n = len(src.Params)
	}
	for i := 0; i < n; i++ {
		dp, okD := dst.ParamAt(i)
		sp, okS := src.ParamAt(i)
		if !okD || !okS {
			if okD != okS {
				return false
			}
			break
		}
		// Contravariance: the override must accept at least what the
		// ancestor accepts.
		if !in.Assignable(dp, sp) {
			return false
		}
	}
	if src.This.Valid() && dst.This.Valid() && !in.Assignable(dst.This, src.This) {
		return false
	}
	if src.Return.Valid() && dst.Return.Valid() && !in.Assignable(src.Return, dst.Return) {
		return false
	}
	return true
}
