package registry

import (
	"strata/internal/annot"
	"strata/internal/source"
	"strata/internal/types"
)

// resolveType lowers an annotation type expression into the lattice.
// Templates in scope resolve to template variables; unknown names
// register a fresh nominal on demand, so types declared elsewhere in
// the program (or not at all) stay usable instead of erroring.
//
// Nullability defaults follow the annotation language: a bare nominal
// name is nullable unless marked '!', primitives and function types are
// non-null unless marked '?'.
func (s *scanner) resolveType(e *annot.TypeExpr, span source.Span, templates map[string]bool) types.TypeInfo {
	if e == nil {
		return types.TypeInfo{}
	}
	in := s.reg.Types
	switch e.Kind {
	case annot.ExprAll:
		return types.TypeInfo{ID: in.Builtins().Top, Nullable: e.Nullable}

	case annot.ExprUnion:
		out := in.Bottom()
		for _, m := range e.Members {
			out = in.Join(out, s.resolveType(m, span, templates))
		}
		return applyNullability(out, e)

	case annot.ExprFunction:
		fn := types.FnInfo{Variadic: e.Variadic}
		for _, p := range e.Params {
			fn.Params = append(fn.Params, s.resolveType(p, span, templates))
		}
		if e.This != nil {
			fn.This = s.resolveType(e.This, span, templates)
		}
		if e.Return != nil {
			fn.Return = s.resolveType(e.Return, span, templates)
		}
		return types.TypeInfo{ID: in.RegisterFn(fn), Nullable: e.Nullable}

	case annot.ExprName:
		switch e.Name {
		case "null", "undefined":
			return in.NullType()
		case "void":
			return in.Bottom()
		}
		if templates[e.Name] {
			return types.TypeInfo{ID: in.Template(e.Name), Nullable: e.Nullable}
		}
		base, ok := in.NominalByName(e.Name)
		if !ok {
			base = in.RegisterNominal(e.Name, types.NominalOpts{Decl: span})
		}
		id := base
		if len(e.Args) > 0 {
			args := make([]types.TypeInfo, len(e.Args))
			for i, a := range e.Args {
				args[i] = s.resolveType(a, span, templates)
			}
			id = in.Instance(base, args)
		}
		nullable := e.Nullable
		if !e.NonNull && !e.Nullable {
			if info, ok := in.Nominal(base); ok && !info.Primitive {
				nullable = true
			}
		}
		return types.TypeInfo{ID: id, Nullable: nullable}
	}
	return types.TypeInfo{}
}

func applyNullability(ti types.TypeInfo, e *annot.TypeExpr) types.TypeInfo {
	if e.NonNull {
		return ti.WithNullable(false)
	}
	if e.Nullable {
		return ti.WithNullable(true)
	}
	return ti
}
