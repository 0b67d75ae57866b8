package registry

import (
	"fmt"

	"strata/internal/diag"
	"strata/internal/types"
)

// checkOverrides pairs every method of every declared nominal with the
// nearest ancestor method of the same name and records the verdict.
// Incompatible overrides are warnings; analysis continues regardless.
func (s *scanner) checkOverrides() {
	in := s.reg.Types
	for _, nom := range s.nominals {
		info, ok := in.Nominal(nom)
		if !ok || info.Parent == types.NoTypeID {
			continue
		}
		for _, name := range in.PropNames(nom) {
			prop := info.Props[name]
			baseProp, ancestor, found := in.LookupProp(info.Parent, name)
			if !found {
				continue
			}
			subFn, okS := in.Fn(prop.Type.ID)
			baseFn, okB := in.Fn(baseProp.Type.ID)
			if !okS || !okB {
				continue
			}
			compatible, reason := s.compatibleOverride(subFn, baseFn)
			s.reg.Overrides = append(s.reg.Overrides, OverrideRelation{
				Nominal:    nom,
				Ancestor:   ancestor,
				Name:       name,
				Sub:        prop.Type.ID,
				Base:       baseProp.Type.ID,
				Decl:       prop.Decl,
				Compatible: compatible,
				Reason:     reason,
			})
			if !compatible {
				diag.ReportWarning(s.reporter, diag.RegInvalidPropOverride, prop.Decl,
					fmt.Sprintf("%s.%s is not a compatible override: %s", info.Name, name, reason)).
					WithNote(baseProp.Decl, "overridden method declared here").
					Emit()
			}
		}
	}
}

// compatibleOverride checks the variance contract: the override must
// accept every parameter list the ancestor accepts (count equal unless
// the ancestor has a variadic tail, each parameter contravariant) and
// must return no more than the ancestor promises (covariant).
func (s *scanner) compatibleOverride(sub, base *types.FnInfo) (bool, string) {
	in := s.reg.Types
	switch {
	case !base.Variadic && len(sub.Params) != len(base.Params):
		return false, fmt.Sprintf("declares %d parameter(s) where the overridden method declares %d",
			len(sub.Params), len(base.Params))
	case base.Variadic && len(sub.Params) < base.FixedParamCount():
		return false, fmt.Sprintf("declares %d parameter(s) where the overridden method requires at least %d",
			len(sub.Params), base.FixedParamCount())
	}
	for i, sp := range sub.Params {
		bp, ok := base.ParamAt(i)
		if !ok || !bp.Valid() || !sp.Valid() {
			continue
		}
		if !in.Assignable(bp, sp) {
			return false, fmt.Sprintf("parameter %d has type %s, which cannot accept the overridden method's %s",
				i+1, in.Describe(sp), in.Describe(bp))
		}
	}
	if sub.Return.Valid() && base.Return.Valid() && !in.Assignable(sub.Return, base.Return) {
		return false, fmt.Sprintf("returns %s, which is not a %s",
			in.Describe(sub.Return), in.Describe(base.Return))
	}
	return true, ""
}
