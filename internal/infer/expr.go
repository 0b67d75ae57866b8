package infer

import (
	"fmt"

	"strata/internal/ast"
	"strata/internal/diag"
	"strata/internal/source"
	"strata/internal/token"
	"strata/internal/types"
)

// evalExpr computes the type of an expression in the current state,
// updating the state for assignments and recording the result for the
// facade during the reporting pass.
func (e *Engine) evalExpr(n *ast.Node, st flowState) types.TypeInfo {
	t := e.evalExprInner(n, st)
	if e.emitting && n != nil {
		e.res.exprTypes[n] = t
	}
	return t
}

func (e *Engine) evalExprInner(n *ast.Node, st flowState) types.TypeInfo {
	if n == nil {
		return e.in.Top()
	}
	b := e.in.Builtins()
	switch n.Kind {
	case ast.KindNumber:
		return types.TypeInfo{ID: b.Number}
	case ast.KindString, ast.KindTemplate:
		return types.TypeInfo{ID: b.String}
	case ast.KindBool:
		return types.TypeInfo{ID: b.Boolean}
	case ast.KindRegex:
		return types.TypeInfo{ID: b.RegExp}
	case ast.KindNull, ast.KindUndefined:
		return e.in.NullType()

	case ast.KindArrayLit:
		if len(n.Children) == 0 {
			// An empty literal has no element type yet; the bare base
			// stays compatible with any Array<T> until a use pins it.
			return types.TypeInfo{ID: b.Array}
		}
		elem := e.in.Bottom()
		for _, c := range n.Children {
			elem = e.in.Join(elem, e.evalExpr(c, st))
		}
		return types.TypeInfo{ID: e.in.Instance(b.Array, []types.TypeInfo{elem})}

	case ast.KindObjectLit:
		for _, c := range n.Children {
			if c.Kind == ast.KindProp {
				e.evalExpr(c.First(), st)
			}
		}
		return types.TypeInfo{ID: b.Object}

	case ast.KindName:
		return e.typeOfName(n, st)

	case ast.KindThis:
		return e.evalThis(n)

	case ast.KindAssign:
		return e.evalAssign(n, st)

	case ast.KindMember:
		obj := e.evalExpr(n.First(), st)
		return e.memberAccess(n, obj, true)

	case ast.KindIndex:
		obj := e.evalExpr(n.First(), st)
		e.evalExpr(n.Child(1), st)
		if info := e.in.InstanceOf(obj.ID); info != nil && len(info.Args) == 1 {
			return info.Args[0]
		}
		return e.in.Top()

	case ast.KindCall:
		return e.evalCall(n, st)

	case ast.KindNew:
		return e.evalNew(n, st)

	case ast.KindTaggedTemplate:
		tag := e.evalExpr(n.First(), st)
		e.evalExpr(n.Child(1), st)
		if fn, ok := e.in.Fn(tag.ID); ok && fn.Return.Valid() {
			return e.in.Substitute(fn.Return, nil)
		}
		return e.in.Top()

	case ast.KindBinary:
		return e.evalBinary(n, st)

	case ast.KindUnary:
		e.evalExpr(n.First(), st)
		switch n.Op {
		case token.Not, token.KwDelete:
			return types.TypeInfo{ID: b.Boolean}
		case token.KwTypeof:
			return types.TypeInfo{ID: b.String}
		case token.KwVoid:
			return e.in.NullType()
		default:
			return types.TypeInfo{ID: b.Number}
		}

	case ast.KindUpdate:
		e.evalExpr(n.First(), st)
		if sym, ok := e.tab.Resolve(n.First()); ok {
			st[sym] = types.TypeInfo{ID: b.Number}
		}
		return types.TypeInfo{ID: b.Number}

	case ast.KindConditional:
		e.evalExpr(n.First(), st)
		thenT := e.evalExpr(n.Child(1), st)
		elseT := e.evalExpr(n.Child(2), st)
		return e.in.Join(thenT, elseT)

	case ast.KindComma:
		var last types.TypeInfo = e.in.Top()
		for _, c := range n.Children {
			last = e.evalExpr(c, st)
		}
		return last

	case ast.KindFunction:
		// A function expression's value is its own signature; the body
		// is analyzed in its own graph.
		if sig, ok := e.reg.FnSig(n); ok {
			return types.TypeInfo{ID: sig}
		}
		return e.in.Top()
	}

	for _, c := range n.Children {
		e.evalExpr(c, st)
	}
	return e.in.Top()
}

func (e *Engine) typeOfName(n *ast.Node, st flowState) types.TypeInfo {
	sym, ok := e.tab.Resolve(n)
	if !ok {
		return e.in.Top()
	}
	if t, ok := st[sym]; ok {
		return t
	}
	if t, ok := e.reg.DeclaredType(sym); ok {
		return t
	}
	return e.in.Top()
}

// evalThis types the receiver. Outside a method or an @this-annotated
// function the receiver is the global object, which is almost always a
// mistake worth flagging.
func (e *Engine) evalThis(n *ast.Node) types.TypeInfo {
	if e.fc.owner != types.NoTypeID {
		return types.TypeInfo{ID: e.fc.owner}
	}
	if e.fc.sig != nil && e.fc.sig.This.Valid() {
		return e.fc.sig.This
	}
	e.report(diag.InfGlobalThis, n.Span, "dangerous use of the global this object")
	return e.in.Top()
}

func (e *Engine) evalAssign(n *ast.Node, st flowState) types.TypeInfo {
	target, value := n.First(), n.Child(1)
	vt := e.evalExpr(value, st)
	if n.Op != token.Assign {
		// Compound assignment reads the old value too.
		old := e.evalExpr(target, st)
		vt = e.in.Join(old, vt)
	}

	switch target.Kind {
	case ast.KindName:
		sym, ok := e.tab.Resolve(target)
		if !ok {
			return vt
		}
		if declared, ok := e.reg.DeclaredType(sym); ok {
			if !e.checkAssignable(vt, declared, n) {
				// Keep the declared type so one mistake does not
				// cascade through every later use.
				st[sym] = declared
				return vt
			}
			st[sym] = e.refine(vt, declared)
			return vt
		}
		if prev, ok := st[sym]; ok && e.isPinned(prev) {
			e.checkAssignable(vt, prev, n)
		}
		st[sym] = vt

	case ast.KindMember:
		obj := e.evalExpr(target.First(), st)
		e.memberAccess(target, obj, false)
		if prop, _, ok := e.lookupProp(obj, target.Name); ok {
			e.checkAssignable(vt, prop.Type, n)
		}

	default:
		e.evalExpr(target, st)
	}
	return vt
}

// refine picks the flow type after a checked write: an unknown value
// falls back to the declared type, anything more precise narrows.
func (e *Engine) refine(vt, declared types.TypeInfo) types.TypeInfo {
	if tt, ok := e.in.Lookup(vt.ID); ok && tt.Kind == types.KindTop {
		return declared
	}
	return vt
}

// isPinned reports whether a previously inferred type should constrain
// later writes. The empty type (an uninitialized or null binding) pins
// nothing, and the unknown type accepts anything anyway.
func (e *Engine) isPinned(prev types.TypeInfo) bool {
	tt, ok := e.in.Lookup(prev.ID)
	if !ok {
		return false
	}
	return tt.Kind != types.KindBottom && tt.Kind != types.KindTop
}

// memberAccess types expr.prop and performs the nullable-dereference
// check: touching an undeclared property through a nullable reference
// is an error, except for establishing writes on unrestricted types.
func (e *Engine) memberAccess(n *ast.Node, obj types.TypeInfo, isRead bool) types.TypeInfo {
	tt, ok := e.in.Lookup(obj.ID)
	if !ok || tt.Kind == types.KindTop || tt.Kind == types.KindUnion || tt.Kind == types.KindTemplate {
		return e.in.Top()
	}
	prop, _, found := e.lookupProp(obj, n.Name)
	if obj.Nullable && !found {
		unrestricted := false
		if info, ok := e.in.Nominal(e.baseOf(obj)); ok {
			unrestricted = info.Unrestricted
		}
		if isRead || !unrestricted {
			verb := "accessed"
			if !isRead {
				verb = "assigned"
			}
			e.report(diag.InfNullableDeref, n.Span,
				fmt.Sprintf("property %q %s through nullable %s", n.Name, verb, e.in.Describe(obj)))
		}
	}
	if found {
		return prop.Type
	}
	return e.in.Top()
}

func (e *Engine) baseOf(obj types.TypeInfo) types.TypeID {
	if info := e.in.InstanceOf(obj.ID); info != nil {
		return info.Base
	}
	return obj.ID
}

func (e *Engine) lookupProp(obj types.TypeInfo, name string) (types.Prop, types.TypeID, bool) {
	base := e.baseOf(obj)
	if _, ok := e.in.Nominal(base); !ok {
		return types.Prop{}, types.NoTypeID, false
	}
	return e.in.LookupProp(base, name)
}

func (e *Engine) evalCall(n *ast.Node, st flowState) types.TypeInfo {
	callee := n.First()
	calleeT := e.evalExpr(callee, st)
	args := n.Children[1:]
	argTypes := make([]types.TypeInfo, len(args))
	for i, a := range args {
		argTypes[i] = e.evalExpr(a, st)
	}
	fn, ok := e.in.Fn(calleeT.ID)
	if !ok {
		return e.in.Top()
	}
	return e.checkCall(fn, args, argTypes, n.Span)
}

// checkCall verifies arity and argument types against a signature,
// binds template variables from the arguments, and returns the
// instantiated return type.
func (e *Engine) checkCall(fn *types.FnInfo, args []*ast.Node, argTypes []types.TypeInfo, site source.Span) types.TypeInfo {
	wrongCount := false
	if fn.Variadic {
		wrongCount = len(args) < fn.FixedParamCount()
	} else {
		wrongCount = len(args) != len(fn.Params)
	}
	if wrongCount {
		e.report(diag.InfWrongArgCount, site,
			fmt.Sprintf("called with %d argument(s), expected %s", len(args), describeArity(fn)))
	}

	bindings := types.Bindings{}
	for i, at := range argTypes {
		if dp, ok := fn.ParamAt(i); ok {
			e.in.BindTemplates(dp, at, bindings)
		}
	}
	for i, at := range argTypes {
		dp, ok := fn.ParamAt(i)
		if !ok || !dp.Valid() {
			continue
		}
		dpInst := e.in.Substitute(dp, bindings)
		if e.checkThisConstraint(args[i], at, dpInst) {
			continue
		}
		if !e.in.Assignable(at, dpInst) {
			e.report(diag.InfInvalidArgType, args[i].Span,
				fmt.Sprintf("argument %d has type %s, expected %s", i+1, e.in.Describe(at), e.in.Describe(dpInst)))
		}
	}
	return e.in.Substitute(fn.Return, bindings)
}

// checkThisConstraint flags passing a function value that expects a
// bound receiver into a parameter that does not preserve it. Returns
// true when it reported, so the plain mismatch message is skipped.
func (e *Engine) checkThisConstraint(arg *ast.Node, at, declared types.TypeInfo) bool {
	argFn, ok := e.in.Fn(at.ID)
	if !ok || !argFn.This.Valid() {
		return false
	}
	if tt, ok := e.in.Lookup(argFn.This.ID); ok && tt.Kind == types.KindTop {
		return false
	}
	declFn, okD := e.in.Fn(declared.ID)
	if okD && declFn.This.Valid() && e.in.Assignable(declFn.This, argFn.This) {
		return false
	}
	if tt, ok := e.in.Lookup(declared.ID); ok && tt.Kind == types.KindTop {
		return false
	}
	e.report(diag.InfInvalidArgType, arg.Span,
		fmt.Sprintf("function expecting this of type %s is passed without its receiver", e.in.Describe(argFn.This)))
	return true
}

func (e *Engine) evalNew(n *ast.Node, st flowState) types.TypeInfo {
	callee := n.First()
	args := n.Children[1:]
	argTypes := make([]types.TypeInfo, len(args))
	for i, a := range args {
		argTypes[i] = e.evalExpr(a, st)
	}

	if callee == nil || callee.Kind != ast.KindName {
		e.evalExpr(callee, st)
		return e.in.Top()
	}
	calleeT := e.typeOfName(callee, st)
	if fn, ok := e.in.Fn(calleeT.ID); ok {
		e.checkCall(fn, args, argTypes, n.Span)
	}
	if nom, ok := e.in.NominalByName(callee.Name); ok {
		return types.TypeInfo{ID: nom}
	}
	return e.in.Top()
}

func (e *Engine) evalBinary(n *ast.Node, st flowState) types.TypeInfo {
	b := e.in.Builtins()
	lt := e.evalExpr(n.First(), st)
	rt := e.evalExpr(n.Child(1), st)
	switch n.Op {
	case token.Eq, token.NotEq, token.StrictEq, token.StrictNotEq,
		token.Lt, token.Gt, token.LtEq, token.GtEq,
		token.KwInstanceof, token.KwIn:
		return types.TypeInfo{ID: b.Boolean}
	case token.AndAnd, token.OrOr:
		return e.in.Join(lt, rt)
	case token.Plus:
		if lt.ID == b.String || rt.ID == b.String {
			return types.TypeInfo{ID: b.String}
		}
		return types.TypeInfo{ID: b.Number}
	default:
		return types.TypeInfo{ID: b.Number}
	}
}

// checkAssignable reports a mistyped assignment when src does not fit
// dst. Returns true when compatible.
func (e *Engine) checkAssignable(src, dst types.TypeInfo, site *ast.Node) bool {
	if e.in.Assignable(src, dst) {
		return true
	}
	e.report(diag.InfMistypedAssign, site.Span,
		fmt.Sprintf("cannot assign %s to %s", e.in.Describe(src), e.in.Describe(dst)))
	return false
}

func (e *Engine) report(code diag.Code, span source.Span, msg string) {
	if !e.emitting {
		return
	}
	diag.ReportError(e.reporter, code, span, msg).Emit()
}

func describeArity(fn *types.FnInfo) string {
	if fn.Variadic {
		return fmt.Sprintf("at least %d", fn.FixedParamCount())
	}
	return fmt.Sprintf("%d", len(fn.Params))
}
