package registry

import (
	"fmt"

	"strata/internal/annot"
	"strata/internal/ast"
	"strata/internal/diag"
	"strata/internal/symbols"
	"strata/internal/token"
	"strata/internal/types"
)

type scanner struct {
	reg      *Registry
	tab      *symbols.Table
	reporter diag.Reporter

	// nominals lists the types declared in this unit, in scan order,
	// for the override pass.
	nominals []types.TypeID
}

// registerNominals is the forward-reference pass: every class and every
// annotated constructor/interface function gets its nominal identity
// before any annotation is resolved. Parse errors wait for the scan
// pass so they report once.
func (s *scanner) registerNominals(n *ast.Node) {
	switch n.Kind {
	case ast.KindClass:
		if name := n.First(); name != nil && name.Kind == ast.KindName {
			info, _ := annot.ParseDoc(n.Doc)
			id := s.reg.Types.RegisterNominal(name.Name, types.NominalOpts{
				Decl:         name.Span,
				Sealed:       !info.Dict, // classes seal their shape unless marked @dict
				Unrestricted: info.Dict,
				Interface:    info.Interface,
			})
			s.nominals = append(s.nominals, id)
		}
	case ast.KindFunction:
		info, _ := annot.ParseDoc(n.Doc)
		if (info.Constructor || info.Interface) && n.FunctionName() != nil {
			name := n.FunctionName()
			id := s.reg.Types.RegisterNominal(name.Name, types.NominalOpts{
				Decl:         name.Span,
				Sealed:       info.Struct,
				Unrestricted: info.Dict,
				Interface:    info.Interface,
			})
			s.nominals = append(s.nominals, id)
		}
	}
	for _, c := range n.Children {
		s.registerNominals(c)
	}
}

func (s *scanner) scan(n *ast.Node) {
	switch n.Kind {
	case ast.KindVar, ast.KindLet, ast.KindConst:
		s.scanDecl(n)
	case ast.KindFunction:
		s.scanFunction(n)
	case ast.KindClass:
		// Methods and their bodies are scanned by scanClass itself.
		s.scanClass(n)
		return
	case ast.KindAssign:
		s.scanAssign(n)
	}
	for _, c := range n.Children {
		s.scan(c)
	}
}

// parseDoc parses a doc comment, reporting the first malformed
// annotation it contains.
func (s *scanner) parseDoc(n *ast.Node) *annot.Info {
	info, err := annot.ParseDoc(n.Doc)
	if err != nil {
		diag.ReportWarning(s.reporter, diag.RegMalformedAnnotation, n.Span,
			fmt.Sprintf("malformed annotation: %v", err)).Emit()
	}
	return info
}

func (s *scanner) scanDecl(n *ast.Node) {
	if n.Doc == "" {
		return
	}
	info := s.parseDoc(n)
	if info.Type == nil {
		return
	}
	ti := s.resolveType(info.Type, n.Span, nil)
	for _, name := range n.Children {
		if name.Kind != ast.KindName {
			continue
		}
		if sym, ok := s.tab.SymbolForDecl(name); ok {
			s.reg.declared[sym] = ti
		}
	}
}

// scanFunction builds the signature of a standalone function from its
// annotations and, for @constructor/@interface functions, wires the
// nominal type it creates.
func (s *scanner) scanFunction(n *ast.Node) {
	if _, done := s.reg.fnSigs[n]; done {
		return
	}
	info := s.parseDoc(n)
	templates := templateSet(info.Templates)

	sig := s.buildSignature(n, info, templates)
	s.reg.fnSigs[n] = sig

	if name := n.FunctionName(); name != nil {
		if sym, ok := s.tab.SymbolForDecl(name); ok {
			if _, exists := s.reg.declared[sym]; !exists {
				s.reg.declared[sym] = types.TypeInfo{ID: sig}
			}
		}
		if info.Constructor || info.Interface {
			nom, ok := s.reg.Types.NominalByName(name.Name)
			if !ok {
				return
			}
			s.reg.ctorOf[n] = nom
			if info.Extends != nil {
				parent := s.resolveType(info.Extends, n.Span, nil)
				s.setParent(nom, parent.ID)
			}
		}
	}
}

// buildSignature assembles a function type from the parameter list and
// the @param/@return/@this annotations, matched by parameter name.
func (s *scanner) buildSignature(n *ast.Node, info *annot.Info, templates map[string]bool) types.TypeID {
	byName := make(map[string]annot.ParamAnn, len(info.Params))
	variadicName := ""
	for _, p := range info.Params {
		byName[p.Name] = p
		if p.Variadic {
			variadicName = p.Name
		}
	}
	fn := types.FnInfo{Templates: info.Templates}
	if params := n.FunctionParams(); params != nil {
		for _, p := range params.Children {
			if p.Kind != ast.KindName {
				continue
			}
			var ti types.TypeInfo
			if ann, ok := byName[p.Name]; ok {
				ti = s.resolveType(ann.Type, p.Span, templates)
				if sym, ok := s.tab.SymbolForDecl(p); ok {
					s.reg.declared[sym] = ti
				}
			}
			fn.Params = append(fn.Params, ti)
			if p.Name == variadicName && p.Name != "" {
				fn.Variadic = true
			}
		}
	}
	if info.This != nil {
		fn.This = s.resolveType(info.This, n.Span, templates)
	}
	if info.Return != nil {
		fn.Return = s.resolveType(info.Return, n.Span, templates)
	}
	return s.reg.Types.RegisterFn(fn)
}

func (s *scanner) scanClass(n *ast.Node) {
	name := n.First()
	if name == nil || name.Kind != ast.KindName {
		s.scanChildren(n)
		return
	}
	nom, ok := s.reg.Types.NominalByName(name.Name)
	if !ok {
		s.scanChildren(n)
		return
	}
	info := s.parseDoc(n)

	// The syntactic extends clause wins over an @extends annotation.
	parentSet := false
	for _, c := range n.Children[1:] {
		if c.Kind == ast.KindName {
			parent, ok := s.reg.Types.NominalByName(c.Name)
			if !ok {
				parent = s.reg.Types.RegisterNominal(c.Name, types.NominalOpts{Decl: c.Span})
			}
			s.setParent(nom, parent)
			parentSet = true
		}
	}
	if !parentSet && info.Extends != nil {
		parent := s.resolveType(info.Extends, n.Span, nil)
		s.setParent(nom, parent.ID)
	}

	for _, c := range n.Children {
		if c.Kind != ast.KindClassBody {
			continue
		}
		for _, m := range c.Children {
			if m.Kind != ast.KindMethod {
				continue
			}
			s.scanMethod(nom, n, m)
		}
	}
}

func (s *scanner) scanMethod(nom types.TypeID, class, m *ast.Node) {
	fn := m.Last()
	if fn == nil || fn.Kind != ast.KindFunction {
		return
	}
	info, err := annot.ParseDoc(m.Doc)
	if err != nil {
		diag.ReportWarning(s.reporter, diag.RegMalformedAnnotation, m.Span,
			fmt.Sprintf("malformed annotation: %v", err)).Emit()
	}
	templates := templateSet(info.Templates)
	sig := s.buildMethodSignature(fn, nom, info, templates)
	s.reg.fnSigs[fn] = sig
	s.reg.methodOf[fn] = nom

	if m.Name == "constructor" {
		s.reg.ctorOf[class] = nom
	} else {
		s.reg.Types.SetProp(nom, types.Prop{
			Name: m.Name,
			Type: types.TypeInfo{ID: sig},
			Decl: m.Span,
		})
	}
	s.scanChildren(fn)
}

// buildMethodSignature is buildSignature plus the implicit receiver: a
// method's this-type defaults to the owning nominal.
func (s *scanner) buildMethodSignature(fn *ast.Node, nom types.TypeID, info *annot.Info, templates map[string]bool) types.TypeID {
	sig := s.buildSignature(fn, info, templates)
	fnInfo, ok := s.reg.Types.Fn(sig)
	if ok && !fnInfo.This.Valid() {
		fnInfo.This = types.TypeInfo{ID: nom}
	}
	return sig
}

// scanAssign recognizes the prototype idioms:
//
//	Foo.prototype.bar = function() {...}  // method
//	Foo.prototype.baz = <expr>            // field, typed via @type
//	Foo.prototype = new Bar()             // inheritance edge
func (s *scanner) scanAssign(n *ast.Node) {
	if n.Op != token.Assign {
		return
	}
	target := n.First()
	value := n.Child(1)
	if target == nil || value == nil || target.Kind != ast.KindMember {
		return
	}

	// Foo.prototype = new Bar()
	if target.Name == "prototype" {
		base := target.First()
		if base == nil || base.Kind != ast.KindName || value.Kind != ast.KindNew {
			return
		}
		callee := value.First()
		if callee == nil || callee.Kind != ast.KindName {
			return
		}
		child, okC := s.reg.Types.NominalByName(base.Name)
		parent, okP := s.reg.Types.NominalByName(callee.Name)
		if okC && okP {
			s.setParent(child, parent)
		}
		return
	}

	// Foo.prototype.<prop> = ...
	proto := target.First()
	if proto == nil || proto.Kind != ast.KindMember || proto.Name != "prototype" {
		return
	}
	base := proto.First()
	if base == nil || base.Kind != ast.KindName {
		return
	}
	nom, ok := s.reg.Types.NominalByName(base.Name)
	if !ok {
		return
	}

	doc := n.Doc
	if doc == "" && n.Parent != nil && n.Parent.Kind == ast.KindExprStmt {
		doc = n.Parent.Doc
	}
	info, err := annot.ParseDoc(doc)
	if err != nil {
		diag.ReportWarning(s.reporter, diag.RegMalformedAnnotation, n.Span,
			fmt.Sprintf("malformed annotation: %v", err)).Emit()
	}

	if value.Kind == ast.KindFunction {
		templates := templateSet(info.Templates)
		sig := s.buildMethodSignature(value, nom, info, templates)
		s.reg.fnSigs[value] = sig
		s.reg.methodOf[value] = nom
		s.reg.Types.SetProp(nom, types.Prop{
			Name: target.Name,
			Type: types.TypeInfo{ID: sig},
			Decl: target.Span,
		})
		return
	}
	if info.Type != nil {
		s.reg.Types.SetProp(nom, types.Prop{
			Name: target.Name,
			Type: s.resolveType(info.Type, target.Span, nil),
			Decl: target.Span,
		})
	}
}

// setParent wires an inheritance edge, refusing self-parenting and
// edges to non-nominal types.
func (s *scanner) setParent(child, parent types.TypeID) {
	if child == parent || parent == types.NoTypeID {
		return
	}
	if _, ok := s.reg.Types.Nominal(parent); !ok {
		return
	}
	s.reg.Types.SetParent(child, parent)
}

func (s *scanner) scanChildren(n *ast.Node) {
	for _, c := range n.Children {
		s.scan(c)
	}
}

func templateSet(names []string) map[string]bool {
	if len(names) == 0 {
		return nil
	}
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}
