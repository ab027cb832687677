package mark

import (
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jtypes"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/optflag"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

func (e *Engine) visit(it item) error {
	switch d := it.decl.(type) {
	case *symbols.Type:
		return e.visitType(d, it.level)
	case *symbols.Method:
		return e.visitMethod(d, it.level)
	case *symbols.Field:
		return e.visitField(d)
	case *symbols.EnumConstant:
		return e.visitConstant(d)
	case *symbols.Initializer:
		e.reach(d.Owner(), DirectlyReferencedByNode{Site: d.Ref()})
		return e.scan(d.File(), d.Block)
	}
	panic("mark: unhandled declaration")
}

func isMemberType(t *symbols.Type) bool {
	return t.Owner() != nil && !t.Local && t.Kind != symbols.KindAnonymous && t.Kind != symbols.KindEnumConstantBody
}

func (e *Engine) visitType(t *symbols.Type, lvl Level) error {
	if isMemberType(t) {
		e.reach(t.Owner(), TransitiveNestedTypeName{Site: t.Ref()})
	}
	f := t.File()
	if lvl < Full {
		// A namespace-only type keeps its header apart from the supertype
		// clauses, so annotations and type parameter bounds must resolve.
		for _, ch := range f.Node(t.Node()).Children {
			if f.Kind(ch) == "modifiers" || f.Node(ch).Field == "type_parameters" {
				if err := e.scan(f, ch); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if t.Kind != symbols.KindAnonymous && t.Kind != symbols.KindEnumConstantBody {
		for _, ch := range f.Node(t.Node()).Children {
			switch f.Node(ch).Field {
			case "name", "body", "parameters":
				continue
			}
			if err := e.scan(f, ch); err != nil {
				return err
			}
		}
	}
	site := t.Ref()

	for _, comp := range t.Components {
		e.reach(comp, DirectlyReferencedByNode{Site: site})
	}
	if t.Kind == symbols.KindAnnotation {
		for _, m := range t.Methods {
			e.reach(m, RequiredForCompilation{Site: site, Why: "annotation element"})
		}
	}
	for _, init := range t.Initializers {
		if init.Static || len(t.Ctors) == 0 {
			e.reach(init, DirectlyReferencedByNode{Site: site})
		}
	}
	if len(t.Ctors) == 0 {
		e.implicitSuper(t, site)
	}
	if t.Kind == symbols.KindInterface {
		var abstract []*symbols.Method
		for _, m := range t.Methods {
			if m.IsAbstract() {
				abstract = append(abstract, m)
			}
		}
		if len(abstract) == 1 {
			e.reach(abstract[0], RequiredForCompilation{Site: site, Why: "functional interface method"})
		}
	}
	if e.c.Flags().Enabled(optflag.LibraryOverrides) {
		for _, m := range t.Methods {
			for _, r := range e.c.OverriddenMethods(m, false) {
				if !r.InTree() {
					e.reach(m, DispatchedOverride{Site: site, Overridden: r.External})
					break
				}
			}
		}
	}
	e.dispatchInto(t)
	return nil
}

// dispatchInto keeps t's overrides of methods already reached in its
// ancestors. visitMethod covers the opposite order.
func (e *Engine) dispatchInto(t *symbols.Type) {
	reg := e.c.Registry()
	for _, a := range e.c.Solver().Ancestors(t.QName()) {
		at := reg.Type(a.Name)
		if at == nil {
			continue
		}
		for _, am := range at.Methods {
			if !am.Overridable() {
				continue
			}
			lvl := e.level(am)
			if lvl == None {
				continue
			}
			for _, tm := range t.MethodsNamed(am.Name()) {
				if e.c.Solver().Overrides(tm, am) {
					e.dispatch(tm, am, lvl, t.Ref())
				}
			}
			if im := e.c.Solver().InheritedImplementation(t, am); im != nil {
				e.dispatch(im, am, lvl, t.Ref())
			}
		}
	}
}

func (e *Engine) dispatch(override, target *symbols.Method, lvl Level, site jast.Ref) {
	switch {
	case lvl == Full:
		e.reach(override, DispatchedOverride{Site: site, Overridden: target.QName()})
	case target.IsAbstract():
		e.reach(override, RequiredForCompilation{Site: site, Why: "implements " + target.QName()})
	}
}

// implicitSuper reaches the no-argument constructor an implicit super()
// call in t selects.
func (e *Engine) implicitSuper(t *symbols.Type, site jast.Ref) {
	switch t.Kind {
	case symbols.KindClass:
	default:
		return
	}
	for _, sup := range e.c.Solver().Supertypes(t.QName()) {
		st := e.c.Registry().Type(sup.Name)
		if st == nil || st.IsInterface() {
			continue
		}
		for _, ctor := range st.Ctors {
			if ctor.Arity() == 0 || (ctor.Arity() == 1 && ctor.Varargs()) {
				e.reach(ctor, DirectlyReferencedByNode{Site: site})
			}
		}
		return
	}
}

func (e *Engine) visitMethod(m *symbols.Method, lvl Level) error {
	f := m.File()
	site := m.Ref()
	e.reach(m.Owner(), DirectlyReferencedByNode{Site: site})

	for _, ch := range f.Node(m.Node()).Children {
		if ch == m.Body {
			continue
		}
		if err := e.scan(f, ch); err != nil {
			return err
		}
	}
	for _, r := range e.c.OverriddenMethods(m, false) {
		if om, ok := r.Decl.(*symbols.Method); ok {
			e.reach(om, RequiredForCompilation{Site: site, Why: "overridden by " + m.QName()})
		}
	}
	if m.Ctor {
		if inv := m.ExplicitInvocation(); inv != jast.NoNode {
			if err := e.scan(f, inv); err != nil {
				return err
			}
		} else {
			e.implicitSuper(m.Owner(), site)
		}
	}
	if lvl < Full {
		if m.IsAbstract() {
			e.dispatchFrom(m, lvl)
		}
		return nil
	}

	if m.Body != jast.NoNode {
		if err := e.scan(f, m.Body); err != nil {
			return err
		}
	}
	if m.Ctor {
		for _, init := range m.Owner().Initializers {
			if !init.Static {
				e.reach(init, DirectlyReferencedByNode{Site: site})
			}
		}
	}
	e.dispatchFrom(m, lvl)
	return nil
}

// dispatchFrom keeps the overrides of m declared in fully reached subtypes,
// and the implementations those subtypes inherit from unrelated superclasses.
func (e *Engine) dispatchFrom(m *symbols.Method, lvl Level) {
	for _, om := range e.c.OverridingMethods(m, false) {
		if e.level(om.Owner()) == Full {
			e.dispatch(om, m, lvl, om.Owner().Ref())
		}
	}
	if !m.Overridable() {
		return
	}
	for _, t := range e.c.DescendantsOf(jtypes.Reference{Name: m.Owner().QName()}, false) {
		if e.level(t) != Full {
			continue
		}
		if im := e.c.Solver().InheritedImplementation(t, m); im != nil {
			e.dispatch(im, m, lvl, t.Ref())
		}
	}
}

func (e *Engine) visitField(fd *symbols.Field) error {
	f := fd.File()
	e.reach(fd.Owner(), DirectlyReferencedByNode{Site: fd.Ref()})
	if fd.Component {
		return e.scan(f, fd.Declaration)
	}
	for _, ch := range f.Node(fd.Declaration).Children {
		if f.Kind(ch) == "variable_declarator" && ch != fd.Node() {
			continue
		}
		if err := e.scan(f, ch); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) visitConstant(c *symbols.EnumConstant) error {
	f := c.File()
	site := c.Ref()
	e.reach(c.Owner(), DirectlyReferencedByNode{Site: site})
	for _, ch := range f.Node(c.Node()).Children {
		if c.Body != nil && ch == c.Body.Node() {
			continue
		}
		if err := e.scan(f, ch); err != nil {
			return err
		}
	}
	ctors, err := e.c.Fuzzy().Ctor(f, c.Node())
	if err != nil {
		return err
	}
	for _, r := range ctors {
		e.reach(r.Decl, ReferencedBySymbolName{Site: site})
	}
	if c.Body != nil {
		e.reach(c.Body, DirectlyReferencedByNode{Site: site})
	}
	return nil
}

// reachType reaches the in-tree declaration behind a resolved type.
func (e *Engine) reachType(t jtypes.Type, r Reason) {
	ref, ok := t.(jtypes.Reference)
	if !ok {
		return
	}
	if d := e.c.Registry().Type(ref.Name); d != nil {
		e.reach(d, r)
	}
	for _, a := range ref.Args {
		e.reachType(a, r)
	}
}
