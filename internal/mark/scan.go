package mark

import (
	"strings"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jtypes"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/resolve"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

// use is a simple name in kept code that resolved to a type, or to a
// member of owner when member is set. Imports are matched against uses.
type use struct {
	node   jast.NodeID
	qname  string
	member string
}

// unresolvedName is a simple name in kept code that resolved to nothing.
type unresolvedName struct {
	node jast.NodeID
	name string
}

func (e *Engine) recordUse(f *jast.File, u use) {
	e.usesMu.Lock()
	defer e.usesMu.Unlock()
	e.uses[f.Path] = append(e.uses[f.Path], u)
}

func (e *Engine) recordUnresolved(f *jast.File, n unresolvedName) {
	e.usesMu.Lock()
	defer e.usesMu.Unlock()
	e.unresolved[f.Path] = append(e.unresolved[f.Path], n)
}

type scanner struct {
	e *Engine
	f *jast.File
}

// scan reaches every declaration referenced from the subtree at id.
// Nested type declarations and anonymous class bodies are not entered;
// they are declarations of their own.
func (e *Engine) scan(f *jast.File, id jast.NodeID) error {
	if id == jast.NoNode {
		return nil
	}
	s := &scanner{e: e, f: f}
	return s.walk(id)
}

func (s *scanner) walk(id jast.NodeID) error {
	f := s.f
	if s.e.skipped(f, id) {
		return nil
	}
	kind := f.Kind(id)
	if jast.IsComment(kind) || symbols.IsTypeDecl(kind) {
		return nil
	}
	switch kind {
	case "type_identifier", "scoped_type_identifier":
		return s.typeName(id)
	case "identifier":
		if exprName(f, id) {
			return s.name(id)
		}
		return nil
	case "field_access":
		return s.fieldAccess(id)
	case "method_invocation":
		return s.call(id)
	case "object_creation_expression":
		return s.creation(id)
	case "explicit_constructor_invocation":
		return s.explicitCtor(id)
	case "method_reference":
		return s.methodRef(id)
	case "annotation", "marker_annotation":
		return s.annotation(id)
	case "try_statement", "try_with_resources_statement":
		return s.try(id)
	}
	return s.children(id, jast.NoNode)
}

// children walks the children of id except skip.
func (s *scanner) children(id, skip jast.NodeID) error {
	for _, ch := range s.f.Node(id).Children {
		if ch == skip {
			continue
		}
		if err := s.walk(ch); err != nil {
			return err
		}
	}
	return nil
}

func (s *scanner) site(id jast.NodeID) jast.Ref { return s.f.Ref(id) }

func (s *scanner) typeName(id jast.NodeID) error {
	f := s.f
	if f.Kind(f.Parent(id)) == "type_parameter" && f.Kind(id) == "type_identifier" {
		return nil
	}
	rs, err := s.e.c.Fuzzy().TypeName(f, id)
	if err != nil {
		return err
	}
	first := id
	if f.Kind(id) == "scoped_type_identifier" {
		first = firstSegment(f, id)
		// Outer<String>.Inner
		var walkErr error
		f.Walk(id, func(n jast.NodeID) bool {
			if walkErr != nil {
				return false
			}
			if f.Kind(n) == "type_arguments" {
				walkErr = s.walk(n)
				return false
			}
			return true
		})
		if walkErr != nil {
			return walkErr
		}
	}
	if len(rs) == 0 {
		s.e.recordUnresolved(f, unresolvedName{node: id, name: f.Text(first)})
		return nil
	}
	site := s.site(id)
	s.e.reach(rs[0].Decl, ReferencedByTypeName{Site: site})
	for _, q := range rs[1:] {
		s.e.reach(q.Decl, TransitiveNestedTypeName{Site: site})
	}
	switch {
	case first == id:
		if name := typeQName(rs[0]); name != "" {
			s.e.recordUse(f, use{node: id, qname: name})
		}
	case len(rs) > 1:
		if name := typeQName(rs[1]); name != "" && lastSegment(name) == f.Text(first) {
			s.e.recordUse(f, use{node: id, qname: name})
		}
	}
	return nil
}

func typeQName(r resolve.Resolved) string {
	if r.Decl != nil {
		return r.Decl.QName()
	}
	if r.External != "" {
		return r.External
	}
	return ""
}

func lastSegment(name string) string {
	return name[strings.LastIndexByte(name, '.')+1:]
}

// firstSegment returns the leftmost simple name of a qualified name.
func firstSegment(f *jast.File, id jast.NodeID) jast.NodeID {
	for {
		switch f.Kind(id) {
		case "scoped_type_identifier", "scoped_identifier", "generic_type":
			named := f.NamedChildren(id)
			if len(named) == 0 {
				return id
			}
			id = named[0]
		case "field_access":
			id = f.Child(id, "object")
		default:
			return id
		}
	}
}

func (s *scanner) name(id jast.NodeID) error {
	f := s.f
	rs, err := s.e.c.Fuzzy().Name(f, id)
	if err != nil {
		return err
	}
	if len(rs) == 0 {
		s.e.recordUnresolved(f, unresolvedName{node: id, name: f.Text(id)})
		return nil
	}
	site := s.site(id)
	for _, r := range rs {
		switch r.Kind {
		case resolve.KindType:
			s.e.reach(r.Decl, ReferencedByTypeName{Site: site})
			if name := typeQName(r); name != "" {
				s.e.recordUse(f, use{node: id, qname: name})
			}
		case resolve.KindField, resolve.KindEnumConstant:
			s.e.reach(r.Decl, ReferencedBySymbolName{Site: site})
			if r.Static && r.Owner != "" {
				s.e.recordUse(f, use{node: id, qname: r.Owner, member: f.Text(id)})
			}
		}
	}
	return nil
}

func (s *scanner) fieldAccess(id jast.NodeID) error {
	f := s.f
	obj := f.Child(id, "object")
	switch f.Text(f.Child(id, "field")) {
	case "this", "super":
		return s.walk(obj)
	}
	rs, err := s.e.c.Fuzzy().FieldAccess(f, id)
	if err != nil {
		return err
	}
	if len(rs) == 0 {
		return s.walk(obj)
	}
	site := s.site(id)
	r := rs[0]
	switch r.Kind {
	case resolve.KindPackage:
		return nil
	case resolve.KindType:
		s.e.reach(r.Decl, ReferencedByTypeName{Site: site})
		s.qualifierChain(obj, site)
		return nil
	}
	s.e.reach(r.Decl, ReferencedBySymbolName{Site: site})
	return s.walk(obj)
}

// qualifierChain keeps the types named along a qualified type name as
// namespaces and records the use of its leftmost segment.
func (s *scanner) qualifierChain(id jast.NodeID, site jast.Ref) {
	f := s.f
	sv := s.e.c.Solver()
	for {
		var r resolve.Resolved
		var err error
		switch f.Kind(id) {
		case "field_access":
			r, err = sv.ResolveFieldAccess(f, id)
		case "identifier":
			r, err = sv.ResolveName(f, id)
		default:
			return
		}
		if err != nil || r.Kind != resolve.KindType {
			return
		}
		s.e.reach(r.Decl, TransitiveNestedTypeName{Site: site})
		if f.Kind(id) == "identifier" {
			if name := typeQName(r); name != "" {
				s.e.recordUse(f, use{node: id, qname: name})
			}
			return
		}
		id = f.Child(id, "object")
	}
}

func (s *scanner) call(id jast.NodeID) error {
	f := s.f
	c := s.e.c
	name := f.Child(id, "name")
	obj := f.Child(id, "object")
	rs, err := c.Fuzzy().Call(f, id)
	if err != nil {
		return err
	}
	site := s.site(id)
	for _, r := range rs {
		s.e.reach(r.Decl, ReferencedBySymbolName{Site: site})
		if !r.InTree() {
			s.enumBuiltin(r, site)
		}
		if obj == jast.NoNode && r.Static && r.Owner != "" {
			s.e.recordUse(f, use{node: id, qname: r.Owner, member: f.Text(name)})
		}
	}
	if len(rs) == 0 && obj == jast.NoNode {
		s.e.recordUnresolved(f, unresolvedName{node: id, name: f.Text(name)})
	}
	if obj != jast.NoNode && f.Kind(obj) != "super" {
		if t, err := c.Solver().TypeOf(f, obj); err == nil {
			if ref, ok := t.(jtypes.Reference); ok {
				s.e.reachType(ref, ReferencedByExprType{Site: site, Type: ref.Name})
			}
		}
	}
	return s.children(id, name)
}

// enumBuiltin keeps every constant of an in-tree enum whose implicit
// values or valueOf method is called.
func (s *scanner) enumBuiltin(r resolve.Resolved, site jast.Ref) {
	if !strings.HasSuffix(r.External, "#values") && !strings.HasSuffix(r.External, "#valueOf") {
		return
	}
	t := s.e.c.Registry().Type(r.Owner)
	if t == nil || t.Kind != symbols.KindEnum {
		return
	}
	for _, ec := range t.Constants {
		s.e.reach(ec, ReferencedBySymbolName{Site: site})
	}
}

func (s *scanner) creation(id jast.NodeID) error {
	f := s.f
	rs, err := s.e.c.Fuzzy().Ctor(f, id)
	if err != nil {
		return err
	}
	site := s.site(id)
	for _, r := range rs {
		s.e.reach(r.Decl, ReferencedBySymbolName{Site: site})
	}
	body := f.ChildOfKind(id, "class_body")
	if body != jast.NoNode {
		if d, ok := s.e.c.Registry().DeclAt(f.Ref(body)); ok {
			s.e.reach(d, DirectlyReferencedByNode{Site: site})
		}
	}
	return s.children(id, body)
}

func (s *scanner) explicitCtor(id jast.NodeID) error {
	rs, err := s.e.c.Fuzzy().Ctor(s.f, id)
	if err != nil {
		return err
	}
	site := s.site(id)
	for _, r := range rs {
		s.e.reach(r.Decl, ReferencedBySymbolName{Site: site})
	}
	return s.children(id, jast.NoNode)
}

func (s *scanner) methodRef(id jast.NodeID) error {
	f := s.f
	rs, err := s.e.c.Fuzzy().MethodRef(f, id)
	if err != nil {
		return err
	}
	site := s.site(id)
	for _, r := range rs {
		s.e.reach(r.Decl, ReferencedBySymbolName{Site: site})
	}
	named := f.NamedChildren(id)
	for _, ch := range f.Node(id).Children {
		switch {
		case len(named) > 0 && ch == named[0], f.Kind(ch) == "type_arguments":
			if err := s.walk(ch); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *scanner) annotation(id jast.NodeID) error {
	f := s.f
	rs, err := s.e.c.Fuzzy().Annotation(f, id)
	if err != nil {
		return err
	}
	nameNode := f.Child(id, "name")
	if len(rs) == 0 {
		s.e.recordUnresolved(f, unresolvedName{node: id, name: f.Text(firstSegment(f, nameNode))})
	} else {
		site := s.site(id)
		s.e.reach(rs[0].Decl, ReferencedByTypeName{Site: site})
		for _, r := range rs[1:] {
			s.e.reach(r.Decl, ReferencedBySymbolName{Site: site})
		}
		if f.Kind(nameNode) == "identifier" {
			if name := typeQName(rs[0]); name != "" {
				s.e.recordUse(f, use{node: id, qname: name})
			}
		}
	}
	if args := f.Child(id, "arguments"); args != jast.NoNode {
		return s.walk(args)
	}
	return nil
}

// try scans a try statement, entering only the catch clauses that can
// catch something its body throws.
func (s *scanner) try(id jast.NodeID) error {
	f := s.f
	var catches []jast.NodeID
	for _, ch := range f.Node(id).Children {
		if f.Kind(ch) == "catch_clause" {
			catches = append(catches, ch)
			continue
		}
		if err := s.walk(ch); err != nil {
			return err
		}
	}
	if len(catches) == 0 {
		return nil
	}
	th := s.e.thrownBy(f, id)
	for _, c := range catches {
		if s.e.skipped(f, c) {
			continue
		}
		thrower, ok := s.e.catchSite(f, c, th)
		if !ok {
			continue
		}
		s.e.justify(f.Ref(c), DirectlyReferencedByNode{Site: f.Ref(thrower)})
		if err := s.walk(c); err != nil {
			return err
		}
	}
	return nil
}

// exprName reports whether the identifier at id is a name in expression
// position rather than a declared name, label or member selector.
func exprName(f *jast.File, id jast.NodeID) bool {
	p := f.Parent(id)
	field := f.Node(id).Field
	switch f.Kind(p) {
	case "method_invocation", "field_access":
		return field == "object"
	case "method_reference":
		named := f.NamedChildren(p)
		return len(named) > 0 && named[0] == id
	case "variable_declarator", "formal_parameter", "spread_parameter", "catch_formal_parameter",
		"enhanced_for_statement", "resource":
		return field != "name"
	case "labeled_statement", "break_statement", "continue_statement", "inferred_parameters",
		"annotation", "marker_annotation", "enum_constant", "scoped_identifier", "type_pattern",
		"type_parameter", "method_declaration", "constructor_declaration", "class_declaration",
		"interface_declaration", "enum_declaration", "record_declaration",
		"annotation_type_declaration", "annotation_type_element_declaration",
		"compact_constructor_declaration", "package_declaration", "import_declaration":
		return false
	case "lambda_expression":
		return field != "parameters"
	case "element_value_pair":
		return field != "key"
	case "instanceof_expression":
		return field == "left"
	}
	return true
}
