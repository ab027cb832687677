package decision

import (
	"fmt"
	"strings"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
)

// AssignmentError reports a final variable assigned twice on one
// straight-line path of a block. Output containing it does not compile.
type AssignmentError struct {
	File  string
	Line  int
	Name  string
	First int
}

func (e *AssignmentError) Error() string {
	return fmt.Sprintf("decision: %s:%d: final variable %s already assigned at line %d", e.File, e.Line, e.Name, e.First)
}

// CheckSingleAssignment scans f for a block that unconditionally assigns
// the same final field or local twice. It returns the first violation as an
// *AssignmentError.
func CheckSingleAssignment(f *jast.File) error {
	var err error
	f.Walk(jast.RootID, func(id jast.NodeID) bool {
		if err != nil {
			return false
		}
		if statementContainers[f.Kind(id)] {
			err = checkBlock(f, id)
		}
		return err == nil
	})
	return err
}

func checkBlock(f *jast.File, block jast.NodeID) error {
	finals := finalNames(f, block)
	if len(finals) == 0 {
		return nil
	}
	seen := map[string]int{}
	for _, s := range statements(f, block) {
		if f.Kind(s) != "expression_statement" {
			continue
		}
		named := f.NamedChildren(s)
		if len(named) == 0 || f.Kind(named[0]) != "assignment_expression" {
			continue
		}
		as := named[0]
		if f.Text(f.Child(as, "operator")) != "=" {
			continue
		}
		name := assignedName(f, f.Child(as, "left"))
		if name == "" || !finals[name] {
			continue
		}
		line, _ := f.Lines(as)
		if first, ok := seen[name]; ok {
			return &AssignmentError{File: f.Path, Line: line, Name: name, First: first}
		}
		seen[name] = line
	}
	return nil
}

// assignedName returns the variable an assignment target names: a simple
// name or this.name.
func assignedName(f *jast.File, left jast.NodeID) string {
	switch f.Kind(left) {
	case "identifier":
		return f.Text(left)
	case "field_access":
		if f.Kind(f.Child(left, "object")) == "this" {
			return f.Text(f.Child(left, "field"))
		}
	}
	return ""
}

// finalNames collects the final variables visible in block: final locals
// declared in it and final fields of the enclosing class.
func finalNames(f *jast.File, block jast.NodeID) map[string]bool {
	out := map[string]bool{}
	for _, s := range statements(f, block) {
		if f.Kind(s) == "local_variable_declaration" && hasFinal(f, s) {
			for _, d := range f.ChildrenOfKind(s, "variable_declarator") {
				out[f.Text(f.Child(d, "name"))] = true
			}
		}
	}
	body := f.Ancestor(block, "class_body", "enum_body")
	if body == jast.NoNode {
		return out
	}
	for _, m := range f.NamedChildren(body) {
		if f.Kind(m) == "enum_body_declarations" {
			for _, mm := range f.NamedChildren(m) {
				addFinalFields(f, mm, out)
			}
		}
		addFinalFields(f, m, out)
	}
	return out
}

func addFinalFields(f *jast.File, decl jast.NodeID, out map[string]bool) {
	if f.Kind(decl) != "field_declaration" || !hasFinal(f, decl) {
		return
	}
	for _, d := range f.ChildrenOfKind(decl, "variable_declarator") {
		out[f.Text(f.Child(d, "name"))] = true
	}
}

func hasFinal(f *jast.File, decl jast.NodeID) bool {
	mods := f.ChildOfKind(decl, "modifiers")
	if mods == jast.NoNode {
		return false
	}
	for _, m := range strings.Fields(f.Text(mods)) {
		if m == "final" {
			return true
		}
	}
	return false
}
