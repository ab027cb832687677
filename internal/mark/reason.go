// Package mark computes which declarations of a source tree are reachable
// from a set of entrypoints and records why each one was kept.
package mark

import (
	"fmt"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
)

// Level is how much of a declaration must survive.
type Level uint8

const (
	// None means the declaration is unreachable.
	None Level = iota
	// Shallow keeps a type as a namespace only, or a callable's signature
	// without its body.
	Shallow
	// Full keeps the declaration and everything it references.
	Full
)

var levelNames = [...]string{"none", "shallow", "full"}

func (l Level) String() string { return levelNames[l] }

// Reason records why a node was reached. The set of implementations is
// closed; every variant carries the site that produced it.
type Reason interface {
	fmt.Stringer
	// Level is the level the reason requires of its target.
	Level() Level
	isReason()
}

// ReferencedBySymbolName is a use of the target's name in an expression:
// a call, a field access or a constructor invocation.
type ReferencedBySymbolName struct{ Site jast.Ref }

// ReferencedByExprType is an expression whose static type is the target.
type ReferencedByExprType struct {
	Site jast.Ref
	Type string
}

// ReferencedByTypeName is a type reference naming the target.
type ReferencedByTypeName struct{ Site jast.Ref }

// TransitiveNestedTypeName is a qualified name passing through the target
// on its way to a nested type.
type TransitiveNestedTypeName struct{ Site jast.Ref }

// DirectlyReferencedByNode ties an import, a catch clause or a structural
// dependency to the node that needs it.
type DirectlyReferencedByNode struct{ Site jast.Ref }

// Entrypoint marks a declaration named by an entrypoint spec.
type Entrypoint struct{ Spec string }

// CoveredAtRuntime marks a declaration the coverage oracle saw executing.
type CoveredAtRuntime struct{ Key string }

// KeptWithClass marks a member kept because class-level reduction keeps
// its whole declaring class.
type KeptWithClass struct{ Class string }

// DispatchedOverride marks a method that dynamic dispatch may select in
// place of the reached method Overridden.
type DispatchedOverride struct {
	Site       jast.Ref
	Overridden string
}

// RequiredForCompilation marks a callable whose signature must exist for
// the output to compile while its body is irrelevant.
type RequiredForCompilation struct {
	Site jast.Ref
	Why  string
}

func (ReferencedBySymbolName) Level() Level   { return Full }
func (ReferencedByExprType) Level() Level     { return Full }
func (ReferencedByTypeName) Level() Level     { return Full }
func (TransitiveNestedTypeName) Level() Level { return Shallow }
func (DirectlyReferencedByNode) Level() Level { return Full }
func (Entrypoint) Level() Level               { return Full }
func (CoveredAtRuntime) Level() Level         { return Full }
func (KeptWithClass) Level() Level            { return Full }
func (DispatchedOverride) Level() Level       { return Full }
func (RequiredForCompilation) Level() Level   { return Shallow }

func (r ReferencedBySymbolName) String() string { return "symbol name at " + r.Site.String() }
func (r ReferencedByExprType) String() string {
	return "expression type " + r.Type + " at " + r.Site.String()
}
func (r ReferencedByTypeName) String() string     { return "type name at " + r.Site.String() }
func (r TransitiveNestedTypeName) String() string { return "nested type name at " + r.Site.String() }
func (r DirectlyReferencedByNode) String() string { return "node " + r.Site.String() }
func (r Entrypoint) String() string               { return "entrypoint " + r.Spec }
func (r CoveredAtRuntime) String() string         { return "covered at runtime " + r.Key }
func (r KeptWithClass) String() string            { return "member of kept class " + r.Class }
func (r DispatchedOverride) String() string {
	return "overrides " + r.Overridden + " dispatched at " + r.Site.String()
}
func (r RequiredForCompilation) String() string {
	return "required for compilation (" + r.Why + ") by " + r.Site.String()
}

func (ReferencedBySymbolName) isReason()   {}
func (ReferencedByExprType) isReason()     {}
func (ReferencedByTypeName) isReason()     {}
func (TransitiveNestedTypeName) isReason() {}
func (DirectlyReferencedByNode) isReason() {}
func (Entrypoint) isReason()               {}
func (CoveredAtRuntime) isReason()         {}
func (KeptWithClass) isReason()            {}
func (DispatchedOverride) isReason()       {}
func (RequiredForCompilation) isReason()   {}

// Kind names a reason variant for reports.
func Kind(r Reason) string {
	switch r.(type) {
	case ReferencedBySymbolName:
		return "referenced-by-symbol-name"
	case ReferencedByExprType:
		return "referenced-by-expr-type"
	case ReferencedByTypeName:
		return "referenced-by-type-name"
	case TransitiveNestedTypeName:
		return "transitive-nested-type-name"
	case DirectlyReferencedByNode:
		return "directly-referenced-by-node"
	case Entrypoint:
		return "entrypoint"
	case CoveredAtRuntime:
		return "covered-at-runtime"
	case KeptWithClass:
		return "kept-with-class"
	case DispatchedOverride:
		return "dispatched-override"
	case RequiredForCompilation:
		return "required-for-compilation"
	}
	panic(fmt.Sprintf("mark: unhandled reason %T", r))
}

// Site returns the node a reason points at, or the zero Ref for seeds.
func Site(r Reason) jast.Ref {
	switch r := r.(type) {
	case ReferencedBySymbolName:
		return r.Site
	case ReferencedByExprType:
		return r.Site
	case ReferencedByTypeName:
		return r.Site
	case TransitiveNestedTypeName:
		return r.Site
	case DirectlyReferencedByNode:
		return r.Site
	case DispatchedOverride:
		return r.Site
	case RequiredForCompilation:
		return r.Site
	case Entrypoint, CoveredAtRuntime, KeptWithClass:
		return jast.Ref{}
	}
	panic(fmt.Sprintf("mark: unhandled reason %T", r))
}
