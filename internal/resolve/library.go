package resolve

import (
	"fmt"
	"strings"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jtypes"
)

// LibType is an external type. Its members are modelled only as far as
// needed to type expressions; anything missing resolves to an external
// declaration of unknown type.
type LibType struct {
	Name       string
	Interface  bool
	TypeParams []string
	Supers     []jtypes.Reference
	Methods    []*LibMethod
	Fields     map[string]jtypes.Type
	// Opaque types come from classpath listings: only the name is known.
	Opaque bool
}

// ctorName names library constructors.
const ctorName = "<init>"

// LibMethod is one modelled method of a LibType. Constructors are named
// ctorName.
type LibMethod struct {
	Owner      *LibType
	Name       string
	TypeParams []string
	Params     []jtypes.Type
	Varargs    bool
	Return     jtypes.Type
	Static     bool
	Abstract   bool
	Throws     []jtypes.Type
}

// QName renders the method as "owner#name/arity".
func (m *LibMethod) QName() string {
	return fmt.Sprintf("%s#%s/%d", m.Owner.Name, m.Name, len(m.Params))
}

// Library is the set of external types visible to the analysed tree.
type Library struct {
	types    map[string]*LibType
	packages map[string]bool
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{types: make(map[string]*LibType), packages: make(map[string]bool)}
}

// Add registers t, replacing an opaque entry of the same name.
func (l *Library) Add(t *LibType) {
	if old, ok := l.types[t.Name]; ok && !old.Opaque {
		return
	}
	l.types[t.Name] = t
	for _, pkg := range packagesOf(t.Name) {
		l.packages[pkg] = true
	}
}

// Type returns the library type with the given qualified name.
func (l *Library) Type(name string) (*LibType, bool) {
	t, ok := l.types[name]
	return t, ok
}

// IsPackage reports whether name is a known external package or prefix.
func (l *Library) IsPackage(name string) bool {
	return l.packages[name]
}

// Len returns the number of known types.
func (l *Library) Len() int { return len(l.types) }

// packagesOf returns the package prefixes of a qualified type name. A
// segment starting with an upper-case letter ends the package part.
func packagesOf(name string) []string {
	parts := strings.Split(name, ".")
	var out []string
	for i := 1; i < len(parts); i++ {
		if p := parts[i-1]; p == "" || (p[0] >= 'A' && p[0] <= 'Z') {
			break
		}
		out = append(out, strings.Join(parts[:i], "."))
	}
	return out
}

// libSpec describes a LibType compactly:
//
//	head:    "[interface ]qualified.Name[<T,U>]"
//	supers:  comma separated types
//	members: ';' separated "[static ][<T>]name(params)Return[ throws X,Y]"
//	         or "field name:Type"
type libSpec struct {
	head, supers, members string
}

func buildLibrary(specs []libSpec) (*Library, error) {
	l := NewLibrary()
	for _, s := range specs {
		t, err := parseLibSpec(s)
		if err != nil {
			return nil, err
		}
		l.Add(t)
	}
	return l, nil
}

func parseLibSpec(s libSpec) (*LibType, error) {
	head := strings.TrimSpace(s.head)
	t := &LibType{Fields: map[string]jtypes.Type{}}
	if rest, ok := strings.CutPrefix(head, "interface "); ok {
		t.Interface = true
		head = rest
	}
	if i := strings.IndexByte(head, '<'); i >= 0 {
		t.TypeParams = splitTop(head[i+1:len(head)-1], ',')
		head = head[:i]
	}
	t.Name = head
	tps := tparamSet(t.TypeParams)

	for _, sup := range splitTop(s.supers, ',') {
		st, err := parseSpecType(sup, tps)
		if err != nil {
			return nil, fmt.Errorf("%s: super %q: %w", t.Name, sup, err)
		}
		r, ok := st.(jtypes.Reference)
		if !ok {
			return nil, fmt.Errorf("%s: super %q is not a reference type", t.Name, sup)
		}
		t.Supers = append(t.Supers, r)
	}
	if len(t.Supers) == 0 && !t.Interface && t.Name != jtypes.Object.Name {
		t.Supers = []jtypes.Reference{jtypes.Object}
	}

	for _, m := range strings.Split(s.members, ";") {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(m, "field "); ok {
			name, typ, _ := strings.Cut(rest, ":")
			ft, err := parseSpecType(typ, tps)
			if err != nil {
				return nil, fmt.Errorf("%s: field %q: %w", t.Name, name, err)
			}
			t.Fields[strings.TrimSpace(name)] = ft
			continue
		}
		lm, err := parseSpecMethod(m, tps)
		if err != nil {
			return nil, fmt.Errorf("%s: method %q: %w", t.Name, m, err)
		}
		lm.Owner = t
		lm.Abstract = t.Interface && !lm.Static
		t.Methods = append(t.Methods, lm)
	}
	return t, nil
}

func parseSpecMethod(s string, owner map[string]bool) (*LibMethod, error) {
	m := &LibMethod{}
	if rest, ok := strings.CutPrefix(s, "static "); ok {
		m.Static = true
		s = rest
	}
	tps := owner
	if strings.HasPrefix(s, "<") && !strings.HasPrefix(s, ctorName) {
		end := strings.IndexByte(s, '>')
		m.TypeParams = splitTop(s[1:end], ',')
		s = s[end+1:]
		tps = make(map[string]bool, len(owner)+len(m.TypeParams))
		for k := range owner {
			tps[k] = true
		}
		for _, p := range m.TypeParams {
			tps[p] = true
		}
	}
	var throws string
	if i := strings.Index(s, " throws "); i >= 0 {
		throws = s[i+len(" throws "):]
		s = s[:i]
	}
	open := strings.IndexByte(s, '(')
	closeIdx := strings.IndexByte(s, ')')
	if open < 0 || closeIdx < open {
		return nil, fmt.Errorf("malformed method")
	}
	m.Name = s[:open]
	for _, p := range splitTop(s[open+1:closeIdx], ',') {
		if rest, ok := strings.CutSuffix(p, "..."); ok {
			m.Varargs = true
			p = rest + "[]"
		}
		pt, err := parseSpecType(p, tps)
		if err != nil {
			return nil, err
		}
		m.Params = append(m.Params, pt)
	}
	ret := strings.TrimSpace(s[closeIdx+1:])
	if ret == "" {
		ret = "void"
	}
	rt, err := parseSpecType(ret, tps)
	if err != nil {
		return nil, err
	}
	m.Return = rt
	for _, th := range splitTop(throws, ',') {
		tt, err := parseSpecType(th, tps)
		if err != nil {
			return nil, err
		}
		m.Throws = append(m.Throws, tt)
	}
	return m, nil
}

func parseSpecType(s string, tps map[string]bool) (jtypes.Type, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, fmt.Errorf("empty type")
	case strings.HasSuffix(s, "[]"):
		elem, err := parseSpecType(s[:len(s)-2], tps)
		if err != nil {
			return nil, err
		}
		return jtypes.Array{Elem: elem}, nil
	case s == "?":
		return jtypes.Wildcard{}, nil
	case strings.HasPrefix(s, "? extends "):
		b, err := parseSpecType(s[len("? extends "):], tps)
		return jtypes.Wildcard{Bound: b}, err
	case strings.HasPrefix(s, "? super "):
		b, err := parseSpecType(s[len("? super "):], tps)
		return jtypes.Wildcard{Bound: b, Super: true}, err
	case s == "void":
		return jtypes.Void{}, nil
	case jtypes.IsPrimitiveName(s):
		return jtypes.Primitive{Name: s}, nil
	case tps[s]:
		return jtypes.TypeVariable{Name: s}, nil
	}
	name, args := s, ""
	if i := strings.IndexByte(s, '<'); i >= 0 {
		name, args = s[:i], s[i+1:len(s)-1]
	}
	if !strings.Contains(name, ".") {
		name = "java.lang." + name
	}
	r := jtypes.Reference{Name: name}
	for _, a := range splitTop(args, ',') {
		at, err := parseSpecType(a, tps)
		if err != nil {
			return nil, err
		}
		r.Args = append(r.Args, at)
	}
	return r, nil
}

// splitTop splits s at sep outside angle brackets and trims the parts.
func splitTop(s string, sep byte) []string {
	var out []string
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			depth--
		case sep:
			if depth == 0 {
				if p := strings.TrimSpace(s[start:i]); p != "" {
					out = append(out, p)
				}
				start = i + 1
			}
		}
	}
	if p := strings.TrimSpace(s[start:]); p != "" {
		out = append(out, p)
	}
	return out
}

func tparamSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}
