// Package coverage models runtime coverage data consulted by the
// coverage-guided reduction.
package coverage

import (
	"fmt"
	"os"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"gopkg.in/yaml.v3"
)

// Status is what the coverage data says about a class, method or line.
type Status uint8

const (
	Unknown Status = iota
	Covered
	Uncovered
)

var statusNames = [...]string{"unknown", "covered", "uncovered"}

func (s Status) String() string { return statusNames[s] }

// Oracle answers coverage queries. Methods are keyed by owner class and
// signature as rendered by symbols.Method.Signature; lines are 1-based and
// keyed by the source path the analysis loaded.
type Oracle interface {
	Class(qname string) Status
	Method(owner, signature string) Status
	Line(path string, line int) Status
}

type lineSet struct {
	covered   *roaring.Bitmap
	uncovered *roaring.Bitmap
}

// Map is an in-memory Oracle. The zero value is not usable; call NewMap.
type Map struct {
	mu      sync.RWMutex
	classes map[string]Status
	methods map[string]Status
	lines   map[string]*lineSet
}

func NewMap() *Map {
	return &Map{
		classes: map[string]Status{},
		methods: map[string]Status{},
		lines:   map[string]*lineSet{},
	}
}

func (m *Map) SetClass(qname string, s Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classes[qname] = s
}

func (m *Map) SetMethod(owner, signature string, s Status) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.methods[owner+"#"+signature] = s
}

// SetLines records the status of lines in path. Covered wins when a line
// is recorded both ways.
func (m *Map) SetLines(path string, s Status, lines ...int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ls := m.lines[path]
	if ls == nil {
		ls = &lineSet{covered: roaring.New(), uncovered: roaring.New()}
		m.lines[path] = ls
	}
	for _, l := range lines {
		switch s {
		case Covered:
			ls.covered.Add(uint32(l))
		case Uncovered:
			ls.uncovered.Add(uint32(l))
		}
	}
}

func (m *Map) Class(qname string) Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.classes[qname]
}

func (m *Map) Method(owner, signature string) Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.methods[owner+"#"+signature]; ok {
		return s
	}
	if m.classes[owner] == Uncovered {
		return Uncovered
	}
	return Unknown
}

func (m *Map) Line(path string, line int) Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ls := m.lines[path]
	switch {
	case ls == nil:
		return Unknown
	case ls.covered.Contains(uint32(line)):
		return Covered
	case ls.uncovered.Contains(uint32(line)):
		return Uncovered
	}
	return Unknown
}

// File is the on-disk coverage format.
//
//	classes:
//	  p.C: covered
//	methods:
//	  p.C#foo(int): uncovered
//	lines:
//	  src/p/C.java:
//	    covered: [3, 4]
//	    uncovered: [7]
type File struct {
	Classes map[string]string    `yaml:"classes"`
	Methods map[string]string    `yaml:"methods"`
	Lines   map[string]LineEntry `yaml:"lines"`
}

type LineEntry struct {
	Covered   []int `yaml:"covered"`
	Uncovered []int `yaml:"uncovered"`
}

func parseStatus(s string) (Status, error) {
	for i, n := range statusNames {
		if n == s {
			return Status(i), nil
		}
	}
	return Unknown, fmt.Errorf("unknown coverage status %q", s)
}

// Parse decodes coverage data in the File format.
func Parse(data []byte) (*Map, error) {
	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("parsing coverage data: %w", err)
	}
	m := NewMap()
	for k, v := range cf.Classes {
		s, err := parseStatus(v)
		if err != nil {
			return nil, fmt.Errorf("class %s: %w", k, err)
		}
		m.SetClass(k, s)
	}
	for k, v := range cf.Methods {
		s, err := parseStatus(v)
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", k, err)
		}
		m.methods[k] = s
	}
	for path, e := range cf.Lines {
		m.SetLines(path, Covered, e.Covered...)
		m.SetLines(path, Uncovered, e.Uncovered...)
	}
	return m, nil
}

// Load reads coverage data from path.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading coverage data: %w", err)
	}
	return Parse(data)
}
