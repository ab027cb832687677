package analysis

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/optflag"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/symbols"
)

func newContext(t *testing.T, srcs map[string]string) *Context {
	t.Helper()
	paths := make([]string, 0, len(srcs))
	for p := range srcs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	var files []*jast.File
	for _, p := range paths {
		f, err := jast.Parse(context.Background(), p, []byte(srcs[p]))
		require.NoError(t, err)
		require.False(t, f.HasError, "fixture %s must parse cleanly", p)
		files = append(files, f)
	}
	c, err := New(context.Background(), files, Options{Flags: optflag.Default(), Concurrency: 2})
	require.NoError(t, err)
	return c
}

func find(t *testing.T, f *jast.File, kind, text string) jast.NodeID {
	t.Helper()
	found := jast.NoNode
	f.Walk(jast.RootID, func(id jast.NodeID) bool {
		if found != jast.NoNode {
			return false
		}
		if f.Kind(id) == kind && f.Text(id) == text {
			found = id
			return false
		}
		return true
	})
	require.NotEqual(t, jast.NoNode, found, "no %s %q", kind, text)
	return found
}

func method(t *testing.T, c *Context, owner, name string) *symbols.Method {
	t.Helper()
	ty := c.Registry().Type(owner)
	require.NotNil(t, ty, "no type %s", owner)
	ms := ty.MethodsNamed(name)
	require.Len(t, ms, 1, "%s#%s", owner, name)
	return ms[0]
}

func qnames[T interface{ QName() string }](xs []T) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = x.QName()
	}
	return out
}

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestLoad_ExcludesBrokenFiles(t *testing.T) {
	root := t.TempDir()
	write(t, root, "p/Good.java", "package p;\nclass Good { void f() {} }\n")
	write(t, root, "p/Bad.java", "package p;\nclass Bad {\n  void f( {\n}\n")
	write(t, root, ".git/p/Hidden.java", "package p;\nclass Hidden {}\n")
	write(t, root, "p/notes.txt", "not java")

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	c, err := Load(context.Background(), Options{SourceRoots: []string{root}, Flags: optflag.Default(), Logger: logger})
	require.NoError(t, err)

	good := filepath.Join(root, "p/Good.java")
	assert.Equal(t, []string{good}, c.Paths())
	assert.Equal(t, root, c.SourceRoot(good))
	assert.NotNil(t, c.Registry().Type("p.Good"))
	assert.Nil(t, c.Registry().Type("p.Hidden"))

	require.Len(t, c.ParseErrors(), 1)
	pe := c.ParseErrors()[0]
	assert.Equal(t, filepath.Join(root, "p/Bad.java"), pe.Path)
	assert.ErrorIs(t, pe, errSyntax)
	assert.Contains(t, logs.String(), "excluding file that failed to parse")
}

func TestLoad_MissingRoot(t *testing.T) {
	_, err := Load(context.Background(), Options{SourceRoots: []string{filepath.Join(t.TempDir(), "nope")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "walk source root")
}

func TestReporter_Dedupes(t *testing.T) {
	f, err := jast.Parse(context.Background(), "a/X.java", []byte("class X { int y = z; }\n"))
	require.NoError(t, err)
	id := find(t, f, "identifier", "z")

	var logs bytes.Buffer
	r := NewReporter(slog.New(slog.NewTextHandler(&logs, nil)))
	r.Report(f, id, assert.AnError)
	r.Report(f, id, assert.AnError)
	r.Report(f, jast.RootID, assert.AnError)

	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []jast.Ref{f.Ref(jast.RootID), f.Ref(id)}, r.Reported())
	assert.Equal(t, 2, bytes.Count(logs.Bytes(), []byte("unresolved reference")))
}
