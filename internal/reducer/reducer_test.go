package reducer

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v3"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/analysis"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/coverage"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/decision"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/jast"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/mark"
	"github.com/Derppening/test-dependency-minimization-sub005/internal/optflag"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

// fixtureHeader is the YAML comment of a testdata archive.
type fixtureHeader struct {
	Strategy    string   `yaml:"strategy"`
	Entrypoints []string `yaml:"entrypoints"`
	Passes      int      `yaml:"passes"`
	WantPasses  int      `yaml:"wantPasses"`
}

// TestReduce_Golden runs every testdata archive: src/ files are the input
// tree, want/ files the expected output tree and coverage.yml the optional
// coverage data.
func TestReduce_Golden(t *testing.T) {
	archives, err := filepath.Glob(filepath.Join("testdata", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, archives)

	for _, path := range archives {
		t.Run(strings.TrimSuffix(filepath.Base(path), ".txtar"), func(t *testing.T) {
			ar, err := txtar.ParseFile(path)
			require.NoError(t, err)
			var hdr fixtureHeader
			require.NoError(t, yaml.Unmarshal(ar.Comment, &hdr))
			strategy, err := ParseStrategy(hdr.Strategy)
			require.NoError(t, err)

			dir := t.TempDir()
			want := map[string]string{}
			var oracle coverage.Oracle
			for _, f := range ar.Files {
				switch {
				case strings.HasPrefix(f.Name, "src/"):
					dst := filepath.Join(dir, filepath.FromSlash(f.Name))
					require.NoError(t, os.MkdirAll(filepath.Dir(dst), 0o755))
					require.NoError(t, os.WriteFile(dst, f.Data, 0o644))
				case strings.HasPrefix(f.Name, "want/"):
					want[strings.TrimPrefix(f.Name, "want/")] = string(f.Data)
				case f.Name == "coverage.yml":
					oracle, err = coverage.Parse(f.Data)
					require.NoError(t, err)
				}
			}

			outRoot := filepath.Join(dir, "out")
			rep, err := Reduce(context.Background(), Options{
				Analysis: analysis.Options{
					SourceRoots: []string{filepath.Join(dir, "src")},
					Flags:       optflag.Default(),
					Concurrency: 2,
					Logger:      quiet,
				},
				Entrypoints: hdr.Entrypoints,
				Coverage:    oracle,
				OutputRoot:  outRoot,
			}, strategy, hdr.Passes)
			require.NoError(t, err)

			got := map[string]string{}
			for _, o := range rep.Outputs {
				rel, err := filepath.Rel(outRoot, o.Path)
				require.NoError(t, err)
				got[filepath.ToSlash(rel)] = string(o.Content)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("reduced tree mismatch (-want +got):\n%s", diff)
			}
			if hdr.WantPasses > 0 {
				assert.Equal(t, hdr.WantPasses, rep.Passes)
				assert.True(t, rep.FixedPoint)
			}

			require.NoError(t, rep.Write())
			for rel, content := range want {
				data, err := os.ReadFile(filepath.Join(outRoot, filepath.FromSlash(rel)))
				require.NoError(t, err)
				assert.Equal(t, content, string(data))
			}
		})
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"class", ClassLevel, false},
		{"Member", MemberLevel, false},
		{"coverage", CoverageBased, false},
		{"statement", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStrategy(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

const memberJava = `package p;

public class C {
    public void test() { foo(); }
    void foo() {}
    void unused() {}
}
`

func newContext(t *testing.T, path, src string) *analysis.Context {
	t.Helper()
	f, err := jast.Parse(context.Background(), path, []byte(src))
	require.NoError(t, err)
	c, err := analysis.New(context.Background(), []*jast.File{f}, analysis.Options{
		Flags:  optflag.Default(),
		Logger: quiet,
	})
	require.NoError(t, err)
	return c
}

func TestNew(t *testing.T) {
	c := newContext(t, "p/C.java", memberJava)

	_, err := New(c, CoverageBased, Options{Entrypoints: []string{"p.C#test"}})
	assert.ErrorIs(t, err, errNoOracle)

	r, err := New(c, MemberLevel, Options{Entrypoints: []string{"p.C#test"}})
	require.NoError(t, err)
	assert.IsType(t, &MemberReducer{}, r)
	assert.Same(t, c, r.Context())

	_, err = New(c, Strategy("bogus"), Options{})
	assert.Error(t, err)
}

func TestMemberReducer(t *testing.T) {
	c := newContext(t, "p/C.java", memberJava)
	r := NewMemberReducer(c, []string{"p.C#test"})

	_, err := r.TransformedCompilationUnits("out")
	require.ErrorIs(t, err, ErrNotRun)

	require.NoError(t, r.Run(context.Background(), 1))

	cls := c.Registry().Type("p.C")
	unused := cls.MethodsNamed("unused")[0]
	assert.Equal(t, mark.Full, r.Result().Level(cls.MethodsNamed("foo")[0]))
	assert.Equal(t, decision.Remove, r.Decisions().Of(unused.Ref()))

	outs, err := r.TransformedCompilationUnits("out")
	require.NoError(t, err)
	require.Len(t, outs, 1)
	assert.Equal(t, filepath.Join("out", "p", "C.java"), outs[0].Path, "files outside every source root keep their path")
	assert.Equal(t, "p/C.java", outs[0].Source)
	assert.NotContains(t, string(outs[0].Content), "unused")
}

func TestTransformedCompilationUnits_UnparsableOutput(t *testing.T) {
	c := newContext(t, "p/C.java", memberJava)
	r := NewMemberReducer(c, []string{"p.C#test"})
	require.NoError(t, r.Run(context.Background(), 1))

	f := c.File("p/C.java")
	name := f.Child(c.Registry().Type("p.C").Node(), "name")
	require.NotEqual(t, jast.NoNode, name)
	broken := decision.NewTable()
	require.NoError(t, broken.Set(f.Ref(name), decision.Dummy))
	r.table = broken

	_, err := r.TransformedCompilationUnits("out")
	require.ErrorIs(t, err, ErrUnparsable)
	assert.ErrorContains(t, err, "p/C.java: first error at line 3")
}

func TestMemberReducer_UnknownEntrypoint(t *testing.T) {
	c := newContext(t, "p/C.java", memberJava)
	err := NewMemberReducer(c, []string{"p.Nope#test"}).Run(context.Background(), 1)
	assert.ErrorContains(t, err, "no class p.Nope")
}

func TestCoverageReducer_SeedsCoveredMethods(t *testing.T) {
	c := newContext(t, "p/C.java", memberJava)
	oracle := coverage.NewMap()
	oracle.SetMethod("p.C", "unused()", coverage.Covered)

	r := NewCoverageReducer(c, []string{"p.C#test"}, oracle)
	require.NoError(t, r.Run(context.Background(), 1))

	unused := c.Registry().Type("p.C").MethodsNamed("unused")[0]
	assert.Equal(t, mark.Full, r.Result().Level(unused))
	assert.Equal(t, decision.Keep, r.Decisions().Of(unused.Ref()))
}

func TestRemap(t *testing.T) {
	tests := []struct {
		name string
		root string
		path string
		want string
	}{
		{"under root", "/src/main/java", "/src/main/java/p/C.java", filepath.Join("/out", "p", "C.java")},
		{"no root", "", "p/C.java", filepath.Join("/out", "p", "C.java")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, remap(tt.root, tt.path, "/out"))
		})
	}
}
