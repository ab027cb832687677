package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Derppening/test-dependency-minimization-sub005/internal/config"
)

const (
	appJava = `package app;

public class App {
    public void test() { greet(); }
    void greet() {}
    void unused() {}
}
`
	deadJava = `package app;

class Dead {}
`
)

// project writes a project with a source tree and the given jreduce.yml
// (skipped when empty) and returns its root.
func project(t *testing.T, cfg string) string {
	t.Helper()
	root := t.TempDir()
	src := filepath.Join(root, "src", "app")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "App.java"), []byte(appJava), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Dead.java"), []byte(deadJava), 0o644))
	if cfg != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, "jreduce.yml"), []byte(cfg), 0o644))
	}
	return root
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", out)
}

func TestReduce_FromConfig(t *testing.T) {
	root := project(t, `sourceRoots: [src]
entrypoints: ["app.App#test"]
outputDir: out
`)
	report := filepath.Join(root, "report.json")
	out, err := execute(t, "reduce", "--project-root", root, "--report", report)
	require.NoError(t, err)
	assert.Contains(t, out, "in 1 passes")
	assert.Contains(t, out, filepath.Join(root, "out"))

	data, err := os.ReadFile(filepath.Join(root, "out", "app", "App.java"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "void greet() {}")
	assert.NotContains(t, string(data), "unused")
	_, err = os.Stat(filepath.Join(root, "out", "app", "Dead.java"))
	assert.True(t, os.IsNotExist(err))

	raw, err := os.ReadFile(report)
	require.NoError(t, err)
	var rep struct {
		Strategy string `json:"strategy"`
		Files    []struct {
			Path   string `json:"path"`
			Kept   bool   `json:"kept"`
			Output string `json:"output"`
		} `json:"files"`
	}
	require.NoError(t, json.Unmarshal(raw, &rep))
	assert.Equal(t, "member", rep.Strategy)
	require.Len(t, rep.Files, 2)
	for _, f := range rep.Files {
		if filepath.Base(f.Path) == "Dead.java" {
			assert.False(t, f.Kept)
			assert.Empty(t, f.Output)
		} else {
			assert.True(t, f.Kept)
			assert.Equal(t, filepath.Join(root, "out", "app", "App.java"), f.Output)
		}
	}
}

func TestReduce_FlagsOverrideConfig(t *testing.T) {
	root := project(t, `sourceRoots: [src]
entrypoints: ["app.Missing"]
outputDir: out
strategy: coverage
`)
	outDir := filepath.Join(t.TempDir(), "elsewhere")
	_, err := execute(t, "reduce", "--project-root", root,
		"--strategy", "class", "-o", outDir, "app.App")
	require.Error(t, err, "positional entrypoints add to the configured ones")
	assert.Contains(t, err.Error(), "app.Missing")

	_, err = execute(t, "reduce", "--project-root", root,
		"--strategy", "class", "-o", outDir, "-e", "app.App")
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(outDir, "app", "App.java"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "unused", "class-level reduction keeps whole classes")
}

func TestReduce_MissingSettings(t *testing.T) {
	root := project(t, "")
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no roots", nil, "no source roots"},
		{"no entrypoints", []string{"--source-root", filepath.Join(root, "src")}, "no entrypoints"},
		{"no output", []string{"--source-root", filepath.Join(root, "src"), "-e", "app.App"}, "no output directory"},
		{"bad strategy", []string{"--source-root", filepath.Join(root, "src"), "-e", "app.App", "-o", "x", "--strategy", "line"}, "unknown strategy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"reduce", "--project-root", root}, tt.args...)
			_, err := execute(t, args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestMerge(t *testing.T) {
	cmd := newReduceCmd(&globals{})
	require.NoError(t, cmd.ParseFlags([]string{"--passes", "4", "--source-root", "a"}))
	f := &reduceFlags{}
	// Rebind the parsed values the way RunE sees them.
	f.Passes, _ = cmd.Flags().GetInt("passes")
	f.SourceRoots, _ = cmd.Flags().GetStringSlice("source-root")
	f.Strategy, _ = cmd.Flags().GetString("strategy")

	f.merge(cmd, &config.ProjectConfig{
		SourceRoots: []string{"b"},
		Passes:      2,
		Strategy:    "class",
		GraphDB:     "/tmp/g",
	})
	assert.Equal(t, 4, f.Passes)
	assert.Equal(t, []string{"a"}, f.SourceRoots)
	assert.Equal(t, "class", f.Strategy)
	assert.Equal(t, "/tmp/g", f.GraphDB)
}

func TestWhy_NoGraph(t *testing.T) {
	root := project(t, "")
	_, err := execute(t, "why", "--project-root", root, "app.App")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no graph configured")

	_, err = execute(t, "diagram", "--project-root", root, "--graph-db", filepath.Join(root, "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no graph found")
}
