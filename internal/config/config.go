package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectConfig holds project-level settings loaded from jreduce.yml.
type ProjectConfig struct {
	SourceRoots  []string `yaml:"sourceRoots,omitempty"`
	Classpath    []string `yaml:"classpath,omitempty"`
	Entrypoints  []string `yaml:"entrypoints,omitempty"`
	OutputDir    string   `yaml:"outputDir,omitempty"`
	Strategy     string   `yaml:"strategy,omitempty"`
	Passes       int      `yaml:"passes,omitempty"`
	Coverage     string   `yaml:"coverage,omitempty"`
	Concurrency  int      `yaml:"concurrency,omitempty"`
	DisableFlags []string `yaml:"disableFlags,omitempty"`
	// GraphDB is the directory of the persistent diagnostics graph. Empty
	// keeps the graph in memory.
	GraphDB string `yaml:"graphDB,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty"`
}

// Load attempts to read jreduce.yml or jreduce.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists. Relative paths in the file are resolved against dir.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"jreduce.yml", "jreduce.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		cfg.resolve(dir)
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

func (c *ProjectConfig) resolve(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i, p := range c.SourceRoots {
		c.SourceRoots[i] = abs(p)
	}
	for i, p := range c.Classpath {
		c.Classpath[i] = abs(p)
	}
	c.OutputDir = abs(c.OutputDir)
	c.Coverage = abs(c.Coverage)
	c.GraphDB = abs(c.GraphDB)
}
