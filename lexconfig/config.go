// Package lexconfig loads cmd/lexfmt's project configuration file
// (lex.yaml), walking up the directory tree the way the teacher's
// internal/config package locates spectr.yaml. File access goes through
// an afero.Fs so Load is unit-testable against an in-memory filesystem
// (SPEC_FULL.md §11).
package lexconfig

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/lex-fmt/core-sub003/lexerr"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the project configuration file.
const FileName = "lex.yaml"

// validPipelines is the set of named pipeline configurations a Config
// may select as its default (lex/pipeline.Configs' key set, duplicated
// here as a literal to avoid a dependency from lexconfig onto
// lex/pipeline for what is otherwise a pure string-validation concern).
var validPipelines = map[string]bool{
	"default":               true,
	"tokens-raw":            true,
	"tokens-indentation":    true,
	"tokens-linebased-flat": true,
	"tokens-linebased-tree": true,
	"lex-to-tag":            true,
	"lex-to-treeviz":        true,
}

var validFailOn = map[string]lexerr.Severity{
	"hint":       lexerr.Hint,
	"warning":    lexerr.Warning,
	"structural": lexerr.Structural,
	"fatal":      lexerr.Fatal,
}

// Config holds cmd/lexfmt's project-level settings.
type Config struct {
	// Pipeline names a pipeline configuration; Load rejects names that
	// are not registered. cmd/lexfmt's `parse` always runs "default" and
	// does not read this field.
	Pipeline string `yaml:"pipeline"`
	// Theme is loaded as given and not validated. The diagnostic printer
	// does not read it; it always uses its fixed hint-to-fatal ramp.
	Theme string `yaml:"theme"`
	// FailOn is the minimum diagnostic severity that makes the CLI exit
	// non-zero.
	FailOn string `yaml:"fail_on"`

	// ProjectRoot is the directory lex.yaml was found in, or the start
	// path if no file was found. Never read from YAML.
	ProjectRoot string `yaml:"-"`
}

// defaults returns a Config with every field at its default value.
func defaults(projectRoot string) *Config {
	return &Config{
		Pipeline:    "default",
		Theme:       "default",
		FailOn:      "structural",
		ProjectRoot: projectRoot,
	}
}

// Load searches fs for lex.yaml starting at startPath and walking up
// the directory tree. If none is found, it returns defaults rooted at
// startPath.
func Load(fs afero.Fs, startPath string) (*Config, error) {
	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return nil, fmt.Errorf("resolve absolute path for %q: %w", startPath, err)
	}

	current := absPath
	for {
		candidate := filepath.Join(current, FileName)
		if exists, statErr := afero.Exists(fs, candidate); statErr == nil && exists {
			cfg, parseErr := parseFile(fs, candidate)
			if parseErr != nil {
				return nil, parseErr
			}
			cfg.ProjectRoot = current
			if err := cfg.validate(); err != nil {
				return nil, fmt.Errorf("invalid configuration in %s: %w", candidate, err)
			}

			return cfg, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}

	return defaults(absPath), nil
}

func parseFile(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := defaults("")
	if err := yaml.Unmarshal(data, cfg); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return nil, fmt.Errorf("invalid YAML syntax: %v", typeErr.Errors)
		}

		return nil, fmt.Errorf("parse YAML: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if !validPipelines[c.Pipeline] {
		names := make([]string, 0, len(validPipelines))
		for name := range validPipelines {
			names = append(names, name)
		}

		return fmt.Errorf("unknown pipeline %q, available: %s", c.Pipeline, strings.Join(names, ", "))
	}
	if _, ok := validFailOn[c.FailOn]; !ok {
		return fmt.Errorf("unknown fail_on severity %q, available: hint, warning, structural, fatal", c.FailOn)
	}

	return nil
}

// FailSeverity returns the parsed lexerr.Severity threshold for FailOn.
func (c *Config) FailSeverity() lexerr.Severity {
	return validFailOn[c.FailOn]
}
