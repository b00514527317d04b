package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultFileName = "aot.yaml"

type Mode string

const (
	ModeInterpret Mode = "interpret"
	ModeCompile   Mode = "compile"
)

type CollaboratorKind string

const (
	CollaboratorEmbedded  CollaboratorKind = "embedded"
	CollaboratorToolchain CollaboratorKind = "toolchain"
)

type Config struct {
	Mode         Mode               `yaml:"mode"`
	Prompt       string             `yaml:"prompt"`
	History      string             `yaml:"history"`
	Collaborator CollaboratorConfig `yaml:"collaborator"`
}

type CollaboratorConfig struct {
	Kind       CollaboratorKind `yaml:"kind"`
	Go         string           `yaml:"go"`
	Timeout    time.Duration    `yaml:"timeout"`
	KeepFailed bool             `yaml:"keep_failed"`
}

// ValidationError aggregates every problem found in a configuration.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n  - ")
		b.WriteString(issue)
	}
	return b.String()
}

func Default() Config {
	return Config{
		Mode:    ModeInterpret,
		Prompt:  "> ",
		History: "~/.aot_history",
		Collaborator: CollaboratorConfig{
			Kind:       CollaboratorEmbedded,
			Go:         "go",
			KeepFailed: true,
		},
	}
}

// Load reads path on top of the defaults. A missing file is not an error
// when path is the default file name.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	file, err := os.Open(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer file.Close()

	if err := Decode(file, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}

// Decode overlays the YAML document in r onto cfg and validates the result.
func Decode(r io.Reader, cfg *Config) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	return cfg.Validate()
}

func (c *Config) Validate() error {
	var issues []string

	switch c.Mode {
	case ModeInterpret, ModeCompile:
	default:
		issues = append(issues, fmt.Sprintf("mode must be %q or %q, got %q", ModeInterpret, ModeCompile, c.Mode))
	}

	switch c.Collaborator.Kind {
	case CollaboratorEmbedded, CollaboratorToolchain:
	default:
		issues = append(issues, fmt.Sprintf(
			"collaborator.kind must be %q or %q, got %q",
			CollaboratorEmbedded,
			CollaboratorToolchain,
			c.Collaborator.Kind))
	}

	if c.Collaborator.Kind == CollaboratorToolchain && c.Collaborator.Go == "" {
		issues = append(issues, "collaborator.go must name a go binary")
	}

	if c.Collaborator.Timeout < 0 {
		issues = append(issues, "collaborator.timeout must not be negative")
	}

	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}

	return nil
}

// HistoryPath expands a leading ~ in the history setting. An empty result
// disables history.
func (c *Config) HistoryPath() string {
	if c.History == "" {
		return ""
	}

	if c.History == "~" || strings.HasPrefix(c.History, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		return filepath.Join(home, strings.TrimPrefix(c.History, "~"))
	}

	return c.History
}
