// Package config loads the optional YAML settings file used by the blang
// command line tools.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable that points at a config file.
const EnvVar = "BLANG_CONFIG"

// DefaultFileName is looked up in the user's home directory.
const DefaultFileName = ".blang.yaml"

// Config holds the user-tunable settings of the shell and REPL.
type Config struct {
	Prompt      string `yaml:"prompt"`
	HistoryFile string `yaml:"history_file"`
	Color       bool   `yaml:"color"`
	Extension   string `yaml:"extension"`
	Warnings    bool   `yaml:"warnings"`

	// Path is the file the settings came from; empty for defaults.
	Path string `yaml:"-"`
}

// ValidationError aggregates problems found in a config file.
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "config: %s is invalid:", e.Path)
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	history := ""
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, ".blang_history")
	}
	return &Config{
		Prompt:      "BLang",
		HistoryFile: history,
		Color:       true,
		Extension:   ".bl",
		Warnings:    true,
	}
}

// Load reads path on top of the defaults. Fields missing from the file keep
// their default values; unknown fields are an error. An empty file yields the
// defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()

	cfg := Default()
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.Path = path

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Resolve picks the config file to use. An explicit path (the --config flag)
// wins, then $BLANG_CONFIG; both must exist. Otherwise ~/.blang.yaml is read
// if present, and the defaults are used if it is not.
func Resolve(explicit string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	if env := os.Getenv(EnvVar); env != "" {
		return Load(env)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return Default(), nil
	}
	path := filepath.Join(home, DefaultFileName)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(path)
}

func (c *Config) normalize() {
	if c.Extension != "" && !strings.HasPrefix(c.Extension, ".") {
		c.Extension = "." + c.Extension
	}
	if rest, ok := strings.CutPrefix(c.HistoryFile, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			c.HistoryFile = filepath.Join(home, rest)
		}
	}
}

func (c *Config) validate() error {
	errs := ValidationError{Path: c.Path}
	if strings.TrimSpace(c.Prompt) == "" {
		errs.Issues = append(errs.Issues, "prompt must not be empty")
	}
	if c.Extension == "" || c.Extension == "." {
		errs.Issues = append(errs.Issues, "extension must not be empty")
	}
	if strings.ContainsAny(c.Extension, `/\`) {
		errs.Issues = append(errs.Issues, fmt.Sprintf("extension %q must not contain a path separator", c.Extension))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}
