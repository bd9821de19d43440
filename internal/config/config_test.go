package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blang.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Prompt != "BLang" || cfg.Extension != ".bl" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.Color || !cfg.Warnings {
		t.Errorf("expected color and warnings on by default: %+v", cfg)
	}
	if cfg.Path != "" {
		t.Errorf("expected empty path, got %q", cfg.Path)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "prompt: Boss\ncolor: false\nextension: blang\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prompt != "Boss" {
		t.Errorf("prompt = %q", cfg.Prompt)
	}
	if cfg.Color {
		t.Error("expected color to be off")
	}
	if cfg.Extension != ".blang" {
		t.Errorf("extension = %q, want .blang", cfg.Extension)
	}
	if !cfg.Warnings {
		t.Error("warnings should keep its default")
	}
	if cfg.Path != path {
		t.Errorf("path = %q", cfg.Path)
	}
}

func TestLoadEmptyFileGivesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prompt != "BLang" || cfg.Extension != ".bl" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	_, err := Load(writeConfig(t, "prompt: x\ntheme: dark\n"))
	if err == nil || !strings.Contains(err.Error(), "theme") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadValidation(t *testing.T) {
	_, err := Load(writeConfig(t, "prompt: \"  \"\nextension: a/b\n"))
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if len(verr.Issues) != 2 {
		t.Errorf("expected 2 issues, got %v", verr.Issues)
	}
}

func TestLoadExpandsHomeInHistoryFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	cfg, err := Load(writeConfig(t, "history_file: ~/hist\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HistoryFile != filepath.Join(home, "hist") {
		t.Errorf("history_file = %q", cfg.HistoryFile)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestResolveOrder(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvVar, "")

	cfg, err := Resolve("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" {
		t.Errorf("expected defaults without any file, got %q", cfg.Path)
	}

	homeFile := filepath.Join(home, DefaultFileName)
	if err := os.WriteFile(homeFile, []byte("prompt: home\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Resolve("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prompt != "home" {
		t.Errorf("expected home config, got %q", cfg.Prompt)
	}

	envFile := writeConfig(t, "prompt: env\n")
	t.Setenv(EnvVar, envFile)
	cfg, err = Resolve("")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prompt != "env" {
		t.Errorf("expected env config, got %q", cfg.Prompt)
	}

	flagFile := writeConfig(t, "prompt: flag\n")
	cfg, err = Resolve(flagFile)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Prompt != "flag" {
		t.Errorf("expected flag config, got %q", cfg.Prompt)
	}
}

func TestResolveExplicitMustExist(t *testing.T) {
	if _, err := Resolve(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}
