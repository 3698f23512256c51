package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("dir", "", "")
	fs.String("backend", "sqlite", "")
	fs.String("format", "json", "")
	fs.Bool("pretty", false, "")
	fs.String("log-level", "warn", "")
	fs.String("config", "", "")
	return fs
}

func TestLoad_Defaults(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv(EnvConfigDir, cfgDir)

	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Dir != cfgDir {
		t.Fatalf("expected data dir to default to config dir; got %q", cfg.Dir)
	}
	if cfg.Backend != "sqlite" || cfg.Key != "bir_tasks" || cfg.Format != "json" || cfg.Sort != "deadline" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Log.Level != "warn" || !cfg.TUI.Detail {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.File != "" {
		t.Fatalf("expected no config file; got %q", cfg.File)
	}
	if cfg.LogPath() != filepath.Join(cfgDir, "formbuddy.log") {
		t.Fatalf("unexpected log path %q", cfg.LogPath())
	}
}

func TestLoad_Precedence(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv(EnvConfigDir, cfgDir)
	yml := "backend: file\nformat: edn\nsort: status\nlog:\n  level: debug\n"
	if err := os.WriteFile(filepath.Join(cfgDir, FileName), []byte(yml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("FORMBUDDY_FORMAT", "yaml")
	t.Setenv("FORMBUDDY_LOG_LEVEL", "info")

	fs := testFlags()
	if err := fs.Parse([]string{"--backend", "memory"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg, err := Load("", fs)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.File != filepath.Join(cfgDir, FileName) {
		t.Fatalf("expected config file to be read; got %q", cfg.File)
	}
	// flag > env > file > default
	if cfg.Backend != "memory" {
		t.Fatalf("flag should win; got backend %q", cfg.Backend)
	}
	if cfg.Format != "yaml" || cfg.Log.Level != "info" {
		t.Fatalf("env should beat the file; got %+v", cfg)
	}
	if cfg.Sort != "status" {
		t.Fatalf("file should beat defaults; got sort %q", cfg.Sort)
	}
}

func TestLoad_ExplicitFileMustExist(t *testing.T) {
	t.Setenv(EnvConfigDir, t.TempDir())
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil); err == nil {
		t.Fatalf("expected missing explicit config to fail")
	}
}
