package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "")

	mgr := NewManager(path)
	cfg, err := mgr.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Defaults.Throttle != 8 {
		t.Errorf("expected default throttle 8, got %d", cfg.Defaults.Throttle)
	}
	if cfg.Defaults.PollInterval != 200*time.Millisecond {
		t.Errorf("expected default poll interval 200ms, got %s", cfg.Defaults.PollInterval)
	}
	if cfg.Defaults.MaxWait != 60*time.Second {
		t.Errorf("expected default max wait 60s, got %s", cfg.Defaults.MaxWait)
	}
	if cfg.Defaults.OutputFormat != "table" {
		t.Errorf("expected default output format table, got %s", cfg.Defaults.OutputFormat)
	}
}

func TestLoad_FullConfig(t *testing.T) {
	path := writeConfig(t, `
defaults:
  throttle: 16
  pollInterval: 100ms
  maxWait: 30s
  outputFormat: json
  noColor: true
commands:
  deploy:
    path: /usr/local/bin/deploy
    args: ["--quiet"]
    description: deploy a host
    env:
      DEPLOY_ENV: staging
  ping: {}
`)

	mgr := NewManager(path)
	cfg, err := mgr.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Defaults.Throttle != 16 {
		t.Errorf("expected throttle 16, got %d", cfg.Defaults.Throttle)
	}
	if cfg.Defaults.PollInterval != 100*time.Millisecond {
		t.Errorf("expected poll interval 100ms, got %s", cfg.Defaults.PollInterval)
	}
	if cfg.Defaults.MaxWait != 30*time.Second {
		t.Errorf("expected max wait 30s, got %s", cfg.Defaults.MaxWait)
	}
	if !cfg.Defaults.NoColor {
		t.Error("expected noColor true")
	}

	deploy, ok := mgr.GetCommand("deploy")
	if !ok {
		t.Fatal("expected deploy command in registry")
	}
	if deploy.Path != "/usr/local/bin/deploy" {
		t.Errorf("unexpected path: %s", deploy.Path)
	}
	if len(deploy.Args) != 1 || deploy.Args[0] != "--quiet" {
		t.Errorf("unexpected args: %v", deploy.Args)
	}
	if deploy.Env["DEPLOY_ENV"] != "staging" {
		t.Errorf("unexpected env: %v", deploy.Env)
	}

	if _, ok := mgr.GetCommand("missing"); ok {
		t.Error("expected lookup of unknown command to fail")
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	cfg, err := mgr.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Throttle != 8 {
		t.Errorf("expected default throttle, got %d", cfg.Defaults.Throttle)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "defaults: [not a map")

	mgr := NewManager(path)
	if _, err := mgr.Load(); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestCommandRegistry(t *testing.T) {
	mgr := NewManager(writeConfig(t, ""))
	if _, err := mgr.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mgr.SetCommand("b-cmd", CommandSpec{Path: "/bin/b"})
	mgr.SetCommand("a-cmd", CommandSpec{Path: "/bin/a"})

	names := mgr.CommandNames()
	if len(names) != 2 || names[0] != "a-cmd" || names[1] != "b-cmd" {
		t.Errorf("expected sorted names [a-cmd b-cmd], got %v", names)
	}

	mgr.RemoveCommand("a-cmd")
	if _, ok := mgr.GetCommand("a-cmd"); ok {
		t.Error("expected a-cmd to be removed")
	}

	if names := mgr.CommandNames(); len(names) != 1 {
		t.Errorf("expected 1 name, got %v", names)
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	mgr := NewManager(path)
	if _, err := mgr.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mgr.SetCommand("deploy", CommandSpec{Path: "/usr/local/bin/deploy", Description: "deploy a host"})
	if err := mgr.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reloaded := NewManager(path)
	if _, err := reloaded.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	deploy, ok := reloaded.GetCommand("deploy")
	if !ok {
		t.Fatal("expected deploy command after reload")
	}
	if deploy.Path != "/usr/local/bin/deploy" {
		t.Errorf("unexpected path after reload: %s", deploy.Path)
	}
}
