package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"RELPACK_TARGET", "RELPACK_TEST_HOST", "RELPACK_TEST_GIT_HOST"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromMissingFile(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() missing file: %v", err)
	}
	if cfg.Target != nil || cfg.Constants != nil || cfg.TestHost != nil || cfg.TestGitHost != nil {
		t.Fatalf("LoadFrom() missing file = %+v, want zero config", cfg)
	}
}

func TestLoadFromFullConfig(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
target: windows
constants:
  CHANNEL: stable
  RELEASE_BOT_EMAIL: bot@example.com
test_host: http://localhost:8080
test_git_host: file:///tmp/mirrors
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom(): %v", err)
	}
	if cfg.Target == nil || *cfg.Target != "windows" {
		t.Fatalf("Target = %v, want windows", cfg.Target)
	}
	if cfg.TestHost == nil || *cfg.TestHost != "http://localhost:8080" {
		t.Fatalf("TestHost = %v", cfg.TestHost)
	}
	if cfg.TestGitHost == nil || *cfg.TestGitHost != "file:///tmp/mirrors" {
		t.Fatalf("TestGitHost = %v", cfg.TestGitHost)
	}
	if len(cfg.Constants) != 2 {
		t.Fatalf("Constants len = %d, want 2", len(cfg.Constants))
	}
}

func TestConstantsKeepDocumentOrder(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
constants:
  ZULU: z
  ALPHA: a
  MIKE: m
`)
	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom(): %v", err)
	}
	want := []string{"ZULU", "ALPHA", "MIKE"}
	if len(cfg.Constants) != len(want) {
		t.Fatalf("Constants len = %d, want %d", len(cfg.Constants), len(want))
	}
	for i, name := range want {
		if cfg.Constants[i].Name != name {
			t.Fatalf("Constants[%d].Name = %q, want %q", i, cfg.Constants[i].Name, name)
		}
	}
}

func TestRejectsNonMappingConstants(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "constants: [a, b]\n")
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for sequence constants")
	}
}

func TestRejectsInvalidConstantName(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "constants:\n  not-a-name: x\n")
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for invalid constant name")
	}
}

func TestRejectsUnknownTarget(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "target: plan9\n")
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for unknown target")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "target: linux\ntest_host: http://filehost\n")
	t.Setenv("RELPACK_TARGET", "windows")
	t.Setenv("RELPACK_TEST_HOST", "http://envhost")
	t.Setenv("RELPACK_TEST_GIT_HOST", "file:///tmp/envgit")

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom(): %v", err)
	}
	if cfg.Target == nil || *cfg.Target != "windows" {
		t.Fatalf("Target = %v, want env override windows", cfg.Target)
	}
	if cfg.TestHost == nil || *cfg.TestHost != "http://envhost" {
		t.Fatalf("TestHost = %v, want env override", cfg.TestHost)
	}
	if cfg.TestGitHost == nil || *cfg.TestGitHost != "file:///tmp/envgit" {
		t.Fatalf("TestGitHost = %v, want env override", cfg.TestGitHost)
	}
}

func TestEnvTargetValidated(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("RELPACK_TARGET", "dos")
	if _, err := LoadFrom(path); err == nil {
		t.Fatal("expected error for invalid env target")
	}
}
