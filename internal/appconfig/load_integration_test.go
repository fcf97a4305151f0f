package appconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldCwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldCwd) })
}

func TestResolvePathDefault(t *testing.T) {
	tempDir := t.TempDir()
	configDir := filepath.Join(tempDir, "config")
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		t.Fatalf("mkdir config: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.json"), []byte(`{"serverURL":"http://a"}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	// A legacy file next to it must not win over the default location.
	if err := os.WriteFile(filepath.Join(tempDir, "config.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write legacy config: %v", err)
	}
	chdir(t, tempDir)

	path, ok := ResolvePath("")
	if !ok || path != DefaultConfigPath {
		t.Fatalf("ResolvePath(\"\") = %q, %v", path, ok)
	}
}

func TestResolvePathLegacy(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "config.json"), []byte(`{"serverURL":"http://legacy"}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	chdir(t, tempDir)

	path, ok := ResolvePath(DefaultConfigPath)
	if !ok || path != "config.json" {
		t.Fatalf("ResolvePath = %q, %v; want legacy config.json", path, ok)
	}
}

func TestResolvePathExplicitDoesNotFallBack(t *testing.T) {
	tempDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tempDir, "config.json"), []byte(`{}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	chdir(t, tempDir)

	path, ok := ResolvePath("custom.json")
	if ok || path != "custom.json" {
		t.Fatalf("ResolvePath(custom.json) = %q, %v", path, ok)
	}
}

func TestResolvePathMissing(t *testing.T) {
	chdir(t, t.TempDir())

	if path, ok := ResolvePath(""); ok || path != DefaultConfigPath {
		t.Fatalf("ResolvePath(\"\") = %q, %v; want missing default", path, ok)
	}
	if err := os.Mkdir("dir.json", 0o755); err != nil {
		t.Fatal(err)
	}
	if _, ok := ResolvePath("dir.json"); ok {
		t.Fatal("a directory is not a config file")
	}
}
