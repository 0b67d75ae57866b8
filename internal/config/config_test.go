package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenSectionMissing(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "# empty\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("got %+v, want defaults", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[analysis]
block_scoping = false
catch_scoping = "legacy"
max_diagnostics = 10
warnings_as_errors = true
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BlockScoping {
		t.Errorf("block_scoping not applied")
	}
	if cfg.CatchScoping != CatchScopeLegacy {
		t.Errorf("catch_scoping = %v, want legacy", cfg.CatchScoping)
	}
	if cfg.MaxDiagnostics != 10 {
		t.Errorf("max_diagnostics = %d, want 10", cfg.MaxDiagnostics)
	}
	if !cfg.WarningsAsErrors {
		t.Errorf("warnings_as_errors not applied")
	}
}

func TestLoadPartialSection(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[analysis]\nmax_diagnostics = 0\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxDiagnostics != 0 {
		t.Errorf("max_diagnostics = %d, want 0 (unlimited)", cfg.MaxDiagnostics)
	}
	if !cfg.BlockScoping || cfg.CatchScoping != CatchScopeModern {
		t.Errorf("unset keys lost their defaults: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, "[analysis]\ncatch_scoping = \"es3\"\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for bad catch_scoping")
	}
	path = writeManifest(t, dir, "[analysis]\nmax_diagnostics = -1\n")
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for negative max_diagnostics")
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[analysis]\ncatch_scoping = \"legacy\"\n")
	nested := filepath.Join(root, "src", "lib")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if filepath.Dir(path) != root {
		t.Fatalf("found %s, want manifest in %s", path, root)
	}

	cfg, err := LoadFrom(nested)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.CatchScoping != CatchScopeLegacy {
		t.Fatalf("LoadFrom did not pick up the manifest")
	}
}

func TestLoadFromWithoutManifest(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("got %+v, want defaults", cfg)
	}
}
