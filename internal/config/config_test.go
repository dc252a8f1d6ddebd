package config

import (
	"os"
	"path/filepath"
	"testing"

	"hashalign/internal/align"
)

func writeManifest(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.Colons != align.StyleKey || cfg.Rockets != align.StyleKey {
		t.Fatalf("default styles must be key/key, got %v/%v", cfg.Colons, cfg.Rockets)
	}
	if cfg.TrailingArg != TrailingAlwaysInspect {
		t.Fatalf("default trailing policy must be always_inspect, got %v", cfg.TrailingArg)
	}
}

func TestLoadFileFull(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[align]
colons = "separator"
rockets = "table"
trailing_args = "ignore_implicit"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Colons != align.StyleSeparator {
		t.Fatalf("colons = %v, want separator", cfg.Colons)
	}
	if cfg.Rockets != align.StyleTable {
		t.Fatalf("rockets = %v, want table", cfg.Rockets)
	}
	if cfg.TrailingArg != TrailingIgnoreImplicit {
		t.Fatalf("trailing = %v, want ignore_implicit", cfg.TrailingArg)
	}
	if cfg.Path != path {
		t.Fatalf("config must record its manifest path")
	}
}

func TestLoadFilePartialKeepsDefaults(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[align]
rockets = "table"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Colons != align.StyleKey {
		t.Fatalf("unset colons must keep the default, got %v", cfg.Colons)
	}
	if cfg.Rockets != align.StyleTable {
		t.Fatalf("rockets = %v, want table", cfg.Rockets)
	}
}

func TestLoadFileUnknownStyleFails(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[align]
colons = "diagonal"
`)

	if _, err := LoadFile(path); err == nil {
		t.Fatalf("unknown style must fail at load time")
	}
}

func TestLoadFileUnknownPolicyFails(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
[align]
trailing_args = "sometimes"
`)

	if _, err := LoadFile(path); err == nil {
		t.Fatalf("unknown trailing policy must fail at load time")
	}
}

func TestLoadFileBadTOMLFails(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[align\ncolons = key")

	if _, err := LoadFile(path); err == nil {
		t.Fatalf("malformed TOML must fail")
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "[align]\ncolons = \"table\"\n")

	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	path, ok, err := Find(nested)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if !ok {
		t.Fatalf("expected the manifest above the start directory to be found")
	}
	if filepath.Dir(path) != root {
		t.Fatalf("found %q, want manifest in %q", path, root)
	}
}

func TestLoadWithoutManifestUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("missing manifest must yield defaults, got %+v", cfg)
	}
}

func TestDigestDistinguishesSettings(t *testing.T) {
	a := Default()
	b := Default()
	b.Rockets = align.StyleTable
	if a.Digest() == b.Digest() {
		t.Fatalf("different settings must digest differently")
	}
	if a.Digest() != Default().Digest() {
		t.Fatalf("equal settings must digest equally")
	}
}

func TestStarterIsLoadable(t *testing.T) {
	dir := t.TempDir()
	path := writeManifest(t, dir, Starter)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("the starter manifest must parse: %v", err)
	}
	if cfg.Colons != align.StyleKey || cfg.Rockets != align.StyleKey || cfg.TrailingArg != TrailingAlwaysInspect {
		t.Fatalf("starter manifest must encode the defaults, got %+v", cfg)
	}
}
