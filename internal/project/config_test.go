package project

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
[check]
format = "json"
jobs = 4
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Check.Format != "json" || cfg.Check.Jobs != 4 {
		t.Fatalf("file values not applied: %+v", cfg.Check)
	}
	if cfg.Check.MaxDiagnostics != 100 || len(cfg.Check.Include) != 2 {
		t.Fatalf("defaults lost: %+v", cfg.Check)
	}
	if cfg.Trace.Level != "off" || cfg.Trace.Output != "-" {
		t.Fatalf("trace defaults lost: %+v", cfg.Trace)
	}
	if cfg.Root != dir || cfg.Path != path {
		t.Fatalf("unexpected location %q %q", cfg.Root, cfg.Path)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{"missing check", "[trace]\nlevel = \"debug\"\n", ErrCheckSectionMissing},
		{"unknown key", "[check]\nformatt = \"json\"\n", ErrUnknownKey},
		{"bad format", "[check]\nformat = \"xml\"\n", ErrInvalidValue},
		{"negative jobs", "[check]\njobs = -1\n", ErrInvalidValue},
		{"bad pattern", "[check]\ninclude = [\"[\"]\n", ErrInvalidValue},
		{"bad trace level", "[check]\n[trace]\nlevel = \"loud\"\n", ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			if _, err := Load(path); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, "[check]\nformat = \"short\"\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfg, ok, err := Discover(nested)
	if err != nil || !ok {
		t.Fatalf("Discover: ok=%v err=%v", ok, err)
	}
	if cfg.Check.Format != "short" || cfg.Root != root {
		t.Fatalf("unexpected config %+v", cfg)
	}

	gotRoot, ok, err := FindProjectRoot(nested)
	if err != nil || !ok || gotRoot != root {
		t.Fatalf("FindProjectRoot = %q %v %v", gotRoot, ok, err)
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDefault(dir)
	if err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("default file does not load: %v", err)
	}
	def := Default()
	if cfg.Check.Format != def.Check.Format || cfg.Check.MaxDiagnostics != def.Check.MaxDiagnostics {
		t.Fatalf("default file differs from Default(): %+v", cfg.Check)
	}
	if _, err := WriteDefault(dir); !errors.Is(err, ErrConfigExists) {
		t.Fatalf("second WriteDefault should fail with ErrConfigExists, got %v", err)
	}
}

func TestMatchInclude(t *testing.T) {
	patterns := []string{"*.rotree.json", "*.rotree"}
	cases := map[string]bool{
		"dir/a.rotree.json": true,
		"a.rotree":          true,
		"a.json":            false,
		"a.hack":            false,
	}
	for path, want := range cases {
		if got := MatchInclude(patterns, path); got != want {
			t.Errorf("MatchInclude(%q) = %v, want %v", path, got, want)
		}
	}
	if !MatchInclude(nil, "anything") {
		t.Errorf("empty include list should match everything")
	}
}

func TestCacheDirRelativeToRoot(t *testing.T) {
	cfg := Default()
	cfg.Root = "/proj"
	cfg.Cache.Dir = ".cache"
	if got := cfg.CacheDir(); got != filepath.Join("/proj", ".cache") {
		t.Fatalf("CacheDir = %q", got)
	}
	cfg.Cache.Dir = ""
	if got := cfg.CacheDir(); got != "" {
		t.Fatalf("empty dir should stay empty, got %q", got)
	}
}

func TestDigestCombine(t *testing.T) {
	a := DigestBytes([]byte("a"))
	b := DigestBytes([]byte("b"))
	if Combine(a, b) == Combine(b, a) {
		t.Fatalf("Combine must depend on order")
	}
	if a.IsZero() || !(Digest{}).IsZero() {
		t.Fatalf("IsZero mismatch")
	}
	if len(a.String()) != 64 {
		t.Fatalf("unexpected hex length %d", len(a.String()))
	}
}
