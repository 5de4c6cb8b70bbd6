package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCachePath(t *testing.T) {
	base := isolate(t)
	out := mustRun(t, "cache", "path")

	want := filepath.Join(base, "xdg_cache_home", appName)
	if strings.TrimSpace(out) != want {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestCachePathFromConfig(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	cfg := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(cfg, []byte("[cache]\ndir = \""+filepath.ToSlash(dir)+"\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, "--config", cfg, "cache", "path")
	if strings.TrimSpace(out) != filepath.ToSlash(dir) {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}
}

func TestCacheClear(t *testing.T) {
	base := isolate(t)

	out := mustRun(t, "cache", "clear")
	if !strings.Contains(out, "Cache is empty") {
		t.Errorf("clear on missing dir = %q", out)
	}

	mustRun(t, "place", "-n", "12", "--min", "10", "--max", "12")
	dir := filepath.Join(base, "xdg_cache_home", appName)
	if entries, _ := os.ReadDir(dir); len(entries) == 0 {
		t.Fatal("place did not populate the cache")
	}

	out = mustRun(t, "cache", "clear")
	if !strings.Contains(out, "Cleared cache") {
		t.Errorf("clear output = %q", out)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("cache dir still has %d entries", len(entries))
	}

	out = mustRun(t, "place", "-n", "12", "--min", "10", "--max", "12")
	if !strings.Contains(out, "fresh") {
		t.Errorf("placement after clear was cached:\n%s", out)
	}
}

func TestCachePrune(t *testing.T) {
	base := isolate(t)
	mustRun(t, "place", "-n", "12", "--min", "10", "--max", "12")

	dir := filepath.Join(base, "xdg_cache_home", appName)
	junk := filepath.Join(dir, "zz", "broken.json")
	if err := os.MkdirAll(filepath.Dir(junk), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(junk, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	out := mustRun(t, "cache", "prune")
	if !strings.Contains(out, "Pruned 1 cached entries") {
		t.Errorf("prune output = %q", out)
	}
	if _, err := os.Stat(junk); !os.IsNotExist(err) {
		t.Errorf("corrupt entry survived prune: %v", err)
	}

	out = mustRun(t, "place", "-n", "12", "--min", "10", "--max", "12")
	if !strings.Contains(out, "cached") {
		t.Errorf("valid entries were pruned:\n%s", out)
	}
}
