package pop

import (
	"os"
	"path/filepath"
	"testing"
)

// fakePop drops an executable stand-in named "pop" into dir.
func fakePop(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, Command)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolve_OverrideWins(t *testing.T) {
	pathDir := t.TempDir()
	onPath := fakePop(t, pathDir)
	t.Setenv("PATH", pathDir)

	override := filepath.Join(t.TempDir(), "custom-pop")
	if err := os.WriteFile(override, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got := Resolve(override); got != override {
		t.Errorf("Resolve = %q, want override %q (PATH had %q)", got, override, onPath)
	}
}

func TestResolve_MissingOverrideFallsThrough(t *testing.T) {
	pathDir := t.TempDir()
	onPath := fakePop(t, pathDir)
	t.Setenv("PATH", pathDir)

	got := Resolve(filepath.Join(t.TempDir(), "does-not-exist"))
	if got != onPath {
		t.Errorf("Resolve = %q, want PATH hit %q", got, onPath)
	}
}

func TestResolve_PathScan(t *testing.T) {
	pathDir := t.TempDir()
	onPath := fakePop(t, pathDir)
	t.Setenv("PATH", pathDir)

	if got := Resolve(""); got != onPath {
		t.Errorf("Resolve = %q, want %q", got, onPath)
	}
}

func TestResolve_LiteralFallback(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, p := range []string{"/opt/homebrew/bin/pop", "/usr/local/homebrew/bin/pop", "/usr/local/bin/pop"} {
		if _, err := os.Stat(p); err == nil {
			t.Skipf("pop installed at %s", p)
		}
	}

	if got := Resolve(""); got != Command {
		t.Errorf("Resolve = %q, want literal %q", got, Command)
	}
}
