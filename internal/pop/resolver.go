// Package pop locates and invokes the Pop CLI. Resolution never fails:
// when no real binary is found the literal command name is returned and a
// missing binary surfaces later as a spawn error.
package pop

import (
	"os"
	"os/exec"
	"path/filepath"
)

// Command is the literal CLI name, the resolution fallback of last resort.
const Command = "pop"

// Resolve returns the path used to invoke the Pop CLI. Order, first match
// wins: explicit override (only if the path exists), PATH scan, well-known
// install locations, then the literal command name for the OS loader.
func Resolve(override string) string {
	if override != "" && fileExists(override) {
		return override
	}
	if p, err := exec.LookPath(Command); err == nil {
		return p
	}
	for _, dir := range wellKnownDirs() {
		p := filepath.Join(dir, Command)
		if fileExists(p) {
			return p
		}
	}
	return Command
}

// wellKnownDirs lists conventional install locations checked after PATH:
// cargo's user bin, Homebrew prefixes, and /usr/local/bin.
func wellKnownDirs() []string {
	var dirs []string
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".cargo", "bin"))
	}
	dirs = append(dirs,
		"/opt/homebrew/bin",
		"/usr/local/homebrew/bin",
		"/usr/local/bin",
	)
	return dirs
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
