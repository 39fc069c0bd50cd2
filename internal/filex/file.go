// Package filex contains small filesystem helpers for placing local state
// (session database, file stores) under the user's config directory.
package filex

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates dir (and any missing parents) with 0700 permissions and
// returns the same path.
func EnsureDir(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return dir, nil
}

// AppConfigDir resolves the per-user config directory for the named
// application (e.g. ~/.config/maya on Linux), creating it if needed.
func AppConfigDir(app string) (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("user config dir: %w", err)
	}
	return EnsureDir(filepath.Join(base, app))
}
