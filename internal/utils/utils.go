// Package utils provides small path helpers shared by the CLI.
package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
)

// ExpandPath expands a leading tilde and environment variables in path, and
// normalizes it to an absolute path when possible. Paths that cannot be
// resolved are returned as-is so the caller's os.Stat produces the real error.
func ExpandPath(path string) string {
	s := os.ExpandEnv(path)

	if strings.HasPrefix(s, "~") {
		expanded, err := homedir.Expand(s)
		if err == nil {
			s = expanded
		}
	}

	abs, err := filepath.Abs(s)
	if err != nil {
		return s
	}
	return abs
}
