package services

import (
	"path/filepath"
	"strings"
)

// SafeJoin joins root, sub and target, returning "" when target would
// escape root.
func SafeJoin(root, sub, target string) string {
	cleanTarget := filepath.Clean(filepath.FromSlash(target))
	if filepath.IsAbs(cleanTarget) || cleanTarget == ".." || strings.HasPrefix(cleanTarget, ".."+string(filepath.Separator)) {
		return ""
	}
	return filepath.Join(root, sub, cleanTarget)
}
