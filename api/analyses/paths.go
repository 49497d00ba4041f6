package analyses

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathOutsideRoot is returned when a request path escapes the media root
var ErrPathOutsideRoot = errors.New("path is outside the media root")

// ResolveMediaPath maps a request path onto the filesystem. Relative paths
// are taken from root; absolute ones must already lie inside it. Symlinks are
// followed for existing files so a link cannot point out of the root. An
// empty root accepts any path unchanged.
func ResolveMediaPath(root, requested string) (string, error) {
	if strings.TrimSpace(requested) == "" {
		return "", errors.New("path is empty")
	}
	if root == "" {
		return filepath.Clean(requested), nil
	}

	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving media root: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(rootAbs); err == nil {
		rootAbs = resolved
	}

	candidate := requested
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(rootAbs, candidate)
	}
	candidate = filepath.Clean(candidate)

	if resolved, err := filepath.EvalSymlinks(candidate); err == nil {
		candidate = resolved
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("resolving %s: %w", requested, err)
	}

	rel, err := filepath.Rel(rootAbs, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathOutsideRoot, requested)
	}
	return candidate, nil
}
