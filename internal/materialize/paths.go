package materialize

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// isSubpath reports whether target equals root or lies beneath it. Both
// paths must already be cleaned.
func isSubpath(target, root string) bool {
	if target == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(target, prefix)
}

// joinWithin joins a slash-separated relative path onto root and rejects
// results outside root.
func joinWithin(root, rel string) (string, error) {
	if rel == "" || filepath.IsAbs(filepath.FromSlash(rel)) {
		return "", fmt.Errorf("path traversal: %q is not relative", rel)
	}
	target := filepath.Join(root, filepath.FromSlash(rel))
	if target == root || !isSubpath(target, root) {
		return "", fmt.Errorf("path traversal: %q escapes %s", rel, root)
	}
	return target, nil
}

// ensureResolvedWithin checks that dir, after resolving symlinks, still lies
// under resolvedRoot.
func ensureResolvedWithin(dir, resolvedRoot string) error {
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	if !isSubpath(resolved, resolvedRoot) {
		return fmt.Errorf("path traversal: %s resolves outside destination", dir)
	}
	return nil
}

// dirIsEmpty reports whether dir has no entries.
func dirIsEmpty(dir string) (bool, error) {
	f, err := os.Open(dir)
	if err != nil {
		return false, err
	}
	defer f.Close()

	names, err := f.Readdirnames(1)
	if len(names) > 0 {
		return false, nil
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return true, nil
}
