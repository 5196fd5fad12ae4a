package resource

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

//go:embed assets
var assetsFS embed.FS

// embedded is the built-in resource tree rooted at assets/.
var embedded = mustSub(assetsFS, "assets")

func mustSub(f fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(f, dir)
	if err != nil {
		panic(fmt.Sprintf("resource: embed %s: %v", dir, err))
	}
	return sub
}

// CleanName normalizes a resource name to the slash-separated form used as a cache key.
//
// Parameters:
//   - name: a resource name or a path relative to the resource directory
//
// Returns:
//   - string: the cleaned name, "" when name is empty or escapes the resource root
func CleanName(name string) string {
	if name == "" {
		return ""
	}
	s := filepath.ToSlash(filepath.Clean(filepath.FromSlash(name)))
	s = strings.TrimPrefix(s, "./")
	if s == "." || s == ".." || strings.HasPrefix(s, "../") || strings.HasPrefix(s, "/") {
		return ""
	}
	return s
}

// readFile looks for name in dir first and falls back to the embedded assets.
func readFile(dir string, builtin fs.FS, name string) ([]byte, error) {
	clean := CleanName(name)
	if clean == "" {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(clean)))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("resource: read %s: %w", clean, err)
		}
	}
	if builtin == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, clean)
	}
	data, err := fs.ReadFile(builtin, clean)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, clean)
	}
	if err != nil {
		return nil, fmt.Errorf("resource: read embedded %s: %w", clean, err)
	}
	return data, nil
}
