package ports

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/photorad/photoRad/internal/domain"
)

// dataRoot confines input paths to one directory. The zero value allows
// every path.
type dataRoot struct {
	dir  string // absolute, as configured
	real string // dir with symlinks evaluated
}

func newDataRoot(dir string) (dataRoot, error) {
	if dir == "" {
		return dataRoot{}, nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dataRoot{}, fmt.Errorf("failed to resolve data directory: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return dataRoot{}, fmt.Errorf("failed to resolve data directory: %w", err)
	}
	return dataRoot{dir: abs, real: resolved}, nil
}

// resolve returns the path to open for name. Relative names are taken from
// the root; absolute names and symlink targets must stay inside it.
func (r dataRoot) resolve(name string) (string, error) {
	if r.dir == "" {
		return name, nil
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.dir, path)
	}
	path = filepath.Clean(path)
	if !within(r.dir, path) && !within(r.real, path) {
		return "", fmt.Errorf("%w: %s", domain.ErrPathOutsideRoot, name)
	}

	resolved, err := filepath.EvalSymlinks(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("%w: %s", domain.ErrFileNotFound, name)
	case err != nil:
		return "", fmt.Errorf("failed to resolve %s: %w", name, err)
	case !within(r.real, resolved):
		return "", fmt.Errorf("%w: %s", domain.ErrPathOutsideRoot, name)
	}
	return resolved, nil
}

// within reports whether path is dir or lies below it
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
