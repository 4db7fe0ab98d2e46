// Package workspace locates Eclipse projects on disk.
//
// An Index maps project names to their folders. It is built once, either by
// scanning a repository tree for .project descriptors (FromRepository) or by
// reading the bookkeeping an Eclipse workspace keeps under .metadata
// (FromWorkspace), and is read-only afterwards. Entries whose folder is
// missing or holds no descriptor are dropped while the Index is built, so a
// successful Lookup always names a folder that existed at load time.
package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"
)

// DescriptorFile is the per-project descriptor declaring the project name.
const DescriptorFile = ".project"

// ErrUnknownProject is returned when a project name is not in the Index.
var ErrUnknownProject = errors.New("unknown project")

// Index maps project names to project folders.
type Index struct {
	folders map[string]string
}

func newIndex(folders map[string]string) *Index {
	copied := make(map[string]string, len(folders))
	for name, folder := range folders {
		copied[name] = folder
	}
	return &Index{folders: copied}
}

// NormalizeName strips the leading separator older .classpath files put in
// front of project references ("/core" -> "core").
func NormalizeName(name string) string {
	return strings.TrimPrefix(name, "/")
}

// Lookup returns the folder of the named project.
func (ix *Index) Lookup(name string) (string, error) {
	name = NormalizeName(name)
	folder, ok := ix.folders[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProject, name)
	}
	return folder, nil
}

// Names returns every project name, sorted.
func (ix *Index) Names() []string {
	names := make([]string, 0, len(ix.folders))
	for name := range ix.folders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports the number of indexed projects.
func (ix *Index) Len() int {
	return len(ix.folders)
}

// Relative returns a copy of the Index whose folders are relative to root.
func (ix *Index) Relative(root string) (*Index, error) {
	relative := make(map[string]string, len(ix.folders))
	for name, folder := range ix.folders {
		rel, err := filepath.Rel(root, folder)
		if err != nil {
			return nil, fmt.Errorf("relativize %s against %s: %w", folder, root, err)
		}
		relative[name] = rel
	}
	return newIndex(relative), nil
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
