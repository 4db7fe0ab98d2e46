// Package userlib resolves Eclipse user libraries to archive files.
//
// A user library is a named, ordered list of archives referenced as
// "/<project>/<path inside project>". The Registry resolves each reference
// through a project index when it is built; lookups afterwards never touch
// the filesystem.
package userlib

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	billy "github.com/go-git/go-billy/v5"
)

var (
	// ErrMissingArchive is returned when a declared archive does not exist.
	ErrMissingArchive = errors.New("missing archive")

	// ErrInvalidArchivePath is returned for archive references that are not
	// of the form /<project>/<path>.
	ErrInvalidArchivePath = errors.New("invalid archive path")

	// ErrUnknownLibrary is returned by Jars for names the Registry does not define.
	ErrUnknownLibrary = errors.New("user library not found")

	// ErrNoLibraries is returned by None for every lookup.
	ErrNoLibraries = errors.New("no user libraries configured; export the workspace user libraries and pass the file as input")
)

// Source resolves user library names to archive paths.
type Source interface {
	Jars(library string) ([]string, error)
}

// ProjectLocator finds project folders by name.
type ProjectLocator interface {
	Lookup(name string) (string, error)
}

// None is the Source used when no library definitions were supplied.
var None Source = none{}

type none struct{}

func (none) Jars(string) ([]string, error) { return nil, ErrNoLibraries }

// Registry maps user library names to archive paths.
type Registry struct {
	libraries map[string][]string
}

// JarsFor returns the archives of a library. The boolean is false when the
// library is not defined, which is different from a defined library with no
// archives.
func (r *Registry) JarsFor(library string) ([]string, bool) {
	jars, ok := r.libraries[library]
	if !ok {
		return nil, false
	}
	return append([]string(nil), jars...), true
}

// Jars implements Source.
func (r *Registry) Jars(library string) ([]string, error) {
	jars, ok := r.JarsFor(library)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLibrary, library)
	}
	return jars, nil
}

// Names returns every defined library name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.libraries))
	for name := range r.libraries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Relative returns a copy of the Registry whose archive paths are relative
// to root.
func (r *Registry) Relative(root string) (*Registry, error) {
	relative := make(map[string][]string, len(r.libraries))
	for name, jars := range r.libraries {
		rel := make([]string, 0, len(jars))
		for _, jar := range jars {
			p, err := filepath.Rel(root, jar)
			if err != nil {
				return nil, fmt.Errorf("relativize %s against %s: %w", jar, root, err)
			}
			rel = append(rel, p)
		}
		relative[name] = rel
	}
	return &Registry{libraries: relative}, nil
}

// builder accumulates libraries while a definition document is read.
type builder struct {
	fsys      billy.Filesystem
	projects  ProjectLocator
	logger    *slog.Logger
	libraries map[string][]string
}

func newBuilder(fsys billy.Filesystem, projects ProjectLocator, logger *slog.Logger) *builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &builder{
		fsys:      fsys,
		projects:  projects,
		logger:    logger,
		libraries: make(map[string][]string),
	}
}

func (b *builder) add(name string, refs []string) error {
	jars := make([]string, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		jar, err := b.resolve(ref)
		if err != nil {
			return fmt.Errorf("user library %q: %w", name, err)
		}
		if seen[jar] {
			continue
		}
		seen[jar] = true
		jars = append(jars, jar)
	}
	if _, dup := b.libraries[name]; dup {
		b.logger.Warn("User library defined twice, using the last definition.", "library", name)
	}
	b.libraries[name] = jars
	return nil
}

// resolve maps "/<project>/<path>" to a file inside the project folder.
func (b *builder) resolve(ref string) (string, error) {
	rest := strings.TrimPrefix(ref, "/")
	split := strings.IndexByte(rest, '/')
	if split <= 0 || split == len(rest)-1 {
		return "", fmt.Errorf("%w: %q", ErrInvalidArchivePath, ref)
	}
	project, inner := rest[:split], rest[split+1:]

	folder, err := b.projects.Lookup(project)
	if err != nil {
		return "", fmt.Errorf("archive %q: %w", ref, err)
	}

	jar := filepath.Join(folder, filepath.FromSlash(inner))
	info, err := b.fsys.Stat(jar)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrMissingArchive, jar)
	}
	return jar, nil
}

func (b *builder) registry() *Registry {
	return &Registry{libraries: b.libraries}
}
