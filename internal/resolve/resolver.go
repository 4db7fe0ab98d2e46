// Package resolve computes the build inputs of an Eclipse project.
//
// Resolve walks the .classpath of the requested project and, depth first,
// of every project it references. The walk collects the requested project's
// own source folders, every archive contributed by user libraries, and the
// output folder of each project reached. State for one request lives in an
// accumulator owned by that call, so a Resolver can serve concurrent
// requests as long as its Index, Registry and metadata reader can.
package resolve

import (
	"errors"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"

	"github.com/agentic-research/antgen/internal/classpath"
	"github.com/agentic-research/antgen/internal/userlib"
	"github.com/agentic-research/antgen/internal/workspace"
)

// ErrUnsupportedEntry describes classpath entries the resolver skips. It is
// reported in diagnostics, never returned.
var ErrUnsupportedEntry = errors.New("unsupported classpath entry")

const userLibraryPrefix = "org.eclipse.jdt.USER_LIBRARY/"

// platformContainers are provided by the build environment and contribute
// nothing to the generated script.
var platformContainers = map[string]bool{
	"org.eclipse.jdt.launching.JRE_CONTAINER": true,
	"org.eclipse.jdt.junit.JUNIT_CONTAINER":   true,
}

// ProjectLocator finds project folders by name.
type ProjectLocator interface {
	Lookup(name string) (string, error)
}

// MetadataReader returns the classpath entries of a project folder.
type MetadataReader interface {
	Read(projectFolder string) ([]classpath.Entry, error)
}

// Resolver resolves projects against a fixed Index and library Source.
type Resolver struct {
	projects  ProjectLocator
	metadata  MetadataReader
	libraries userlib.Source
	logger    *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLibraries sets the user library Source. The default is userlib.None.
func WithLibraries(src userlib.Source) Option {
	return func(r *Resolver) {
		if src != nil {
			r.libraries = src
		}
	}
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New returns a Resolver.
func New(projects ProjectLocator, metadata MetadataReader, opts ...Option) *Resolver {
	r := &Resolver{
		projects:  projects,
		metadata:  metadata,
		libraries: userlib.None,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve computes the build inputs of the named project. It fails with
// workspace.ErrUnknownProject when the project, or a project it references,
// is not indexed, and with classpath.ErrMalformedMetadata when a .classpath
// on the walk is missing or unparsable.
func (r *Resolver) Resolve(name string) (*Result, error) {
	acc := newAccumulator()
	own, err := r.walk(name, acc)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", workspace.NormalizeName(name), err)
	}
	return newResult(workspace.NormalizeName(name), own, acc), nil
}

// projectWalk is what a single project contributes besides the accumulator.
type projectWalk struct {
	folder     string
	sources    []string
	references []string
}

func (r *Resolver) walk(name string, acc *accumulator) (*projectWalk, error) {
	folder, err := r.projects.Lookup(name)
	if err != nil {
		return nil, err
	}
	folder = canonical(folder)

	// Marked before parsing, so a reference back to this project stops here.
	if !acc.markVisited(folder) {
		return nil, nil
	}

	entries, err := r.metadata.Read(filepath.FromSlash(folder))
	if err != nil {
		return nil, err
	}

	project := workspace.NormalizeName(name)
	pw := &projectWalk{folder: folder}
	for _, e := range entries {
		switch e.Kind {
		case classpath.KindContainer:
			r.container(project, e, acc)

		case classpath.KindSource:
			switch {
			case !e.HasAccessRules && !strings.HasPrefix(e.Path, "/"):
				pw.sources = append(pw.sources, e.Path)
			case e.HasAccessRules && e.AccessRules == "true":
				r.unsupported(project, e, "combineaccessrules=\"true\" on a source entry")
			default:
				ref := workspace.NormalizeName(e.Path)
				pw.references = append(pw.references, ref)
				if _, err := r.walk(ref, acc); err != nil {
					return nil, err
				}
			}

		case classpath.KindOutput:
			acc.addOutput(project, path.Join(folder, filepath.ToSlash(e.Path)))

		case classpath.KindLibrary, classpath.KindVariable:
			r.unsupported(project, e, "entry kind not handled")

		default:
			r.logger.Warn("Entry not parsed.", "project", project, "element", e.Element, "kind", e.RawKind, "path", e.Path)
		}
	}
	return pw, nil
}

func (r *Resolver) container(project string, e classpath.Entry, acc *accumulator) {
	id, _, _ := strings.Cut(e.Path, "/")
	if platformContainers[id] {
		r.logger.Debug("Ignoring platform container.", "project", project, "path", e.Path)
		return
	}

	if lib, ok := strings.CutPrefix(e.Path, userLibraryPrefix); ok {
		jars, err := r.libraries.Jars(lib)
		if err != nil {
			r.logger.Warn("Skipping user library.", "project", project, "library", lib, "error", err)
			return
		}
		acc.addArchives(jars)
		return
	}

	r.unsupported(project, e, "unknown container")
}

func (r *Resolver) unsupported(project string, e classpath.Entry, reason string) {
	r.logger.Warn("Skipping classpath entry.",
		"project", project, "kind", e.RawKind, "path", e.Path,
		"error", fmt.Errorf("%w: %s", ErrUnsupportedEntry, reason))
}

// canonical gives project folders one spelling regardless of platform so
// the visited set compares equal paths equally.
func canonical(folder string) string {
	return filepath.ToSlash(filepath.Clean(folder))
}
