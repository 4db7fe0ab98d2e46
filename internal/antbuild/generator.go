// Package antbuild renders an Ant build script for every buildable project
// of a repository.
package antbuild

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/agentic-research/antgen/internal/classpath"
	"github.com/agentic-research/antgen/internal/ctxlog"
	"github.com/agentic-research/antgen/internal/resolve"
	"github.com/agentic-research/antgen/internal/subst"
	"github.com/agentic-research/antgen/internal/workspace"
)

// DefaultOutput is the script file name, relative to the repository root.
const DefaultOutput = "build.xml"

const (
	jarFolder    = "jars"
	reportFolder = "reports"
)

// ProjectLister enumerates project names.
type ProjectLister interface {
	Names() []string
}

// ProjectResolver resolves one project.
type ProjectResolver interface {
	Resolve(name string) (*resolve.Result, error)
}

// Skip records a project left out of the script.
type Skip struct {
	Project string
	Reason  string
}

// Plan is the set of projects that get targets, in script order.
type Plan struct {
	Projects []*resolve.Result
	Skipped  []Skip
}

// Names returns the planned project names.
func (p *Plan) Names() []string {
	names := make([]string, len(p.Projects))
	for i, res := range p.Projects {
		names[i] = res.Name()
	}
	return names
}

// Generator drives resolution over a repository and renders the script.
type Generator struct {
	fs       billy.Filesystem
	root     string
	projects ProjectLister
	resolver ProjectResolver
	ignore   map[string]struct{}
	output   string
}

// Option configures a Generator.
type Option func(*Generator)

// WithIgnore leaves the named projects out of the script.
func WithIgnore(names ...string) Option {
	return func(g *Generator) {
		for _, n := range names {
			g.ignore[workspace.NormalizeName(n)] = struct{}{}
		}
	}
}

// WithOutput sets the script path. Relative paths are taken from the
// repository root.
func WithOutput(p string) Option {
	return func(g *Generator) {
		if p != "" {
			g.output = p
		}
	}
}

// NewGenerator returns a Generator for the repository at root.
func NewGenerator(fsys billy.Filesystem, root string, projects ProjectLister, resolver ProjectResolver, opts ...Option) *Generator {
	g := &Generator{
		fs:       fsys,
		root:     root,
		projects: projects,
		resolver: resolver,
		ignore:   make(map[string]struct{}),
		output:   DefaultOutput,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// OutputPath is where Write puts the script.
func (g *Generator) OutputPath() string {
	if filepath.IsAbs(g.output) {
		return g.output
	}
	return filepath.Join(g.root, g.output)
}

// Plan resolves every indexed project, in name order, and keeps those that
// can be built.
func (g *Generator) Plan(ctx context.Context) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)
	plan := &Plan{}

	skip := func(name, reason string, args ...any) {
		logger.Info("Skipping project.", append([]any{"project", name, "reason", reason}, args...)...)
		plan.Skipped = append(plan.Skipped, Skip{Project: name, Reason: reason})
	}

	for _, name := range g.projects.Names() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res, err := g.resolver.Resolve(name)
		switch {
		case errors.Is(err, workspace.ErrUnknownProject), errors.Is(err, classpath.ErrMalformedMetadata):
			skip(name, "could not get classpath information", "error", err)
			continue
		case err != nil:
			return nil, err
		}

		if len(res.Sources()) == 0 {
			skip(name, "no source folder found")
			continue
		}
		if _, ok := g.ignore[name]; ok {
			skip(name, "it is in ignore list")
			continue
		}
		plan.Projects = append(plan.Projects, res)
	}

	planned := make(map[string]struct{}, len(plan.Projects))
	for _, res := range plan.Projects {
		planned[res.Name()] = struct{}{}
	}
	for _, res := range plan.Projects {
		for _, parent := range res.Parents() {
			if _, ok := planned[parent]; !ok {
				logger.Warn("Parent project has no target.", "project", res.Name(), "parent", parent)
			}
		}
	}
	return plan, nil
}

// Render produces the script for plan.
func (g *Generator) Render(plan *Plan) string {
	names := plan.Names()

	var clean, compile, junit strings.Builder
	for _, res := range plan.Projects {
		clean.WriteString(DeleteTask(binFolder(res, res.Name())))
		compile.WriteString(g.compileTarget(res))
		compile.WriteByte('\n')
		junit.WriteString(g.junitTarget(res))
		junit.WriteByte('\n')
	}

	return subst.New(mainTemplate).
		Replace("<CLEAN>", clean.String()).
		Replace("<ALL_COMPILE_TARGETS>", DependenciesSuffix(names)).
		Replace("<ALL_JUNIT_TARGETS>", JUnitTargetDependencies(names)).
		Replace("<COMPILE_TARGETS>", compile.String()).
		Replace("<JUNIT_TARGETS>", junit.String()).
		String()
}

// Generate plans, renders and writes the script, returning its path.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	plan, err := g.Plan(ctx)
	if err != nil {
		return "", err
	}
	out := g.OutputPath()
	if err := util.WriteFile(g.fs, out, []byte(g.Render(plan)), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	return out, nil
}

func (g *Generator) compileTarget(res *resolve.Result) string {
	bin := binFolder(res, res.Name())
	return subst.New(compileTemplate).
		ReplaceAll(
			"<COMPILE_TARGET_NAME>", escape(CompileTargetName(res.Name())),
			"<PROJECT_DEPENDENCIES>", Dependencies(res.Parents()),
			"<OUTPUT_JAR_FILE>", escape(g.outputJar(res.Name())),
			"<FILESET>", lines(classpathIndent, classpathFragments(res)),
			"<PROJECT_NAME>", escape(res.Name()),
			"<BIN_FOLDER>", escape(bin),
			"<SOURCE_PATH>", lines(sourceIndent, sourcePaths(res)),
			"<COPY_TASK>", CopyTask(bin, sourceFolders(res)),
		).
		String()
}

func (g *Generator) junitTarget(res *resolve.Result) string {
	return subst.New(junitTemplate).
		ReplaceAll(
			"<JUNIT_TARGET_NAME>", escape(JUnitTargetName(res.Name())),
			"<PROJECT_NAME>", escape(res.Name()),
			"<TESTS_FOLDER>", escape(res.Folder()),
			"<FILESET>", lines(junitIndent, classpathFragments(res)),
			"<BIN_FOLDER>", escape(binFolder(res, res.Name())),
			"<SOURCE_FOLDERS>", JUnitSources(sourceFolders(res)),
			"<REPORT_DIR>", escape(slash(filepath.Join(g.root, reportFolder))),
		).
		String()
}

func (g *Generator) outputJar(project string) string {
	return slash(filepath.Join(g.root, jarFolder, project+".jar"))
}

// binFolder is the output folder recorded for project, or its bin folder
// when the metadata names none.
func binFolder(res *resolve.Result, project string) string {
	if out, ok := res.OutputFolder(project); ok {
		return out
	}
	if project == res.Name() {
		return path.Join(res.Folder(), "bin")
	}
	return ""
}

// classpathFragments lists the archives of res followed by the output
// folders of its parents.
func classpathFragments(res *resolve.Result) []string {
	var frags []string
	for _, jar := range res.Archives() {
		frags = append(frags, ZipFileset(jar))
	}
	for _, parent := range res.Parents() {
		frags = append(frags, PathElement(binFolder(res, parent)))
	}
	return frags
}

func sourceFolders(res *resolve.Result) []string {
	folders := make([]string, 0, len(res.Sources()))
	for _, src := range res.Sources() {
		folders = append(folders, path.Join(res.Folder(), slash(src)))
	}
	return folders
}

func sourcePaths(res *resolve.Result) []string {
	var paths []string
	for _, folder := range sourceFolders(res) {
		paths = append(paths, SourcePath(folder))
	}
	return paths
}
