// Package eclipsetest builds in-memory Eclipse repositories for tests.
package eclipsetest

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"
)

// Root is the folder every in-memory repository lives under.
const Root = "/repo"

// Repo is an in-memory repository of Eclipse projects.
type Repo struct {
	t    testing.TB
	FS   billy.Filesystem
	Root string
}

// NewRepo returns an empty repository backed by memfs.
func NewRepo(t testing.TB) *Repo {
	t.Helper()
	fs := memfs.New()
	require.NoError(t, fs.MkdirAll(Root, 0o755))
	return &Repo{t: t, FS: fs, Root: Root}
}

// Path joins rel onto the repository root.
func (r *Repo) Path(rel string) string {
	return filepath.Join(r.Root, filepath.FromSlash(rel))
}

// WriteFile writes content to a path relative to the repository root.
func (r *Repo) WriteFile(rel, content string) {
	r.t.Helper()
	require.NoError(r.t, util.WriteFile(r.FS, r.Path(rel), []byte(content), 0o644))
}

// Project creates <root>/<name> with a descriptor and a .classpath holding
// the given entries. It returns the project folder.
func (r *Repo) Project(name string, entries ...string) string {
	r.t.Helper()
	return r.ProjectAt(name, name, entries...)
}

// ProjectAt is Project with an explicit folder, relative to the root.
func (r *Repo) ProjectAt(dir, name string, entries ...string) string {
	r.t.Helper()
	r.WriteFile(dir+"/.project", Descriptor(name))
	r.WriteFile(dir+"/.classpath", Classpath(entries...))
	return r.Path(dir)
}

// Descriptor renders a minimal .project file.
func Descriptor(name string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<projectDescription>
	<name>%s</name>
	<comment></comment>
	<projects></projects>
</projectDescription>
`, name)
}

// Classpath renders a .classpath document from entry lines.
func Classpath(entries ...string) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<classpath>\n")
	for _, e := range entries {
		b.WriteString("\t")
		b.WriteString(e)
		b.WriteString("\n")
	}
	b.WriteString("</classpath>\n")
	return b.String()
}

// Src is a local source folder entry.
func Src(path string) string {
	return fmt.Sprintf(`<classpathentry kind="src" path="%s"/>`, path)
}

// Ref is a project reference in the modern form.
func Ref(project string) string {
	return fmt.Sprintf(`<classpathentry combineaccessrules="false" kind="src" path="/%s"/>`, project)
}

// LegacyRef is a project reference without an access-rule marker.
func LegacyRef(project string) string {
	return fmt.Sprintf(`<classpathentry kind="src" path="/%s"/>`, project)
}

// Out is an output folder entry.
func Out(path string) string {
	return fmt.Sprintf(`<classpathentry kind="output" path="%s"/>`, path)
}

// Con is a container entry.
func Con(path string) string {
	return fmt.Sprintf(`<classpathentry kind="con" path="%s"/>`, path)
}

// JRE is the platform runtime container.
func JRE() string {
	return Con("org.eclipse.jdt.launching.JRE_CONTAINER/org.eclipse.jdt.internal.debug.ui.launcher.StandardVMType/JavaSE-1.8")
}

// UserLib references a user library container.
func UserLib(name string) string {
	return Con("org.eclipse.jdt.USER_LIBRARY/" + name)
}

// UserLibraries renders an exported .userlibraries document. Each library
// is given as name followed by its archive paths.
func UserLibraries(libs ...[]string) string {
	var b strings.Builder
	b.WriteString("<?xml version=\"1.0\" encoding=\"UTF-8\" standalone=\"no\"?>\n<eclipse-userlibraries version=\"2\">\n")
	for _, lib := range libs {
		fmt.Fprintf(&b, "\t<library name=\"%s\" systemlibrary=\"false\">\n", lib[0])
		for _, archive := range lib[1:] {
			fmt.Fprintf(&b, "\t\t<archive path=\"%s\"/>\n", archive)
		}
		b.WriteString("\t</library>\n")
	}
	b.WriteString("</eclipse-userlibraries>\n")
	return b.String()
}
