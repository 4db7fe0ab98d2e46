package antbuild

import (
	"encoding/xml"
	"path"
	"path/filepath"
	"strings"

	"github.com/agentic-research/antgen/internal/subst"
)

const (
	classpathIndent = "\t\t\t"
	sourceIndent    = "\t\t\t"
	junitIndent     = "\t\t\t\t"
)

// PathElement references a folder of compiled classes.
func PathElement(location string) string {
	return `<pathelement location="` + escape(slash(location)) + `"/>`
}

// ZipFileset references a single archive by its folder and file name.
func ZipFileset(archive string) string {
	archive = slash(archive)
	return `<zipfileset dir="` + escape(path.Dir(archive)) + `" includes="` + escape(path.Base(archive)) + `" />`
}

// SourcePath is a javac source folder.
func SourcePath(folder string) string {
	return `<src path="` + escape(slash(folder)) + `"/>`
}

// CopyTask copies the non-Java resources of every source folder into bin.
func CopyTask(bin string, sourceFolders []string) string {
	var b strings.Builder
	for _, src := range sourceFolders {
		b.WriteString(subst.New(copyTemplate).
			Replace("<BIN_FOLDER>", escape(slash(bin))).
			Replace("<RESOURCE_FOLDER>", escape(slash(src))).
			String())
	}
	return b.String()
}

// DeleteTask removes folder.
func DeleteTask(folder string) string {
	return subst.New(deleteTemplate).Replace("<FOLDER>", escape(slash(folder))).String()
}

// JUnitSources selects the test classes of every source folder.
func JUnitSources(sourceFolders []string) string {
	var b strings.Builder
	for _, src := range sourceFolders {
		b.WriteString(junitIndent + `<fileset dir="` + escape(slash(src)) + "\">\n")
		b.WriteString(junitIndent + "\t<include name=\"**/*Test.java\" />\n")
		b.WriteString(junitIndent + "\t<include name=\"**/*Tests.java\" />\n")
		b.WriteString(junitIndent + "</fileset>\n")
	}
	return b.String()
}

// lines renders one fragment per line with a common indent.
func lines(indent string, fragments []string) string {
	var b strings.Builder
	for _, f := range fragments {
		b.WriteString(indent)
		b.WriteString(f)
		b.WriteByte('\n')
	}
	return b.String()
}

func slash(p string) string {
	return filepath.ToSlash(p)
}

// escape makes s safe inside a double-quoted attribute.
func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
