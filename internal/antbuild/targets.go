package antbuild

import "strings"

// CompileTargetName is the Ant target compiling project.
func CompileTargetName(project string) string {
	return "compile_" + project
}

// JUnitTargetName is the Ant target running the tests of project.
func JUnitTargetName(project string) string {
	return "junit_" + project
}

// Dependencies renders a depends attribute on the compile targets of
// projects, or "" when there are none.
func Dependencies(projects []string) string {
	if len(projects) == 0 {
		return ""
	}
	return `depends="` + strings.TrimPrefix(DependenciesSuffix(projects), ",") + `"`
}

// DependenciesSuffix lists the compile targets of projects, each preceded by
// a comma, for appending to an existing depends list.
func DependenciesSuffix(projects []string) string {
	return suffix(projects, CompileTargetName)
}

// JUnitTargetDependencies is DependenciesSuffix for JUnit targets.
func JUnitTargetDependencies(projects []string) string {
	return suffix(projects, JUnitTargetName)
}

func suffix(projects []string, target func(string) string) string {
	var b strings.Builder
	for _, p := range projects {
		b.WriteByte(',')
		b.WriteString(escape(target(p)))
	}
	return b.String()
}
