// Package api defines the JSON documents antgen prints.
package api

// Project is the resolved view of one Eclipse project.
type Project struct {
	// Name of the project as declared in its .project descriptor.
	Name string `json:"name"`
	// Folder holding the project's metadata.
	Folder string `json:"folder"`
	// Sources are the project's own source folders, relative to Folder.
	Sources []string `json:"sources"`
	// References are the projects named directly in .classpath.
	References []string `json:"references"`
	// Parents are every project reached through references, in discovery order.
	Parents []string `json:"parents"`
	// Outputs maps each project reached to its compiled-class folder.
	Outputs []Output `json:"outputs"`
	// Archives are the user-library archives on the compile classpath.
	Archives []string `json:"archives"`
	Targets  Targets  `json:"targets"`
}

// Output is the output folder of one project.
type Output struct {
	Project string `json:"project"`
	Folder  string `json:"folder"`
}

// Targets names the Ant targets generated for a project.
type Targets struct {
	Compile string   `json:"compile"`
	JUnit   string   `json:"junit"`
	Depends []string `json:"depends"`
}
