package antbuild

import _ "embed"

var (
	//go:embed templates/main.xml
	mainTemplate string
	//go:embed templates/compile.xml
	compileTemplate string
	//go:embed templates/copy.xml
	copyTemplate string
	//go:embed templates/delete.xml
	deleteTemplate string
	//go:embed templates/junit.xml
	junitTemplate string
)
