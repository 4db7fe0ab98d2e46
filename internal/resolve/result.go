package resolve

// Output pairs a project with the folder its compiled classes land in.
type Output struct {
	Project string
	Folder  string
}

// Result is the resolved description of one project. It is immutable;
// accessors return copies.
type Result struct {
	name       string
	folder     string
	sources    []string
	references []string
	outputs    []Output
	archives   []string
	parents    []string
}

func newResult(name string, own *projectWalk, acc *accumulator) *Result {
	res := &Result{
		name:     name,
		outputs:  append([]Output(nil), acc.outputs...),
		archives: append([]string(nil), acc.archives...),
	}
	if own != nil {
		res.folder = own.folder
		res.sources = append([]string(nil), own.sources...)
		res.references = append([]string(nil), own.references...)
	}
	for _, out := range res.outputs {
		if out.Project == name {
			continue
		}
		res.parents = append(res.parents, out.Project)
	}
	return res
}

// Name is the project name.
func (r *Result) Name() string { return r.name }

// Folder is the project folder, with forward slashes.
func (r *Result) Folder() string { return r.folder }

// Sources are the project's own source folders, relative to Folder.
func (r *Result) Sources() []string { return clone(r.sources) }

// References are the projects this project names directly, in document order.
func (r *Result) References() []string { return clone(r.references) }

// Outputs are the output folders of every project reached, in discovery order.
func (r *Result) Outputs() []Output { return append([]Output(nil), r.outputs...) }

// OutputFolder returns the output folder recorded for project.
func (r *Result) OutputFolder(project string) (string, bool) {
	for _, out := range r.outputs {
		if out.Project == project {
			return out.Folder, true
		}
	}
	return "", false
}

// Archives are the archive files reachable from the project, without duplicates.
func (r *Result) Archives() []string { return clone(r.archives) }

// Parents are the projects whose output this project needs, in discovery order.
func (r *Result) Parents() []string { return clone(r.parents) }

func clone(s []string) []string {
	return append([]string(nil), s...)
}
