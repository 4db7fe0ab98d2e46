package resolve

// accumulator is the mutable state of one Resolve call.
type accumulator struct {
	visited map[string]struct{}

	outputs   []Output
	outputIdx map[string]int

	archives   []string
	archiveSet map[string]struct{}
}

func newAccumulator() *accumulator {
	return &accumulator{
		visited:    make(map[string]struct{}),
		outputIdx:  make(map[string]int),
		archiveSet: make(map[string]struct{}),
	}
}

// markVisited records folder and reports whether it was new.
func (a *accumulator) markVisited(folder string) bool {
	if _, ok := a.visited[folder]; ok {
		return false
	}
	a.visited[folder] = struct{}{}
	return true
}

// addOutput keeps first-insertion order; a second output entry for the same
// project replaces the folder in place.
func (a *accumulator) addOutput(project, folder string) {
	if i, ok := a.outputIdx[project]; ok {
		a.outputs[i].Folder = folder
		return
	}
	a.outputIdx[project] = len(a.outputs)
	a.outputs = append(a.outputs, Output{Project: project, Folder: folder})
}

func (a *accumulator) addArchives(jars []string) {
	for _, jar := range jars {
		if _, ok := a.archiveSet[jar]; ok {
			continue
		}
		a.archiveSet[jar] = struct{}{}
		a.archives = append(a.archives, jar)
	}
}
