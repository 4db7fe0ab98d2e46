package workspace

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"regexp"
	"runtime"
	"sort"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

const (
	projectsPath = ".metadata/.plugins/org.eclipse.core.resources/.projects"
	locationFile = ".location"
)

// locationPattern extracts the URI Eclipse stores in a project's .location
// record. The leading separator of absolute POSIX paths is not captured.
var locationPattern = regexp.MustCompile(`\x00.URI//file:/(.+?)\x00`)

var errNoLocation = errors.New("no file URI in location record")

// FromWorkspace builds an Index from the project records of an Eclipse
// workspace. Projects without a readable .location record, or whose folder
// no longer exists, are treated as closed and skipped.
func FromWorkspace(fsys billy.Filesystem, workspaceDir string, logger *slog.Logger) (*Index, error) {
	logger = orDefault(logger)

	recordsDir := filepath.Join(workspaceDir, filepath.FromSlash(projectsPath))
	entries, err := fsys.ReadDir(recordsDir)
	if err != nil {
		return nil, fmt.Errorf("workspace %s: %w", workspaceDir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	folders := make(map[string]string)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		folder, err := locateProject(fsys, filepath.Join(recordsDir, name))
		if err != nil {
			logger.Debug("Skipping workspace project.", "project", name, "reason", err)
			continue
		}
		folders[name] = folder
	}
	logger.Debug("Workspace inspected.", "workspace", workspaceDir, "projects", len(folders))

	return newIndex(folders), nil
}

func locateProject(fsys billy.Filesystem, recordDir string) (string, error) {
	raw, err := util.ReadFile(fsys, filepath.Join(recordDir, locationFile))
	if err != nil {
		return "", fmt.Errorf("read location: %w", err)
	}
	folder, err := decodeLocation(raw, runtime.GOOS)
	if err != nil {
		return "", err
	}

	info, err := fsys.Stat(folder)
	if err != nil {
		return "", fmt.Errorf("project folder %s: %w", folder, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project folder %s: not a directory", folder)
	}
	if _, err := fsys.Stat(filepath.Join(folder, DescriptorFile)); err != nil {
		return "", fmt.Errorf("project descriptor in %s: %w", folder, err)
	}
	return folder, nil
}

// decodeLocation turns the raw bytes of a .location record into a native
// folder path.
func decodeLocation(raw []byte, goos string) (string, error) {
	m := locationPattern.FindSubmatch(raw)
	if m == nil {
		return "", errNoLocation
	}
	encoded := string(m[1])
	if goos != "windows" {
		encoded = "/" + encoded
	}
	decoded, err := url.PathUnescape(encoded)
	if err != nil {
		return "", fmt.Errorf("decode location %q: %w", encoded, err)
	}
	return filepath.Clean(filepath.FromSlash(decoded)), nil
}
