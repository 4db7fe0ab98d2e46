package workspace

import (
	"encoding/xml"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// skippedDirs are never descended into while scanning a repository.
var skippedDirs = map[string]bool{
	".git":      true,
	".metadata": true,
}

type projectDescription struct {
	XMLName xml.Name `xml:"projectDescription"`
	Name    string   `xml:"name"`
}

// FromRepository builds an Index by walking root for .project descriptors.
//
// When two descriptors declare the same project name, the descriptor with the
// lexicographically smallest path wins and the other is reported as a
// warning. Descriptors that cannot be parsed are skipped.
func FromRepository(fsys billy.Filesystem, root string, logger *slog.Logger) (*Index, error) {
	logger = orDefault(logger)
	root = filepath.Clean(root)

	info, err := fsys.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("repository %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("repository %s: not a directory", root)
	}

	descriptors := make(map[string]string)
	walkErr := util.Walk(fsys, root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if fi.IsDir() {
			if path != root && skippedDirs[fi.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if fi.Name() != DescriptorFile {
			return nil
		}

		name, err := readProjectName(fsys, path)
		if err != nil {
			logger.Warn("Skipping unreadable project descriptor.", "path", path, "error", err)
			return nil
		}

		prev, seen := descriptors[name]
		if !seen {
			descriptors[name] = path
			return nil
		}
		kept, dropped := prev, path
		if path < prev {
			kept, dropped = path, prev
		}
		logger.Warn("Duplicate project name, keeping the first descriptor by path.",
			"project", name, "kept", kept, "ignored", dropped)
		descriptors[name] = kept
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("scan repository %s: %w", root, walkErr)
	}

	folders := make(map[string]string, len(descriptors))
	for name, descriptor := range descriptors {
		folders[name] = filepath.Dir(descriptor)
	}
	logger.Debug("Repository scanned.", "root", root, "projects", len(folders))

	return newIndex(folders), nil
}

func readProjectName(fsys billy.Filesystem, path string) (string, error) {
	data, err := util.ReadFile(fsys, path)
	if err != nil {
		return "", err
	}
	var desc projectDescription
	if err := xml.Unmarshal(data, &desc); err != nil {
		return "", fmt.Errorf("parse %s: %w", path, err)
	}
	name := strings.TrimSpace(desc.Name)
	if name == "" {
		return "", errors.New("project descriptor declares no name")
	}
	return name, nil
}
