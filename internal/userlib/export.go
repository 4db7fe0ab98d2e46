package userlib

import (
	"encoding/xml"
	"fmt"
	"log/slog"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

type exportDocument struct {
	XMLName   xml.Name        `xml:"eclipse-userlibraries"`
	Libraries []exportLibrary `xml:"library"`
}

type exportLibrary struct {
	Name     string          `xml:"name,attr"`
	Archives []archiveRecord `xml:"archive"`
}

type archiveRecord struct {
	Path string `xml:"path,attr"`
}

// FromExport builds a Registry from a .userlibraries file exported by
// Eclipse (Preferences > Java > Build Path > User Libraries > Export).
func FromExport(fsys billy.Filesystem, path string, projects ProjectLocator, logger *slog.Logger) (*Registry, error) {
	data, err := util.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read user libraries: %w", err)
	}

	var doc exportDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse user libraries %s: %w", path, err)
	}

	b := newBuilder(fsys, projects, logger)
	for _, lib := range doc.Libraries {
		if lib.Name == "" {
			return nil, fmt.Errorf("parse user libraries %s: library without a name", path)
		}
		if err := b.add(lib.Name, archivePaths(lib.Archives)); err != nil {
			return nil, err
		}
	}
	return b.registry(), nil
}

func archivePaths(records []archiveRecord) []string {
	paths := make([]string, 0, len(records))
	for _, r := range records {
		paths = append(paths, r.Path)
	}
	return paths
}
