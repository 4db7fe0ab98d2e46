package userlib

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
	"github.com/magiconair/properties"
)

// PreferencesPath is where a workspace keeps JDT core preferences.
const PreferencesPath = ".metadata/.plugins/org.eclipse.core.runtime/.settings/org.eclipse.jdt.core.prefs"

const preferencePrefix = "org.eclipse.jdt.core.userLibrary."

type userLibraryFragment struct {
	XMLName  xml.Name
	Archives []archiveRecord `xml:"archive"`
}

// FromWorkspace builds a Registry from the user libraries recorded in a
// workspace's JDT preferences. A library whose definition cannot be parsed
// is logged and skipped. A workspace without the preferences file defines
// no libraries.
func FromWorkspace(fsys billy.Filesystem, workspaceDir string, projects ProjectLocator, logger *slog.Logger) (*Registry, error) {
	b := newBuilder(fsys, projects, logger)

	prefsFile := filepath.Join(workspaceDir, filepath.FromSlash(PreferencesPath))
	data, err := util.ReadFile(fsys, prefsFile)
	if errors.Is(err, os.ErrNotExist) {
		b.logger.Debug("No JDT preferences in workspace.", "path", prefsFile)
		return b.registry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}

	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	props, err := loader.LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse preferences %s: %w", prefsFile, err)
	}

	for _, key := range props.Keys() {
		if !strings.HasPrefix(key, preferencePrefix) {
			continue
		}
		name := strings.TrimPrefix(key, preferencePrefix)
		value, _ := props.Get(key)

		refs, err := parseFragment(value)
		if err != nil {
			b.logger.Warn("Skipping user library.", "library", name, "error", err)
			continue
		}
		if err := b.add(name, refs); err != nil {
			return nil, err
		}
	}
	return b.registry(), nil
}

func parseFragment(value string) ([]string, error) {
	var frag userLibraryFragment
	if err := xml.Unmarshal([]byte(value), &frag); err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	if frag.XMLName.Local != "userlibrary" {
		return nil, fmt.Errorf("unexpected root element %q", frag.XMLName.Local)
	}
	return archivePaths(frag.Archives), nil
}
