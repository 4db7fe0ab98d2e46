package antbuild

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// DefaultIgnoreFile is the ignore list looked up when none is configured.
const DefaultIgnoreFile = "projects.buildignore"

// LoadIgnoreList reads project names to leave out of the script. A missing
// file yields an empty list.
func LoadIgnoreList(fsys billy.Filesystem, path string) ([]string, error) {
	data, err := util.ReadFile(fsys, path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ignore list %s: %w", path, err)
	}
	return ParseIgnoreList(data)
}

// ParseIgnoreList returns one name per non-blank line, skipping lines that
// start with '#'.
func ParseIgnoreList(data []byte) ([]string, error) {
	var names []string
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("ignore list: %w", err)
	}
	return names, nil
}
