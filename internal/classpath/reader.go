package classpath

import (
	"fmt"
	"path/filepath"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of parsed documents a Reader keeps.
const DefaultCacheSize = 256

// Reader loads .classpath files and memoises the parsed entries per file.
// It is safe for concurrent use; callers must not modify returned slices.
type Reader struct {
	fs    billy.Filesystem
	cache *lru.Cache[string, []Entry]
}

// NewReader returns a Reader over fsys that keeps up to size documents.
func NewReader(fsys billy.Filesystem, size int) (*Reader, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, []Entry](size)
	if err != nil {
		return nil, fmt.Errorf("classpath cache: %w", err)
	}
	return &Reader{fs: fsys, cache: cache}, nil
}

// Read returns the entries of the .classpath file in projectFolder.
func (r *Reader) Read(projectFolder string) ([]Entry, error) {
	path := filepath.Join(projectFolder, FileName)
	if entries, ok := r.cache.Get(path); ok {
		return entries, nil
	}

	data, err := util.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedMetadata, err)
	}
	entries, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	r.cache.Add(path, entries)
	return entries, nil
}
