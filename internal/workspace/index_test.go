package workspace

import (
	"path/filepath"
	"testing"

	"github.com/agentic-research/antgen/internal/eclipsetest"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromRepository_FindsNestedProjects(t *testing.T) {
	repo := eclipsetest.NewRepo(t)
	repo.Project("core", eclipsetest.Src("src"))
	repo.ProjectAt("libs/shared", "shared", eclipsetest.Src("src"))
	repo.WriteFile("docs/readme.txt", "not a project")

	ix, err := FromRepository(repo.FS, repo.Root, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"core", "shared"}, ix.Names())
	folder, err := ix.Lookup("shared")
	require.NoError(t, err)
	assert.Equal(t, repo.Path("libs/shared"), folder)
}

func TestLookup_StripsLegacyPrefix(t *testing.T) {
	repo := eclipsetest.NewRepo(t)
	repo.Project("core")

	ix, err := FromRepository(repo.FS, repo.Root, nil)
	require.NoError(t, err)

	folder, err := ix.Lookup("/core")
	require.NoError(t, err)
	assert.Equal(t, repo.Path("core"), folder)
}

func TestLookup_UnknownProject(t *testing.T) {
	repo := eclipsetest.NewRepo(t)

	ix, err := FromRepository(repo.FS, repo.Root, nil)
	require.NoError(t, err)

	_, err = ix.Lookup("missing")
	assert.ErrorIs(t, err, ErrUnknownProject)
	assert.Contains(t, err.Error(), "missing")
}

func TestFromRepository_DuplicateNameKeepsSmallestPath(t *testing.T) {
	repo := eclipsetest.NewRepo(t)
	repo.ProjectAt("zeta/app", "app")
	repo.ProjectAt("alpha/app", "app")

	ix, err := FromRepository(repo.FS, repo.Root, nil)
	require.NoError(t, err)

	folder, err := ix.Lookup("app")
	require.NoError(t, err)
	assert.Equal(t, repo.Path("alpha/app"), folder)
	assert.Equal(t, 1, ix.Len())
}

func TestFromRepository_SkipsBrokenDescriptorsAndGitDir(t *testing.T) {
	repo := eclipsetest.NewRepo(t)
	repo.Project("core")
	repo.WriteFile("broken/.project", "<projectDescription><name>")
	repo.WriteFile("nameless/.project", "<projectDescription></projectDescription>")
	repo.WriteFile(".git/modules/x/.project", eclipsetest.Descriptor("hidden"))

	ix, err := FromRepository(repo.FS, repo.Root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"core"}, ix.Names())
}

func TestFromRepository_MissingRoot(t *testing.T) {
	repo := eclipsetest.NewRepo(t)

	_, err := FromRepository(repo.FS, "/nowhere", nil)
	assert.Error(t, err)
}

func TestRelative(t *testing.T) {
	repo := eclipsetest.NewRepo(t)
	repo.ProjectAt("libs/shared", "shared")

	ix, err := FromRepository(repo.FS, repo.Root, nil)
	require.NoError(t, err)

	rel, err := ix.Relative(repo.Root)
	require.NoError(t, err)
	folder, err := rel.Lookup("shared")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("libs", "shared"), folder)

	// the source index is untouched
	abs, err := ix.Lookup("shared")
	require.NoError(t, err)
	assert.Equal(t, repo.Path("libs/shared"), abs)
}

func locationRecord(uri string) []byte {
	// Mimics the binary framing Eclipse writes around the URI.
	raw := []byte{0x40, 0xb1, 0x8b, 0x81, 0x23, 0xbc, 0x00, 0x14}
	raw = append(raw, []byte("URI//file:/"+uri)...)
	raw = append(raw, 0x00, 0x00, 0x00, 0x00, 0x00)
	return raw
}

func TestDecodeLocation(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		goos string
		want string
	}{
		{"posix", locationRecord("home/dev/git/core"), "linux", "/home/dev/git/core"},
		{"escaped space", locationRecord("home/dev/my%20repo/core"), "darwin", "/home/dev/my repo/core"},
		{"windows drive", locationRecord("C:/dev/core"), "windows", filepath.Clean(filepath.FromSlash("C:/dev/core"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeLocation(tt.raw, tt.goos)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeLocation_NoURI(t *testing.T) {
	_, err := decodeLocation([]byte("garbage"), "linux")
	assert.ErrorIs(t, err, errNoLocation)
}

func TestFromWorkspace(t *testing.T) {
	repo := eclipsetest.NewRepo(t)
	repo.Project("core")
	repo.WriteFile("gone/.keep", "")

	ws := "/ws"
	records := filepath.Join(ws, filepath.FromSlash(projectsPath))
	write := func(project string, data []byte) {
		require.NoError(t, util.WriteFile(repo.FS, filepath.Join(records, project, locationFile), data, 0o644))
	}
	write("core", locationRecord("repo/core"))
	write("deleted", locationRecord("repo/deleted"))
	write("nodescriptor", locationRecord("repo/gone"))
	write("corrupt", []byte("not a location"))
	require.NoError(t, repo.FS.MkdirAll(filepath.Join(records, "closed"), 0o755))

	ix, err := FromWorkspace(repo.FS, ws, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"core"}, ix.Names())
	folder, err := ix.Lookup("core")
	require.NoError(t, err)
	assert.Equal(t, repo.Path("core"), folder)
}

func TestFromWorkspace_NotAWorkspace(t *testing.T) {
	repo := eclipsetest.NewRepo(t)

	_, err := FromWorkspace(repo.FS, repo.Root, nil)
	assert.Error(t, err)
}
