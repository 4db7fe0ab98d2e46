package antbuild

import (
	"context"
	"encoding/xml"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/antgen/internal/classpath"
	"github.com/agentic-research/antgen/internal/eclipsetest"
	"github.com/agentic-research/antgen/internal/resolve"
	"github.com/agentic-research/antgen/internal/userlib"
	"github.com/agentic-research/antgen/internal/workspace"
)

func sampleRepo(t *testing.T) (*eclipsetest.Repo, *Generator) {
	t.Helper()
	repo := eclipsetest.NewRepo(t)
	repo.Project("core",
		eclipsetest.Src("src"),
		eclipsetest.Src("test"),
		eclipsetest.Ref("shared"),
		eclipsetest.UserLib("utils-lib"),
		eclipsetest.JRE(),
		eclipsetest.Out("bin"),
	)
	repo.Project("shared", eclipsetest.Src("src"), eclipsetest.Out("bin"))
	repo.Project("thirdparty", eclipsetest.Out("bin"))
	repo.Project("scratch", eclipsetest.Src("src"), eclipsetest.Out("bin"))
	repo.Project("broken")
	repo.WriteFile("broken/.classpath", "<classpath>")
	repo.WriteFile("thirdparty/lib/utils.jar", "jar")
	repo.WriteFile("eclipse.userlibraries", eclipsetest.UserLibraries(
		[]string{"utils-lib", "/thirdparty/lib/utils.jar"},
	))

	ix, err := workspace.FromRepository(repo.FS, repo.Root, nil)
	require.NoError(t, err)
	reg, err := userlib.FromExport(repo.FS, repo.Path("eclipse.userlibraries"), ix, nil)
	require.NoError(t, err)
	reader, err := classpath.NewReader(repo.FS, 0)
	require.NoError(t, err)

	rv := resolve.New(ix, reader, resolve.WithLibraries(reg))
	return repo, NewGenerator(repo.FS, repo.Root, ix, rv, WithIgnore("scratch"))
}

func TestPlan(t *testing.T) {
	_, g := sampleRepo(t)

	plan, err := g.Plan(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"core", "shared"}, plan.Names())
	assert.Equal(t, []Skip{
		{Project: "broken", Reason: "could not get classpath information"},
		{Project: "scratch", Reason: "it is in ignore list"},
		{Project: "thirdparty", Reason: "no source folder found"},
	}, plan.Skipped)
}

func TestPlan_Cancelled(t *testing.T) {
	_, g := sampleRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Plan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerate(t *testing.T) {
	repo, g := sampleRepo(t)

	out, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, repo.Path("build.xml"), out)

	data, err := util.ReadFile(repo.FS, out)
	require.NoError(t, err)
	script := string(data)

	assert.NoError(t, xml.Unmarshal(data, new(struct{ XMLName xml.Name })), "script must be well-formed")

	for _, want := range []string{
		`<target name="compile" depends="clean,compile_core,compile_shared"/>`,
		`<target name="junit" depends="compile,junit_core,junit_shared"/>`,
		`<target name="compile_core" depends="compile_shared">`,
		`<target name="compile_shared" >`,
		`<target name="junit_core">`,
		`<delete dir="/repo/core/bin"/>`,
		`<delete dir="/repo/shared/bin"/>`,
		`<zipfileset dir="/repo/thirdparty/lib" includes="utils.jar" />`,
		`<pathelement location="/repo/shared/bin"/>`,
		`<src path="/repo/core/src"/>`,
		`<src path="/repo/core/test"/>`,
		`<fileset dir="/repo/core/test" excludes="**/*.java"/>`,
		`<fileset dir="/repo/core/src">`,
		`<include name="**/*Tests.java" />`,
		`<jar destfile="/repo/jars/core.jar" basedir="/repo/core/bin"/>`,
		`<batchtest todir="/repo/reports">`,
	} {
		assert.Contains(t, script, want)
	}

	assert.NotContains(t, script, "compile_scratch")
	assert.NotContains(t, script, "compile_thirdparty")
	assert.NotContains(t, script, "<CLEAN>")
	assert.Equal(t, 1, strings.Count(script, `<target name="compile_core"`))
}

func TestGenerate_NothingToBuild(t *testing.T) {
	repo := eclipsetest.NewRepo(t)
	repo.Project("lonely", eclipsetest.Out("bin"))
	ix, err := workspace.FromRepository(repo.FS, repo.Root, nil)
	require.NoError(t, err)
	reader, err := classpath.NewReader(repo.FS, 0)
	require.NoError(t, err)

	g := NewGenerator(repo.FS, repo.Root, ix, resolve.New(ix, reader), WithOutput("out/antbuild.xml"))
	out, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, repo.Path("out/antbuild.xml"), out)

	data, err := util.ReadFile(repo.FS, out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<target name="compile" depends="clean"/>`)
	assert.Contains(t, string(data), `<target name="junit" depends="compile"/>`)
}

func TestRender_EscapesValues(t *testing.T) {
	repo := eclipsetest.NewRepo(t)
	repo.ProjectAt("r&d", "rd", eclipsetest.Src("src"), eclipsetest.Out("bin"))
	ix, err := workspace.FromRepository(repo.FS, repo.Root, nil)
	require.NoError(t, err)
	reader, err := classpath.NewReader(repo.FS, 0)
	require.NoError(t, err)

	g := NewGenerator(repo.FS, repo.Root, ix, resolve.New(ix, reader))
	plan, err := g.Plan(context.Background())
	require.NoError(t, err)
	script := g.Render(plan)

	assert.Contains(t, script, `<delete dir="/repo/r&amp;d/bin"/>`)
	assert.NoError(t, xml.Unmarshal([]byte(script), new(struct{ XMLName xml.Name })))
}
