package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"level", func(c *Config) { c.LogLevel = "verbose" }},
		{"format", func(c *Config) { c.LogFormat = "xml" }},
		{"cache", func(c *Config) { c.CacheSize = -1 }},
		{"output", func(c *Config) { c.Output = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestMerge_Precedence(t *testing.T) {
	file := Config{Output: "file.xml", LogLevel: "debug", Ignore: []string{"scratch"}}
	env := Config{Output: "env.xml", CacheSize: 32}
	flags := Config{LogLevel: "warn"}

	got := Default().Merge(file).Merge(env).Merge(flags)

	assert.Equal(t, "env.xml", got.Output)
	assert.Equal(t, "warn", got.LogLevel)
	assert.Equal(t, 32, got.CacheSize)
	assert.Equal(t, "projects.buildignore", got.IgnoreFile)
	assert.Equal(t, []string{"scratch"}, got.Ignore)
}

func TestLoadFile(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/repo/antgen.hcl", []byte(`
output         = "ant/build.xml"
ignore         = ["scratch", "sandbox"]
user_libraries = "eclipse.userlibraries"
log_level      = "debug"
cache_size     = 64
`), 0o644))

	cfg, err := LoadFile(fs, "/repo/antgen.hcl")
	require.NoError(t, err)
	assert.Equal(t, Config{
		Output:        "ant/build.xml",
		Ignore:        []string{"scratch", "sandbox"},
		UserLibraries: "eclipse.userlibraries",
		LogLevel:      "debug",
		CacheSize:     64,
	}, cfg)
}

func TestLoadFile_Missing(t *testing.T) {
	cfg, err := LoadFile(memfs.New(), "/repo/antgen.hcl")
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadFile_Invalid(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/a.hcl", []byte(`output = `), 0o644))
	require.NoError(t, util.WriteFile(fs, "/b.hcl", []byte(`colour = "blue"`), 0o644))

	_, err := LoadFile(fs, "/a.hcl")
	assert.ErrorIs(t, err, ErrInvalidConfig)
	_, err = LoadFile(fs, "/b.hcl")
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestFromEnv(t *testing.T) {
	env := map[string]string{
		EnvOutput:    " out.xml ",
		EnvWorkspace: "/ws",
		EnvCacheSize: "16",
	}
	cfg, err := FromEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok })
	require.NoError(t, err)
	assert.Equal(t, Config{Output: "out.xml", Workspace: "/ws", CacheSize: 16}, cfg)

	env[EnvCacheSize] = "lots"
	_, err = FromEnv(func(k string) (string, bool) { v, ok := env[k]; return v, ok })
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", "auto", &buf)

	logger.Info("hidden")
	logger.Warn("shown", "project", "core")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec), "auto on a non-terminal writer is JSON")
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "core", rec["project"])

	buf.Reset()
	NewLogger("debug", "text", &buf).Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}
