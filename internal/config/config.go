// Package config assembles antgen settings from defaults, an antgen.hcl
// file, the environment and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// FileName is the config file looked up at the repository root.
const FileName = "antgen.hcl"

// ErrInvalidConfig is returned by Validate and by the loaders.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every setting of a run.
type Config struct {
	Output        string   `hcl:"output,optional"`
	IgnoreFile    string   `hcl:"ignore_file,optional"`
	Ignore        []string `hcl:"ignore,optional"`
	UserLibraries string   `hcl:"user_libraries,optional"`
	Workspace     string   `hcl:"workspace,optional"`
	LogLevel      string   `hcl:"log_level,optional"`
	LogFormat     string   `hcl:"log_format,optional"`
	CacheSize     int      `hcl:"cache_size,optional"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Output:     "build.xml",
		IgnoreFile: "projects.buildignore",
		LogLevel:   "info",
		LogFormat:  "auto",
		CacheSize:  256,
	}
}

// Merge returns c with every non-zero field of over applied on top.
func (c Config) Merge(over Config) Config {
	if over.Output != "" {
		c.Output = over.Output
	}
	if over.IgnoreFile != "" {
		c.IgnoreFile = over.IgnoreFile
	}
	if len(over.Ignore) > 0 {
		c.Ignore = append([]string(nil), over.Ignore...)
	}
	if over.UserLibraries != "" {
		c.UserLibraries = over.UserLibraries
	}
	if over.Workspace != "" {
		c.Workspace = over.Workspace
	}
	if over.LogLevel != "" {
		c.LogLevel = over.LogLevel
	}
	if over.LogFormat != "" {
		c.LogFormat = over.LogFormat
	}
	if over.CacheSize != 0 {
		c.CacheSize = over.CacheSize
	}
	return c
}

// Validate rejects settings the run cannot use.
func (c Config) Validate() error {
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json", "auto":
	default:
		return fmt.Errorf("%w: log format %q (want text, json or auto)", ErrInvalidConfig, c.LogFormat)
	}
	if c.CacheSize <= 0 {
		return fmt.Errorf("%w: cache size must be positive, got %d", ErrInvalidConfig, c.CacheSize)
	}
	if c.Output == "" {
		return fmt.Errorf("%w: output path is empty", ErrInvalidConfig)
	}
	return nil
}

// LoadFile decodes an antgen.hcl file. A missing file yields a zero Config.
func LoadFile(fsys billy.Filesystem, path string) (Config, error) {
	var cfg Config

	src, err := util.ReadFile(fsys, path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	file, diags := hclparse.NewParser().ParseHCL(src, path)
	if diags.HasErrors() {
		return cfg, fmt.Errorf("%w: parse %s: %w", ErrInvalidConfig, path, diags)
	}
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return cfg, fmt.Errorf("%w: decode %s: %w", ErrInvalidConfig, path, diags)
	}
	return cfg, nil
}

// Env variable names.
const (
	EnvOutput        = "ANTGEN_OUTPUT"
	EnvIgnoreFile    = "ANTGEN_IGNORE_FILE"
	EnvUserLibraries = "ANTGEN_USER_LIBRARIES"
	EnvWorkspace     = "ANTGEN_WORKSPACE"
	EnvLogLevel      = "ANTGEN_LOG_LEVEL"
	EnvLogFormat     = "ANTGEN_LOG_FORMAT"
	EnvCacheSize     = "ANTGEN_CACHE_SIZE"
)

// FromEnv reads settings through lookup, usually os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg := Config{
		Output:        get(EnvOutput),
		IgnoreFile:    get(EnvIgnoreFile),
		UserLibraries: get(EnvUserLibraries),
		Workspace:     get(EnvWorkspace),
		LogLevel:      get(EnvLogLevel),
		LogFormat:     get(EnvLogFormat),
	}
	if raw := get(EnvCacheSize); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s=%q: %w", ErrInvalidConfig, EnvCacheSize, raw, err)
		}
		cfg.CacheSize = n
	}
	return cfg, nil
}
