package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agentic-research/antgen/internal/classpath"
	"github.com/agentic-research/antgen/internal/config"
	"github.com/agentic-research/antgen/internal/ctxlog"
	"github.com/agentic-research/antgen/internal/resolve"
	"github.com/agentic-research/antgen/internal/userlib"
	"github.com/agentic-research/antgen/internal/workspace"
)

// session is everything a command needs to talk about one repository.
type session struct {
	ctx      context.Context
	fs       billy.Filesystem
	root     string
	cfg      config.Config
	index    *workspace.Index
	registry *userlib.Registry // nil when no library definitions were given
	resolver *resolve.Resolver
}

// openSession loads configuration, the project index and, when available,
// the user library registry. userLibraries overrides the configured export.
func openSession(cmd *cobra.Command, global *globalOptions, repository, userLibraries string, override config.Config) (*session, error) {
	root, err := filepath.Abs(repository)
	if err != nil {
		return nil, fmt.Errorf("repository %s: %w", repository, err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("repository %s is not a folder", repository)
	}

	fsys := osfs.New("/")
	cfg, err := loadConfig(cmd, fsys, global, root, override)
	if err != nil {
		return nil, err
	}
	if userLibraries != "" {
		cfg.UserLibraries = userLibraries
	}

	logger := config.NewLogger(cfg.LogLevel, cfg.LogFormat, cmd.ErrOrStderr())
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = ctxlog.WithLogger(ctx, logger)

	s := &session{ctx: ctx, fs: fsys, root: root, cfg: cfg}

	if cfg.Workspace != "" {
		ws, err := filepath.Abs(cfg.Workspace)
		if err != nil {
			return nil, fmt.Errorf("workspace %s: %w", cfg.Workspace, err)
		}
		if s.index, err = workspace.FromWorkspace(fsys, ws, logger); err != nil {
			return nil, err
		}
		if cfg.UserLibraries == "" {
			if s.registry, err = userlib.FromWorkspace(fsys, ws, s.index, logger); err != nil {
				return nil, err
			}
		}
	} else if s.index, err = workspace.FromRepository(fsys, root, logger); err != nil {
		return nil, err
	}

	if cfg.UserLibraries != "" {
		path, err := filepath.Abs(cfg.UserLibraries)
		if err != nil {
			return nil, fmt.Errorf("user libraries %s: %w", cfg.UserLibraries, err)
		}
		if s.registry, err = userlib.FromExport(fsys, path, s.index, logger); err != nil {
			return nil, err
		}
	}

	reader, err := classpath.NewReader(fsys, cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	opts := []resolve.Option{resolve.WithLogger(logger)}
	if s.registry != nil {
		opts = append(opts, resolve.WithLibraries(s.registry))
	}
	s.resolver = resolve.New(s.index, reader, opts...)

	logger.Debug("Session ready.", "repository", root, "projects", s.index.Len(), "libraries", s.registry != nil)
	return s, nil
}

// loadConfig layers defaults, the config file, the environment and the
// flags that were set on the command line.
func loadConfig(cmd *cobra.Command, fsys billy.Filesystem, global *globalOptions, root string, override config.Config) (config.Config, error) {
	cfg := config.Default()

	path := global.configPath
	if path == "" {
		path = filepath.Join(root, config.FileName)
	} else {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		// Only the default file may be absent.
		if _, err := fsys.Stat(path); err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	fromFile, err := config.LoadFile(fsys, path)
	if err != nil {
		return cfg, err
	}
	cfg = cfg.Merge(fromFile)

	// A missing .env is not an error.
	_ = godotenv.Load()
	fromEnv, err := config.FromEnv(os.LookupEnv)
	if err != nil {
		return cfg, err
	}
	cfg = cfg.Merge(fromEnv)

	flags := cmd.Flags()
	var fromFlags config.Config
	if flags.Changed("workspace") {
		fromFlags.Workspace = global.workspace
	}
	if flags.Changed("log-level") {
		fromFlags.LogLevel = global.logLevel
	}
	if flags.Changed("log-format") {
		fromFlags.LogFormat = global.logFormat
	}
	if flags.Changed("cache-size") {
		fromFlags.CacheSize = global.cacheSize
	}
	cfg = cfg.Merge(fromFlags).Merge(override)

	return cfg, cfg.Validate()
}

// inRepository resolves p against the repository root unless it is absolute.
func (s *session) inRepository(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(s.root, p)
}
