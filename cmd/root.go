// Package cmd implements the antgen command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	configPath string
	workspace  string
	logLevel   string
	logFormat  string
	cacheSize  int
}

func (o *globalOptions) register(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&o.configPath, "config", "", "Path to antgen.hcl (default <repository>/antgen.hcl)")
	f.StringVar(&o.workspace, "workspace", "", "Eclipse workspace to read projects and user libraries from")
	f.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	f.StringVar(&o.logFormat, "log-format", "", "Log format: text, json or auto")
	f.IntVar(&o.cacheSize, "cache-size", 0, "Number of parsed .classpath files kept in memory")
}

func newRootCmd() *cobra.Command {
	global := &globalOptions{}
	gen := &generateOptions{}

	root := &cobra.Command{
		Use:   "antgen <repository> [userlibraries]",
		Short: "Generate an Ant build.xml from Eclipse project metadata",
		Long: `antgen scans a repository for Eclipse projects, resolves the project and
user-library dependencies declared in every .classpath, and writes a
build.xml with one compile and one JUnit target per buildable project.`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, global, gen, args)
		},
	}
	global.register(root)
	gen.register(root)

	root.AddCommand(
		newProjectsCmd(global),
		newLibrariesCmd(global),
		newResolveCmd(global),
		newTreeCmd(global),
	)
	return root
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
