package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-research/antgen/internal/antbuild"
	"github.com/agentic-research/antgen/internal/config"
)

type generateOptions struct {
	output     string
	ignoreFile string
	dryRun     bool
}

func (o *generateOptions) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "", "Script path, relative to the repository (default build.xml)")
	f.StringVar(&o.ignoreFile, "ignore-file", "", "Projects to leave out, one per line (default projects.buildignore)")
	f.BoolVar(&o.dryRun, "dry-run", false, "Print the script instead of writing it")
}

func runGenerate(cmd *cobra.Command, global *globalOptions, opts *generateOptions, args []string) error {
	var userLibraries string
	if len(args) > 1 {
		userLibraries = args[1]
	}

	var override config.Config
	if cmd.Flags().Changed("output") {
		override.Output = opts.output
	}
	if cmd.Flags().Changed("ignore-file") {
		override.IgnoreFile = opts.ignoreFile
	}

	s, err := openSession(cmd, global, args[0], userLibraries, override)
	if err != nil {
		return err
	}

	ignored, err := antbuild.LoadIgnoreList(s.fs, s.inRepository(s.cfg.IgnoreFile))
	if err != nil {
		return err
	}
	ignored = append(ignored, s.cfg.Ignore...)

	gen := antbuild.NewGenerator(s.fs, s.root, s.index, s.resolver,
		antbuild.WithIgnore(ignored...),
		antbuild.WithOutput(s.cfg.Output),
	)

	if opts.dryRun {
		plan, err := gen.Plan(s.ctx)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), gen.Render(plan))
		return err
	}

	out, err := gen.Generate(s.ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "ANT build file written (%s)\n", out)
	return nil
}
