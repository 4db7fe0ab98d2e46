package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentic-research/antgen/internal/config"
)

func newProjectsCmd(global *globalOptions) *cobra.Command {
	var relative bool
	cmd := &cobra.Command{
		Use:   "projects <repository>",
		Short: "List the Eclipse projects found in a repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, global, args[0], "", config.Config{})
			if err != nil {
				return err
			}
			ix := s.index
			if relative {
				if ix, err = ix.Relative(s.root); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for _, name := range ix.Names() {
				folder, _ := ix.Lookup(name)
				fmt.Fprintf(out, "%s\t%s\n", name, folder)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&relative, "relative", false, "Print folders relative to the repository")
	return cmd
}

func newLibrariesCmd(global *globalOptions) *cobra.Command {
	var relative bool
	cmd := &cobra.Command{
		Use:   "libraries <repository> [userlibraries]",
		Short: "List user libraries and the archives they contribute",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var userLibraries string
			if len(args) > 1 {
				userLibraries = args[1]
			}
			s, err := openSession(cmd, global, args[0], userLibraries, config.Config{})
			if err != nil {
				return err
			}
			if s.registry == nil {
				return fmt.Errorf("no library definitions: pass a .userlibraries export or --workspace")
			}

			reg := s.registry
			if relative {
				if reg, err = reg.Relative(s.root); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			for _, name := range reg.Names() {
				fmt.Fprintln(out, name)
				jars, _ := reg.JarsFor(name)
				for _, jar := range jars {
					fmt.Fprintf(out, "\t%s\n", jar)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&relative, "relative", false, "Print archives relative to the repository")
	return cmd
}
