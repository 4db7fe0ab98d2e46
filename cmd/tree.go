package cmd

import (
	"fmt"

	"github.com/disiqueira/gotree/v3"
	"github.com/spf13/cobra"

	"github.com/agentic-research/antgen/internal/config"
	"github.com/agentic-research/antgen/internal/resolve"
)

const (
	cycleMark  = " (cycle)"
	repeatMark = " (*)"
)

func newTreeCmd(global *globalOptions) *cobra.Command {
	var userLibraries string
	cmd := &cobra.Command{
		Use:   "tree <repository> <project>",
		Short: "Draw the project reference tree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, global, args[0], userLibraries, config.Config{})
			if err != nil {
				return err
			}
			tree, err := referenceTree(s.resolver, args[1])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), tree.Print())
			return err
		},
	}
	cmd.Flags().StringVar(&userLibraries, "user-libraries", "", "Exported .userlibraries file")
	return cmd
}

// referenceTree expands direct references depth first. A project already on
// the current branch is marked as a cycle; one expanded elsewhere is marked
// as a repeat and not expanded again.
func referenceTree(rv *resolve.Resolver, project string) (gotree.Tree, error) {
	root, err := rv.Resolve(project)
	if err != nil {
		return nil, err
	}

	tree := gotree.New(root.Name())
	onBranch := map[string]bool{root.Name(): true}
	expanded := map[string]bool{root.Name(): true}

	var expand func(node gotree.Tree, res *resolve.Result) error
	expand = func(node gotree.Tree, res *resolve.Result) error {
		for _, ref := range res.References() {
			switch {
			case onBranch[ref]:
				node.Add(ref + cycleMark)
			case expanded[ref]:
				node.Add(ref + repeatMark)
			default:
				child, err := rv.Resolve(ref)
				if err != nil {
					return err
				}
				expanded[ref] = true
				onBranch[ref] = true
				if err := expand(node.Add(ref), child); err != nil {
					return err
				}
				delete(onBranch, ref)
			}
		}
		return nil
	}
	if err := expand(tree, root); err != nil {
		return nil, err
	}
	return tree, nil
}
