package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ohler55/ojg/jp"
	"github.com/spf13/cobra"

	"github.com/agentic-research/antgen/api"
	"github.com/agentic-research/antgen/internal/antbuild"
	"github.com/agentic-research/antgen/internal/config"
	"github.com/agentic-research/antgen/internal/resolve"
)

func newResolveCmd(global *globalOptions) *cobra.Command {
	var (
		userLibraries string
		selector      string
	)
	cmd := &cobra.Command{
		Use:   "resolve <repository> <project>",
		Short: "Print the resolved dependencies of a project as JSON",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, global, args[0], userLibraries, config.Config{})
			if err != nil {
				return err
			}
			res, err := s.resolver.Resolve(args[1])
			if err != nil {
				return err
			}

			doc := projectView(res)
			if selector == "" {
				return writeJSON(cmd.OutOrStdout(), doc)
			}
			return writeSelection(cmd.OutOrStdout(), doc, selector)
		},
	}
	cmd.Flags().StringVar(&userLibraries, "user-libraries", "", "Exported .userlibraries file")
	cmd.Flags().StringVar(&selector, "select", "", "JSONPath applied to the document, e.g. $.archives[*]")
	return cmd
}

func projectView(res *resolve.Result) api.Project {
	p := api.Project{
		Name:       res.Name(),
		Folder:     res.Folder(),
		Sources:    nonNil(res.Sources()),
		References: nonNil(res.References()),
		Parents:    nonNil(res.Parents()),
		Outputs:    []api.Output{},
		Archives:   nonNil(res.Archives()),
		Targets: api.Targets{
			Compile: antbuild.CompileTargetName(res.Name()),
			JUnit:   antbuild.JUnitTargetName(res.Name()),
			Depends: []string{},
		},
	}
	for _, out := range res.Outputs() {
		p.Outputs = append(p.Outputs, api.Output{Project: out.Project, Folder: out.Folder})
	}
	for _, parent := range res.Parents() {
		p.Targets.Depends = append(p.Targets.Depends, antbuild.CompileTargetName(parent))
	}
	return p
}

// writeSelection evaluates selector against the generic form of doc and
// prints one JSON value per match.
func writeSelection(w io.Writer, doc api.Project, selector string) error {
	x, err := jp.ParseString(selector)
	if err != nil {
		return fmt.Errorf("invalid jsonpath '%s': %w", selector, err)
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}

	for _, v := range x.Get(generic) {
		if err := writeJSON(w, v); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
