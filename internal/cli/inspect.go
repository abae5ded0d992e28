package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/entitygraph/internal/entity"
	"github.com/roach88/entitygraph/internal/graphdoc"
)

// InspectResult is the payload of the inspect command.
type InspectResult struct {
	Path        string `json:"path"`
	Root        string `json:"root"`
	Fingerprint string `json:"fingerprint"`
	graphdoc.Stats
}

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <graph-file>",
		Short: "Summarize a graph document",
		Long: `Load a YAML or CUE graph document without touching a store and report
its entity, property and value counts along with an order-independent
fingerprint of its content.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runInspect(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	g, err := graphdoc.Load(path)
	if err != nil {
		return formatter.Fail(err)
	}
	fingerprint, err := entity.Fingerprint(g.Nodes())
	if err != nil {
		return fmt.Errorf("failed to fingerprint graph: %w", err)
	}

	result := InspectResult{
		Path:        path,
		Root:        g.Root.Identity().String(),
		Fingerprint: fingerprint,
		Stats:       g.Stats(),
	}
	for _, e := range g.Entities {
		formatter.Debugf("entity %s (%d values)", e.Identity(), e.ValueCount())
	}

	return formatter.Result(result, result.writeText)
}

func (r InspectResult) writeText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s\n"+
		"  root:        %s\n"+
		"  entities:    %d\n"+
		"  properties:  %d\n"+
		"  literals:    %d\n"+
		"  references:  %d (%d external)\n"+
		"  fingerprint: %s\n",
		r.Path, r.Root, r.Entities, r.Properties, r.Literals, r.References, r.External, r.Fingerprint)
	return err
}
