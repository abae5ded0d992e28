package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/entitygraph/internal/entity"
	"github.com/roach88/entitygraph/internal/graphdoc"
	"github.com/roach88/entitygraph/internal/metrics"
	"github.com/roach88/entitygraph/internal/store"
)

// MergeOptions holds flags for the merge command.
type MergeOptions struct {
	*RootOptions
	Strategy string
	All      bool   // merge every document entity, not just the root
	Emit     string // path of a YAML document receiving the merged graph
}

// MergedFile reports the merge of one document.
type MergedFile struct {
	Path    string `json:"path"`
	Root    string `json:"root"`
	Created int    `json:"created"`
}

// MergeResult is the payload of the merge command.
type MergeResult struct {
	Store    string `json:"store"`
	Strategy string `json:"strategy"`
	Version  int64  `json:"version"`
	Entities int    `json:"entities"`

	// Fingerprint digests the merged graph independently of order.
	Fingerprint string `json:"fingerprint"`

	Files []MergedFile       `json:"files"`
	Graph *graphdoc.Document `json:"graph"`
}

// NewMergeCommand creates the merge command.
func NewMergeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MergeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "merge <graph-file>...",
		Short: "Merge graph documents into a fresh store",
		Long: `Merge YAML or CUE graph documents into a new in-memory store and print
the resulting graph.

Documents are merged in argument order. By default only each document's
root is handed to the store, so what else lands in the store depends on
the strategy: value follows references, reference and identity do not.

Exit codes:
  0 - All documents merged
  1 - The store rejected a merge
  2 - Command error (missing file, malformed document, etc.)

Examples:
  entitygraph merge graph.yaml
  entitygraph merge --strategy reference a.yaml b.cue
  entitygraph merge --all --emit merged.yaml graph.yaml
  entitygraph merge --format json graph.yaml`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(opts, args, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Strategy, "strategy", store.DefaultStrategy.String(),
		"merge strategy ("+strings.Join(strategyNames(), "|")+")")
	cmd.Flags().BoolVar(&opts.All, "all", false, "merge every entity of each document")
	cmd.Flags().StringVar(&opts.Emit, "emit", "", "write the merged graph as a YAML document")

	return cmd
}

func runMerge(opts *MergeOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := opts.Logger(cmd.ErrOrStderr())

	strategy, err := store.ParseStrategy(opts.Strategy)
	if err != nil {
		return formatter.Fail(err)
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.NewStoreMetrics(reg)
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}
	st, err := store.New(
		store.WithStrategy(strategy),
		store.WithLogger(logger),
		store.WithMetrics(m),
	)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}

	result := MergeResult{
		Store:    st.ID().String(),
		Strategy: strategy.String(),
		Files:    make([]MergedFile, 0, len(paths)),
	}
	var root entity.Identity

	for _, path := range paths {
		formatter.Debugf("Loading %s", path)
		g, err := graphdoc.Load(path)
		if err != nil {
			return formatter.Fail(err)
		}
		if root.IsZero() {
			root = g.Root.Identity()
		}

		nodes := []entity.Node{g.Root}
		if opts.All {
			nodes = g.Nodes()
		}
		before := st.Len()
		for _, n := range nodes {
			if _, err := st.Merge(n); err != nil {
				return formatter.Fail(fmt.Errorf("%s: %w", path, err))
			}
		}
		result.Files = append(result.Files, MergedFile{
			Path:    path,
			Root:    g.Root.Identity().String(),
			Created: st.Len() - before,
		})
	}

	snap := st.Snapshot()
	result.Version = snap.Version()
	result.Entities = snap.Len()
	result.Graph = graphdoc.FromNodes(snap.Nodes(), root)
	if result.Fingerprint, err = entity.Fingerprint(snap.Nodes()); err != nil {
		return fmt.Errorf("failed to fingerprint graph: %w", err)
	}
	logMetrics(logger, reg)

	if opts.Emit != "" {
		if err := writeDocument(opts.Emit, result.Graph); err != nil {
			return formatter.FailWith(ExitCommandError,
				&CLIError{Code: ErrCodeWriteFailed, Message: err.Error(), Details: map[string]any{"path": opts.Emit}}, err)
		}
		formatter.Debugf("Wrote %s", opts.Emit)
	}

	return formatter.Result(result, func(w io.Writer) error {
		return store.Format(w, snap)
	})
}

func writeDocument(path string, doc *graphdoc.Document) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := graphdoc.EncodeYAML(f, doc); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// logMetrics logs every collected sample at Debug level.
func logMetrics(logger *slog.Logger, g prometheus.Gatherer) {
	if !logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	families, err := g.Gather()
	if err != nil {
		logger.Warn("failed to gather metrics", "error", err)
		return
	}
	for _, mf := range families {
		for _, sample := range mf.GetMetric() {
			attrs := []any{"metric", mf.GetName()}
			for _, lp := range sample.GetLabel() {
				attrs = append(attrs, lp.GetName(), lp.GetValue())
			}
			switch {
			case sample.GetCounter() != nil:
				attrs = append(attrs, "value", sample.GetCounter().GetValue())
			case sample.GetGauge() != nil:
				attrs = append(attrs, "value", sample.GetGauge().GetValue())
			}
			logger.Debug("metric", attrs...)
		}
	}
}

func strategyNames() []string {
	names := make([]string, 0, len(store.Strategies))
	for _, s := range store.Strategies {
		names = append(names, s.String())
	}
	return names
}
