package main

import (
	"fmt"
	"strings"

	"github.com/OFFIS-RIT/letternet/internal/util"
	"github.com/OFFIS-RIT/letternet/pkg/analysis"
	"github.com/OFFIS-RIT/letternet/pkg/dates"
	"github.com/OFFIS-RIT/letternet/pkg/views"

	"github.com/spf13/cobra"
)

func configFlags(cmd *cobra.Command, cfg *analysis.Config) {
	flags := cmd.Flags()
	flags.IntVar(&cfg.MinEdgeWeight, "min-weight", cfg.MinEdgeWeight, "minimum edge weight kept by the filter")
	flags.IntVar(&cfg.MinNodeDegree, "min-degree", cfg.MinNodeDegree, "minimum node degree kept by the filter")
	flags.BoolVar(&cfg.KeepIsolates, "keep-isolates", cfg.KeepIsolates, "keep nodes without edges")
	flags.StringVar(&cfg.WindowReference, "reference", cfg.WindowReference, "temporal window center (default earliest letter)")
	flags.IntVar(&cfg.WindowWidthDays, "width", cfg.WindowWidthDays, "temporal window width in days")
	flags.StringVar(&cfg.GroupBy, "group-by", cfg.GroupBy, "timeline granularity: day, month or year")
	flags.IntVar(&cfg.TopPairs, "top", cfg.TopPairs, "number of correspondent pairs in the timeline report")
}

func viewNames() string {
	names := make([]string, len(views.All))
	for i, v := range views.All {
		names[i] = string(v)
	}
	return strings.Join(names, ", ")
}

func newViewCommand(root *rootOptions) *cobra.Command {
	cfg := analysis.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "view <name>",
		Short: "Compute one view and print it as JSON",
		Long:  "Compute one view and print it as JSON. Views: " + viewNames() + ".",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := analysis.Request{View: views.Name(args[0]), Config: cfg}
			if err := req.Validate(); err != nil {
				return err
			}
			set, err := root.open(cmd)
			if err != nil {
				return err
			}
			res, err := analysis.Run(cmd.Context(), set, req)
			if err != nil {
				return err
			}
			if res.Empty() {
				fmt.Fprintln(cmd.ErrOrStderr(), "Insufficient data: the filtered graph is empty")
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	configFlags(cmd, &cfg)
	return cmd
}

func newAllCommand(root *rootOptions) *cobra.Command {
	cfg := analysis.DefaultConfig()
	parallel := int(util.GetEnvNumeric("PARALLEL_VIEWS", 4))
	cmd := &cobra.Command{
		Use:   "all",
		Short: "Compute every view with the same configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reqs := make([]analysis.Request, len(views.All))
			for i, v := range views.All {
				reqs[i] = analysis.Request{View: v, Config: cfg}
			}
			set, err := root.open(cmd)
			if err != nil {
				return err
			}
			results, err := analysis.RunAll(cmd.Context(), set, reqs, parallel)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), results)
		},
	}
	configFlags(cmd, &cfg)
	cmd.Flags().IntVar(&parallel, "parallel", parallel, "views computed at once")
	return cmd
}

func newTimelineCommand(root *rootOptions) *cobra.Command {
	groupBy := string(dates.Month)
	top := analysis.DefaultConfig().TopPairs
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Print letter counts and network evolution over time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := dates.ParseGranularity(groupBy)
			if err != nil {
				return err
			}
			set, err := root.open(cmd)
			if err != nil {
				return err
			}
			tl := views.BuildTimeline(set.Records(), dates.Normalizer{})
			return writeJSON(cmd.OutOrStdout(), analysis.NewTimelineReport(tl, g, top))
		},
	}
	cmd.Flags().StringVar(&groupBy, "group-by", groupBy, "granularity: day, month or year")
	cmd.Flags().IntVar(&top, "top", top, "number of correspondent pairs to list")
	return cmd
}
