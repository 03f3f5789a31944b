package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bengali-mteb/leaderboard/internal/reporting"
	"github.com/bengali-mteb/leaderboard/internal/views"
	"github.com/bengali-mteb/leaderboard/internal/webapi"
)

// selectionFlags are the flags shared by the ranking views.
type selectionFlags struct {
	task   string
	metric string
	order  string
	format string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.task, "task", "", "Task id (default: first catalog task)")
	cmd.Flags().StringVar(&f.metric, "metric", "", "Metric to rank by (default: main_score when reported)")
	cmd.Flags().StringVar(&f.order, "order", "desc", "Ranking order: desc or asc")
	registerFormatFlag(cmd, &f.format)
}

func (f *selectionFlags) query() webapi.Query {
	return webapi.Query{Task: f.task, Metric: f.metric, Order: f.order}
}

func registerFormatFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVar(format, "format", "table", "Output format: table, json, csv or markdown")
}

// writeReport renders r to the command's output in the requested format.
func writeReport(cmd *cobra.Command, format string, r reporting.Report) error {
	f, err := reporting.ParseFormat(format)
	if err != nil {
		return err
	}
	return reporting.Write(cmd.OutOrStdout(), f, r)
}

func newRankCommand(gf *globalFlags) *cobra.Command {
	var (
		sel     selectionFlags
		sortBy  string
		sortDir string
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank models on a task by one metric",
		Long: `Rank the models that report the selected metric on a task.

Models without a score for the metric are left out of the ranking. The table
lists every metric of the top model; --sort-by re-sorts the rows by one of
those columns, with models missing that column sorting as the lowest value.
Without --sort-by the table follows --order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := reporting.ParseFormat(sel.format); err != nil {
				return err
			}
			s, err := newSession(gf)
			if err != nil {
				return err
			}
			q := sel.query()
			q.Sort, q.SortOrder = sortBy, sortDir
			if sortBy == "" && !cmd.Flags().Changed("sort-dir") {
				q.SortOrder = q.Order
			}
			d, err := s.dashboard(cmd.Context(), cmd.ErrOrStderr(), q)
			if err != nil {
				return err
			}
			return writeReport(cmd, sel.format, reporting.RankingReport(d.Selection.Task, d.Selection.Metric, d.Selection.Order, d.Table, d.Entries, d.Summary))
		},
	}
	sel.register(cmd)
	cmd.Flags().StringVar(&sortBy, "sort-by", "", "Re-sort the table by this metric column")
	cmd.Flags().StringVar(&sortDir, "sort-dir", "desc", "Direction of --sort-by: desc or asc")
	return cmd
}

func newDistributionCommand(gf *globalFlags) *cobra.Command {
	var sel selectionFlags

	cmd := &cobra.Command{
		Use:   "distribution",
		Short: "Show the score distribution of a ranking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(gf)
			if err != nil {
				return err
			}
			d, err := s.dashboard(cmd.Context(), cmd.ErrOrStderr(), sel.query())
			if err != nil {
				return err
			}
			return writeReport(cmd, sel.format, reporting.DistributionReport(d.Selection.Task, d.Selection.Metric, d.Distribution))
		},
	}
	sel.register(cmd)
	return cmd
}

func newHeatmapCommand(gf *globalFlags) *cobra.Command {
	var (
		sel selectionFlags
		top int
	)

	cmd := &cobra.Command{
		Use:   "heatmap",
		Short: "Compare the top models' main_score across all tasks",
		Long: `Take the top models of the selected ranking and show their main_score on
every task. Missing scores are shown as a dash.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if top < 0 {
				return fmt.Errorf("--top must be positive")
			}
			s, err := newSession(gf)
			if err != nil {
				return err
			}
			d, err := s.dashboard(cmd.Context(), cmd.ErrOrStderr(), sel.query())
			if err != nil {
				return err
			}
			k := top
			if k == 0 {
				k = s.svc.Settings().HeatmapTopK
			}
			agg := s.store.Current()
			return writeReport(cmd, sel.format, reporting.HeatmapReport(views.BuildHeatmap(agg, s.cat, d.Entries, k)))
		},
	}
	sel.register(cmd)
	cmd.Flags().IntVar(&top, "top", 0, "Number of models (default: views.heatmap_top_k)")
	return cmd
}

func newRadarCommand(gf *globalFlags) *cobra.Command {
	var (
		task   string
		top    int
		format string
	)

	cmd := &cobra.Command{
		Use:   "radar",
		Short: "Compare the top models of a task across its metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if top < 0 {
				return fmt.Errorf("--top must be positive")
			}
			s, err := newSession(gf)
			if err != nil {
				return err
			}
			d, err := s.dashboard(cmd.Context(), cmd.ErrOrStderr(), webapi.Query{Task: task})
			if err != nil {
				return err
			}
			n := top
			if n == 0 {
				n = s.svc.Settings().RadarTopN
			}
			radar := views.BuildRadar(s.store.Current(), d.Selection.Task.ID, n)
			return writeReport(cmd, format, reporting.RadarReport(d.Selection.Task, radar))
		},
	}
	cmd.Flags().StringVar(&task, "task", "", "Task id (default: first catalog task)")
	cmd.Flags().IntVar(&top, "top", 0, "Number of models (default: views.radar_top_n)")
	registerFormatFlag(cmd, &format)
	return cmd
}
