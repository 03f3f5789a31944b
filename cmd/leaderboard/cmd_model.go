package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/ranking"
	"github.com/bengali-mteb/leaderboard/internal/reporting"
	"github.com/bengali-mteb/leaderboard/internal/views"
	"github.com/bengali-mteb/leaderboard/internal/webapi"
)

// parseModelID accepts either the encoded id or the organization/name form.
func parseModelID(cat *catalog.Catalog, arg string) (catalog.ModelID, error) {
	for _, m := range []catalog.ModelID{catalog.ModelID(arg), catalog.FromPath(arg)} {
		if cat.HasModel(m) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w %q (see 'leaderboard catalog')", webapi.ErrUnknownModel, arg)
}

func newModelCommand(gf *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "model ID",
		Short: "Show one model's scores on every task",
		Long: `Show main_score, accuracy and f1 of a model on every task, with the
availability of each result. ID is either the encoded identifier
(intfloat__multilingual-e5-base) or the model path (intfloat/multilingual-e5-base).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(gf)
			if err != nil {
				return err
			}
			m, err := parseModelID(s.cat, args[0])
			if err != nil {
				return err
			}
			agg, err := s.aggregate(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			detail, ok := views.BuildModelDetail(agg, s.cat, s.urls, m)
			if !ok {
				return fmt.Errorf("%w %q", webapi.ErrUnknownModel, args[0])
			}
			return writeReport(cmd, format, reporting.ModelReport(detail))
		},
	}
	registerFormatFlag(cmd, &format)
	return cmd
}

func newCompareCommand(gf *globalFlags) *cobra.Command {
	var (
		metric string
		format string
	)

	cmd := &cobra.Command{
		Use:   "compare ID ID [ID...]",
		Short: "Compare models task by task",
		Long: `Compare two or more models on every task. The delta and normalized gain
go from the first model to the last; a bootstrap interval over the per-task
deltas tells whether the difference is consistent across tasks.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(gf)
			if err != nil {
				return err
			}
			models := make([]catalog.ModelID, 0, len(args))
			for _, a := range args {
				m, err := parseModelID(s.cat, a)
				if err != nil {
					return err
				}
				models = append(models, m)
			}
			agg, err := s.aggregate(cmd.Context(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			c, err := views.Compare(agg, s.cat, models, metric)
			if err != nil {
				return err
			}
			return writeReport(cmd, format, reporting.ComparisonReport(c))
		},
	}
	cmd.Flags().StringVar(&metric, "metric", ranking.MainScore, "Metric to compare")
	registerFormatFlag(cmd, &format)
	return cmd
}

func newCatalogCommand(gf *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the tasks and models of the leaderboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(gf)
			if err != nil {
				return err
			}
			return writeReport(cmd, format, reporting.CatalogReport(catalog.Default(), urlResolver(cfg)))
		},
	}
	registerFormatFlag(cmd, &format)
	return cmd
}
