package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bengali-mteb/leaderboard/internal/catalog"
	"github.com/bengali-mteb/leaderboard/internal/ranking"
	"github.com/bengali-mteb/leaderboard/internal/reporting"
	"github.com/bengali-mteb/leaderboard/internal/webapi"
)

// browseChoice is what the user picked in the browse form.
type browseChoice struct {
	Task   string
	Metric string
	Order  string
}

// pickTask and pickMetric are test hooks for replacing the interactive forms.
var (
	pickTask   = defaultPickTask
	pickMetric = defaultPickMetric
)

// newForm applies the shared IO settings. Non-TTY input (pipes, tests) gets
// huh's accessible line-based mode.
func newForm(in io.Reader, out io.Writer, groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithInput(in).WithOutput(out)
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}
	return form
}

func defaultPickTask(in io.Reader, out io.Writer, tasks []catalog.Task) (string, error) {
	opts := make([]huh.Option[string], len(tasks))
	for i, t := range tasks {
		opts[i] = huh.NewOption(t.Name, string(t.ID))
	}
	task := string(tasks[0].ID)
	err := newForm(in, out, huh.NewGroup(
		huh.NewSelect[string]().
			Title("Task").
			Options(opts...).
			Value(&task),
	)).Run()
	if err != nil {
		return "", fmt.Errorf("task selection failed: %w", err)
	}
	return task, nil
}

func defaultPickMetric(in io.Reader, out io.Writer, metrics []string) (metric, order string, err error) {
	metric = ranking.DefaultMetric(metrics)
	order = string(ranking.Desc)
	opts := huh.NewOptions(metrics...)
	if len(metrics) == 0 {
		opts = huh.NewOptions(metric)
	}
	err = newForm(in, out, huh.NewGroup(
		huh.NewSelect[string]().
			Title("Metric").
			Options(opts...).
			Value(&metric),
		huh.NewSelect[string]().
			Title("Order").
			Options(
				huh.NewOption("Highest first", string(ranking.Desc)),
				huh.NewOption("Lowest first", string(ranking.Asc)),
			).
			Value(&order),
	)).Run()
	if err != nil {
		return "", "", fmt.Errorf("metric selection failed: %w", err)
	}
	return metric, order, nil
}

func newBrowseCommand(gf *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Pick a task, metric and order interactively and print the ranking",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(gf)
			if err != nil {
				return err
			}
			in, prompt := cmd.InOrStdin(), cmd.ErrOrStderr()

			var choice browseChoice
			if choice.Task, err = pickTask(in, prompt, s.cat.Tasks); err != nil {
				return err
			}
			agg, err := s.aggregate(cmd.Context(), prompt)
			if err != nil {
				return err
			}
			metrics := ranking.AvailableMetrics(agg, catalog.TaskID(choice.Task))
			if choice.Metric, choice.Order, err = pickMetric(in, prompt, metrics); err != nil {
				return err
			}

			d, err := s.svc.Dashboard(cmd.Context(), webapi.Query{Task: choice.Task, Metric: choice.Metric, Order: choice.Order})
			if err != nil {
				return err
			}
			return writeReport(cmd, format, reporting.RankingReport(d.Selection.Task, d.Selection.Metric, d.Selection.Order, d.Table, d.Entries, d.Summary))
		},
	}
	registerFormatFlag(cmd, &format)
	return cmd
}
