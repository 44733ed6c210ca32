package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/oscfit/oscfit/pkg/stores"
	"github.com/oscfit/oscfit/pkg/telemetry"
)

func newRunsCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded fit runs",
		Long: `Inspect fit runs recorded in the local store.

Every fit records the settings document it started from, the mass-ordering
hypothesis, the free-parameter vector and each minimizer iteration; this
command lists the runs and replays their trajectories.`,
	}

	cmd.PersistentFlags().StringVar(&dbPath, "db", "oscfit.db", "path to the fit store database")

	cmd.AddCommand(newRunsListCommand(&dbPath))
	cmd.AddCommand(newRunsShowCommand(&dbPath))

	return cmd
}

func newRunsListCommand(dbPath *string) *cobra.Command {
	var (
		limit  int
		offset int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List fit runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), *dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.ListRuns(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}

			if jsonOutput {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSETTINGS\tHIERARCHY\tSTARTED\tBEST LLH")
			for _, run := range runs {
				best := "-"
				if run.BestLLH != nil {
					best = fmt.Sprintf("%.4f", *run.BestLLH)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					run.ID, run.SettingsSource, run.Hierarchy,
					run.StartedAt.Format("2006-01-02 15:04:05"), best)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of runs to list")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of runs to skip")

	return cmd
}

func newRunsShowCommand(dbPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one fit run with its minimizer trajectory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := openStore(cmd.Context(), *dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			run, err := store.GetRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			steps, err := store.ListSteps(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			telemetry.FromContext(cmd.Context()).NewComponentLogger("runs").
				WithRunID(run.ID).Debug("replaying minimizer trajectory")

			if jsonOutput {
				out := struct {
					Run   *stores.FitRun    `json:"run"`
					Steps []*stores.FitStep `json:"steps"`
				}{Run: run, Steps: steps}
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}

			fmt.Printf("run %s\n", run.ID)
			fmt.Printf("  settings:   %s\n", run.SettingsSource)
			fmt.Printf("  hierarchy:  %s\n", run.Hierarchy)
			fmt.Printf("  free:       %s\n", run.FreeParams)
			fmt.Printf("  started:    %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
			if run.CompletedAt != nil {
				fmt.Printf("  completed:  %s\n", run.CompletedAt.Format("2006-01-02 15:04:05"))
			}
			if run.BestLLH != nil {
				fmt.Printf("  best llh:   %.6f\n", *run.BestLLH)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ITER\tLLH\tPARAMS")
			for _, step := range steps {
				fmt.Fprintf(w, "%d\t%.6f\t%s\n", step.Iteration, step.LLH, step.ParamValues)
			}
			return w.Flush()
		},
	}

	return cmd
}

// openStore opens and migrates the fit store at path.
func openStore(ctx context.Context, path string) (*stores.FitStore, error) {
	store, err := stores.NewFitStore(stores.Config{Path: path})
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
