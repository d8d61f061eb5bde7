package commands

import (
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fathomdata/fathom/internal/lineage"
	"github.com/fathomdata/fathom/pkg/core"
)

// RunOptions holds options for the run command.
type RunOptions struct {
	Concurrency int
	KeepGoing   bool
}

// taskResult captures the outcome of one task's lineage computation.
type taskResult struct {
	Task     string `json:"task"`
	RunID    string `json:"runId"`
	Status   string `json:"status"`
	Path     string `json:"path,omitempty"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
}

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	opts := &RunOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute lineage for all tasks",
		Long: `Compute and persist column-level lineage for every task in the catalog.

Each task gets a tracked run in the state database, a lineage document
on disk and a copy of the document in the state database.`,
		Example: `  # Compute lineage for all tasks
  fathom run

  # Continue past individual task failures
  fathom run --keep-going

  # Bound parallelism
  fathom run --concurrency 2`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 4, "Maximum tasks resolved in parallel")
	cmd.Flags().BoolVar(&opts.KeepGoing, "keep-going", false, "Do not stop at the first failed task")

	return cmd
}

func runRun(cmd *cobra.Command, opts *RunOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	store, err := cmdCtx.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := os.MkdirAll(cmdCtx.Cfg.OutputDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	start := time.Now()
	cmdCtx.Renderer.Successf("Computing lineage for %d tasks...", len(cmdCtx.Tasks))

	var (
		mu      sync.Mutex
		results []taskResult
	)

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(opts.Concurrency)

	for _, task := range cmdCtx.Tasks {
		g.Go(func() error {
			res := taskResult{Task: task.Name}
			taskStart := time.Now()

			run, err := store.CreateRun(task.Name)
			if err != nil {
				return fmt.Errorf("failed to start run for task %s: %w", task.Name, err)
			}
			res.RunID = run.ID

			err = func() error {
				lin, err := cmdCtx.computeLineage(ctx, task)
				if err != nil {
					return err
				}
				path := cmdCtx.lineagePath(task)
				if err := lineage.Write(lin, path); err != nil {
					return err
				}
				res.Path = path
				return store.SaveLineage(task.Name, lin)
			}()

			res.Duration = time.Since(taskStart).Round(time.Millisecond).String()

			if err != nil {
				res.Status = string(core.RunStatusFailed)
				res.Error = err.Error()
				if cerr := store.CompleteRun(run.ID, core.RunStatusFailed, err.Error()); cerr != nil {
					cmdCtx.Logger.Error("failed to record run failure", "task", task.Name, "error", cerr)
				}
				mu.Lock()
				results = append(results, res)
				mu.Unlock()
				if opts.KeepGoing {
					return nil
				}
				return fmt.Errorf("task %s: %w", task.Name, err)
			}

			res.Status = string(core.RunStatusCompleted)
			if err := store.CompleteRun(run.ID, core.RunStatusCompleted, ""); err != nil {
				return fmt.Errorf("failed to complete run for task %s: %w", task.Name, err)
			}

			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}

	runErr := g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Task < results[j].Task })

	if cmdCtx.Renderer.IsJSON() {
		if err := cmdCtx.Renderer.JSON(results); err != nil {
			return err
		}
	} else {
		failed := 0
		for _, res := range results {
			if res.Error != "" {
				failed++
				cmdCtx.Renderer.Errorf("  %s: %s", res.Task, res.Error)
				continue
			}
			cmdCtx.Renderer.Successf("  %s: %s (%s)", res.Task, res.Status, res.Duration)
		}
		cmdCtx.Renderer.Successf("Completed %d/%d tasks in %s",
			len(results)-failed, len(cmdCtx.Tasks), time.Since(start).Round(time.Millisecond))
	}

	return runErr
}
