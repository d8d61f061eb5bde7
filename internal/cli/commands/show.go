package commands

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// ShowOptions holds options for the show command.
type ShowOptions struct {
	Delete bool
	RunID  string
}

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	opts := &ShowOptions{}

	cmd := &cobra.Command{
		Use:   "show [task]",
		Short: "Show saved lineage from the state database",
		Long: `Display lineage documents previously persisted by 'fathom run'.

Without arguments all tasks with a saved document are listed. With a
task argument its saved document is rendered without recomputing it.`,
		Example: `  # List tasks with saved lineage
  fathom show

  # Render the saved document for a task
  fathom show revenue

  # Delete a task's saved document
  fathom show revenue --delete

  # Inspect a specific run by id
  fathom show --run 3f1c0a7e-...`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runShow(cmd, name, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Delete, "delete", false, "Delete the task's saved lineage document")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "Show the run with this id instead of a document")

	return cmd
}

func runShow(cmd *cobra.Command, name string, opts *ShowOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	store, err := cmdCtx.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if opts.RunID != "" {
		run, err := store.GetRun(opts.RunID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("run not found: %s", opts.RunID)
			}
			return err
		}
		if cmdCtx.Renderer.IsJSON() {
			return cmdCtx.Renderer.JSON(run)
		}
		cmdCtx.Renderer.Successf("Run %s", run.ID)
		cmdCtx.Renderer.Successf("  Task:    %s", run.TaskName)
		cmdCtx.Renderer.Successf("  Status:  %s", run.Status)
		cmdCtx.Renderer.Successf("  Started: %s", run.StartedAt.Format("2006-01-02 15:04:05"))
		if run.CompletedAt != nil {
			cmdCtx.Renderer.Successf("  Ended:   %s", run.CompletedAt.Format("2006-01-02 15:04:05"))
		}
		if run.Error != "" {
			cmdCtx.Renderer.Errorf("  Error:   %s", run.Error)
		}
		return nil
	}

	if name == "" {
		tasks, err := store.ListLineageTasks()
		if err != nil {
			return err
		}
		return cmdCtx.Renderer.List("Saved lineage documents", tasks)
	}

	task, err := cmdCtx.findTask(name)
	if err != nil {
		return err
	}

	if opts.Delete {
		if err := store.DeleteLineage(task.Name); err != nil {
			return err
		}
		cmdCtx.Renderer.Successf("Deleted saved lineage for %s", task.Name)
		return nil
	}

	lin, err := store.GetLineage(task.Name)
	if err != nil {
		return err
	}
	if lin == nil {
		return fmt.Errorf("no saved lineage for task %s (run 'fathom run' first)", task.Name)
	}
	return cmdCtx.Renderer.Lineage(task.Name, lin)
}
