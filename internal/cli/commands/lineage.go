package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fathomdata/fathom/internal/lineage"
)

// LineageOptions holds options for the lineage command.
type LineageOptions struct {
	NoWrite bool
}

// NewLineageCommand creates the lineage command.
func NewLineageCommand() *cobra.Command {
	opts := &LineageOptions{}

	cmd := &cobra.Command{
		Use:   "lineage <task>",
		Short: "Compute column-level lineage for a task",
		Long: `Resolve a task's SQL into its column-to-column relations and
participating tables, write the lineage document and print a summary.

The task may be referenced by name or by its full output name
(domain.table).`,
		Example: `  # Compute lineage for a task and write lineage/<task>.json
  fathom lineage revenue

  # Reference the task by its output table
  fathom lineage marts.revenue

  # Print the lineage document as JSON without writing it
  fathom lineage revenue --no-write --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLineage(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.NoWrite, "no-write", false, "Skip writing the lineage document to disk")

	return cmd
}

func runLineage(cmd *cobra.Command, name string, opts *LineageOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	task, err := cmdCtx.findTask(name)
	if err != nil {
		return err
	}

	lin, err := cmdCtx.computeLineage(cmd.Context(), task)
	if err != nil {
		return err
	}

	if !opts.NoWrite {
		if err := os.MkdirAll(cmdCtx.Cfg.OutputDir, 0750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		path := cmdCtx.lineagePath(task)
		if err := lineage.Write(lin, path); err != nil {
			return err
		}
		cmdCtx.Renderer.Successf("Wrote %s", path)
	}

	if err := cmdCtx.Renderer.Lineage(task.Name, lin); err != nil {
		return fmt.Errorf("failed to render lineage: %w", err)
	}
	return nil
}
