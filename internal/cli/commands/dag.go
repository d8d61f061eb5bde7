package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fathomdata/fathom/internal/dag"
)

// DAGOptions holds options for the dag command.
type DAGOptions struct {
	Depth int
}

// NewDAGCommand creates the dag command.
func NewDAGCommand() *cobra.Command {
	opts := &DAGOptions{}

	cmd := &cobra.Command{
		Use:   "dag [task]",
		Short: "Show the task dependency graph",
		Long: `Build the task dependency graph from computed lineage and display it.

Without arguments the full graph is shown in execution order. With a
task argument the task's upstream producers and downstream consumers
are shown instead.`,
		Example: `  # Show all tasks in execution order
  fathom dag

  # Show what feeds and what depends on a task
  fathom dag marts.revenue

  # Limit traversal depth
  fathom dag marts.revenue --depth 2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) > 0 {
				name = args[0]
			}
			return runDAG(cmd, name, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Depth, "depth", 0, "Max traversal depth (0 = unlimited)")

	return cmd
}

func runDAG(cmd *cobra.Command, name string, opts *DAGOptions) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	graph, err := buildGraph(cmd, cmdCtx)
	if err != nil {
		return err
	}

	if name != "" {
		task, err := cmdCtx.findTask(name)
		if err != nil {
			return err
		}
		full := task.FullName()

		if cmdCtx.Renderer.IsJSON() {
			return cmdCtx.Renderer.JSON(map[string]any{
				"task":       full,
				"upstream":   graph.Upstream(full, opts.Depth),
				"downstream": graph.Downstream(full, opts.Depth),
			})
		}
		if err := cmdCtx.Renderer.List("Upstream of "+full, graph.Upstream(full, opts.Depth)); err != nil {
			return err
		}
		return cmdCtx.Renderer.List("Downstream of "+full, graph.Downstream(full, opts.Depth))
	}

	if cycle, path := graph.HasCycle(); cycle {
		return fmt.Errorf("dependency cycle: %s", strings.Join(path, " -> "))
	}

	order, err := graph.TopologicalSort()
	if err != nil {
		return err
	}

	if cmdCtx.Renderer.IsJSON() {
		return cmdCtx.Renderer.JSON(map[string]any{
			"order":  order,
			"roots":  graph.Roots(),
			"leaves": graph.Leaves(),
		})
	}
	return cmdCtx.Renderer.List("Execution order", order)
}

// buildGraph computes lineage for every task and folds the results into
// a dependency graph.
func buildGraph(cmd *cobra.Command, cmdCtx *CommandContext) (*dag.Graph, error) {
	graph := dag.NewGraph()
	for _, task := range cmdCtx.Tasks {
		graph.AddTask(task.FullName())
	}
	for _, task := range cmdCtx.Tasks {
		lin, err := cmdCtx.computeLineage(cmd.Context(), task)
		if err != nil {
			return nil, fmt.Errorf("task %s: %w", task.Name, err)
		}
		if err := graph.AddLineage(task, lin); err != nil {
			return nil, fmt.Errorf("task %s: %w", task.Name, err)
		}
	}
	return graph, nil
}
