package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// taskInfo is the JSON shape for one listed task.
type taskInfo struct {
	Name      string `json:"name"`
	Output    string `json:"output"`
	HasSQL    bool   `json:"hasSql"`
	LastRun   string `json:"lastRun,omitempty"`
	LastRunAt string `json:"lastRunAt,omitempty"`
}

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tasks and their last run status",
		Long: `List every task in the catalog with its output table and, when the
state database has seen it, the status of its most recent run.`,
		Example: `  # List all tasks
  fathom list

  # List tasks as JSON
  fathom list --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}
}

func runList(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	store, err := cmdCtx.openStore()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	infos := make([]taskInfo, 0, len(cmdCtx.Tasks))
	for _, task := range cmdCtx.Tasks {
		info := taskInfo{
			Name:   task.Name,
			Output: task.FullName(),
			HasSQL: task.SQL != "",
		}
		run, err := store.GetLatestRun(task.Name)
		if err != nil {
			return err
		}
		if run != nil {
			info.LastRun = string(run.Status)
			info.LastRunAt = run.StartedAt.Format("2006-01-02 15:04:05")
		}
		infos = append(infos, info)
	}

	if cmdCtx.Renderer.IsJSON() {
		return cmdCtx.Renderer.JSON(infos)
	}

	rows := make([]table.Row, 0, len(infos))
	for _, info := range infos {
		lastRun := info.LastRun
		if lastRun == "" {
			lastRun = "never"
		}
		rows = append(rows, table.Row{info.Name, info.Output, info.HasSQL, lastRun, info.LastRunAt})
	}
	cmdCtx.Renderer.Table(table.Row{"Task", "Output", "SQL", "Last Run", "Started"}, rows)
	return nil
}
