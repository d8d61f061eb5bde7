package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fathomdata/fathom/internal/catalog"
	"github.com/fathomdata/fathom/internal/cli/output"
	"github.com/fathomdata/fathom/internal/config"
	"github.com/fathomdata/fathom/internal/lineage"
	"github.com/fathomdata/fathom/internal/provenance"
	"github.com/fathomdata/fathom/internal/state"
	"github.com/fathomdata/fathom/pkg/core"
)

// Context keys for dependencies injected by the root command.
type (
	configKey   struct{}
	loggerKey   struct{}
	rendererKey struct{}
)

// WithConfig stores the resolved configuration in the context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// WithLogger stores the logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// WithRenderer stores the renderer in the context.
func WithRenderer(ctx context.Context, r *output.Renderer) context.Context {
	return context.WithValue(ctx, rendererKey{}, r)
}

// GetConfig retrieves the configuration from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return cfg
	}
	cfg, err := config.Load("", nil)
	if err != nil {
		return &config.Config{}
	}
	return cfg
}

// GetLogger retrieves the logger from the command context.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.New(slog.DiscardHandler)
}

// GetRenderer retrieves the renderer from the command context.
func GetRenderer(ctx context.Context) *output.Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	return output.NewRenderer(os.Stdout, os.Stderr, output.ModeText)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
	Snapshot *catalog.Snapshot
	Tasks    []core.Task
}

// NewCommandContext loads the catalog and bundles config, logger and
// renderer for a command.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := GetConfig(cmd.Context())
	logger := GetLogger(cmd.Context())
	r := GetRenderer(cmd.Context())

	snap, tasks, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	logger.Debug("catalog loaded",
		"path", cfg.CatalogPath,
		"tables", snap.TableCount(),
		"tasks", snap.TaskCount())

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
		Snapshot: snap,
		Tasks:    tasks,
	}, nil
}

// findTask locates a task by name or full name.
func (c *CommandContext) findTask(name string) (core.Task, error) {
	for _, t := range c.Tasks {
		if t.Name == name || t.FullName() == name {
			return t, nil
		}
	}
	return core.Task{}, fmt.Errorf("task not found: %s", name)
}

// resolverFor loads the resolution artifact for a task and wraps it as
// a resolver. A no-SQL task never consults its artifact, so a missing
// file is only an error when the task has SQL.
func (c *CommandContext) resolverFor(task core.Task) (provenance.Resolver, error) {
	if task.SQL == "" {
		return provenance.Static(nil), nil
	}

	path := filepath.Join(c.Cfg.ResolutionsDir, lineage.SanitizeName(task.Name)+".json")
	cols, err := provenance.LoadResolutionFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load resolution for task %s: %w", task.Name, err)
	}
	return provenance.Static(cols), nil
}

// computeLineage resolves and assembles the lineage document for a task.
func (c *CommandContext) computeLineage(ctx context.Context, task core.Task) (*core.Lineage, error) {
	resolver, err := c.resolverFor(task)
	if err != nil {
		return nil, err
	}
	asm := lineage.NewAssembler(c.Snapshot, c.Logger)
	return asm.Compute(ctx, task, resolver)
}

// lineagePath returns the output file path for a task's lineage document.
func (c *CommandContext) lineagePath(task core.Task) string {
	return filepath.Join(c.Cfg.OutputDir, lineage.SanitizeName(task.Name)+".json")
}

// openStore opens the state database, creating its directory and
// applying migrations.
func (c *CommandContext) openStore() (*state.SQLiteStore, error) {
	dir := filepath.Dir(c.Cfg.StatePath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore()
	if err := store.Open(c.Cfg.StatePath); err != nil {
		return nil, err
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}
