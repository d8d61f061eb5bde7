package core

import "time"

// RunStatus represents the status of a lineage computation run.
type RunStatus string

// Run status constants.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run records one lineage computation for a task.
type Run struct {
	ID          string
	TaskName    string
	Status      RunStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string
}

// Store defines the interface for lineage state persistence.
type Store interface {
	Open(path string) error
	Close() error
	Migrate() error

	// Run operations
	CreateRun(taskName string) (*Run, error)
	GetRun(id string) (*Run, error)
	CompleteRun(id string, status RunStatus, errMsg string) error
	GetLatestRun(taskName string) (*Run, error)

	// Lineage operations
	SaveLineage(taskName string, lin *Lineage) error
	GetLineage(taskName string) (*Lineage, error)
	DeleteLineage(taskName string) error
	ListLineageTasks() ([]string, error)
}
