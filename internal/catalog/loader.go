package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fathomdata/fathom/pkg/core"
)

// fileFormat is the on-disk YAML shape of a catalog file.
type fileFormat struct {
	Domains []domainEntry `yaml:"domains"`
	Tasks   []core.Task   `yaml:"tasks"`
}

type domainEntry struct {
	Name   string       `yaml:"name"`
	Tables []tableEntry `yaml:"tables"`
}

type tableEntry struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
}

// LoadFile reads a catalog file: the known domains/tables/columns plus the
// task descriptors. Every task's output table is registered as a task name
// in the returned snapshot, so references to it in other tasks' SQL are
// classified as task outputs rather than raw tables.
func LoadFile(path string) (*Snapshot, []core.Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse parses catalog YAML content.
func Parse(data []byte) (*Snapshot, []core.Task, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}

	b := NewBuilder()
	for _, d := range f.Domains {
		for _, t := range d.Tables {
			b.AddTable(d.Name, t.Name, t.Columns)
		}
	}

	for i, task := range f.Tasks {
		if task.Name == "" || task.Domain == "" || task.Table == "" {
			return nil, nil, fmt.Errorf("task %d: name, domain and table are required", i)
		}
		b.AddTask(task.FullName())
	}

	return b.Build(), f.Tasks, nil
}
