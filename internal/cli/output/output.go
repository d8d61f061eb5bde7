// Package output renders command results as text tables or JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/fathomdata/fathom/pkg/core"
)

// Mode selects the rendering format.
type Mode string

// Rendering modes.
const (
	ModeText Mode = "text"
	ModeJSON Mode = "json"
)

// Renderer writes command output in the selected mode.
type Renderer struct {
	out  io.Writer
	errW io.Writer
	mode Mode
}

// NewRenderer creates a renderer. An unknown mode falls back to text.
func NewRenderer(out, errW io.Writer, mode Mode) *Renderer {
	if mode != ModeJSON {
		mode = ModeText
	}
	return &Renderer{out: out, errW: errW, mode: mode}
}

// IsJSON reports whether the renderer is in JSON mode.
func (r *Renderer) IsJSON() bool {
	return r.mode == ModeJSON
}

// JSON writes v as indented JSON regardless of mode.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Lineage renders a lineage document: JSON mode emits the document
// itself, text mode a table per section.
func (r *Renderer) Lineage(taskName string, lin *core.Lineage) error {
	if r.IsJSON() {
		return r.JSON(lin)
	}

	fmt.Fprintf(r.out, "Lineage for %s\n\n", taskName)

	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.AppendHeader(table.Row{"Table", "Columns", "Task Output"})
	for _, t := range lin.Tables {
		tw.AppendRow(table.Row{t.FullName(), len(t.Columns), t.IsTask})
	}
	tw.Render()

	fmt.Fprintln(r.out)

	rw := table.NewWriter()
	rw.SetOutputMirror(r.out)
	rw.AppendHeader(table.Row{"From", "To", "Expression"})
	for _, rel := range lin.Relations {
		rw.AppendRow(table.Row{
			columnRef(rel.From),
			columnRef(rel.To),
			rel.Expression,
		})
	}
	rw.Render()
	return nil
}

// Table renders a header plus rows as a text table.
func (r *Renderer) Table(header table.Row, rows []table.Row) {
	tw := table.NewWriter()
	tw.SetOutputMirror(r.out)
	tw.AppendHeader(header)
	tw.AppendRows(rows)
	tw.Render()
}

// List renders a titled list of items.
func (r *Renderer) List(title string, items []string) error {
	if r.IsJSON() {
		return r.JSON(map[string]any{"title": title, "items": items})
	}
	fmt.Fprintf(r.out, "%s (%d):\n", title, len(items))
	for _, item := range items {
		fmt.Fprintf(r.out, "  - %s\n", item)
	}
	return nil
}

// Successf writes a progress message to stdout in text mode.
func (r *Renderer) Successf(format string, args ...any) {
	if r.IsJSON() {
		return
	}
	fmt.Fprintf(r.out, format+"\n", args...)
}

// Errorf writes a message to stderr.
func (r *Renderer) Errorf(format string, args ...any) {
	fmt.Fprintf(r.errW, format+"\n", args...)
}

func columnRef(c core.Column) string {
	if c.Domain == "" {
		return c.Table + "." + c.Column
	}
	return c.Domain + "." + c.Table + "." + c.Column
}
