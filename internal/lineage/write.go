package lineage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/fathomdata/fathom/pkg/core"
)

// Write serializes a lineage document as JSON and persists it to path.
// The write is atomic: the document is written to a temp file in the
// target directory and renamed over the destination, so a failure never
// leaves a partially written document behind.
func Write(lin *core.Lineage, path string) error {
	data, err := json.MarshalIndent(lin, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal lineage: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".lineage-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write lineage: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write lineage: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to persist lineage: %w", err)
	}
	return nil
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_]`)

// SanitizeName makes a task name safe for use as a file name: "$" maps
// to "S", every other character outside [a-zA-Z0-9-_] (including
// non-ASCII) maps to "_".
func SanitizeName(name string) string {
	replaced := make([]byte, 0, len(name))
	for _, b := range []byte(name) {
		if b == '$' {
			replaced = append(replaced, 'S')
		} else {
			replaced = append(replaced, b)
		}
	}
	return unsafeNameChars.ReplaceAllString(string(replaced), "_")
}
