// Package fs exports artifacts as JSON files on the local file system.
package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"

	"github.com/fwojciec/harvest"
)

// Ensure Exporter implements harvest.Exporter at compile time.
var _ harvest.Exporter = (*Exporter)(nil)

var artifactNameRe = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Exporter writes each artifact as an indented JSON file named after it.
// Files are written to baseDir/name.tmp and moved to baseDir/name on
// Commit, replacing any earlier export.
type Exporter struct {
	baseDir string
	name    string
}

// NewExporter creates an Exporter for the output directory baseDir/name.
func NewExporter(baseDir, name string) *Exporter {
	return &Exporter{
		baseDir: baseDir,
		name:    name,
	}
}

func (e *Exporter) tempDir() string {
	return filepath.Join(e.baseDir, e.name+".tmp")
}

func (e *Exporter) finalDir() string {
	return filepath.Join(e.baseDir, e.name)
}

// Dir returns the directory artifacts are published to.
func (e *Exporter) Dir() string {
	return e.finalDir()
}

// Export writes v to name.json. Names are limited to lowercase letters,
// digits, dashes and underscores.
func (e *Exporter) Export(ctx context.Context, name string, v any) error {
	if !artifactNameRe.MatchString(name) {
		return harvest.Errorf(harvest.EINVALID, "invalid artifact name %q", name)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return harvest.WrapError(harvest.EINVALID, err, "encoding %s", name)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(e.tempDir(), 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(e.tempDir(), name+".json"), data, 0o644)
}

// Commit replaces the output directory with the exported artifacts.
func (e *Exporter) Commit() error {
	if err := os.MkdirAll(e.tempDir(), 0o755); err != nil {
		return err
	}
	if err := os.RemoveAll(e.finalDir()); err != nil {
		return err
	}
	return os.Rename(e.tempDir(), e.finalDir())
}

// Abort removes the exported artifacts without touching the output
// directory.
func (e *Exporter) Abort() error {
	return os.RemoveAll(e.tempDir())
}
