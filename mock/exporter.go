package mock

import (
	"context"

	"github.com/fwojciec/harvest"
)

var _ harvest.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of harvest.Exporter.
type Exporter struct {
	ExportFn func(ctx context.Context, name string, v any) error
	CommitFn func() error
	AbortFn  func() error
}

func (e *Exporter) Export(ctx context.Context, name string, v any) error {
	return e.ExportFn(ctx, name, v)
}

func (e *Exporter) Commit() error {
	return e.CommitFn()
}

func (e *Exporter) Abort() error {
	return e.AbortFn()
}
