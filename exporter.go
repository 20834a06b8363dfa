package harvest

import "context"

// Exporter writes named artifacts to an external destination. Artifacts
// become visible together on Commit; Abort discards everything exported
// since the exporter was created.
type Exporter interface {
	// Export serializes v under the artifact name.
	Export(ctx context.Context, name string, v any) error

	// Commit publishes all exported artifacts.
	Commit() error

	// Abort discards all exported artifacts.
	Abort() error
}
