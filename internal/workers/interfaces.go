// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

import (
	"context"
	"time"
)

// Worker is the interface that must be implemented by any background worker.
// Start launches the worker's background loop; it does not block. Stop
// cancels the loop and waits for it to exit. Both are safe to call more
// than once.
type Worker interface {
	Start(ctx context.Context, interval time.Duration)
	Stop()
}
