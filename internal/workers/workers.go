package workers

import (
	"context"
	"time"
)

// Workers runs a set of background workers as one unit.
type Workers struct {
	workers   []Worker
	intervals []time.Duration
}

// Add registers a worker with its run interval.
func (w *Workers) Add(worker Worker, interval time.Duration) {
	w.workers = append(w.workers, worker)
	w.intervals = append(w.intervals, interval)
}

// Start launches every registered worker.
func (w *Workers) Start(ctx context.Context) {
	for i, worker := range w.workers {
		worker.Start(ctx, w.intervals[i])
	}
}

// Stop stops every registered worker, blocking until all have exited.
func (w *Workers) Stop() {
	for _, worker := range w.workers {
		worker.Stop()
	}
}
