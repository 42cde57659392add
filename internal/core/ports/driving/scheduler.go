package driving

import "context"

// Scheduler runs the periodic content reindex and context refresh.
type Scheduler interface {
	// Start checks for due tasks until ctx is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop ends the loop and waits for running tasks to finish.
	Stop() error
}
