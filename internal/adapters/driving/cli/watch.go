package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/relevance/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reindex content as the catalog changes",
	Long: `Watches the catalog directory and reindexes a content type whenever its
file changes. Change events from other publishers on the configured bus
are applied too. Runs until interrupted.`,
	Args:        cobra.NoArgs,
	Annotations: engineAnnotation(),
	RunE:        runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if subscriber == nil || eventBus == nil || catalogWatcher == nil {
		return errors.New("change events not configured")
	}

	ctx := cmd.Context()
	unsubscribe, err := subscriber.Subscribe(eventBus)
	if err != nil {
		return fmt.Errorf("subscribing to changes: %w", err)
	}
	defer unsubscribe()

	cmd.Println("Watching for content changes. Press Ctrl+C to stop.")
	if err := catalogWatcher.Run(ctx, eventBus); err != nil {
		return fmt.Errorf("watching catalog: %w", err)
	}
	return nil
}

// runBackground starts fn in a goroutine tracked by wg, logging its error.
func runBackground(ctx context.Context, wg *sync.WaitGroup, name string, fn func(context.Context) error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := fn(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error(err, "%s stopped", name)
		}
	}()
}
