package cli

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/relevance/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/relevance/internal/adapters/driving/mcp"
	"github.com/custodia-labs/relevance/internal/logger"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serves search, context assembly and index administration over HTTP,
with Prometheus metrics on /metrics and the MCP endpoint on /mcp.

The scheduler runs periodic reindexing and context refresh, and change
events on the configured bus are applied as they arrive. Set
catalog.watch to also watch the catalog directory.`,
	Args:        cobra.NoArgs,
	Annotations: engineAnnotation(),
	RunE:        runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server.addr, :8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	mcpServer, err := mcp.NewServer(&mcp.Ports{
		Search:       searchService,
		Orchestrator: orchestrator,
		Contexts:     contextService,
		Indexer:      indexer,
	})
	if err != nil {
		return err
	}

	server, err := httpapi.NewServer(&httpapi.Ports{
		Search:       searchService,
		Orchestrator: orchestrator,
		Contexts:     contextService,
		Indexer:      indexer,
		Metrics:      metricsHandler,
		MCP:          mcpServer.Handler(),
	}, httpapi.DefaultConfig())
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if subscriber != nil && eventBus != nil {
		unsubscribe, err := subscriber.Subscribe(eventBus)
		if err != nil {
			return fmt.Errorf("subscribing to changes: %w", err)
		}
		defer unsubscribe()
	}
	if settings.Catalog.Watch && catalogWatcher != nil && eventBus != nil {
		runBackground(ctx, &wg, "catalog watcher", func(ctx context.Context) error {
			return catalogWatcher.Run(ctx, eventBus)
		})
	}
	if scheduler != nil {
		runBackground(ctx, &wg, "scheduler", scheduler.Start)
		defer func() {
			if err := scheduler.Stop(); err != nil {
				logger.Warn("stopping scheduler: %v", err)
			}
		}()
	}

	cmd.Printf("Serving on %s\n", settings.Server.Addr)
	return server.Run(ctx, settings.Server.Addr)
}
