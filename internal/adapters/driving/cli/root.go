// Package cli implements the relevance command line.
package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/relevance/internal/adapters/driven/catalog"
	"github.com/custodia-labs/relevance/internal/adapters/driven/config/file"
	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/core/ports/driven"
	"github.com/custodia-labs/relevance/internal/core/ports/driving"
	"github.com/custodia-labs/relevance/internal/core/services"
	"github.com/custodia-labs/relevance/internal/logger"
)

// annotationEngine marks commands that need the search engine wired.
const annotationEngine = "relevance/engine"

var version = "dev"

// Global flags.
var (
	configDir   string
	verbose     bool
	backendFlag string
	cacheFlag   string
	catalogFlag string
)

// Services shared by commands. bootstrap fills them in; tests assign them directly.
var (
	settingsService driving.SettingsService
	searchService   driving.SearchService
	orchestrator    driving.Orchestrator
	contextService  driving.ContextService
	indexer         driving.Indexer
	scheduler       driving.Scheduler
	subscriber      *services.ChangeSubscriber
	eventBus        driven.EventBus
	catalogWatcher  *catalog.Watcher
	metricsHandler  http.Handler

	settings = domain.DefaultSettings()
)

// bootstrap resolves configuration and wires services before a command runs.
var bootstrap = wire

// activeEngine is the engine opened by bootstrap, closed after Execute.
var activeEngine *engine

var rootCmd = &cobra.Command{
	Use:   "relevance",
	Short: "Content relevance engine for the website chatbot",
	Long: `relevance indexes the website's published content, ranks it against
visitor questions, and assembles the reference context a chat reply is
grounded in.

Configuration is read from ~/.relevance/config.toml, RELEVANCE_* environment
variables and .env files. Flags take precedence over all of them.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return bootstrap(cmd)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.relevance)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&backendFlag, "backend", "", "content repository: sqlite, postgres or memory")
	flags.StringVar(&cacheFlag, "cache", "", "cache substrate: memory or redis")
	flags.StringVar(&catalogFlag, "catalog", "", "catalog directory holding the website export")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command and releases anything it opened.
func Execute(ctx context.Context) error {
	defer closeEngine()
	rootCmd.SetOut(os.Stdout)
	return rootCmd.ExecuteContext(ctx)
}

// flagOverrides maps explicitly set global flags to setting keys.
func flagOverrides(cmd *cobra.Command) map[string]string {
	overrides := make(map[string]string)
	flags := cmd.Flags()

	set := func(flag, key, value string) {
		if f := flags.Lookup(flag); f != nil && f.Changed {
			overrides[key] = value
		}
	}
	set("verbose", "log.verbose", fmt.Sprint(verbose))
	set("backend", "storage.backend", backendFlag)
	set("cache", "cache.backend", cacheFlag)
	set("catalog", "catalog.dir", catalogFlag)
	set("addr", "server.addr", serveAddr)
	return overrides
}

// needsEngine reports whether cmd or one of its parents is annotated.
func needsEngine(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationEngine] == "true" {
			return true
		}
	}
	return false
}

func engineAnnotation() map[string]string {
	return map[string]string{annotationEngine: "true"}
}

// wire loads settings and, for engine commands, opens every backend.
func wire(cmd *cobra.Command) error {
	logger.SetVerbose(verbose)

	dir := configDir
	if dir == "" {
		d, err := file.DefaultDir()
		if err != nil {
			return fmt.Errorf("resolving config directory: %w", err)
		}
		dir = d
	}

	store, err := file.NewConfigStore(dir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}
	svc := services.NewSettingsService(store)
	if err := svc.LoadEnvFile(".env", filepath.Join(dir, ".env")); err != nil {
		return fmt.Errorf("reading .env: %w", err)
	}
	settingsService = svc

	resolved, err := svc.Load(flagOverrides(cmd))
	if err != nil {
		return err
	}
	if resolved.Catalog.Dir == "" {
		resolved.Catalog.Dir = filepath.Join(dir, "catalog")
	}
	if resolved.Storage.DataDir == "" {
		resolved.Storage.DataDir = filepath.Join(dir, "data")
	}
	settings = resolved

	logger.SetFormat(settings.Log.Format)
	logger.SetVerbose(settings.Log.Verbose)

	if !needsEngine(cmd) {
		return nil
	}

	eng, err := openEngine(cmd.Context(), settings)
	if err != nil {
		return err
	}
	activeEngine = eng
	eng.install()
	return nil
}

func closeEngine() {
	if activeEngine == nil {
		return
	}
	if err := activeEngine.Close(); err != nil {
		logger.Warn("closing engine: %v", err)
	}
	activeEngine = nil
}
