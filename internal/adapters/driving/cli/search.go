package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/relevance/internal/core/domain"
	"github.com/custodia-labs/relevance/internal/logger"
)

var (
	searchLimit    int
	searchTypes    []string
	searchJSON     bool
	searchFallback bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search indexed content",
	Long: `Ranks indexed website content against a query.

The repository's full-text ranker weights titles above body text and
understands web-search syntax: quoted phrases, OR, and -negation.
When the ranker is unavailable, or with --fallback, results come from
keyword scoring over titles, bodies, keywords and priority instead.`,
	Args:        cobra.ExactArgs(1),
	Annotations: engineAnnotation(),
	RunE:        runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().StringSliceVarP(&searchTypes, "type", "t", nil, "restrict to content types")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchFallback, "fallback", false, "use keyword scoring only")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	types, err := domain.ParseContentTypes(searchTypes)
	if err != nil {
		return fmt.Errorf("invalid --type %v: %w", searchTypes, err)
	}
	opts := domain.SearchOptions{
		Limit:        searchLimit,
		ContentTypes: types,
	}

	ctx := cmd.Context()
	var results []domain.SearchResult
	if searchFallback {
		results, err = searchService.KeywordSearch(ctx, query, opts)
	} else {
		results, err = searchService.Search(ctx, query, opts)
		if errors.Is(err, domain.ErrBackendUnavailable) {
			logger.Warn("Ranker unavailable, using keyword scoring: %v", err)
			results, err = searchService.KeywordSearch(ctx, query, opts)
		}
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	return outputSearchTable(cmd, results)
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	formatted := make([]domain.FormattedResult, len(results))
	for i, r := range results {
		formatted[i] = r.Format()
	}
	data, err := json.MarshalIndent(formatted, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	width := terminalWidth(cmd.OutOrStdout())

	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		c := results[i].Content
		title := c.Title
		if title == "" {
			title = c.Key().String()
		}

		cmd.Printf("  [%d] %s (%.2f)\n", i+1, title, results[i].Score)
		cmd.Printf("      %s", c.ContentType)
		if c.URL != "" {
			cmd.Printf("  %s", c.URL)
		}
		cmd.Println()
		if summary := c.DisplaySummary(domain.SummaryFallbackLength); summary != "" {
			for _, line := range wrap(summary, width-6) {
				cmd.Printf("      %s\n", line)
			}
		}
		cmd.Println()
	}
	return nil
}
