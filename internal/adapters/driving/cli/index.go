package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/relevance/internal/core/domain"
)

var (
	indexTypes []string
	indexClear bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index website content",
	Long: `Reads every published record from the catalog, normalises it, and
upserts it into the content repository. Records that no longer exist in
the catalog are pruned.

Use --type to index selected content types only, and --clear to drop
their indexed rows first.`,
	Args:        cobra.NoArgs,
	Annotations: engineAnnotation(),
	RunE:        runIndex,
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show indexed content counts per type",
	Args:  cobra.NoArgs,
	RunE:  runIndexStats,
}

var indexRemoveCmd = &cobra.Command{
	Use:   "remove [content-type] [source-id]",
	Short: "Remove one indexed record",
	Args:  cobra.ExactArgs(2),
	RunE:  runIndexRemove,
}

func init() {
	indexCmd.Flags().StringSliceVarP(&indexTypes, "type", "t", nil, "content types to index (default all)")
	indexCmd.Flags().BoolVar(&indexClear, "clear", false, "remove indexed rows before indexing")
	indexCmd.AddCommand(indexStatsCmd)
	indexCmd.AddCommand(indexRemoveCmd)
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if indexer == nil {
		return errors.New("indexer not configured")
	}

	types, err := domain.ParseContentTypes(indexTypes)
	if err != nil {
		return fmt.Errorf("invalid --type %v: %w", indexTypes, err)
	}
	ctx := cmd.Context()

	if indexClear {
		removed, err := indexer.Clear(ctx, types)
		if err != nil {
			return fmt.Errorf("clear failed: %w", err)
		}
		cmd.Printf("Cleared %d indexed records.\n", removed)
	}

	var total domain.IndexStats
	if len(types) == 0 {
		cmd.Println("Indexing all content types...")
		total, err = indexer.IndexAll(ctx)
	} else {
		var errs []error
		for _, t := range types {
			cmd.Printf("Indexing %s...\n", t)
			stats, typeErr := indexer.IndexContentType(ctx, t)
			total.Add(stats)
			if typeErr != nil {
				errs = append(errs, fmt.Errorf("%s: %w", t, typeErr))
			}
		}
		err = errors.Join(errs...)
	}

	printIndexStats(cmd, total)
	if err != nil {
		return fmt.Errorf("index failed: %w", err)
	}
	return nil
}

func printIndexStats(cmd *cobra.Command, stats domain.IndexStats) {
	cmd.Printf("Indexed %d, updated %d, deleted %d, errors %d.\n",
		stats.Indexed, stats.Updated, stats.Deleted, stats.Errors)
}

func runIndexStats(cmd *cobra.Command, _ []string) error {
	if indexer == nil {
		return errors.New("indexer not configured")
	}

	stats, err := indexer.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}
	if len(stats) == 0 {
		cmd.Println("Nothing indexed yet. Run 'relevance index'.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tTOTAL\tSEARCHABLE")
	var total, searchable int
	for _, s := range stats {
		fmt.Fprintf(w, "%s\t%d\t%d\n", s.ContentType, s.Total, s.Searchable)
		total += s.Total
		searchable += s.Searchable
	}
	fmt.Fprintf(w, "all\t%d\t%d\n", total, searchable)
	return w.Flush()
}

func runIndexRemove(cmd *cobra.Command, args []string) error {
	if indexer == nil {
		return errors.New("indexer not configured")
	}

	ct := domain.ContentType(args[0])
	if !ct.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrUnknownContentType, args[0])
	}
	if err := indexer.RemoveRecord(cmd.Context(), ct, args[1]); err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}
	cmd.Printf("Removed %s %s.\n", ct, args[1])
	return nil
}
