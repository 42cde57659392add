package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	contextFindLimit int
	seedForce        bool
	seedSections     []string
)

var contextCmd = &cobra.Command{
	Use:         "context",
	Short:       "Manage curated context sections",
	Long:        `Curated sections are administrator-authored topic blocks (services, pricing, contact and so on) used when indexed content does not answer a message.`,
	Annotations: engineAnnotation(),
}

var contextListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active sections",
	Args:  cobra.NoArgs,
	RunE:  runContextList,
}

var contextShowCmd = &cobra.Command{
	Use:   "show [section]",
	Short: "Print a section's content",
	Args:  cobra.ExactArgs(1),
	RunE:  runContextShow,
}

var contextFindCmd = &cobra.Command{
	Use:   "find [message]",
	Short: "Rank sections by keyword overlap with a message",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runContextFind,
}

var contextSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the default sections",
	Long: `Writes the nine default sections (intro, company, services, working,
faqs, pricing, contact, policies, emergency). Existing sections are kept
unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runContextSeed,
}

func init() {
	contextFindCmd.Flags().IntVarP(&contextFindLimit, "limit", "n", 3, "maximum number of sections")
	contextSeedCmd.Flags().BoolVar(&seedForce, "force", false, "overwrite existing sections")
	contextSeedCmd.Flags().StringSliceVar(&seedSections, "section", nil, "seed only these sections")

	contextCmd.AddCommand(contextListCmd)
	contextCmd.AddCommand(contextShowCmd)
	contextCmd.AddCommand(contextFindCmd)
	contextCmd.AddCommand(contextSeedCmd)
	rootCmd.AddCommand(contextCmd)
}

func runContextList(cmd *cobra.Command, _ []string) error {
	if contextService == nil {
		return errors.New("context service not configured")
	}

	sections := contextService.List(cmd.Context())
	if len(sections) == 0 {
		cmd.Println("No active sections. Run 'relevance context seed'.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tSECTION\tTITLE\tSIZE")
	for _, s := range sections {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", s.DisplayOrder, s.Section, s.Title, len(s.Content))
	}
	return w.Flush()
}

func runContextShow(cmd *cobra.Command, args []string) error {
	if contextService == nil {
		return errors.New("context service not configured")
	}

	meta, ok := contextService.Metadata(cmd.Context(), args[0])
	if !ok {
		return fmt.Errorf("section not found: %s", args[0])
	}
	content, _ := contextService.GetContextContent(cmd.Context(), args[0])

	cmd.Printf("# %s\n", meta.Title)
	if len(meta.Keywords) > 0 {
		cmd.Printf("Keywords: %s\n", strings.Join(meta.Keywords, ", "))
	}
	cmd.Println()
	cmd.Println(content)
	return nil
}

func runContextFind(cmd *cobra.Command, args []string) error {
	if contextService == nil {
		return errors.New("context service not configured")
	}

	message := strings.Join(args, " ")
	matches := contextService.FindRelevant(cmd.Context(), message, contextFindLimit)
	if len(matches) == 0 {
		cmd.Println("No matching sections.")
		return nil
	}

	for i, m := range matches {
		cmd.Printf("  [%d] %s - %s (%.2f)\n", i+1, m.Section.Section, m.Section.Title, m.Score)
	}
	return nil
}

func runContextSeed(cmd *cobra.Command, _ []string) error {
	if contextService == nil {
		return errors.New("context service not configured")
	}

	result, err := contextService.Seed(cmd.Context(), seedForce, seedSections)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	cmd.Printf("Created %d, updated %d, skipped %d sections.\n", result.Created, result.Updated, result.Skipped)
	return nil
}
