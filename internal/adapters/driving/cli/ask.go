package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Build the reply context for a chat message",
	Long: `Prints the context a chat reply to this message would be grounded in.

Indexed content is tried first, then topic sections, booking and sales
vocabulary, the default section, and finally the built-in company
description. The output is never empty.`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: engineAnnotation(),
	RunE:        runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the tier, section and contact details as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if orchestrator == nil {
		return errors.New("orchestrator not configured")
	}

	message := strings.Join(args, " ")
	result := orchestrator.Explain(cmd.Context(), message)

	if askJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal context: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if result.Section != "" {
		cmd.PrintErrf("tier: %s (section %s)\n", result.Tier, result.Section)
	} else {
		cmd.PrintErrf("tier: %s\n", result.Tier)
	}
	if result.Contact.IsLead() {
		cmd.PrintErrf("lead: %s\n", result.Contact.Name)
	}
	cmd.Println(result.Context)
	return nil
}
