package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var (
	summarizeScope string
	summarizeChat  string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarise a scope's materials",
	Long: `Retrieves representative chunks from the scope's index and asks the
language model for a study summary. Recent discussion passed with --chat is
summarised alongside the materials.`,
	Args: cobra.NoArgs,
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeScope, "scope", "s", "", "course or group, e.g. course:12")
	summarizeCmd.Flags().StringVar(&summarizeChat, "chat", "", "recent discussion to include")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	scope, err := parseScope(summarizeScope)
	if err != nil {
		return err
	}

	summary, err := retrievalService.ScopeSummary(cmd.Context(), scope, summarizeChat)
	if err != nil {
		return commandError("summarize", err)
	}

	cmd.Println(summary)
	return nil
}
