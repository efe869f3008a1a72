package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

var (
	searchScope string
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find the closest passages in a scope",
	Long: `Embeds the query and returns the nearest chunks from the scope's index by
squared Euclidean distance, without generating an answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchScope, "scope", "s", "", "course or group, e.g. course:12")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultTopK, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	scope, err := parseScope(searchScope)
	if err != nil {
		return err
	}

	results, err := retrievalService.Search(cmd.Context(), scope, args[0], searchLimit)
	if err != nil {
		return commandError("search", err)
	}

	if searchJSON {
		data, err := json.MarshalIndent(toSourceJSON(results), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	p := newPrinter(cmd.OutOrStdout())
	cmd.Println(p.Heading("Results:"))
	cmd.Println()
	printSources(cmd, p, results)
	return nil
}
