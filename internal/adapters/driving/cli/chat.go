package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/tui"
)

var chatScope string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Launch the interactive study chat",
	Long: `Launch the interactive terminal chat for a course or group.

Questions are answered from the scope's materials and the last few exchanges
are passed along as context. The menu also lists the scope's documents.

Controls:
  Enter    - Ask
  Ctrl+S   - Summarise materials and discussion
  Tab      - Switch between prompt and sources
  Esc      - Menu / Back
  Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatScope, "scope", "s", "", "course or group, e.g. course:12")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if retrievalService == nil || documentService == nil {
		return errors.New("retrieval and document services not configured")
	}

	scope, err := parseScope(chatScope)
	if err != nil {
		return err
	}

	// Start scheduler if enabled (chat is long-running)
	stop := startBackgroundVerify(cmd.Context())
	defer stop()

	app, err := tui.NewApp(tui.NewPorts(retrievalService, documentService), scope)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
