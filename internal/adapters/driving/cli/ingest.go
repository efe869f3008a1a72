package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

var (
	ingestScope      string
	ingestUploadedBy int64
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Index files into a course or group",
	Long: `Extracts text from each file, splits it into chunks, embeds the chunks and
appends them to the scope's index.

Supported formats are .txt, .pdf and .docx. Files are processed in order and
the command stops at the first failure; files already indexed stay indexed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestScope, "scope", "s", "", "course or group, e.g. course:12")
	ingestCmd.Flags().Int64Var(&ingestUploadedBy, "uploaded-by", 0, "id of the uploading user")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	scope, err := parseScope(ingestScope)
	if err != nil {
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		result, err := ingestService.Ingest(cmd.Context(), domain.IngestRequest{
			Scope:      scope,
			Filename:   filepath.Base(path),
			Content:    content,
			UploadedBy: ingestUploadedBy,
		})
		if err != nil {
			return commandError("ingesting "+filepath.Base(path), err)
		}

		cmd.Printf("%s %s\n", p.Heading("Indexed"), result.Filename)
		cmd.Printf("  %s\n", p.Muted(fmt.Sprintf("document %d, %d chunks, scope %s", result.DocumentID, result.Chunks, scope)))
	}
	return nil
}
