package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msa123-tech/StudyConnect-AI/internal/core/domain"
)

var (
	askScope   string
	askContext string
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from a scope's materials",
	Long: `Retrieves the chunks closest to the question from the scope's index and
asks the language model to answer using only that material.

Use --context to pass recent discussion that should inform the answer.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askScope, "scope", "s", "", "course or group, e.g. course:12")
	askCmd.Flags().StringVar(&askContext, "context", "", "recent discussion to take into account")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer and sources as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}

	scope, err := parseScope(askScope)
	if err != nil {
		return err
	}

	answer, err := retrievalService.Query(cmd.Context(), scope, args[0], askContext)
	if err != nil {
		return commandError("ask", err)
	}

	if askJSON {
		return outputAskJSON(cmd, answer)
	}

	p := newPrinter(cmd.OutOrStdout())
	cmd.Println(answer.Text)
	if len(answer.Sources) == 0 {
		return nil
	}

	cmd.Println()
	cmd.Println(p.Heading("Sources:"))
	printSources(cmd, p, answer.Sources)
	return nil
}

// sourceJSON is the JSON shape of one retrieved chunk.
type sourceJSON struct {
	Rank       int     `json:"rank"`
	ChunkID    int64   `json:"chunk_id"`
	DocumentID int64   `json:"document_id"`
	Position   int     `json:"position"`
	Distance   float32 `json:"distance"`
	Content    string  `json:"content"`
}

func toSourceJSON(chunks []domain.RetrievedChunk) []sourceJSON {
	out := make([]sourceJSON, len(chunks))
	for i := range chunks {
		out[i] = sourceJSON{
			Rank:       chunks[i].Rank,
			ChunkID:    chunks[i].Chunk.ID,
			DocumentID: chunks[i].Chunk.DocumentID,
			Position:   chunks[i].Chunk.Position,
			Distance:   chunks[i].Distance,
			Content:    chunks[i].Chunk.Content,
		}
	}
	return out
}

func outputAskJSON(cmd *cobra.Command, answer domain.Answer) error {
	data, err := json.MarshalIndent(struct {
		Answer  string       `json:"answer"`
		Sources []sourceJSON `json:"sources"`
	}{
		Answer:  answer.Text,
		Sources: toSourceJSON(answer.Sources),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// printSources lists chunks as "[rank] document N, part P (distance D)".
func printSources(cmd *cobra.Command, p *printer, chunks []domain.RetrievedChunk) {
	for i := range chunks {
		c := chunks[i]
		cmd.Printf("  [%d] document %d, part %d (distance %.4f)\n",
			c.Rank, c.Chunk.DocumentID, c.Chunk.Position+1, c.Distance)
		cmd.Printf("      %s\n", p.Muted(snippet(c.Chunk.Content, 100)))
	}
}
