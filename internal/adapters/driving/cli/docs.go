package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var docsScope string

var docsCmd = &cobra.Command{
	Use:     "docs",
	Aliases: []string{"documents"},
	Short:   "Inspect uploaded documents",
	Long:    `List the documents of a course or group and print their extracted chunks.`,
}

var docsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents in a scope",
	Args:  cobra.NoArgs,
	RunE:  runDocsList,
}

var docsShowCmd = &cobra.Command{
	Use:   "show [doc-id]",
	Short: "Print a document's chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocsShow,
}

func init() {
	docsListCmd.Flags().StringVarP(&docsScope, "scope", "s", "", "course or group, e.g. course:12")
	docsCmd.AddCommand(docsListCmd)
	docsCmd.AddCommand(docsShowCmd)
	rootCmd.AddCommand(docsCmd)
}

func runDocsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	scope, err := parseScope(docsScope)
	if err != nil {
		return err
	}

	docs, err := documentService.List(cmd.Context(), scope)
	if err != nil {
		return commandError("listing documents", err)
	}

	if len(docs) == 0 {
		cmd.Printf("No documents in %s.\n", scope)
		return nil
	}

	p := newPrinter(cmd.OutOrStdout())
	cmd.Println(p.Heading(fmt.Sprintf("Documents in %s (%d):", scope, len(docs))))
	cmd.Println()
	for i := range docs {
		cmd.Printf("  [%d] %s\n", docs[i].ID, docs[i].Filename)
		if !docs[i].CreatedAt.IsZero() {
			cmd.Printf("      %s\n", p.Muted("uploaded "+docs[i].CreatedAt.Format("2006-01-02 15:04")))
		}
	}
	return nil
}

func runDocsShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("invalid document id %q", args[0])
	}

	doc, err := documentService.Get(cmd.Context(), id)
	if err != nil {
		return commandError("getting document", err)
	}

	chunks, err := documentService.Chunks(cmd.Context(), id)
	if err != nil {
		return commandError("getting chunks", err)
	}

	p := newPrinter(cmd.OutOrStdout())
	cmd.Println(p.Heading(fmt.Sprintf("Document %d: %s", doc.ID, doc.Filename)))
	cmd.Printf("Scope:  %s\n", doc.Scope)
	cmd.Printf("Chunks: %d\n", len(chunks))
	for i := range chunks {
		cmd.Println()
		cmd.Println(p.Muted(fmt.Sprintf("-- part %d (chunk %d) --", chunks[i].Position+1, chunks[i].ID)))
		cmd.Println(chunks[i].Content)
	}
	return nil
}
