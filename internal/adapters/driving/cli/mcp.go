package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/msa123-tech/StudyConnect-AI/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so assistants can query course and
group materials.

Tools: ask, summarize, search and ingest_file.
Resources: studyconnect://scopes/{type}/{id}/documents and
studyconnect://documents/{documentId}.

By default the server speaks JSON-RPC over stdio. Use --port to serve the
streamable HTTP transport instead.

Examples:
  # Stdio mode (default)
  studyconnect-rag mcp serve

  # HTTP mode (MCP Inspector, remote access)
  studyconnect-rag mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Retrieval: retrievalService,
		Ingest:    ingestService,
		Document:  documentService,
	})
	if err != nil {
		return err
	}

	stop := startBackgroundVerify(cmd.Context())
	defer stop()

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
