package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/annotate-cli/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve [files...]",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can inspect
and navigate a workspace.

Files given on the command line are loaded before the server starts.
Assistants can load more with the load_file tool.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead, which enables:
  - Testing with MCP Inspector web UI
  - Remote access via HTTP

Examples:
  # Stdio mode (default)
  annotate mcp serve photo.png labels.txt

  # HTTP mode (for MCP Inspector, remote access)
  annotate mcp serve --port 8080`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if workspaceService == nil {
		return errors.New("workspace not configured")
	}
	if len(args) > 0 {
		if err := loadFiles(cmd.Context(), args); err != nil {
			return err
		}
	}

	server, err := mcp.NewServer(&mcp.Ports{
		Workspace: workspaceService,
		Loader:    loaderService,
	})
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
