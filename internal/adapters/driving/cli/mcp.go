package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/xwb/internal/adapters/driving/mcp"
	"github.com/custodia-labs/xwb/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can import
squads and look up cards.

The catalog, schema and vendor settings are loaded once at startup.

By default, the server communicates over stdio using JSON-RPC. Use --port to
start an HTTP server instead.

Examples:
  # Stdio mode (default, for desktop assistants)
  xwb mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  xwb mcp serve --port 8080

Assistant configuration:
  {
    "mcpServers": {
      "xwb": {
        "command": "/path/to/xwb",
        "args": ["mcp", "serve"]
      }
    }
  }`,
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

	settings, err := currentSettings()
	if err != nil {
		return err
	}

	sess, err := openSession(cmd.Context(), settings)
	if err != nil {
		return err
	}
	logger.Debug("MCP catalog loaded from %s", sess.source)

	ports := &mcp.Ports{
		Import:  sess.importer,
		Catalog: sess.catalog,
	}

	server, err := mcp.NewServer(ports)
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
