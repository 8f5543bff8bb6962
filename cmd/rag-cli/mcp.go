package main

import (
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the assistant as an MCP server over stdio",
	Long: `Starts a Model Context Protocol server on stdin/stdout exposing the
ask_assistant, search_knowledge_base and get_index_status tools.

Client configuration:
  {
    "mcpServers": {
      "banking-assistant": {
        "command": "/path/to/rag-cli",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	server, err := a.MCPServer()
	if err != nil {
		return err
	}
	return server.Run(ctx)
}
