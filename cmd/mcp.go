package cmd

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/agentic-research/cassette/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve module discovery as an MCP tool over stdio",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Debug("serving MCP over stdio", "tool", mcpserver.ToolDiscover)
		return server.ServeStdio(mcpserver.New(Version, logger))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
