// Package mcpserver exposes module discovery as an MCP tool so agents can ask
// what a bundle configuration resolves to.
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/agentic-research/cassette/internal/app"
)

// ToolDiscover is the name of the discovery tool.
const ToolDiscover = "discover_modules"

// New creates an MCP server with the discovery tool registered.
func New(version string, logger *log.Logger) *server.MCPServer {
	s := server.NewMCPServer("cassette", version, server.WithToolCapabilities(false))
	s.AddTool(discoverTool(), HandleDiscover(logger))
	return s
}

func discoverTool() mcp.Tool {
	return mcp.NewTool(ToolDiscover,
		mcp.WithDescription("Resolve a bundle configuration against its asset root and list the discovered modules, one per line as <source>\\t<module>\\t<asset>."),
		mcp.WithString("config",
			mcp.Required(),
			mcp.Description("Path to a .hcl or .json bundle configuration"),
		),
		mcp.WithString("root",
			mcp.Description("Asset root directory; overrides the configured root"),
		),
		mcp.WithString("select",
			mcp.Description("JSONPath selecting source objects in a JSON configuration"),
		),
	)
}

// HandleDiscover runs discovery for one tool call. Discovery failures are
// reported as tool errors rather than protocol errors.
func HandleDiscover(logger *log.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		configPath, err := req.RequireString("config")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		a, b, err := app.Load(configPath, req.GetString("root", ""), req.GetString("select", ""), logger)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		found, err := a.Discover(b)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var sb strings.Builder
		for _, d := range found {
			for _, asset := range d.Module.Assets() {
				fmt.Fprintf(&sb, "%s\t%s\t%s\n", d.Source, d.Module.Path(), asset.Path())
			}
		}
		if sb.Len() == 0 {
			return mcp.NewToolResultText("no modules discovered"), nil
		}
		return mcp.NewToolResultText(sb.String()), nil
	}
}
