package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/corvidae/augur/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes augur's metrics
as tools that LLMs can invoke. This enables AI assistants to inspect a
codebase's class design health and complexity.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "augur": {
        "command": "augur",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_metrics       Per-class DIT, CBO, LCOM, method count, and flags
  - analyze_complexity    Per-method cyclomatic complexity and grades
  - analyze_report        The full four-section text report`,
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	server := mcpserver.NewServer(version)
	return server.Run(context.Background())
}
