// Package mcpserver exposes the metrics pipeline as MCP tools so LLM
// assistants can inspect a codebase's design health over stdio.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers the augur analysis tools.
type Server struct {
	server *mcp.Server
}

// NewServer creates an MCP server with the metrics tools and prompts
// registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "augur",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	// Class-level design metrics
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_metrics",
		Description: describeMetrics(),
	}, handleAnalyzeMetrics)

	// Method-level cyclomatic complexity
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_complexity",
		Description: describeComplexity(),
	}, handleAnalyzeComplexity)

	// Full plain-text report
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_report",
		Description: describeReport(),
	}, handleAnalyzeReport)
}
