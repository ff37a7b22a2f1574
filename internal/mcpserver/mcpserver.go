// Package mcpserver exposes the analysis over the Model Context Protocol
// so coding agents can request health reports directly.
package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers the vitals analysis tools.
type Server struct {
	server *mcp.Server
}

// NewServer creates an MCP server with all tools registered.
func NewServer(version string) *Server {
	if version == "" {
		version = "dev"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "vitals",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server}
	s.registerTools()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_health",
		Description: describeHealth(),
	}, handleAnalyzeHealth)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_dimension",
		Description: describeDimension(),
	}, handleAnalyzeDimension)
}
