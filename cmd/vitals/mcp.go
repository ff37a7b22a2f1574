package main

import (
	"context"

	"github.com/urfave/cli/v2"

	"github.com/avelaro/vitals/internal/mcpserver"
)

func mcpCmd() *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Start MCP (Model Context Protocol) server for LLM tool integration",
		Description: `Starts an MCP server over stdio transport that exposes the health
analysis as tools that LLMs can invoke. This enables AI assistants to
score a codebase and request remediation priorities directly.

To use with Claude Desktop, add to your config:
  {
    "mcpServers": {
      "vitals": {
        "command": "vitals",
        "args": ["mcp"]
      }
    }
  }

Available tools:
  - analyze_health     Full multi-dimensional health report
  - analyze_dimension  Single-dimension deep dive`,
		Action: runMCPCmd,
	}
}

func runMCPCmd(c *cli.Context) error {
	server := mcpserver.NewServer(version)
	return server.Run(context.Background())
}
