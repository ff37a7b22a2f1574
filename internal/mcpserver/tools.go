package mcpserver

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	toon "github.com/toon-format/toon-go"

	"github.com/avelaro/vitals/pkg/analyzer/health"
	"github.com/avelaro/vitals/pkg/config"
	"github.com/avelaro/vitals/pkg/models"
)

// HealthInput is the input for the full multi-dimensional analysis.
type HealthInput struct {
	Path       string   `json:"path,omitempty" jsonschema:"Project path to analyze. Defaults to current directory."`
	Dimensions []string `json:"dimensions,omitempty" jsonschema:"Dimensions to analyze: maintainability, performance, security, scalability, reusability. Empty means all."`
}

// DimensionInput is the input for a single-dimension analysis.
type DimensionInput struct {
	Path      string `json:"path,omitempty" jsonschema:"Project path to analyze. Defaults to current directory."`
	Dimension string `json:"dimension" jsonschema:"The dimension to analyze: maintainability, performance, security, scalability, or reusability."`
}

func toolResult(data any) (*mcp.CallToolResult, any, error) {
	out, err := toon.Marshal(data, toon.WithIndent(2))
	if err != nil {
		return nil, nil, err
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(out)},
		},
	}, nil, nil
}

func toolError(msg string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: "Error: " + msg},
		},
		IsError: true,
	}, nil, nil
}

func handleAnalyzeHealth(ctx context.Context, req *mcp.CallToolRequest, input HealthInput) (*mcp.CallToolResult, any, error) {
	path := input.Path
	if path == "" {
		path = "."
	}

	dims, err := models.ParseDimensions(strings.Join(input.Dimensions, ","))
	if err != nil {
		return toolError(err.Error())
	}

	analyzer := health.New(config.LoadOrDefault())
	report, err := analyzer.Analyze(ctx, path, dims, nil)
	if err != nil {
		return toolError(err.Error())
	}

	return toolResult(report)
}

func handleAnalyzeDimension(ctx context.Context, req *mcp.CallToolRequest, input DimensionInput) (*mcp.CallToolResult, any, error) {
	path := input.Path
	if path == "" {
		path = "."
	}

	dims, err := models.ParseDimensions(input.Dimension)
	if err != nil {
		return toolError(err.Error())
	}

	analyzer := health.New(config.LoadOrDefault())
	report, err := analyzer.Analyze(ctx, path, dims, nil)
	if err != nil {
		return toolError(err.Error())
	}

	// Return just the requested dimension plus run metadata
	out := struct {
		Meta      models.Meta             `json:"meta" toon:"meta"`
		Dimension *models.DimensionResult `json:"dimension" toon:"dimension"`
	}{report.Meta, report.Dimensions[dims[0]]}
	return toolResult(out)
}
