package tools

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// StatsInput defines the input schema for the stats tool.
type StatsInput struct{}

// NewStatsHandler creates the stats tool handler. It reports runtime
// metrics for pipeline operations since the server started.
func NewStatsHandler(deps *Dependencies) mcp.ToolHandlerFor[StatsInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatsInput) (*mcp.CallToolResult, any, error) {
		snap := deps.Metrics.Snapshot()

		body, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return ErrorResult("Failed to encode stats: "+err.Error(), ""), nil, nil
		}
		return TextResult(string(body)), nil, nil
	}
}
