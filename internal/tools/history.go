package tools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// HistoryInput defines the input schema for the history tool.
type HistoryInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Maximum number of sessions to return (0 = all)"`
}

// NewHistoryHandler creates the history tool handler. Sessions are
// listed newest first.
func NewHistoryHandler(deps *Dependencies) mcp.ToolHandlerFor[HistoryInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input HistoryInput) (*mcp.CallToolResult, any, error) {
		summaries, err := deps.Store.ListSummary(ctx)
		if err != nil {
			return ErrorResult("Failed to list sessions: "+err.Error(), ""), nil, nil
		}

		if len(summaries) == 0 {
			return TextResult("No sessions recorded yet"), nil, nil
		}
		if input.Limit > 0 && len(summaries) > input.Limit {
			summaries = summaries[:input.Limit]
		}

		lines := make([]string, 0, len(summaries))
		for _, s := range summaries {
			lines = append(lines, fmt.Sprintf("#%d  %s  %s", s.ID, s.Date, s.Patient))
		}
		return TextResult(FormatResults(lines)), nil, nil
	}
}
