package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avelis/clinscribe/internal/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GetSessionInput defines the input schema for the get_session tool.
type GetSessionInput struct {
	ID int64 `json:"id" jsonschema:"required,Session id as shown in history"`
}

// NewGetSessionHandler creates the get_session tool handler.
func NewGetSessionHandler(deps *Dependencies) mcp.ToolHandlerFor[GetSessionInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input GetSessionInput) (*mcp.CallToolResult, any, error) {
		if input.ID <= 0 {
			return ErrorResult("Invalid session id", "Use a positive id from the history tool"), nil, nil
		}

		rec, err := deps.Store.Get(ctx, input.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrorResult(fmt.Sprintf("Session %d not found", input.ID),
					"Use the history tool to list stored sessions"), nil, nil
			}
			return ErrorResult("Failed to load session: "+err.Error(), ""), nil, nil
		}

		body, err := json.MarshalIndent(rec, "", "  ")
		if err != nil {
			return ErrorResult("Failed to encode session: "+err.Error(), ""), nil, nil
		}
		return TextResult(string(body)), nil, nil
	}
}
