package tools

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/avelis/clinscribe/internal/report"
	"github.com/avelis/clinscribe/internal/store"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ExportReportInput defines the input schema for the export_report tool.
type ExportReportInput struct {
	ID     int64  `json:"id" jsonschema:"required,Session id as shown in history"`
	Output string `json:"output,omitempty" jsonschema:"Output file path; defaults to session_<id>.<ext>"`
	Format string `json:"format,omitempty" jsonschema:"Report format: pdf (default) or docx"`
}

// NewExportReportHandler creates the export_report tool handler. It
// rebuilds the report document from the stored record and writes it to
// disk.
func NewExportReportHandler(deps *Dependencies) mcp.ToolHandlerFor[ExportReportInput, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ExportReportInput) (*mcp.CallToolResult, any, error) {
		if input.ID <= 0 {
			return ErrorResult("Invalid session id", "Use a positive id from the history tool"), nil, nil
		}

		renderer, err := report.RendererFor(input.Format)
		if err != nil {
			return ErrorResult(err.Error(), "Use format pdf or docx"), nil, nil
		}

		rec, err := deps.Store.Get(ctx, input.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrorResult(fmt.Sprintf("Session %d not found", input.ID),
					"Use the history tool to list stored sessions"), nil, nil
			}
			return ErrorResult("Failed to load session: "+err.Error(), ""), nil, nil
		}

		out, err := renderer.Render(report.BuildFromRecord(rec, nil))
		if err != nil {
			return ErrorResult("Failed to render report: "+err.Error(), ""), nil, nil
		}

		path := input.Output
		if path == "" {
			path = fmt.Sprintf("session_%d.%s", rec.ID, renderer.Ext())
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return ErrorResult("Failed to write report: "+err.Error(), ""), nil, nil
		}

		deps.Logger.Info("report exported", "id", rec.ID, "path", path)
		return TextResult(fmt.Sprintf("Report for session %d written to %s", rec.ID, path)), nil, nil
	}
}
