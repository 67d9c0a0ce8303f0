package tools

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterAll registers all tools with the MCP server.
// Called from main after server creation but before Run().
func RegisterAll(server *mcp.Server, deps *Dependencies) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "new_session",
		Description: "Process a clinical session: transcribe audio (or accept a manual transcript), summarize it, and store the record",
	}, NewNewSessionHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "history",
		Description: "List stored sessions, newest first",
	}, NewHistoryHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_session",
		Description: "Retrieve a stored session by id with transcript, summary, and tags",
	}, NewGetSessionHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "export_report",
		Description: "Render a stored session as a PDF or DOCX report and write it to a file",
	}, NewExportReportHandler(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "stats",
		Description: "Report runtime metrics for pipeline operations",
	}, NewStatsHandler(deps))
}
