package mcp

import "github.com/mark3labs/mcp-go/mcp"

var analyzeToolDef = mcp.NewTool("site_analyze",
	mcp.WithDescription("Start a background analysis of a web page. Creates or reuses the page's agent session; a page with a complete cached analysis is served without any remote call. Poll site_status for progress."),
	mcp.WithString("url", mcp.Required(), mcp.Description("Page URL to analyze")),
	mcp.WithString("role", mcp.Description("Audience focus: developer, business, researcher, general, or auto (detect from page text)")),
)

var statusToolDef = mcp.NewTool("site_status",
	mcp.WithDescription("Report the analysis status for a page: stored lifecycle state plus whether a background job is running and for how long."),
	mcp.WithString("url", mcp.Required(), mcp.Description("Page URL")),
)

var cancelToolDef = mcp.NewTool("site_cancel",
	mcp.WithDescription("Cancel the in-flight analysis for a page, if any, and reset its stored status to idle."),
	mcp.WithString("url", mcp.Required(), mcp.Description("Page URL")),
)

var askToolDef = mcp.NewTool("site_ask",
	mcp.WithDescription("Ask a question over a page's existing session. Page-scoped questions walk a crawl fallback chain; free-form questions are sent as-is. Question and answer are appended to the transcript."),
	mcp.WithString("url", mcp.Required(), mcp.Description("Page URL")),
	mcp.WithString("question", mcp.Required(), mcp.Description("The question to ask")),
)

var refreshToolDef = mcp.NewTool("site_refresh",
	mcp.WithDescription("Re-run the analysis on a page's existing session. The session is reused, never recreated; duplicate analysis turns are repaired first."),
	mcp.WithString("url", mcp.Required(), mcp.Description("Page URL")),
	mcp.WithString("role", mcp.Description("Audience focus: developer, business, researcher, general, or auto")),
)

var listToolDef = mcp.NewTool("site_list",
	mcp.WithDescription("List all analyzed sites, newest first."),
)

var showToolDef = mcp.NewTool("site_show",
	mcp.WithDescription("Return the full stored record for a page, transcript included."),
	mcp.WithString("url", mcp.Required(), mcp.Description("Page URL or site ID")),
)

var deleteToolDef = mcp.NewTool("site_delete",
	mcp.WithDescription("Delete a page's stored record and transcript."),
	mcp.WithString("url", mcp.Required(), mcp.Description("Page URL or site ID")),
)

var pingToolDef = mcp.NewTool("ping",
	mcp.WithDescription("Liveness check; returns pong."),
)
