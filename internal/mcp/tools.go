package mcp

import "github.com/mark3labs/mcp-go/mcp"

var rotateToolDef = mcp.NewTool("log_rotate",
	mcp.WithDescription("Rotate the live system log: move every date group dated before today into a per-date archive under Logs/, update the archived-dates index, and record the run."),
	mcp.WithString("today",
		mcp.Description("Override the current date (YYYY-MM-DD). Groups dated before this stay archived; this date's group stays live."),
	),
	mcp.WithBoolean("dry_run",
		mcp.Description("Plan the rotation without writing any file."),
	),
	mcp.WithBoolean("no_backup",
		mcp.Description("Skip the pre-rotation backup copy of the live log."),
	),
)

var appendToolDef = mcp.NewTool("log_append",
	mcp.WithDescription("Append a timestamped entry to the live system log, creating the log if it does not exist."),
	mcp.WithString("summary",
		mcp.Required(),
		mcp.Description("One-line summary of the event."),
	),
	mcp.WithArray("details",
		mcp.Description("Optional detail lines rendered as bullets under the entry."),
		mcp.Items(map[string]any{"type": "string"}),
	),
	mcp.WithString("at",
		mcp.Description("Override the entry time (HH:MM or HH:MM:SS). Defaults to now."),
	),
	mcp.WithString("on",
		mcp.Description("Override the entry date (YYYY-MM-DD). Defaults to today."),
	),
)

var statusToolDef = mcp.NewTool("log_status",
	mcp.WithDescription("Report the live log's rotation status, archived-dates index, and live entry counts."),
)

var archiveListToolDef = mcp.NewTool("archive_list",
	mcp.WithDescription("List archived dates in archive-creation order."),
)

var archiveFetchToolDef = mcp.NewTool("archive_fetch",
	mcp.WithDescription("Fetch one archive document by date."),
	mcp.WithString("date",
		mcp.Required(),
		mcp.Description("Archive date (YYYY-MM-DD)."),
	),
	mcp.WithBoolean("include_text",
		mcp.Description("Include the raw Markdown text of the archive."),
	),
)

var taskCreateToolDef = mcp.NewTool("task_create",
	mcp.WithDescription("File a pending review task for an inbox file in the needs-action folder."),
	mcp.WithString("filename",
		mcp.Required(),
		mcp.Description("Name of the file in the inbox folder (no path separators)."),
	),
)
