package mcp

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions. Parameter names mirror the JSON field names the handlers
// decode, so the schema and the request structs stay in lockstep.

var addToolDef = mcp.NewTool("journal_add",
	mcp.WithDescription("Add a dated journal entry. Entries accumulate per journal; once a journal has enough entries across enough days, journal_reflect can surface a recurring pattern."),
	mcp.WithString("journal",
		mcp.Description("Journal name (default: \"default\")"),
	),
	mcp.WithString("date",
		mcp.Description("Entry date in YYYY-MM-DD form (default: today)"),
	),
	mcp.WithString("body",
		mcp.Required(),
		mcp.Description("Free-form entry text"),
	),
	mcp.WithString("prompt1",
		mcp.Description("Optional guided prompt shown to the writer"),
	),
	mcp.WithString("p1_answer",
		mcp.Description("Answer to prompt1 (requires prompt1)"),
	),
	mcp.WithString("prompt2",
		mcp.Description("Second optional guided prompt"),
	),
	mcp.WithString("p2_answer",
		mcp.Description("Answer to prompt2 (requires prompt2)"),
	),
	mcp.WithBoolean("vent",
		mcp.Description("Mark the entry as a vent; vents never count toward reflection eligibility"),
	),
)

var listToolDef = mcp.NewTool("journal_list",
	mcp.WithDescription("List entry summaries for a journal, newest first, with pagination."),
	mcp.WithString("journal",
		mcp.Description("Journal name (default: \"default\")"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Page size (default 20, max 100)"),
	),
	mcp.WithNumber("offset",
		mcp.Description("Items to skip (default 0)"),
	),
)

var latestToolDef = mcp.NewTool("journal_latest",
	mcp.WithDescription("Get the most recent entry in a journal by entry date. Returns a null item for an empty journal."),
	mcp.WithString("journal",
		mcp.Description("Journal name (default: \"default\")"),
	),
	mcp.WithBoolean("include_text",
		mcp.Description("Include the full entry body (default: false, summary only)"),
	),
)

var deleteToolDef = mcp.NewTool("journal_delete",
	mcp.WithDescription("Permanently delete an entry by ID."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("Entry ULID"),
	),
)

var exportToolDef = mcp.NewTool("journal_export",
	mcp.WithDescription("Export entries to a JSONL file: one header line, then one line per entry, oldest first."),
	mcp.WithString("path",
		mcp.Description("Destination path ending in .jsonl or .json (default: ~/.ripple/exports/<journal>-<timestamp>.jsonl)"),
	),
	mcp.WithString("journal",
		mcp.Description("Export only this journal (default: all journals)"),
	),
)

var reflectToolDef = mcp.NewTool("journal_reflect",
	mcp.WithDescription("Run the pattern reflection over a journal. Returns a speaking outcome with a short reflection when a pattern is visible, or a silent outcome otherwise. Results are cached briefly per journal."),
	mcp.WithString("journal",
		mcp.Description("Journal name (default: \"default\")"),
	),
	mcp.WithBoolean("force_refresh",
		mcp.Description("Bypass the result cache"),
	),
	mcp.WithBoolean("debug",
		mcp.Description("Attach diagnostic detail (reason, source, fingerprint) to the outcome"),
	),
)
