package mcp

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/ripple/internal/config"
	"github.com/hpungsan/ripple/internal/errors"
	"github.com/hpungsan/ripple/internal/ops"
	"github.com/hpungsan/ripple/internal/pattern"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db     *sql.DB
	cfg    *config.Config
	engine *pattern.Engine
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config, engine *pattern.Engine) *Handlers {
	return &Handlers{db: db, cfg: cfg, engine: engine}
}

// Request types for each tool

// AddRequest represents the arguments for add.
type AddRequest struct {
	Journal  string `json:"journal,omitempty"`
	Date     string `json:"date,omitempty"`
	Body     string `json:"body"`
	Prompt1  string `json:"prompt1,omitempty"`
	Prompt2  string `json:"prompt2,omitempty"`
	P1Answer string `json:"p1_answer,omitempty"`
	P2Answer string `json:"p2_answer,omitempty"`
	Vent     bool   `json:"vent,omitempty"`
}

// ListRequest represents the arguments for list.
type ListRequest struct {
	Journal string `json:"journal,omitempty"`
	Limit   int    `json:"limit,omitempty"`
	Offset  int    `json:"offset,omitempty"`
}

// LatestRequest represents the arguments for latest.
type LatestRequest struct {
	Journal     string `json:"journal,omitempty"`
	IncludeText *bool  `json:"include_text,omitempty"`
}

// DeleteRequest represents the arguments for delete.
type DeleteRequest struct {
	ID string `json:"id"`
}

// ExportRequest represents the arguments for export.
type ExportRequest struct {
	Path    string `json:"path,omitempty"`
	Journal string `json:"journal,omitempty"`
}

// ReflectRequest represents the arguments for reflect.
type ReflectRequest struct {
	Journal      string `json:"journal,omitempty"`
	ForceRefresh bool   `json:"force_refresh,omitempty"`
	Debug        bool   `json:"debug,omitempty"`
}

// Handler implementations

// HandleAdd handles the add tool call.
func (h *Handlers) HandleAdd(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[AddRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Add(h.db, h.cfg, ops.AddInput{
		Journal:  input.Journal,
		Date:     input.Date,
		Body:     input.Body,
		Prompt1:  input.Prompt1,
		Prompt2:  input.Prompt2,
		P1Answer: input.P1Answer,
		P2Answer: input.P2Answer,
		Vent:     input.Vent,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleList handles the list tool call.
func (h *Handlers) HandleList(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ListRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.List(h.db, ops.ListInput{
		Journal: input.Journal,
		Limit:   input.Limit,
		Offset:  input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleLatest handles the latest tool call.
func (h *Handlers) HandleLatest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LatestRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Latest(h.db, ops.LatestInput{
		Journal:     input.Journal,
		IncludeText: input.IncludeText,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleDelete handles the delete tool call.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[DeleteRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Delete(h.db, ops.DeleteInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Export(ctx, h.db, h.cfg, ops.ExportInput{
		Path:    input.Path,
		Journal: input.Journal,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleReflect handles the reflect tool call.
func (h *Handlers) HandleReflect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ReflectRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Reflect(ctx, h.db, h.engine, ops.ReflectInput{
		Journal:      input.Journal,
		ForceRefresh: input.ForceRefresh,
		Debug:        input.Debug,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Note: Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if rippleErr, ok := err.(*errors.RippleError); ok {
		errorObj := map[string]any{
			"code":    rippleErr.Code,
			"message": rippleErr.Message,
			"status":  rippleErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if rippleErr.Code != errors.ErrInternal && rippleErr.Details != nil {
			errorObj["details"] = rippleErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
