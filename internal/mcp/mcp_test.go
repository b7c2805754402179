package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/ripple/internal/config"
	"github.com/hpungsan/ripple/internal/db"
	"github.com/hpungsan/ripple/internal/errors"
	"github.com/hpungsan/ripple/internal/pattern"
)

// testSetup creates a temporary database and config for testing.
func testSetup(t *testing.T) (*sql.DB, *config.Config) {
	t.Helper()

	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true // Allow temp dirs in tests

	return database, cfg
}

// testHandlers builds Handlers backed by a canned reflection client.
func testHandlers(t *testing.T) (*Handlers, *sql.DB, *config.Config) {
	t.Helper()
	database, cfg := testSetup(t)
	engine := pattern.NewEngine(cannedClient{})
	return NewHandlers(database, cfg, engine), database, cfg
}

// cannedClient always reports a visible pattern.
type cannedClient struct{}

func (cannedClient) Generate(_ context.Context, _ pattern.PromptRequest) (*pattern.Reply, error) {
	return &pattern.Reply{
		ModelName:    "gemini-2.5-flash",
		Text:         `{"shouldSpeak": true, "reflection": "Short walks keep showing up on better days.", "themes": ["walks"], "timeRange": "over the past week", "invitation": null}`,
		FinishReason: "STOP",
		PartsCount:   1,
	}, nil
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// TestHandleAdd tests the add handler.
func TestHandleAdd(t *testing.T) {
	h, _, _ := testHandlers(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		args      map[string]any
		wantError bool
		errorCode string
	}{
		{
			name: "add valid entry",
			args: map[string]any{
				"journal": "test",
				"date":    "2026-01-05",
				"body":    "walked before work",
			},
			wantError: false,
		},
		{
			name:      "add without body",
			args:      map[string]any{"journal": "test"},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "add with bad date",
			args: map[string]any{
				"body": "x",
				"date": "next tuesday",
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
		{
			name: "add vent entry",
			args: map[string]any{
				"body": "rough afternoon",
				"vent": true,
			},
			wantError: false,
		},
		{
			name: "add answer without prompt",
			args: map[string]any{
				"body":      "x",
				"p1_answer": "an answer",
			},
			wantError: true,
			errorCode: "INVALID_REQUEST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := h.HandleAdd(ctx, makeRequest(tt.args))
			if err != nil {
				t.Fatalf("handler returned error: %v", err)
			}

			if tt.wantError {
				if !result.IsError {
					t.Errorf("expected error result, got success")
				}
				if tt.errorCode != "" {
					assertErrorCode(t, result, tt.errorCode)
				}
			} else if result.IsError {
				t.Errorf("expected success, got error: %v", extractErrorMessage(result))
			}
		})
	}
}

// TestHandleList tests the list handler with contract assertions.
func TestHandleList(t *testing.T) {
	h, _, _ := testHandlers(t)
	ctx := context.Background()

	for _, date := range []string{"2026-01-01", "2026-01-02", "2026-01-03"} {
		req := makeRequest(map[string]any{"journal": "test", "date": date, "body": "entry " + date})
		result, err := h.HandleAdd(ctx, req)
		if err != nil || result.IsError {
			t.Fatalf("setup add failed: %v %v", err, extractErrorMessage(result))
		}
	}

	t.Run("pagination metadata correct", func(t *testing.T) {
		req := makeRequest(map[string]any{"journal": "test", "limit": 1, "offset": 0})
		result, err := h.HandleList(ctx, req)
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		output := parseOutput(t, result)
		pagination := output["pagination"].(map[string]any)

		if int(pagination["limit"].(float64)) != 1 {
			t.Errorf("pagination.limit = %v, want 1", pagination["limit"])
		}
		if pagination["has_more"] != true {
			t.Errorf("pagination.has_more = %v, want true", pagination["has_more"])
		}
		if int(pagination["total"].(float64)) != 3 {
			t.Errorf("pagination.total = %v, want 3", pagination["total"])
		}
	})

	t.Run("list never returns full body", func(t *testing.T) {
		req := makeRequest(map[string]any{"journal": "test"})
		result, err := h.HandleList(ctx, req)
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		output := parseOutput(t, result)
		items := output["items"].([]any)
		if len(items) != 3 {
			t.Fatalf("got %d items, want 3", len(items))
		}
		for i, item := range items {
			m := item.(map[string]any)
			if _, ok := m["body"]; ok {
				t.Errorf("item[%d] has body, list should only carry a preview", i)
			}
			if _, ok := m["preview"]; !ok {
				t.Errorf("item[%d] missing preview", i)
			}
		}
	})
}

// TestHandleLatest tests the latest handler with contract assertions.
func TestHandleLatest(t *testing.T) {
	h, _, _ := testHandlers(t)
	ctx := context.Background()

	t.Run("empty journal returns null", func(t *testing.T) {
		result, err := h.HandleLatest(ctx, makeRequest(map[string]any{"journal": "empty"}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		output := parseOutput(t, result)
		if output["item"] != nil {
			t.Error("expected null item for empty journal")
		}
	})

	addReq := makeRequest(map[string]any{"journal": "test", "date": "2026-01-05", "body": "the full text"})
	if result, err := h.HandleAdd(ctx, addReq); err != nil || result.IsError {
		t.Fatalf("setup add failed: %v %v", err, extractErrorMessage(result))
	}

	t.Run("include_text:false omits body", func(t *testing.T) {
		req := makeRequest(map[string]any{"journal": "test", "include_text": false})
		result, err := h.HandleLatest(ctx, req)
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		output := parseOutput(t, result)
		item := output["item"].(map[string]any)
		if item["body"] != nil && item["body"] != "" {
			t.Error("include_text:false should omit body")
		}
	})

	t.Run("include_text:true includes body", func(t *testing.T) {
		req := makeRequest(map[string]any{"journal": "test", "include_text": true})
		result, err := h.HandleLatest(ctx, req)
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		output := parseOutput(t, result)
		item := output["item"].(map[string]any)
		if item["body"] != "the full text" {
			t.Errorf("body = %v", item["body"])
		}
	})
}

// TestHandleDelete tests the delete handler.
func TestHandleDelete(t *testing.T) {
	h, _, _ := testHandlers(t)
	ctx := context.Background()

	addResult, err := h.HandleAdd(ctx, makeRequest(map[string]any{"body": "to delete"}))
	if err != nil || addResult.IsError {
		t.Fatalf("setup add failed: %v %v", err, extractErrorMessage(addResult))
	}
	var added map[string]any
	if err := json.Unmarshal([]byte(addResult.Content[0].(mcp.TextContent).Text), &added); err != nil {
		t.Fatalf("failed to unmarshal add result: %v", err)
	}
	id := added["id"].(string)

	result, err := h.HandleDelete(ctx, makeRequest(map[string]any{"id": id}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("delete failed: %v", extractErrorMessage(result))
	}

	// Deleting again is NOT_FOUND
	result, err = h.HandleDelete(ctx, makeRequest(map[string]any{"id": id}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error for already-deleted entry")
	}
	assertErrorCode(t, result, "NOT_FOUND")
}

// TestHandleExport tests the export handler.
func TestHandleExport(t *testing.T) {
	h, _, _ := testHandlers(t)
	ctx := context.Background()

	if result, err := h.HandleAdd(ctx, makeRequest(map[string]any{"body": "exported"})); err != nil || result.IsError {
		t.Fatalf("setup add failed: %v %v", err, extractErrorMessage(result))
	}

	exportPath := filepath.Join(t.TempDir(), "export.jsonl")
	result, err := h.HandleExport(ctx, makeRequest(map[string]any{"path": exportPath}))
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if result.IsError {
		t.Fatalf("export failed: %v", extractErrorMessage(result))
	}

	if _, err := os.Stat(exportPath); os.IsNotExist(err) {
		t.Fatal("export file not created")
	}

	output := parseOutput(t, result)
	if int(output["count"].(float64)) != 1 {
		t.Errorf("count = %v, want 1", output["count"])
	}
}

// TestHandleReflect tests the reflect handler end to end.
func TestHandleReflect(t *testing.T) {
	h, _, _ := testHandlers(t)
	ctx := context.Background()

	t.Run("silent below the entry minimum", func(t *testing.T) {
		result, err := h.HandleReflect(ctx, makeRequest(map[string]any{"journal": "sparse", "debug": true}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		output := parseOutput(t, result)
		if output["shouldSpeak"] != false {
			t.Errorf("shouldSpeak = %v, want false", output["shouldSpeak"])
		}
		if output["reflection"] != nil {
			t.Errorf("reflection = %v, want null", output["reflection"])
		}
	})

	for _, date := range []string{"2026-01-01", "2026-01-03", "2026-01-05", "2026-01-08", "2026-01-11"} {
		req := makeRequest(map[string]any{"journal": "rich", "date": date, "body": "walked before work"})
		if result, err := h.HandleAdd(ctx, req); err != nil || result.IsError {
			t.Fatalf("setup add failed: %v %v", err, extractErrorMessage(result))
		}
	}

	t.Run("speaks for an eligible journal", func(t *testing.T) {
		result, err := h.HandleReflect(ctx, makeRequest(map[string]any{"journal": "rich"}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		output := parseOutput(t, result)
		if output["shouldSpeak"] != true {
			t.Fatalf("shouldSpeak = %v, want true", output["shouldSpeak"])
		}
		if output["reflection"] == nil || output["reflection"] == "" {
			t.Error("reflection should be set")
		}
		if output["invitation"] != nil {
			t.Errorf("invitation = %v, want null", output["invitation"])
		}
	})

	t.Run("unconfigured provider surfaces 503", func(t *testing.T) {
		database, cfg := testSetup(t)
		bare := NewHandlers(database, cfg, pattern.NewEngine(nil))

		for _, date := range []string{"2026-01-01", "2026-01-03", "2026-01-05", "2026-01-08", "2026-01-11"} {
			req := makeRequest(map[string]any{"date": date, "body": "a day"})
			if result, err := bare.HandleAdd(ctx, req); err != nil || result.IsError {
				t.Fatalf("setup add failed: %v %v", err, extractErrorMessage(result))
			}
		}

		result, err := bare.HandleReflect(ctx, makeRequest(map[string]any{}))
		if err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if !result.IsError {
			t.Fatal("expected error result without a provider")
		}
		assertErrorCode(t, result, "PROVIDER_UNCONFIGURED")
	})
}

func TestServerRegistration(t *testing.T) {
	database, cfg := testSetup(t)

	s := NewServer(database, cfg, pattern.NewEngine(nil), "test")
	tools := s.ListTools()
	if tools == nil {
		t.Fatal("expected tools to be registered, got nil")
	}

	expectedTools := []string{
		"journal_add",
		"journal_list",
		"journal_latest",
		"journal_delete",
		"journal_export",
		"journal_reflect",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("registered tool count = %d, want %d", len(tools), len(expectedTools))
	}
	for _, name := range expectedTools {
		if _, ok := tools[name]; !ok {
			t.Errorf("missing registered tool: %s", name)
		}
	}
}

func TestServerRegistration_WithDisabledTools(t *testing.T) {
	database, cfg := testSetup(t)

	cfg.DisabledTools = []string{"journal_delete", "journal_export"}
	s := NewServer(database, cfg, pattern.NewEngine(nil), "test")
	tools := s.ListTools()

	if len(tools) != 4 {
		t.Errorf("registered tool count = %d, want 4", len(tools))
	}
	for _, name := range cfg.DisabledTools {
		if _, ok := tools[name]; ok {
			t.Errorf("disabled tool %q should not be registered", name)
		}
	}
}

func TestValidateDisabledTools(t *testing.T) {
	if unknown := ValidateDisabledTools([]string{"journal_add", "journal_reflect"}); len(unknown) != 0 {
		t.Errorf("valid names reported unknown: %v", unknown)
	}
	if unknown := ValidateDisabledTools([]string{"journal_add", "fake_tool"}); len(unknown) != 1 || unknown[0] != "fake_tool" {
		t.Errorf("unknown = %v, want [fake_tool]", unknown)
	}
}

func TestAllToolNames(t *testing.T) {
	names := AllToolNames()
	if len(names) != 6 {
		t.Errorf("AllToolNames() returned %d names, want 6", len(names))
	}
	if unknown := ValidateDisabledTools(names); len(unknown) != 0 {
		t.Errorf("AllToolNames() returned invalid names: %v", unknown)
	}
}

func TestErrorResult_InternalDoesNotExposeDetails(t *testing.T) {
	r := errorResult(errors.NewInternal(fmt.Errorf("sql error: open /tmp/secret.db: permission denied")))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj := payload["error"].(map[string]any)

	if errObj["code"] != string(errors.ErrInternal) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrInternal)
	}
	if _, ok := errObj["details"]; ok {
		t.Fatal("expected INTERNAL errors to omit details")
	}
}

func TestErrorResult_NonInternalIncludesDetails(t *testing.T) {
	r := errorResult(errors.NewNotFound("abc"))
	if !r.IsError {
		t.Fatal("expected IsError=true")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(r.Content[0].(mcp.TextContent).Text), &payload); err != nil {
		t.Fatalf("failed to unmarshal error payload: %v", err)
	}
	errObj := payload["error"].(map[string]any)

	if errObj["code"] != string(errors.ErrNotFound) {
		t.Fatalf("code=%v, want %v", errObj["code"], errors.ErrNotFound)
	}
	if _, ok := errObj["details"]; !ok {
		t.Fatal("expected non-INTERNAL errors to include details when present")
	}
}

// Helper functions

// parseOutput extracts and unmarshals the JSON output from an MCP result.
func parseOutput(t *testing.T, result *mcp.CallToolResult) map[string]any {
	t.Helper()
	if result.IsError {
		t.Fatalf("expected success, got error: %v", extractErrorMessage(result))
	}
	var output map[string]any
	if err := json.Unmarshal([]byte(result.Content[0].(mcp.TextContent).Text), &output); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	return output
}

func assertErrorCode(t *testing.T, result *mcp.CallToolResult, expectedCode string) {
	t.Helper()

	if len(result.Content) == 0 {
		t.Errorf("no content in error result")
		return
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Errorf("content is not TextContent")
		return
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(text.Text), &payload); err != nil {
		t.Errorf("failed to unmarshal error payload: %v", err)
		return
	}

	errorObj, ok := payload["error"].(map[string]any)
	if !ok {
		t.Errorf("no error object in payload")
		return
	}

	code, ok := errorObj["code"].(string)
	if !ok {
		t.Errorf("no code in error object")
		return
	}

	if code != expectedCode {
		t.Errorf("got error code %q, want %q", code, expectedCode)
	}
}

func extractErrorMessage(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return "<no content>"
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return "<not text content>"
	}

	return text.Text
}
