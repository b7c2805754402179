package errors

import (
	"fmt"
	"testing"
)

func TestRippleError_Error(t *testing.T) {
	err := &RippleError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "entry not found",
	}

	expected := "NOT_FOUND: entry not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("body is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "body is required" {
		t.Errorf("Message = %q, want %q", err.Message, "body is required")
	}
}

func TestNewPathNotAllowed(t *testing.T) {
	err := NewPathNotAllowed("/etc/passwd")

	if err.Code != ErrPathNotAllowed {
		t.Errorf("Code = %q, want %q", err.Code, ErrPathNotAllowed)
	}
	if err.Status != 403 {
		t.Errorf("Status = %d, want 403", err.Status)
	}
	if err.Details["path"] != "/etc/passwd" {
		t.Errorf("Details[path] = %v, want %q", err.Details["path"], "/etc/passwd")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("01ARZ")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["identifier"] != "01ARZ" {
		t.Errorf("Details[identifier] = %v, want %q", err.Details["identifier"], "01ARZ")
	}
}

func TestNewEntryTooLarge(t *testing.T) {
	err := NewEntryTooLarge(20000, 25000)

	if err.Code != ErrEntryTooLarge {
		t.Errorf("Code = %q, want %q", err.Code, ErrEntryTooLarge)
	}
	if err.Status != 413 {
		t.Errorf("Status = %d, want 413", err.Status)
	}
	if err.Details["max_chars"] != 20000 {
		t.Errorf("Details[max_chars] = %v, want 20000", err.Details["max_chars"])
	}
	if err.Details["actual_chars"] != 25000 {
		t.Errorf("Details[actual_chars] = %v, want 25000", err.Details["actual_chars"])
	}
}

func TestNewProviderUnconfigured(t *testing.T) {
	err := NewProviderUnconfigured("GEMINI_API_KEY is not set")

	if err.Code != ErrProviderUnconfigured {
		t.Errorf("Code = %q, want %q", err.Code, ErrProviderUnconfigured)
	}
	if err.Status != 503 {
		t.Errorf("Status = %d, want 503", err.Status)
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("database locked"))

	if err.Code != ErrInternal {
		t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
	}
	if err.Status != 500 {
		t.Errorf("Status = %d, want 500", err.Status)
	}
	if err.Message != "database locked" {
		t.Errorf("Message = %q, want %q", err.Message, "database locked")
	}
}

func TestNewInternal_NilError(t *testing.T) {
	err := NewInternal(nil)

	if err.Message != "internal error" {
		t.Errorf("Message = %q, want %q", err.Message, "internal error")
	}
}

func TestIs(t *testing.T) {
	err := NewNotFound("x")

	if !Is(err, ErrNotFound) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrInternal) {
		t.Error("Is should not match a different code")
	}
	if Is(fmt.Errorf("plain error"), ErrNotFound) {
		t.Error("Is should not match plain errors")
	}
	if Is(nil, ErrNotFound) {
		t.Error("Is should not match nil")
	}
}
