package pattern

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBuildPrompt_SerializesOneBlob(t *testing.T) {
	selected := []promptEntry{
		{Date: "2026-01-01", Body: "slept badly"},
		{Date: "2026-01-03", Body: "slept badly again", Vent: true},
	}

	req, err := buildPrompt(selected)
	if err != nil {
		t.Fatalf("buildPrompt failed: %v", err)
	}

	// The user text is a single JSON array, not per-entry messages
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(req.UserText), &decoded); err != nil {
		t.Fatalf("user text is not a JSON array: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d entries, want 2", len(decoded))
	}
	if decoded[0]["date"] != "2026-01-01" {
		t.Errorf("first entry date = %v", decoded[0]["date"])
	}
	if decoded[1]["vent"] != true {
		t.Errorf("vent flag not serialized: %v", decoded[1])
	}
}

func TestBuildPrompt_DeterministicForSameInput(t *testing.T) {
	selected := []promptEntry{{Date: "2026-01-01", Body: "a day"}}

	first, err := buildPrompt(selected)
	if err != nil {
		t.Fatalf("buildPrompt failed: %v", err)
	}
	second, err := buildPrompt(selected)
	if err != nil {
		t.Fatalf("buildPrompt failed: %v", err)
	}

	if first.UserText != second.UserText || first.SystemInstruction != second.SystemInstruction {
		t.Error("prompt should be deterministic for identical input")
	}
}

func TestSystemInstruction_Contract(t *testing.T) {
	// The instruction carries the fixed policy surface the sanitizer assumes.
	for _, want := range []string{
		"single line",
		"shouldSpeak",
		"240",
		"invitation",
		"vent",
	} {
		if !strings.Contains(systemInstruction, want) {
			t.Errorf("system instruction missing %q", want)
		}
	}

	// Every allowed timeRange phrase is named in the contract
	for _, phrase := range allowedTimeRanges {
		if !strings.Contains(systemInstruction, phrase) {
			t.Errorf("system instruction missing timeRange phrase %q", phrase)
		}
	}
}

func TestBuildPrompt_EmptySelection(t *testing.T) {
	req, err := buildPrompt(nil)
	if err != nil {
		t.Fatalf("buildPrompt failed: %v", err)
	}
	if req.UserText != "null" && req.UserText != "[]" {
		t.Errorf("UserText = %q", req.UserText)
	}
}
