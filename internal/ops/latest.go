package ops

import (
	"database/sql"

	"github.com/hpungsan/ripple/internal/db"
	"github.com/hpungsan/ripple/internal/journal"
)

// LatestInput contains parameters for the Latest operation.
type LatestInput struct {
	Journal     string // default: "default"
	IncludeText *bool  // default: false (summary only)
}

// LatestOutput contains the result of the Latest operation.
type LatestOutput struct {
	Item *LatestItem `json:"item"` // nil if the journal is empty
}

// LatestItem contains the latest entry with optional body text.
type LatestItem struct {
	journal.EntrySummary        // embedded summary
	Body                 string `json:"body,omitempty"` // only if include_text
}

// Latest retrieves the most recent entry in a journal by entry date.
func Latest(database *sql.DB, input LatestInput) (*LatestOutput, error) {
	journalNorm := normalizeJournal(input.Journal)

	includeText := false
	if input.IncludeText != nil {
		includeText = *input.IncludeText
	}

	e, err := db.GetLatestEntry(database, journalNorm)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return &LatestOutput{Item: nil}, nil
	}

	item := &LatestItem{EntrySummary: e.ToSummary()}
	if includeText {
		item.Body = e.Body
	}

	return &LatestOutput{Item: item}, nil
}
