package ops

import (
	"database/sql"

	"github.com/hpungsan/ripple/internal/db"
	"github.com/hpungsan/ripple/internal/journal"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Journal string // default: "default"
	Limit   int    // default: 20, max: 100
	Offset  int    // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []journal.EntrySummary `json:"items"`
	Pagination Pagination             `json:"pagination"`
	Sort       string                 `json:"sort"`
}

// List retrieves entry summaries for a journal with pagination, newest first.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	journalNorm := normalizeJournal(input.Journal)

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	offset := max(input.Offset, 0)

	entries, err := db.ListEntriesPage(database, journalNorm, limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := db.CountEntries(database, journalNorm)
	if err != nil {
		return nil, err
	}

	// Empty array rather than nil for JSON consumers
	items := make([]journal.EntrySummary, 0, len(entries))
	for i := range entries {
		items = append(items, entries[i].ToSummary())
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
		Sort: "entry_date_desc",
	}, nil
}
